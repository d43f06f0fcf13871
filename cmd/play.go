package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [topic]",
	Short: "Start reading right away, optionally on a given topic",
	Example: `  storyquiz play
  storyquiz play sea turtles --paragraphs 4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paragraphs, _ := cmd.Flags().GetInt("paragraphs")
		return runApp(cmd, appFlags{
			play:       true,
			topic:      strings.Join(args, " "),
			paragraphs: paragraphs,
		})
	},
}

func init() {
	playCmd.Flags().IntP("paragraphs", "p", 0, "Story length in paragraphs, 1-6 (default from STORYQUIZ_PARAGRAPHS)")
}
