package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/storyquiz/internal/fallback"
	"github.com/abhisek/storyquiz/internal/story"
)

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "Inspect the built-in story library and story packs",
}

var storiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the fallback stories (built-in plus STORYQUIZ_STORY_DIR packs)",
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := fallbackSelector()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-4s  %-40s  %10s  %9s\n", "#", "Title", "Paragraphs", "Questions")
		fmt.Fprintln(out, strings.Repeat("─", 70))
		for i, s := range sel.Stories() {
			fmt.Fprintf(out, "%-4d  %-40s  %10d  %9d\n",
				i+1, truncate(s.Title, 40), len(s.Paragraphs), len(s.Questions))
		}
		return nil
	},
}

var storiesCheckCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate story pack files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			p, err := story.LoadPack(path)
			if err != nil {
				failed++
				fmt.Fprintf(out, "✗ %v\n", err)
				continue
			}
			fmt.Fprintf(out, "✓ %s: %s, %d stories\n", path, p.Version, len(p.Stories))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d packs invalid", failed, len(args))
		}
		return nil
	},
}

var storiesSampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print one fallback selection as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		paragraphs, _ := cmd.Flags().GetInt("paragraphs")
		if paragraphs == 0 {
			paragraphs = cfg.Content.Paragraphs
		}

		sel, err := fallbackSelector()
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(sel.Select(paragraphs))
	},
}

// fallbackSelector builds the fallback pool without any remote source.
func fallbackSelector() (*fallback.Selector, error) {
	var extra []story.Story
	if cfg.Content.StoryDir != "" {
		stories, err := story.LoadPackDir(cfg.Content.StoryDir, cliLogger())
		if err != nil {
			return nil, err
		}
		extra = stories
	}
	return fallback.NewSelector(nil, extra...), nil
}

func init() {
	storiesSampleCmd.Flags().IntP("paragraphs", "p", 0, "Paragraphs to keep, 1-6 (default from STORYQUIZ_PARAGRAPHS)")

	storiesCmd.AddCommand(storiesListCmd)
	storiesCmd.AddCommand(storiesCheckCmd)
	storiesCmd.AddCommand(storiesSampleCmd)
}
