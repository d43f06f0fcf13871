package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/storyquiz/internal/report"
	"github.com/abhisek/storyquiz/internal/store"
	"github.com/abhisek/storyquiz/internal/story"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		results, err := s.EventRepo().QueryQuizResults(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No quizzes yet.")
			return nil
		}

		fmt.Fprintf(out, "%-16s  %-20s  %-28s  %-8s  %5s  %s\n",
			"Time", "Topic", "Title", "Source", "Score", "Grade")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, r := range results {
			score, grade := "-", "-"
			if r.HasScore {
				score = fmt.Sprintf("%d%%", r.Score)
				grade = r.Grade
			}
			fmt.Fprintf(out, "%-16s  %-20s  %-28s  %-8s  %5s  %s\n",
				r.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(story.TitleTopic(r.Topic), 20),
				truncate(r.Title, 28),
				r.Source,
				score,
				grade,
			)
		}
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export all finished quizzes to an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		results, err := s.EventRepo().QueryQuizResults(context.Background(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		if err := report.WriteXLSX(results, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d quizzes to %s\n", len(results), args[0])
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")
	historyCmd.AddCommand(historyExportCmd)
}
