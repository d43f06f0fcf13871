package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/storyquiz/internal/report"
	"github.com/abhisek/storyquiz/internal/session"
	"github.com/abhisek/storyquiz/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reading statistics",
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

		out := cmd.OutOrStdout()
		sum := report.Summarize(results)
		if sum.Quizzes == 0 {
			fmt.Fprintln(out, "No quizzes yet.")
			return nil
		}

		fmt.Fprintf(out, "Quizzes finished:  %d\n", sum.Quizzes)
		fmt.Fprintf(out, "Scored:            %d\n", sum.Scored)
		if sum.Scored > 0 {
			fmt.Fprintf(out, "Average score:     %d%%\n", sum.AverageScore)
			fmt.Fprintf(out, "Best score:        %d%%\n", sum.BestScore)
			fmt.Fprintf(out, "Perfect scores:    %d\n", sum.Perfect)

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Grades")
			fmt.Fprintln(out, strings.Repeat("─", 32))
			for _, g := range []session.Grade{session.GradeA, session.GradeB, session.GradeC, session.GradeU} {
				fmt.Fprintf(out, "%-16s  %-10s  %d\n", g.Letter, g.Label, sum.Grades[g.Letter])
			}
		}
		return nil
	},
}
