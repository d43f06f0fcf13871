package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/storyquiz/internal/content"
	"github.com/abhisek/storyquiz/internal/session"
	"github.com/abhisek/storyquiz/internal/story"
)

var previewCmd = &cobra.Command{
	Use:   "preview <topic>",
	Short: "Read a story and answer its questions in plain text (no database)",
	Long: `Generate a story with the configured source and answer its questions
line by line.

This is a stateless developer tool: no database, no history, no TUI.
Useful for checking story quality and the fallback path.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().IntP("paragraphs", "p", 0, "Story length in paragraphs, 1-6 (default from STORYQUIZ_PARAGRAPHS)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	paragraphs, _ := cmd.Flags().GetInt("paragraphs")
	if paragraphs == 0 {
		paragraphs = cfg.Content.Paragraphs
	}

	logger := cliLogger()
	stack, err := buildContent(cmd.Context(), cfg, nil, logger)
	if err != nil {
		return err
	}
	defer stack.Close()

	s := session.New()
	s = session.Apply(s, session.SetTopic{Topic: strings.Join(args, " ")})
	s = session.Apply(s, session.SetParagraphCount{Count: paragraphs})
	s = session.Apply(s, session.GenerateStory{})
	if s.Error != "" {
		return fmt.Errorf("%s", s.Error)
	}

	req := content.NewRequest(s.Topic, s.ParagraphCount)
	req.GradeLevel = cfg.Content.GradeLevel
	req.QuestionCount = cfg.Content.QuestionCount

	fmt.Fprintf(cmd.OutOrStdout(), "Writing a story about %s...\n\n", story.TitleTopic(s.Topic))
	res := stack.Resolver.Resolve(cmd.Context(), req)
	src := session.SourceFallback
	if res.Remote {
		src = session.SourceRemote
	}
	s = session.Apply(s, session.ContentResolved{
		Generation: s.Generation,
		Story:      res.Story,
		Source:     src,
		Notice:     res.Notice,
	})

	return quizLoop(cmd.InOrStdin(), cmd.OutOrStdout(), s)
}

// quizLoop prints the story in s and runs its questions against in. An
// empty answer skips the question.
func quizLoop(in io.Reader, out io.Writer, s session.Session) error {
	if s.Story == nil {
		return fmt.Errorf("no story")
	}
	if s.Error != "" {
		fmt.Fprintf(out, "(%s)\n\n", s.Error)
	}
	fmt.Fprintf(out, "%s\n%s\n\n", s.Story.Title, strings.Repeat("═", len([]rune(s.Story.Title))))
	for _, p := range s.Story.Paragraphs {
		fmt.Fprintf(out, "%s\n\n", p)
	}

	s = session.Apply(s, session.AcknowledgeRead{})
	scanner := bufio.NewScanner(in)

	for s.Phase == session.PhaseQuestioning {
		q, _ := s.Question()
		index := s.Index
		fmt.Fprintf(out, "── %s ──\n%s\n", session.QuestionHeader(s), q.Text)
		for j, c := range q.Choices() {
			fmt.Fprintf(out, "  %d) %s\n", j+1, c)
		}

		for s.Phase == session.PhaseQuestioning && s.Index == index {
			fmt.Fprint(out, "\nYour answer: ")
			if !scanner.Scan() {
				fmt.Fprintln(out, "\n(input closed)")
				return scanner.Err()
			}
			answer := strings.TrimSpace(scanner.Text())
			if answer == "" {
				s = session.Apply(s, session.SkipQuestion{})
				fmt.Fprintln(out, "(skipped)")
				continue
			}

			n, err := strconv.Atoi(answer)
			if err != nil || !q.ValidChoice(n-1) {
				fmt.Fprintf(out, "Please enter a number from 1 to %d.\n", len(q.Choices()))
				continue
			}
			s = session.Apply(s, session.SelectChoice{Index: n - 1})
			s = session.Apply(s, session.SubmitAnswer{})

			if s.Index != index || s.Phase != session.PhaseQuestioning {
				fmt.Fprintln(out, "\033[32m✓ Correct!\033[0m")
			} else {
				fmt.Fprintln(out, "\033[31m✗ Not quite, try again.\033[0m")
			}
		}
		fmt.Fprintln(out)
	}

	sum := session.BuildSummary(s)
	badge, desc := sum.GradeText()
	fmt.Fprintf(out, "── Result: %s %s ──\n", badge, desc)
	for _, line := range sum.Lines {
		fmt.Fprintln(out, line.String())
	}
	return nil
}
