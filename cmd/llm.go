package cmd

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/storyquiz/internal/config"
	"github.com/abhisek/storyquiz/internal/llm"
	"github.com/abhisek/storyquiz/internal/store"
	"github.com/abhisek/storyquiz/internal/story"
	"github.com/abhisek/storyquiz/internal/storygen"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect story generation calls",
}

var llmStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which story source and model would be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Source:    %s (resolves to %s)\n", cfg.Content.Source, resolvedMode(cfg.Content.Source))
		if cfg.Content.WorkerURL != "" {
			fmt.Fprintf(out, "Worker:    %s\n", cfg.Content.WorkerURL)
		}
		lc, ok := llmConfig(cfg)
		if !ok {
			fmt.Fprintln(out, "LLM:       not configured")
			return nil
		}
		fmt.Fprintf(out, "LLM:       %s / %s\n", lc.Provider, lc.Model())
		fmt.Fprintf(out, "Timeout:   %s\n", lc.Timeout)
		return nil
	},
}

var llmLogCmd = &cobra.Command{
	Use:   "log",
	Short: "List recent story generation calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		failed, _ := cmd.Flags().GetBool("failed")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		fetch := limit
		if failed {
			fetch = 0
		}
		events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{Limit: fetch})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if failed {
			events = slices.DeleteFunc(events, func(e store.LLMRequestEventRecord) bool { return e.Success })
			if limit > 0 && len(events) > limit {
				events = events[:limit]
			}
		}
		writeLLMLog(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one generation call and the story it produced",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(context.Background(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		writeLLMEvent(cmd.OutOrStdout(), *e)
		return nil
	},
}

var llmTopicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Break down generation calls and estimated cost by story topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		writeTopicUsage(cmd.OutOrStdout(), events)
		return nil
	},
}

func resolvedMode(mode string) string {
	if mode == config.SourceAuto {
		return autoMode(cfg)
	}
	return mode
}

func writeLLMLog(out io.Writer, events []store.LLMRequestEventRecord) {
	if len(events) == 0 {
		fmt.Fprintln(out, "No generation calls recorded.")
		return
	}

	fmt.Fprintf(out, "%-5s  %-16s  %-20s  %-24s  %11s  %6s  %s\n",
		"ID", "Time", "Topic", "Model", "Tokens", "Ms", "Status")
	fmt.Fprintln(out, strings.Repeat("─", 100))
	for _, e := range events {
		status := "ok"
		if !e.Success {
			status = "failed: " + truncate(e.ErrorMessage, 30)
		}
		fmt.Fprintf(out, "%-5d  %-16s  %-20s  %-24s  %5d/%-5d  %6d  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			truncate(topicLabel(e), 20),
			truncate(e.Model, 24),
			e.InputTokens, e.OutputTokens,
			e.LatencyMs,
			status,
		)
	}
}

func writeLLMEvent(out io.Writer, e store.LLMRequestEventRecord) {
	fmt.Fprintf(out, "ID:        %d\n", e.ID)
	fmt.Fprintf(out, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Topic:     %s\n", topicLabel(e))
	fmt.Fprintf(out, "Model:     %s / %s\n", e.Provider, e.Model)
	fmt.Fprintf(out, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(out, "Latency:   %dms\n", e.LatencyMs)
	if !e.Success {
		fmt.Fprintf(out, "Error:     %s\n", e.ErrorMessage)
	}

	sep := strings.Repeat("─", 60)
	fmt.Fprintln(out)
	fmt.Fprintln(out, sep)
	if e.ResponseBody == "" {
		fmt.Fprintln(out, "(no response captured)")
		return
	}
	st, err := story.Decode([]byte(e.ResponseBody))
	if err != nil || (st.Title == "" && len(st.Paragraphs) == 0) {
		// Not a story: show the raw body, indented when it is JSON.
		var buf bytes.Buffer
		if json.Indent(&buf, []byte(e.ResponseBody), "", "  ") == nil {
			fmt.Fprintln(out, buf.String())
		} else {
			fmt.Fprintln(out, e.ResponseBody)
		}
		return
	}
	fmt.Fprintf(out, "%s\n", st.Title)
	fmt.Fprintf(out, "%d paragraphs, %d questions\n", len(st.Paragraphs), len(st.Questions))
	if err := st.Validate(); err != nil {
		fmt.Fprintf(out, "Rejected:  %v\n", err)
	}
	fmt.Fprintln(out, sep)
	for _, p := range st.Paragraphs {
		fmt.Fprintf(out, "%s\n\n", p)
	}
	for i, q := range st.Questions {
		fmt.Fprintf(out, "Q%d. %s\n", i+1, q.Text)
	}
}

type topicUsage struct {
	Topic        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	Cost         float64
	Priced       bool
}

// usageByTopic groups events by story topic, most called first. Cost is
// summed only over models with known pricing; Priced is false when any call
// for the topic used an unpriced model.
func usageByTopic(events []store.LLMRequestEventRecord) []topicUsage {
	idx := map[string]int{}
	var rows []topicUsage
	for _, e := range events {
		topic := topicLabel(e)
		i, ok := idx[topic]
		if !ok {
			i = len(rows)
			idx[topic] = i
			rows = append(rows, topicUsage{Topic: topic, Priced: true})
		}
		r := &rows[i]
		r.Calls++
		if !e.Success {
			r.Failures++
		}
		r.InputTokens += e.InputTokens
		r.OutputTokens += e.OutputTokens
		if c := llm.LookupCost(e.Model); c != nil {
			r.Cost += c.Cost(e.InputTokens, e.OutputTokens)
		} else {
			r.Priced = false
		}
	}
	slices.SortStableFunc(rows, func(a, b topicUsage) int {
		return cmp.Or(cmp.Compare(b.Calls, a.Calls), strings.Compare(a.Topic, b.Topic))
	})
	return rows
}

func writeTopicUsage(out io.Writer, events []store.LLMRequestEventRecord) {
	rows := usageByTopic(events)
	if len(rows) == 0 {
		fmt.Fprintln(out, "No generation calls recorded.")
		return
	}

	fmt.Fprintf(out, "%-24s  %6s  %6s  %10s  %10s\n", "Topic", "Calls", "Failed", "Tokens", "Cost")
	fmt.Fprintln(out, strings.Repeat("─", 66))
	var calls, failures, tokens int
	var total float64
	priced := true
	for _, r := range rows {
		cost := formatCost(r.Cost)
		if !r.Priced {
			cost += "+"
			priced = false
		}
		fmt.Fprintf(out, "%-24s  %6d  %6d  %10d  %10s\n",
			truncate(r.Topic, 24), r.Calls, r.Failures, r.InputTokens+r.OutputTokens, cost)
		calls += r.Calls
		failures += r.Failures
		tokens += r.InputTokens + r.OutputTokens
		total += r.Cost
	}
	fmt.Fprintln(out, strings.Repeat("─", 66))
	fmt.Fprintf(out, "%-24s  %6d  %6d  %10d  %10s\n", "TOTAL", calls, failures, tokens, formatCost(total))
	if stories := calls - failures; stories > 0 {
		fmt.Fprintf(out, "\n%d stories generated, %s per story\n", stories, formatCost(total/float64(stories)))
	}
	if !priced {
		fmt.Fprintln(out, "+ includes calls to models without known pricing")
	}
}

func topicLabel(e store.LLMRequestEventRecord) string {
	if t := storygen.TopicOf(e.RequestBody); t != "" {
		return t
	}
	return "(unknown)"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmLogCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmLogCmd.Flags().Bool("failed", false, "Only show failed calls")

	llmCmd.AddCommand(llmStatusCmd)
	llmCmd.AddCommand(llmLogCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmTopicsCmd)
}
