// Package report exports quiz history to Excel workbooks.
package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/storyquiz/internal/store"
	"github.com/abhisek/storyquiz/internal/story"
)

// Sheet names.
const (
	HistorySheet = "History"
	SummarySheet = "Summary"
)

var historyHeader = []any{
	"Finished", "Topic", "Title", "Source", "Questions", "Correct", "Skipped", "Attempts", "Score", "Grade",
}

// WriteXLSX writes results to a new workbook at path.
func WriteXLSX(results []store.QuizResultRecord, path string) error {
	f, err := build(results)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Write writes the workbook for results to w.
func Write(w io.Writer, results []store.QuizResultRecord) error {
	f, err := build(results)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func build(results []store.QuizResultRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", HistorySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeHistory(f, results); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("add summary sheet: %w", err)
	}
	if err := writeSummary(f, Summarize(results)); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeHistory(f *excelize.File, results []store.QuizResultRecord) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := f.SetSheetRow(HistorySheet, "A1", &historyHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(historyHeader), 1)
	if err := f.SetCellStyle(HistorySheet, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range results {
		var score, grade any = "", ""
		if r.HasScore {
			score, grade = r.Score, r.Grade
		}
		row := []any{
			r.Timestamp.Local().Format(time.DateTime),
			story.TitleTopic(r.Topic), r.Title, r.Source,
			r.Questions, r.Correct, r.Skipped, r.Attempts,
			score, grade,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(HistorySheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(HistorySheet, "A", "A", 20); err != nil {
		return err
	}
	return f.SetColWidth(HistorySheet, "B", "C", 28)
}

// Summary aggregates a set of results.
type Summary struct {
	Quizzes      int
	Scored       int
	AverageScore int
	BestScore    int
	Perfect      int
	Grades       map[string]int
}

// Summarize aggregates results. Quizzes without a score count towards
// Quizzes only.
func Summarize(results []store.QuizResultRecord) Summary {
	s := Summary{Quizzes: len(results), Grades: map[string]int{}}
	total := 0
	for _, r := range results {
		if !r.HasScore {
			continue
		}
		s.Scored++
		total += r.Score
		s.BestScore = max(s.BestScore, r.Score)
		if r.Score == 100 {
			s.Perfect++
		}
		s.Grades[r.Grade]++
	}
	if s.Scored > 0 {
		s.AverageScore = int(math.Round(float64(total) / float64(s.Scored)))
	}
	return s
}

func writeSummary(f *excelize.File, s Summary) error {
	rows := [][]any{
		{"Quizzes", s.Quizzes},
		{"Scored", s.Scored},
		{"Average score", s.AverageScore},
		{"Best score", s.BestScore},
		{"Perfect scores", s.Perfect},
	}
	for _, g := range []string{"A", "B", "C", "Unsatisfactory"} {
		rows = append(rows, []any{"Grade " + g, s.Grades[g]})
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return f.SetColWidth(SummarySheet, "A", "A", 20)
}
