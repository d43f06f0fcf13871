package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var quizEventColumns = []string{
	"id", "sequence", "timestamp", "run_id", "action", "topic", "title", "source",
	"questions", "correct", "skipped", "attempts", "has_score", "score", "grade",
}

func (r *eventRepo) AppendQuizEvent(ctx context.Context, data QuizEventData) error {
	if data.RunID == "" {
		return fmt.Errorf("save quiz event: empty run ID")
	}
	if data.Action != QuizStarted && data.Action != QuizFinished {
		return fmt.Errorf("save quiz event: unknown action %q", data.Action)
	}

	err := r.insert(ctx, quizEventsTable.Name,
		quizEventColumns[3:],
		[]any{
			data.RunID, data.Action, data.Topic, data.Title, data.Source,
			data.Questions, data.Correct, data.Skipped, data.Attempts,
			data.HasScore, data.Score, data.Grade,
		})
	if err != nil {
		return fmt.Errorf("save quiz event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuizResults(ctx context.Context, opts QueryOpts) ([]QuizResultRecord, error) {
	sel := builder.Select(quizEventColumns...).
		From(entsql.Table(quizEventsTable.Name)).
		Where(entsql.EQ("action", QuizFinished))
	query, args := applyOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz results: %w", err)
	}
	defer rows.Close()

	var out []QuizResultRecord
	for rows.Next() {
		var q QuizResultRecord
		err := rows.Scan(
			&q.ID, &q.Sequence, &q.Timestamp, &q.RunID, &q.Action, &q.Topic, &q.Title, &q.Source,
			&q.Questions, &q.Correct, &q.Skipped, &q.Attempts, &q.HasScore, &q.Score, &q.Grade,
		)
		if err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
