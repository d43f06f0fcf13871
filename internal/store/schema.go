package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Every event table starts with the same three columns: id, the global
// sequence and a UTC timestamp.
func eventColumns(cols ...*schema.Column) []*schema.Column {
	base := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
	return append(base, cols...)
}

var (
	llmRequestEventsColumns = eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	)
	llmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmRequestEventsColumns,
		PrimaryKey: []*schema.Column{llmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmRequestEventsColumns[2]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmRequestEventsColumns[5]}},
			{Name: "llmrequestevent_model", Columns: []*schema.Column{llmRequestEventsColumns[4]}},
		},
	}

	quizEventsColumns = eventColumns(
		&schema.Column{Name: "run_id", Type: field.TypeString},
		&schema.Column{Name: "action", Type: field.TypeString},
		&schema.Column{Name: "topic", Type: field.TypeString},
		&schema.Column{Name: "title", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "source", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "questions", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "correct", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "skipped", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "attempts", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "has_score", Type: field.TypeBool, Default: false},
		&schema.Column{Name: "score", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "grade", Type: field.TypeString, Default: ""},
	)
	quizEventsTable = &schema.Table{
		Name:       "quiz_events",
		Columns:    quizEventsColumns,
		PrimaryKey: []*schema.Column{quizEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "quizevent_timestamp", Columns: []*schema.Column{quizEventsColumns[2]}},
			{Name: "quizevent_run_id", Columns: []*schema.Column{quizEventsColumns[3]}},
			{Name: "quizevent_action", Columns: []*schema.Column{quizEventsColumns[4]}},
		},
	}

	snapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "data", Type: field.TypeJSON},
	}
	snapshotsTable = &schema.Table{
		Name:       "snapshots",
		Columns:    snapshotsColumns,
		PrimaryKey: []*schema.Column{snapshotsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "snapshot_timestamp", Columns: []*schema.Column{snapshotsColumns[2]}},
		},
	}

	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	sequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	tables = []*schema.Table{llmRequestEventsTable, quizEventsTable, snapshotsTable, sequenceTable}
)

func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}
