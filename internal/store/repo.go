package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures a single LLM request.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// Quiz event actions.
const (
	QuizStarted  = "started"
	QuizFinished = "finished"
)

// QuizEventData records a quiz run starting or finishing. The result fields
// are only meaningful for QuizFinished.
type QuizEventData struct {
	RunID     string
	Action    string
	Topic     string
	Title     string
	Source    string
	Questions int
	Correct   int
	Skipped   int
	Attempts  int
	HasScore  bool
	Score     int
	Grade     string
}

// QuizResultRecord is a stored finished quiz.
type QuizResultRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	QuizEventData
}

// EventRepo is the append-only event log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM requests, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one LLM request, or nil if id does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// AppendQuizEvent records a quiz run starting or finishing.
	AppendQuizEvent(ctx context.Context, data QuizEventData) error

	// QueryQuizResults returns finished quizzes, newest first.
	QueryQuizResults(ctx context.Context, opts QueryOpts) ([]QuizResultRecord, error)
}

// SnapshotData is the trainer state worth restoring on the next launch.
type SnapshotData struct {
	Version        int    `json:"version"`
	Topic          string `json:"topic,omitempty"`
	ParagraphCount int    `json:"paragraph_count,omitempty"`
}

// Snapshot is a point-in-time capture of SnapshotData.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}
