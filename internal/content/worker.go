package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/storyquiz/internal/story"
)

// DefaultWorkerTimeout bounds a single worker call.
const DefaultWorkerTimeout = 20 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

// WorkerPayload is the JSON body posted to a story worker.
type WorkerPayload struct {
	Topic         string `json:"topic"`
	GradeLevel    int    `json:"gradeLevel"`
	NumParagraphs int    `json:"numParagraphs"`
	NumQuestions  int    `json:"numQuestions"`
}

// Request converts the payload back to a Request.
func (p WorkerPayload) Request() Request {
	return Request{
		Topic:          p.Topic,
		GradeLevel:     p.GradeLevel,
		ParagraphCount: p.NumParagraphs,
		QuestionCount:  p.NumQuestions,
	}
}

// PayloadFor builds the worker payload for a request.
func PayloadFor(req Request) WorkerPayload {
	return WorkerPayload{
		Topic:         req.Topic,
		GradeLevel:    req.GradeLevel,
		NumParagraphs: req.ParagraphCount,
		NumQuestions:  req.QuestionCount,
	}
}

// WorkerSource asks a remote story worker for a story over HTTP.
type WorkerSource struct {
	url    string
	client *http.Client
}

// NewWorkerSource returns a source posting to url. A nil client gets one with
// DefaultWorkerTimeout.
func NewWorkerSource(url string, client *http.Client) *WorkerSource {
	if client == nil {
		client = &http.Client{Timeout: DefaultWorkerTimeout}
	}
	return &WorkerSource{url: url, client: client}
}

func (w *WorkerSource) Generate(ctx context.Context, req Request) (story.Story, error) {
	body, err := json.Marshal(PayloadFor(req))
	if err != nil {
		return story.Story{}, &BuildError{Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return story.Story{}, &BuildError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := w.client.Do(httpReq)
	if err != nil {
		return story.Story{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return story.Story{}, &TransportError{Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return story.Story{}, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	s, err := story.Decode(data)
	if err != nil {
		return story.Story{}, &ParseError{Err: err}
	}
	return s, nil
}
