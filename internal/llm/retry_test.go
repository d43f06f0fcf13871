package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var okStory = json.RawMessage(`{"title":"The Lighthouse Cat"}`)

func unavailable() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("connection reset")}}
}

func invalid() MockResponse {
	return MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`{"title":1}`), Err: errors.New("title: want string")}}
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		attempts  int
		wantErr   bool
		wantCalls int
	}{
		{
			name:      "first attempt succeeds",
			responses: []MockResponse{{Content: okStory}},
			wantCalls: 1,
		},
		{
			name:      "outage then success",
			responses: []MockResponse{unavailable(), {Content: okStory}},
			wantCalls: 2,
		},
		{
			name:      "rate limit honors retry-after",
			responses: []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}, {Content: okStory}},
			wantCalls: 2,
		},
		{
			name:      "outage on every attempt",
			responses: []MockResponse{unavailable(), unavailable(), unavailable(), {Content: okStory}},
			attempts:  3,
			wantErr:   true,
			wantCalls: 3,
		},
		{
			name:      "truncated output is final",
			responses: []MockResponse{{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{"title":"The Li`)}}, {Content: okStory}},
			wantErr:   true,
			wantCalls: 1,
		},
		{
			name:      "invalid output gets one more try",
			responses: []MockResponse{invalid(), {Content: okStory}},
			wantCalls: 2,
		},
		{
			name:      "invalid output twice gives up",
			responses: []MockResponse{invalid(), invalid(), {Content: okStory}},
			wantErr:   true,
			wantCalls: 2,
		},
		{
			name:      "second invalid after an outage still gives up",
			responses: []MockResponse{invalid(), unavailable(), invalid(), {Content: okStory}},
			wantErr:   true,
			wantCalls: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			cfg := fastRetry()
			cfg.MaxAttempts = 4
			if tt.attempts > 0 {
				cfg.MaxAttempts = tt.attempts
			}
			p := WithRetry(mock, cfg)

			resp, err := p.Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Generate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && string(resp.Content) != string(okStory) {
				t.Fatalf("content = %s, want %s", resp.Content, okStory)
			}
			if got := mock.CallCount(); got != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestRetry_ContextCanceledDuringBackoff(t *testing.T) {
	mock := NewMockProvider(unavailable(), unavailable(), MockResponse{Content: okStory})
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_ZeroAttemptsStillCallsOnce(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: okStory})
	p := WithRetry(mock, RetryConfig{})

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_BackoffCapped(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: time.Second, MaxWait: 2 * time.Second, Multiplier: 10}}
	for attempt := range 5 {
		wait := r.backoff(attempt, errors.New("down"))
		if wait > 2400*time.Millisecond {
			t.Fatalf("attempt %d: wait %s exceeds cap plus jitter", attempt, wait)
		}
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), fastRetry())
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}
