package content

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/storyquiz/internal/story"
)

// RetryConfig controls retry behavior for a Source.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig keeps the whole retry budget short; a learner is waiting.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 3,
	InitialWait: 250 * time.Millisecond,
	MaxWait:     2 * time.Second,
	Multiplier:  2.0,
}

// RetrySource retries transient source failures with exponential backoff
// and jitter.
type RetrySource struct {
	inner  Source
	config RetryConfig
}

// WithRetry wraps a Source with retry logic.
func WithRetry(s Source, cfg RetryConfig) Source {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetrySource{inner: s, config: cfg}
}

func (r *RetrySource) Generate(ctx context.Context, req Request) (story.Story, error) {
	var lastErr error

	for attempt := range r.config.MaxAttempts {
		s, err := r.inner.Generate(ctx, req)
		if err == nil {
			return s, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return story.Story{}, err
		}
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return story.Story{}, &TransportError{Err: ctx.Err()}
		case <-time.After(r.backoff(attempt)):
		}
	}

	return story.Story{}, lastErr
}

// shouldRetry retries unreachable sources and 429/5xx statuses. Bad requests
// and bad payloads will not improve on a second try.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var status *StatusError
	if errors.As(err, &status) {
		return status.Retryable()
	}
	var transport *TransportError
	return errors.As(err, &transport)
}

func (r *RetrySource) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
