package content

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/storyquiz/internal/fallback"
	"github.com/abhisek/storyquiz/internal/story"
)

// Resolution is the story a session should install.
type Resolution struct {
	Story story.Story

	// Remote is true when Story came from the configured source rather than
	// the fallback pool.
	Remote bool

	// Notice explains a fallback; empty when the source succeeded or none is
	// configured.
	Notice string

	// Err is the source failure behind a fallback, for logging.
	Err error
}

// Resolver gets a story from a Source and never fails: any error falls back
// to a canned story.
type Resolver struct {
	source   Source
	selector *fallback.Selector
	timeout  time.Duration
	logger   *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTimeout bounds each Resolve call. Zero means no extra deadline.
func WithTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) { r.timeout = d }
}

// WithLogger sets the resolver's logger.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver returns a resolver. A nil source always uses the fallback pool.
func NewResolver(source Source, selector *fallback.Selector, opts ...ResolverOption) *Resolver {
	r := &Resolver{source: source, selector: selector, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	if r.selector == nil {
		r.selector = fallback.NewSelector(nil)
	}
	return r
}

// Resolve returns a story for req.
func (r *Resolver) Resolve(ctx context.Context, req Request) Resolution {
	if r.source == nil {
		return Resolution{Story: r.selector.Select(req.ParagraphCount)}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	s, err := r.source.Generate(ctx, req)
	if err == nil {
		if vErr := s.Validate(); vErr != nil {
			err = &ParseError{Err: vErr}
		}
	}
	if err != nil {
		r.logger.Warn("story source failed, using fallback",
			"topic", req.Topic, "error", err, "elapsed", time.Since(start))
		return Resolution{
			Story:  r.selector.Select(req.ParagraphCount),
			Notice: Notice(err),
			Err:    err,
		}
	}

	r.logger.Info("story generated",
		"topic", req.Topic, "title", s.Title, "questions", len(s.Questions), "elapsed", time.Since(start))
	return Resolution{Story: s, Remote: true}
}
