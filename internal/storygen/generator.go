// Package storygen writes reading stories with an LLM.
package storygen

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/abhisek/storyquiz/internal/content"
	"github.com/abhisek/storyquiz/internal/llm"
	"github.com/abhisek/storyquiz/internal/story"
)

// Generator implements content.Source on top of an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

var _ content.Source = (*Generator)(nil)

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Generator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Generator{provider: provider, config: cfg}
}

// Generate asks the model for a story and validates it. Failures are
// reported as content errors: provider outages as *content.TransportError,
// rate limits as *content.StatusError and anything wrong with the output as
// *content.ParseError.
func (g *Generator) Generate(ctx context.Context, req content.Request) (story.Story, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeStoryGen)

	userMsg := buildUserMessage(req)

	var lastErr error
	for range g.config.MaxAttempts {
		s, verr, err := g.generateOnce(ctx, req, userMsg)
		if err != nil {
			return story.Story{}, err
		}
		if verr == nil {
			return s, nil
		}

		lastErr = &content.ParseError{Err: verr}
		if !verr.Retryable {
			break
		}
		userMsg = buildUserMessage(req) + retryHint(verr)
	}
	return story.Story{}, lastErr
}

func (g *Generator) generateOnce(ctx context.Context, req content.Request, userMsg string) (story.Story, *ValidationError, error) {
	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(userMsg),
		Schema:      StorySchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return story.Story{}, nil, contentError(err)
	}

	s, err := story.Decode(resp.Content)
	if err != nil {
		return story.Story{}, nil, &content.ParseError{Err: fmt.Errorf("decode story: %w", err)}
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(&s, req); verr != nil {
			return story.Story{}, verr, nil
		}
	}
	return s, nil, nil
}

// contentError maps provider errors onto the content error types.
func contentError(err error) error {
	var (
		invalid *llm.ErrInvalidResponse
		maxTok  *llm.ErrMaxTokensExceeded
		rate    *llm.ErrRateLimit
	)
	switch {
	case errors.As(err, &invalid), errors.As(err, &maxTok):
		return &content.ParseError{Err: err}
	case errors.As(err, &rate):
		return &content.StatusError{Code: http.StatusTooManyRequests, Body: err.Error()}
	}
	return &content.TransportError{Err: err}
}
