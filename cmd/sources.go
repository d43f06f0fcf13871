package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abhisek/storyquiz/internal/config"
	"github.com/abhisek/storyquiz/internal/content"
	"github.com/abhisek/storyquiz/internal/fallback"
	"github.com/abhisek/storyquiz/internal/llm"
	"github.com/abhisek/storyquiz/internal/story"
	"github.com/abhisek/storyquiz/internal/storygen"
)

// contentStack is the assembled story pipeline for one process.
type contentStack struct {
	Resolver *content.Resolver
	Selector *fallback.Selector

	// Source is nil when only built-in stories are available.
	Source content.Source

	// Label names the source for display, e.g. "claude-haiku via anthropic".
	Label string

	closers []func() error
}

// Close releases the cache connection, if any.
func (c *contentStack) Close() error {
	var errs []error
	for _, fn := range c.closers {
		errs = append(errs, fn())
	}
	return errors.Join(errs...)
}

// buildContent wires the fallback pool, the configured source and the
// optional cache. sink records LLM requests and may be nil.
func buildContent(ctx context.Context, c config.Config, sink llm.EventSink, logger *slog.Logger) (*contentStack, error) {
	var extra []story.Story
	if c.Content.StoryDir != "" {
		stories, err := story.LoadPackDir(c.Content.StoryDir, logger)
		if err != nil {
			return nil, fmt.Errorf("load story packs: %w", err)
		}
		extra = stories
	}
	stack := &contentStack{Selector: fallback.NewSelector(nil, extra...)}

	source, label, timeout, err := buildSource(ctx, c, sink, logger)
	if err != nil {
		return nil, err
	}

	if source != nil && c.Cache.URL != "" {
		cache, err := content.NewRedisCache(ctx, c.Cache.URL)
		if err != nil {
			logger.Warn("story cache unavailable, continuing without it", "error", err)
		} else {
			source = content.WithCache(source, cache, c.Cache.TTL, logger)
			stack.closers = append(stack.closers, cache.Close)
		}
	}

	stack.Source = source
	stack.Label = label
	stack.Resolver = content.NewResolver(source, stack.Selector,
		content.WithTimeout(timeout),
		content.WithLogger(logger),
	)
	return stack, nil
}

// buildSource picks the story source for c.Content.Source. In auto mode a
// worker URL wins over an LLM key; with neither, the source is nil.
func buildSource(ctx context.Context, c config.Config, sink llm.EventSink, logger *slog.Logger) (content.Source, string, time.Duration, error) {
	mode := c.Content.Source
	if mode == config.SourceAuto {
		mode = autoMode(c)
	}

	switch mode {
	case config.SourceWorker:
		client := &http.Client{Timeout: c.Content.WorkerTimeout}
		src := content.WithRetry(content.NewWorkerSource(c.Content.WorkerURL, client), content.DefaultRetryConfig)
		return src, "story worker", 0, nil

	case config.SourceLLM:
		llmCfg, ok := llmConfig(c)
		if !ok {
			return nil, "", 0, llm.ErrNotConfigured
		}
		provider, err := llm.NewProvider(ctx, llmCfg, sink, logger)
		if err != nil {
			return nil, "", 0, fmt.Errorf("LLM provider: %w", err)
		}
		label := fmt.Sprintf("%s via %s", provider.ModelID(), llmCfg.Provider)
		return storygen.New(provider, storygen.DefaultConfig()), label, llmCfg.Timeout, nil
	}

	return nil, "", 0, nil
}

// llmConfig returns the STORYQUIZ_ LLM settings when complete, otherwise
// whatever vendor key DiscoverConfig finds.
func llmConfig(c config.Config) (llm.Config, bool) {
	if c.LLM.Configured() {
		return c.LLM, true
	}
	return llm.DiscoverConfig()
}

// autoMode resolves SourceAuto to a concrete mode.
func autoMode(c config.Config) string {
	if c.Content.WorkerURL != "" {
		return config.SourceWorker
	}
	if _, ok := llmConfig(c); ok {
		return config.SourceLLM
	}
	return config.SourceFallback
}
