package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/storyquiz/internal/store"
)

func TestMockProvider_ReplaysInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockJSON(map[string]string{"title": "First"}),
		MockResponse{Content: json.RawMessage(`{"title":"Second"}`)},
	)

	for _, want := range []string{`{"title":"First"}`, `{"title":"Second"}`} {
		resp, err := mock.Generate(context.Background(), Request{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(resp.Content) != want {
			t.Fatalf("content = %s, want %s", resp.Content, want)
		}
	}

	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable once drained, got %v", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockJSON(map[string]int{"n": 1}))
	_, _ = mock.Generate(context.Background(), Request{System: "sys", Messages: UserMessage("a story about owls")})

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].System != "sys" || calls[0].Messages[0].Content != "a story about owls" {
		t.Fatalf("unexpected recorded call: %+v", calls[0])
	}

	calls[0].System = "changed"
	if mock.Calls()[0].System != "sys" {
		t.Fatal("Calls must return a copy")
	}
}

func TestMockProvider_Push(t *testing.T) {
	mock := NewMockProvider()
	mock.Push(MockResponse{Err: &ErrRateLimit{}})

	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T", err)
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockJSON(map[string]any{"title": "Rain"}))
	_, err := mock.Generate(context.Background(), Request{Schema: quizSchema()})

	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestFinish_RejectsTruncatedOutput(t *testing.T) {
	_, err := finish(Request{}, &Response{Content: json.RawMessage(`{"title":"Ra`), StopReason: StopMaxTokens})

	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %v", err)
	}
	if !strings.Contains(err.Error(), "12 bytes") {
		t.Fatalf("error should report the received size, got %q", err.Error())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != PurposeUnknown {
		t.Fatalf("expected %q, got %q", PurposeUnknown, p)
	}
	if p := PurposeFrom(WithPurpose(ctx, PurposeStoryGen)); p != PurposeStoryGen {
		t.Fatalf("expected %q, got %q", PurposeStoryGen, p)
	}
	if p := PurposeFrom(WithPurpose(ctx, "")); p != PurposeUnknown {
		t.Fatalf("empty purpose should read as unknown, got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"anthropic without key", Config{Provider: ProviderAnthropic}, "STORYQUIZ_ANTHROPIC_API_KEY"},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "sk"}}, ""},
		{"openai without key", Config{Provider: ProviderOpenAI}, "STORYQUIZ_OPENAI_API_KEY"},
		{"gemini without key", Config{Provider: ProviderGemini}, "STORYQUIZ_GEMINI_API_KEY"},
		{"gemini with key", Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "g"}}, ""},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, "STORYQUIZ_OPENROUTER_API_KEY"},
		{"mock needs no key", Config{Provider: ProviderMock}, ""},
		{"unknown provider", Config{Provider: "llama"}, "unknown LLM provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !tt.cfg.Configured() {
					t.Fatal("Configured() = false for a valid config")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		EnvPrefix + "LLM_PROVIDER", EnvPrefix + "ANTHROPIC_API_KEY", EnvPrefix + "OPENAI_API_KEY",
		EnvPrefix + "GEMINI_API_KEY", EnvPrefix + "OPENROUTER_API_KEY", EnvPrefix + "LLM_TIMEOUT",
	} {
		t.Setenv(name, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv(EnvPrefix+"LLM_PROVIDER", "openai")
	t.Setenv(EnvPrefix+"OPENAI_API_KEY", "sk-test")
	t.Setenv(EnvPrefix+"OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv(EnvPrefix+"LLM_TIMEOUT", "10s")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.Model != "gpt-4.1-mini" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("timeout = %s, want 10s", cfg.Timeout)
	}
	if cfg.Anthropic.Model != "claude-haiku" {
		t.Fatalf("unset values should keep defaults, got %q", cfg.Anthropic.Model)
	}
}

func TestConfigFromEnv_BadTimeoutKeepsDefault(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv(EnvPrefix+"LLM_TIMEOUT", "soon")

	if got := ConfigFromEnv().Timeout; got != DefaultConfig().Timeout {
		t.Fatalf("timeout = %s, want default", got)
	}
}

func TestDiscoverConfig(t *testing.T) {
	clearLLMEnv(t)
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected nothing discovered with no keys set")
	}

	t.Setenv("ANTHROPIC_API_KEY", "a")
	t.Setenv("OPENAI_API_KEY", "o")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "o" {
		t.Fatalf("expected openai to win over anthropic, got %+v", cfg)
	}
}

func TestNewProviderFromEnv_NotConfigured(t *testing.T) {
	clearLLMEnv(t)

	_, _, err := NewProviderFromEnv(context.Background(), nil, nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestNewProviderFromEnv_Mock(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv(EnvPrefix+"LLM_PROVIDER", "mock")

	p, cfg, err := NewProviderFromEnv(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != ProviderMock || p.ModelID() != "mock" {
		t.Fatalf("expected mock provider, got %s / %s", cfg.Provider, p.ModelID())
	}
}

func TestNewProvider_WrapsWithRetryAndLogging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenAI
	cfg.OpenAI.APIKey = "sk-test"

	p, err := NewProvider(context.Background(), cfg, &recordingSink{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	retry, ok := p.(*RetryProvider)
	if !ok {
		t.Fatalf("outer provider = %T, want *RetryProvider", p)
	}
	if _, ok := retry.inner.(*LoggingProvider); !ok {
		t.Fatalf("inner provider = %T, want *LoggingProvider", retry.inner)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Fatalf("model = %q", p.ModelID())
	}
}

type recordingSink struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (s *recordingSink) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, data)
	return s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	sink := &recordingSink{}
	mock := NewMockProvider(MockJSON(map[string]string{"title": "Owls"}))
	p := WithLogging(mock, sink, quietLogger())

	ctx := WithPurpose(context.Background(), PurposeStoryGen)
	_, err := p.Generate(ctx, Request{System: "Write for grade 5.", Messages: UserMessage("owls")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if !ev.Success || ev.Provider != ProviderMock || ev.Purpose != PurposeStoryGen {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.InputTokens != 100 || ev.OutputTokens != 200 {
		t.Fatalf("tokens = %d/%d", ev.InputTokens, ev.OutputTokens)
	}
	if !strings.Contains(ev.RequestBody, "[system]\nWrite for grade 5.") || !strings.Contains(ev.RequestBody, "[user]\nowls") {
		t.Fatalf("request body = %q", ev.RequestBody)
	}
	if ev.ResponseBody != `{"title":"Owls"}` {
		t.Fatalf("response body = %q", ev.ResponseBody)
	}
}

func TestLoggingProvider_RecordsFailureAndSurvivesSinkError(t *testing.T) {
	sink := &recordingSink{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}})
	p := WithLogging(mock, sink, quietLogger())

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("provider error must pass through, got %v", err)
	}
	if len(sink.events) != 1 || sink.events[0].Success || sink.events[0].ErrorMessage == "" {
		t.Fatalf("unexpected events: %+v", sink.events)
	}
	if sink.events[0].Purpose != PurposeUnknown {
		t.Fatalf("purpose = %q", sink.events[0].Purpose)
	}
}

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		found bool
	}{
		{"gpt-4o-mini", true},
		{"google/gemini-2.0-flash-001", true},
		{"claude-haiku-4-5-20251001", true},
		{"llama-3-8b", false},
		{"meta/llama-3-8b", false},
	}
	for _, tt := range tests {
		if got := LookupCost(tt.model) != nil; got != tt.found {
			t.Errorf("LookupCost(%q) found = %v, want %v", tt.model, got, tt.found)
		}
	}

	cost := LookupCost("gpt-4o-mini").Cost(1_000_000, 1_000_000)
	if cost < 0.749 || cost > 0.751 {
		t.Fatalf("cost = %f, want 0.75", cost)
	}
}

func TestConfig_Model(t *testing.T) {
	cfg := DefaultConfig()
	tests := map[string]string{
		ProviderAnthropic:  cfg.Anthropic.Model,
		ProviderOpenAI:     cfg.OpenAI.Model,
		ProviderGemini:     cfg.Gemini.Model,
		ProviderOpenRouter: cfg.OpenRouter.Model,
		ProviderMock:       ProviderMock,
	}
	for provider, want := range tests {
		cfg.Provider = provider
		if got := cfg.Model(); got != want {
			t.Errorf("Model() with provider %q = %q, want %q", provider, got, want)
		}
	}
}
