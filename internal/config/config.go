// Package config loads StoryQuiz settings from STORYQUIZ_* environment
// variables, after merging any .env file into the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/storyquiz/internal/fallback"
	"github.com/abhisek/storyquiz/internal/llm"
	"github.com/abhisek/storyquiz/internal/store"
)

// Prefix is shared by every variable, including the LLM ones.
const Prefix = llm.EnvPrefix

// Content source modes.
const (
	SourceAuto     = "auto"     // worker if set, else LLM if configured, else fallback
	SourceLLM      = "llm"      // LLM only
	SourceWorker   = "worker"   // remote worker only
	SourceFallback = "fallback" // built-in pool only
)

// Config holds all application configuration.
type Config struct {
	// DBPath is empty unless STORYQUIZ_DB is set; store.DefaultDBPath
	// resolves the default.
	DBPath  string
	Content ContentConfig
	Cache   CacheConfig
	Log     LogConfig
	Serve   ServeConfig
	LLM     llm.Config
}

// ContentConfig controls where stories come from.
type ContentConfig struct {
	Source        string
	WorkerURL     string
	WorkerTimeout time.Duration
	GradeLevel    int
	QuestionCount int
	Paragraphs    int
	StoryDir      string
}

// CacheConfig holds the Redis story cache settings. An empty URL disables it.
type CacheConfig struct {
	URL string
	TTL time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// ServeConfig holds the story worker API settings.
type ServeConfig struct {
	Addr string
}

// Load merges .env (if present) into the environment and reads the config.
// Variables that are already set win over .env values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv reads the config from the environment alone.
func FromEnv() *Config {
	return &Config{
		DBPath: envStr("DB", ""),
		Content: ContentConfig{
			Source:        strings.ToLower(envStr("CONTENT_SOURCE", SourceAuto)),
			WorkerURL:     envStr("WORKER_URL", ""),
			WorkerTimeout: envDuration("WORKER_TIMEOUT", 20*time.Second),
			GradeLevel:    envInt("GRADE_LEVEL", 5),
			QuestionCount: envInt("QUESTION_COUNT", 4),
			Paragraphs:    envInt("PARAGRAPHS", 3),
			StoryDir:      envStr("STORY_DIR", ""),
		},
		Cache: CacheConfig{
			URL: envStr("CACHE_URL", ""),
			TTL: envDuration("CACHE_TTL", 24*time.Hour),
		},
		Log: LogConfig{
			Level:  envStr("LOG_LEVEL", "info"),
			Format: envStr("LOG_FORMAT", "text"),
			File:   envStr("LOG_FILE", defaultLogFile()),
		},
		Serve: ServeConfig{
			Addr: envStr("SERVE_ADDR", ":8787"),
		},
		LLM: llm.ConfigFromEnv(),
	}
}

// Validate checks values that would otherwise fail later and less clearly.
func (c *Config) Validate() error {
	var errs []error

	switch c.Content.Source {
	case SourceAuto, SourceLLM, SourceFallback:
	case SourceWorker:
		if c.Content.WorkerURL == "" {
			errs = append(errs, fmt.Errorf("%sWORKER_URL is required when %sCONTENT_SOURCE=worker", Prefix, Prefix))
		}
	default:
		errs = append(errs, fmt.Errorf("%sCONTENT_SOURCE must be auto, llm, worker or fallback, got %q", Prefix, c.Content.Source))
	}

	if p := c.Content.Paragraphs; p < fallback.MinParagraphs || p > fallback.MaxParagraphs {
		errs = append(errs, fmt.Errorf("%sPARAGRAPHS must be between %d and %d, got %d", Prefix, fallback.MinParagraphs, fallback.MaxParagraphs, p))
	}
	if q := c.Content.QuestionCount; q < 1 || q > 10 {
		errs = append(errs, fmt.Errorf("%sQUESTION_COUNT must be between 1 and 10, got %d", Prefix, q))
	}
	if g := c.Content.GradeLevel; g < 1 || g > 12 {
		errs = append(errs, fmt.Errorf("%sGRADE_LEVEL must be between 1 and 12, got %d", Prefix, g))
	}
	if c.Content.WorkerTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%sWORKER_TIMEOUT must be positive", Prefix))
	}
	if c.Cache.URL != "" && c.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("%sCACHE_TTL must be positive", Prefix))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("%sLOG_FORMAT must be text or json, got %q", Prefix, c.Log.Format))
	}

	return errors.Join(errs...)
}

func defaultLogFile() string {
	dir, err := store.DataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "storyquiz.log")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(Prefix + key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(Prefix + key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(Prefix + key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
