// Package worker serves stories over HTTP in the format content.WorkerSource
// consumes, so one StoryQuiz install can generate stories for others.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/storyquiz/internal/content"
	"github.com/abhisek/storyquiz/internal/fallback"
	"github.com/abhisek/storyquiz/internal/story"
)

// maxPayload caps request bodies.
const maxPayload = 64 << 10

// Options configures a Server.
type Options struct {
	// Timeout bounds each upstream Generate call. Zero means 60s.
	Timeout time.Duration

	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string

	Logger *slog.Logger
}

// Server answers story requests from an upstream content.Source.
type Server struct {
	source  content.Source
	timeout time.Duration
	origins []string
	logger  *slog.Logger
}

// New returns a server generating stories with source.
func New(source content.Source, opts Options) *Server {
	s := &Server{
		source:  source,
		timeout: opts.Timeout,
		origins: opts.AllowedOrigins,
		logger:  opts.Logger,
	}
	if s.timeout <= 0 {
		s.timeout = 60 * time.Second
	}
	if len(s.origins) == 0 {
		s.origins = []string{"*"}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/story", s.handleStory)

	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("story worker listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down story worker")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStory(w http.ResponseWriter, r *http.Request) {
	var payload content.WorkerPayload
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayload))
	if err := dec.Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	req := requestFor(payload)
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	st, err := s.source.Generate(ctx, req)
	if err == nil {
		err = st.Validate()
	}
	if err != nil {
		s.logger.Warn("story generation failed",
			"request_id", middleware.GetReqID(r.Context()), "topic", req.Topic, "error", err)
		writeError(w, http.StatusBadGateway, "story generation failed")
		return
	}

	writeJSON(w, http.StatusOK, st)
}

// requestFor normalizes a payload, filling defaults for missing counts and
// capping the rest at what a valid story may contain.
func requestFor(p content.WorkerPayload) content.Request {
	req := p.Request()
	req.Topic = story.NormalizeTopic(req.Topic)
	if req.GradeLevel <= 0 {
		req.GradeLevel = content.DefaultGradeLevel
	}
	if req.QuestionCount <= 0 {
		req.QuestionCount = content.DefaultQuestionCount
	}
	req.QuestionCount = min(req.QuestionCount, story.DefaultLimits.MaxQuestions)
	if req.ParagraphCount <= 0 {
		req.ParagraphCount = 3
	}
	req.ParagraphCount = fallback.ClampParagraphs(req.ParagraphCount)
	return req
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
