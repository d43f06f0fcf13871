package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/storyquiz/internal/fallback"
	"github.com/abhisek/storyquiz/internal/story"
)

func remoteStory() story.Story {
	return story.Story{
		Title:      "Volcano Day",
		Paragraphs: []string{"The class visited a volcano museum.", "They saw lava rocks."},
		Questions: []story.Question{
			story.NewMultipleChoice("Where did the class go?", 0, []string{"A zoo", "A volcano museum"}, 1),
		},
	}
}

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 2 * time.Millisecond, Multiplier: 2}
}

func testSelector() *fallback.Selector {
	return fallback.NewSelector(rand.New(rand.NewPCG(1, 2)))
}

func TestNewRequest(t *testing.T) {
	req := NewRequest("  ocean   animals ", 2)
	assert.Equal(t, "ocean animals", req.Topic)
	assert.Equal(t, DefaultGradeLevel, req.GradeLevel)
	assert.Equal(t, 2, req.ParagraphCount)
	assert.Equal(t, DefaultQuestionCount, req.QuestionCount)
	assert.Equal(t, NewRequest("ocean animals", 2).Key(), req.Key())
	assert.NotEqual(t, NewRequest("ocean animals", 3).Key(), req.Key())
}

func TestWorkerSource_Success(t *testing.T) {
	var got WorkerPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(remoteStory())
	}))
	defer srv.Close()

	src := NewWorkerSource(srv.URL, srv.Client())
	s, err := src.Generate(context.Background(), NewRequest("volcanoes", 2))
	require.NoError(t, err)

	assert.Equal(t, WorkerPayload{Topic: "volcanoes", GradeLevel: 5, NumParagraphs: 2, NumQuestions: 4}, got)
	assert.Equal(t, "Volcano Day", s.Title)
	assert.Equal(t, 1, s.Questions[0].CorrectIndex())
}

func TestWorkerSource_PayloadFieldNames(t *testing.T) {
	data, err := json.Marshal(PayloadFor(NewRequest("bees", 3)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"topic":"bees","gradeLevel":5,"numParagraphs":3,"numQuestions":4}`, string(data))
}

func TestWorkerSource_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, 500, se.Code)
				assert.Equal(t, "boom", se.Body)
			},
		},
		{
			name: "created is not ok",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(remoteStory())
			},
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, 201, se.Code)
			},
		},
		{
			name: "parse",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"title": 12}`)
			},
			check: func(t *testing.T, err error) {
				var pe *ParseError
				require.ErrorAs(t, err, &pe)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewWorkerSource(srv.URL, srv.Client()).Generate(context.Background(), NewRequest("x", 1))
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestWorkerSource_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewWorkerSource(url, nil).Generate(context.Background(), NewRequest("x", 1))
	var te *TransportError
	require.ErrorAs(t, err, &te)
}

func TestWorkerSource_BadURL(t *testing.T) {
	_, err := NewWorkerSource("://nope", nil).Generate(context.Background(), NewRequest("x", 1))
	var be *BuildError
	require.ErrorAs(t, err, &be)
}

func TestNotice(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&BuildError{Err: errors.New("bad url")}, "Could not build AI request; using fallback. (bad url)"},
		{&ParseError{Err: errors.New("eof")}, "AI response parse error; using fallback. (eof)"},
		{&StatusError{Code: 503}, "AI story request failed with status 503; using fallback."},
		{&TransportError{Err: errors.New("refused")}, "Could not reach AI Worker; using fallback. (refused)"},
		{fmt.Errorf("wrapped: %w", &StatusError{Code: 429}), "AI story request failed with status 429; using fallback."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Notice(tt.err))
	}
}

func TestRetrySource(t *testing.T) {
	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   bool
	}{
		{"success first", nil, 1, false},
		{"503 then success", []error{&StatusError{Code: 503}}, 2, false},
		{"429 twice then success", []error{&StatusError{Code: 429}, &StatusError{Code: 429}}, 3, false},
		{"transport exhausted", []error{&TransportError{}, &TransportError{}, &TransportError{}}, 3, true},
		{"400 not retried", []error{&StatusError{Code: 400}}, 1, true},
		{"parse not retried", []error{&ParseError{Err: errors.New("x")}}, 1, true},
		{"build not retried", []error{&BuildError{Err: errors.New("x")}}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			src := SourceFunc(func(ctx context.Context, req Request) (story.Story, error) {
				calls++
				if calls <= len(tt.errs) {
					return story.Story{}, tt.errs[calls-1]
				}
				return remoteStory(), nil
			})

			_, err := WithRetry(src, fastRetry()).Generate(context.Background(), NewRequest("x", 1))
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetrySource_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := SourceFunc(func(ctx context.Context, req Request) (story.Story, error) {
		cancel()
		return story.Story{}, &StatusError{Code: 502}
	})

	cfg := fastRetry()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour
	_, err := WithRetry(src, cfg).Generate(ctx, NewRequest("x", 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	fail error
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return nil, c.fail
	}
	v, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.data[key] = value
	return nil
}

func TestCachedSource(t *testing.T) {
	var calls atomic.Int32
	src := SourceFunc(func(ctx context.Context, req Request) (story.Story, error) {
		calls.Add(1)
		return remoteStory(), nil
	})
	cache := newMapCache()
	cached := WithCache(src, cache, time.Minute, nil)

	req := NewRequest("volcanoes", 2)
	first, err := cached.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := cached.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Questions[0].Choices(), second.Questions[0].Choices())

	_, err = cached.Generate(context.Background(), NewRequest("volcanoes", 3))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCachedSource_CacheDown(t *testing.T) {
	var calls atomic.Int32
	src := SourceFunc(func(ctx context.Context, req Request) (story.Story, error) {
		calls.Add(1)
		return remoteStory(), nil
	})
	cache := newMapCache()
	cache.fail = errors.New("connection refused")

	cached := WithCache(src, cache, 0, nil)
	for range 2 {
		_, err := cached.Generate(context.Background(), NewRequest("x", 1))
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestCachedSource_ErrorsNotCached(t *testing.T) {
	src := SourceFunc(func(ctx context.Context, req Request) (story.Story, error) {
		return story.Story{}, &StatusError{Code: 500}
	})
	cache := newMapCache()
	_, err := WithCache(src, cache, time.Minute, nil).Generate(context.Background(), NewRequest("x", 1))
	require.Error(t, err)
	assert.Empty(t, cache.data)
}

func TestCachedSource_InvalidStoryNotCached(t *testing.T) {
	var calls atomic.Int32
	src := SourceFunc(func(ctx context.Context, req Request) (story.Story, error) {
		if calls.Add(1) == 1 {
			return story.Story{Paragraphs: []string{"A short one."}}, nil
		}
		return remoteStory(), nil
	})
	cache := newMapCache()
	resolver := NewResolver(WithCache(src, cache, time.Minute, nil), testSelector())
	req := NewRequest("volcanoes", 2)

	first := resolver.Resolve(context.Background(), req)
	assert.False(t, first.Remote)
	var perr *ParseError
	assert.ErrorAs(t, first.Err, &perr)
	assert.Empty(t, cache.data, "an invalid story must not be cached")

	second := resolver.Resolve(context.Background(), req)
	assert.True(t, second.Remote, "second request should reach the source again")
	assert.Equal(t, "Volcano Day", second.Story.Title)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCachedSource_InvalidCachedStoryIsMiss(t *testing.T) {
	var calls atomic.Int32
	src := SourceFunc(func(ctx context.Context, req Request) (story.Story, error) {
		calls.Add(1)
		return remoteStory(), nil
	})
	req := NewRequest("volcanoes", 2)
	cache := newMapCache()
	cache.data[req.Key()] = []byte(`{"title":"","paragraphs":["x"],"questions":[]}`)

	s, err := WithCache(src, cache, time.Minute, nil).Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Volcano Day", s.Title)
	assert.Equal(t, int32(1), calls.Load())

	cached, err := story.Decode(cache.data[req.Key()])
	require.NoError(t, err)
	assert.Equal(t, "Volcano Day", cached.Title, "the bad entry is overwritten")
}

func TestParseCacheURL(t *testing.T) {
	_, err := ParseCacheURL("")
	assert.Error(t, err)
	_, err = ParseCacheURL("not a url")
	assert.Error(t, err)
	opts, err := ParseCacheURL("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
}

func TestResolver_Remote(t *testing.T) {
	src := SourceFunc(func(ctx context.Context, req Request) (story.Story, error) {
		return remoteStory(), nil
	})
	res := NewResolver(src, testSelector()).Resolve(context.Background(), NewRequest("volcanoes", 2))

	assert.True(t, res.Remote)
	assert.Empty(t, res.Notice)
	assert.Equal(t, "Volcano Day", res.Story.Title)
}

func TestResolver_FallbackOnError(t *testing.T) {
	src := SourceFunc(func(ctx context.Context, req Request) (story.Story, error) {
		return story.Story{}, &StatusError{Code: 502}
	})
	res := NewResolver(src, testSelector()).Resolve(context.Background(), NewRequest("volcanoes", 2))

	assert.False(t, res.Remote)
	assert.Equal(t, "AI story request failed with status 502; using fallback.", res.Notice)
	assert.Len(t, res.Story.Paragraphs, 2)
	assert.Error(t, res.Err)
}

func TestResolver_FallbackOnInvalidStory(t *testing.T) {
	src := SourceFunc(func(ctx context.Context, req Request) (story.Story, error) {
		s := remoteStory()
		s.Questions[0] = story.NewMultipleChoice("q", 0, []string{"a", "b"}, 9)
		return s, nil
	})
	res := NewResolver(src, testSelector()).Resolve(context.Background(), NewRequest("volcanoes", 3))

	assert.False(t, res.Remote)
	assert.Contains(t, res.Notice, "AI response parse error; using fallback.")
	var pe *ParseError
	assert.ErrorAs(t, res.Err, &pe)
}

func TestResolver_NoSource(t *testing.T) {
	res := NewResolver(nil, testSelector()).Resolve(context.Background(), NewRequest("x", 10))

	assert.False(t, res.Remote)
	assert.Empty(t, res.Notice)
	assert.Len(t, res.Story.Paragraphs, 3)
}

func TestResolver_Timeout(t *testing.T) {
	src := SourceFunc(func(ctx context.Context, req Request) (story.Story, error) {
		<-ctx.Done()
		return story.Story{}, &TransportError{Err: ctx.Err()}
	})
	res := NewResolver(src, testSelector(), WithTimeout(10*time.Millisecond)).
		Resolve(context.Background(), NewRequest("x", 1))

	assert.False(t, res.Remote)
	assert.Contains(t, res.Notice, "Could not reach AI Worker")
}
