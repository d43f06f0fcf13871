package fallback

import (
	"math/rand/v2"

	"github.com/abhisek/storyquiz/internal/story"
)

// Paragraph count bounds shared with the session.
const (
	MinParagraphs = 1
	MaxParagraphs = 6
)

// ClampParagraphs limits n to [MinParagraphs, MaxParagraphs].
func ClampParagraphs(n int) int {
	return min(max(n, MinParagraphs), MaxParagraphs)
}

// Selector picks a random story from a fixed pool.
type Selector struct {
	pool []story.Story
	rng  *rand.Rand
}

// NewSelector returns a selector over the built-in stories plus extra.
// A nil rng uses a randomly seeded source.
func NewSelector(rng *rand.Rand, extra ...story.Story) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	pool := Builtin()
	for _, s := range extra {
		pool = append(pool, s.Clone())
	}
	return &Selector{pool: pool, rng: rng}
}

// Len returns the number of stories in the pool.
func (s *Selector) Len() int { return len(s.pool) }

// Stories returns copies of every story in the pool.
func (s *Selector) Stories() []story.Story {
	out := make([]story.Story, len(s.pool))
	for i, st := range s.pool {
		out[i] = st.Clone()
	}
	return out
}

// Select shuffles the pool order, takes the first story and truncates it to
// at most n paragraphs (n is clamped first). Questions are kept even when the
// paragraph they point at was cut. The pool itself is never modified.
func (s *Selector) Select(n int) story.Story {
	order := s.rng.Perm(len(s.pool))
	picked := s.pool[order[0]].Clone()

	want := ClampParagraphs(n)
	if len(picked.Paragraphs) > want {
		picked.Paragraphs = picked.Paragraphs[:want]
	}
	return picked
}
