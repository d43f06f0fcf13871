package trainer

import (
	"time"

	"github.com/abhisek/storyquiz/internal/content"
)

// storyLoadedMsg carries a resolved story back to the screen. Generation is
// the session's generation when the request started.
type storyLoadedMsg struct {
	Generation uint64
	Resolution content.Resolution
}

// persistedMsg reports the outcome of a background store write.
type persistedMsg struct {
	What string
	Err  error
}

// spinnerTickMsg animates the loading view.
type spinnerTickMsg time.Time
