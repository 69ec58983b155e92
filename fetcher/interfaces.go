package fetcher

import (
	"context"
	"time"
)

// LoadOptions controls a single page load.
type LoadOptions struct {
	// WaitFor lists text markers; Load waits up to WaitTimeout for any of
	// them to appear in the rendered text before extracting it. Timing out
	// here is not an error — the page text is extracted as-is.
	WaitFor []string

	NavTimeout     time.Duration
	WaitTimeout    time.Duration
	ExtractTimeout time.Duration
	ScrollDistance int
}

// Session is one isolated browser context used for exactly one fetch
// attempt. Close is idempotent and never fails.
type Session interface {
	Load(ctx context.Context, url string, opts LoadOptions) (string, error)
	Close()
}

// Fetcher opens fresh sessions. A session that failed a load must be
// closed and never reused.
type Fetcher interface {
	OpenSession(ctx context.Context) (Session, error)
}
