package crawler

import "github.com/pkg/errors"

// Per-article failures are local: the page loop skips the article and
// continues. Only a failure to acquire the browser session aborts a run.
var (
	// ErrContentTimeout means navigation succeeded but the content container
	// didn't appear within the configured wait.
	ErrContentTimeout = errors.New("content container did not load in time")

	// ErrEmptyContent means the page loaded but extraction yielded zero
	// blocks. Treated exactly like a timeout for retry purposes.
	ErrEmptyContent = errors.New("extraction yielded no content blocks")
)

func isRetryable(err error) bool {
	return errors.Is(err, ErrContentTimeout) || errors.Is(err, ErrEmptyContent)
}
