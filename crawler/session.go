package crawler

import (
	"time"
)

// Session is the narrow slice of a browser page the crawl engine needs:
// navigate, wait for a selector, read the document, scroll, click. Everything
// else about the automation engine stays behind this interface so the engine
// logic is testable without a browser.
type Session interface {
	Navigate(url string) error
	WaitForSelector(selector string, timeout time.Duration) error
	// Content returns the current document HTML.
	Content() (string, error)
	// ScrollToBottom scrolls through the page the way a reader would,
	// giving lazy-loaded content a chance to appear.
	ScrollToBottom()
	// ClickByText clicks the first element matching selector whose text
	// matches the given pattern. Returns false when no such element exists.
	ClickByText(selector string, textRegex string) (bool, error)
	// OpenTab opens an isolated page within the same browser. The caller
	// must Close it on every exit path.
	OpenTab() (Session, error)
	Close()
}

// Browser owns the automation engine for one crawl run.
type Browser interface {
	NewSession() (Session, error)
	Close()
}

// BrowserFactory launches the engine. A factory error is the one failure
// that aborts a whole run.
type BrowserFactory func() (Browser, error)
