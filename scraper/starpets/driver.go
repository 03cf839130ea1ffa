package starpets

import "time"

// KeyEnter is the key string submitted to PageDriver.PressKey to confirm
// a search.
const KeyEnter = "\r"

// PageDriver is the capability surface the hunt needs from a browser
// automation engine. One PageDriver represents one live page session; it
// is owned by the Hunter for the duration of a run and must be Closed on
// every exit path. Implementations are not required to be safe for
// concurrent use — the hunt is strictly sequential.
type PageDriver interface {
	// Navigate loads the given URL, bounded by timeout.
	Navigate(url string, timeout time.Duration) error

	// WaitForSettle sleeps on the page, giving asynchronous re-renders
	// time to finish.
	WaitForSettle(d time.Duration) error

	// Click locates an element by CSS selector or visible text and
	// clicks it.
	Click(query string) error

	// TypeInto focuses the element matching selector, clears it, and
	// types text one key at a time with keyDelay pacing between keys.
	TypeInto(selector, text string, keyDelay time.Duration) error

	// PressKey sends a single key event to the focused element.
	PressKey(key string) error

	// ExtractText evaluates a script in the page and returns the text
	// blocks it produced.
	ExtractText(script string) ([]string, error)

	// Screenshot captures the current viewport to the given file path.
	Screenshot(path string) error

	// Close tears down the page session and the browser behind it.
	Close() error
}
