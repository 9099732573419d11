// Package browser abstracts the browser-automation driver behind a small
// actor interface so navigation logic stays testable without a browser.
package browser

import (
	"context"
	"time"
)

// Actor is the set of primitives the historical navigator needs from a
// browser-automation driver. Implementations own exactly one browser session;
// Close releases it and must be called on every exit path.
type Actor interface {
	// Navigate loads the given URL.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until the selector matches a visible node or the
	// timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Click clicks the first node matching the selector.
	Click(ctx context.Context, selector string) error
	// Evaluate executes a script in the page.
	Evaluate(ctx context.Context, expression string) error
	// AttrValue reads an attribute of the first node matching the selector.
	// The boolean reports whether the node and attribute were found.
	AttrValue(ctx context.Context, selector, attr string) (string, bool, error)
	// PageSource returns the current page markup.
	PageSource(ctx context.Context) (string, error)
	// DismissAlert dismisses a modal dialog if one appears within the timeout.
	// Absence of a dialog is not an error.
	DismissAlert(ctx context.Context, timeout time.Duration) error
	// Close releases the browser session.
	Close() error
}

// Factory creates a fresh Actor for one scrape invocation.
type Factory func(headless bool) (Actor, error)
