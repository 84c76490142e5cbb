// Package browser is the boundary between booking logic and whatever is
// actually driving the web page.
package browser

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a selector matched nothing before its
	// wait ran out.
	ErrNotFound = errors.New("element not found")
	// ErrTimeout is returned by Poll when its condition never held.
	ErrTimeout = errors.New("timed out waiting for condition")
)

// Element is a handle to a single element on the current page, handles may
// go stale once the page navigates.
type Element interface {
	Click(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	Clear(ctx context.Context) error
	// Submit submits the form the element belongs to.
	Submit(ctx context.Context) error
	// Text returns the rendered text of the element.
	Text(ctx context.Context) (string, error)
	// Attribute returns the value of an attribute and whether it was present.
	Attribute(ctx context.Context, name string) (string, bool, error)
}

// Session is a single browser tab.
//
// FindAll never waits, it returns whatever currently matches (possibly
// nothing). Waiting is done by the caller with Poll so that every wait has an
// explicit upper bound.
type Session interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	FindAll(ctx context.Context, sel Selector) ([]Element, error)
}
