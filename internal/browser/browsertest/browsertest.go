// Package browsertest provides an in-memory browser.Session for tests.
//
// Pages are not parsed, instead each selector is mapped directly to the
// elements it should return. Every call made against the session is
// recorded so tests can assert on exactly what a caller did.
package browsertest

import (
	"context"
	"fmt"
	"sync"

	"ticketbooker/internal/browser"
)

// Element is a fake element. OnClick runs after the click is recorded and
// is how tests simulate navigation.
type Element struct {
	Name    string
	Content string
	Attrs   map[string]string
	OnClick func(s *Session)

	// Typed holds everything sent with SendKeys since the last Clear.
	Typed     string
	Submitted bool
	Clicks    int

	session *Session
}

// NewElement returns an element with the given name and rendered text, attrs are
// given as alternating key value pairs.
func NewElement(name, text string, attrs ...string) *Element {
	if len(attrs)%2 != 0 {
		panic("browsertest: attrs must be key value pairs")
	}
	e := &Element{Name: name, Content: text, Attrs: map[string]string{}}
	for i := 0; i < len(attrs); i += 2 {
		e.Attrs[attrs[i]] = attrs[i+1]
	}
	return e
}

// Session is a fake browser.Session.
type Session struct {
	mu       sync.Mutex
	url      string
	elements map[string][]*Element
	calls    []string
	clicked  []string
}

func NewSession(url string) *Session {
	return &Session{
		url:      url,
		elements: map[string][]*Element{},
	}
}

// Set replaces the elements matched by sel.
func (s *Session) Set(sel browser.Selector, elements ...*Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range elements {
		e.session = s
	}
	s.elements[sel.String()] = elements
}

// SetURL changes the current url without recording a call.
func (s *Session) SetURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = url
}

// Calls returns every recorded call in order.
func (s *Session) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Clicked returns the names of clicked elements in click order.
func (s *Session) Clicked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.clicked...)
}

// Reset forgets every recorded call.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
	s.clicked = nil
}

func (s *Session) record(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	s.record("navigate %s", url)
	s.SetURL(url)
	return nil
}

func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url, nil
}

func (s *Session) FindAll(ctx context.Context, sel browser.Selector) ([]browser.Element, error) {
	s.record("find %s", sel)

	s.mu.Lock()
	defer s.mu.Unlock()
	found := s.elements[sel.String()]
	out := make([]browser.Element, len(found))
	for i, e := range found {
		out[i] = e
	}
	return out, nil
}

func (e *Element) Click(ctx context.Context) error {
	e.session.record("click %s", e.Name)

	e.session.mu.Lock()
	e.Clicks++
	e.session.clicked = append(e.session.clicked, e.Name)
	e.session.mu.Unlock()

	if e.OnClick != nil {
		e.OnClick(e.session)
	}
	return nil
}

func (e *Element) SendKeys(ctx context.Context, text string) error {
	e.session.record("type %s", e.Name)
	e.Typed += text
	return nil
}

func (e *Element) Clear(ctx context.Context) error {
	e.session.record("clear %s", e.Name)
	e.Typed = ""
	return nil
}

func (e *Element) Submit(ctx context.Context) error {
	e.session.record("submit %s", e.Name)
	e.Submitted = true
	return nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.Content, nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	value, ok := e.Attrs[name]
	return value, ok, nil
}
