// Package handler drives a single ticketing website through the booking
// protocol: login, search, show, zone, seats and confirmation.
//
// Every step is best-effort. A selector that matches nothing is reported as a
// warning and the step moves on, only the seat and confirm steps report
// whether they achieved anything.
package handler

import (
	"context"
	"fmt"
	"time"

	"ticketbooker/internal/browser"
	"ticketbooker/internal/components/assert"
	"ticketbooker/internal/components/telemetry"
	"ticketbooker/internal/intent"
	"ticketbooker/internal/sites"
)

// Handler is implemented once per website.
type Handler interface {
	// Setup opens the site's landing page.
	Setup(ctx context.Context) error
	Login(ctx context.Context)
	SearchConcert(ctx context.Context)
	// SelectShow picks the intent's show, a show number outside of the
	// listed shows does nothing.
	SelectShow(ctx context.Context)
	// SelectZone picks a zone by name, an empty zone means the intent's zone.
	SelectZone(ctx context.Context, zone string)
	// SelectSeats clicks available seats until the intent's seat count is
	// reached and returns true if at least one seat was selected.
	SelectSeats(ctx context.Context) bool
	// ConfirmBooking submits the selection, it returns false without
	// touching the page when no seat is selected.
	ConfirmBooking(ctx context.Context) bool
	// SeatsSelected is the result of the last SelectSeats call.
	SeatsSelected() int
}

// ZoneFallback is implemented by handlers that can look for another zone
// with seats left when the preferred one is sold out.
type ZoneFallback interface {
	FindAlternativeZones(ctx context.Context) bool
}

// Options bounds how long a handler waits on the page.
type Options struct {
	// ElementTimeout is how long an element lookup may wait.
	ElementTimeout time.Duration
	// NavigationTimeout is how long to wait for the url to change after a
	// click that should navigate.
	NavigationTimeout time.Duration
	PollInterval      time.Duration
}

func DefaultOptions() Options {
	return Options{
		ElementTimeout:    10 * time.Second,
		NavigationTimeout: 30 * time.Second,
		PollInterval:      browser.DefaultPollInterval,
	}
}

// New creates the handler for a site, the session is borrowed and never
// closed by the handler.
func New(site sites.Site, session browser.Session, user intent.UserIntent, opts Options, tel telemetry.API) (Handler, error) {
	assert.NotNil(session)
	assert.NotNil(tel)
	assert.Positive(user.Seats)
	assert.NotEmptyStr(user.Concert)
	if !Supported(site.ID) {
		return nil, fmt.Errorf("%w: no handler for %q", sites.ErrUnsupportedSite, site.ID)
	}
	assert.NotEmptyStr(site.BaseURL)

	b := &base{
		site:    site,
		session: session,
		user:    user,
		opts:    opts,
		tel:     telemetry.NewScopedAPI(site.ID, tel),
	}
	switch site.ID {
	case sites.ThaiTicketMajor:
		return &ThaiTicketMajor{base: b}, nil
	case sites.TicketMelon:
		return &TicketMelon{base: b}, nil
	case sites.Eventpop:
		return &Eventpop{base: b}, nil
	}
	return nil, fmt.Errorf("%w: no handler for %q", sites.ErrUnsupportedSite, site.ID)
}
