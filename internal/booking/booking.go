// Package booking runs a handler through one booking attempt and reports
// how it went.
package booking

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"time"

	"ticketbooker/internal/browser"
	"ticketbooker/internal/components/telemetry"
	"ticketbooker/internal/handler"
	"ticketbooker/internal/intent"
	"ticketbooker/internal/sites"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("internal/booking")
	meter  = otel.Meter("internal/booking")
)

const (
	report_run     = "booking.run"
	report_history = "booking.history"
	report_notify  = "booking.notify"
	report_metrics = "booking.metrics"
)

// HistoryStore persists outcomes.
type HistoryStore interface {
	Record(ctx context.Context, outcome Outcome) error
}

// Notifier tells someone about a finished booking.
type Notifier interface {
	Notify(ctx context.Context, outcome Outcome) error
}

// HandlerFactory builds the handler for a site, handler.New is used when
// none is given.
type HandlerFactory func(site sites.Site, session browser.Session, user intent.UserIntent, opts handler.Options, tel telemetry.API) (handler.Handler, error)

type Booker struct {
	Site    sites.Site
	Session browser.Session
	User    intent.UserIntent
	Options handler.Options
	// DryRun stops right before the booking would be confirmed.
	DryRun bool
	Tel    telemetry.API

	// optional
	History    HistoryStore
	Notifier   Notifier
	NewHandler HandlerFactory
}

// Run goes through every step once. It never panics, a panic inside a step
// ends the attempt with StatusFailed.
func (b Booker) Run(ctx context.Context) (out Outcome) {
	if b.Tel == nil {
		b.Tel = telemetry.SlogAPI{}
	}
	tel := telemetry.NewScopedAPI(b.Site.ID, b.Tel)
	out = Outcome{
		RunID:          newRunID(),
		Site:           b.Site.ID,
		Concert:        b.User.Concert,
		Show:           b.User.Show,
		Zone:           b.User.Zone,
		SeatsRequested: b.User.Seats,
		StartedAt:      time.Now(),
	}

	ctx, span := tracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.String("run_id", out.RunID),
		attribute.String("site", b.Site.ID),
		attribute.Bool("dry_run", b.DryRun),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			out.Status = StatusFailed
			out.Err = fmt.Errorf("panic: %v", r)
			tel.ReportBroken(report_run, out.Err, "stack", string(debug.Stack()))
		}
		out.FinishedAt = time.Now()

		span.SetAttributes(
			attribute.String("status", string(out.Status)),
			attribute.Int("seats_selected", out.SeatsSelected),
		)
		if out.Err != nil {
			span.RecordError(out.Err)
			span.SetStatus(codes.Error, out.Err.Error())
		}
		b.finish(ctx, tel, out)
	}()

	out.Status, out.Err = b.run(ctx, tel, &out)
	return out
}

func (b Booker) run(ctx context.Context, tel telemetry.API, out *Outcome) (Status, error) {
	newHandler := b.NewHandler
	if newHandler == nil {
		newHandler = handler.New
	}
	h, err := newHandler(b.Site, b.Session, b.User, b.Options, b.Tel)
	if err != nil {
		return StatusFailed, err
	}

	err = step(ctx, "setup", h.Setup)
	if err != nil {
		return StatusFailed, fmt.Errorf("setup: %w", err)
	}
	for _, s := range []struct {
		name string
		fn   func(ctx context.Context)
	}{
		{"login", h.Login},
		{"search_concert", h.SearchConcert},
		{"select_show", h.SelectShow},
		{"select_zone", func(ctx context.Context) { h.SelectZone(ctx, "") }},
	} {
		err = step(ctx, s.name, func(ctx context.Context) error {
			s.fn(ctx)
			return nil
		})
		if err != nil {
			return StatusFailed, fmt.Errorf("%s: %w", s.name, err)
		}
	}

	var selected bool
	err = step(ctx, "select_seats", func(ctx context.Context) error {
		selected = h.SelectSeats(ctx)
		return nil
	})
	if err != nil {
		return StatusFailed, fmt.Errorf("select_seats: %w", err)
	}

	if !selected {
		fallback, ok := h.(handler.ZoneFallback)
		if ok {
			tel.ReportDebug("preferred zone has no seats, looking for another", "zone", b.User.Zone)
			out.UsedFallback = true
			err = step(ctx, "find_alternative_zones", func(ctx context.Context) error {
				selected = fallback.FindAlternativeZones(ctx)
				return nil
			})
			if err != nil {
				return StatusFailed, fmt.Errorf("find_alternative_zones: %w", err)
			}
		}
	}
	out.SeatsSelected = h.SeatsSelected()
	if !selected {
		return StatusNoSeats, nil
	}

	if b.DryRun {
		tel.ReportDebug("dry run, not confirming", "seats", out.SeatsSelected)
		return StatusDryRun, nil
	}

	var confirmed bool
	err = step(ctx, "confirm_booking", func(ctx context.Context) error {
		confirmed = h.ConfirmBooking(ctx)
		return nil
	})
	if err != nil {
		return StatusFailed, fmt.Errorf("confirm_booking: %w", err)
	}
	if !confirmed {
		return StatusConfirmFailed, nil
	}
	return StatusBooked, nil
}

// step runs fn in its own span, a cancelled context stops the attempt
// between steps.
func step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, name)
	defer span.End()

	err = fn(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// finish records the outcome, failures here are reported and otherwise
// ignored since the attempt itself is already over.
func (b Booker) finish(ctx context.Context, tel telemetry.API, out Outcome) {
	// history and notifications still go out when the attempt was cancelled
	ctx = context.WithoutCancel(ctx)

	attempts, err := meter.Int64Counter("booking.attempts")
	if err != nil {
		tel.ReportBroken(report_metrics, err)
	} else {
		attempts.Add(ctx, 1, metric.WithAttributes(
			attribute.String("site", out.Site),
			attribute.String("status", string(out.Status)),
		))
	}

	if b.History != nil {
		err := b.History.Record(ctx, out)
		if err != nil {
			tel.ReportBroken(report_history, err)
		}
	}
	if b.Notifier != nil && out.Status == StatusBooked {
		err := b.Notifier.Notify(ctx, out)
		if err != nil {
			tel.ReportWarning(report_notify, err)
		}
	}
}

func newRunID() string {
	id, err := random.String(8)
	if err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return id
}
