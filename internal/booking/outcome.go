package booking

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusBooked        Status = "booked"
	StatusDryRun        Status = "dry_run"
	StatusNoSeats       Status = "no_seats"
	StatusConfirmFailed Status = "confirm_failed"
	StatusFailed        Status = "failed"
)

// Outcome is the result of one booking attempt.
type Outcome struct {
	RunID          string
	Site           string
	Concert        string
	Show           int
	Zone           string
	SeatsRequested int
	SeatsSelected  int
	// UsedFallback is true when the preferred zone had no seats and the
	// handler went looking for another zone.
	UsedFallback bool
	Status       Status
	Err          error
	StartedAt    time.Time
	FinishedAt   time.Time
}

// OK is true for a booking that went through or would have in a dry run.
func (o Outcome) OK() bool {
	return o.Status == StatusBooked || o.Status == StatusDryRun
}

func (o Outcome) Duration() time.Duration {
	return o.FinishedAt.Sub(o.StartedAt)
}

func (o Outcome) Summary() string {
	switch o.Status {
	case StatusBooked:
		return fmt.Sprintf("booked %d seat(s) for %s on %s", o.SeatsSelected, o.Concert, o.Site)
	case StatusDryRun:
		return fmt.Sprintf("dry run: %d seat(s) selected for %s on %s, booking not confirmed", o.SeatsSelected, o.Concert, o.Site)
	case StatusNoSeats:
		return fmt.Sprintf("no seats available for %s on %s", o.Concert, o.Site)
	case StatusConfirmFailed:
		return fmt.Sprintf("selected %d seat(s) for %s on %s but could not confirm", o.SeatsSelected, o.Concert, o.Site)
	}
	if o.Err != nil {
		return fmt.Sprintf("booking %s on %s failed: %v", o.Concert, o.Site, o.Err)
	}
	return fmt.Sprintf("booking %s on %s failed", o.Concert, o.Site)
}
