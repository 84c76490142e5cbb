// Package history keeps a local record of every booking attempt.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"ticketbooker/internal/booking"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Attempt is a stored booking outcome.
type Attempt struct {
	RunID          string
	Site           string
	Concert        string
	Show           int
	Zone           string
	SeatsRequested int
	SeatsSelected  int
	UsedFallback   bool
	Status         booking.Status
	Error          string
	StartedAt      time.Time
	FinishedAt     time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the sqlite database at path.
func Open(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return Store{}, err
	}
	// every connection to :memory: is its own database
	db.SetMaxOpenConns(1)

	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return Store{}, fmt.Errorf("create history schema: %w", err)
	}
	return Store{db: db}, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

// Record implements booking.HistoryStore.
func (s Store) Record(ctx context.Context, o booking.Outcome) error {
	errText := ""
	if o.Err != nil {
		errText = o.Err.Error()
	}
	fallback := 0
	if o.UsedFallback {
		fallback = 1
	}
	_, err := s.db.ExecContext(
		ctx,
		`insert into attempt (
			run_id, site, concert, show, zone,
			seats_requested, seats_selected, used_fallback,
			status, error, started_at, finished_at
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.RunID, o.Site, o.Concert, o.Show, o.Zone,
		o.SeatsRequested, o.SeatsSelected, fallback,
		string(o.Status), errText, o.StartedAt.UnixMilli(), o.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record attempt %s: %w", o.RunID, err)
	}
	return nil
}

// Recent returns at most limit attempts, newest first. An empty site
// returns attempts for every site.
func (s Store) Recent(ctx context.Context, site string, limit int) ([]Attempt, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`select
			run_id, site, concert, show, zone,
			seats_requested, seats_selected, used_fallback,
			status, error, started_at, finished_at
		from attempt
		where ? = '' or site = ?
		order by started_at desc, rowid desc
		limit ?`,
		site, site, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		var status string
		var started, finished, fallback int64
		err := rows.Scan(
			&a.RunID, &a.Site, &a.Concert, &a.Show, &a.Zone,
			&a.SeatsRequested, &a.SeatsSelected, &fallback,
			&status, &a.Error, &started, &finished,
		)
		if err != nil {
			return nil, err
		}
		a.UsedFallback = fallback != 0
		a.Status = booking.Status(status)
		a.StartedAt = time.UnixMilli(started)
		a.FinishedAt = time.UnixMilli(finished)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Counts returns how many attempts ended in each status.
func (s Store) Counts(ctx context.Context) (map[booking.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `select status, count(*) from attempt group by status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[booking.Status]int{}
	for rows.Next() {
		var status string
		var count int
		err := rows.Scan(&status, &count)
		if err != nil {
			return nil, err
		}
		out[booking.Status(status)] = count
	}
	return out, rows.Err()
}
