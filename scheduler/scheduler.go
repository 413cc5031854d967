// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package scheduler runs the periodic election sweep. Election status is
// derived from the clock rather than stored, so the sweep performs no status
// writes; its job is the work that must happen around transitions: logging
// openings, and freezing a result snapshot once voting closes.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/openelect/ballotcore/election"
	"github.com/openelect/ballotcore/models"
	"github.com/openelect/ballotcore/tally"
)

type Scheduler struct {
	db       *sql.DB
	interval time.Duration

	// Elections already seen open, so each opening is logged once per
	// process lifetime.
	announced map[string]bool
}

func New(db *sql.DB, interval time.Duration) *Scheduler {
	return &Scheduler{
		db:        db,
		interval:  interval,
		announced: make(map[string]bool),
	}
}

// Run sweeps on a fixed interval until the context is cancelled. One sweep
// is performed immediately on start.
func (s *Scheduler) Run(ctx context.Context) {
	slog.Info("Election scheduler started", "interval", s.interval)

	s.Sweep(time.Now())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Election scheduler stopped")
			return
		case <-ticker.C:
			s.Sweep(time.Now())
		}
	}
}

// Sweep inspects every launched, uncancelled election once. Exported so
// tests can drive the clock directly.
func (s *Scheduler) Sweep(now time.Time) {
	rows, err := s.db.Query(`
		SELECT id, title, launched, cancelled, start_date, end_date
		FROM election
		WHERE launched = TRUE AND cancelled = FALSE
	`)
	if err != nil {
		slog.Error("Scheduler sweep failed", "error", err)
		return
	}
	defer rows.Close()

	type swept struct {
		e      models.Election
		status models.ElectionStatus
	}
	var elections []swept
	for rows.Next() {
		var e models.Election
		if err := rows.Scan(&e.ID, &e.Title, &e.Launched, &e.Cancelled, &e.StartDate, &e.EndDate); err != nil {
			slog.Error("Scheduler sweep failed", "error", err)
			return
		}
		elections = append(elections, swept{e: e, status: election.StatusOf(e, now)})
	}
	if err := rows.Err(); err != nil {
		slog.Error("Scheduler sweep failed", "error", err)
		return
	}

	for _, sw := range elections {
		switch sw.status {
		case models.StatusOngoing:
			if !s.announced[sw.e.ID] {
				s.announced[sw.e.ID] = true
				slog.Info("Election open for voting",
					"election_id", sw.e.ID,
					"title", sw.e.Title,
					"closes", humanize.Time(sw.e.EndDate))
			}
		case models.StatusFinished:
			s.finalize(sw.e, now)
		}
	}
}

// finalize freezes the tally for a finished election. SaveSnapshot is a
// no-op when a snapshot already exists, so repeat sweeps are cheap.
func (s *Scheduler) finalize(e models.Election, now time.Time) {
	_, _, found, err := tally.LoadSnapshot(s.db, e.ID)
	if err != nil {
		slog.Error("Failed to check result snapshot", "election_id", e.ID, "error", err)
		return
	}
	if found {
		return
	}

	results, err := tally.TallyElection(s.db, e.ID)
	if err != nil {
		slog.Error("Failed to tally finished election", "election_id", e.ID, "error", err)
		return
	}
	if err := tally.SaveSnapshot(s.db, e.ID, results, now); err != nil {
		slog.Error("Failed to store result snapshot", "election_id", e.ID, "error", err)
		return
	}

	slog.Info("Election finished, results frozen",
		"election_id", e.ID,
		"title", e.Title,
		"closed", humanize.Time(e.EndDate),
		"questions", len(results))
}
