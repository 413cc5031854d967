// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openelect/ballotcore/ballot"
	"github.com/openelect/ballotcore/db"
	"github.com/openelect/ballotcore/models"
)

// Launch makes an election live. It is one-way and idempotent: launching an
// already-launched election is a no-op success, never a duplicate state
// change. The ballot structure must validate; a launch with an invalid
// ballot fails with ValidationError and changes nothing.
//
// If start_date is already in the past the election becomes Ongoing on the
// next status derivation; no separate transition is needed.
func Launch(conn *sql.DB, electionID, actorID string, now time.Time) error {
	e, err := GetByID(conn, electionID)
	if err != nil {
		return err
	}

	if e.Cancelled {
		return &models.ElectionStateError{Op: "launch", Status: models.StatusCancelled}
	}
	if e.Launched {
		return nil // retry of an earlier launch
	}

	questions, err := LoadQuestions(conn, electionID)
	if err != nil {
		return err
	}
	if violations := ballot.Validate(questions); len(violations) > 0 {
		return &models.ValidationError{Violations: violations}
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE election SET launched = TRUE, updated_at = $1
		WHERE id = $2 AND launched = FALSE AND cancelled = FALSE
	`, now, electionID)
	if err != nil {
		return fmt.Errorf("failed to launch election: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Lost a race with a concurrent launch or cancel; re-derive.
		return nil
	}

	if err := db.InsertAudit(tx, models.AuditEntry{
		ID:        uuid.NewString(),
		ActorID:   actorID,
		Action:    models.AuditElectionLaunched,
		SubjectID: electionID,
		CreatedAt: now,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit launch: %w", err)
	}
	return nil
}

// Cancel abandons an election before voting begins. Reachable from Draft or
// Scheduled only; idempotent on retry.
func Cancel(conn *sql.DB, electionID, actorID string, now time.Time) error {
	e, err := GetByID(conn, electionID)
	if err != nil {
		return err
	}

	switch status := StatusOf(e, now); status {
	case models.StatusCancelled:
		return nil // retry of an earlier cancel
	case models.StatusDraft, models.StatusScheduled:
	default:
		return &models.ElectionStateError{Op: "cancel", Status: status}
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		UPDATE election SET cancelled = TRUE, updated_at = $1
		WHERE id = $2 AND cancelled = FALSE
	`, now, electionID); err != nil {
		return fmt.Errorf("failed to cancel election: %w", err)
	}

	if err := db.InsertAudit(tx, models.AuditEntry{
		ID:        uuid.NewString(),
		ActorID:   actorID,
		Action:    models.AuditElectionCancelled,
		SubjectID: electionID,
		CreatedAt: now,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancel: %w", err)
	}
	return nil
}
