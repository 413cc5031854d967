// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/openelect/ballotcore/db"
	"github.com/openelect/ballotcore/models"
)

// Register enrolls a voter in an election. The primary key resolves
// duplicate registrations the same way duplicate ballots are resolved.
func Register(conn *sql.DB, electionID, voterID string, now time.Time) error {
	var exists bool
	err := conn.QueryRow(`SELECT EXISTS(SELECT 1 FROM voter WHERE id = $1)`, voterID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to verify voter: %w", err)
	}
	if !exists {
		return &models.NotFoundError{Resource: "voter", ID: voterID}
	}

	_, err = conn.Exec(`
		INSERT INTO election_registration (election_id, voter_id, registered_at)
		VALUES ($1, $2, $3)
	`, electionID, voterID, now)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil // already registered; registration is idempotent
		}
		return fmt.Errorf("failed to register voter: %w", err)
	}
	return nil
}

// Unregister removes a voter's enrollment. Missing registrations are not an
// error.
func Unregister(conn *sql.DB, electionID, voterID string) error {
	_, err := conn.Exec(`
		DELETE FROM election_registration WHERE election_id = $1 AND voter_id = $2
	`, electionID, voterID)
	if err != nil {
		return fmt.Errorf("failed to unregister voter: %w", err)
	}
	return nil
}

// IsRegistered reports whether the voter is enrolled in the election.
func IsRegistered(conn *sql.DB, electionID, voterID string) (bool, error) {
	var exists bool
	err := conn.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM election_registration
			WHERE election_id = $1 AND voter_id = $2
		)
	`, electionID, voterID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return exists, nil
}
