// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openelect/ballotcore/db"
	"github.com/openelect/ballotcore/models"
)

// SaveSnapshot stores the authoritative tally for a finished election. One
// snapshot per election; a second save is a no-op so the scheduler can
// re-run the finish check freely.
func SaveSnapshot(conn *sql.DB, electionID string, results []models.QuestionResult, now time.Time) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tiePending := false
	for _, r := range results {
		if r.TiePending {
			tiePending = true
			break
		}
	}

	var exists bool
	err = conn.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM result_snapshot WHERE election_id = $1)
	`, electionID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check for snapshot: %w", err)
	}
	if exists {
		return nil
	}

	_, err = conn.Exec(`
		INSERT INTO result_snapshot (id, election_id, computed_at, payload, tie_pending)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), electionID, now, string(payload), tiePending)
	if err != nil {
		// The scheduler sweep and a results read can both try to freeze a
		// newly finished election; the UNIQUE constraint picks the winner
		// and the loser's save is the no-op.
		if db.IsUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot retrieves the stored tally for an election, if one exists.
func LoadSnapshot(conn *sql.DB, electionID string) ([]models.QuestionResult, time.Time, bool, error) {
	var payload string
	var computedAt time.Time
	err := conn.QueryRow(`
		SELECT payload, computed_at FROM result_snapshot WHERE election_id = $1
	`, electionID).Scan(&payload, &computedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to query snapshot: %w", err)
	}

	var results []models.QuestionResult
	if err := json.Unmarshal([]byte(payload), &results); err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return results, computedAt, true, nil
}
