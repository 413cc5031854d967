// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openelect/ballotcore/ballot"
	"github.com/openelect/ballotcore/db"
	"github.com/openelect/ballotcore/election"
	"github.com/openelect/ballotcore/models"
)

// Cast records one voter's ballot for one question. The whole ballot is one
// transaction: the ballot row and every selection row commit together or not
// at all, so a concurrent tally never observes a partial ballot and a failed
// cast leaves no rows behind.
//
// Duplicate detection is not a prior read: the UNIQUE (question_id,
// voter_id) constraint resolves races, so two simultaneous casts by the same
// voter yield exactly one success and one DuplicateVoteError.
func Cast(conn *sql.DB, electionID, questionID, voterID, ipHash string,
	optionIDs []string, rankings []models.RankedInput, now time.Time) (string, error) {

	e, err := election.GetByID(conn, electionID)
	if err != nil {
		return "", err
	}
	if status := election.StatusOf(e, now); status != models.StatusOngoing {
		return "", &models.ElectionStateError{Op: "cast a vote", Status: status}
	}

	registered, err := IsRegistered(conn, electionID, voterID)
	if err != nil {
		return "", err
	}
	if !registered {
		return "", &models.AuthorizationError{Reason: "voter is not registered for this election"}
	}

	q, err := election.GetQuestion(conn, questionID)
	if err != nil {
		return "", err
	}
	if q.ElectionID != electionID {
		return "", &models.NotFoundError{Resource: "question", ID: questionID}
	}

	if violations := ballot.ValidateSelection(q, optionIDs, rankings); len(violations) > 0 {
		return "", &models.ValidationError{Violations: violations}
	}

	b := models.Ballot{
		ID:         uuid.NewString(),
		ElectionID: electionID,
		QuestionID: questionID,
		VoterID:    voterID,
		IPHash:     ipHash,
		CastAt:     now,
	}
	switch q.Type {
	case models.TypeMultipleChoice:
		for _, optionID := range optionIDs {
			b.Selections = append(b.Selections, models.Selection{BallotID: b.ID, OptionID: optionID})
		}
	case models.TypeRankedChoice:
		for _, rk := range rankings {
			b.Selections = append(b.Selections, models.Selection{BallotID: b.ID, OptionID: rk.OptionID, Rank: rk.Rank})
		}
	}

	tx, err := conn.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO ballot (id, election_id, question_id, voter_id, ip_hash, cast_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, b.ID, b.ElectionID, b.QuestionID, b.VoterID, b.IPHash, b.CastAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return "", &models.DuplicateVoteError{VoterID: voterID, QuestionID: questionID}
		}
		return "", fmt.Errorf("failed to insert ballot: %w", err)
	}

	for _, s := range b.Selections {
		// rank 0 means unranked (multiple choice); stored as NULL
		var rank any
		if s.Rank > 0 {
			rank = s.Rank
		}
		if _, err := tx.Exec(`
			INSERT INTO selection (ballot_id, option_id, rank)
			VALUES ($1, $2, $3)
		`, s.BallotID, s.OptionID, rank); err != nil {
			return "", fmt.Errorf("failed to insert selection: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		if db.IsUniqueViolation(err) {
			return "", &models.DuplicateVoteError{VoterID: voterID, QuestionID: questionID}
		}
		return "", fmt.Errorf("failed to commit ballot: %w", err)
	}

	return b.ID, nil
}

// GetBallot loads one ballot with its selections, in recorded rank order.
func GetBallot(conn *sql.DB, ballotID string) (models.Ballot, error) {
	var b models.Ballot
	err := conn.QueryRow(`
		SELECT id, election_id, question_id, voter_id, ip_hash, cast_at
		FROM ballot WHERE id = $1
	`, ballotID).Scan(&b.ID, &b.ElectionID, &b.QuestionID, &b.VoterID, &b.IPHash, &b.CastAt)
	if err == sql.ErrNoRows {
		return b, &models.NotFoundError{Resource: "ballot", ID: ballotID}
	}
	if err != nil {
		return b, fmt.Errorf("failed to query ballot: %w", err)
	}

	rows, err := conn.Query(`
		SELECT ballot_id, option_id, COALESCE(rank, 0)
		FROM selection WHERE ballot_id = $1
		ORDER BY COALESCE(rank, 0), option_id
	`, ballotID)
	if err != nil {
		return b, fmt.Errorf("failed to query selections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Selection
		if err := rows.Scan(&s.BallotID, &s.OptionID, &s.Rank); err != nil {
			return b, fmt.Errorf("failed to scan selection: %w", err)
		}
		b.Selections = append(b.Selections, s)
	}
	return b, rows.Err()
}

// Delete removes a ballot outside the normal flow. This is the one
// intentional breach of the ledger's append-only guarantee, so the audit
// record is written in the same transaction: if the audit write fails the
// ballot stays. Any stored result snapshot for the election is invalidated
// so the next tally recomputes.
func Delete(conn *sql.DB, ballotID, actorID, reason string, now time.Time) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var b models.Ballot
	err = tx.QueryRow(`
		SELECT id, election_id, question_id FROM ballot WHERE id = $1
	`, ballotID).Scan(&b.ID, &b.ElectionID, &b.QuestionID)
	if err == sql.ErrNoRows {
		return &models.NotFoundError{Resource: "ballot", ID: ballotID}
	}
	if err != nil {
		return fmt.Errorf("failed to query ballot: %w", err)
	}

	if err := db.InsertAudit(tx, models.AuditEntry{
		ID:        uuid.NewString(),
		ActorID:   actorID,
		Action:    models.AuditVoteDeleted,
		SubjectID: ballotID,
		Reason:    reason,
		Detail:    "election " + b.ElectionID + ", question " + b.QuestionID,
		CreatedAt: now,
	}); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM selection WHERE ballot_id = $1`, ballotID); err != nil {
		return fmt.Errorf("failed to delete selections: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM ballot WHERE id = $1`, ballotID); err != nil {
		return fmt.Errorf("failed to delete ballot: %w", err)
	}

	// The finish snapshot no longer reflects the ledger.
	if _, err := tx.Exec(`DELETE FROM result_snapshot WHERE election_id = $1`, b.ElectionID); err != nil {
		return fmt.Errorf("failed to invalidate result snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	slog.Warn("ballot deleted by administrative override",
		"ballot_id", ballotID, "actor_id", actorID, "reason", reason)
	return nil
}

// VoteStatus reports, per question of the election, whether the voter has a
// recorded ballot.
func VoteStatus(conn *sql.DB, electionID, voterID string) (map[string]bool, error) {
	questions, err := election.LoadQuestions(conn, electionID)
	if err != nil {
		return nil, err
	}

	status := make(map[string]bool, len(questions))
	for _, q := range questions {
		status[q.ID] = false
	}

	rows, err := conn.Query(`
		SELECT question_id FROM ballot
		WHERE election_id = $1 AND voter_id = $2
	`, electionID, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query vote status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var questionID string
		if err := rows.Scan(&questionID); err != nil {
			return nil, fmt.Errorf("failed to scan vote status: %w", err)
		}
		status[questionID] = true
	}
	return status, rows.Err()
}
