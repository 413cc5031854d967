// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	"github.com/openelect/ballotcore/models"
)

// Execer is satisfied by *sql.DB and *sql.Tx, so audit rows can be written
// atomically with the action they record.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// InsertAudit appends one audit record. Callers performing destructive
// actions must run this inside the same transaction as the action itself:
// if the audit write fails, the action must not happen.
func InsertAudit(q Execer, e models.AuditEntry) error {
	_, err := q.Exec(`
		INSERT INTO audit_log (id, actor_id, action, subject_id, reason, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.ActorID, e.Action, e.SubjectID, e.Reason, e.Detail, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// ListAudit returns audit entries for one subject, newest first.
func ListAudit(db *sql.DB, subjectID string) ([]models.AuditEntry, error) {
	rows, err := db.Query(`
		SELECT id, actor_id, action, subject_id, reason, detail, created_at
		FROM audit_log
		WHERE subject_id = $1
		ORDER BY created_at DESC
	`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		var reason, detail sql.NullString
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.SubjectID,
			&reason, &detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.Reason = reason.String
		e.Detail = detail.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
