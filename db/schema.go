// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The SQL is deliberately portable between postgres and sqlite: no NOW()
// defaults (timestamps are always set by the caller) and no serial columns
// (all IDs are generated in Go).
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Elections. Status is never stored: it is derived from the launched and
-- cancelled flags plus the voting window.
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP NOT NULL,
    launched BOOLEAN NOT NULL DEFAULT FALSE,
    cancelled BOOLEAN NOT NULL DEFAULT FALSE,
    hide_result BOOLEAN NOT NULL DEFAULT FALSE,
    results_published BOOLEAN NOT NULL DEFAULT FALSE,
    owner_id TEXT NOT NULL,
    owner_role TEXT NOT NULL CHECK (owner_role IN ('admin', 'super_admin', 'commissioner')),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_election_owner ON election(owner_id);
CREATE INDEX IF NOT EXISTS idx_election_launched ON election(launched, cancelled);

-- Ballot questions
CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    type TEXT NOT NULL CHECK (type IN ('multiple_choice', 'ranked_choice')),
    title TEXT NOT NULL,
    min_selections INTEGER NOT NULL DEFAULT 1,
    max_selections INTEGER NOT NULL DEFAULT 1,
    randomize BOOLEAN NOT NULL DEFAULT FALSE,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_question_election_id ON question(election_id);

-- Options (candidates). Titles are unique within a question.
CREATE TABLE IF NOT EXISTS option (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    short_description TEXT,
    full_description TEXT,
    photo_url TEXT,
    is_write_in BOOLEAN NOT NULL DEFAULT FALSE,
    position INTEGER NOT NULL,
    UNIQUE (question_id, title)
);

CREATE INDEX IF NOT EXISTS idx_option_question_id ON option(question_id);

-- Voters
CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    role TEXT NOT NULL DEFAULT 'voter' CHECK (role IN ('voter', 'commissioner', 'admin', 'super_admin')),
    onboarding_state TEXT NOT NULL DEFAULT 'not_started'
        CHECK (onboarding_state IN ('not_started', 'basic_info_collected', 'twofa_configured', 'active')),
    twofa_enabled BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL
);

-- Election registrations: a voter must be registered before casting.
CREATE TABLE IF NOT EXISTS election_registration (
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL REFERENCES voter(id) ON DELETE CASCADE,
    registered_at TIMESTAMP NOT NULL,
    PRIMARY KEY (election_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_registration_voter ON election_registration(voter_id);

-- Ballots: the append-only vote ledger. The UNIQUE constraint is the
-- at-most-once guarantee; concurrent duplicate casts are resolved here,
-- not by a prior read.
CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    ip_hash TEXT NOT NULL DEFAULT '',
    cast_at TIMESTAMP NOT NULL,
    UNIQUE (question_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_ballot_election_id ON ballot(election_id);
CREATE INDEX IF NOT EXISTS idx_ballot_question_id ON ballot(question_id);

-- Selections: the options chosen on one ballot. rank is NULL for multiple
-- choice; for ranked choice it is dense from 1 and unique per ballot.
CREATE TABLE IF NOT EXISTS selection (
    ballot_id TEXT NOT NULL REFERENCES ballot(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL REFERENCES option(id) ON DELETE CASCADE,
    rank INTEGER,
    PRIMARY KEY (ballot_id, option_id),
    UNIQUE (ballot_id, rank)
);

CREATE INDEX IF NOT EXISTS idx_selection_option_id ON selection(option_id);

-- Result snapshots: the authoritative tally computed once when an election
-- finishes. Invalidated by administrative vote deletes.
CREATE TABLE IF NOT EXISTS result_snapshot (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL UNIQUE REFERENCES election(id) ON DELETE CASCADE,
    computed_at TIMESTAMP NOT NULL,
    payload TEXT NOT NULL,
    tie_pending BOOLEAN NOT NULL DEFAULT FALSE
);

-- Audit log: written atomically with the administrative action it records.
CREATE TABLE IF NOT EXISTS audit_log (
    id TEXT PRIMARY KEY,
    actor_id TEXT NOT NULL,
    action TEXT NOT NULL,
    subject_id TEXT NOT NULL,
    reason TEXT,
    detail TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_subject ON audit_log(subject_id);
`
