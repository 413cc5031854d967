// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The SQL is portable between postgres (production) and sqlite (dev and tests).

# Tables

  - election: Election metadata and lifecycle flags
  - question: Ballot questions per election
  - option: Candidates/choices per question
  - voter: Registered users with role and onboarding state
  - election_registration: Which voters may vote in which election
  - ballot: One ballot per voter per question (the vote ledger)
  - selection: Chosen options per ballot, with rank for ranked choice
  - result_snapshot: Authoritative tally stored when an election finishes
  - audit_log: Administrative action records

# Relationships

	election 1──* question
	question 1──* option
	election 1──* election_registration *──1 voter
	question 1──* ballot
	ballot 1──* selection
	election 1──1 result_snapshot

All foreign keys use ON DELETE CASCADE.

# Uniqueness Invariants

  - ballot.(question_id, voter_id): at most one ballot per voter per
    question; concurrent duplicate casts are resolved by this constraint
  - selection.(ballot_id, rank): no duplicate ranks on a ranked ballot
  - option.(question_id, title): option titles unique within a question
  - result_snapshot.election_id: one snapshot per election
*/
package db
