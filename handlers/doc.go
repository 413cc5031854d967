// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ballotcore API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - ElectionHandler: Election lifecycle (create, update, launch, cancel)
  - BallotHandler: Ballot definition (wholesale replace while mutable)
  - VotingHandler: Vote casting, vote status, administrative delete
  - ResultsHandler: Tally retrieval and result publication
  - VoterHandler: Voter accounts and onboarding signals

Handlers are created via constructor functions that accept *sql.DB and Config:

	electionHandler := handlers.NewElectionHandler(db, cfg)

# Election Lifecycle

Elections progress by launch plus the clock: draft → scheduled → ongoing →
finished, with cancelled as a terminal branch from draft or scheduled.
Status is never stored; it is derived on every read.

	POST /elections               → Create
	PUT  /elections/{id}/ballot   → Define (draft/scheduled only)
	POST /elections/{id}/launch   → Launch (validates the ballot)
	POST /elections/{id}/cancel   → Cancel

# Identity

All protected operations require the gateway claim envelope in the
X-Claims and X-Claims-Signature headers. Handlers verify the HMAC and
then apply role and onboarding gates from the access package.

# Voting Flow

One request casts one voter's complete answer to one question:

	POST /elections/{id}/votes       → CastVote
	GET  /elections/{id}/vote-status → VoteStatus

Duplicate casts are rejected by a storage-level uniqueness constraint,
so concurrent submissions resolve to exactly one recorded ballot.

# Results

Tallying (plurality and instant-runoff) is implemented in the tally
package; ResultsHandler enforces visibility:

	GET  /elections/{id}/results         → GetResults
	POST /elections/{id}/results/publish → Publish

Finished elections serve a frozen snapshot once one exists.
*/
package handlers
