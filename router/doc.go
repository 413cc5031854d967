// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ballotcore API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Election lifecycle (commissioner/admin, requires gateway claims):

	POST   /elections               - Create election
	GET    /elections               - List elections with derived status
	GET    /elections/{id}          - Election with ballot definition
	PATCH  /elections/{id}          - Update metadata (Draft only)
	DELETE /elections/{id}          - Delete (Draft, no votes)
	POST   /elections/{id}/launch   - Launch (idempotent)
	POST   /elections/{id}/cancel   - Cancel (idempotent)
	GET    /elections/{id}/status   - Derived status (public)
	GET    /elections/{id}/audit    - Audit trail (admin)

Ballot definition:

	PUT /elections/{id}/ballot - Replace ballot wholesale (Draft/Scheduled)
	GET /elections/{id}/ballot - Read ballot definition

Voter registration:

	POST   /elections/{id}/registrations           - Register voter
	DELETE /elections/{id}/registrations/{voterID} - Unregister voter

Voting:

	POST   /elections/{id}/votes       - Cast ballot for one question
	GET    /elections/{id}/vote-status - Per-question voted map (self)
	DELETE /votes/{id}                 - Administrative vote delete (audited)

Results:

	GET  /elections/{id}/results         - Tally (visibility rules apply)
	POST /elections/{id}/results/publish - Publish final results

Voter accounts:

	POST /voters                          - Create voter account
	GET  /voters/{id}                     - Voter details (self or admin)
	POST /voters/{id}/onboarding/{signal} - Advance onboarding

# Handler Initialization

The router creates handler instances with dependency injection:

	electionHandler := handlers.NewElectionHandler(db, cfg)
	ballotHandler := handlers.NewBallotHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	voterHandler := handlers.NewVoterHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
