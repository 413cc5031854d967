// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/openelect/ballotcore/cliparse"
	"github.com/openelect/ballotcore/handlers"
	"github.com/openelect/ballotcore/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(db, cfg)
	ballotHandler := handlers.NewBallotHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	voterHandler := handlers.NewVoterHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Election lifecycle (commissioner/admin operations)
	mux.HandleFunc("POST /elections", middleware.WithLogging(electionHandler.Create))
	mux.HandleFunc("GET /elections", middleware.WithLogging(electionHandler.List))
	mux.HandleFunc("GET /elections/{id}", middleware.WithLogging(electionHandler.Get))
	mux.HandleFunc("PATCH /elections/{id}", middleware.WithLogging(electionHandler.Update))
	mux.HandleFunc("DELETE /elections/{id}", middleware.WithLogging(electionHandler.Delete))
	mux.HandleFunc("POST /elections/{id}/launch", middleware.WithLogging(electionHandler.Launch))
	mux.HandleFunc("POST /elections/{id}/cancel", middleware.WithLogging(electionHandler.Cancel))
	mux.HandleFunc("GET /elections/{id}/status", middleware.WithLogging(electionHandler.Status))
	mux.HandleFunc("GET /elections/{id}/audit", middleware.WithLogging(electionHandler.Audit))

	// Ballot definition
	mux.HandleFunc("PUT /elections/{id}/ballot", middleware.WithLogging(ballotHandler.Define))
	mux.HandleFunc("GET /elections/{id}/ballot", middleware.WithLogging(ballotHandler.Get))

	// Voter registration per election
	mux.HandleFunc("POST /elections/{id}/registrations", middleware.WithLogging(electionHandler.Register))
	mux.HandleFunc("DELETE /elections/{id}/registrations/{voterID}", middleware.WithLogging(electionHandler.Unregister))

	// Voting operations
	mux.HandleFunc("POST /elections/{id}/votes", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("GET /elections/{id}/vote-status", middleware.WithLogging(votingHandler.VoteStatus))
	mux.HandleFunc("DELETE /votes/{id}", middleware.WithLogging(votingHandler.DeleteVote))

	// Results retrieval and publication
	mux.HandleFunc("GET /elections/{id}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("POST /elections/{id}/results/publish", middleware.WithLogging(resultsHandler.Publish))

	// Voter accounts and onboarding
	mux.HandleFunc("POST /voters", middleware.WithLogging(voterHandler.Create))
	mux.HandleFunc("GET /voters/{id}", middleware.WithLogging(voterHandler.Get))
	mux.HandleFunc("POST /voters/{id}/onboarding/{signal}", middleware.WithLogging(voterHandler.Onboarding))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotcore API v1"))
	})

	return mux
}
