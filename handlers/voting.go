// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/openelect/ballotcore/access"
	"github.com/openelect/ballotcore/auth"
	"github.com/openelect/ballotcore/cliparse"
	"github.com/openelect/ballotcore/ledger"
	"github.com/openelect/ballotcore/middleware"
	"github.com/openelect/ballotcore/models"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// CastVote handles POST /elections/{id}/votes. One request is one
// whole-question ballot; the ledger rejects a second ballot for the same
// question rather than replacing it.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.RequireClaims(r, h.cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := access.CanVote(claims); err != nil {
		middleware.WriteError(w, err)
		return
	}

	electionID := r.PathValue("id")

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.QuestionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question_id is required")
		return
	}

	// Ballot rows carry a salted IP digest for forensic correlation; the
	// raw address is never stored.
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.GatewaySecret)

	ballotID, err := ledger.Cast(h.db, electionID, req.QuestionID, claims.Subject,
		ipHash, req.OptionIDs, req.Rankings, time.Now())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("ballot cast",
		"election_id", electionID, "question_id", req.QuestionID, "ballot_id", ballotID)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		BallotID: ballotID,
		Message:  "Ballot recorded",
	})
}

// VoteStatus handles GET /elections/{id}/vote-status. Voters see their own
// per-question status only.
func (h *VotingHandler) VoteStatus(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.RequireClaims(r, h.cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	electionID := r.PathValue("id")
	status, err := ledger.VoteStatus(h.db, electionID, claims.Subject)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteStatusResponse{
		ElectionID: electionID,
		HasVoted:   status,
	})
}

// DeleteVote handles DELETE /votes/{id}. An administrative override, never
// part of the normal flow: requires a reason and always leaves an audit
// record, or the vote stays.
func (h *VotingHandler) DeleteVote(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.RequireClaims(r, h.cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := access.CanDeleteVotes(claims); err != nil {
		middleware.WriteError(w, err)
		return
	}

	var req models.DeleteVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Reason == "" {
		middleware.WriteError(w, models.NewValidationError("reason is required for vote deletion"))
		return
	}

	if err := ledger.Delete(h.db, r.PathValue("id"), claims.Subject, req.Reason, time.Now()); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
