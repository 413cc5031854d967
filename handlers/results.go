// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/openelect/ballotcore/cliparse"
	"github.com/openelect/ballotcore/election"
	"github.com/openelect/ballotcore/middleware"
	"github.com/openelect/ballotcore/models"
	"github.com/openelect/ballotcore/tally"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// GetResults handles GET /elections/{id}/results
//
// The owner and admins can always see the tally. Everyone else is gated by
// the election's visibility settings: live results during an ongoing
// election require hide_result to be off, and final results require the
// owner to have published them.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.RequireClaims(r, h.cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	electionID := r.PathValue("id")

	e, err := election.GetByID(h.db, electionID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	now := time.Now()
	status := election.StatusOf(e, now)

	privileged := canTouch(claims, e) == nil

	if !privileged {
		switch status {
		case models.StatusOngoing:
			if e.HideResult {
				middleware.WriteError(w, &models.AuthorizationError{Reason: "live results are hidden for this election"})
				return
			}
		case models.StatusFinished:
			if !e.ResultsPublished {
				middleware.WriteError(w, &models.AuthorizationError{Reason: "results have not been published"})
				return
			}
		default:
			middleware.WriteError(w, &models.ElectionStateError{Op: "view results", Status: status})
			return
		}
	} else if status == models.StatusDraft || status == models.StatusScheduled || status == models.StatusCancelled {
		middleware.WriteError(w, &models.ElectionStateError{Op: "view results", Status: status})
		return
	}

	results := models.ElectionResults{
		ElectionID: electionID,
		Status:     status,
		Final:      status == models.StatusFinished,
		ComputedAt: now,
	}

	// A finished election serves its stored snapshot when one exists, so
	// later vote deletions by moderators are reflected only after the
	// snapshot is invalidated and recomputed.
	if status == models.StatusFinished {
		questions, computedAt, found, err := tally.LoadSnapshot(h.db, electionID)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		if found {
			results.ComputedAt = computedAt
			results.Questions = questions
			middleware.JSONResponse(w, http.StatusOK, results)
			return
		}
	}

	questions, err := tally.TallyElection(h.db, electionID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	results.Questions = questions

	if status == models.StatusFinished {
		if err := tally.SaveSnapshot(h.db, electionID, questions, now); err != nil {
			middleware.WriteError(w, err)
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// Publish handles POST /elections/{id}/results/publish
//
// Only meaningful once the election has finished. Idempotent.
func (h *ResultsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.RequireClaims(r, h.cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	electionID := r.PathValue("id")
	e, err := election.GetByID(h.db, electionID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := canTouch(claims, e); err != nil {
		middleware.WriteError(w, err)
		return
	}

	status := election.StatusOf(e, time.Now())
	if status != models.StatusFinished {
		middleware.WriteError(w, &models.ElectionStateError{Op: "publish results", Status: status})
		return
	}

	_, err = h.db.Exec(`UPDATE election SET results_published = TRUE WHERE id = $1`, electionID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Results published"})
}
