// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/openelect/ballotcore/ballot"
	"github.com/openelect/ballotcore/cliparse"
	"github.com/openelect/ballotcore/election"
	"github.com/openelect/ballotcore/middleware"
	"github.com/openelect/ballotcore/models"
)

type BallotHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewBallotHandler(db *sql.DB, cfg cliparse.Config) *BallotHandler {
	return &BallotHandler{db: db, cfg: cfg}
}

// Define handles PUT /elections/{id}/ballot. It replaces the whole ballot
// structure and refuses on any violation, listing all of them. Once voting
// is underway the structure is frozen.
func (h *BallotHandler) Define(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.RequireClaims(r, h.cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	e, err := election.GetByID(h.db, r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := canTouch(claims, e); err != nil {
		middleware.WriteError(w, err)
		return
	}

	now := time.Now()
	if !election.BallotMutable(e, now) {
		middleware.WriteError(w, &models.ElectionStateError{
			Op:     "modify the ballot",
			Status: election.StatusOf(e, now),
		})
		return
	}

	var req models.DefineBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	questions := ballot.FromInputs(e.ID, req.Questions)
	if violations := ballot.Validate(questions); len(violations) > 0 {
		middleware.WriteError(w, &models.ValidationError{Violations: violations})
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Replace the previous structure wholesale.
	if _, err := tx.Exec(`
		DELETE FROM option WHERE question_id IN (SELECT id FROM question WHERE election_id = $1)
	`, e.ID); err != nil {
		slog.Error("failed to clear options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to define ballot")
		return
	}
	if _, err := tx.Exec(`DELETE FROM question WHERE election_id = $1`, e.ID); err != nil {
		slog.Error("failed to clear questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to define ballot")
		return
	}

	for _, q := range questions {
		if _, err := tx.Exec(`
			INSERT INTO question (id, election_id, type, title, min_selections, max_selections, randomize, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, q.ID, q.ElectionID, q.Type, q.Title, q.MinSelections, q.MaxSelections, q.Randomize, q.Position); err != nil {
			slog.Error("failed to insert question", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to define ballot")
			return
		}
		for _, opt := range q.Options {
			if _, err := tx.Exec(`
				INSERT INTO option (id, question_id, title, short_description, full_description,
					photo_url, is_write_in, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, opt.ID, opt.QuestionID, opt.Title, opt.ShortDescription, opt.FullDescription,
				opt.PhotoURL, opt.IsWriteIn, opt.Position); err != nil {
				slog.Error("failed to insert option", "error", err)
				middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to define ballot")
				return
			}
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit ballot definition", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to define ballot")
		return
	}

	slog.Info("ballot defined", "election_id", e.ID, "questions", len(questions))

	middleware.JSONResponse(w, http.StatusOK, models.ElectionWithBallot{
		Election:  e,
		Status:    election.StatusOf(e, now),
		Questions: questions,
	})
}

// Get handles GET /elections/{id}/ballot
func (h *BallotHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequireClaims(r, h.cfg.GatewaySecret); err != nil {
		middleware.WriteError(w, err)
		return
	}

	e, err := election.GetByID(h.db, r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	questions, err := election.LoadQuestions(h.db, e.ID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionWithBallot{
		Election:  e,
		Status:    election.StatusOf(e, time.Now()),
		Questions: questions,
	})
}
