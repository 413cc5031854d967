// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/openelect/ballotcore/access"
	"github.com/openelect/ballotcore/cliparse"
	"github.com/openelect/ballotcore/db"
	"github.com/openelect/ballotcore/election"
	"github.com/openelect/ballotcore/ledger"
	"github.com/openelect/ballotcore/middleware"
	"github.com/openelect/ballotcore/models"
)

type ElectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{db: db, cfg: cfg}
}

// canTouch authorizes mutation of a specific election: its owner, or any
// admin.
func canTouch(claims models.Claims, e models.Election) error {
	if claims.Subject == e.OwnerID {
		return nil
	}
	switch claims.Role {
	case models.RoleAdmin, models.RoleSuperAdmin:
		return nil
	}
	return &models.AuthorizationError{Reason: "not the owner of this election"}
}

// Create handles POST /elections
func (h *ElectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.RequireClaims(r, h.cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := access.CanManageElections(claims); err != nil {
		middleware.WriteError(w, err)
		return
	}

	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var violations []string
	if req.Title == "" {
		violations = append(violations, "title is required")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		violations = append(violations, "start_date and end_date are required")
	} else if !req.EndDate.After(req.StartDate) {
		violations = append(violations, "end_date must be after start_date")
	}
	if len(violations) > 0 {
		middleware.WriteError(w, &models.ValidationError{Violations: violations})
		return
	}

	now := time.Now()
	e := models.Election{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		HideResult:  req.HideResult,
		OwnerID:     claims.Subject,
		OwnerRole:   claims.Role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = h.db.Exec(`
		INSERT INTO election (id, title, description, start_date, end_date,
			launched, cancelled, hide_result, results_published,
			owner_id, owner_role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, FALSE, $6, FALSE, $7, $8, $9, $9)
	`, e.ID, e.Title, e.Description, e.StartDate, e.EndDate, e.HideResult,
		e.OwnerID, e.OwnerRole, now)
	if err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	slog.Info("election created", "election_id", e.ID, "owner", e.OwnerID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{Election: e})
}

// List handles GET /elections
func (h *ElectionHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequireClaims(r, h.cfg.GatewaySecret); err != nil {
		middleware.WriteError(w, err)
		return
	}

	rows, err := h.db.Query(`
		SELECT id, title, description, start_date, end_date,
		       launched, cancelled, hide_result, results_published,
		       owner_id, owner_role, created_at, updated_at
		FROM election
		ORDER BY created_at DESC
	`)
	if err != nil {
		slog.Error("failed to query elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	now := time.Now()
	summaries := []models.ElectionSummary{}
	for rows.Next() {
		var e models.Election
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate,
			&e.Launched, &e.Cancelled, &e.HideResult, &e.ResultsPublished,
			&e.OwnerID, &e.OwnerRole, &e.CreatedAt, &e.UpdatedAt); err != nil {
			slog.Error("failed to scan election", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		summaries = append(summaries, models.ElectionSummary{
			Election: e,
			Status:   election.StatusOf(e, now),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, summaries)
}

// Get handles GET /elections/{id}
func (h *ElectionHandler) Get(w http.ResponseWriter, r *http.Request) {
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

// Update handles PATCH /elections/{id}. Metadata is editable only while the
// election is still a draft; once launched the window and title are fixed.
func (h *ElectionHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	if status := election.StatusOf(e, now); status != models.StatusDraft {
		middleware.WriteError(w, &models.ElectionStateError{Op: "update the election", Status: status})
		return
	}

	var req models.UpdateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.StartDate != nil {
		e.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		e.EndDate = *req.EndDate
	}
	if req.HideResult != nil {
		e.HideResult = *req.HideResult
	}

	var violations []string
	if e.Title == "" {
		violations = append(violations, "title is required")
	}
	if !e.EndDate.After(e.StartDate) {
		violations = append(violations, "end_date must be after start_date")
	}
	if len(violations) > 0 {
		middleware.WriteError(w, &models.ValidationError{Violations: violations})
		return
	}

	e.UpdatedAt = now
	_, err = h.db.Exec(`
		UPDATE election
		SET title = $1, description = $2, start_date = $3, end_date = $4,
		    hide_result = $5, updated_at = $6
		WHERE id = $7
	`, e.Title, e.Description, e.StartDate, e.EndDate, e.HideResult, now, e.ID)
	if err != nil {
		slog.Error("failed to update election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update election")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, e)
}

// Delete handles DELETE /elections/{id}. Only drafts with no recorded votes
// can be removed; anything later must go through cancel instead.
func (h *ElectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.RequireClaims(r, h.cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := access.CanManageCommissioners(claims); err != nil {
		middleware.WriteError(w, err)
		return
	}

	e, err := election.GetByID(h.db, r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	now := time.Now()
	if status := election.StatusOf(e, now); status != models.StatusDraft {
		middleware.WriteError(w, &models.ElectionStateError{Op: "delete the election", Status: status})
		return
	}

	var votes int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM ballot WHERE election_id = $1`, e.ID).Scan(&votes); err != nil {
		slog.Error("failed to count ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if votes > 0 {
		middleware.WriteError(w, &models.ElectionStateError{Op: "delete an election with votes", Status: models.StatusDraft})
		return
	}

	if _, err := h.db.Exec(`DELETE FROM election WHERE id = $1`, e.ID); err != nil {
		slog.Error("failed to delete election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete election")
		return
	}

	slog.Info("election deleted", "election_id", e.ID, "actor", claims.Subject)
	w.WriteHeader(http.StatusNoContent)
}

// Launch handles POST /elections/{id}/launch
func (h *ElectionHandler) Launch(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.RequireClaims(r, h.cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := access.CanManageElections(claims); err != nil {
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

	if err := election.Launch(h.db, e.ID, claims.Subject, time.Now()); err != nil {
		middleware.WriteError(w, err)
		return
	}

	// A launch with the start date already past goes straight to Ongoing,
	// so re-derive rather than assume Scheduled.
	launched, err := election.GetByID(h.db, e.ID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	now := time.Now()
	slog.Info("election launched", "election_id", e.ID, "actor", claims.Subject)
	middleware.JSONResponse(w, http.StatusOK, models.ElectionStatusResponse{
		ElectionID: e.ID,
		Status:     election.StatusOf(launched, now),
		AsOf:       now,
	})
}

// Cancel handles POST /elections/{id}/cancel
func (h *ElectionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.RequireClaims(r, h.cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := access.CanManageElections(claims); err != nil {
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

	if err := election.Cancel(h.db, e.ID, claims.Subject, time.Now()); err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("election cancelled", "election_id", e.ID, "actor", claims.Subject)
	middleware.JSONResponse(w, http.StatusOK, models.ElectionStatusResponse{
		ElectionID: e.ID,
		Status:     models.StatusCancelled,
		AsOf:       time.Now(),
	})
}

// Status handles GET /elections/{id}/status. Public: status is the one
// piece of election state voters may always see.
func (h *ElectionHandler) Status(w http.ResponseWriter, r *http.Request) {
	e, err := election.GetByID(h.db, r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	now := time.Now()
	middleware.JSONResponse(w, http.StatusOK, models.ElectionStatusResponse{
		ElectionID: e.ID,
		Status:     election.StatusOf(e, now),
		AsOf:       now,
	})
}

// Register handles POST /elections/{id}/registrations
func (h *ElectionHandler) Register(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.RequireClaims(r, h.cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := access.CanManageElections(claims); err != nil {
		middleware.WriteError(w, err)
		return
	}

	e, err := election.GetByID(h.db, r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.VoterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	}

	if err := ledger.Register(h.db, e.ID, req.VoterID, time.Now()); err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("voter registered", "election_id", e.ID, "voter_id", req.VoterID)
	w.WriteHeader(http.StatusNoContent)
}

// Unregister handles DELETE /elections/{id}/registrations/{voterID}
func (h *ElectionHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.RequireClaims(r, h.cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := access.CanManageElections(claims); err != nil {
		middleware.WriteError(w, err)
		return
	}

	if err := ledger.Unregister(h.db, r.PathValue("id"), r.PathValue("voterID")); err != nil {
		middleware.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Audit handles GET /elections/{id}/audit
func (h *ElectionHandler) Audit(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.RequireClaims(r, h.cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := access.CanManageCommissioners(claims); err != nil {
		middleware.WriteError(w, err)
		return
	}

	entries, err := db.ListAudit(h.db, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to list audit entries", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}

	middleware.JSONResponse(w, http.StatusOK, entries)
}
