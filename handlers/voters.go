// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/openelect/ballotcore/access"
	"github.com/openelect/ballotcore/cliparse"
	"github.com/openelect/ballotcore/middleware"
	"github.com/openelect/ballotcore/models"
)

type VoterHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVoterHandler(db *sql.DB, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{db: db, cfg: cfg}
}

// Create handles POST /voters
//
// Anyone with a verified claim set may create a voter account; granting
// commissioner or admin roles requires commissioner-management rights.
func (h *VoterHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.RequireClaims(r, h.cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	var req models.CreateVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var violations []string
	if req.Email == "" {
		violations = append(violations, "email is required")
	}
	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleVoter
	} else if !models.ValidRole(req.Role) {
		violations = append(violations, "unknown role "+req.Role)
	}
	if len(violations) > 0 {
		middleware.WriteError(w, &models.ValidationError{Violations: violations})
		return
	}

	if role != models.RoleVoter {
		if err := access.CanManageCommissioners(claims); err != nil {
			middleware.WriteError(w, err)
			return
		}
	}

	v := models.Voter{
		ID:         uuid.NewString(),
		Email:      req.Email,
		Role:       role,
		Onboarding: models.OnboardingNotStarted,
		CreatedAt:  time.Now(),
	}
	_, err = h.db.Exec(`
		INSERT INTO voter (id, email, role, onboarding_state, twofa_enabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, v.ID, v.Email, v.Role, v.Onboarding, v.TwoFAEnabled, v.CreatedAt)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, v)
}

// Get handles GET /voters/{id}
func (h *VoterHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.RequireClaims(r, h.cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	voterID := r.PathValue("id")
	if err := access.CanActFor(claims, voterID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	v, err := h.loadVoter(voterID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, v)
}

// Onboarding handles POST /voters/{id}/onboarding/{signal}
//
// Applies one onboarding completion signal and persists the resulting
// state. The twofa_configured signal additionally flips the account's
// twofa_enabled flag, which downstream sessions must then satisfy.
func (h *VoterHandler) Onboarding(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.RequireClaims(r, h.cfg.GatewaySecret)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	voterID := r.PathValue("id")
	signal := r.PathValue("signal")
	if err := access.CanActFor(claims, voterID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	v, err := h.loadVoter(voterID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	next, err := access.AdvanceOnboarding(v.Onboarding, signal)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	twoFA := v.TwoFAEnabled || signal == access.SignalTwoFAConfigured
	_, err = h.db.Exec(`
		UPDATE voter SET onboarding_state = $1, twofa_enabled = $2 WHERE id = $3
	`, next, twoFA, voterID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	v.Onboarding = next
	v.TwoFAEnabled = twoFA
	middleware.JSONResponse(w, http.StatusOK, v)
}

func (h *VoterHandler) loadVoter(voterID string) (models.Voter, error) {
	var v models.Voter
	err := h.db.QueryRow(`
		SELECT id, email, role, onboarding_state, twofa_enabled, created_at
		FROM voter WHERE id = $1
	`, voterID).Scan(&v.ID, &v.Email, &v.Role, &v.Onboarding, &v.TwoFAEnabled, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return v, &models.NotFoundError{Resource: "voter", ID: voterID}
	}
	if err != nil {
		return v, err
	}
	return v, nil
}
