// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openelect/ballotcore/handlers"
	"github.com/openelect/ballotcore/models"
	"github.com/openelect/ballotcore/router"
	"github.com/openelect/ballotcore/testutil"
)

func TestCreateElection(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := handlers.NewElectionHandler(conn, cfg)

	commissioner := models.Claims{
		Subject:    "commissioner-1",
		Role:       models.RoleCommissioner,
		Onboarding: models.OnboardingActive,
	}

	tests := []struct {
		name           string
		claims         *models.Claims
		body           models.CreateElectionRequest
		expectedStatus int
	}{
		{
			name:   "valid election",
			claims: &commissioner,
			body: models.CreateElectionRequest{
				Title:     "Board Election 2026",
				StartDate: time.Now().Add(24 * time.Hour),
				EndDate:   time.Now().Add(48 * time.Hour),
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "missing title",
			claims: &commissioner,
			body: models.CreateElectionRequest{
				StartDate: time.Now().Add(24 * time.Hour),
				EndDate:   time.Now().Add(48 * time.Hour),
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "end before start",
			claims: &commissioner,
			body: models.CreateElectionRequest{
				Title:     "Backwards",
				StartDate: time.Now().Add(48 * time.Hour),
				EndDate:   time.Now().Add(24 * time.Hour),
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "voter cannot create",
			claims: &models.Claims{Subject: "voter-1", Role: models.RoleVoter, Onboarding: models.OnboardingActive},
			body: models.CreateElectionRequest{
				Title:     "Unauthorized",
				StartDate: time.Now().Add(24 * time.Hour),
				EndDate:   time.Now().Add(48 * time.Hour),
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "no claims",
			claims:         nil,
			body:           models.CreateElectionRequest{Title: "Anonymous"},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers map[string]string
			if tt.claims != nil {
				headers = testutil.ClaimsHeaders(t, *tt.claims)
			}
			req := testutil.MakeRequest("POST", "/elections", tt.body, headers)
			w := httptest.NewRecorder()

			handler.Create(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var resp models.CreateElectionResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Election.ID == "" {
					t.Error("Expected a generated election ID")
				}
				if resp.Election.OwnerID != tt.claims.Subject {
					t.Errorf("Expected owner %s, got %s", tt.claims.Subject, resp.Election.OwnerID)
				}
			}
		})
	}
}

func TestUpdateElectionDraftOnly(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := router.NewRouter(conn, cfg)

	headers := testutil.ClaimsHeaders(t, testutil.AdminClaims("admin-1"))
	newTitle := "Renamed Election"

	t.Run("draft is editable", func(t *testing.T) {
		electionID := testutil.CreateTestElection(t, conn, models.StatusDraft)
		req := testutil.MakeRequest("PATCH", "/elections/"+electionID,
			models.UpdateElectionRequest{Title: &newTitle}, headers)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var e models.Election
		testutil.AssertJSON(t, w, &e)
		if e.Title != newTitle {
			t.Errorf("Expected updated title, got %q", e.Title)
		}
	})

	t.Run("ongoing is frozen", func(t *testing.T) {
		electionID := testutil.CreateTestElection(t, conn, models.StatusOngoing)
		req := testutil.MakeRequest("PATCH", "/elections/"+electionID,
			models.UpdateElectionRequest{Title: &newTitle}, headers)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)
		testutil.AssertStatus(t, w, http.StatusConflict)
	})
}

func TestLaunchEndpoint(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := router.NewRouter(conn, cfg)

	electionID := testutil.CreateTestElection(t, conn, models.StatusDraft)
	questionID := testutil.AddTestQuestion(t, conn, electionID, models.TypeMultipleChoice, 1, 1)
	testutil.AddTestOption(t, conn, questionID, "Alice")
	testutil.AddTestOption(t, conn, questionID, "Bob")

	adminHeaders := testutil.ClaimsHeaders(t, testutil.AdminClaims("admin-1"))

	// Voters cannot launch
	voterHeaders := testutil.ClaimsHeaders(t, testutil.VoterClaims("voter-1"))
	req := testutil.MakeRequest("POST", "/elections/"+electionID+"/launch", nil, voterHeaders)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	// Admin launch succeeds, and so does a retry
	for i := 0; i < 2; i++ {
		req = testutil.MakeRequest("POST", "/elections/"+electionID+"/launch", nil, adminHeaders)
		w = httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)
	}
}

// Launching with the start date already past goes straight to Ongoing.
func TestLaunchIntoOpenWindow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := router.NewRouter(conn, cfg)

	electionID := testutil.CreateTestElection(t, conn, models.StatusDraft)
	questionID := testutil.AddTestQuestion(t, conn, electionID, models.TypeMultipleChoice, 1, 1)
	testutil.AddTestOption(t, conn, questionID, "Alice")
	testutil.AddTestOption(t, conn, questionID, "Bob")

	_, err := conn.Exec(`
		UPDATE election SET start_date = $1, end_date = $2 WHERE id = $3
	`, time.Now().Add(-time.Hour), time.Now().Add(time.Hour), electionID)
	if err != nil {
		t.Fatalf("Failed to open the voting window: %v", err)
	}

	headers := testutil.ClaimsHeaders(t, testutil.AdminClaims("admin-1"))
	req := testutil.MakeRequest("POST", "/elections/"+electionID+"/launch", nil, headers)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ElectionStatusResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != models.StatusOngoing {
		t.Errorf("Expected ongoing in launch response, got %s", resp.Status)
	}
}

func TestLaunchInvalidBallot(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := router.NewRouter(conn, cfg)

	// One option only: the ballot cannot validate
	electionID := testutil.CreateTestElection(t, conn, models.StatusDraft)
	questionID := testutil.AddTestQuestion(t, conn, electionID, models.TypeMultipleChoice, 1, 1)
	testutil.AddTestOption(t, conn, questionID, "Unopposed")

	headers := testutil.ClaimsHeaders(t, testutil.AdminClaims("admin-1"))
	req := testutil.MakeRequest("POST", "/elections/"+electionID+"/launch", nil, headers)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Violations) == 0 {
		t.Error("Expected the launch rejection to list violations")
	}
}

func TestStatusEndpointPublic(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := router.NewRouter(conn, cfg)

	electionID := testutil.CreateTestElection(t, conn, models.StatusOngoing)

	// No claim headers at all
	req := testutil.MakeRequest("GET", "/elections/"+electionID+"/status", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ElectionStatusResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != models.StatusOngoing {
		t.Errorf("Expected ongoing, got %s", resp.Status)
	}
}

func TestDeleteElectionGuards(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := router.NewRouter(conn, cfg)

	adminHeaders := testutil.ClaimsHeaders(t, testutil.AdminClaims("admin-1"))

	t.Run("draft with votes is protected", func(t *testing.T) {
		electionID := testutil.CreateTestElection(t, conn, models.StatusDraft)
		questionID := testutil.AddTestQuestion(t, conn, electionID, models.TypeMultipleChoice, 1, 1)
		alice := testutil.AddTestOption(t, conn, questionID, "Alice")
		voterID := testutil.CreateTestVoter(t, conn, models.RoleVoter, models.OnboardingActive)
		testutil.CastTestBallot(t, conn, electionID, questionID, voterID, alice)

		req := testutil.MakeRequest("DELETE", "/elections/"+electionID, nil, adminHeaders)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("empty draft deletes", func(t *testing.T) {
		electionID := testutil.CreateTestElection(t, conn, models.StatusDraft)
		req := testutil.MakeRequest("DELETE", "/elections/"+electionID, nil, adminHeaders)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		testutil.AssertStatus(t, w, http.StatusNoContent)
	})

	t.Run("ongoing cannot be deleted", func(t *testing.T) {
		electionID := testutil.CreateTestElection(t, conn, models.StatusOngoing)
		req := testutil.MakeRequest("DELETE", "/elections/"+electionID, nil, adminHeaders)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		testutil.AssertStatus(t, w, http.StatusConflict)
	})
}

func TestAuditEndpoint(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := router.NewRouter(conn, cfg)

	electionID := testutil.CreateTestElection(t, conn, models.StatusDraft)
	questionID := testutil.AddTestQuestion(t, conn, electionID, models.TypeMultipleChoice, 1, 1)
	testutil.AddTestOption(t, conn, questionID, "Alice")
	testutil.AddTestOption(t, conn, questionID, "Bob")

	adminHeaders := testutil.ClaimsHeaders(t, testutil.AdminClaims("admin-1"))
	req := testutil.MakeRequest("POST", "/elections/"+electionID+"/launch", nil, adminHeaders)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	// Commissioners cannot read the audit trail
	commissioner := models.Claims{Subject: "c-1", Role: models.RoleCommissioner, Onboarding: models.OnboardingActive}
	req = testutil.MakeRequest("GET", "/elections/"+electionID+"/audit", nil, testutil.ClaimsHeaders(t, commissioner))
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	// Admins can
	req = testutil.MakeRequest("GET", "/elections/"+electionID+"/audit", nil, adminHeaders)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var entries []models.AuditEntry
	testutil.AssertJSON(t, w, &entries)
	if len(entries) != 1 || entries[0].Action != models.AuditElectionLaunched {
		t.Errorf("Expected one launch audit entry, got %+v", entries)
	}
}
