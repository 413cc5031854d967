// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/openelect/ballotcore/auth"
	"github.com/openelect/ballotcore/cliparse"
	"github.com/openelect/ballotcore/db"
	"github.com/openelect/ballotcore/models"
)

// TestGatewaySecret signs claim envelopes in tests.
const TestGatewaySecret = "test-gateway-secret"

// SetupTestDB creates a fresh sqlite database with the full schema. Each
// test gets its own file under t.TempDir, so no cleanup or shared state.
// A single connection serializes writers; database/sql queues the rest.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          4000,
		DatabaseURL:   "file:test.db",
		DatabaseType:  "sqlite",
		GatewaySecret: TestGatewaySecret,
		PollInterval:  time.Second,
	}
}

// CreateTestElection creates an election whose derived status matches the
// requested one: "draft", "scheduled", "ongoing", "finished", or
// "cancelled".
func CreateTestElection(t *testing.T, conn *sql.DB, status models.ElectionStatus) string {
	t.Helper()

	now := time.Now()
	var launched, cancelled bool
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)

	switch status {
	case models.StatusDraft:
	case models.StatusScheduled:
		launched = true
		start = now.Add(time.Hour)
		end = now.Add(2 * time.Hour)
	case models.StatusOngoing:
		launched = true
	case models.StatusFinished:
		launched = true
		start = now.Add(-2 * time.Hour)
		end = now.Add(-time.Hour)
	case models.StatusCancelled:
		cancelled = true
	default:
		t.Fatalf("unknown test election status %q", status)
	}

	electionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO election (id, title, description, start_date, end_date,
			launched, cancelled, hide_result, results_published,
			owner_id, owner_role, created_at, updated_at)
		VALUES ($1, 'Test Election', 'A test election', $2, $3, $4, $5, FALSE, FALSE,
			'admin-1', 'admin', $6, $6)
	`, electionID, start, end, launched, cancelled, now)
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return electionID
}

// SetHideResult flips the hide_result flag on an election.
func SetHideResult(t *testing.T, conn *sql.DB, electionID string, hide bool) {
	t.Helper()
	if _, err := conn.Exec(`UPDATE election SET hide_result = $1 WHERE id = $2`, hide, electionID); err != nil {
		t.Fatalf("Failed to set hide_result: %v", err)
	}
}

// AddTestQuestion adds a question to an election and returns its ID.
func AddTestQuestion(t *testing.T, conn *sql.DB, electionID string, qType models.QuestionType, minSel, maxSel int) string {
	t.Helper()

	questionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO question (id, election_id, type, title, min_selections, max_selections, randomize, position)
		VALUES ($1, $2, $3, 'Test Question', $4, $5, FALSE,
			(SELECT COUNT(*) FROM question WHERE election_id = $2))
	`, questionID, electionID, qType, minSel, maxSel)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	return questionID
}

// AddTestOption adds an option to a question and returns the option ID
func AddTestOption(t *testing.T, conn *sql.DB, questionID, title string) string {
	t.Helper()

	optionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO option (id, question_id, title, is_write_in, position)
		VALUES ($1, $2, $3, FALSE,
			(SELECT COUNT(*) FROM option WHERE question_id = $2))
	`, optionID, questionID, title)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// CreateTestVoter inserts a voter row and returns its ID.
func CreateTestVoter(t *testing.T, conn *sql.DB, role models.Role, onboarding models.OnboardingState) string {
	t.Helper()

	voterID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO voter (id, email, role, onboarding_state, twofa_enabled, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
	`, voterID, voterID+"@example.com", role, onboarding, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return voterID
}

// RegisterTestVoter enrolls a voter in an election.
func RegisterTestVoter(t *testing.T, conn *sql.DB, electionID, voterID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO election_registration (election_id, voter_id, registered_at)
		VALUES ($1, $2, $3)
	`, electionID, voterID, time.Now())
	if err != nil {
		t.Fatalf("Failed to register test voter: %v", err)
	}
}

// CastTestBallot records a multiple choice ballot directly in the ledger.
func CastTestBallot(t *testing.T, conn *sql.DB, electionID, questionID, voterID string, optionIDs ...string) string {
	t.Helper()

	ballotID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO ballot (id, election_id, question_id, voter_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ballotID, electionID, questionID, voterID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	for _, optionID := range optionIDs {
		_, err := conn.Exec(`
			INSERT INTO selection (ballot_id, option_id, rank) VALUES ($1, $2, NULL)
		`, ballotID, optionID)
		if err != nil {
			t.Fatalf("Failed to create test selection: %v", err)
		}
	}

	return ballotID
}

// CastTestRankedBallot records a ranked choice ballot directly in the
// ledger; optionIDs are in preference order.
func CastTestRankedBallot(t *testing.T, conn *sql.DB, electionID, questionID, voterID string, optionIDs ...string) string {
	t.Helper()

	ballotID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO ballot (id, election_id, question_id, voter_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ballotID, electionID, questionID, voterID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	for i, optionID := range optionIDs {
		_, err := conn.Exec(`
			INSERT INTO selection (ballot_id, option_id, rank) VALUES ($1, $2, $3)
		`, ballotID, optionID, i+1)
		if err != nil {
			t.Fatalf("Failed to create test selection: %v", err)
		}
	}

	return ballotID
}

// ClaimsHeaders returns the gateway headers for the given claim set.
func ClaimsHeaders(t *testing.T, claims models.Claims) map[string]string {
	t.Helper()

	if claims.ExpiresAt == 0 {
		claims.ExpiresAt = time.Now().Add(time.Hour).Unix()
	}
	encoded, err := auth.EncodeClaims(claims)
	if err != nil {
		t.Fatalf("Failed to encode claims: %v", err)
	}
	return map[string]string{
		"X-Claims":           encoded,
		"X-Claims-Signature": auth.SignClaims(encoded, TestGatewaySecret),
	}
}

// VoterClaims builds a fully-onboarded voter claim set.
func VoterClaims(voterID string) models.Claims {
	return models.Claims{
		Subject:    voterID,
		Role:       models.RoleVoter,
		Onboarding: models.OnboardingActive,
	}
}

// AdminClaims builds an admin claim set.
func AdminClaims(adminID string) models.Claims {
	return models.Claims{
		Subject:    adminID,
		Role:       models.RoleAdmin,
		Onboarding: models.OnboardingActive,
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
