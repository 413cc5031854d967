// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Election status values, always derived from time and flags, never stored.
type ElectionStatus string

const (
	StatusDraft     ElectionStatus = "draft"
	StatusScheduled ElectionStatus = "scheduled"
	StatusOngoing   ElectionStatus = "ongoing"
	StatusFinished  ElectionStatus = "finished"
	StatusCancelled ElectionStatus = "cancelled"
)

// Question type constants
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeRankedChoice   QuestionType = "ranked_choice"
)

// Role is validated once at the trust boundary and passed as a typed value.
type Role string

const (
	RoleVoter        Role = "voter"
	RoleCommissioner Role = "commissioner"
	RoleAdmin        Role = "admin"
	RoleSuperAdmin   Role = "super_admin"
)

// ValidRole reports whether s is one of the closed set of roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleVoter, RoleCommissioner, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// OnboardingState tracks a voter's progression toward voting eligibility.
type OnboardingState string

const (
	OnboardingNotStarted OnboardingState = "not_started"
	OnboardingBasicInfo  OnboardingState = "basic_info_collected"
	OnboardingTwoFA      OnboardingState = "twofa_configured"
	OnboardingActive     OnboardingState = "active"
)

// Domain types

type Election struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Launched         bool      `json:"launched"`
	Cancelled        bool      `json:"cancelled"`
	HideResult       bool      `json:"hide_result"`
	ResultsPublished bool      `json:"results_published"`
	OwnerID          string    `json:"owner_id"`
	OwnerRole        Role      `json:"owner_role"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Question struct {
	ID            string       `json:"id"`
	ElectionID    string       `json:"election_id"`
	Type          QuestionType `json:"type"`
	Title         string       `json:"title"`
	MinSelections int          `json:"min_selections"`
	MaxSelections int          `json:"max_selections"`
	Randomize     bool         `json:"randomize"`
	Position      int          `json:"position"`
	Options       []Option     `json:"options"`
}

type Option struct {
	ID               string `json:"id"`
	QuestionID       string `json:"question_id"`
	Title            string `json:"title"`
	ShortDescription string `json:"short_description,omitempty"`
	FullDescription  string `json:"full_description,omitempty"`
	PhotoURL         string `json:"photo_url,omitempty"`
	IsWriteIn        bool   `json:"is_write_in"`
	Position         int    `json:"position"`
}

// Ballot is one voter's recorded answer to one question. The selection rows
// are written atomically with the ballot row; (question_id, voter_id) is
// unique at the storage layer.
type Ballot struct {
	ID         string      `json:"id"`
	ElectionID string      `json:"election_id"`
	QuestionID string      `json:"question_id"`
	VoterID    string      `json:"-"` // never expose voter identity in JSON
	IPHash     string      `json:"-"` // salted digest, see auth.HashIP
	CastAt     time.Time   `json:"cast_at"`
	Selections []Selection `json:"selections"`
}

type Selection struct {
	BallotID string `json:"ballot_id"`
	OptionID string `json:"option_id"`
	Rank     int    `json:"rank,omitempty"` // 0 for multiple choice
}

type Voter struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	Role         Role            `json:"role"`
	Onboarding   OnboardingState `json:"onboarding_state"`
	TwoFAEnabled bool            `json:"twofa_enabled"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Claims is the identity context supplied by the API gateway. The gateway has
// already authenticated the user; this service only checks the HMAC envelope
// and enforces role/onboarding rules.
type Claims struct {
	Subject       string          `json:"sub"`
	Role          Role            `json:"role"`
	Onboarding    OnboardingState `json:"onboarding_state"`
	TwoFARequired bool            `json:"twofa_required"`
	TwoFAPassed   bool            `json:"twofa_passed"`
	ExpiresAt     int64           `json:"exp"` // unix seconds
}

type AuditEntry struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	Action    string    `json:"action"`
	SubjectID string    `json:"subject_id"`
	Reason    string    `json:"reason,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Audit actions
const (
	AuditVoteDeleted       = "vote_deleted"
	AuditElectionLaunched  = "election_launched"
	AuditElectionCancelled = "election_cancelled"
)

// Tally result types

type OptionCount struct {
	OptionID string `json:"option_id"`
	Title    string `json:"title"`
	Count    int    `json:"count"`
	Percent  int    `json:"percent"` // rounded to nearest integer, 0 when no votes
}

// IRVRound records one elimination round of an instant-runoff count.
type IRVRound struct {
	Round         int            `json:"round"`
	Counts        map[string]int `json:"counts"` // option_id -> first-preference count
	ActiveBallots int            `json:"active_ballots"`
	Eliminated    string         `json:"eliminated,omitempty"`
}

type QuestionResult struct {
	QuestionID   string        `json:"question_id"`
	Type         QuestionType  `json:"type"`
	TotalBallots int           `json:"total_ballots"`
	Options      []OptionCount `json:"options,omitempty"` // multiple choice
	Rounds       []IRVRound    `json:"rounds,omitempty"`  // ranked choice
	WinnerID     string        `json:"winner_id,omitempty"`
	TiePending   bool          `json:"tie_pending,omitempty"`
	TiedOptions  []string      `json:"tied_options,omitempty"`
}

type ElectionResults struct {
	ElectionID string           `json:"election_id"`
	Status     ElectionStatus   `json:"status"`
	Final      bool             `json:"final"`
	ComputedAt time.Time        `json:"computed_at"`
	Questions  []QuestionResult `json:"questions"`
}
