// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

type CreateElectionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	HideResult  bool      `json:"hide_result"`
}

type UpdateElectionRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	HideResult  *bool      `json:"hide_result,omitempty"`
}

// DefineBallotRequest replaces the full ballot structure of an election.
// Legacy callers that still send candidate_name/candidate_bio must map those
// onto title/short_description at the API gateway; the core accepts one
// canonical schema only.
type DefineBallotRequest struct {
	Questions []QuestionInput `json:"questions"`
}

type QuestionInput struct {
	Type          QuestionType  `json:"type"`
	Title         string        `json:"title"`
	MinSelections int           `json:"min_selections"`
	MaxSelections int           `json:"max_selections"`
	Randomize     bool          `json:"randomize"`
	Options       []OptionInput `json:"options"`
}

type OptionInput struct {
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	FullDescription  string `json:"full_description"`
	PhotoURL         string `json:"photo_url"`
	IsWriteIn        bool   `json:"is_write_in"`
}

// CastVoteRequest is one whole-question ballot: either option_ids (multiple
// choice) or rankings (ranked choice), never both.
type CastVoteRequest struct {
	QuestionID string        `json:"question_id"`
	OptionIDs  []string      `json:"option_ids,omitempty"`
	Rankings   []RankedInput `json:"rankings,omitempty"`
}

type RankedInput struct {
	OptionID string `json:"option_id"`
	Rank     int    `json:"rank"`
}

type RegisterVoterRequest struct {
	VoterID string `json:"voter_id"`
}

type CreateVoterRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type DeleteVoteRequest struct {
	Reason string `json:"reason"`
}

// Response types

type CreateElectionResponse struct {
	Election Election `json:"election"`
}

type ElectionStatusResponse struct {
	ElectionID string         `json:"election_id"`
	Status     ElectionStatus `json:"status"`
	AsOf       time.Time      `json:"as_of"`
}

type CastVoteResponse struct {
	BallotID string `json:"ballot_id"`
	Message  string `json:"message"`
}

type VoteStatusResponse struct {
	ElectionID string          `json:"election_id"`
	HasVoted   map[string]bool `json:"has_voted"` // question_id -> voted
}

type ElectionSummary struct {
	Election Election       `json:"election"`
	Status   ElectionStatus `json:"status"`
}

type ElectionWithBallot struct {
	Election  Election   `json:"election"`
	Status    ElectionStatus `json:"status"`
	Questions []Question `json:"questions"`
}

// Error response

type ErrorResponse struct {
	Error      string   `json:"error"`
	Message    string   `json:"message,omitempty"`
	Violations []string `json:"violations,omitempty"`
}
