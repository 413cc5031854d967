// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/openelect/ballotcore/models"
)

// FromInputs materializes a proposed ballot into domain questions, assigning
// fresh IDs and positions. Validation happens separately so that callers can
// report every violation at once.
func FromInputs(electionID string, inputs []models.QuestionInput) []models.Question {
	questions := make([]models.Question, 0, len(inputs))
	for qi, in := range inputs {
		q := models.Question{
			ID:            uuid.NewString(),
			ElectionID:    electionID,
			Type:          in.Type,
			Title:         in.Title,
			MinSelections: in.MinSelections,
			MaxSelections: in.MaxSelections,
			Randomize:     in.Randomize,
			Position:      qi,
		}
		for oi, opt := range in.Options {
			q.Options = append(q.Options, models.Option{
				ID:               uuid.NewString(),
				QuestionID:       q.ID,
				Title:            opt.Title,
				ShortDescription: opt.ShortDescription,
				FullDescription:  opt.FullDescription,
				PhotoURL:         opt.PhotoURL,
				IsWriteIn:        opt.IsWriteIn,
				Position:         oi,
			})
		}
		questions = append(questions, q)
	}
	return questions
}

// Validate checks the structural rules a ballot must satisfy before launch
// and before any mutation while scheduled. Returns the full list of
// violations; an empty list means the ballot is valid.
func Validate(questions []models.Question) []string {
	var violations []string

	if len(questions) == 0 {
		violations = append(violations, "ballot must have at least one question")
	}

	for i, q := range questions {
		label := fmt.Sprintf("question %d", i+1)

		if q.Title == "" {
			violations = append(violations, label+": title is required")
		}

		switch q.Type {
		case models.TypeMultipleChoice, models.TypeRankedChoice:
		default:
			violations = append(violations, fmt.Sprintf("%s: unknown type %q", label, q.Type))
		}

		if len(q.Options) < 2 {
			violations = append(violations, label+": at least 2 options are required")
		}

		seen := make(map[string]bool, len(q.Options))
		for j, opt := range q.Options {
			if opt.Title == "" {
				violations = append(violations, fmt.Sprintf("%s: option %d title is required", label, j+1))
				continue
			}
			if seen[opt.Title] {
				violations = append(violations, fmt.Sprintf("%s: duplicate option title %q", label, opt.Title))
			}
			seen[opt.Title] = true
		}

		if q.Type == models.TypeMultipleChoice {
			if q.MinSelections < 1 {
				violations = append(violations, label+": min_selections must be at least 1")
			}
			if q.MaxSelections < q.MinSelections {
				violations = append(violations, label+": max_selections must be >= min_selections")
			}
			if q.MaxSelections > len(q.Options) {
				violations = append(violations, label+": max_selections cannot exceed option count")
			}
		}
	}

	return violations
}

// ValidateSelection checks one submitted ballot against the question's
// schema bounds. Returns the full list of violations.
func ValidateSelection(q models.Question, optionIDs []string, rankings []models.RankedInput) []string {
	valid := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		valid[opt.ID] = true
	}

	var violations []string

	switch q.Type {
	case models.TypeMultipleChoice:
		if len(rankings) > 0 {
			violations = append(violations, "rankings are not allowed on a multiple choice question")
		}
		if len(optionIDs) < q.MinSelections {
			violations = append(violations, fmt.Sprintf("at least %d selection(s) required", q.MinSelections))
		}
		if len(optionIDs) > q.MaxSelections {
			violations = append(violations, fmt.Sprintf("at most %d selection(s) allowed", q.MaxSelections))
		}
		seen := make(map[string]bool, len(optionIDs))
		for _, id := range optionIDs {
			if !valid[id] {
				violations = append(violations, "unknown option "+id)
			}
			if seen[id] {
				violations = append(violations, "option "+id+" selected more than once")
			}
			seen[id] = true
		}

	case models.TypeRankedChoice:
		if len(optionIDs) > 0 {
			violations = append(violations, "option_ids are not allowed on a ranked choice question")
		}
		if len(rankings) == 0 {
			violations = append(violations, "at least one ranking is required")
		}
		if len(rankings) > len(q.Options) {
			violations = append(violations, "more rankings than options")
		}
		seenOpt := make(map[string]bool, len(rankings))
		seenRank := make(map[int]bool, len(rankings))
		for _, rk := range rankings {
			if !valid[rk.OptionID] {
				violations = append(violations, "unknown option "+rk.OptionID)
			}
			if seenOpt[rk.OptionID] {
				violations = append(violations, "option "+rk.OptionID+" ranked more than once")
			}
			seenOpt[rk.OptionID] = true
			if seenRank[rk.Rank] {
				violations = append(violations, fmt.Sprintf("duplicate rank %d", rk.Rank))
			}
			seenRank[rk.Rank] = true
		}
		// Ranks must be dense from 1
		for r := 1; r <= len(rankings); r++ {
			if !seenRank[r] {
				violations = append(violations, fmt.Sprintf("ranks must be consecutive from 1, missing rank %d", r))
				break
			}
		}

	default:
		violations = append(violations, fmt.Sprintf("unknown question type %q", q.Type))
	}

	return violations
}
