// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openelect/ballotcore/models"
)

func validQuestion() models.Question {
	return models.Question{
		ID:            "q1",
		Type:          models.TypeMultipleChoice,
		Title:         "Best option?",
		MinSelections: 1,
		MaxSelections: 1,
		Options: []models.Option{
			{ID: "a", Title: "Alpha"},
			{ID: "b", Title: "Beta"},
		},
	}
}

func TestValidateOK(t *testing.T) {
	violations := Validate([]models.Question{validQuestion()})
	assert.Empty(t, violations)
}

func TestValidateEmptyBallot(t *testing.T) {
	violations := Validate(nil)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "at least one question")
}

func TestValidateCollectsAllViolations(t *testing.T) {
	q := models.Question{
		Type:          models.TypeMultipleChoice,
		Title:         "", // missing title
		MinSelections: 0,  // below 1
		MaxSelections: 5,  // above option count
		Options: []models.Option{
			{ID: "a", Title: "Alpha"},
			{ID: "b", Title: "Alpha"}, // duplicate title
		},
	}

	violations := Validate([]models.Question{q})

	// Every violation is reported, not just the first.
	assert.GreaterOrEqual(t, len(violations), 4)
	assert.Contains(t, violations, "question 1: title is required")
	assert.Contains(t, violations, "question 1: min_selections must be at least 1")
	assert.Contains(t, violations, "question 1: max_selections cannot exceed option count")
	assert.Contains(t, violations, `question 1: duplicate option title "Alpha"`)
}

func TestValidateTooFewOptions(t *testing.T) {
	q := validQuestion()
	q.Options = q.Options[:1]
	q.MaxSelections = 1

	violations := Validate([]models.Question{q})
	assert.Contains(t, violations, "question 1: at least 2 options are required")
}

func TestValidateRankedChoiceIgnoresSelectionBounds(t *testing.T) {
	q := models.Question{
		Type:  models.TypeRankedChoice,
		Title: "Rank the candidates",
		Options: []models.Option{
			{ID: "a", Title: "Alpha"},
			{ID: "b", Title: "Beta"},
			{ID: "c", Title: "Gamma"},
		},
	}

	assert.Empty(t, Validate([]models.Question{q}))
}

func TestFromInputsAssignsIDsAndPositions(t *testing.T) {
	questions := FromInputs("e1", []models.QuestionInput{
		{
			Type:          models.TypeMultipleChoice,
			Title:         "Pick one",
			MinSelections: 1,
			MaxSelections: 1,
			Options:       []models.OptionInput{{Title: "A"}, {Title: "B", IsWriteIn: true}},
		},
	})

	require.Len(t, questions, 1)
	q := questions[0]
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, "e1", q.ElectionID)
	require.Len(t, q.Options, 2)
	assert.Equal(t, q.ID, q.Options[0].QuestionID)
	assert.Equal(t, 0, q.Options[0].Position)
	assert.Equal(t, 1, q.Options[1].Position)
	assert.True(t, q.Options[1].IsWriteIn)
	assert.NotEqual(t, q.Options[0].ID, q.Options[1].ID)
}

func TestValidateSelectionMultipleChoice(t *testing.T) {
	q := validQuestion()
	q.MaxSelections = 2

	tests := []struct {
		name      string
		optionIDs []string
		rankings  []models.RankedInput
		wantOK    bool
	}{
		{"single pick", []string{"a"}, nil, true},
		{"two picks within max", []string{"a", "b"}, nil, true},
		{"empty below min", nil, nil, false},
		{"unknown option", []string{"z"}, nil, false},
		{"duplicate pick", []string{"a", "a"}, nil, false},
		{"rankings on mc question", []string{"a"}, []models.RankedInput{{OptionID: "a", Rank: 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := ValidateSelection(q, tt.optionIDs, tt.rankings)
			if tt.wantOK {
				assert.Empty(t, violations)
			} else {
				assert.NotEmpty(t, violations)
			}
		})
	}
}

func TestValidateSelectionRankedChoice(t *testing.T) {
	q := models.Question{
		ID:    "q1",
		Type:  models.TypeRankedChoice,
		Title: "Rank them",
		Options: []models.Option{
			{ID: "a", Title: "Alpha"},
			{ID: "b", Title: "Beta"},
			{ID: "c", Title: "Gamma"},
		},
	}

	tests := []struct {
		name     string
		rankings []models.RankedInput
		wantOK   bool
	}{
		{"full ranking", []models.RankedInput{{OptionID: "a", Rank: 1}, {OptionID: "b", Rank: 2}, {OptionID: "c", Rank: 3}}, true},
		{"partial ranking", []models.RankedInput{{OptionID: "b", Rank: 1}}, true},
		{"duplicate rank", []models.RankedInput{{OptionID: "a", Rank: 1}, {OptionID: "b", Rank: 1}}, false},
		{"sparse ranks", []models.RankedInput{{OptionID: "a", Rank: 1}, {OptionID: "b", Rank: 3}}, false},
		{"duplicate option", []models.RankedInput{{OptionID: "a", Rank: 1}, {OptionID: "a", Rank: 2}}, false},
		{"unknown option", []models.RankedInput{{OptionID: "z", Rank: 1}}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := ValidateSelection(q, nil, tt.rankings)
			if tt.wantOK {
				assert.Empty(t, violations)
			} else {
				assert.NotEmpty(t, violations)
			}
		})
	}
}
