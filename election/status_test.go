// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"testing"
	"time"

	"github.com/openelect/ballotcore/models"
)

func TestStatusDerivation(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-24 * time.Hour)
	after := now.Add(24 * time.Hour)

	tests := []struct {
		name      string
		launched  bool
		cancelled bool
		start     time.Time
		end       time.Time
		expected  models.ElectionStatus
	}{
		{"never launched", false, false, before, after, models.StatusDraft},
		{"never launched, window passed", false, false, before.Add(-48 * time.Hour), before, models.StatusDraft},
		{"launched before window", true, false, after, after.Add(24 * time.Hour), models.StatusScheduled},
		{"launched inside window", true, false, before, after, models.StatusOngoing},
		{"launched after window", true, false, before.Add(-48 * time.Hour), before, models.StatusFinished},
		{"cancelled wins over window", true, true, before, after, models.StatusCancelled},
		{"cancelled draft", false, true, before, after, models.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Status(now, tt.launched, tt.cancelled, tt.start, tt.end)
			if got != tt.expected {
				t.Errorf("Expected status %s, got %s", tt.expected, got)
			}
		})
	}
}

// An election is ongoing through its entire end date: the boundary instant
// itself still accepts votes.
func TestStatusEndDateInclusive(t *testing.T) {
	end := time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)
	start := end.Add(-7 * 24 * time.Hour)

	if got := Status(end, true, false, start, end); got != models.StatusOngoing {
		t.Errorf("Expected ongoing at the end instant, got %s", got)
	}
	if got := Status(end.Add(time.Second), true, false, start, end); got != models.StatusFinished {
		t.Errorf("Expected finished after the end instant, got %s", got)
	}
}

// Status is derived, never stored: the same row reports different statuses
// as the clock moves, with no intervening write.
func TestStatusFollowsClock(t *testing.T) {
	e := models.Election{
		Launched:  true,
		StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 7, 8, 0, 0, 0, 0, time.UTC),
	}

	checkpoints := []struct {
		at       time.Time
		expected models.ElectionStatus
	}{
		{e.StartDate.Add(-time.Hour), models.StatusScheduled},
		{e.StartDate, models.StatusOngoing},
		{e.StartDate.Add(3 * 24 * time.Hour), models.StatusOngoing},
		{e.EndDate.Add(time.Hour), models.StatusFinished},
	}

	for _, cp := range checkpoints {
		if got := StatusOf(e, cp.at); got != cp.expected {
			t.Errorf("At %s: expected %s, got %s", cp.at, cp.expected, got)
		}
	}
}

func TestBallotMutable(t *testing.T) {
	now := time.Now()

	draft := models.Election{StartDate: now.Add(time.Hour), EndDate: now.Add(2 * time.Hour)}
	if !BallotMutable(draft, now) {
		t.Error("Draft ballot should be mutable")
	}

	scheduled := draft
	scheduled.Launched = true
	if !BallotMutable(scheduled, now) {
		t.Error("Scheduled ballot should be mutable")
	}

	ongoing := models.Election{Launched: true, StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)}
	if BallotMutable(ongoing, now) {
		t.Error("Ongoing ballot must not be mutable")
	}

	cancelled := draft
	cancelled.Cancelled = true
	if BallotMutable(cancelled, now) {
		t.Error("Cancelled ballot must not be mutable")
	}
}
