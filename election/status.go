// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"time"

	"github.com/openelect/ballotcore/models"
)

// Status derives the lifecycle status from time and the stored flags. It is
// a pure function: re-evaluating with the same inputs never changes the
// result, and nothing redundant is ever stored.
//
// The end date is inclusive: a vote cast at exactly end_date is still within
// the window.
func Status(now time.Time, launched, cancelled bool, start, end time.Time) models.ElectionStatus {
	switch {
	case cancelled:
		return models.StatusCancelled
	case !launched:
		return models.StatusDraft
	case now.Before(start):
		return models.StatusScheduled
	case now.After(end):
		return models.StatusFinished
	default:
		return models.StatusOngoing
	}
}

// StatusOf derives the status of an election at the given instant.
func StatusOf(e models.Election, now time.Time) models.ElectionStatus {
	return Status(now, e.Launched, e.Cancelled, e.StartDate, e.EndDate)
}

// BallotMutable reports whether the ballot structure may still be edited.
// Once voting begins the structure is frozen to preserve tally integrity.
func BallotMutable(e models.Election, now time.Time) bool {
	switch StatusOf(e, now) {
	case models.StatusDraft, models.StatusScheduled:
		return true
	}
	return false
}
