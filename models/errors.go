// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"
	"strings"
)

// ValidationError carries every violation found, not just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidationError builds a ValidationError from the given violations.
// Callers must check len(violations) > 0 themselves; an empty list means valid.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// ElectionStateError reports an operation attempted outside the election
// status that permits it.
type ElectionStateError struct {
	Op     string
	Status ElectionStatus
}

func (e *ElectionStateError) Error() string {
	return fmt.Sprintf("cannot %s while election is %s", e.Op, e.Status)
}

// DuplicateVoteError reports a second ballot for the same voter and question.
type DuplicateVoteError struct {
	VoterID    string
	QuestionID string
}

func (e *DuplicateVoteError) Error() string {
	return fmt.Sprintf("voter %s already cast a ballot for question %s", e.VoterID, e.QuestionID)
}

// AuthError reports a missing, unparseable, or expired identity envelope.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Reason
}

// AuthorizationError reports a valid identity with insufficient role or
// onboarding state. Never downgraded silently.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "not authorized: " + e.Reason
}

// IndeterminateTieError reports an instant-runoff elimination tie that the
// tie-break rules could not resolve. Requires manual admin resolution; the
// engine never picks arbitrarily.
type IndeterminateTieError struct {
	QuestionID  string
	TiedOptions []string
}

func (e *IndeterminateTieError) Error() string {
	return fmt.Sprintf("indeterminate tie on question %s between options %s",
		e.QuestionID, strings.Join(e.TiedOptions, ", "))
}

// NotFoundError reports a missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}
