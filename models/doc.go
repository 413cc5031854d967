// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain types, request/response types, and the typed
error taxonomy for the election engine.

# Domain Types

  - Election: metadata, voting window, lifecycle flags (launched, cancelled)
  - Question: one ballot question (multiple choice or ranked choice)
  - Option: one candidate/choice within a question
  - Ballot: one voter's recorded answer to one question
  - Selection: one chosen option within a ballot (with rank when ranked)
  - Voter: registered user with role and onboarding state
  - Claims: verified identity context supplied by the API gateway
  - AuditEntry: administrative action record

# Status Derivation

Election status is never stored. It is derived from (now, launched,
cancelled, start_date, end_date) by the election package:

	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusOngoing   = "ongoing"
	StatusFinished  = "finished"
	StatusCancelled = "cancelled"

# Roles

Roles form a closed set, validated once at the trust boundary:

	RoleVoter        = "voter"
	RoleCommissioner = "commissioner"
	RoleAdmin        = "admin"
	RoleSuperAdmin   = "super_admin"

# Error Taxonomy

All domain failures are typed values returned to the caller, never silently
swallowed:

  - ValidationError: malformed ballot structure or vote selection (carries
    every violation, not just the first)
  - ElectionStateError: operation outside the status that permits it
  - DuplicateVoteError: second ballot for the same voter and question
  - AuthError: missing, unparseable, or expired identity envelope
  - AuthorizationError: valid identity, insufficient role or onboarding state
  - IndeterminateTieError: IRV tie requiring manual admin resolution
  - NotFoundError: missing resource
*/
package models
