// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package access

import "github.com/openelect/ballotcore/models"

// The gate authorizes core operations from an already-verified claim set.
// It fails closed: insufficient role or onboarding state is always an
// explicit AuthorizationError, never a silent downgrade to read-only.

// CanManageElections authorizes election and ballot mutation.
func CanManageElections(c models.Claims) error {
	switch c.Role {
	case models.RoleAdmin, models.RoleSuperAdmin, models.RoleCommissioner:
		return nil
	}
	return &models.AuthorizationError{Reason: "role " + string(c.Role) + " cannot manage elections"}
}

// CanManageCommissioners authorizes commissioner-management operations,
// which require more than commissioner rights themselves.
func CanManageCommissioners(c models.Claims) error {
	switch c.Role {
	case models.RoleAdmin, models.RoleSuperAdmin:
		return nil
	}
	return &models.AuthorizationError{Reason: "role " + string(c.Role) + " cannot manage commissioners"}
}

// CanDeleteVotes authorizes the administrative vote delete override.
func CanDeleteVotes(c models.Claims) error {
	switch c.Role {
	case models.RoleAdmin, models.RoleSuperAdmin:
		return nil
	}
	return &models.AuthorizationError{Reason: "role " + string(c.Role) + " cannot delete votes"}
}

// CanVote authorizes ballot casting: voters only, fully onboarded, and with
// a 2FA-verified session when the account requires one.
func CanVote(c models.Claims) error {
	if c.Role != models.RoleVoter {
		return &models.AuthorizationError{Reason: "only voters may cast ballots"}
	}
	if c.Onboarding != models.OnboardingActive {
		return &models.AuthorizationError{Reason: "onboarding incomplete: " + string(c.Onboarding)}
	}
	if c.TwoFARequired && !c.TwoFAPassed {
		return &models.AuthorizationError{Reason: "two-factor verification required for this session"}
	}
	return nil
}

// CanActFor authorizes operations on a voter's own resources, or by an
// admin on anyone's.
func CanActFor(c models.Claims, voterID string) error {
	if c.Subject == voterID {
		return nil
	}
	switch c.Role {
	case models.RoleAdmin, models.RoleSuperAdmin:
		return nil
	}
	return &models.AuthorizationError{Reason: "cannot act on behalf of another voter"}
}
