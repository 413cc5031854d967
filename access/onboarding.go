// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package access

import "github.com/openelect/ballotcore/models"

// Onboarding signals, emitted by the external profile and 2FA-setup flows.
// The gate reads onboarding state but never advances it; only these explicit
// completion signals do.
const (
	SignalProfileComplete = "profile_complete"
	SignalTwoFAConfigured = "twofa_configured"
	SignalActivate        = "activate"
)

// AdvanceOnboarding applies one completion signal to the current state and
// returns the next state. 2FA configuration is optional: a voter may
// activate straight from basic info. Invalid transitions return a
// ValidationError and leave the state unchanged.
func AdvanceOnboarding(state models.OnboardingState, signal string) (models.OnboardingState, error) {
	switch signal {
	case SignalProfileComplete:
		if state == models.OnboardingNotStarted {
			return models.OnboardingBasicInfo, nil
		}
	case SignalTwoFAConfigured:
		if state == models.OnboardingBasicInfo {
			return models.OnboardingTwoFA, nil
		}
	case SignalActivate:
		if state == models.OnboardingBasicInfo || state == models.OnboardingTwoFA {
			return models.OnboardingActive, nil
		}
	default:
		return state, models.NewValidationError("unknown onboarding signal " + signal)
	}
	return state, models.NewValidationError(
		"signal " + signal + " is not valid from state " + string(state))
}
