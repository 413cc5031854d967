// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides claim-envelope verification and IP hashing.

# Claim Envelopes

The API gateway authenticates users and forwards a claim set on every
request as two headers:

	X-Claims:           base64(JSON claim set)
	X-Claims-Signature: HMAC-SHA256(X-Claims, gateway secret)

This service never verifies user credentials itself. VerifyClaims only
checks that the trusted boundary produced the claim set (HMAC match), that
it has not expired, and that the role is one of the closed set. Everything
else (role sufficiency, onboarding state) is enforced by the access package.

	claims, err := auth.VerifyClaims(encoded, sig, secret, time.Now())

Verification fails closed: any defect yields an AuthError.

# IP Hashing

HashIP produces a salted, truncated HMAC digest of a client IP. Ballot rows
carry the digest for forensic correlation; the raw address is never stored:

	hash := auth.HashIP(middleware.GetClientIP(r), secret)
*/
package auth
