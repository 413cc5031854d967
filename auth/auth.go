// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openelect/ballotcore/models"
)

// HashIP produces a salted digest of a client IP for forensic correlation
// on ballot rows without storing the raw address.
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// First 16 hex chars (64 bits) - enough for correlation
	return hex.EncodeToString(sum[:8])
}

// SignClaims produces the HMAC-SHA256 signature the gateway attaches to a
// claim envelope. Deterministic and verifiable; the secret is shared between
// the gateway and this service.
func SignClaims(encodedClaims, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(encodedClaims))
	sum := h.Sum(nil)
	// URL-safe base64 and trim padding for cleaner header values
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// EncodeClaims serializes a claim set into the base64 envelope form used on
// the wire. Used by the gateway and by tests.
func EncodeClaims(c models.Claims) (string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode claims: %w", err)
	}
	return base64.URLEncoding.EncodeToString(payload), nil
}

// VerifyClaims checks the envelope signature and expiry, then decodes the
// claim set. The gateway already authenticated the user; the HMAC only
// attests that the trusted boundary produced this claim set. Fails closed:
// any defect is an AuthError.
func VerifyClaims(encodedClaims, signature, secret string, now time.Time) (models.Claims, error) {
	if encodedClaims == "" {
		return models.Claims{}, &models.AuthError{Reason: "missing claims"}
	}

	expected := SignClaims(encodedClaims, secret)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return models.Claims{}, &models.AuthError{Reason: "invalid claims signature"}
	}

	payload, err := base64.URLEncoding.DecodeString(encodedClaims)
	if err != nil {
		return models.Claims{}, &models.AuthError{Reason: "malformed claims encoding"}
	}

	var claims models.Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return models.Claims{}, &models.AuthError{Reason: "malformed claims payload"}
	}

	if claims.Subject == "" {
		return models.Claims{}, &models.AuthError{Reason: "claims missing subject"}
	}
	if !models.ValidRole(string(claims.Role)) {
		return models.Claims{}, &models.AuthError{Reason: "unknown role " + string(claims.Role)}
	}
	if claims.ExpiresAt != 0 && now.Unix() > claims.ExpiresAt {
		return models.Claims{}, &models.AuthError{Reason: "claims expired"}
	}

	return claims, nil
}
