// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import "strings"

// IsUniqueViolation matches constraint errors from both supported drivers
// (modernc sqlite and lib/pq). Callers that rely on UNIQUE constraints for
// concurrency control use this to turn the losing writer's error into a
// domain outcome.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
