// Package service implements the use-cases on top of the repositories.
// Services validate candidates with the shared entity validator, surface
// French violation texts, and keep partial updates merge-based: a nil request
// field means the stored value is kept.
package service

import (
	"strings"
	"time"
)

// defaultNow is used when no clock is injected.
func defaultNow() time.Time { return time.Now().UTC() }

// normalizeOptional trims an optional string and collapses blanks to nil.
func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
