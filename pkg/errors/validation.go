package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateFinite checks that every value is a finite number.
// NaN and infinities are rejected at the boundary so they never reach the
// geometry kernel, where they would poison every comparison downstream.
func ValidateFinite(what string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidGeometry, "%s contains non-finite value %v", what, v)
		}
	}
	return nil
}

// ValidateElementID validates a caller-supplied element identifier.
//
// The rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - Maximum length of 256 characters
//
// IDs participate in cache keys and in the sorted processing order, so
// anything ambiguous is rejected rather than coerced.
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidAnchor, "element id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidAnchor, "element id too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidAnchor, "element id contains control characters")
		}
	}
	if strings.Contains(id, "\x00") {
		return New(ErrCodeInvalidAnchor, "element id contains null byte")
	}
	return nil
}

// ValidateRadius checks that a sector radius is finite and non-negative.
func ValidateRadius(r float64) error {
	if err := ValidateFinite("sector radius", r); err != nil {
		return err
	}
	if r < 0 {
		return New(ErrCodeInvalidSector, "sector radius cannot be negative: %v", r)
	}
	return nil
}

// ValidateLabelSize checks that a label has positive, finite dimensions.
// Zero-area labels are rejected: a degenerate box satisfies every collision
// predicate vacuously and would silently win contested space.
func ValidateLabelSize(width, height float64) error {
	if err := ValidateFinite("label size", width, height); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidLabel, "label size must be positive, got %vx%v", width, height)
	}
	return nil
}

// ValidateRange checks that a canvas half-range is finite and positive.
func ValidateRange(xRange, yRange float64) error {
	if err := ValidateFinite("canvas range", xRange, yRange); err != nil {
		return err
	}
	if xRange <= 0 || yRange <= 0 {
		return New(ErrCodeInvalidBounds, "canvas range must be positive, got %vx%v", xRange, yRange)
	}
	return nil
}
