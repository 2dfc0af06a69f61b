// Package validation collects per-field violation codes for request input.
package validation

import (
	"strconv"
	"strings"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// OptionalInt parses value when present. Malformed input is recorded as a
// violation and def is returned.
func OptionalInt(field, value string, def int, v Violations) int {
	if strings.TrimSpace(value) == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		v[field] = "not_a_number"
		return def
	}
	return n
}

func RangeInt(field string, val, minVal, maxVal int, v Violations) {
	if _, exists := v[field]; exists {
		return
	}
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}
