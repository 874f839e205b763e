package util

import (
	"strconv"
	"strings"
)

// MustParseUint converts a string to an unsigned integer, returning 0 on
// failure.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParseScorePercent parses a quiz score written as "80", "80%", or "100.0".
// Any unparsable input yields 0; malformed score records degrade instead of
// aborting plan generation.
func ParseScorePercent(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
