// ABOUTME: Utility functions for parsing integers from strings
// ABOUTME: Provides safe parsing of numeric ids and counts from paths and query strings

package parse

import "strconv"

// IntOrZero safely parses an integer from a string, returning 0 if parsing fails
func IntOrZero(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

// ID parses a positive int64 identifier. ok is false for anything else.
func ID(s string) (id int64, ok bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
