package util

import (
	"strconv"
)

// MustParseUint parses s as an unsigned id and returns 0 when it is not one.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParseOptionalUint returns nil for an empty or malformed s.
func ParseOptionalUint(s string) *uint {
	if s == "" {
		return nil
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil
	}
	v := uint(id)
	return &v
}
