// Package util provides utility functions for the pharmacy ledger.
package util

import "github.com/google/uuid"

// GenerateUUID returns a random RFC4122 v4 UUID string.
func GenerateUUID() string {
	return uuid.NewString()
}

// GenerateID returns a prefixed identifier such as "RET-1f0c2b7e-4a1d".
// The suffix is the first two blocks of a v4 UUID.
func GenerateID(prefix string) string {
	short := GenerateUUID()[:13]
	if prefix == "" {
		return short
	}
	return prefix + "-" + short
}
