// Package id provides UUIDv7 generation for request and trace identifiers.
// UUIDv7 is time-ordered, so ids in logs sort by creation time.
package id

import (
	"strings"

	"github.com/google/uuid"
)

// ID is a type alias for UUID.
type ID = uuid.UUID

// New generates a new UUIDv7 (time-ordered UUID).
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.New()
	}
	return id
}

// NewSpanID returns a 16 hex character span identifier.
func NewSpanID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}
