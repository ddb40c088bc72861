package utilities

import (
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

// NewKSUID generates a new globally unique, time-sortable KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// NewEntryID generates a random catalog entry id.
func NewEntryID() uuid.UUID {
	return uuid.New()
}

// ParseEntryID parses a stored or user supplied entry id. The second result
// is false when s is empty or not a UUID.
func ParseEntryID(s string) (uuid.UUID, bool) {
	if s == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
