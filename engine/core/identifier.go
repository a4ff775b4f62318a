package core

import "github.com/google/uuid"

// NewRunID returns a fresh identifier for one pipeline run. Log lines of the
// same run share it.
func NewRunID() string {
	return uuid.NewString()
}

// ShortID trims an identifier to its first block for compact log lines.
func ShortID(id string) string {
	if len(id) < 8 {
		return id
	}
	return id[:8]
}
