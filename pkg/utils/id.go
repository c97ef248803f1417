package utils

import "github.com/google/uuid"

// NewRequestID returns a random UUID used to correlate log lines of one request.
func NewRequestID() string {
	return uuid.NewString()
}
