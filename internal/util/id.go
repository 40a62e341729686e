package util

import "github.com/google/uuid"

// NewRequestID returns a correlation ID attached to gateway log lines so a
// user action can be traced through its request/response pair.
func NewRequestID() string {
	return uuid.NewString()
}
