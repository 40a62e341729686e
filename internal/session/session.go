// Package session persists the auth token and last-known user across runs.
//
// Store failures are never fatal to the app: callers log them and continue
// with the in-memory session as the authority for the current run. A load
// that fails or finds nothing simply forces a fresh login.
package session

import (
	"strings"

	"bookstore/pkg/domain"
)

// Session is the single process-wide auth state: an opaque bearer token and
// the last user object the server returned. Either half may be absent —
// registration persists a user without a token.
type Session struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// Authenticated reports whether the session carries a usable token. Operations
// that talk to protected endpoints check this before issuing any request.
func (s *Session) Authenticated() bool {
	return s != nil && strings.TrimSpace(s.Token) != ""
}

// Store is the durable session contract. Load returns (nil, nil) when no
// session has been saved; a non-nil error means the backing store misbehaved
// and the caller should treat the session as absent after logging.
type Store interface {
	Save(sess Session) error
	Load() (*Session, error)
	Clear() error
}
