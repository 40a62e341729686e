// Package state holds the client-side view of server data: one slice per
// feature, each tracking its own request lifecycle, plus the bridge that
// keeps sibling slices consistent after mutations.
//
// Slices are mutex-guarded and apply transitions in response-arrival order.
// Overlapping requests of the same family are not deduplicated or sequenced:
// the last response to resolve wins. In-flight requests are never cancelled.
package state

import (
	"errors"
	"fmt"
	"log/slog"

	"bookstore/internal/api"
	"bookstore/internal/session"
)

// Status is the lifecycle phase of one asynchronous operation family.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// RequestState is the shape every slice uses to track one operation family.
// Err keeps the last failure message; data fields live on the slice itself
// and survive a failed request untouched.
type RequestState struct {
	Status Status
	Err    string
}

// Pending reports whether a request is in flight.
func (r RequestState) Pending() bool {
	return r.Status == StatusPending
}

// ErrNotAuthenticated is the precondition failure for operations that need a
// stored token. It is raised before any network call.
var ErrNotAuthenticated = errors.New("not logged in")

// ValidationError is a precondition failure on user input. It never reaches
// the network and never mutates slice state.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsPrecondition reports whether err was raised before any network call.
func IsPrecondition(err error) bool {
	var vErr *ValidationError
	return errors.Is(err, ErrNotAuthenticated) || errors.As(err, &vErr)
}

// requireToken checks the stored session for a usable token. A store read
// failure is logged and treated as "no session".
func requireToken(sessions session.Store) error {
	sess, err := sessions.Load()
	if err != nil {
		slog.Warn("session_read_failed", "err", err)
		return ErrNotAuthenticated
	}
	if !sess.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// errMessage extracts the user-facing message for a failed request: the
// server-provided message when present, else the error text.
func errMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// ImagePreparer converts a local image path into an upload-ready form file.
// Wired to the media package at construction time; stubbed in tests.
type ImagePreparer func(path string) (api.FormFile, error)
