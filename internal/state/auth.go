package state

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"bookstore/internal/api"
	"bookstore/internal/session"
	"bookstore/pkg/domain"
)

// Auth owns the session half of client state: the current user, the token,
// and the request lifecycle of register/login/update operations. Login and
// profile updates persist the session before their transition completes, so
// any later request sees the fresh token.
type Auth struct {
	mu    sync.Mutex
	user  *domain.User
	token string
	req   RequestState

	client   *api.Client
	sessions session.Store
	prepare  ImagePreparer
}

// NewAuth builds the auth slice.
func NewAuth(client *api.Client, sessions session.Store, prepare ImagePreparer) *Auth {
	return &Auth{
		client:   client,
		sessions: sessions,
		prepare:  prepare,
		req:      RequestState{Status: StatusIdle},
	}
}

// Restore loads the persisted session at startup. Store failures are logged
// and leave the slice unauthenticated, forcing a fresh login.
func (a *Auth) Restore() {
	sess, err := a.sessions.Load()
	if err != nil {
		slog.Warn("session_restore_failed", "err", err)
		return
	}
	if sess == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = sess.User
	a.token = sess.Token
}

// Register creates an account. The new user is persisted locally but the user
// is not logged in: the token stays empty until Login.
func (a *Auth) Register(ctx context.Context, username, email, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return validationf("username, email and password are required")
	}

	a.begin()
	user, err := a.client.Register(ctx, username, email, password)
	if err != nil {
		a.fail(err)
		return err
	}

	a.mu.Lock()
	a.user = &user
	a.req = RequestState{Status: StatusSucceeded}
	token := a.token
	a.mu.Unlock()

	if err := a.sessions.Save(session.Session{Token: token, User: &user}); err != nil {
		slog.Warn("session_save_failed", "err", err)
	}
	return nil
}

// Login populates user and token and persists both before returning, so the
// next user-initiated request reads the fresh credential from the store.
func (a *Auth) Login(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return validationf("email and password are required")
	}

	a.begin()
	user, token, err := a.client.Login(ctx, email, password)
	if err != nil {
		a.fail(err)
		return err
	}

	if err := a.sessions.Save(session.Session{Token: token, User: &user}); err != nil {
		slog.Warn("session_save_failed", "err", err)
	}

	a.mu.Lock()
	a.user = &user
	a.token = token
	a.req = RequestState{Status: StatusSucceeded}
	a.mu.Unlock()
	return nil
}

// UpdateProfile sends a multipart update and replaces the cached user
// wholesale on success, persisting the replacement.
func (a *Auth) UpdateProfile(ctx context.Context, username, email, imagePath string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" {
		return validationf("username and email are required")
	}
	if err := requireToken(a.sessions); err != nil {
		return err
	}

	var image *api.FormFile
	if imagePath != "" {
		prepared, err := a.prepare(imagePath)
		if err != nil {
			return validationf("profile image: %v", err)
		}
		prepared.Field = "profileImage"
		image = &prepared
	}

	a.begin()
	user, err := a.client.UpdateProfile(ctx, username, email, image)
	if err != nil {
		a.fail(err)
		return err
	}

	a.mu.Lock()
	a.user = &user
	token := a.token
	a.req = RequestState{Status: StatusSucceeded}
	a.mu.Unlock()

	if err := a.sessions.Save(session.Session{Token: token, User: &user}); err != nil {
		slog.Warn("session_save_failed", "err", err)
	}
	return nil
}

// Logout clears the durable session and the in-memory slice. Store failures
// are logged; the in-memory clear still happens.
func (a *Auth) Logout() {
	if err := a.sessions.Clear(); err != nil {
		slog.Warn("session_clear_failed", "err", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = nil
	a.token = ""
	a.req = RequestState{Status: StatusIdle}
}

// CurrentUser returns a copy of the cached user, nil when logged out.
func (a *Auth) CurrentUser() *domain.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return nil
	}
	user := *a.user
	return &user
}

// Token returns the in-memory token.
func (a *Auth) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

// State returns the slice's request state.
func (a *Auth) State() RequestState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.req
}

func (a *Auth) begin() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.req = RequestState{Status: StatusPending}
}

func (a *Auth) fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.req = RequestState{Status: StatusFailed, Err: errMessage(err)}
}
