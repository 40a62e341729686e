package state

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"bookstore/internal/api"
	"bookstore/internal/session"
	"bookstore/pkg/domain"
)

// env wires real slices over a fake backend and a real file session store.
type env struct {
	store   *session.FileStore
	client  *api.Client
	auth    *Auth
	feed    *Feed
	submit  *Submit
	profile *Profile
	bridge  *Bridge
}

func stubPreparer(path string) (api.FormFile, error) {
	return api.FormFile{Name: "photo.jpg", ContentType: "image/jpeg", Data: []byte("jpeg-bytes")}, nil
}

func newEnv(t *testing.T, handler http.Handler) *env {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}
	client := api.NewClient(srv.URL, 5*time.Second, store)

	e := &env{
		store:   store,
		client:  client,
		auth:    NewAuth(client, store, stubPreparer),
		feed:    NewFeed(client, store),
		submit:  NewSubmit(client, store, stubPreparer),
		profile: NewProfile(client, store),
	}
	e.bridge = NewBridge(e.auth, e.feed, e.submit, e.profile)
	return e
}

func (e *env) loginAs(t *testing.T, user domain.User) {
	t.Helper()
	err := e.store.Save(session.Session{Token: "t1", User: &user})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
	e.auth.Restore()
}

func jsonHandler(t *testing.T, routes map[string]string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		body, ok := routes[key]
		if !ok {
			t.Errorf("unexpected request: %s", key)
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	})
}
