package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"bookstore/pkg/domain"
)

func TestFileStoreRoundTripAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	first, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	user := &domain.User{
		ID:        "user-1",
		Username:  "ada",
		Email:     "ada@example.com",
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := first.Save(Session{Token: "t1", User: user}); err != nil {
		t.Fatalf("save: %v", err)
	}

	// A second instance over the same path models a process restart.
	second, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	sess, err := second.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess == nil || sess.Token != "t1" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if sess.User == nil || sess.User.ID != "user-1" || sess.User.Username != "ada" {
		t.Fatalf("unexpected user: %+v", sess.User)
	}
	if !sess.Authenticated() {
		t.Fatal("expected authenticated session")
	}
}

func TestFileStoreLoadMissingReturnsNil(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	sess, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected nil session, got %+v", sess)
	}
}

func TestFileStoreLoadCorruptReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Load(); err == nil {
		t.Fatal("expected error for corrupt session file")
	}
}

func TestFileStoreClearIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Save(Session{Token: "t1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	sess, err := store.Load()
	if err != nil || sess != nil {
		t.Fatalf("expected empty store after clear, got %+v %v", sess, err)
	}
}

func TestSessionAuthenticated(t *testing.T) {
	var nilSess *Session
	if nilSess.Authenticated() {
		t.Fatal("nil session must not be authenticated")
	}
	if (&Session{Token: "  "}).Authenticated() {
		t.Fatal("blank token must not be authenticated")
	}
	if !(&Session{Token: "t"}).Authenticated() {
		t.Fatal("token must authenticate")
	}
}
