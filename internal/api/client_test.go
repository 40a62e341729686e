package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookstore/internal/session"
)

type stubStore struct {
	sess *session.Session
	err  error
}

func (s *stubStore) Save(session.Session) error { return nil }

func (s *stubStore) Load() (*session.Session, error) { return s.sess, s.err }

func (s *stubStore) Clear() error { return nil }

func newTestClient(t *testing.T, handler http.Handler, store session.Store) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, store)
}

func TestLoginParsesTokenAndUser(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected content type: %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("login must not carry a credential, got %q", got)
		}
		w.Write([]byte(`{"token":"t1","user":{"id":"u1","username":"ada","email":"ada@example.com"}}`))
	})
	c := newTestClient(t, handler, &stubStore{})

	user, token, err := c.Login(context.Background(), "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "t1" || user.ID != "u1" || user.Username != "ada" {
		t.Fatalf("unexpected result: %q %+v", token, user)
	}
}

func TestBearerAttachedWhenTokenStored(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer t1" {
			t.Errorf("unexpected auth header: %q", got)
		}
		w.Write([]byte(`{"books":[]}`))
	})
	c := newTestClient(t, handler, &stubStore{sess: &session.Session{Token: "t1"}})
	if _, err := c.ListBooks(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
}

func TestStoreFailureProceedsWithoutCredential(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected credential-less request, got %q", got)
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"unauthorized"}`))
	})
	c := newTestClient(t, handler, &stubStore{err: errors.New("storage unavailable")})

	_, err := c.ListBooks(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
}

func TestSubmitBookSendsMultipart(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/book/books" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if got := r.FormValue("title"); got != "Dune" {
			t.Errorf("unexpected title: %q", got)
		}
		if got := r.FormValue("rating"); got != "5" {
			t.Errorf("unexpected rating: %q", got)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		if header.Filename != "cover.png" {
			t.Errorf("unexpected filename: %q", header.Filename)
		}
		if got := header.Header.Get("Content-Type"); got != "image/png" {
			t.Errorf("unexpected file content type: %q", got)
		}
		w.Write([]byte(`{"book":{"id":"b1","title":"Dune","rating":5}}`))
	})
	c := newTestClient(t, handler, &stubStore{sess: &session.Session{Token: "t1"}})

	book, err := c.SubmitBook(context.Background(), "Dune", "classic", 5, FormFile{
		Field:       "image",
		Name:        "cover.png",
		ContentType: "image/png",
		Data:        []byte("png-bytes"),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if book.ID != "b1" || book.Rating != 5 {
		t.Fatalf("unexpected book: %+v", book)
	}
}

func TestUpdateProfileOmitsMissingImage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/auth/updateuser" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if _, _, err := r.FormFile("profileImage"); err == nil {
			t.Error("expected no profileImage part")
		}
		w.Write([]byte(`{"user":{"id":"u1","username":"ada2","email":"ada@example.com"}}`))
	})
	c := newTestClient(t, handler, &stubStore{sess: &session.Session{Token: "t1"}})

	user, err := c.UpdateProfile(context.Background(), "ada2", "ada@example.com", nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if user.Username != "ada2" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestGetUserWithBooks(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/book/getuser" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"user":{"id":"u1"},"recommendedBooks":[{"id":"b1"},{"id":"b2"}]}`))
	})
	c := newTestClient(t, handler, &stubStore{sess: &session.Session{Token: "t1"}})

	user, books, err := c.GetUserWithBooks(context.Background())
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.ID != "u1" || len(books) != 2 || books[1].ID != "b2" {
		t.Fatalf("unexpected payload: %+v %+v", user, books)
	}
}

func TestDeleteBook(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/book/books/b1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, handler, &stubStore{sess: &session.Session{Token: "t1"}})
	if err := c.DeleteBook(context.Background(), "b1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestServerMessageSurfacedOnError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"title already used"}`))
	})
	c := newTestClient(t, handler, &stubStore{sess: &session.Session{Token: "t1"}})

	_, err := c.GetBook(context.Background(), "b1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "title already used" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}

func TestGenericMessageWhenBodyUnusable(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	})
	c := newTestClient(t, handler, &stubStore{sess: &session.Session{Token: "t1"}})

	_, err := c.GetBook(context.Background(), "b1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message == "" {
		t.Fatal("expected non-empty fallback message")
	}
}

func TestContentTypeForFilename(t *testing.T) {
	if got := ContentTypeForFilename("cover.png"); got != "image/png" {
		t.Fatalf("png: %q", got)
	}
	if got := ContentTypeForFilename("cover"); got != "image/jpeg" {
		t.Fatalf("no extension: %q", got)
	}
	if got := ContentTypeForFilename("cover.pdf"); got != "image/jpeg" {
		t.Fatalf("non-image extension: %q", got)
	}
}
