package state

import (
	"context"
	"strings"
	"sync"

	"bookstore/internal/api"
	"bookstore/internal/session"
	"bookstore/pkg/domain"
)

// Submit owns the single in-flight book submission; on success it holds the
// newly created record until cleared.
type Submit struct {
	mu   sync.Mutex
	book *domain.Book
	req  RequestState

	client   *api.Client
	sessions session.Store
	prepare  ImagePreparer
}

// SubmitInput is the new recommendation form.
type SubmitInput struct {
	Title     string
	Caption   string
	Rating    int
	ImagePath string
}

// NewSubmit builds the submission slice.
func NewSubmit(client *api.Client, sessions session.Store, prepare ImagePreparer) *Submit {
	return &Submit{
		client:   client,
		sessions: sessions,
		prepare:  prepare,
		req:      RequestState{Status: StatusIdle},
	}
}

// Submit validates the form, prepares the image and posts the book. All
// precondition failures return before any network call and leave the slice
// untouched.
func (s *Submit) Submit(ctx context.Context, in SubmitInput) (domain.Book, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Caption) == "" || strings.TrimSpace(in.ImagePath) == "" {
		return domain.Book{}, validationf("title, caption and image are required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return domain.Book{}, validationf("rating must be between 1 and 5")
	}
	if err := requireToken(s.sessions); err != nil {
		return domain.Book{}, err
	}
	image, err := s.prepare(in.ImagePath)
	if err != nil {
		return domain.Book{}, validationf("image: %v", err)
	}
	image.Field = "image"

	s.begin()
	book, err := s.client.SubmitBook(ctx, in.Title, in.Caption, in.Rating, image)
	if err != nil {
		s.fail(err)
		return domain.Book{}, err
	}

	s.mu.Lock()
	s.book = &book
	s.req = RequestState{Status: StatusSucceeded}
	s.mu.Unlock()
	return book, nil
}

// Clear drops the last created record so it cannot leak into the next
// submission's view.
func (s *Submit) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.book = nil
	s.req = RequestState{Status: StatusIdle}
}

// Book returns a copy of the last created record, nil after Clear.
func (s *Submit) Book() *domain.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.book == nil {
		return nil
	}
	book := *s.book
	return &book
}

// State returns the slice's request state.
func (s *Submit) State() RequestState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.req
}

func (s *Submit) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.req = RequestState{Status: StatusPending}
}

func (s *Submit) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.req = RequestState{Status: StatusFailed, Err: errMessage(err)}
}
