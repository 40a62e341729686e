package state

import (
	"context"
	"strings"
	"sync"

	"bookstore/internal/api"
	"bookstore/internal/session"
	"bookstore/pkg/domain"
)

// Profile owns the current user's account view and their recommendation
// list. Deletion never filters the cached list: the server stays the source
// of truth and the list is reloaded afterwards (read-repair).
type Profile struct {
	mu               sync.Mutex
	user             *domain.User
	recommendedBooks []domain.Book
	req              RequestState

	client   *api.Client
	sessions session.Store
}

// NewProfile builds the profile slice.
func NewProfile(client *api.Client, sessions session.Store) *Profile {
	return &Profile{
		client:   client,
		sessions: sessions,
		req:      RequestState{Status: StatusIdle},
	}
}

// FetchUserWithBooks replaces the user and the recommendation list wholesale.
func (p *Profile) FetchUserWithBooks(ctx context.Context) error {
	if err := requireToken(p.sessions); err != nil {
		p.fail(err)
		return err
	}

	p.begin()
	user, books, err := p.client.GetUserWithBooks(ctx)
	if err != nil {
		p.fail(err)
		return err
	}

	p.mu.Lock()
	p.user = &user
	p.recommendedBooks = books
	p.req = RequestState{Status: StatusSucceeded}
	p.mu.Unlock()
	return nil
}

// DeleteBook removes the book server-side and reconciles by refetching the
// profile. The cached list is never filtered locally.
func (p *Profile) DeleteBook(ctx context.Context, id string) error {
	if err := p.deleteBook(ctx, id); err != nil {
		return err
	}
	return p.FetchUserWithBooks(ctx)
}

// deleteBook is the server-side removal without the reconciliation refetch;
// the bridge runs its own refetch fan-out.
func (p *Profile) deleteBook(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return validationf("book id is required")
	}
	if err := requireToken(p.sessions); err != nil {
		return err
	}

	p.begin()
	if err := p.client.DeleteBook(ctx, id); err != nil {
		p.fail(err)
		return err
	}

	p.mu.Lock()
	p.req = RequestState{Status: StatusSucceeded}
	p.mu.Unlock()
	return nil
}

// PushFront inserts a book at the head of the recommendation list without a
// refetch. Used by the mutation bridge after a successful submission.
func (p *Profile) PushFront(book domain.Book) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recommendedBooks = append([]domain.Book{book}, p.recommendedBooks...)
}

// User returns a copy of the profile's user, nil when never fetched.
func (p *Profile) User() *domain.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.user == nil {
		return nil
	}
	user := *p.user
	return &user
}

// Books returns a copy of the cached recommendation list.
func (p *Profile) Books() []domain.Book {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Book, len(p.recommendedBooks))
	copy(out, p.recommendedBooks)
	return out
}

// State returns the slice's request state.
func (p *Profile) State() RequestState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.req
}

func (p *Profile) begin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.req = RequestState{Status: StatusPending}
}

func (p *Profile) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.req = RequestState{Status: StatusFailed, Err: errMessage(err)}
}
