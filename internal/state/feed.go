package state

import (
	"context"
	"sync"

	"bookstore/internal/api"
	"bookstore/internal/session"
	"bookstore/pkg/domain"
)

// Feed owns the global book feed and the single detail-view slot. Both
// operation families share one RequestState, so overlapping fetches of
// either kind leave whichever response resolved last in charge.
//
// The list and the detail slot hold overlapping data with no
// cross-invalidation; refreshing one never refreshes the other.
type Feed struct {
	mu       sync.Mutex
	allBooks []domain.Book
	book     *domain.Book
	req      RequestState

	client   *api.Client
	sessions session.Store
}

// NewFeed builds the feed slice.
func NewFeed(client *api.Client, sessions session.Store) *Feed {
	return &Feed{
		client:   client,
		sessions: sessions,
		req:      RequestState{Status: StatusIdle},
	}
}

// FetchAllBooks replaces the feed wholesale with the server's list. No merge,
// no diff.
func (f *Feed) FetchAllBooks(ctx context.Context) error {
	if err := requireToken(f.sessions); err != nil {
		f.fail(err)
		return err
	}

	f.begin()
	books, err := f.client.ListBooks(ctx)
	if err != nil {
		f.fail(err)
		return err
	}

	f.mu.Lock()
	f.allBooks = books
	f.req = RequestState{Status: StatusSucceeded}
	f.mu.Unlock()
	return nil
}

// FetchBookByID replaces the detail slot, independent of the list.
func (f *Feed) FetchBookByID(ctx context.Context, id string) error {
	if err := requireToken(f.sessions); err != nil {
		f.fail(err)
		return err
	}

	f.begin()
	book, err := f.client.GetBook(ctx, id)
	if err != nil {
		f.fail(err)
		return err
	}

	f.mu.Lock()
	f.book = &book
	f.req = RequestState{Status: StatusSucceeded}
	f.mu.Unlock()
	return nil
}

// PushFront inserts a book at the head of the feed without a refetch. Used by
// the mutation bridge after a successful submission.
func (f *Feed) PushFront(book domain.Book) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allBooks = append([]domain.Book{book}, f.allBooks...)
}

// Books returns a copy of the cached feed.
func (f *Feed) Books() []domain.Book {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Book, len(f.allBooks))
	copy(out, f.allBooks)
	return out
}

// Book returns a copy of the detail slot, nil when never fetched.
func (f *Feed) Book() *domain.Book {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.book == nil {
		return nil
	}
	book := *f.book
	return &book
}

// State returns the slice's request state.
func (f *Feed) State() RequestState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.req
}

func (f *Feed) begin() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.req = RequestState{Status: StatusPending}
}

func (f *Feed) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.req = RequestState{Status: StatusFailed, Err: errMessage(err)}
}
