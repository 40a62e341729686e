package state

import (
	"context"

	"golang.org/x/sync/errgroup"

	"bookstore/pkg/domain"
)

// Bridge propagates mutations across slices. Inserts are optimistic: the
// submitter knows exactly what was created, so the new book goes to the head
// of both cached lists without a round-trip. Deletes are not: the server
// decides what remains, so both lists are reloaded instead.
type Bridge struct {
	auth    *Auth
	feed    *Feed
	submit  *Submit
	profile *Profile
}

// NewBridge wires the bridge over the four slices.
func NewBridge(auth *Auth, feed *Feed, submit *Submit, profile *Profile) *Bridge {
	return &Bridge{auth: auth, feed: feed, submit: submit, profile: profile}
}

// SubmitBook posts the book and, on success, pushes the created record to
// the head of the feed and the recommendation list. The two insertions are
// independent copies. The record is enriched with the cached user summary
// for display fields the server response omits.
func (b *Bridge) SubmitBook(ctx context.Context, in SubmitInput) (domain.Book, error) {
	book, err := b.submit.Submit(ctx, in)
	if err != nil {
		return domain.Book{}, err
	}

	enriched := b.enrichAuthor(book)
	b.feed.PushFront(enriched)
	b.profile.PushFront(enriched)
	return enriched, nil
}

// DeleteBook removes the book server-side and then read-repairs: the profile
// and the global feed are refetched concurrently to pull authoritative
// state. Nothing is filtered locally.
func (b *Bridge) DeleteBook(ctx context.Context, id string) error {
	if err := b.profile.deleteBook(ctx, id); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.profile.FetchUserWithBooks(gctx) })
	g.Go(func() error { return b.feed.FetchAllBooks(gctx) })
	return g.Wait()
}

// enrichAuthor fills author display fields the server omitted from the
// create response with the summary already cached client-side.
func (b *Bridge) enrichAuthor(book domain.Book) domain.Book {
	user := b.auth.CurrentUser()
	if user == nil {
		return book
	}
	if book.Author.ID == "" {
		book.Author.ID = user.ID
	}
	if book.Author.Username == "" {
		book.Author.Username = user.Username
	}
	if book.Author.ProfileImage == "" {
		book.Author.ProfileImage = user.ProfileImage
	}
	return book
}
