package goodreads

import (
	"context"
	"errors"
	"fmt"

	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/store"
)

// fakeSink records what an import writes and can fail on chosen titles.
type fakeSink struct {
	books   []*domain.Book
	entries []*domain.TBREntry
	reviews []*domain.Review

	bookCalls, tbrCalls, reviewCalls int

	failBook   map[string]error
	failReview error
}

func (f *fakeSink) CreateBook(_ context.Context, b *domain.Book) (string, error) {
	f.bookCalls++
	if err := f.failBook[b.Title]; err != nil {
		return "", err
	}
	b.ID = fmt.Sprintf("book-%d", len(f.books)+1)
	f.books = append(f.books, b)
	return b.ID, nil
}

func (f *fakeSink) CreateTBREntry(_ context.Context, e *domain.TBREntry) (string, error) {
	f.tbrCalls++
	e.ID = fmt.Sprintf("tbr-%d", len(f.entries)+1)
	f.entries = append(f.entries, e)
	return e.ID, nil
}

func (f *fakeSink) CreateReview(_ context.Context, r *domain.Review) error {
	f.reviewCalls++
	if f.failReview != nil {
		return f.failReview
	}
	f.reviews = append(f.reviews, r)
	return nil
}

// fakeSource serves fixed collections and can fail any of them.
type fakeSource struct {
	books   []*domain.Book
	entries []*domain.TBREntry
	reviews []*domain.Review

	booksErr, tbrErr, reviewsErr error
	calls                        int
}

var errStoreDown = errors.New("store unavailable")

func (f *fakeSource) ListBooks(_ context.Context, filter store.BookFilter) ([]*domain.Book, error) {
	f.calls++
	if f.booksErr != nil {
		return nil, f.booksErr
	}
	var out []*domain.Book
	for _, b := range f.books {
		if b.OwnerID == filter.OwnerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeSource) ListTBREntries(_ context.Context, filter store.TBRFilter) ([]*domain.TBREntry, error) {
	f.calls++
	if f.tbrErr != nil {
		return nil, f.tbrErr
	}
	var out []*domain.TBREntry
	for _, e := range f.entries {
		if e.OwnerID == filter.OwnerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeSource) ListReviews(_ context.Context, filter store.ReviewFilter) ([]*domain.Review, error) {
	f.calls++
	if f.reviewsErr != nil {
		return nil, f.reviewsErr
	}
	var out []*domain.Review
	for _, r := range f.reviews {
		if r.OwnerID == filter.OwnerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func intPtr(n int) *int { return &n }
