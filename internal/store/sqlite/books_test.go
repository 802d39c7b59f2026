package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/store"
)

func intPtr(n int) *int { return &n }

func makeTestBook(id, ownerID, title, author string) *domain.Book {
	now := time.Now()
	return &domain.Book{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Author:    author,
		Status:    domain.StatusInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndGetBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createTestUser(t, s, "user-1", "ana")

	finished := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	b := makeTestBook("book-1", "user-1", "Dune", "Frank Herbert")
	b.Status = domain.StatusCompleted
	b.TotalPages = intPtr(612)
	b.CurrentPage = 612
	b.FinishedAt = &finished
	b.PublishedYear = intPtr(1965)

	if err := s.CreateBook(ctx, b); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	got, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Title != "Dune" || got.Author != "Frank Herbert" {
		t.Errorf("title/author: got %q/%q", got.Title, got.Author)
	}
	if got.Status != domain.StatusCompleted {
		t.Errorf("Status: got %q", got.Status)
	}
	if got.TotalPages == nil || *got.TotalPages != 612 {
		t.Errorf("TotalPages: got %v", got.TotalPages)
	}
	if got.FinishedAt == nil || !got.FinishedAt.Equal(finished) {
		t.Errorf("FinishedAt: got %v, want %v", got.FinishedAt, finished)
	}
	if got.StartedAt != nil {
		t.Errorf("StartedAt: expected nil, got %v", got.StartedAt)
	}
	if got.PublishedYear == nil || *got.PublishedYear != 1965 {
		t.Errorf("PublishedYear: got %v", got.PublishedYear)
	}
}

func TestGetBook_LegacyFinishedStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createTestUser(t, s, "user-1", "ana")

	if err := s.CreateBook(ctx, makeTestBook("book-1", "user-1", "Emma", "Jane Austen")); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}
	if _, err := s.db.Exec(`UPDATE books SET status = 'finished' WHERE id = 'book-1'`); err != nil {
		t.Fatalf("force legacy status: %v", err)
	}

	got, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Status != domain.StatusCompleted {
		t.Errorf("expected legacy status to read as completed, got %q", got.Status)
	}
}

func TestCreateBook_UnknownOwner(t *testing.T) {
	s := newTestStore(t)

	err := s.CreateBook(context.Background(), makeTestBook("book-1", "ghost", "Dune", ""))
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListBooks_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createTestUser(t, s, "user-1", "ana")
	createTestUser(t, s, "user-2", "ben")
	createTestUser(t, s, "user-3", "cy")

	books := []*domain.Book{
		makeTestBook("book-1", "user-1", "Dune", "Frank Herbert"),
		makeTestBook("book-2", "user-2", "Dune Messiah", "Frank Herbert"),
		makeTestBook("book-3", "user-2", "Les Misérables", "Victor Hugo"),
		makeTestBook("book-4", "user-3", "Children of Dune", "Frank Herbert"),
	}
	books[1].Status = domain.StatusDNF
	for i, b := range books {
		b.CreatedAt = b.CreatedAt.Add(time.Duration(i) * time.Second)
		if err := s.CreateBook(ctx, b); err != nil {
			t.Fatalf("CreateBook(%s): %v", b.ID, err)
		}
	}

	tests := []struct {
		name   string
		filter store.BookFilter
		want   []string
	}{
		{"owner", store.BookFilter{OwnerID: "user-2"}, []string{"book-2", "book-3"}},
		{"owner set and title", store.BookFilter{OwnerIDs: []string{"user-2", "user-3"}, TitleContains: "dune"}, []string{"book-2", "book-4"}},
		{"title ignores case", store.BookFilter{TitleContains: "DUNE"}, []string{"book-1", "book-2", "book-4"}},
		{"title ignores accents", store.BookFilter{TitleContains: "miserables"}, []string{"book-3"}},
		{"status", store.BookFilter{Status: domain.StatusDNF}, []string{"book-2"}},
		{"empty owner set", store.BookFilter{OwnerIDs: []string{}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListBooks(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListBooks: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d books, want %d", len(got), len(tt.want))
			}
			for i, b := range got {
				if b.ID != tt.want[i] {
					t.Errorf("book %d: got %q, want %q", i, b.ID, tt.want[i])
				}
			}
		})
	}
}

func TestUpdateAndDeleteBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createTestUser(t, s, "user-1", "ana")

	b := makeTestBook("book-1", "user-1", "Dune", "Frank Herbert")
	if err := s.CreateBook(ctx, b); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	b.Status = domain.StatusDNF
	b.DNFKind = domain.DNFSoft
	b.CurrentPage = 80
	if err := s.UpdateBook(ctx, b); err != nil {
		t.Fatalf("UpdateBook: %v", err)
	}

	got, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Status != domain.StatusDNF || got.DNFKind != domain.DNFSoft || got.CurrentPage != 80 {
		t.Errorf("after update: %+v", got)
	}

	if err := s.CreateReview(ctx, makeTestReview("review-1", "book-1", "user-1")); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	if err := s.DeleteBook(ctx, "book-1"); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}
	if _, err := s.GetBook(ctx, "book-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetBook after delete: expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetReview(ctx, "review-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("review should cascade with its book, got %v", err)
	}
	if err := s.DeleteBook(ctx, "book-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}
