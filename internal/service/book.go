package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/readlog/readlog-server/internal/domain"
	domainerrors "github.com/readlog/readlog-server/internal/errors"
	"github.com/readlog/readlog-server/internal/id"
	"github.com/readlog/readlog-server/internal/normalize"
	"github.com/readlog/readlog-server/internal/store"
	"github.com/readlog/readlog-server/internal/validation"
)

// errNoUser is returned by every per-user operation called without a user.
var errNoUser = domainerrors.Unauthorized("authentication required")

func requireUser(userID string) error {
	if userID == "" {
		return errNoUser
	}
	return nil
}

// BookService manages a user's active collection.
type BookService struct {
	store     store.Store
	indexer   LibraryIndexer
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewBookService creates a new book service. indexer may be nil.
func NewBookService(store store.Store, indexer LibraryIndexer, validator *validation.Validator, logger *slog.Logger) *BookService {
	if indexer == nil {
		indexer = noopIndexer{}
	}
	return &BookService{
		store:     store,
		indexer:   indexer,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// AddBookRequest describes a new book. Status defaults to in_progress.
type AddBookRequest struct {
	Title         string `json:"title" validate:"required,max=500"`
	Author        string `json:"author,omitempty" validate:"max=300"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=in_progress completed finished dnf to_read"`
	DNFKind       string `json:"dnf_kind,omitempty" validate:"omitempty,oneof=soft hard"`
	TotalPages    *int   `json:"total_pages,omitempty" validate:"omitempty,gt=0"`
	PublishedYear *int   `json:"published_year,omitempty" validate:"omitempty,gt=0,lte=9999"`
	CoverURL      string `json:"cover_url,omitempty" validate:"omitempty,url"`
}

// UpdateBookRequest changes a book. Nil fields are left alone.
type UpdateBookRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=500"`
	Author      *string `json:"author,omitempty" validate:"omitempty,max=300"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=in_progress completed finished dnf to_read"`
	DNFKind     *string `json:"dnf_kind,omitempty" validate:"omitempty,oneof=soft hard"`
	CurrentPage *int    `json:"current_page,omitempty" validate:"omitempty,gte=0"`
	TotalPages  *int    `json:"total_pages,omitempty" validate:"omitempty,gt=0"`
	StartedAt   *string `json:"started_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FinishedAt  *string `json:"finished_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CoverURL    *string `json:"cover_url,omitempty" validate:"omitempty,url"`
}

// AddBook creates a book for userID. A book with the same title and
// author (ignoring case and accents) already on the user's shelves is
// rejected with ALREADY_EXISTS.
func (s *BookService) AddBook(ctx context.Context, userID string, req AddBookRequest) (*domain.Book, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.checkDuplicate(ctx, userID, req.Title, req.Author); err != nil {
		return nil, err
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	now := s.now()
	book := &domain.Book{
		ID:            bookID,
		OwnerID:       userID,
		Title:         req.Title,
		Author:        req.Author,
		TotalPages:    req.TotalPages,
		PublishedYear: req.PublishedYear,
		CoverURL:      req.CoverURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := applyStatus(book, domain.NormalizeStatus(req.Status), domain.DNFKind(req.DNFKind), now); err != nil {
		return nil, err
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExistsf("%q is already on your shelves", book.Title)
		}
		return nil, fmt.Errorf("create book: %w", err)
	}
	s.indexer.IndexBook(ctx, book)

	s.logger.Info("book added", "user_id", userID, "book_id", book.ID, "status", book.Status)
	return book, nil
}

// checkDuplicate rejects a title/author pair already on userID's shelves.
// An empty author on either side matches any author.
func (s *BookService) checkDuplicate(ctx context.Context, userID, title, author string) error {
	existing, err := s.store.ListBooks(ctx, store.BookFilter{OwnerID: userID, TitleContains: title})
	if err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	for _, b := range existing {
		if !normalize.Equal(b.Title, title) {
			continue
		}
		if author == "" || b.Author == "" || normalize.Equal(b.Author, author) {
			return domainerrors.AlreadyExistsf("%q is already on your shelves", title)
		}
	}
	return nil
}

// applyStatus moves book to status, stamping the dates that transition
// implies. Abandoning a book requires a dnf kind.
func applyStatus(book *domain.Book, status domain.Status, kind domain.DNFKind, now time.Time) error {
	switch status {
	case domain.StatusInProgress:
		book.Start(now)
	case domain.StatusCompleted:
		book.Complete(now)
	case domain.StatusDNF:
		if !kind.Valid() {
			return domainerrors.ValidationWithDetails("dnf_kind is required when status is dnf",
				map[string]string{"dnf_kind": "is required"})
		}
		book.Status = domain.StatusDNF
		book.DNFKind = kind
	case domain.StatusToRead:
		book.Status = domain.StatusToRead
		book.DNFKind = ""
	default:
		return domainerrors.Validationf("unknown status %q", status)
	}
	return nil
}

// GetBook returns one of userID's books. Other users' books are reported
// as not found.
func (s *BookService) GetBook(ctx context.Context, userID, bookID string) (*domain.Book, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	book, err := s.store.GetBook(ctx, bookID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && book.OwnerID != userID) {
		return nil, domainerrors.NotFound("book not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// ListBooks returns userID's books, optionally filtered by status.
func (s *BookService) ListBooks(ctx context.Context, userID, status string) ([]*domain.Book, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	filter := store.BookFilter{OwnerID: userID}
	if status = strings.TrimSpace(status); status != "" {
		filter.Status = domain.NormalizeStatus(status)
		if !filter.Status.IsStored() {
			return nil, domainerrors.Validationf("unknown status %q", status)
		}
	}
	books, err := s.store.ListBooks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// UpdateBook applies req to one of userID's books. Page counts are applied
// before the status so completing a book can jump to the new last page;
// explicit dates win over the ones a status change stamps.
func (s *BookService) UpdateBook(ctx context.Context, userID, bookID string, req UpdateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	book, err := s.GetBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domainerrors.ValidationWithDetails("title is required", map[string]string{"title": "is required"})
		}
		book.Title = title
	}
	if req.Author != nil {
		book.Author = strings.TrimSpace(*req.Author)
	}
	if req.CoverURL != nil {
		book.CoverURL = *req.CoverURL
	}
	if req.TotalPages != nil {
		book.TotalPages = req.TotalPages
	}
	if req.CurrentPage != nil {
		if book.TotalPages != nil && *req.CurrentPage > *book.TotalPages {
			return nil, domainerrors.Validationf("current_page %d is past the last page %d", *req.CurrentPage, *book.TotalPages)
		}
		book.CurrentPage = *req.CurrentPage
	}

	switch {
	case req.Status != nil:
		kind := book.DNFKind
		if req.DNFKind != nil {
			kind = domain.DNFKind(*req.DNFKind)
		}
		if err := applyStatus(book, domain.NormalizeStatus(*req.Status), kind, now); err != nil {
			return nil, err
		}
	case req.DNFKind != nil:
		if book.Status != domain.StatusDNF {
			return nil, domainerrors.Validation("dnf_kind only applies to books with status dnf")
		}
		book.DNFKind = domain.DNFKind(*req.DNFKind)
	}

	if req.StartedAt != nil {
		book.StartedAt = parseDay(*req.StartedAt)
	}
	if req.FinishedAt != nil {
		book.FinishedAt = parseDay(*req.FinishedAt)
	}
	if book.StartedAt != nil && book.FinishedAt != nil && book.FinishedAt.Before(*book.StartedAt) {
		return nil, domainerrors.Validation("finished_at is before started_at")
	}

	book.UpdatedAt = now
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	s.indexer.IndexBook(ctx, book)

	return book, nil
}

// DeleteBook removes one of userID's books together with its review.
func (s *BookService) DeleteBook(ctx context.Context, userID, bookID string) error {
	book, err := s.GetBook(ctx, userID, bookID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteBook(ctx, book.ID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	s.indexer.Remove(ctx, book.ID)

	s.logger.Info("book deleted", "user_id", userID, "book_id", book.ID)
	return nil
}

// parseDay parses a validated YYYY-MM-DD value; "" clears the date.
func parseDay(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
