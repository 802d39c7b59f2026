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

// TBRService manages a user's to-be-read queue.
type TBRService struct {
	store     store.Store
	indexer   LibraryIndexer
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewTBRService creates a new TBR service. indexer may be nil.
func NewTBRService(store store.Store, indexer LibraryIndexer, validator *validation.Validator, logger *slog.Logger) *TBRService {
	if indexer == nil {
		indexer = noopIndexer{}
	}
	return &TBRService{
		store:     store,
		indexer:   indexer,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// AddTBRRequest describes a new queue entry.
type AddTBRRequest struct {
	Title         string `json:"title" validate:"required,max=500"`
	Author        string `json:"author,omitempty" validate:"max=300"`
	TotalPages    *int   `json:"total_pages,omitempty" validate:"omitempty,gt=0"`
	PublishedYear *int   `json:"published_year,omitempty" validate:"omitempty,gt=0,lte=9999"`
	CoverURL      string `json:"cover_url,omitempty" validate:"omitempty,url"`
	Notes         string `json:"notes,omitempty" validate:"max=2000"`
}

// StartReadingResult is the outcome of moving an entry to the active
// collection. EntryRemoved is false when the book was created but the
// queue entry could not be deleted; the book is kept either way.
type StartReadingResult struct {
	Book         *domain.Book `json:"book"`
	EntryRemoved bool         `json:"entry_removed"`
}

// AddEntry queues a book for userID. The same title and author already in
// the queue is rejected with ALREADY_EXISTS.
func (s *TBRService) AddEntry(ctx context.Context, userID string, req AddTBRRequest) (*domain.TBREntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	req.Notes = strings.TrimSpace(req.Notes)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.checkDuplicate(ctx, userID, req.Title, req.Author); err != nil {
		return nil, err
	}

	entryID, err := id.Generate(id.PrefixTBR)
	if err != nil {
		return nil, fmt.Errorf("generate tbr ID: %w", err)
	}

	entry := &domain.TBREntry{
		ID:            entryID,
		OwnerID:       userID,
		Title:         req.Title,
		Author:        req.Author,
		TotalPages:    req.TotalPages,
		PublishedYear: req.PublishedYear,
		CoverURL:      req.CoverURL,
		Notes:         req.Notes,
		CreatedAt:     s.now(),
	}
	if err := s.store.CreateTBREntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("create tbr entry: %w", err)
	}
	s.indexer.IndexTBREntry(ctx, entry)

	return entry, nil
}

func (s *TBRService) checkDuplicate(ctx context.Context, userID, title, author string) error {
	existing, err := s.store.ListTBREntries(ctx, store.TBRFilter{OwnerID: userID, TitleContains: title})
	if err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	for _, e := range existing {
		if normalize.Equal(e.Title, title) && (author == "" || e.Author == "" || normalize.Equal(e.Author, author)) {
			return domainerrors.AlreadyExistsf("%q is already in your queue", title)
		}
	}
	return nil
}

// ListEntries returns userID's queue, oldest first.
func (s *TBRService) ListEntries(ctx context.Context, userID string) ([]*domain.TBREntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	entries, err := s.store.ListTBREntries(ctx, store.TBRFilter{OwnerID: userID})
	if err != nil {
		return nil, fmt.Errorf("list tbr entries: %w", err)
	}
	return entries, nil
}

// GetEntry returns one of userID's queue entries.
func (s *TBRService) GetEntry(ctx context.Context, userID, entryID string) (*domain.TBREntry, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	entry, err := s.store.GetTBREntry(ctx, entryID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && entry.OwnerID != userID) {
		return nil, domainerrors.NotFound("tbr entry not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get tbr entry: %w", err)
	}
	return entry, nil
}

// DeleteEntry removes one of userID's queue entries.
func (s *TBRService) DeleteEntry(ctx context.Context, userID, entryID string) error {
	entry, err := s.GetEntry(ctx, userID, entryID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTBREntry(ctx, entry.ID); err != nil {
		return fmt.Errorf("delete tbr entry: %w", err)
	}
	s.indexer.Remove(ctx, entry.ID)
	return nil
}

// StartReading moves a queue entry into the active collection as an
// in-progress book started today. The book is created first and the entry
// deleted second; the two steps are not atomic.
func (s *TBRService) StartReading(ctx context.Context, userID, entryID string) (*StartReadingResult, error) {
	entry, err := s.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}
	book := entry.ToBook(s.now())
	book.ID = bookID

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	s.indexer.IndexBook(ctx, book)

	result := &StartReadingResult{Book: book, EntryRemoved: true}
	if err := s.store.DeleteTBREntry(ctx, entry.ID); err != nil {
		s.logger.Error("start reading: book created but tbr entry not removed",
			"user_id", userID,
			"tbr_id", entry.ID,
			"book_id", book.ID,
			"error", err,
		)
		result.EntryRemoved = false
		return result, nil
	}
	s.indexer.Remove(ctx, entry.ID)

	s.logger.Info("started reading", "user_id", userID, "book_id", book.ID, "tbr_id", entry.ID)
	return result, nil
}
