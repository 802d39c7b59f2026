package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/readlog/readlog-server/internal/backup/goodreads"
	"github.com/readlog/readlog-server/internal/domain"
	domainerrors "github.com/readlog/readlog-server/internal/errors"
	"github.com/readlog/readlog-server/internal/id"
	"github.com/readlog/readlog-server/internal/store"
)

// Import row errors read as "<title>: <reason>", so these carry no title.
var (
	errAlreadyShelved = domainerrors.AlreadyExists("already on your shelves")
	errAlreadyQueued  = domainerrors.AlreadyExists("already in your queue")
)

// InterchangeService moves a user's library in and out of Goodreads CSV.
type InterchangeService struct {
	store   store.Store
	books   *BookService
	tbr     *TBRService
	indexer LibraryIndexer
	logger  *slog.Logger
}

// NewInterchangeService creates a new interchange service. indexer may be nil.
func NewInterchangeService(
	store store.Store,
	books *BookService,
	tbr *TBRService,
	indexer LibraryIndexer,
	logger *slog.Logger,
) *InterchangeService {
	if indexer == nil {
		indexer = noopIndexer{}
	}
	return &InterchangeService{
		store:   store,
		books:   books,
		tbr:     tbr,
		indexer: indexer,
		logger:  logger,
	}
}

// Export writes userID's library to w as a Goodreads table.
func (s *InterchangeService) Export(ctx context.Context, userID string, w io.Writer) (goodreads.ExportSummary, error) {
	if err := requireUser(userID); err != nil {
		return goodreads.ExportSummary{}, err
	}
	return goodreads.NewExporter(s.store, s.logger).WriteTo(ctx, w, userID)
}

// Import reads a Goodreads table from r into userID's library. Rows that
// duplicate an existing book or queue entry are reported, not stored.
func (s *InterchangeService) Import(ctx context.Context, userID string, r io.Reader) (goodreads.Result, error) {
	if err := requireUser(userID); err != nil {
		return goodreads.Result{Errors: []string{}}, err
	}
	sink := &librarySink{svc: s}
	result, err := goodreads.NewImporter(sink, s.logger).Import(ctx, r, userID)
	if err != nil {
		return result, domainerrors.Validationf("unreadable import file: %v", err)
	}
	return result, nil
}

// librarySink stores imported records the way the book and TBR services
// would: fresh IDs, the same duplicate rules, and search indexing.
type librarySink struct {
	svc *InterchangeService
}

func (k *librarySink) CreateBook(ctx context.Context, book *domain.Book) (string, error) {
	if err := k.svc.books.checkDuplicate(ctx, book.OwnerID, book.Title, book.Author); err != nil {
		if domainerrors.Is(err, domainerrors.ErrAlreadyExists) {
			return "", errAlreadyShelved
		}
		return "", err
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return "", fmt.Errorf("generate book ID: %w", err)
	}
	book.ID = bookID
	if err := k.svc.store.CreateBook(ctx, book); err != nil {
		return "", err
	}
	k.svc.indexer.IndexBook(ctx, book)
	return book.ID, nil
}

func (k *librarySink) CreateTBREntry(ctx context.Context, entry *domain.TBREntry) (string, error) {
	if err := k.svc.tbr.checkDuplicate(ctx, entry.OwnerID, entry.Title, entry.Author); err != nil {
		if domainerrors.Is(err, domainerrors.ErrAlreadyExists) {
			return "", errAlreadyQueued
		}
		return "", err
	}

	entryID, err := id.Generate(id.PrefixTBR)
	if err != nil {
		return "", fmt.Errorf("generate tbr ID: %w", err)
	}
	entry.ID = entryID
	if err := k.svc.store.CreateTBREntry(ctx, entry); err != nil {
		return "", err
	}
	k.svc.indexer.IndexTBREntry(ctx, entry)
	return entry.ID, nil
}

func (k *librarySink) CreateReview(ctx context.Context, review *domain.Review) error {
	reviewID, err := id.Generate(id.PrefixReview)
	if err != nil {
		return fmt.Errorf("generate review ID: %w", err)
	}
	review.ID = reviewID
	return k.svc.store.CreateReview(ctx, review)
}
