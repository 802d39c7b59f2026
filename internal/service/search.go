package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/search"
	"github.com/readlog/readlog-server/internal/store"
)

// LibraryIndexer keeps the library search index in step with the store.
// Index failures are the implementation's to log; callers never fail a
// write because the index lagged.
type LibraryIndexer interface {
	IndexBook(ctx context.Context, book *domain.Book)
	IndexTBREntry(ctx context.Context, entry *domain.TBREntry)
	Remove(ctx context.Context, id string)
}

// SearchService bridges the Bleve index and the record store: it
// converts records to documents, runs owner-scoped queries and rebuilds
// the index from the store.
type SearchService struct {
	index  *search.SearchIndex
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search runs params against userID's own library. The owner in params is
// always replaced by userID.
func (s *SearchService) Search(ctx context.Context, userID string, params search.SearchParams) (*search.SearchResult, error) {
	params.OwnerID = userID
	return s.index.Search(ctx, params)
}

// IndexBook indexes or re-indexes a book.
func (s *SearchService) IndexBook(_ context.Context, book *domain.Book) {
	if err := s.index.IndexDocument(search.BookToSearchDocument(book)); err != nil {
		s.logger.Warn("failed to index book", "id", book.ID, "error", err)
		return
	}
	s.logger.Debug("indexed book", "id", book.ID, "title", book.Title)
}

// IndexTBREntry indexes or re-indexes a to-be-read entry.
func (s *SearchService) IndexTBREntry(_ context.Context, entry *domain.TBREntry) {
	if err := s.index.IndexDocument(search.TBRToSearchDocument(entry)); err != nil {
		s.logger.Warn("failed to index tbr entry", "id", entry.ID, "error", err)
		return
	}
	s.logger.Debug("indexed tbr entry", "id", entry.ID, "title", entry.Title)
}

// Remove drops a book or TBR entry from the index.
func (s *SearchService) Remove(_ context.Context, id string) {
	if err := s.index.DeleteDocument(id); err != nil {
		s.logger.Warn("failed to remove document from index", "id", id, "error", err)
	}
}

// Reindex rebuilds the whole index from the store. It is run at startup
// when the index comes up empty.
func (s *SearchService) Reindex(ctx context.Context) error {
	books, err := s.store.ListBooks(ctx, store.BookFilter{})
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}
	entries, err := s.store.ListTBREntries(ctx, store.TBRFilter{})
	if err != nil {
		return fmt.Errorf("list tbr entries: %w", err)
	}

	docs := make([]*search.SearchDocument, 0, len(books)+len(entries))
	for _, b := range books {
		docs = append(docs, search.BookToSearchDocument(b))
	}
	for _, e := range entries {
		docs = append(docs, search.TBRToSearchDocument(e))
	}

	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}

	s.logger.Info("search index rebuilt", "books", len(books), "tbr", len(entries))
	return nil
}

// DocumentCount returns the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexIfEmpty rebuilds the index when it holds no documents.
func (s *SearchService) ReindexIfEmpty(ctx context.Context) error {
	count, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		return nil
	}
	return s.Reindex(ctx)
}

// noopIndexer is used when no search index is configured.
type noopIndexer struct{}

func (noopIndexer) IndexBook(context.Context, *domain.Book)         {}
func (noopIndexer) IndexTBREntry(context.Context, *domain.TBREntry) {}
func (noopIndexer) Remove(context.Context, string)                  {}
