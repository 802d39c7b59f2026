package goodreads

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/id"
	"github.com/readlog/readlog-server/internal/store"
)

// Source is the read side of the record store an export needs.
type Source interface {
	ListBooks(ctx context.Context, filter store.BookFilter) ([]*domain.Book, error)
	ListTBREntries(ctx context.Context, filter store.TBRFilter) ([]*domain.TBREntry, error)
	ListReviews(ctx context.Context, filter store.ReviewFilter) ([]*domain.Review, error)
}

// Exporter writes a user's library as a Goodreads table. It never writes
// to the store.
type Exporter struct {
	src    Source
	logger *slog.Logger
}

// NewExporter creates an exporter over src.
func NewExporter(src Source, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{src: src, logger: logger}
}

// ExportSummary counts what an export wrote.
type ExportSummary struct {
	Books int
	TBR   int
}

// Rows returns the total number of data rows.
func (s ExportSummary) Rows() int {
	return s.Books + s.TBR
}

// WriteTo writes the header and one row per book followed by one row per
// TBR entry. A collection that fails to load is logged and exported as
// empty. Only write errors on w are returned. An empty userID yields the
// header alone without touching the store.
func (e *Exporter) WriteTo(ctx context.Context, w io.Writer, userID string) (ExportSummary, error) {
	var summary ExportSummary
	cw := NewWriter(w)

	if userID == "" {
		return summary, cw.Flush()
	}

	log := e.logger.With("user_id", userID, "run_id", id.RunID())

	books, err := e.src.ListBooks(ctx, store.BookFilter{OwnerID: userID})
	if err != nil {
		log.Error("export: loading books failed", "stage", "books", "error", err)
		books = nil
	}

	entries, err := e.src.ListTBREntries(ctx, store.TBRFilter{OwnerID: userID})
	if err != nil {
		log.Error("export: loading to-be-read entries failed", "stage", "tbr", "error", err)
		entries = nil
	}

	reviews, err := e.src.ListReviews(ctx, store.ReviewFilter{OwnerID: userID})
	if err != nil {
		log.Error("export: loading reviews failed", "stage", "reviews", "error", err)
		reviews = nil
	}

	reviewByBook := make(map[string]*domain.Review, len(reviews))
	for _, r := range reviews {
		reviewByBook[r.BookID] = r
	}

	for _, b := range books {
		if err := cw.Write(BookRow(b, reviewByBook[b.ID])); err != nil {
			return summary, err
		}
		summary.Books++
	}
	for _, entry := range entries {
		if err := cw.Write(TBRRow(entry)); err != nil {
			return summary, err
		}
		summary.TBR++
	}

	if err := cw.Flush(); err != nil {
		return summary, err
	}

	log.Info("export finished", "books", summary.Books, "tbr", summary.TBR, "reviews", len(reviews))
	return summary, nil
}

// Export returns the whole table as a string.
func (e *Exporter) Export(ctx context.Context, userID string) (string, error) {
	var sb strings.Builder
	if _, err := e.WriteTo(ctx, &sb, userID); err != nil {
		return "", err
	}
	return sb.String(), nil
}
