package goodreads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/id"
)

// ErrMissingTitleColumn is returned for a table whose header has no Title.
var ErrMissingTitleColumn = errors.New("goodreads: header has no Title column")

// errTBRReview reports a rating or review on a to-read row, which has no
// book to attach it to.
var errTBRReview = errors.New("to-read rows cannot carry a review")

// Sink receives the records an import creates. Implementations assign IDs
// and enforce duplicate rules; CreateBook returns the stored book's ID so
// its review can be linked.
type Sink interface {
	CreateBook(ctx context.Context, book *domain.Book) (string, error)
	CreateTBREntry(ctx context.Context, entry *domain.TBREntry) (string, error)
	CreateReview(ctx context.Context, review *domain.Review) error
}

// Result is the outcome of an import.
type Result struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

// Importer folds Goodreads rows into a Sink.
type Importer struct {
	sink   Sink
	logger *slog.Logger
	now    func() time.Time
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithClock overrides the clock used for start dates and timestamps.
func WithClock(now func() time.Time) ImporterOption {
	return func(im *Importer) { im.now = now }
}

// NewImporter creates an importer writing into sink.
func NewImporter(sink Sink, logger *slog.Logger, opts ...ImporterOption) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	im := &Importer{sink: sink, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// row is a parsed record with its 1-based data row number, or the parse
// error for that line.
type row struct {
	rec Record
	num int
	err error
}

// Import parses r and stores its rows for userID, strictly in order. Row
// failures land in Result.Errors and never stop the batch. Only an
// unreadable header is returned as an error. An empty userID is a no-op.
func (im *Importer) Import(ctx context.Context, r io.Reader, userID string) (Result, error) {
	result := Result{Errors: []string{}}
	if userID == "" {
		return result, nil
	}

	rd, err := NewReader(r)
	if errors.Is(err, ErrNoHeader) {
		return result, nil
	}
	if err != nil {
		return result, err
	}
	if !rd.HasColumn(ColTitle) {
		return result, ErrMissingTitleColumn
	}

	log := im.logger.With("user_id", userID, "run_id", id.RunID())
	log.Info("import started", "columns", len(rd.Header()))

	for {
		rec, num, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		result = im.reduce(ctx, log, userID, result, row{rec: rec, num: num, err: err})
	}

	log.Info("import finished", "imported", result.Imported, "failed", len(result.Errors))
	return result, nil
}

// ImportRecords folds already-parsed records. Row numbers follow slice order.
func (im *Importer) ImportRecords(ctx context.Context, recs []Record, userID string) Result {
	result := Result{Errors: []string{}}
	if userID == "" {
		return result
	}
	log := im.logger.With("user_id", userID, "run_id", id.RunID())
	for i, rec := range recs {
		result = im.reduce(ctx, log, userID, result, row{rec: rec, num: i + 1})
	}
	return result
}

// reduce applies one row to the running result. A book row is two
// sequential stages: the book insert, then the review insert using the
// returned ID. The review stage is skipped when the book insert fails.
func (im *Importer) reduce(ctx context.Context, log *slog.Logger, ownerID string, acc Result, r row) Result {
	fail := func(label string, err error) Result {
		msg := fmt.Sprintf("%s: %v", label, err)
		log.Warn("import row failed", "row", r.num, "reason", msg)
		acc.Errors = append(acc.Errors, msg)
		return acc
	}

	if r.err != nil {
		return fail(fmt.Sprintf("row %d", r.num), r.err)
	}

	title := r.rec.Title()
	if title == "" {
		return fail(fmt.Sprintf("row %d", r.num), errMissingTitle)
	}

	now := im.now()

	if ShelfOf(r.rec) == domain.ShelfToRead {
		entry, err := toTBREntry(r.rec, ownerID, now)
		if err != nil {
			return fail(title, err)
		}
		if _, err := im.sink.CreateTBREntry(ctx, entry); err != nil {
			return fail(title, err)
		}
		acc.Imported++
		if toReview(r.rec, ownerID, now) != nil {
			return fail(title, fmt.Errorf("review not saved: %w", errTBRReview))
		}
		return acc
	}

	book, err := toBook(r.rec, ownerID, now)
	if err != nil {
		return fail(title, err)
	}
	bookID, err := im.sink.CreateBook(ctx, book)
	if err != nil {
		return fail(title, err)
	}
	acc.Imported++

	review := toReview(r.rec, ownerID, now)
	if review == nil {
		return acc
	}
	review.BookID = bookID
	if err := im.sink.CreateReview(ctx, review); err != nil {
		return fail(title, fmt.Errorf("review not saved: %w", err))
	}
	return acc
}
