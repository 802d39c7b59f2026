package goodreads

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/id"
)

// errMissingTitle rejects a row with no title.
var errMissingTitle = errors.New("missing title")

// importDateLayouts are tried in order for Date Read and Date Added.
var importDateLayouts = []string{
	"2006/01/02",
	"2006-01-02",
	"2006/1/2",
	"2006-1-2",
}

// htmlTagPattern matches the markup Goodreads leaves in review bodies.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

// BookRow maps a book and its optional review onto an export row.
func BookRow(b *domain.Book, r *domain.Review) Row {
	var row Row
	row.set(ColBookID, b.ID)
	setTitleAuthor(&row, b.Title, b.Author)
	row.set(ColNumberOfPages, formatOptionalInt(b.TotalPages))
	row.set(ColYearPublished, formatOptionalInt(b.PublishedYear))
	row.set(ColDateRead, formatOptionalDate(b.FinishedAt))
	row.set(ColDateAdded, formatDate(b.CreatedAt))

	shelf := string(domain.ShelfForStatus(b.Status))
	row.set(ColBookshelves, shelf)
	row.set(ColExclusiveShelf, shelf)
	row.set(ColPrivateNotes, b.DNFLabel())

	if r != nil {
		row.set(ColMyRating, formatOptionalInt(r.Rating))
		row.set(ColMyReview, r.Body)
	}

	if b.IsFinished() {
		row.set(ColReadCount, "1")
	} else {
		row.set(ColReadCount, "0")
	}
	row.set(ColOwnedCopies, "0")
	return row
}

// TBRRow maps a to-be-read entry onto an export row. TBR rows never
// carry a rating or review.
func TBRRow(e *domain.TBREntry) Row {
	var row Row
	row.set(ColBookID, e.ID)
	setTitleAuthor(&row, e.Title, e.Author)
	row.set(ColNumberOfPages, formatOptionalInt(e.TotalPages))
	row.set(ColYearPublished, formatOptionalInt(e.PublishedYear))
	row.set(ColDateAdded, formatDate(e.CreatedAt))
	row.set(ColBookshelves, string(domain.ShelfToRead))
	row.set(ColExclusiveShelf, string(domain.ShelfToRead))
	row.set(ColPrivateNotes, e.Notes)
	row.set(ColReadCount, "0")
	row.set(ColOwnedCopies, "0")
	return row
}

func setTitleAuthor(row *Row, title, author string) {
	row.set(ColTitle, title)
	row.set(ColAuthor, author)
	row.set(ColAuthorLF, authorLastFirst(author))
}

// authorLastFirst turns "Frank Herbert" into "Herbert, Frank", keeping
// particles with the surname ("Le Guin, Ursula K.").
func authorLastFirst(author string) string {
	parts := strings.Fields(author)
	if len(parts) < 2 {
		return strings.TrimSpace(author)
	}
	cut := len(parts) - 1
	for cut > 1 && isNameParticle(parts[cut-1]) {
		cut--
	}
	return strings.Join(parts[cut:], " ") + ", " + strings.Join(parts[:cut], " ")
}

// authorFromLastFirst reverses authorLastFirst.
func authorFromLastFirst(lf string) string {
	last, first, ok := strings.Cut(lf, ",")
	if !ok {
		return strings.TrimSpace(lf)
	}
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func isNameParticle(s string) bool {
	switch strings.ToLower(s) {
	case "le", "la", "de", "del", "da", "van", "von", "der", "di", "du":
		return true
	}
	return false
}

// ShelfOf classifies a record's Exclusive Shelf: lowercased with hyphens
// and spaces removed, so "to-read", "To Read" and "toread" agree.
func ShelfOf(rec Record) domain.Shelf {
	key := strings.ToLower(rec.Get(ColExclusiveShelf))
	key = strings.NewReplacer("-", "", " ", "").Replace(key)
	switch key {
	case "read":
		return domain.ShelfRead
	case "currentlyreading":
		return domain.ShelfCurrentlyReading
	case "toread":
		return domain.ShelfToRead
	}
	return ""
}

// recordAuthor prefers Author and falls back to Author l-f.
func recordAuthor(rec Record) string {
	if a := strings.TrimSpace(rec.Get(ColAuthor)); a != "" {
		return a
	}
	return authorFromLastFirst(rec.Get(ColAuthorLF))
}

// recordYear prefers Year Published and falls back to the original year.
func recordYear(rec Record) *int {
	if y := parsePositiveInt(rec.Get(ColYearPublished)); y != nil {
		return y
	}
	return parsePositiveInt(rec.Get(ColOriginalYear))
}

// toBook builds the active-collection book for rec. Books being read get
// now as their start date.
func toBook(rec Record, ownerID string, now time.Time) (*domain.Book, error) {
	title := rec.Title()
	if title == "" {
		return nil, errMissingTitle
	}

	b := &domain.Book{
		OwnerID:       ownerID,
		Title:         title,
		Author:        recordAuthor(rec),
		TotalPages:    parsePositiveInt(rec.Get(ColNumberOfPages)),
		PublishedYear: recordYear(rec),
		Status:        domain.StatusForShelf(ShelfOf(rec)),
		FinishedAt:    parseDate(rec.Get(ColDateRead)),
		CreatedAt:     addedAt(rec, now),
		UpdatedAt:     now,
	}
	if b.Status == domain.StatusInProgress {
		today := domain.DateOf(now)
		b.StartedAt = &today
	}
	if b.Status == domain.StatusCompleted && b.TotalPages != nil {
		b.CurrentPage = *b.TotalPages
	}
	return b, nil
}

// toTBREntry builds the to-be-read entry for rec.
func toTBREntry(rec Record, ownerID string, now time.Time) (*domain.TBREntry, error) {
	title := rec.Title()
	if title == "" {
		return nil, errMissingTitle
	}
	return &domain.TBREntry{
		OwnerID:       ownerID,
		Title:         title,
		Author:        recordAuthor(rec),
		TotalPages:    parsePositiveInt(rec.Get(ColNumberOfPages)),
		PublishedYear: recordYear(rec),
		Notes:         noteText(rec),
		CreatedAt:     addedAt(rec, now),
	}, nil
}

// toReview returns the review carried by rec, or nil when it has neither
// a usable rating nor a body. Goodreads writes 0 for "not rated".
func toReview(rec Record, ownerID string, now time.Time) *domain.Review {
	r := &domain.Review{
		OwnerID:   ownerID,
		Body:      reviewBody(rec.Get(ColMyReview), fromReadlogExport(rec)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if n, err := strconv.Atoi(strings.TrimSpace(rec.Get(ColMyRating))); err == nil && domain.ValidRating(n) {
		r.Rating = &n
	}
	if !r.HasContent() {
		return nil
	}
	return r
}

// fromReadlogExport reports whether rec was written by a Readlog export.
// Goodreads book ids are numeric; ours carry a record prefix.
func fromReadlogExport(rec Record) bool {
	bookID := rec.Get(ColBookID)
	return strings.HasPrefix(bookID, id.PrefixBook+"-") || strings.HasPrefix(bookID, id.PrefixTBR+"-")
}

// noteText returns the Private Notes of rec, trimmed unless it came from
// a Readlog export.
func noteText(rec Record) string {
	if fromReadlogExport(rec) {
		return rec.Get(ColPrivateNotes)
	}
	return strings.TrimSpace(rec.Get(ColPrivateNotes))
}

// reviewBody converts the HTML Goodreads stores in reviews to Markdown.
// Plain text is returned trimmed. A verbatim body is returned as is.
func reviewBody(s string, verbatim bool) string {
	if verbatim {
		return s
	}
	s = strings.TrimSpace(s)
	if s == "" || !htmlTagPattern.MatchString(strings.ToLower(s)) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(markdown)
}

func addedAt(rec Record, now time.Time) time.Time {
	if d := parseDate(rec.Get(ColDateAdded)); d != nil {
		return *d
	}
	return now
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parsePositiveInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

func formatOptionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(ExportDateLayout)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}
