// Package goodreads reads and writes Goodreads library exports.
//
// The format is a comma-separated table with a fixed 24-column header.
// Export turns a user's books, to-be-read entries and reviews into that
// table; Import folds such a table back into records, one row at a time.
package goodreads

import "strings"

// Column names in export order.
const (
	ColBookID            = "Book Id"
	ColTitle             = "Title"
	ColAuthor            = "Author"
	ColAuthorLF          = "Author l-f"
	ColAdditionalAuthors = "Additional Authors"
	ColISBN              = "ISBN"
	ColISBN13            = "ISBN13"
	ColMyRating          = "My Rating"
	ColAverageRating     = "Average Rating"
	ColPublisher         = "Publisher"
	ColBinding           = "Binding"
	ColNumberOfPages     = "Number of Pages"
	ColYearPublished     = "Year Published"
	ColOriginalYear      = "Original Publication Year"
	ColDateRead          = "Date Read"
	ColDateAdded         = "Date Added"
	ColBookshelves       = "Bookshelves"
	ColBookshelvesPos    = "Bookshelves with positions"
	ColExclusiveShelf    = "Exclusive Shelf"
	ColMyReview          = "My Review"
	ColSpoiler           = "Spoiler"
	ColPrivateNotes      = "Private Notes"
	ColReadCount         = "Read Count"
	ColOwnedCopies       = "Owned Copies"
)

// Columns is the header of every export. It never depends on the data,
// so an empty library still exports a header line.
var Columns = [24]string{
	ColBookID,
	ColTitle,
	ColAuthor,
	ColAuthorLF,
	ColAdditionalAuthors,
	ColISBN,
	ColISBN13,
	ColMyRating,
	ColAverageRating,
	ColPublisher,
	ColBinding,
	ColNumberOfPages,
	ColYearPublished,
	ColOriginalYear,
	ColDateRead,
	ColDateAdded,
	ColBookshelves,
	ColBookshelvesPos,
	ColExclusiveShelf,
	ColMyReview,
	ColSpoiler,
	ColPrivateNotes,
	ColReadCount,
	ColOwnedCopies,
}

// ExportDateLayout is how Goodreads writes Date Read and Date Added.
const ExportDateLayout = "2006/01/02"

// Record is one parsed data row keyed by header name.
type Record map[string]string

// Get returns the value under column, or "" when the row has no such cell.
func (r Record) Get(column string) string {
	return r[column]
}

// Title returns the trimmed title cell.
func (r Record) Title() string {
	return strings.TrimSpace(r[ColTitle])
}

// Row is an ordered set of values for Columns.
type Row [len(Columns)]string

// set writes value under the named column.
func (r *Row) set(column, value string) {
	r[columnIndex[column]] = value
}

var columnIndex = func() map[string]int {
	m := make(map[string]int, len(Columns))
	for i, c := range Columns {
		m[c] = i
	}
	return m
}()
