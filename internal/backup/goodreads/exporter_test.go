package goodreads

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/logger"
)

var headerLine = strings.Join(Columns[:], ",")

func sampleLibrary() *fakeSource {
	finished := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	return &fakeSource{
		books: []*domain.Book{
			{ID: "book-1", OwnerID: "user-1", Title: "Dune", Author: "Frank Herbert", Status: domain.StatusCompleted, FinishedAt: &finished, TotalPages: intPtr(612)},
			{ID: "book-2", OwnerID: "user-1", Title: "Hyperion", Author: "Dan Simmons", Status: domain.StatusInProgress},
			{ID: "book-3", OwnerID: "user-1", Title: "Ulysses, annotated", Author: "James Joyce", Status: domain.StatusDNF, DNFKind: domain.DNFHard},
			{ID: "book-9", OwnerID: "user-2", Title: "Not mine", Status: domain.StatusCompleted},
		},
		entries: []*domain.TBREntry{
			{ID: "tbr-1", OwnerID: "user-1", Title: "Project Hail Mary", Author: "Andy Weir", Notes: "line one\nline \"two\""},
		},
		reviews: []*domain.Review{
			{ID: "review-1", BookID: "book-1", OwnerID: "user-1", Rating: intPtr(5), Body: "Spice, sand, and politics."},
		},
	}
}

func TestExport_EmptyLibraryIsHeaderOnly(t *testing.T) {
	src := &fakeSource{}
	out, err := NewExporter(src, logger.Discard()).Export(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, headerLine+"\n", out)
}

func TestExport_NoUserSkipsStore(t *testing.T) {
	src := sampleLibrary()
	out, err := NewExporter(src, logger.Discard()).Export(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, headerLine+"\n", out)
	assert.Zero(t, src.calls)
}

func TestExport_BooksThenTBR(t *testing.T) {
	out, err := NewExporter(sampleLibrary(), logger.Discard()).Export(context.Background(), "user-1")
	require.NoError(t, err)

	rd, err := NewReader(strings.NewReader(out))
	require.NoError(t, err)

	var titles, shelves, ratings, notes []string
	for {
		rec, _, err := rd.Read()
		if err != nil {
			break
		}
		titles = append(titles, rec.Title())
		shelves = append(shelves, rec.Get(ColExclusiveShelf))
		ratings = append(ratings, rec.Get(ColMyRating))
		notes = append(notes, rec.Get(ColPrivateNotes))
	}

	assert.Equal(t, []string{"Dune", "Hyperion", "Ulysses, annotated", "Project Hail Mary"}, titles)
	assert.Equal(t, []string{"read", "currently-reading", "to-read", "to-read"}, shelves)
	assert.Equal(t, []string{"5", "", "", ""}, ratings)
	assert.Equal(t, []string{"", "", "DNF: hard", "line one\nline \"two\""}, notes)
	assert.Contains(t, out, `"Ulysses, annotated"`)
}

func TestExport_FailedCollectionIsEmpty(t *testing.T) {
	src := sampleLibrary()
	src.booksErr = errStoreDown

	summary, err := NewExporter(src, logger.Discard()).WriteTo(context.Background(), &strings.Builder{}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Books)
	assert.Equal(t, 1, summary.TBR)
	assert.Equal(t, 1, summary.Rows())
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := sampleLibrary()
	out, err := NewExporter(src, logger.Discard()).Export(context.Background(), "user-1")
	require.NoError(t, err)

	sink := &fakeSink{}
	res, err := newTestImporter(sink).Import(context.Background(), strings.NewReader(out), "user-2")
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	assert.Equal(t, 4, res.Imported)

	type triple struct{ title, author, shelf string }
	var got []triple
	for _, b := range sink.books {
		got = append(got, triple{b.Title, b.Author, string(domain.ShelfForStatus(b.Status))})
	}
	for _, e := range sink.entries {
		got = append(got, triple{e.Title, e.Author, string(domain.ShelfToRead)})
	}

	assert.ElementsMatch(t, []triple{
		{"Dune", "Frank Herbert", "read"},
		{"Hyperion", "Dan Simmons", "currently-reading"},
		{"Ulysses, annotated", "James Joyce", "to-read"},
		{"Project Hail Mary", "Andy Weir", "to-read"},
	}, got)

	require.Len(t, sink.reviews, 1)
	assert.Equal(t, 5, *sink.reviews[0].Rating)
	assert.Equal(t, "Spice, sand, and politics.", sink.reviews[0].Body)
	assert.Equal(t, "line one\nline \"two\"", sink.entries[len(sink.entries)-1].Notes)
}
