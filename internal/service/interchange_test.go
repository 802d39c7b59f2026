package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readlog/readlog-server/internal/backup/goodreads"
	"github.com/readlog/readlog-server/internal/domain"
	domainerrors "github.com/readlog/readlog-server/internal/errors"
)

func TestInterchangeService_ExportThenImport(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "user-1", "ana")
	env.createUser(t, "user-2", "ben")
	ctx := context.Background()

	dune, err := env.books.AddBook(ctx, "user-1", AddBookRequest{Title: "Dune", Author: "Frank Herbert", Status: "completed", TotalPages: intPtr(412)})
	require.NoError(t, err)
	_, err = env.reviews.PutReview(ctx, "user-1", dune.ID, PutReviewRequest{Rating: intPtr(5), Body: "Spice, again."})
	require.NoError(t, err)
	_, err = env.books.AddBook(ctx, "user-1", AddBookRequest{Title: "Emma", Author: "Jane Austen"})
	require.NoError(t, err)
	_, err = env.tbr.AddEntry(ctx, "user-1", AddTBRRequest{Title: "Piranesi", Author: "Susanna Clarke", Notes: "from Sam, \"soon\""})
	require.NoError(t, err)

	var buf bytes.Buffer
	summary, err := env.interchange.Export(ctx, "user-1", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Books)
	assert.Equal(t, 1, summary.TBR)
	assert.True(t, strings.HasPrefix(buf.String(), strings.Join(goodreads.Columns[:], ",")))

	result, err := env.interchange.Import(ctx, "user-2", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Empty(t, result.Errors)

	books, err := env.books.ListBooks(ctx, "user-2", "")
	require.NoError(t, err)
	require.Len(t, books, 2)
	byTitle := map[string]*domain.Book{}
	for _, b := range books {
		byTitle[b.Title] = b
	}
	require.Contains(t, byTitle, "Dune")
	assert.Equal(t, domain.StatusCompleted, byTitle["Dune"].Status)
	assert.Equal(t, "Frank Herbert", byTitle["Dune"].Author)
	assert.Equal(t, domain.StatusInProgress, byTitle["Emma"].Status)

	review, err := env.reviews.GetReview(ctx, "user-2", byTitle["Dune"].ID)
	require.NoError(t, err)
	assert.Equal(t, 5, *review.Rating)
	assert.Equal(t, "Spice, again.", review.Body)

	entries, err := env.tbr.ListEntries(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, `from Sam, "soon"`, entries[0].Notes)
}

func TestInterchangeService_ExportImportKeepsTextExactly(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "user-1", "ana")
	env.createUser(t, "user-2", "ben")
	ctx := context.Background()

	body := "Loved <b>this</b>, truly.\r\n\r\nSecond \"paragraph\"."
	notes := "Windows,\r\n\"quoted\""

	dune, err := env.books.AddBook(ctx, "user-1", AddBookRequest{Title: "Dune", Status: "completed"})
	require.NoError(t, err)
	_, err = env.reviews.PutReview(ctx, "user-1", dune.ID, PutReviewRequest{Body: body})
	require.NoError(t, err)
	_, err = env.tbr.AddEntry(ctx, "user-1", AddTBRRequest{Title: "Piranesi", Notes: notes})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = env.interchange.Export(ctx, "user-1", &buf)
	require.NoError(t, err)

	result, err := env.interchange.Import(ctx, "user-2", &buf)
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	books, err := env.books.ListBooks(ctx, "user-2", "")
	require.NoError(t, err)
	require.Len(t, books, 1)
	review, err := env.reviews.GetReview(ctx, "user-2", books[0].ID)
	require.NoError(t, err)
	assert.Equal(t, body, review.Body)

	entries, err := env.tbr.ListEntries(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, notes, entries[0].Notes)
}

func TestInterchangeService_ImportReportsDuplicates(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "user-1", "ana")
	ctx := context.Background()

	_, err := env.books.AddBook(ctx, "user-1", AddBookRequest{Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)
	_, err = env.tbr.AddEntry(ctx, "user-1", AddTBRRequest{Title: "Piranesi"})
	require.NoError(t, err)

	csv := "Title,Author,Exclusive Shelf\n" +
		"dune,Frank Herbert,read\n" +
		"Piranesi,Susanna Clarke,to-read\n" +
		"Emma,Jane Austen,read\n"

	result, err := env.interchange.Import(ctx, "user-1", strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, []string{
		"dune: already on your shelves",
		"Piranesi: already in your queue",
	}, result.Errors)
}

func TestInterchangeService_ImportErrors(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "user-1", "ana")
	ctx := context.Background()

	_, err := env.interchange.Import(ctx, "user-1", strings.NewReader("Author,Shelf\nFrank Herbert,read\n"))
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.interchange.Import(ctx, "", strings.NewReader("Title\nDune\n"))
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = env.interchange.Export(ctx, "", &bytes.Buffer{})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}
