package sqlite

import (
	"context"
	"database/sql"

	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/normalize"
	"github.com/readlog/readlog-server/internal/store"
)

// bookColumns must match the scan order in scanBook.
const bookColumns = `id, owner_id, title, author, total_pages, current_page, status, dnf_kind,
	cover_url, started_at, finished_at, published_year, created_at, updated_at`

func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var (
		b                    domain.Book
		status, dnfKind      string
		totalPages, pubYear  sql.NullInt64
		startedAt, finished  sql.NullString
		createdAt, updatedAt string
	)

	err := scanner.Scan(
		&b.ID,
		&b.OwnerID,
		&b.Title,
		&b.Author,
		&totalPages,
		&b.CurrentPage,
		&status,
		&dnfKind,
		&b.CoverURL,
		&startedAt,
		&finished,
		&pubYear,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Rows written before the status vocabulary settled may say "finished".
	b.Status = domain.NormalizeStatus(status)
	b.DNFKind = domain.DNFKind(dnfKind)
	b.TotalPages = intPtrFromNull(totalPages)
	b.PublishedYear = intPtrFromNull(pubYear)

	if b.StartedAt, err = parseNullableDate(startedAt); err != nil {
		return nil, err
	}
	if b.FinishedAt, err = parseNullableDate(finished); err != nil {
		return nil, err
	}
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBook inserts a book into its owner's active collection.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (
			id, owner_id, title, title_key, author, total_pages, current_page, status, dnf_kind,
			cover_url, started_at, finished_at, published_year, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		book.OwnerID,
		book.Title,
		normalize.Key(book.Title),
		book.Author,
		nullIntPtr(book.TotalPages),
		book.CurrentPage,
		string(domain.NormalizeStatus(string(book.Status))),
		string(book.DNFKind),
		book.CoverURL,
		nullDate(book.StartedAt),
		nullDate(book.FinishedAt),
		nullIntPtr(book.PublishedYear),
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
	)
	return mapWriteError(err)
}

// GetBook retrieves a book by ID.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	b, err := scanBook(row)
	if err != nil {
		return nil, mapReadError(err)
	}
	return b, nil
}

// ListBooks returns the books matching filter, oldest first.
func (s *Store) ListBooks(ctx context.Context, filter store.BookFilter) ([]*domain.Book, error) {
	var w whereBuilder
	w.eq("owner_id", filter.OwnerID)
	w.in("owner_id", filter.OwnerIDs)
	w.contains("title_key", normalize.Key(filter.TitleContains))
	w.eq("status", string(filter.Status))
	if w.none {
		return []*domain.Book{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books`+w.String()+` ORDER BY created_at, id`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*domain.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// UpdateBook replaces a book's mutable fields. The owner never changes.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			title = ?, title_key = ?, author = ?, total_pages = ?, current_page = ?,
			status = ?, dnf_kind = ?, cover_url = ?, started_at = ?, finished_at = ?,
			published_year = ?, updated_at = ?
		WHERE id = ?`,
		book.Title,
		normalize.Key(book.Title),
		book.Author,
		nullIntPtr(book.TotalPages),
		book.CurrentPage,
		string(domain.NormalizeStatus(string(book.Status))),
		string(book.DNFKind),
		book.CoverURL,
		nullDate(book.StartedAt),
		nullDate(book.FinishedAt),
		nullIntPtr(book.PublishedYear),
		formatTime(book.UpdatedAt),
		book.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	return expectOneRow(result)
}

// DeleteBook removes a book. Its review goes with it.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}
