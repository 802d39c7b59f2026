package sqlite

import (
	"context"
	"database/sql"

	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/normalize"
	"github.com/readlog/readlog-server/internal/store"
)

// tbrColumns must match the scan order in scanTBREntry.
const tbrColumns = `id, owner_id, title, author, total_pages, cover_url, notes, published_year, created_at`

func scanTBREntry(scanner interface{ Scan(dest ...any) error }) (*domain.TBREntry, error) {
	var (
		e                   domain.TBREntry
		totalPages, pubYear sql.NullInt64
		createdAt           string
	)

	err := scanner.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Author, &totalPages, &e.CoverURL, &e.Notes, &pubYear, &createdAt)
	if err != nil {
		return nil, err
	}

	e.TotalPages = intPtrFromNull(totalPages)
	e.PublishedYear = intPtrFromNull(pubYear)
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateTBREntry inserts an entry into its owner's to-be-read queue.
func (s *Store) CreateTBREntry(ctx context.Context, entry *domain.TBREntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tbr_entries (
			id, owner_id, title, title_key, author, total_pages, cover_url, notes, published_year, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.OwnerID,
		entry.Title,
		normalize.Key(entry.Title),
		entry.Author,
		nullIntPtr(entry.TotalPages),
		entry.CoverURL,
		entry.Notes,
		nullIntPtr(entry.PublishedYear),
		formatTime(entry.CreatedAt),
	)
	return mapWriteError(err)
}

// GetTBREntry retrieves an entry by ID.
func (s *Store) GetTBREntry(ctx context.Context, id string) (*domain.TBREntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tbrColumns+` FROM tbr_entries WHERE id = ?`, id)
	e, err := scanTBREntry(row)
	if err != nil {
		return nil, mapReadError(err)
	}
	return e, nil
}

// ListTBREntries returns the entries matching filter, oldest first.
func (s *Store) ListTBREntries(ctx context.Context, filter store.TBRFilter) ([]*domain.TBREntry, error) {
	var w whereBuilder
	w.eq("owner_id", filter.OwnerID)
	w.in("owner_id", filter.OwnerIDs)
	w.contains("title_key", normalize.Key(filter.TitleContains))
	if w.none {
		return []*domain.TBREntry{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tbrColumns+` FROM tbr_entries`+w.String()+` ORDER BY created_at, id`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*domain.TBREntry{}
	for rows.Next() {
		e, err := scanTBREntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpdateTBREntry replaces an entry's mutable fields.
func (s *Store) UpdateTBREntry(ctx context.Context, entry *domain.TBREntry) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tbr_entries SET
			title = ?, title_key = ?, author = ?, total_pages = ?, cover_url = ?, notes = ?, published_year = ?
		WHERE id = ?`,
		entry.Title,
		normalize.Key(entry.Title),
		entry.Author,
		nullIntPtr(entry.TotalPages),
		entry.CoverURL,
		entry.Notes,
		nullIntPtr(entry.PublishedYear),
		entry.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	return expectOneRow(result)
}

// DeleteTBREntry removes an entry.
func (s *Store) DeleteTBREntry(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tbr_entries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}
