package sqlite

import (
	"context"
	"database/sql"

	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/store"
)

// reviewColumns must match the scan order in scanReview.
const reviewColumns = `id, book_id, owner_id, rating, body, created_at, updated_at`

func scanReview(scanner interface{ Scan(dest ...any) error }) (*domain.Review, error) {
	var (
		r                    domain.Review
		rating               sql.NullInt64
		createdAt, updatedAt string
	)

	if err := scanner.Scan(&r.ID, &r.BookID, &r.OwnerID, &rating, &r.Body, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	r.Rating = intPtrFromNull(rating)

	var err error
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReview inserts a review. The book must exist and must not already
// have a review (store.ErrAlreadyExists).
func (s *Store) CreateReview(ctx context.Context, review *domain.Review) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (`+reviewColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		review.ID,
		review.BookID,
		review.OwnerID,
		nullIntPtr(review.Rating),
		review.Body,
		formatTime(review.CreatedAt),
		formatTime(review.UpdatedAt),
	)
	return mapWriteError(err)
}

// GetReview retrieves a review by ID.
func (s *Store) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	return s.getReviewWhere(ctx, "id = ?", id)
}

// GetReviewForBook retrieves the review attached to a book.
func (s *Store) GetReviewForBook(ctx context.Context, bookID string) (*domain.Review, error) {
	return s.getReviewWhere(ctx, "book_id = ?", bookID)
}

func (s *Store) getReviewWhere(ctx context.Context, predicate, arg string) (*domain.Review, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE `+predicate, arg)
	r, err := scanReview(row)
	if err != nil {
		return nil, mapReadError(err)
	}
	return r, nil
}

// ListReviews returns the reviews matching filter, oldest first.
func (s *Store) ListReviews(ctx context.Context, filter store.ReviewFilter) ([]*domain.Review, error) {
	var w whereBuilder
	w.eq("owner_id", filter.OwnerID)
	w.eq("book_id", filter.BookID)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews`+w.String()+` ORDER BY created_at, id`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []*domain.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// UpdateReview replaces a review's rating and body.
func (s *Store) UpdateReview(ctx context.Context, review *domain.Review) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE reviews SET rating = ?, body = ?, updated_at = ? WHERE id = ?`,
		nullIntPtr(review.Rating), review.Body, formatTime(review.UpdatedAt), review.ID)
	if err != nil {
		return mapWriteError(err)
	}
	return expectOneRow(result)
}

// DeleteReview removes a review.
func (s *Store) DeleteReview(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOneRow(result)
}
