package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/readlog/readlog-server/internal/domain"
	domainerrors "github.com/readlog/readlog-server/internal/errors"
	"github.com/readlog/readlog-server/internal/id"
	"github.com/readlog/readlog-server/internal/store"
	"github.com/readlog/readlog-server/internal/validation"
)

// ReviewService manages the single review a user may write per book.
type ReviewService struct {
	store     store.Store
	books     *BookService
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewReviewService creates a new review service.
func NewReviewService(store store.Store, books *BookService, validator *validation.Validator, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		store:     store,
		books:     books,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// PutReviewRequest is the full content of a review.
type PutReviewRequest struct {
	Rating *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Body   string `json:"body,omitempty" validate:"max=20000"`
}

// PutReview creates or replaces the review of one of userID's books. A
// review with neither rating nor body is rejected.
func (s *ReviewService) PutReview(ctx context.Context, userID, bookID string, req PutReviewRequest) (*domain.Review, error) {
	req.Body = strings.TrimSpace(req.Body)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Rating == nil && req.Body == "" {
		return nil, domainerrors.Validation("a review needs a rating or a body")
	}

	book, err := s.books.GetBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	existing, err := s.store.GetReviewForBook(ctx, book.ID)
	switch {
	case err == nil:
		existing.Rating = req.Rating
		existing.Body = req.Body
		existing.UpdatedAt = now
		if err := s.store.UpdateReview(ctx, existing); err != nil {
			return nil, fmt.Errorf("update review: %w", err)
		}
		return existing, nil

	case errors.Is(err, store.ErrNotFound):
		reviewID, err := id.Generate(id.PrefixReview)
		if err != nil {
			return nil, fmt.Errorf("generate review ID: %w", err)
		}
		review := &domain.Review{
			ID:        reviewID,
			BookID:    book.ID,
			OwnerID:   userID,
			Rating:    req.Rating,
			Body:      req.Body,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.CreateReview(ctx, review); err != nil {
			return nil, fmt.Errorf("create review: %w", err)
		}
		s.logger.Info("review created", "user_id", userID, "book_id", book.ID)
		return review, nil

	default:
		return nil, fmt.Errorf("get review: %w", err)
	}
}

// GetReview returns the review of one of userID's books.
func (s *ReviewService) GetReview(ctx context.Context, userID, bookID string) (*domain.Review, error) {
	book, err := s.books.GetBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	review, err := s.store.GetReviewForBook(ctx, book.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("review not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

// DeleteReview removes the review of one of userID's books.
func (s *ReviewService) DeleteReview(ctx context.Context, userID, bookID string) error {
	review, err := s.GetReview(ctx, userID, bookID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteReview(ctx, review.ID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// ListReviews returns all of userID's reviews.
func (s *ReviewService) ListReviews(ctx context.Context, userID string) ([]*domain.Review, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	reviews, err := s.store.ListReviews(ctx, store.ReviewFilter{OwnerID: userID})
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
