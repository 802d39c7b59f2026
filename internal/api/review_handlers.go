package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/service"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/reviews",
		Summary:     "List reviews",
		Description: "Returns all of the user's reviews",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListReviews)

	huma.Register(s.api, huma.Operation{
		OperationID: "putReview",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}/review",
		Summary:     "Save review",
		Description: "Creates or replaces the review of a book",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePutReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReview",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/review",
		Summary:     "Get review",
		Description: "Returns the review of a book",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteReview",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}/review",
		Summary:     "Delete review",
		Description: "Deletes the review of a book",
		Tags:        []string{"Reviews"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteReview)
}

// === DTOs ===

// ListReviewsResponse contains a list of reviews.
type ListReviewsResponse struct {
	Reviews []*domain.Review `json:"reviews" doc:"Reviews"`
}

// ListReviewsOutput wraps the list response for Huma.
type ListReviewsOutput struct {
	Body ListReviewsResponse
}

// PutReviewInput wraps the review request for Huma.
type PutReviewInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body service.PutReviewRequest
}

// ReviewOutput wraps a review for Huma.
type ReviewOutput struct {
	Body *domain.Review
}

// === Handlers ===

func (s *Server) handleListReviews(ctx context.Context, _ *struct{}) (*ListReviewsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	reviews, err := s.services.Review.ListReviews(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListReviewsOutput{Body: ListReviewsResponse{Reviews: nonNil(reviews)}}, nil
}

func (s *Server) handlePutReview(ctx context.Context, input *PutReviewInput) (*ReviewOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Review.PutReview(ctx, userID, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ReviewOutput{Body: review}, nil
}

func (s *Server) handleGetReview(ctx context.Context, input *BookIDInput) (*ReviewOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	review, err := s.services.Review.GetReview(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ReviewOutput{Body: review}, nil
}

func (s *Server) handleDeleteReview(ctx context.Context, input *BookIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Review.DeleteReview(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Review deleted"}}, nil
}
