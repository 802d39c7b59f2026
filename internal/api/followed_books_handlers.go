package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readlog/readlog-server/internal/domain"
)

func (s *Server) registerFollowedBooksRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchFollowedBooks",
		Method:      http.MethodPost,
		Path:        "/api/v1/followed-books/search",
		Summary:     "Search followed users' books",
		Description: "Finds which followed users have a book on their shelves or in their queue",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchFollowedBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFollowedBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/followed-books",
		Summary:     "Get followed-books results",
		Description: "Returns the last search result and whether a search is running",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetFollowedBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearFollowedBooks",
		Method:      http.MethodDelete,
		Path:        "/api/v1/followed-books",
		Summary:     "Clear followed-books results",
		Description: "Empties the last search result",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleClearFollowedBooks)
}

// === DTOs ===

// FollowedBooksSearchRequest is the request body for a followed-books search.
type FollowedBooksSearchRequest struct {
	Title  string `json:"title" doc:"Title fragment, matched ignoring case"`
	Author string `json:"author,omitempty" doc:"Optional author fragment"`
}

// FollowedBooksSearchInput wraps the search request for Huma.
type FollowedBooksSearchInput struct {
	Body FollowedBooksSearchRequest
}

// FollowedBooksResponse is the state of the caller's followed-books search.
type FollowedBooksResponse struct {
	Loading bool                       `json:"loading" doc:"Whether a search is running"`
	Results []domain.FollowedBookMatch `json:"results" doc:"One row per followed user and matching book"`
}

// FollowedBooksOutput wraps the followed-books response for Huma.
type FollowedBooksOutput struct {
	Body FollowedBooksResponse
}

// === Handlers ===

func (s *Server) handleSearchFollowedBooks(ctx context.Context, input *FollowedBooksSearchInput) (*FollowedBooksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	search := s.services.FollowedBooks.For(userID)
	results := search.Run(ctx, userID, input.Body.Title, input.Body.Author)

	return &FollowedBooksOutput{Body: FollowedBooksResponse{
		Loading: search.Loading(),
		Results: nonNil(results),
	}}, nil
}

func (s *Server) handleGetFollowedBooks(ctx context.Context, _ *struct{}) (*FollowedBooksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	search := s.services.FollowedBooks.For(userID)

	return &FollowedBooksOutput{Body: FollowedBooksResponse{
		Loading: search.Loading(),
		Results: nonNil(search.Results()),
	}}, nil
}

func (s *Server) handleClearFollowedBooks(ctx context.Context, _ *struct{}) (*FollowedBooksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	search := s.services.FollowedBooks.For(userID)
	search.Clear()

	return &FollowedBooksOutput{Body: FollowedBooksResponse{
		Loading: search.Loading(),
		Results: []domain.FollowedBookMatch{},
	}}, nil
}
