package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search library",
		Description: "Full-text search across the user's shelves and reading queue",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching the library.
type SearchInput struct {
	Query  string `query:"q" maxLength:"200" doc:"Search query"`
	Types  string `query:"types" maxLength:"100" doc:"Comma-separated types to search (book,tbr). Omit for both."`
	Status string `query:"status" doc:"Exact status filter, e.g. completed or tbr"`
	Sort   string `query:"sort" enum:"relevance,title,author,recent" default:"relevance" doc:"Sort field"`
	Order  string `query:"order" enum:"asc,desc" default:"desc" doc:"Sort order"`
	Limit  int    `query:"limit" minimum:"0" maximum:"100" doc:"Max results (default 20)"`
	Offset int    `query:"offset" minimum:"0" doc:"Pagination offset (default 0)"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if s.services.Search == nil {
		return nil, huma.Error503ServiceUnavailable("Search is not available")
	}

	params := search.DefaultSearchParams()
	params.Query = strings.TrimSpace(input.Query)
	params.SortBy = input.Sort
	params.SortOrder = input.Order
	params.Offset = input.Offset
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	if input.Status != "" {
		params.Status = string(domain.NormalizeStatus(input.Status))
	}

	// Parse types - comma-separated string to slice
	if input.Types != "" {
		for t := range strings.SplitSeq(input.Types, ",") {
			switch strings.TrimSpace(t) {
			case string(search.DocTypeBook):
				params.Types = append(params.Types, search.DocTypeBook)
			case string(search.DocTypeTBR):
				params.Types = append(params.Types, search.DocTypeTBR)
			}
		}
	}

	s.logger.Debug("Search request received",
		"query", params.Query,
		"types", input.Types,
		"limit", params.Limit,
	)

	result, err := s.services.Search.Search(ctx, userID, params)
	if err != nil {
		s.logger.Error("Search failed", "error", err, "query", params.Query)
		return nil, huma.Error500InternalServerError("Search failed", err)
	}

	return &SearchOutput{Body: result}, nil
}
