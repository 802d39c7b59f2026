package api

import (
	"github.com/readlog/readlog-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth          *service.AuthService
	Book          *service.BookService
	TBR           *service.TBRService
	Review        *service.ReviewService
	Profile       *service.ProfileService
	Social        *service.SocialService
	FollowedBooks *service.FollowedBooksSearches // One search holder per reader
	Interchange   *service.InterchangeService    // Goodreads CSV import and export
	Search        *service.SearchService         // Optional; nil disables /search
}
