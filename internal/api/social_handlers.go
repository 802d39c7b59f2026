package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readlog/readlog-server/internal/domain"
)

func (s *Server) registerSocialRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "followUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/follows/{username}",
		Summary:     "Follow user",
		Description: "Follows a user. Following someone twice is a no-op.",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFollow)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfollowUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/follows/{username}",
		Summary:     "Unfollow user",
		Description: "Stops following a user",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfollow)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowing",
		Method:      http.MethodGet,
		Path:        "/api/v1/following",
		Summary:     "List following",
		Description: "Returns the profiles of users the caller follows",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFollowing)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowers",
		Method:      http.MethodGet,
		Path:        "/api/v1/followers",
		Summary:     "List followers",
		Description: "Returns the profiles of users following the caller",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFollowers)
}

// === DTOs ===

// ProfileListResponse contains a list of profiles.
type ProfileListResponse struct {
	Users []*domain.UserProfile `json:"users" doc:"Profiles, ordered by username"`
}

// ProfileListOutput wraps the profile list for Huma.
type ProfileListOutput struct {
	Body ProfileListResponse
}

// === Handlers ===

func (s *Server) handleFollow(ctx context.Context, input *UsernameInput) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Social.Follow(ctx, userID, input.Username)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: profile}, nil
}

func (s *Server) handleUnfollow(ctx context.Context, input *UsernameInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Social.Unfollow(ctx, userID, input.Username); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Unfollowed"}}, nil
}

func (s *Server) handleListFollowing(ctx context.Context, _ *struct{}) (*ProfileListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.services.Social.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileListOutput{Body: ProfileListResponse{Users: nonNil(users)}}, nil
}

func (s *Server) handleListFollowers(ctx context.Context, _ *struct{}) (*ProfileListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.services.Social.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileListOutput{Body: ProfileListResponse{Users: nonNil(users)}}, nil
}
