package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	// Own profile
	huma.Register(s.api, huma.Operation{
		OperationID: "getMyProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile",
		Summary:     "Get my profile",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetMyProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMyProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/profile",
		Summary:     "Update my profile",
		Description: "Updates display name, tagline, avatar URL or accent color",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateMyProfile)

	// Anyone's profile
	huma.Register(s.api, huma.Operation{
		OperationID: "getUserProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{username}/profile",
		Summary:     "Get user profile",
		Description: "Returns a user's profile and whether the caller follows them",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUserProfile)
}

// === Request/Response Types ===

// ProfileOutput wraps a profile for Huma.
type ProfileOutput struct {
	Body *domain.UserProfile
}

// UpdateProfileInput wraps the profile update for Huma.
type UpdateProfileInput struct {
	Body service.UpdateProfileRequest
}

// UsernameInput identifies a user by path.
type UsernameInput struct {
	Username string `path:"username" doc:"Username"`
}

// UserProfileResponse is another user's profile as seen by the caller.
type UserProfileResponse struct {
	Profile     *domain.UserProfile `json:"profile" doc:"Profile"`
	IsFollowing bool                `json:"is_following" doc:"Whether the caller follows this user"`
	IsSelf      bool                `json:"is_self" doc:"Whether this is the caller's own profile"`
}

// UserProfileOutput wraps the user profile response for Huma.
type UserProfileOutput struct {
	Body UserProfileResponse
}

// === Handlers ===

func (s *Server) handleGetMyProfile(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: profile}, nil
}

func (s *Server) handleUpdateMyProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.UpdateProfile(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: profile}, nil
}

func (s *Server) handleGetUserProfile(ctx context.Context, input *UsernameInput) (*UserProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.GetProfileByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	resp := UserProfileResponse{Profile: profile, IsSelf: profile.UserID == userID}
	if !resp.IsSelf {
		following, err := s.services.Social.IsFollowing(ctx, userID, input.Username)
		if err != nil {
			return nil, err
		}
		resp.IsFollowing = following
	}

	return &UserProfileOutput{Body: resp}, nil
}
