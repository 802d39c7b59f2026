package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/readlog/readlog-server/internal/color"
	"github.com/readlog/readlog-server/internal/domain"
	domainerrors "github.com/readlog/readlog-server/internal/errors"
	"github.com/readlog/readlog-server/internal/store"
	"github.com/readlog/readlog-server/internal/validation"
)

// MaxTaglineLength is the maximum number of characters allowed in a tagline.
const MaxTaglineLength = 60

// DefaultProfileCacheSize is used when the configured size is not positive.
const DefaultProfileCacheSize = 512

// ProfileService provides user profile lookups and updates. Lookups by
// user ID go through an LRU cache that updates refresh.
type ProfileService struct {
	store     store.Store
	cache     *lru.Cache[string, *domain.UserProfile]
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewProfileService creates a new profile service caching up to cacheSize
// profiles.
func NewProfileService(store store.Store, validator *validation.Validator, logger *slog.Logger, cacheSize int) (*ProfileService, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultProfileCacheSize
	}
	cache, err := lru.New[string, *domain.UserProfile](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create profile cache: %w", err)
	}
	return &ProfileService{
		store:     store,
		cache:     cache,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// UpdateProfileRequest contains optional fields to update.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,max=60"`
	Tagline     *string `json:"tagline,omitempty" validate:"omitempty,max=60"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	AccentColor *string `json:"accent_color,omitempty"`
}

// GetProfile returns userID's profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if p, ok := s.cache.Get(userID); ok {
		return clonedProfile(p), nil
	}

	p, err := s.store.GetUserProfile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("profile not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	s.cache.Add(userID, p)
	return clonedProfile(p), nil
}

// GetProfileByUsername resolves a username. Usernames are matched after
// lower-casing.
func (s *ProfileService) GetProfileByUsername(ctx context.Context, username string) (*domain.UserProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, domainerrors.NotFound("profile not found")
	}

	p, err := s.store.GetUserProfileByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("no user named %q", username)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	s.cache.Add(p.UserID, p)
	return clonedProfile(p), nil
}

// ListProfiles returns the profiles of ids ordered by username. Unknown
// ids are skipped.
func (s *ProfileService) ListProfiles(ctx context.Context, ids []string) ([]*domain.UserProfile, error) {
	if len(ids) == 0 {
		return []*domain.UserProfile{}, nil
	}
	profiles, err := s.store.ListUserProfiles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	for _, p := range profiles {
		s.cache.Add(p.UserID, p)
	}
	return profiles, nil
}

// UpdateProfile applies req to userID's profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.UserProfile, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Tagline != nil {
		tagline := strings.TrimSpace(*req.Tagline)
		if len([]rune(tagline)) > MaxTaglineLength {
			return nil, domainerrors.Validationf("tagline must be %d characters or less", MaxTaglineLength)
		}
		profile.Tagline = tagline
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if req.AccentColor != nil {
		if *req.AccentColor == "" {
			profile.AccentColor = color.ForUser(userID)
		} else {
			hex, ok := color.Normalize(*req.AccentColor)
			if !ok {
				return nil, domainerrors.ValidationWithDetails("accent_color must be a hex color like #A1B2C3",
					map[string]string{"accent_color": "must be a hex color like #A1B2C3"})
			}
			profile.AccentColor = hex
		}
	}
	profile.UpdatedAt = s.now()

	if err := s.store.UpdateUserProfile(ctx, profile); err != nil {
		s.cache.Remove(userID)
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.cache.Add(userID, clonedProfile(profile))

	s.logger.Info("profile updated", "user_id", userID)
	return profile, nil
}

// Invalidate drops userID from the cache.
func (s *ProfileService) Invalidate(userID string) {
	s.cache.Remove(userID)
}

// clonedProfile keeps callers from mutating cached values.
func clonedProfile(p *domain.UserProfile) *domain.UserProfile {
	c := *p
	return &c
}
