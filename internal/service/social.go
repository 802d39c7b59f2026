package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/readlog/readlog-server/internal/domain"
	domainerrors "github.com/readlog/readlog-server/internal/errors"
	"github.com/readlog/readlog-server/internal/store"
)

// SocialService manages the follow relation between readers.
type SocialService struct {
	store    store.Store
	profiles *ProfileService
	logger   *slog.Logger
	now      func() time.Time
}

// NewSocialService creates a new social service.
func NewSocialService(store store.Store, profiles *ProfileService, logger *slog.Logger) *SocialService {
	return &SocialService{
		store:    store,
		profiles: profiles,
		logger:   logger,
		now:      time.Now,
	}
}

// Follow makes userID follow the reader named username and returns that
// reader's profile. Following someone already followed is a no-op.
func (s *SocialService) Follow(ctx context.Context, userID, username string) (*domain.UserProfile, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	target, err := s.profiles.GetProfileByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.UserID == userID {
		return nil, domainerrors.Validation("you cannot follow yourself")
	}

	following, err := s.store.IsFollowing(ctx, userID, target.UserID)
	if err != nil {
		return nil, fmt.Errorf("check follow: %w", err)
	}
	if following {
		return target, nil
	}

	err = s.store.CreateFollow(ctx, &domain.Follow{
		FollowerID: userID,
		FollowedID: target.UserID,
		CreatedAt:  s.now(),
	})
	// A concurrent follow of the same pair lands here.
	if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
		return nil, fmt.Errorf("create follow: %w", err)
	}

	s.logger.Info("user followed", "user_id", userID, "followed_id", target.UserID)
	return target, nil
}

// Unfollow removes userID's follow of username. Unfollowing someone not
// followed is a no-op.
func (s *SocialService) Unfollow(ctx context.Context, userID, username string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	target, err := s.profiles.GetProfileByUsername(ctx, username)
	if err != nil {
		return err
	}

	err = s.store.DeleteFollow(ctx, userID, target.UserID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

// ListFollowing returns the profiles userID follows, ordered by username.
func (s *SocialService) ListFollowing(ctx context.Context, userID string) ([]*domain.UserProfile, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	ids, err := s.store.ListFollowedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return s.profiles.ListProfiles(ctx, ids)
}

// ListFollowers returns the profiles following userID, ordered by username.
func (s *SocialService) ListFollowers(ctx context.Context, userID string) ([]*domain.UserProfile, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	ids, err := s.store.ListFollowerIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return s.profiles.ListProfiles(ctx, ids)
}

// IsFollowing reports whether userID follows the reader named username.
func (s *SocialService) IsFollowing(ctx context.Context, userID, username string) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	target, err := s.profiles.GetProfileByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return s.store.IsFollowing(ctx, userID, target.UserID)
}
