package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/store"
)

func follow(t *testing.T, s *Store, follower, followed string, at time.Time) {
	t.Helper()
	err := s.CreateFollow(context.Background(), &domain.Follow{FollowerID: follower, FollowedID: followed, CreatedAt: at})
	if err != nil {
		t.Fatalf("CreateFollow(%s -> %s): %v", follower, followed, err)
	}
}

func TestFollows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createTestUser(t, s, "user-1", "ana")
	createTestUser(t, s, "user-2", "ben")
	createTestUser(t, s, "user-3", "cy")

	now := time.Now()
	follow(t, s, "user-1", "user-3", now)
	follow(t, s, "user-1", "user-2", now.Add(time.Second))
	follow(t, s, "user-2", "user-3", now)

	followed, err := s.ListFollowedIDs(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListFollowedIDs: %v", err)
	}
	if len(followed) != 2 || followed[0] != "user-3" || followed[1] != "user-2" {
		t.Errorf("ListFollowedIDs: got %v", followed)
	}

	followers, err := s.ListFollowerIDs(ctx, "user-3")
	if err != nil {
		t.Fatalf("ListFollowerIDs: %v", err)
	}
	if len(followers) != 2 {
		t.Errorf("ListFollowerIDs: got %v", followers)
	}

	ok, err := s.IsFollowing(ctx, "user-2", "user-1")
	if err != nil || ok {
		t.Errorf("IsFollowing(user-2, user-1): %v, %v", ok, err)
	}

	dup := &domain.Follow{FollowerID: "user-1", FollowedID: "user-2", CreatedAt: now}
	if err := s.CreateFollow(ctx, dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate follow: expected ErrAlreadyExists, got %v", err)
	}

	self := &domain.Follow{FollowerID: "user-1", FollowedID: "user-1", CreatedAt: now}
	if err := s.CreateFollow(ctx, self); !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("self follow: expected ErrInvalidInput, got %v", err)
	}

	if err := s.DeleteFollow(ctx, "user-1", "user-2"); err != nil {
		t.Fatalf("DeleteFollow: %v", err)
	}
	if err := s.DeleteFollow(ctx, "user-1", "user-2"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second DeleteFollow: expected ErrNotFound, got %v", err)
	}

	empty, err := s.ListFollowedIDs(ctx, "user-3")
	if err != nil {
		t.Fatalf("ListFollowedIDs: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", empty)
	}
}

func TestProfiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	createTestUser(t, s, "user-1", "zed")
	createTestUser(t, s, "user-2", "Amy")
	createTestUser(t, s, "user-3", "bo")

	got, err := s.ListUserProfiles(ctx, []string{"user-1", "user-2", "user-3", "user-404"})
	if err != nil {
		t.Fatalf("ListUserProfiles: %v", err)
	}
	want := []string{"Amy", "bo", "zed"}
	if len(got) != len(want) {
		t.Fatalf("got %d profiles, want %d", len(got), len(want))
	}
	for i, p := range got {
		if p.Username != want[i] {
			t.Errorf("profile %d: got %q, want %q", i, p.Username, want[i])
		}
	}

	p, err := s.GetUserProfileByUsername(ctx, "AMY")
	if err != nil {
		t.Fatalf("GetUserProfileByUsername: %v", err)
	}
	p.DisplayName = "Amy W."
	p.Tagline = "reading everything"
	p.UpdatedAt = time.Now()
	if err := s.UpdateUserProfile(ctx, p); err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}

	again, err := s.GetUserProfile(ctx, "user-2")
	if err != nil {
		t.Fatalf("GetUserProfile: %v", err)
	}
	if again.DisplayName != "Amy W." || again.Tagline != "reading everything" {
		t.Errorf("after update: %+v", again)
	}

	if _, err := s.GetUserProfile(ctx, "user-404"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
