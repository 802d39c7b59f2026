package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readlog/readlog-server/internal/color"
	domainerrors "github.com/readlog/readlog-server/internal/errors"
)

func TestProfileService_GetProfile(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "user-1", "ana")
	ctx := context.Background()

	p, err := env.profiles.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "ana", p.Username)

	// Callers get copies, never the cached value.
	p.DisplayName = "mutated"
	again, err := env.profiles.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "ana", again.DisplayName)

	byName, err := env.profiles.GetProfileByUsername(ctx, " ANA ")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byName.UserID)

	_, err = env.profiles.GetProfile(ctx, "user-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = env.profiles.GetProfileByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestProfileService_UpdateProfile(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "user-1", "ana")
	ctx := context.Background()

	// Warm the cache so the update has to refresh it.
	_, err := env.profiles.GetProfile(ctx, "user-1")
	require.NoError(t, err)

	updated, err := env.profiles.UpdateProfile(ctx, "user-1", UpdateProfileRequest{
		DisplayName: strPtr(" Ana P. "),
		Tagline:     strPtr("Reads on trains"),
		AccentColor: strPtr("aabbcc"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana P.", updated.DisplayName)
	assert.Equal(t, "#AABBCC", updated.AccentColor)

	cached, err := env.profiles.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Reads on trains", cached.Tagline)

	stored, err := env.store.GetUserProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana P.", stored.DisplayName)

	reset, err := env.profiles.UpdateProfile(ctx, "user-1", UpdateProfileRequest{AccentColor: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, color.ForUser("user-1"), reset.AccentColor)
}

func TestProfileService_UpdateProfileValidation(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "user-1", "ana")
	ctx := context.Background()

	tests := []struct {
		name string
		req  UpdateProfileRequest
	}{
		{"long tagline", UpdateProfileRequest{Tagline: strPtr(strings.Repeat("a", MaxTaglineLength+1))}},
		{"bad color", UpdateProfileRequest{AccentColor: strPtr("blue")}},
		{"bad avatar url", UpdateProfileRequest{AvatarURL: strPtr("not a url")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.profiles.UpdateProfile(ctx, "user-1", tt.req)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestProfileService_ListProfilesOrderedByUsername(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "user-1", "zoe")
	env.createUser(t, "user-2", "Bea")
	env.createUser(t, "user-3", "mia")
	ctx := context.Background()

	profiles, err := env.profiles.ListProfiles(ctx, []string{"user-1", "user-2", "user-3", "user-missing"})
	require.NoError(t, err)

	var names []string
	for _, p := range profiles {
		names = append(names, p.Username)
	}
	assert.Equal(t, []string{"Bea", "mia", "zoe"}, names)

	empty, err := env.profiles.ListProfiles(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
