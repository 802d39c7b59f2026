package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/readlog/readlog-server/internal/auth"
	"github.com/readlog/readlog-server/internal/domain"
	"github.com/readlog/readlog-server/internal/logger"
	"github.com/readlog/readlog-server/internal/store/sqlite"
	"github.com/readlog/readlog-server/internal/validation"
)

// testNow is the fixed clock every service in a testEnv runs on.
var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

// testEnv wires the services over a temp-dir SQLite store.
type testEnv struct {
	store       *sqlite.Store
	books       *BookService
	tbr         *TBRService
	reviews     *ReviewService
	profiles    *ProfileService
	social      *SocialService
	auth        *AuthService
	interchange *InterchangeService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.Discard()
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	v := validation.New()
	clock := func() time.Time { return testNow }

	books := NewBookService(st, nil, v, log)
	books.now = clock
	tbr := NewTBRService(st, nil, v, log)
	tbr.now = clock
	reviews := NewReviewService(st, books, v, log)
	reviews.now = clock
	profiles, err := NewProfileService(st, v, log, 16)
	require.NoError(t, err)
	profiles.now = clock
	social := NewSocialService(st, profiles, log)
	social.now = clock

	keyHex, err := auth.LoadOrGenerateKey(filepath.Join(t.TempDir(), "auth.key"))
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(keyHex, time.Hour)
	require.NoError(t, err)
	authSvc := NewAuthService(st, tokens, v, log)

	return &testEnv{
		store:       st,
		books:       books,
		tbr:         tbr,
		reviews:     reviews,
		profiles:    profiles,
		social:      social,
		auth:        authSvc,
		interchange: NewInterchangeService(st, books, tbr, nil, log),
	}
}

// createUser inserts an account with its default profile.
func (e *testEnv) createUser(t *testing.T, id, username string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.store.CreateUser(ctx, &domain.User{
		ID:           id,
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "x",
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}))
	require.NoError(t, e.store.CreateUserProfile(ctx, domain.NewUserProfile(id, username, "#336699", testNow)))
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }
