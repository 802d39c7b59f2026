package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/readlog/readlog-server/internal/auth"
	"github.com/readlog/readlog-server/internal/logger"
	"github.com/readlog/readlog-server/internal/search"
	"github.com/readlog/readlog-server/internal/service"
	"github.com/readlog/readlog-server/internal/store/sqlite"
	"github.com/readlog/readlog-server/internal/validation"
)

// testEnvelope is the success envelope with typed data.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// testErrorEnvelope is the coded error envelope.
type testErrorEnvelope struct {
	Version int            `json:"v"`
	Success bool           `json:"success"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api    humatest.TestAPI
	store  *sqlite.Store
	tokens *auth.TokenService
}

// testServerOptions tweaks setupTestServer.
type testServerOptions struct {
	Options
	WithoutSearch bool
}

// setupTestServer creates a server over a temp-dir SQLite store and Bleve
// index with every service wired.
func setupTestServer(t *testing.T, opts ...testServerOptions) *testServer {
	t.Helper()

	var o testServerOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	tmpDir := t.TempDir()
	log := logger.Discard()

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	keyHex, err := auth.LoadOrGenerateKey(filepath.Join(tmpDir, "auth.key"))
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(keyHex, 15*time.Minute)
	require.NoError(t, err)

	var searchService *service.SearchService
	var indexer service.LibraryIndexer
	if !o.WithoutSearch {
		index, err := search.NewSearchIndex(search.Options{DataPath: filepath.Join(tmpDir, "search"), Logger: log})
		require.NoError(t, err)
		t.Cleanup(func() { _ = index.Close() })
		searchService = service.NewSearchService(index, st, log)
		indexer = searchService
	}

	v := validation.New()
	books := service.NewBookService(st, indexer, v, log)
	tbr := service.NewTBRService(st, indexer, v, log)
	profiles, err := service.NewProfileService(st, v, log, 16)
	require.NoError(t, err)
	followed, err := service.NewFollowedBooksSearches(service.NewFollowedBooksService(st, log), 16)
	require.NoError(t, err)

	services := &Services{
		Auth:          service.NewAuthService(st, tokens, v, log),
		Book:          books,
		TBR:           tbr,
		Review:        service.NewReviewService(st, books, v, log),
		Profile:       profiles,
		Social:        service.NewSocialService(st, profiles, log),
		FollowedBooks: followed,
		Interchange:   service.NewInterchangeService(st, books, tbr, indexer, log),
		Search:        searchService,
	}

	server := NewServer(st, services, o.Options, log)
	t.Cleanup(server.Close)

	return &testServer{
		Server: server,
		api:    humatest.Wrap(t, server.API()),
		store:  st,
		tokens: tokens,
	}
}

// register creates an account through the API and returns its bearer
// header and user ID.
func (ts *testServer) register(t *testing.T, username string) (authHeader, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    username + "@example.com",
		"username": username,
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	env := decode[service.AuthResponse](t, resp.Body.Bytes())
	return "Authorization: Bearer " + env.Data.AccessToken, env.Data.User.ID
}

// decode parses a success envelope.
func decode[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &env), "body: %s", body)
	return env
}

// decodeError parses a coded error envelope.
func decodeError(t *testing.T, body []byte) testErrorEnvelope {
	t.Helper()
	var env testErrorEnvelope
	require.NoError(t, json.Unmarshal(body, &env), "body: %s", body)
	return env
}
