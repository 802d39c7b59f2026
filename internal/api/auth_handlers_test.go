package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readlog/readlog-server/internal/service"
)

func TestRegister_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "mia@example.com",
		"username": "Mia",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decode[service.AuthResponse](t, resp.Body.Bytes())
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Data.AccessToken)
	assert.Equal(t, "mia", env.Data.User.Username)
	assert.Equal(t, "mia@example.com", env.Data.User.Email)
	require.NotNil(t, env.Data.Profile)
	assert.Equal(t, "mia", env.Data.Profile.Username)
	assert.Regexp(t, `^#[0-9A-F]{6}$`, env.Data.Profile.AccentColor)
	assert.NotContains(t, resp.Body.String(), "password")
}

func TestRegister_Duplicate(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "mia")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    "other@example.com",
		"username": "MIA",
		"password": "correct-horse-battery",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "ALREADY_EXISTS", decodeError(t, resp.Body.Bytes()).Code)
}

func TestRegister_ValidationErrors(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{
			name:       "missing email",
			body:       map[string]any{"username": "mia", "password": "correct-horse-battery"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "bad email",
			body:       map[string]any{"email": "nope", "username": "mia", "password": "correct-horse-battery"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short password",
			body:       map[string]any{"email": "mia@example.com", "username": "mia", "password": "short"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad username",
			body:       map[string]any{"email": "mia@example.com", "username": "m i a", "password": "correct-horse-battery"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/auth/register", tt.body)
			assert.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			assert.Equal(t, "VALIDATION", decodeError(t, resp.Body.Bytes()).Code)
		})
	}
}

func TestLogin_ByEmailAndUsername(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "mia")

	for _, login := range []string{"mia", "MIA@example.com"} {
		t.Run(login, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/auth/login", map[string]any{
				"login":    login,
				"password": "correct-horse-battery",
			})
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			env := decode[service.AuthResponse](t, resp.Body.Bytes())
			assert.Equal(t, "mia", env.Data.User.Username)
			assert.NotEmpty(t, env.Data.AccessToken)
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "mia")

	for _, body := range []map[string]any{
		{"login": "mia", "password": "wrong-password"},
		{"login": "nobody", "password": "correct-horse-battery"},
	} {
		resp := ts.api.Post("/api/v1/auth/login", body)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, resp.Body.Bytes()).Code)
	}
}

func TestLogin_RateLimited(t *testing.T) {
	ts := setupTestServer(t, testServerOptions{Options: Options{AuthRateLimitPerMinute: 2}})

	body := map[string]any{"login": "nobody", "password": "whatever-password"}
	assert.Equal(t, http.StatusUnauthorized, ts.api.Post("/api/v1/auth/login", body).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.api.Post("/api/v1/auth/login", body).Code)

	resp := ts.api.Post("/api/v1/auth/login", body)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, resp.Body.Bytes()).Code)

	// Another client is unaffected.
	resp = ts.api.Post("/api/v1/auth/login", "X-Forwarded-For: 203.0.113.9", body)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCurrentUser(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, userID := ts.register(t, "mia")

	resp := ts.api.Get("/api/v1/auth/me", authHeader)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decode[service.AuthResponse](t, resp.Body.Bytes())
	assert.Equal(t, userID, env.Data.User.ID)
	assert.Empty(t, env.Data.AccessToken)
	require.NotNil(t, env.Data.Profile)
}

func TestCurrentUser_Unauthenticated(t *testing.T) {
	ts := setupTestServer(t)

	for _, args := range [][]any{
		nil,
		{"Authorization: Bearer not-a-token"},
		{"Authorization: Basic Zm9vOmJhcg=="},
	} {
		resp := ts.api.Get("/api/v1/auth/me", args...)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp.Body.Bytes()).Code)
	}
}
