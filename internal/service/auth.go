package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/readlog/readlog-server/internal/auth"
	"github.com/readlog/readlog-server/internal/color"
	"github.com/readlog/readlog-server/internal/domain"
	domainerrors "github.com/readlog/readlog-server/internal/errors"
	"github.com/readlog/readlog-server/internal/id"
	"github.com/readlog/readlog-server/internal/store"
	"github.com/readlog/readlog-server/internal/validation"
)

// AuthService handles registration, login and token verification.
type AuthService struct {
	store     store.Store
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokens *auth.TokenService,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:     store,
		tokens:    tokens,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterRequest contains the data for a new account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// LoginRequest contains user credentials. Login is an email or a username.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse contains the access token and the signed-in user.
type AuthResponse struct {
	User        *domain.User        `json:"user"`
	Profile     *domain.UserProfile `json:"profile,omitempty"`
	AccessToken string              `json:"access_token"`
	ExpiresAt   time.Time           `json:"expires_at"`
}

// Register creates an account and its default profile, then signs it in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           userID,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoginAt:  &now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email or username already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	profile := domain.NewUserProfile(userID, req.Username, color.ForUser(userID), now)
	if err := s.store.CreateUserProfile(ctx, profile); err != nil {
		// The account works without a profile; followers just can't find it yet.
		s.logger.Error("failed to create profile", "user_id", userID, "error", err)
		profile = nil
	}

	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	resp.Profile = profile

	s.logger.Info("user registered", "user_id", userID, "username", user.Username)
	return resp, nil
}

// Login checks credentials and issues a fresh access token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Login = strings.TrimSpace(req.Login)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(req.Login, "@") {
		user, err = s.store.GetUserByEmail(ctx, req.Login)
	} else {
		user, err = s.store.GetUserByUsername(ctx, req.Login)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Don't leak whether the account exists.
			return nil, domainerrors.InvalidCredentials("invalid login or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid login or password")
	}

	now := s.now()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Warn("failed to update last login time", "user_id", user.ID, "error", err)
	}

	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	if profile, err := s.store.GetUserProfile(ctx, user.ID); err == nil {
		resp.Profile = profile
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return resp, nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresAt:   s.now().Add(s.tokens.AccessTokenDuration()),
	}, nil
}

// VerifyAccessToken validates a token and returns the associated user.
// Used by authentication middleware.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid or expired token")
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Unauthorized("user no longer exists")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	return user, claims, nil
}

// CurrentUser returns userID's account and profile.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*AuthResponse, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	resp := &AuthResponse{User: user}
	if profile, err := s.store.GetUserProfile(ctx, userID); err == nil {
		resp.Profile = profile
	}
	return resp, nil
}
