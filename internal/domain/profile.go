package domain

import "time"

// UserProfile is the public face of an account.
// Stored separately from User to keep auth concerns apart from social features.
type UserProfile struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Tagline     string    `json:"tagline,omitempty"` // Max 60 characters
	AccentColor string    `json:"accent_color"`      // #RRGGBB
}

// NewUserProfile creates the default profile for a fresh account.
func NewUserProfile(userID, username, accentColor string, now time.Time) *UserProfile {
	return &UserProfile{
		UserID:      userID,
		Username:    username,
		DisplayName: username,
		AccentColor: accentColor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Name returns the display name, falling back to the username.
func (p *UserProfile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}
