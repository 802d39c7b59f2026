package domain

import "time"

// Follow is a one-way relation: FollowerID follows FollowedID.
type Follow struct {
	CreatedAt  time.Time `json:"created_at"`
	FollowerID string    `json:"follower_id"`
	FollowedID string    `json:"followed_id"`
}

// FollowedBookMatch is one (followed user, book) pair returned by the
// followed-books search.
type FollowedBookMatch struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Status      Status `json:"status"`
	Title       string `json:"title"`
	Author      string `json:"author"`
}
