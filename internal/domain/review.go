package domain

import "time"

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating and write-up of one of their books.
type Review struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Rating    *int      `json:"rating,omitempty"`
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	OwnerID   string    `json:"owner_id"`
	Body      string    `json:"body"`
}

// HasContent reports whether the review says anything at all.
func (r *Review) HasContent() bool {
	return r.Rating != nil || r.Body != ""
}

// ValidRating reports whether n is within the star range.
func ValidRating(n int) bool {
	return n >= MinRating && n <= MaxRating
}
