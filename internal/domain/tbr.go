package domain

import "time"

// TBREntry is a book in a user's to-be-read queue. Being in the queue
// means it has not been started, so it has no status.
type TBREntry struct {
	CreatedAt     time.Time `json:"created_at"`
	TotalPages    *int      `json:"total_pages,omitempty"`
	PublishedYear *int      `json:"published_year,omitempty"`
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	CoverURL      string    `json:"cover_url,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

// ToBook builds the active-collection book that replaces this entry when
// the user starts reading it. The caller assigns the ID.
func (e *TBREntry) ToBook(now time.Time) *Book {
	b := &Book{
		OwnerID:       e.OwnerID,
		Title:         e.Title,
		Author:        e.Author,
		TotalPages:    e.TotalPages,
		PublishedYear: e.PublishedYear,
		CoverURL:      e.CoverURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	b.Start(now)
	return b
}
