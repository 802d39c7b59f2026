package domain

import "time"

// DateLayout is the storage layout for calendar dates (started, finished).
const DateLayout = "2006-01-02"

// Book is an entry in a user's active collection: started, being read,
// finished, abandoned or queued without a TBR note.
type Book struct {
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	TotalPages    *int       `json:"total_pages,omitempty"`
	PublishedYear *int       `json:"published_year,omitempty"`
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	CoverURL      string     `json:"cover_url,omitempty"`
	Status        Status     `json:"status"`
	DNFKind       DNFKind    `json:"dnf_kind,omitempty"`
	CurrentPage   int        `json:"current_page"`
}

// IsFinished reports whether the book has a finish date.
func (b *Book) IsFinished() bool {
	return b.FinishedAt != nil
}

// Complete marks the book read on day. Progress jumps to the last page
// when the page count is known, and an existing finish date is kept.
func (b *Book) Complete(day time.Time) {
	b.Status = StatusCompleted
	b.DNFKind = ""
	if b.TotalPages != nil {
		b.CurrentPage = *b.TotalPages
	}
	if b.FinishedAt == nil {
		d := DateOf(day)
		b.FinishedAt = &d
	}
}

// Start marks the book in progress, stamping the start date if it has none.
func (b *Book) Start(day time.Time) {
	b.Status = StatusInProgress
	b.DNFKind = ""
	if b.StartedAt == nil {
		d := DateOf(day)
		b.StartedAt = &d
	}
}

// DNFLabel is the note used for abandoned books in exports, e.g. "DNF: soft".
// Empty for any other status.
func (b *Book) DNFLabel() string {
	if b.Status != StatusDNF || b.DNFKind == "" {
		return ""
	}
	return "DNF: " + string(b.DNFKind)
}

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
