// Package search provides full-text search over a reader's own library
// using Bleve. Books and to-be-read entries share one index and are told
// apart by type; every query is scoped to a single owner.
package search

import (
	"github.com/readlog/readlog-server/internal/domain"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypeBook DocType = "book"
	DocTypeTBR  DocType = "tbr"
)

// SearchDocument is the unified document structure for the Bleve index.
type SearchDocument struct {
	ID      string  `json:"id"`
	Type    DocType `json:"type"`
	OwnerID string  `json:"owner_id"`

	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	Notes  string `json:"notes,omitempty"`

	// Status is the book status, or "tbr" for queue entries.
	Status string `json:"status"`

	PublishYear int `json:"publish_year,omitempty"`

	CreatedAt int64 `json:"created_at"` // Unix millis
	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// This ensures field names match the Bleve index mapping.
func (d *SearchDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"type":       string(d.Type),
		"owner_id":   d.OwnerID,
		"title":      d.Title,
		"status":     d.Status,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.Notes != "" {
		m["notes"] = d.Notes
	}
	if d.PublishYear > 0 {
		m["publish_year"] = d.PublishYear
	}

	return m
}

// BookToSearchDocument converts a domain Book to a SearchDocument.
func BookToSearchDocument(book *domain.Book) *SearchDocument {
	doc := &SearchDocument{
		ID:        book.ID,
		Type:      DocTypeBook,
		OwnerID:   book.OwnerID,
		Title:     book.Title,
		Author:    book.Author,
		Status:    string(domain.NormalizeStatus(string(book.Status))),
		CreatedAt: book.CreatedAt.UnixMilli(),
		UpdatedAt: book.UpdatedAt.UnixMilli(),
	}
	if book.PublishedYear != nil {
		doc.PublishYear = *book.PublishedYear
	}
	return doc
}

// TBRToSearchDocument converts a to-be-read entry to a SearchDocument.
func TBRToSearchDocument(e *domain.TBREntry) *SearchDocument {
	doc := &SearchDocument{
		ID:        e.ID,
		Type:      DocTypeTBR,
		OwnerID:   e.OwnerID,
		Title:     e.Title,
		Author:    e.Author,
		Notes:     e.Notes,
		Status:    string(domain.StatusTBR),
		CreatedAt: e.CreatedAt.UnixMilli(),
		UpdatedAt: e.CreatedAt.UnixMilli(),
	}
	if e.PublishedYear != nil {
		doc.PublishYear = *e.PublishedYear
	}
	return doc
}
