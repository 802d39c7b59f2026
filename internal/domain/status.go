package domain

import "strings"

// Status is a reading status. Stored books carry one of the canonical
// values; StatusTBR only appears in display results for to-be-read entries.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDNF        Status = "dnf"
	StatusToRead     Status = "to_read"
	StatusTBR        Status = "tbr"

	// statusFinished is a legacy spelling of StatusCompleted still found in older rows.
	statusFinished Status = "finished"
)

// Shelf is the three-way classification used by Goodreads.
type Shelf string

const (
	ShelfRead             Shelf = "read"
	ShelfCurrentlyReading Shelf = "currently-reading"
	ShelfToRead           Shelf = "to-read"
)

// NormalizeStatus maps a raw stored status onto the canonical vocabulary.
// "finished" becomes completed, empty becomes in_progress, anything else
// passes through untouched.
func NormalizeStatus(raw string) Status {
	s := Status(strings.TrimSpace(raw))
	switch s {
	case "":
		return StatusInProgress
	case statusFinished:
		return StatusCompleted
	default:
		return s
	}
}

// ShelfForStatus returns the Goodreads shelf for a status. It is total:
// unknown and empty statuses land on to-read.
func ShelfForStatus(s Status) Shelf {
	switch s {
	case StatusCompleted, statusFinished:
		return ShelfRead
	case StatusInProgress:
		return ShelfCurrentlyReading
	default:
		return ShelfToRead
	}
}

// StatusForShelf is the inverse used on import. Anything that is neither
// read nor currently-reading is an unstarted book.
func StatusForShelf(sh Shelf) Status {
	switch sh {
	case ShelfRead:
		return StatusCompleted
	case ShelfCurrentlyReading:
		return StatusInProgress
	default:
		return StatusToRead
	}
}

// IsStored reports whether s may be written to a book record.
func (s Status) IsStored() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusDNF, StatusToRead:
		return true
	}
	return false
}

// DNFKind classifies an abandoned book.
type DNFKind string

const (
	// DNFSoft means the reader may come back to it.
	DNFSoft DNFKind = "soft"
	// DNFHard means the book was dropped for good.
	DNFHard DNFKind = "hard"
)

// Valid reports whether k is a known kind.
func (k DNFKind) Valid() bool {
	return k == DNFSoft || k == DNFHard
}
