// Package id generates the identifiers used for stored records.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Record prefixes. An ID reads as "<prefix>-<nanoid>", e.g. "book-V1StGXR8_Z5jdHi6B-myT".
const (
	PrefixUser   = "user"
	PrefixBook   = "book"
	PrefixTBR    = "tbr"
	PrefixReview = "review"
)

// Generate creates a prefixed NanoID (21 URL-safe characters after the hyphen).
// It fails only when the system cannot supply secure randomness.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// RunID returns a random UUID used to correlate the log lines of one
// import or export run. It is never persisted.
func RunID() string {
	return uuid.NewString()
}
