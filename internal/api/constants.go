package api

// API limits and constants.
const (
	// DefaultMaxImportSize bounds CSV uploads when no limit is configured (10 MB).
	DefaultMaxImportSize = 10 << 20

	// ImportFormField is the multipart field carrying the CSV file.
	ImportFormField = "file"
)

// Cache-Control header values.
const (
	CacheNoStore = "no-store"
)
