package api

// nonNil turns a nil slice into an empty one so it encodes as [] rather
// than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
