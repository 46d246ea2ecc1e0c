package utils

import "strings"

// RoutePrefix returns the text of a vehicle id before the first "_". An id
// without a separator is its own prefix.
func RoutePrefix(id string) string {
	prefix, _, _ := strings.Cut(id, "_")
	return prefix
}
