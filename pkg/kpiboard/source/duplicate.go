package source

import "strings"

func containsMarker(msg string) bool {
	return strings.Contains(msg, DuplicateEntryMarker)
}

// UnwrapDuplicate strips the duplicate-entry marker from msg and trims the
// result. Messages without the marker are returned unchanged.
func UnwrapDuplicate(msg string) string {
	if !containsMarker(msg) {
		return msg
	}
	return strings.TrimSpace(strings.Replace(msg, DuplicateEntryMarker, "", 1))
}
