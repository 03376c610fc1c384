package utils

import "regexp"

var unsafeIdentifierChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeIdentifier replaces every character outside [A-Za-z0-9_-] with an
// underscore so the result can be embedded in a file name. Path separators
// and dots never survive.
func SanitizeIdentifier(s string) string {
	return unsafeIdentifierChars.ReplaceAllString(s, "_")
}
