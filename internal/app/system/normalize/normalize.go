// Package normalize provides canonical forms for user-supplied strings
// before they reach validation or storage.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name. Case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Organization trims an organization affiliation. Organizations are
// free-text strings compared exactly, so case is preserved.
func Organization(s string) string {
	return strings.TrimSpace(s)
}

// Role trims a role name. Role names are stored in their canonical
// mixed-case form ("Registry Administrator"), so case is preserved.
func Role(s string) string {
	return strings.TrimSpace(s)
}

// QueryParam trims a free-text query parameter.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
