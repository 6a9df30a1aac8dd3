// Package htmlsanitize strips dangerous markup from user-supplied
// free-text fields (obstacle descriptions, reviewer comments) before
// they are stored.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var ugc = bluemonday.UGCPolicy()

// Sanitize removes scripts, event handlers and javascript: URLs while
// keeping basic formatting markup.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc.Sanitize(s)
}
