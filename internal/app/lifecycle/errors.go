// internal/app/lifecycle/errors.go
package lifecycle

import (
	"errors"

	"github.com/skarland/obstaclehub/internal/app/system/inputval"
)

// Sentinel errors returned by engine operations. Store implementations
// translate their own not-found conditions (e.g. mongo.ErrNoDocuments)
// to ErrNotFound so callers can branch with errors.Is.
var (
	// ErrNotFound means the report id does not resolve.
	ErrNotFound = errors.New("report not found")

	// ErrForbidden means the actor is authenticated but not allowed to
	// perform this operation on this report.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries every failing field so callers can render the
// messages against the original input form.
type ValidationError = inputval.Error

// AsValidation returns the ValidationError inside err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
