// internal/app/provision/errors.go
package provision

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden means the actor lacks the account-management role.
	ErrForbidden = errors.New("forbidden")

	// ErrUserNotFound means the target account id does not resolve.
	// Identity implementations return it from FindByID/DeleteAccount.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned by identity implementations when an
	// account with the email already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")

	// ErrSelfDelete refuses deleting the calling account.
	ErrSelfDelete = errors.New("you cannot delete your own account")

	// ErrLastAdmin refuses deleting the last System Administrator.
	ErrLastAdmin = errors.New("cannot delete the last System Administrator account")

	// ErrInvalidCredentials is returned when email/password verification
	// fails. The message deliberately does not say which part was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// RoleNotFoundError reports a requested role that does not exist in the
// identity store. The partially created account has been rolled back.
type RoleNotFoundError struct {
	Role string
}

func (e *RoleNotFoundError) Error() string {
	return fmt.Sprintf("role %q does not exist", e.Role)
}

// IsConflict reports whether err is one of the conflicts that leave the
// target untouched (self-delete, last admin, missing role).
func IsConflict(err error) bool {
	var rnf *RoleNotFoundError
	return errors.Is(err, ErrSelfDelete) ||
		errors.Is(err, ErrLastAdmin) ||
		errors.As(err, &rnf)
}
