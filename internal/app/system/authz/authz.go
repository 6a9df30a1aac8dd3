// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/skarland/obstaclehub/internal/app/system/auth"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor converts the session user into a domain actor for the policy
// and lifecycle layers. If no user is present in context or the user ID
// is malformed, it returns a zero Actor and false. This ensures callers
// can trust that ok=true means a valid, authenticated user with a valid
// ObjectID.
func Actor(r *http.Request) (models.Actor, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return models.Actor{}, false
	}
	if _, err := primitive.ObjectIDFromHex(user.ID); err != nil {
		// Malformed user ID in session - fail closed for security.
		// This should not happen in normal operation; indicates session corruption.
		return models.Actor{}, false
	}
	return models.Actor{
		ID:           user.ID,
		Name:         user.Name,
		Organization: user.Organization,
		Roles:        user.Roles,
	}, true
}

// IsSystemAdmin reports whether the current request's user is a system
// administrator.
func IsSystemAdmin(r *http.Request) bool {
	user, ok := auth.CurrentUser(r)
	return ok && user.HasRole(models.RoleSystemAdmin)
}

// IsRegistryAdmin reports whether the current request's user is a
// registry administrator. System administrators also carry the registry
// role when provisioned, so no implicit widening happens here.
func IsRegistryAdmin(r *http.Request) bool {
	user, ok := auth.CurrentUser(r)
	return ok && user.HasRole(models.RoleRegistryAdmin)
}

// IsPilot reports whether the current request's user is a pilot.
func IsPilot(r *http.Request) bool {
	user, ok := auth.CurrentUser(r)
	return ok && user.HasRole(models.RolePilot)
}

// UserID returns the current user's account ID as an ObjectID.
// Returns NilObjectID if the user is not logged in.
func UserID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID
	}
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

// UserOrganization returns the current user's organization name, or ""
// if the user is not logged in.
func UserOrganization(r *http.Request) string {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return ""
	}
	return user.Organization
}
