package testutil

import (
	"net/http"
	"net/http/httptest"

	"github.com/skarland/obstaclehub/internal/app/system/auth"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID           string
	Name         string
	Email        string
	Organization string
	Roles        []string
}

// PilotUser returns a TestUser with the pilot role.
func PilotUser(org string) TestUser {
	return TestUser{
		ID:           primitive.NewObjectID().Hex(),
		Name:         "Test Pilot",
		Email:        "pilot@test.com",
		Organization: org,
		Roles:        []string{models.RolePilot},
	}
}

// RegistryAdminUser returns a TestUser with the registry administrator role.
func RegistryAdminUser() TestUser {
	return TestUser{
		ID:           primitive.NewObjectID().Hex(),
		Name:         "Test Registry Admin",
		Email:        "registry@test.com",
		Organization: "Registry",
		Roles:        []string{models.RoleRegistryAdmin},
	}
}

// SystemAdminUser returns a TestUser with both administrator roles.
func SystemAdminUser() TestUser {
	return TestUser{
		ID:           primitive.NewObjectID().Hex(),
		Name:         "Test System Admin",
		Email:        "sysadmin@test.com",
		Organization: "Registry",
		Roles:        []string{models.RoleSystemAdmin, models.RoleRegistryAdmin},
	}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Organization: user.Organization,
		Roles:        user.Roles,
	}
	return auth.WithTestUser(r, sessionUser)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, user)
}
