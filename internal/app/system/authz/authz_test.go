package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/skarland/obstaclehub/internal/app/system/auth"
	"github.com/skarland/obstaclehub/internal/app/system/authz"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// testUserID returns a valid ObjectID hex string for tests.
func testUserID() string {
	return primitive.NewObjectID().Hex()
}

func TestIsSystemAdmin_True(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:    testUserID(),
		Roles: []string{models.RoleSystemAdmin, models.RoleRegistryAdmin},
	})

	if !authz.IsSystemAdmin(req) {
		t.Error("expected IsSystemAdmin to return true for system administrator")
	}
}

func TestIsSystemAdmin_False_RegistryAdmin(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:    testUserID(),
		Roles: []string{models.RoleRegistryAdmin},
	})

	if authz.IsSystemAdmin(req) {
		t.Error("expected IsSystemAdmin to return false for registry administrator")
	}
}

func TestIsSystemAdmin_False_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)

	if authz.IsSystemAdmin(req) {
		t.Error("expected IsSystemAdmin to return false when no user")
	}
}

func TestIsRegistryAdmin_NotImpliedBySystemAdminAlone(t *testing.T) {
	// A system administrator without the registry role does not review
	// reports. Provisioning always grants both, but the check itself
	// stays literal.
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:    testUserID(),
		Roles: []string{models.RoleSystemAdmin},
	})

	if authz.IsRegistryAdmin(req) {
		t.Error("expected IsRegistryAdmin to return false without the registry role")
	}
}

func TestIsPilot(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:    testUserID(),
		Roles: []string{models.RolePilot},
	})

	if !authz.IsPilot(req) {
		t.Error("expected IsPilot to return true for pilot")
	}
	if authz.IsRegistryAdmin(req) {
		t.Error("expected IsRegistryAdmin to return false for pilot")
	}
}

func TestActor_ValidUser(t *testing.T) {
	id := testUserID()
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:           id,
		Name:         "Alice Ng",
		Organization: "Nordic Aviation",
		Roles:        []string{models.RolePilot},
	})

	actor, ok := authz.Actor(req)
	if !ok {
		t.Fatal("expected ok=true for valid user")
	}
	if actor.ID != id {
		t.Errorf("actor.ID = %q, want %q", actor.ID, id)
	}
	if actor.Organization != "Nordic Aviation" {
		t.Errorf("actor.Organization = %q, want Nordic Aviation", actor.Organization)
	}
	if !actor.HasRole(models.RolePilot) {
		t.Errorf("actor roles = %v, want pilot", actor.Roles)
	}
}

func TestActor_MalformedID_FailsClosed(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:    "not-an-object-id",
		Roles: []string{models.RolePilot},
	})

	if _, ok := authz.Actor(req); ok {
		t.Error("expected ok=false for malformed user ID")
	}
}

func TestActor_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)

	if _, ok := authz.Actor(req); ok {
		t.Error("expected ok=false when no user in context")
	}
}

func TestUserID_Malformed(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "bogus"})

	if got := authz.UserID(req); got != primitive.NilObjectID {
		t.Errorf("expected NilObjectID for malformed ID, got %v", got)
	}
}

func TestUserOrganization(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:           testUserID(),
		Organization: "Baltic Survey",
	})

	if got := authz.UserOrganization(req); got != "Baltic Survey" {
		t.Errorf("UserOrganization = %q, want Baltic Survey", got)
	}
}
