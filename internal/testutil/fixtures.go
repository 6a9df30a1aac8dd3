package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// PilotActor returns an actor with the pilot role.
func PilotActor(name, org string) models.Actor {
	return models.Actor{
		ID:           primitive.NewObjectID().Hex(),
		Name:         name,
		Organization: org,
		Roles:        []string{models.RolePilot},
	}
}

// RegistryAdminActor returns an actor with the registry administrator role.
func RegistryAdminActor(name string) models.Actor {
	return models.Actor{
		ID:           primitive.NewObjectID().Hex(),
		Name:         name,
		Organization: "Registry",
		Roles:        []string{models.RoleRegistryAdmin},
	}
}

// SystemAdminActor returns an actor with both administrator roles, the
// shape provisioning produces for system administrators.
func SystemAdminActor(name string) models.Actor {
	return models.Actor{
		ID:           primitive.NewObjectID().Hex(),
		Name:         name,
		Organization: "Registry",
		Roles:        []string{models.RoleSystemAdmin, models.RoleRegistryAdmin},
	}
}

// SeedReport inserts a report directly into the store, bypassing the
// lifecycle engine, and returns it.
func SeedReport(t *testing.T, store *MemReports, mutate ...func(*models.ObstacleReport)) models.ObstacleReport {
	t.Helper()

	height := 120.0
	lat, lng := 38.95, -92.33
	cat := 1
	now := time.Now().UTC()
	name := "Radio Mast"

	r := models.ObstacleReport{
		Name:                 name,
		NameCI:               text.Fold(name),
		Description:          "Lattice mast north of the airfield.",
		Height:               &height,
		Latitude:             &lat,
		Longitude:            &lng,
		CategoryID:           &cat,
		Status:               models.StatusPending,
		ReporterUserID:       primitive.NewObjectID().Hex(),
		ReporterName:         "Test Pilot",
		ReporterNameCI:       text.Fold("Test Pilot"),
		ReporterOrganization: "Test Org",
		ReportedAt:           now,
		LoggedAt:             now,
	}
	for _, fn := range mutate {
		fn(&r)
	}
	if err := store.Add(context.Background(), &r); err != nil {
		t.Fatalf("failed to seed report: %v", err)
	}
	return r
}

// SeedAccount inserts an account into the identity fake and returns it.
func SeedAccount(t *testing.T, ident *MemIdentity, email, fullName, org string, roles ...string) models.UserAccount {
	t.Helper()

	u, err := ident.CreateAccount(context.Background(), models.UserAccount{
		Email:        email,
		FullName:     fullName,
		Organization: org,
		Roles:        roles,
	}, "password1!")
	if err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}
	return *u
}
