package lifecycle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/skarland/obstaclehub/internal/app/lifecycle"
	"github.com/skarland/obstaclehub/internal/app/policy/reportpolicy"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"github.com/skarland/obstaclehub/internal/testutil"
)

func TestListDashboard_ExcludesDrafts(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{})
	admin := testutil.RegistryAdminActor("Bob Reviewer")

	testutil.SeedReport(t, store)
	testutil.SeedReport(t, store, func(r *models.ObstacleReport) { r.Status = models.StatusDraft })
	testutil.SeedReport(t, store, func(r *models.ObstacleReport) { r.Status = models.StatusApproved })

	rs, err := eng.ListDashboard(context.Background(), admin, lifecycle.Filter{})
	if err != nil {
		t.Fatalf("ListDashboard failed: %v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(rs))
	}
	for _, r := range rs {
		if r.Status == models.StatusDraft {
			t.Errorf("draft leaked into dashboard: %s", r.ID.Hex())
		}
	}
}

func TestListDashboard_RequiresRegistryAdmin(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{})
	pilot := testutil.PilotActor("Alice Tan", "SkyWest Survey")

	if _, err := eng.ListDashboard(context.Background(), pilot, lifecycle.Filter{}); !errors.Is(err, lifecycle.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestListOrganizationReports_ScopedToOrganization(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{})
	pilot := testutil.PilotActor("Alice Tan", "SkyWest Survey")

	testutil.SeedReport(t, store, func(r *models.ObstacleReport) { r.ReporterOrganization = "SkyWest Survey" })
	testutil.SeedReport(t, store, func(r *models.ObstacleReport) { r.ReporterOrganization = "SkyWest Survey" })
	testutil.SeedReport(t, store, func(r *models.ObstacleReport) { r.ReporterOrganization = "Northfield Air" })

	rs, err := eng.ListOrganizationReports(context.Background(), pilot)
	if err != nil {
		t.Fatalf("ListOrganizationReports failed: %v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(rs))
	}
	for _, r := range rs {
		if r.ReporterOrganization != "SkyWest Survey" {
			t.Errorf("report from foreign organization leaked: %q", r.ReporterOrganization)
		}
	}
}

func TestListOrganizationReports_PilotOwnOnlyPolicy(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{PilotSeesOwnOnly: true})
	pilot := testutil.PilotActor("Alice Tan", "SkyWest Survey")

	testutil.SeedReport(t, store, func(r *models.ObstacleReport) {
		r.ReporterUserID = pilot.ID
		r.ReporterOrganization = "SkyWest Survey"
	})
	testutil.SeedReport(t, store, func(r *models.ObstacleReport) { r.ReporterOrganization = "SkyWest Survey" })

	rs, err := eng.ListOrganizationReports(context.Background(), pilot)
	if err != nil {
		t.Fatalf("ListOrganizationReports failed: %v", err)
	}
	if len(rs) != 1 || rs[0].ReporterUserID != pilot.ID {
		t.Fatalf("expected only the pilot's own report, got %d", len(rs))
	}
}

func TestListOrganizationReports_NoOrganization(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{})
	pilot := testutil.PilotActor("Alice Tan", "")

	testutil.SeedReport(t, store)

	rs, err := eng.ListOrganizationReports(context.Background(), pilot)
	if err != nil {
		t.Fatalf("ListOrganizationReports failed: %v", err)
	}
	if len(rs) != 0 {
		t.Errorf("expected no reports without an organization, got %d", len(rs))
	}
}

func TestListApproved_MapFeed(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{})

	testutil.SeedReport(t, store, func(r *models.ObstacleReport) { r.Status = models.StatusApproved })
	testutil.SeedReport(t, store)
	testutil.SeedReport(t, store, func(r *models.ObstacleReport) { r.Status = models.StatusRejected })

	rs, err := eng.ListApproved(context.Background())
	if err != nil {
		t.Fatalf("ListApproved failed: %v", err)
	}
	if len(rs) != 1 || rs[0].Status != models.StatusApproved {
		t.Fatalf("expected exactly the approved report, got %d", len(rs))
	}
}

func TestOrganizations_DistinctSorted(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{})

	testutil.SeedReport(t, store, func(r *models.ObstacleReport) { r.ReporterOrganization = "Northfield Air" })
	testutil.SeedReport(t, store, func(r *models.ObstacleReport) { r.ReporterOrganization = "SkyWest Survey" })
	testutil.SeedReport(t, store, func(r *models.ObstacleReport) { r.ReporterOrganization = "SkyWest Survey" })

	orgs, err := eng.Organizations(context.Background())
	if err != nil {
		t.Fatalf("Organizations failed: %v", err)
	}
	want := []string{"Northfield Air", "SkyWest Survey"}
	if len(orgs) != len(want) {
		t.Fatalf("expected %v, got %v", want, orgs)
	}
	for i := range want {
		if orgs[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, orgs)
		}
	}
}
