package lifecycle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skarland/obstaclehub/internal/app/lifecycle"
	"github.com/skarland/obstaclehub/internal/app/policy/reportpolicy"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"github.com/skarland/obstaclehub/internal/testutil"
	"go.uber.org/zap"
)

func newTestEngine(store *testutil.MemReports, policy reportpolicy.Config) *lifecycle.Engine {
	return lifecycle.NewEngine(store, testutil.NewMemIdentity(), policy, zap.NewNop())
}

func fullFields() lifecycle.ReportFields {
	height := 85.0
	lat, lng := 38.95, -92.33
	cat := 2
	return lifecycle.ReportFields{
		Name:        "Water Tower",
		Description: "Municipal water tower near the approach path.",
		Height:      &height,
		Latitude:    &lat,
		Longitude:   &lng,
		CategoryID:  &cat,
	}
}

func TestCreate_SubmitStoresPending(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{})
	pilot := testutil.PilotActor("Alice Tan", "SkyWest Survey")

	r, err := eng.Create(context.Background(), pilot, fullFields(), false)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if r.Status != models.StatusPending {
		t.Errorf("expected status Pending, got %q", r.Status)
	}
	if r.ReporterUserID != pilot.ID {
		t.Errorf("expected reporter id %q, got %q", pilot.ID, r.ReporterUserID)
	}
	if r.ReporterOrganization != "SkyWest Survey" {
		t.Errorf("expected reporter organization to be copied, got %q", r.ReporterOrganization)
	}
	if r.ReportedAt.IsZero() || r.LoggedAt.IsZero() {
		t.Error("expected ReportedAt and LoggedAt to be stamped")
	}
}

func TestCreate_DraftSkipsRequiredFields(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{})
	pilot := testutil.PilotActor("Alice Tan", "SkyWest Survey")

	r, err := eng.Create(context.Background(), pilot, lifecycle.ReportFields{Name: "Unfinished"}, true)
	if err != nil {
		t.Fatalf("Create draft failed: %v", err)
	}
	if r.Status != models.StatusDraft {
		t.Errorf("expected status Draft, got %q", r.Status)
	}
}

func TestCreate_SubmitRequiresFields(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{})
	pilot := testutil.PilotActor("Alice Tan", "SkyWest Survey")

	_, err := eng.Create(context.Background(), pilot, lifecycle.ReportFields{Name: "Bare"}, false)
	ve, ok := lifecycle.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	failing := map[string]bool{}
	for _, f := range ve.Fields {
		failing[f.Field] = true
	}
	for _, field := range []string{"Description", "Height", "Latitude", "Longitude", "Category"} {
		if !failing[field] {
			t.Errorf("expected a message for field %q, got %v", field, ve.Fields)
		}
	}
	if store.Count() != 0 {
		t.Errorf("expected nothing stored, got %d reports", store.Count())
	}
}

func TestCreate_DraftStillChecksRanges(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{})
	pilot := testutil.PilotActor("Alice Tan", "SkyWest Survey")

	bad := 2000.0
	_, err := eng.Create(context.Background(), pilot, lifecycle.ReportFields{Height: &bad}, true)
	if _, ok := lifecycle.AsValidation(err); !ok {
		t.Fatalf("expected validation error for out-of-range height, got %v", err)
	}

	lat := 91.0
	_, err = eng.Create(context.Background(), pilot, lifecycle.ReportFields{Latitude: &lat}, true)
	if _, ok := lifecycle.AsValidation(err); !ok {
		t.Fatalf("expected validation error for out-of-range latitude, got %v", err)
	}
}

func TestEdit_OwnerOnly(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{})
	owner := testutil.PilotActor("Alice Tan", "SkyWest Survey")
	other := testutil.PilotActor("Carol Diaz", "SkyWest Survey")

	r, err := eng.Create(context.Background(), owner, fullFields(), false)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := eng.Edit(context.Background(), other, r.ID.Hex(), fullFields(), false); !errors.Is(err, lifecycle.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-owner edit, got %v", err)
	}

	fields := fullFields()
	fields.Name = "Water Tower North"
	updated, err := eng.Edit(context.Background(), owner, r.ID.Hex(), fields, false)
	if err != nil {
		t.Fatalf("owner edit failed: %v", err)
	}
	if updated.Name != "Water Tower North" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}
}

func TestEdit_SubmittingDraftMovesToPending(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{})
	owner := testutil.PilotActor("Alice Tan", "SkyWest Survey")

	draft, err := eng.Create(context.Background(), owner, lifecycle.ReportFields{Name: "Crane"}, true)
	if err != nil {
		t.Fatalf("Create draft failed: %v", err)
	}

	updated, err := eng.Edit(context.Background(), owner, draft.ID.Hex(), fullFields(), false)
	if err != nil {
		t.Fatalf("submit edit failed: %v", err)
	}
	if updated.Status != models.StatusPending {
		t.Errorf("expected Pending after submission, got %q", updated.Status)
	}
}

func TestEdit_RevertToDraft(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{})
	owner := testutil.PilotActor("Alice Tan", "SkyWest Survey")

	r, err := eng.Create(context.Background(), owner, fullFields(), false)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := eng.Edit(context.Background(), owner, r.ID.Hex(), fullFields(), true)
	if err != nil {
		t.Fatalf("draft edit failed: %v", err)
	}
	if updated.Status != models.StatusDraft {
		t.Errorf("expected Draft after draft save, got %q", updated.Status)
	}
}

func TestEdit_KeepsReviewedStatus(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{})
	owner := testutil.PilotActor("Alice Tan", "SkyWest Survey")
	admin := testutil.RegistryAdminActor("Bob Reviewer")

	r, err := eng.Create(context.Background(), owner, fullFields(), false)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := eng.Approve(context.Background(), admin, r.ID.Hex()); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	updated, err := eng.Edit(context.Background(), owner, r.ID.Hex(), fullFields(), false)
	if err != nil {
		t.Fatalf("edit of approved report failed: %v", err)
	}
	if updated.Status != models.StatusApproved {
		t.Errorf("expected owner edit to keep Approved, got %q", updated.Status)
	}
}

func TestEdit_LockAfterReviewPolicy(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{LockAfterReview: true})
	owner := testutil.PilotActor("Alice Tan", "SkyWest Survey")
	admin := testutil.RegistryAdminActor("Bob Reviewer")

	r, err := eng.Create(context.Background(), owner, fullFields(), false)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := eng.Approve(context.Background(), admin, r.ID.Hex()); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	if _, err := eng.Edit(context.Background(), owner, r.ID.Hex(), fullFields(), false); !errors.Is(err, lifecycle.ErrForbidden) {
		t.Errorf("expected ErrForbidden under lock-after-review, got %v", err)
	}
}

func TestEdit_NotFound(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{})
	owner := testutil.PilotActor("Alice Tan", "SkyWest Survey")

	_, err := eng.Edit(context.Background(), owner, "64a000000000000000000000", fullFields(), false)
	if !errors.Is(err, lifecycle.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_OrganizationVisibility(t *testing.T) {
	store := testutil.NewMemReports()
	eng := newTestEngine(store, reportpolicy.Config{})
	owner := testutil.PilotActor("Alice Tan", "SkyWest Survey")
	colleague := testutil.PilotActor("Carol Diaz", "SkyWest Survey")
	outsider := testutil.PilotActor("Dan Moya", "Northfield Air")
	admin := testutil.RegistryAdminActor("Bob Reviewer")

	r, err := eng.Create(context.Background(), owner, fullFields(), false)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := eng.Get(context.Background(), colleague, r.ID.Hex()); err != nil {
		t.Errorf("expected colleague in same organization to view, got %v", err)
	}
	if _, err := eng.Get(context.Background(), outsider, r.ID.Hex()); !errors.Is(err, lifecycle.ErrForbidden) {
		t.Errorf("expected ErrForbidden for other organization, got %v", err)
	}
	if _, err := eng.Get(context.Background(), admin, r.ID.Hex()); err != nil {
		t.Errorf("expected registry administrator to view, got %v", err)
	}
}

func TestWithClock_StampsStableTimes(t *testing.T) {
	store := testutil.NewMemReports()
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	eng := newTestEngine(store, reportpolicy.Config{}).WithClock(func() time.Time { return fixed })
	pilot := testutil.PilotActor("Alice Tan", "SkyWest Survey")

	r, err := eng.Create(context.Background(), pilot, fullFields(), false)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !r.ReportedAt.Equal(fixed) {
		t.Errorf("expected ReportedAt %v, got %v", fixed, r.ReportedAt)
	}
}
