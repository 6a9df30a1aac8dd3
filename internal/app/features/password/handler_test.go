package password_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	uierrors "github.com/skarland/obstaclehub/internal/app/features/errors"
	"github.com/skarland/obstaclehub/internal/app/features/password"
	"github.com/skarland/obstaclehub/internal/app/system/auth"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"github.com/skarland/obstaclehub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, ident *testutil.MemIdentity) *password.Handler {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		logger,
	)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return password.NewHandler(ident, sm, uierrors.NewResponder(logger), logger)
}

func signedInRequest(body string, account models.UserAccount) *http.Request {
	req := httptest.NewRequest("POST", "/password", strings.NewReader(body))
	return auth.WithTestUser(req, &auth.SessionUser{
		ID:                 account.ID.Hex(),
		Name:               account.FullName,
		Email:              account.Email,
		Organization:       account.Organization,
		Roles:              account.Roles,
		MustChangePassword: account.MustChangePassword,
	})
}

func TestHandleChange_Success(t *testing.T) {
	ident := testutil.NewMemIdentity(models.AllRoles...)
	acct := testutil.SeedAccount(t, ident, "alice@example.com", "Alice Ng", "Nordic Aviation", models.RolePilot)
	h := newTestHandler(t, ident)

	req := signedInRequest(`{"current_password":"password1!","new_password":"brand-new-secret"}`, acct)
	rec := httptest.NewRecorder()
	h.HandleChange(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusNoContent, rec.Body.String())
	}

	// The new password verifies, the old one does not.
	if _, err := ident.VerifyCredentials(context.Background(), "alice@example.com", "brand-new-secret"); err != nil {
		t.Errorf("new password should verify: %v", err)
	}
	if _, err := ident.VerifyCredentials(context.Background(), "alice@example.com", "password1!"); err == nil {
		t.Error("old password should no longer verify")
	}
}

func TestHandleChange_WrongCurrentPassword(t *testing.T) {
	ident := testutil.NewMemIdentity(models.AllRoles...)
	acct := testutil.SeedAccount(t, ident, "alice@example.com", "Alice Ng", "Nordic Aviation", models.RolePilot)
	h := newTestHandler(t, ident)

	req := signedInRequest(`{"current_password":"wrong","new_password":"brand-new-secret"}`, acct)
	rec := httptest.NewRecorder()
	h.HandleChange(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHandleChange_TooShort(t *testing.T) {
	ident := testutil.NewMemIdentity(models.AllRoles...)
	acct := testutil.SeedAccount(t, ident, "alice@example.com", "Alice Ng", "Nordic Aviation", models.RolePilot)
	h := newTestHandler(t, ident)

	req := signedInRequest(`{"current_password":"password1!","new_password":"short"}`, acct)
	rec := httptest.NewRecorder()
	h.HandleChange(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleChange_NotSignedIn(t *testing.T) {
	ident := testutil.NewMemIdentity(models.AllRoles...)
	h := newTestHandler(t, ident)

	req := httptest.NewRequest("POST", "/password", strings.NewReader(`{"current_password":"a","new_password":"brand-new-secret"}`))
	rec := httptest.NewRecorder()
	h.HandleChange(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHandleChange_ClearsMustChangeFlag(t *testing.T) {
	ident := testutil.NewMemIdentity(models.AllRoles...)
	acct := testutil.SeedAccount(t, ident, "temp@example.com", "Temp User", "Org", models.RolePilot)
	h := newTestHandler(t, ident)

	req := signedInRequest(`{"current_password":"password1!","new_password":"brand-new-secret"}`, acct)
	rec := httptest.NewRecorder()
	h.HandleChange(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	u, err := ident.FindByID(context.Background(), acct.ID.Hex())
	if err != nil {
		t.Fatalf("find account: %v", err)
	}
	if u.MustChangePassword {
		t.Error("expected must_change_password to be cleared")
	}
}
