package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/skarland/obstaclehub/internal/app/system/auth"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
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
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func TestRequireSignedIn_NoUser_RedirectsToLogin(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("protected content"))
	}))

	req := httptest.NewRequest("GET", "/reports", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/login") {
		t.Errorf("expected redirect to /login, got %q", location)
	}
}

func TestRequireSignedIn_NoUser_API_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/reports", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireSignedIn_NoUser_HTMX_ReturnsHXRedirect(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/reports", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}

	hxRedirect := rec.Header().Get("HX-Redirect")
	if !strings.HasPrefix(hxRedirect, "/login") {
		t.Errorf("expected HX-Redirect to /login, got %q", hxRedirect)
	}
}

func TestRequireRole_NoUser_RedirectsToLogin(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireRole(models.RoleSystemAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/admin/users", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/login") {
		t.Errorf("expected redirect to /login, got %q", location)
	}
}

func TestRequireRole_WrongRole_RedirectsToForbidden(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireRole(models.RoleSystemAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/admin/users", nil)
	req.Header.Set("Accept", "text/html")
	req = withTestUser(req, models.RolePilot)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	location := rec.Header().Get("Location")
	if location != "/forbidden" {
		t.Errorf("expected redirect to /forbidden, got %q", location)
	}
}

func TestRequireRole_WrongRole_API_Returns403(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireRole(models.RoleSystemAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/admin/users", nil)
	req.Header.Set("Accept", "application/json")
	req = withTestUser(req, models.RolePilot)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestRequireRole_CorrectRole_Proceeds(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	handler := sm.RequireRole(models.RoleRegistryAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/review/dashboard", nil)
	req = withTestUser(req, models.RoleRegistryAdmin)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireRole_MultipleAllowedRoles(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireRole(models.RoleRegistryAdmin, models.RoleSystemAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		role     string
		expected int
	}{
		{models.RoleRegistryAdmin, http.StatusOK},
		{models.RoleSystemAdmin, http.StatusOK},
		{models.RolePilot, http.StatusSeeOther}, // redirect to forbidden
	}

	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/review/dashboard", nil)
			req.Header.Set("Accept", "text/html")
			req = withTestUser(req, tc.role)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.expected {
				t.Errorf("role %q: expected status %d, got %d", tc.role, tc.expected, rec.Code)
			}
		})
	}
}

func TestRequireRole_UserWithSecondRoleMatches(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireRole(models.RoleRegistryAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// System administrators also carry the registry role.
	req := httptest.NewRequest("GET", "/review/dashboard", nil)
	req = withTestUser(req, models.RoleSystemAdmin, models.RoleRegistryAdmin)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireRole_CaseInsensitive(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireRole("pilot")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/reports", nil)
	req = withTestUser(req, "PILOT")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d for uppercase role, got %d", http.StatusOK, rec.Code)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	user, ok := auth.CurrentUser(req)

	if ok {
		t.Error("expected ok to be false when no user in context")
	}
	if user != nil {
		t.Error("expected user to be nil when no user in context")
	}
}

func TestCurrentUser_WithUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = withTestUser(req, models.RolePilot)

	user, ok := auth.CurrentUser(req)

	if !ok {
		t.Error("expected ok to be true when user in context")
	}
	if user == nil {
		t.Fatal("expected user to not be nil")
	}
	if !user.HasRole(models.RolePilot) {
		t.Errorf("expected user to hold role %q, got %v", models.RolePilot, user.Roles)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)

	signIn := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := sm.SignIn(w, r, &auth.SessionUser{
			ID:           "507f1f77bcf86cd799439011",
			Name:         "Alice Ng",
			Email:        "alice@example.com",
			Organization: "Nordic Aviation",
			Roles:        []string{models.RolePilot},
		})
		if err != nil {
			t.Fatalf("sign in: %v", err)
		}
	})

	rec := httptest.NewRecorder()
	signIn.ServeHTTP(rec, httptest.NewRequest("POST", "/login", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie to be set")
	}

	var got *auth.SessionUser
	protected := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/reports", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	protected.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected user to survive the cookie round trip")
	}
	if got.Email != "alice@example.com" {
		t.Errorf("email = %q, want alice@example.com", got.Email)
	}
	if !got.HasRole(models.RolePilot) {
		t.Errorf("roles = %v, want pilot", got.Roles)
	}
}

// withTestUser injects a SessionUser into the request context, the same
// thing LoadSessionUser does after decoding the cookie.
func withTestUser(r *http.Request, roles ...string) *http.Request {
	user := &auth.SessionUser{
		ID:           "507f1f77bcf86cd799439011",
		Name:         "Test User",
		Email:        "test@example.com",
		Organization: "Test Org",
		Roles:        roles,
	}
	return auth.WithTestUser(r, user)
}
