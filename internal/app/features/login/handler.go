// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/skarland/obstaclehub/internal/app/features/errors"
	"github.com/skarland/obstaclehub/internal/app/provision"
	"github.com/skarland/obstaclehub/internal/app/system/auth"
	"github.com/skarland/obstaclehub/internal/app/system/inputval"
	"github.com/skarland/obstaclehub/internal/app/system/normalize"
	"github.com/skarland/obstaclehub/internal/app/system/timeouts"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"go.uber.org/zap"
)

// Credentials is the identity surface the login feature needs.
type Credentials interface {
	VerifyCredentials(ctx context.Context, email, password string) (*models.UserAccount, error)
	CreateAccount(ctx context.Context, account models.UserAccount, password string) (*models.UserAccount, error)
}

type Handler struct {
	Identity   Credentials
	SessionMgr *auth.SessionManager
	Errs       *uierrors.Responder
	Log        *zap.Logger

	// AllowSelfRegistration enables POST /register, which creates a
	// pilot account without administrator involvement.
	AllowSelfRegistration bool
}

func NewHandler(identity Credentials, sessionMgr *auth.SessionManager, errs *uierrors.Responder, allowSelfRegistration bool, logger *zap.Logger) *Handler {
	return &Handler{
		Identity:              identity,
		SessionMgr:            sessionMgr,
		Errs:                  errs,
		Log:                   logger,
		AllowSelfRegistration: allowSelfRegistration,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email        string `json:"email" validate:"required,email,max=254" label:"Email"`
	FullName     string `json:"full_name" validate:"required,max=200" label:"Full name"`
	Organization string `json:"organization" validate:"required,max=200" label:"Organization"`
	Password     string `json:"password" validate:"required,min=8,max=128" label:"Password"`
}

type userResponse struct {
	ID                 string   `json:"id"`
	Email              string   `json:"email"`
	FullName           string   `json:"full_name"`
	Organization       string   `json:"organization"`
	Roles              []string `json:"roles"`
	MustChangePassword bool     `json:"must_change_password"`
}

// HandleLogin handles POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Errs.BadRequest(w, "Request body must be valid JSON.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Identity.VerifyCredentials(ctx, normalize.Email(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, provision.ErrInvalidCredentials) {
			h.Errs.Unauthorized(w, "Invalid email or password.")
			return
		}
		h.Errs.Write(w, r, err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, sessionUserFor(u)); err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	h.Log.Info("user signed in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", u.Email))

	writeJSON(w, http.StatusOK, userResponseFor(u))
}

// HandleLogout handles POST /logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Errs.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRegister handles POST /register. Self-registered accounts are
// always plain pilots; administrator roles only come from provisioning.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if !h.AllowSelfRegistration {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Errs.BadRequest(w, "Request body must be valid JSON.")
		return
	}

	req.Email = normalize.Email(req.Email)
	req.FullName = normalize.Name(req.FullName)
	req.Organization = normalize.Organization(req.Organization)

	if res := inputval.Validate(req); res.HasErrors() {
		h.Errs.Write(w, r, res.Err())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Identity.CreateAccount(ctx, models.UserAccount{
		Email:        req.Email,
		FullName:     req.FullName,
		Organization: req.Organization,
		Roles:        []string{models.RolePilot},
	}, req.Password)
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, sessionUserFor(u)); err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	h.Log.Info("pilot self-registered",
		zap.String("user_id", u.ID.Hex()),
		zap.String("organization", u.Organization))

	writeJSON(w, http.StatusCreated, userResponseFor(u))
}

// ServeMe handles GET /me and reports the signed-in user, if any.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"is_authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"is_authenticated": true,
		"user": userResponse{
			ID:                 u.ID,
			Email:              u.Email,
			FullName:           u.Name,
			Organization:       u.Organization,
			Roles:              u.Roles,
			MustChangePassword: u.MustChangePassword,
		},
	})
}

func sessionUserFor(u *models.UserAccount) *auth.SessionUser {
	return &auth.SessionUser{
		ID:                 u.ID.Hex(),
		Name:               u.FullName,
		Email:              u.Email,
		Organization:       u.Organization,
		Roles:              u.Roles,
		MustChangePassword: u.MustChangePassword,
	}
}

func userResponseFor(u *models.UserAccount) userResponse {
	return userResponse{
		ID:                 u.ID.Hex(),
		Email:              u.Email,
		FullName:           u.FullName,
		Organization:       u.Organization,
		Roles:              u.Roles,
		MustChangePassword: u.MustChangePassword,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
