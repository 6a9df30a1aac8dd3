// internal/app/features/password/handler.go
package password

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/skarland/obstaclehub/internal/app/features/errors"
	"github.com/skarland/obstaclehub/internal/app/provision"
	"github.com/skarland/obstaclehub/internal/app/system/auth"
	"github.com/skarland/obstaclehub/internal/app/system/inputval"
	"github.com/skarland/obstaclehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Changer is the identity surface the password feature needs.
type Changer interface {
	ChangePassword(ctx context.Context, id, current, newPassword string) error
}

type Handler struct {
	Identity   Changer
	SessionMgr *auth.SessionManager
	Errs       *uierrors.Responder
	Log        *zap.Logger
}

func NewHandler(identity Changer, sessionMgr *auth.SessionManager, errs *uierrors.Responder, logger *zap.Logger) *Handler {
	return &Handler{
		Identity:   identity,
		SessionMgr: sessionMgr,
		Errs:       errs,
		Log:        logger,
	}
}

type changeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required" label:"Current password"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128" label:"New password"`
}

// HandleChange handles POST /password. The caller must be signed in;
// a successful change clears the must-change flag on both the account
// and the session.
func (h *Handler) HandleChange(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		h.Errs.Unauthorized(w, "Sign in to change your password.")
		return
	}

	var req changeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Errs.BadRequest(w, "Request body must be valid JSON.")
		return
	}

	if res := inputval.Validate(req); res.HasErrors() {
		h.Errs.Write(w, r, res.Err())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Identity.ChangePassword(ctx, user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, provision.ErrInvalidCredentials) {
			h.Errs.Unauthorized(w, "Current password is incorrect.")
			return
		}
		h.Errs.Write(w, r, err)
		return
	}

	// Refresh the session so must_change_password stops gating the UI.
	user.MustChangePassword = false
	if err := h.SessionMgr.SignIn(w, r, user); err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	h.Log.Info("password changed", zap.String("user_id", user.ID))
	w.WriteHeader(http.StatusNoContent)
}
