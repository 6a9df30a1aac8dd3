// internal/app/features/adminusers/handler.go
package adminusers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/skarland/obstaclehub/internal/app/features/errors"
	"github.com/skarland/obstaclehub/internal/app/provision"
	"github.com/skarland/obstaclehub/internal/app/system/authz"
	"github.com/skarland/obstaclehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Workflow *provision.Workflow
	Errs     *uierrors.Responder
	Log      *zap.Logger
}

// NewHandler constructs the account administration handler.
func NewHandler(workflow *provision.Workflow, errs *uierrors.Responder, logger *zap.Logger) *Handler {
	return &Handler{
		Workflow: workflow,
		Errs:     errs,
		Log:      logger,
	}
}

// ServeList handles GET /admin/users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.Actor(r)
	if !ok {
		h.Errs.Unauthorized(w, "Sign in to manage users.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Workflow.ListUsers(ctx, actor)
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	rows := make([]userRow, 0, len(users))
	for i := range users {
		rows = append(rows, rowFor(&users[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users": rows,
		"count": len(rows),
	})
}

// HandleCreate handles POST /admin/users. The response carries the
// generated temporary password exactly once; it is never stored in
// plaintext or shown again.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.Actor(r)
	if !ok {
		h.Errs.Unauthorized(w, "Sign in to manage users.")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Errs.BadRequest(w, "Request body must be valid JSON.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Workflow.CreateUser(ctx, actor, provision.Profile{
		Email:        req.Email,
		FullName:     req.FullName,
		Organization: req.Organization,
	}, req.Role)
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	h.Log.Info("account provisioned",
		zap.String("by", actor.ID),
		zap.String("user_id", created.Account.ID.Hex()),
		zap.Strings("roles", created.Account.Roles))

	writeJSON(w, http.StatusCreated, createResponse{
		User:         rowFor(&created.Account),
		TempPassword: created.TempPassword,
	})
}

// HandleDelete handles DELETE /admin/users/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.Actor(r)
	if !ok {
		h.Errs.Unauthorized(w, "Sign in to manage users.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Workflow.DeleteUser(ctx, actor, chi.URLParam(r, "id")); err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	h.Log.Info("account deleted",
		zap.String("by", actor.ID),
		zap.String("user_id", chi.URLParam(r, "id")))

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
