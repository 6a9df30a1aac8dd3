// internal/app/features/review/handler.go
package review

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/skarland/obstaclehub/internal/app/features/errors"
	"github.com/skarland/obstaclehub/internal/app/lifecycle"
	"github.com/skarland/obstaclehub/internal/app/system/authz"
	"github.com/skarland/obstaclehub/internal/app/system/htmlsanitize"
	"github.com/skarland/obstaclehub/internal/app/system/timeouts"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"go.uber.org/zap"
)

// CategoryLister supplies the category dropdown for the dashboard.
type CategoryLister interface {
	List(ctx context.Context) ([]models.ObstacleCategory, error)
}

type Handler struct {
	Engine     *lifecycle.Engine
	Categories CategoryLister
	Errs       *uierrors.Responder
	Log        *zap.Logger
}

// NewHandler constructs the review feature handler for registry
// administrators.
func NewHandler(engine *lifecycle.Engine, categories CategoryLister, errs *uierrors.Responder, logger *zap.Logger) *Handler {
	return &Handler{
		Engine:     engine,
		Categories: categories,
		Errs:       errs,
		Log:        logger,
	}
}

// ServeDashboard handles GET /review/dashboard.
//
// Query parameters: sort_by, status, organization, category, q. Values
// that do not parse fall open to "no filter" so stale bookmarks still
// return results.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.Actor(r)
	if !ok {
		h.Errs.Unauthorized(w, "Sign in to review reports.")
		return
	}

	f := lifecycle.ParseFilter(
		query.Get(r, "sort_by"),
		query.Get(r, "status"),
		query.Get(r, "organization"),
		query.Get(r, "category"),
		query.Get(r, "q"),
	)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rs, err := h.Engine.ListDashboard(ctx, actor, f)
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	orgs, err := h.Engine.Organizations(ctx)
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	cats, err := h.Categories.List(ctx)
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}
	catOut := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		catOut = append(catOut, categoryResponse{ID: c.ID, Name: c.Name})
	}

	counts := map[string]int{}
	for i := range rs {
		counts[string(rs[i].Status)]++
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Reports:       rowsFor(rs),
		Count:         len(rs),
		StatusCounts:  counts,
		Organizations: orgs,
		Categories:    catOut,
		Filter: filterEcho{
			SortBy:       string(f.SortBy),
			Status:       query.Get(r, "status"),
			Organization: f.Organization,
			Category:     query.Get(r, "category"),
			Query:        f.Query,
		},
	})
}

// ServeReport handles GET /review/{id}.
func (h *Handler) ServeReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.Actor(r)
	if !ok {
		h.Errs.Unauthorized(w, "Sign in to review reports.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	report, err := h.Engine.Get(ctx, actor, chi.URLParam(r, "id"))
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rowFor(report))
}

// HandleApprove handles POST /review/{id}/approve. Approval clears any
// reviewer comments and assigns the report to the approver.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.reviewAction(w, r, func(ctx context.Context, actor models.Actor, id string) (*models.ObstacleReport, error) {
		return h.Engine.Approve(ctx, actor, id)
	})
}

// HandleReject handles POST /review/{id}/reject. Comments are required.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Errs.BadRequest(w, "Request body must be valid JSON.")
		return
	}
	comments := htmlsanitize.Sanitize(req.Comments)

	h.reviewAction(w, r, func(ctx context.Context, actor models.Actor, id string) (*models.ObstacleReport, error) {
		return h.Engine.Reject(ctx, actor, id, comments)
	})
}

// HandlePending handles POST /review/{id}/pending, returning a reviewed
// report to the queue. Earlier comments are preserved.
func (h *Handler) HandlePending(w http.ResponseWriter, r *http.Request) {
	h.reviewAction(w, r, func(ctx context.Context, actor models.Actor, id string) (*models.ObstacleReport, error) {
		return h.Engine.SetPending(ctx, actor, id)
	})
}

// HandleAssign handles POST /review/{id}/assign.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Errs.BadRequest(w, "Request body must be valid JSON.")
		return
	}

	h.reviewAction(w, r, func(ctx context.Context, actor models.Actor, id string) (*models.ObstacleReport, error) {
		return h.Engine.Assign(ctx, actor, id, req.AssigneeID)
	})
}

// HandleUpdate handles PUT /review/{id}: a reviewer edit of report
// fields that leaves the status untouched.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Errs.BadRequest(w, "Request body must be valid JSON.")
		return
	}

	fields := lifecycle.ReportFields{
		Name:         req.Name,
		Description:  htmlsanitize.Sanitize(req.Description),
		Height:       req.Height,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		CategoryID:   req.CategoryID,
		GeometryJSON: req.GeometryJSON,
	}

	h.reviewAction(w, r, func(ctx context.Context, actor models.Actor, id string) (*models.ObstacleReport, error) {
		return h.Engine.UpdateFields(ctx, actor, id, fields)
	})
}

// ServeMap handles GET /review/map: every approved obstacle, the feed
// behind the situational map.
func (h *Handler) ServeMap(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rs, err := h.Engine.ListApproved(ctx)
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	out := make([]mapFeature, 0, len(rs))
	for i := range rs {
		r := &rs[i]
		out = append(out, mapFeature{
			ID:        r.ID.Hex(),
			Name:      r.Name,
			HeightM:   r.Height,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Geometry:  r.GeometryJSON,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"obstacles": out,
		"count":     len(out),
	})
}

func (h *Handler) reviewAction(w http.ResponseWriter, r *http.Request, do func(context.Context, models.Actor, string) (*models.ObstacleReport, error)) {
	actor, ok := authz.Actor(r)
	if !ok {
		h.Errs.Unauthorized(w, "Sign in to review reports.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	report, err := do(ctx, actor, chi.URLParam(r, "id"))
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rowFor(report))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
