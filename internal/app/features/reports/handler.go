// internal/app/features/reports/handler.go
package reports

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/skarland/obstaclehub/internal/app/features/errors"
	"github.com/skarland/obstaclehub/internal/app/lifecycle"
	"github.com/skarland/obstaclehub/internal/app/system/authz"
	"github.com/skarland/obstaclehub/internal/app/system/htmlsanitize"
	"github.com/skarland/obstaclehub/internal/app/system/timeouts"
	"github.com/skarland/obstaclehub/internal/app/system/units"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"go.uber.org/zap"
)

// CategoryLister supplies the obstacle category dropdown.
type CategoryLister interface {
	List(ctx context.Context) ([]models.ObstacleCategory, error)
}

type Handler struct {
	Engine     *lifecycle.Engine
	Categories CategoryLister
	Errs       *uierrors.Responder
	Log        *zap.Logger
}

// NewHandler constructs the reports feature handler for pilots.
func NewHandler(engine *lifecycle.Engine, categories CategoryLister, errs *uierrors.Responder, logger *zap.Logger) *Handler {
	return &Handler{
		Engine:     engine,
		Categories: categories,
		Errs:       errs,
		Log:        logger,
	}
}

// HandleCreate handles POST /reports. With is_draft=true the report is
// saved without the required-field checks and stays invisible to the
// review dashboard.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.Actor(r)
	if !ok {
		h.Errs.Unauthorized(w, "Sign in to submit a report.")
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	report, err := h.Engine.Create(ctx, actor, fieldsFor(req), req.IsDraft)
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, reportResponseFor(report))
}

// HandleUpdate handles PUT /reports/{id}. Only the reporter may edit;
// editing a draft with is_draft=false submits it for review.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.Actor(r)
	if !ok {
		h.Errs.Unauthorized(w, "Sign in to edit a report.")
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	report, err := h.Engine.Edit(ctx, actor, chi.URLParam(r, "id"), fieldsFor(req), req.IsDraft)
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reportResponseFor(report))
}

// ServeReport handles GET /reports/{id}.
func (h *Handler) ServeReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.Actor(r)
	if !ok {
		h.Errs.Unauthorized(w, "Sign in to view reports.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	report, err := h.Engine.Get(ctx, actor, chi.URLParam(r, "id"))
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reportResponseFor(report))
}

// ServeList handles GET /reports, the reporter's organization log.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, ok := authz.Actor(r)
	if !ok {
		h.Errs.Unauthorized(w, "Sign in to view reports.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rs, err := h.Engine.ListOrganizationReports(ctx, actor)
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reports": reportListFor(rs),
		"count":   len(rs),
	})
}

// ServeCategories handles GET /reports/categories for the submit form.
func (h *Handler) ServeCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cats, err := h.Categories.List(ctx)
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}

	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (reportRequest, bool) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Errs.BadRequest(w, "Request body must be valid JSON.")
		return reportRequest{}, false
	}
	if unit := strings.ToLower(strings.TrimSpace(req.HeightUnit)); unit != "" && unit != "m" && unit != "ft" {
		h.Errs.BadRequest(w, `height_unit must be "m" or "ft".`)
		return reportRequest{}, false
	}
	return req, true
}

// fieldsFor converts the wire request into engine fields: height lands
// in meters and free text is sanitized.
func fieldsFor(req reportRequest) lifecycle.ReportFields {
	height := req.Height
	if strings.EqualFold(strings.TrimSpace(req.HeightUnit), "ft") {
		height = units.ToMeters(req.Height)
	}
	return lifecycle.ReportFields{
		Name:         strings.TrimSpace(req.Name),
		Description:  htmlsanitize.Sanitize(req.Description),
		Height:       height,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		CategoryID:   req.CategoryID,
		GeometryJSON: req.GeometryJSON,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
