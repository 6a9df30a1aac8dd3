// Package lifecycle owns the obstacle report state machine: which
// transitions are legal, who may trigger them, and what each transition
// mutates.
//
// States: Draft -> Pending -> {Approved, Rejected} -> Pending. Both
// review outcomes can be reverted to Pending; nothing is terminal.
//
// The engine talks to its collaborators through the ReportStore and
// AssigneeResolver interfaces, so the production Mongo stores and the
// in-memory test stores are interchangeable.
package lifecycle

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/skarland/obstaclehub/internal/app/policy/reportpolicy"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"go.uber.org/zap"
)

// ReportStore is the persistence surface the engine needs. FindByID
// returns ErrNotFound when the id does not resolve.
type ReportStore interface {
	Add(ctx context.Context, r *models.ObstacleReport) error
	FindByID(ctx context.Context, id string) (*models.ObstacleReport, error)
	Update(ctx context.Context, r *models.ObstacleReport) error
	Query(ctx context.Context, f Filter) ([]models.ObstacleReport, error)
	Organizations(ctx context.Context) ([]string, error)
}

// AssigneeResolver resolves reviewer accounts for assignment.
type AssigneeResolver interface {
	FindByID(ctx context.Context, id string) (*models.UserAccount, error)
}

// Engine applies report lifecycle operations.
type Engine struct {
	reports   ReportStore
	assignees AssigneeResolver
	policy    reportpolicy.Config
	log       *zap.Logger
	now       func() time.Time
}

// NewEngine constructs an Engine.
func NewEngine(reports ReportStore, assignees AssigneeResolver, policy reportpolicy.Config, logger *zap.Logger) *Engine {
	return &Engine{
		reports:   reports,
		assignees: assignees,
		policy:    policy,
		log:       logger,
		now:       time.Now,
	}
}

// WithClock overrides the engine clock. Tests use this to get stable
// timestamps.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Policy returns the active report policy configuration.
func (e *Engine) Policy() reportpolicy.Config { return e.policy }

// Create constructs a new report for actor. A draft skips the
// required-field rules and is stored with StatusDraft; a submission is
// fully validated and stored with StatusPending. The reporter snapshot
// (id, name, organization) is copied from actor and never re-synced.
func (e *Engine) Create(ctx context.Context, actor models.Actor, fields ReportFields, isDraft bool) (*models.ObstacleReport, error) {
	if !reportpolicy.CanCreateReport(actor) {
		return nil, ErrForbidden
	}
	if err := validateFields(fields, isDraft); err != nil {
		return nil, err
	}

	now := e.now().UTC()
	r := &models.ObstacleReport{
		Status:               models.StatusPending,
		ReporterUserID:       actor.ID,
		ReporterName:         actor.Name,
		ReporterNameCI:       text.Fold(actor.Name),
		ReporterOrganization: actor.Organization,
		ReportedAt:           now,
		LoggedAt:             now,
	}
	if isDraft {
		r.Status = models.StatusDraft
	}
	applyFields(r, fields)

	if err := e.reports.Add(ctx, r); err != nil {
		return nil, err
	}
	e.log.Info("report created",
		zap.String("report_id", r.ID.Hex()),
		zap.String("reporter_id", actor.ID),
		zap.String("status", string(r.Status)))
	return r, nil
}

// Edit updates the mutable fields of an existing report. Only the owner
// may edit. The draft flag selects the same validation branch as Create
// and moves a draft to Pending when the owner submits it.
func (e *Engine) Edit(ctx context.Context, actor models.Actor, id string, fields ReportFields, isDraft bool) (*models.ObstacleReport, error) {
	r, err := e.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !reportpolicy.CanEditReport(e.policy, actor, r) {
		return nil, ErrForbidden
	}
	if err := validateFields(fields, isDraft); err != nil {
		return nil, err
	}

	applyFields(r, fields)
	r.ReportedAt = e.now().UTC()
	switch {
	case isDraft:
		r.Status = models.StatusDraft
	case r.Status == models.StatusDraft:
		r.Status = models.StatusPending
	}

	if err := e.reports.Update(ctx, r); err != nil {
		return nil, err
	}
	e.log.Info("report edited",
		zap.String("report_id", r.ID.Hex()),
		zap.String("reporter_id", actor.ID),
		zap.String("status", string(r.Status)))
	return r, nil
}

// Get fetches a report if actor may view it.
func (e *Engine) Get(ctx context.Context, actor models.Actor, id string) (*models.ObstacleReport, error) {
	r, err := e.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !reportpolicy.CanViewReport(actor, r) {
		return nil, ErrForbidden
	}
	return r, nil
}

// applyFields copies the mutable fields onto r. Ownership, status and
// review fields are never touched here.
func applyFields(r *models.ObstacleReport, f ReportFields) {
	r.Name = f.Name
	r.NameCI = text.Fold(f.Name)
	r.Description = f.Description
	r.Height = f.Height
	r.Latitude = f.Latitude
	r.Longitude = f.Longitude
	r.CategoryID = f.CategoryID
	r.GeometryJSON = f.GeometryJSON
}
