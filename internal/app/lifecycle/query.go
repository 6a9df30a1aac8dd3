// internal/app/lifecycle/query.go
package lifecycle

import (
	"context"

	"github.com/skarland/obstaclehub/internal/app/policy/reportpolicy"
	"github.com/skarland/obstaclehub/internal/domain/models"
)

// ListDashboard returns the reviewer dashboard collection. Drafts are
// never included: they belong to their owners until submitted.
func (e *Engine) ListDashboard(ctx context.Context, actor models.Actor, f Filter) ([]models.ObstacleReport, error) {
	if !reportpolicy.CanReview(actor) {
		return nil, ErrForbidden
	}
	f.ExcludeDrafts = true
	return e.reports.Query(ctx, f)
}

// ListOrganizationReports returns the pilot log: every report from the
// actor's organization, newest first. With the PilotSeesOwnOnly policy
// flag it narrows to the actor's own reports.
func (e *Engine) ListOrganizationReports(ctx context.Context, actor models.Actor) ([]models.ObstacleReport, error) {
	if actor.ID == "" {
		return nil, ErrForbidden
	}
	f := Filter{SortBy: SortDate}
	if e.policy.PilotSeesOwnOnly {
		f.ReporterUserID = actor.ID
	} else {
		if actor.Organization == "" {
			// No organization, nothing to coordinate over.
			return nil, nil
		}
		f.Organization = actor.Organization
	}
	return e.reports.Query(ctx, f)
}

// ListApproved returns the approved reports for the map feed.
func (e *Engine) ListApproved(ctx context.Context) ([]models.ObstacleReport, error) {
	st := models.StatusApproved
	return e.reports.Query(ctx, Filter{SortBy: SortDate, Status: &st})
}

// Organizations returns the distinct reporter organizations present, for
// the dashboard filter dropdown.
func (e *Engine) Organizations(ctx context.Context) ([]string, error) {
	return e.reports.Organizations(ctx)
}
