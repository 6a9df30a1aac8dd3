// Package reportpolicy provides the authorization decisions for
// obstacle reports.
//
// Authorization rules:
//   - Any authenticated user may create a report
//   - Only the owner may edit a report (no other actor, administrators
//     included)
//   - A report is visible to its owner, to members of the reporter's
//     organization, and to Registry Administrators
//   - Only Registry Administrators may review (approve/reject/revert/
//     assign) and use the dashboard
//
// A few rules changed direction during the life of the product; those
// are exposed as Config flags instead of being hard-coded.
package reportpolicy

import (
	"github.com/skarland/obstaclehub/internal/domain/models"
)

// Config holds the named policy switches.
type Config struct {
	// LockAfterReview additionally blocks owner edits once a report has
	// been approved or rejected. Off by default: ownership alone decides
	// editability.
	LockAfterReview bool

	// PilotSeesOwnOnly narrows the pilot log from the whole organization
	// to the pilot's own reports. Off by default: pilots coordinate by
	// seeing colleague reports.
	PilotSeesOwnOnly bool
}

// CanCreateReport reports whether actor may submit reports. Any
// authenticated user qualifies.
func CanCreateReport(actor models.Actor) bool {
	return actor.ID != ""
}

// CanEditReport reports whether actor may edit r. Ownership is
// exclusive: organization colleagues and administrators may not edit.
// With cfg.LockAfterReview, reports that have been approved or rejected
// are no longer editable even by the owner.
func CanEditReport(cfg Config, actor models.Actor, r *models.ObstacleReport) bool {
	if actor.ID == "" || actor.ID != r.ReporterUserID {
		return false
	}
	if cfg.LockAfterReview &&
		(r.Status == models.StatusApproved || r.Status == models.StatusRejected) {
		return false
	}
	return true
}

// CanViewReport reports whether actor may read r.
func CanViewReport(actor models.Actor, r *models.ObstacleReport) bool {
	if actor.ID == "" {
		return false
	}
	if actor.ID == r.ReporterUserID {
		return true
	}
	if actor.Organization != "" && actor.Organization == r.ReporterOrganization {
		return true
	}
	return actor.IsRegistryAdmin()
}

// CanReview reports whether actor may approve, reject, revert, assign,
// or use the review dashboard.
func CanReview(actor models.Actor) bool {
	return actor.IsRegistryAdmin()
}
