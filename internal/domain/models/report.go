// internal/domain/models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportStatus is the stored lifecycle state of an obstacle report.
//
// Draft is a first-class status. Reviewers never see drafts; a draft
// becomes Pending when its owner submits it. Approved and Rejected can
// both be reverted to Pending, so no state is terminal.
type ReportStatus string

const (
	StatusDraft    ReportStatus = "Draft"
	StatusPending  ReportStatus = "Pending"
	StatusApproved ReportStatus = "Approved"
	StatusRejected ReportStatus = "Rejected"
)

// ParseStatus returns the status matching s, or false if s is not a
// known status value.
func ParseStatus(s string) (ReportStatus, bool) {
	switch ReportStatus(s) {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return ReportStatus(s), true
	}
	return "", false
}

// ObstacleReport is a report of a physical obstacle (mast, power line,
// crane, ...) relevant to aviation safety.
//
// ReporterUserID, ReporterName and ReporterOrganization are a snapshot
// of the submitting user taken at creation time. They are intentionally
// never resynchronized with the identity store: a pilot who later moves
// to another organization does not retroactively change old reports.
type ObstacleReport struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Description string             `bson:"description" json:"description"`

	// Height is stored in meters. Feet/meter conversion happens at the
	// HTTP boundary only.
	Height    *float64 `bson:"height_m,omitempty" json:"height_m,omitempty"`
	Latitude  *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`

	CategoryID   *int   `bson:"category_id,omitempty" json:"category_id,omitempty"`
	GeometryJSON string `bson:"geometry_json,omitempty" json:"geometry_json,omitempty"`

	Status ReportStatus `bson:"status" json:"status"`

	ReporterUserID       string `bson:"reporter_user_id" json:"reporter_user_id"`
	ReporterName         string `bson:"reporter_name" json:"reporter_name"`
	ReporterNameCI       string `bson:"reporter_name_ci" json:"-"`
	ReporterOrganization string `bson:"reporter_organization" json:"reporter_organization"`

	AssignedUserID string `bson:"assigned_user_id,omitempty" json:"assigned_user_id,omitempty"`
	AssignedName   string `bson:"assigned_name,omitempty" json:"assigned_name,omitempty"`

	// AdminComments is mandatory on rejection, cleared on approval, and
	// preserved when a report is reverted to Pending.
	AdminComments string `bson:"admin_comments,omitempty" json:"admin_comments,omitempty"`

	ReviewedByUserID string     `bson:"reviewed_by_user_id,omitempty" json:"reviewed_by_user_id,omitempty"`
	ReviewedByName   string     `bson:"reviewed_by_name,omitempty" json:"reviewed_by_name,omitempty"`
	LastReviewedAt   *time.Time `bson:"last_reviewed_at,omitempty" json:"last_reviewed_at,omitempty"`

	ReportedAt time.Time `bson:"reported_at" json:"reported_at"` // refreshed on every create/edit
	LoggedAt   time.Time `bson:"logged_at" json:"logged_at"`     // set once at creation
}

// MaxHeightMeters caps obstacle heights. Nothing taller is plausible.
const MaxHeightMeters = 1000.0
