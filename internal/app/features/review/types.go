// internal/app/features/review/types.go
package review

import (
	"time"

	"github.com/skarland/obstaclehub/internal/app/system/units"
	"github.com/skarland/obstaclehub/internal/domain/models"
)

// rejectRequest carries the reviewer comments required for a rejection.
type rejectRequest struct {
	Comments string `json:"comments"`
}

// assignRequest names the reviewer to assign, or "" to unassign.
type assignRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// updateRequest is the reviewer's edit of report fields. Height is
// always meters here; unit conversion is a submit-form concern.
type updateRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Height       *float64 `json:"height"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	CategoryID   *int     `json:"category_id"`
	GeometryJSON string   `json:"geometry"`
}

type reportRow struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Description          string     `json:"description"`
	HeightM              *float64   `json:"height_m"`
	HeightFt             *float64   `json:"height_ft"`
	Latitude             *float64   `json:"latitude"`
	Longitude            *float64   `json:"longitude"`
	CategoryID           *int       `json:"category_id"`
	GeometryJSON         string     `json:"geometry,omitempty"`
	Status               string     `json:"status"`
	ReporterName         string     `json:"reporter_name"`
	ReporterOrganization string     `json:"reporter_organization"`
	AssignedUserID       string     `json:"assigned_user_id,omitempty"`
	AssignedUserName     string     `json:"assigned_user_name,omitempty"`
	AdminComments        string     `json:"admin_comments,omitempty"`
	ReviewedByUserName   string     `json:"reviewed_by,omitempty"`
	LastReviewedAt       *time.Time `json:"last_reviewed_at,omitempty"`
	ReportedAt           time.Time  `json:"reported_at"`
	LoggedAt             time.Time  `json:"logged_at"`
}

// dashboardResponse is the review dashboard payload: the filtered rows
// plus the dropdown sources and per-status counts for the current rows.
type dashboardResponse struct {
	Reports       []reportRow        `json:"reports"`
	Count         int                `json:"count"`
	StatusCounts  map[string]int     `json:"status_counts"`
	Organizations []string           `json:"organizations"`
	Categories    []categoryResponse `json:"categories"`
	Filter        filterEcho         `json:"filter"`
}

type categoryResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// filterEcho repeats the applied filter values so clients can render
// the controls without re-parsing the query string.
type filterEcho struct {
	SortBy       string `json:"sort_by"`
	Status       string `json:"status,omitempty"`
	Organization string `json:"organization,omitempty"`
	Category     string `json:"category,omitempty"`
	Query        string `json:"q,omitempty"`
}

// mapFeature is one approved obstacle in the map feed.
type mapFeature struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	HeightM   *float64 `json:"height_m"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Geometry  string   `json:"geometry,omitempty"`
}

func rowFor(r *models.ObstacleReport) reportRow {
	return reportRow{
		ID:                   r.ID.Hex(),
		Name:                 r.Name,
		Description:          r.Description,
		HeightM:              r.Height,
		HeightFt:             units.ToFeet(r.Height),
		Latitude:             r.Latitude,
		Longitude:            r.Longitude,
		CategoryID:           r.CategoryID,
		GeometryJSON:         r.GeometryJSON,
		Status:               string(r.Status),
		ReporterName:         r.ReporterName,
		ReporterOrganization: r.ReporterOrganization,
		AssignedUserID:       r.AssignedUserID,
		AssignedUserName:     r.AssignedName,
		AdminComments:        r.AdminComments,
		ReviewedByUserName:   r.ReviewedByName,
		LastReviewedAt:       r.LastReviewedAt,
		ReportedAt:           r.ReportedAt,
		LoggedAt:             r.LoggedAt,
	}
}

func rowsFor(rs []models.ObstacleReport) []reportRow {
	out := make([]reportRow, 0, len(rs))
	for i := range rs {
		out = append(out, rowFor(&rs[i]))
	}
	return out
}
