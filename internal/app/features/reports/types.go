// internal/app/features/reports/types.go
package reports

import (
	"time"

	"github.com/skarland/obstaclehub/internal/app/system/units"
	"github.com/skarland/obstaclehub/internal/domain/models"
)

// reportRequest is the JSON body for submitting or editing a report.
// Height is taken in the unit named by height_unit ("m" by default,
// "ft" accepted) and stored in meters.
type reportRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Height       *float64 `json:"height"`
	HeightUnit   string   `json:"height_unit"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	CategoryID   *int     `json:"category_id"`
	GeometryJSON string   `json:"geometry"`
	IsDraft      bool     `json:"is_draft"`
}

type reportResponse struct {
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

type categoryResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func reportResponseFor(r *models.ObstacleReport) reportResponse {
	return reportResponse{
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

func reportListFor(rs []models.ObstacleReport) []reportResponse {
	out := make([]reportResponse, 0, len(rs))
	for i := range rs {
		out = append(out, reportResponseFor(&rs[i]))
	}
	return out
}
