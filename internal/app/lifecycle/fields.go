// internal/app/lifecycle/fields.go
package lifecycle

import (
	"fmt"

	"github.com/skarland/obstaclehub/internal/app/system/inputval"
	"github.com/skarland/obstaclehub/internal/domain/models"
)

// ReportFields are the mutable fields of a report, as supplied by the
// reporter. Everything else (status, reporter snapshot, review audit
// trail) is owned by the engine.
type ReportFields struct {
	Name         string
	Description  string
	Height       *float64 // meters
	Latitude     *float64
	Longitude    *float64
	CategoryID   *int
	GeometryJSON string
}

// submitInput declares the required-field rules applied when a report is
// submitted for review. Drafts skip these.
type submitInput struct {
	Name        string   `validate:"required,max=100" label:"Obstacle name"`
	Description string   `validate:"required,max=500" label:"Description"`
	Height      *float64 `validate:"required" label:"Height"`
	Latitude    *float64 `validate:"required" label:"Latitude"`
	Longitude   *float64 `validate:"required" label:"Longitude"`
	CategoryID  *int     `validate:"required" label:"Category"`
}

// draftInput declares the relaxed rules for drafts: nothing is required,
// but supplied values must still be sane.
type draftInput struct {
	Name        string `validate:"max=100" label:"Obstacle name"`
	Description string `validate:"max=500" label:"Description"`
}

// validateFields checks f under the draft or submit branch and returns a
// ValidationError listing every failing field, or nil.
func validateFields(f ReportFields, isDraft bool) error {
	var res inputval.Result
	if isDraft {
		res = inputval.Validate(draftInput{
			Name:        f.Name,
			Description: f.Description,
		})
	} else {
		res = inputval.Validate(submitInput{
			Name:        f.Name,
			Description: f.Description,
			Height:      f.Height,
			Latitude:    f.Latitude,
			Longitude:   f.Longitude,
			CategoryID:  f.CategoryID,
		})
	}

	// Range rules apply whenever a value is present, drafts included.
	if f.Height != nil && (*f.Height < 0 || *f.Height > models.MaxHeightMeters) {
		res.Add("Height", fmt.Sprintf("Height must be between 0 and %.0f meters.", models.MaxHeightMeters))
	}
	if f.Latitude != nil && (*f.Latitude < -90 || *f.Latitude > 90) {
		res.Add("Latitude", "Latitude must be between -90 and 90.")
	}
	if f.Longitude != nil && (*f.Longitude < -180 || *f.Longitude > 180) {
		res.Add("Longitude", "Longitude must be between -180 and 180.")
	}

	if res.HasErrors() {
		return &ValidationError{Fields: res.Errors}
	}
	return nil
}
