// Package units converts obstacle heights between meters and feet.
// Heights are stored in canonical meters; conversion happens only at the
// HTTP boundary.
package units

const metersPerFoot = 0.3048

// ToFeet converts meters to feet. A nil input stays nil.
func ToFeet(meters *float64) *float64 {
	if meters == nil {
		return nil
	}
	v := *meters / metersPerFoot
	return &v
}

// ToMeters converts feet to meters. A nil input stays nil.
func ToMeters(feet *float64) *float64 {
	if feet == nil {
		return nil
	}
	v := *feet * metersPerFoot
	return &v
}
