// Package inputval validates request input structs.
//
// Rules are declared with `validate:` struct tags (go-playground
// validator syntax) plus a `label:` tag used to build user-facing
// messages:
//
//	type submitInput struct {
//	    Name string `validate:"required,max=100" label:"Obstacle name"`
//	}
//
// Validate returns a field-keyed Result so callers can surface every
// failing field against the original form, not a single string.
package inputval

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return v
}

// FieldError is one failing field with its user-facing message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a validation failure carried as an error value. It keeps the
// full field list so callers can render every message against the
// original input form, not a single collapsed string.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Err converts a Result with failures into an *Error, or nil.
func (r Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return &Error{Fields: r.Errors}
}

// Result collects validation failures in declaration order.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any field failed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first failure message, or "".
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// Add appends a failure produced outside tag-based validation.
func (r *Result) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Validate checks v against its struct tags.
func Validate(v any) Result {
	var res Result
	err := validate.Struct(v)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Add("", err.Error())
		return res
	}
	for _, fe := range verrs {
		res.Add(fe.Field(), message(fe))
	}
	return res
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", fe.Field(), fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s.", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}
