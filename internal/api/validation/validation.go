// Package validation checks request payloads and cleans free text before it
// is stored.
package validation

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	validate = newValidator()
	strict   = bluemonday.StrictPolicy()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates req against its validate tags. The returned slice is
// empty when req is valid.
func Struct(req any) []FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: "invalid request payload"}}
	}

	errs := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return errs
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "uuid4", "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "alphanum":
		return fmt.Sprintf("%s must contain only letters and digits", field)
	case "hexadecimal", "len":
		return fmt.Sprintf("invalid %s", field)
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field, fe.Param())
	}
	return fmt.Sprintf("invalid %s", field)
}

// Cleaner is implemented by requests whose free-text fields must be
// sanitized before they are validated.
type Cleaner interface {
	Clean()
}

const maxSanitizeRounds = 4

// Sanitize strips all markup from s and trims surrounding whitespace. Entities
// are decoded so the result is plain text; decoding repeats until no markup
// reappears. Input still nested deeper than that is returned escaped.
func Sanitize(s string) string {
	for i := 0; i < maxSanitizeRounds; i++ {
		escaped := strict.Sanitize(s)
		plain := html.UnescapeString(escaped)
		if plain == s {
			return strings.TrimSpace(plain)
		}
		if i == maxSanitizeRounds-1 {
			return strings.TrimSpace(escaped)
		}
		s = plain
	}
	return strings.TrimSpace(s)
}

// SanitizePtr applies Sanitize to a non-nil s.
func SanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := Sanitize(*s)
	return &clean
}
