package settings

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = NewValidator()

// NewValidator returns a validator that reports fields by their json name, so clients can map
// errors to the fields they sent.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a settings document. It returns validator.ValidationErrors on failure.
// Call it on the output of Merge: absent slots are not errors, invalid present ones are.
func Validate(s *CompanySettings) error {
	return validate.Struct(s)
}

// ValidateNumbering checks a single numbering config.
func ValidateNumbering(cfg NumberingConfig) error {
	return validate.Struct(cfg)
}
