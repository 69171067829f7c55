package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the path to the invalid field, using file key names
	Path string

	// Message describes the validation error
	Message string
}

// Error returns the error message.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	})
	return v
}

// ValidateConfig validates the configuration and returns a slice of validation errors.
// An empty slice indicates the configuration is valid.
//
// Example:
//
//	errors := config.ValidateConfig(cfg)
//	for _, err := range errors {
//	    log.Printf("Validation error: %s", err)
//	}
func ValidateConfig(cfg *Config) []ValidationError {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Path: "", Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Path:    strings.TrimPrefix(fe.Namespace(), "Config."),
			Message: describe(fe),
		})
	}
	return out
}

// Validate returns nil for a valid configuration, or one error listing every
// problem.
func Validate(cfg *Config) error {
	errs := ValidateConfig(cfg)
	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return "must be a valid URL"
	case "duration":
		return "must be a duration such as 30s or 1m"
	case "gte", "lte":
		return "must be between 0 and 65535"
	case "hostname_rfc1123|ip":
		return "must be a host name or IP address"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
