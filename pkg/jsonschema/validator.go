// Package jsonschema checks response bodies against JSON Schema documents.
package jsonschema

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "response.schema.json"

// ValidationErrors collects every schema violation found in a document.
type ValidationErrors []error

// Error joins the individual violations with "; ".
func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, err := range ve {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validator holds a compiled schema and can be reused across responses.
type Validator struct {
	schema *jsonschema.Schema
}

// Compile parses schemaDoc and returns a Validator.
func Compile(schemaDoc string) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaDoc)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate checks body. It returns nil when the body conforms, a
// ValidationErrors value listing the violations when it does not, and a plain
// error when body is not JSON.
func (v *Validator) Validate(body string) error {
	var doc any
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(body, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	err := v.schema.Validate(doc)
	if err == nil {
		return nil
	}
	if verr, ok := err.(*jsonschema.ValidationError); ok {
		return flatten(verr)
	}
	return ValidationErrors{err}
}

// ValidateBody compiles schemaDoc and validates body in one step.
func ValidateBody(body, schemaDoc string) error {
	v, err := Compile(schemaDoc)
	if err != nil {
		return err
	}
	return v.Validate(body)
}

func flatten(err *jsonschema.ValidationError) ValidationErrors {
	var errs ValidationErrors
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		errs = append(errs, fmt.Errorf("%s: %s", location, err.Message))
	}
	for _, cause := range err.Causes {
		errs = append(errs, flatten(cause)...)
	}
	return errs
}
