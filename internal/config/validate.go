package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrSchemaNotFound indicates the embedded schema could not be compiled.
var ErrSchemaNotFound = errors.New("run config schema not found")

var (
	validatorOnce sync.Once
	validator     *jsonschema.Schema
	validatorErr  error
)

// ValidationError represents a single schema validation issue.
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Path == "" || e.Path == "/" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects every issue found in one validation pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "configuration validation failed"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "configuration validation failed with %d errors:\n", len(e))
	for i, err := range e {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// ValidateRaw checks raw JSON bytes against the embedded run-config schema.
// Raw validation (rather than validating the already-decoded struct) is
// what lets additionalProperties:false catch unknown fields that struct
// decoding would otherwise silently drop.
func ValidateRaw(jsonData []byte) error {
	v, err := getValidator()
	if err != nil {
		return err
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := v.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return ValidationErrors(flattenValidationError(verr))
		}
		return fmt.Errorf("schema validation error: %w", err)
	}
	return nil
}

func flattenValidationError(verr *jsonschema.ValidationError) []ValidationError {
	if len(verr.Causes) == 0 {
		return []ValidationError{{Path: verr.InstanceLocation, Message: verr.Message}}
	}
	var out []ValidationError
	for _, cause := range verr.Causes {
		out = append(out, flattenValidationError(cause)...)
	}
	return out
}

func getValidator() (*jsonschema.Schema, error) {
	validatorOnce.Do(func() {
		if len(runConfigSchema) == 0 {
			validatorErr = fmt.Errorf("%w: embedded schema is empty", ErrSchemaNotFound)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("run-config.schema.json", bytes.NewReader(runConfigSchema)); err != nil {
			validatorErr = fmt.Errorf("failed to load run config schema: %w", err)
			return
		}
		validator, validatorErr = compiler.Compile("run-config.schema.json")
		if validatorErr != nil {
			validatorErr = fmt.Errorf("failed to compile run config schema: %w", validatorErr)
		}
	})
	return validator, validatorErr
}
