package dashboard

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/seed.schema.json
var seedSchema []byte

const seedSchemaName = "seed.schema.json"

// SeedValidator checks seed documents against the embedded JSON schema. The
// schema is compiled once on first use.
type SeedValidator struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

var defaultSeedValidator = &SeedValidator{}

// Validate returns a go-errors validation error listing every schema violation.
func (v *SeedValidator) Validate(doc *SeedDocument) error {
	schema, err := v.compiled()
	if err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("dashboard: marshal seed: %w", err)
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("dashboard: normalize seed: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return schemaValidationError(err)
	}
	return nil
}

func (v *SeedValidator) compiled() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(seedSchemaName, bytes.NewReader(seedSchema)); err != nil {
			v.err = fmt.Errorf("dashboard: load seed schema: %w", err)
			return
		}
		v.schema, v.err = compiler.Compile(seedSchemaName)
		if v.err != nil {
			v.err = fmt.Errorf("dashboard: compile seed schema: %w", v.err)
		}
	})
	return v.schema, v.err
}

func schemaValidationError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "dashboard: seed failed schema validation")
	}
	var fields []goerrors.FieldError
	collectSchemaErrors(ve, &fields)
	if len(fields) == 0 {
		fields = append(fields, goerrors.FieldError{Field: ve.InstanceLocation, Message: ve.Message})
	}
	return goerrors.NewValidation("dashboard: seed failed schema validation", fields...)
}

func collectSchemaErrors(ve *jsonschema.ValidationError, out *[]goerrors.FieldError) {
	if len(ve.Causes) == 0 {
		field := ve.InstanceLocation
		if field == "" {
			field = "/"
		}
		*out = append(*out, goerrors.FieldError{Field: field, Message: ve.Message})
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaErrors(cause, out)
	}
}
