package graph

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed schema/thing.yaml
var thingSchemaDocument []byte

// ErrInvalidPayload wraps schema violations reported by Validate.
var ErrInvalidPayload = errors.New("graph: payload does not match thing schema")

var (
	thingSchemaOnce sync.Once
	thingSchema     *openapi3.Schema
	thingSchemaErr  error
)

// SchemaDocument returns the embedded OpenAPI document describing thing
// payloads.
func SchemaDocument() []byte {
	out := make([]byte, len(thingSchemaDocument))
	copy(out, thingSchemaDocument)
	return out
}

func loadThingSchema() (*openapi3.Schema, error) {
	thingSchemaOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(thingSchemaDocument)
		if err != nil {
			thingSchemaErr = fmt.Errorf("graph: load thing schema: %w", err)
			return
		}
		ref, ok := doc.Components.Schemas["Thing"]
		if !ok || ref == nil || ref.Value == nil {
			thingSchemaErr = errors.New("graph: thing schema missing from document")
			return
		}
		thingSchema = ref.Value
	})
	return thingSchema, thingSchemaErr
}

// Validate checks a raw thing payload against the embedded schema before it is
// decoded.
func Validate(raw []byte) error {
	schema, err := loadThingSchema()
	if err != nil {
		return err
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("graph: validate payload: %w", err)
	}
	if err := schema.VisitJSON(value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
