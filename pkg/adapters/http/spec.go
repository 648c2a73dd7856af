package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawSpec []byte

// RawSpec returns the OpenAPI document served at /openapi.yaml.
func RawSpec() []byte {
	return rawSpec
}

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

// bodyError is a request body that does not match its schema.
type bodyError struct {
	schema string
	err    error
}

func (e *bodyError) Error() string {
	return fmt.Sprintf("request body does not match %s: %v", e.schema, e.err)
}

func (e *bodyError) Unwrap() error { return e.err }

// decodeBody validates body against the named component schema and then
// decodes it into dest.
func decodeBody(doc *openapi3.T, schema string, body []byte, dest any) error {
	ref, ok := doc.Components.Schemas[schema]
	if !ok || ref.Value == nil {
		return fmt.Errorf("schema %s not found", schema)
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return &bodyError{schema: schema, err: err}
	}
	if err := ref.Value.VisitJSON(value); err != nil {
		return &bodyError{schema: schema, err: err}
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &bodyError{schema: schema, err: err}
	}
	return nil
}
