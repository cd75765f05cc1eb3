package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaFor reflects a JSON Schema document for a config type, for editor
// tooling and documentation. The schema describes the persisted shape, so
// field names follow the same `json` tags the codec uses.
func SchemaFor(cfg any) (*jsonschema.Schema, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cannot reflect schema for nil config")
	}
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	return reflector.Reflect(cfg), nil
}

// SchemaJSON renders the schema for a config type as indented JSON.
func SchemaJSON(cfg any) ([]byte, error) {
	schema, err := SchemaFor(cfg)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}
