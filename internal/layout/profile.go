// Package layout turns positioned page tokens back into the visual table
// rows of the supplier's invoice format.
package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Profile holds the layout tunables for the supplier format. This is tuning
// for the one modeled format, not a multi-supplier template system: the
// section grammar itself is fixed in the parsers.
type Profile struct {
	// RowTolerance is the vertical rounding bucket, in document units.
	// Small enough to separate adjacent table rows, large enough to absorb
	// rendering jitter of a few units.
	RowTolerance float64 `json:"row_tolerance"`
	// GapThreshold is the horizontal distance between consecutive tokens
	// above which a column-separating space is inserted.
	GapThreshold float64 `json:"gap_threshold"`
	// MinTextLen is the minimum total reconstructed text length below which
	// the document is treated as non-text-extractable.
	MinTextLen int `json:"min_text_len"`
}

// DefaultProfile returns the tunables calibrated for the supplier's invoices.
func DefaultProfile() Profile {
	return Profile{
		RowTolerance: 2.0,
		GapThreshold: 4.0,
		MinTextLen:   64,
	}
}

// profileSchema constrains a layout-profile JSON file (draft 2020-12 subset).
func profileSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"row_tolerance": map[string]any{"type": "number", "exclusiveMinimum": 0.0},
			"gap_threshold": map[string]any{"type": "number", "exclusiveMinimum": 0.0},
			"min_text_len":  map[string]any{"type": "integer", "minimum": 1},
		},
	}
}

// LoadProfile reads a JSON profile file, validates it against the schema and
// overlays it on the defaults. Fields absent from the file keep their
// default values.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read layout profile: %w", err)
	}
	if err := validateAgainstSchema(profileSchema(), data); err != nil {
		return Profile{}, fmt.Errorf("layout profile %s: %w", path, err)
	}
	p := DefaultProfile()
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("decode layout profile: %w", err)
	}
	return p, nil
}

// validateAgainstSchema validates "data" against "schemaMap".
func validateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
