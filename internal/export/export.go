// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes parse results: JSON or YAML documents and the
// CSV projections (flattened question rows and the three stats tables).
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// Format selects the document output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// WriteDocument encodes v to w in the selected format. Pretty applies to
// JSON only; YAML output is always indented.
func WriteDocument(w io.Writer, v any, format Format, pretty bool) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		if pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(v)
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
}
