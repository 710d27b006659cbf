// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/n0call/examstats/pkg/types"
)

// Load materializes the text of one input file. PDF inputs go through the
// renderer; text inputs are read directly. With InputAuto the file
// extension decides. The renderer may be nil for runs that only read text;
// hitting a PDF then is an error, not a panic.
func Load(path string, kind types.InputType, r Renderer) (string, error) {
	if kind == types.InputAuto || kind == "" {
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			kind = types.InputPDF
		} else {
			kind = types.InputText
		}
	}

	switch kind {
	case types.InputPDF:
		if r == nil {
			return "", fmt.Errorf("reading %s: no PDF renderer configured", path)
		}
		return r.Render(path)
	case types.InputText:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported input type %q: use auto, pdf, or text", kind)
	}
}
