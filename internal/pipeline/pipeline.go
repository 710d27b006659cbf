// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates a run: load each input's text, parse it,
// and collect results and failures in input order. Sources are independent,
// so parsing fans out concurrently; output order never depends on
// completion order.
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/n0call/examstats/internal/parse"
	"github.com/n0call/examstats/internal/render"
	"github.com/n0call/examstats/pkg/types"
)

// Options configures a run.
type Options struct {
	Render   types.RenderConfig
	Parse    types.ParseOptions
	Template *parse.Template

	// SkipFailed continues past sources that cannot be read or rendered
	// instead of aborting the run. Failures are still reported.
	SkipFailed bool
}

// Result holds one run's outcome: parsed sources and failures, both in
// input order, plus the diagnostics each source produced keyed by the
// source's resolved path.
type Result struct {
	Sources     []*types.Source
	Failures    []types.SourceFailure
	Diagnostics map[string][]parse.Diagnostic
}

// Run parses every input. Each source either parses completely or is
// recorded as a failure; with SkipFailed off the first failure aborts the
// run naming its source. A run where every source failed is always an
// error. Parsed sources carry absolute paths; failures and warnings name
// the input as given. Per-source warnings go to w.
func Run(inputs []string, opts Options, w io.Writer) (*Result, error) {
	tpl := opts.Template
	if tpl == nil {
		tpl = parse.DefaultTemplate()
	}

	var renderer render.Renderer
	if needsRenderer(inputs, opts.Render.InputType) {
		r, err := render.NewRenderer(opts.Render.Backend)
		if err != nil {
			return nil, err
		}
		renderer = r
	}

	type outcome struct {
		source *types.Source
		diags  []parse.Diagnostic
		err    error
	}

	outcomes := make([]outcome, len(inputs))
	var wg sync.WaitGroup
	for i, path := range inputs {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			text, err := render.Load(path, opts.Render.InputType, renderer)
			if err != nil {
				outcomes[i].err = err
				return
			}
			outcomes[i].source, outcomes[i].diags = parse.ParseSource(text, absPath(path), tpl, opts.Parse)
		}(i, path)
	}
	wg.Wait()

	result := &Result{Diagnostics: make(map[string][]parse.Diagnostic)}
	for i, out := range outcomes {
		if out.err != nil {
			if !opts.SkipFailed {
				return nil, fmt.Errorf("source %s: %w", inputs[i], out.err)
			}
			fmt.Fprintf(w, "warning: skipping %s: %v\n", inputs[i], out.err)
			result.Failures = append(result.Failures, types.SourceFailure{
				Source: inputs[i],
				Error:  out.err.Error(),
			})
			continue
		}
		result.Sources = append(result.Sources, out.source)
		if len(out.diags) > 0 {
			result.Diagnostics[out.source.Path] = out.diags
		}
	}

	if len(result.Sources) == 0 && len(result.Failures) > 0 {
		return nil, fmt.Errorf("all %d source(s) failed to parse", len(result.Failures))
	}

	return result, nil
}

// absPath resolves the source key emitted with results. Archived and
// aggregated records key on it, so it must not change with the working
// directory.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// needsRenderer reports whether any input will go through the PDF renderer,
// so text-only runs work on hosts without one installed.
func needsRenderer(inputs []string, kind types.InputType) bool {
	switch kind {
	case types.InputText:
		return false
	case types.InputPDF:
		return len(inputs) > 0
	}
	for _, p := range inputs {
		if strings.EqualFold(filepath.Ext(p), ".pdf") {
			return true
		}
	}
	return false
}
