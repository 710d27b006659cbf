// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns PDF result sheets into plain text by driving an
// external rendering utility. Ghostscript's txtwrite device and pdftotext
// share the same logic; they differ only in binary name and argument shape.
package render

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"

	"github.com/n0call/examstats/pkg/types"
)

const (
	binGhostscript = "gs"
	binPdftotext   = "pdftotext"
)

// Renderer extracts plain text from a PDF file. Different backends
// (Ghostscript, pdftotext) implement this interface.
type Renderer interface {
	// Name returns the backend name ("ghostscript" or "pdftotext").
	Name() string

	// Available reports whether the backend binary exists on PATH.
	Available() bool

	// Render reads the PDF at path and returns its text content.
	Render(path string) (string, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunCapture(name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunCapture(name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// renderer implements Renderer for a specific utility binary.
type renderer struct {
	name string
	bin  string
	args func(path string) []string
	exec executor
}

func (r *renderer) Name() string { return r.name }

func (r *renderer) Available() bool {
	_, err := r.exec.LookPath(r.bin)
	return err == nil
}

func (r *renderer) Render(path string) (string, error) {
	var out, errOut bytes.Buffer
	if err := r.exec.RunCapture(r.bin, r.args(path), &out, &errOut); err != nil {
		msg := bytes.TrimSpace(errOut.Bytes())
		if len(msg) > 0 {
			return "", fmt.Errorf("%s failed on %s: %s: %w", r.bin, path, msg, err)
		}
		return "", fmt.Errorf("%s failed on %s: %w", r.bin, path, err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("%s produced empty output for %s", r.bin, path)
	}
	return out.String(), nil
}

func newGhostscriptRenderer(exec executor) *renderer {
	return &renderer{
		name: string(types.BackendGhostscript),
		bin:  binGhostscript,
		args: func(path string) []string {
			return []string{"-q", "-sDEVICE=txtwrite", "-o", "-", path}
		},
		exec: exec,
	}
}

func newPdftotextRenderer(exec executor) *renderer {
	return &renderer{
		name: string(types.BackendPdftotext),
		bin:  binPdftotext,
		args: func(path string) []string {
			return []string{path, "-"}
		},
		exec: exec,
	}
}

var defaultExec executor = &osExecutor{}

// NewRenderer returns the renderer for an explicitly selected backend, or
// autodetects when backend is empty. An explicitly selected backend whose
// binary is missing is an error.
func NewRenderer(backend types.RenderBackend) (Renderer, error) {
	return newRenderer(backend, defaultExec)
}

func newRenderer(backend types.RenderBackend, exec executor) (Renderer, error) {
	switch backend {
	case "":
		return detectRenderer(exec)
	case types.BackendGhostscript:
		r := newGhostscriptRenderer(exec)
		if !r.Available() {
			return nil, fmt.Errorf("%s not found on PATH", binGhostscript)
		}
		return r, nil
	case types.BackendPdftotext:
		r := newPdftotextRenderer(exec)
		if !r.Available() {
			return nil, fmt.Errorf("%s not found on PATH", binPdftotext)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported render backend %q: use ghostscript or pdftotext", backend)
	}
}

// detectRenderer tries Ghostscript first, falls back to pdftotext.
func detectRenderer(exec executor) (Renderer, error) {
	gs := newGhostscriptRenderer(exec)
	if gs.Available() {
		return gs, nil
	}

	ptt := newPdftotextRenderer(exec)
	if ptt.Available() {
		return ptt, nil
	}

	return nil, fmt.Errorf(
		"no PDF renderer available: neither %s nor %s found on PATH",
		binGhostscript, binPdftotext,
	)
}
