// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RenderBackend identifies the PDF-to-text rendering tool.
type RenderBackend string

const (
	BackendGhostscript RenderBackend = "ghostscript"
	BackendPdftotext   RenderBackend = "pdftotext"
)

// InputType identifies how an input file should be read.
type InputType string

const (
	// InputAuto picks pdf or text by file extension.
	InputAuto InputType = "auto"
	InputPDF  InputType = "pdf"
	InputText InputType = "text"
)

// RenderConfig holds settings for the rendering stage.
type RenderConfig struct {
	// Backend selects the rendering tool: ghostscript or pdftotext.
	// Empty means autodetect, preferring ghostscript.
	Backend RenderBackend `json:"backend" yaml:"backend"`

	// InputType forces the input format instead of extension detection.
	InputType InputType `json:"input_type" yaml:"input_type"`
}

// ParseOptions holds settings for the parsing stage.
type ParseOptions struct {
	// SortByNumber reorders each exam's questions by question number.
	// Two-column report renders interleave columns, so appearance order can
	// differ from numbering; this restores numeric order. Off by default:
	// appearance order is authoritative.
	SortByNumber bool `json:"sort_by_number" yaml:"sort_by_number"`
}

// ArchiveConfig holds settings for the sitting archive.
type ArchiveConfig struct {
	// ArchiveDir is the directory holding the archive database.
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir"`
}
