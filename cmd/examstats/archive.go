// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/n0call/examstats/internal/archive"
	"github.com/n0call/examstats/internal/export"
	"github.com/n0call/examstats/internal/pipeline"
	"github.com/n0call/examstats/internal/stats"
	"github.com/n0call/examstats/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage the sitting archive (store, stats, export)",
	Long: `Archive accumulates parsed exam sittings in a local SQLite database so
accuracy statistics can build up across many runs. Use subcommands to store
new sittings, recompute statistics, or export the archived rows.`,
}

// --- store subcommand ---

var archiveStoreCmd = &cobra.Command{
	Use:   "store [inputs...]",
	Short: "Parse result sheets and add them to the archive",
	Long: `Store parses the given inputs and ingests each source into the archive.
Re-storing a previously archived source replaces its rows with the fresh
parse.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runArchiveStore,
}

func runArchiveStore(cmd *cobra.Command, args []string) error {
	opts := pipelineOptions(cmd)

	result, err := pipeline.Run(args, opts, os.Stderr)
	if err != nil {
		return err
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.IngestAll(context.Background(), result.Sources, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d source(s) failed to archive", summary.Failed)
	}
	if n := len(result.Failures); n > 0 {
		return fmt.Errorf("%d source(s) failed to parse", n)
	}
	return nil
}

// --- stats subcommand ---

var archiveStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Recompute aggregate statistics over everything archived",
	Long: `Stats flattens every archived question across all stored sittings and
recomputes the per-question, per-section, and per-subsection accuracy tables,
sorted hardest-first.`,
	RunE: runArchiveStats,
}

// archiveStats is the document shape of "archive stats" output.
type archiveStats struct {
	Archive         archive.Counts    `json:"archive" yaml:"archive"`
	Summary         types.Summary     `json:"summary" yaml:"summary"`
	QuestionStats   []types.StatEntry `json:"question_stats" yaml:"question_stats"`
	SectionStats    []types.StatEntry `json:"section_stats" yaml:"section_stats"`
	SubsectionStats []types.StatEntry `json:"subsection_stats" yaml:"subsection_stats"`
}

func runArchiveStats(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	counts, err := store.Count(ctx)
	if err != nil {
		return err
	}
	questions, err := store.Questions(ctx)
	if err != nil {
		return err
	}

	doc := archiveStats{
		Archive: counts,
		Summary: types.Summarize(questions),
	}
	doc.Summary.Exams = counts.Exams
	doc.QuestionStats, doc.SectionStats, doc.SubsectionStats = stats.Aggregate(questions)

	format, _ := cmd.Flags().GetString("format")
	pretty, _ := cmd.Flags().GetBool("pretty")
	return export.WriteDocument(os.Stdout, doc, export.Format(format), pretty)
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived question rows to JSON, YAML, or CSV",
	RunE:  runArchiveExport,
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.Rows(context.Background())
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "csv" {
		return export.WriteQuestionsCSV(os.Stdout, rows)
	}
	pretty, _ := cmd.Flags().GetBool("pretty")
	return export.WriteDocument(os.Stdout, rows, export.Format(format), pretty)
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*archive.Store, error) {
	dir, _ := cmd.Flags().GetString("archive-dir")
	return archive.NewStore(types.ArchiveConfig{ArchiveDir: dir})
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	archiveCmd.PersistentFlags().String("archive-dir", "archive", "directory holding the archive database")

	// Store shares the parse pipeline flags.
	archiveStoreCmd.Flags().String("input-type", "auto", "input format: auto, pdf, or text")
	archiveStoreCmd.Flags().String("backend", "", "PDF render backend: ghostscript or pdftotext (default: autodetect)")
	archiveStoreCmd.Flags().Bool("sort-rows", false, "sort each exam's questions by number (normalizes two-column renders)")
	archiveStoreCmd.Flags().Bool("skip-failed", false, "skip unreadable sources instead of aborting the run")

	archiveStatsCmd.Flags().String("format", "json", "output format: json or yaml")
	archiveStatsCmd.Flags().Bool("pretty", false, "pretty-print JSON output")

	archiveExportCmd.Flags().String("format", "json", "export format: json, yaml, or csv")
	archiveExportCmd.Flags().Bool("pretty", false, "pretty-print JSON output")

	archiveCmd.AddCommand(archiveStoreCmd)
	archiveCmd.AddCommand(archiveStatsCmd)
	archiveCmd.AddCommand(archiveExportCmd)

	rootCmd.AddCommand(archiveCmd)
}
