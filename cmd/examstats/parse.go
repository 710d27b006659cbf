// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/n0call/examstats/internal/export"
	"github.com/n0call/examstats/internal/pipeline"
	"github.com/n0call/examstats/internal/stats"
	"github.com/n0call/examstats/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [inputs...]",
	Short: "Parse result sheets into structured records and statistics",
	Long: `Parse converts one or more exam result files into a structured document.
A single input produces that file's parse result; multiple inputs produce a
combined aggregate with per-question, per-section, and per-subsection
accuracy tables sorted hardest-first, plus each file's individual result.

PDF inputs are rendered to text via the selected backend; plain-text inputs
are read directly.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	opts := pipelineOptions(cmd)

	result, err := pipeline.Run(args, opts, os.Stderr)
	if err != nil {
		return err
	}

	if show, _ := cmd.Flags().GetBool("diagnostics"); show {
		printDiagnostics(result)
	}

	var document any
	if len(result.Sources) == 1 && len(result.Failures) == 0 {
		document = result.Sources[0]
	} else {
		document = stats.Combine(result.Sources, result.Failures)
	}

	if err := writeCSVOutputs(cmd, result.Sources); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	pretty, _ := cmd.Flags().GetBool("pretty")
	outPath, _ := cmd.Flags().GetString("out")

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := export.WriteDocument(out, document, export.Format(format), pretty); err != nil {
		return err
	}

	if n := len(result.Failures); n > 0 {
		return fmt.Errorf("%d source(s) failed to parse", n)
	}
	return nil
}

func pipelineOptions(cmd *cobra.Command) pipeline.Options {
	backend, _ := cmd.Flags().GetString("backend")
	if backend == "" {
		backend = viper.GetString("backend")
	}
	inputType, _ := cmd.Flags().GetString("input-type")
	sortRows, _ := cmd.Flags().GetBool("sort-rows")
	skipFailed, _ := cmd.Flags().GetBool("skip-failed")

	return pipeline.Options{
		Render: types.RenderConfig{
			Backend:   types.RenderBackend(backend),
			InputType: types.InputType(inputType),
		},
		Parse:      types.ParseOptions{SortByNumber: sortRows},
		SkipFailed: skipFailed,
	}
}

func printDiagnostics(result *pipeline.Result) {
	for _, src := range result.Sources {
		for _, d := range result.Diagnostics[src.Path] {
			fmt.Fprintf(os.Stderr, "diagnostic: %s:%d: %s: %q\n", src.Path, d.Line, d.Reason, d.Text)
		}
	}
}

// writeCSVOutputs writes the optional CSV projections: flattened question
// rows and the three aggregate tables computed across every parsed source.
func writeCSVOutputs(cmd *cobra.Command, sources []*types.Source) error {
	csvPath, _ := cmd.Flags().GetString("csv")
	statsPath, _ := cmd.Flags().GetString("stats-csv")
	sectionPath, _ := cmd.Flags().GetString("section-stats-csv")
	subsectionPath, _ := cmd.Flags().GetString("subsection-stats-csv")
	if csvPath == "" && statsPath == "" && sectionPath == "" && subsectionPath == "" {
		return nil
	}

	var rows []types.FlatRow
	var questions []types.QuestionResult
	for _, src := range sources {
		rows = append(rows, src.FlatRows()...)
		for _, exam := range src.ExamList() {
			questions = append(questions, exam.Questions...)
		}
	}
	question, section, subsection := stats.Aggregate(questions)

	if csvPath != "" {
		if err := writeCSVFile(csvPath, func(f *os.File) error {
			return export.WriteQuestionsCSV(f, rows)
		}); err != nil {
			return err
		}
	}
	if statsPath != "" {
		if err := writeCSVFile(statsPath, func(f *os.File) error {
			return export.WriteStatsCSV(f, "question_id", question)
		}); err != nil {
			return err
		}
	}
	if sectionPath != "" {
		if err := writeCSVFile(sectionPath, func(f *os.File) error {
			return export.WriteStatsCSV(f, "section_id", section)
		}); err != nil {
			return err
		}
	}
	if subsectionPath != "" {
		if err := writeCSVFile(subsectionPath, func(f *os.File) error {
			return export.WriteStatsCSV(f, "subsection_id", subsection)
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func init() {
	parseCmd.Flags().String("input-type", "auto", "input format: auto, pdf, or text")
	parseCmd.Flags().String("backend", "", "PDF render backend: ghostscript or pdftotext (default: autodetect)")
	parseCmd.Flags().String("format", "json", "output format: json or yaml")
	parseCmd.Flags().String("out", "", "write output to a file instead of stdout")
	parseCmd.Flags().Bool("pretty", false, "pretty-print JSON output")
	parseCmd.Flags().String("csv", "", "write flattened question rows to a CSV file")
	parseCmd.Flags().String("stats-csv", "", "write per-question stats to a CSV file")
	parseCmd.Flags().String("section-stats-csv", "", "write per-section stats to a CSV file")
	parseCmd.Flags().String("subsection-stats-csv", "", "write per-subsection stats to a CSV file")
	parseCmd.Flags().Bool("sort-rows", false, "sort each exam's questions by number (normalizes two-column renders)")
	parseCmd.Flags().Bool("skip-failed", false, "skip unreadable sources instead of aborting the run")
	parseCmd.Flags().Bool("diagnostics", false, "print skipped and suspicious rows to stderr")

	rootCmd.AddCommand(parseCmd)
}
