package app

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/axioparse/axioparse/internal/cmd/output"
	"github.com/axioparse/axioparse/internal/cmd/table"
	"github.com/axioparse/axioparse/internal/tables"
	"github.com/axioparse/axioparse/pkg/consolidate"
	"github.com/axioparse/axioparse/pkg/dedupe"
	"github.com/axioparse/axioparse/pkg/errors"
	"github.com/axioparse/axioparse/pkg/logging"
	"github.com/axioparse/axioparse/pkg/pipeline"
	"github.com/axioparse/axioparse/pkg/resolver"
	"github.com/axioparse/axioparse/pkg/taxonomy"
)

// NewResolveCommand creates the resolve command.
func (a *App) NewResolveCommand() *cobra.Command {
	var (
		input   string
		workers int
		exact   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve coverage-sheet species against the NCBI taxonomy",
		Long: `Resolve reads an array species-coverage sheet (CSV with Sequence or Probe,
Species and Domain columns) and resolves every distinct species to an NCBI
lineage. Species resolving to the same scientific name are merged.

If any species fails, nothing is printed except a report of the failures.`,
		Example: `  axioparse resolve --input array_species_coverage.csv
  axioparse resolve --input coverage.csv --workers 3 --exact -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := readCoverage(input)
			if err != nil {
				return err
			}

			opts := a.ResolverOptions()
			if cmd.Flags().Changed("workers") {
				opts.Workers = workers
			}
			if cmd.Flags().Changed("exact") {
				opts.PreferExactMatch = exact
			}
			res, err := a.Resolver(opts)
			if err != nil {
				return err
			}

			ctx := logging.WithOperation(a.context(cmd), "resolve")
			labels := tables.Labels(entries)
			var outcomes []resolver.Outcome
			if res.Options().Workers > 1 {
				outcomes = res.OutcomesConcurrent(ctx, labels)
			} else {
				outcomes = res.Outcomes(ctx, labels)
			}

			records, err := resolver.Reduce(outcomes)
			if err != nil {
				report := resolver.NewReport(outcomes)
				if renderErr := a.render(cmd.ErrOrStderr(), "", table.ReportToTableData(report), report); renderErr != nil {
					a.logger.Error().Err(renderErr).Msg("Failed to render resolution report")
				}
				return err
			}

			records = dedupe.New(dedupe.WithLogger(logging.FromContext(ctx))).Dedupe(records)
			return a.renderRecords(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "species coverage CSV (required)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "labels resolved concurrently (requests stay throttled)")
	cmd.Flags().BoolVar(&exact, "exact", false, "prefer the candidate whose scientific name matches exactly")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// NewConsolidateCommand creates the consolidate command.
func (a *App) NewConsolidateCommand() *cobra.Command {
	var (
		input  string
		ignore []string
		sorted bool
	)

	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Fold duplicate organism rows of a call table",
		Long: `Consolidate reads a tab-separated call table whose first column is the
organism key and folds every run of rows with the same key into one row:
DETECTED wins over everything, Secondary wins over an empty cell.

Rows must be sorted by key unless --sort is given.`,
		Example: `  axioparse consolidate --input species_table.tsv > merged.tsv
  axioparse consolidate --input table.tsv --ignore Probe --sort`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keyHeader, rows, err := readMeasurements(input, cmd.InOrStdin(), ignore)
			if err != nil {
				return err
			}
			if sorted {
				rows = tables.SortRows(rows)
			}

			merged, err := consolidate.Consolidate(rows)
			if err != nil {
				return err
			}
			a.logger.Info().Int("rows", len(rows)).Int("merged", len(merged)).Msg("Consolidated call table")

			return a.render(cmd.OutOrStdout(), output.FormatTSV, table.RowsToTableData(keyHeader, merged), merged)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "call table TSV, - for stdin")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "glob or regex patterns for auxiliary columns that are not samples")
	cmd.Flags().BoolVar(&sorted, "sort", false, "sort rows by key before folding")

	return cmd
}

// NewRunCommand creates the run command, which chains every stage.
func (a *App) NewRunCommand() *cobra.Command {
	var (
		coverage string
		input    string
		taxonOut string
		ignore   []string
		binary   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Rekey a probe call table to resolved species and fold it",
		Long: `Run reads a call table keyed by probe, maps each probe to its species via
the coverage sheet, resolves those species, and writes one row per resolved
scientific name. With --taxonomy the resolved lineages are also written as a
QIIME2 taxonomy table. With --binary the first half of the sample columns
(DNA) is paired with the second half (RNA) and each pair becomes one 1/0
presence column.`,
		Example: `  axioparse run --coverage coverage.csv --input otu_table.tsv --taxonomy taxonomy.tsv > otu.tsv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := readCoverage(coverage)
			if err != nil {
				return err
			}
			_, rows, err := readMeasurements(input, cmd.InOrStdin(), ignore)
			if err != nil {
				return err
			}
			rows, err = tables.KeyBySpecies(rows, entries)
			if err != nil {
				return err
			}
			rows = tables.SortRows(rows)

			res, err := a.Resolver(a.ResolverOptions())
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(res,
				pipeline.WithConcurrency(res.Options().Workers > 1),
				pipeline.WithBinary(binary),
			)

			out, err := runner.Run(a.context(cmd), pipeline.Input{Rows: rows, Labels: tables.LabelsFor(entries, rows)})
			if err != nil {
				return err
			}

			if taxonOut != "" {
				if err := writeTaxonomy(taxonOut, out.Records); err != nil {
					return err
				}
			}
			if len(out.Divergences) > 0 {
				data := table.DivergencesToTableData(out.Divergences)
				if err := a.render(cmd.ErrOrStderr(), output.FormatTable, data, out.Divergences); err != nil {
					return err
				}
			}
			return a.render(cmd.OutOrStdout(), output.FormatTSV, table.RowsToTableData("#OTU ID", featureRows(out.Rows)), out)
		},
	}

	cmd.Flags().StringVarP(&coverage, "coverage", "c", "", "species coverage CSV (required)")
	cmd.Flags().StringVarP(&input, "input", "i", "-", "call table TSV keyed by probe, - for stdin")
	cmd.Flags().StringVar(&taxonOut, "taxonomy", "", "write the QIIME2 taxonomy table to this path")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "glob or regex patterns for auxiliary columns that are not samples")
	cmd.Flags().BoolVar(&binary, "binary", false, "collapse DNA/RNA column pairs into 1/0 presence")
	_ = cmd.MarkFlagRequired("coverage")

	return cmd
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("axioparse %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

// context returns the command context carrying the app logger.
func (a *App) context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, a.logger)
}

// render writes data with the configured format. Table-like formats use
// tableData; json and yaml use raw. fallback applies when no format is set.
func (a *App) render(w io.Writer, fallback output.Format, tableData table.Data, raw any) error {
	format := output.Format(a.config.Format)
	if format == "" {
		format = fallback
	}
	if format == "" {
		format = output.DetectFormat("")
	}

	switch format {
	case output.FormatJSON, output.FormatYAML:
		return output.NewFormatter(format).Format(w, raw)
	default:
		return output.NewFormatter(format).Format(w, tableData)
	}
}

func (a *App) renderRecords(w io.Writer, records []taxonomy.LineageRecord) error {
	wide := output.Format(a.config.Format) == output.FormatWide
	return a.render(w, "", table.RecordsToTableData(records, wide), records)
}

func featureRows(rows []taxonomy.MeasurementRow) []taxonomy.MeasurementRow {
	out := make([]taxonomy.MeasurementRow, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
		out[i].Key = taxonomy.FeatureID(r.Key)
	}
	return out
}

func writeTaxonomy(path string, records []taxonomy.LineageRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}

	data := table.RecordsToTableData(records, false)
	if err := output.NewFormatter(output.FormatTSV).Format(f, data); err != nil {
		_ = f.Close()
		return errors.WrapIO("write", path, err)
	}
	return errors.WrapIO("close", path, f.Close())
}

func readCoverage(path string) ([]tables.CoverageEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	return tables.ReadCoverage(f, path)
}

func readMeasurements(path string, stdin io.Reader, ignore []string) (string, []taxonomy.MeasurementRow, error) {
	r := stdin
	if path != "-" && path != "" {
		f, err := os.Open(path)
		if err != nil {
			return "", nil, errors.WrapIO("open", path, err)
		}
		defer f.Close()
		r = f
	}
	return tables.ReadMeasurements(r, path, tables.ReadOptions{Ignore: ignore})
}
