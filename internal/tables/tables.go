// Package tables reads and writes the delimited files the command line
// works with: the array species-coverage sheet and sample call tables.
package tables

import (
	"cmp"
	"encoding/csv"
	"io"
	"slices"
	"strings"

	"github.com/axioparse/axioparse/internal/matcher"
	"github.com/axioparse/axioparse/pkg/errors"
	"github.com/axioparse/axioparse/pkg/resolver"
	"github.com/axioparse/axioparse/pkg/taxonomy"
)

// Coverage sheet column names. ColumnSequence is the vendor's name for the probe column.
const (
	ColumnProbe    = "Probe"
	ColumnSequence = "Sequence"
	ColumnSpecies  = "Species"
	ColumnDomain   = "Domain"
)

const bom = "\ufeff"

// CoverageEntry is one probe line of the coverage sheet.
type CoverageEntry struct {
	Probe   string `json:"probe" yaml:"probe"`
	Species string `json:"species" yaml:"species"`
	Domain  string `json:"domain" yaml:"domain"`
}

// ReadCoverage parses a comma-separated coverage sheet. name is only used in errors.
func ReadCoverage(r io.Reader, name string) ([]CoverageEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, parseError("csv", name, err)
	}

	index := columnIndex(header)
	probe, ok := index[ColumnProbe]
	if !ok {
		probe, ok = index[ColumnSequence]
	}
	if !ok {
		return nil, errors.NewValidationError("columns", header, "coverage sheet needs a Probe or Sequence column")
	}
	species, ok := index[ColumnSpecies]
	if !ok {
		return nil, errors.NewValidationError("columns", header, "coverage sheet needs a Species column")
	}
	domain, hasDomain := index[ColumnDomain]

	var entries []CoverageEntry
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError("csv", name, err)
		}

		entry := CoverageEntry{Probe: field(record, probe), Species: field(record, species)}
		if hasDomain {
			entry.Domain = field(record, domain)
		}
		if entry.Species == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Labels returns one resolver label per distinct species, sorted by
// species. Probe and domain come from the species' first line.
func Labels(entries []CoverageEntry) []resolver.Label {
	seen := make(map[string]bool, len(entries))
	labels := make([]resolver.Label, 0, len(entries))
	for _, e := range entries {
		if seen[e.Species] {
			continue
		}
		seen[e.Species] = true
		labels = append(labels, resolver.Label{Original: e.Species, Probe: e.Probe, Domain: e.Domain})
	}
	slices.SortStableFunc(labels, func(a, b resolver.Label) int {
		return cmp.Compare(a.Original, b.Original)
	})
	return labels
}

// ReadOptions controls how a call table is read.
type ReadOptions struct {
	// Ignore holds glob or regex patterns naming auxiliary columns that
	// are not samples. Matching ignores case.
	Ignore []string
}

// ReadMeasurements parses a tab-separated call table whose first column is
// the organism key and whose other columns are samples. Rows keep file order.
func ReadMeasurements(r io.Reader, name string, opts ReadOptions) (string, []taxonomy.MeasurementRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return "", nil, parseError("tsv", name, err)
	}
	if len(header) < 2 {
		return "", nil, errors.NewValidationError("columns", header, "call table needs a key column and at least one sample")
	}

	ignore, err := matcher.NewColumns(matcher.Auto, opts.Ignore...)
	if err != nil {
		return "", nil, err
	}

	var (
		samples []string
		columns []int
	)
	for _, i := range ignore.Filter(header[1:]) {
		samples = append(samples, header[i+1])
		columns = append(columns, i+1)
	}
	if len(samples) == 0 {
		return "", nil, errors.NewValidationError("columns", header, "every sample column is ignored")
	}
	if dup := firstDuplicate(samples); dup != "" {
		return "", nil, errors.NewValidationError("columns", dup, "duplicate sample column")
	}

	var rows []taxonomy.MeasurementRow
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", nil, parseError("tsv", name, err)
		}

		calls := make([]taxonomy.Call, len(columns))
		for i, col := range columns {
			calls[i] = taxonomy.ParseCall(field(record, col))
		}
		rows = append(rows, taxonomy.NewRow(field(record, 0), samples, calls))
	}
	return strings.TrimPrefix(header[0], bom), rows, nil
}

// SortRows returns rows stably sorted by key.
func SortRows(rows []taxonomy.MeasurementRow) []taxonomy.MeasurementRow {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b taxonomy.MeasurementRow) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return sorted
}

// WriteMeasurements writes rows as a tab-separated call table.
func WriteMeasurements(w io.Writer, keyHeader string, rows []taxonomy.MeasurementRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	header := []string{keyHeader}
	if len(rows) > 0 {
		header = append(header, rows[0].Samples()...)
	}
	if err := cw.Write(header); err != nil {
		return errors.WrapIO("write", "", err)
	}
	for _, row := range rows {
		line := make([]string, 0, len(row.Cells)+1)
		line = append(line, row.Key)
		for _, c := range row.Cells {
			line = append(line, c.Call.String())
		}
		if err := cw.Write(line); err != nil {
			return errors.WrapIO("write", "", err)
		}
	}
	cw.Flush()
	return errors.WrapIO("write", "", cw.Error())
}

func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, bom))
		if _, ok := index[h]; !ok {
			index[h] = i
		}
	}
	return index
}

func field(record []string, i int) string {
	if i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}

func firstDuplicate(values []string) string {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			return v
		}
		seen[v] = true
	}
	return ""
}

func parseError(format, name string, err error) error {
	perr := errors.NewParseError(format, name, err.Error(), err)
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		perr.Line = csvErr.Line
		perr.Message = csvErr.Err.Error()
	}
	return perr
}

// KeyBySpecies rekeys rows whose key is a probe name to the species the
// coverage sheet assigns that probe. Every probe must be covered.
func KeyBySpecies(rows []taxonomy.MeasurementRow, entries []CoverageEntry) ([]taxonomy.MeasurementRow, error) {
	species := make(map[string]string, len(entries))
	for _, e := range entries {
		if _, ok := species[e.Probe]; !ok {
			species[e.Probe] = e.Species
		}
	}

	out := make([]taxonomy.MeasurementRow, 0, len(rows))
	var unmatched []string
	for _, row := range rows {
		name, ok := species[row.Key]
		if !ok {
			if !slices.Contains(unmatched, row.Key) {
				unmatched = append(unmatched, row.Key)
			}
			continue
		}
		rekeyed := row.Clone()
		rekeyed.Key = name
		out = append(out, rekeyed)
	}
	if len(unmatched) > 0 {
		return nil, errors.UnmatchedKeys("probe", unmatched)
	}
	return out, nil
}

// LabelsFor returns Labels restricted to species that key at least one row.
func LabelsFor(entries []CoverageEntry, rows []taxonomy.MeasurementRow) []resolver.Label {
	present := make(map[string]bool, len(rows))
	for _, r := range rows {
		present[r.Key] = true
	}

	var kept []CoverageEntry
	for _, e := range entries {
		if present[e.Species] {
			kept = append(kept, e)
		}
	}
	return Labels(kept)
}
