// Package table converts domain values into rows for tabular CLI output.
package table

import (
	"strconv"

	"github.com/axioparse/axioparse/pkg/dedupe"
	"github.com/axioparse/axioparse/pkg/resolver"
	"github.com/axioparse/axioparse/pkg/taxonomy"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// RecordsToTableData converts lineage records to table format. The wide
// form shows every rank; the narrow one leads with the Feature ID and
// Taxon columns a QIIME2 taxonomy import expects.
func RecordsToTableData(records []taxonomy.LineageRecord, wide bool) Data {
	if !wide {
		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, []string{taxonomy.FeatureID(r.Name), r.Taxon(), r.TaxID, r.Provenance.String()})
		}
		return Data{
			Headers:         []string{"Feature ID", "Taxon", "Tax ID", "Original Species"},
			Rows:            rows,
			ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignLeft},
		}
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		ranks := r.Ranks()
		row := append([]string{}, ranks[:]...)
		row = append(row, r.Name, r.TaxID, r.Provenance.String())
		rows = append(rows, row)
	}
	return Data{
		Headers: []string{"Domain", "Kingdom", "Phylum", "Class", "Order", "Family", "Genus", "Species", "Tax ID", "Original Species"},
		Rows:    rows,
	}
}

// RowsToTableData converts measurement rows to table format, one column per sample.
func RowsToTableData(keyHeader string, rows []taxonomy.MeasurementRow) Data {
	headers := []string{keyHeader}
	if len(rows) > 0 {
		headers = append(headers, rows[0].Samples()...)
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := make([]string, 0, len(r.Cells)+1)
		line = append(line, r.Key)
		for _, c := range r.Cells {
			line = append(line, c.Call.String())
		}
		out = append(out, line)
	}
	return Data{Headers: headers, Rows: out}
}

// ReportToTableData converts a resolution report to a key-value table
// followed by one line per failure.
func ReportToTableData(report resolver.Report) Data {
	rows := [][]string{
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
		{"Total", strconv.Itoa(report.Total)},
		{"Resolved", strconv.Itoa(report.Resolved)},
		{"Failed", strconv.Itoa(report.Failed)},
	}
	for _, f := range report.Failures {
		rows = append(rows, []string{f.Label, f.Reason})
	}
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

// DivergencesToTableData lists lineage conflicts dropped during deduplication.
func DivergencesToTableData(divs []dedupe.Divergence) Data {
	rows := make([][]string, 0, len(divs))
	for _, d := range divs {
		rows = append(rows, []string{d.Name, d.Kept.Provenance.String(), d.Discarded.Provenance.String(), d.Discarded.Taxon()})
	}
	return Data{
		Headers: []string{"Species", "Kept From", "Dropped From", "Dropped Lineage"},
		Rows:    rows,
	}
}
