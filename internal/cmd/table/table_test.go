package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/axioparse/axioparse/pkg/errors"
	"github.com/axioparse/axioparse/pkg/resolver"
	"github.com/axioparse/axioparse/pkg/taxonomy"
)

func ecoli() taxonomy.LineageRecord {
	return taxonomy.LineageRecord{
		Name:       "Escherichia coli (strain K-12)",
		TaxID:      "83333",
		Domain:     "Bacteria",
		Phylum:     "Pseudomonadota",
		Genus:      "Escherichia",
		Provenance: taxonomy.NewProvenance("E. coli", "E coli"),
	}
}

func TestRecordsToTableData(t *testing.T) {
	narrow := RecordsToTableData([]taxonomy.LineageRecord{ecoli()}, false)
	assert.Equal(t, []string{"Feature ID", "Taxon", "Tax ID", "Original Species"}, narrow.Headers)
	assert.Equal(t, "Escherichia coli  strain K-12", narrow.Rows[0][0])
	assert.Equal(t, "E coli, E. coli", narrow.Rows[0][3])

	wide := RecordsToTableData([]taxonomy.LineageRecord{ecoli()}, true)
	assert.Len(t, wide.Headers, 10)
	assert.Equal(t, []string{
		"Bacteria", "", "Pseudomonadota", "", "", "", "Escherichia",
		"Escherichia coli (strain K-12)", "83333", "E coli, E. coli",
	}, wide.Rows[0])
}

func TestRowsToTableData(t *testing.T) {
	rows := []taxonomy.MeasurementRow{
		taxonomy.NewRow("a", []string{"S1", "S2"}, []taxonomy.Call{taxonomy.Detected, taxonomy.Missing}),
	}
	data := RowsToTableData("Species", rows)
	assert.Equal(t, []string{"Species", "S1", "S2"}, data.Headers)
	assert.Equal(t, [][]string{{"a", "DETECTED", ""}}, data.Rows)

	empty := RowsToTableData("Species", nil)
	assert.Equal(t, []string{"Species"}, empty.Headers)
	assert.Empty(t, empty.Rows)
}

func TestReportToTableData(t *testing.T) {
	report := resolver.Report{Total: 2, Resolved: 1, Failed: 1, Failures: []errors.ResolutionFailure{
		{Label: "Foo", Reason: "no candidates after fallback"},
	}}
	data := ReportToTableData(report)
	assert.Equal(t, []string{"Foo", "no candidates after fallback"}, data.Rows[len(data.Rows)-1])
	assert.Equal(t, []string{"Failed", "1"}, data.Rows[3])
}
