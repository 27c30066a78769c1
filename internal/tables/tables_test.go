package tables

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axioparse/axioparse/pkg/errors"
	"github.com/axioparse/axioparse/pkg/resolver"
	"github.com/axioparse/axioparse/pkg/taxonomy"
)

const coverageCSV = "\ufeffSequence,Species,Family,Domain\n" +
	"Vibrio cholerae O1 chr1,Vibrio,Vibrionaceae,Bacteria\n" +
	"Escherichia coli K-12,E. coli,Enterobacteriaceae,Bacteria_noFamily\n" +
	"Escherichia coli O157,E. coli,Enterobacteriaceae,Bacteria_noFamily\n" +
	"Unassigned probe,,,\n"

func TestReadCoverage(t *testing.T) {
	entries, err := ReadCoverage(strings.NewReader(coverageCSV), "coverage.csv")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, CoverageEntry{Probe: "Vibrio cholerae O1 chr1", Species: "Vibrio", Domain: "Bacteria"}, entries[0])

	assert.Equal(t, []resolver.Label{
		{Original: "E. coli", Probe: "Escherichia coli K-12", Domain: "Bacteria_noFamily"},
		{Original: "Vibrio", Probe: "Vibrio cholerae O1 chr1", Domain: "Bacteria"},
	}, Labels(entries))
}

func TestReadCoverageMissingColumns(t *testing.T) {
	_, err := ReadCoverage(strings.NewReader("Species,Domain\nFoo,Bacteria\n"), "c.csv")
	assert.True(t, errors.IsValidationError(err))

	_, err = ReadCoverage(strings.NewReader("Probe,Domain\nFoo,Bacteria\n"), "c.csv")
	assert.True(t, errors.IsValidationError(err))

	_, err = ReadCoverage(strings.NewReader(""), "c.csv")
	var perr *errors.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestReadMeasurements(t *testing.T) {
	in := "Species\tProbe\tS1\tS2\n" +
		"E. coli\tp1\tDETECTED\t\n" +
		"E. coli\tp2\t\tsecondary\n" +
		"Vibrio\tp3\tNaN\tSecondary\n"

	key, rows, err := ReadMeasurements(strings.NewReader(in), "calls.tsv", ReadOptions{Ignore: []string{"Probe"}})
	require.NoError(t, err)
	assert.Equal(t, "Species", key)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"S1", "S2"}, rows[0].Samples())
	assert.Equal(t, []taxonomy.Call{taxonomy.Detected, taxonomy.Missing}, rows[0].Calls())
	assert.Equal(t, []taxonomy.Call{taxonomy.Missing, taxonomy.Secondary}, rows[1].Calls())
	assert.Equal(t, []taxonomy.Call{taxonomy.Missing, taxonomy.Secondary}, rows[2].Calls())
}

func TestReadMeasurementsErrors(t *testing.T) {
	_, _, err := ReadMeasurements(strings.NewReader("Species\n"), "x.tsv", ReadOptions{})
	assert.True(t, errors.IsValidationError(err))

	_, _, err = ReadMeasurements(strings.NewReader("Species\tS1\tS1\n"), "x.tsv", ReadOptions{})
	assert.True(t, errors.IsValidationError(err))

	_, _, err = ReadMeasurements(strings.NewReader("Species\tS1\na\tDETECTED\textra\n"), "x.tsv", ReadOptions{})
	var perr *errors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, "x.tsv", perr.File)
}

func TestSortRows(t *testing.T) {
	rows := []taxonomy.MeasurementRow{{Key: "b"}, {Key: "a", Cells: []taxonomy.Cell{{Sample: "1"}}}, {Key: "a"}}
	sorted := SortRows(rows)
	assert.Equal(t, []string{"a", "a", "b"}, []string{sorted[0].Key, sorted[1].Key, sorted[2].Key})
	assert.Len(t, sorted[0].Cells, 1)
	assert.Equal(t, "b", rows[0].Key)
}

func TestWriteMeasurements(t *testing.T) {
	rows := []taxonomy.MeasurementRow{
		taxonomy.NewRow("E. coli", []string{"S1", "S2"}, []taxonomy.Call{taxonomy.Detected, taxonomy.Secondary}),
		taxonomy.NewRow("Vibrio", []string{"S1", "S2"}, []taxonomy.Call{taxonomy.Missing, taxonomy.Missing}),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMeasurements(&buf, "Species", rows))
	assert.Equal(t, "Species\tS1\tS2\nE. coli\tDETECTED\tSecondary\nVibrio\t\t\n", buf.String())
}

func TestKeyBySpecies(t *testing.T) {
	entries, err := ReadCoverage(strings.NewReader(coverageCSV), "coverage.csv")
	require.NoError(t, err)

	samples := []string{"S1"}
	rows := []taxonomy.MeasurementRow{
		taxonomy.NewRow("Escherichia coli O157", samples, []taxonomy.Call{taxonomy.Detected}),
		taxonomy.NewRow("Escherichia coli K-12", samples, []taxonomy.Call{taxonomy.Missing}),
	}

	keyed, err := KeyBySpecies(rows, entries)
	require.NoError(t, err)
	assert.Equal(t, "E. coli", keyed[0].Key)
	assert.Equal(t, "E. coli", keyed[1].Key)
	assert.Equal(t, "Escherichia coli O157", rows[0].Key)

	assert.Equal(t, []resolver.Label{
		{Original: "E. coli", Probe: "Escherichia coli K-12", Domain: "Bacteria_noFamily"},
	}, LabelsFor(entries, keyed))

	_, err = KeyBySpecies(append(rows, taxonomy.NewRow("Unknown probe", samples, nil)), entries)
	var verr *errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "probe", verr.Field)
}

func TestReadMeasurementsIgnorePatterns(t *testing.T) {
	in := "Species\tprobe\tS1_dna\tS1_rna\tS2_dna\n" +
		"a\tp\tDETECTED\t\t\n"

	_, rows, err := ReadMeasurements(strings.NewReader(in), "x.tsv", ReadOptions{Ignore: []string{"Probe", "*_rna"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"S1_dna", "S2_dna"}, rows[0].Samples())

	_, _, err = ReadMeasurements(strings.NewReader(in), "x.tsv", ReadOptions{Ignore: []string{"*"}})
	assert.True(t, errors.IsValidationError(err))

	_, _, err = ReadMeasurements(strings.NewReader(in), "x.tsv", ReadOptions{Ignore: []string{"(bad"}})
	assert.True(t, errors.IsValidationError(err))
}
