package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axioparse/axioparse/internal/cmd/table"
	"github.com/axioparse/axioparse/pkg/errors"
)

type sample struct {
	TaxID   string `json:"tax_id"`
	Species string `json:"species,omitempty"`
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "JSON", "yaml", "wide", "tsv", ""} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}

	_, err := ParseFormat("xml")
	assert.True(t, errors.IsValidationError(err))
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestNewFormatter(t *testing.T) {
	assert.IsType(t, &JSONFormatter{}, NewFormatter(FormatJSON))
	assert.IsType(t, &YAMLFormatter{}, NewFormatter(FormatYAML))
	assert.IsType(t, &TSVFormatter{}, NewFormatter(FormatTSV))
	assert.IsType(t, &TableFormatter{}, NewFormatter(FormatWide))
	assert.IsType(t, &TableFormatter{}, NewFormatter("unknown"))
}

func TestTSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := table.Data{Headers: []string{"Species", "S1"}, Rows: [][]string{{"Foo bar", "DETECTED"}, {"Baz", ""}}}
	require.NoError(t, NewFormatter(FormatTSV).Format(&buf, data))
	assert.Equal(t, "Species\tS1\nFoo bar\tDETECTED\nBaz\t\n", buf.String())
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := table.Data{
		Headers:         []string{"Species", "Tax ID"},
		Rows:            [][]string{{"Escherichia coli", "562"}},
		ColumnAlignment: []table.Align{table.AlignLeft, table.AlignRight},
	}
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))
	assert.Contains(t, buf.String(), "Escherichia coli")
	assert.Contains(t, buf.String(), "562")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, []sample{{TaxID: "562", Species: "Escherichia coli"}}))
	assert.JSONEq(t, `[{"tax_id":"562","species":"Escherichia coli"}]`, buf.String())

	var tsv bytes.Buffer
	require.NoError(t, NewFormatter(FormatTSV).Format(&tsv, sample{TaxID: "562"}))
	assert.JSONEq(t, `{"tax_id":"562"}`, tsv.String())
}

func TestTableFormatterPointer(t *testing.T) {
	var buf bytes.Buffer
	data := &table.Data{Headers: []string{"Species"}, Rows: [][]string{{"Vibrio cholerae"}}}
	require.NoError(t, NewFormatter(FormatWide).Format(&buf, data))
	assert.Contains(t, strings.ToUpper(buf.String()), "VIBRIO CHOLERAE")
}

func TestStructuredFormatters(t *testing.T) {
	var js bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&js, sample{TaxID: "562"}))
	assert.Equal(t, "{\n  \"tax_id\": \"562\"\n}\n", js.String())

	var ys bytes.Buffer
	require.NoError(t, NewFormatter(FormatYAML).Format(&ys, map[string]string{"tax_id": "562"}))
	assert.Contains(t, ys.String(), "tax_id:")
	assert.Contains(t, ys.String(), "562")
}
