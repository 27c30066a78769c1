package consolidate

import (
	"fmt"

	"github.com/axioparse/axioparse/pkg/errors"
	"github.com/axioparse/axioparse/pkg/taxonomy"
)

// Presence calls written by Binarize. They are outside the three-state
// vocabulary, so binarized rows cannot be folded again.
const (
	Present taxonomy.Call = "1"
	Absent  taxonomy.Call = "0"
)

// Pair names the DNA and RNA columns measured for one sample.
type Pair struct {
	DNA string
	RNA string
}

// SplitPairs pairs the first half of samples with the second half by
// position, the layout the array exports use.
func SplitPairs(samples []string) ([]Pair, error) {
	if len(samples)%2 != 0 {
		return nil, errors.NewValidationError("samples", len(samples),
			fmt.Sprintf("cannot pair %d sample columns into DNA and RNA halves", len(samples)))
	}
	half := len(samples) / 2
	pairs := make([]Pair, half)
	for i := range pairs {
		pairs[i] = Pair{DNA: samples[i], RNA: samples[i+half]}
	}
	return pairs, nil
}

// Binarize collapses each pair into one column named after its DNA column,
// holding Present when either call is not Missing and Absent otherwise.
// Columns outside pairs are dropped. The input is not modified.
func Binarize(rows []taxonomy.MeasurementRow, pairs []Pair) ([]taxonomy.MeasurementRow, error) {
	out := make([]taxonomy.MeasurementRow, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	index := make(map[string]int, len(rows[0].Cells))
	for i, c := range rows[0].Cells {
		index[c.Sample] = i
	}
	cols := make([][2]int, len(pairs))
	for i, p := range pairs {
		dna, ok := index[p.DNA]
		if !ok {
			return nil, errors.NewValidationError("pairs", p.DNA, "unknown DNA sample column")
		}
		rna, ok := index[p.RNA]
		if !ok {
			return nil, errors.NewValidationError("pairs", p.RNA, "unknown RNA sample column")
		}
		cols[i] = [2]int{dna, rna}
	}

	for _, r := range rows {
		if !r.SameSamples(rows[0]) {
			return nil, errors.NewValidationError("samples", r.Key,
				"all rows in a batch must share the same ordered sample columns")
		}
		cells := make([]taxonomy.Cell, len(pairs))
		for i, p := range pairs {
			call := Absent
			if r.Cells[cols[i][0]].Call != taxonomy.Missing || r.Cells[cols[i][1]].Call != taxonomy.Missing {
				call = Present
			}
			cells[i] = taxonomy.Cell{Sample: p.DNA, Call: call}
		}
		out = append(out, taxonomy.MeasurementRow{Key: r.Key, Cells: cells})
	}
	return out, nil
}
