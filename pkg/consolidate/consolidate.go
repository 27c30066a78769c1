// Package consolidate merges measurement rows that share an organism key.
//
// Rows arrive sorted by key. Each maximal run of equal keys is folded
// into one row with Combine applied per sample column; only the folded
// row survives, in the position of the run.
package consolidate

import (
	"github.com/axioparse/axioparse/pkg/errors"
	"github.com/axioparse/axioparse/pkg/taxonomy"
)

// Combine merges two calls for the same sample.
//
//	Missing   + Missing   = Missing
//	Secondary + Secondary = Secondary
//	Secondary + Missing   = Secondary (either order)
//	Detected  + anything  = Detected  (either order)
//
// Any other pairing returns ok=false.
func Combine(left, right taxonomy.Call) (taxonomy.Call, bool) {
	switch {
	case left == taxonomy.Missing && right == taxonomy.Missing:
		return taxonomy.Missing, true
	case isSecondaryOrMissing(left) && isSecondaryOrMissing(right):
		return taxonomy.Secondary, true
	case left == taxonomy.Detected || right == taxonomy.Detected:
		return taxonomy.Detected, true
	default:
		return left, false
	}
}

func isSecondaryOrMissing(c taxonomy.Call) bool {
	return c == taxonomy.Secondary || c == taxonomy.Missing
}

// Consolidate folds runs of consecutive rows with the same key.
// The input must already be sorted by key; it is not reordered and not
// modified. On error no rows are returned.
func Consolidate(rows []taxonomy.MeasurementRow) ([]taxonomy.MeasurementRow, error) {
	if len(rows) == 0 {
		return []taxonomy.MeasurementRow{}, nil
	}

	for i := 1; i < len(rows); i++ {
		if !rows[i].SameSamples(rows[0]) {
			return nil, errors.NewValidationError("samples", rows[i].Key,
				"all rows in a batch must share the same ordered sample columns")
		}
	}

	out := make([]taxonomy.MeasurementRow, 0, len(rows))
	run := 0
	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && rows[end].Key == rows[start].Key {
			end++
		}

		folded, err := fold(rows[start:end], run)
		if err != nil {
			return nil, err
		}
		out = append(out, folded)

		start = end
		run++
	}

	return out, nil
}

// fold collapses one run into its final accumulator.
func fold(run []taxonomy.MeasurementRow, index int) (taxonomy.MeasurementRow, error) {
	acc := run[0].Clone()
	for _, next := range run[1:] {
		for j := range acc.Cells {
			merged, ok := Combine(acc.Cells[j].Call, next.Cells[j].Call)
			if !ok {
				return taxonomy.MeasurementRow{}, &errors.UnmergeableCellError{
					Key:    acc.Key,
					Sample: acc.Cells[j].Sample,
					Run:    index,
					Left:   acc.Cells[j].Call.String(),
					Right:  next.Cells[j].Call.String(),
				}
			}
			acc.Cells[j].Call = merged
		}
	}
	return acc, nil
}
