package pipeline

import (
	"cmp"
	"slices"

	"github.com/axioparse/axioparse/pkg/errors"
	"github.com/axioparse/axioparse/pkg/taxonomy"
)

// Substitute rekeys rows from their original labels to the canonical names
// of the records whose provenance contains them. Every key must match; the
// error names all that do not. The result is stably sorted by the new key
// so runs of the same canonical name are adjacent.
func Substitute(rows []taxonomy.MeasurementRow, records []taxonomy.LineageRecord) ([]taxonomy.MeasurementRow, error) {
	canonical := make(map[string]string)
	for _, rec := range records {
		for _, label := range rec.Provenance {
			canonical[label] = rec.Name
		}
	}

	out := make([]taxonomy.MeasurementRow, 0, len(rows))
	var unmatched []string
	for _, row := range rows {
		name, ok := canonical[row.Key]
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
		return nil, errors.UnmatchedKeys("species", unmatched)
	}

	slices.SortStableFunc(out, func(a, b taxonomy.MeasurementRow) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return out, nil
}
