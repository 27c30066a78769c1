package taxonomy

import "slices"

// Cell is one sample column of a MeasurementRow.
type Cell struct {
	Sample string `json:"sample" yaml:"sample"`
	Call   Call   `json:"call" yaml:"call"`
}

// MeasurementRow is an organism key plus an ordered sample→call mapping.
// All rows in one consolidation batch share the same sample order.
type MeasurementRow struct {
	Key   string `json:"key" yaml:"key"`
	Cells []Cell `json:"cells" yaml:"cells"`
}

// NewRow builds a row from parallel sample and call slices.
func NewRow(key string, samples []string, calls []Call) MeasurementRow {
	cells := make([]Cell, len(samples))
	for i, s := range samples {
		var c Call
		if i < len(calls) {
			c = calls[i]
		}
		cells[i] = Cell{Sample: s, Call: c}
	}
	return MeasurementRow{Key: key, Cells: cells}
}

// Samples returns the row's sample identifiers in column order.
func (r MeasurementRow) Samples() []string {
	samples := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		samples[i] = c.Sample
	}
	return samples
}

// Calls returns the row's calls in column order.
func (r MeasurementRow) Calls() []Call {
	calls := make([]Call, len(r.Cells))
	for i, c := range r.Cells {
		calls[i] = c.Call
	}
	return calls
}

// Clone returns a deep copy of the row.
func (r MeasurementRow) Clone() MeasurementRow {
	return MeasurementRow{Key: r.Key, Cells: slices.Clone(r.Cells)}
}

// SameSamples reports whether both rows carry the same samples in the same order.
func (r MeasurementRow) SameSamples(other MeasurementRow) bool {
	if len(r.Cells) != len(other.Cells) {
		return false
	}
	for i := range r.Cells {
		if r.Cells[i].Sample != other.Cells[i].Sample {
			return false
		}
	}
	return true
}
