// Package dedupe collapses resolved lineage records that share a canonical
// name into one record whose provenance is the union of the group.
//
// Output is sorted by canonical name. Rank fields come from the first
// member of each group in input order.
// Members are not cross-checked beyond reporting a Divergence when their
// ranks differ from the kept member; the other lineage is dropped.
package dedupe

import (
	"cmp"
	"slices"

	"github.com/rs/zerolog"

	"github.com/axioparse/axioparse/pkg/logging"
	"github.com/axioparse/axioparse/pkg/taxonomy"
)

// Divergence records a group member whose lineage disagreed with the kept one.
type Divergence struct {
	Name      string                 `json:"species" yaml:"species"`
	Kept      taxonomy.LineageRecord `json:"kept" yaml:"kept"`
	Discarded taxonomy.LineageRecord `json:"discarded" yaml:"discarded"`
}

// Deduplicator merges records by canonical name.
type Deduplicator struct {
	logger       *zerolog.Logger
	onDivergence func(Divergence)
}

// Option configures a Deduplicator.
type Option func(*Deduplicator)

// WithLogger sets the logger divergences are reported to.
func WithLogger(logger *zerolog.Logger) Option {
	return func(d *Deduplicator) {
		d.logger = logger
	}
}

// WithDivergenceHandler registers fn to receive every divergence.
func WithDivergenceHandler(fn func(Divergence)) Option {
	return func(d *Deduplicator) {
		d.onDivergence = fn
	}
}

// New creates a Deduplicator.
func New(opts ...Option) *Deduplicator {
	d := &Deduplicator{logger: logging.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dedupe returns one record per canonical name, sorted by name. The input
// slice is not modified.
func (d *Deduplicator) Dedupe(records []taxonomy.LineageRecord) []taxonomy.LineageRecord {
	index := make(map[string]int, len(records))
	out := make([]taxonomy.LineageRecord, 0, len(records))

	for _, rec := range records {
		i, seen := index[rec.Name]
		if !seen {
			kept := rec
			kept.Provenance = taxonomy.NewProvenance(rec.Provenance...)
			index[rec.Name] = len(out)
			out = append(out, kept)
			continue
		}

		if !out[i].SameLineage(rec) {
			d.report(Divergence{Name: rec.Name, Kept: out[i], Discarded: rec})
		}
		out[i].Provenance = out[i].Provenance.Union(rec.Provenance)
	}

	slices.SortFunc(out, func(a, b taxonomy.LineageRecord) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

func (d *Deduplicator) report(div Divergence) {
	d.logger.Warn().
		Str("species", div.Name).
		Strs("kept_from", div.Kept.Provenance).
		Strs("discarded_from", div.Discarded.Provenance).
		Strs("kept_lineage", lineage(div.Kept)).
		Strs("discarded_lineage", lineage(div.Discarded)).
		Msg("Duplicate species resolved to divergent lineages; keeping the first")

	if d.onDivergence != nil {
		d.onDivergence(div)
	}
}

func lineage(r taxonomy.LineageRecord) []string {
	ranks := r.Ranks()
	return ranks[:]
}

// Dedupe merges records with a default Deduplicator.
func Dedupe(records []taxonomy.LineageRecord) []taxonomy.LineageRecord {
	return New().Dedupe(records)
}
