// Package pipeline chains the consolidation and resolution stages:
// duplicate rows are folded on their original labels, the labels are
// resolved, resolved records are deduplicated, rows are rekeyed to
// canonical names and folded once more. Optionally the folded DNA and RNA
// columns are collapsed into binary presence.
package pipeline

import (
	"context"

	"github.com/agentstation/utc"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/axioparse/axioparse/pkg/consolidate"
	"github.com/axioparse/axioparse/pkg/dedupe"
	"github.com/axioparse/axioparse/pkg/logging"
	"github.com/axioparse/axioparse/pkg/resolver"
	"github.com/axioparse/axioparse/pkg/taxonomy"
)

// Input is one table and the labels that describe its organisms.
type Input struct {
	// Rows are sorted by original label.
	Rows []taxonomy.MeasurementRow

	// Labels carry the probe name and domain for every row key.
	Labels []resolver.Label
}

// Output is the result of a committed run.
type Output struct {
	RunID       string                    `json:"run_id" yaml:"run_id"`
	GeneratedAt utc.Time                  `json:"generated_at" yaml:"generated_at"`
	Rows        []taxonomy.MeasurementRow `json:"rows" yaml:"rows"`
	Records     []taxonomy.LineageRecord  `json:"records" yaml:"records"`
	Divergences []dedupe.Divergence       `json:"divergences,omitempty" yaml:"divergences,omitempty"`
}

// Runner executes pipeline runs against one resolver.
type Runner struct {
	resolver   *resolver.Resolver
	concurrent bool
	binary     bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency resolves labels with the resolver's worker limit.
func WithConcurrency(enabled bool) Option {
	return func(r *Runner) {
		r.concurrent = enabled
	}
}

// WithBinary collapses each DNA/RNA column pair of the final rows into
// presence calls. Sample columns are paired first half to second half.
func WithBinary(enabled bool) Option {
	return func(r *Runner) {
		r.binary = enabled
	}
}

// NewRunner creates a Runner.
func NewRunner(res *resolver.Resolver, opts ...Option) *Runner {
	r := &Runner{resolver: res}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every stage. Any stage error aborts the run with no output.
func (r *Runner) Run(ctx context.Context, in Input) (*Output, error) {
	runID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, runID)
	log := logging.FromContext(ctx)

	log.Info().Int("rows", len(in.Rows)).Int("labels", len(in.Labels)).Msg("Pipeline run started")

	rows, err := consolidate.Consolidate(in.Rows)
	if err != nil {
		return nil, err
	}

	records, err := r.resolve(ctx, in.Labels)
	if err != nil {
		log.Error().Err(err).Msg("Resolution pass failed")
		return nil, err
	}

	var divergences []dedupe.Divergence
	records = dedupe.New(
		dedupe.WithLogger(log),
		dedupe.WithDivergenceHandler(func(d dedupe.Divergence) {
			divergences = append(divergences, d)
		}),
	).Dedupe(records)

	rows, err = Substitute(rows, records)
	if err != nil {
		return nil, err
	}

	rows, err = consolidate.Consolidate(rows)
	if err != nil {
		return nil, err
	}

	if r.binary {
		if rows, err = binarize(rows); err != nil {
			return nil, err
		}
	}

	logEvent(log, len(rows), len(records), len(divergences))
	return &Output{
		RunID:       runID,
		GeneratedAt: utc.Now(),
		Rows:        rows,
		Records:     records,
		Divergences: divergences,
	}, nil
}

func (r *Runner) resolve(ctx context.Context, labels []resolver.Label) ([]taxonomy.LineageRecord, error) {
	if r.concurrent {
		return r.resolver.ResolveConcurrent(ctx, labels)
	}
	return r.resolver.Resolve(ctx, labels)
}

func binarize(rows []taxonomy.MeasurementRow) ([]taxonomy.MeasurementRow, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	pairs, err := consolidate.SplitPairs(rows[0].Samples())
	if err != nil {
		return nil, err
	}
	return consolidate.Binarize(rows, pairs)
}

func logEvent(log *zerolog.Logger, rows, records, divergences int) {
	log.Info().
		Int("rows", rows).
		Int("records", records).
		Int("divergences", divergences).
		Msg("Pipeline run completed")
}
