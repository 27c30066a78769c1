package resolver

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/axioparse/axioparse/pkg/constants"
	"github.com/axioparse/axioparse/pkg/errors"
	"github.com/axioparse/axioparse/pkg/logging"
	"github.com/axioparse/axioparse/pkg/taxonomy"
)

// Failure reasons recorded on a BatchResolutionError.
const (
	ReasonNoCandidates   = "no candidates after fallback"
	ReasonFetchExhausted = "fetch exhausted retries"
	ReasonNoRecord       = "no record for identifier"
	ReasonCanceled       = "canceled"
)

// Client is the reference service as the resolver sees it.
type Client interface {
	// Search returns numeric identifiers for term. Failures yield an empty list.
	Search(ctx context.Context, term string) []string

	// Fetch retrieves one identifier's record, making up to attempts tries.
	Fetch(ctx context.Context, id, entity string, attempts int) (*taxonomy.Taxon, error)
}

// BestSelector is implemented by clients that can pick the candidate whose
// scientific name matches a label exactly.
type BestSelector interface {
	SelectBest(ctx context.Context, ids []string, name string) (string, error)
}

// Label is one organism to resolve.
type Label struct {
	// Original is the probe-derived organism label.
	Original string `json:"original" yaml:"original"`

	// Probe is the fallback query used when Original is inconclusive.
	Probe string `json:"probe" yaml:"probe"`

	// Domain is the raw domain qualifier from the coverage sheet.
	Domain string `json:"domain" yaml:"domain"`
}

// Outcome is the result of resolving one label. Exactly one of Record and
// Err is set.
type Outcome struct {
	Label  Label
	Record *taxonomy.LineageRecord
	Err    error
}

// Failed reports whether the label could not be resolved.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Options tune a Resolver.
type Options struct {
	// MaxCandidates is the largest primary result treated as conclusive.
	MaxCandidates int

	// FetchRetries is the total number of fetch attempts per label.
	FetchRetries int

	// PreferExactMatch asks the client, when it can, for the candidate whose
	// scientific name equals the searched term.
	PreferExactMatch bool

	// Workers bounds concurrent labels in ResolveConcurrent.
	Workers int

	Logger *zerolog.Logger
}

// DefaultOptions returns the reference pipeline's settings.
func DefaultOptions() Options {
	return Options{
		MaxCandidates: constants.MaxCandidates,
		FetchRetries:  constants.FetchRetries,
		Workers:       constants.DefaultWorkers,
	}
}

// Resolver turns labels into lineage records. It holds no per-pass state
// and may be reused.
type Resolver struct {
	client Client
	opts   Options
	logger *zerolog.Logger
}

// New creates a Resolver. Zero option fields take their defaults.
func New(client Client, opts Options) *Resolver {
	defaults := DefaultOptions()
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = defaults.MaxCandidates
	}
	if opts.FetchRetries <= 0 {
		opts.FetchRetries = defaults.FetchRetries
	}
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{client: client, opts: opts, logger: logger}
}

// Options returns the effective options.
func (r *Resolver) Options() Options {
	return r.opts
}

// Outcomes resolves every label sequentially and returns one outcome per
// label, in input order. It never stops early on a failed label; once ctx
// ends, remaining labels are marked canceled.
func (r *Resolver) Outcomes(ctx context.Context, labels []Label) []Outcome {
	outcomes := make([]Outcome, len(labels))
	for i, label := range labels {
		outcomes[i] = r.resolveOne(ctx, label)
	}
	return outcomes
}

// Resolve runs a sequential pass and reduces it.
func (r *Resolver) Resolve(ctx context.Context, labels []Label) ([]taxonomy.LineageRecord, error) {
	return Reduce(r.Outcomes(ctx, labels))
}

// OutcomesConcurrent is Outcomes with up to Workers labels in flight.
// Request pacing is left to the client's shared throttle, so the aggregate
// call rate matches a sequential pass. Outcomes keep input order.
func (r *Resolver) OutcomesConcurrent(ctx context.Context, labels []Label) []Outcome {
	outcomes := make([]Outcome, len(labels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, label := range labels {
		g.Go(func() error {
			outcomes[i] = r.resolveOne(gctx, label)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// ResolveConcurrent runs a concurrent pass and reduces it.
func (r *Resolver) ResolveConcurrent(ctx context.Context, labels []Label) ([]taxonomy.LineageRecord, error) {
	return Reduce(r.OutcomesConcurrent(ctx, labels))
}

// Reduce commits a pass: all records when every outcome succeeded,
// otherwise a BatchResolutionError listing every failed label in order.
func Reduce(outcomes []Outcome) ([]taxonomy.LineageRecord, error) {
	var failures []errors.ResolutionFailure
	records := make([]taxonomy.LineageRecord, 0, len(outcomes))

	for _, o := range outcomes {
		if o.Failed() {
			failures = append(failures, errors.ResolutionFailure{
				Label:  o.Label.Original,
				Reason: reason(o.Err),
				Err:    o.Err,
			})
			continue
		}
		records = append(records, *o.Record)
	}

	if len(failures) > 0 {
		return nil, &errors.BatchResolutionError{Failures: failures}
	}
	return records, nil
}

func (r *Resolver) resolveOne(ctx context.Context, label Label) Outcome {
	ctx = logging.WithLabel(logging.WithLogger(ctx, r.logger), label.Original)
	log := logging.FromContext(ctx)

	if err := ctx.Err(); err != nil {
		return Outcome{Label: label, Err: err}
	}

	ids := r.client.Search(ctx, label.Original)
	term := label.Original
	if len(ids) == 0 || len(ids) > r.opts.MaxCandidates {
		log.Info().Int("candidates", len(ids)).Str("probe", label.Probe).Msg("Using fallback search")
		var terms []string
		ids, term, terms = r.fallback(ctx, label.Probe)
		if len(ids) == 0 {
			log.Warn().Strs("terms", terms).Msg("No candidates after fallback")
			if err := ctx.Err(); err != nil {
				return Outcome{Label: label, Err: err}
			}
			return Outcome{Label: label, Err: &errors.NoCandidatesError{Label: label.Original, Terms: append([]string{label.Original}, terms...)}}
		}
	}

	id := r.choose(ctx, ids, term)
	taxon, err := r.client.Fetch(ctx, id, label.Original, r.opts.FetchRetries)
	if err != nil {
		log.Warn().Err(err).Str("tax_id", id).Msg("Label not resolved")
		return Outcome{Label: label, Err: err}
	}

	record := taxonomy.NewLineageRecord(label.Original, taxonomy.CleanDomain(label.Domain), *taxon)
	log.Debug().Str("tax_id", record.TaxID).Str("species", record.Name).Msg("Label resolved")
	return Outcome{Label: label, Record: &record}
}

// fallback searches the probe's terms until one yields candidates. It
// returns the candidates, the term that produced them, and every term tried.
func (r *Resolver) fallback(ctx context.Context, probe string) ([]string, string, []string) {
	var tried []string
	for _, term := range FallbackTerms(probe) {
		if ctx.Err() != nil {
			break
		}
		tried = append(tried, term)
		if ids := r.client.Search(ctx, term); len(ids) > 0 {
			return ids, term, tried
		}
	}
	return nil, "", tried
}

// choose picks the identifier to fetch: the first candidate, or the exact
// scientific-name match when enabled and supported.
func (r *Resolver) choose(ctx context.Context, ids []string, term string) string {
	if !r.opts.PreferExactMatch || len(ids) < 2 {
		return ids[0]
	}
	selector, ok := r.client.(BestSelector)
	if !ok {
		return ids[0]
	}
	id, err := selector.SelectBest(ctx, ids, term)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("Exact match lookup failed; using first candidate")
		return ids[0]
	}
	return id
}

func reason(err error) string {
	switch {
	case errors.Is(err, errors.ErrNoCandidates):
		return ReasonNoCandidates
	case errors.Is(err, errors.ErrFetchExhausted):
		return ReasonFetchExhausted
	case errors.IsNotFound(err):
		return ReasonNoRecord
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	default:
		return err.Error()
	}
}
