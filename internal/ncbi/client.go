// Package ncbi implements the taxonomy reference client against NCBI
// E-utilities: esearch for identity search and efetch for lineage records.
//
// Search failures degrade to an empty candidate list. Fetch failures are
// retried with linear backoff and reported as a FetchExhaustedError once
// the attempts are spent. Every request goes through a shared throttle so
// the service's request budget holds across concurrent callers.
package ncbi

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	"github.com/axioparse/axioparse/internal/retry"
	"github.com/axioparse/axioparse/internal/transport"
	"github.com/axioparse/axioparse/pkg/constants"
	"github.com/axioparse/axioparse/pkg/errors"
	"github.com/axioparse/axioparse/pkg/logging"
	"github.com/axioparse/axioparse/pkg/taxonomy"
)

// ServiceName identifies NCBI in errors and logs.
const ServiceName = "ncbi"

// Config holds the client's endpoint, credentials and pacing.
type Config struct {
	BaseURL string
	APIKey  string
	Email   string
	Tool    string

	// CallInterval spaces consecutive requests. Zero picks the NCBI
	// default for the presence or absence of an API key.
	CallInterval time.Duration

	// FetchBackoff is the base of the linear delay between fetch attempts.
	FetchBackoff time.Duration

	// Throttle, when set, is shared with other clients and overrides CallInterval.
	Throttle *transport.Throttle

	HTTPClient *http.Client
	Logger     *zerolog.Logger

	// Sleep replaces the backoff wait, mainly for tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Client talks to E-utilities. It keeps no state between calls beyond its
// connection handle and throttle.
type Client struct {
	cfg       Config
	transport *transport.Client
	logger    *zerolog.Logger
}

// NewClient creates a client from cfg, filling unset fields with defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.NCBIBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Tool == "" {
		cfg.Tool = constants.DefaultTool
	}
	if cfg.CallInterval == 0 {
		cfg.CallInterval = constants.AnonymousCallInterval
		if cfg.APIKey != "" {
			cfg.CallInterval = constants.CallInterval
		}
	}
	if cfg.FetchBackoff == 0 {
		cfg.FetchBackoff = constants.FetchBackoff
	}
	if cfg.Throttle == nil {
		cfg.Throttle = transport.NewThrottle(cfg.CallInterval)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	opts := []transport.Option{
		transport.WithAuthenticator(transport.EntrezAuth(cfg.APIKey, cfg.Email, cfg.Tool)),
		transport.WithThrottle(cfg.Throttle),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, transport.WithHTTPClient(cfg.HTTPClient))
	}

	return &Client{
		cfg:       cfg,
		transport: transport.New(ServiceName, opts...),
		logger:    cfg.Logger,
	}
}

// Search returns the numeric identifiers matching term, in service order.
// Any failure yields an empty list.
func (c *Client) Search(ctx context.Context, term string) []string {
	query := url.Values{
		"db":      {constants.NCBIDatabase},
		"term":    {term},
		"retmode": {"json"},
	}

	resp, err := c.transport.Get(ctx, c.cfg.BaseURL+"/esearch.fcgi", query)
	if err != nil {
		c.logger.Debug().Err(err).Str("term", term).Msg("Search request failed")
		return []string{}
	}

	var result searchResponse
	if err := transport.DecodeJSON(ServiceName, resp, &result); err != nil {
		c.logger.Debug().Err(err).Str("term", term).Msg("Search response unusable")
		return []string{}
	}
	if result.Result.Error != "" {
		c.logger.Debug().Str("term", term).Str("error", result.Result.Error).Msg("Search rejected by service")
		return []string{}
	}

	return numericIDs(result.Result.IDList)
}

// Fetch retrieves the lineage record for one identifier, making up to
// attempts tries. entity names what the identifier was fetched for and is
// only used in warnings and errors.
func (c *Client) Fetch(ctx context.Context, id, entity string, attempts int) (*taxonomy.Taxon, error) {
	log := c.logger.With().Str("tax_id", id).Str("entity", entity).Logger()

	taxon, made, err := retry.Do(ctx, retry.Policy{
		Attempts: attempts,
		Backoff:  retry.Linear(c.cfg.FetchBackoff),
		Sleep:    c.cfg.Sleep,
		OnError: func(attempt int, err error) {
			log.Warn().Err(err).Int("attempt", attempt).Int("attempts", attempts).Msg("Fetch attempt failed")
		},
	}, func(ctx context.Context, _ int) (*taxonomy.Taxon, error) {
		taxa, err := c.fetchTaxa(ctx, []string{id})
		if err != nil {
			return nil, err
		}
		if len(taxa) == 0 {
			return nil, retry.Permanent(errors.NewNotFoundError("taxon", id))
		}
		return &taxa[0], nil
	})

	switch {
	case err == nil:
		return taxon, nil
	case errors.IsNotFound(err), ctx.Err() != nil:
		return nil, err
	default:
		log.Warn().Err(err).Int("attempts", made).Msg("All fetch attempts failed")
		return nil, &errors.FetchExhaustedError{ID: id, Entity: entity, Attempts: made, Err: err}
	}
}

// SelectBest fetches all ids in one request and returns the one whose
// scientific name equals name under case folding, or ids[0] if none does.
func (c *Client) SelectBest(ctx context.Context, ids []string, name string) (string, error) {
	if len(ids) == 0 {
		return "", errors.NewValidationError("ids", ids, "no candidates to choose from")
	}

	taxa, err := c.fetchTaxa(ctx, ids)
	if err != nil {
		return "", err
	}

	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(name))
	for _, t := range taxa {
		if fold.String(t.ScientificName) == want {
			return t.TaxID, nil
		}
	}
	return ids[0], nil
}

// fetchTaxa issues one efetch request for ids.
func (c *Client) fetchTaxa(ctx context.Context, ids []string) ([]taxonomy.Taxon, error) {
	query := url.Values{
		"db":      {constants.NCBIDatabase},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
	}

	resp, err := c.transport.Get(ctx, c.cfg.BaseURL+"/efetch.fcgi", query)
	if err != nil {
		return nil, err
	}

	var set taxaSet
	if err := transport.DecodeXML(ServiceName, resp, &set); err != nil {
		return nil, err
	}
	return set.toTaxa(), nil
}

// numericIDs keeps identifiers made only of digits, trimmed.
func numericIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" && strings.IndexFunc(id, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
			out = append(out, id)
		}
	}
	return out
}

// CloseIdleConnections releases pooled connections to the service.
func (c *Client) CloseIdleConnections() {
	c.transport.CloseIdleConnections()
}
