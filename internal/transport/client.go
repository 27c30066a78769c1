// Package transport provides the HTTP plumbing shared by reference
// service clients: credential injection, a call throttle and response
// decoding.
package transport

import (
	"context"
	"net/http"
	"net/url"

	"github.com/axioparse/axioparse/pkg/constants"
	"github.com/axioparse/axioparse/pkg/errors"
)

// Client provides HTTP client functionality with authentication and throttling.
type Client struct {
	service  string
	http     *http.Client
	auth     Authenticator
	throttle *Throttle
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithAuthenticator sets the credential strategy.
func WithAuthenticator(auth Authenticator) Option {
	return func(c *Client) {
		c.auth = auth
	}
}

// WithThrottle shares a throttle with other clients of the same service.
func WithThrottle(t *Throttle) Option {
	return func(c *Client) {
		c.throttle = t
	}
}

// New creates a transport client for the named service.
func New(service string, opts ...Option) *Client {
	c := &Client{
		service:  service,
		http:     &http.Client{Timeout: constants.DefaultHTTPTimeout},
		auth:     &NoAuth{},
		throttle: NewThrottle(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Service returns the service name used in errors.
func (c *Client) Service() string {
	return c.service
}

// Do waits for the throttle, applies credentials and performs the request.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	c.auth.Apply(req)
	req.Header.Set("Accept", "application/json, text/xml")

	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		return nil, &errors.APIError{
			Service:  c.service,
			Endpoint: req.URL.Path,
			Message:  "request failed",
			Err:      err,
		}
	}
	return resp, nil
}

// Get performs a GET request against endpoint with the given query.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (*http.Response, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.NewValidationError("endpoint", endpoint, err.Error())
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.NewValidationError("endpoint", endpoint, err.Error())
	}
	return c.Do(ctx, req)
}

// CloseIdleConnections releases pooled connections.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}
