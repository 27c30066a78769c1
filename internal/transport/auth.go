package transport

import "net/http"

// Authenticator applies credentials to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) {}

// QueryAuth adds credentials as query parameters. Empty values are skipped.
type QueryAuth struct {
	Params map[string]string
}

// Apply implements the Authenticator interface for QueryAuth.
func (a *QueryAuth) Apply(req *http.Request) {
	if req.URL == nil {
		return
	}

	query := req.URL.Query()
	for k, v := range a.Params {
		if v != "" {
			query.Set(k, v)
		}
	}
	req.URL.RawQuery = query.Encode()
}

// EntrezAuth identifies the caller to NCBI E-utilities with the
// api_key, email and tool parameters.
func EntrezAuth(apiKey, email, tool string) *QueryAuth {
	return &QueryAuth{Params: map[string]string{
		"api_key": apiKey,
		"email":   email,
		"tool":    tool,
	}}
}
