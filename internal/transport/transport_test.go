package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axioparse/axioparse/pkg/errors"
)

func TestNoAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header), URL: &url.URL{}}
	(&NoAuth{}).Apply(req)
	assert.Empty(t, req.Header)
	assert.Empty(t, req.URL.RawQuery)
}

func TestEntrezAuth(t *testing.T) {
	reqURL, _ := url.Parse("https://example.com/esearch.fcgi?db=taxonomy")
	req := &http.Request{URL: reqURL, Header: make(http.Header)}

	EntrezAuth("secret", "lab@example.com", "").Apply(req)

	q := req.URL.Query()
	assert.Equal(t, "secret", q.Get("api_key"))
	assert.Equal(t, "lab@example.com", q.Get("email"))
	assert.Equal(t, "taxonomy", q.Get("db"), "existing params preserved")
	assert.False(t, q.Has("tool"), "empty values are skipped")

	// nil URL must not panic
	(&QueryAuth{Params: map[string]string{"a": "b"}}).Apply(&http.Request{})
}

func TestThrottle(t *testing.T) {
	th := NewThrottle(20 * time.Millisecond)
	assert.Equal(t, 20*time.Millisecond, th.Interval())

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, th.Wait(context.Background()))
	}
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)

	assert.Zero(t, NewThrottle(0).Interval())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, NewThrottle(time.Hour).Wait(ctx))
}

func TestClientGet(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "taxonomy", r.URL.Query().Get("db"))
		assert.Equal(t, "k", r.URL.Query().Get("api_key"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := New("ncbi", WithAuthenticator(EntrezAuth("k", "", "")))
	resp, err := c.Get(context.Background(), server.URL+"/esearch.fcgi", url.Values{"db": {"taxonomy"}})
	require.NoError(t, err)

	var out struct{ OK bool }
	require.NoError(t, DecodeJSON(c.Service(), resp, &out))
	assert.True(t, out.OK)
	assert.Equal(t, int32(1), hits.Load())
}

func TestReadBodyStatusError(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusTooManyRequests,
		Body:       io.NopCloser(strings.NewReader(strings.Repeat("x", 1000))),
	}

	_, err := ReadBody("ncbi", resp)
	require.Error(t, err)
	assert.True(t, errors.IsRateLimited(err))

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Len(t, apiErr.Message, maxErrorBody)
}

func TestDecodeXMLParseError(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("<open>")),
	}
	var v struct{}
	err := DecodeXML("ncbi", resp, &v)

	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "xml", parseErr.Format)
}

func TestClientTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	_, err := New("ncbi").Get(context.Background(), server.URL, nil)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "ncbi", apiErr.Service)
}
