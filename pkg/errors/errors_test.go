package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/axioparse/axioparse/pkg/errors"
)

func TestNotFoundError(t *testing.T) {
	err := pkgerrors.NewNotFoundError("taxon", "562")
	assert.Equal(t, "taxon with ID 562 not found", err.Error())
	assert.True(t, pkgerrors.IsNotFound(err))

	wrapped := fmt.Errorf("fetch: %w", err)
	assert.True(t, pkgerrors.IsNotFound(wrapped))
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("samples", nil, "column sets differ")
		assert.Equal(t, "validation failed for field samples: column sets differ", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("unmatched keys are sorted", func(t *testing.T) {
		err := pkgerrors.UnmatchedKeys("key", []string{"b", "a"})
		assert.Contains(t, err.Error(), "a, b")
		assert.Equal(t, []string{"a", "b"}, err.Value)
	})
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		rateLimited bool
		unavailable bool
	}{
		{"rate limited", 429, true, false},
		{"server error", 502, false, true},
		{"client error", 400, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pkgerrors.NewAPIError("ncbi", tt.status, "boom")
			assert.Equal(t, tt.rateLimited, pkgerrors.IsRateLimited(err))
			assert.Equal(t, tt.unavailable, pkgerrors.IsServiceUnavailable(err))
			assert.Contains(t, err.Error(), "ncbi")
		})
	}

	t.Run("unwrap", func(t *testing.T) {
		base := errors.New("connection reset")
		err := pkgerrors.WrapAPI("ncbi", 0, base)
		assert.ErrorIs(t, err, base)
		assert.Nil(t, pkgerrors.WrapAPI("ncbi", 0, nil))
	})
}

func TestFetchExhaustedError(t *testing.T) {
	base := errors.New("timeout")
	err := &pkgerrors.FetchExhaustedError{ID: "562", Entity: "Escherichia coli", Attempts: 3, Err: base}

	assert.ErrorIs(t, err, pkgerrors.ErrFetchExhausted)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "562")
	assert.Contains(t, err.Error(), "Escherichia coli")
}

func TestBatchResolutionError(t *testing.T) {
	noCand := &pkgerrors.NoCandidatesError{Label: "Foo bar", Terms: []string{"Foo bar", "Foo"}}
	fetch := &pkgerrors.FetchExhaustedError{ID: "1", Entity: "Baz qux", Attempts: 3, Err: errors.New("x")}

	err := &pkgerrors.BatchResolutionError{Failures: []pkgerrors.ResolutionFailure{
		{Label: "Foo bar", Reason: "no candidates after fallback", Err: noCand},
		{Label: "Baz qux", Reason: "fetch exhausted retries", Err: fetch},
	}}

	assert.True(t, pkgerrors.IsBatchResolution(err))
	assert.ErrorIs(t, err, pkgerrors.ErrNoCandidates)
	assert.ErrorIs(t, err, pkgerrors.ErrFetchExhausted)
	assert.Equal(t, []string{"Foo bar", "Baz qux"}, err.Labels())
	assert.Contains(t, err.Error(), "Foo bar; Baz qux")

	var target *pkgerrors.FetchExhaustedError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "1", target.ID)
}

func TestUnmergeableCellError(t *testing.T) {
	err := &pkgerrors.UnmergeableCellError{Key: "Foo", Sample: "S1", Run: 2, Left: "7", Right: "7"}
	assert.True(t, pkgerrors.IsUnmergeable(err))
	assert.Contains(t, err.Error(), "S1")
	assert.Contains(t, err.Error(), "run 2")
}

func TestWrapHelpers(t *testing.T) {
	assert.Nil(t, pkgerrors.WrapIO("read", "x", nil))
	assert.Nil(t, pkgerrors.WrapParse("csv", "x", nil))

	base := errors.New("eof")
	ioErr := pkgerrors.WrapIO("read", "table.tsv", base)
	assert.ErrorIs(t, ioErr, base)
	assert.Contains(t, ioErr.Error(), "table.tsv")

	parseErr := pkgerrors.WrapParse("xml", "", base)
	assert.Equal(t, "xml parse error: eof", parseErr.Error())
}
