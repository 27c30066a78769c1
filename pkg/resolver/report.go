package resolver

import (
	"github.com/agentstation/utc"

	"github.com/axioparse/axioparse/pkg/errors"
)

// Report summarises one resolution pass.
type Report struct {
	GeneratedAt utc.Time                   `json:"generated_at" yaml:"generated_at"`
	Total       int                        `json:"total" yaml:"total"`
	Resolved    int                        `json:"resolved" yaml:"resolved"`
	Failed      int                        `json:"failed" yaml:"failed"`
	Failures    []errors.ResolutionFailure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// NewReport summarises outcomes. Failures appear in input order.
func NewReport(outcomes []Outcome) Report {
	report := Report{GeneratedAt: utc.Now(), Total: len(outcomes)}
	if _, err := Reduce(outcomes); err != nil {
		var batch *errors.BatchResolutionError
		if errors.As(err, &batch) {
			report.Failures = batch.Failures
		}
	}
	report.Failed = len(report.Failures)
	report.Resolved = report.Total - report.Failed
	return report
}

// OK reports whether the pass would commit.
func (r Report) OK() bool {
	return r.Failed == 0
}
