package cmd

import (
	"testing"

	"github.com/cottand/tycon/constraint"
	"github.com/cottand/tycon/scenario"
	"github.com/cottand/tycon/tyerr"
	"github.com/stretchr/testify/assert"
)

func TestCheckOutcome(t *testing.T) {
	proven := scenario.CandidateResult{Name: "a", Verdict: constraint.Proven}
	disproven := scenario.CandidateResult{
		Name:    "b",
		Verdict: constraint.Disproven,
		Errors:  []tyerr.TyError{tyerr.New(tyerr.NewTypeMismatch{Sub: "String?", Super: "CharSequence"})},
	}
	unexpected := scenario.CandidateResult{
		Name:    "c",
		Verdict: constraint.Deferred,
		Errors:  []tyerr.TyError{tyerr.New(tyerr.NewUnexpectedVerdict{Candidate: "c", Expected: "proven", Got: "deferred"})},
	}

	assert.NoError(t, checkOutcome(nil))
	assert.NoError(t, checkOutcome([]scenario.CandidateResult{proven, disproven}))
	assert.ErrorContains(t, checkOutcome([]scenario.CandidateResult{disproven}), "none of the 1 candidates")
	assert.ErrorContains(t, checkOutcome([]scenario.CandidateResult{proven, unexpected}), "did not behave as expected")
}

func TestWriteReportRejectsUnknownFormat(t *testing.T) {
	err := writeReport(nil, scenario.Report{}, "json", false)
	assert.ErrorContains(t, err, `unknown output format "json"`)
}
