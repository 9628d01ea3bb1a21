package scenario

import (
	"fmt"

	"github.com/cottand/tycon/constraint"
	"github.com/cottand/tycon/inference"
	"github.com/cottand/tycon/tyerr"
	"github.com/cottand/tycon/types"
)

type AssertionResult struct {
	Source  string
	Pos     tyerr.Pos
	Verdict constraint.Verdict
}

// VariableBounds are the bounds a candidate left on one variable
type VariableBounds struct {
	Variable string
	Lower    []types.Type
	Upper    []types.Type
}

type CandidateResult struct {
	Name string
	// Verdict is the conjunction of the verdicts of every assertion that ran
	Verdict    constraint.Verdict
	Assertions []AssertionResult
	// Bounds is only filled for candidates that were not disproven
	Bounds []VariableBounds
	Errors []tyerr.TyError
}

// Accepted reports whether the candidate's constraints may all hold
func (r CandidateResult) Accepted() bool {
	return r.Verdict != constraint.Disproven
}

// Run tries every candidate in order. Each candidate starts from the same,
// empty set of bounds: bounds recorded while trying one candidate are
// rolled back before the next.
func (s *Scenario) Run() []CandidateResult {
	results := make([]CandidateResult, 0, len(s.Candidates))
	for _, c := range s.Candidates {
		results = append(results, s.runCandidate(c))
	}
	return results
}

func (s *Scenario) runCandidate(c CompiledCandidate) CandidateResult {
	snapshot := s.Registry.Snapshot()
	defer s.Registry.Restore(snapshot)

	result := CandidateResult{Name: c.Name, Verdict: constraint.Deferred}
	for _, a := range c.Constraints {
		v, err := s.apply(a)
		result.Assertions = append(result.Assertions, AssertionResult{Source: a.Source, Pos: a.Pos, Verdict: v})
		result.Verdict = result.Verdict.And(v)
		if err != nil {
			result.Errors = append(result.Errors, err)
			break
		}
		if v == constraint.Disproven {
			result.Errors = append(result.Errors, tyerr.New(tyerr.NewTypeMismatch{
				Pos:   a.Pos,
				Sub:   a.Sub.String(),
				Super: a.Super.String(),
			}))
			break
		}
	}
	logger.Debug("scenario: candidate done", "candidate", c.Name, "verdict", result.Verdict, "bounds", s.Registry.Len()-snapshot.Len())

	if result.Accepted() {
		result.Bounds = s.collectBounds()
	}
	if c.Expect != nil && *c.Expect != result.Verdict {
		result.Errors = append(result.Errors, tyerr.New(tyerr.NewUnexpectedVerdict{
			Pos:       c.Pos,
			Candidate: c.Name,
			Expected:  c.Expect.String(),
			Got:       result.Verdict.String(),
		}))
	}
	return result
}

// apply runs one assertion, turning a contract violation into an error.
// Any other panic is not ours to handle.
func (s *Scenario) apply(a Assertion) (v constraint.Verdict, err tyerr.TyError) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		violation, ok := r.(types.ContractViolation)
		if !ok {
			panic(r)
		}
		logger.Error("scenario: contract violation", "constraint", a.Source, "reason", violation.Reason)
		v = constraint.Disproven
		err = tyerr.New(tyerr.NewInternalContract{Pos: a.Pos, Reason: fmt.Sprintf("while simplifying %s: %s", a.Source, violation.Reason)})
	}()
	return s.Simplifier.AddSubtypeConstraint(a.Sub, a.Super), nil
}

func (s *Scenario) collectBounds() []VariableBounds {
	var out []VariableBounds
	for _, v := range s.Registry.Variables() {
		name := v.Classifier.Name
		lower := s.Registry.Bounds(name, inference.Lower)
		upper := s.Registry.Bounds(name, inference.Upper)
		if len(lower) == 0 && len(upper) == 0 {
			continue
		}
		out = append(out, VariableBounds{Variable: name, Lower: lower, Upper: upper})
	}
	return out
}
