// Package constraint reduces subtyping constraints between types that
// mention inference variables to bounds on those variables.
package constraint

import (
	"fmt"
	"log/slog"

	"github.com/cottand/tycon/internal/log"
	"github.com/cottand/tycon/oracle"
	"github.com/cottand/tycon/types"
)

var logger = log.DefaultLogger.With("section", "constraint")

// VariableRegistry knows which types are inference variables and accepts
// new bounds on them
type VariableRegistry interface {
	IsInferenceVariable(t types.Rigid) bool
	AddUpperBound(variable types.Rigid, bound types.Type)
	AddLowerBound(variable types.Rigid, bound types.Type)
}

// SubtypeOracle decides subtyping between types without inference variables
type SubtypeOracle interface {
	IsSubtypeOf(sub, super types.Type) bool
}

// Simplifier holds no state of its own: every bound it finds is handed to
// Registry.
type Simplifier struct {
	Universe *types.Universe
	Registry VariableRegistry
	// Oracle is the checker of the current inference context. It answers
	// whether Null fits a bound and decides fully ground constraints.
	Oracle SubtypeOracle
	// DefaultOracle is the context-free checker used when the non-variable
	// part of an intersection may already satisfy the constraint
	DefaultOracle SubtypeOracle
	Logger        *slog.Logger
}

type Option func(*Simplifier)

func WithDefaultOracle(o SubtypeOracle) Option {
	return func(s *Simplifier) { s.DefaultOracle = o }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simplifier) { s.Logger = l }
}

// New returns a Simplifier. Unless WithDefaultOracle is given, the default
// oracle is an oracle.Checker over universe that treats the Error type as
// compatible with anything.
func New(universe *types.Universe, registry VariableRegistry, o SubtypeOracle, opts ...Option) *Simplifier {
	s := &Simplifier{
		Universe: universe,
		Registry: registry,
		Oracle:   o,
		Logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.DefaultOracle == nil {
		s.DefaultOracle = oracle.NewChecker(universe, oracle.Config{ErrorTypeEqualsAnything: true})
	}
	return s
}

// AddSubtypeConstraint simplifies sub <: super.
//
// Variables on the super side get sub as a lower bound, variables on the
// sub side get super as an upper bound, with nullability moved out of the
// variable where needed. When no variable is involved anywhere, the verdict
// is Oracle's. When variables only occur nested inside other types, the
// verdict is Deferred.
//
// Both bounds of sub must be rigid or intersection types, and both bounds
// of super must be rigid. Other shapes panic with types.ContractViolation.
// Bounds may have been registered even if the verdict is Disproven.
func (s *Simplifier) AddSubtypeConstraint(sub, super types.Type) Verdict {
	s.assertInputTypes(sub, super)
	s.Logger.Debug(fmt.Sprintf("constraint: simplifying %s <: %s", sub, super))

	answer := Deferred
	if types.AnyBound(super, s.isVariable) {
		answer = s.simplifyLowerConstraint(super, sub)
	}

	if types.AnyBound(sub, s.isVariable) {
		return s.simplifyUpperConstraint(sub, super).And(answer)
	}

	if v := s.simplifyIntersectionSubtype(sub, super); v != Deferred {
		return v
	}
	if answer == Deferred && !s.mentionsVariable(sub) && !s.mentionsVariable(super) {
		res := FromBool(s.Oracle.IsSubtypeOf(sub, super))
		s.Logger.Debug("constraint: ground check", "sub", sub, "super", super, "verdict", res)
		return res
	}
	return answer
}

func (s *Simplifier) isVariable(t types.Simple) bool {
	r, ok := t.(types.Rigid)
	return ok && s.Registry.IsInferenceVariable(r)
}

func (s *Simplifier) mentionsVariable(t types.Type) bool {
	return types.Mentions(t, s.Registry.IsInferenceVariable)
}

// simplifyLowerConstraint registers sub as a lower bound of variable.
//
//	Foo <: T!  <=>  Foo <: T?  <=>  Foo & Any <: T
//	Foo <: T   stays as is
func (s *Simplifier) simplifyLowerConstraint(variable types.Type, sub types.Type) Verdict {
	v := variableBound(types.UpperBound(variable))
	if v.Nullable {
		bound := types.Intersect(sub, s.Universe.AnyType())
		s.Logger.Debug("constraint: lower bound on nullable variable", "var", v, "bound", bound)
		s.Registry.AddLowerBound(v, bound)
	} else {
		s.Logger.Debug("constraint: lower bound", "var", v, "bound", sub)
		s.Registry.AddLowerBound(v, sub)
	}
	return Proven
}

// simplifyUpperConstraint registers super as an upper bound of variable.
//
//	T! <: Foo  <=>  T <: Foo
//	T? <: Foo  <=>  T <: Foo && Nothing? <: Foo
//	T  <: Foo  stays as is
func (s *Simplifier) simplifyUpperConstraint(variable types.Type, super types.Type) Verdict {
	v := variableBound(types.LowerBound(variable))

	s.Logger.Debug("constraint: upper bound", "var", v, "bound", super)
	s.Registry.AddUpperBound(v, super)

	if !v.Nullable {
		return Proven
	}
	// super is a single classifier type here, so if it is a variable it
	// can take the nullable variable as a lower bound
	if types.AnyBound(super, s.isVariable) {
		return s.simplifyLowerConstraint(super, v)
	}
	res := FromBool(s.Oracle.IsSubtypeOf(s.Universe.NullType(), super))
	s.Logger.Debug("constraint: checked Null against bound of nullable variable", "var", v, "bound", super, "verdict", res)
	return res
}

// simplifyIntersectionSubtype handles a sub whose lower bound is an
// intersection with variable members. It returns Deferred when it does not
// apply.
func (s *Simplifier) simplifyIntersectionSubtype(sub, super types.Type) Verdict {
	inter, ok := types.LowerBound(sub).(*types.Intersection)
	if !ok {
		return Deferred
	}

	var variables, others []types.Rigid
	for _, m := range inter.Members() {
		if m.Nullable {
			panic(types.ContractViolation{Reason: fmt.Sprintf("intersection type %s has nullable member %s", inter, m)})
		}
		if s.Registry.IsInferenceVariable(m) {
			variables = append(variables, m)
		} else {
			others = append(others, m)
		}
	}
	if len(variables) == 0 {
		return Deferred
	}

	if len(others) > 0 {
		rest := make([]types.Type, len(others))
		for i, o := range others {
			rest[i] = o
		}
		if s.DefaultOracle.IsSubtypeOf(types.Intersect(rest...), super) {
			s.Logger.Debug("constraint: non-variable part of intersection suffices", "sub", inter, "super", super)
			return Proven
		}
	}

	for _, v := range variables {
		if s.simplifyUpperConstraint(v, super) != Proven {
			return Disproven
		}
	}
	return Proven
}

func (s *Simplifier) assertInputTypes(sub, super types.Type) {
	if !types.BothBounds(sub, isValidSubBound) {
		panic(types.ContractViolation{Reason: fmt.Sprintf("subtype %s is neither a single classifier type nor an intersection", sub)})
	}
	if !types.BothBounds(super, isSingleClassifier) {
		panic(types.ContractViolation{Reason: fmt.Sprintf("supertype %s is not a single classifier type", super)})
	}
}

func variableBound(t types.Simple) types.Rigid {
	r, ok := t.(types.Rigid)
	if !ok {
		panic(types.ContractViolation{Reason: fmt.Sprintf("expected a variable reference, got %s", t)})
	}
	return r
}

func isSingleClassifier(t types.Simple) bool {
	r, ok := t.(types.Rigid)
	return ok && r.Classifier != nil
}

func isValidSubBound(t types.Simple) bool {
	if inter, ok := t.(*types.Intersection); ok {
		members := inter.Members()
		for _, m := range members {
			if m.Nullable || m.Classifier == nil {
				return false
			}
		}
		return len(members) > 0
	}
	return isSingleClassifier(t)
}
