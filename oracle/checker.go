// Package oracle decides subtyping between types that contain no inference
// variables, following class hierarchies and declared variance.
package oracle

import (
	"github.com/cottand/tycon/internal/log"
	"github.com/cottand/tycon/types"
	"github.com/hashicorp/go-set/v3"
)

var logger = log.DefaultLogger.With("section", "oracle")

type Config struct {
	// ErrorTypeEqualsAnything makes the Error type a subtype and a
	// supertype of every other type, so that unresolved types do not
	// cause further mismatches
	ErrorTypeEqualsAnything bool
}

// Checker is a ground subtype checker over the classifiers of one universe.
//
// Classifiers that are neither classes nor errors (type parameters,
// inference variables) are only related to themselves, to Any and to
// Nothing.
type Checker struct {
	universe *types.Universe
	config   Config
}

func NewChecker(universe *types.Universe, config Config) *Checker {
	return &Checker{universe: universe, config: config}
}

func (c *Checker) Config() Config { return c.config }

// IsSubtypeOf reports whether every value of sub is a value of super.
// A flexible sub is checked through its lower bound, and a flexible
// super through its upper bound.
func (c *Checker) IsSubtypeOf(sub, super types.Type) bool {
	res := c.isSubtypeOf(sub, super)
	logger.Debug("oracle: checked", "sub", sub, "super", super, "result", res)
	return res
}

func (c *Checker) isSubtypeOf(sub, super types.Type) bool {
	if c.config.ErrorTypeEqualsAnything && (c.mentionsError(sub) || c.mentionsError(super)) {
		return true
	}
	if types.Equal(sub, super) {
		return true
	}
	return c.isSimpleSubtype(types.LowerBound(sub), types.UpperBound(super))
}

func (c *Checker) mentionsError(t types.Type) bool {
	return types.AnyBound(t, types.IsRigid(func(r types.Rigid) bool {
		return c.universe.IsError(r.Classifier)
	}))
}

func (c *Checker) isSimpleSubtype(sub, super types.Simple) bool {
	if superInter, ok := super.(*types.Intersection); ok {
		for _, m := range superInter.Members() {
			if !c.isSimpleSubtype(sub, m) {
				return false
			}
		}
		return true
	}
	superRigid := super.(types.Rigid)
	switch sub := sub.(type) {
	case *types.Intersection:
		for _, m := range sub.Members() {
			if c.isRigidSubtype(m, superRigid) {
				return true
			}
		}
		return false
	case types.Rigid:
		return c.isRigidSubtype(sub, superRigid)
	}
	return false
}

func (c *Checker) isRigidSubtype(sub, super types.Rigid) bool {
	if sub.Nullable && !super.Nullable {
		return false
	}
	if c.universe.IsNothing(sub.Classifier) || c.universe.IsAny(super.Classifier) {
		return true
	}
	found, ok := c.findSupertype(sub.MakeNullable(false), super.Classifier)
	if !ok {
		return false
	}
	return c.argumentsConform(found, super)
}

// findSupertype walks the supertypes of sub breadth-first, substituting
// type arguments along the way, until it finds a reference to target.
func (c *Checker) findSupertype(sub types.Rigid, target *types.Classifier) (types.Rigid, bool) {
	visited := set.New[*types.Classifier](8)
	queue := []types.Rigid{sub}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.Classifier == target {
			return current, true
		}
		if !visited.Insert(current.Classifier) {
			continue
		}
		subst := substitutionFor(current)
		for _, super := range current.Classifier.Supertypes {
			queue = append(queue, substitute(super, subst).(types.Rigid))
		}
	}
	return types.Rigid{}, false
}

func (c *Checker) argumentsConform(sub, super types.Rigid) bool {
	params := super.Classifier.Params
	if len(sub.Args) != len(params) || len(super.Args) != len(params) {
		return false
	}
	for i, param := range params {
		a, b := sub.Args[i], super.Args[i]
		var ok bool
		switch param.Variance {
		case types.Out:
			ok = c.isSubtypeOf(a, b)
		case types.In:
			ok = c.isSubtypeOf(b, a)
		default:
			ok = c.isSubtypeOf(a, b) && c.isSubtypeOf(b, a)
		}
		if !ok {
			return false
		}
	}
	return true
}

func substitutionFor(t types.Rigid) map[*types.Classifier]types.Type {
	if len(t.Args) == 0 {
		return nil
	}
	subst := make(map[*types.Classifier]types.Type, len(t.Args))
	for i, p := range t.Classifier.Params {
		if i < len(t.Args) {
			subst[p.Classifier] = t.Args[i]
		}
	}
	return subst
}

func substitute(t types.Type, subst map[*types.Classifier]types.Type) types.Type {
	if len(subst) == 0 {
		return t
	}
	switch t := t.(type) {
	case types.Rigid:
		if replacement, ok := subst[t.Classifier]; ok {
			if t.Nullable {
				return types.MakeNullable(replacement)
			}
			return replacement
		}
		if len(t.Args) == 0 {
			return t
		}
		args := make([]types.Type, len(t.Args))
		for i, arg := range t.Args {
			args[i] = substitute(arg, subst)
		}
		t.Args = args
		return t
	case *types.Flexible:
		return types.NewFlexible(substitute(t.Lower, subst).(types.Simple), substitute(t.Upper, subst).(types.Simple))
	case *types.Intersection:
		members := t.Members()
		out := make([]types.Type, len(members))
		for i, m := range members {
			out[i] = substitute(m, subst)
		}
		return types.Intersect(out...)
	}
	return t
}
