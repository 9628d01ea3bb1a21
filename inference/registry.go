// Package inference holds the inference variables of one inference attempt
// and the bounds recorded on them.
package inference

import (
	"fmt"
	"slices"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/tycon/internal/log"
	"github.com/cottand/tycon/types"
	"github.com/cottand/tycon/util"
	"github.com/hashicorp/go-set/v3"
)

var logger = log.DefaultLogger.With("section", "inference.registry")

type BoundKind int

const (
	Upper BoundKind = iota
	Lower
)

func (k BoundKind) String() string {
	if k == Lower {
		return "lower"
	}
	return "upper"
}

// Constraint is a bound recorded on a variable. Variable keeps the
// nullability it was registered with.
type Constraint struct {
	Variable types.Rigid
	Kind     BoundKind
	Bound    types.Type
}

func (c Constraint) String() string {
	if c.Kind == Lower {
		return fmt.Sprintf("%s <: %s", c.Bound, c.Variable)
	}
	return fmt.Sprintf("%s <: %s", c.Variable, c.Bound)
}

// state is persistent so that snapshots share structure with the live registry
type state struct {
	log    *immutable.List[Constraint]
	bounds *immutable.Map[string, *immutable.List[Constraint]]
}

// Snapshot is an opaque copy of the bounds recorded in a Registry
type Snapshot struct {
	st state
}

// Len is the number of constraints recorded when the snapshot was taken
func (s Snapshot) Len() int { return s.st.log.Len() }

// Registry tracks which classifiers are inference variables and collects
// the bounds added to them. Bounds are append-only; Restore is the only way
// to drop them. A Registry is not safe for concurrent use.
type Registry struct {
	variables *set.Set[*types.Classifier]
	byName    map[string]*types.Classifier
	st        state
}

func NewRegistry() *Registry {
	return &Registry{
		variables: set.New[*types.Classifier](0),
		byName:    make(map[string]*types.Classifier),
		st: state{
			log:    immutable.NewList[Constraint](),
			bounds: immutable.NewMap[string, *immutable.List[Constraint]](nil),
		},
	}
}

// NewVariable creates a fresh inference variable, returned as a non-null
// reference. Names must be unique within the registry.
func (r *Registry) NewVariable(name string) (types.Rigid, error) {
	if _, ok := r.byName[name]; ok {
		return types.Rigid{}, fmt.Errorf("inference variable %s already exists", name)
	}
	c := &types.Classifier{Name: name, Kind: types.KindVariable}
	r.variables.Insert(c)
	r.byName[name] = c
	return c.Type(), nil
}

// Variable looks up a variable by name
func (r *Registry) Variable(name string) (types.Rigid, bool) {
	c, ok := r.byName[name]
	if !ok {
		return types.Rigid{}, false
	}
	return c.Type(), true
}

// Resolve makes the registry usable as a types.Scope
func (r *Registry) Resolve(name string) (*types.Classifier, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Variables returns the variables of r sorted by name
func (r *Registry) Variables() []types.Rigid {
	out := make([]types.Rigid, 0, r.variables.Size())
	for c := range r.variables.Items() {
		out = append(out, c.Type())
	}
	slices.SortFunc(out, func(a, b types.Rigid) int {
		if a.Classifier.Name < b.Classifier.Name {
			return -1
		}
		if a.Classifier.Name > b.Classifier.Name {
			return 1
		}
		return 0
	})
	return out
}

func (r *Registry) IsInferenceVariable(t types.Rigid) bool {
	return r.variables.Contains(t.Classifier)
}

func (r *Registry) AddUpperBound(variable types.Rigid, bound types.Type) {
	r.add(Constraint{Variable: variable, Kind: Upper, Bound: bound})
}

func (r *Registry) AddLowerBound(variable types.Rigid, bound types.Type) {
	r.add(Constraint{Variable: variable, Kind: Lower, Bound: bound})
}

func (r *Registry) add(c Constraint) {
	if !r.IsInferenceVariable(c.Variable) {
		panic(types.ContractViolation{Reason: fmt.Sprintf("%s is not an inference variable of this registry", c.Variable)})
	}
	logger.Debug("registry: adding bound", "kind", c.Kind, "var", c.Variable, "bound", c.Bound)
	name := c.Variable.Classifier.Name
	existing, ok := r.st.bounds.Get(name)
	if !ok {
		existing = immutable.NewList[Constraint]()
	}
	r.st = state{
		log:    r.st.log.Append(c),
		bounds: r.st.bounds.Set(name, existing.Append(c)),
	}
}

// Constraints returns every constraint in the order it was added
func (r *Registry) Constraints() []Constraint {
	return slices.Collect(util.ListValues(r.st.log))
}

// Bounds returns the constraints of the given kind recorded on the variable
// called name, in the order they were added
func (r *Registry) Bounds(name string, kind BoundKind) []types.Type {
	list, ok := r.st.bounds.Get(name)
	if !ok {
		return nil
	}
	ofKind := util.FilterIter(util.ListValues(list), func(c Constraint) bool { return c.Kind == kind })
	return slices.Collect(util.MapIter(ofKind, func(c Constraint) types.Type { return c.Bound }))
}

// Len is the number of constraints recorded so far
func (r *Registry) Len() int { return r.st.log.Len() }

// Snapshot captures the bounds recorded so far. It is cheap: the snapshot
// shares its structure with the registry.
func (r *Registry) Snapshot() Snapshot {
	return Snapshot{st: r.st}
}

// Restore discards every bound added after s was taken. Variables created
// since then are kept.
func (r *Registry) Restore(s Snapshot) {
	logger.Debug("registry: restoring snapshot", "dropped", r.st.log.Len()-s.st.log.Len())
	r.st = s.st
}
