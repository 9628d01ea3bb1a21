package types

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	xset "github.com/xtgo/set"
)

// Type is a type expression. The set of implementations is closed:
// Rigid, *Flexible and *Intersection.
type Type interface {
	fmt.Stringer
	isType()
}

// Simple is a type that may appear as a bound of a Flexible type
type Simple interface {
	Type
	isSimple()
}

var (
	_ Simple = Rigid{}
	_ Simple = (*Intersection)(nil)
	_ Type   = (*Flexible)(nil)
)

// Rigid is a single classifier reference, possibly nullable.
type Rigid struct {
	Classifier *Classifier
	Args       []Type
	Nullable   bool
}

func (Rigid) isType()   {}
func (Rigid) isSimple() {}

func (t Rigid) String() string {
	sb := &strings.Builder{}
	if t.Classifier == nil {
		sb.WriteString("<nil>")
	} else {
		sb.WriteString(t.Classifier.Name)
	}
	if len(t.Args) > 0 {
		sb.WriteString("<")
		for i, arg := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.String())
		}
		sb.WriteString(">")
	}
	if t.Nullable {
		sb.WriteString("?")
	}
	return sb.String()
}

// MakeNullable returns a copy of t with the given nullability
func (t Rigid) MakeNullable(nullable bool) Rigid {
	t.Nullable = nullable
	return t
}

// Is reports whether t refers to c, regardless of nullability and arguments
func (t Rigid) Is(c *Classifier) bool {
	return t.Classifier == c
}

// Flexible is a (lower..upper) pair of types, used for types whose
// nullability is not statically known.
type Flexible struct {
	Lower, Upper Simple
}

func (*Flexible) isType() {}

// NewFlexible does not verify that lower is a subtype of upper.
func NewFlexible(lower, upper Simple) *Flexible {
	if lower == nil || upper == nil {
		panic(ContractViolation{Reason: "flexible type with a missing bound"})
	}
	return &Flexible{Lower: lower, Upper: upper}
}

// Platform returns the flexible type (t..t?), written t!
func Platform(t Rigid) *Flexible {
	return NewFlexible(t.MakeNullable(false), t.MakeNullable(true))
}

func (t *Flexible) String() string {
	if lower, ok := t.Lower.(Rigid); ok && !lower.Nullable {
		if upper, ok := t.Upper.(Rigid); ok && upper.Nullable && upper.String() == lower.String()+"?" {
			return lower.String() + "!"
		}
	}
	return "(" + t.Lower.String() + ".." + t.Upper.String() + ")"
}

// Intersection is a non-empty set of rigid members which are either all
// non-null, or all nullable. An intersection of nullable members stands for
// the intersection of their non-null forms, plus null. It only comes out of
// MakeNullable and Intersect; NewIntersection never builds one.
type Intersection struct {
	members []Rigid
}

func (*Intersection) isType()   {}
func (*Intersection) isSimple() {}

// NewIntersection builds an intersection of members, which must all be
// non-nullable. Members are deduplicated; the order they are given in
// does not matter.
func NewIntersection(members ...Rigid) *Intersection {
	if len(members) == 0 {
		panic(ContractViolation{Reason: "empty intersection"})
	}
	for _, m := range members {
		if m.Nullable {
			panic(ContractViolation{Reason: fmt.Sprintf("intersection member %s is marked nullable", m)})
		}
	}
	return newIntersection(members)
}

func newIntersection(members []Rigid) *Intersection {
	for _, m := range members {
		if m.Classifier == nil {
			panic(ContractViolation{Reason: "intersection member without classifier"})
		}
	}
	sorted := byRendering(slices.Clone(members))
	sort.Sort(sorted)
	n := xset.Uniq(sorted)
	return &Intersection{members: sorted[:n]}
}

// Nullable reports whether null is a value of t
func (t *Intersection) Nullable() bool {
	return t.members[0].Nullable
}

// Members returns a copy of the members of t, in a stable order
func (t *Intersection) Members() []Rigid {
	return slices.Clone(t.members)
}

func (t *Intersection) String() string {
	parts := make([]string, len(t.members))
	for i, m := range t.members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " & ")
}

// byRendering sorts rigid types by their textual form, which identifies
// them within one universe
type byRendering []Rigid

func (b byRendering) Len() int           { return len(b) }
func (b byRendering) Less(i, j int) bool { return b[i].String() < b[j].String() }
func (b byRendering) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }

// Equal compares two types structurally
func Equal(a, b Type) bool {
	switch a := a.(type) {
	case Rigid:
		b, ok := b.(Rigid)
		if !ok || a.Classifier != b.Classifier || a.Nullable != b.Nullable || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case *Flexible:
		b, ok := b.(*Flexible)
		return ok && Equal(a.Lower, b.Lower) && Equal(a.Upper, b.Upper)
	case *Intersection:
		b, ok := b.(*Intersection)
		return ok && slices.EqualFunc(a.members, b.members, func(x, y Rigid) bool { return Equal(x, y) })
	}
	return false
}
