package types

import "fmt"

// LowerBound returns the lower bound of t if it is flexible, t otherwise
func LowerBound(t Type) Simple {
	switch t := t.(type) {
	case *Flexible:
		return t.Lower
	case Simple:
		return t
	}
	panic(ContractViolation{Reason: "unknown type shape"})
}

// UpperBound returns the upper bound of t if it is flexible, t otherwise
func UpperBound(t Type) Simple {
	switch t := t.(type) {
	case *Flexible:
		return t.Upper
	case Simple:
		return t
	}
	panic(ContractViolation{Reason: "unknown type shape"})
}

// BothBounds reports whether f holds for both bounds of t.
// For non-flexible types this is just f(t).
func BothBounds(t Type, f func(Simple) bool) bool {
	if flex, ok := t.(*Flexible); ok {
		return f(flex.Lower) && f(flex.Upper)
	}
	return f(LowerBound(t))
}

// AnyBound reports whether f holds for either bound of t
func AnyBound(t Type, f func(Simple) bool) bool {
	if flex, ok := t.(*Flexible); ok {
		return f(flex.Lower) || f(flex.Upper)
	}
	return f(LowerBound(t))
}

// IsRigid adapts a predicate over rigid types so it can be used with
// AnyBound and BothBounds. Intersections never satisfy it.
func IsRigid(pred func(Rigid) bool) func(Simple) bool {
	return func(s Simple) bool {
		r, ok := s.(Rigid)
		return ok && pred(r)
	}
}

// Mentions reports whether pred holds for any rigid type occurring in t,
// including type arguments, intersection members and flexible bounds.
func Mentions(t Type, pred func(Rigid) bool) bool {
	switch t := t.(type) {
	case Rigid:
		if pred(t) {
			return true
		}
		for _, arg := range t.Args {
			if Mentions(arg, pred) {
				return true
			}
		}
		return false
	case *Flexible:
		return Mentions(t.Lower, pred) || Mentions(t.Upper, pred)
	case *Intersection:
		for _, m := range t.members {
			if Mentions(m, pred) {
				return true
			}
		}
		return false
	}
	return false
}

// IsNullable reports whether the null value may inhabit t
func IsNullable(t Type) bool {
	switch t := t.(type) {
	case Rigid:
		return t.Nullable
	case *Flexible:
		return IsNullable(t.Upper)
	case *Intersection:
		return t.Nullable()
	}
	return false
}

// MakeNullable returns t with null added to it. The members of an
// intersection are made nullable one by one.
func MakeNullable(t Type) Type {
	switch t := t.(type) {
	case Rigid:
		return t.MakeNullable(true)
	case *Intersection:
		members := make([]Rigid, len(t.members))
		for i, m := range t.members {
			members[i] = m.MakeNullable(true)
		}
		return newIntersection(members)
	case *Flexible:
		return NewFlexible(MakeNullable(t.Lower).(Simple), MakeNullable(t.Upper).(Simple))
	}
	panic(ContractViolation{Reason: fmt.Sprintf("%s cannot be made nullable", t)})
}
