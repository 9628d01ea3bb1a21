package types

import "fmt"

// Intersect builds the intersection of ts.
//
// Nested intersections are flattened, and an intersection of a single
// distinct type is that type. When at least one operand is non-null the
// result is non-null, so nullable operands lose their nullability;
// otherwise every member of the result is nullable.
// Flexible operands are intersected bound by bound.
func Intersect(ts ...Type) Type {
	if len(ts) == 0 {
		panic(ContractViolation{Reason: "intersection of no types"})
	}
	for _, t := range ts {
		if _, ok := t.(*Flexible); ok {
			return intersectFlexible(ts)
		}
	}

	var members []Rigid
	anyNonNull := false
	for _, t := range ts {
		switch t := t.(type) {
		case Rigid:
			anyNonNull = anyNonNull || !t.Nullable
			members = append(members, t)
		case *Intersection:
			anyNonNull = anyNonNull || !t.Nullable()
			members = append(members, t.members...)
		default:
			panic(ContractViolation{Reason: fmt.Sprintf("cannot intersect %T", t)})
		}
	}

	for i := range members {
		members[i] = members[i].MakeNullable(!anyNonNull)
	}
	inter := newIntersection(members)
	if len(inter.members) == 1 {
		return inter.members[0]
	}
	return inter
}

func intersectFlexible(ts []Type) Type {
	lowers := make([]Type, len(ts))
	uppers := make([]Type, len(ts))
	for i, t := range ts {
		lowers[i] = LowerBound(t)
		uppers[i] = UpperBound(t)
	}
	lower := Intersect(lowers...).(Simple)
	upper := Intersect(uppers...).(Simple)
	if Equal(lower, upper) {
		return lower
	}
	return NewFlexible(lower, upper)
}
