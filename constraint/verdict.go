package constraint

import "fmt"

// Verdict is the outcome of simplifying a subtyping constraint
type Verdict int

const (
	// Deferred means the outcome is not known yet, typically because it
	// depends on variables that are solved later
	Deferred Verdict = iota
	Proven
	Disproven
)

func FromBool(b bool) Verdict {
	if b {
		return Proven
	}
	return Disproven
}

// And is the conjunction of v and other, where Deferred is neutral:
// Deferred.And(x) == x.
func (v Verdict) And(other Verdict) Verdict {
	switch {
	case v == Disproven || other == Disproven:
		return Disproven
	case v == Proven || other == Proven:
		return Proven
	}
	return Deferred
}

// Bool returns the verdict as a boolean, and whether it is known at all
func (v Verdict) Bool() (value bool, known bool) {
	return v == Proven, v != Deferred
}

func (v Verdict) String() string {
	switch v {
	case Deferred:
		return "deferred"
	case Proven:
		return "proven"
	case Disproven:
		return "disproven"
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// ParseVerdict is the inverse of Verdict.String
func ParseVerdict(s string) (Verdict, error) {
	switch s {
	case "deferred":
		return Deferred, nil
	case "proven":
		return Proven, nil
	case "disproven":
		return Disproven, nil
	}
	return Deferred, fmt.Errorf("unknown verdict %q, expected proven, disproven or deferred", s)
}
