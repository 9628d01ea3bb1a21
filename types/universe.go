package types

import (
	"fmt"
	"slices"
)

type ClassifierKind int

const (
	KindClass ClassifierKind = iota
	KindTypeParameter
	KindVariable
	KindError
)

func (k ClassifierKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindTypeParameter:
		return "type parameter"
	case KindVariable:
		return "variable"
	case KindError:
		return "error"
	}
	return fmt.Sprintf("ClassifierKind(%d)", int(k))
}

type Variance int

const (
	Invariant Variance = iota
	In
	Out
)

func (v Variance) String() string {
	switch v {
	case In:
		return "in"
	case Out:
		return "out"
	}
	return ""
}

type TypeParam struct {
	Name     string
	Variance Variance
	// Classifier is what references to this parameter inside the
	// declaring classifier's supertypes point to
	Classifier *Classifier
}

// Classifier is a named class, interface, type parameter or inference
// variable. Classifiers are compared by identity.
type Classifier struct {
	Name       string
	Kind       ClassifierKind
	Params     []TypeParam
	Supertypes []Rigid
}

func (c *Classifier) String() string {
	return c.Name
}

// Type returns a non-null reference to c with the given arguments
func (c *Classifier) Type(args ...Type) Rigid {
	return Rigid{Classifier: c, Args: args}
}

const (
	AnyName     = "Any"
	NothingName = "Nothing"
	ErrorName   = "Error"
)

// Universe owns the classifiers of one type system, including the
// built-in Any, Nothing and Error.
type Universe struct {
	classifiers map[string]*Classifier
	order       []string

	anyClassifier     *Classifier
	nothingClassifier *Classifier
	errorClassifier   *Classifier
}

func NewUniverse() *Universe {
	u := &Universe{classifiers: make(map[string]*Classifier)}
	u.anyClassifier = u.mustDeclare(&Classifier{Name: AnyName, Kind: KindClass})
	u.nothingClassifier = u.mustDeclare(&Classifier{Name: NothingName, Kind: KindClass})
	u.errorClassifier = u.mustDeclare(&Classifier{Name: ErrorName, Kind: KindError})
	return u
}

func (u *Universe) mustDeclare(c *Classifier) *Classifier {
	if _, ok := u.classifiers[c.Name]; ok {
		panic(ContractViolation{Reason: fmt.Sprintf("classifier %s declared twice", c.Name)})
	}
	u.classifiers[c.Name] = c
	u.order = append(u.order, c.Name)
	return c
}

// Declare adds a new class with the given type parameters. It fails if the
// name is already taken. Supertypes default to Any and are set separately
// with SetSupertypes, so that classes may refer to each other.
func (u *Universe) Declare(name string, params ...TypeParam) (*Classifier, error) {
	if _, ok := u.classifiers[name]; ok {
		return nil, fmt.Errorf("classifier %s is already declared", name)
	}
	c := &Classifier{Name: name, Kind: KindClass}
	for _, p := range params {
		p.Classifier = &Classifier{Name: p.Name, Kind: KindTypeParameter}
		c.Params = append(c.Params, p)
	}
	return u.mustDeclare(c), nil
}

// SetSupertypes replaces the direct supertypes of c. Any is always an
// implicit supertype and does not need to be listed.
func (u *Universe) SetSupertypes(c *Classifier, supertypes ...Rigid) {
	for _, s := range supertypes {
		if s.Nullable {
			panic(ContractViolation{Reason: fmt.Sprintf("supertype %s of %s is nullable", s, c)})
		}
	}
	c.Supertypes = slices.Clone(supertypes)
}

// Lookup finds a declared classifier by name
func (u *Universe) Lookup(name string) (*Classifier, bool) {
	c, ok := u.classifiers[name]
	return c, ok
}

// Classifiers returns every declared classifier in declaration order,
// built-ins first
func (u *Universe) Classifiers() []*Classifier {
	out := make([]*Classifier, 0, len(u.order))
	for _, name := range u.order {
		out = append(out, u.classifiers[name])
	}
	return out
}

// AnyType is the top non-null type
func (u *Universe) AnyType() Rigid { return u.anyClassifier.Type() }

// NothingType is the bottom type
func (u *Universe) NothingType() Rigid { return u.nothingClassifier.Type() }

// NullType is Nothing?, the type whose only value is null
func (u *Universe) NullType() Rigid { return u.nothingClassifier.Type().MakeNullable(true) }

// ErrorType stands for a type that could not be resolved
func (u *Universe) ErrorType() Rigid { return u.errorClassifier.Type() }

func (u *Universe) IsAny(c *Classifier) bool     { return c == u.anyClassifier }
func (u *Universe) IsNothing(c *Classifier) bool { return c == u.nothingClassifier }
func (u *Universe) IsError(c *Classifier) bool {
	return c == u.errorClassifier || c != nil && c.Kind == KindError
}
