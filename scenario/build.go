package scenario

import (
	"fmt"
	"strings"

	"github.com/cottand/tycon/constraint"
	"github.com/cottand/tycon/inference"
	"github.com/cottand/tycon/internal/log"
	"github.com/cottand/tycon/oracle"
	"github.com/cottand/tycon/tyerr"
	"github.com/cottand/tycon/types"
	"github.com/pkg/errors"
)

var (
	logger           = log.DefaultLogger.With("section", "scenario")
	constraintLogger = log.DefaultLogger.With("section", "constraint")
)

// Scenario is a File with its names resolved, ready to Run
type Scenario struct {
	Name       string
	Universe   *types.Universe
	Registry   *inference.Registry
	Oracle     *oracle.Checker
	Simplifier *constraint.Simplifier
	Candidates []CompiledCandidate
}

type CompiledCandidate struct {
	Name        string
	Pos         tyerr.Pos
	Constraints []Assertion
	// Expect is nil when the candidate makes no claim about its verdict
	Expect *constraint.Verdict
}

// Assertion is a single sub <: super constraint of a candidate
type Assertion struct {
	Source string
	Pos    tyerr.Pos
	Sub    types.Type
	Super  types.Type
}

type BuildOption func(*builder)

// WithErrorTypeEqualsAnything overrides the setting of the file
func WithErrorTypeEqualsAnything(v bool) BuildOption {
	return func(b *builder) { b.errorAbsorbs = &v }
}

type builder struct {
	file         *File
	errorAbsorbs *bool
	errs         []tyerr.TyError
}

// Build resolves every name in f. If any errors are returned, the Scenario
// is nil.
func Build(f *File, opts ...BuildOption) (*Scenario, []tyerr.TyError) {
	b := &builder{file: f}
	for _, opt := range opts {
		opt(b)
	}

	u := types.NewUniverse()
	registry := inference.NewRegistry()

	declared := b.declareClasses(u)
	b.declareVariables(u, registry)
	b.resolveSupertypes(u, declared)

	scope := types.Chain(u, registry)
	candidates := make([]CompiledCandidate, 0, len(f.Candidates))
	for i, c := range f.Candidates {
		candidates = append(candidates, b.compileCandidate(i, c, scope))
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	errorAbsorbs := f.ErrorTypeEqualsAnything
	if b.errorAbsorbs != nil {
		errorAbsorbs = *b.errorAbsorbs
	}
	checker := oracle.NewChecker(u, oracle.Config{ErrorTypeEqualsAnything: errorAbsorbs})
	simplifier := constraint.New(u, registry, checker,
		constraint.WithDefaultOracle(checker),
		constraint.WithLogger(constraintLogger.With("scenario", f.Name)),
	)
	logger.Debug("scenario: built", "name", f.Name, "classes", len(declared), "variables", len(registry.Variables()), "candidates", len(candidates))
	return &Scenario{
		Name:       f.Name,
		Universe:   u,
		Registry:   registry,
		Oracle:     checker,
		Simplifier: simplifier,
		Candidates: candidates,
	}, nil
}

func (b *builder) pos(l Located) tyerr.Pos {
	return tyerr.Pos{File: b.file.Name, Line: l.Line, Column: l.Column}
}

func (b *builder) fail(err tyerr.TyError) {
	b.errs = append(b.errs, err)
}

func (b *builder) declareClasses(u *types.Universe) map[*types.Classifier]ClassDecl {
	declared := make(map[*types.Classifier]ClassDecl, len(b.file.Classes))
	for _, decl := range b.file.Classes {
		params := make([]types.TypeParam, 0, len(decl.Params))
		for _, p := range decl.Params {
			param, ok := parseParam(p.Value)
			if !ok {
				b.fail(tyerr.New(tyerr.NewParse{Pos: b.pos(p), Source: p.Value, Message: "expected a type parameter such as 'T', 'in T' or 'out T'"}))
				continue
			}
			params = append(params, param)
		}
		c, err := u.Declare(decl.Name.Value, params...)
		if err != nil {
			b.fail(tyerr.New(tyerr.NewDuplicateDeclaration{Pos: b.pos(decl.Name), Name: decl.Name.Value}))
			continue
		}
		declared[c] = decl
	}
	return declared
}

func parseParam(s string) (types.TypeParam, bool) {
	fields := strings.Fields(s)
	switch {
	case len(fields) == 1:
		return types.TypeParam{Name: fields[0], Variance: types.Invariant}, true
	case len(fields) == 2 && fields[0] == "in":
		return types.TypeParam{Name: fields[1], Variance: types.In}, true
	case len(fields) == 2 && fields[0] == "out":
		return types.TypeParam{Name: fields[1], Variance: types.Out}, true
	}
	return types.TypeParam{}, false
}

func (b *builder) declareVariables(u *types.Universe, registry *inference.Registry) {
	for _, v := range b.file.Variables {
		if _, ok := u.Lookup(v.Value); ok {
			b.fail(tyerr.New(tyerr.NewDuplicateDeclaration{Pos: b.pos(v), Name: v.Value}))
			continue
		}
		if _, err := registry.NewVariable(v.Value); err != nil {
			b.fail(tyerr.New(tyerr.NewDuplicateDeclaration{Pos: b.pos(v), Name: v.Value}))
		}
	}
}

func (b *builder) resolveSupertypes(u *types.Universe, declared map[*types.Classifier]ClassDecl) {
	for _, c := range u.Classifiers() {
		decl, ok := declared[c]
		if !ok {
			continue
		}
		scope := types.Chain(types.ParamScope(c), u)
		supertypes := make([]types.Rigid, 0, len(decl.Supertypes))
		for _, s := range decl.Supertypes {
			t, ok := b.parse(s, scope)
			if !ok {
				continue
			}
			r, isRigid := t.(types.Rigid)
			switch {
			case !isRigid:
				b.fail(tyerr.New(tyerr.NewInvalidSupertype{Pos: b.pos(s), Class: c.Name, Supertype: s.Value, Reason: "only class references may be supertypes"}))
			case r.Nullable:
				b.fail(tyerr.New(tyerr.NewInvalidSupertype{Pos: b.pos(s), Class: c.Name, Supertype: s.Value, Reason: "supertypes may not be nullable"}))
			case r.Classifier.Kind != types.KindClass || u.IsNothing(r.Classifier):
				b.fail(tyerr.New(tyerr.NewInvalidSupertype{Pos: b.pos(s), Class: c.Name, Supertype: s.Value, Reason: fmt.Sprintf("%s is a %s", r.Classifier.Name, r.Classifier.Kind)}))
			case r.Classifier == c:
				b.fail(tyerr.New(tyerr.NewInvalidSupertype{Pos: b.pos(s), Class: c.Name, Supertype: s.Value, Reason: "a class cannot extend itself"}))
			default:
				supertypes = append(supertypes, r)
			}
		}
		u.SetSupertypes(c, supertypes...)
	}
}

// parse reports its own errors
func (b *builder) parse(l Located, scope types.Scope) (types.Type, bool) {
	return b.parseAt(l.Value, b.pos(l), scope)
}

func (b *builder) parseAt(src string, pos tyerr.Pos, scope types.Scope) (types.Type, bool) {
	t, err := types.Parse(src, scope)
	if err == nil {
		return t, true
	}
	var parseErr *types.ParseError
	switch {
	case errors.As(err, &parseErr) && parseErr.Unresolved != "":
		b.fail(tyerr.New(tyerr.NewUndefinedType{Pos: pos.Shift(parseErr.Offset), Name: parseErr.Unresolved}))
	case errors.As(err, &parseErr):
		b.fail(tyerr.New(tyerr.NewParse{Pos: pos.Shift(parseErr.Offset), Source: src, Message: parseErr.Message}))
	default:
		b.fail(tyerr.New(tyerr.NewParse{Pos: pos, Source: src, Message: err.Error()}))
	}
	return nil, false
}

func (b *builder) compileCandidate(index int, c Candidate, scope types.Scope) CompiledCandidate {
	name := c.Name.Value
	if name == "" {
		name = fmt.Sprintf("#%d", index+1)
	}
	compiled := CompiledCandidate{Name: name, Pos: b.pos(c.Name)}
	for _, src := range c.Constraints {
		if a, ok := b.compileAssertion(src, scope); ok {
			compiled.Constraints = append(compiled.Constraints, a)
		}
	}
	if c.Expect != nil {
		v, err := constraint.ParseVerdict(c.Expect.Value)
		if err != nil {
			b.fail(tyerr.New(tyerr.NewParse{Pos: b.pos(*c.Expect), Source: c.Expect.Value, Message: err.Error()}))
		} else {
			compiled.Expect = &v
		}
	}
	return compiled
}

const subtypeOperator = "<:"

func (b *builder) compileAssertion(src Located, scope types.Scope) (Assertion, bool) {
	pos := b.pos(src)
	lhs, rhs, found := strings.Cut(src.Value, subtypeOperator)
	if !found {
		b.fail(tyerr.New(tyerr.NewParse{Pos: pos, Source: src.Value, Message: "expected a constraint of the form 'Sub <: Super'"}))
		return Assertion{}, false
	}
	sub, okSub := b.parseAt(lhs, pos, scope)
	super, okSuper := b.parseAt(rhs, pos.Shift(len(lhs)+len(subtypeOperator)), scope)
	if !okSub || !okSuper {
		return Assertion{}, false
	}
	if !types.BothBounds(super, types.IsRigid(func(types.Rigid) bool { return true })) {
		b.fail(tyerr.New(tyerr.NewParse{Pos: pos, Source: src.Value, Message: "the right-hand side of a constraint must be a class or variable reference"}))
		return Assertion{}, false
	}
	return Assertion{Source: src.Value, Pos: pos, Sub: sub, Super: super}, true
}

// CompileCandidate compiles constraints written outside of a scenario file
// against the classes and variables of s. Diagnostics name the position of
// the constraint in the argument list.
func (s *Scenario) CompileCandidate(name string, constraints ...string) (CompiledCandidate, []tyerr.TyError) {
	scope := types.Chain(s.Universe, s.Registry)
	compiled := CompiledCandidate{Name: name}
	var errs []tyerr.TyError
	for i, src := range constraints {
		b := &builder{file: &File{Name: fmt.Sprintf("argument %d", i+1)}}
		if a, ok := b.compileAssertion(Located{Value: src}, scope); ok {
			compiled.Constraints = append(compiled.Constraints, a)
		}
		errs = append(errs, b.errs...)
	}
	return compiled, errs
}
