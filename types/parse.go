package types

import (
	"fmt"
	"strings"
	"text/scanner"
)

// Scope resolves names to classifiers while parsing
type Scope interface {
	Resolve(name string) (*Classifier, bool)
}

// ScopeFunc adapts a function to a Scope
type ScopeFunc func(name string) (*Classifier, bool)

func (f ScopeFunc) Resolve(name string) (*Classifier, bool) { return f(name) }

// Resolve makes a Universe usable as a Scope
func (u *Universe) Resolve(name string) (*Classifier, bool) { return u.Lookup(name) }

// Chain returns a Scope that tries each scope in order
func Chain(scopes ...Scope) Scope {
	return ScopeFunc(func(name string) (*Classifier, bool) {
		for _, s := range scopes {
			if c, ok := s.Resolve(name); ok {
				return c, true
			}
		}
		return nil, false
	})
}

// ParamScope resolves the type parameters of c by name
func ParamScope(c *Classifier) Scope {
	return ScopeFunc(func(name string) (*Classifier, bool) {
		for _, p := range c.Params {
			if p.Name == name {
				return p.Classifier, true
			}
		}
		return nil, false
	})
}

type ParseError struct {
	// Offset is the byte offset in the parsed source
	Offset  int
	Message string
	// Unresolved is set when the error is caused by an unknown name
	Unresolved string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
}

// Parse reads a type expression:
//
//	Name  Name<A, B>  T?  T!  (Lower..Upper)  A & B
//
// where T! is the platform type (T..T?). Intersection members must be
// non-nullable rigid types.
func Parse(src string, scope Scope) (Type, error) {
	p := &parser{scope: scope}
	p.s.Init(strings.NewReader(src))
	p.s.Mode = scanner.ScanIdents
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.fail(s.Position.Offset, msg)
	}
	p.next()
	t := p.parseType()
	if p.err == nil && p.tok != scanner.EOF {
		p.fail(p.pos, fmt.Sprintf("unexpected %q after type", p.text))
	}
	if p.err != nil {
		return nil, p.err
	}
	return t, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// fixed built-in declarations.
func MustParse(src string, scope Scope) Type {
	t, err := Parse(src, scope)
	if err != nil {
		panic(fmt.Sprintf("parse %q: %v", src, err))
	}
	return t
}

type parser struct {
	s     scanner.Scanner
	scope Scope
	tok   rune
	text  string
	pos   int
	err   *ParseError
}

func (p *parser) next() {
	p.tok = p.s.Scan()
	p.text = p.s.TokenText()
	p.pos = p.s.Position.Offset
}

func (p *parser) fail(offset int, msg string) {
	if p.err == nil {
		p.err = &ParseError{Offset: offset, Message: msg}
	}
}

func (p *parser) expect(tok rune) {
	if p.tok != tok {
		p.fail(p.pos, fmt.Sprintf("expected %q, found %q", string(tok), p.text))
		return
	}
	p.next()
}

func (p *parser) parseType() Type {
	start := p.pos
	first := p.parsePostfix()
	if p.tok != '&' {
		return first
	}
	operands := []Type{first}
	for p.tok == '&' && p.err == nil {
		p.next()
		operands = append(operands, p.parsePostfix())
	}
	if p.err != nil {
		return nil
	}
	members := make([]Rigid, 0, len(operands))
	for _, op := range operands {
		r, ok := op.(Rigid)
		if !ok {
			p.fail(start, fmt.Sprintf("intersection member %s must be a class or variable reference", op))
			return nil
		}
		if r.Nullable {
			p.fail(start, fmt.Sprintf("intersection member %s may not be nullable", r))
			return nil
		}
		members = append(members, r)
	}
	return NewIntersection(members...)
}

func (p *parser) parsePostfix() Type {
	t := p.parsePrimary()
	if p.err != nil {
		return nil
	}
	switch p.tok {
	case '?':
		p.next()
		r, ok := t.(Rigid)
		if !ok {
			p.fail(p.pos, fmt.Sprintf("only class or variable references may be marked nullable, not %s", t))
			return nil
		}
		return r.MakeNullable(true)
	case '!':
		p.next()
		r, ok := t.(Rigid)
		if !ok || r.Nullable {
			p.fail(p.pos, fmt.Sprintf("only non-null references may be platform types, not %s", t))
			return nil
		}
		return Platform(r)
	}
	return t
}

func (p *parser) parsePrimary() Type {
	switch p.tok {
	case '(':
		p.next()
		lower := p.parseType()
		if p.tok == ')' {
			p.next()
			return lower
		}
		p.expect('.')
		p.expect('.')
		upper := p.parseType()
		p.expect(')')
		if p.err != nil {
			return nil
		}
		lo, okLo := lower.(Simple)
		up, okUp := upper.(Simple)
		if !okLo || !okUp {
			p.fail(p.pos, "flexible bounds may not be flexible themselves")
			return nil
		}
		return NewFlexible(lo, up)
	case scanner.Ident:
		return p.parseReference()
	case scanner.EOF:
		p.fail(p.pos, "unexpected end of type")
	default:
		p.fail(p.pos, fmt.Sprintf("unexpected %q", p.text))
	}
	return nil
}

func (p *parser) parseReference() Type {
	name, at := p.text, p.pos
	p.next()
	c, ok := p.scope.Resolve(name)
	if !ok {
		if p.err == nil {
			p.err = &ParseError{Offset: at, Message: fmt.Sprintf("unknown type %s", name), Unresolved: name}
		}
		return nil
	}
	var args []Type
	if p.tok == '<' {
		p.next()
		for p.err == nil {
			args = append(args, p.parseType())
			if p.tok != ',' {
				break
			}
			p.next()
		}
		p.expect('>')
	}
	if p.err != nil {
		return nil
	}
	if len(args) != len(c.Params) {
		p.fail(at, fmt.Sprintf("%s expects %d type arguments, got %d", name, len(c.Params), len(args)))
		return nil
	}
	return Rigid{Classifier: c, Args: args}
}
