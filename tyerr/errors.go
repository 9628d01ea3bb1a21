package tyerr

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync/atomic"
)

// enableDebugErrorPrinting makes errors include where they were created when printed
var enableDebugErrorPrinting atomic.Bool

// SetDebugPrinting makes FormatWithCode prefix errors with the place
// they were created at
func SetDebugPrinting(enabled bool) {
	enableDebugErrorPrinting.Store(enabled)
}

type ErrCode int

const (
	None ErrCode = iota
	Parse
	UndefinedType
	DuplicateDeclaration
	InvalidSupertype
	TypeMismatch
	InternalContract
	UnexpectedVerdict
)

// Pos locates a diagnostic in a scenario file. Line and Column are 1-based;
// zero means unknown.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	switch {
	case p.Line == 0 && p.File == "":
		return "-"
	case p.Line == 0:
		return p.File
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Shift moves p right by n columns, for errors found inside a scalar
func (p Pos) Shift(n int) Pos {
	if p.Line != 0 {
		p.Column += n
	}
	return p
}

type TyError interface {
	Error() string
	Code() ErrCode
	Position() Pos

	withStack([]byte) TyError
	getStack() []byte
}

func FormatWithCode(e TyError) string {
	msg := fmt.Sprintf("%s: (E%03d) %s", e.Position(), e.Code(), e.Error())
	if enableDebugErrorPrinting.Load() && e.getStack() != nil {
		lines := strings.Split(string(e.getStack()), "\n")
		if len(lines) > 6 {
			return strings.TrimSpace(lines[6]) + ": " + msg
		}
	}
	return msg
}

func New[E TyError](err E) TyError {
	return err.withStack(debug.Stack())
}

type NewParse struct {
	Pos
	Source  string
	Message string
	stack   []byte
}

func (e NewParse) Error() string {
	return fmt.Sprintf("could not parse %q: %s", e.Source, e.Message)
}
func (e NewParse) Code() ErrCode    { return Parse }
func (e NewParse) Position() Pos    { return e.Pos }
func (e NewParse) getStack() []byte { return e.stack }
func (e NewParse) withStack(stack []byte) TyError {
	e.stack = stack
	return e
}

type NewUndefinedType struct {
	Pos
	Name  string
	stack []byte
}

func (e NewUndefinedType) Error() string {
	return fmt.Sprintf("type '%s' is not defined", e.Name)
}
func (e NewUndefinedType) Code() ErrCode    { return UndefinedType }
func (e NewUndefinedType) Position() Pos    { return e.Pos }
func (e NewUndefinedType) getStack() []byte { return e.stack }
func (e NewUndefinedType) withStack(stack []byte) TyError {
	e.stack = stack
	return e
}

type NewDuplicateDeclaration struct {
	Pos
	Name  string
	stack []byte
}

func (e NewDuplicateDeclaration) Error() string {
	return fmt.Sprintf("'%s' is declared more than once", e.Name)
}
func (e NewDuplicateDeclaration) Code() ErrCode    { return DuplicateDeclaration }
func (e NewDuplicateDeclaration) Position() Pos    { return e.Pos }
func (e NewDuplicateDeclaration) getStack() []byte { return e.stack }
func (e NewDuplicateDeclaration) withStack(stack []byte) TyError {
	e.stack = stack
	return e
}

type NewInvalidSupertype struct {
	Pos
	Class     string
	Supertype string
	Reason    string
	stack     []byte
}

func (e NewInvalidSupertype) Error() string {
	return fmt.Sprintf("'%s' cannot be a supertype of '%s': %s", e.Supertype, e.Class, e.Reason)
}
func (e NewInvalidSupertype) Code() ErrCode    { return InvalidSupertype }
func (e NewInvalidSupertype) Position() Pos    { return e.Pos }
func (e NewInvalidSupertype) getStack() []byte { return e.stack }
func (e NewInvalidSupertype) withStack(stack []byte) TyError {
	e.stack = stack
	return e
}

type NewTypeMismatch struct {
	Pos
	Sub   string
	Super string
	stack []byte
}

func (e NewTypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch: '%s' is not a subtype of '%s'", e.Sub, e.Super)
}
func (e NewTypeMismatch) Code() ErrCode    { return TypeMismatch }
func (e NewTypeMismatch) Position() Pos    { return e.Pos }
func (e NewTypeMismatch) getStack() []byte { return e.stack }
func (e NewTypeMismatch) withStack(stack []byte) TyError {
	e.stack = stack
	return e
}

// NewInternalContract reports a type that reached the simplifier in a shape
// it does not accept. This is a bug in whoever built the type.
type NewInternalContract struct {
	Pos
	Reason string
	stack  []byte
}

func (e NewInternalContract) Error() string {
	return fmt.Sprintf("internal error (this is a bug and not a type error): %s", e.Reason)
}
func (e NewInternalContract) Code() ErrCode    { return InternalContract }
func (e NewInternalContract) Position() Pos    { return e.Pos }
func (e NewInternalContract) getStack() []byte { return e.stack }
func (e NewInternalContract) withStack(stack []byte) TyError {
	e.stack = stack
	return e
}

type NewUnexpectedVerdict struct {
	Pos
	Candidate string
	Expected  string
	Got       string
	stack     []byte
}

func (e NewUnexpectedVerdict) Error() string {
	return fmt.Sprintf("candidate '%s' was expected to be %s, but was %s", e.Candidate, e.Expected, e.Got)
}
func (e NewUnexpectedVerdict) Code() ErrCode    { return UnexpectedVerdict }
func (e NewUnexpectedVerdict) Position() Pos    { return e.Pos }
func (e NewUnexpectedVerdict) getStack() []byte { return e.stack }
func (e NewUnexpectedVerdict) withStack(stack []byte) TyError {
	e.stack = stack
	return e
}

// Join formats errs one per line
func Join(errs []TyError) string {
	sb := &strings.Builder{}
	for i, e := range errs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(FormatWithCode(e))
	}
	return sb.String()
}
