package tyerr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatWithCode(t *testing.T) {
	err := New(NewTypeMismatch{
		Pos:   Pos{File: "a.yaml", Line: 3, Column: 7},
		Sub:   "String?",
		Super: "CharSequence",
	})
	assert.Equal(t, TypeMismatch, err.Code())
	assert.NotNil(t, err.getStack())
	assert.Equal(t, "a.yaml:3:7: (E005) type mismatch: 'String?' is not a subtype of 'CharSequence'", FormatWithCode(err))
}

func TestPos(t *testing.T) {
	assert.Equal(t, "-", Pos{}.String())
	assert.Equal(t, "a.yaml", Pos{File: "a.yaml"}.String())
	assert.Equal(t, "a.yaml:1:5", Pos{File: "a.yaml", Line: 1, Column: 2}.Shift(3).String())
	assert.Equal(t, Pos{File: "a.yaml"}, Pos{File: "a.yaml"}.Shift(3))
}

func TestJoin(t *testing.T) {
	errs := []TyError{
		New(NewUndefinedType{Name: "Foo"}),
		New(NewDuplicateDeclaration{Name: "T"}),
	}
	assert.Equal(t, "-: (E002) type 'Foo' is not defined\n-: (E003) 'T' is declared more than once", Join(errs))
}

func TestDebugPrintingShowsOrigin(t *testing.T) {
	SetDebugPrinting(true)
	t.Cleanup(func() { SetDebugPrinting(false) })

	err := New(NewUndefinedType{Name: "Foo"})
	formatted := FormatWithCode(err)
	assert.Contains(t, formatted, "errors_test.go:")
	assert.True(t, strings.HasSuffix(formatted, "-: (E002) type 'Foo' is not defined"), formatted)
}
