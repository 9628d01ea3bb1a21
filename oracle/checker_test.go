package oracle

import (
	"testing"

	"github.com/cottand/tycon/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hierarchy:
//
//	CharSequence
//	String : CharSequence, Comparable<String>
//	Comparable<in T>
//	Collection<out E>
//	List<out E> : Collection<E>
//	MutableList<E> : List<E>
//	Holder<out T>
//	Box<out T> : Holder<T?>
func testUniverse(t *testing.T) *types.Universe {
	u := types.NewUniverse()
	declare := func(name string, params ...types.TypeParam) *types.Classifier {
		c, err := u.Declare(name, params...)
		require.NoError(t, err)
		return c
	}
	charSeq := declare("CharSequence")
	str := declare("String")
	comparable := declare("Comparable", types.TypeParam{Name: "T", Variance: types.In})
	collection := declare("Collection", types.TypeParam{Name: "E", Variance: types.Out})
	list := declare("List", types.TypeParam{Name: "E", Variance: types.Out})
	mutableList := declare("MutableList", types.TypeParam{Name: "E"})
	declare("Int")
	holder := declare("Holder", types.TypeParam{Name: "T", Variance: types.Out})
	box := declare("Box", types.TypeParam{Name: "T", Variance: types.Out})

	u.SetSupertypes(str, charSeq.Type(), comparable.Type(str.Type()))
	u.SetSupertypes(box, holder.Type(box.Params[0].Classifier.Type().MakeNullable(true)))
	u.SetSupertypes(list, collection.Type(list.Params[0].Classifier.Type()))
	u.SetSupertypes(mutableList, list.Type(mutableList.Params[0].Classifier.Type()))
	return u
}

func TestIsSubtypeOf(t *testing.T) {
	u := testUniverse(t)
	checker := NewChecker(u, Config{})

	testCases := []struct {
		sub, super string
		expected   bool
	}{
		{"String", "String", true},
		{"String", "CharSequence", true},
		{"CharSequence", "String", false},
		{"String", "Any", true},
		{"String?", "Any", false},
		{"String?", "Any?", true},
		{"String", "CharSequence?", true},
		{"Nothing", "String", true},
		{"Nothing?", "String", false},
		{"Nothing?", "String?", true},
		{"Nothing?", "Any?", true},
		{"String", "Comparable<String>", true},
		{"Comparable<CharSequence>", "Comparable<String>", true},
		{"Comparable<String>", "Comparable<CharSequence>", false},
		{"List<String>", "List<CharSequence>", true},
		{"List<CharSequence>", "List<String>", false},
		{"List<String>", "Collection<CharSequence>", true},
		{"MutableList<String>", "Collection<CharSequence>", true},
		{"MutableList<String>", "MutableList<CharSequence>", false},
		{"MutableList<String>", "List<String?>", true},
		{"String!", "CharSequence", true},
		{"String", "CharSequence!", true},
		{"String?", "CharSequence!", true},
		{"(String..Any?)", "CharSequence", true},
		{"String & Int", "Int", true},
		{"String & Int", "CharSequence", true},
		{"CharSequence", "String & Int", false},
		{"String", "CharSequence & Comparable<String>", true},
		{"Int", "String", false},
		{"Error", "String", false},
		{"Error", "Error", true},
		{"Box<String>", "Holder<CharSequence?>", true},
		{"Box<String>", "Holder<CharSequence>", false},
		{"Box<Int & String>", "Holder<Any?>", true},
		{"Box<Int & String>", "Holder<Int?>", true},
		{"Box<Int & String>", "Holder<Int>", false},
	}
	for _, tc := range testCases {
		t.Run(tc.sub+" <: "+tc.super, func(t *testing.T) {
			sub := types.MustParse(tc.sub, u)
			super := types.MustParse(tc.super, u)
			assert.Equal(t, tc.expected, checker.IsSubtypeOf(sub, super))
		})
	}
}

func TestErrorTypeEqualsAnything(t *testing.T) {
	u := testUniverse(t)
	strict := NewChecker(u, Config{})
	lenient := NewChecker(u, Config{ErrorTypeEqualsAnything: true})

	str := types.MustParse("String", u)
	errType := u.ErrorType()

	assert.False(t, strict.IsSubtypeOf(errType, str))
	assert.False(t, strict.IsSubtypeOf(str, errType))
	assert.True(t, lenient.IsSubtypeOf(errType, str))
	assert.True(t, lenient.IsSubtypeOf(str, errType))
	assert.True(t, lenient.IsSubtypeOf(types.MustParse("Error!", u), str))
	assert.True(t, lenient.Config().ErrorTypeEqualsAnything)
}

func TestTypeParametersOnlyMatchThemselves(t *testing.T) {
	u := testUniverse(t)
	checker := NewChecker(u, Config{})
	list, _ := u.Lookup("List")
	param := list.Params[0].Classifier.Type()

	assert.True(t, checker.IsSubtypeOf(param, param))
	assert.True(t, checker.IsSubtypeOf(param, u.AnyType()))
	assert.False(t, checker.IsSubtypeOf(param, types.MustParse("String", u)))
}

func TestIntersectionArgumentInNullablePosition(t *testing.T) {
	u := testUniverse(t)
	checker := NewChecker(u, Config{})
	sub := types.MustParse("Box<Int & String>", u)
	super := types.MustParse("Holder<Any?>", u)

	assert.NotPanics(t, func() { checker.IsSubtypeOf(sub, super) })

	box, _ := u.Lookup("Box")
	holder, ok := checker.findSupertype(sub.(types.Rigid), box.Supertypes[0].Classifier)
	require.True(t, ok)
	assert.Equal(t, "Holder<Int? & String?>", holder.String())
}
