package inference

import (
	"testing"

	"github.com/cottand/tycon/types"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(ts []types.Type) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}

func TestRegistryRecordsBoundsInOrder(t *testing.T) {
	u := types.NewUniverse()
	r := NewRegistry()
	tv, err := r.NewVariable("T")
	require.NoError(t, err)

	r.AddUpperBound(tv, u.AnyType())
	r.AddLowerBound(tv.MakeNullable(true), u.NothingType())
	r.AddUpperBound(tv, u.NullType())

	if diff := cmp.Diff([]string{"Any", "Nothing?"}, render(r.Bounds("T", Upper))); diff != "" {
		t.Errorf("upper bounds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Nothing"}, render(r.Bounds("T", Lower))); diff != "" {
		t.Errorf("lower bounds mismatch (-want +got):\n%s", diff)
	}

	constraints := r.Constraints()
	require.Len(t, constraints, 3)
	assert.Equal(t, "Nothing <: T?", constraints[1].String())
	assert.Equal(t, "T <: Any", constraints[0].String())
}

func TestRegistryVariables(t *testing.T) {
	r := NewRegistry()
	u, err := r.NewVariable("U")
	require.NoError(t, err)
	tv, err := r.NewVariable("T")
	require.NoError(t, err)

	_, err = r.NewVariable("T")
	assert.Error(t, err)

	assert.True(t, r.IsInferenceVariable(tv))
	assert.True(t, r.IsInferenceVariable(u.MakeNullable(true)))

	other := (&types.Classifier{Name: "T", Kind: types.KindVariable}).Type()
	assert.False(t, r.IsInferenceVariable(other), "variables are identified by classifier, not by name")

	assert.Equal(t, []types.Rigid{tv, u}, r.Variables())

	found, ok := r.Variable("U")
	assert.True(t, ok)
	assert.Equal(t, u, found)
}

func TestRegistryRejectsForeignVariables(t *testing.T) {
	u := types.NewUniverse()
	r := NewRegistry()
	assert.Panics(t, func() { r.AddLowerBound(u.AnyType(), u.NothingType()) })
}

func TestSnapshotRestore(t *testing.T) {
	u := types.NewUniverse()
	r := NewRegistry()
	tv, _ := r.NewVariable("T")

	r.AddUpperBound(tv, u.AnyType())
	snap := r.Snapshot()
	assert.Equal(t, 1, snap.Len())

	r.AddLowerBound(tv, u.NothingType())
	r.AddUpperBound(tv, u.NullType())
	assert.Equal(t, 3, r.Len())

	r.Restore(snap)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []string{"Any"}, render(r.Bounds("T", Upper)))
	assert.Empty(t, r.Bounds("T", Lower))

	// the snapshot is unaffected by later additions and can be reused
	r.AddLowerBound(tv, u.NothingType())
	r.Restore(snap)
	assert.Equal(t, 1, r.Len())
}
