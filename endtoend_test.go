package main

import (
	"bytes"
	"embed"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// embeds the scenarios checked end to end
//
//go:embed testdata
var testSet embed.FS

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestScenariosEndToEnd(t *testing.T) {
	files, err := testSet.ReadDir("testdata")
	require.NoError(t, err)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}
		t.Run(f.Name(), func(t *testing.T) {
			out, err := execute(t, "check", path.Join("testdata", f.Name()))
			assert.NoError(t, err, out)
			assert.Contains(t, out, "candidate ")
			assert.NotContains(t, out, "E006", "internal contract violations")
		})
	}
}

func TestSubtypeCommand(t *testing.T) {
	out, err := execute(t, "subtype", "testdata/collections.yaml", "String <: T?", "T <: CharSequence")
	require.NoError(t, err, out)
	assert.Contains(t, out, "candidate arguments: proven\n")
	assert.Contains(t, out, "  bound T >: Any & String\n")
	assert.Contains(t, out, "  bound T <: CharSequence\n")
}

func TestSubtypeCommandDisproven(t *testing.T) {
	out, err := execute(t, "subtype", "testdata/collections.yaml", "String? <: CharSequence")
	assert.ErrorContains(t, err, "none of the 1 candidates is applicable")
	assert.Contains(t, out, "candidate arguments: disproven\n")
}

func TestSubtypeCommandRejectsUnknownTypes(t *testing.T) {
	_, err := execute(t, "subtype", "testdata/collections.yaml", "Strin <: T")
	assert.ErrorContains(t, err, "Strin")
}
