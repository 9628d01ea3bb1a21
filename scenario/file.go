// Package scenario drives the constraint simplifier the way a call resolver
// would: it declares a small class hierarchy and a set of inference
// variables, then tries candidates (lists of constraints) one at a time,
// rolling back the bounds of each before trying the next.
package scenario

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// File is the YAML form of a scenario:
//
//	errorTypeEqualsAnything: true
//	classes:
//	  - name: Comparable
//	    params: [in T]
//	  - name: String
//	    supertypes: [CharSequence, Comparable<String>]
//	variables: [T, U]
//	candidates:
//	  - name: first
//	    constraints: ["String <: T?", "T? <: CharSequence"]
//	    expect: proven
type File struct {
	ErrorTypeEqualsAnything bool        `yaml:"errorTypeEqualsAnything"`
	Classes                 []ClassDecl `yaml:"classes"`
	Variables               []Located   `yaml:"variables"`
	Candidates              []Candidate `yaml:"candidates"`

	// Name is where the file was read from, used in diagnostics
	Name string `yaml:"-"`
}

type ClassDecl struct {
	Name       Located   `yaml:"name"`
	Params     []Located `yaml:"params"`
	Supertypes []Located `yaml:"supertypes"`
}

type Candidate struct {
	Name        Located   `yaml:"name"`
	Constraints []Located `yaml:"constraints"`
	Expect      *Located  `yaml:"expect"`
}

// Located is a YAML scalar that remembers where it was written
type Located struct {
	Value  string
	Line   int
	Column int
}

func (l *Located) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a string, found a %s", node.Line, kindName(node.Kind))
	}
	l.Value = node.Value
	l.Line = node.Line
	l.Column = node.Column
	return nil
}

func (l Located) MarshalYAML() (any, error) {
	return l.Value, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "list"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	}
	return "scalar"
}

// Load decodes a scenario. Unknown fields are rejected.
func Load(r io.Reader, name string) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	f := &File{}
	if err := dec.Decode(f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Errorf("scenario %s is empty", name)
		}
		return nil, errors.Wrapf(err, "could not decode scenario %s", name)
	}
	f.Name = name
	return f, nil
}

func LoadFile(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open scenario")
	}
	defer fd.Close()
	return Load(fd, path)
}
