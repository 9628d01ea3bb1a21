package scenario

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/cottand/tycon/constraint"
	"github.com/cottand/tycon/tyerr"
	"github.com/cottand/tycon/types"
	"github.com/cottand/tycon/util"
	"gopkg.in/yaml.v3"
)

// Report is the printable form of the results of a scenario
type Report struct {
	Scenario   string            `yaml:"scenario"`
	Candidates []CandidateReport `yaml:"candidates"`
}

type CandidateReport struct {
	Name        string              `yaml:"name"`
	Verdict     string              `yaml:"verdict"`
	Constraints []ConstraintReport  `yaml:"constraints"`
	Bounds      map[string]BoundSet `yaml:"bounds,omitempty"`
	Errors      []string            `yaml:"errors,omitempty"`
}

type ConstraintReport struct {
	Constraint string `yaml:"constraint"`
	Verdict    string `yaml:"verdict"`
}

type BoundSet struct {
	Lower []string `yaml:"lower,omitempty"`
	Upper []string `yaml:"upper,omitempty"`
}

func NewReport(name string, results []CandidateResult) Report {
	r := Report{Scenario: name}
	for _, res := range results {
		c := CandidateReport{Name: res.Name, Verdict: res.Verdict.String()}
		for _, a := range res.Assertions {
			c.Constraints = append(c.Constraints, ConstraintReport{Constraint: a.Source, Verdict: a.Verdict.String()})
		}
		if len(res.Bounds) > 0 {
			c.Bounds = make(map[string]BoundSet, len(res.Bounds))
			for _, b := range res.Bounds {
				c.Bounds[b.Variable] = BoundSet{Lower: renderAll(b.Lower), Upper: renderAll(b.Upper)}
			}
		}
		for _, err := range res.Errors {
			c.Errors = append(c.Errors, tyerr.FormatWithCode(err))
		}
		r.Candidates = append(r.Candidates, c)
	}
	return r
}

func renderAll(ts []types.Type) []string {
	if len(ts) == 0 {
		return nil
	}
	return slices.Collect(util.MapIter(slices.Values(ts), types.Type.String))
}

func (r Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiGrey  = "\x1b[90m"
)

func colorFor(verdict string) string {
	switch verdict {
	case constraint.Proven.String():
		return ansiGreen
	case constraint.Disproven.String():
		return ansiRed
	}
	return ansiGrey
}

// WriteText prints r for humans, with verdicts colored if color is set
func (r Report) WriteText(w io.Writer, color bool) error {
	sb := &strings.Builder{}
	paint := func(verdict string) string {
		if !color {
			return verdict
		}
		return colorFor(verdict) + verdict + ansiReset
	}
	for i, c := range r.Candidates {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(sb, "candidate %s: %s\n", c.Name, paint(c.Verdict))
		for _, a := range c.Constraints {
			fmt.Fprintf(sb, "  %-40s %s\n", a.Constraint, paint(a.Verdict))
		}
		for _, name := range slices.Sorted(maps.Keys(c.Bounds)) {
			bounds := c.Bounds[name]
			for _, l := range bounds.Lower {
				fmt.Fprintf(sb, "  bound %s >: %s\n", name, l)
			}
			for _, u := range bounds.Upper {
				fmt.Fprintf(sb, "  bound %s <: %s\n", name, u)
			}
		}
		for _, e := range c.Errors {
			fmt.Fprintf(sb, "  error %s\n", e)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
