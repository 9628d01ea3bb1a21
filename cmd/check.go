package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cottand/tycon/internal/log"
	"github.com/cottand/tycon/scenario"
	"github.com/cottand/tycon/tyerr"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var CheckCmd = &cobra.Command{
	Use:          "check scenario.yaml",
	Short:        "Simplify the constraints of every candidate in a scenario",
	RunE:         runCheck,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var (
	logLevel     *int
	outFormat    *string
	errorAbsorbs *bool
	noColor      *bool
	debugErrors  *bool
)

func init() {
	debugErrors = CheckCmd.Flags().Bool("debug-errors", false, "show where each diagnostic was raised")
	logLevel = CheckCmd.Flags().IntP("log-level", "l", int(slog.LevelWarn), "log level")
	outFormat = CheckCmd.Flags().StringP("format", "f", "text", "output format: text or yaml")
	errorAbsorbs = CheckCmd.Flags().Bool("error-absorbs", false, "treat the Error type as compatible with anything (overrides the scenario)")
	noColor = CheckCmd.Flags().Bool("no-color", false, "never color the output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*logLevel))
	tyerr.SetDebugPrinting(*debugErrors)

	var opts []scenario.BuildOption
	if cmd.Flags().Changed("error-absorbs") {
		opts = append(opts, scenario.WithErrorTypeEqualsAnything(*errorAbsorbs))
	}
	s, err := loadScenario(args[0], opts...)
	if err != nil {
		return err
	}

	results := s.Run()
	report := scenario.NewReport(s.Name, results)
	if err := writeReport(cmd.OutOrStdout(), report, *outFormat, useColor(cmd.OutOrStdout())); err != nil {
		return err
	}
	return checkOutcome(results)
}

func loadScenario(path string, opts ...scenario.BuildOption) (*scenario.Scenario, error) {
	f, err := scenario.LoadFile(path)
	if err != nil {
		return nil, err
	}
	s, errs := scenario.Build(f, opts...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("errors found in scenario:\n%s", tyerr.Join(errs))
	}
	return s, nil
}

func writeReport(w io.Writer, report scenario.Report, format string, color bool) error {
	switch format {
	case "text":
		return report.WriteText(w, color)
	case "yaml":
		return report.WriteYAML(w)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func useColor(w io.Writer) bool {
	if *noColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// checkOutcome fails when a candidate did not behave as expected, or when
// no candidate at all could be applied
func checkOutcome(results []scenario.CandidateResult) error {
	var unexpected []string
	accepted := 0
	for _, r := range results {
		if r.Accepted() {
			accepted++
		}
		for _, e := range r.Errors {
			if e.Code() != tyerr.TypeMismatch {
				unexpected = append(unexpected, tyerr.FormatWithCode(e))
			}
		}
	}
	if len(unexpected) > 0 {
		return fmt.Errorf("scenario did not behave as expected:\n%s", strings.Join(unexpected, "\n"))
	}
	if len(results) > 0 && accepted == 0 {
		return fmt.Errorf("none of the %d candidates is applicable", len(results))
	}
	return nil
}
