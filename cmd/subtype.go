package cmd

import (
	"fmt"
	"log/slog"

	"github.com/cottand/tycon/internal/log"
	"github.com/cottand/tycon/scenario"
	"github.com/cottand/tycon/tyerr"
	"github.com/spf13/cobra"
)

var SubtypeCmd = &cobra.Command{
	Use:   "subtype scenario.yaml 'Sub <: Super'...",
	Short: "Simplify the given constraints against the declarations of a scenario",
	Long: `Simplify the given constraints, in order, against the classes and
variables declared in a scenario. The candidates of the scenario are ignored.`,
	RunE:         runSubtype,
	Args:         cobra.MinimumNArgs(2),
	SilenceUsage: true,
}

var (
	subtypeLogLevel    *int
	subtypeFormat      *string
	subtypeDebugErrors *bool
)

func init() {
	subtypeDebugErrors = SubtypeCmd.Flags().Bool("debug-errors", false, "show where each diagnostic was raised")
	subtypeLogLevel = SubtypeCmd.Flags().IntP("log-level", "l", int(slog.LevelWarn), "log level")
	subtypeFormat = SubtypeCmd.Flags().StringP("format", "f", "text", "output format: text or yaml")
}

func runSubtype(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*subtypeLogLevel))
	tyerr.SetDebugPrinting(*subtypeDebugErrors)

	s, err := loadScenario(args[0])
	if err != nil {
		return err
	}
	candidate, errs := s.CompileCandidate("arguments", args[1:]...)
	if len(errs) > 0 {
		return fmt.Errorf("invalid constraints:\n%s", tyerr.Join(errs))
	}
	s.Candidates = []scenario.CompiledCandidate{candidate}

	results := s.Run()
	report := scenario.NewReport(s.Name, results)
	if err := writeReport(cmd.OutOrStdout(), report, *subtypeFormat, useColor(cmd.OutOrStdout())); err != nil {
		return err
	}
	return checkOutcome(results)
}
