package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/avrconf/internal/compiler"
	"github.com/roach88/avrconf/internal/index"
	"github.com/roach88/avrconf/internal/parser"
)

// CheckResult holds the outcome of the check command.
type CheckResult struct {
	Valid       bool         `json:"valid"`
	Entries     int          `json:"entries"`
	Programmers int          `json:"programmers"`
	Parts       int          `json:"parts"`
	Signatures  int          `json:"signatures"`
	Cycles      []Cycle      `json:"cycles,omitempty"`
	Errors      []Diagnostic `json:"errors,omitempty"`
}

// Cycle is one inheritance cycle found by static analysis.
type Cycle struct {
	Kind  string   `json:"kind"`
	Chain []string `json:"chain"`
}

// Diagnostic is one parse or build error.
type Diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Build the index and report problems",
		Long: `Parse the source and resolve inheritance without running a query.

Reports record counts on success. On failure every error of the failing
build phase is listed along with any inheritance cycles.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, cmd)
		},
	}
}

func runCheck(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	src, err := readSource(opts.Source)
	if err != nil {
		return loadFailure(f, err)
	}

	result, err := check(opts, string(src))
	if err != nil {
		return loadFailure(f, err)
	}
	return outputCheck(f, result)
}

// check runs each build stage separately so cycle reports are available even
// when an earlier phase fails.
func check(opts *RootOptions, src string) (*CheckResult, error) {
	result := &CheckResult{}

	entries, err := parser.Parse(src)
	if err != nil {
		var pe *parser.ParseError
		if !errors.As(err, &pe) {
			return nil, err
		}
		pe.File = opts.Source
		result.Errors = []Diagnostic{{Code: pe.Code(), Message: pe.Error()}}
		return result, nil
	}
	result.Entries = len(entries)
	opts.Logger.Debug("parsed source", "entries", len(entries))

	for _, c := range compiler.AnalyzeCycles(entries) {
		result.Cycles = append(result.Cycles, Cycle{Kind: string(c.Kind), Chain: c.Chain})
	}

	built, err := compiler.Build(entries)
	if err != nil {
		result.Errors = diagnostics(err)
		return result, nil
	}

	idx, err := index.New(built.Programmers, built.Parts)
	if err != nil {
		result.Errors = diagnostics(err)
		return result, nil
	}

	result.Valid = true
	result.Programmers = idx.NumProgrammers()
	result.Parts = idx.NumParts()
	result.Signatures = idx.SignatureSummary().Len()
	return result, nil
}

func diagnostics(err error) []Diagnostic {
	var out []Diagnostic
	for _, e := range splitErrors(err) {
		out = append(out, Diagnostic{Code: ErrorCode(e), Message: e.Error()})
	}
	return out
}

func outputCheck(f *OutputFormatter, result *CheckResult) error {
	if f.JSON() {
		if result.Valid {
			return f.Success(result)
		}
		resp := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    result.Errors[0].Code,
				Message: result.Errors[0].Message,
			},
		}
		if err := f.encode(resp); err != nil {
			return err
		}
		return checkFailed(result)
	}

	if result.Valid {
		fmt.Fprintf(f.Writer, "✓ %d programmers, %d parts, %d signatures\n",
			result.Programmers, result.Parts, result.Signatures)
		return nil
	}

	fmt.Fprintln(f.Writer, "✗ Check failed")
	fmt.Fprintln(f.Writer)
	for _, d := range result.Errors {
		fmt.Fprintf(f.Writer, "  %s: %s\n", d.Code, d.Message)
	}
	if len(result.Cycles) > 0 {
		fmt.Fprintln(f.Writer)
		for _, c := range result.Cycles {
			fmt.Fprintf(f.Writer, "  cycle (%s): %s\n", c.Kind, strings.Join(c.Chain, " → "))
		}
	}
	return checkFailed(result)
}

func checkFailed(result *CheckResult) error {
	e := NewExitError(ExitCommandError, fmt.Sprintf("check failed with %d error(s)", len(result.Errors)))
	e.Reported = true
	return e
}
