package commands

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/mmcore-schema/mmconfig-go/pkg/convert"
	"github.com/mmcore-schema/mmconfig-go/pkg/legacy"
	"github.com/mmcore-schema/mmconfig-go/pkg/mmconfig"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitValidation   = 2
)

// ValidateOptions configures the validate command.
type ValidateOptions struct {
	JSON    bool
	Verbose bool
	Files   []string
}

// RunValidate runs the validate command.
func RunValidate(args []string, stdout, stderr io.Writer) int {
	opts, err := parseValidateArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	if len(opts.Files) == 0 {
		fmt.Fprintln(stderr, "Error: no files specified")
		printValidateUsage(stderr)
		return exitCommandError
	}

	hasErrors := false
	results := make(map[string]*ValidationOutput)

	for _, file := range opts.Files {
		result := validateFile(file)
		results[file] = result

		if !result.Valid {
			hasErrors = true
		}

		if !opts.JSON {
			printValidationResult(stdout, file, result, opts.Verbose)
		}
	}

	if opts.JSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Fprintln(stdout, string(output))
	}

	if hasErrors {
		return exitValidation
	}
	return exitSuccess
}

// ValidationOutput represents the validation result for a file.
type ValidationOutput struct {
	Valid    bool          `json:"valid"`
	Devices  int           `json:"devices,omitempty"`
	Errors   []IssueOutput `json:"errors,omitempty"`
	Warnings []IssueOutput `json:"warnings,omitempty"`
}

// IssueOutput represents a single parse error or diagnostic.
type IssueOutput struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

func validateFile(path string) *ValidationOutput {
	output := &ValidationOutput{Valid: true}

	cfg, diags, err := convert.ReadFile(path)
	for _, d := range diags {
		output.Warnings = append(output.Warnings, IssueOutput{
			Code:    string(d.Code),
			Message: d.Message,
			Line:    d.Line,
		})
	}
	if err != nil {
		output.Valid = false
		output.Errors = append(output.Errors, IssueOutput{
			Code:    errorCode(err),
			Message: err.Error(),
		})
		return output
	}

	output.Devices = len(cfg.Devices)
	return output
}

// errorCode classifies a parse error for machine-readable output.
func errorCode(err error) string {
	var arity *legacy.ArityError
	var ref *legacy.UnknownReferenceError
	var invariant *mmconfig.InvariantError
	var format *convert.UnsupportedFormatError
	switch {
	case errors.As(err, &arity):
		return "ARITY"
	case errors.As(err, &ref):
		return "UNKNOWN_REFERENCE"
	case errors.As(err, &invariant):
		return "INVARIANT"
	case errors.As(err, &format):
		return "UNSUPPORTED_FORMAT"
	default:
		return "PARSE"
	}
}

func printValidationResult(w io.Writer, file string, result *ValidationOutput, verbose bool) {
	if result.Valid && len(result.Warnings) == 0 {
		fmt.Fprintf(w, "%s: OK (%d devices)\n", file, result.Devices)
		return
	}

	if result.Valid {
		fmt.Fprintf(w, "%s: OK (%d devices, %d warnings)\n", file, result.Devices, len(result.Warnings))
	} else {
		fmt.Fprintf(w, "%s: FAILED (%d errors, %d warnings)\n", file, len(result.Errors), len(result.Warnings))
	}

	for _, e := range result.Errors {
		fmt.Fprintf(w, "  ERROR %s: %s\n", e.Code, e.Message)
	}

	if verbose || !result.Valid {
		for _, warn := range result.Warnings {
			if warn.Line > 0 {
				fmt.Fprintf(w, "  WARNING [line %d] %s: %s\n", warn.Line, warn.Code, warn.Message)
			} else {
				fmt.Fprintf(w, "  WARNING %s: %s\n", warn.Code, warn.Message)
			}
		}
	}
}

func parseValidateArgs(args []string) (ValidateOptions, error) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	opts := ValidateOptions{}

	fs.BoolVar(&opts.JSON, "json", false, "Output results as JSON")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Show all warnings")
	fs.BoolVar(&opts.Verbose, "v", false, "Show all warnings (shorthand)")

	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.Files = fs.Args()
	return opts, nil
}

func printValidateUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: mmconfig validate [options] <files...>

Options:
  --json         Output results as JSON
  -v, --verbose  Show all warnings

Examples:
  mmconfig validate MMConfig_demo.cfg
  mmconfig validate --json *.cfg`)
}
