package commands

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mmcore-schema/mmconfig-go/pkg/convert"
	"github.com/mmcore-schema/mmconfig-go/pkg/legacy"
	"github.com/mmcore-schema/mmconfig-go/pkg/mmconfig"
)

// ConvertOptions configures the convert command.
type ConvertOptions struct {
	Input  string
	Output string // Empty means stdout
	Format string // Stdout format when no output file: cfg, json, yaml
	Indent int
	Quiet  bool // Suppress diagnostics
}

// RunConvert runs the convert command.
func RunConvert(args []string, stdout, stderr io.Writer) int {
	opts, err := parseConvertArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	if opts.Input == "" {
		fmt.Fprintln(stderr, "Error: no input file specified")
		printConvertUsage(stderr)
		return exitCommandError
	}

	cfg, diags, err := convert.ReadFile(opts.Input)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing input: %v\n", err)
		return exitCommandError
	}
	if !opts.Quiet {
		printDiagnostics(stderr, diags)
	}

	if opts.Output == "" || opts.Output == "-" {
		data, err := encodeForStdout(cfg, opts)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCommandError
		}
		fmt.Fprint(stdout, string(data))
		return exitSuccess
	}

	encOpts := convert.Options{Indent: opts.Indent}
	if err := convert.WriteFile(opts.Output, cfg, encOpts); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return exitCommandError
	}
	fmt.Fprintf(stdout, "Converted %s -> %s\n", opts.Input, opts.Output)

	return exitSuccess
}

func encodeForStdout(cfg *mmconfig.Config, opts ConvertOptions) ([]byte, error) {
	switch strings.ToLower(opts.Format) {
	case "cfg", "":
		return legacy.Marshal(cfg), nil
	case "json":
		return cfg.ToJSON(opts.Indent)
	case "yaml", "yml":
		return cfg.ToYAML(opts.Indent)
	default:
		return nil, fmt.Errorf("unknown output format %q (expected cfg, json, or yaml)", opts.Format)
	}
}

func printDiagnostics(w io.Writer, diags []legacy.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "Warning: %s\n", d)
	}
}

func parseConvertArgs(args []string) (ConvertOptions, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	opts := ConvertOptions{}

	fs.StringVar(&opts.Output, "o", "", "Output file (default: stdout)")
	fs.StringVar(&opts.Output, "output", "", "Output file")
	fs.StringVar(&opts.Format, "format", "cfg", "Stdout format when no output file (cfg, json, yaml)")
	fs.IntVar(&opts.Indent, "indent", 2, "Indentation width for JSON/YAML output")
	fs.BoolVar(&opts.Quiet, "q", false, "Suppress parser warnings")
	fs.BoolVar(&opts.Quiet, "quiet", false, "Suppress parser warnings")

	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	remaining := fs.Args()
	if len(remaining) > 0 {
		opts.Input = remaining[0]
	}

	return opts, nil
}

func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: mmconfig convert [options] <input-file>

The input and output formats are chosen by file extension:
.cfg (legacy text), .json, .yaml/.yml.

Options:
  -o, --output   Output file (default: stdout)
  --format       Stdout format when no output file (cfg, json, yaml) [default: cfg]
  --indent       Indentation width for JSON/YAML output [default: 2]
  -q, --quiet    Suppress parser warnings

Examples:
  mmconfig convert MMConfig_demo.cfg -o demo.json
  mmconfig convert demo.yaml -o MMConfig_demo.cfg
  mmconfig convert --format json MMConfig_demo.cfg > demo.json`)
}
