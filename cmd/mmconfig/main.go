// mmconfig is a CLI tool for converting, validating, and inspecting
// Micro-Manager hardware configuration files.
package main

import (
	"fmt"
	"os"

	"github.com/mmcore-schema/mmconfig-go/cmd/mmconfig/commands"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitValidation   = 2
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitCommandError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "convert":
		exitCode = commands.RunConvert(args, os.Stdout, os.Stderr)
	case "validate":
		exitCode = commands.RunValidate(args, os.Stdout, os.Stderr)
	case "show":
		exitCode = commands.RunShow(args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		exitCode = exitSuccess
	case "version", "-v", "--version":
		fmt.Println("mmconfig version 0.1.0")
		exitCode = exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		exitCode = exitCommandError
	}

	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println(`mmconfig - Micro-Manager configuration conversion tool

Usage:
  mmconfig <command> [options] [files...]

Commands:
  convert    Convert between configuration formats (.cfg <-> JSON/YAML)
  validate   Parse configuration files and report problems
  show       Display a configuration summary in various formats

Options:
  -h, --help     Show this help message
  -v, --version  Show version information

Examples:
  mmconfig convert MMConfig_demo.cfg -o demo.json
  mmconfig validate --json *.cfg
  mmconfig show --format yaml demo.cfg

For command-specific help, run:
  mmconfig <command> --help`)
}
