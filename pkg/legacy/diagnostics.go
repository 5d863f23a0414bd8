package legacy

import "fmt"

// DiagnosticCode identifies a class of recoverable parse condition.
type DiagnosticCode string

const (
	// DiagDuplicateDevice marks a repeated Device declaration; the first
	// declaration wins and the line is skipped.
	DiagDuplicateDevice DiagnosticCode = "duplicate-device"

	// DiagDuplicateStateLabel marks a repeated state index in Label lines;
	// the later label overwrites the earlier one.
	DiagDuplicateStateLabel DiagnosticCode = "duplicate-state-label"

	// DiagObsoleteCommand marks a recognized-but-retired keyword.
	DiagObsoleteCommand DiagnosticCode = "obsolete-command"

	// DiagUnknownCommand marks a keyword outside the vocabulary.
	DiagUnknownCommand DiagnosticCode = "unknown-command"
)

// Diagnostic is a non-fatal condition recorded while parsing. Diagnostics
// are returned as data alongside the parse result; the package never prints
// them.
type Diagnostic struct {
	Code    DiagnosticCode
	Message string

	// Line is the 1-based line number in the input.
	Line int

	// Text is the offending line.
	Text string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Code, d.Message)
}
