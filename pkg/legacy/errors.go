package legacy

import (
	"fmt"
	"strconv"
	"strings"
)

// ArityError reports a line whose non-empty token count matches none of the
// accepted counts for its command.
type ArityError struct {
	// Text is the raw offending line.
	Text string

	// Line is the 1-based line number in the input.
	Line int

	// Expected lists the accepted token counts for the command.
	Expected []int

	// Actual is the token count observed.
	Actual int
}

func (e *ArityError) Error() string {
	counts := make([]string, len(e.Expected))
	for i, n := range e.Expected {
		counts[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("invalid configuration line %q: expected %s tokens, got %d",
		e.Text, strings.Join(counts, " or "), e.Actual)
}

// UnknownReferenceError reports a command that references a device or pixel
// size configuration that has not been declared yet.
type UnknownReferenceError struct {
	// Kind is "device" or "pixel size configuration".
	Kind string

	// Name is the missing reference.
	Name string

	// Line is the 1-based line number in the input.
	Line int
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("%s %q not found in configuration", e.Kind, e.Name)
}
