package legacy

import "strings"

// Delim is the field delimiter of the .cfg format.
const Delim = ","

// InitializeProperty is the core property that marks the initialization
// boundary in a command stream.
const InitializeProperty = "Initialize"

// Command is a .cfg command keyword.
type Command string

// The closed command vocabulary, in the order the runtime's loader
// recognizes them.
const (
	CmdDevice              Command = "Device"
	CmdProperty            Command = "Property"
	CmdDelay               Command = "Delay"
	CmdFocusDirection      Command = "FocusDirection"
	CmdLabel               Command = "Label"
	CmdParent              Command = "Parent"
	CmdConfigGroup         Command = "ConfigGroup"
	CmdConfigPixelSize     Command = "ConfigPixelSize"
	CmdPixelSizeUm         Command = "PixelSize_um"
	CmdPixelSizeAffine     Command = "PixelSizeAffine"
	CmdPixelSizeAngleDxDz  Command = "PixelSizeAngle_dxdz"
	CmdPixelSizeAngleDyDz  Command = "PixelSizeAngle_dydz"
	CmdPixelSizeOptimalZUm Command = "PixelSizeOptimalZ_Um"
)

// Keywords that older versions of the format emitted. They parse without
// effect, with a diagnostic.
var obsoleteCommands = map[Command]bool{
	"Config":       true,
	"Equipment":    true,
	"ImageSynchro": true,
}

// skipLine reports whether a raw line is blank or a comment. Such lines
// never reach the tokenizer.
func skipLine(line string) bool {
	return line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//")
}

// tokenize splits a logical line into its command keyword and argument
// tokens. Empty tokens from adjacent or trailing delimiters are dropped, so
// arity checks always see the non-empty token count.
func tokenize(line string) (Command, []string) {
	parts := strings.Split(line, Delim)
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	if len(tokens) == 0 {
		return "", nil
	}
	return Command(tokens[0]), tokens[1:]
}
