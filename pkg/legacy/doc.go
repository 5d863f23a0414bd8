// Package legacy reads and writes the line-oriented Micro-Manager .cfg
// configuration format.
//
// # Grammar
//
// A .cfg file is UTF-8 text with one command per line. Fields are separated
// by commas, blank lines are ignored, and lines starting with "#" or "//"
// are comments. The first field is the command keyword; the rest are its
// arguments. Empty fields produced by adjacent or trailing commas are
// dropped before the argument count is checked, mirroring the tokenizer of
// the C++ runtime.
//
//	Device,Camera,DemoCamera,DCam
//	Property,Camera,Binning,2
//	Property,Core,Initialize,1
//	ConfigGroup,Channel,DAPI,Dichroic,Label,400DCLP
//
// # Parsing
//
// [Parser] replays the command stream into a [mmconfig.Config]. The stream
// is position-sensitive: a "Property,Core,Initialize,1" line marks the
// device-initialization boundary, and property assignments before it file
// as pre-init settings while later ones file as post-init settings. The
// boundary is a one-way latch; once crossed, further Initialize lines are
// stored as ordinary core properties.
//
// Recoverable oddities (duplicate device declarations, duplicate state
// labels, obsolete or unknown commands) are collected as [Diagnostic]
// values and returned alongside the model; they never abort the parse.
// Structural problems — a wrong argument count, a reference to an
// undeclared device or pixel size preset, a malformed number — abort with
// [ArityError], [UnknownReferenceError], or a wrapped conversion error.
//
// # Writing
//
// [Writer] is the inverse transform: it renders a model as a canonically
// ordered command stream that re-parses to an equivalent model. Section
// order matters — a device must be declared before any line references it,
// and the Initialize marker splits pre-init from post-init properties.
package legacy
