// Package convert dispatches configuration files to the right codec by
// file extension and converts between formats.
//
//	.cfg          legacy Micro-Manager command stream (package legacy)
//	.json         structured JSON encoding of the model
//	.yaml, .yml   structured YAML encoding of the model
//
// Any other extension is an [UnsupportedFormatError], on both the read and
// the write path. Structured inputs bypass the legacy dispatcher entirely:
// they decode straight into the model and then run the same normalization
// and invariant validation.
package convert
