package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmcore-schema/mmconfig-go/pkg/legacy"
	"github.com/mmcore-schema/mmconfig-go/pkg/mmconfig"
)

// Options configures encoding.
type Options struct {
	// Indent is the indentation width for structured formats. Zero means
	// compact JSON and default YAML indentation. The legacy format ignores
	// it.
	Indent int
}

// UnsupportedFormatError reports a file extension outside the supported
// set (.cfg, .json, .yaml, .yml).
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported config file format %q (expected .cfg, .json, .yaml, or .yml)", e.Ext)
}

// Codec is a decode/encode function pair for one file format.
type Codec struct {
	Decode func(data []byte) (*mmconfig.Config, []legacy.Diagnostic, error)
	Encode func(cfg *mmconfig.Config, opts Options) ([]byte, error)
}

// codecs maps a lower-cased file extension to its codec. Keeping the
// formats behind this table keeps them decoupled from the model and from
// each other.
var codecs = map[string]Codec{
	".cfg": {
		Decode: legacy.ParseBytes,
		Encode: func(cfg *mmconfig.Config, _ Options) ([]byte, error) {
			return legacy.Marshal(cfg), nil
		},
	},
	".json": {
		Decode: func(data []byte) (*mmconfig.Config, []legacy.Diagnostic, error) {
			cfg, err := mmconfig.FromJSON(data)
			return cfg, nil, err
		},
		Encode: func(cfg *mmconfig.Config, opts Options) ([]byte, error) {
			return cfg.ToJSON(opts.Indent)
		},
	},
	".yaml": yamlCodec,
	".yml":  yamlCodec,
}

var yamlCodec = Codec{
	Decode: func(data []byte) (*mmconfig.Config, []legacy.Diagnostic, error) {
		cfg, err := mmconfig.FromYAML(data)
		return cfg, nil, err
	},
	Encode: func(cfg *mmconfig.Config, opts Options) ([]byte, error) {
		return cfg.ToYAML(opts.Indent)
	},
}

// lookup returns the codec for a path's extension.
func lookup(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	codec, ok := codecs[ext]
	if !ok {
		return Codec{}, &UnsupportedFormatError{Ext: ext}
	}
	return codec, nil
}

// ReadFile loads a configuration from disk, choosing the format by file
// extension. Diagnostics are only produced by the legacy format.
func ReadFile(path string) (*mmconfig.Config, []legacy.Diagnostic, error) {
	codec, err := lookup(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	cfg, diags, err := codec.Decode(data)
	if err != nil {
		return nil, diags, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, diags, nil
}

// WriteFile writes a configuration to disk, choosing the format by file
// extension.
func WriteFile(path string, cfg *mmconfig.Config, opts Options) error {
	codec, err := lookup(path)
	if err != nil {
		return err
	}
	data, err := codec.Encode(cfg, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ConvertFile reads a configuration in one format and writes it in
// another, both chosen by extension. It returns the diagnostics collected
// while reading.
func ConvertFile(input, output string, opts Options) ([]legacy.Diagnostic, error) {
	cfg, diags, err := ReadFile(input)
	if err != nil {
		return diags, err
	}
	if err := WriteFile(output, cfg, opts); err != nil {
		return diags, err
	}
	return diags, nil
}
