package mmconfig

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// FromYAML decodes a model from its YAML representation. Unknown fields
// are rejected, mirroring the JSON path. The result is normalized and
// validated.
func FromYAML(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode YAML config: %w", err)
	}
	if cfg.SchemaVersion != "" && cfg.SchemaVersion != SchemaVersion {
		return nil, &InvariantError{Message: fmt.Sprintf(
			"unsupported schema version %q (expected %q)", cfg.SchemaVersion, SchemaVersion)}
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToYAML encodes the model as YAML with the given indent (yaml.v3 requires
// an indent of at least 1; values <= 0 fall back to the encoder default).
func (c *Config) ToYAML(indent int) ([]byte, error) {
	cc := *c
	if cc.SchemaVersion == "" {
		cc.SchemaVersion = SchemaVersion
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if indent > 0 {
		enc.SetIndent(indent)
	}
	if err := enc.Encode(&cc); err != nil {
		return nil, fmt.Errorf("encode YAML config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
