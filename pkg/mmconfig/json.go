package mmconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FromJSON decodes a model from its JSON representation. The decode is
// strict: unknown fields anywhere in the document are an error. The result
// is normalized and validated.
func FromJSON(data []byte) (*Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode JSON config: %w", err)
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

// ToJSON encodes the model as JSON. indent <= 0 produces compact output.
// The schema version is always emitted, even on a zero-valued model.
func (c *Config) ToJSON(indent int) ([]byte, error) {
	cc := *c
	if cc.SchemaVersion == "" {
		cc.SchemaVersion = SchemaVersion
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(&cc); err != nil {
		return nil, fmt.Errorf("encode JSON config: %w", err)
	}
	return buf.Bytes(), nil
}
