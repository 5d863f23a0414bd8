package mmconfig

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// StateLabels maps state numbers to human-readable labels for a state
// device. The mapping is sparse and insertion-ordered: iteration and
// serialization reproduce the order in which states were first set, which
// the legacy serializer relies on.
//
// Keys are state numbers stored as strings, because JSON objects cannot
// carry integer keys.
type StateLabels struct {
	states []string
	labels map[string]string
}

// NewStateLabels returns an empty, ready-to-use mapping.
func NewStateLabels() *StateLabels {
	return &StateLabels{labels: make(map[string]string)}
}

// Set assigns a label to a state. A repeated state keeps its original
// position but takes the new label (last write wins). It reports whether
// the state was already present.
func (s *StateLabels) Set(state, label string) bool {
	if s.labels == nil {
		s.labels = make(map[string]string)
	}
	_, exists := s.labels[state]
	if !exists {
		s.states = append(s.states, state)
	}
	s.labels[state] = label
	return exists
}

// Get returns the label for a state.
func (s *StateLabels) Get(state string) (string, bool) {
	label, ok := s.labels[state]
	return label, ok
}

// Len returns the number of states.
func (s *StateLabels) Len() int {
	if s == nil {
		return 0
	}
	return len(s.states)
}

// States returns the state numbers in insertion order.
func (s *StateLabels) States() []string {
	out := make([]string, len(s.states))
	copy(out, s.states)
	return out
}

// MarshalJSON renders the mapping as a JSON object in insertion order.
func (s *StateLabels) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, state := range s.states {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(state)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.labels[state])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, preserving its key order.
func (s *StateLabels) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("state_labels: expected object, got %v", tok)
	}

	s.states = nil
	s.labels = make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("state_labels[%s]: %w", key, err)
		}
		s.Set(key, value)
	}
	// consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalYAML renders the mapping as a YAML mapping in insertion order.
func (s *StateLabels) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, state := range s.states {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: state, Style: yaml.DoubleQuotedStyle},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s.labels[state]},
		)
	}
	return node, nil
}

// UnmarshalYAML reads a YAML mapping, preserving its key order.
func (s *StateLabels) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: state_labels must be a mapping", node.Line)
	}
	s.states = nil
	s.labels = make(map[string]string)
	for i := 0; i < len(node.Content)-1; i += 2 {
		var key, value string
		if err := node.Content[i].Decode(&key); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("state_labels[%s]: %w", key, err)
		}
		s.Set(key, value)
	}
	return nil
}
