package mmconfig

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DeviceExtra is the optional role-specific facet of a device. At most one
// facet is ever set: a stage device has a focus direction, a state device
// has state labels, a hub device has children. Modeling the three as a
// single tagged union keeps the exclusivity invariant out of reach of
// callers instead of checking it after the fact.
type DeviceExtra interface {
	isDeviceExtra()
}

// FocusDirection is the stage-device facet: -1 when increasing position
// moves the objective away from the sample, 1 when towards it, 0 when
// unknown.
type FocusDirection int

func (FocusDirection) isDeviceExtra() {}

// Children is the hub-device facet: the labels of dependent peripherals.
type Children []string

func (Children) isDeviceExtra() {}

func (*StateLabels) isDeviceExtra() {}

// Device is a named instantiation of a driver library.
type Device struct {
	// Label is the user-chosen name for the loaded device. It must be
	// non-empty, contain no comma, and must not be the reserved core label.
	Label string

	// Library is the adapter library that provides the device.
	Library string

	// Name is the name of the device within the library.
	Name string

	// PreInitProperties are set before device initialization, in order.
	PreInitProperties []PropertyValue

	// PostInitProperties are set after device initialization, in order.
	PostInitProperties []PropertyValue

	// DelayMS is an optional action delay in milliseconds.
	DelayMS *float64

	// Extra holds at most one of the mutually exclusive device facets.
	Extra DeviceExtra
}

// FocusDirection returns the focus-direction facet, if set.
func (d *Device) FocusDirection() (int, bool) {
	if fd, ok := d.Extra.(FocusDirection); ok {
		return int(fd), true
	}
	return 0, false
}

// StateLabels returns the state-labels facet, if set.
func (d *Device) StateLabels() (*StateLabels, bool) {
	if sl, ok := d.Extra.(*StateLabels); ok {
		return sl, true
	}
	return nil, false
}

// Children returns the hub-children facet, if set.
func (d *Device) Children() ([]string, bool) {
	if ch, ok := d.Extra.(Children); ok {
		return ch, true
	}
	return nil, false
}

// deviceWire is the serialized field set of a Device. The three facet
// fields are flattened here; decoding enforces that at most one is present.
type deviceWire struct {
	Label              string          `json:"label" yaml:"label"`
	Library            string          `json:"library" yaml:"library"`
	Name               string          `json:"name" yaml:"name"`
	PreInitProperties  []PropertyValue `json:"pre_init_properties,omitempty" yaml:"pre_init_properties,omitempty"`
	PostInitProperties []PropertyValue `json:"post_init_properties,omitempty" yaml:"post_init_properties,omitempty"`
	DelayMS            *float64        `json:"delay_ms,omitempty" yaml:"delay_ms,omitempty"`
	FocusDirection     *int            `json:"focus_direction,omitempty" yaml:"focus_direction,omitempty"`
	StateLabels        *StateLabels    `json:"state_labels,omitempty" yaml:"state_labels,omitempty"`
	Children           []string        `json:"children,omitempty" yaml:"children,omitempty"`
}

var deviceWireFields = map[string]bool{
	"label":                true,
	"library":              true,
	"name":                 true,
	"pre_init_properties":  true,
	"post_init_properties": true,
	"delay_ms":             true,
	"focus_direction":      true,
	"state_labels":         true,
	"children":             true,
}

func (d *Device) wire() *deviceWire {
	w := &deviceWire{
		Label:              d.Label,
		Library:            d.Library,
		Name:               d.Name,
		PreInitProperties:  d.PreInitProperties,
		PostInitProperties: d.PostInitProperties,
		DelayMS:            d.DelayMS,
	}
	switch extra := d.Extra.(type) {
	case FocusDirection:
		fd := int(extra)
		w.FocusDirection = &fd
	case *StateLabels:
		if extra.Len() > 0 {
			w.StateLabels = extra
		}
	case Children:
		w.Children = extra
	}
	return w
}

func (d *Device) fromWire(w *deviceWire) error {
	set := 0
	if w.FocusDirection != nil {
		set++
	}
	if w.StateLabels != nil && w.StateLabels.Len() > 0 {
		set++
	}
	if len(w.Children) > 0 {
		set++
	}
	if set > 1 {
		return &InvariantError{Message: fmt.Sprintf(
			"device %q: only one of focus_direction, state_labels, children may be set", w.Label)}
	}

	d.Label = w.Label
	d.Library = w.Library
	d.Name = w.Name
	d.PreInitProperties = w.PreInitProperties
	d.PostInitProperties = w.PostInitProperties
	d.DelayMS = w.DelayMS
	d.Extra = nil

	switch {
	case w.FocusDirection != nil:
		fd := *w.FocusDirection
		if fd < -1 || fd > 1 {
			return &InvariantError{Message: fmt.Sprintf(
				"device %q: focus_direction must be -1, 0, or 1, got %d", w.Label, fd)}
		}
		d.Extra = FocusDirection(fd)
	case w.StateLabels != nil && w.StateLabels.Len() > 0:
		d.Extra = w.StateLabels
	case len(w.Children) > 0:
		d.Extra = Children(w.Children)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d *Device) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.wire())
}

// UnmarshalJSON implements json.Unmarshaler. Unknown fields are rejected,
// and at most one facet field may be present.
func (d *Device) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var w deviceWire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	return d.fromWire(&w)
}

// MarshalYAML implements yaml.Marshaler.
func (d *Device) MarshalYAML() (any, error) {
	return d.wire(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler with the same strictness as the
// JSON path: unknown keys are rejected. The key check is done by hand
// because a nested yaml.Node decode does not inherit KnownFields from the
// outer decoder.
func (d *Device) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: device must be a mapping", node.Line)
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		key := node.Content[i].Value
		if !deviceWireFields[key] {
			return fmt.Errorf("line %d: unknown device field %q", node.Content[i].Line, key)
		}
	}
	var w deviceWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	return d.fromWire(&w)
}
