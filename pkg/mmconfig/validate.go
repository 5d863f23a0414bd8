package mmconfig

import (
	"fmt"
	"sort"
	"strings"
)

// ValidateLabel checks a device label against the labeling rules: at least
// one character, no comma (the legacy field delimiter), and not the
// reserved core label in any casing.
func ValidateLabel(label string) error {
	if label == "" {
		return &InvariantError{Message: "device label must not be empty"}
	}
	if strings.Contains(label, ",") {
		return &InvariantError{Message: fmt.Sprintf("device label %q must not contain a comma", label)}
	}
	if strings.EqualFold(label, CoreLabel) {
		return &InvariantError{Message: fmt.Sprintf(
			"the label %q is reserved for the core device", label)}
	}
	return nil
}

// Normalize brings a freshly assembled or decoded model into canonical
// form: the schema version is pinned, and the "System" group's
// "Startup"/"Shutdown" presets are hoisted into the startup and shutdown
// setting lists. When hoisting empties the System group it is dropped
// entirely. Hoisted settings merge last-write-wins keyed on
// (device, property); a setting that replaces an earlier one keeps the
// earlier position.
func (c *Config) Normalize() {
	c.SchemaVersion = SchemaVersion

	kept := c.ConfigurationGroups[:0]
	for _, group := range c.ConfigurationGroups {
		if group.Name != SystemGroup {
			kept = append(kept, group)
			continue
		}
		var remaining []Configuration
		for _, preset := range group.Configurations {
			switch preset.Name {
			case StartupPreset:
				c.StartupConfiguration = mergeSettings(c.StartupConfiguration, preset.Settings)
			case ShutdownPreset:
				c.ShutdownConfiguration = mergeSettings(c.ShutdownConfiguration, preset.Settings)
			default:
				remaining = append(remaining, preset)
			}
		}
		if len(remaining) > 0 {
			group.Configurations = remaining
			kept = append(kept, group)
		}
	}
	c.ConfigurationGroups = kept
}

// Validate checks the model invariants. It does not mutate the model; call
// Normalize first on freshly produced models.
func (c *Config) Validate() error {
	if c.SchemaVersion != "" && c.SchemaVersion != SchemaVersion {
		return &InvariantError{Message: fmt.Sprintf(
			"unsupported schema version %q (expected %q)", c.SchemaVersion, SchemaVersion)}
	}

	seen := make(map[string]bool, len(c.Devices))
	duplicates := make(map[string]bool)
	for _, device := range c.Devices {
		if err := ValidateLabel(device.Label); err != nil {
			return err
		}
		if seen[device.Label] {
			duplicates[device.Label] = true
		}
		seen[device.Label] = true
	}
	if len(duplicates) > 0 {
		labels := make([]string, 0, len(duplicates))
		for label := range duplicates {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		return &InvariantError{Message: fmt.Sprintf(
			"duplicate device labels found: %s", strings.Join(labels, ", "))}
	}
	return nil
}

// mergeSettings merges source into target, last write wins per
// (device, property). Replaced settings keep their original position; new
// keys append in source order.
func mergeSettings(target, source []PropertySetting) []PropertySetting {
	type key struct{ device, property string }

	index := make(map[key]int, len(target))
	out := make([]PropertySetting, 0, len(target)+len(source))
	for _, s := range target {
		k := key{s.Device, s.Property}
		if i, ok := index[k]; ok {
			out[i] = s
			continue
		}
		index[k] = len(out)
		out = append(out, s)
	}
	for _, s := range source {
		k := key{s.Device, s.Property}
		if i, ok := index[k]; ok {
			out[i] = s
			continue
		}
		index[k] = len(out)
		out = append(out, s)
	}
	return out
}
