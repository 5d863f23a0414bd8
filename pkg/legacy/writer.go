package legacy

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mmcore-schema/mmconfig-go/pkg/mmconfig"
)

// roleProperties are the only core properties re-emitted as role lines.
// The runtime's own config writer persists exactly this set.
var roleProperties = map[string]bool{
	"Camera":      true,
	"Shutter":     true,
	"Focus":       true,
	"AutoShutter": true,
}

// Writer renders a configuration model as a canonically ordered .cfg
// command stream. The section order is a compatibility contract: devices
// are declared before anything references them, pre-init properties come
// before the Initialize marker, post-init properties after it, and the
// synthetic "System" group is placed last.
type Writer struct {
	// Now supplies the timestamp for the generated header. Defaults to
	// time.Now; fix it in tests for reproducible output.
	Now func() time.Time
}

// NewWriter creates a .cfg writer.
func NewWriter() *Writer {
	return &Writer{Now: time.Now}
}

// Marshal renders the model as .cfg text.
func (w *Writer) Marshal(cfg *mmconfig.Config) []byte {
	return []byte(strings.Join(w.lines(cfg), "\n") + "\n")
}

// Write renders the model as .cfg text to out.
func (w *Writer) Write(out io.Writer, cfg *mmconfig.Config) error {
	_, err := out.Write(w.Marshal(cfg))
	return err
}

// Marshal is a convenience function to render a model as .cfg text.
func Marshal(cfg *mmconfig.Config) []byte {
	return NewWriter().Marshal(cfg)
}

func (w *Writer) lines(cfg *mmconfig.Config) []string {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}

	var out []string
	emit := func(parts ...string) {
		out = append(out, strings.Join(parts, Delim))
	}

	out = append(out,
		fmt.Sprintf("# Generated by mmconfig-go on %s", now().Format("2006-01-02 15:04:05")),
		"",
		"# Reset")
	emit(string(CmdProperty), mmconfig.CoreLabel, InitializeProperty, "0")
	out = append(out, "", "# Devices")
	for _, dev := range cfg.Devices {
		emit(string(CmdDevice), dev.Label, dev.Library, dev.Name)
	}

	out = append(out, "", "# Pre-init settings for devices")
	for _, dev := range cfg.Devices {
		for _, prop := range dev.PreInitProperties {
			emit(string(CmdProperty), dev.Label, prop.Property, prop.Value)
		}
	}

	out = append(out, "", "# Hub (parent) references")
	for _, dev := range cfg.Devices {
		if children, ok := dev.Children(); ok {
			for _, child := range children {
				emit(string(CmdParent), child, dev.Label)
			}
		}
	}

	out = append(out, "", "# Initialize")
	emit(string(CmdProperty), mmconfig.CoreLabel, InitializeProperty, "1")
	out = append(out, "")

	for _, dev := range cfg.Devices {
		for _, prop := range dev.PostInitProperties {
			emit(string(CmdProperty), dev.Label, prop.Property, prop.Value)
		}
	}

	out = append(out, "", "# Focus directions")
	for _, dev := range cfg.Devices {
		if dir, ok := dev.FocusDirection(); ok {
			emit(string(CmdFocusDirection), dev.Label, strconv.Itoa(dir))
		}
	}

	out = append(out, "", "# Roles")
	for _, setting := range cfg.StartupConfiguration {
		if setting.Device == mmconfig.CoreLabel && roleProperties[setting.Property] {
			emit(string(CmdProperty), mmconfig.CoreLabel, setting.Property, setting.Value)
		}
	}

	out = append(out, "", "# Labels")
	for _, dev := range cfg.Devices {
		labels, ok := dev.StateLabels()
		if !ok || labels.Len() == 0 {
			continue
		}
		out = append(out, fmt.Sprintf("# %s", dev.Label))
		for _, state := range labels.States() {
			label, _ := labels.Get(state)
			emit(string(CmdLabel), dev.Label, state, label)
		}
	}

	// Re-merge the startup/shutdown lists into a synthetic System group,
	// placed after all ordinary groups.
	groups := mergedGroups(cfg)
	if len(groups) > 0 {
		out = append(out, "", "# Configuration groups")
	}
	for _, group := range groups {
		out = append(out, "", fmt.Sprintf("# Group: %s", group.Name))
		for _, preset := range group.Configurations {
			out = append(out, fmt.Sprintf("# Preset: %s", preset.Name))
			for _, s := range preset.Settings {
				emit(string(CmdConfigGroup), group.Name, preset.Name, s.Device, s.Property, s.Value)
			}
		}
	}

	for _, pix := range cfg.PixelSizeConfigurations {
		out = append(out, "", fmt.Sprintf("# Resolution preset: %s", pix.Name))
		for _, s := range pix.Settings {
			emit(string(CmdConfigPixelSize), pix.Name, s.Device, s.Property, s.Value)
		}
		emit(string(CmdPixelSizeUm), pix.Name, formatFloat(pix.PixelSizeUm))
		if pix.AffineMatrix != nil {
			parts := make([]string, 0, 7)
			parts = append(parts, pix.Name)
			for _, v := range pix.AffineMatrix {
				parts = append(parts, formatFloat(v))
			}
			emit(append([]string{string(CmdPixelSizeAffine)}, parts...)...)
		}
		if pix.DxDz != nil {
			emit(string(CmdPixelSizeAngleDxDz), pix.Name, formatFloat(*pix.DxDz))
		}
		if pix.DyDz != nil {
			emit(string(CmdPixelSizeAngleDyDz), pix.Name, formatFloat(*pix.DyDz))
		}
		if pix.OptimalZUm != nil {
			emit(string(CmdPixelSizeOptimalZUm), pix.Name, formatFloat(*pix.OptimalZUm))
		}
	}

	return out
}

// mergedGroups returns the model's groups with the startup/shutdown lists
// folded back into a "System" group at the end. The input model is not
// modified.
func mergedGroups(cfg *mmconfig.Config) []*mmconfig.ConfigGroup {
	var groups []*mmconfig.ConfigGroup
	system := &mmconfig.ConfigGroup{Name: mmconfig.SystemGroup}
	for _, g := range cfg.ConfigurationGroups {
		if g.Name == mmconfig.SystemGroup {
			// a surviving System group holds presets other than
			// Startup/Shutdown; extend a copy of it
			system.Configurations = append(system.Configurations, g.Configurations...)
			continue
		}
		groups = append(groups, g)
	}
	if len(cfg.StartupConfiguration) > 0 {
		system.Configurations = append(system.Configurations, mmconfig.Configuration{
			Name: mmconfig.StartupPreset, Settings: cfg.StartupConfiguration,
		})
	}
	if len(cfg.ShutdownConfiguration) > 0 {
		system.Configurations = append(system.Configurations, mmconfig.Configuration{
			Name: mmconfig.ShutdownPreset, Settings: cfg.ShutdownConfiguration,
		})
	}
	if len(system.Configurations) > 0 {
		groups = append(groups, system)
	}
	return groups
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
