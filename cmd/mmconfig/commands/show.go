package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmcore-schema/mmconfig-go/pkg/convert"
	"github.com/mmcore-schema/mmconfig-go/pkg/mmconfig"
)

// ShowOptions configures the show command.
type ShowOptions struct {
	Format string // text, json, yaml
	File   string
}

// ShowOutput summarizes a configuration for display.
type ShowOutput struct {
	File                    string              `json:"file" yaml:"file"`
	SchemaVersion           string              `json:"schema_version" yaml:"schema_version"`
	Devices                 []DeviceSummary     `json:"devices,omitempty" yaml:"devices,omitempty"`
	ConfigurationGroups     []GroupSummary      `json:"configuration_groups,omitempty" yaml:"configuration_groups,omitempty"`
	PixelSizeConfigurations []PixelSummary      `json:"pixel_size_configurations,omitempty" yaml:"pixel_size_configurations,omitempty"`
	StartupSettings         int                 `json:"startup_settings,omitempty" yaml:"startup_settings,omitempty"`
	ShutdownSettings        int                 `json:"shutdown_settings,omitempty" yaml:"shutdown_settings,omitempty"`
}

// DeviceSummary describes one device.
type DeviceSummary struct {
	Label       string `json:"label" yaml:"label"`
	Library     string `json:"library" yaml:"library"`
	Name        string `json:"name" yaml:"name"`
	PreInit     int    `json:"pre_init_properties,omitempty" yaml:"pre_init_properties,omitempty"`
	PostInit    int    `json:"post_init_properties,omitempty" yaml:"post_init_properties,omitempty"`
	StateLabels int    `json:"state_labels,omitempty" yaml:"state_labels,omitempty"`
	Children    int    `json:"children,omitempty" yaml:"children,omitempty"`
}

// GroupSummary describes one configuration group.
type GroupSummary struct {
	Name    string   `json:"name" yaml:"name"`
	Presets []string `json:"presets" yaml:"presets"`
}

// PixelSummary describes one pixel size preset.
type PixelSummary struct {
	Name        string  `json:"name" yaml:"name"`
	PixelSizeUm float64 `json:"pixel_size_um" yaml:"pixel_size_um"`
	Settings    int     `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// RunShow runs the show command.
func RunShow(args []string, stdout, stderr io.Writer) int {
	opts, err := parseShowArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	if opts.File == "" {
		fmt.Fprintln(stderr, "Error: no file specified")
		printShowUsage(stderr)
		return exitCommandError
	}

	cfg, _, err := convert.ReadFile(opts.File)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	output := buildShowOutput(cfg, opts.File)

	switch opts.Format {
	case "json":
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(stdout, string(data))
	case "yaml":
		data, _ := yaml.Marshal(output)
		fmt.Fprint(stdout, string(data))
	default:
		printShowText(stdout, output)
	}

	return exitSuccess
}

func buildShowOutput(cfg *mmconfig.Config, file string) ShowOutput {
	output := ShowOutput{
		File:             file,
		SchemaVersion:    cfg.SchemaVersion,
		StartupSettings:  len(cfg.StartupConfiguration),
		ShutdownSettings: len(cfg.ShutdownConfiguration),
	}
	if output.SchemaVersion == "" {
		output.SchemaVersion = mmconfig.SchemaVersion
	}

	for _, dev := range cfg.Devices {
		summary := DeviceSummary{
			Label:    dev.Label,
			Library:  dev.Library,
			Name:     dev.Name,
			PreInit:  len(dev.PreInitProperties),
			PostInit: len(dev.PostInitProperties),
		}
		if labels, ok := dev.StateLabels(); ok {
			summary.StateLabels = labels.Len()
		}
		if children, ok := dev.Children(); ok {
			summary.Children = len(children)
		}
		output.Devices = append(output.Devices, summary)
	}

	for _, group := range cfg.ConfigurationGroups {
		summary := GroupSummary{Name: group.Name}
		for _, preset := range group.Configurations {
			summary.Presets = append(summary.Presets, preset.Name)
		}
		output.ConfigurationGroups = append(output.ConfigurationGroups, summary)
	}

	for _, pix := range cfg.PixelSizeConfigurations {
		output.PixelSizeConfigurations = append(output.PixelSizeConfigurations, PixelSummary{
			Name:        pix.Name,
			PixelSizeUm: pix.PixelSizeUm,
			Settings:    len(pix.Settings),
		})
	}

	return output
}

func printShowText(w io.Writer, output ShowOutput) {
	fmt.Fprintf(w, "File: %s\n", output.File)
	fmt.Fprintf(w, "Schema version: %s\n", output.SchemaVersion)

	fmt.Fprintf(w, "\nDevices (%d):\n", len(output.Devices))
	for _, dev := range output.Devices {
		fmt.Fprintf(w, "  %s (%s/%s)", dev.Label, dev.Library, dev.Name)
		var extras []string
		if dev.PreInit > 0 {
			extras = append(extras, fmt.Sprintf("%d pre-init", dev.PreInit))
		}
		if dev.PostInit > 0 {
			extras = append(extras, fmt.Sprintf("%d post-init", dev.PostInit))
		}
		if dev.StateLabels > 0 {
			extras = append(extras, fmt.Sprintf("%d state labels", dev.StateLabels))
		}
		if dev.Children > 0 {
			extras = append(extras, fmt.Sprintf("%d children", dev.Children))
		}
		if len(extras) > 0 {
			fmt.Fprintf(w, " - %s", strings.Join(extras, ", "))
		}
		fmt.Fprintln(w)
	}

	if len(output.ConfigurationGroups) > 0 {
		fmt.Fprintf(w, "\nConfiguration groups (%d):\n", len(output.ConfigurationGroups))
		for _, group := range output.ConfigurationGroups {
			fmt.Fprintf(w, "  %s: %s\n", group.Name, strings.Join(group.Presets, ", "))
		}
	}

	if len(output.PixelSizeConfigurations) > 0 {
		fmt.Fprintf(w, "\nPixel size configurations (%d):\n", len(output.PixelSizeConfigurations))
		for _, pix := range output.PixelSizeConfigurations {
			fmt.Fprintf(w, "  %s: %g um\n", pix.Name, pix.PixelSizeUm)
		}
	}

	if output.StartupSettings > 0 {
		fmt.Fprintf(w, "\nStartup settings: %d\n", output.StartupSettings)
	}
	if output.ShutdownSettings > 0 {
		fmt.Fprintf(w, "Shutdown settings: %d\n", output.ShutdownSettings)
	}
}

func parseShowArgs(args []string) (ShowOptions, error) {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	opts := ShowOptions{}

	fs.StringVar(&opts.Format, "format", "text", "Output format (text, json, yaml)")
	fs.StringVar(&opts.Format, "f", "text", "Output format (shorthand)")

	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	remaining := fs.Args()
	if len(remaining) > 0 {
		opts.File = remaining[0]
	}

	return opts, nil
}

func printShowUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: mmconfig show [options] <file>

Options:
  -f, --format    Output format (text, json, yaml) [default: text]

Examples:
  mmconfig show MMConfig_demo.cfg
  mmconfig show --format json demo.yaml`)
}
