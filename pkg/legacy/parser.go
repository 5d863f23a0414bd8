package legacy

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mmcore-schema/mmconfig-go/pkg/mmconfig"
)

// Parser rebuilds a configuration model from a legacy .cfg command stream.
type Parser struct{}

// NewParser creates a new .cfg parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile parses a .cfg file from the filesystem.
func (p *Parser) ParseFile(path string) (*mmconfig.Config, []Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.ParseBytes(data)
}

// Parse parses a .cfg command stream from a reader.
func (p *Parser) Parse(r io.Reader) (*mmconfig.Config, []Diagnostic, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read data: %w", err)
	}
	return p.ParseBytes(data)
}

// ParseString parses a .cfg command stream from a string.
func (p *Parser) ParseString(s string) (*mmconfig.Config, []Diagnostic, error) {
	return p.ParseBytes([]byte(s))
}

// ParseBytes parses a .cfg command stream. It returns the validated model
// and the diagnostics collected along the way. On a fatal parse error the
// model is nil but any diagnostics recorded before the failure are still
// returned.
func (p *Parser) ParseBytes(data []byte) (*mmconfig.Config, []Diagnostic, error) {
	st := newParseState()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if skipLine(line) {
			continue
		}
		if err := st.dispatch(line, lineNum); err != nil {
			return nil, st.diags, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, st.diags, fmt.Errorf("failed to read data: %w", err)
	}

	cfg := st.assemble()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, st.diags, err
	}
	return cfg, st.diags, nil
}

// ParseFile is a convenience function to parse a .cfg file.
func ParseFile(path string) (*mmconfig.Config, []Diagnostic, error) {
	return NewParser().ParseFile(path)
}

// ParseString is a convenience function to parse .cfg text.
func ParseString(s string) (*mmconfig.Config, []Diagnostic, error) {
	return NewParser().ParseString(s)
}

// ParseBytes is a convenience function to parse .cfg bytes.
func ParseBytes(data []byte) (*mmconfig.Config, []Diagnostic, error) {
	return NewParser().ParseBytes(data)
}

// parseState holds the dispatcher's transient accumulator tables. The
// tables are insertion-ordered because the model's iteration order (and
// with it the serializer's output order) is load-bearing. They are
// discarded once the final model is assembled.
type parseState struct {
	// passedInit latches to true at the Property,Core,Initialize,1 line.
	// Property assignments file as pre-init before it, post-init after.
	passedInit bool

	deviceOrder []string
	devices     map[string]*mmconfig.Device

	groupOrder []string
	groups     map[string]*mmconfig.ConfigGroup

	pixelOrder []string
	pixels     map[string]*mmconfig.PixelSizeConfiguration

	coreProperties []mmconfig.PropertySetting

	diags []Diagnostic
}

func newParseState() *parseState {
	return &parseState{
		devices: make(map[string]*mmconfig.Device),
		groups:  make(map[string]*mmconfig.ConfigGroup),
		pixels:  make(map[string]*mmconfig.PixelSizeConfiguration),
	}
}

func (st *parseState) warn(code DiagnosticCode, line string, lineNum int, format string, args ...any) {
	st.diags = append(st.diags, Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    lineNum,
		Text:    line,
	})
}

func (st *parseState) device(label string, lineNum int) (*mmconfig.Device, error) {
	dev, ok := st.devices[label]
	if !ok {
		return nil, &UnknownReferenceError{Kind: "device", Name: label, Line: lineNum}
	}
	return dev, nil
}

func (st *parseState) pixel(name string, lineNum int) (*mmconfig.PixelSizeConfiguration, error) {
	cfg, ok := st.pixels[name]
	if !ok {
		return nil, &UnknownReferenceError{Kind: "pixel size configuration", Name: name, Line: lineNum}
	}
	return cfg, nil
}

func (st *parseState) ensureGroup(name string) *mmconfig.ConfigGroup {
	if grp, ok := st.groups[name]; ok {
		return grp
	}
	grp := &mmconfig.ConfigGroup{Name: name}
	st.groups[name] = grp
	st.groupOrder = append(st.groupOrder, name)
	return grp
}

func (st *parseState) ensurePixel(name string) *mmconfig.PixelSizeConfiguration {
	if cfg, ok := st.pixels[name]; ok {
		return cfg
	}
	cfg := &mmconfig.PixelSizeConfiguration{Name: name}
	st.pixels[name] = cfg
	st.pixelOrder = append(st.pixelOrder, name)
	return cfg
}

// dispatch applies one command line to the accumulator tables.
func (st *parseState) dispatch(line string, lineNum int) error {
	cmd, tokens := tokenize(line)

	switch cmd {
	case CmdDevice:
		if len(tokens) != 3 {
			return &ArityError{Text: line, Line: lineNum, Expected: []int{3}, Actual: len(tokens)}
		}
		label := tokens[0]
		if err := mmconfig.ValidateLabel(label); err != nil {
			return err
		}
		if _, exists := st.devices[label]; exists {
			st.warn(DiagDuplicateDevice, line, lineNum,
				"device %q already exists, skipping", label)
			return nil
		}
		st.devices[label] = &mmconfig.Device{Label: label, Library: tokens[1], Name: tokens[2]}
		st.deviceOrder = append(st.deviceOrder, label)

	case CmdProperty:
		var label, property, value string
		switch len(tokens) {
		case 2:
			label, property = tokens[0], tokens[1]
		case 3:
			label, property, value = tokens[0], tokens[1], tokens[2]
		default:
			return &ArityError{Text: line, Line: lineNum, Expected: []int{2, 3}, Actual: len(tokens)}
		}
		if label == mmconfig.CoreLabel {
			if property == InitializeProperty && !st.passedInit {
				st.passedInit = value == "1"
				return nil
			}
			st.coreProperties = append(st.coreProperties, mmconfig.PropertySetting{
				Device: mmconfig.CoreLabel, Property: property, Value: value,
			})
			return nil
		}
		dev, err := st.device(label, lineNum)
		if err != nil {
			return err
		}
		pv := mmconfig.PropertyValue{Property: property, Value: value}
		if st.passedInit {
			dev.PostInitProperties = append(dev.PostInitProperties, pv)
		} else {
			dev.PreInitProperties = append(dev.PreInitProperties, pv)
		}

	case CmdDelay:
		if len(tokens) != 2 {
			return &ArityError{Text: line, Line: lineNum, Expected: []int{2}, Actual: len(tokens)}
		}
		dev, err := st.device(tokens[0], lineNum)
		if err != nil {
			return err
		}
		ms, err := strconv.Atoi(tokens[1])
		if err != nil {
			return fmt.Errorf("invalid delay %q for device %q: %w", tokens[1], tokens[0], err)
		}
		delay := float64(ms)
		dev.DelayMS = &delay

	case CmdFocusDirection:
		if len(tokens) != 2 {
			return &ArityError{Text: line, Line: lineNum, Expected: []int{2}, Actual: len(tokens)}
		}
		dev, err := st.device(tokens[0], lineNum)
		if err != nil {
			return err
		}
		dir, err := strconv.Atoi(tokens[1])
		if err != nil || dir < -1 || dir > 1 {
			return fmt.Errorf("invalid focus direction %q for device %q (must be -1, 0, or 1)",
				tokens[1], tokens[0])
		}
		switch dev.Extra.(type) {
		case nil, mmconfig.FocusDirection:
			dev.Extra = mmconfig.FocusDirection(dir)
		default:
			return facetConflict(dev.Label)
		}

	case CmdLabel:
		if len(tokens) != 3 {
			return &ArityError{Text: line, Line: lineNum, Expected: []int{3}, Actual: len(tokens)}
		}
		dev, err := st.device(tokens[0], lineNum)
		if err != nil {
			return err
		}
		state, stateLabel := tokens[1], tokens[2]
		var labels *mmconfig.StateLabels
		switch extra := dev.Extra.(type) {
		case nil:
			labels = mmconfig.NewStateLabels()
			dev.Extra = labels
		case *mmconfig.StateLabels:
			labels = extra
		default:
			return facetConflict(dev.Label)
		}
		if labels.Set(state, stateLabel) {
			st.warn(DiagDuplicateStateLabel, line, lineNum,
				"state %s already labeled for device %q, last value wins", state, dev.Label)
		}

	case CmdParent:
		if len(tokens) != 2 {
			return &ArityError{Text: line, Line: lineNum, Expected: []int{2}, Actual: len(tokens)}
		}
		child, parent := tokens[0], tokens[1]
		if _, err := st.device(child, lineNum); err != nil {
			return err
		}
		hub, err := st.device(parent, lineNum)
		if err != nil {
			return err
		}
		switch extra := hub.Extra.(type) {
		case nil:
			hub.Extra = mmconfig.Children{child}
		case mmconfig.Children:
			hub.Extra = append(extra, child)
		default:
			return facetConflict(hub.Label)
		}

	case CmdConfigGroup:
		var group, preset, device, property, value string
		switch len(tokens) {
		case 1:
			// declaration only: the group exists with no presets yet
			st.ensureGroup(tokens[0])
			return nil
		case 4:
			group, preset, device, property = tokens[0], tokens[1], tokens[2], tokens[3]
		case 5:
			group, preset, device, property, value = tokens[0], tokens[1], tokens[2], tokens[3], tokens[4]
		default:
			return &ArityError{Text: line, Line: lineNum, Expected: []int{1, 4, 5}, Actual: len(tokens)}
		}
		grp := st.ensureGroup(group)
		cfg := grp.GetConfiguration(preset)
		if cfg == nil {
			grp.Configurations = append(grp.Configurations, mmconfig.Configuration{Name: preset})
			cfg = &grp.Configurations[len(grp.Configurations)-1]
		}
		cfg.Settings = append(cfg.Settings, mmconfig.PropertySetting{
			Device: device, Property: property, Value: value,
		})

	case CmdConfigPixelSize:
		if len(tokens) != 4 {
			return &ArityError{Text: line, Line: lineNum, Expected: []int{4}, Actual: len(tokens)}
		}
		cfg := st.ensurePixel(tokens[0])
		cfg.Settings = append(cfg.Settings, mmconfig.PropertySetting{
			Device: tokens[1], Property: tokens[2], Value: tokens[3],
		})

	case CmdPixelSizeUm:
		if len(tokens) != 2 {
			return &ArityError{Text: line, Line: lineNum, Expected: []int{2}, Actual: len(tokens)}
		}
		cfg, err := st.pixel(tokens[0], lineNum)
		if err != nil {
			return err
		}
		size, err := parseFloat(tokens[1], "pixel size")
		if err != nil {
			return err
		}
		cfg.PixelSizeUm = size

	case CmdPixelSizeAffine:
		if len(tokens) != 7 {
			return &ArityError{Text: line, Line: lineNum, Expected: []int{7}, Actual: len(tokens)}
		}
		cfg, err := st.pixel(tokens[0], lineNum)
		if err != nil {
			return err
		}
		var matrix [6]float64
		for i, t := range tokens[1:] {
			v, err := parseFloat(t, "affine matrix value")
			if err != nil {
				return err
			}
			matrix[i] = v
		}
		cfg.AffineMatrix = &matrix

	case CmdPixelSizeAngleDxDz:
		return st.setPixelScalar(tokens, line, lineNum, "dx/dz angle",
			func(cfg *mmconfig.PixelSizeConfiguration, v float64) { cfg.DxDz = &v })

	case CmdPixelSizeAngleDyDz:
		return st.setPixelScalar(tokens, line, lineNum, "dy/dz angle",
			func(cfg *mmconfig.PixelSizeConfiguration, v float64) { cfg.DyDz = &v })

	case CmdPixelSizeOptimalZUm:
		return st.setPixelScalar(tokens, line, lineNum, "optimal z step",
			func(cfg *mmconfig.PixelSizeConfiguration, v float64) { cfg.OptimalZUm = &v })

	default:
		if obsoleteCommands[cmd] {
			st.warn(DiagObsoleteCommand, line, lineNum,
				"obsolete command %q ignored", string(cmd))
			return nil
		}
		st.warn(DiagUnknownCommand, line, lineNum,
			"unknown command %q ignored", string(cmd))
	}
	return nil
}

// setPixelScalar handles the two-token pixel size setters that share the
// shape <command>,<preset>,<float>.
func (st *parseState) setPixelScalar(tokens []string, line string, lineNum int, what string,
	set func(*mmconfig.PixelSizeConfiguration, float64)) error {
	if len(tokens) != 2 {
		return &ArityError{Text: line, Line: lineNum, Expected: []int{2}, Actual: len(tokens)}
	}
	cfg, err := st.pixel(tokens[0], lineNum)
	if err != nil {
		return err
	}
	v, err := parseFloat(tokens[1], what)
	if err != nil {
		return err
	}
	set(cfg, v)
	return nil
}

// assemble builds the model from the accumulator tables in insertion order.
func (st *parseState) assemble() *mmconfig.Config {
	cfg := mmconfig.New()
	for _, label := range st.deviceOrder {
		cfg.Devices = append(cfg.Devices, st.devices[label])
	}
	cfg.StartupConfiguration = st.coreProperties
	for _, name := range st.groupOrder {
		cfg.ConfigurationGroups = append(cfg.ConfigurationGroups, st.groups[name])
	}
	for _, name := range st.pixelOrder {
		cfg.PixelSizeConfigurations = append(cfg.PixelSizeConfigurations, st.pixels[name])
	}
	return cfg
}

func parseFloat(s, what string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, s, err)
	}
	return v, nil
}

func facetConflict(label string) error {
	return &mmconfig.InvariantError{Message: fmt.Sprintf(
		"device %q: only one of focus_direction, state_labels, children may be set", label)}
}
