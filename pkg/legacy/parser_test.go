package legacy

import (
	"errors"
	"strings"
	"testing"

	"github.com/mmcore-schema/mmconfig-go/pkg/mmconfig"
)

func TestParsePrePostInitSplit(t *testing.T) {
	input := `
Device,Cam,DemoCamera,DCam
Property,Cam,Binning,2
Property,Core,Initialize,1
Property,Cam,Gain,5
`

	cfg, diags, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}

	dev := cfg.GetDevice("Cam")
	if dev == nil {
		t.Fatal("expected device Cam to be present")
	}

	if len(dev.PreInitProperties) != 1 || dev.PreInitProperties[0] != (mmconfig.PropertyValue{Property: "Binning", Value: "2"}) {
		t.Errorf("unexpected pre-init properties: %v", dev.PreInitProperties)
	}
	if len(dev.PostInitProperties) != 1 || dev.PostInitProperties[0] != (mmconfig.PropertyValue{Property: "Gain", Value: "5"}) {
		t.Errorf("unexpected post-init properties: %v", dev.PostInitProperties)
	}
}

func TestParseInitializeLatchIsOneWay(t *testing.T) {
	input := `
Device,Cam,DemoCamera,DCam
Property,Core,Initialize,1
Property,Core,Initialize,0
Property,Cam,Gain,5
`

	cfg, _, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	// A later Initialize line cannot unlatch: Gain still files post-init,
	// and the line itself is kept as an ordinary core property.
	dev := cfg.GetDevice("Cam")
	if len(dev.PostInitProperties) != 1 {
		t.Errorf("expected Gain to be post-init, got %v", dev.PostInitProperties)
	}
	found := false
	for _, s := range cfg.StartupConfiguration {
		if s.Device == mmconfig.CoreLabel && s.Property == "Initialize" && s.Value == "0" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the second Initialize line in the startup settings, got %v", cfg.StartupConfiguration)
	}
}

func TestParseDeviceArityError(t *testing.T) {
	_, _, err := ParseString("Device,Cam,DemoCamera\n")
	if err == nil {
		t.Fatal("expected an error for a short Device line")
	}

	var arity *ArityError
	if !errors.As(err, &arity) {
		t.Fatalf("expected ArityError, got %T: %v", err, err)
	}
	if len(arity.Expected) != 1 || arity.Expected[0] != 3 {
		t.Errorf("expected token count [3], got %v", arity.Expected)
	}
	if arity.Actual != 2 {
		t.Errorf("expected actual count 2, got %d", arity.Actual)
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("expected line number in error, got %q", err.Error())
	}
}

func TestParseDuplicateDeviceSkipped(t *testing.T) {
	input := `
Device,Cam,DemoCamera,DCam
Device,Cam,OtherLibrary,Other
`

	cfg, diags, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	if len(cfg.Devices) != 1 {
		t.Fatalf("expected one device, got %d", len(cfg.Devices))
	}
	// First declaration wins.
	if cfg.Devices[0].Library != "DemoCamera" || cfg.Devices[0].Name != "DCam" {
		t.Errorf("expected the first declaration to be kept, got %+v", cfg.Devices[0])
	}

	if len(diags) != 1 || diags[0].Code != DiagDuplicateDevice {
		t.Fatalf("expected one duplicate-device diagnostic, got %v", diags)
	}
	if diags[0].Line != 3 {
		t.Errorf("expected diagnostic on line 3, got %d", diags[0].Line)
	}
}

func TestParseObsoleteAndUnknownCommands(t *testing.T) {
	input := `
Device,Cam,DemoCamera,DCam
Equipment,Cam,something
ImageSynchro,Cam
Config,Old,Preset,Cam,Binning,1
Frobnicate,Cam,1
`

	_, diags, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	if len(diags) != 4 {
		t.Fatalf("expected 4 diagnostics, got %d: %v", len(diags), diags)
	}
	for _, d := range diags[:3] {
		if d.Code != DiagObsoleteCommand {
			t.Errorf("expected obsolete-command diagnostic, got %v", d)
		}
	}
	if diags[3].Code != DiagUnknownCommand {
		t.Errorf("expected unknown-command diagnostic, got %v", diags[3])
	}
}

func TestParseUnknownDeviceReference(t *testing.T) {
	_, _, err := ParseString("Property,Cam,Binning,2\n")
	if err == nil {
		t.Fatal("expected an error for an undeclared device")
	}

	var ref *UnknownReferenceError
	if !errors.As(err, &ref) {
		t.Fatalf("expected UnknownReferenceError, got %T: %v", err, err)
	}
	if ref.Kind != "device" || ref.Name != "Cam" {
		t.Errorf("unexpected reference error: %+v", ref)
	}
}

func TestParseStateLabels(t *testing.T) {
	input := `
Device,Wheel,DemoCamera,DWheel
Label,Wheel,2,Rhodamine
Label,Wheel,0,FITC
Label,Wheel,2,Cy5
`

	cfg, diags, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	labels, ok := cfg.GetDevice("Wheel").StateLabels()
	if !ok {
		t.Fatal("expected state labels to be set")
	}

	// Insertion order is kept; the duplicate keeps its original position
	// with the newer value.
	states := labels.States()
	if len(states) != 2 || states[0] != "2" || states[1] != "0" {
		t.Errorf("unexpected state order: %v", states)
	}
	if label, _ := labels.Get("2"); label != "Cy5" {
		t.Errorf("expected last value to win for state 2, got %q", label)
	}

	if len(diags) != 1 || diags[0].Code != DiagDuplicateStateLabel {
		t.Errorf("expected one duplicate-state-label diagnostic, got %v", diags)
	}
}

func TestParseParent(t *testing.T) {
	input := `
Device,DHub,DemoCamera,DHub
Device,Cam,DemoCamera,DCam
Device,Wheel,DemoCamera,DWheel
Parent,Cam,DHub
Parent,Wheel,DHub
`

	cfg, _, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	children, ok := cfg.GetDevice("DHub").Children()
	if !ok {
		t.Fatal("expected children to be set on the hub")
	}
	if len(children) != 2 || children[0] != "Cam" || children[1] != "Wheel" {
		t.Errorf("unexpected children: %v", children)
	}
}

func TestParseFacetConflict(t *testing.T) {
	input := `
Device,Wheel,DemoCamera,DWheel
Label,Wheel,0,FITC
FocusDirection,Wheel,1
`

	_, _, err := ParseString(input)
	if err == nil {
		t.Fatal("expected an error when two facets are set on one device")
	}

	var invariant *mmconfig.InvariantError
	if !errors.As(err, &invariant) {
		t.Fatalf("expected InvariantError, got %T: %v", err, err)
	}
}

func TestParseFocusDirectionRange(t *testing.T) {
	input := `
Device,Z,DemoCamera,DStage
FocusDirection,Z,2
`

	if _, _, err := ParseString(input); err == nil {
		t.Fatal("expected an error for an out-of-range focus direction")
	}
}

func TestParseReservedCoreLabel(t *testing.T) {
	for _, label := range []string{"Core", "core", "CORE"} {
		_, _, err := ParseString("Device," + label + ",DemoCamera,DCam\n")
		if err == nil {
			t.Errorf("expected an error for reserved label %q", label)
		}
	}
}

func TestParseDelay(t *testing.T) {
	input := `
Device,Shutter,DemoCamera,DShutter
Delay,Shutter,100
`

	cfg, _, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	dev := cfg.GetDevice("Shutter")
	if dev.DelayMS == nil || *dev.DelayMS != 100 {
		t.Errorf("expected delay 100, got %v", dev.DelayMS)
	}
}

func TestParseSystemGroupHoisted(t *testing.T) {
	input := `
Device,Cam,DemoCamera,DCam
Property,Core,Initialize,1
Property,Core,Camera,Cam
ConfigGroup,System,Startup,Cam,Binning,1
ConfigGroup,System,Shutdown,Cam,Binning,2
`

	cfg, _, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	// The System group is absorbed into the startup/shutdown lists.
	if cfg.GetConfigurationGroup(mmconfig.SystemGroup) != nil {
		t.Error("expected the System group to be dropped from the model")
	}

	want := []mmconfig.PropertySetting{
		{Device: "Core", Property: "Camera", Value: "Cam"},
		{Device: "Cam", Property: "Binning", Value: "1"},
	}
	if len(cfg.StartupConfiguration) != len(want) {
		t.Fatalf("unexpected startup settings: %v", cfg.StartupConfiguration)
	}
	for i, s := range want {
		if cfg.StartupConfiguration[i] != s {
			t.Errorf("startup[%d]: expected %v, got %v", i, s, cfg.StartupConfiguration[i])
		}
	}

	if len(cfg.ShutdownConfiguration) != 1 || cfg.ShutdownConfiguration[0].Value != "2" {
		t.Errorf("unexpected shutdown settings: %v", cfg.ShutdownConfiguration)
	}
}

func TestParseConfigGroups(t *testing.T) {
	input := `
Device,Wheel,DemoCamera,DWheel
Device,Cam,DemoCamera,DCam
ConfigGroup,Shutters
ConfigGroup,Channel,DAPI,Wheel,Label,400DCLP
ConfigGroup,Channel,DAPI,Cam,Exposure,50
ConfigGroup,Channel,FITC,Wheel,Label,Q505LP
`

	cfg, _, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	if len(cfg.ConfigurationGroups) != 2 {
		t.Fatalf("expected two groups, got %d", len(cfg.ConfigurationGroups))
	}

	// Declaration order is kept, including the empty declaration-only group.
	if cfg.ConfigurationGroups[0].Name != "Shutters" || len(cfg.ConfigurationGroups[0].Configurations) != 0 {
		t.Errorf("unexpected first group: %+v", cfg.ConfigurationGroups[0])
	}

	channel := cfg.GetConfigurationGroup("Channel")
	if channel == nil {
		t.Fatal("expected the Channel group")
	}
	dapi := channel.GetConfiguration("DAPI")
	if dapi == nil || len(dapi.Settings) != 2 {
		t.Fatalf("unexpected DAPI preset: %+v", dapi)
	}
	if dapi.Settings[0].Device != "Wheel" || dapi.Settings[1].Device != "Cam" {
		t.Errorf("preset settings out of order: %v", dapi.Settings)
	}
	if channel.GetConfiguration("FITC") == nil {
		t.Error("expected the FITC preset")
	}
}

func TestParsePixelSizeConfiguration(t *testing.T) {
	input := `
Device,Objective,DemoCamera,DObjective
ConfigPixelSize,Res10x,Objective,Label,Nikon 10X S Fluor
PixelSize_um,Res10x,1.0
PixelSizeAffine,Res10x,1.0,0.0,0.0,0.0,1.0,0.0
PixelSizeAngle_dxdz,Res10x,0.1
PixelSizeAngle_dydz,Res10x,0.2
PixelSizeOptimalZ_Um,Res10x,0.5
`

	cfg, _, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	pix := cfg.GetPixelSizeConfiguration("Res10x")
	if pix == nil {
		t.Fatal("expected the Res10x preset")
	}
	if len(pix.Settings) != 1 || pix.Settings[0].Value != "Nikon 10X S Fluor" {
		t.Errorf("unexpected settings: %v", pix.Settings)
	}
	if pix.PixelSizeUm != 1.0 {
		t.Errorf("expected pixel size 1.0, got %g", pix.PixelSizeUm)
	}
	if pix.AffineMatrix == nil || *pix.AffineMatrix != [6]float64{1, 0, 0, 0, 1, 0} {
		t.Errorf("unexpected affine matrix: %v", pix.AffineMatrix)
	}
	if pix.DxDz == nil || *pix.DxDz != 0.1 {
		t.Errorf("unexpected dxdz: %v", pix.DxDz)
	}
	if pix.DyDz == nil || *pix.DyDz != 0.2 {
		t.Errorf("unexpected dydz: %v", pix.DyDz)
	}
	if pix.OptimalZUm == nil || *pix.OptimalZUm != 0.5 {
		t.Errorf("unexpected optimal z: %v", pix.OptimalZUm)
	}
}

func TestParsePixelSizeUnknownPreset(t *testing.T) {
	_, _, err := ParseString("PixelSize_um,Res10x,1.0\n")
	if err == nil {
		t.Fatal("expected an error for an undeclared pixel size preset")
	}

	var ref *UnknownReferenceError
	if !errors.As(err, &ref) {
		t.Fatalf("expected UnknownReferenceError, got %T: %v", err, err)
	}
	if ref.Kind != "pixel size configuration" {
		t.Errorf("unexpected kind %q", ref.Kind)
	}
}

func TestParseSkipsCommentsAndBlankLines(t *testing.T) {
	input := `
# a comment
// another comment

Device,Cam,DemoCamera,DCam
`

	cfg, diags, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
	if len(cfg.Devices) != 1 {
		t.Errorf("expected one device, got %d", len(cfg.Devices))
	}
}

func TestParseEmptyInput(t *testing.T) {
	cfg, diags, err := ParseString("")
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
	if len(cfg.Devices) != 0 {
		t.Errorf("expected no devices, got %d", len(cfg.Devices))
	}
	if cfg.SchemaVersion != mmconfig.SchemaVersion {
		t.Errorf("expected schema version %q, got %q", mmconfig.SchemaVersion, cfg.SchemaVersion)
	}
}
