package mmconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcore-schema/mmconfig-go/pkg/mmconfig"
)

func TestValidateLabel(t *testing.T) {
	assert.NoError(t, mmconfig.ValidateLabel("Cam"))
	assert.NoError(t, mmconfig.ValidateLabel("Z-Stage 2"))

	assert.Error(t, mmconfig.ValidateLabel(""))
	assert.Error(t, mmconfig.ValidateLabel("Cam,1"))
	assert.Error(t, mmconfig.ValidateLabel("Core"))
	assert.Error(t, mmconfig.ValidateLabel("core"))
	assert.Error(t, mmconfig.ValidateLabel("CORE"))
}

func TestNormalizeHoistsSystemGroup(t *testing.T) {
	cfg := &mmconfig.Config{
		ConfigurationGroups: []*mmconfig.ConfigGroup{
			{Name: "Channel", Configurations: []mmconfig.Configuration{{Name: "DAPI"}}},
			{Name: mmconfig.SystemGroup, Configurations: []mmconfig.Configuration{
				{Name: mmconfig.StartupPreset, Settings: []mmconfig.PropertySetting{
					{Device: "Cam", Property: "Binning", Value: "1"},
				}},
				{Name: mmconfig.ShutdownPreset, Settings: []mmconfig.PropertySetting{
					{Device: "Cam", Property: "Binning", Value: "2"},
				}},
			}},
		},
	}

	cfg.Normalize()

	assert.Equal(t, mmconfig.SchemaVersion, cfg.SchemaVersion)

	// The emptied System group disappears; the other group survives.
	require.Len(t, cfg.ConfigurationGroups, 1)
	assert.Equal(t, "Channel", cfg.ConfigurationGroups[0].Name)

	require.Len(t, cfg.StartupConfiguration, 1)
	assert.Equal(t, "1", cfg.StartupConfiguration[0].Value)
	require.Len(t, cfg.ShutdownConfiguration, 1)
	assert.Equal(t, "2", cfg.ShutdownConfiguration[0].Value)
}

func TestNormalizeKeepsSystemGroupWithOtherPresets(t *testing.T) {
	cfg := &mmconfig.Config{
		ConfigurationGroups: []*mmconfig.ConfigGroup{
			{Name: mmconfig.SystemGroup, Configurations: []mmconfig.Configuration{
				{Name: mmconfig.StartupPreset, Settings: []mmconfig.PropertySetting{
					{Device: "Cam", Property: "Binning", Value: "1"},
				}},
				{Name: "Idle", Settings: []mmconfig.PropertySetting{
					{Device: "Cam", Property: "Binning", Value: "4"},
				}},
			}},
		},
	}

	cfg.Normalize()

	// A System group with presets beyond Startup/Shutdown stays, minus the
	// hoisted ones.
	require.Len(t, cfg.ConfigurationGroups, 1)
	group := cfg.ConfigurationGroups[0]
	assert.Equal(t, mmconfig.SystemGroup, group.Name)
	require.Len(t, group.Configurations, 1)
	assert.Equal(t, "Idle", group.Configurations[0].Name)
}

func TestNormalizeMergeLastWriteWins(t *testing.T) {
	cfg := &mmconfig.Config{
		StartupConfiguration: []mmconfig.PropertySetting{
			{Device: "Core", Property: "Camera", Value: "OldCam"},
			{Device: "Cam", Property: "Binning", Value: "1"},
		},
		ConfigurationGroups: []*mmconfig.ConfigGroup{
			{Name: mmconfig.SystemGroup, Configurations: []mmconfig.Configuration{
				{Name: mmconfig.StartupPreset, Settings: []mmconfig.PropertySetting{
					{Device: "Core", Property: "Camera", Value: "NewCam"},
					{Device: "Cam", Property: "Gain", Value: "5"},
				}},
			}},
		},
	}

	cfg.Normalize()

	// The replaced setting keeps its position; the new key appends.
	want := []mmconfig.PropertySetting{
		{Device: "Core", Property: "Camera", Value: "NewCam"},
		{Device: "Cam", Property: "Binning", Value: "1"},
		{Device: "Cam", Property: "Gain", Value: "5"},
	}
	assert.Equal(t, want, cfg.StartupConfiguration)
}

func TestValidateDuplicateLabels(t *testing.T) {
	cfg := &mmconfig.Config{
		SchemaVersion: mmconfig.SchemaVersion,
		Devices: []*mmconfig.Device{
			{Label: "Cam", Library: "A", Name: "X"},
			{Label: "Wheel", Library: "B", Name: "Y"},
			{Label: "Cam", Library: "C", Name: "Z"},
		},
	}

	err := cfg.Validate()
	require.Error(t, err)

	var invariant *mmconfig.InvariantError
	require.ErrorAs(t, err, &invariant)
	assert.Contains(t, err.Error(), "Cam")
}

func TestValidateSchemaVersion(t *testing.T) {
	cfg := &mmconfig.Config{SchemaVersion: "2.0"}
	require.Error(t, cfg.Validate())

	cfg.SchemaVersion = mmconfig.SchemaVersion
	require.NoError(t, cfg.Validate())

	// An unset version is tolerated; Normalize pins it.
	cfg.SchemaVersion = ""
	require.NoError(t, cfg.Validate())
}

func TestValidateBadDeviceLabel(t *testing.T) {
	cfg := &mmconfig.Config{
		Devices: []*mmconfig.Device{{Label: "Core", Library: "A", Name: "X"}},
	}
	require.Error(t, cfg.Validate())
}
