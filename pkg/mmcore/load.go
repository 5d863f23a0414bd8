package mmcore

import (
	"fmt"
	"strconv"

	"github.com/mmcore-schema/mmconfig-go/pkg/mmconfig"
)

// LoadOptions adjusts how a configuration is applied.
type LoadOptions struct {
	// ExcludeDevices lists device labels to skip entirely: they are not
	// loaded and none of their properties or facets are applied. Settings
	// referencing them inside groups or presets are still defined.
	ExcludeDevices []string
}

// LoadSystemConfiguration applies the configuration to the core with
// default options.
func LoadSystemConfiguration(core Core, cfg *mmconfig.Config) error {
	return LoadSystemConfigurationWithOptions(core, cfg, LoadOptions{})
}

// LoadSystemConfigurationWithOptions applies the configuration to the
// core. Devices are unloaded, re-loaded with their pre-init properties,
// initialized, and then configured; groups and pixel size presets are
// defined afterwards, and the System/Startup preset is applied last. The
// model's container order dictates the call order throughout.
func LoadSystemConfigurationWithOptions(core Core, cfg *mmconfig.Config, opts LoadOptions) error {
	excluded := make(map[string]bool, len(opts.ExcludeDevices))
	for _, label := range opts.ExcludeDevices {
		excluded[label] = true
	}

	if err := core.UnloadAllDevices(); err != nil {
		return fmt.Errorf("failed to unload devices: %w", err)
	}

	for _, dev := range cfg.Devices {
		if excluded[dev.Label] {
			continue
		}
		if err := core.LoadDevice(dev.Label, dev.Library, dev.Name); err != nil {
			return fmt.Errorf("failed to load device %q: %w", dev.Label, err)
		}
		for _, prop := range dev.PreInitProperties {
			if err := core.SetProperty(dev.Label, prop.Property, prop.Value); err != nil {
				return fmt.Errorf("failed to set pre-init property %s.%s: %w",
					dev.Label, prop.Property, err)
			}
		}
	}

	if err := initializeDevices(core, cfg); err != nil {
		return err
	}

	for _, dev := range cfg.Devices {
		if excluded[dev.Label] {
			continue
		}
		if err := configureDevice(core, dev); err != nil {
			return err
		}
	}

	if err := applyCoreProperties(core, cfg.StartupConfiguration); err != nil {
		return err
	}

	for _, group := range cfg.ConfigurationGroups {
		for _, preset := range group.Configurations {
			for _, s := range preset.Settings {
				if err := core.DefineConfig(group.Name, preset.Name, s.Device, s.Property, s.Value); err != nil {
					return fmt.Errorf("failed to define preset %s/%s: %w", group.Name, preset.Name, err)
				}
			}
		}
	}
	if err := defineSystemPresets(core, cfg); err != nil {
		return err
	}

	for _, pix := range cfg.PixelSizeConfigurations {
		if err := definePixelSizeConfiguration(core, pix); err != nil {
			return err
		}
	}

	defined, err := core.IsConfigDefined(mmconfig.SystemGroup, mmconfig.StartupPreset)
	if err != nil {
		return fmt.Errorf("failed to query startup preset: %w", err)
	}
	if defined {
		if err := core.SetConfig(mmconfig.SystemGroup, mmconfig.StartupPreset); err != nil {
			return fmt.Errorf("failed to apply startup preset: %w", err)
		}
	}

	if err := core.WaitForSystem(); err != nil {
		return fmt.Errorf("failed to wait for system: %w", err)
	}
	if err := core.UpdateSystemStateCache(); err != nil {
		return fmt.Errorf("failed to update state cache: %w", err)
	}
	return nil
}

// initializeDevices runs device initialization, toggling the parallel
// initialization capability for the duration when the model requests a
// specific mode. The previous mode is restored afterwards, even when
// initialization fails.
func initializeDevices(core Core, cfg *mmconfig.Config) error {
	if cfg.EnableParallelDeviceInitialization == nil {
		if err := core.InitializeAllDevices(); err != nil {
			return fmt.Errorf("failed to initialize devices: %w", err)
		}
		return nil
	}

	previous, err := core.GetParallelDeviceInitialization()
	if err != nil {
		return fmt.Errorf("failed to query parallel initialization: %w", err)
	}
	if err := core.SetParallelDeviceInitialization(*cfg.EnableParallelDeviceInitialization); err != nil {
		return fmt.Errorf("failed to set parallel initialization: %w", err)
	}

	initErr := core.InitializeAllDevices()
	if err := core.SetParallelDeviceInitialization(previous); err != nil && initErr == nil {
		return fmt.Errorf("failed to restore parallel initialization: %w", err)
	}
	if initErr != nil {
		return fmt.Errorf("failed to initialize devices: %w", initErr)
	}
	return nil
}

// configureDevice applies a device's post-init properties and facets.
func configureDevice(core Core, dev *mmconfig.Device) error {
	for _, prop := range dev.PostInitProperties {
		if err := core.SetProperty(dev.Label, prop.Property, prop.Value); err != nil {
			return fmt.Errorf("failed to set property %s.%s: %w", dev.Label, prop.Property, err)
		}
	}
	if dev.DelayMS != nil {
		if err := core.SetDeviceDelayMs(dev.Label, *dev.DelayMS); err != nil {
			return fmt.Errorf("failed to set delay for %q: %w", dev.Label, err)
		}
	}
	if dir, ok := dev.FocusDirection(); ok {
		if err := core.SetFocusDirection(dev.Label, dir); err != nil {
			return fmt.Errorf("failed to set focus direction for %q: %w", dev.Label, err)
		}
	}
	if labels, ok := dev.StateLabels(); ok {
		for _, state := range labels.States() {
			index, err := strconv.Atoi(state)
			if err != nil {
				return fmt.Errorf("invalid state index %q for device %q: %w", state, dev.Label, err)
			}
			label, _ := labels.Get(state)
			if err := core.DefineStateLabel(dev.Label, index, label); err != nil {
				return fmt.Errorf("failed to define state label %s[%d]: %w", dev.Label, index, err)
			}
		}
	}
	return nil
}

// applyCoreProperties dispatches the core device's startup settings to
// the role, shutter and timeout setters. Settings for other devices, and
// core properties without a dedicated setter, are left to the startup
// preset.
func applyCoreProperties(core Core, startup []mmconfig.PropertySetting) error {
	for _, s := range startup {
		if s.Device != mmconfig.CoreLabel {
			continue
		}
		var err error
		switch s.Property {
		case "Camera":
			err = core.SetCameraDevice(s.Value)
		case "XYStage":
			err = core.SetXYStageDevice(s.Value)
		case "Focus":
			err = core.SetFocusDevice(s.Value)
		case "Shutter":
			err = core.SetShutterDevice(s.Value)
		case "AutoFocus":
			err = core.SetAutoFocusDevice(s.Value)
		case "ImageProcessor":
			err = core.SetImageProcessorDevice(s.Value)
		case "SLM":
			err = core.SetSLMDevice(s.Value)
		case "Galvo":
			err = core.SetGalvoDevice(s.Value)
		case "ChannelGroup":
			err = core.SetChannelGroup(s.Value)
		case "AutoShutter":
			err = core.SetAutoShutter(s.Value == "1")
		case "TimeoutMs":
			ms, convErr := strconv.Atoi(s.Value)
			if convErr != nil {
				return fmt.Errorf("invalid timeout %q: %w", s.Value, convErr)
			}
			err = core.SetTimeoutMs(ms)
		}
		if err != nil {
			return fmt.Errorf("failed to apply core property %q: %w", s.Property, err)
		}
	}
	return nil
}

// defineSystemPresets registers the hoisted startup/shutdown lists back
// under the System group so they exist as presets on the core.
func defineSystemPresets(core Core, cfg *mmconfig.Config) error {
	presets := []struct {
		name     string
		settings []mmconfig.PropertySetting
	}{
		{mmconfig.StartupPreset, cfg.StartupConfiguration},
		{mmconfig.ShutdownPreset, cfg.ShutdownConfiguration},
	}
	for _, preset := range presets {
		for _, s := range preset.settings {
			if err := core.DefineConfig(mmconfig.SystemGroup, preset.name, s.Device, s.Property, s.Value); err != nil {
				return fmt.Errorf("failed to define preset %s/%s: %w",
					mmconfig.SystemGroup, preset.name, err)
			}
		}
	}
	return nil
}

// definePixelSizeConfiguration registers one pixel size preset and its
// numeric facets.
func definePixelSizeConfiguration(core Core, pix *mmconfig.PixelSizeConfiguration) error {
	for _, s := range pix.Settings {
		if err := core.DefinePixelSizeConfig(pix.Name, s.Device, s.Property, s.Value); err != nil {
			return fmt.Errorf("failed to define pixel size preset %q: %w", pix.Name, err)
		}
	}
	if err := core.SetPixelSizeUm(pix.Name, pix.PixelSizeUm); err != nil {
		return fmt.Errorf("failed to set pixel size for %q: %w", pix.Name, err)
	}
	if pix.AffineMatrix != nil {
		if err := core.SetPixelSizeAffine(pix.Name, *pix.AffineMatrix); err != nil {
			return fmt.Errorf("failed to set affine transform for %q: %w", pix.Name, err)
		}
	}
	if pix.DxDz != nil {
		if err := core.SetPixelSizeDxDz(pix.Name, *pix.DxDz); err != nil {
			return fmt.Errorf("failed to set dxdz angle for %q: %w", pix.Name, err)
		}
	}
	if pix.DyDz != nil {
		if err := core.SetPixelSizeDyDz(pix.Name, *pix.DyDz); err != nil {
			return fmt.Errorf("failed to set dydz angle for %q: %w", pix.Name, err)
		}
	}
	if pix.OptimalZUm != nil {
		if err := core.SetPixelSizeOptimalZUm(pix.Name, *pix.OptimalZUm); err != nil {
			return fmt.Errorf("failed to set optimal Z for %q: %w", pix.Name, err)
		}
	}
	return nil
}
