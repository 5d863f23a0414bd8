package mmcore

// Core is the device control surface required to load a configuration.
// It is the subset of the runtime's API that [LoadSystemConfiguration]
// drives; adapters for concrete runtimes implement it.
type Core interface {
	// UnloadAllDevices removes every loaded device.
	UnloadAllDevices() error

	// LoadDevice loads a device adapter under the given label.
	LoadDevice(label, library, name string) error

	// SetProperty sets a device property.
	SetProperty(label, property, value string) error

	// InitializeAllDevices initializes every loaded device.
	InitializeAllDevices() error

	// SetDeviceDelayMs sets a device's action delay in milliseconds.
	SetDeviceDelayMs(label string, delayMS float64) error

	// SetFocusDirection sets a stage's focus direction (-1, 0 or 1).
	SetFocusDirection(label string, direction int) error

	// DefineStateLabel assigns a human-readable label to a state index.
	DefineStateLabel(label string, state int, stateLabel string) error

	// DefineConfig adds one setting to a configuration group preset,
	// creating group and preset as needed.
	DefineConfig(group, preset, device, property, value string) error

	// DefinePixelSizeConfig adds one setting to a pixel size preset,
	// creating the preset as needed.
	DefinePixelSizeConfig(name, device, property, value string) error

	// SetPixelSizeUm sets a pixel size preset's size in micrometers.
	SetPixelSizeUm(name string, sizeUm float64) error

	// SetPixelSizeAffine sets a pixel size preset's affine transform.
	SetPixelSizeAffine(name string, matrix [6]float64) error

	// SetPixelSizeDxDz sets a pixel size preset's dx/dz angle.
	SetPixelSizeDxDz(name string, dxdz float64) error

	// SetPixelSizeDyDz sets a pixel size preset's dy/dz angle.
	SetPixelSizeDyDz(name string, dydz float64) error

	// SetPixelSizeOptimalZUm sets a pixel size preset's optimal Z step.
	SetPixelSizeOptimalZUm(name string, zUm float64) error

	// Role assignments for the core's well-known device slots.
	SetCameraDevice(label string) error
	SetXYStageDevice(label string) error
	SetFocusDevice(label string) error
	SetShutterDevice(label string) error
	SetAutoFocusDevice(label string) error
	SetImageProcessorDevice(label string) error
	SetSLMDevice(label string) error
	SetGalvoDevice(label string) error

	// SetChannelGroup marks a configuration group as the channel group.
	SetChannelGroup(group string) error

	// SetAutoShutter enables or disables the automatic shutter.
	SetAutoShutter(on bool) error

	// SetTimeoutMs sets the core's operation timeout in milliseconds.
	SetTimeoutMs(ms int) error

	// GetParallelDeviceInitialization reports whether devices are
	// initialized in parallel.
	GetParallelDeviceInitialization() (bool, error)

	// SetParallelDeviceInitialization toggles parallel initialization.
	SetParallelDeviceInitialization(enabled bool) error

	// IsConfigDefined reports whether a group contains a preset.
	IsConfigDefined(group, preset string) (bool, error)

	// SetConfig applies a configuration group preset.
	SetConfig(group, preset string) error

	// WaitForSystem blocks until all devices are idle.
	WaitForSystem() error

	// UpdateSystemStateCache refreshes the core's cached device state.
	UpdateSystemStateCache() error
}
