package mmconfig

// CoreLabel is the reserved label of the core pseudo-device. It may appear
// as the device of a PropertySetting but never as the label of a loaded
// device.
const CoreLabel = "Core"

// SchemaVersion is the fixed version tag carried by every serialized model.
const SchemaVersion = "1.0"

// SchemaID is the canonical $id of the JSON Schema describing this model.
const SchemaID = "https://micro-manager.org/schemas/mmconfig/1.0/mmconfig.schema.json"

// Names with hoisting semantics: the System group's Startup and Shutdown
// presets are not ordinary presets (see Config.Normalize).
const (
	SystemGroup    = "System"
	StartupPreset  = "Startup"
	ShutdownPreset = "Shutdown"
)

// PropertyValue is a property setting scoped to a device. The device is
// implicit: PropertyValue only ever appears inside a Device's property
// lists.
type PropertyValue struct {
	// Property is the name of the property to set on the device.
	Property string `json:"property" yaml:"property"`

	// Value is the value to set, stored as opaque text.
	Value string `json:"value" yaml:"value"`
}

// PropertySetting is a free-standing property setting with an explicit
// device reference, used by configuration groups and the startup/shutdown
// lists.
type PropertySetting struct {
	// Device is the label of the device to set the property on.
	Device string `json:"device" yaml:"device"`

	// Property is the name of the property to set.
	Property string `json:"property" yaml:"property"`

	// Value is the value to set, stored as opaque text.
	Value string `json:"value" yaml:"value"`
}

// Configuration is a named preset: an ordered list of settings applied in
// listed order.
type Configuration struct {
	Name string `json:"name" yaml:"name"`

	// Settings are applied in the order they are listed.
	Settings []PropertySetting `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// ConfigGroup is a named group of switchable configuration presets.
type ConfigGroup struct {
	Name string `json:"name" yaml:"name"`

	// Configurations holds the group's presets in definition order.
	Configurations []Configuration `json:"configurations,omitempty" yaml:"configurations,omitempty"`
}

// GetConfiguration returns the preset with the given name, or nil.
func (g *ConfigGroup) GetConfiguration(name string) *Configuration {
	for i := range g.Configurations {
		if g.Configurations[i].Name == name {
			return &g.Configurations[i]
		}
	}
	return nil
}

// PixelSizeConfiguration is a named pixel size calibration: a preset plus
// the physical pixel size and optional affine/angle correction terms.
type PixelSizeConfiguration struct {
	Name string `json:"name" yaml:"name"`

	// Settings are the device property settings that select this resolution.
	Settings []PropertySetting `json:"settings,omitempty" yaml:"settings,omitempty"`

	// PixelSizeUm is the pixel size in micrometers.
	PixelSizeUm float64 `json:"pixel_size_um" yaml:"pixel_size_um"`

	// AffineMatrix is a 2x3 affine transform stored as 6 values.
	AffineMatrix *[6]float64 `json:"affine_matrix,omitempty" yaml:"affine_matrix,omitempty"`

	// DxDz is the dimensionless x-translation per z-translation ratio.
	DxDz *float64 `json:"dxdz,omitempty" yaml:"dxdz,omitempty"`

	// DyDz is the dimensionless y-translation per z-translation ratio.
	DyDz *float64 `json:"dydz,omitempty" yaml:"dydz,omitempty"`

	// OptimalZUm is the user-defined optimal z step for this resolution.
	OptimalZUm *float64 `json:"optimal_z_um,omitempty" yaml:"optimal_z_um,omitempty"`
}

// Config is the top-level Micro-Manager configuration model.
//
// Every slice is ordered and the order is a compatibility contract: devices
// load, properties apply, and presets are defined in listed order.
type Config struct {
	// SchemaVersion is always "1.0" once the model has been normalized.
	SchemaVersion string `json:"schema_version" yaml:"schema_version"`

	// EnableParallelDeviceInitialization selects parallel device
	// initialization in the runtime. nil means no decision has been made.
	EnableParallelDeviceInitialization *bool `json:"enable_parallel_device_initialization,omitempty" yaml:"enable_parallel_device_initialization,omitempty"`

	// Devices are loaded in the order they are listed.
	Devices []*Device `json:"devices,omitempty" yaml:"devices,omitempty"`

	// StartupConfiguration is applied after device initialization.
	StartupConfiguration []PropertySetting `json:"startup_configuration,omitempty" yaml:"startup_configuration,omitempty"`

	// ShutdownConfiguration is applied when the runtime shuts down.
	ShutdownConfiguration []PropertySetting `json:"shutdown_configuration,omitempty" yaml:"shutdown_configuration,omitempty"`

	ConfigurationGroups []*ConfigGroup `json:"configuration_groups,omitempty" yaml:"configuration_groups,omitempty"`

	PixelSizeConfigurations []*PixelSizeConfiguration `json:"pixel_size_configurations,omitempty" yaml:"pixel_size_configurations,omitempty"`

	// Extra is an open bag of user-defined fields, ignored by the runtime.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// New returns an empty model with the schema version set.
func New() *Config {
	return &Config{SchemaVersion: SchemaVersion}
}

// GetDevice returns the device with the given label, or nil.
func (c *Config) GetDevice(label string) *Device {
	for _, d := range c.Devices {
		if d.Label == label {
			return d
		}
	}
	return nil
}

// GetConfigurationGroup returns the group with the given name, or nil.
func (c *Config) GetConfigurationGroup(name string) *ConfigGroup {
	for _, g := range c.ConfigurationGroups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// GetPixelSizeConfiguration returns the pixel size configuration with the
// given name, or nil.
func (c *Config) GetPixelSizeConfiguration(name string) *PixelSizeConfiguration {
	for _, p := range c.PixelSizeConfigurations {
		if p.Name == name {
			return p
		}
	}
	return nil
}
