// Package mmconfig defines the structured Micro-Manager configuration
// model: the devices to load, their pre- and post-initialization property
// settings, configuration groups with switchable presets, pixel size
// calibrations, and the startup/shutdown setting lists applied by the
// controlling runtime.
//
// The model is produced either by the legacy .cfg parser (package legacy)
// or by decoding the JSON/YAML representation of the same field set. All
// producers funnel through [Config.Normalize] and [Config.Validate], so the
// invariants hold regardless of where a model came from:
//
//   - device labels are unique, non-empty, contain no comma, and are never
//     the reserved core label (case-insensitively)
//   - at most one of the focus-direction / state-labels / children facets is
//     set per device, enforced structurally by the [DeviceExtra] tagged union
//   - the "System" group's "Startup" and "Shutdown" presets are hoisted into
//     [Config.StartupConfiguration] and [Config.ShutdownConfiguration]
//
// A validated Config is value data: consumers (the legacy serializer, the
// mmcore apply sequence) only read it, and the order of every slice in the
// model is meaningful — devices are loaded, settings applied, and presets
// defined in exactly the listed order.
//
// Property values are opaque strings throughout; the model never interprets
// them.
package mmconfig
