// Package mmcore applies a configuration model to a running device
// control core.
//
// The package only sequences calls against the narrow [Core] interface; it
// never talks to hardware itself. [LoadSystemConfiguration] walks the
// model's ordered containers and replays them in the order the runtime
// requires: unload, load plus pre-init properties, initialize, post-init
// properties and per-device facets, core roles, configuration groups,
// pixel size presets, then the startup preset.
package mmcore
