package layout

import (
	"fmt"
	"maps"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/gravitas-dev/gravitas/pkg/errors"
)

// =============================================================================
// Config - Simulation Parameters
// =============================================================================

// Config holds the simulation parameters for one layout pass. Everything the
// engine tunes by is here; named presets bundle the parameter sets that work
// well for different graph densities.
type Config struct {
	// ChargeStrength is the repulsion magnitude. Negative by convention:
	// more negative pushes nodes further apart.
	ChargeStrength float64 `json:"charge_strength" toml:"charge_strength"`

	// LinkDistance is the target separation for connected nodes. Edges longer
	// than this pull their endpoints together; shorter edges are left alone
	// (no artificial compression).
	LinkDistance float64 `json:"link_distance" toml:"link_distance"`

	// MinDistance is the hard collision radius. Pairs closer than this get a
	// boosted inverse-square repulsion and a post-pass separation.
	MinDistance float64 `json:"min_distance" toml:"min_distance"`

	// Iterations is the fixed number of simulation steps per run.
	Iterations int `json:"iterations" toml:"iterations"`

	// CoolingRate is the per-step exponential velocity damping, in (0, 1).
	CoolingRate float64 `json:"cooling_rate" toml:"cooling_rate"`

	// CenterForce is the weight of the pull toward the canvas center.
	CenterForce float64 `json:"center_force" toml:"center_force"`

	// Padding is the minimum distance kept from every canvas edge.
	Padding float64 `json:"padding" toml:"padding"`

	// Seed seeds the jitter source. Zero means unseeded (time-based), which
	// is the default: random jitter helps escape symmetric local minima.
	Seed uint64 `json:"seed,omitempty" toml:"seed,omitempty"`
}

// DefaultConfig returns the standard simulation parameters.
func DefaultConfig() Config {
	return Config{
		ChargeStrength: -300,
		LinkDistance:   120,
		MinDistance:    30,
		Iterations:     300,
		CoolingRate:    0.9,
		CenterForce:    0.02,
		Padding:        40,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Iterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "iterations must be non-negative, got %d", c.Iterations)
	}
	if c.CoolingRate <= 0 || c.CoolingRate >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "cooling_rate must be in (0, 1), got %g", c.CoolingRate)
	}
	if c.MinDistance < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min_distance must be non-negative, got %g", c.MinDistance)
	}
	if c.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "padding must be non-negative, got %g", c.Padding)
	}
	return nil
}

// =============================================================================
// Presets
// =============================================================================

// Preset names.
const (
	PresetDefault = "default"
	PresetDense   = "dense"
	PresetSparse  = "sparse"
)

// builtinPresets holds the named parameter sets. "dense" packs nodes tighter
// for large result sets; "sparse" spreads small graphs out for readability.
var builtinPresets = map[string]Config{
	PresetDefault: DefaultConfig(),
	PresetDense: {
		ChargeStrength: -180,
		LinkDistance:   80,
		MinDistance:    22,
		Iterations:     400,
		CoolingRate:    0.88,
		CenterForce:    0.03,
		Padding:        30,
	},
	PresetSparse: {
		ChargeStrength: -500,
		LinkDistance:   180,
		MinDistance:    45,
		Iterations:     250,
		CoolingRate:    0.92,
		CenterForce:    0.015,
		Padding:        50,
	},
}

// Preset returns the named built-in configuration.
func Preset(name string) (Config, error) {
	if name == "" {
		return DefaultConfig(), nil
	}
	cfg, ok := builtinPresets[name]
	if !ok {
		return Config{}, errors.New(errors.ErrCodePresetNotFound,
			"unknown preset %q (available: %s)", name, presetList())
	}
	return cfg, nil
}

// PresetNames returns the sorted names of all built-in presets.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(builtinPresets))
}

func presetList() string {
	return fmt.Sprintf("%v", PresetNames())
}

// =============================================================================
// Preset Files
// =============================================================================

// presetFile is the TOML schema for user preset files:
//
//	[presets.boardroom]
//	charge_strength = -420.0
//	link_distance = 150.0
//	...
type presetFile struct {
	Presets map[string]Config `toml:"presets"`
}

// LoadPresets reads a TOML preset file and returns the built-in presets
// merged with the file's entries. File entries override built-ins of the same
// name; unset numeric fields in a file entry fall back to the default config.
func LoadPresets(path string) (map[string]Config, error) {
	var pf presetFile
	if _, err := toml.DecodeFile(path, &pf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load presets from %s", path)
	}

	merged := make(map[string]Config, len(builtinPresets)+len(pf.Presets))
	maps.Copy(merged, builtinPresets)
	for name, cfg := range pf.Presets {
		merged[name] = fillDefaults(cfg)
	}
	return merged, nil
}

// fillDefaults replaces zero-valued fields with the defaults so a preset file
// only needs to mention the parameters it changes.
func fillDefaults(c Config) Config {
	d := DefaultConfig()
	if c.ChargeStrength == 0 {
		c.ChargeStrength = d.ChargeStrength
	}
	if c.LinkDistance == 0 {
		c.LinkDistance = d.LinkDistance
	}
	if c.MinDistance == 0 {
		c.MinDistance = d.MinDistance
	}
	if c.Iterations == 0 {
		c.Iterations = d.Iterations
	}
	if c.CoolingRate == 0 {
		c.CoolingRate = d.CoolingRate
	}
	if c.CenterForce == 0 {
		c.CenterForce = d.CenterForce
	}
	if c.Padding == 0 {
		c.Padding = d.Padding
	}
	return c
}
