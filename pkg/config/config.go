// Package config provides engine configuration for plotpin.
//
// Configuration is loaded from a TOML file and covers the tunables the host
// supplies to the engine: the label size table keyed by semantic category,
// the placement margins, the strategy selection (directional search vs.
// force-directed refinement), and the refiner parameters. Everything has a
// default mirroring the reference behavior, so a missing config file is not
// an error.
//
// Strategy selection is a configuration-time choice on purpose: switching
// algorithms based on a runtime heuristic would make layout results depend
// on scene density in surprising ways and complicate reproducing a layout
// from its inputs.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/svanholm/plotpin/pkg/errors"
	"github.com/svanholm/plotpin/pkg/scene"
)

// Placement strategies.
const (
	StrategyDirectional = "directional"
	StrategyForce       = "force"
)

// ValidStrategies is the set of supported placement strategies.
var ValidStrategies = map[string]bool{
	StrategyDirectional: true,
	StrategyForce:       true,
}

// Size is a label box size in scene units.
type Size struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Margins holds the placement spacing constants.
type Margins struct {
	// Border is the minimum distance between a label edge and the canvas edge.
	Border float64 `toml:"border"`
	// Collision is the minimum gap required between two label boxes.
	Collision float64 `toml:"collision"`
}

// Refiner holds the force-directed refinement parameters.
type Refiner struct {
	Iterations   int     `toml:"iterations"`    // iteration budget
	Damping      float64 `toml:"damping"`       // velocity damping per step
	Repulsion    float64 `toml:"repulsion"`     // base repulsion strength
	Attraction   float64 `toml:"attraction"`    // anchor attraction strength
	MaxStep      float64 `toml:"max_step"`      // per-iteration displacement cap
	ConvergeEps  float64 `toml:"converge_eps"`  // early-exit displacement threshold
	AnchorSlack  float64 `toml:"anchor_slack"`  // distance before attraction engages
	NearbyRadius float64 `toml:"nearby_radius"` // weak-repulsion proximity radius
	BoundaryPush float64 `toml:"boundary_push"` // boundary repulsion strength
	SectorPush   float64 `toml:"sector_push"`   // sector repulsion strength
}

// Config is the complete engine configuration.
type Config struct {
	Strategy string          `toml:"strategy"`
	Margins  Margins         `toml:"margins"`
	Sizes    map[string]Size `toml:"sizes"`
	Refiner  Refiner         `toml:"refiner"`
}

// fallbackSize is used for categories missing from the size table.
var fallbackSize = Size{Width: 2.0, Height: 0.8}

// Default returns the configuration mirroring the reference constants.
func Default() Config {
	return Config{
		Strategy: StrategyDirectional,
		Margins: Margins{
			Border:    0.3,
			Collision: 0.1,
		},
		Sizes: map[string]Size{
			scene.CategoryDevice:      {Width: 2.0, Height: 0.8},
			scene.CategoryMeasurement: {Width: 2.5, Height: 1.2},
			scene.CategoryUser:        {Width: 1.8, Height: 0.6},
		},
		Refiner: Refiner{
			Iterations:   50,
			Damping:      0.85,
			Repulsion:    0.3,
			Attraction:   0.2,
			MaxStep:      0.5,
			ConvergeEps:  0.01,
			AnchorSlack:  0.5,
			NearbyRadius: 2.0,
			BoundaryPush: 0.4,
			SectorPush:   0.6,
		},
	}
}

// Load reads a TOML config file and merges it over the defaults.
// A missing file returns the defaults without error; a malformed file or an
// invalid value is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if !ValidStrategies[c.Strategy] {
		return errors.New(errors.ErrCodeInvalidStrategy,
			"invalid strategy %q (must be one of: directional, force)", c.Strategy)
	}
	if c.Margins.Border < 0 || c.Margins.Collision < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"margins cannot be negative: border=%v collision=%v", c.Margins.Border, c.Margins.Collision)
	}
	for cat, s := range c.Sizes {
		if err := errors.ValidateLabelSize(s.Width, s.Height); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "size for category %q", cat)
		}
	}
	if c.Refiner.Iterations <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"refiner iterations must be positive, got %d", c.Refiner.Iterations)
	}
	if c.Refiner.Damping <= 0 || c.Refiner.Damping > 1 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"refiner damping must be in (0, 1], got %v", c.Refiner.Damping)
	}
	return nil
}

// SizeFor returns the label box size for a category. Unknown categories fall
// back to the device size so a stray category degrades gracefully instead of
// producing a zero-area box.
func (c *Config) SizeFor(category string) (width, height float64) {
	if s, ok := c.Sizes[category]; ok {
		return s.Width, s.Height
	}
	return fallbackSize.Width, fallbackSize.Height
}
