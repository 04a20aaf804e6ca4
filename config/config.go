// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned (wrapped) when a configuration value is out of range.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Arena      ArenaConfig      `yaml:"arena"`
	Vehicle    VehicleConfig    `yaml:"vehicle"`
	Steering   SteeringConfig   `yaml:"steering"`
	Sensors    SensorsConfig    `yaml:"sensors"`
	Behavior   BehaviorConfig   `yaml:"behavior"`
	Energy     EnergyConfig     `yaml:"energy"`
	Population PopulationConfig `yaml:"population"`
	Watchdog   WatchdogConfig   `yaml:"watchdog"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds rigid-body world stepping parameters.
type PhysicsConfig struct {
	TimeStep           float64 `yaml:"time_step"` // seconds per tick
	VelocityIterations int     `yaml:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations"`
}

// ArenaConfig describes the walled arena centred on the origin.
type ArenaConfig struct {
	HalfWidth     float64 `yaml:"half_width"`
	HalfHeight    float64 `yaml:"half_height"`
	WallThickness float64 `yaml:"wall_thickness"`
	SpawnMargin   float64 `yaml:"spawn_margin"` // Keep spawns this far from the walls
}

// Range is a closed interval sampled uniformly.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Sample draws a value uniformly from [Min, Max).
func (r Range) Sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// VehicleConfig holds hull and tyre parameters.
// Tyre characteristics are drawn per vehicle from the given ranges.
type VehicleConfig struct {
	HullHalfWidth  float64 `yaml:"hull_half_width"`
	HullHalfHeight float64 `yaml:"hull_half_height"`
	HullDensity    float64 `yaml:"hull_density"`
	AngularDamping float64 `yaml:"angular_damping"`
	TyreHalfSize   float64 `yaml:"tyre_half_size"`
	TyreDensity    float64 `yaml:"tyre_density"`
	ForwardSpeed   Range   `yaml:"forward_speed"`
	BackwardSpeed  Range   `yaml:"backward_speed"` // Magnitudes; applied as negative speeds
	DriveForce     Range   `yaml:"drive_force"`
	LateralImpulse Range   `yaml:"lateral_impulse"`
}

// SteeringConfig holds the front-wheel steering rate limit.
type SteeringConfig struct {
	TurnRate float64 `yaml:"turn_rate"` // degrees per second
	TickRate float64 `yaml:"tick_rate"` // steering updates per second used to derive the per-tick step
}

// SensorsConfig holds sensor cone and hit-box parameters.
type SensorsConfig struct {
	ConeAngle        float64 `yaml:"cone_angle"` // degrees, full cone width
	Offset           float64 `yaml:"offset"`     // degrees from heading to each cone axis
	Range            float64 `yaml:"range"`
	HitboxHalfWidth  float64 `yaml:"hitbox_half_width"`
	HitboxHalfHeight float64 `yaml:"hitbox_half_height"`
}

// BehaviorConfig holds the fixed reaction magnitudes.
type BehaviorConfig struct {
	Speed     float64 `yaml:"speed"`
	TurnAngle float64 `yaml:"turn_angle"` // degrees
}

// EnergyConfig holds per-tick energy costs.
type EnergyConfig struct {
	Initial           float64 `yaml:"initial"`
	PredatorCost      float64 `yaml:"predator_cost"`
	PreyCost          float64 `yaml:"prey_cost"`
	IdlePenalty       float64 `yaml:"idle_penalty"`
	MovementThreshold float64 `yaml:"movement_threshold"` // displacement per tick below which the idle penalty applies
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	Initial       int    `yaml:"initial"`
	RespawnPolicy string `yaml:"respawn_policy"` // "opposite" or "same"
}

// WatchdogConfig holds stagnation watchdog parameters.
type WatchdogConfig struct {
	Duration  float64 `yaml:"duration"`  // seconds of stagnation before a reset
	Threshold float64 `yaml:"threshold"` // per-tick displacement below which an agent counts as stalled
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	MaxSteerStep    float64   // radians per tick
	ConeAngle       float64   // radians
	ConeOffset      float64   // radians
	TurnAngle       float64   // radians
	StagnationTicks int       // ticks of stagnation tolerated before a reset
	Bounds          orb.Bound // arena interior
	SpawnBounds     orb.Bound // arena interior shrunk by the spawn margin
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate rejects out-of-range values instead of clamping them.
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"physics.time_step", c.Physics.TimeStep},
		{"arena.half_width", c.Arena.HalfWidth},
		{"arena.half_height", c.Arena.HalfHeight},
		{"arena.wall_thickness", c.Arena.WallThickness},
		{"vehicle.hull_half_width", c.Vehicle.HullHalfWidth},
		{"vehicle.hull_half_height", c.Vehicle.HullHalfHeight},
		{"vehicle.hull_density", c.Vehicle.HullDensity},
		{"vehicle.tyre_half_size", c.Vehicle.TyreHalfSize},
		{"vehicle.tyre_density", c.Vehicle.TyreDensity},
		{"steering.turn_rate", c.Steering.TurnRate},
		{"steering.tick_rate", c.Steering.TickRate},
		{"sensors.range", c.Sensors.Range},
		{"sensors.hitbox_half_width", c.Sensors.HitboxHalfWidth},
		{"sensors.hitbox_half_height", c.Sensors.HitboxHalfHeight},
		{"energy.initial", c.Energy.Initial},
		{"watchdog.duration", c.Watchdog.Duration},
		{"telemetry.stats_window", c.Telemetry.StatsWindow},
	}
	for _, p := range positive {
		if !(p.value > 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, p.name, p.value)
		}
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"arena.spawn_margin", c.Arena.SpawnMargin},
		{"vehicle.angular_damping", c.Vehicle.AngularDamping},
		{"sensors.offset", c.Sensors.Offset},
		{"behavior.speed", c.Behavior.Speed},
		{"behavior.turn_angle", c.Behavior.TurnAngle},
		{"energy.prey_cost", c.Energy.PreyCost},
		{"energy.idle_penalty", c.Energy.IdlePenalty},
		{"energy.movement_threshold", c.Energy.MovementThreshold},
		{"watchdog.threshold", c.Watchdog.Threshold},
	}
	for _, p := range nonNegative {
		if p.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalid, p.name, p.value)
		}
	}

	ranges := []struct {
		name string
		r    Range
	}{
		{"vehicle.forward_speed", c.Vehicle.ForwardSpeed},
		{"vehicle.backward_speed", c.Vehicle.BackwardSpeed},
		{"vehicle.drive_force", c.Vehicle.DriveForce},
		{"vehicle.lateral_impulse", c.Vehicle.LateralImpulse},
	}
	for _, rr := range ranges {
		if rr.r.Min < 0 || rr.r.Max < rr.r.Min {
			return fmt.Errorf("%w: %s must satisfy 0 <= min <= max, got [%v, %v]", ErrInvalid, rr.name, rr.r.Min, rr.r.Max)
		}
	}

	if c.Sensors.ConeAngle <= 0 || c.Sensors.ConeAngle >= 180 {
		return fmt.Errorf("%w: sensors.cone_angle must be in (0, 180), got %v", ErrInvalid, c.Sensors.ConeAngle)
	}
	if c.Energy.PredatorCost <= c.Energy.PreyCost {
		return fmt.Errorf("%w: energy.predator_cost (%v) must exceed energy.prey_cost (%v)",
			ErrInvalid, c.Energy.PredatorCost, c.Energy.PreyCost)
	}
	if c.Arena.SpawnMargin >= c.Arena.HalfWidth || c.Arena.SpawnMargin >= c.Arena.HalfHeight {
		return fmt.Errorf("%w: arena.spawn_margin %v leaves no spawn area", ErrInvalid, c.Arena.SpawnMargin)
	}
	if c.Population.Initial < 0 {
		return fmt.Errorf("%w: population.initial must not be negative, got %d", ErrInvalid, c.Population.Initial)
	}
	switch c.Population.RespawnPolicy {
	case "opposite", "same":
	default:
		return fmt.Errorf("%w: population.respawn_policy must be \"opposite\" or \"same\", got %q",
			ErrInvalid, c.Population.RespawnPolicy)
	}
	if c.Physics.VelocityIterations <= 0 || c.Physics.PositionIterations <= 0 {
		return fmt.Errorf("%w: physics iterations must be positive", ErrInvalid)
	}

	return nil
}

// ComputeDerived calculates values derived from loaded config.
// Call again after mutating a loaded config in place.
func (c *Config) ComputeDerived() {
	const degToRad = math.Pi / 180

	c.Derived.MaxSteerStep = c.Steering.TurnRate * degToRad / c.Steering.TickRate
	c.Derived.ConeAngle = c.Sensors.ConeAngle * degToRad
	c.Derived.ConeOffset = c.Sensors.Offset * degToRad
	c.Derived.TurnAngle = c.Behavior.TurnAngle * degToRad
	c.Derived.StagnationTicks = int(math.Round(c.Watchdog.Duration / c.Physics.TimeStep))

	hw, hh := c.Arena.HalfWidth, c.Arena.HalfHeight
	c.Derived.Bounds = orb.Bound{Min: orb.Point{-hw, -hh}, Max: orb.Point{hw, hh}}

	m := c.Arena.SpawnMargin
	c.Derived.SpawnBounds = orb.Bound{Min: orb.Point{-hw + m, -hh + m}, Max: orb.Point{hw - m, hh - m}}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
