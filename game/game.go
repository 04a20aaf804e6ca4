// Package game owns the simulation context: the agent store, the rigid-body
// world and the per-tick pipeline that ties them together.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/config"
	"github.com/pthm-cable/vehicles/physics"
	"github.com/pthm-cable/vehicles/systems"
	"github.com/pthm-cable/vehicles/telemetry"
)

// Options configures a simulation beyond the YAML config.
type Options struct {
	Seed           int64
	LogStats       bool    // log each telemetry window via slog
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // empty = no CSV output
}

// Simulation holds the complete simulation state. It is not safe for
// concurrent use; callers drive it from a single goroutine.
type Simulation struct {
	cfg   *config.Config
	world *ecs.World
	rng   *rand.Rand

	physics *physics.World

	// Every agent is one entity carrying all six components
	agentMapper *ecs.Map6[
		components.Agent,
		components.Energy,
		components.Control,
		components.Transform,
		components.Sensors,
		components.Chassis,
	]
	agentFilter *ecs.Filter6[
		components.Agent,
		components.Energy,
		components.Control,
		components.Transform,
		components.Sensors,
		components.Chassis,
	]

	// id -> entity, plus live ids in ascending order
	index map[uint32]ecs.Entity
	ids   []uint32

	sensorParams   systems.SensorParams
	behaviorParams systems.BehaviorParams
	detector       *systems.Detector
	watchdog       *systems.Watchdog
	policy         RespawnPolicy

	// Scratch buffers reused every tick
	observers []systems.Observer
	entities  []ecs.Entity

	// Telemetry
	collector *telemetry.Collector
	lifetimes *telemetry.LifetimeTracker
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool

	// State
	tick       int32
	nextID     uint32
	generation int
	numPrey    int
	numPred    int

	running      bool
	showSensors  bool
	showOutlines bool
}

// New creates a simulation from cfg and spawns the initial population.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	policy, err := PolicyByName(cfg.Population.RespawnPolicy)
	if err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	pw := physics.NewWorld(cfg)

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	s := &Simulation{
		cfg:     cfg,
		world:   world,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		physics: pw,
		agentMapper: ecs.NewMap6[
			components.Agent,
			components.Energy,
			components.Control,
			components.Transform,
			components.Sensors,
			components.Chassis,
		](world),
		agentFilter: ecs.NewFilter6[
			components.Agent,
			components.Energy,
			components.Control,
			components.Transform,
			components.Sensors,
			components.Chassis,
		](world),
		index:          make(map[uint32]ecs.Entity),
		sensorParams:   systems.SensorParamsFrom(cfg),
		behaviorParams: systems.BehaviorParamsFrom(cfg),
		detector: systems.NewDetector(pw.Walls(), r2.Vec{
			X: cfg.Sensors.HitboxHalfWidth,
			Y: cfg.Sensors.HitboxHalfHeight,
		}),
		watchdog:    systems.NewWatchdog(cfg.Watchdog.Threshold, cfg.Derived.StagnationTicks),
		policy:      policy,
		collector:   telemetry.NewCollector(statsWindow, cfg.Physics.TimeStep),
		lifetimes:   telemetry.NewLifetimeTracker(cfg.Physics.TimeStep),
		perf:        telemetry.NewPerfCollector(int(statsWindow / cfg.Physics.TimeStep)),
		logStats:    opts.LogStats,
		nextID:      1,
		running:     true,
		showSensors: true,
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("creating output manager: %w", err)
		}
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			return nil, fmt.Errorf("writing config snapshot: %w", err)
		}
		s.output = om
		slog.Info("telemetry output enabled", "dir", om.Dir(), "run_id", om.RunID())
	}

	s.spawnAlternating(cfg.Population.Initial)
	return s, nil
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// Tick returns the number of completed running ticks.
func (s *Simulation) Tick() int32 {
	return s.tick
}

// Generation returns the number of watchdog resets so far.
func (s *Simulation) Generation() int {
	return s.generation
}

// Population returns the number of live agents.
func (s *Simulation) Population() int {
	return len(s.ids)
}

// Counts returns the number of live predators and prey.
func (s *Simulation) Counts() (predators, prey int) {
	return s.numPred, s.numPrey
}

// IDs returns the live agent ids in ascending order.
func (s *Simulation) IDs() []uint32 {
	out := make([]uint32, len(s.ids))
	copy(out, s.ids)
	return out
}

// Running reports whether Step advances the simulation.
func (s *Simulation) Running() bool {
	return s.running
}

// Close removes every agent, tears down the physics world and flushes
// telemetry output.
func (s *Simulation) Close() error {
	s.removeAll("shutdown")
	s.physics.Destroy()
	return s.output.Close()
}

// PerfStats returns tick timings over the current window.
func (s *Simulation) PerfStats() telemetry.PerfStats {
	return s.perf.Stats()
}

// RecordFrame marks the end of a rendered frame for FPS tracking.
func (s *Simulation) RecordFrame() {
	s.perf.RecordFrame()
}
