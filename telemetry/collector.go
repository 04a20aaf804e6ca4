package telemetry

import "github.com/pthm-cable/vehicles/components"

// Collector accumulates lifecycle events within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32

	preySpawns     int
	predSpawns     int
	captures       int
	preyStarved    int
	predStarved    int
	resets         int
	roleSwaps      int
	boundaryEvents int

	lifetimeSum   float64
	lifetimeCount int
	topCaptures   int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordSpawn records a new agent.
func (c *Collector) RecordSpawn(role components.Role) {
	if role == components.RolePrey {
		c.preySpawns++
	} else {
		c.predSpawns++
	}
}

// RecordCapture records a predator catching prey.
func (c *Collector) RecordCapture() {
	c.captures++
}

// RecordStarved records an agent removed for running out of energy.
func (c *Collector) RecordStarved(role components.Role) {
	if role == components.RolePrey {
		c.preyStarved++
	} else {
		c.predStarved++
	}
}

// RecordReset records a watchdog reset.
func (c *Collector) RecordReset() {
	c.resets++
}

// RecordRoleSwap records a replacement spawned with the opposite role.
func (c *Collector) RecordRoleSwap() {
	c.roleSwaps++
}

// RecordBoundaryEvents adds n boundary detections.
func (c *Collector) RecordBoundaryEvents(n int) {
	c.boundaryEvents += n
}

// RecordLifetime adds a removed agent's lifetime to the window.
func (c *Collector) RecordLifetime(r LifetimeRecord) {
	c.lifetimeSum += r.SurvivalTimeSec
	c.lifetimeCount++
	if r.Captures > c.topCaptures {
		c.topCaptures = r.Captures
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Sample is the population state at the end of a window.
type Sample struct {
	Generation       int
	PreyEnergies     []float64
	PredEnergies     []float64
	MeanDisplacement float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, s Sample) WindowStats {
	prey := ComputeEnergyStats(s.PreyEnergies)
	pred := ComputeEnergyStats(s.PredEnergies)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,
		Generation:      s.Generation,

		PreyCount: len(s.PreyEnergies),
		PredCount: len(s.PredEnergies),

		PreySpawns:     c.preySpawns,
		PredSpawns:     c.predSpawns,
		Captures:       c.captures,
		PreyStarved:    c.preyStarved,
		PredStarved:    c.predStarved,
		Resets:         c.resets,
		RoleSwaps:      c.roleSwaps,
		BoundaryEvents: c.boundaryEvents,

		PreyEnergyMean: prey.Mean,
		PreyEnergyStd:  prey.Std,
		PreyEnergyP10:  prey.P10,
		PreyEnergyP50:  prey.P50,
		PreyEnergyP90:  prey.P90,

		PredEnergyMean: pred.Mean,
		PredEnergyStd:  pred.Std,
		PredEnergyP10:  pred.P10,
		PredEnergyP50:  pred.P50,
		PredEnergyP90:  pred.P90,

		MeanDisplacement: s.MeanDisplacement,
		TopCaptures:      c.topCaptures,
	}
	if c.lifetimeCount > 0 {
		stats.MeanLifetimeSec = c.lifetimeSum / float64(c.lifetimeCount)
	}

	c.windowStartTick = currentTick
	c.preySpawns = 0
	c.predSpawns = 0
	c.captures = 0
	c.preyStarved = 0
	c.predStarved = 0
	c.resets = 0
	c.roleSwaps = 0
	c.boundaryEvents = 0
	c.lifetimeSum = 0
	c.lifetimeCount = 0
	c.topCaptures = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
