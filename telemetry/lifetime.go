package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/vehicles/components"
)

// LifetimeStats tracks per-agent statistics over its lifetime.
type LifetimeStats struct {
	ID        uint32
	Role      components.Role
	BirthTick int32

	Captures   int     // predators only
	PeakEnergy float64 // highest energy seen, including capture restores
	Distance   float64 // total chassis travel
}

// LifetimeRecord is the final summary of a removed agent.
type LifetimeRecord struct {
	LifetimeStats
	DeathTick       int32
	SurvivalTimeSec float64
	Reason          string
}

// LogValue implements slog.LogValuer for structured logging.
func (r LifetimeRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("id", uint64(r.ID)),
		slog.String("role", r.Role.String()),
		slog.String("reason", r.Reason),
		slog.Float64("survival_sec", r.SurvivalTimeSec),
		slog.Int("captures", r.Captures),
		slog.Float64("peak_energy", r.PeakEnergy),
		slog.Float64("distance", r.Distance),
	)
}

// LifetimeTracker manages per-agent lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
	dt    float64
}

// NewLifetimeTracker creates a new lifetime tracker.
// dt: seconds per tick
func NewLifetimeTracker(dt float64) *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
		dt:    dt,
	}
}

// Register creates lifetime stats for a new agent.
func (lt *LifetimeTracker) Register(id uint32, role components.Role, birthTick int32, energy float64) {
	lt.stats[id] = &LifetimeStats{
		ID:         id,
		Role:       role,
		BirthTick:  birthTick,
		PeakEnergy: energy,
	}
}

// Get returns the lifetime stats for an agent, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove drops an agent's stats and returns its final record.
func (lt *LifetimeTracker) Remove(id uint32, tick int32, reason string) (LifetimeRecord, bool) {
	s := lt.stats[id]
	if s == nil {
		return LifetimeRecord{}, false
	}
	delete(lt.stats, id)
	return LifetimeRecord{
		LifetimeStats:   *s,
		DeathTick:       tick,
		SurvivalTimeSec: float64(tick-s.BirthTick) * lt.dt,
		Reason:          reason,
	}, true
}

// RecordCapture increments the capture count of a predator.
func (lt *LifetimeTracker) RecordCapture(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.Captures++
	}
}

// RecordMovement adds travelled distance and tracks peak energy.
func (lt *LifetimeTracker) RecordMovement(id uint32, displacement, energy float64) {
	if s := lt.stats[id]; s != nil {
		s.Distance += displacement
		if energy > s.PeakEnergy {
			s.PeakEnergy = energy
		}
	}
}

// Count returns the number of tracked agents.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
