package game

import (
	"log/slog"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/telemetry"
)

// flushTelemetry closes the stats window when it is due.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.sampleTelemetry())
	perfStats := s.perf.Stats()

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.output != nil {
		if err := s.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleTelemetry collects energy values per role and the mean displacement.
func (s *Simulation) sampleTelemetry() telemetry.Sample {
	sample := telemetry.Sample{Generation: s.generation}

	var displacement float64
	n := 0

	query := s.agentFilter.Query()
	for query.Next() {
		agent, energy, _, transform, _, _ := query.Get()

		if agent.Role == components.RolePrey {
			sample.PreyEnergies = append(sample.PreyEnergies, energy.Value)
		} else {
			sample.PredEnergies = append(sample.PredEnergies, energy.Value)
		}
		displacement += transform.Displacement
		n++
	}

	if n > 0 {
		sample.MeanDisplacement = displacement / float64(n)
	}
	return sample
}
