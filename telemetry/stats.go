package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	RunID           string  `csv:"run_id"`
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Generation      int     `csv:"generation"`

	// Population counts at window end
	PreyCount int `csv:"prey"`
	PredCount int `csv:"pred"`

	// Events during window
	PreySpawns     int `csv:"prey_spawns"`
	PredSpawns     int `csv:"pred_spawns"`
	Captures       int `csv:"captures"`
	PreyStarved    int `csv:"prey_starved"`
	PredStarved    int `csv:"pred_starved"`
	Resets         int `csv:"resets"`
	RoleSwaps      int `csv:"role_swaps"`
	BoundaryEvents int `csv:"boundary_events"`

	// Energy distribution (sampled at window end)
	PreyEnergyMean float64 `csv:"prey_energy_mean"`
	PreyEnergyStd  float64 `csv:"prey_energy_std"`
	PreyEnergyP10  float64 `csv:"prey_energy_p10"`
	PreyEnergyP50  float64 `csv:"prey_energy_p50"`
	PreyEnergyP90  float64 `csv:"prey_energy_p90"`

	PredEnergyMean float64 `csv:"pred_energy_mean"`
	PredEnergyStd  float64 `csv:"pred_energy_std"`
	PredEnergyP10  float64 `csv:"pred_energy_p10"`
	PredEnergyP50  float64 `csv:"pred_energy_p50"`
	PredEnergyP90  float64 `csv:"pred_energy_p90"`

	// Mean per-tick displacement of all agents at window end
	MeanDisplacement float64 `csv:"mean_displacement"`

	// Agents removed during the window
	MeanLifetimeSec float64 `csv:"mean_lifetime"`
	TopCaptures     int     `csv:"top_captures"`
}

// EnergyStats summarises one role's energy values.
type EnergyStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean, spread and percentiles of energy values.
func ComputeEnergyStats(values []float64) EnergyStats {
	n := len(values)
	if n == 0 {
		return EnergyStats{}
	}

	mean, std := stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return EnergyStats{
		Mean: mean,
		Std:  std,
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("generation", s.Generation),
		slog.Int("prey", s.PreyCount),
		slog.Int("pred", s.PredCount),
		slog.Int("prey_spawns", s.PreySpawns),
		slog.Int("pred_spawns", s.PredSpawns),
		slog.Int("captures", s.Captures),
		slog.Int("prey_starved", s.PreyStarved),
		slog.Int("pred_starved", s.PredStarved),
		slog.Int("resets", s.Resets),
		slog.Int("role_swaps", s.RoleSwaps),
		slog.Int("boundary_events", s.BoundaryEvents),
		slog.Float64("prey_energy_mean", s.PreyEnergyMean),
		slog.Float64("prey_energy_p50", s.PreyEnergyP50),
		slog.Float64("pred_energy_mean", s.PredEnergyMean),
		slog.Float64("pred_energy_p50", s.PredEnergyP50),
		slog.Float64("mean_displacement", s.MeanDisplacement),
		slog.Float64("mean_lifetime", s.MeanLifetimeSec),
		slog.Int("top_captures", s.TopCaptures),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("telemetry_window", "stats", s)
}
