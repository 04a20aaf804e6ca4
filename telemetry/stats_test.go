package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/config"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeEnergyStats(t *testing.T) {
	values := []float64{100, 10, 90, 20, 80, 30, 70, 40, 60, 50}
	s := ComputeEnergyStats(values)

	if math.Abs(s.Mean-55) > 0.001 {
		t.Errorf("mean = %v, want 55", s.Mean)
	}
	// Population standard deviation of 10..100 step 10
	if math.Abs(s.Std-math.Sqrt(825)) > 0.001 {
		t.Errorf("std = %v, want %v", s.Std, math.Sqrt(825))
	}
	if math.Abs(s.P10-19) > 0.01 {
		t.Errorf("p10 = %v, want 19", s.P10)
	}
	if math.Abs(s.P50-55) > 0.01 {
		t.Errorf("p50 = %v, want 55", s.P50)
	}
	if math.Abs(s.P90-91) > 0.01 {
		t.Errorf("p90 = %v, want 91", s.P90)
	}

	// Input must not be reordered
	if values[0] != 100 || values[1] != 10 {
		t.Error("ComputeEnergyStats sorted its input")
	}
}

func TestComputeEnergyStatsEmpty(t *testing.T) {
	if s := ComputeEnergyStats(nil); s != (EnergyStats{}) {
		t.Errorf("empty input should give zero stats, got %+v", s)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1, 1.0/30)
	if c.WindowDurationTicks() != 30 {
		t.Fatalf("window ticks = %d, want 30", c.WindowDurationTicks())
	}

	c.RecordSpawn(components.RolePrey)
	c.RecordSpawn(components.RolePredator)
	c.RecordSpawn(components.RolePredator)
	c.RecordCapture()
	c.RecordStarved(components.RolePredator)
	c.RecordRoleSwap()
	c.RecordReset()
	c.RecordBoundaryEvents(4)

	if c.ShouldFlush(29) {
		t.Error("should not flush before the window ends")
	}
	if !c.ShouldFlush(30) {
		t.Fatal("should flush at the window end")
	}

	stats := c.Flush(30, Sample{
		Generation:   2,
		PreyEnergies: []float64{50, 70},
		PredEnergies: []float64{10},
	})

	if stats.PreySpawns != 1 || stats.PredSpawns != 2 {
		t.Errorf("spawns = %d/%d, want 1/2", stats.PreySpawns, stats.PredSpawns)
	}
	if stats.Captures != 1 || stats.PredStarved != 1 || stats.PreyStarved != 0 {
		t.Errorf("unexpected removal counts %+v", stats)
	}
	if stats.Resets != 1 || stats.RoleSwaps != 1 || stats.BoundaryEvents != 4 {
		t.Errorf("unexpected counters %+v", stats)
	}
	if stats.PreyCount != 2 || stats.PredCount != 1 || stats.Generation != 2 {
		t.Errorf("unexpected population %+v", stats)
	}
	if stats.PreyEnergyMean != 60 {
		t.Errorf("prey energy mean = %v, want 60", stats.PreyEnergyMean)
	}
	if math.Abs(stats.SimTimeSec-1) > 1e-9 {
		t.Errorf("sim time = %v, want 1", stats.SimTimeSec)
	}

	next := c.Flush(60, Sample{})
	if next.WindowStartTick != 30 {
		t.Errorf("next window starts at %d, want 30", next.WindowStartTick)
	}
	if next.Captures != 0 || next.PredSpawns != 0 || next.BoundaryEvents != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}
	// Methods are nil-safe
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	if filepath.Dir(om.Dir()) != dir || filepath.Base(om.Dir()) != om.RunID() {
		t.Errorf("run dir %q should be %q/<run id>", om.Dir(), dir)
	}

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	for i := int32(1); i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: i * 300, PreyCount: int(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(om.Dir(), "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "window_end"); n != 1 {
		t.Errorf("header written %d times, want once", n)
	}

	var rows []WindowStats
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[2].WindowEndTick != 900 || rows[2].PreyCount != 3 || rows[2].RunID != om.RunID() {
		t.Errorf("unexpected last row %+v", rows[2])
	}

	if _, err := config.Load(filepath.Join(om.Dir(), "config.yaml")); err != nil {
		t.Errorf("config snapshot does not load: %v", err)
	}
}
