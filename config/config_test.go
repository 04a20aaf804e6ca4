package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Energy.Initial != 100 {
		t.Errorf("initial energy = %v, want 100", cfg.Energy.Initial)
	}
	if cfg.Physics.VelocityIterations != 12 || cfg.Physics.PositionIterations != 12 {
		t.Errorf("iterations = %d/%d, want 12/12", cfg.Physics.VelocityIterations, cfg.Physics.PositionIterations)
	}
	if cfg.Derived.StagnationTicks != 300 {
		t.Errorf("stagnation ticks = %d, want 300", cfg.Derived.StagnationTicks)
	}

	wantStep := 160 * math.Pi / 180 / 60
	if math.Abs(cfg.Derived.MaxSteerStep-wantStep) > 1e-12 {
		t.Errorf("max steer step = %v, want %v", cfg.Derived.MaxSteerStep, wantStep)
	}
	if cfg.Derived.Bounds.Max.X() != 390 || cfg.Derived.Bounds.Min.Y() != -390 {
		t.Errorf("unexpected bounds %v", cfg.Derived.Bounds)
	}
	if !cfg.Derived.Bounds.Contains(cfg.Derived.SpawnBounds.Max) {
		t.Error("spawn bounds should lie inside the arena")
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("sensors:\n  range: 200\npopulation:\n  respawn_policy: same\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sensors.Range != 200 {
		t.Errorf("range = %v, want 200", cfg.Sensors.Range)
	}
	if cfg.Sensors.ConeAngle != 45 {
		t.Errorf("cone angle should keep default, got %v", cfg.Sensors.ConeAngle)
	}
	if cfg.Population.RespawnPolicy != "same" {
		t.Errorf("respawn policy = %q, want same", cfg.Population.RespawnPolicy)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative range", func(c *Config) { c.Sensors.Range = -1 }},
		{"zero time step", func(c *Config) { c.Physics.TimeStep = 0 }},
		{"cone too wide", func(c *Config) { c.Sensors.ConeAngle = 180 }},
		{"inverted tyre range", func(c *Config) { c.Vehicle.DriveForce = Range{Min: 10, Max: 5} }},
		{"predator cheaper than prey", func(c *Config) { c.Energy.PredatorCost = c.Energy.PreyCost }},
		{"unknown policy", func(c *Config) { c.Population.RespawnPolicy = "random" }},
		{"margin swallows arena", func(c *Config) { c.Arena.SpawnMargin = c.Arena.HalfWidth }},
		{"negative population", func(c *Config) { c.Population.Initial = -2 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v should wrap ErrInvalid", err)
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Population.Initial = 7

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Population.Initial != 7 {
		t.Errorf("population = %d, want 7", loaded.Population.Initial)
	}
}
