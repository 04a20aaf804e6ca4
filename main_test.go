package main

import (
	"context"
	"testing"

	"github.com/pthm-cable/vehicles/config"
	"github.com/pthm-cable/vehicles/game"
)

func newHeadlessSim(t *testing.T) *game.Simulation {
	t.Helper()
	sim, err := game.New(config.Default(), game.Options{Seed: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { sim.Close() })
	return sim
}

func TestRunTicks(t *testing.T) {
	tests := []struct {
		name      string
		cancelled bool
		maxTicks  int
		wantLimit bool
		wantTick  int32
	}{
		{"stops at limit", false, 25, true, 25},
		{"cancelled before start", true, 25, false, 0},
		{"cancelled without limit", true, 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newHeadlessSim(t)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancelled {
				cancel()
			}

			if got := runTicks(ctx, sim, tt.maxTicks); got != tt.wantLimit {
				t.Errorf("runTicks hit limit = %v, want %v", got, tt.wantLimit)
			}
			if sim.Tick() != tt.wantTick {
				t.Errorf("tick = %d, want %d", sim.Tick(), tt.wantTick)
			}
		})
	}
}
