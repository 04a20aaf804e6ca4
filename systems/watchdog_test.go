package systems

import (
	"testing"

	"github.com/pthm-cable/vehicles/config"
)

func TestWatchdogTripsStrictlyAfterLimit(t *testing.T) {
	cfg := config.Cfg()
	limit := cfg.Derived.StagnationTicks
	w := NewWatchdog(cfg.Watchdog.Threshold, limit)

	for i := 1; i <= limit; i++ {
		if w.Observe(0) {
			t.Fatalf("tripped at stagnant tick %d, limit %d", i, limit)
		}
	}
	if w.Stagnant() != limit {
		t.Fatalf("stagnant = %d, want %d", w.Stagnant(), limit)
	}

	if !w.Observe(0) {
		t.Fatal("should trip one tick past the limit")
	}
	if w.Stagnant() != 0 {
		t.Errorf("counter not cleared after trip: %d", w.Stagnant())
	}
}

func TestWatchdogMovementResets(t *testing.T) {
	w := NewWatchdog(0.1, 5)

	for i := 0; i < 5; i++ {
		w.Observe(0.05)
	}
	if w.Observe(0.1) {
		t.Fatal("movement at the threshold must not trip")
	}
	if w.Stagnant() != 0 {
		t.Errorf("stagnant = %d after movement, want 0", w.Stagnant())
	}

	for i := 0; i < 5; i++ {
		if w.Observe(0) {
			t.Fatalf("tripped early at %d", i)
		}
	}
	w.Reset()
	if w.Observe(0) {
		t.Error("should not trip right after Reset")
	}
}
