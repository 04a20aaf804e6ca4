package systems

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/config"
	"github.com/pthm-cable/vehicles/physics"
)

func arenaWalls(hw, hh float64) [4]physics.Segment {
	bl := r2.Vec{X: -hw, Y: -hh}
	br := r2.Vec{X: hw, Y: -hh}
	tr := r2.Vec{X: hw, Y: hh}
	tl := r2.Vec{X: -hw, Y: hh}
	return [4]physics.Segment{{A: tl, B: bl}, {A: br, B: tr}, {A: bl, B: br}, {A: tr, B: tl}}
}

func observer(id uint32, role components.Role, pos r2.Vec, heading float64) Observer {
	return Observer{
		ID:       id,
		Role:     role,
		Position: pos,
		Sensors:  ComputeSensors(pos, heading, SensorParamsFrom(config.Cfg())),
	}
}

func defaultHitbox() r2.Vec {
	cfg := config.Cfg()
	return r2.Vec{X: cfg.Sensors.HitboxHalfWidth, Y: cfg.Sensors.HitboxHalfHeight}
}

func TestDetectEmptyPopulation(t *testing.T) {
	events := Detect(nil, arenaWalls(390, 390), defaultHitbox())
	if len(events) != 0 {
		t.Errorf("got %d event lists for empty population", len(events))
	}
}

func TestDetectPredatorSeesPreyOnLeft(t *testing.T) {
	observers := []Observer{
		observer(1, components.RolePredator, r2.Vec{}, 0),
		observer(2, components.RolePrey, r2.Vec{X: 60, Y: -25}, math.Pi),
	}

	events := Detect(observers, arenaWalls(390, 390), defaultHitbox())

	if len(events[0]) != 1 {
		t.Fatalf("predator events = %v, want one", events[0])
	}
	e := events[0][0]
	if e.Kind != TargetAgent || e.Role != components.RolePrey || e.TargetID != 2 {
		t.Errorf("unexpected predator event %+v", e)
	}
	if e.Mask != SensorLeft {
		t.Errorf("predator mask = %v, want left", e.Mask)
	}
	if math.Abs(e.Distance-65) > eps {
		t.Errorf("distance = %v, want 65", e.Distance)
	}

	if len(events[1]) != 1 {
		t.Fatalf("prey events = %v, want one", events[1])
	}
	if e := events[1][0]; e.TargetID != 1 || e.Role != components.RolePredator || e.Mask != SensorLeft {
		t.Errorf("unexpected prey event %+v", e)
	}
}

func TestDetectIgnoresSameRole(t *testing.T) {
	observers := []Observer{
		observer(1, components.RolePredator, r2.Vec{}, 0),
		observer(2, components.RolePredator, r2.Vec{X: 50, Y: 0}, 0),
		observer(3, components.RolePrey, r2.Vec{X: -100, Y: 0}, 0),
		observer(4, components.RolePrey, r2.Vec{X: -60, Y: 0}, 0),
	}

	events := Detect(observers, arenaWalls(390, 390), defaultHitbox())
	for i, list := range events {
		for _, e := range list {
			if e.Kind == TargetAgent && e.Role == observers[i].Role {
				t.Errorf("agent %d detected same-role agent %d", observers[i].ID, e.TargetID)
			}
		}
	}
}

func TestDetectHitboxCornerOnly(t *testing.T) {
	// Target centre is outside both cones but one hit-box corner is inside
	self := observer(1, components.RolePredator, r2.Vec{}, 0)
	params := SensorParamsFrom(config.Cfg())
	corner := r2.Scale(60, direction(params.Offset+params.ConeAngle/2-0.01))

	hb := defaultHitbox()
	target := r2.Vec{X: corner.X - hb.X, Y: corner.Y + hb.Y}
	if PointInTriangle(target, self.Sensors.Left) || PointInTriangle(target, self.Sensors.Right) {
		t.Fatalf("test setup: centre %v should be outside the cones", target)
	}

	observers := []Observer{self, observer(2, components.RolePrey, target, 0)}
	events := Detect(observers, arenaWalls(390, 390), hb)

	found := false
	for _, e := range events[0] {
		if e.Kind == TargetAgent && e.TargetID == 2 {
			found = true
			if e.Mask&SensorRight == 0 {
				t.Errorf("mask = %v, want right set", e.Mask)
			}
		}
	}
	if !found {
		t.Error("target with one corner inside the cone should be detected")
	}
}

func TestDetectBoundary(t *testing.T) {
	tests := []struct {
		name    string
		pos     r2.Vec
		heading float64
		want    SensorMask
	}{
		{"facing near wall", r2.Vec{X: 350, Y: 0}, 0, SensorBoth},
		{"centre of arena", r2.Vec{}, 0, SensorNone},
		{"wall on the left only", r2.Vec{X: 0, Y: -330}, 0, SensorLeft},
		{"wall on the right only", r2.Vec{X: 0, Y: 330}, 0, SensorRight},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			observers := []Observer{observer(1, components.RolePrey, tc.pos, tc.heading)}
			events := Detect(observers, arenaWalls(390, 390), defaultHitbox())

			var got SensorMask
			for _, e := range events[0] {
				if e.Kind != TargetBoundary {
					t.Errorf("unexpected event %+v", e)
					continue
				}
				if e.Distance != 0 {
					t.Errorf("boundary distance = %v, want 0", e.Distance)
				}
				got = e.Mask
			}
			if got != tc.want {
				t.Errorf("boundary mask = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDetectorReusesBuffers(t *testing.T) {
	d := NewDetector(arenaWalls(390, 390), defaultHitbox())
	observers := []Observer{
		observer(1, components.RolePredator, r2.Vec{}, 0),
		observer(2, components.RolePrey, r2.Vec{X: 60, Y: -25}, math.Pi),
	}

	first := d.Detect(observers)
	if len(first[0]) != 1 {
		t.Fatalf("first pass events = %v", first[0])
	}

	observers[1].Position = r2.Vec{X: -200, Y: 200}
	second := d.Detect(observers)
	if len(second[0]) != 0 {
		t.Errorf("stale events carried over: %v", second[0])
	}
}

func TestDetectParallelMatchesSequential(t *testing.T) {
	const n = 150
	rng := rand.New(rand.NewSource(3))

	observers := make([]Observer, n)
	for i := range observers {
		role := components.RolePrey
		if i%3 == 0 {
			role = components.RolePredator
		}
		pos := r2.Vec{X: rng.Float64()*700 - 350, Y: rng.Float64()*700 - 350}
		observers[i] = observer(uint32(i+1), role, pos, rng.Float64()*2*math.Pi)
	}

	walls := arenaWalls(390, 390)

	seq := NewDetector(walls, defaultHitbox())
	seq.Workers = 1
	want := seq.Detect(observers)

	par := NewDetector(walls, defaultHitbox())
	par.Workers = 4
	got := par.Detect(observers)

	if len(got) != len(want) {
		t.Fatalf("got %d event lists, want %d", len(got), len(want))
	}
	total := 0
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("observer %d: parallel events %v, sequential %v", i, got[i], want[i])
		}
		total += len(want[i])
	}
	if total == 0 {
		t.Fatal("no events generated; test population too sparse")
	}
}

func TestForEachChunkCoversRange(t *testing.T) {
	for _, tc := range []struct{ n, workers int }{{10, 3}, {5, 8}, {64, 4}, {1, 0}} {
		seen := make([]int, tc.n)
		forEachChunk(tc.n, tc.workers, func(start, end int) {
			for i := start; i < end; i++ {
				seen[i]++
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Errorf("n=%d workers=%d: index %d visited %d times", tc.n, tc.workers, i, c)
			}
		}
	}
}
