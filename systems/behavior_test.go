package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/config"
)

func TestNearest(t *testing.T) {
	boundary := Event{Kind: TargetBoundary, Mask: SensorLeft}
	near := Event{Kind: TargetAgent, TargetID: 3, Distance: 20, Mask: SensorRight}
	tie := Event{Kind: TargetAgent, TargetID: 7, Distance: 20, Mask: SensorLeft}
	far := Event{Kind: TargetAgent, TargetID: 2, Distance: 80, Mask: SensorBoth}

	tests := []struct {
		name   string
		events []Event
		want   Event
		wantOK bool
	}{
		{"none", nil, Event{}, false},
		{"boundary only", []Event{boundary}, boundary, true},
		{"agent beats boundary", []Event{far, boundary}, far, true},
		{"closest agent", []Event{far, near}, near, true},
		{"first minimum wins", []Event{near, tie, boundary}, near, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Nearest(tc.events)
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("Nearest = (%+v, %v), want (%+v, %v)", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestDecideMapping(t *testing.T) {
	p := BehaviorParams{Speed: 100, TurnAngle: 70 * math.Pi / 180}
	turn := p.TurnAngle

	agent := func(role components.Role, mask SensorMask) []Event {
		return []Event{{Kind: TargetAgent, Role: role, TargetID: 9, Distance: 10, Mask: mask}}
	}
	wall := []Event{{Kind: TargetBoundary, Mask: SensorBoth}}

	tests := []struct {
		name   string
		role   components.Role
		events []Event
		want   components.Control
	}{
		{"predator prey both", components.RolePredator, agent(components.RolePrey, SensorBoth), components.Control{DesiredSpeed: 100}},
		{"predator prey left", components.RolePredator, agent(components.RolePrey, SensorLeft), components.Control{DesiredSpeed: 100, DesiredAngle: -turn}},
		{"predator prey right", components.RolePredator, agent(components.RolePrey, SensorRight), components.Control{DesiredSpeed: 100, DesiredAngle: turn}},
		{"predator sees wall", components.RolePredator, wall, components.Control{}},
		{"predator sees predator", components.RolePredator, agent(components.RolePredator, SensorBoth), components.Control{}},
		{"prey predator both", components.RolePrey, agent(components.RolePredator, SensorBoth), components.Control{DesiredSpeed: -100}},
		{"prey predator left", components.RolePrey, agent(components.RolePredator, SensorLeft), components.Control{DesiredSpeed: -100, DesiredAngle: turn}},
		{"prey predator right", components.RolePrey, agent(components.RolePredator, SensorRight), components.Control{DesiredSpeed: -100, DesiredAngle: -turn}},
		{"prey sees wall", components.RolePrey, wall, components.Control{}},
		{"prey no events", components.RolePrey, nil, components.Control{}},
		{"predator no events", components.RolePredator, nil, components.Control{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.role, tc.events, p); got != tc.want {
				t.Errorf("Decide = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestDecideEndToEnd(t *testing.T) {
	cfg := config.Cfg()
	observers := []Observer{
		observer(1, components.RolePredator, r2.Vec{}, 0),
		observer(2, components.RolePrey, r2.Vec{X: 60, Y: -25}, math.Pi),
	}
	events := Detect(observers, arenaWalls(cfg.Arena.HalfWidth, cfg.Arena.HalfHeight), defaultHitbox())
	p := BehaviorParamsFrom(cfg)

	pred := Decide(components.RolePredator, events[0], p)
	if pred.DesiredSpeed != 100 || pred.DesiredAngle >= 0 {
		t.Errorf("predator control = %+v, want speed 100 and a negative angle", pred)
	}
	if math.Abs(pred.DesiredAngle+70*math.Pi/180) > eps {
		t.Errorf("predator angle = %v, want -70 degrees", pred.DesiredAngle)
	}

	prey := Decide(components.RolePrey, events[1], p)
	if prey.DesiredSpeed != -100 {
		t.Errorf("prey control = %+v, want speed -100", prey)
	}
}
