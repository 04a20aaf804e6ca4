package systems

import (
	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/config"
)

// BehaviorParams holds the fixed reaction magnitudes.
type BehaviorParams struct {
	Speed     float64
	TurnAngle float64 // radians
}

// BehaviorParamsFrom reads reaction magnitudes from cfg.
func BehaviorParamsFrom(cfg *config.Config) BehaviorParams {
	return BehaviorParams{Speed: cfg.Behavior.Speed, TurnAngle: cfg.Derived.TurnAngle}
}

// Nearest picks the event to react to. Agent events always win over the
// boundary event; among agent events the first minimum distance wins.
func Nearest(events []Event) (Event, bool) {
	var (
		best     Event
		found    bool
		boundary Event
		walls    bool
	)
	for _, e := range events {
		if e.Kind == TargetBoundary {
			boundary, walls = e, true
			continue
		}
		if !found || e.Distance < best.Distance {
			best, found = e, true
		}
	}
	if found {
		return best, true
	}
	return boundary, walls
}

// Decide maps an agent's role and its nearest event to a control decision.
// Predators chase prey, prey reverse away from predators, anything else
// leaves the agent idle.
func Decide(role components.Role, events []Event, p BehaviorParams) components.Control {
	e, ok := Nearest(events)
	if !ok || e.Kind != TargetAgent {
		return components.Control{}
	}

	switch {
	case role == components.RolePredator && e.Role == components.RolePrey:
		return steer(p.Speed, e.Mask, -p.TurnAngle, p.TurnAngle)
	case role == components.RolePrey && e.Role == components.RolePredator:
		return steer(-p.Speed, e.Mask, p.TurnAngle, -p.TurnAngle)
	default:
		return components.Control{}
	}
}

func steer(speed float64, mask SensorMask, left, right float64) components.Control {
	switch mask {
	case SensorLeft:
		return components.Control{DesiredSpeed: speed, DesiredAngle: left}
	case SensorRight:
		return components.Control{DesiredSpeed: speed, DesiredAngle: right}
	default:
		return components.Control{DesiredSpeed: speed}
	}
}
