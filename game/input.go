package game

import "github.com/pthm-cable/vehicles/components"

// Input holds the toggles collected by a front end since the last tick.
type Input struct {
	ToggleRunning  bool
	ToggleSensors  bool
	ToggleOutlines bool
	AddAgent       bool
	RemoveAgent    bool
}

// Apply processes front-end toggles. Adding spawns whichever role is in the
// minority (predator on a tie); removing removes the newest agent.
func (s *Simulation) Apply(in Input) {
	if in.ToggleRunning {
		s.running = !s.running
	}
	if in.ToggleSensors {
		s.showSensors = !s.showSensors
	}
	if in.ToggleOutlines {
		s.showOutlines = !s.showOutlines
	}

	if in.AddAgent {
		role := components.RolePredator
		if s.numPrey < s.numPred {
			role = components.RolePrey
		}
		s.Spawn(role)
	}

	if in.RemoveAgent && len(s.ids) > 0 {
		s.Remove(s.ids[len(s.ids)-1])
	}
}
