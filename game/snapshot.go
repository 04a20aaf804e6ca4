package game

import (
	"slices"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/physics"
)

// AgentView is the read-only state of one agent handed to renderers.
type AgentView struct {
	ID       uint32
	Role     components.Role
	Colour   components.Colour
	Energy   float64
	Position r2.Vec
	Heading  float64 // radians
	Motion   r2.Vec  // unit direction of the last tick's movement
	Control  components.Control

	HullHalfWidth  float64
	HullHalfHeight float64
	TyreHalfSize   float64
	Wheels         [physics.NumTyres]physics.Pose

	Sensors components.Sensors
	Layer   int // draw order, higher on top; has no effect on behavior
}

// Snapshot is the complete render state after a tick.
type Snapshot struct {
	Agents []AgentView

	Population int
	Predators  int
	Prey       int
	Generation int
	Tick       int32

	Running      bool
	ShowSensors  bool
	ShowOutlines bool

	Bounds orb.Bound
	Walls  [4]physics.Segment
}

// Snapshot copies the current state. Agents are in ascending id order.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Agents:       make([]AgentView, 0, len(s.ids)),
		Population:   len(s.ids),
		Predators:    s.numPred,
		Prey:         s.numPrey,
		Generation:   s.generation,
		Tick:         s.tick,
		Running:      s.running,
		ShowSensors:  s.showSensors,
		ShowOutlines: s.showOutlines,
		Bounds:       s.cfg.Derived.Bounds,
		Walls:        s.physics.Walls(),
	}

	for layer, id := range s.ids {
		snap.Agents = append(snap.Agents, s.view(id, layer))
	}
	return snap
}

// Agent returns the view of a single live agent.
func (s *Simulation) Agent(id uint32) (AgentView, error) {
	layer, found := slices.BinarySearch(s.ids, id)
	if !found {
		return AgentView{}, wrapNotFound(id)
	}
	return s.view(id, layer), nil
}

func (s *Simulation) view(id uint32, layer int) AgentView {
	agent, energy, control, transform, sensors, chassis := s.agentMapper.Get(s.index[id])
	spec := chassis.Vehicle.Spec

	return AgentView{
		ID:             agent.ID,
		Role:           agent.Role,
		Colour:         agent.Colour,
		Energy:         energy.Value,
		Position:       transform.Position,
		Heading:        transform.Heading,
		Motion:         transform.Motion,
		Control:        *control,
		HullHalfWidth:  spec.HullHalfWidth,
		HullHalfHeight: spec.HullHalfHeight,
		TyreHalfSize:   spec.TyreHalfSize,
		Wheels:         transform.Wheels,
		Sensors:        *sensors,
		Layer:          layer,
	}
}
