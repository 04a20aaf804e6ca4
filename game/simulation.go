package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/systems"
	"github.com/pthm-cable/vehicles/telemetry"
)

// Step advances the simulation by one fixed tick. It does nothing while
// paused. Controls decided in this tick are applied in the next one.
func (s *Simulation) Step() {
	if !s.running {
		return
	}

	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseVehicles)
	s.updateVehicles()

	s.perf.StartPhase(telemetry.PhasePhysics)
	s.physics.Step()

	s.perf.StartPhase(telemetry.PhaseLifecycle)
	s.updateLifecycle()

	s.perf.StartPhase(telemetry.PhaseTransforms)
	s.readTransforms()

	s.perf.StartPhase(telemetry.PhaseSensors)
	s.updateSensors()

	s.perf.StartPhase(telemetry.PhaseDetection)
	events := s.detect()

	s.perf.StartPhase(telemetry.PhaseBehavior)
	s.decide(events)

	s.tick++

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()

	s.perf.EndTick(len(s.ids))
}

// updateVehicles applies the previous tick's control to every vehicle.
func (s *Simulation) updateVehicles() {
	query := s.agentFilter.Query()
	for query.Next() {
		_, _, control, _, _, chassis := query.Get()
		chassis.Vehicle.Update(control.DesiredSpeed, control.DesiredAngle)
	}
}

// readTransforms copies chassis and tyre poses into the transform component.
func (s *Simulation) readTransforms() {
	query := s.agentFilter.Query()
	for query.Next() {
		_, _, _, transform, _, chassis := query.Get()

		v := chassis.Vehicle
		pos := v.Pose().Position

		transform.Previous = transform.Position
		transform.Position = pos
		transform.Heading = v.Heading()
		delta := r2.Sub(pos, transform.Previous)
		transform.Displacement = r2.Norm(delta)
		transform.Motion = systems.Normalize(delta)
		transform.Wheels = v.TyrePoses()
	}
}

// updateSensors recomputes both cones from the new transforms.
func (s *Simulation) updateSensors() {
	query := s.agentFilter.Query()
	for query.Next() {
		_, _, _, transform, sensors, _ := query.Get()
		*sensors = systems.ComputeSensors(transform.Position, transform.Heading, s.sensorParams)
	}
}

// detect runs the detection pass over all agents in ascending id order.
// The returned slices are indexed like s.entities.
func (s *Simulation) detect() [][]systems.Event {
	s.observers = s.observers[:0]
	s.entities = s.entities[:0]

	for _, id := range s.ids {
		entity := s.index[id]
		agent, _, _, transform, sensors, _ := s.agentMapper.Get(entity)
		s.observers = append(s.observers, systems.Observer{
			ID:       agent.ID,
			Role:     agent.Role,
			Position: transform.Position,
			Sensors:  *sensors,
		})
		s.entities = append(s.entities, entity)
	}

	return s.detector.Detect(s.observers)
}

// decide stores each agent's control for the next tick.
func (s *Simulation) decide(events [][]systems.Event) {
	boundary := 0
	for i, entity := range s.entities {
		agent, _, control, _, _, _ := s.agentMapper.Get(entity)
		*control = systems.Decide(agent.Role, events[i], s.behaviorParams)

		for _, e := range events[i] {
			if e.Kind == systems.TargetBoundary {
				boundary++
			}
		}
	}
	s.collector.RecordBoundaryEvents(boundary)
}

// Control returns the stored control decision of a live agent.
func (s *Simulation) Control(id uint32) (components.Control, error) {
	entity, ok := s.index[id]
	if !ok {
		return components.Control{}, wrapNotFound(id)
	}
	_, _, control, _, _, _ := s.agentMapper.Get(entity)
	return *control, nil
}
