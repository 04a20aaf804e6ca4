package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/physics"
	"github.com/pthm-cable/vehicles/systems"
)

// ErrAgentNotFound is returned when an id does not name a live agent.
var ErrAgentNotFound = errors.New("agent not found")

func wrapNotFound(id uint32) error {
	return fmt.Errorf("agent %d: %w", id, ErrAgentNotFound)
}

// RespawnPolicy picks the role of the replacement for a removed agent.
type RespawnPolicy func(removed components.Role) components.Role

// RespawnOpposite replaces an agent with one of the other role.
func RespawnOpposite(removed components.Role) components.Role {
	return removed.Opposite()
}

// RespawnSame replaces an agent with one of the same role.
func RespawnSame(removed components.Role) components.Role {
	return removed
}

// PolicyByName resolves a configured policy name.
func PolicyByName(name string) (RespawnPolicy, error) {
	switch name {
	case "", "opposite":
		return RespawnOpposite, nil
	case "same":
		return RespawnSame, nil
	default:
		return nil, fmt.Errorf("unknown respawn policy %q", name)
	}
}

// Spawn adds an agent of the given role at a random position and heading
// inside the spawn area and returns its id.
func (s *Simulation) Spawn(role components.Role) uint32 {
	b := s.cfg.Derived.SpawnBounds
	pos := r2.Vec{
		X: b.Min.X() + s.rng.Float64()*(b.Max.X()-b.Min.X()),
		Y: b.Min.Y() + s.rng.Float64()*(b.Max.Y()-b.Min.Y()),
	}
	heading := s.rng.Float64() * 2 * math.Pi
	return s.SpawnAt(role, pos, heading)
}

// SpawnAt adds an agent of the given role at pos facing heading (radians)
// with random tyre characteristics, and returns its id. Sensors are computed
// immediately; control starts idle.
func (s *Simulation) SpawnAt(role components.Role, pos r2.Vec, heading float64) uint32 {
	id := s.nextID
	s.nextID++

	spec := physics.RandomVehicleSpec(s.cfg, s.rng)
	vehicle := s.physics.CreateVehicle(id, spec, pos, heading)

	agent := components.Agent{ID: id, Role: role, Colour: components.RoleColour(role), SpawnTick: s.tick}
	energy := components.Energy{Value: s.cfg.Energy.Initial}
	control := components.Control{}
	transform := components.Transform{
		Position: pos,
		Heading:  heading,
		Previous: pos,
		Wheels:   vehicle.TyrePoses(),
	}
	sensors := systems.ComputeSensors(pos, heading, s.sensorParams)
	chassis := components.Chassis{Vehicle: vehicle}

	entity := s.agentMapper.NewEntity(&agent, &energy, &control, &transform, &sensors, &chassis)
	s.index[id] = entity
	s.ids = append(s.ids, id)

	if role == components.RolePrey {
		s.numPrey++
	} else {
		s.numPred++
	}
	s.collector.RecordSpawn(role)
	s.lifetimes.Register(id, role, s.tick, energy.Value)

	return id
}

// Remove deletes the agent with the given id together with its vehicle.
// No replacement is spawned.
func (s *Simulation) Remove(id uint32) error {
	return s.remove(id, "removed")
}

// remove deletes an agent and closes its lifetime record with reason.
func (s *Simulation) remove(id uint32, reason string) error {
	entity, ok := s.index[id]
	if !ok {
		return wrapNotFound(id)
	}

	agent, _, _, _, _, chassis := s.agentMapper.Get(entity)
	if agent.Role == components.RolePrey {
		s.numPrey--
	} else {
		s.numPred--
	}
	chassis.Vehicle.Destroy()

	s.world.RemoveEntity(entity)
	delete(s.index, id)
	if i, found := slices.BinarySearch(s.ids, id); found {
		s.ids = slices.Delete(s.ids, i, i+1)
	}

	if record, ok := s.lifetimes.Remove(id, s.tick, reason); ok {
		s.collector.RecordLifetime(record)
		slog.Debug("agent_lifetime", "agent", record)
	}
	return nil
}

// Respawn spawns the replacement the current policy picks for an agent of
// the removed role.
func (s *Simulation) Respawn(removed components.Role) uint32 {
	role := s.policy(removed)
	if role != removed {
		s.collector.RecordRoleSwap()
	}
	return s.Spawn(role)
}

// Reset removes every agent, increments the generation and respawns the
// same number of agents with alternating roles, predator first.
func (s *Simulation) Reset() {
	n := len(s.ids)
	s.removeAll("reset")
	s.generation++
	s.watchdog.Reset()
	s.spawnAlternating(n)
	s.collector.RecordReset()

	slog.Info("population_reset",
		"generation", s.generation,
		"population", n,
		"tick", s.tick,
	)
}

func (s *Simulation) spawnAlternating(n int) {
	for i := 0; i < n; i++ {
		role := components.RolePredator
		if i%2 == 1 {
			role = components.RolePrey
		}
		s.Spawn(role)
	}
}

func (s *Simulation) removeAll(reason string) {
	for len(s.ids) > 0 {
		// Remove from the back so the id slice shrinks without shifting
		s.remove(s.ids[len(s.ids)-1], reason)
	}
}

// role returns the role of a live agent.
func (s *Simulation) role(id uint32) (components.Role, bool) {
	entity, ok := s.index[id]
	if !ok {
		return 0, false
	}
	agent, _, _, _, _, _ := s.agentMapper.Get(entity)
	return agent.Role, true
}

// removal records why an agent left the population.
type removal struct {
	id     uint32
	role   components.Role
	reason string
}

// updateLifecycle resolves this tick's captures and energy decay, removes
// and replaces agents, and runs the stagnation watchdog.
func (s *Simulation) updateLifecycle() {
	removed := s.resolveCaptures(s.physics.DrainCollisions())

	maxDisplacement := s.updateEnergy()

	removed = append(removed, s.removeDepleted()...)

	for _, r := range removed {
		replacement := s.Respawn(r.role)
		slog.Debug(r.reason,
			"id", r.id,
			"role", r.role.String(),
			"replacement", replacement,
			"tick", s.tick,
		)
	}

	if len(s.ids) > 0 && s.watchdog.Observe(maxDisplacement) {
		s.Reset()
	}
}

// resolveCaptures removes the prey of each predator/prey chassis contact and
// restores the predator's energy.
func (s *Simulation) resolveCaptures(collisions []physics.Collision) []removal {
	var removed []removal

	for _, c := range collisions {
		roleA, okA := s.role(c.A)
		roleB, okB := s.role(c.B)
		if !okA || !okB || roleA == roleB {
			continue
		}

		predator, prey := c.A, c.B
		if roleA == components.RolePrey {
			predator, prey = c.B, c.A
		}

		_, energy, _, _, _, _ := s.agentMapper.Get(s.index[predator])
		energy.Value = s.cfg.Energy.Initial
		s.lifetimes.RecordCapture(predator)

		if err := s.remove(prey, "captured"); err != nil {
			slog.Warn("capture of missing prey", "error", err)
			continue
		}
		s.collector.RecordCapture()
		removed = append(removed, removal{id: prey, role: components.RolePrey, reason: "agent_captured"})
	}
	return removed
}

// updateEnergy applies one tick of energy decay to every agent, measuring
// displacement against the last read-back position. It returns the largest
// displacement seen, or 0 for an empty population.
func (s *Simulation) updateEnergy() float64 {
	var maxDisplacement float64

	query := s.agentFilter.Query()
	for query.Next() {
		agent, energy, _, transform, _, chassis := query.Get()

		pos := chassis.Vehicle.Pose().Position
		d := r2.Norm(r2.Sub(pos, transform.Position))
		if d > maxDisplacement {
			maxDisplacement = d
		}
		systems.UpdateEnergy(energy, agent.Role, d, s.cfg.Energy)
		s.lifetimes.RecordMovement(agent.ID, d, energy.Value)
	}
	return maxDisplacement
}

// removeDepleted removes agents whose energy fell below zero, in ascending
// id order.
func (s *Simulation) removeDepleted() []removal {
	var removed []removal

	for _, id := range s.ids {
		agent, energy, _, _, _, _ := s.agentMapper.Get(s.index[id])
		if energy.Value < 0 {
			removed = append(removed, removal{id: id, role: agent.Role, reason: "agent_starved"})
		}
	}

	for _, r := range removed {
		s.remove(r.id, "starved")
		s.collector.RecordStarved(r.role)
	}
	return removed
}
