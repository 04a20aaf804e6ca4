// Package components defines ECS components for the simulation.
//
// Every live agent is a single entity carrying all of the components below;
// they are created together and removed together.
package components

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vehicles/physics"
)

// Role determines behavior mapping and energy cost.
type Role uint8

const (
	RolePrey Role = iota
	RolePredator
)

// String returns the role name.
func (r Role) String() string {
	if r == RolePredator {
		return "predator"
	}
	return "prey"
}

// Opposite returns the other role.
func (r Role) Opposite() Role {
	if r == RolePredator {
		return RolePrey
	}
	return RolePredator
}

// Colour is an RGBA colour used by renderers.
type Colour struct {
	R, G, B, A uint8
}

// RoleColour returns the default colour for a role.
func RoleColour(r Role) Colour {
	if r == RolePredator {
		return Colour{R: 220, G: 70, B: 60, A: 255}
	}
	return Colour{R: 80, G: 180, B: 110, A: 255}
}

// Agent holds identity and role.
type Agent struct {
	ID        uint32 // Stable, never reused within a run
	Role      Role
	Colour    Colour
	SpawnTick int32
}

// Energy holds the agent's energy budget. Value may dip below zero for
// the remainder of a tick before the agent is removed.
type Energy struct {
	Value float64
}

// Control holds the behavior decision applied to the vehicle on the next tick.
type Control struct {
	DesiredSpeed float64
	DesiredAngle float64 // radians, front-wheel steering target
}

// Transform is the read-back of the chassis state after a physics step.
type Transform struct {
	Position     r2.Vec
	Heading      float64 // radians, direction of travel (cos, sin)
	Previous     r2.Vec  // Position at the previous read-back
	Displacement float64 // |Position - Previous|
	Motion       r2.Vec  // unit direction of Position - Previous, zero when stationary
	Wheels       [physics.NumTyres]physics.Pose
}

// Triangle is a sensor detection region.
type Triangle struct {
	Apex  r2.Vec
	Left  r2.Vec // first cone edge point
	Right r2.Vec // second cone edge point
}

// Sensors holds the last computed cones.
type Sensors struct {
	Left  Triangle
	Right Triangle
}

// Chassis links the agent to its rigid-body vehicle.
type Chassis struct {
	Vehicle *physics.Vehicle
}
