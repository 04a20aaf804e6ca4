// Package physics wraps the Box2D rigid-body world: arena walls, four-wheel
// vehicles and a queue of chassis contacts drained once per tick.
package physics

import (
	"github.com/ByteArena/box2d"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vehicles/config"
)

// Collision is a begin-contact between two chassis, identified by vehicle id.
type Collision struct {
	A, B uint32
}

// Segment is a straight wall face used by sensor boundary tests.
type Segment struct {
	A, B r2.Vec
}

// World owns the Box2D world, the arena walls and the contact queue.
type World struct {
	b2       box2d.B2World
	contacts *contactQueue
	walls    []*box2d.B2Body
	segments [4]Segment

	timeStep           float64
	velocityIterations int
	positionIterations int
}

// NewWorld builds a zero-gravity world with four static walls whose inner
// faces lie on the arena bounds.
func NewWorld(cfg *config.Config) *World {
	w := &World{
		b2:                 box2d.MakeB2World(box2d.MakeB2Vec2(0, 0)),
		contacts:           &contactQueue{},
		timeStep:           cfg.Physics.TimeStep,
		velocityIterations: cfg.Physics.VelocityIterations,
		positionIterations: cfg.Physics.PositionIterations,
	}
	w.b2.SetContactListener(w.contacts)

	hw, hh := cfg.Arena.HalfWidth, cfg.Arena.HalfHeight
	t := cfg.Arena.WallThickness
	w.walls = []*box2d.B2Body{
		w.createWall(-hw-t, 0, t, hh+2*t),
		w.createWall(hw+t, 0, t, hh+2*t),
		w.createWall(0, -hh-t, hw+2*t, t),
		w.createWall(0, hh+t, hw+2*t, t),
	}

	b := cfg.Derived.Bounds
	bl := r2.Vec{X: b.Min.X(), Y: b.Min.Y()}
	br := r2.Vec{X: b.Max.X(), Y: b.Min.Y()}
	tr := r2.Vec{X: b.Max.X(), Y: b.Max.Y()}
	tl := r2.Vec{X: b.Min.X(), Y: b.Max.Y()}
	w.segments = [4]Segment{{tl, bl}, {br, tr}, {bl, br}, {tr, tl}}

	return w
}

func (w *World) createWall(x, y, halfW, halfH float64) *box2d.B2Body {
	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_staticBody
	bodydef.Position.Set(x, y)

	body := w.b2.CreateBody(&bodydef)

	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(halfW, halfH)
	fixture := body.CreateFixture(&shape, 10)

	filter := box2d.MakeB2Filter()
	filter.CategoryBits = CategoryBoundary
	filter.MaskBits = CategoryTyre | CategoryChassis
	filter.GroupIndex = 0
	fixture.SetFilterData(filter)

	return body
}

// CreateVehicle adds a vehicle at pos facing heading (radians).
func (w *World) CreateVehicle(id uint32, spec VehicleSpec, pos r2.Vec, heading float64) *Vehicle {
	return newVehicle(w, id, spec, pos, heading)
}

// Step advances the world by one fixed time step. Chassis contacts that
// begin during the step are queued for DrainCollisions.
func (w *World) Step() {
	w.b2.Step(w.timeStep, w.velocityIterations, w.positionIterations)
}

// TimeStep returns the fixed step in seconds.
func (w *World) TimeStep() float64 {
	return w.timeStep
}

// DrainCollisions returns the queued chassis contacts, each unordered pair
// once, and empties the queue.
func (w *World) DrainCollisions() []Collision {
	return w.contacts.drain()
}

// Walls returns the inner faces of the four walls.
func (w *World) Walls() [4]Segment {
	return w.segments
}

// BodyCount reports the number of bodies in the world, walls included.
func (w *World) BodyCount() int {
	return w.b2.GetBodyCount()
}

// Destroy removes the walls. Vehicles must be destroyed by their owners.
func (w *World) Destroy() {
	for _, body := range w.walls {
		w.b2.DestroyBody(body)
	}
	w.walls = nil
}

// contactQueue implements box2d.B2ContactListenerInterface.
type contactQueue struct {
	pending []Collision
}

func (q *contactQueue) BeginContact(contact box2d.B2ContactInterface) {
	fa, fb := contact.GetFixtureA(), contact.GetFixtureB()
	if fa.GetFilterData().CategoryBits != CategoryChassis || fb.GetFilterData().CategoryBits != CategoryChassis {
		return
	}

	a, okA := fa.GetUserData().(uint32)
	b, okB := fb.GetUserData().(uint32)
	if !okA || !okB {
		return
	}
	q.pending = append(q.pending, Collision{A: a, B: b})
}

func (q *contactQueue) EndContact(contact box2d.B2ContactInterface) {}

func (q *contactQueue) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {}

func (q *contactQueue) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {}

func (q *contactQueue) drain() []Collision {
	if len(q.pending) == 0 {
		return nil
	}

	seen := make(map[Collision]struct{}, len(q.pending))
	out := make([]Collision, 0, len(q.pending))
	for _, c := range q.pending {
		key := c
		if key.A > key.B {
			key.A, key.B = key.B, key.A
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	q.pending = q.pending[:0]
	return out
}
