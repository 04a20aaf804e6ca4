package physics

import (
	"math"

	"github.com/ByteArena/box2d"
)

// Collision filter categories. Only chassis-vs-chassis contacts are reported.
const (
	CategoryTyre     uint16 = 0x1
	CategoryChassis  uint16 = 0x2
	CategoryBoundary uint16 = 0x4
)

// TyreSpec holds the drive characteristics of one tyre.
type TyreSpec struct {
	MaxForwardSpeed   float64
	MaxBackwardSpeed  float64 // negative
	MaxDriveForce     float64
	MaxLateralImpulse float64
}

// Tyre is a wheel contact point: a small dynamic body jointed to the chassis.
type Tyre struct {
	TyreSpec
	body *box2d.B2Body
}

func newTyre(world *box2d.B2World, spec TyreSpec, halfSize, density float64, pos box2d.B2Vec2, angle float64) *Tyre {
	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_dynamicBody
	bodydef.Position = pos
	bodydef.Angle = angle

	body := world.CreateBody(&bodydef)

	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(halfSize, halfSize)
	fixture := body.CreateFixture(&shape, density)

	filter := box2d.MakeB2Filter()
	filter.CategoryBits = CategoryTyre
	filter.MaskBits = CategoryBoundary
	filter.GroupIndex = 0
	fixture.SetFilterData(filter)

	t := &Tyre{TyreSpec: spec, body: body}
	body.SetUserData(t)
	return t
}

// forwardNormal is the tyre's local +y axis in world space.
func (t *Tyre) forwardNormal() box2d.B2Vec2 {
	return t.body.GetWorldVector(box2d.MakeB2Vec2(0, 1))
}

// LateralVelocity is the velocity component along the tyre's local +x axis.
func (t *Tyre) LateralVelocity() box2d.B2Vec2 {
	right := t.body.GetWorldVector(box2d.MakeB2Vec2(1, 0))
	return box2d.B2Vec2MulScalar(box2d.B2Vec2Dot(right, t.body.GetLinearVelocity()), right)
}

// ForwardVelocity is the velocity component along the tyre's rolling direction.
func (t *Tyre) ForwardVelocity() box2d.B2Vec2 {
	forward := t.forwardNormal()
	return box2d.B2Vec2MulScalar(box2d.B2Vec2Dot(forward, t.body.GetLinearVelocity()), forward)
}

// ForwardSpeed is the signed speed along the rolling direction.
func (t *Tyre) ForwardSpeed() float64 {
	return box2d.B2Vec2Dot(t.forwardNormal(), t.body.GetLinearVelocity())
}

// ApplyFriction kills sideways slip up to the lateral impulse limit, damps
// spin, and applies rolling drag.
func (t *Tyre) ApplyFriction() {
	lateral := t.LateralVelocity()
	mass := t.body.GetMass()
	ix, iy := ClampMagnitude(-mass*lateral.X, -mass*lateral.Y, t.MaxLateralImpulse)
	center := t.body.GetWorldCenter()
	t.body.ApplyLinearImpulse(box2d.MakeB2Vec2(ix, iy), center, true)
	t.body.ApplyAngularImpulse(0.1*t.body.GetInertia()*-t.body.GetAngularVelocity(), true)

	forward := t.ForwardVelocity()
	speed := forward.Normalize()
	drag := -2 * speed
	t.body.ApplyForce(box2d.B2Vec2MulScalar(drag, forward), t.body.GetWorldCenter(), true)
}

// ApplyDrive pushes the tyre towards desiredSpeed with its full drive force.
func (t *Tyre) ApplyDrive(desiredSpeed float64) {
	force, ok := DriveForce(desiredSpeed, t.ForwardSpeed(), t.TyreSpec)
	if !ok {
		return
	}
	t.body.ApplyForce(box2d.B2Vec2MulScalar(force, t.forwardNormal()), t.body.GetWorldCenter(), true)
}

// Pose returns the tyre's world position and angle.
func (t *Tyre) Pose() Pose {
	return poseOf(t.body)
}

// DriveForce decides the longitudinal force for one tyre. desired is clamped
// to [MaxBackwardSpeed, MaxForwardSpeed]. Exact equality with current speed
// yields no force (ok == false).
func DriveForce(desired, current float64, spec TyreSpec) (force float64, ok bool) {
	if desired > spec.MaxForwardSpeed {
		desired = spec.MaxForwardSpeed
	} else if desired < spec.MaxBackwardSpeed {
		desired = spec.MaxBackwardSpeed
	}

	switch {
	case desired > current:
		return spec.MaxDriveForce, true
	case desired < current:
		return -spec.MaxDriveForce, true
	default:
		return 0, false
	}
}

// ClampMagnitude scales (x, y) down so its length does not exceed max.
func ClampMagnitude(x, y, max float64) (float64, float64) {
	l := math.Hypot(x, y)
	if l <= max || l == 0 {
		return x, y
	}
	s := max / l
	return x * s, y * s
}
