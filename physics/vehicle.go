package physics

import (
	"math"
	"math/rand"

	"github.com/ByteArena/box2d"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vehicles/config"
)

// NumTyres is the fixed tyre count of every vehicle.
const NumTyres = 4

// Tyre slots.
const (
	BackLeft = iota
	BackRight
	FrontLeft
	FrontRight
)

// tyreAnchors are chassis-local joint anchors, indexed by tyre slot.
var tyreAnchors = [NumTyres]box2d.B2Vec2{
	BackLeft:   {X: -13, Y: 0.75},
	BackRight:  {X: 13, Y: 0.75},
	FrontLeft:  {X: -13, Y: 8.5},
	FrontRight: {X: 13, Y: 8.5},
}

// Pose is a rigid-body position and rotation.
type Pose struct {
	Position r2.Vec
	Angle    float64 // radians
}

func poseOf(b *box2d.B2Body) Pose {
	p := b.GetPosition()
	return Pose{Position: r2.Vec{X: p.X, Y: p.Y}, Angle: b.GetAngle()}
}

// VehicleSpec holds everything needed to build a vehicle.
type VehicleSpec struct {
	HullHalfWidth  float64
	HullHalfHeight float64
	HullDensity    float64
	AngularDamping float64
	TyreHalfSize   float64
	TyreDensity    float64
	Back           TyreSpec
	Front          TyreSpec
	SteerStep      float64 // max steering change per update, radians
}

// RandomVehicleSpec draws tyre characteristics from the configured ranges.
// Forward and backward speed are shared by all four tyres; drive force and
// lateral impulse are drawn separately for the front and back axle.
func RandomVehicleSpec(cfg *config.Config, rng *rand.Rand) VehicleSpec {
	vc := cfg.Vehicle
	forward := vc.ForwardSpeed.Sample(rng)
	backward := -vc.BackwardSpeed.Sample(rng)

	return VehicleSpec{
		HullHalfWidth:  vc.HullHalfWidth,
		HullHalfHeight: vc.HullHalfHeight,
		HullDensity:    vc.HullDensity,
		AngularDamping: vc.AngularDamping,
		TyreHalfSize:   vc.TyreHalfSize,
		TyreDensity:    vc.TyreDensity,
		Back: TyreSpec{
			MaxForwardSpeed:   forward,
			MaxBackwardSpeed:  backward,
			MaxDriveForce:     vc.DriveForce.Sample(rng),
			MaxLateralImpulse: vc.LateralImpulse.Sample(rng),
		},
		Front: TyreSpec{
			MaxForwardSpeed:   forward,
			MaxBackwardSpeed:  backward,
			MaxDriveForce:     vc.DriveForce.Sample(rng),
			MaxLateralImpulse: vc.LateralImpulse.Sample(rng),
		},
		SteerStep: cfg.Derived.MaxSteerStep,
	}
}

// Vehicle is a box chassis with four tyres; the front pair steers.
type Vehicle struct {
	ID   uint32
	Spec VehicleSpec

	chassis    *box2d.B2Body
	tyres      [NumTyres]*Tyre
	frontLeft  *box2d.B2RevoluteJoint
	frontRight *box2d.B2RevoluteJoint
	steer      float64
	world      *World
}

// Heading converts a chassis angle (forward = local +y) to a travel direction.
func Heading(angle float64) float64 {
	return angle + math.Pi/2
}

// ChassisAngle is the inverse of Heading.
func ChassisAngle(heading float64) float64 {
	return heading - math.Pi/2
}

func newVehicle(w *World, id uint32, spec VehicleSpec, pos r2.Vec, heading float64) *Vehicle {
	world := &w.b2
	angle := ChassisAngle(heading)

	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_dynamicBody
	bodydef.Position.Set(pos.X, pos.Y)
	bodydef.Angle = angle

	chassis := world.CreateBody(&bodydef)
	chassis.SetAngularDamping(spec.AngularDamping)

	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(spec.HullHalfWidth, spec.HullHalfHeight)
	fixture := chassis.CreateFixture(&shape, spec.HullDensity)
	fixture.SetUserData(id)

	filter := box2d.MakeB2Filter()
	filter.CategoryBits = CategoryChassis
	filter.MaskBits = CategoryChassis
	filter.GroupIndex = 0
	fixture.SetFilterData(filter)

	v := &Vehicle{ID: id, Spec: spec, chassis: chassis, world: w}
	chassis.SetUserData(v)

	sin, cos := math.Sincos(angle)
	for slot, anchor := range tyreAnchors {
		tspec := spec.Back
		if slot == FrontLeft || slot == FrontRight {
			tspec = spec.Front
		}

		// Place the tyre at its anchor so the joint starts satisfied
		at := box2d.MakeB2Vec2(
			pos.X+anchor.X*cos-anchor.Y*sin,
			pos.Y+anchor.X*sin+anchor.Y*cos,
		)
		tyre := newTyre(world, tspec, spec.TyreHalfSize, spec.TyreDensity, at, angle)
		v.tyres[slot] = tyre

		jointdef := box2d.MakeB2RevoluteJointDef()
		jointdef.BodyA = chassis
		jointdef.BodyB = tyre.body
		jointdef.EnableLimit = true
		jointdef.LowerAngle = 0
		jointdef.UpperAngle = 0
		jointdef.LocalAnchorA = anchor
		jointdef.LocalAnchorB = box2d.MakeB2Vec2(0, 0)

		joint := world.CreateJoint(&jointdef)
		switch slot {
		case FrontLeft:
			v.frontLeft = joint.(*box2d.B2RevoluteJoint)
		case FrontRight:
			v.frontRight = joint.(*box2d.B2RevoluteJoint)
		}
	}

	return v
}

// Update applies one tick of tyre friction, drive and rate-limited steering.
func (v *Vehicle) Update(desiredSpeed, desiredAngle float64) {
	for _, t := range v.tyres {
		t.ApplyFriction()
	}
	for _, t := range v.tyres {
		t.ApplyDrive(desiredSpeed)
	}

	v.steer = SteerStep(v.frontLeft.GetJointAngle(), desiredAngle, v.Spec.SteerStep)
	v.frontLeft.SetLimits(v.steer, v.steer)
	v.frontRight.SetLimits(v.steer, v.steer)
}

// SteerStep moves current towards desired by at most maxStep.
func SteerStep(current, desired, maxStep float64) float64 {
	turn := desired - current
	if turn > maxStep {
		turn = maxStep
	} else if turn < -maxStep {
		turn = -maxStep
	}
	return current + turn
}

// SteerAngle is the last commanded front-wheel angle.
func (v *Vehicle) SteerAngle() float64 {
	return v.steer
}

// Pose returns the chassis position and angle.
func (v *Vehicle) Pose() Pose {
	return poseOf(v.chassis)
}

// Heading returns the chassis travel direction in radians.
func (v *Vehicle) Heading() float64 {
	return Heading(v.chassis.GetAngle())
}

// ForwardSpeed is the chassis speed along its heading.
func (v *Vehicle) ForwardSpeed() float64 {
	forward := v.chassis.GetWorldVector(box2d.MakeB2Vec2(0, 1))
	return box2d.B2Vec2Dot(forward, v.chassis.GetLinearVelocity())
}

// TyrePoses returns the world pose of every tyre, indexed by slot.
func (v *Vehicle) TyrePoses() [NumTyres]Pose {
	var poses [NumTyres]Pose
	for i, t := range v.tyres {
		poses[i] = t.Pose()
	}
	return poses
}

// Destroy removes the chassis and tyres from the world. Joints go with them.
func (v *Vehicle) Destroy() {
	if v.chassis == nil {
		return
	}
	world := &v.world.b2
	for i, t := range v.tyres {
		world.DestroyBody(t.body)
		v.tyres[i] = nil
	}
	world.DestroyBody(v.chassis)
	v.chassis = nil
	v.frontLeft, v.frontRight = nil, nil
}
