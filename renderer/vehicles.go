package renderer

import (
	"cmp"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/game"
	"github.com/pthm-cable/vehicles/physics"
)

// VehicleRenderer draws hulls, tyres and sensor cones.
type VehicleRenderer struct {
	InitialEnergy float64
	Tyre          rl.Color
	Outline       rl.Color
	SensorFill    rl.Color
	SensorEdge    rl.Color
	TyreScale     float64 // tyres are tiny; scale them up for visibility

	order []int
}

// NewVehicleRenderer creates a vehicle renderer with the default palette.
func NewVehicleRenderer(initialEnergy float64) *VehicleRenderer {
	return &VehicleRenderer{
		InitialEnergy: initialEnergy,
		Tyre:          rl.Color{R: 30, G: 30, B: 30, A: 255},
		Outline:       rl.Color{R: 240, G: 240, B: 240, A: 200},
		SensorFill:    rl.Color{R: 255, G: 230, B: 120, A: 28},
		SensorEdge:    rl.Color{R: 255, G: 230, B: 120, A: 90},
		TyreScale:     4,
	}
}

// Draw renders every agent of the snapshot, lowest layer first.
// Call inside BeginMode2D.
func (r *VehicleRenderer) Draw(snap *game.Snapshot) {
	order := r.drawOrder(snap.Agents)
	if snap.ShowSensors {
		for _, i := range order {
			r.drawSensors(&snap.Agents[i].Sensors)
		}
	}
	for _, i := range order {
		r.drawAgent(&snap.Agents[i], snap.ShowOutlines)
	}
}

// drawOrder returns agent indices sorted by layer. Equal layers keep
// snapshot order.
func (r *VehicleRenderer) drawOrder(agents []game.AgentView) []int {
	r.order = r.order[:0]
	for i := range agents {
		r.order = append(r.order, i)
	}
	slices.SortStableFunc(r.order, func(a, b int) int {
		return cmp.Compare(agents[a].Layer, agents[b].Layer)
	})
	return r.order
}

func (r *VehicleRenderer) drawAgent(a *game.AgentView, outlines bool) {
	for _, w := range a.Wheels {
		size := a.TyreHalfSize * r.TyreScale
		corners := boxCorners(w.Position, size/2, size, w.Angle)
		fillQuad(corners, r.Tyre)
	}

	angle := physics.ChassisAngle(a.Heading)
	hull := boxCorners(a.Position, a.HullHalfWidth, a.HullHalfHeight, angle)
	fillQuad(hull, shade(a.Colour, a.Energy, r.InitialEnergy))

	// Nose marker on the leading edge
	nose := r2.Scale(0.5, r2.Add(hull[2], hull[3]))
	rl.DrawLineEx(vec(a.Position), vec(nose), 1.5, toColor(a.Colour))

	if outlines {
		if a.Motion != (r2.Vec{}) {
			tip := r2.Add(a.Position, r2.Scale(2*a.HullHalfHeight, a.Motion))
			rl.DrawLineV(vec(a.Position), vec(tip), r.Outline)
		}
		outlineQuad(hull, r.Outline)
		for _, w := range a.Wheels {
			size := a.TyreHalfSize * r.TyreScale
			outlineQuad(boxCorners(w.Position, size/2, size, w.Angle), r.Outline)
		}
	}
}

func (r *VehicleRenderer) drawSensors(s *components.Sensors) {
	for _, tri := range []components.Triangle{s.Left, s.Right} {
		a, b, c := vec(tri.Apex), vec(tri.Left), vec(tri.Right)
		// One of the two windings is back-face culled
		rl.DrawTriangle(a, b, c, r.SensorFill)
		rl.DrawTriangle(a, c, b, r.SensorFill)
		rl.DrawTriangleLines(a, b, c, r.SensorEdge)
	}
}

func fillQuad(c [4]r2.Vec, color rl.Color) {
	a, b, cc, d := vec(c[0]), vec(c[1]), vec(c[2]), vec(c[3])
	rl.DrawTriangle(a, b, cc, color)
	rl.DrawTriangle(a, cc, b, color)
	rl.DrawTriangle(a, cc, d, color)
	rl.DrawTriangle(a, d, cc, color)
}

func outlineQuad(c [4]r2.Vec, color rl.Color) {
	for i := range c {
		rl.DrawLineV(vec(c[i]), vec(c[(i+1)%len(c)]), color)
	}
}
