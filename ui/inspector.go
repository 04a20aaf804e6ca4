package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vehicles/game"
)

// Pick returns the id of the agent whose centre is closest to p and within
// radius. On equal distance the agent on the higher layer wins.
func Pick(snap *game.Snapshot, p r2.Vec, radius float64) (uint32, bool) {
	var (
		best      uint32
		found     bool
		bestD     = radius
		bestLayer int
	)
	for i := range snap.Agents {
		a := &snap.Agents[i]
		d := r2.Norm(r2.Sub(a.Position, p))
		if d > bestD {
			continue
		}
		if found && d == bestD && a.Layer < bestLayer {
			continue
		}
		best, bestD, bestLayer, found = a.ID, d, a.Layer, true
	}
	return best, found
}

// Inspector renders details of the selected agent.
type Inspector struct {
	renderer      *Renderer
	x, y          int32
	width         int32
	initialEnergy float32
	maxSpeed      float32
	maxAngle      float32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32, initialEnergy, maxSpeed, maxAngle float64) *Inspector {
	return &Inspector{
		renderer:      NewRenderer(),
		x:             x,
		y:             y,
		width:         width,
		initialEnergy: float32(initialEnergy),
		maxSpeed:      float32(maxSpeed),
		maxAngle:      float32(maxAngle),
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the panel for one agent.
func (ins *Inspector) Draw(a game.AgentView) {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2

	r.DrawPanel(ins.x, ins.y, ins.width, 12*r.Theme.LineHeight+padding*2)

	x := ins.x + padding
	y := r.DrawSectionHeader(x, ins.y+padding, fmt.Sprintf("Agent #%d", a.ID))

	y = r.DrawLabelValue(x, y, "Role", a.Role.String())
	y = r.DrawColorSwatch(x, y, "Colour", toColor(a))
	y = r.DrawEnergyBar(x, y, "Energy", float32(a.Energy), ins.initialEnergy, contentWidth)
	y = r.DrawLabelValue(x, y, "Position", fmt.Sprintf("(%.1f, %.1f)", a.Position.X, a.Position.Y))
	y = r.DrawLabelValue(x, y, "Heading", fmt.Sprintf("%.1f°", normalizeDegrees(a.Heading)))

	y += 4
	y = r.DrawSectionHeader(x, y, "Control")
	y = r.DrawCenteredBar(x, y, "Speed", float32(a.Control.DesiredSpeed), ins.maxSpeed, "%+.0f", contentWidth)
	r.DrawCenteredBar(x, y, "Steer", float32(a.Control.DesiredAngle*180/math.Pi), ins.maxAngle, "%+.0f°", contentWidth)
}

func toColor(a game.AgentView) rl.Color {
	return rl.Color{R: a.Colour.R, G: a.Colour.G, B: a.Colour.B, A: a.Colour.A}
}

// normalizeDegrees maps an angle in radians to degrees in [0, 360).
func normalizeDegrees(rad float64) float64 {
	deg := math.Mod(rad*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
