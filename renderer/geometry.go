// Package renderer draws simulation snapshots with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vehicles/components"
)

// boxCorners returns the corners of a rotated box in winding order.
func boxCorners(center r2.Vec, halfW, halfH, angle float64) [4]r2.Vec {
	sin, cos := math.Sincos(angle)
	local := [4]r2.Vec{
		{X: -halfW, Y: -halfH},
		{X: halfW, Y: -halfH},
		{X: halfW, Y: halfH},
		{X: -halfW, Y: halfH},
	}
	var out [4]r2.Vec
	for i, p := range local {
		out[i] = r2.Vec{
			X: center.X + p.X*cos - p.Y*sin,
			Y: center.Y + p.X*sin + p.Y*cos,
		}
	}
	return out
}

// shade fades a colour towards transparent as energy runs out.
// Alpha never drops below a quarter so depleted agents stay visible.
func shade(c components.Colour, energy, initial float64) rl.Color {
	ratio := 1.0
	if initial > 0 {
		ratio = energy / initial
	}
	ratio = math.Max(0, math.Min(1, ratio))
	alpha := float64(c.A) * (0.25 + 0.75*ratio)
	return rl.Color{R: c.R, G: c.G, B: c.B, A: uint8(alpha)}
}

func toColor(c components.Colour) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func vec(v r2.Vec) rl.Vector2 {
	return rl.Vector2{X: float32(v.X), Y: float32(v.Y)}
}
