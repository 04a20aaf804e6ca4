package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/paulmach/orb"

	"github.com/pthm-cable/vehicles/physics"
)

// ArenaRenderer draws the floor grid and the walls.
type ArenaRenderer struct {
	Floor     rl.Color
	Grid      rl.Color
	Wall      rl.Color
	GridStep  float32
	WallWidth float32
}

// NewArenaRenderer creates an arena renderer with the default palette.
func NewArenaRenderer(wallThickness float64) *ArenaRenderer {
	return &ArenaRenderer{
		Floor:     rl.Color{R: 24, G: 28, B: 34, A: 255},
		Grid:      rl.Color{R: 36, G: 42, B: 50, A: 255},
		Wall:      rl.Color{R: 140, G: 150, B: 160, A: 255},
		GridStep:  40,
		WallWidth: float32(2 * wallThickness),
	}
}

// Draw renders the arena in world coordinates. Call inside BeginMode2D.
func (a *ArenaRenderer) Draw(bounds orb.Bound, walls [4]physics.Segment) {
	minX, minY := float32(bounds.Min.X()), float32(bounds.Min.Y())
	maxX, maxY := float32(bounds.Max.X()), float32(bounds.Max.Y())

	rl.DrawRectangleV(rl.Vector2{X: minX, Y: minY}, rl.Vector2{X: maxX - minX, Y: maxY - minY}, a.Floor)

	for x := float32(0); x <= maxX; x += a.GridStep {
		rl.DrawLineV(rl.Vector2{X: x, Y: minY}, rl.Vector2{X: x, Y: maxY}, a.Grid)
		rl.DrawLineV(rl.Vector2{X: -x, Y: minY}, rl.Vector2{X: -x, Y: maxY}, a.Grid)
	}
	for y := float32(0); y <= maxY; y += a.GridStep {
		rl.DrawLineV(rl.Vector2{X: minX, Y: y}, rl.Vector2{X: maxX, Y: y}, a.Grid)
		rl.DrawLineV(rl.Vector2{X: minX, Y: -y}, rl.Vector2{X: maxX, Y: -y}, a.Grid)
	}

	for _, w := range walls {
		rl.DrawLineEx(vec(w.A), vec(w.B), a.WallWidth, a.Wall)
	}
}
