package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/vehicles/camera"
	"github.com/pthm-cable/vehicles/config"
	"github.com/pthm-cable/vehicles/game"
)

// Scene draws a full frame of the arena through the camera.
type Scene struct {
	Camera   *camera.Camera
	arena    *ArenaRenderer
	vehicles *VehicleRenderer
}

// NewScene creates a scene sized to the screen with the camera fitted to
// the arena.
func NewScene(cfg *config.Config) *Scene {
	return &Scene{
		Camera:   camera.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height), cfg.Derived.Bounds),
		arena:    NewArenaRenderer(cfg.Arena.WallThickness),
		vehicles: NewVehicleRenderer(cfg.Energy.Initial),
	}
}

// Draw renders the arena and agents. Call between BeginDrawing and EndDrawing.
func (s *Scene) Draw(snap *game.Snapshot) {
	cam := rl.Camera2D{
		Offset: rl.Vector2{X: s.Camera.ViewportW / 2, Y: s.Camera.ViewportH / 2},
		Target: rl.Vector2{X: s.Camera.X, Y: s.Camera.Y},
		Zoom:   s.Camera.Zoom,
	}

	rl.BeginMode2D(cam)
	s.arena.Draw(snap.Bounds, snap.Walls)
	s.vehicles.Draw(snap)
	rl.EndMode2D()
}
