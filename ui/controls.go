package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/vehicles/camera"
	"github.com/pthm-cable/vehicles/game"
)

const (
	buttonWidth  = 120
	buttonHeight = 24
	buttonGap    = 6
)

// ControlsPanel renders the toggle buttons and the key legend.
type ControlsPanel struct {
	renderer *Renderer
	bindings []Binding
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32, bindings []Binding) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		bindings: bindings,
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns the input from any clicked button.
func (c *ControlsPanel) Draw(snap *game.Snapshot) game.Input {
	var in game.Input
	if !c.visible {
		return in
	}

	r := c.renderer
	padding := r.Theme.Padding
	rows := int32(len(c.bindings))
	height := padding*2 + r.Theme.LineHeight + rows*(buttonHeight+buttonGap)
	r.DrawPanel(c.x, c.y, c.width, height)

	y := r.DrawSectionHeader(c.x+padding, c.y+padding, "Controls")

	for _, b := range c.bindings {
		rect := rl.Rectangle{X: float32(c.x + padding), Y: float32(y), Width: buttonWidth, Height: buttonHeight}
		if gui.Button(rect, buttonLabel(b, snap)) {
			b.Set(&in)
		}
		key := fmt.Sprintf("[%s]", b.KeyLabel)
		rl.DrawText(key, c.x+padding+buttonWidth+8, y+6, r.Theme.FontSize, r.Theme.LabelColor)
		y += buttonHeight + buttonGap
	}
	return in
}

// buttonLabel shows the state a toggle button switches to.
func buttonLabel(b Binding, snap *game.Snapshot) string {
	var probe game.Input
	b.Set(&probe)
	switch {
	case probe.ToggleRunning:
		return toggleText(snap.Running, "Pause", "Resume")
	case probe.ToggleSensors:
		return toggleText(snap.ShowSensors, "Hide sensors", "Show sensors")
	case probe.ToggleOutlines:
		return toggleText(snap.ShowOutlines, "Hide outlines", "Show outlines")
	}
	return b.Name
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// CameraController pans with the right mouse button and zooms with the wheel.
type CameraController struct {
	ZoomStep float32
}

// NewCameraController creates a controller with the default zoom step.
func NewCameraController() *CameraController {
	return &CameraController{ZoomStep: 1.1}
}

// Update applies this frame's mouse input to the camera.
func (cc *CameraController) Update(cam *camera.Camera) {
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		cam.Pan(-d.X, -d.Y)
	}
	if wheel := rl.GetMouseWheelMove(); wheel > 0 {
		cam.ZoomBy(cc.ZoomStep)
	} else if wheel < 0 {
		cam.ZoomBy(1 / cc.ZoomStep)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
	}
}
