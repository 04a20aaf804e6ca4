// Package camera provides a 2D camera over the walled arena.
package camera

import "github.com/paulmach/orb"

// fitMargin leaves a border of screen around the arena when fitted.
const fitMargin = 0.92

// Camera controls the viewport into the arena.
// Supports pan and zoom; the centre never leaves the arena bounds.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Arena bounds in world coordinates
	Bounds orb.Bound

	// Zoom constraints
	MinZoom, MaxZoom float32

	fit float32
}

// New creates a camera centred on the arena, zoomed so that the whole arena
// is visible.
func New(viewportW, viewportH float32, bounds orb.Bound) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		Bounds:    bounds,
		MaxZoom:   8.0,
	}
	c.refit()
	c.Reset()
	return c
}

// refit recomputes the zoom that fits the arena into the viewport.
func (c *Camera) refit() {
	w := float32(c.Bounds.Max.X() - c.Bounds.Min.X())
	h := float32(c.Bounds.Max.Y() - c.Bounds.Min.Y())
	fit := c.ViewportW / w
	if fy := c.ViewportH / h; fy < fit {
		fit = fy
	}
	c.fit = fit * fitMargin
	c.MinZoom = c.fit / 2
}

// FitZoom returns the zoom at which the whole arena is visible.
func (c *Camera) FitZoom() float32 {
	return c.fit
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.refit()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// Pan moves the camera by the given delta in screen pixels.
// The centre is kept inside the arena.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, float32(c.Bounds.Min.X()), float32(c.Bounds.Max.X()))
	c.Y = clamp(c.Y+dy/c.Zoom, float32(c.Bounds.Min.Y()), float32(c.Bounds.Max.Y()))
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centres the camera on the arena at the fitted zoom.
func (c *Camera) Reset() {
	center := c.Bounds.Center()
	c.X = float32(center.X())
	c.Y = float32(center.Y())
	c.Zoom = c.fit
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() orb.Bound {
	halfW := float64(c.ViewportW / (2 * c.Zoom))
	halfH := float64(c.ViewportH / (2 * c.Zoom))
	x, y := float64(c.X), float64(c.Y)
	return orb.Bound{
		Min: orb.Point{x - halfW, y - halfH},
		Max: orb.Point{x + halfW, y + halfH},
	}
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
