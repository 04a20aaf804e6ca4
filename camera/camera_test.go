package camera

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func arena(half float64) orb.Bound {
	return orb.Bound{Min: orb.Point{-half, -half}, Max: orb.Point{half, half}}
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.001
}

func TestNewFitsArena(t *testing.T) {
	cam := New(1600, 800, arena(400))

	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected camera at origin, got (%f, %f)", cam.X, cam.Y)
	}
	// limiting dimension is height: 800/800 * margin
	if !near(cam.Zoom, fitMargin) {
		t.Errorf("expected fitted zoom %f, got %f", fitMargin, cam.Zoom)
	}
	if !near(cam.MinZoom, fitMargin/2) {
		t.Errorf("expected MinZoom %f, got %f", fitMargin/2, cam.MinZoom)
	}

	visible := cam.VisibleWorldBounds()
	if !visible.Contains(orb.Point{400, 400}) || !visible.Contains(orb.Point{-400, -400}) {
		t.Errorf("arena corners not visible at fitted zoom: %v", visible)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, arena(390))

	sx, sy := cam.WorldToScreen(0, 0)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, arena(390))
	cam.SetZoom(1.7)
	cam.Pan(120, -40)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanStaysInsideArena(t *testing.T) {
	cam := New(1280, 720, arena(390))
	cam.SetZoom(1)

	cam.Pan(-5000, 5000)

	if cam.X != -390 || cam.Y != 390 {
		t.Errorf("expected centre clamped to (-390, 390), got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1600, 800, arena(400))

	cam.SetZoom(0.01)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestResizeRefits(t *testing.T) {
	cam := New(1600, 800, arena(400))
	cam.Resize(800, 800)

	if !near(cam.FitZoom(), fitMargin) {
		t.Errorf("expected fit zoom %f after resize, got %f", fitMargin, cam.FitZoom())
	}
	cam.Resize(400, 400)
	if cam.Zoom < cam.MinZoom {
		t.Errorf("zoom %f below min %f after resize", cam.Zoom, cam.MinZoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, arena(390))
	cam.SetZoom(2)

	// Visible half extents are (320, 180)
	if !cam.IsVisible(0, 0, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(380, 300, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(360, 0, 50) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, arena(390))
	cam.Pan(300, 300)
	cam.SetZoom(3)

	cam.Reset()

	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected position (0, 0), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != cam.FitZoom() {
		t.Errorf("expected zoom %f, got %f", cam.FitZoom(), cam.Zoom)
	}
}
