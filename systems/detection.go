package systems

import (
	"runtime"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/physics"
)

// SensorMask records which sensors fired for an event.
type SensorMask uint8

const (
	SensorLeft SensorMask = 1 << iota
	SensorRight

	SensorNone SensorMask = 0
	SensorBoth            = SensorLeft | SensorRight
)

// String returns a short mask name.
func (m SensorMask) String() string {
	switch m {
	case SensorLeft:
		return "left"
	case SensorRight:
		return "right"
	case SensorBoth:
		return "both"
	default:
		return "none"
	}
}

// TargetKind distinguishes what a sensor saw.
type TargetKind uint8

const (
	TargetAgent TargetKind = iota
	TargetBoundary
)

// Event is one detection by one agent in one tick.
type Event struct {
	Kind     TargetKind
	Role     components.Role // target role, meaningful for TargetAgent only
	TargetID uint32          // 0 for boundary events
	Distance float64         // centre-to-centre; 0 for boundary events
	Mask     SensorMask
}

// Observer is the per-agent view the detection pass works on.
type Observer struct {
	ID       uint32
	Role     components.Role
	Position r2.Vec
	Sensors  components.Sensors
}

// Detector runs the pairwise detection pass. Event slices are reused across
// ticks; callers must not keep them past the next Detect call.
type Detector struct {
	Walls  [4]physics.Segment
	Hitbox r2.Vec // half-extents of the axis-aligned target box

	// Workers bounds the goroutines used for large populations; 1 keeps the
	// pass on the calling goroutine.
	Workers int

	events [][]Event
}

// NewDetector returns a detector for the given walls and hit-box.
func NewDetector(walls [4]physics.Segment, hitbox r2.Vec) *Detector {
	return &Detector{Walls: walls, Hitbox: hitbox, Workers: runtime.GOMAXPROCS(0)}
}

// Detect returns the events of each observer, indexed like observers.
// Observers are expected in ascending id order so that ties in distance are
// broken by the lower target id. Large populations are split across
// workers; each observer's events are written by exactly one worker, so the
// result does not depend on the worker count.
func (d *Detector) Detect(observers []Observer) [][]Event {
	if cap(d.events) < len(observers) {
		d.events = make([][]Event, len(observers))
	}
	d.events = d.events[:len(observers)]

	if len(observers) < parallelThreshold || d.Workers <= 1 {
		d.detectRange(observers, 0, len(observers))
		return d.events
	}

	forEachChunk(len(observers), d.Workers, func(start, end int) {
		d.detectRange(observers, start, end)
	})
	return d.events
}

// detectRange fills the events of observers[start:end].
func (d *Detector) detectRange(observers []Observer, start, end int) {
	for i := start; i < end; i++ {
		self := &observers[i]
		events := d.events[i][:0]

		for j := range observers {
			if i == j {
				continue
			}
			other := &observers[j]
			if other.Role == self.Role {
				continue
			}

			mask := d.sense(self.Sensors, other.Position)
			if mask == SensorNone {
				continue
			}
			events = append(events, Event{
				Kind:     TargetAgent,
				Role:     other.Role,
				TargetID: other.ID,
				Distance: r2.Norm(r2.Sub(self.Position, other.Position)),
				Mask:     mask,
			})
		}

		if mask := d.senseWalls(self.Sensors); mask != SensorNone {
			events = append(events, Event{Kind: TargetBoundary, Mask: mask})
		}

		d.events[i] = events
	}
}

// Detect is a convenience wrapper for a one-off detection pass.
func Detect(observers []Observer, walls [4]physics.Segment, hitbox r2.Vec) [][]Event {
	return NewDetector(walls, hitbox).Detect(observers)
}

func (d *Detector) sense(s components.Sensors, target r2.Vec) SensorMask {
	corners := [4]r2.Vec{
		{X: target.X - d.Hitbox.X, Y: target.Y - d.Hitbox.Y},
		{X: target.X + d.Hitbox.X, Y: target.Y - d.Hitbox.Y},
		{X: target.X + d.Hitbox.X, Y: target.Y + d.Hitbox.Y},
		{X: target.X - d.Hitbox.X, Y: target.Y + d.Hitbox.Y},
	}

	var mask SensorMask
	if anyCornerIn(corners, s.Left) {
		mask |= SensorLeft
	}
	if anyCornerIn(corners, s.Right) {
		mask |= SensorRight
	}
	return mask
}

func anyCornerIn(corners [4]r2.Vec, t components.Triangle) bool {
	for _, c := range corners {
		if PointInTriangle(c, t) {
			return true
		}
	}
	return false
}

func (d *Detector) senseWalls(s components.Sensors) SensorMask {
	var mask SensorMask
	if d.crossesWall(s.Left) {
		mask |= SensorLeft
	}
	if d.crossesWall(s.Right) {
		mask |= SensorRight
	}
	return mask
}

func (d *Detector) crossesWall(t components.Triangle) bool {
	edges := [3][2]r2.Vec{
		{t.Apex, t.Left},
		{t.Left, t.Right},
		{t.Right, t.Apex},
	}
	for _, w := range d.Walls {
		for _, e := range edges {
			if SegmentsIntersect(e[0], e[1], w.A, w.B) {
				return true
			}
		}
	}
	return false
}
