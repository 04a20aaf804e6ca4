package telemetry

import (
	"context"
	"log/slog"
	"time"
)

// Phase identifies one stage of the simulation step.
type Phase int

// Phases in the order they run within a tick.
const (
	PhaseVehicles Phase = iota
	PhasePhysics
	PhaseLifecycle
	PhaseTransforms
	PhaseSensors
	PhaseDetection
	PhaseBehavior
	PhaseTelemetry

	NumPhases
)

var phaseNames = [NumPhases]string{
	"vehicles", "physics", "lifecycle", "transforms",
	"sensors", "detection", "behavior", "telemetry",
}

func (p Phase) String() string {
	if p < 0 || p >= NumPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// tickSample is the timing of one tick and the population it ran with.
type tickSample struct {
	total  time.Duration
	phases [NumPhases]time.Duration
	agents int
}

// PerfCollector keeps per-phase tick timings over a rolling window.
// It is driven from the simulation goroutine only.
type PerfCollector struct {
	now func() time.Time

	samples []tickSample
	next    int
	filled  int

	current    tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	return newPerfCollector(windowSize, time.Now)
}

func newPerfCollector(windowSize int, now func() time.Time) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		now:     now,
		samples: make([]tickSample, windowSize),
	}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.current = tickSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
}

// EndTick closes the tick and records it along with the live agent count.
func (p *PerfCollector) EndTick(agents int) {
	now := p.now()
	p.closePhase(now)
	p.inPhase = false

	p.current.total = now.Sub(p.tickStart)
	p.current.agents = agents

	p.samples[p.next] = p.current
	p.next = (p.next + 1) % len(p.samples)
	if p.filled < len(p.samples) {
		p.filled++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.phase >= 0 && p.phase < NumPhases {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// RecordFrame marks the end of a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the samples in the current window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	PhaseAvg [NumPhases]time.Duration
	PhasePct [NumPhases]float64 // share of the average tick

	// AvgAgents is the mean live population; TickPerAgent divides the
	// average tick by it so windows of different sizes compare.
	AvgAgents    float64
	TickPerAgent time.Duration

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes statistics over the filled part of the window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	s.FrameDuration = p.frame
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	var phaseSum [NumPhases]time.Duration
	agents := 0
	for _, sample := range p.samples[:p.filled] {
		total += sample.total
		s.MaxTickDuration = max(s.MaxTickDuration, sample.total)
		for i, d := range sample.phases {
			phaseSum[i] += d
		}
		agents += sample.agents
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = total / n
	s.AvgAgents = float64(agents) / float64(p.filled)

	for i, sum := range phaseSum {
		s.PhaseAvg[i] = sum / n
		if total > 0 {
			s.PhasePct[i] = float64(sum) / float64(total) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	if s.AvgAgents > 0 {
		s.TickPerAgent = time.Duration(float64(s.AvgTickDuration) / s.AvgAgents)
	}
	return s
}

func (s PerfStats) attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
		slog.Float64("avg_agents", s.AvgAgents),
		slog.Int64("tick_per_agent_ns", s.TickPerAgent.Nanoseconds()),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for p := range NumPhases {
		attrs = append(attrs, slog.Float64(p.String()+"_pct", s.PhasePct[p]))
	}
	return attrs
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	return slog.GroupValue(s.attrs()...)
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.LogAttrs(context.Background(), slog.LevelInfo, "perf", s.attrs()...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	AvgAgents      float64 `csv:"avg_agents"`
	TickPerAgentNS int64   `csv:"tick_per_agent_ns"`
	FPS            float64 `csv:"fps"`
	VehiclesPct    float64 `csv:"vehicles_pct"`
	PhysicsPct     float64 `csv:"physics_pct"`
	LifecyclePct   float64 `csv:"lifecycle_pct"`
	TransformsPct  float64 `csv:"transforms_pct"`
	SensorsPct     float64 `csv:"sensors_pct"`
	DetectionPct   float64 `csv:"detection_pct"`
	BehaviorPct    float64 `csv:"behavior_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		AvgAgents:      s.AvgAgents,
		TickPerAgentNS: s.TickPerAgent.Nanoseconds(),
		FPS:            s.FPS,
		VehiclesPct:    s.PhasePct[PhaseVehicles],
		PhysicsPct:     s.PhasePct[PhasePhysics],
		LifecyclePct:   s.PhasePct[PhaseLifecycle],
		TransformsPct:  s.PhasePct[PhaseTransforms],
		SensorsPct:     s.PhasePct[PhaseSensors],
		DetectionPct:   s.PhasePct[PhaseDetection],
		BehaviorPct:    s.PhasePct[PhaseBehavior],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
	}
}
