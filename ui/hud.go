package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/vehicles/game"
	"github.com/pthm-cable/vehicles/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Population int
	Predators  int
	Prey       int
	Generation int
	Tick       int32
	SimTime    float64 // seconds
	FPS        int32
	Paused     bool
}

// NewHUDData collects the HUD fields from a snapshot.
func NewHUDData(title string, snap *game.Snapshot, timeStep float64, fps int32) HUDData {
	return HUDData{
		Title:      title,
		Population: snap.Population,
		Predators:  snap.Predators,
		Prey:       snap.Prey,
		Generation: snap.Generation,
		Tick:       snap.Tick,
		SimTime:    float64(snap.Tick) * timeStep,
		FPS:        fps,
		Paused:     !snap.Running,
	}
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Agents: %d | Predators: %d | Prey: %d", data.Population, data.Predators, data.Prey),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Generation: %d | Tick: %d | Time: %.1fs | FPS: %d", data.Generation, data.Tick, data.SimTime, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 75, 16, rl.Yellow)
	}
}

// DrawLegend renders the control legend at the bottom of the screen.
func (h *HUD) DrawLegend(screenHeight int32, bindings []Binding) {
	text := ""
	for i, b := range bindings {
		if i > 0 {
			text += " | "
		}
		text += fmt.Sprintf("%s: %s", b.KeyLabel, b.Name)
	}
	text += " | RMB drag: pan | Wheel: zoom | Home: reset view"
	rl.DrawText(text, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase tick timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  Max: %s", stats.AvgTickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	rl.DrawText(fmt.Sprintf("Agents: %.0f  Per agent: %s", stats.AvgAgents, stats.TickPerAgent), x, y, 14, rl.LightGray)
	y += 16

	for phase := range telemetry.NumPhases {
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-11s %8s %5.1f%%", phase.String(), stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
