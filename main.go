package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vehicles/config"
	"github.com/pthm-cable/vehicles/game"
	"github.com/pthm-cable/vehicles/renderer"
	"github.com/pthm-cable/vehicles/ui"
)

const title = "Vehicles"

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	debug := flag.Bool("debug", false, "Log per-agent lifecycle events")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	}

	sim, err := game.New(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := sim.Close(); err != nil {
			slog.Error("failed to close simulation", "error", err)
		}
	}()

	slog.Info("starting simulation",
		"seed", rngSeed,
		"headless", *headless,
		"population", sim.Population(),
		"max_ticks", *maxTicks,
	)

	if *headless {
		runHeadless(sim, *maxTicks)
		return
	}
	runGraphical(sim, cfg, *maxTicks)
}

// runHeadless steps the simulation until interrupted or the tick limit is
// reached.
func runHeadless(sim *game.Simulation, maxTicks int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runTicks(ctx, sim, maxTicks)
}

// runTicks steps sim until ctx is done or maxTicks ticks have run. It
// reports whether the tick limit ended the run.
func runTicks(ctx context.Context, sim *game.Simulation, maxTicks int) bool {
	for ctx.Err() == nil {
		sim.Step()

		if maxTicks > 0 && int(sim.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", sim.Tick(), "generation", sim.Generation())
			return true
		}
	}
	slog.Info("interrupted", "tick", sim.Tick())
	return false
}

// runGraphical opens a window and runs one tick per frame.
func runGraphical(sim *game.Simulation, cfg *config.Config, maxTicks int) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	scene := renderer.NewScene(cfg)
	bindings := ui.DefaultBindings()
	hud := ui.NewHUD()
	controls := ui.NewControlsPanel(10, 100, 190, bindings)
	perfPanel := ui.NewPerfPanel(int32(cfg.Screen.Width)-260, 10)
	inspector := ui.NewInspector(int32(cfg.Screen.Width)-270, 200, 260,
		cfg.Energy.Initial, cfg.Behavior.Speed, cfg.Behavior.TurnAngle)
	cameraControl := ui.NewCameraController()

	var (
		selected    uint32
		hasSelected bool
		clicked     game.Input
	)

	for !rl.WindowShouldClose() {
		// Button clicks from the previous frame apply with this frame's keys
		sim.Apply(ui.Merge(ui.PollKeys(bindings, rl.IsKeyPressed), clicked))
		sim.Step()
		snap := sim.Snapshot()

		cameraControl.Update(scene.Camera)
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			m := rl.GetMousePosition()
			wx, wy := scene.Camera.ScreenToWorld(m.X, m.Y)
			if id, ok := ui.Pick(&snap, r2.Vec{X: float64(wx), Y: float64(wy)}, cfg.Vehicle.HullHalfHeight*1.5); ok {
				selected, hasSelected = id, true
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		scene.Draw(&snap)

		hud.Draw(ui.NewHUDData(title, &snap, cfg.Physics.TimeStep, rl.GetFPS()))
		hud.DrawLegend(int32(cfg.Screen.Height), bindings)
		clicked = controls.Draw(&snap)
		perfPanel.Draw(sim.PerfStats())

		if hasSelected {
			if view, err := sim.Agent(selected); err == nil {
				inspector.Draw(view)
			} else {
				hasSelected = false
			}
		}

		rl.EndDrawing()
		sim.RecordFrame()

		if maxTicks > 0 && int(sim.Tick()) >= maxTicks {
			break
		}
	}
}
