package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/vehicles/game"
)

// Binding maps a key to one simulation toggle.
type Binding struct {
	Name     string
	Key      int32
	KeyLabel string
	Set      func(*game.Input)
}

// DefaultBindings returns the keyboard layout.
func DefaultBindings() []Binding {
	return []Binding{
		{Name: "Pause", Key: rl.KeySpace, KeyLabel: "Space", Set: func(in *game.Input) { in.ToggleRunning = true }},
		{Name: "Sensors", Key: rl.KeyS, KeyLabel: "S", Set: func(in *game.Input) { in.ToggleSensors = true }},
		{Name: "Outlines", Key: rl.KeyO, KeyLabel: "O", Set: func(in *game.Input) { in.ToggleOutlines = true }},
		{Name: "Add agent", Key: rl.KeyEqual, KeyLabel: "+", Set: func(in *game.Input) { in.AddAgent = true }},
		{Name: "Remove agent", Key: rl.KeyMinus, KeyLabel: "-", Set: func(in *game.Input) { in.RemoveAgent = true }},
	}
}

// PollKeys builds an input from the bindings whose key is pressed.
// pressed is rl.IsKeyPressed in the running program.
func PollKeys(bindings []Binding, pressed func(key int32) bool) game.Input {
	var in game.Input
	for _, b := range bindings {
		if pressed(b.Key) {
			b.Set(&in)
		}
	}
	return in
}

// Merge ORs two inputs. A key and a button for the same toggle pressed in
// one frame toggle once.
func Merge(a, b game.Input) game.Input {
	return game.Input{
		ToggleRunning:  a.ToggleRunning || b.ToggleRunning,
		ToggleSensors:  a.ToggleSensors || b.ToggleSensors,
		ToggleOutlines: a.ToggleOutlines || b.ToggleOutlines,
		AddAgent:       a.AddAgent || b.AddAgent,
		RemoveAgent:    a.RemoveAgent || b.RemoveAgent,
	}
}
