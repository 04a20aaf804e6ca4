package systems

import (
	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/config"
)

// EnergyCost returns the per-tick energy drain for one agent.
// Agents that moved less than the movement threshold pay the idle penalty
// on top of their role's base cost.
func EnergyCost(role components.Role, displacement float64, cfg config.EnergyConfig) float64 {
	cost := cfg.PreyCost
	if role == components.RolePredator {
		cost = cfg.PredatorCost
	}
	if displacement < cfg.MovementThreshold {
		cost += cfg.IdlePenalty
	}
	return cost
}

// UpdateEnergy applies one tick of decay and reports whether the agent is
// depleted. Energy may go negative; removal happens in the lifecycle pass.
func UpdateEnergy(energy *components.Energy, role components.Role, displacement float64, cfg config.EnergyConfig) bool {
	energy.Value -= EnergyCost(role, displacement, cfg)
	return energy.Value < 0
}
