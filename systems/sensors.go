package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/vehicles/components"
	"github.com/pthm-cable/vehicles/config"
)

// SensorParams describes the pair of cones every agent carries.
type SensorParams struct {
	ConeAngle float64 // radians, full cone width
	Offset    float64 // radians between heading and each cone axis
	Range     float64
}

// SensorParamsFrom reads cone parameters from cfg.
func SensorParamsFrom(cfg *config.Config) SensorParams {
	return SensorParams{
		ConeAngle: cfg.Derived.ConeAngle,
		Offset:    cfg.Derived.ConeOffset,
		Range:     cfg.Sensors.Range,
	}
}

// ComputeCone builds a triangle with its apex at pos, centred on axis
// (radians), spanning angle and reaching length along both edges.
func ComputeCone(pos r2.Vec, axis, angle, length float64) components.Triangle {
	half := angle / 2
	return components.Triangle{
		Apex:  pos,
		Left:  r2.Add(pos, r2.Scale(length, direction(axis-half))),
		Right: r2.Add(pos, r2.Scale(length, direction(axis+half))),
	}
}

// ComputeSensors returns the left cone at heading-Offset and the right cone
// at heading+Offset.
func ComputeSensors(pos r2.Vec, heading float64, p SensorParams) components.Sensors {
	return components.Sensors{
		Left:  ComputeCone(pos, heading-p.Offset, p.ConeAngle, p.Range),
		Right: ComputeCone(pos, heading+p.Offset, p.ConeAngle, p.Range),
	}
}
