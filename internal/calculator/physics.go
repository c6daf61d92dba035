package calculator

import (
	"fmt"
	"math"
	"sort"
)

// Input describes one named operand of a formula.
type Input struct {
	Name  string
	Label string
	Unit  string
}

// Formula is a physics calculator.
type Formula struct {
	Slug       string
	Title      string
	Expression string
	Inputs     []Input
	ResultName string
	ResultUnit string
	compute    func(in map[string]float64) (float64, error)
}

// PhysicsResult is the evaluated value of a formula.
type PhysicsResult struct {
	Formula Formula
	Inputs  map[string]float64
	Value   float64
}

const standardGravity = 9.80665

var formulas = map[string]Formula{
	"velocity": {
		Slug: "velocity", Title: "Velocity", Expression: "v = d / t",
		Inputs:     []Input{{"distance", "Distance", "m"}, {"time", "Time", "s"}},
		ResultName: "Velocity", ResultUnit: "m/s",
		compute: func(in map[string]float64) (float64, error) {
			return divide(in["distance"], in["time"], "time")
		},
	},
	"acceleration": {
		Slug: "acceleration", Title: "Acceleration", Expression: "a = (v - u) / t",
		Inputs:     []Input{{"final_velocity", "Final velocity", "m/s"}, {"initial_velocity", "Initial velocity", "m/s"}, {"time", "Time", "s"}},
		ResultName: "Acceleration", ResultUnit: "m/s²",
		compute: func(in map[string]float64) (float64, error) {
			return divide(in["final_velocity"]-in["initial_velocity"], in["time"], "time")
		},
	},
	"force": {
		Slug: "force", Title: "Force", Expression: "F = m × a",
		Inputs:     []Input{{"mass", "Mass", "kg"}, {"acceleration", "Acceleration", "m/s²"}},
		ResultName: "Force", ResultUnit: "N",
		compute: func(in map[string]float64) (float64, error) {
			if in["mass"] < 0 {
				return 0, fmt.Errorf("%w: mass cannot be negative", ErrInvalidInput)
			}
			return in["mass"] * in["acceleration"], nil
		},
	},
	"kinetic-energy": {
		Slug: "kinetic-energy", Title: "Kinetic energy", Expression: "KE = ½ m v²",
		Inputs:     []Input{{"mass", "Mass", "kg"}, {"velocity", "Velocity", "m/s"}},
		ResultName: "Kinetic energy", ResultUnit: "J",
		compute: func(in map[string]float64) (float64, error) {
			if in["mass"] < 0 {
				return 0, fmt.Errorf("%w: mass cannot be negative", ErrInvalidInput)
			}
			return 0.5 * in["mass"] * in["velocity"] * in["velocity"], nil
		},
	},
	"potential-energy": {
		Slug: "potential-energy", Title: "Gravitational potential energy", Expression: "PE = m g h",
		Inputs:     []Input{{"mass", "Mass", "kg"}, {"height", "Height", "m"}},
		ResultName: "Potential energy", ResultUnit: "J",
		compute: func(in map[string]float64) (float64, error) {
			if in["mass"] < 0 {
				return 0, fmt.Errorf("%w: mass cannot be negative", ErrInvalidInput)
			}
			return in["mass"] * standardGravity * in["height"], nil
		},
	},
	"ohms-law": {
		Slug: "ohms-law", Title: "Ohm's law", Expression: "V = I × R",
		Inputs:     []Input{{"current", "Current", "A"}, {"resistance", "Resistance", "Ω"}},
		ResultName: "Voltage", ResultUnit: "V",
		compute: func(in map[string]float64) (float64, error) {
			if in["resistance"] < 0 {
				return 0, fmt.Errorf("%w: resistance cannot be negative", ErrInvalidInput)
			}
			return in["current"] * in["resistance"], nil
		},
	},
	"electric-power": {
		Slug: "electric-power", Title: "Electric power", Expression: "P = V × I",
		Inputs:     []Input{{"voltage", "Voltage", "V"}, {"current", "Current", "A"}},
		ResultName: "Power", ResultUnit: "W",
		compute: func(in map[string]float64) (float64, error) {
			return in["voltage"] * in["current"], nil
		},
	},
	"density": {
		Slug: "density", Title: "Density", Expression: "ρ = m / V",
		Inputs:     []Input{{"mass", "Mass", "kg"}, {"volume", "Volume", "m³"}},
		ResultName: "Density", ResultUnit: "kg/m³",
		compute: func(in map[string]float64) (float64, error) {
			if in["volume"] < 0 || in["mass"] < 0 {
				return 0, fmt.Errorf("%w: mass and volume cannot be negative", ErrInvalidInput)
			}
			return divide(in["mass"], in["volume"], "volume")
		},
	},
	"momentum": {
		Slug: "momentum", Title: "Momentum", Expression: "p = m × v",
		Inputs:     []Input{{"mass", "Mass", "kg"}, {"velocity", "Velocity", "m/s"}},
		ResultName: "Momentum", ResultUnit: "kg·m/s",
		compute: func(in map[string]float64) (float64, error) {
			if in["mass"] < 0 {
				return 0, fmt.Errorf("%w: mass cannot be negative", ErrInvalidInput)
			}
			return in["mass"] * in["velocity"], nil
		},
	},
	"work": {
		Slug: "work", Title: "Work", Expression: "W = F × d × cos θ",
		Inputs:     []Input{{"force", "Force", "N"}, {"distance", "Distance", "m"}, {"angle", "Angle", "°"}},
		ResultName: "Work", ResultUnit: "J",
		compute: func(in map[string]float64) (float64, error) {
			return in["force"] * in["distance"] * math.Cos(in["angle"]*math.Pi/180), nil
		},
	},
}

// Formulas lists the physics calculators sorted by slug.
func Formulas() []Formula {
	out := make([]Formula, 0, len(formulas))
	for _, f := range formulas {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// LookupFormula returns the formula registered under slug.
func LookupFormula(slug string) (Formula, error) {
	f, ok := formulas[slug]
	if !ok {
		return Formula{}, fmt.Errorf("%w: %s", ErrUnknownFormula, slug)
	}
	return f, nil
}

// Evaluate runs the formula. Every declared input must be present and finite.
func Evaluate(slug string, inputs map[string]float64) (PhysicsResult, error) {
	f, err := LookupFormula(slug)
	if err != nil {
		return PhysicsResult{}, err
	}
	for _, in := range f.Inputs {
		v, ok := inputs[in.Name]
		if !ok {
			return PhysicsResult{}, fmt.Errorf("%w: %s is required", ErrInvalidInput, in.Label)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return PhysicsResult{}, fmt.Errorf("%w: %s must be a number", ErrInvalidInput, in.Label)
		}
	}
	value, err := f.compute(inputs)
	if err != nil {
		return PhysicsResult{}, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return PhysicsResult{}, fmt.Errorf("%w: the result is too large to compute", ErrInvalidInput)
	}
	return PhysicsResult{Formula: f, Inputs: inputs, Value: value}, nil
}

func divide(num, den float64, name string) (float64, error) {
	if den == 0 {
		return 0, fmt.Errorf("%w: %s cannot be zero", ErrInvalidInput, name)
	}
	return num / den, nil
}
