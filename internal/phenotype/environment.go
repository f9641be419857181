// Package phenotype folds a list of proteins into a sampled phenotype curve
// and builds the fixed environment target curve that fitness compares
// against.
package phenotype

import (
	"math"

	"github.com/qferro/aevol-optim/internal/model"
)

// Environment holds the fixed target curve and its precomputed geometric
// area (the trapezoidal integral of |target|, not target itself).
type Environment struct {
	Target        [model.PhenotypeSamples]float64
	GeometricArea float64
}

// NewEnvironment builds the target curve as the sum of the three fixed
// Gaussian bumps, clamped into [Y_MIN, Y_MAX], and computes its geometric
// area once.
func NewEnvironment() *Environment {
	env := &Environment{}
	for i := 0; i < model.PhenotypeSamples; i++ {
		x := float64(i) / float64(model.PhenotypeSamples)
		var y float64
		for _, bump := range model.TargetBumps {
			y += gaussian(bump, x)
		}
		if y > model.YMax {
			y = model.YMax
		}
		if y < model.YMin {
			y = model.YMin
		}
		env.Target[i] = y
	}

	for i := 0; i < model.PhenotypeSamples-1; i++ {
		env.GeometricArea += (math.Abs(env.Target[i]) + math.Abs(env.Target[i+1])) / 600.0
	}
	return env
}

func gaussian(b model.GaussianBump, x float64) float64 {
	d := x - b.Mean
	return b.Height * math.Exp(-(d*d)/(2*b.Width*b.Width))
}
