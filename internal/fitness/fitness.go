// Package fitness scores a phenotype curve against the environment target
// using a trapezoidal-integral metabolic error and an exponential mapping
// to fitness.
package fitness

import (
	"math"

	"github.com/qferro/aevol-optim/internal/model"
)

// Score computes the delta curve (phenotype - target), the trapezoidal
// metaerror over it, and fitness = exp(-pressure * metaerror).
func Score(phenotype, target [model.PhenotypeSamples]float64, pressure float64) (delta [model.PhenotypeSamples]float64, metaerror, fit float64) {
	for i := 0; i < model.PhenotypeSamples; i++ {
		delta[i] = phenotype[i] - target[i]
	}
	for i := 0; i < model.PhenotypeSamples-1; i++ {
		metaerror += (math.Abs(delta[i]) + math.Abs(delta[i+1])) / 600.0
	}
	fit = math.Exp(-pressure * metaerror)
	return delta, metaerror, fit
}
