// Package organism assembles the genome, expression, decoder, phenotype
// and fitness stages into a single per-cell aggregate, and implements the
// founder-search loop used to seed a fresh population.
package organism

import (
	"math"

	"github.com/qferro/aevol-optim/internal/decode"
	"github.com/qferro/aevol-optim/internal/expression"
	"github.com/qferro/aevol-optim/internal/fitness"
	"github.com/qferro/aevol-optim/internal/genome"
	"github.com/qferro/aevol-optim/internal/model"
	"github.com/qferro/aevol-optim/internal/phenotype"
)

// Organism owns one genome and the RNA/protein/phenotype/fitness state
// derived from it. Children that inherit an un-mutated parent share the
// same *Organism handle rather than copying it; Go's garbage collector
// retires the handle once no cell references it, which is the practical
// equivalent of the reference-counted or arena-indexed ownership the
// design calls for, since parent/child references can never cycle.
type Organism struct {
	Genome    *genome.Genome
	RNAs      []model.RNA
	Proteins  []model.Protein
	Phenotype [model.PhenotypeSamples]float64
	Delta     [model.PhenotypeSamples]float64
	Metaerror float64
	Fitness   float64

	// MutationCount is the number of edits applied to produce this
	// organism's genome this generation; ResetMutationStats zeroes it when
	// an un-mutated child reuses its parent's handle.
	MutationCount int
	// Touched marks an organism whose RNA/protein/phenotype/fitness state
	// was (re)computed this generation, so the stats writer can skip
	// recomputing derived statistics for organisms that were only cloned.
	Touched bool
}

// New wraps a genome as a freshly created organism with no expressed state.
func New(g *genome.Genome) *Organism {
	return &Organism{Genome: g}
}

// Clone returns a new Organism over a deep copy of o's genome, with fresh
// indices and no expressed state. RunGeneration does not call it: a mutated
// child is built over the genome mutation.Apply returns, and an un-mutated
// child reuses the parent's *Organism handle directly.
func (o *Organism) Clone() *Organism {
	return New(o.Genome.Clone())
}

// ResetMutationStats zeroes the per-generation mutation counters of an
// organism that was reused without mutation.
func (o *Organism) ResetMutationStats() {
	o.MutationCount = 0
	o.Touched = false
}

// Express runs the full per-organism pipeline: rebuild the terminator
// index, construct RNAs from the (assumed valid) promoter index, delineate
// and decode proteins, fold the phenotype curve, and score fitness against
// env. It always uses the ordered-terminator-set RNA construction variant,
// since the terminator index it just rebuilt is already sorted.
func (o *Organism) Express(env *phenotype.Environment, selectionPressure float64) {
	o.Genome.RebuildTerminators()
	o.RNAs = expression.OptimizedRNAs(o.Genome)

	var proteins []model.Protein
	for i := range o.RNAs {
		expression.FindGeneStarts(o.Genome, &o.RNAs[i])
		proteins = append(proteins, expression.DelineateProteins(o.Genome, &o.RNAs[i])...)
	}
	proteins = expression.MergeDuplicates(proteins)

	for i := range proteins {
		if !proteins[i].IsInit {
			continue
		}
		decode.Protein(o.Genome, &proteins[i])
	}
	o.Proteins = proteins

	o.Phenotype = phenotype.Fold(o.Proteins)
	o.Delta, o.Metaerror, o.Fitness = fitness.Score(o.Phenotype, env.Target, selectionPressure)
	o.Touched = true
}

// randomBits returns a slice of length n filled with 0/1 by drawing from
// draw, a closure over whatever PRNG the caller wants the founder search to
// use.
func randomBits(n int, draw func() int) []uint8 {
	bits := make([]uint8, n)
	for i := range bits {
		bits[i] = uint8(draw())
	}
	return bits
}

// FindFounder repeatedly generates a random genome of the given length,
// expresses it, and retries until its metaerror is strictly better than
// the environment's geometric area — mirroring the reference
// implementation's founder-retry loop, including its rounding tolerance
// against floating-point near-ties (round((metaerror-geometricArea)*1e10)).
func FindFounder(length int, draw func() int, env *phenotype.Environment, selectionPressure float64) *Organism {
	for {
		g := genome.New(randomBits(length, draw))
		g.FullScan()
		o := New(g)
		o.Express(env, selectionPressure)

		rounded := math.Round((o.Metaerror-env.GeometricArea)*1e10) / 1e10
		if rounded < 0 {
			return o
		}
	}
}
