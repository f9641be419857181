// Package mutation implements the mutation contract named in the pipeline's
// reproduction step: a per-organism edit-plan generator driven by a PRNG
// sub-stream, genome length and mutation rate, plus a concrete applier for
// the four edit kinds (substitution, insertion, deletion, inversion).
//
// The specification this module implements treats edit application as an
// external, out-of-scope collaborator; a concrete applier is still provided
// here because the reproduction step cannot run end to end without one.
package mutation

import (
	"github.com/qferro/aevol-optim/internal/aevolrand"
	"github.com/qferro/aevol-optim/internal/genome"
	"github.com/qferro/aevol-optim/internal/model"
)

// Generator produces an edit plan for one child, by testing every genome
// position independently against the mutation rate — the same per-base
// Bernoulli model the reference implementation's DnaMutator draws from.
type Generator struct {
	sub    *aevolrand.Substream
	length int
	rate   float64
	plan   []model.Edit
}

// NewGenerator builds a Generator over a genome of the given length,
// drawing from sub for every random decision it makes.
func NewGenerator(sub *aevolrand.Substream, length int, rate float64) *Generator {
	return &Generator{sub: sub, length: length, rate: rate}
}

// GenerateMutations populates the internal edit plan. It is called once per
// Generator; a second call draws further from the same sub-stream and
// appends those edits to the existing plan.
func (g *Generator) GenerateMutations() {
	for pos := 0; pos < g.length; pos++ {
		if g.sub.Float64() >= g.rate {
			continue
		}
		switch model.EditKind(g.sub.Intn(4)) {
		case model.EditSubstitution:
			g.plan = append(g.plan, model.Edit{Kind: model.EditSubstitution, Position: pos, Bits: []uint8{uint8(g.sub.Intn(2))}})
		case model.EditInsertion:
			g.plan = append(g.plan, model.Edit{Kind: model.EditInsertion, Position: pos, Bits: []uint8{uint8(g.sub.Intn(2))}})
		case model.EditDeletion:
			g.plan = append(g.plan, model.Edit{Kind: model.EditDeletion, Position: pos, Span: 1})
		case model.EditInversion:
			span := 1 + g.sub.Intn(4)
			g.plan = append(g.plan, model.Edit{Kind: model.EditInversion, Position: pos, Span: span})
		}
	}
}

// HasMutate reports whether the plan is non-empty.
func (g *Generator) HasMutate() bool { return len(g.plan) > 0 }

// Plan returns the generated edit list.
func (g *Generator) Plan() []model.Edit { return g.plan }

// Apply clones src, applies every edit in plan in order against the
// evolving bit slice, and returns the resulting genome with both the
// promoter and terminator indices freshly rebuilt via a full scan — a
// deliberately simple way to satisfy the contract's "promoters_ reflects
// the new genome" requirement without an incremental promoter-patching
// scheme, which the specification does not mandate.
func Apply(src *genome.Genome, plan []model.Edit) *genome.Genome {
	bits := append([]uint8(nil), src.Bits()...)

	for _, e := range plan {
		l := len(bits)
		if l == 0 {
			break
		}
		pos := ((e.Position % l) + l) % l
		switch e.Kind {
		case model.EditSubstitution:
			bits[pos] = e.Bits[0]
		case model.EditInsertion:
			bits = append(bits[:pos], append(append([]uint8{}, e.Bits[0]), bits[pos:]...)...)
		case model.EditDeletion:
			bits = append(bits[:pos], bits[pos+1:]...)
		case model.EditInversion:
			span := e.Span
			if span > len(bits) {
				span = len(bits)
			}
			for i, j := 0, span-1; i < j; i, j = i+1, j-1 {
				pi := (pos + i) % len(bits)
				pj := (pos + j) % len(bits)
				bits[pi], bits[pj] = bits[pj], bits[pi]
			}
		}
	}

	out := genome.New(bits)
	out.FullScan()
	return out
}
