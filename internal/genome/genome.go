// Package genome implements the circular bit-string genome and the
// position-level primitives (promoter, terminator, Shine-Dalgarno, stop
// codon, codon read) every later stage of the pipeline builds on.
package genome

import (
	"sort"

	"golang.org/x/exp/slices"

	"github.com/qferro/aevol-optim/internal/model"
)

// Genome is a circular sequence of bits plus the promoter/terminator
// indices derived from it. All position arithmetic on it is modulo Len().
type Genome struct {
	bits []uint8

	// Promoters maps a promoter position to its Hamming distance from the
	// consensus motif (0..4). PromoterOrder lists the same positions in
	// ascending order for deterministic iteration.
	Promoters     map[int]int
	PromoterOrder []int

	// Terminators lists terminator positions in ascending order, so the
	// optimized RNA-construction path can binary-search a lower bound.
	Terminators []int
}

// New wraps a bit slice (values 0/1) as a genome with empty indices. Callers
// that need indices populated should call FullScan afterwards.
func New(bits []uint8) *Genome {
	return &Genome{bits: bits, Promoters: map[int]int{}}
}

// Len returns the genome length L.
func (g *Genome) Len() int { return len(g.bits) }

// Bits returns the raw underlying bit slice. Callers must not mutate it
// without also invalidating the genome's promoter/terminator indices.
func (g *Genome) Bits() []uint8 { return g.bits }

// Clone returns a deep copy sharing no backing storage with g.
func (g *Genome) Clone() *Genome {
	bits := make([]uint8, len(g.bits))
	copy(bits, g.bits)
	c := New(bits)
	c.FullScan()
	return c
}

func mod(p, l int) int {
	p %= l
	if p < 0 {
		p += l
	}
	return p
}

// BitAt returns the bit at circular position p.
func (g *Genome) BitAt(p int) uint8 {
	l := len(g.bits)
	return g.bits[mod(p, l)]
}

// CircularDistance returns the forward distance from a to b walking around
// the circle in the direction of increasing position, in [0, L).
func (g *Genome) CircularDistance(a, b int) int {
	l := g.Len()
	a, b = mod(a, l), mod(b, l)
	if b >= a {
		return b - a
	}
	return l - a + b
}

// PromoterDistanceAt returns the Hamming distance between the 22-bit window
// starting at p and the fixed consensus motif.
func (g *Genome) PromoterDistanceAt(p int) int {
	dist := 0
	for i := 0; i < model.PromSize; i++ {
		if g.BitAt(p+i) != model.PromoterMotif[i] {
			dist++
		}
	}
	return dist
}

// terminatorWindowSize is the total span, in bits, of the hairpin window
// checked by TerminatorScoreAt: two stems around a fixed loop.
const terminatorWindowSize = 2*model.TermStemSize + model.TermLoopSize

// TerminatorScoreAt returns how many of the TermStemSize stem positions
// starting at p pair with their mirrored counterpart across the loop (a
// binary hairpin "pairs" when the two bits differ, the toy-model analogue
// of Watson-Crick complementarity). Maximum score is TermStemSize.
func (g *Genome) TerminatorScoreAt(p int) int {
	score := 0
	for k := 0; k < model.TermStemSize; k++ {
		left := g.BitAt(p + k)
		right := g.BitAt(p + model.TermStemSize + model.TermLoopSize + (model.TermStemSize - 1 - k))
		if left != right {
			score++
		}
	}
	return score
}

// IsTerminatorAt reports whether p qualifies as a terminator.
func (g *Genome) IsTerminatorAt(p int) bool {
	return g.TerminatorScoreAt(p) == model.TermStemSize
}

// ShineDalStart reports whether p begins a Shine-Dalgarno motif immediately
// followed (after the fixed gap) by a start codon.
func (g *Genome) ShineDalStart(p int) bool {
	for i := 0; i < model.ShineDalgarnoSize; i++ {
		if g.BitAt(p+i) != model.ShineDalgarnoMotif[i] {
			return false
		}
	}
	base := p + model.ShineDalgarnoSize + model.ShineDalgarnoToStart
	for i := 0; i < model.CodonSize; i++ {
		if g.BitAt(base+i) != model.StartCodonBits[i] {
			return false
		}
	}
	return true
}

// ProteinStop reports whether p begins a stop codon.
func (g *Genome) ProteinStop(p int) bool {
	for i := 0; i < model.CodonSize; i++ {
		if g.BitAt(p+i) != model.StopCodonBits[i] {
			return false
		}
	}
	return true
}

// CodonAt reads the 3-bit codon value starting at p.
func (g *Genome) CodonAt(p int) model.Codon {
	var v uint8
	for i := 0; i < model.CodonSize; i++ {
		v = (v << 1) | g.BitAt(p+i)
	}
	return model.Codon(v)
}

// FullScan rebuilds Promoters, PromoterOrder and Terminators by scanning
// every position once. Genomes shorter than PromSize yield no promoters
// and no terminators, matching the "undefined behavior is forbidden"
// requirement on short genomes.
func (g *Genome) FullScan() {
	g.Promoters = map[int]int{}
	g.PromoterOrder = g.PromoterOrder[:0]
	g.Terminators = g.Terminators[:0]

	l := g.Len()
	if l < model.PromSize {
		return
	}
	for p := 0; p < l; p++ {
		if d := g.PromoterDistanceAt(p); d <= 4 {
			g.Promoters[p] = d
			g.PromoterOrder = append(g.PromoterOrder, p)
		}
		if g.IsTerminatorAt(p) {
			g.Terminators = append(g.Terminators, p)
		}
	}
	sort.Ints(g.PromoterOrder)
}

// RebuildTerminators clears and rescans only the terminator index, leaving
// the promoter index untouched. Express calls this before every
// expression pass; on a genome that already went through FullScan (every
// mutated child does, via Apply) it is redundant but cheap, and it lets an
// organism be re-expressed without assuming its promoter index is stale.
func (g *Genome) RebuildTerminators() {
	g.Terminators = g.Terminators[:0]
	l := g.Len()
	if l < model.PromSize {
		return
	}
	for p := 0; p < l; p++ {
		if g.IsTerminatorAt(p) {
			g.Terminators = append(g.Terminators, p)
		}
	}
}

// LowerBoundTerminator returns the first terminator position >= from,
// wrapping to the first terminator overall if none qualifies. It reports
// ok=false only when there are no terminators at all.
func (g *Genome) LowerBoundTerminator(from int) (pos int, ok bool) {
	if len(g.Terminators) == 0 {
		return 0, false
	}
	idx, found := slices.BinarySearch(g.Terminators, from)
	if found {
		return g.Terminators[idx], true
	}
	if idx == len(g.Terminators) {
		return g.Terminators[0], true
	}
	return g.Terminators[idx], true
}
