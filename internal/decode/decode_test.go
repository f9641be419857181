package decode

import (
	"testing"

	"github.com/qferro/aevol-optim/internal/genome"
	"github.com/qferro/aevol-optim/internal/model"
)

func TestGrayDecodeWorkedExample(t *testing.T) {
	bits := make([]uint8, 30)
	// Codons M1, M0, M0 starting at position 13 (protein_start=0 + spacer 13).
	codons := []uint8{0, 1, 1, 0, 1, 0, 0, 1, 0}
	copy(bits[13:], codons)

	g := genome.New(bits)
	p := &model.Protein{ProteinStart: 0, ProteinLength: 9, Expression: 1.0}
	Protein(g, p)

	if p.M != model.XMax {
		t.Fatalf("m = %v, want X_MAX = %v", p.M, model.XMax)
	}
	if p.ProteinLength != 3 {
		t.Fatalf("consumed codon count = %d, want 3", p.ProteinLength)
	}
}

func TestDecodeRangeInvariant(t *testing.T) {
	bits := make([]uint8, 300)
	for i := range bits {
		bits[i] = uint8((i * 13) % 2)
	}
	g := genome.New(bits)

	for start := 0; start < 20; start++ {
		p := &model.Protein{ProteinStart: start, ProteinLength: 60, Expression: 1.0}
		Protein(g, p)
		if p.M < model.XMin || p.M > model.XMax {
			t.Fatalf("m = %v out of range [%v,%v]", p.M, model.XMin, model.XMax)
		}
		if p.W < model.WMin || p.W > model.WMax {
			t.Fatalf("w = %v out of range [%v,%v]", p.W, model.WMin, model.WMax)
		}
		if p.H < model.HMin || p.H > model.HMax {
			t.Fatalf("h = %v out of range [%v,%v]", p.H, model.HMin, model.HMax)
		}
	}
}

func TestNonFunctionalWhenAnyCodonClassAbsent(t *testing.T) {
	// Only W codons: nb_m and nb_h stay zero, protein must be non-functional.
	bits := make([]uint8, 30)
	codons := []uint8{1, 0, 0, 1, 0, 1}
	copy(bits[13:], codons)

	g := genome.New(bits)
	p := &model.Protein{ProteinStart: 0, ProteinLength: 6, Expression: 1.0}
	Protein(g, p)

	if p.IsFunctional {
		t.Fatalf("protein missing M/H codons should not be functional")
	}
}
