// Package decode implements the Gray-coded codon-to-trait decoder: it walks
// a protein's coding region and folds each codon into one of three
// accumulators (M, W, H), then normalizes and affine-scales them into the
// phenotypic trait ranges.
package decode

import (
	"math"

	"github.com/qferro/aevol-optim/internal/genome"
	"github.com/qferro/aevol-optim/internal/model"
)

// Protein reads the protein's coding region from the genome, decodes it
// into (m, w, h), and updates p.M, p.W, p.H, p.ProteinLength and
// p.IsFunctional in place. ProteinLength is reduced to the number of
// codons actually consumed (capped at MaxCodonsPerProtein).
func Protein(g *genome.Genome, p *model.Protein) {
	l := g.Len()
	pos := (p.ProteinStart + model.StartCodonSpacer) % l

	var codons []model.Codon
	maxCodons := p.ProteinLength / model.CodonSize
	for i := 0; i < maxCodons && len(codons) < model.MaxCodonsPerProtein; i++ {
		codons = append(codons, g.CodonAt(pos))
		pos = (pos + model.CodonSize) % l
	}

	var m, w, h float64
	var nbM, nbW, nbH int
	var binM, binW, binH bool

	for _, c := range codons {
		switch c {
		case model.CodonM0:
			nbM++
			m *= 2
			if binM {
				m++
			}
		case model.CodonM1:
			nbM++
			binM = !binM
			m *= 2
			if binM {
				m++
			}
		case model.CodonW0:
			nbW++
			w *= 2
			if binW {
				w++
			}
		case model.CodonW1:
			nbW++
			binW = !binW
			w *= 2
			if binW {
				w++
			}
		case model.CodonH0, model.CodonStart:
			nbH++
			h *= 2
			if binH {
				h++
			}
		case model.CodonH1:
			nbH++
			binH = !binH
			h *= 2
			if binH {
				h++
			}
		}
	}

	p.ProteinLength = len(codons)

	normM := 0.5
	if nbM != 0 {
		normM = m / (math.Pow(2, float64(nbM)) - 1)
	}
	normW := 0.0
	if nbW != 0 {
		normW = w / (math.Pow(2, float64(nbW)) - 1)
	}
	normH := 0.5
	if nbH != 0 {
		normH = h / (math.Pow(2, float64(nbH)) - 1)
	}

	p.M = (model.XMax-model.XMin)*normM + model.XMin
	p.W = (model.WMax-model.WMin)*normW + model.WMin
	p.H = (model.HMax-model.HMin)*normH + model.HMin

	p.IsFunctional = nbM != 0 && nbW != 0 && nbH != 0 && p.W != 0.0 && p.H != 0.0
}
