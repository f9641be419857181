// Package expression turns a genome's promoter/terminator indices into RNA
// segments and, from those, into delineated proteins.
package expression

import (
	"github.com/qferro/aevol-optim/internal/genome"
	"github.com/qferro/aevol-optim/internal/model"
)

// FullScanRNAs builds the RNA list by walking forward, bit by bit, from
// each promoter until a terminator is found or the scan wraps back on
// itself without ever finding one. It matches genome.Genome.FullScan's
// full-recompute semantics and is the reference the optimized variant must
// agree with.
func FullScanRNAs(g *genome.Genome) []model.RNA {
	l := g.Len()
	if l < model.PromSize {
		return nil
	}

	rnas := make([]model.RNA, 0, len(g.PromoterOrder))
	for _, p := range g.PromoterOrder {
		d := g.Promoters[p]

		start := (p + model.PromSize) % l
		q := start
		found := false
		for {
			if g.IsTerminatorAt(q) {
				found = true
				break
			}
			q = (q + 1) % l
			if q == start {
				break
			}
		}
		if !found {
			continue
		}

		end := (q + 10) % l
		length := g.CircularDistance(p, end) - 21
		if length > 0 {
			rnas = append(rnas, model.RNA{
				Begin:      p,
				End:        end,
				Length:     length,
				Expression: 1.0 - float64(d)/5.0,
			})
		}
	}
	return rnas
}

// OptimizedRNAs builds the RNA list using the ordered terminator set and a
// lower-bound lookup from (p+PromSize) mod L, the equivalent-result variant
// preferred once a full scan has already populated the terminator index.
func OptimizedRNAs(g *genome.Genome) []model.RNA {
	l := g.Len()
	if l < model.PromSize || len(g.Terminators) == 0 {
		return nil
	}

	rnas := make([]model.RNA, 0, len(g.PromoterOrder))
	for _, p := range g.PromoterOrder {
		d := g.Promoters[p]

		k := (p + model.PromSize) % l
		term, ok := g.LowerBoundTerminator(k)
		if !ok {
			continue
		}

		end := (term + 10) % l
		length := g.CircularDistance(p, end) - 21
		if length > 0 {
			rnas = append(rnas, model.RNA{
				Begin:      p,
				End:        end,
				Length:     length,
				Expression: 1.0 - float64(d)/5.0,
			})
		}
	}
	return rnas
}
