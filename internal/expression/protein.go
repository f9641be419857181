package expression

import (
	"github.com/qferro/aevol-optim/internal/genome"
	"github.com/qferro/aevol-optim/internal/model"
)

// FindGeneStarts scans the coding portion of an RNA (from begin+PromSize up
// to, but excluding, end) for Shine-Dalgarno/start-codon candidates and
// appends them, in scan order, to rna.GeneStarts. Only RNAs with length
// >= PromSize carry a coding portion worth scanning.
func FindGeneStarts(g *genome.Genome, rna *model.RNA) {
	if rna.Length < model.PromSize {
		return
	}
	l := g.Len()
	c := (rna.Begin + model.PromSize) % l
	for c != rna.End {
		if g.ShineDalStart(c) {
			rna.GeneStarts = append(rna.GeneStarts, c)
		}
		c = (c + 1) % l
	}
}

// DelineateProteins walks the reading frame from each of an RNA's gene-start
// candidates until it finds an in-frame stop codon within the RNA's
// transcript, or runs out of unread bases. It marks rna.Coding when at
// least one protein is emitted.
func DelineateProteins(g *genome.Genome, rna *model.RNA) []model.Protein {
	l := g.Len()
	transcribedStart := (rna.Begin + model.PromSize) % l

	var proteins []model.Protein
	for _, s := range rna.GeneStarts {
		current := (s + model.StartCodonSpacer) % l

		var transcriptionLength int
		if transcribedStart <= s {
			transcriptionLength = s - transcribedStart
		} else {
			transcriptionLength = l - transcribedStart + s
		}
		transcriptionLength += model.StartCodonSpacer

		for rna.Length-transcriptionLength >= 3 {
			if g.ProteinStop(current) {
				proteinEnd := (current + 2) % l

				var protLength int
				start13 := s + model.StartCodonSpacer
				if start13 < proteinEnd {
					protLength = proteinEnd - start13
				} else {
					protLength = l - start13 + proteinEnd
				}

				if protLength >= 3 {
					proteins = append(proteins, model.Protein{
						ProteinStart:  s,
						ProteinEnd:    proteinEnd,
						ProteinLength: protLength,
						Expression:    rna.Expression,
						IsInit:        true,
					})
					rna.Coding = true
				}
				break
			}
			current = (current + 3) % l
			transcriptionLength += 3
		}
	}
	return proteins
}

// MergeDuplicates folds proteins that share a protein_start (across all
// RNAs of one organism) into a single is_init protein whose expression is
// the sum; every other copy is marked not-init. Merging happens in the
// order proteins were appended, so the first occurrence of a given start is
// the one kept.
func MergeDuplicates(proteins []model.Protein) []model.Protein {
	lookup := make(map[int]int, len(proteins))
	for i := range proteins {
		if !proteins[i].IsInit {
			continue
		}
		if kept, ok := lookup[proteins[i].ProteinStart]; ok {
			proteins[kept].Expression += proteins[i].Expression
			proteins[i].IsInit = false
			continue
		}
		lookup[proteins[i].ProteinStart] = i
	}
	return proteins
}
