package phenotype

import "github.com/qferro/aevol-optim/internal/model"

// Fold sums each functional, is_init protein's triangle contribution into
// two scratch curves (activating, inhibiting), clamps them asymmetrically,
// and combines them into the final bounded phenotype curve.
func Fold(proteins []model.Protein) [model.PhenotypeSamples]float64 {
	var activ, inhib [model.PhenotypeSamples]float64

	for _, p := range proteins {
		if !p.IsInit || !p.IsFunctional {
			continue
		}
		if absf(p.W) < 1e-15 || absf(p.H) < 1e-15 {
			continue
		}

		x0 := p.M - p.W
		x1 := p.M
		x2 := p.M + p.W

		ix0 := clampIndex(int(x0 * model.PhenotypeSamples))
		ix1 := clampIndex(int(x1 * model.PhenotypeSamples))
		ix2 := clampIndex(int(x2 * model.PhenotypeSamples))

		peak := p.H * p.Expression
		bucket := &activ
		if p.H <= 0 {
			bucket = &inhib
		}

		if ix1 != ix0 {
			inc := peak / float64(ix1-ix0)
			count := 1
			for i := ix0 + 1; i < ix1; i++ {
				bucket[i] += inc * float64(count)
				count++
			}
		}
		bucket[ix1] += peak

		if ix2 != ix1 {
			inc := peak / float64(ix2-ix1)
			count := 1
			for i := ix1 + 1; i < ix2; i++ {
				bucket[i] += peak - inc*float64(count)
				count++
			}
		}
	}

	for i := 0; i < model.PhenotypeSamples; i++ {
		if activ[i] > 1 {
			activ[i] = 1
		}
		if inhib[i] < -1 {
			inhib[i] = -1
		}
	}

	var out [model.PhenotypeSamples]float64
	for i := 0; i < model.PhenotypeSamples; i++ {
		v := activ[i] + inhib[i]
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		out[i] = v
	}
	return out
}

func clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i > model.PhenotypeSamples-1 {
		return model.PhenotypeSamples - 1
	}
	return i
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
