// Package population implements the double-buffered population grid,
// Moore-neighborhood fitness-proportionate selection, and the
// per-generation orchestration that drives reproduction and expression.
package population

import (
	"github.com/qferro/aevol-optim/internal/aevolrand"
	"github.com/qferro/aevol-optim/internal/model"
	"github.com/qferro/aevol-optim/internal/organism"
)

// Population holds the two equally sized organism buffers. Cell id
// linearizes grid coordinates as id = x*Height + y; CellID/Coords must
// stay the inverse of each other, since selection's offset math depends on
// this exact convention.
type Population struct {
	Width  int
	Height int
	Prev   []*organism.Organism
	Cur    []*organism.Organism
}

// New allocates a Width*Height population with both buffers empty.
func New(width, height int) *Population {
	n := width * height
	return &Population{
		Width:  width,
		Height: height,
		Prev:   make([]*organism.Organism, n),
		Cur:    make([]*organism.Organism, n),
	}
}

// N returns the fixed population size.
func (p *Population) N() int { return p.Width * p.Height }

// CellID linearizes grid coordinates.
func (p *Population) CellID(x, y int) int { return x*p.Height + y }

// Coords is the inverse of CellID.
func (p *Population) Coords(id int) (x, y int) { return id / p.Height, id % p.Height }

// Swap rotates cur_gen into prev_gen and zeroes cur_gen for the next pass.
func (p *Population) Swap() {
	p.Prev, p.Cur = p.Cur, p.Prev
	for i := range p.Cur {
		p.Cur[i] = nil
	}
}

func wrap(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

// SelectParent draws a parent cell id for child cell id from its 3x3
// toroidal Moore neighborhood in prev_gen, weighted by fitness. A
// neighborhood whose fitness sums to zero falls back to a uniform draw.
func (p *Population) SelectParent(generation, id int, streamer *aevolrand.Streamer) int {
	x, y := p.Coords(id)

	var fits [9]float64
	var sum float64
	idx := 0
	for i := -1; i < 2; i++ {
		for j := -1; j < 2; j++ {
			cx := wrap(x+i, p.Width)
			cy := wrap(y+j, p.Height)
			fits[idx] = p.Prev[p.CellID(cx, cy)].Fitness
			sum += fits[idx]
			idx++
		}
	}

	var probs [9]float64
	if sum == 0 {
		for k := range probs {
			probs[k] = 1.0 / 9.0
		}
	} else {
		for k := range probs {
			probs[k] = fits[k] / sum
		}
	}

	sub := streamer.Sub(generation, id, model.PurposeReproduction)
	k := sub.RouletteRandom(probs[:], 9)

	xOffset := k/3 - 1
	yOffset := k%3 - 1
	px := wrap(x+xOffset, p.Width)
	py := wrap(y+yOffset, p.Height)
	return p.CellID(px, py)
}
