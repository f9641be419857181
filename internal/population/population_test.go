package population

import (
	"testing"

	"github.com/qferro/aevol-optim/internal/aevolrand"
	"github.com/qferro/aevol-optim/internal/genome"
	"github.com/qferro/aevol-optim/internal/organism"
)

func fakeOrganism(fitness float64) *organism.Organism {
	g := genome.New(make([]uint8, 40))
	g.FullScan()
	o := organism.New(g)
	o.Fitness = fitness
	return o
}

func TestCellIDConventionRoundTrips(t *testing.T) {
	p := New(4, 4)
	for x := 0; x < p.Width; x++ {
		for y := 0; y < p.Height; y++ {
			id := p.CellID(x, y)
			gx, gy := p.Coords(id)
			if gx != x || gy != y {
				t.Fatalf("CellID/Coords round trip failed for (%d,%d): got (%d,%d)", x, y, gx, gy)
			}
		}
	}
}

func TestToroidalNeighborhoodOrder(t *testing.T) {
	p := New(4, 4)
	x, y := p.Coords(0)
	if x != 0 || y != 0 {
		t.Fatalf("cell id 0 should be (0,0), got (%d,%d)", x, y)
	}

	want := [][2]int{
		{3, 3}, {3, 0}, {3, 1},
		{0, 3}, {0, 0}, {0, 1},
		{1, 3}, {1, 0}, {1, 1},
	}
	idx := 0
	for i := -1; i < 2; i++ {
		for j := -1; j < 2; j++ {
			cx := wrap(x+i, p.Width)
			cy := wrap(y+j, p.Height)
			if cx != want[idx][0] || cy != want[idx][1] {
				t.Fatalf("neighbor %d = (%d,%d), want (%d,%d)", idx, cx, cy, want[idx][0], want[idx][1])
			}
			idx++
		}
	}
}

func TestUniformFitnessSelectionReturnsValidParents(t *testing.T) {
	p := New(3, 3)
	for i := range p.Prev {
		p.Prev[i] = fakeOrganism(2.5)
	}
	streamer := aevolrand.New(3, 3, 1)

	seen := map[int]bool{}
	for id := 0; id < p.N(); id++ {
		parent := p.SelectParent(0, id, streamer)
		if parent < 0 || parent >= p.N() {
			t.Fatalf("selected parent %d out of range", parent)
		}
		seen[parent] = true
	}
	if len(seen) == 0 {
		t.Fatalf("expected at least one parent to be selected")
	}
}

func TestZeroFitnessNeighborhoodFallsBackToUniform(t *testing.T) {
	p := New(3, 3)
	for i := range p.Prev {
		p.Prev[i] = fakeOrganism(0)
	}
	streamer := aevolrand.New(3, 3, 1)
	parent := p.SelectParent(0, 4, streamer)
	if parent < 0 || parent >= p.N() {
		t.Fatalf("zero-fitness neighborhood must still return a valid cell, got %d", parent)
	}
}
