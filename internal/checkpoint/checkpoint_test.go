package checkpoint

import (
	"testing"

	"github.com/qferro/aevol-optim/internal/population"
)

func testConfig() population.Config {
	return population.Config{
		GridWidth:         4,
		GridHeight:        4,
		Seed:              11,
		MutationRate:      1e-3,
		InitLength:        300,
		SelectionPressure: 1000,
		BackupStep:        10,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := testConfig()
	mgr, err := population.NewExperimentManager(cfg)
	if err != nil {
		t.Fatalf("NewExperimentManager: %v", err)
	}
	for i := 0; i < 10; i++ {
		mgr.RunGeneration()
	}

	root := t.TempDir()
	if err := mgr.EnsureDirs(root); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	if err := Save(mgr, root); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(root, mgr.Generation)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	loaded.SelectionPressure = cfg.SelectionPressure

	if loaded.Generation != mgr.Generation {
		t.Fatalf("loaded generation = %d, want %d", loaded.Generation, mgr.Generation)
	}
	if loaded.RunID != mgr.RunID {
		t.Fatalf("loaded run id = %q, want %q", loaded.RunID, mgr.RunID)
	}
	if loaded.MutationRate != mgr.MutationRate {
		t.Fatalf("loaded mutation rate = %v, want %v", loaded.MutationRate, mgr.MutationRate)
	}
	for i, o := range loaded.Pop.Prev {
		want := mgr.Pop.Prev[i]
		if o.Fitness != want.Fitness || o.Metaerror != want.Metaerror {
			t.Fatalf("cell %d scalars diverged: got (%v,%v) want (%v,%v)", i, o.Fitness, o.Metaerror, want.Fitness, want.Metaerror)
		}
		if o.Genome.Len() != want.Genome.Len() {
			t.Fatalf("cell %d genome length diverged: got %d want %d", i, o.Genome.Len(), want.Genome.Len())
		}
	}
}

func TestCheckpointRoundTripContinuesIdenticalTrace(t *testing.T) {
	cfgA := testConfig()
	cfgA.Seed = 21
	reference, err := population.NewExperimentManager(cfgA)
	if err != nil {
		t.Fatalf("NewExperimentManager: %v", err)
	}
	var referenceTrace []float64
	for i := 0; i < 20; i++ {
		reference.RunGeneration()
		referenceTrace = append(referenceTrace, reference.BestIndiv.Fitness)
	}

	cfgB := testConfig()
	cfgB.Seed = 21
	mgr, err := population.NewExperimentManager(cfgB)
	if err != nil {
		t.Fatalf("NewExperimentManager: %v", err)
	}
	for i := 0; i < 10; i++ {
		mgr.RunGeneration()
	}

	root := t.TempDir()
	if err := mgr.EnsureDirs(root); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	if err := Save(mgr, root); err != nil {
		t.Fatalf("Save: %v", err)
	}
	resumed, err := Load(root, mgr.Generation)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	resumed.SelectionPressure = cfgB.SelectionPressure

	var resumedTrace []float64
	for i := 0; i < 10; i++ {
		resumed.RunGeneration()
		resumedTrace = append(resumedTrace, resumed.BestIndiv.Fitness)
	}

	for i, want := range referenceTrace[10:] {
		if resumedTrace[i] != want {
			t.Fatalf("resumed trace diverged at generation %d: got %v want %v", 10+i, resumedTrace[i], want)
		}
	}
}
