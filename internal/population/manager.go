package population

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/qferro/aevol-optim/internal/aevolrand"
	"github.com/qferro/aevol-optim/internal/model"
	"github.com/qferro/aevol-optim/internal/mutation"
	"github.com/qferro/aevol-optim/internal/organism"
	"github.com/qferro/aevol-optim/internal/phenotype"
)

// ExperimentManager owns the double-buffered population and drives one
// generation at a time: selection, mutation, expression, then the
// best-individual scan that closes out the generation. Mean fitness is
// computed on demand by MeanFitness.
type ExperimentManager struct {
	RunID             string
	Generation        int
	BackupStep        int
	MutationRate      float64
	SelectionPressure float64
	// SavedAtRFC is the timestamp of the checkpoint this manager was loaded
	// from, formatted by the checkpoint package; empty for a fresh run.
	SavedAtRFC string

	Pop      *Population
	Env      *phenotype.Environment
	Streamer *aevolrand.Streamer

	BestIndiv *organism.Organism
}

// Config is the set of parameters needed to seed a fresh run.
type Config struct {
	GridWidth         int
	GridHeight        int
	Seed              uint64
	MutationRate      float64
	InitLength        int
	SelectionPressure float64
	BackupStep        int
}

func (c Config) validate() error {
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return fmt.Errorf("population: grid dimensions must be positive, got %dx%d", c.GridWidth, c.GridHeight)
	}
	if c.InitLength < 22 {
		return fmt.Errorf("population: init length must be at least 22 (PROM_SIZE), got %d", c.InitLength)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("population: mutation rate must be in [0,1], got %v", c.MutationRate)
	}
	if c.SelectionPressure <= 0 {
		return fmt.Errorf("population: selection pressure must be positive, got %v", c.SelectionPressure)
	}
	if c.BackupStep <= 0 {
		return fmt.Errorf("population: backup step must be positive, got %d", c.BackupStep)
	}
	return nil
}

// NewExperimentManager searches for a viable founder organism, clones it
// across every cell (sharing the single founder handle, since every cell
// starts out identical), and returns a manager ready to run generations.
func NewExperimentManager(cfg Config) (*ExperimentManager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	env := phenotype.NewEnvironment()
	streamer := aevolrand.New(cfg.GridWidth, cfg.GridHeight, cfg.Seed)
	founderSub := streamer.Sub(0, 0, model.PurposeMutation)

	founder := organism.FindFounder(cfg.InitLength, func() int { return founderSub.Intn(2) }, env, cfg.SelectionPressure)

	pop := New(cfg.GridWidth, cfg.GridHeight)
	for i := range pop.Prev {
		pop.Prev[i] = founder
	}

	mgr := &ExperimentManager{
		RunID:             uuid.NewString(),
		BackupStep:        cfg.BackupStep,
		MutationRate:      cfg.MutationRate,
		SelectionPressure: cfg.SelectionPressure,
		Pop:               pop,
		Env:               env,
		Streamer:          streamer,
		BestIndiv:         founder,
	}
	return mgr, nil
}

// RunGeneration advances the population by one generation: for every cell,
// select a parent, draw a mutation plan, clone-and-mutate or share the
// parent handle, and (when mutated) re-express. It then swaps the buffers
// and scans prev_gen for the new best individual.
func (m *ExperimentManager) RunGeneration() {
	for id := 0; id < m.Pop.N(); id++ {
		parentID := m.Pop.SelectParent(m.Generation, id, m.Streamer)
		parent := m.Pop.Prev[parentID]

		sub := m.Streamer.Sub(m.Generation, id, model.PurposeMutation)
		gen := mutation.NewGenerator(sub, parent.Genome.Len(), m.MutationRate)
		gen.GenerateMutations()

		if gen.HasMutate() {
			childGenome := mutation.Apply(parent.Genome, gen.Plan())
			child := organism.New(childGenome)
			child.MutationCount = len(gen.Plan())
			child.Express(m.Env, m.SelectionPressure)
			m.Pop.Cur[id] = child
		} else {
			parent.ResetMutationStats()
			m.Pop.Cur[id] = parent
		}
	}

	m.Pop.Swap()
	m.Generation++
	m.BestIndiv = m.findBest()
}

func (m *ExperimentManager) findBest() *organism.Organism {
	best := m.Pop.Prev[0]
	for _, o := range m.Pop.Prev[1:] {
		if o.Fitness > best.Fitness {
			best = o
		}
	}
	return best
}

// MeanFitness returns the population's mean prev_gen fitness.
func (m *ExperimentManager) MeanFitness() float64 {
	var sum float64
	for _, o := range m.Pop.Prev {
		sum += o.Fitness
	}
	return sum / float64(m.Pop.N())
}

// EnsureDirs creates the backup/ and stats/ directories relative to root,
// tolerating pre-existing directories the same way the reference
// implementation's mkdir(...)+EEXIST check does.
func (m *ExperimentManager) EnsureDirs(root string) error {
	for _, dir := range []string{"backup", "stats"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return fmt.Errorf("population: create %s directory: %w", dir, err)
		}
	}
	return nil
}
