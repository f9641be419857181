// Package config loads and validates the settings a run needs, whether
// starting fresh or resuming from a checkpoint: grid shape, PRNG seed,
// mutation rate, selection pressure, and where to write backups, stats,
// and an optional SQLite archive.
package config

import (
	"flag"
	"fmt"

	"github.com/qferro/aevol-optim/internal/population"
)

// Config is the full set of parameters a run subcommand needs, beyond
// what a resumed run already carries in its checkpoint.
type Config struct {
	Root string

	GridWidth         int
	GridHeight        int
	Seed              uint64
	MutationRate      float64
	InitLength        int
	SelectionPressure float64
	BackupStep        int
	Generations       int

	ArchiveKind string
	ArchivePath string
}

// Default returns the CLI's baseline settings, matching the reference
// implementation's defaults where they carried over into the founder
// search and reproduction contract.
func Default() Config {
	return Config{
		Root:              ".",
		GridWidth:         32,
		GridHeight:        32,
		Seed:              1,
		MutationRate:      1e-5,
		InitLength:        5000,
		SelectionPressure: 1000,
		BackupStep:        100,
		Generations:       1000,
		ArchiveKind:       "none",
		ArchivePath:       "",
	}
}

// BindFlags registers c's fields on fs, using c's current values as
// defaults, so callers can start from Default() and let the command line
// override individual fields.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Root, "root", c.Root, "run directory (holds backup/ and stats/)")
	fs.IntVar(&c.GridWidth, "width", c.GridWidth, "population grid width")
	fs.IntVar(&c.GridHeight, "height", c.GridHeight, "population grid height")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "PRNG seed")
	fs.Float64Var(&c.MutationRate, "mutation-rate", c.MutationRate, "per-base mutation rate")
	fs.IntVar(&c.InitLength, "init-length", c.InitLength, "founder genome length in bits")
	fs.Float64Var(&c.SelectionPressure, "selection-pressure", c.SelectionPressure, "fitness exponent's selection pressure")
	fs.IntVar(&c.BackupStep, "backup-step", c.BackupStep, "generations between checkpoints")
	fs.IntVar(&c.Generations, "generations", c.Generations, "number of generations to run")
	fs.StringVar(&c.ArchiveKind, "archive", c.ArchiveKind, "stats archive backend: none|sqlite")
	fs.StringVar(&c.ArchivePath, "archive-path", c.ArchivePath, "path to the stats archive database")
}

// Validate checks c beyond what population.Config.validate already
// enforces at manager-construction time: the CLI-only fields that never
// reach the manager.
func (c Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("config: root directory is required")
	}
	if c.Generations <= 0 {
		return fmt.Errorf("config: generations must be positive, got %d", c.Generations)
	}
	switch c.ArchiveKind {
	case "", "none", "sqlite":
	default:
		return fmt.Errorf("config: unsupported archive backend %q", c.ArchiveKind)
	}
	if c.ArchiveKind == "sqlite" && c.ArchivePath == "" {
		return fmt.Errorf("config: archive-path is required when archive=sqlite")
	}
	return nil
}

// PopulationConfig projects the fields population.NewExperimentManager
// needs out of c.
func (c Config) PopulationConfig() population.Config {
	return population.Config{
		GridWidth:         c.GridWidth,
		GridHeight:        c.GridHeight,
		Seed:              c.Seed,
		MutationRate:      c.MutationRate,
		InitLength:        c.InitLength,
		SelectionPressure: c.SelectionPressure,
		BackupStep:        c.BackupStep,
	}
}
