// Command aevol drives an evolutionary run from the command line: start
// one fresh, resume one from its latest checkpoint, or print the stats
// series already recorded for a run directory.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/qferro/aevol-optim/internal/checkpoint"
	"github.com/qferro/aevol-optim/internal/config"
	"github.com/qferro/aevol-optim/internal/population"
	"github.com/qferro/aevol-optim/internal/stats"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}
	switch args[0] {
	case "run":
		return runFresh(args[1:])
	case "resume":
		return runResume(args[1:])
	case "stats":
		return runStats(args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: aevol <run|resume|stats> [flags]", msg)
}

func runFresh(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	cfg := config.Default()
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	mgr, err := population.NewExperimentManager(cfg.PopulationConfig())
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if err := mgr.EnsureDirs(cfg.Root); err != nil {
		return err
	}
	return drive(cfg, mgr)
}

func runResume(args []string) error {
	fs := flag.NewFlagSet("resume", flag.ContinueOnError)
	cfg := config.Default()
	cfg.BindFlags(fs)
	generation := fs.Int("from-generation", 0, "checkpoint generation to resume from")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	mgr, err := checkpoint.Load(cfg.Root, *generation)
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	mgr.SelectionPressure = cfg.SelectionPressure
	return drive(cfg, mgr)
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	root := fs.String("root", ".", "run directory")
	runID := fs.String("run-id", "", "run id whose CSV series to print")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return fmt.Errorf("stats: -run-id is required")
	}

	data, err := os.ReadFile(stats.NewCSVWriter(*root, *runID).Path())
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

// drive runs mgr for cfg.Generations generations, recording per-generation
// stats and checkpointing every BackupStep generations.
func drive(cfg config.Config, mgr *population.ExperimentManager) error {
	archive, err := stats.NewArchive(cfg.ArchiveKind, cfg.ArchivePath)
	if err != nil {
		return err
	}
	if err := archive.Init(); err != nil {
		return fmt.Errorf("stats archive: %w", err)
	}
	defer archive.Close()

	csvWriter := stats.NewCSVWriter(cfg.Root, mgr.RunID)
	interactive := isatty.IsTerminal(os.Stdout.Fd())

	for i := 0; i < cfg.Generations; i++ {
		mgr.RunGeneration()

		rec := stats.RecordFromManager(mgr, time.Now())
		if err := csvWriter.Append(rec); err != nil {
			return fmt.Errorf("stats csv: %w", err)
		}
		if err := archive.Append(rec); err != nil {
			return fmt.Errorf("stats archive: %w", err)
		}

		if mgr.Generation%mgr.BackupStep == 0 {
			if err := checkpoint.Save(mgr, cfg.Root); err != nil {
				return fmt.Errorf("checkpoint: %w", err)
			}
		}
		printProgress(interactive, mgr.Generation, cfg.Generations, mgr.BestIndiv.Fitness)
	}
	if !interactive {
		fmt.Println()
	}
	return nil
}

func printProgress(interactive bool, generation, total int, best float64) {
	line := fmt.Sprintf("generation %s/%s best_fitness=%.6f", humanize.Comma(int64(generation)), humanize.Comma(int64(total)), best)
	if interactive {
		fmt.Printf("\r%s", line)
		return
	}
	fmt.Println(line)
}
