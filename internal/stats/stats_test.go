package stats

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/qferro/aevol-optim/internal/population"
)

func TestCSVWriterCreatesHeaderOnce(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "stats"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	w := NewCSVWriter(root, "run-1")
	at := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)
	if err := w.Append(GenerationRecord{RunID: "run-1", Generation: 1, BestFitness: 0.5, MeanFitness: 0.3, BestMetaerror: 0.1, RecordedAt: at}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Append(GenerationRecord{RunID: "run-1", Generation: 2, BestFitness: 0.6, MeanFitness: 0.4, BestMetaerror: 0.08, RecordedAt: at}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "stats", "run-1.csv"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "generation,run_id") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
}

func TestNewArchiveNoneIsNoop(t *testing.T) {
	archive, err := NewArchive("", "")
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}
	if err := archive.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := archive.Append(GenerationRecord{}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := archive.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewArchiveRejectsUnknownBackend(t *testing.T) {
	if _, err := NewArchive("postgres", ""); err == nil {
		t.Fatalf("expected an error for an unsupported backend")
	}
}

func TestTouchedCountReflectsExpressedOrganisms(t *testing.T) {
	cfg := population.Config{
		GridWidth:         3,
		GridHeight:        3,
		Seed:              5,
		MutationRate:      1.0,
		InitLength:        300,
		SelectionPressure: 1000,
		BackupStep:        10,
	}
	mgr, err := population.NewExperimentManager(cfg)
	if err != nil {
		t.Fatalf("NewExperimentManager: %v", err)
	}
	mgr.RunGeneration()

	n := TouchedCount(mgr.Pop)
	if n != mgr.Pop.N() {
		t.Fatalf("touched count %d, want %d: a mutation rate of 1 mutates and re-expresses every child", n, mgr.Pop.N())
	}
}

func TestRecordFromManagerCopiesCurrentState(t *testing.T) {
	cfg := population.Config{
		GridWidth:         3,
		GridHeight:        3,
		Seed:              9,
		MutationRate:      1e-3,
		InitLength:        300,
		SelectionPressure: 1000,
		BackupStep:        10,
	}
	mgr, err := population.NewExperimentManager(cfg)
	if err != nil {
		t.Fatalf("NewExperimentManager: %v", err)
	}
	mgr.RunGeneration()

	at := time.Now()
	rec := RecordFromManager(mgr, at)
	if rec.RunID != mgr.RunID || rec.Generation != mgr.Generation {
		t.Fatalf("record does not reflect manager state: %+v", rec)
	}
	if rec.BestFitness != mgr.BestIndiv.Fitness {
		t.Fatalf("record best fitness = %v, want %v", rec.BestFitness, mgr.BestIndiv.Fitness)
	}
}
