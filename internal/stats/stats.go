// Package stats records per-generation run statistics to disk: a CSV
// series always written under stats/<run_id>.csv, and an optional
// SQLite-backed archive selected at build time.
package stats

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/qferro/aevol-optim/internal/population"
)

// GenerationRecord is one row of the per-generation series.
type GenerationRecord struct {
	RunID         string
	Generation    int
	BestFitness   float64
	MeanFitness   float64
	BestMetaerror float64
	RecordedAt    time.Time
}

// RecordFromManager builds a GenerationRecord from a manager's current
// state without re-expressing any organism: BestIndiv is the one
// RunGeneration last selected, and MeanFitness sums the stored prev_gen
// fitness values.
func RecordFromManager(mgr *population.ExperimentManager, at time.Time) GenerationRecord {
	return GenerationRecord{
		RunID:         mgr.RunID,
		Generation:    mgr.Generation,
		BestFitness:   mgr.BestIndiv.Fitness,
		MeanFitness:   mgr.MeanFitness(),
		BestMetaerror: mgr.BestIndiv.Metaerror,
		RecordedAt:    at,
	}
}

// CSVWriter appends one row per generation to a run-scoped CSV file,
// writing the header only the first time the file is created.
type CSVWriter struct {
	path string
}

// NewCSVWriter builds a writer targeting root/stats/<runID>.csv.
func NewCSVWriter(root, runID string) *CSVWriter {
	return &CSVWriter{path: filepath.Join(root, "stats", runID+".csv")}
}

// Path returns the CSV file this writer appends to.
func (w *CSVWriter) Path() string { return w.path }

// Append writes one record, creating the file and its header on first use.
func (w *CSVWriter) Append(rec GenerationRecord) error {
	_, statErr := os.Stat(w.path)
	needsHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("stats: open %s: %w", w.path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write([]string{"generation", "run_id", "recorded_at", "best_fitness", "mean_fitness", "best_metaerror"}); err != nil {
			return fmt.Errorf("stats: write header: %w", err)
		}
	}
	row := []string{
		strconv.Itoa(rec.Generation),
		rec.RunID,
		strftime.Format("%Y-%m-%dT%H:%M:%S", rec.RecordedAt),
		strconv.FormatFloat(rec.BestFitness, 'f', -1, 64),
		strconv.FormatFloat(rec.MeanFitness, 'f', -1, 64),
		strconv.FormatFloat(rec.BestMetaerror, 'f', -1, 64),
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("stats: write row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// TouchedCount reports how many organisms in prev_gen were (re)computed
// this generation, letting a caller decide whether an expensive archive
// write is worth doing for an otherwise static population.
func TouchedCount(pop *population.Population) int {
	n := 0
	for _, o := range pop.Prev {
		if o.Touched {
			n++
		}
	}
	return n
}
