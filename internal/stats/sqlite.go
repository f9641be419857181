//go:build sqlite

package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ncruces/go-strftime"

	_ "modernc.org/sqlite"
)

// sqliteArchive appends every generation record to a single "generations"
// table, keyed by (run_id, generation), so a resumed run overwrites the
// tail of an interrupted archive rather than duplicating it.
type sqliteArchive struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

func newSQLiteArchive(path string) (Archive, error) {
	if path == "" {
		return nil, errors.New("stats: sqlite archive path is required")
	}
	return &sqliteArchive{path: path}, nil
}

func (a *sqliteArchive) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", a.path)
	if err != nil {
		return fmt.Errorf("stats: open sqlite archive: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return fmt.Errorf("stats: ping sqlite archive: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			recorded_at TEXT NOT NULL,
			best_fitness REAL NOT NULL,
			mean_fitness REAL NOT NULL,
			best_metaerror REAL NOT NULL,
			PRIMARY KEY (run_id, generation)
		)
	`); err != nil {
		_ = db.Close()
		return fmt.Errorf("stats: create generations table: %w", err)
	}

	a.db = db
	return nil
}

func (a *sqliteArchive) Append(rec GenerationRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db == nil {
		return errors.New("stats: sqlite archive is not initialized")
	}
	_, err := a.db.Exec(`
		INSERT INTO generations (run_id, generation, recorded_at, best_fitness, mean_fitness, best_metaerror)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			recorded_at = excluded.recorded_at,
			best_fitness = excluded.best_fitness,
			mean_fitness = excluded.mean_fitness,
			best_metaerror = excluded.best_metaerror
	`, rec.RunID, rec.Generation, formatTimestamp(rec.RecordedAt), rec.BestFitness, rec.MeanFitness, rec.BestMetaerror)
	return err
}

func (a *sqliteArchive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func formatTimestamp(t time.Time) string {
	return strftime.Format("%Y-%m-%dT%H:%M:%S", t)
}
