package stats

import "fmt"

// Archive persists a run's generation series somewhere queryable beyond
// the flat CSV series, e.g. a SQLite database. The default build has no
// working archive backend; building with -tags sqlite swaps in one
// backed by modernc.org/sqlite.
type Archive interface {
	Init() error
	Append(rec GenerationRecord) error
	Close() error
}

// NewArchive builds the archive backend named by kind. "" and "none"
// return a no-op archive so callers can always call Append.
func NewArchive(kind, path string) (Archive, error) {
	switch kind {
	case "", "none":
		return noopArchive{}, nil
	case "sqlite":
		return newSQLiteArchive(path)
	default:
		return nil, fmt.Errorf("stats: unsupported archive backend %q", kind)
	}
}

type noopArchive struct{}

func (noopArchive) Init() error                    { return nil }
func (noopArchive) Append(_ GenerationRecord) error { return nil }
func (noopArchive) Close() error                   { return nil }
