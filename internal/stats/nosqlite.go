//go:build !sqlite

package stats

import "fmt"

func newSQLiteArchive(_ string) (Archive, error) {
	return nil, fmt.Errorf("stats: sqlite archive unavailable in this build; rebuild with -tags sqlite")
}
