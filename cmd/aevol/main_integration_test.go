package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	origWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir tempdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(origWD)
	})
	return dir
}

// runIDFromStatsDir recovers the UUID a run stamped itself with by reading
// back the one CSV file it must have created, since the CLI never prints
// the run id on a fresh run.
func runIDFromStatsDir(t *testing.T, root string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(root, "stats", "*.csv"))
	if err != nil {
		t.Fatalf("glob stats dir: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected exactly one stats CSV, got %v", matches)
	}
	return strings.TrimSuffix(filepath.Base(matches[0]), ".csv")
}

func TestRunCommandCreatesCheckpointAndStats(t *testing.T) {
	dir := chdirTemp(t)

	args := []string{
		"run",
		"-width", "3",
		"-height", "3",
		"-init-length", "300",
		"-generations", "2",
		"-backup-step", "1",
		"-seed", "5",
	}
	if err := run(args); err != nil {
		t.Fatalf("run command: %v", err)
	}

	for _, gen := range []int{1, 2} {
		path := filepath.Join(dir, "backup", fmt.Sprintf("backup_%d.zae", gen))
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected checkpoint %s: %v", path, err)
		}
	}

	runID := runIDFromStatsDir(t, dir)
	data, err := os.ReadFile(filepath.Join(dir, "stats", runID+".csv"))
	if err != nil {
		t.Fatalf("read stats csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 generation rows, got %d lines: %q", len(lines), data)
	}
}

func TestResumeCommandContinuesFromCheckpoint(t *testing.T) {
	dir := chdirTemp(t)

	seedArgs := []string{
		"run",
		"-width", "3",
		"-height", "3",
		"-init-length", "300",
		"-generations", "2",
		"-backup-step", "1",
		"-seed", "7",
	}
	if err := run(seedArgs); err != nil {
		t.Fatalf("seed run command: %v", err)
	}
	runID := runIDFromStatsDir(t, dir)

	resumeArgs := []string{
		"resume",
		"-from-generation", "2",
		"-generations", "1",
	}
	if err := run(resumeArgs); err != nil {
		t.Fatalf("resume command: %v", err)
	}

	path := filepath.Join(dir, "backup", "backup_3.zae")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected checkpoint after resume %s: %v", path, err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats", runID+".csv"))
	if err != nil {
		t.Fatalf("read stats csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 generation rows after resume, got %d lines: %q", len(lines), data)
	}
}

func TestStatsCommandPrintsRecordedSeries(t *testing.T) {
	dir := chdirTemp(t)

	if err := run([]string{
		"run",
		"-width", "3",
		"-height", "3",
		"-init-length", "300",
		"-generations", "2",
		"-backup-step", "1",
		"-seed", "11",
	}); err != nil {
		t.Fatalf("run command: %v", err)
	}
	runID := runIDFromStatsDir(t, dir)

	out, err := captureStdout(func() error {
		return run([]string{"stats", "-run-id", runID})
	})
	if err != nil {
		t.Fatalf("stats command: %v", err)
	}
	if !strings.Contains(out, "generation,run_id,recorded_at,best_fitness,mean_fitness,best_metaerror") {
		t.Fatalf("stats output missing header: %s", out)
	}
	if !strings.Contains(out, runID) {
		t.Fatalf("stats output missing run id %s: %s", runID, out)
	}
}

func TestStatsCommandRequiresRunID(t *testing.T) {
	if err := run([]string{"stats"}); err == nil {
		t.Fatal("expected error when -run-id is missing")
	}
}

func TestRunCommandRejectsInvalidGenerations(t *testing.T) {
	if err := run([]string{"run", "-generations", "0"}); err == nil {
		t.Fatal("expected error for zero generations")
	}
}

func TestMissingCommandReturnsUsageError(t *testing.T) {
	if err := run(nil); err == nil {
		t.Fatal("expected error for missing command")
	}
}

func TestUnknownCommandReturnsUsageError(t *testing.T) {
	err := run([]string{"bogus"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func captureStdout(fn func() error) (string, error) {
	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}

	os.Stdout = w
	runErr := fn()
	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		_ = r.Close()
		return "", err
	}
	_ = r.Close()
	return buf.String(), runErr
}
