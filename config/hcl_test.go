package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeBatchFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.hcl")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadBatchFileMissingFileReturnsEmptyBatch(t *testing.T) {
	batch, err := LoadBatchFile(filepath.Join(t.TempDir(), "does-not-exist.hcl"))
	if err != nil {
		t.Fatalf("LoadBatchFile() error = %v", err)
	}
	if len(batch.Runs) != 0 {
		t.Errorf("Runs = %v, want empty", batch.Runs)
	}
}

func TestLoadBatchFileDecodesRunBlocks(t *testing.T) {
	path := writeBatchFile(t, `
run "kuhn-baseline" {
  game        = "kuhn"
  iterations  = 2000
  seed        = 7
  alternating = true
}

run "rps-quick" {
  game       = "rps"
  iterations = 100
}
`)

	batch, err := LoadBatchFile(path)
	if err != nil {
		t.Fatalf("LoadBatchFile() error = %v", err)
	}
	if len(batch.Runs) != 2 {
		t.Fatalf("Runs = %d, want 2", len(batch.Runs))
	}

	first := batch.Runs[0]
	if first.Name != "kuhn-baseline" || first.Game != "kuhn" || first.Iterations != 2000 || first.Seed != 7 || !first.Alternating {
		t.Errorf("first run = %+v, unexpected values", first)
	}

	second := batch.Runs[1].ToRunConfig()
	if second.Game != "rps" || second.Iterations != 100 || second.Alternating {
		t.Errorf("second run config = %+v, unexpected values", second)
	}
}

func TestLoadBatchFileRejectsInvalidRun(t *testing.T) {
	path := writeBatchFile(t, `
run "broken" {
  game       = "kuhn"
  iterations = 0
}
`)

	if _, err := LoadBatchFile(path); err == nil {
		t.Fatal("expected an error for a run with zero iterations")
	}
}
