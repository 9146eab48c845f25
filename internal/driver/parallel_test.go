package driver_test

import (
	"context"
	"path/filepath"
	"testing"

	"smlcheck/internal/driver"
)

func TestCheckParallelMatchesSequentialResult(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeSML(t, dir, "a.sml", "val a = 1\n"),
		writeSML(t, dir, "b.sml", "val b = a + 1\n"),
		writeSML(t, dir, "c.sml", "val c = undefinedName\n"),
	}

	seq, err := driver.Check(paths, driver.CheckOptions{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	par, err := driver.CheckParallel(context.Background(), paths, 2, driver.CheckOptions{})
	if err != nil {
		t.Fatalf("CheckParallel: %v", err)
	}

	if len(seq.Files) != len(par.Files) {
		t.Fatalf("expected matching file counts, got %d vs %d", len(seq.Files), len(par.Files))
	}
	for i := range seq.Files {
		seqPath := filepath.Base(seq.Files[i].Path)
		parPath := filepath.Base(par.Files[i].Path)
		if seqPath != parPath {
			t.Fatalf("file order mismatch at %d: %s vs %s", i, seqPath, parPath)
		}
		if seq.Files[i].Bag.HasErrors() != par.Files[i].Bag.HasErrors() {
			t.Fatalf("file %s: error presence mismatch between sequential and parallel runs", seqPath)
		}
	}
}

func TestCheckParallelDefaultsJobsToGOMAXPROCS(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeSML(t, dir, "only.sml", "val x = 1\n")}

	result, err := driver.CheckParallel(context.Background(), paths, 0, driver.CheckOptions{})
	if err != nil {
		t.Fatalf("CheckParallel: %v", err)
	}
	if len(result.Files) != 1 || result.Files[0].Bag.HasErrors() {
		t.Fatalf("unexpected result: %+v", result.Files)
	}
}
