package driver_test

import (
	"testing"

	"smlcheck/internal/diag"
	"smlcheck/internal/driver"
)

func TestDiskCacheHitAvoidsReElaborationButMatchesResult(t *testing.T) {
	dir := t.TempDir()
	path := writeSML(t, dir, "cached.sml", "val x = y\n")

	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := driver.OpenDiskCache("smlcheck-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	first, _, err := driver.CheckFile(path, driver.CheckOptions{Cache: cache})
	if err != nil {
		t.Fatalf("CheckFile (miss): %v", err)
	}
	if first.Cached {
		t.Fatal("expected a cold cache on first run")
	}
	if !hasCode(first.Bag, diag.SemUndefinedValue) {
		t.Fatalf("expected SemUndefinedValue on first run, got %+v", first.Bag.Items())
	}

	second, _, err := driver.CheckFile(path, driver.CheckOptions{Cache: cache})
	if err != nil {
		t.Fatalf("CheckFile (hit): %v", err)
	}
	if !second.Cached {
		t.Fatal("expected the second run to be served from cache")
	}
	if !hasCode(second.Bag, diag.SemUndefinedValue) {
		t.Fatalf("expected the cached result to carry SemUndefinedValue, got %+v", second.Bag.Items())
	}
}

func TestDiskCacheMissesOnContentChange(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := driver.OpenDiskCache("smlcheck-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	path := writeSML(t, dir, "changing.sml", "val x = 1\n")
	first, _, err := driver.CheckFile(path, driver.CheckOptions{Cache: cache})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	if first.Bag.HasErrors() {
		t.Fatalf("expected the first version to be clean, got %+v", first.Bag.Items())
	}

	path = writeSML(t, dir, "changing.sml", "val x = y\n")
	second, _, err := driver.CheckFile(path, driver.CheckOptions{Cache: cache})
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	if second.Cached {
		t.Fatal("expected a cache miss after the file content changed")
	}
	if !hasCode(second.Bag, diag.SemUndefinedValue) {
		t.Fatalf("expected the changed version to report SemUndefinedValue, got %+v", second.Bag.Items())
	}
}
