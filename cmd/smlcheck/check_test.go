package main

import (
	"os"
	"path/filepath"
	"testing"

	"smlcheck/internal/diag"
	"smlcheck/internal/driver"
)

func TestResolveCheckPathsExpandsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.sml", "val x = 1;")
	writeFile(t, dir, "b.sml", "val y = 2;")
	writeFile(t, dir, "notes.txt", "ignore me")

	files, err := resolveCheckPaths([]string{dir})
	if err != nil {
		t.Fatalf("resolveCheckPaths: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 .sml files, got %v", files)
	}
}

func TestResolveCheckPathsKeepsExplicitFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "only.sml", "val z = 3;")

	files, err := resolveCheckPaths([]string{path})
	if err != nil {
		t.Fatalf("resolveCheckPaths: %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Fatalf("expected [%q], got %v", path, files)
	}
}

func TestResolveCheckPathsUsesManifestWhenNoArgsGiven(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "smlcheck.toml", "[package]\nname = \"demo\"\n")
	writeFile(t, dir, "main.sml", "val a = 1;")

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	defer func() {
		if chErr := os.Chdir(cwd); chErr != nil {
			t.Fatalf("restore cwd: %v", chErr)
		}
	}()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}

	files, err := resolveCheckPaths(nil)
	if err != nil {
		t.Fatalf("resolveCheckPaths: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "main.sml" {
		t.Fatalf("expected [main.sml], got %v", files)
	}
}

func TestMergeBagsCombinesAllDiagnostics(t *testing.T) {
	a := diag.NewBag(4)
	a.Add(&diag.Diagnostic{Severity: diag.SevError, Code: 1, Message: "one"})
	b := diag.NewBag(4)
	b.Add(&diag.Diagnostic{Severity: diag.SevWarning, Code: 2, Message: "two"})

	merged := mergeBags([]driver.FileResult{{Bag: a}, {Bag: b}})
	if merged.Len() != 2 {
		t.Fatalf("expected 2 merged diagnostics, got %d", merged.Len())
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
