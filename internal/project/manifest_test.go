package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"smlcheck/internal/project"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, project.ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifestDefaultsSourceRoots(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[package]\nname = \"example\"\n")

	m, err := project.LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Package.Name != "example" {
		t.Fatalf("expected name %q, got %q", "example", m.Package.Name)
	}
	if len(m.Package.SourceRoots) != 1 || m.Package.SourceRoots[0] != "." {
		t.Fatalf("expected default source root [\".\"], got %v", m.Package.SourceRoots)
	}
}

func TestLoadManifestMissingPackageSection(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "name = \"example\"\n")

	if _, err := project.LoadManifest(path); err == nil {
		t.Fatal("expected an error for a missing [package] section")
	}
}

func TestLoadManifestRejectsEmptyName(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[package]\nname = \"\"\n")

	if _, err := project.LoadManifest(path); err == nil {
		t.Fatal("expected an error for an empty package name")
	}
}

func TestResolveSourceRootsRejectsEscape(t *testing.T) {
	dir := t.TempDir()
	m := &project.Manifest{Package: project.PackageSpec{Name: "example", SourceRoots: []string{"../outside"}}}

	if _, err := project.ResolveSourceRoots(dir, m); err == nil {
		t.Fatal("expected an error for a source root escaping the project root")
	}
}

func TestResolveSourceRootsJoinsRelative(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	m := &project.Manifest{Package: project.PackageSpec{Name: "example", SourceRoots: []string{"src"}}}

	roots, err := project.ResolveSourceRoots(dir, m)
	if err != nil {
		t.Fatalf("ResolveSourceRoots: %v", err)
	}
	if len(roots) != 1 || roots[0] != filepath.Join(dir, "src") {
		t.Fatalf("expected [%q], got %v", filepath.Join(dir, "src"), roots)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"example\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, ok, err := project.FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("expected manifest under %q, got %q", root, path)
	}
}

func TestFindManifestNotFound(t *testing.T) {
	dir := t.TempDir()
	_, ok, err := project.FindManifest(dir)
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if ok {
		t.Fatal("expected no manifest to be found")
	}
}
