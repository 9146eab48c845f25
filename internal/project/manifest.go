// Package project loads smlcheck.toml, the project manifest that tells the
// driver a package's name and where to find its source files.
package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the well-known manifest file name, analogous to the
// teacher's surge.toml.
const ManifestName = "smlcheck.toml"

// ErrPackageSectionMissing indicates [package] is absent from the manifest.
var ErrPackageSectionMissing = errors.New("missing [package]")

// PackageSpec is the [package] table of a manifest.
type PackageSpec struct {
	Name        string   `toml:"name"`
	SourceRoots []string `toml:"source_roots"`
}

// Manifest is a parsed smlcheck.toml.
type Manifest struct {
	Package PackageSpec `toml:"package"`
}

type rawManifest struct {
	Package PackageSpec `toml:"package"`
}

// LoadManifest parses a smlcheck.toml at path.
//
// SourceRoots defaults to []string{"."} when omitted, matching a
// single-directory SML package with no explicit layout.
func LoadManifest(path string) (*Manifest, error) {
	var raw rawManifest
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	raw.Package.Name = strings.TrimSpace(raw.Package.Name)
	if raw.Package.Name == "" {
		return nil, fmt.Errorf("%s: [package].name must not be empty", path)
	}
	if len(raw.Package.SourceRoots) == 0 {
		raw.Package.SourceRoots = []string{"."}
	}
	return &Manifest{Package: raw.Package}, nil
}

// ResolveSourceRoots joins the manifest's declared source roots against
// projectRoot, rejecting any root that escapes it.
func ResolveSourceRoots(projectRoot string, m *Manifest) ([]string, error) {
	roots := make([]string, 0, len(m.Package.SourceRoots))
	for _, root := range m.Package.SourceRoots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		if filepath.IsAbs(root) {
			return nil, fmt.Errorf("invalid source root %q: must be relative", root)
		}
		clean := filepath.Clean(filepath.FromSlash(root))
		joined := filepath.Join(projectRoot, clean)
		if !pathWithin(projectRoot, joined) {
			return nil, fmt.Errorf("invalid source root %q: escapes project root", root)
		}
		roots = append(roots, joined)
	}
	if len(roots) == 0 {
		roots = append(roots, projectRoot)
	}
	return roots, nil
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
