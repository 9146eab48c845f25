package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"smlcheck/internal/diag"
	"smlcheck/internal/project"
	"smlcheck/internal/source"
)

// cacheSchemaVersion is bumped whenever diskPayload's shape changes, so a
// stale cache from an older binary is silently ignored rather than
// misdecoded.
const cacheSchemaVersion uint16 = 1

// DiskCache stores a file's diagnostic results keyed by its content hash,
// so re-running "check" on an unchanged file skips re-elaboration. Spans
// are stored as bare byte offsets (not source.Span, whose FileID is only
// meaningful within the FileSet that produced it) and rehydrated against
// whatever FileID the file gets in the current run.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

type cachedNote struct {
	Start, End uint32
	Msg        string
}

type cachedDiagnostic struct {
	Severity   uint8
	Code       uint16
	Message    string
	Start, End uint32
	Notes      []cachedNote
}

type diskPayload struct {
	Schema      uint16
	Diagnostics []cachedDiagnostic
}

// OpenDiskCache opens (creating if needed) the on-disk cache directory for
// app under $XDG_CACHE_HOME, or ~/.cache if unset.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "files", hex.EncodeToString(key[:])+".mp")
}

func (c *DiskCache) put(key project.Digest, payload *diskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) //nolint:errcheck // best-effort cleanup; Rename below is what matters

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

func (c *DiskCache) get(key project.Digest, out *diskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close() //nolint:errcheck

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// lookup returns the cached diagnostics for file's current content, if
// present and encoded with the current schema.
func (c *DiskCache) lookup(file *source.File) (*diag.Bag, bool, error) {
	var payload diskPayload
	ok, err := c.get(project.Digest(file.Hash), &payload)
	if err != nil || !ok || payload.Schema != cacheSchemaVersion {
		return nil, false, err
	}

	bag := diag.NewBag(len(payload.Diagnostics))
	for _, cd := range payload.Diagnostics {
		notes := make([]diag.Note, len(cd.Notes))
		for i, n := range cd.Notes {
			notes[i] = diag.Note{
				Span: source.Span{File: file.ID, Start: n.Start, End: n.End},
				Msg:  n.Msg,
			}
		}
		bag.Add(&diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  source.Span{File: file.ID, Start: cd.Start, End: cd.End},
			Notes:    notes,
		})
	}
	return bag, true, nil
}

// store saves bag's diagnostics under file's content hash. Errors are
// swallowed: a failed cache write should not fail the check it serves.
func (c *DiskCache) store(file *source.File, bag *diag.Bag) {
	items := bag.Items()
	cds := make([]cachedDiagnostic, len(items))
	for i, d := range items {
		notes := make([]cachedNote, len(d.Notes))
		for j, n := range d.Notes {
			notes[j] = cachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg}
		}
		cds[i] = cachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Notes:    notes,
		}
	}
	_ = c.put(project.Digest(file.Hash), &diskPayload{Schema: cacheSchemaVersion, Diagnostics: cds})
}
