package source

import (
	"os"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.sml", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("expected first FileID 0, got %d", id1)
	}

	f, ok := fs.GetByPath("test.sml")
	if !ok || f.ID != id1 {
		t.Fatalf("GetByPath = %v, %v; want %v, true", f, ok, id1)
	}

	id2 := fs.Add("test.sml", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("expected second FileID 1, got %d", id2)
	}

	f, ok = fs.GetByPath("test.sml")
	if !ok || f.ID != id2 {
		t.Fatalf("GetByPath after re-add = %v, %v; want %v, true", f, ok, id2)
	}

	file1, file2 := fs.Get(id1), fs.Get(id2)
	if string(file1.Content) != "hello world" {
		t.Errorf("file1 content = %q", file1.Content)
	}
	if string(file2.Content) != "hello universe" {
		t.Errorf("file2 content = %q", file2.Content)
	}
	if file1.Path != "test.sml" || file2.Path != "test.sml" {
		t.Error("expected both versions to share a path")
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.sml", []byte("a\nb\n"))
	file := fs.Get(id)

	want := []uint32{1, 3}
	if len(file.LineIdx) != len(want) {
		t.Fatalf("LineIdx length = %d, want %d", len(file.LineIdx), len(want))
	}
	for i, v := range want {
		if file.LineIdx[i] != v {
			t.Errorf("LineIdx[%d] = %d, want %d", i, file.LineIdx[i], v)
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag")
	}
}

func TestCRLFNormalization(t *testing.T) {
	original := []byte("a\r\nb\r\n")
	normalized, changed := normalizeCRLF(original)
	if !changed {
		t.Error("expected CRLF to be detected")
	}
	if want := "a\nb\n"; string(normalized) != want {
		t.Errorf("normalizeCRLF = %q, want %q", normalized, want)
	}
	if want := len(original) - 2; len(normalized) != want {
		t.Errorf("normalized length = %d, want %d", len(normalized), want)
	}

	fs := NewFileSet()
	id := fs.Add("test.sml", normalized, FileNormalizedCRLF)
	if fs.Get(id).Flags&FileNormalizedCRLF == 0 {
		t.Error("expected FileNormalizedCRLF flag")
	}
}

func TestBOMRemoval(t *testing.T) {
	bomContent := []byte{0xEF, 0xBB, 0xBF, 'x', '\n'}
	without, had := stripBOM(bomContent)
	if !had {
		t.Error("expected BOM to be detected")
	}
	if want := []byte{'x', '\n'}; string(without) != string(want) {
		t.Errorf("stripBOM content = %q, want %q", without, want)
	}

	fs := NewFileSet()
	id := fs.Add("test.sml", without, FileHadBOM)
	if fs.Get(id).Flags&FileHadBOM == 0 {
		t.Error("expected FileHadBOM flag")
	}
}

func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()
	// "α\n" - alpha is 2 bytes, newline is 1.
	content := []byte("α\n")
	id := fs.AddVirtual("test.sml", content)

	start, end := fs.Resolve(Span{File: id, Start: 0, End: 1})
	if want := (LineCol{Line: 1, Col: 1}); start != want {
		t.Errorf("start = %+v, want %+v", start, want)
	}
	if want := (LineCol{Line: 1, Col: 2}); end != want {
		t.Errorf("end = %+v, want %+v", end, want)
	}
}

func TestEdgeCases(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.AddVirtual("empty.sml", []byte{})
	if len(fs.Get(id1).LineIdx) != 0 {
		t.Error("expected empty LineIdx for empty file")
	}

	id2 := fs.AddVirtual("no_newlines.sml", []byte("hello"))
	if len(fs.Get(id2).LineIdx) != 0 {
		t.Error("expected empty LineIdx for file without newlines")
	}

	id3 := fs.AddVirtual("only_newline.sml", []byte("\n"))
	if lineIdx := fs.Get(id3).LineIdx; len(lineIdx) != 1 || lineIdx[0] != 0 {
		t.Errorf("LineIdx = %v, want [0]", lineIdx)
	}
}

func withTempFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "smlcheck-source-test")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	t.Cleanup(func() { os.Remove(f.Name()) })
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return f.Name()
}

func TestLoad(t *testing.T) {
	fs := NewFileSet()
	path := withTempFile(t, "a\nb\n")
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Errorf("content = %q", file.Content)
	}
	if file.LineIdx[0] != 1 || file.LineIdx[1] != 3 {
		t.Errorf("LineIdx = %v", file.LineIdx)
	}
}

func TestLoadBOM(t *testing.T) {
	fs := NewFileSet()
	path := withTempFile(t, "\xEF\xBB\xBFa\nb\n")
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Errorf("content = %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 {
		t.Error("expected FileHadBOM flag")
	}
}

func TestLoadCRLF(t *testing.T) {
	fs := NewFileSet()
	path := withTempFile(t, "a\r\nb\r\n")
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Errorf("content = %q", file.Content)
	}
	if file.Flags&FileNormalizedCRLF == 0 {
		t.Error("expected FileNormalizedCRLF flag")
	}
}
