package diagfmt_test

import (
	"bytes"
	"strings"
	"testing"

	"smlcheck/internal/diag"
	"smlcheck/internal/diagfmt"
	"smlcheck/internal/source"
)

func TestPrettyRendersHeaderAndCaret(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.sml", []byte("val x = y\n"))

	bag := diag.NewBag(8)
	bag.Add(&diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SemUndefinedValue,
		Message:  "undefined value identifier y",
		Primary:  source.Span{File: fileID, Start: 8, End: 9},
	})

	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{Context: 1})
	out := buf.String()

	if !strings.Contains(out, "SEM5001") {
		t.Fatalf("expected the error code in output, got:\n%s", out)
	}
	if !strings.Contains(out, "val x = y") {
		t.Fatalf("expected the source line in output, got:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("expected a caret underline, got:\n%s", out)
	}
}

func TestPrettyShowsNotesWhenEnabled(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.sml", []byte("val x = 1\n"))

	bag := diag.NewBag(8)
	bag.Add(&diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SemTypeMismatch,
		Message:  "type mismatch",
		Primary:  source.Span{File: fileID, Start: 0, End: 3},
		Notes:    []diag.Note{{Span: source.Span{File: fileID, Start: 8, End: 9}, Msg: "expected here"}},
	})

	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{Context: 1, ShowNotes: true})
	if !strings.Contains(buf.String(), "expected here") {
		t.Fatalf("expected the note to be rendered, got:\n%s", buf.String())
	}

	buf.Reset()
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{Context: 1, ShowNotes: false})
	if strings.Contains(buf.String(), "expected here") {
		t.Fatalf("did not expect the note to be rendered, got:\n%s", buf.String())
	}
}
