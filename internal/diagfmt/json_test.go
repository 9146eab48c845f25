package diagfmt_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"smlcheck/internal/diag"
	"smlcheck/internal/diagfmt"
	"smlcheck/internal/source"
)

func TestJSONRoundTripsDiagnostics(t *testing.T) {
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
	if err := diagfmt.JSON(&buf, bag, fs, diagfmt.JSONOpts{IncludePositions: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out diagfmt.DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Code != "SEM5001" {
		t.Fatalf("expected code SEM5001, got %s", d.Code)
	}
	if d.Location.StartLine != 1 {
		t.Fatalf("expected IncludePositions to fill in StartLine, got %+v", d.Location)
	}
}

func TestJSONMaxTruncatesOutput(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.sml", []byte("val a = 1\nval b = 2\n"))

	bag := diag.NewBag(8)
	bag.Add(&diag.Diagnostic{Severity: diag.SevError, Code: diag.SemTypeMismatch, Message: "one", Primary: source.Span{File: fileID, Start: 0, End: 1}})
	bag.Add(&diag.Diagnostic{Severity: diag.SevError, Code: diag.SemTypeMismatch, Message: "two", Primary: source.Span{File: fileID, Start: 10, End: 11}})

	out := diagfmt.BuildDiagnosticsOutput(bag, fs, diagfmt.JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("expected Max to truncate to 1 diagnostic, got %d", out.Count)
	}
}
