// Package diag defines the diagnostic model shared by every analysis phase:
// lexing, CST construction, HIR lowering, type-variable scoping, and statics
// elaboration.
//
// Diagnostic is the central record. It carries:
//
//   - Severity - tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code - compact numeric identifier (see codes.go) with a stable string form.
//   - Message - human oriented text; keep it short and actionable.
//   - Primary span - the canonical source.Span pointing at the issue.
//   - Notes - optional secondary spans/messages for additional context, e.g.
//     "value bound here" pointing back to a binding site.
//
// Phases should emit through a Reporter so they stay decoupled from storage.
// Call NewReportBuilder (or the ReportError/ReportWarning/ReportInfo helpers),
// chain WithNote as needed, then Emit. When no additional metadata is needed,
// call Reporter.Report directly. diag.BagReporter collects diagnostics into a
// Bag, which supports sorting, deduplication, filtering, and transformation.
//
// This package performs no rendering or IO. See internal/diagfmt for
// pretty/JSON output and internal/driver for per-file aggregation and
// multi-file orchestration.
package diag
