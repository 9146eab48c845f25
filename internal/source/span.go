package source

import "fmt"

// Span is a contiguous byte range [Start, End) within one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// Empty reports whether the span has zero length.
func (s Span) Empty() bool { return s.Start == s.End }

// Len returns the span's length in bytes.
func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other. Spans from
// different files are incomparable; other is ignored in that case.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// AtStart collapses the span to a zero-length point at its start, useful for
// diagnostics that want to point just before a construct.
func (s Span) AtStart() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}

// Contains reports whether off falls within [Start, End).
func (s Span) Contains(off uint32) bool {
	return off >= s.Start && off < s.End
}
