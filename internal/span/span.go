// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package span implements half-open byte ranges over a source buffer.
package span

import "fmt"

// Span is a half-open byte range [Start, Start+Length) into the source.
// Offsets and lengths are 32-bit; spans are small value types and are
// freely copied.
type Span struct {
	Start  uint32
	Length uint32
}

// New returns the span [start, start+length).
func New(start, length uint32) Span {
	return Span{Start: start, Length: length}
}

// Point returns the zero-width span at offset.
func Point(offset uint32) Span {
	return Span{Start: offset}
}

// End returns the exclusive end offset.
func (s Span) End() uint32 {
	return s.Start + s.Length
}

// IsZero reports whether the span is the zero value.
func (s Span) IsZero() bool {
	return s.Start == 0 && s.Length == 0
}

// Text returns the bytes the span covers.
// The caller must pass the same source the span was produced from.
func (s Span) Text(src string) string {
	if uint32(len(src)) < s.End() {
		return ""
	}
	return src[s.Start:s.End()]
}

// Cover returns the minimal span covering both s and o.
func (s Span) Cover(o Span) Span {
	if s.IsZero() {
		return o
	}
	if o.IsZero() {
		return s
	}
	start := s.Start
	if o.Start < start {
		start = o.Start
	}
	end := s.End()
	if o.End() > end {
		end = o.End()
	}
	return Span{Start: start, Length: end - start}
}

func (s Span) String() string {
	return fmt.Sprintf("[%d..%d)", s.Start, s.End())
}
