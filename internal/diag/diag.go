// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package diag defines the structured diagnostics produced by every
// stage of the compiler and the sinks that collect them.
//
// Diagnostics are not Go errors: a stage that can keep going reports a
// diagnostic and continues. Rendering and ordering are the caller's
// concern; the core never sorts what it reports.
package diag

import (
	"fmt"
	"sync"

	"github.com/playbymail/tern/internal/span"
)

type Severity int

const (
	Bug Severity = iota
	Error
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Bug:
		return "bug"
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Diagnostic codes, grouped by producing stage.
const (
	CodeUnexpectedCharacter = "LE001"

	CodeExpected = "PE001"

	CodeDuplicatedModules   = "SE001"
	CodeNonGlobalModule     = "SE002"
	CodeEmptyDeclaration    = "SE003"
	CodeAlreadyDefined      = "SE004"
	CodeUnresolvedReference = "SE005"
	CodeWrongScopeExit      = "SE006"

	CodeUnknownVar          = "TI001"
	CodeUnificationFail     = "TI002"
	CodeInfiniteType        = "TI003"
	CodeUnificationMismatch = "TI004"

	CodeInferredType = "TC001"

	CodeCompilerCrash = "ICE001"
)

// Label points a diagnostic at a span with an optional short note.
type Label struct {
	Span span.Span
	Note string
}

type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Labels   []Label
}

// New builds a diagnostic with zero or more labels.
func New(severity Severity, code, message string, labels ...Label) Diagnostic {
	return Diagnostic{
		Severity: severity,
		Code:     code,
		Message:  message,
		Labels:   append([]Label(nil), labels...),
	}
}

// Sink accepts diagnostics as they are produced.
type Sink interface {
	Report(Diagnostic)
}

// Buffer is a per-file sink that accumulates diagnostics in order of
// report. It is not safe for concurrent use; wrap it in a Locked sink
// when several workers share one buffer.
type Buffer struct {
	diags []Diagnostic
}

func (b *Buffer) Report(d Diagnostic) {
	b.diags = append(b.diags, d)
}

// All returns the accumulated diagnostics in report order.
func (b *Buffer) All() []Diagnostic {
	return b.diags
}

// HasErrors reports whether any diagnostic is of Error or Bug severity.
func (b *Buffer) HasErrors() bool {
	for _, d := range b.diags {
		if d.Severity == Error || d.Severity == Bug {
			return true
		}
	}
	return false
}

// Drain moves the accumulated diagnostics into another sink.
func (b *Buffer) Drain(into Sink) {
	for _, d := range b.diags {
		into.Report(d)
	}
	b.diags = nil
}

// Locked wraps a sink with a mutex so independent file pipelines can
// share it.
type Locked struct {
	mu   sync.Mutex
	sink Sink
}

func NewLocked(sink Sink) *Locked {
	return &Locked{sink: sink}
}

func (l *Locked) Report(d Diagnostic) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink.Report(d)
}

// Discard drops everything reported to it.
type Discard struct{}

func (Discard) Report(Diagnostic) {}
