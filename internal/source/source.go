// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package source implements the source provider: it loads input files,
// normalizes line endings, and translates byte offsets to line/column
// positions using cached line-start tables.
package source

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"

	"github.com/playbymail/tern/cerrs"
	"github.com/playbymail/tern/internal/span"
)

// lineTableCacheSize bounds the number of line tables kept around for
// position lookups after a file's pipeline has finished.
const lineTableCacheSize = 128

// File is one loaded compilation input. Text is the normalized source;
// spans produced by the lexer index into it.
type File struct {
	ID   uuid.UUID
	Name string
	Text string
}

// Position is a 1-based line/column pair. Columns count bytes.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Provider loads files from a filesystem and owns the line-table cache.
// It is safe for concurrent use by independent file pipelines.
type Provider struct {
	fs afero.Fs

	mu     sync.Mutex
	tables *lru.Cache[uuid.UUID, []uint32]
}

// NewProvider returns a provider reading from fs. Tests pass an
// afero.NewMemMapFs.
func NewProvider(fs afero.Fs) *Provider {
	tables, err := lru.New[uuid.UUID, []uint32](lineTableCacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size
		panic(err)
	}
	return &Provider{fs: fs, tables: tables}
}

// Load reads and normalizes the named file.
func (p *Provider) Load(name string) (*File, error) {
	sb, err := p.fs.Stat(name)
	if err != nil {
		return nil, err
	} else if sb.IsDir() {
		return nil, fmt.Errorf("%s: %w", name, cerrs.ErrNotAFile)
	}
	data, err := afero.ReadFile(p.fs, name)
	if err != nil {
		return nil, err
	}
	return p.FromString(name, string(data)), nil
}

// FromString wraps in-memory text (stdin, tests) as a loaded file.
func (p *Provider) FromString(name, text string) *File {
	return &File{
		ID:   uuid.New(),
		Name: name,
		Text: normalize(text),
	}
}

// PositionFor translates a byte offset into a line/column position.
func (p *Provider) PositionFor(f *File, offset uint32) Position {
	starts := p.lineStarts(f)
	// binary search for the last line start <= offset
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Position{Line: lo + 1, Col: int(offset-starts[lo]) + 1}
}

// SpanPosition is PositionFor at the start of a span.
func (p *Provider) SpanPosition(f *File, s span.Span) Position {
	return p.PositionFor(f, s.Start)
}

func (p *Provider) lineStarts(f *File) []uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if starts, ok := p.tables.Get(f.ID); ok {
		return starts
	}
	starts := computeLineStarts(f.Text)
	p.tables.Add(f.ID, starts)
	return starts
}

func computeLineStarts(text string) []uint32 {
	starts := []uint32{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, uint32(i)+1)
		}
	}
	return starts
}

// normalize rewrites CRLF and bare CR line endings to LF so that spans
// and line tables agree on every platform.
func normalize(text string) string {
	if !strings.ContainsRune(text, '\r') {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch == '\r' {
			if i+1 < len(text) && text[i+1] == '\n' {
				continue
			}
			sb.WriteByte('\n')
			continue
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}
