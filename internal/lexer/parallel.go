// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package lexer

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelThreshold is the input size, in bytes, below which
// TokenizeParallel falls back to the sequential tokenizer.
const ParallelThreshold = 64 * 1024

// TokenizeParallel splits the input at safe newline boundaries and
// lexes the chunks concurrently. The result is identical to Tokenize
// for every input: chunk boundaries are only placed at newlines outside
// string, char and comment contexts, and chunk token spans are produced
// relative to the original source.
func TokenizeParallel(src string, workers int) ([]Token, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if len(src) < ParallelThreshold || workers == 1 {
		return Tokenize(src)
	}

	bounds := chunkBounds(src, workers)
	if len(bounds) < 2 {
		return Tokenize(src)
	}

	chunks := make([][]Token, len(bounds))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, b := range bounds {
		i, b := i, b
		g.Go(func() error {
			tokens, err := tokenizeAt(src, b.start, b.end)
			if err != nil {
				return err
			}
			chunks[i] = tokens
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, c := range chunks {
		total += len(c)
	}
	tokens := make([]Token, 0, total)
	for _, c := range chunks {
		tokens = append(tokens, c...)
	}
	return tokens, nil
}

// tokenizeAt lexes src[start:end) producing spans relative to src.
func tokenizeAt(src string, start, end uint32) ([]Token, error) {
	var tokens []Token
	offset := start
	for offset < end {
		tok, err := scan(src, offset)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		offset = tok.Span.End()
	}
	return tokens, nil
}

type chunkBound struct {
	start, end uint32
}

// chunkBounds divides the source into up to n chunks, splitting only
// after newlines that sit outside string and block-comment contexts.
// A newline can never fall inside any other token, so every boundary
// found this way starts a fresh token.
func chunkBounds(src string, n int) []chunkBound {
	safe := safeBoundaries(src, n)
	bounds := make([]chunkBound, 0, len(safe)+1)
	start := uint32(0)
	for _, b := range safe {
		if b > start {
			bounds = append(bounds, chunkBound{start: start, end: b})
			start = b
		}
	}
	if start < uint32(len(src)) {
		bounds = append(bounds, chunkBound{start: start, end: uint32(len(src))})
	}
	return bounds
}

// safeBoundaries scans once with a minimal context machine (inside
// string, inside block comment, inside line comment) and picks the
// first safe newline at or after each ideal split point.
func safeBoundaries(src string, n int) []uint32 {
	ideal := make([]uint32, 0, n-1)
	step := len(src) / n
	for i := 1; i < n; i++ {
		ideal = append(ideal, uint32(i*step))
	}

	var out []uint32
	var inString, inBlock, inLine bool
	next := 0
	for i := 0; i < len(src) && next < len(ideal); i++ {
		ch := src[i]
		switch {
		case inString:
			if ch == '"' {
				inString = false
			}
		case inBlock:
			if ch == '*' && i+1 < len(src) && src[i+1] == '/' {
				inBlock = false
				i++
			}
		case inLine:
			if ch == '\n' {
				inLine = false
			}
		default:
			switch ch {
			case '"':
				inString = true
			case '\'':
				// a char literal may hold a raw newline; step over it whole
				if i+2 < len(src) && src[i+2] == '\'' {
					i += 2
					continue
				}
			case '/':
				if i+1 < len(src) {
					if src[i+1] == '*' {
						inBlock = true
						i++
					} else if src[i+1] == '/' {
						inLine = true
						i++
					}
				}
			}
		}
		if ch == '\n' && !inString && !inBlock {
			boundary := uint32(i) + 1
			if boundary >= ideal[next] {
				out = append(out, boundary)
				for next < len(ideal) && boundary >= ideal[next] {
					next++
				}
			}
		}
	}
	return out
}
