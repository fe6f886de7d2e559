// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package driver wires the compilation stages together: it loads
// sources, runs lexing, parsing, AST construction and the pass
// pipeline, and collects diagnostics per file.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/playbymail/tern/internal/ast"
	"github.com/playbymail/tern/internal/config"
	"github.com/playbymail/tern/internal/diag"
	"github.com/playbymail/tern/internal/lexer"
	"github.com/playbymail/tern/internal/parser"
	"github.com/playbymail/tern/internal/passes/desugar"
	"github.com/playbymail/tern/internal/passes/scopes"
	"github.com/playbymail/tern/internal/passes/semcheck"
	"github.com/playbymail/tern/internal/passes/typecheck"
	"github.com/playbymail/tern/internal/pipeline"
	"github.com/playbymail/tern/internal/rlt"
	"github.com/playbymail/tern/internal/source"
	"github.com/playbymail/tern/internal/span"
	"github.com/playbymail/tern/internal/stores/tracedb"
)

// Driver holds the cross-file collaborators: configuration, the source
// provider, logging and the optional run trace.
type Driver struct {
	Config   *config.Config
	Provider *source.Provider
	Log      *logrus.Entry
	Trace    *tracedb.DB
	// SkipPasses stops after AST construction; used by the graph dump.
	SkipPasses bool
}

// Result is the outcome of one file's pipeline. Diags holds everything
// the stages reported; later stages are nil when an earlier one could
// not complete.
type Result struct {
	File     *source.File
	Tokens   []lexer.Token
	RLT      *rlt.File
	Graph    *ast.Graph
	Accessor *ast.Accessor
	Diags    *diag.Buffer
}

// Compile runs the full per-file pipeline over in-memory text.
func (d *Driver) Compile(f *source.File) *Result {
	started := time.Now()
	res := &Result{File: f, Diags: &diag.Buffer{}}
	log := d.Log.WithField("file", f.Name)

	res.Tokens = d.lex(f, res.Diags)
	if res.Tokens == nil {
		d.record(res, started)
		return res
	}
	log.WithField("tokens", len(res.Tokens)).Debug("lexed")
	if d.Config.DebugFlags.DumpTokens {
		for _, tok := range res.Tokens {
			if !tok.Kind.IsTrivia() {
				log.WithField("span", tok.Span.String()).Debug(tok.Kind.String())
			}
		}
	}

	res.RLT = d.parse(f, res.Tokens, res.Diags)
	if res.RLT == nil {
		d.record(res, started)
		return res
	}
	if d.Config.DebugFlags.DumpRLT {
		log.WithField("modules", len(res.RLT.Modules)).Debug("parsed")
	}

	res.Graph, res.Accessor = ast.Build(res.RLT, f.Text)
	log.WithField("nodes", res.Graph.Len()).Debug("built ast")
	if d.Config.DebugFlags.DumpAST {
		log.Debug(res.Graph.ExportDOTString())
	}

	if d.SkipPasses {
		d.record(res, started)
		return res
	}
	d.runPasses(res, log)
	d.record(res, started)
	return res
}

// CompileFile loads and compiles one named input.
func (d *Driver) CompileFile(name string) (*Result, error) {
	f, err := d.Provider.Load(name)
	if err != nil {
		return nil, err
	}
	return d.Compile(f), nil
}

// CompileAll drives independent files concurrently, bounded by the
// configured worker count. Results keep the input order.
func (d *Driver) CompileAll(names []string) ([]*Result, error) {
	results := make([]*Result, len(names))
	var g errgroup.Group
	g.SetLimit(d.Config.Parallel.Workers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			res, err := d.CompileFile(name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// lex tokenizes the file, switching to the chunked parallel lexer
// above the configured threshold. A lexical error is unrecoverable for
// the file.
func (d *Driver) lex(f *source.File, diags *diag.Buffer) []lexer.Token {
	threshold := d.Config.Parallel.LexChunkKiB * 1024
	var tokens []lexer.Token
	var err error
	if len(f.Text) >= threshold {
		tokens, err = lexer.TokenizeParallel(f.Text, d.Config.Parallel.Workers)
	} else {
		tokens, err = lexer.Tokenize(f.Text)
	}
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			diags.Report(diag.New(diag.Error, diag.CodeUnexpectedCharacter,
				"unexpected character",
				diag.Label{Span: spanAt(lexErr.Offset), Note: "no lexical rule matches here"}))
		} else {
			diags.Report(diag.New(diag.Bug, diag.CodeCompilerCrash, err.Error()))
		}
		return nil
	}
	if tokens == nil {
		// an empty source still parses to an empty file
		tokens = []lexer.Token{}
	}
	return tokens
}

// parse builds the raw tree. Parse errors are unrecoverable for the
// file.
func (d *Driver) parse(f *source.File, tokens []lexer.Token, diags *diag.Buffer) *rlt.File {
	tree, errs := parser.Parse(tokens, f.Text)
	for _, perr := range errs {
		got := perr.GotText
		if perr.Got.Kind == lexer.EOF {
			got = "EOF"
		}
		diags.Report(diag.New(diag.Error, diag.CodeExpected,
			fmt.Sprintf("expected %s", joinExpected(perr.Expected)),
			diag.Label{Span: perr.At, Note: fmt.Sprintf("found %q", got)}))
	}
	return tree
}

// runPasses assembles and runs the pass pipeline: desugaring first,
// the structural analyzers beside it, then scope analysis, then type
// inference.
func (d *Driver) runPasses(res *Result, log *logrus.Entry) {
	set := pipeline.NewSet()
	binary := desugar.Binary{}
	unary := desugar.Unary{}
	access := desugar.Access{}
	set.Add(binary)
	set.Add(unary)
	set.Add(access)
	set.Add(semcheck.NewModuleUniqueness())
	set.Add(semcheck.GlobalModule{})
	set.Add(semcheck.EmptyDeclaration{})
	scopeAnalyzer := scopes.New()
	set.Add(scopeAnalyzer, binary, unary, access)
	set.Add(typecheck.New(scopeAnalyzer), scopeAnalyzer)
	if d.Config.DebugFlags.Passes {
		log.WithField("passes", []string{
			binary.Name(), unary.Name(), access.Name(),
			"module-uniqueness", "global-module", "empty-declaration",
			scopeAnalyzer.Name(), "type-checker",
		}).Debug("pipeline assembled")
	}

	ctx := &pipeline.Context{
		Graph: res.Graph,
		RLT:   res.Accessor,
		File:  res.File,
		Diags: res.Diags,
		Log:   log,
	}
	if err := set.Run(ctx); err != nil {
		// the failure is already in the diagnostics; the pipeline just
		// stopped early for this file
		log.WithError(err).Debug("pipeline aborted")
	}
}

func (d *Driver) record(res *Result, started time.Time) {
	if d.Trace == nil {
		return
	}
	var errs, warnings, notes int
	for _, dg := range res.Diags.All() {
		switch dg.Severity {
		case diag.Error, diag.Bug:
			errs++
		case diag.Warning:
			warnings++
		case diag.Note:
			notes++
		}
	}
	nodes := 0
	if res.Graph != nil {
		nodes = res.Graph.Len()
	}
	run := tracedb.Run{
		File:     res.File.Name,
		SourceID: res.File.ID.String(),
		Started:  started,
		Elapsed:  time.Since(started),
		Tokens:   len(res.Tokens),
		Nodes:    nodes,
		Errors:   errs,
		Warnings: warnings,
		Notes:    notes,
	}
	if err := d.Trace.Record(run); err != nil {
		d.Log.WithError(err).Warn("trace record failed")
	}
}

func joinExpected(expected []string) string {
	out := ""
	for i, e := range expected {
		if i > 0 {
			out += " or "
		}
		out += e
	}
	return out
}

func spanAt(offset uint32) span.Span {
	return span.New(offset, 1)
}

// OpenTrace opens the configured trace store when a path is set.
func OpenTrace(ctx context.Context, cfg *config.Config) (*tracedb.DB, error) {
	if cfg.Trace.Path == "" {
		return nil, nil
	}
	return tracedb.Open(ctx, cfg.Trace.Path)
}
