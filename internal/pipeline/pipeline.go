// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package pipeline orders and runs passes over the abstract syntax
// graph and collects their diagnostics.
//
// A pass is either an analyzer (read-only, pushes diagnostics) or a
// transformer (returns a change set). Dependencies between passes form
// a DAG; passes with no inter-dependencies run in the same topological
// layer and may run in any order within it. Change sets are applied
// after the traversal of the current layer completes, never during.
package pipeline

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/playbymail/tern/cerrs"
	"github.com/playbymail/tern/internal/ast"
	"github.com/playbymail/tern/internal/diag"
	"github.com/playbymail/tern/internal/source"
)

// Context is the shared state a pass sees for one file.
type Context struct {
	Graph *ast.Graph
	RLT   *ast.Accessor
	File  *source.File
	Diags diag.Sink
	Log   *logrus.Entry
}

// Report pushes a diagnostic.
func (c *Context) Report(d diag.Diagnostic) {
	c.Diags.Report(d)
}

// LabelFor builds a label at the defining token of an AST node,
// recovered through the raw-tree accessor. Synthetic nodes without a
// binding get a zero span.
func (c *Context) LabelFor(id ast.NodeID, note string) diag.Label {
	s, _ := c.RLT.SpanOf(id)
	return diag.Label{Span: s, Note: note}
}

// Pass is the common surface of analyzers and transformers.
type Pass interface {
	Name() string
}

// Analyzer observes every DFS event read-only and may push
// diagnostics. A non-nil error is unrecoverable and aborts the
// remainder of the pipeline for the file.
type Analyzer interface {
	Pass
	Analyze(ctx *Context, id ast.NodeID, side ast.VisitSide) error
}

// Transformer observes every DFS event and may return changes to apply
// once the traversal finishes.
type Transformer interface {
	Pass
	Transform(ctx *Context, id ast.NodeID, side ast.VisitSide) (ChangeSet, error)
}

// Change is one deferred mutation of the graph.
type Change interface {
	apply(ctx *Context)
}

// ChangeSet is the ordered list of changes a transformer produced.
type ChangeSet []Change

// Replace swaps the node stored at ID, keeping the id, the edges and
// the raw-tree binding.
type Replace struct {
	ID   ast.NodeID
	With ast.Node
}

func (r Replace) apply(ctx *Context) {
	ctx.Graph.Replace(r.ID, r.With)
}

// Add attaches a freshly built node under Parent; it receives a fresh
// id.
type Add struct {
	Parent ast.NodeID
	Node   ast.Node
	Tag    ast.Tag
}

func (a Add) apply(ctx *Context) {
	ctx.Graph.AddNode(a.Parent, a.Node, a.Tag)
}

// AddSubtree grafts a builder subtree under Parent.
type AddSubtree struct {
	Parent ast.NodeID
	Sub    *ast.Subtree
	Tag    ast.Tag
}

func (a AddSubtree) apply(ctx *Context) {
	ctx.Graph.Graft(a.Parent, a.Sub, a.Tag)
}

// Retag rewrites the role of Parent's child edges.
type Retag struct {
	Parent ast.NodeID
	From   ast.Tag
	To     ast.Tag
}

func (r Retag) apply(ctx *Context) {
	ctx.Graph.Retag(r.Parent, r.From, r.To)
}

// Delete removes a node and its descendants.
type Delete struct {
	ID ast.NodeID
}

func (d Delete) apply(ctx *Context) {
	ctx.Graph.Remove(d.ID)
}

// Set is a partially ordered set of passes.
type Set struct {
	passes []Pass
	index  map[string]int
	// deps[i] lists the pass indexes that must run before pass i.
	deps map[int][]int
}

func NewSet() *Set {
	return &Set{
		index: make(map[string]int),
		deps:  make(map[int][]int),
	}
}

// Add registers a pass after its dependencies. Unknown dependencies
// are a wiring bug and panic.
func (s *Set) Add(p Pass, after ...Pass) {
	id := len(s.passes)
	s.passes = append(s.passes, p)
	s.index[p.Name()] = id
	for _, dep := range after {
		depID, ok := s.index[dep.Name()]
		if !ok {
			panic(fmt.Sprintf("pipeline: dependency %q added after %q", dep.Name(), p.Name()))
		}
		s.deps[id] = append(s.deps[id], depID)
	}
}

// layers computes the topological layering of the dependency DAG:
// every pass appears in the first layer all its dependencies precede.
func (s *Set) layers() [][]int {
	remaining := make(map[int][]int, len(s.deps))
	for id, deps := range s.deps {
		remaining[id] = append([]int(nil), deps...)
	}
	done := make([]bool, len(s.passes))
	var out [][]int
	for placed := 0; placed < len(s.passes); {
		var layer []int
		for id := range s.passes {
			if done[id] {
				continue
			}
			ready := true
			for _, dep := range remaining[id] {
				if !done[dep] {
					ready = false
					break
				}
			}
			if ready {
				layer = append(layer, id)
			}
		}
		if len(layer) == 0 {
			panic(cerrs.ErrCycleDetected)
		}
		for _, id := range layer {
			done[id] = true
		}
		placed += len(layer)
		out = append(out, layer)
	}
	return out
}

// Run drives every layer over the graph. All failures inside passes
// surface as diagnostics; the returned error only reports that the
// pipeline stopped early.
func (s *Set) Run(ctx *Context) error {
	for _, layer := range s.layers() {
		if err := s.runLayer(ctx, layer); err != nil {
			return err
		}
	}
	return nil
}

func (s *Set) runLayer(ctx *Context, layer []int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			// a crashing pass becomes a Bug diagnostic for this file
			ctx.Report(diag.New(diag.Bug, diag.CodeCompilerCrash,
				fmt.Sprintf("compiler crash: %v", r)))
			err = cerrs.ErrPipelineAborted
		}
	}()

	var analyzers []Analyzer
	var transformers []Transformer
	for _, id := range layer {
		switch p := s.passes[id].(type) {
		case Transformer:
			transformers = append(transformers, p)
		case Analyzer:
			analyzers = append(analyzers, p)
		default:
			panic(fmt.Sprintf("pipeline: pass %q is neither analyzer nor transformer", s.passes[id].Name()))
		}
	}

	var changes ChangeSet
	var fatal error
	ctx.Graph.DFS(func(id ast.NodeID, side ast.VisitSide) {
		if fatal != nil {
			return
		}
		for _, a := range analyzers {
			if err := a.Analyze(ctx, id, side); err != nil {
				fatal = fmt.Errorf("%s: %w", a.Name(), err)
				return
			}
		}
		for _, t := range transformers {
			cs, err := t.Transform(ctx, id, side)
			if err != nil {
				fatal = fmt.Errorf("%s: %w", t.Name(), err)
				return
			}
			changes = append(changes, cs...)
		}
	})
	if fatal != nil {
		ctx.Report(diag.New(diag.Bug, diag.CodeCompilerCrash, fatal.Error()))
		return fatal
	}

	// change sets are applied after the traversal, never during
	for _, change := range changes {
		change.apply(ctx)
	}
	return nil
}
