// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ast

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/playbymail/tern/internal/rlt"
)

// Subtree is the builder form used while lowering the raw tree. It
// either owns a single leaf node or a full tree of pending nodes; the
// first insertion promotes the leaf form. Ids are assigned when the
// subtree is grafted onto a graph, and written back into the nodes at
// that point.
type Subtree struct {
	node    Node
	rltNode rlt.Node
	edges   []subtreeEdge
}

type subtreeEdge struct {
	tag   Tag
	child *Subtree
}

// NewSubtree returns the leaf form holding root.
func NewSubtree(root Node) *Subtree {
	return &Subtree{node: root}
}

// AddChild appends a leaf child and returns its subtree for further
// construction.
func (s *Subtree) AddChild(node Node, tag Tag) *Subtree {
	child := NewSubtree(node)
	s.edges = append(s.edges, subtreeEdge{tag: tag, child: child})
	return child
}

// Attach appends an independently built subtree as a child.
func (s *Subtree) Attach(child *Subtree, tag Tag) {
	s.edges = append(s.edges, subtreeEdge{tag: tag, child: child})
}

// Len returns the number of nodes in the subtree.
func (s *Subtree) Len() int {
	n := 1
	for _, e := range s.edges {
		n += e.child.Len()
	}
	return n
}

// WithRLT binds the subtree's root to the raw node it lowers, to be
// recorded in the accessor at graft time.
func (s *Subtree) WithRLT(n rlt.Node) *Subtree {
	s.rltNode = n
	return s
}

// Graft adds the whole subtree under parent, allocating ids in
// pre-order. The attached order of children matches construction
// order.
func (g *Graph) Graft(parent NodeID, s *Subtree, tag Tag) NodeID {
	return g.GraftMapped(parent, s, tag, nil)
}

// GraftMapped is Graft recording raw-tree bindings into acc.
func (g *Graph) GraftMapped(parent NodeID, s *Subtree, tag Tag, acc *Accessor) NodeID {
	id := g.AddNode(parent, s.node, tag)
	if acc != nil && s.rltNode != nil {
		acc.Save(id, s.rltNode)
	}
	for _, e := range s.edges {
		g.GraftMapped(id, e.child, e.tag, acc)
	}
	return id
}

// parallelFoldThreshold is the sibling count at or above which
// FoldChildren builds the per-child subtrees concurrently.
var parallelFoldThreshold = runtime.GOMAXPROCS(0) * 4

// FoldChildren builds one subtree per item and attaches them to s in
// item order. At or above a size threshold the per-child subtrees are
// constructed in parallel; attachment order, and therefore the final
// graph, is identical to the sequential form.
func FoldChildren[T any](s *Subtree, items []T, tag Tag, build func(T) *Subtree) {
	if len(items) < parallelFoldThreshold {
		for _, item := range items {
			s.Attach(build(item), tag)
		}
		return
	}

	children := make([]*Subtree, len(items))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			children[i] = build(item)
			return nil
		})
	}
	// builders are pure construction and never fail
	_ = g.Wait()
	for _, child := range children {
		s.Attach(child, tag)
	}
}
