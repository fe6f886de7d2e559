// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playbymail/tern/internal/intern"
)

func TestGraph_AddChildAndAccess(t *testing.T) {
	g := NewGraph()
	file := g.AddChild(RootID, func(id NodeID) Node { return &FileDecl{} }, TagDefault)
	mod := g.AddChild(file, func(id NodeID) Node {
		return &ModDecl{Name: intern.Get("Main")}
	}, TagDefault)

	node, ok := g.Get(mod)
	require.True(t, ok)
	require.Equal(t, KindModDecl, node.Kind())
	// the node stored its own id
	assert.Equal(t, mod, node.ID())

	parent, ok := g.ParentOf(mod)
	require.True(t, ok)
	assert.Equal(t, file, parent)

	root, ok := g.ParentOf(file)
	require.True(t, ok)
	assert.True(t, root.IsRoot())
}

func TestGraph_ChildOrderWithinTag(t *testing.T) {
	g := NewGraph()
	parent := g.AddChild(RootID, func(NodeID) Node { return &Exprs{} }, TagDefault)
	var want []NodeID
	for i := 0; i < 5; i++ {
		id := g.AddChild(parent, func(NodeID) Node { return &NumLit{} }, TagSecondary)
		want = append(want, id)
	}
	assert.Equal(t, want, g.ChildrenOf(parent, TagSecondary))
	assert.Empty(t, g.ChildrenOf(parent, TagPrimary))
}

func TestGraph_OrderedChildrenByTag(t *testing.T) {
	g := NewGraph()
	parent := g.AddChild(RootID, func(NodeID) Node { return &IfExpr{} }, TagDefault)
	// attach out of tag order on purpose
	deflt := g.AddChild(parent, func(NodeID) Node { return &ElseExpr{} }, TagDefault)
	secondary := g.AddChild(parent, func(NodeID) Node { return &Exprs{} }, TagSecondary)
	primary := g.AddChild(parent, func(NodeID) Node { return &Ref{} }, TagPrimary)

	assert.Equal(t, []NodeID{primary, secondary, deflt}, g.OrderedChildren(parent))
}

func TestGraph_GenerationInvalidation(t *testing.T) {
	g := NewGraph()
	parent := g.AddChild(RootID, func(NodeID) Node { return &FileDecl{} }, TagDefault)
	child := g.AddChild(parent, func(NodeID) Node { return &ModDecl{} }, TagDefault)

	require.True(t, g.Remove(child))
	_, ok := g.Get(child)
	assert.False(t, ok, "removed id must not resolve")

	// the slot is reused with a new generation; the stale id stays dead
	fresh := g.AddChild(parent, func(NodeID) Node { return &ModDecl{} }, TagDefault)
	_, ok = g.Get(fresh)
	require.True(t, ok)
	_, ok = g.Get(child)
	assert.False(t, ok)
}

func TestGraph_ReplaceKeepsID(t *testing.T) {
	g := NewGraph()
	parent := g.AddChild(RootID, func(NodeID) Node { return &FileDecl{} }, TagDefault)
	id := g.AddChild(parent, func(NodeID) Node { return &BinExpr{Op: BinAdd} }, TagDefault)
	left := g.AddChild(id, func(NodeID) Node { return &NumLit{} }, TagLeft)

	require.True(t, g.Replace(id, &Appl{}))
	node, ok := g.Get(id)
	require.True(t, ok)
	assert.Equal(t, KindAppl, node.Kind())
	assert.Equal(t, id, node.ID())
	// edges survive the replacement
	assert.Equal(t, []NodeID{left}, g.ChildrenOf(id, TagLeft))
}

func TestGraph_Retag(t *testing.T) {
	g := NewGraph()
	parent := g.AddChild(RootID, func(NodeID) Node { return &BinExpr{} }, TagDefault)
	left := g.AddChild(parent, func(NodeID) Node { return &NumLit{} }, TagLeft)
	right := g.AddChild(parent, func(NodeID) Node { return &NumLit{} }, TagRight)

	g.Retag(parent, TagLeft, TagSecondary)
	g.Retag(parent, TagRight, TagSecondary)

	// relative order is preserved across the retag
	assert.Equal(t, []NodeID{left, right}, g.ChildrenOf(parent, TagSecondary))
	assert.Empty(t, g.ChildrenOf(parent, TagLeft))
}

func TestGraph_DetachAttachPreservesIDs(t *testing.T) {
	g := NewGraph()
	file := g.AddChild(RootID, func(NodeID) Node { return &FileDecl{} }, TagDefault)
	modA := g.AddChild(file, func(NodeID) Node { return &ModDecl{Name: intern.Get("A")} }, TagDefault)
	modB := g.AddChild(file, func(NodeID) Node { return &ModDecl{Name: intern.Get("B")} }, TagDefault)
	fn := g.AddChild(modA, func(NodeID) Node { return &BodyFnDecl{Name: intern.Get("f")} }, TagDefault)

	detached, err := g.DetachSubtree(modA)
	require.NoError(t, err)
	assert.Equal(t, TagDefault, detached.Tag)
	assert.Equal(t, []NodeID{modB}, g.ChildrenOf(file, TagDefault))

	// detached nodes keep their ids and payloads
	node, ok := g.Get(fn)
	require.True(t, ok)
	assert.Equal(t, fn, node.ID())

	require.NoError(t, g.AttachSubtree(modB, detached, TagSecondary))
	assert.Equal(t, []NodeID{modA}, g.ChildrenOf(modB, TagSecondary))
	parent, ok := g.ParentOf(modA)
	require.True(t, ok)
	assert.Equal(t, modB, parent)
	// the whole subtree is reachable again
	assert.Equal(t, []NodeID{fn}, g.ChildrenOf(modA, TagDefault))
}

func TestGraph_DetachRootFails(t *testing.T) {
	g := NewGraph()
	_, err := g.DetachSubtree(RootID)
	assert.Error(t, err)
}

func TestGraph_DFSRoundTrip(t *testing.T) {
	g := NewGraph()
	file := g.AddChild(RootID, func(NodeID) Node { return &FileDecl{} }, TagDefault)
	mod := g.AddChild(file, func(NodeID) Node { return &ModDecl{} }, TagDefault)
	fn := g.AddChild(mod, func(NodeID) Node { return &BodyFnDecl{} }, TagDefault)
	g.AddChild(fn, func(NodeID) Node { return &NumLit{} }, TagDefault)

	first := g.Events()
	second := g.Events()
	require.Equal(t, first, second, "traversal must be deterministic")

	// the file node's Entering precedes every other event; its Exiting
	// follows every other event (the implicit root emits no events)
	require.NotEmpty(t, first)
	assert.Equal(t, Event{ID: file, Side: Entering}, first[0])
	assert.Equal(t, Event{ID: file, Side: Exiting}, first[len(first)-1])
}

func TestGraph_DFSSides(t *testing.T) {
	g := NewGraph()
	file := g.AddChild(RootID, func(NodeID) Node { return &FileDecl{} }, TagDefault)
	bin := g.AddChild(file, func(NodeID) Node { return &BinExpr{Op: BinAdd} }, TagDefault)
	left := g.AddChild(bin, func(NodeID) Node { return &NumLit{} }, TagLeft)
	right := g.AddChild(bin, func(NodeID) Node { return &NumLit{} }, TagRight)

	want := []Event{
		{ID: file, Side: Entering},
		{ID: bin, Side: Entering},
		{ID: left, Side: Leaf},
		{ID: right, Side: Leaf},
		{ID: bin, Side: Exiting},
		{ID: file, Side: Exiting},
	}
	assert.Equal(t, want, g.Events())
}

func TestGraph_SubtreeBuilderFolding(t *testing.T) {
	// sequential and parallel folding must produce identical graphs
	build := func(threshold int) string {
		old := parallelFoldThreshold
		parallelFoldThreshold = threshold
		defer func() { parallelFoldThreshold = old }()

		sub := NewSubtree(&FileDecl{})
		items := make([]int, 40)
		for i := range items {
			items[i] = i
		}
		FoldChildren(sub, items, TagDefault, func(i int) *Subtree {
			child := NewSubtree(&ModDecl{Name: intern.Get(strings.Repeat("m", i%7+1))})
			child.AddChild(&BodyFnDecl{Name: intern.Get("f")}, TagDefault)
			return child
		})
		g := NewGraph()
		g.Graft(RootID, sub, TagDefault)
		return g.ExportDOTString()
	}

	sequential := build(1 << 30)
	parallel := build(1)
	assert.Equal(t, sequential, parallel)
}
