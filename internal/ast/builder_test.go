// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ast_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playbymail/tern/internal/ast"
	"github.com/playbymail/tern/internal/lexer"
	"github.com/playbymail/tern/internal/parser"
)

func build(t *testing.T, input string) (*ast.Graph, *ast.Accessor) {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	require.NoError(t, err)
	f, errs := parser.Parse(tokens, input)
	require.Empty(t, errs)
	return ast.Build(f, input)
}

func TestBuilder_EmptyFile(t *testing.T) {
	g, _ := build(t, "")
	events := g.Events()
	require.Len(t, events, 1)
	node, ok := g.Get(events[0].ID)
	require.True(t, ok)
	assert.Equal(t, ast.KindFileDecl, node.Kind())
	assert.Equal(t, ast.Leaf, events[0].Side)
}

func TestBuilder_ModuleAndFunctionShape(t *testing.T) {
	input := "module Main =>\n  fun add(x: Int, y) => x\n"
	g, acc := build(t, input)

	events := g.Events()
	file := events[0].ID
	modules := g.ChildrenOf(file, ast.TagDefault)
	require.Len(t, modules, 1)
	mod := g.MustGet(modules[0]).(*ast.ModDecl)
	assert.True(t, mod.Global)
	assert.Equal(t, "Main", mod.Name.String())

	fns := g.ChildrenOf(modules[0], ast.TagDefault)
	require.Len(t, fns, 1)
	fn := g.MustGet(fns[0]).(*ast.BodyFnDecl)
	assert.Equal(t, "add", fn.Name.String())

	params := g.ChildrenOf(fns[0], ast.TagPrimary)
	require.Len(t, params, 2)
	typed := g.MustGet(params[0]).(*ast.TyParam)
	assert.Equal(t, "x", typed.Name.String())
	ty := g.ChildrenOf(params[0], ast.TagDefault)
	require.Len(t, ty, 1)
	assert.Equal(t, "Int", g.MustGet(ty[0]).(*ast.TyName).Name.String())
	untyped := g.MustGet(params[1]).(*ast.NonTyParam)
	assert.Equal(t, "y", untyped.Name.String())

	body, ok := g.FirstChild(fns[0], ast.TagDefault)
	require.True(t, ok)
	ref := g.MustGet(body).(*ast.Ref)
	assert.Equal(t, "x", ref.Name.String())
	assert.False(t, ref.IsType)

	// the module's binding points at its `module` keyword
	span, ok := acc.SpanOf(modules[0])
	require.True(t, ok)
	assert.Equal(t, "module", span.Text(input))
}

func TestBuilder_BinaryOperationEdges(t *testing.T) {
	input := "module M => fun f => 1 + 2 * 3"
	g, _ := build(t, input)

	var binAdd ast.NodeID
	g.DFS(func(id ast.NodeID, side ast.VisitSide) {
		if side == ast.Exiting {
			return
		}
		if n, ok := g.MustGet(id).(*ast.BinExpr); ok && n.Op == ast.BinAdd {
			binAdd = id
		}
	})
	require.NotEqual(t, ast.NodeID{}, binAdd)

	left := g.ChildrenOf(binAdd, ast.TagLeft)
	right := g.ChildrenOf(binAdd, ast.TagRight)
	require.Len(t, left, 1)
	require.Len(t, right, 1)
	assert.Equal(t, "1", g.MustGet(left[0]).(*ast.NumLit).Value.String())
	mul := g.MustGet(right[0]).(*ast.BinExpr)
	assert.Equal(t, ast.BinMul, mul.Op)
}

func TestBuilder_ApplicationEdges(t *testing.T) {
	input := "module M => fun f => g(1, 2)"
	g, _ := build(t, input)

	var appl ast.NodeID
	g.DFS(func(id ast.NodeID, side ast.VisitSide) {
		if side == ast.Exiting {
			return
		}
		if _, ok := g.MustGet(id).(*ast.Appl); ok {
			appl = id
		}
	})
	require.NotEqual(t, ast.NodeID{}, appl)

	callee, ok := g.FirstChild(appl, ast.TagPrimary)
	require.True(t, ok)
	assert.Equal(t, "g", g.MustGet(callee).(*ast.Ref).Name.String())
	args := g.ChildrenOf(appl, ast.TagSecondary)
	require.Len(t, args, 2)
	assert.Equal(t, "1", g.MustGet(args[0]).(*ast.NumLit).Value.String())
	assert.Equal(t, "2", g.MustGet(args[1]).(*ast.NumLit).Value.String())
}

func TestBuilder_NumericLiteralsPreserveText(t *testing.T) {
	input := "module M => fun f => (0b1010, 0c77, 0xFF, 3.25)"
	g, _ := build(t, input)

	var got []struct {
		text string
		base ast.NumBase
	}
	g.DFS(func(id ast.NodeID, side ast.VisitSide) {
		if side == ast.Exiting {
			return
		}
		if n, ok := g.MustGet(id).(*ast.NumLit); ok {
			got = append(got, struct {
				text string
				base ast.NumBase
			}{n.Value.String(), n.Base})
		}
	})
	require.Len(t, got, 4)
	assert.Equal(t, "0b1010", got[0].text)
	assert.Equal(t, ast.BaseBinary, got[0].base)
	assert.Equal(t, "0c77", got[1].text)
	assert.Equal(t, ast.BaseOctal, got[1].base)
	assert.Equal(t, "0xFF", got[2].text)
	assert.Equal(t, ast.BaseHex, got[2].base)
	assert.Equal(t, "3.25", got[3].text)
	assert.Equal(t, ast.BaseFloating, got[3].base)
}

func TestBuilder_ReferencesKeepLexicalForm(t *testing.T) {
	input := "module M => fun f => ::Prelude::compose(A::B::c, x)"
	g, _ := build(t, input)

	var refs []*ast.Ref
	g.DFS(func(id ast.NodeID, side ast.VisitSide) {
		if side == ast.Exiting {
			return
		}
		if n, ok := g.MustGet(id).(*ast.Ref); ok {
			refs = append(refs, n)
		}
	})
	require.Len(t, refs, 3)
	assert.Equal(t, "::Prelude::compose", refs[0].Context.String()+refs[0].Name.String())
	assert.Equal(t, "A::B::c", refs[1].Context.String()+refs[1].Name.String())
	assert.Equal(t, "x", refs[2].Context.String()+refs[2].Name.String())
}

// Every non-root node has exactly one parent; ids are stable and every
// node is visited exactly once per traversal.
func TestBuilder_StructuralInvariants(t *testing.T) {
	input := strings.Join([]string{
		"module Main {",
		"  struct Pair(first: Int, second: Int) {",
		"    fun swap => (second, first)",
		"  }",
		"  enum struct Color { Red, Green }",
		"  fun pick(c) => if c { 1 } else { 2 }",
		"}",
	}, "\n")
	g, acc := build(t, input)

	seen := map[ast.NodeID]int{}
	g.DFS(func(id ast.NodeID, side ast.VisitSide) {
		if side == ast.Entering || side == ast.Leaf {
			seen[id]++
		}
		node, ok := g.Get(id)
		require.True(t, ok, "live node resolves during traversal")
		require.Equal(t, id, node.ID(), "node stores its own id")
	})
	require.NotEmpty(t, seen)
	for id, count := range seen {
		assert.Equalf(t, 1, count, "node %s visited once", id)
		parent, ok := g.ParentOf(id)
		require.True(t, ok)
		if !parent.IsRoot() {
			_, ok := g.Get(parent)
			assert.True(t, ok, "parent is live")
		}
	}
	assert.Equal(t, len(seen), g.Len())

	// every built node has a raw-tree binding (no synthetics yet)
	for id := range seen {
		_, ok := acc.RLTOf(id)
		assert.Truef(t, ok, "node %s has an RLT binding", id)
	}
}
