// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scopes_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playbymail/tern/internal/ast"
	"github.com/playbymail/tern/internal/diag"
	"github.com/playbymail/tern/internal/intern"
	"github.com/playbymail/tern/internal/lexer"
	"github.com/playbymail/tern/internal/parser"
	"github.com/playbymail/tern/internal/passes/scopes"
	"github.com/playbymail/tern/internal/pipeline"
)

func analyze(t *testing.T, input string) (*scopes.Analyzer, *ast.Graph, *diag.Buffer) {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	require.NoError(t, err)
	f, errs := parser.Parse(tokens, input)
	require.Empty(t, errs)
	g, acc := ast.Build(f, input)

	diags := &diag.Buffer{}
	analyzer := scopes.New()
	set := pipeline.NewSet()
	set.Add(analyzer)
	ctx := &pipeline.Context{
		Graph: g,
		RLT:   acc,
		Diags: diags,
		Log:   logrus.NewEntry(logrus.New()),
	}
	require.NoError(t, set.Run(ctx))
	return analyzer, g, diags
}

func TestScopes_BalancedAfterTraversal(t *testing.T) {
	input := "module M {\n" +
		"  struct Pair(a: Int, b: Int) { fun sum => a }\n" +
		"  fun f(x) => { val y = x; if y { y } else { x } }\n" +
		"}\n"
	analyzer, _, diags := analyze(t, input)
	for _, d := range diags.All() {
		assert.NotEqual(t, diag.CodeWrongScopeExit, d.Code, "scope stack must balance: %v", d)
	}
	assert.NotNil(t, analyzer.Tree().Root)
}

func TestScopes_FunctionSymbolLandsInModuleScope(t *testing.T) {
	input := "module M {\n  fun f(x) => x\n}\n"
	analyzer, g, diags := analyze(t, input)
	assert.Empty(t, diags.All())

	tree := analyzer.Tree()
	// find the module scope: the child of the root
	require.Len(t, tree.Root.Children, 1)
	modScope := tree.Root.Children[0]
	assert.True(t, modScope.Named)
	assert.Equal(t, "M", modScope.Name.String())

	sym, ok := modScope.LookupVar(intern.Get("f"))
	require.True(t, ok)
	assert.Equal(t, scopes.SymbolFunction, sym.Kind)
	node, liveOK := g.Get(sym.Node)
	require.True(t, liveOK)
	assert.Equal(t, ast.KindBodyFnDecl, node.Kind())
}

func TestScopes_ParameterInFunctionScope(t *testing.T) {
	input := "module M {\n  fun f(x) => x\n}\n"
	analyzer, _, _ := analyze(t, input)

	modScope := analyzer.Tree().Root.Children[0]
	require.Len(t, modScope.Children, 1)
	fnScope := modScope.Children[0]
	sym, ok := fnScope.LookupVar(intern.Get("x"))
	require.True(t, ok)
	assert.Equal(t, scopes.SymbolParameter, sym.Kind)

	// the parameter is invisible from the module scope
	_, ok = modScope.LookupVar(intern.Get("x"))
	assert.False(t, ok)
}

func TestScopes_LookupWalksOutward(t *testing.T) {
	input := "module M {\n  fun f(x) => { val y = x; y }\n}\n"
	analyzer, _, _ := analyze(t, input)

	modScope := analyzer.Tree().Root.Children[0]
	fnScope := modScope.Children[0]
	require.NotEmpty(t, fnScope.Children)
	blockScope := fnScope.Children[0]

	// y is local to the block; x resolves through the enclosing scope
	_, ok := blockScope.LookupVar(intern.Get("y"))
	assert.True(t, ok)
	sym, ok := blockScope.LookupVar(intern.Get("x"))
	require.True(t, ok)
	assert.Equal(t, scopes.SymbolParameter, sym.Kind)
}

func TestScopes_TypeAndVariableNamespacesAreSeparate(t *testing.T) {
	input := "module M {\n  struct Thing { }\n  fun thing => 1\n}\n"
	analyzer, _, diags := analyze(t, input)
	assert.Empty(t, diags.All())

	modScope := analyzer.Tree().Root.Children[0]
	_, ok := modScope.LookupType(intern.Get("Thing"))
	assert.True(t, ok)
	_, ok = modScope.LookupVar(intern.Get("Thing"))
	assert.False(t, ok)
	_, ok = modScope.LookupVar(intern.Get("thing"))
	assert.True(t, ok)
}

func TestScopes_EnumMembersDeclareTypeConstants(t *testing.T) {
	input := "module M {\n  enum struct Color { Red, Green }\n}\n"
	analyzer, _, diags := analyze(t, input)
	assert.Empty(t, diags.All())

	modScope := analyzer.Tree().Root.Children[0]
	require.Len(t, modScope.Children, 1)
	enumScope := modScope.Children[0]
	_, ok := enumScope.LookupType(intern.Get("Red"))
	assert.True(t, ok)
	// the enum's own name is installed in the module scope
	sym, ok := modScope.LookupType(intern.Get("Color"))
	require.True(t, ok)
	require.NotNil(t, sym.Scheme)
	assert.Equal(t, "Color", sym.Scheme.Body.String())
}

func TestScopes_Redeclaration(t *testing.T) {
	input := "module M {\n  fun f => { val x = 1; val x = 2; x }\n}\n"
	_, _, diags := analyze(t, input)

	var found bool
	for _, d := range diags.All() {
		if d.Code == diag.CodeAlreadyDefined {
			found = true
			assert.Len(t, d.Labels, 2, "both declaration sites are labelled")
		}
	}
	assert.True(t, found, "expected an already-defined diagnostic")
}

func TestScopes_ShadowingAcrossScopesIsAllowed(t *testing.T) {
	input := "module M {\n  fun f(x) => { val x = 1; x }\n}\n"
	_, _, diags := analyze(t, input)
	for _, d := range diags.All() {
		assert.NotEqual(t, diag.CodeAlreadyDefined, d.Code)
	}
}
