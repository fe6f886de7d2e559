// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package typecheck_test

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playbymail/tern/internal/ast"
	"github.com/playbymail/tern/internal/diag"
	"github.com/playbymail/tern/internal/intern"
	"github.com/playbymail/tern/internal/lexer"
	"github.com/playbymail/tern/internal/parser"
	"github.com/playbymail/tern/internal/passes/desugar"
	"github.com/playbymail/tern/internal/passes/scopes"
	"github.com/playbymail/tern/internal/passes/typecheck"
	"github.com/playbymail/tern/internal/pipeline"
)

// check runs desugaring, scope analysis and inference over one input.
func check(t *testing.T, input string) *diag.Buffer {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	require.NoError(t, err)
	f, errs := parser.Parse(tokens, input)
	require.Empty(t, errs)
	g, acc := ast.Build(f, input)

	diags := &diag.Buffer{}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	ctx := &pipeline.Context{
		Graph: g,
		RLT:   acc,
		Diags: diags,
		Log:   logrus.NewEntry(logger),
	}

	set := pipeline.NewSet()
	binary := desugar.Binary{}
	unary := desugar.Unary{}
	access := desugar.Access{}
	set.Add(binary)
	set.Add(unary)
	set.Add(access)
	sc := scopes.New()
	set.Add(sc, binary, unary, access)
	set.Add(typecheck.New(sc), sc)
	require.NoError(t, set.Run(ctx))
	return diags
}

func notes(diags *diag.Buffer) []string {
	var out []string
	for _, d := range diags.All() {
		if d.Code == diag.CodeInferredType {
			out = append(out, d.Message)
		}
	}
	return out
}

func TestChecker_SimpleFunctionNote(t *testing.T) {
	diags := check(t, "module M => fun id(x) => x\n")
	require.False(t, diags.HasErrors(), "diagnostics: %v", diags.All())
	all := notes(diags)
	require.Len(t, all, 1)
	assert.Contains(t, all[0], "`id`")
	assert.Contains(t, all[0], "∀'a => 'a -> 'a")
}

func TestChecker_BlockLowering(t *testing.T) {
	input := "module M => fun f(x) => {\n  val a = x\n  val b = (a, a)\n  b\n}\n"
	diags := check(t, input)
	require.False(t, diags.HasErrors(), "diagnostics: %v", diags.All())
	all := notes(diags)
	require.Len(t, all, 1)
	assert.Contains(t, all[0], "∀'a => 'a -> ('a, 'a)")
}

func TestChecker_IfLowering(t *testing.T) {
	// the condition must be Boolean and the branches must agree, so a
	// conditional over comparisons of the parameters checks cleanly
	input := "module M => fun pick(a, b) => if a < b { a } elif a > b { b } else { a }\n"
	diags := check(t, input)
	require.False(t, diags.HasErrors(), "diagnostics: %v", diags.All())
}

func TestChecker_IfConditionMustBeBoolean(t *testing.T) {
	input := "module M => fun bad => if 1 { 2 } else { 3 }\n"
	diags := check(t, input)
	var found bool
	for _, d := range diags.All() {
		if d.Code == diag.CodeUnificationFail {
			found = true
		}
	}
	assert.True(t, found, "diagnostics: %v", diags.All())
}

func TestChecker_CharAndStringLiterals(t *testing.T) {
	input := "module M => fun pair => ('c', \"text\")\n"
	diags := check(t, input)
	require.False(t, diags.HasErrors(), "diagnostics: %v", diags.All())
	all := notes(diags)
	require.Len(t, all, 1)
	assert.Contains(t, all[0], "(Char, String)")
}

func TestChecker_ComposeIntrinsic(t *testing.T) {
	input := "module M => fun both(f, g) => f . g\n"
	diags := check(t, input)
	require.False(t, diags.HasErrors(), "diagnostics: %v", diags.All())
	all := notes(diags)
	require.Len(t, all, 1)
	// compose :: (b -> c) -> (a -> b) -> a -> c applied to f and g
	assert.True(t, strings.Contains(all[0], "->"), "note: %s", all[0])
}

func TestChecker_NestedFunctionsBindInBlocks(t *testing.T) {
	input := "module M => fun outer(x) => {\n  fun inner(y) => y\n  inner x\n}\n"
	diags := check(t, input)
	require.False(t, diags.HasErrors(), "diagnostics: %v", diags.All())
	// both functions get notes
	assert.Len(t, notes(diags), 2)
}

func TestChecker_AssignsSchemeToSymbol(t *testing.T) {
	input := "module M => fun id(x) => x\n"
	tokens, err := lexer.Tokenize(input)
	require.NoError(t, err)
	f, errs := parser.Parse(tokens, input)
	require.Empty(t, errs)
	g, acc := ast.Build(f, input)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	ctx := &pipeline.Context{Graph: g, RLT: acc, Diags: &diag.Buffer{}, Log: logrus.NewEntry(logger)}

	set := pipeline.NewSet()
	sc := scopes.New()
	set.Add(sc)
	set.Add(typecheck.New(sc), sc)
	require.NoError(t, set.Run(ctx))

	modScope := sc.Tree().Root.Children[0]
	sym, ok := modScope.LookupVar(astName(g))
	require.True(t, ok)
	require.NotNil(t, sym.Scheme, "inference assigns the function's scheme")
	assert.Contains(t, sym.Scheme.String(), "'a -> 'a")
}

// astName digs out the interned name of the first function.
func astName(g *ast.Graph) intern.Str {
	var fn *ast.BodyFnDecl
	g.DFS(func(id ast.NodeID, side ast.VisitSide) {
		if side == ast.Exiting || fn != nil {
			return
		}
		if n, ok := g.MustGet(id).(*ast.BodyFnDecl); ok {
			fn = n
		}
	})
	return fn.Name
}
