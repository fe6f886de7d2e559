// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inferScheme(t *testing.T, expr Expr) Scheme {
	t.Helper()
	env := &Environment{}
	scheme, err := InferScheme(expr, Assumptions{}, env)
	require.NoError(t, err)
	return scheme
}

// alphaEqual compares two monotypes up to renaming of type variables.
func alphaEqual(a, b Mono, mapping map[Var]Var) bool {
	switch x := a.(type) {
	case Primitive:
		y, ok := b.(Primitive)
		return ok && x == y
	case Constant:
		y, ok := b.(Constant)
		return ok && x.Name == y.Name
	case TVar:
		y, ok := b.(TVar)
		if !ok {
			return false
		}
		if mapped, seen := mapping[x.V]; seen {
			return mapped == y.V
		}
		mapping[x.V] = y.V
		return true
	case Fun:
		y, ok := b.(Fun)
		return ok && alphaEqual(x.In, y.In, mapping) && alphaEqual(x.Out, y.Out, mapping)
	case Tuple:
		y, ok := b.(Tuple)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !alphaEqual(x.Items[i], y.Items[i], mapping) {
				return false
			}
		}
		return true
	case Pointer:
		y, ok := b.(Pointer)
		return ok && alphaEqual(x.Elem, y.Elem, mapping)
	default:
		return false
	}
}

func assertSchemeAlpha(t *testing.T, scheme Scheme, want Mono) {
	t.Helper()
	if !alphaEqual(scheme.Body, want, map[Var]Var{}) {
		t.Fatalf("scheme %s is not alpha-equivalent to %s", scheme, want)
	}
}

// λf. λx. f x :: ∀a,b. (a -> b) -> a -> b
func TestInfer_ChurchApplication(t *testing.T) {
	expr := ELam{Bind: "f", Expr: ELam{Bind: "x", Expr: EApp{
		Fn:  EVar{Name: "f"},
		Arg: EVar{Name: "x"},
	}}}
	scheme := inferScheme(t, expr)
	assert.Len(t, scheme.Vars, 2)
	a, b := TVar{V: Var(100)}, TVar{V: Var(101)}
	assertSchemeAlpha(t, scheme, FunOf(b, Fun{In: a, Out: b}, a))
}

// λz. let x = (z, z) in (λy. (y, y)) x :: ∀a. a -> ((a,a),(a,a))
func TestInfer_PairOfPair(t *testing.T) {
	expr := ELam{Bind: "z", Expr: ELet{
		Bind:  "x",
		Value: ETuple{Items: []Expr{EVar{Name: "z"}, EVar{Name: "z"}}},
		Body: EApp{
			Fn: ELam{Bind: "y", Expr: ETuple{Items: []Expr{
				EVar{Name: "y"}, EVar{Name: "y"},
			}}},
			Arg: EVar{Name: "x"},
		},
	}}
	scheme := inferScheme(t, expr)
	assert.Len(t, scheme.Vars, 1)
	a := TVar{V: Var(100)}
	pair := Tuple{Items: []Mono{a, a}}
	assertSchemeAlpha(t, scheme, Fun{In: a, Out: Tuple{Items: []Mono{pair, pair}}})
}

// λf. λx. x :: ∀a,b. a -> b -> b
func TestInfer_ChurchZero(t *testing.T) {
	expr := ELam{Bind: "f", Expr: ELam{Bind: "x", Expr: EVar{Name: "x"}}}
	scheme := inferScheme(t, expr)
	a, b := TVar{V: Var(100)}, TVar{V: Var(101)}
	assertSchemeAlpha(t, scheme, FunOf(b, a, b))
}

// λx. x x has no finite type.
func TestInfer_SelfApplicationIsInfinite(t *testing.T) {
	expr := ELam{Bind: "x", Expr: EApp{Fn: EVar{Name: "x"}, Arg: EVar{Name: "x"}}}
	env := &Environment{}
	_, err := InferScheme(expr, Assumptions{}, env)
	var inf *InfiniteTypeError
	assert.True(t, errors.As(err, &inf), "err = %v", err)
}

func TestInfer_UnknownVar(t *testing.T) {
	expr := ELam{Bind: "x", Expr: EVar{Name: "y", Origin: "marker"}}
	env := &Environment{}
	_, err := InferScheme(expr, Assumptions{}, env)
	var unknown *UnknownVarError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "y", unknown.Name)
	assert.Equal(t, "marker", unknown.Origin)
}

func TestInfer_LetPolymorphism(t *testing.T) {
	// let id = λx. x in (id id) :: ∀a. a -> a
	expr := ELet{
		Bind:  "id",
		Value: ELam{Bind: "x", Expr: EVar{Name: "x"}},
		Body:  EApp{Fn: EVar{Name: "id"}, Arg: EVar{Name: "id"}},
	}
	scheme := inferScheme(t, expr)
	a := TVar{V: Var(100)}
	assertSchemeAlpha(t, scheme, Fun{In: a, Out: a})
}

func TestInfer_Literals(t *testing.T) {
	cases := []struct {
		expr Expr
		want Mono
	}{
		{ELit{Kind: LitIntegral, Text: "42"}, Integral},
		{ELit{Kind: LitFloating, Text: "3.25"}, Floating},
		{ELit{Kind: LitChar, Text: "'c'"}, Char},
		{ELit{Kind: LitString, Text: `"s"`}, String},
		{ETuple{Items: []Expr{
			ELit{Kind: LitIntegral, Text: "1"},
			ELit{Kind: LitChar, Text: "'c'"},
		}}, Tuple{Items: []Mono{Integral, Char}}},
	}
	for _, tc := range cases {
		env := &Environment{}
		s, ty, err := Infer(tc.expr, Assumptions{}, env)
		require.NoError(t, err)
		assert.Empty(t, s)
		assert.True(t, Equal(tc.want, ty), "got %s, want %s", ty, tc.want)
	}
}

func TestInfer_IfUnifiesBranchesAndCondition(t *testing.T) {
	// λc. λt. λf. if c then t else f :: Boolean -> a -> a -> a
	expr := ELam{Bind: "c", Expr: ELam{Bind: "t", Expr: ELam{Bind: "f", Expr: EIf{
		Cond: EVar{Name: "c"},
		Then: EVar{Name: "t"},
		Else: EVar{Name: "f"},
	}}}}
	scheme := inferScheme(t, expr)
	a := TVar{V: Var(100)}
	assertSchemeAlpha(t, scheme, FunOf(a, Boolean, a, a))
}

func TestInfer_IfRequiresBooleanCondition(t *testing.T) {
	expr := EIf{
		Cond: ELit{Kind: LitIntegral, Text: "1"},
		Then: ELit{Kind: LitIntegral, Text: "2"},
		Else: ELit{Kind: LitIntegral, Text: "3"},
	}
	env := &Environment{}
	_, err := InferScheme(expr, Assumptions{}, env)
	var fail *UnifyError
	assert.True(t, errors.As(err, &fail), "err = %v", err)
}

func TestInfer_FreshVariablesAreMonotonic(t *testing.T) {
	env := &Environment{}
	for i := 0; i < 5; i++ {
		assert.Equal(t, Var(i), env.Fresh())
	}
}

func TestInfer_InstantiateReplacesBoundVars(t *testing.T) {
	env := &Environment{}
	scheme := Scheme{Vars: []Var{Var(0)}, Body: Fun{In: tv(0), Out: tv(0)}}
	first := scheme.Instantiate(env)
	second := scheme.Instantiate(env)
	assert.False(t, Equal(first, second), "instantiations must be fresh")
	// both keep the shape a -> a
	assert.True(t, alphaEqual(first, second, map[Var]Var{}))
}

func TestScheme_StringRendersCanonicalVars(t *testing.T) {
	scheme := Scheme{
		Vars: []Var{Var(7), Var(9)},
		Body: FunOf(tv(9), tv(7), tv(9)),
	}
	assert.Equal(t, "∀'a, 'b => 'a -> 'b -> 'b", scheme.String())
}
