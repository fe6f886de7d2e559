// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package typecheck

import (
	"errors"
	"fmt"

	"github.com/playbymail/tern/internal/ast"
	"github.com/playbymail/tern/internal/diag"
	"github.com/playbymail/tern/internal/passes/scopes"
	"github.com/playbymail/tern/internal/pipeline"
	"github.com/playbymail/tern/internal/types"
)

// Checker infers a type scheme for every bodied function. Successful
// inference assigns the scheme to the function's symbol and reports an
// inferred-type note; failures surface as diagnostics (TI codes for
// inference errors, SE005 for an unresolved type, ICE001 for a lowering
// failure) and the pass continues with the remaining functions.
type Checker struct {
	scopes      *scopes.Analyzer
	env         types.Environment
	assumptions types.Assumptions
}

func New(sc *scopes.Analyzer) *Checker {
	return &Checker{
		scopes:      sc,
		assumptions: preludeAssumptions(),
	}
}

func (c *Checker) Name() string { return "type-checker" }

func (c *Checker) Analyze(ctx *pipeline.Context, id ast.NodeID, side ast.VisitSide) error {
	if side == ast.Entering {
		return nil
	}
	fn, ok := ctx.Graph.MustGet(id).(*ast.BodyFnDecl)
	if !ok {
		return nil
	}

	l := &lowerer{graph: ctx.Graph}
	model, err := l.lowerFn(id)
	if err != nil {
		c.report(ctx, id, err)
		return nil
	}
	scheme, err := types.InferScheme(model, c.assumptions, &c.env)
	if err != nil {
		c.report(ctx, id, err)
		return nil
	}

	name := fn.Name.String()
	c.assumptions[name] = scheme
	if sym, ok := c.scopes.Tree().ScopeFor(id).LookupVar(fn.Name); ok {
		sym.Scheme = &scheme
	}
	ctx.Report(diag.New(diag.Note, diag.CodeInferredType,
		fmt.Sprintf("type of function `%s` inferred to: %s", name, scheme),
		ctx.LabelFor(id, "declared here")))
	return nil
}

// report maps inference failures onto the diagnostic taxonomy with the
// most specific span available.
func (c *Checker) report(ctx *pipeline.Context, fnID ast.NodeID, err error) {
	var unknown *types.UnknownVarError
	var unify *types.UnifyError
	var infinite *types.InfiniteTypeError
	var mismatch *types.MismatchError
	var lowered *lowerError

	switch {
	case errors.As(err, &unknown):
		label := ctx.LabelFor(fnID, "")
		isType := false
		if origin, ok := unknown.Origin.(ast.NodeID); ok {
			label = ctx.LabelFor(origin, "referenced here")
			if ref, ok := ctx.Graph.MustGet(origin).(*ast.Ref); ok {
				isType = ref.IsType
			}
		}
		if isType {
			ctx.Report(diag.New(diag.Error, diag.CodeUnresolvedReference,
				fmt.Sprintf("cannot resolve type `%s`", unknown.Name), label))
			return
		}
		ctx.Report(diag.New(diag.Error, diag.CodeUnknownVar,
			fmt.Sprintf("`%s` is not defined", unknown.Name), label))
	case errors.As(err, &unify):
		ctx.Report(diag.New(diag.Error, diag.CodeUnificationFail,
			fmt.Sprintf("expected to have type `%s`, but have type `%s`", unify.A, unify.B),
			ctx.LabelFor(fnID, "while checking this function")))
	case errors.As(err, &infinite):
		ctx.Report(diag.New(diag.Error, diag.CodeInfiniteType,
			fmt.Sprintf("infinite type detected: `%s` ~ `%s`", infinite.V, infinite.T),
			ctx.LabelFor(fnID, "while checking this function")))
	case errors.As(err, &mismatch):
		ctx.Report(diag.New(diag.Error, diag.CodeUnificationMismatch,
			err.Error(), ctx.LabelFor(fnID, "while checking this function")))
	case errors.As(err, &lowered):
		ctx.Report(diag.New(diag.Bug, diag.CodeCompilerCrash,
			err.Error(), ctx.LabelFor(fnID, "while checking this function")))
	default:
		ctx.Report(diag.New(diag.Bug, diag.CodeCompilerCrash,
			err.Error(), ctx.LabelFor(fnID, "while checking this function")))
	}
}

// preludeAssumptions seeds the schemes of the reserved ::Prelude
// intrinsics the desugaring pass targets.
func preludeAssumptions() types.Assumptions {
	a, b, cv := types.Var(0), types.Var(1), types.Var(2)
	ta, tb, tc := types.TVar{V: a}, types.TVar{V: b}, types.TVar{V: cv}

	closed := func(body types.Mono, vars ...types.Var) types.Scheme {
		return types.Scheme{Vars: vars, Body: body}
	}
	assumptions := types.Assumptions{}
	bind := func(name string, scheme types.Scheme) {
		assumptions["::Prelude::"+name] = scheme
	}

	// arithmetic: ∀a. a -> a -> a
	for _, name := range []string{
		"__add_internal", "__sub_internal", "__mul_internal",
		"__div_internal", "__mod_internal", "__pow_internal",
		"__assign_internal",
	} {
		bind(name, closed(types.FunOf(ta, ta, ta), a))
	}
	// comparisons: ∀a. a -> a -> Boolean
	for _, name := range []string{
		"__less_internal", "__less_eq_internal",
		"__greater_internal", "__greater_eq_internal",
		"__eq_internal", "__neq_internal",
	} {
		bind(name, closed(types.FunOf(types.Boolean, ta, ta), a))
	}
	// three-way comparison: ∀a. a -> a -> Integral
	bind("__cmp_internal", closed(types.FunOf(types.Integral, ta, ta), a))
	// logic connectives
	bind("__dis_internal", types.MonoScheme(types.FunOf(types.Boolean, types.Boolean, types.Boolean)))
	bind("__con_internal", types.MonoScheme(types.FunOf(types.Boolean, types.Boolean, types.Boolean)))
	// bitwise: ∀a. a -> a -> a
	for _, name := range []string{"__or_internal", "__and_internal", "__xor_internal"} {
		bind(name, closed(types.FunOf(ta, ta, ta), a))
	}
	// unary
	bind("__neg_internal", closed(types.FunOf(ta, ta), a))
	bind("__plus_internal", closed(types.FunOf(ta, ta), a))
	bind("__not_internal", types.MonoScheme(types.FunOf(types.Boolean, types.Boolean)))
	bind("__inv_internal", closed(types.FunOf(ta, ta), a))
	// compose: ∀a,b,c. (b -> c) -> (a -> b) -> a -> c
	bind("compose", closed(
		types.FunOf(tc, types.Fun{In: tb, Out: tc}, types.Fun{In: ta, Out: tb}, ta),
		a, b, cv))
	return assumptions
}
