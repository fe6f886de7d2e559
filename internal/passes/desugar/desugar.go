// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package desugar rewrites operator expressions into calls to the
// reserved intrinsic functions of the ::Prelude context.
//
// Each rewrite replaces the operator node in place, so the node keeps
// its id and its raw-tree binding; the operands are retagged as
// arguments and the intrinsic reference is added as the callee.
package desugar

import (
	"fmt"

	"github.com/playbymail/tern/internal/ast"
	"github.com/playbymail/tern/internal/intern"
	"github.com/playbymail/tern/internal/pipeline"
)

var binaryIntrinsics = map[ast.BinKind]string{
	ast.BinAdd:       "__add_internal",
	ast.BinSub:       "__sub_internal",
	ast.BinMul:       "__mul_internal",
	ast.BinDiv:       "__div_internal",
	ast.BinMod:       "__mod_internal",
	ast.BinPow:       "__pow_internal",
	ast.BinLess:      "__less_internal",
	ast.BinLessEq:    "__less_eq_internal",
	ast.BinGreater:   "__greater_internal",
	ast.BinGreaterEq: "__greater_eq_internal",
	ast.BinEq:        "__eq_internal",
	ast.BinNotEq:     "__neq_internal",
	ast.BinSpaceship: "__cmp_internal",
	ast.BinOrLogic:   "__dis_internal",
	ast.BinAndLogic:  "__con_internal",
	ast.BinOrBit:     "__or_internal",
	ast.BinAndBit:    "__and_internal",
	ast.BinXorBit:    "__xor_internal",
	ast.BinAssign:    "__assign_internal",
}

var unaryIntrinsics = map[ast.UnKind]string{
	ast.UnNeg:  "__neg_internal",
	ast.UnNot:  "__not_internal",
	ast.UnInv:  "__inv_internal",
	ast.UnPlus: "__plus_internal",
}

// replaceWith rewrites the node into `::Prelude::<name>(<operands>)`.
// The replacement keeps the old id; the intrinsic reference receives a
// fresh one.
func replaceWith(id ast.NodeID, name string) pipeline.ChangeSet {
	return pipeline.ChangeSet{
		pipeline.Replace{ID: id, With: &ast.Appl{}},
		pipeline.Retag{Parent: id, From: ast.TagLeft, To: ast.TagSecondary},
		pipeline.Retag{Parent: id, From: ast.TagRight, To: ast.TagSecondary},
		pipeline.Retag{Parent: id, From: ast.TagDefault, To: ast.TagSecondary},
		pipeline.Add{
			Parent: id,
			Node: &ast.Ref{
				Context: ast.GlobalContext("Prelude"),
				Name:    intern.Get(name),
			},
			Tag: ast.TagPrimary,
		},
	}
}

// Binary expands `a op b` into `::Prelude::__{op}_internal(a, b)`.
type Binary struct{}

func (Binary) Name() string { return "desugar-binary" }

func (Binary) Transform(ctx *pipeline.Context, id ast.NodeID, side ast.VisitSide) (pipeline.ChangeSet, error) {
	if side != ast.Entering {
		return nil, nil
	}
	node, ok := ctx.Graph.MustGet(id).(*ast.BinExpr)
	if !ok {
		return nil, nil
	}
	name, ok := binaryIntrinsics[node.Op]
	if !ok {
		return nil, fmt.Errorf("desugar: no intrinsic for binary operator %s", node.Op)
	}
	return replaceWith(id, name), nil
}

// Unary expands `op a` into `::Prelude::__{op}_internal(a)`.
type Unary struct{}

func (Unary) Name() string { return "desugar-unary" }

func (Unary) Transform(ctx *pipeline.Context, id ast.NodeID, side ast.VisitSide) (pipeline.ChangeSet, error) {
	if side != ast.Entering {
		return nil, nil
	}
	node, ok := ctx.Graph.MustGet(id).(*ast.UnExpr)
	if !ok {
		return nil, nil
	}
	name, ok := unaryIntrinsics[node.Op]
	if !ok {
		return nil, fmt.Errorf("desugar: no intrinsic for unary operator %s", node.Op)
	}
	return replaceWith(id, name), nil
}

// Access expands `a . b` into `::Prelude::compose(a, b)`.
type Access struct{}

func (Access) Name() string { return "desugar-access" }

func (Access) Transform(ctx *pipeline.Context, id ast.NodeID, side ast.VisitSide) (pipeline.ChangeSet, error) {
	if side != ast.Entering {
		return nil, nil
	}
	if _, ok := ctx.Graph.MustGet(id).(*ast.Acc); !ok {
		return nil, nil
	}
	return replaceWith(id, "compose"), nil
}
