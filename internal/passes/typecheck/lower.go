// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package typecheck lowers function bodies into the inference language
// and runs Hindley-Milner inference over them, reporting type errors
// and inferred-type notes.
package typecheck

import (
	"fmt"
	"strings"

	"github.com/playbymail/tern/internal/ast"
	"github.com/playbymail/tern/internal/types"
)

// lowerError reports an AST shape the inference lowering cannot
// handle; it indicates a bug in pass ordering rather than bad input.
type lowerError struct {
	id  ast.NodeID
	msg string
}

func (e *lowerError) Error() string {
	return fmt.Sprintf("cannot lower node %s: %s", e.id, e.msg)
}

type lowerer struct {
	graph *ast.Graph
}

// lowerFn lowers a bodied function: parameters become nested lambda
// binders around the lowered body; a function without parameters binds
// the unit pattern.
func (l *lowerer) lowerFn(id ast.NodeID) (types.Expr, error) {
	body, ok := l.graph.FirstChild(id, ast.TagDefault)
	if !ok {
		return nil, &lowerError{id: id, msg: "function has no body"}
	}
	expr, err := l.lower(body)
	if err != nil {
		return nil, err
	}
	params := l.graph.ChildrenOf(id, ast.TagPrimary)
	if len(params) == 0 {
		return types.ELam{Bind: "()", Expr: expr}, nil
	}
	for i := len(params) - 1; i >= 0; i-- {
		name, err := l.paramName(params[i])
		if err != nil {
			return nil, err
		}
		expr = types.ELam{Bind: name, Expr: expr}
	}
	return expr, nil
}

func (l *lowerer) paramName(id ast.NodeID) (string, error) {
	switch p := l.graph.MustGet(id).(type) {
	case *ast.TyParam:
		return p.Name.String(), nil
	case *ast.NonTyParam:
		return p.Name.String(), nil
	default:
		return "", &lowerError{id: id, msg: "not a parameter"}
	}
}

func (l *lowerer) lower(id ast.NodeID) (types.Expr, error) {
	switch n := l.graph.MustGet(id).(type) {
	case *ast.Exprs:
		return l.lowerBlock(id)

	case *ast.InitVar:
		// a trailing or standalone initializer is a let whose value is
		// the bound variable itself
		name, value, err := l.lowerInitVar(id)
		if err != nil {
			return nil, err
		}
		return types.ELet{Bind: name, Value: value, Body: types.EVar{Name: name, Origin: id}}, nil

	case *ast.Appl:
		callee, ok := l.graph.FirstChild(id, ast.TagPrimary)
		if !ok {
			return nil, &lowerError{id: id, msg: "application has no callee"}
		}
		expr, err := l.lower(callee)
		if err != nil {
			return nil, err
		}
		args := l.graph.ChildrenOf(id, ast.TagSecondary)
		if len(args) == 0 {
			return types.EApp{Fn: expr, Arg: types.UnitExpr()}, nil
		}
		for _, arg := range args {
			lowered, err := l.lower(arg)
			if err != nil {
				return nil, err
			}
			expr = types.EApp{Fn: expr, Arg: lowered}
		}
		return expr, nil

	case *ast.Lambda:
		body, ok := l.graph.FirstChild(id, ast.TagSecondary)
		if !ok {
			return nil, &lowerError{id: id, msg: "lambda has no body"}
		}
		expr, err := l.lower(body)
		if err != nil {
			return nil, err
		}
		binds := l.graph.ChildrenOf(id, ast.TagPrimary)
		for i := len(binds) - 1; i >= 0; i-- {
			name, err := l.paramName(binds[i])
			if err != nil {
				return nil, err
			}
			expr = types.ELam{Bind: name, Expr: expr}
		}
		return expr, nil

	case *ast.Ref:
		return types.EVar{Name: n.Context.String() + n.Name.String(), Origin: id}, nil

	case *ast.NumLit:
		return lowerNumber(n), nil

	case *ast.CharLit:
		return types.ELit{Kind: types.LitChar, Text: "'" + n.Value.String() + "'"}, nil

	case *ast.StrLit:
		return types.ELit{Kind: types.LitString, Text: fmt.Sprintf("%q", n.Value.String())}, nil

	case *ast.TupleLit:
		items := l.graph.ChildrenOf(id, ast.TagDefault)
		tuple := types.ETuple{Items: make([]types.Expr, 0, len(items))}
		for _, item := range items {
			lowered, err := l.lower(item)
			if err != nil {
				return nil, err
			}
			tuple.Items = append(tuple.Items, lowered)
		}
		return tuple, nil

	case *ast.IfExpr:
		return l.lowerIf(id)

	case *ast.BodyFnDecl:
		return l.lowerFn(id)

	case *ast.BinExpr, *ast.UnExpr, *ast.Acc:
		return nil, &lowerError{id: id, msg: "operator expression survived desugaring"}

	default:
		return nil, &lowerError{id: id, msg: fmt.Sprintf("unsupported node %s", n.Kind())}
	}
}

// lowerBlock turns { s1; …; sn; e } into right-nested lets around the
// tail expression.
func (l *lowerer) lowerBlock(id ast.NodeID) (types.Expr, error) {
	items := l.graph.ChildrenOf(id, ast.TagDefault)
	if len(items) == 0 {
		return types.UnitExpr(), nil
	}
	tail, err := l.lower(items[len(items)-1])
	if err != nil {
		return nil, err
	}
	for i := len(items) - 2; i >= 0; i-- {
		name, value, err := l.lowerStatement(items[i])
		if err != nil {
			return nil, err
		}
		tail = types.ELet{Bind: name, Value: value, Body: tail}
	}
	return tail, nil
}

// lowerStatement lowers a non-tail block item to a let binding: a
// declaration binds its own name, anything else binds a throwaway.
func (l *lowerer) lowerStatement(id ast.NodeID) (string, types.Expr, error) {
	switch n := l.graph.MustGet(id).(type) {
	case *ast.InitVar:
		return l.lowerInitVar(id)
	case *ast.BodyFnDecl:
		value, err := l.lowerFn(id)
		return n.Name.String(), value, err
	default:
		value, err := l.lower(id)
		return "_" + id.String(), value, err
	}
}

func (l *lowerer) lowerInitVar(id ast.NodeID) (string, types.Expr, error) {
	varID, ok := l.graph.FirstChild(id, ast.TagPrimary)
	if !ok {
		return "", nil, &lowerError{id: id, msg: "initializer has no variable"}
	}
	decl, ok := l.graph.MustGet(varID).(*ast.VarDecl)
	if !ok {
		return "", nil, &lowerError{id: varID, msg: "not a variable declaration"}
	}
	exprID, ok := l.graph.FirstChild(id, ast.TagSecondary)
	if !ok {
		return "", nil, &lowerError{id: id, msg: "initializer has no expression"}
	}
	value, err := l.lower(exprID)
	if err != nil {
		return "", nil, err
	}
	return decl.Name.String(), value, nil
}

// lowerIf folds elif arms into nested conditionals; a missing else
// branch produces unit.
func (l *lowerer) lowerIf(id ast.NodeID) (types.Expr, error) {
	condID, ok := l.graph.FirstChild(id, ast.TagPrimary)
	if !ok {
		return nil, &lowerError{id: id, msg: "if has no condition"}
	}
	cond, err := l.lower(condID)
	if err != nil {
		return nil, err
	}
	bodyID, ok := l.graph.FirstChild(id, ast.TagSecondary)
	if !ok {
		return nil, &lowerError{id: id, msg: "if has no body"}
	}
	body, err := l.lower(bodyID)
	if err != nil {
		return nil, err
	}

	var otherwise types.Expr = types.UnitExpr()
	arms := l.graph.ChildrenOf(id, ast.TagDefault)
	// the else arm, when present, is the innermost alternative
	if len(arms) > 0 {
		if _, isElse := l.graph.MustGet(arms[len(arms)-1]).(*ast.ElseExpr); isElse {
			elseBody, ok := l.graph.FirstChild(arms[len(arms)-1], ast.TagPrimary)
			if !ok {
				return nil, &lowerError{id: arms[len(arms)-1], msg: "else has no body"}
			}
			otherwise, err = l.lower(elseBody)
			if err != nil {
				return nil, err
			}
			arms = arms[:len(arms)-1]
		}
	}
	for i := len(arms) - 1; i >= 0; i-- {
		elifCond, ok := l.graph.FirstChild(arms[i], ast.TagPrimary)
		if !ok {
			return nil, &lowerError{id: arms[i], msg: "elif has no condition"}
		}
		cond2, err := l.lower(elifCond)
		if err != nil {
			return nil, err
		}
		elifBody, ok := l.graph.FirstChild(arms[i], ast.TagSecondary)
		if !ok {
			return nil, &lowerError{id: arms[i], msg: "elif has no body"}
		}
		body2, err := l.lower(elifBody)
		if err != nil {
			return nil, err
		}
		otherwise = types.EIf{Cond: cond2, Then: body2, Else: otherwise}
	}
	return types.EIf{Cond: cond, Then: body, Else: otherwise}, nil
}

// lowerNumber types based literals as integral; decimal literals are
// floating only when they carry a fraction or exponent.
func lowerNumber(n *ast.NumLit) types.ELit {
	text := n.Value.String()
	if n.Base != ast.BaseFloating {
		return types.ELit{Kind: types.LitIntegral, Text: text}
	}
	if strings.ContainsAny(text, ".eE") {
		return types.ELit{Kind: types.LitFloating, Text: text}
	}
	return types.ELit{Kind: types.LitIntegral, Text: text}
}
