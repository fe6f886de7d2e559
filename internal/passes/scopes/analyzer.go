// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package scopes

import (
	"fmt"

	"github.com/playbymail/tern/internal/ast"
	"github.com/playbymail/tern/internal/diag"
	"github.com/playbymail/tern/internal/intern"
	"github.com/playbymail/tern/internal/pipeline"
	"github.com/playbymail/tern/internal/types"
)

// Analyzer maintains a scope stack while the pipeline traverses the
// graph. Scopes open on entering module, struct, enum, function,
// lambda, block and conditional nodes and close on exiting them; the
// declarations a node makes are installed on its leaf or exit event.
type Analyzer struct {
	tree  *Tree
	stack []*Scope
}

func New() *Analyzer {
	root := newScope(nil, ast.RootID)
	return &Analyzer{
		tree:  &Tree{Root: root, byNode: make(map[ast.NodeID]*Scope)},
		stack: []*Scope{root},
	}
}

func (a *Analyzer) Name() string { return "scope-analyzer" }

// Tree returns the scope tree; valid once the pass has run.
func (a *Analyzer) Tree() *Tree { return a.tree }

func (a *Analyzer) current() *Scope {
	return a.stack[len(a.stack)-1]
}

func (a *Analyzer) Analyze(ctx *pipeline.Context, id ast.NodeID, side ast.VisitSide) error {
	node := ctx.Graph.MustGet(id)

	opens, named, name := scopeMeta(node)

	if opens && side == ast.Entering {
		scope := newScope(a.current(), id)
		scope.Named = named
		scope.Name = name
		a.stack = append(a.stack, scope)
		a.tree.byNode[id] = scope
	} else {
		a.tree.byNode[id] = a.current()
	}

	if opens && side == ast.Exiting {
		if len(a.stack) == 1 {
			ctx.Report(diag.New(diag.Bug, diag.CodeWrongScopeExit,
				"scope stack underflow", ctx.LabelFor(id, "while leaving this scope")))
			return nil
		}
		a.stack = a.stack[:len(a.stack)-1]
	}

	if side == ast.Leaf || side == ast.Exiting {
		a.installSymbols(ctx, id, node)
	}

	// all pushes must balance by the time the file closes
	if _, isFile := node.(*ast.FileDecl); isFile && side != ast.Entering {
		if a.current() != a.tree.Root {
			ctx.Report(diag.New(diag.Bug, diag.CodeWrongScopeExit,
				fmt.Sprintf("scope stack unbalanced at end of file: depth %d", len(a.stack)),
				ctx.LabelFor(id, "file ends here")))
			a.stack = a.stack[:1]
		}
	}
	return nil
}

// scopeMeta classifies scope-opening nodes. Declarations carry their
// name; blocks, lambdas and conditionals open anonymous scopes.
func scopeMeta(node ast.Node) (opens, named bool, name intern.Str) {
	switch n := node.(type) {
	case *ast.ModDecl:
		return true, true, n.Name
	case *ast.StructDecl:
		return true, true, n.Name
	case *ast.EnumDecl:
		return true, true, n.Name
	case *ast.AbstFnDecl:
		return true, true, n.Name
	case *ast.BodyFnDecl:
		return true, true, n.Name
	case *ast.Lambda, *ast.Exprs, *ast.IfExpr:
		return true, false, 0
	default:
		return false, false, 0
	}
}

// installSymbols populates the current scope with the names the node
// declares. Functions and type declarations close their own scope
// before this runs, so their symbols land in the enclosing scope.
func (a *Analyzer) installSymbols(ctx *pipeline.Context, id ast.NodeID, node ast.Node) {
	scope := a.current()
	switch n := node.(type) {
	case *ast.StructDecl:
		a.insert(ctx, scope, &Symbol{Node: id, Ident: n.Name, Kind: SymbolType, Scheme: namedConstant(n.Name)})
	case *ast.EnumDecl:
		a.insert(ctx, scope, &Symbol{Node: id, Ident: n.Name, Kind: SymbolType, Scheme: namedConstant(n.Name)})
	case *ast.TyName:
		// enum members declare type constants; type occurrences in
		// signatures do not
		if parent, ok := ctx.Graph.ParentOf(id); ok {
			if _, isEnum := ctx.Graph.MustGet(parent).(*ast.EnumDecl); isEnum {
				a.insert(ctx, scope, &Symbol{Node: id, Ident: n.Name, Kind: SymbolType, Scheme: namedConstant(n.Name)})
			}
		}
	case *ast.TyParam:
		a.insert(ctx, scope, &Symbol{Node: id, Ident: n.Name, Kind: SymbolParameter})
	case *ast.NonTyParam:
		a.insert(ctx, scope, &Symbol{Node: id, Ident: n.Name, Kind: SymbolParameter})
	case *ast.VarDecl:
		a.insert(ctx, scope, &Symbol{Node: id, Ident: n.Name, Kind: SymbolVariable})
	case *ast.BodyFnDecl:
		a.insert(ctx, scope, &Symbol{Node: id, Ident: n.Name, Kind: SymbolFunction})
	case *ast.AbstFnDecl:
		a.insert(ctx, scope, &Symbol{Node: id, Ident: n.Name, Kind: SymbolFunction})
	}
}

func (a *Analyzer) insert(ctx *pipeline.Context, scope *Scope, sym *Symbol) {
	prev, ok := scope.insert(sym)
	if ok {
		return
	}
	ctx.Report(diag.New(diag.Error, diag.CodeAlreadyDefined,
		fmt.Sprintf("`%s` is already defined in this scope", sym.Ident),
		ctx.LabelFor(prev.Node, "first defined here"),
		ctx.LabelFor(sym.Node, "defined again here")))
}

func namedConstant(name intern.Str) *types.Scheme {
	s := types.MonoScheme(types.Constant{Name: name.String()})
	return &s
}
