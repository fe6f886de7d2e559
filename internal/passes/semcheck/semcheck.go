// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package semcheck holds small structural analyzers that run alongside
// the main semantic passes: module uniqueness, global-module advice and
// empty-declaration advice.
package semcheck

import (
	"fmt"

	"github.com/playbymail/tern/internal/ast"
	"github.com/playbymail/tern/internal/diag"
	"github.com/playbymail/tern/internal/intern"
	"github.com/playbymail/tern/internal/pipeline"
	"github.com/playbymail/tern/internal/rlt"
)

// ModuleUniqueness reports a file that declares the same module name
// twice. The diagnostic labels both `module` keywords.
type ModuleUniqueness struct {
	seen map[intern.Str]ast.NodeID
}

func NewModuleUniqueness() *ModuleUniqueness {
	return &ModuleUniqueness{seen: make(map[intern.Str]ast.NodeID)}
}

func (*ModuleUniqueness) Name() string { return "module-uniqueness" }

func (m *ModuleUniqueness) Analyze(ctx *pipeline.Context, id ast.NodeID, side ast.VisitSide) error {
	if side == ast.Exiting {
		return nil
	}
	node, ok := ctx.Graph.MustGet(id).(*ast.ModDecl)
	if !ok {
		return nil
	}
	if first, dup := m.seen[node.Name]; dup {
		ctx.Report(diag.New(diag.Error, diag.CodeDuplicatedModules,
			fmt.Sprintf("module `%s` is already defined in this file", node.Name),
			ctx.LabelFor(first, "first declared here"),
			ctx.LabelFor(id, "declared again here")))
		return nil
	}
	m.seen[node.Name] = id
	return nil
}

// GlobalModule suggests the `=>` form when a file holds exactly one
// ordinary module.
type GlobalModule struct{}

func (GlobalModule) Name() string { return "global-module" }

func (GlobalModule) Analyze(ctx *pipeline.Context, id ast.NodeID, side ast.VisitSide) error {
	if side == ast.Entering {
		return nil
	}
	if _, ok := ctx.Graph.MustGet(id).(*ast.FileDecl); !ok {
		return nil
	}
	modules := ctx.Graph.ChildrenOf(id, ast.TagDefault)
	if len(modules) != 1 {
		return nil
	}
	mod, ok := ctx.Graph.MustGet(modules[0]).(*ast.ModDecl)
	if !ok || mod.Global {
		return nil
	}
	ctx.Report(diag.New(diag.Warning, diag.CodeNonGlobalModule,
		fmt.Sprintf("consider replacing the brackets of module `%s` with the `=>` operator", mod.Name),
		ctx.LabelFor(modules[0], "the file's only module")))
	return nil
}

// EmptyDeclaration warns about struct declarations with empty
// parameter parentheses or an empty body.
type EmptyDeclaration struct{}

func (EmptyDeclaration) Name() string { return "empty-declaration" }

func (EmptyDeclaration) Analyze(ctx *pipeline.Context, id ast.NodeID, side ast.VisitSide) error {
	if side == ast.Exiting {
		return nil
	}
	node, ok := ctx.Graph.MustGet(id).(*ast.StructDecl)
	if !ok {
		return nil
	}
	raw, ok := ctx.RLT.RLTOf(id)
	if !ok {
		return nil
	}
	st, ok := raw.(*rlt.Struct)
	if !ok {
		return nil
	}
	if st.HasParams && len(st.Params) == 0 {
		ctx.Report(diag.New(diag.Warning, diag.CodeEmptyDeclaration,
			fmt.Sprintf("remove the empty parentheses of struct `%s` or add parameters", node.Name),
			diag.Label{Span: st.LParen.Cover(st.RParen)}))
	}
	if st.HasBody && len(st.Body) == 0 {
		ctx.Report(diag.New(diag.Warning, diag.CodeEmptyDeclaration,
			fmt.Sprintf("the body of struct `%s` holds no items; consider removing the brackets", node.Name),
			diag.Label{Span: st.LBrace.Cover(st.RBrace)}))
	}
	return nil
}
