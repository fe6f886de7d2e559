// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ast

import (
	"github.com/playbymail/tern/internal/rlt"
	"github.com/playbymail/tern/internal/span"
)

// Accessor is the two-way association between AST ids and the raw tree
// nodes they were lowered from. Diagnostics use it to recover source
// spans; passes use it to reach the concrete tokens of a construct.
//
// A synthetic node created by a later pass has no binding unless the
// pass copies one with SaveExisting.
type Accessor struct {
	toRLT map[NodeID]rlt.Node
	toAST map[rlt.Node]NodeID
}

func NewAccessor() *Accessor {
	return &Accessor{
		toRLT: make(map[NodeID]rlt.Node),
		toAST: make(map[rlt.Node]NodeID),
	}
}

// Save binds an AST id to its originating raw node.
func (a *Accessor) Save(id NodeID, n rlt.Node) {
	a.toRLT[id] = n
	a.toAST[n] = id
}

// SaveExisting copies the binding of an existing node to a new one,
// so a replacement keeps pointing at the original source construct.
func (a *Accessor) SaveExisting(newID, existing NodeID) {
	if n, ok := a.toRLT[existing]; ok {
		a.toRLT[newID] = n
	}
}

// RLTOf returns the raw node an AST node was lowered from.
func (a *Accessor) RLTOf(id NodeID) (rlt.Node, bool) {
	n, ok := a.toRLT[id]
	return n, ok
}

// ASTOf returns the AST id a raw node was lowered to.
func (a *Accessor) ASTOf(n rlt.Node) (NodeID, bool) {
	id, ok := a.toAST[n]
	return id, ok
}

// SpanOf returns the defining-token span for an AST node, recovered
// through the raw tree.
func (a *Accessor) SpanOf(id NodeID) (span.Span, bool) {
	n, ok := a.toRLT[id]
	if !ok {
		return span.Span{}, false
	}
	return n.Span(), true
}
