// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package scopes builds the lexical scope tree and installs declared
// symbols while walking the abstract syntax graph.
package scopes

import (
	"fmt"

	"github.com/playbymail/tern/internal/ast"
	"github.com/playbymail/tern/internal/intern"
	"github.com/playbymail/tern/internal/types"
)

// SymbolKind classifies a declared name.
type SymbolKind int

const (
	SymbolType SymbolKind = iota
	SymbolVariable
	SymbolParameter
	SymbolConstant
	SymbolFunction
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolType:
		return "type"
	case SymbolVariable:
		return "variable"
	case SymbolParameter:
		return "parameter"
	case SymbolConstant:
		return "constant"
	case SymbolFunction:
		return "function"
	default:
		return fmt.Sprintf("SymbolKind(%d)", int(k))
	}
}

// Symbol is one declared name: the declaring node, the interned
// identifier, its kind, and the polymorphic type once one is assigned.
type Symbol struct {
	Node   ast.NodeID
	Ident  intern.Str
	Kind   SymbolKind
	Scheme *types.Scheme
}

// Scope owns the names declared directly inside it. Type and variable
// namespaces are separate.
type Scope struct {
	// Named is false for block, lambda and conditional scopes.
	Named bool
	Name  intern.Str
	// Start is the node whose subtree the scope covers.
	Start    ast.NodeID
	Parent   *Scope
	Children []*Scope

	typeNS map[intern.Str]*Symbol
	varNS  map[intern.Str]*Symbol
}

func newScope(parent *Scope, start ast.NodeID) *Scope {
	s := &Scope{
		Start:  start,
		Parent: parent,
		typeNS: make(map[intern.Str]*Symbol),
		varNS:  make(map[intern.Str]*Symbol),
	}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// LookupVar walks from this scope toward the root; the first hit wins.
func (s *Scope) LookupVar(name intern.Str) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.varNS[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupType walks from this scope toward the root.
func (s *Scope) LookupType(name intern.Str) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.typeNS[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// insert adds a symbol to the scope's namespace for its kind. It
// returns the previous symbol when the name is already defined in this
// scope.
func (s *Scope) insert(sym *Symbol) (*Symbol, bool) {
	ns := s.varNS
	if sym.Kind == SymbolType || sym.Kind == SymbolConstant {
		ns = s.typeNS
	}
	if prev, ok := ns[sym.Ident]; ok {
		return prev, false
	}
	ns[sym.Ident] = sym
	return nil, true
}

// Tree is the finished scope tree: the root covers the compilation
// unit, and every AST node maps to its innermost scope.
type Tree struct {
	Root   *Scope
	byNode map[ast.NodeID]*Scope
}

// ScopeFor returns the innermost scope covering the node.
func (t *Tree) ScopeFor(id ast.NodeID) *Scope {
	if s, ok := t.byNode[id]; ok {
		return s
	}
	return t.Root
}
