// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package ast implements the abstract syntax graph: a closed set of
// node variants stored in a slot arena and connected by tagged edges.
//
// Nodes hold only their own scalar fields. Children are edges in the
// graph, never inline pointers, so passes can replace a node without
// touching its neighbours and ids stay stable for the whole pipeline.
package ast

import (
	"fmt"

	"github.com/playbymail/tern/internal/intern"
)

// NodeKind discriminates the closed set of node variants.
type NodeKind int

const (
	KindFileDecl NodeKind = iota
	KindModDecl
	KindStructDecl
	KindEnumDecl
	KindTyParam
	KindNonTyParam
	KindTyName
	KindVarDecl
	KindInitVar
	KindBodyFnDecl
	KindAbstFnDecl
	KindExprs
	KindAppl
	KindLambda
	KindRef
	KindAcc
	KindNumLit
	KindCharLit
	KindStrLit
	KindTupleLit
	KindIfExpr
	KindElifExpr
	KindElseExpr
	KindBinExpr
	KindUnExpr
	KindProdTy
)

var kindNames = [...]string{
	KindFileDecl:   "FileDecl",
	KindModDecl:    "ModDecl",
	KindStructDecl: "StructDecl",
	KindEnumDecl:   "EnumDecl",
	KindTyParam:    "TyParam",
	KindNonTyParam: "NonTyParam",
	KindTyName:     "TyName",
	KindVarDecl:    "VarDecl",
	KindInitVar:    "InitVar",
	KindBodyFnDecl: "BodyFnDecl",
	KindAbstFnDecl: "AbstFnDecl",
	KindExprs:      "Exprs",
	KindAppl:       "Appl",
	KindLambda:     "Lambda",
	KindRef:        "Ref",
	KindAcc:        "Acc",
	KindNumLit:     "NumLit",
	KindCharLit:    "CharLit",
	KindStrLit:     "StrLit",
	KindTupleLit:   "TupleLit",
	KindIfExpr:     "IfExpr",
	KindElifExpr:   "ElifExpr",
	KindElseExpr:   "ElseExpr",
	KindBinExpr:    "BinExpr",
	KindUnExpr:     "UnExpr",
	KindProdTy:     "ProdTy",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is implemented by every variant. A node learns its id when the
// graph allocates its slot and keeps it until the node is removed.
type Node interface {
	Kind() NodeKind
	ID() NodeID
	setID(NodeID)
}

// base carries the id shared by all variants.
type base struct {
	id NodeID
}

func (b *base) ID() NodeID      { return b.id }
func (b *base) setID(id NodeID) { b.id = id }

// FileDecl is the compilation unit root.
type FileDecl struct {
	base
}

func (*FileDecl) Kind() NodeKind { return KindFileDecl }

// ModDecl is a module declaration; Global marks the `=>` form.
type ModDecl struct {
	base
	Global bool
	Name   intern.Str
}

func (*ModDecl) Kind() NodeKind { return KindModDecl }

// StructDecl has TagPrimary parameter children and TagSecondary
// function children.
type StructDecl struct {
	base
	Name intern.Str
}

func (*StructDecl) Kind() NodeKind { return KindStructDecl }

// EnumDecl has TagDefault TyName children for its members. Heap marks
// `enum class`.
type EnumDecl struct {
	base
	Heap bool
	Name intern.Str
}

func (*EnumDecl) Kind() NodeKind { return KindEnumDecl }

// TyParam is a typed parameter; its TagDefault child is the type.
type TyParam struct {
	base
	Name intern.Str
}

func (*TyParam) Kind() NodeKind { return KindTyParam }

// NonTyParam is an untyped parameter.
type NonTyParam struct {
	base
	Name intern.Str
}

func (*NonTyParam) Kind() NodeKind { return KindNonTyParam }

// TyName is a type-name occurrence in type position.
type TyName struct {
	base
	Name intern.Str
}

func (*TyName) Kind() NodeKind { return KindTyName }

// ProdTy is a product (tuple) type; TagDefault children are the item
// types.
type ProdTy struct {
	base
}

func (*ProdTy) Kind() NodeKind { return KindProdTy }

// VarDecl is a variable declaration; an optional TagDefault child is
// the ascribed type.
type VarDecl struct {
	base
	Mutable bool
	Name    intern.Str
}

func (*VarDecl) Kind() NodeKind { return KindVarDecl }

// InitVar is an initialized variable: TagPrimary VarDecl, TagSecondary
// initializer expression.
type InitVar struct {
	base
}

func (*InitVar) Kind() NodeKind { return KindInitVar }

// BodyFnDecl is a bodied function: TagPrimary parameters, TagSecondary
// optional return type, TagDefault body.
type BodyFnDecl struct {
	base
	Name intern.Str
}

func (*BodyFnDecl) Kind() NodeKind { return KindBodyFnDecl }

// AbstFnDecl is an abstract function: TagPrimary parameters,
// TagSecondary optional return type.
type AbstFnDecl struct {
	base
	Name intern.Str
}

func (*AbstFnDecl) Kind() NodeKind { return KindAbstFnDecl }

// Exprs is an expression block; TagDefault children are the items in
// order.
type Exprs struct {
	base
}

func (*Exprs) Kind() NodeKind { return KindExprs }

// Appl is an application: TagPrimary callee, TagSecondary arguments in
// order.
type Appl struct {
	base
}

func (*Appl) Kind() NodeKind { return KindAppl }

// Lambda has TagPrimary binder children and a TagSecondary body
// expression.
type Lambda struct {
	base
}

func (*Lambda) Kind() NodeKind { return KindLambda }

// RefContext is the lexical qualification of a reference.
type RefContext struct {
	Global   bool
	Segments []intern.Str
}

// GlobalContext builds a `::`-anchored context from segment names.
func GlobalContext(segments ...string) RefContext {
	ctx := RefContext{Global: true}
	for _, s := range segments {
		ctx.Segments = append(ctx.Segments, intern.Get(s))
	}
	return ctx
}

func (c RefContext) IsEmpty() bool {
	return !c.Global && len(c.Segments) == 0
}

func (c RefContext) String() string {
	out := ""
	if c.Global {
		out = "::"
	}
	for _, s := range c.Segments {
		out += s.String() + "::"
	}
	return out
}

// Ref is a reference term. IsType discriminates type references from
// variable references.
type Ref struct {
	base
	Context RefContext
	Name    intern.Str
	IsType  bool
}

func (*Ref) Kind() NodeKind { return KindRef }

// Acc is member access: TagLeft object, TagRight member.
type Acc struct {
	base
}

func (*Acc) Kind() NodeKind { return KindAcc }

// NumBase is the lexical base of a numeric literal.
type NumBase int

const (
	BaseFloating NumBase = iota
	BaseBinary
	BaseOctal
	BaseHex
)

// NumLit preserves the original text of a numeric literal; the base is
// recoverable from the text prefix when required.
type NumLit struct {
	base
	Value intern.Str
	Base  NumBase
}

func (*NumLit) Kind() NodeKind { return KindNumLit }

// CharLit holds the enclosed character.
type CharLit struct {
	base
	Value intern.Str
}

func (*CharLit) Kind() NodeKind { return KindCharLit }

// StrLit holds the raw enclosed text.
type StrLit struct {
	base
	Value intern.Str
}

func (*StrLit) Kind() NodeKind { return KindStrLit }

// TupleLit has TagDefault children for its items.
type TupleLit struct {
	base
}

func (*TupleLit) Kind() NodeKind { return KindTupleLit }

// IfExpr has TagPrimary condition, TagSecondary body, and TagDefault
// elif/else children in order.
type IfExpr struct {
	base
}

func (*IfExpr) Kind() NodeKind { return KindIfExpr }

// ElifExpr has TagPrimary condition and TagSecondary body.
type ElifExpr struct {
	base
}

func (*ElifExpr) Kind() NodeKind { return KindElifExpr }

// ElseExpr has a TagPrimary body.
type ElseExpr struct {
	base
}

func (*ElseExpr) Kind() NodeKind { return KindElseExpr }

// BinKind tags a binary expression with its operator.
type BinKind int

const (
	BinAdd BinKind = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinPow
	BinLess
	BinLessEq
	BinGreater
	BinGreaterEq
	BinEq
	BinNotEq
	BinSpaceship
	BinOrLogic
	BinAndLogic
	BinOrBit
	BinAndBit
	BinXorBit
	BinAssign
)

var binKindNames = [...]string{
	BinAdd:       "Add",
	BinSub:       "Sub",
	BinMul:       "Mul",
	BinDiv:       "Div",
	BinMod:       "Mod",
	BinPow:       "Pow",
	BinLess:      "Less",
	BinLessEq:    "LessEq",
	BinGreater:   "Greater",
	BinGreaterEq: "GreaterEq",
	BinEq:        "Eq",
	BinNotEq:     "NotEq",
	BinSpaceship: "Spaceship",
	BinOrLogic:   "OrLogic",
	BinAndLogic:  "AndLogic",
	BinOrBit:     "OrBit",
	BinAndBit:    "AndBit",
	BinXorBit:    "XorBit",
	BinAssign:    "Assign",
}

func (k BinKind) String() string {
	if int(k) < len(binKindNames) {
		return binKindNames[k]
	}
	return fmt.Sprintf("BinKind(%d)", int(k))
}

// BinExpr is a binary operation: TagLeft and TagRight operands.
type BinExpr struct {
	base
	Op BinKind
}

func (*BinExpr) Kind() NodeKind { return KindBinExpr }

// UnKind tags a unary expression with its operator.
type UnKind int

const (
	UnNeg UnKind = iota
	UnNot
	UnInv
	UnPlus
)

var unKindNames = [...]string{
	UnNeg:  "Neg",
	UnNot:  "Not",
	UnInv:  "Inv",
	UnPlus: "Plus",
}

func (k UnKind) String() string {
	if int(k) < len(unKindNames) {
		return unKindNames[k]
	}
	return fmt.Sprintf("UnKind(%d)", int(k))
}

// UnExpr is a unary operation with a TagDefault operand.
type UnExpr struct {
	base
	Op UnKind
}

func (*UnExpr) Kind() NodeKind { return KindUnExpr }
