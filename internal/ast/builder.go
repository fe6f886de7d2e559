// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ast

import (
	"fmt"

	"github.com/playbymail/tern/internal/intern"
	"github.com/playbymail/tern/internal/lexer"
	"github.com/playbymail/tern/internal/rlt"
)

// Build lowers a raw tree into the abstract syntax graph. Every AST
// node receives a stable id and a binding to the raw node it came
// from; identifier and literal text is interned.
func Build(file *rlt.File, src string) (*Graph, *Accessor) {
	b := &builder{src: src}
	sub := b.file(file)
	g := NewGraph()
	acc := NewAccessor()
	g.GraftMapped(RootID, sub, TagDefault, acc)
	return g, acc
}

type builder struct {
	src string
}

func (b *builder) intern(id rlt.Ident) intern.Str {
	return intern.Get(id.At.Text(b.src))
}

func (b *builder) file(f *rlt.File) *Subtree {
	sub := NewSubtree(&FileDecl{}).WithRLT(f)
	FoldChildren(sub, f.Modules, TagDefault, b.module)
	return sub
}

func (b *builder) module(m *rlt.Module) *Subtree {
	sub := NewSubtree(&ModDecl{Global: m.Global, Name: b.intern(m.Name)}).WithRLT(m)
	FoldChildren(sub, m.Items, TagDefault, b.topLevel)
	return sub
}

func (b *builder) topLevel(item rlt.TopLevel) *Subtree {
	switch n := item.(type) {
	case *rlt.Struct:
		return b.structDecl(n)
	case *rlt.Enum:
		return b.enumDecl(n)
	case *rlt.BodiedFunction:
		return b.bodiedFn(n)
	case *rlt.AbstractFunction:
		return b.abstractFn(n)
	default:
		panic(fmt.Sprintf("ast: unhandled top-level %T", item))
	}
}

func (b *builder) structDecl(s *rlt.Struct) *Subtree {
	sub := NewSubtree(&StructDecl{Name: b.intern(s.Name)}).WithRLT(s)
	for _, p := range s.Params {
		sub.Attach(b.typedParameter(p), TagPrimary)
	}
	FoldChildren(sub, s.Body, TagSecondary, b.bodiedFn)
	return sub
}

func (b *builder) enumDecl(e *rlt.Enum) *Subtree {
	sub := NewSubtree(&EnumDecl{Heap: e.Heap, Name: b.intern(e.Name)}).WithRLT(e)
	for _, member := range e.Members {
		sub.Attach(NewSubtree(&TyName{Name: b.intern(member)}).WithRLT(member), TagDefault)
	}
	return sub
}

func (b *builder) bodiedFn(f *rlt.BodiedFunction) *Subtree {
	sub := NewSubtree(&BodyFnDecl{Name: b.intern(f.Name)}).WithRLT(f)
	for _, p := range f.Params {
		sub.Attach(b.parameter(p), TagPrimary)
	}
	if f.ReturnType != nil {
		sub.Attach(b.typeExpr(f.ReturnType), TagSecondary)
	}
	sub.Attach(b.body(f.Body), TagDefault)
	return sub
}

func (b *builder) abstractFn(f *rlt.AbstractFunction) *Subtree {
	sub := NewSubtree(&AbstFnDecl{Name: b.intern(f.Name)}).WithRLT(f)
	for _, p := range f.Params {
		sub.Attach(b.parameter(p), TagPrimary)
	}
	if f.ReturnType != nil {
		sub.Attach(b.typeExpr(f.ReturnType), TagSecondary)
	}
	return sub
}

func (b *builder) parameter(p rlt.Parameter) *Subtree {
	switch n := p.(type) {
	case *rlt.TypedParameter:
		return b.typedParameter(n)
	case *rlt.UntypedParameter:
		return NewSubtree(&NonTyParam{Name: b.intern(n.Name)}).WithRLT(n)
	default:
		panic(fmt.Sprintf("ast: unhandled parameter %T", p))
	}
}

func (b *builder) typedParameter(p *rlt.TypedParameter) *Subtree {
	sub := NewSubtree(&TyParam{Name: b.intern(p.Name)}).WithRLT(p)
	sub.Attach(b.typeExpr(p.Type), TagDefault)
	return sub
}

func (b *builder) typeExpr(t rlt.Type) *Subtree {
	switch n := t.(type) {
	case *rlt.TypeReference:
		return NewSubtree(&TyName{Name: b.intern(n.Name)}).WithRLT(n)
	case *rlt.TupleType:
		sub := NewSubtree(&ProdTy{}).WithRLT(n)
		for _, item := range n.Items {
			sub.Attach(b.typeExpr(item), TagDefault)
		}
		return sub
	default:
		panic(fmt.Sprintf("ast: unhandled type %T", t))
	}
}

// body lowers `{ stmts }` to an expression block and `=> stmt` to the
// statement itself.
func (b *builder) body(body rlt.Body) *Subtree {
	switch n := body.(type) {
	case *rlt.BlockBody:
		return b.exprBlock(n.Inner)
	case *rlt.SimpleBody:
		return b.blockLevel(n.Stmt)
	default:
		panic(fmt.Sprintf("ast: unhandled body %T", body))
	}
}

func (b *builder) exprBlock(block *rlt.ExpressionBlock) *Subtree {
	sub := NewSubtree(&Exprs{}).WithRLT(block)
	FoldChildren(sub, block.Items, TagDefault, b.blockLevel)
	return sub
}

func (b *builder) blockLevel(stmt rlt.BlockLevel) *Subtree {
	switch n := stmt.(type) {
	case *rlt.Block:
		return b.exprBlock(n.Inner)
	case *rlt.InitializedVariable:
		return b.initVar(n)
	case *rlt.BodiedFunction:
		return b.bodiedFn(n)
	case *rlt.OperationStatement:
		return b.operation(n.Op)
	default:
		panic(fmt.Sprintf("ast: unhandled block level %T", stmt))
	}
}

func (b *builder) initVar(iv *rlt.InitializedVariable) *Subtree {
	sub := NewSubtree(&InitVar{}).WithRLT(iv)
	v := iv.Variable
	varSub := NewSubtree(&VarDecl{Mutable: v.Mutable, Name: b.intern(v.Name)}).WithRLT(v)
	if v.Type != nil {
		varSub.Attach(b.typeExpr(v.Type), TagDefault)
	}
	sub.Attach(varSub, TagPrimary)
	sub.Attach(b.operation(iv.Expr), TagSecondary)
	return sub
}

var binKinds = map[lexer.Kind]BinKind{
	lexer.OpPlus:      BinAdd,
	lexer.OpSub:       BinSub,
	lexer.OpTimes:     BinMul,
	lexer.OpDiv:       BinDiv,
	lexer.OpMod:       BinMod,
	lexer.OpPow:       BinPow,
	lexer.OpLess:      BinLess,
	lexer.OpLessEq:    BinLessEq,
	lexer.OpGreater:   BinGreater,
	lexer.OpGreaterEq: BinGreaterEq,
	lexer.OpEquiv:     BinEq,
	lexer.OpNotEquiv:  BinNotEq,
	lexer.OpSpaceship: BinSpaceship,
	lexer.OpOrLogic:   BinOrLogic,
	lexer.OpAndLogic:  BinAndLogic,
	lexer.OpOrBit:     BinOrBit,
	lexer.OpAndBit:    BinAndBit,
	lexer.OpXorBit:    BinXorBit,
	lexer.OpEquals:    BinAssign,
}

var unKinds = map[lexer.Kind]UnKind{
	lexer.OpSub:      UnNeg,
	lexer.OpNotLogic: UnNot,
	lexer.OpNotBit:   UnInv,
	lexer.OpPlus:     UnPlus,
}

func (b *builder) operation(op rlt.Operation) *Subtree {
	switch n := op.(type) {
	case *rlt.Binary:
		kind, ok := binKinds[n.Op.Kind]
		if !ok {
			panic(fmt.Sprintf("ast: unhandled binary operator %s", n.Op.Kind))
		}
		sub := NewSubtree(&BinExpr{Op: kind}).WithRLT(n)
		sub.Attach(b.operation(n.Left), TagLeft)
		sub.Attach(b.operation(n.Right), TagRight)
		return sub
	case *rlt.TopUnary:
		kind, ok := unKinds[n.Op.Kind]
		if !ok {
			panic(fmt.Sprintf("ast: unhandled unary operator %s", n.Op.Kind))
		}
		sub := NewSubtree(&UnExpr{Op: kind}).WithRLT(n)
		sub.Attach(b.operation(n.Expr), TagDefault)
		return sub
	case *rlt.Access:
		sub := NewSubtree(&Acc{}).WithRLT(n)
		sub.Attach(b.operation(n.Left), TagLeft)
		sub.Attach(b.operation(n.Right), TagRight)
		return sub
	case *rlt.Application:
		sub := NewSubtree(&Appl{}).WithRLT(n)
		sub.Attach(b.operation(n.Expr), TagPrimary)
		FoldChildren(sub, n.Params, TagSecondary, b.operation)
		return sub
	case *rlt.Block:
		return b.exprBlock(n.Inner)
	case *rlt.Lambda:
		sub := NewSubtree(&Lambda{}).WithRLT(n)
		for _, bind := range n.Binds {
			sub.Attach(b.parameter(bind), TagPrimary)
		}
		sub.Attach(b.operation(n.Expr), TagSecondary)
		return sub
	case *rlt.Term:
		return b.reference(n.Ref).WithRLT(n)
	case *rlt.IfExpr:
		return b.ifExpr(n)
	case *rlt.NumberLiteral:
		return b.numberLiteral(n)
	case *rlt.CharLiteral:
		text := n.At.Text(b.src)
		return NewSubtree(&CharLit{Value: intern.Get(trimQuotes(text))}).WithRLT(n)
	case *rlt.StringLiteral:
		text := n.At.Text(b.src)
		return NewSubtree(&StrLit{Value: intern.Get(trimQuotes(text))}).WithRLT(n)
	case *rlt.TupleLiteral:
		sub := NewSubtree(&TupleLit{}).WithRLT(n)
		FoldChildren(sub, n.Items, TagDefault, b.operation)
		return sub
	default:
		panic(fmt.Sprintf("ast: unhandled operation %T", op))
	}
}

// numberLiteral lowers every numeric base to NumLit, preserving the
// textual form; the base stays recoverable from the text prefix.
func (b *builder) numberLiteral(n *rlt.NumberLiteral) *Subtree {
	base := BaseFloating
	switch n.Kind {
	case lexer.LitBinary:
		base = BaseBinary
	case lexer.LitOctal:
		base = BaseOctal
	case lexer.LitHex:
		base = BaseHex
	}
	return NewSubtree(&NumLit{Value: intern.Get(n.At.Text(b.src)), Base: base}).WithRLT(n)
}

// reference preserves the lexical form of the reference; resolution
// happens in later passes.
func (b *builder) reference(r *rlt.Reference) *Subtree {
	ctx := RefContext{Global: r.Global}
	for _, seg := range r.Context {
		ctx.Segments = append(ctx.Segments, b.intern(seg))
	}
	return NewSubtree(&Ref{
		Context: ctx,
		Name:    b.intern(r.Name),
		IsType:  r.Name.Kind == lexer.TypeName,
	})
}

func (b *builder) ifExpr(n *rlt.IfExpr) *Subtree {
	sub := NewSubtree(&IfExpr{}).WithRLT(n)
	sub.Attach(b.operation(n.Cond), TagPrimary)
	sub.Attach(b.body(n.Body), TagSecondary)
	for _, elif := range n.Elifs {
		elifSub := NewSubtree(&ElifExpr{}).WithRLT(elif)
		elifSub.Attach(b.operation(elif.Cond), TagPrimary)
		elifSub.Attach(b.body(elif.Body), TagSecondary)
		sub.Attach(elifSub, TagDefault)
	}
	if n.Else != nil {
		elseSub := NewSubtree(&ElseExpr{}).WithRLT(n.Else)
		elseSub.Attach(b.body(n.Else.Body), TagPrimary)
		sub.Attach(elseSub, TagDefault)
	}
	return sub
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
