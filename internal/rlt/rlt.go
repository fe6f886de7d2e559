// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package rlt defines the raw linked tree: the parser's direct output.
//
// The RLT mirrors the concrete grammar and keeps the span of every
// defining token (keyword, operator, identifier) so a later diagnostic
// can be located without re-scanning the source. It is consumed by the
// AST builder and then discarded, except for nodes retained by the RLT
// accessor.
package rlt

import (
	"github.com/playbymail/tern/internal/lexer"
	"github.com/playbymail/tern/internal/span"
)

// Node is implemented by every RLT node. Span returns the span of the
// node's defining token, not the extent of the whole construct.
type Node interface {
	Span() span.Span
}

// Ident is an identifier or type-name occurrence.
type Ident struct {
	Kind lexer.Kind // lexer.Identifier or lexer.TypeName
	At   span.Span
}

func (i Ident) Span() span.Span { return i.At }

// File is the root: a sequence of modules. An empty file has zero
// modules.
type File struct {
	Modules []*Module
}

func (f *File) Span() span.Span {
	if len(f.Modules) == 0 {
		return span.Span{}
	}
	return f.Modules[0].Span()
}

// Module is `module Name { items }` or the global form
// `module Name => items`.
type Module struct {
	Global  bool
	Keyword span.Span
	Name    Ident
	Flow    span.Span // global form
	LBrace  span.Span // ordinary form
	RBrace  span.Span
	Items   []TopLevel
}

func (m *Module) Span() span.Span { return m.Keyword }

// TopLevel is a module item.
type TopLevel interface {
	Node
	topLevel()
}

// Struct is `struct Name (params)? { functions }?`.
type Struct struct {
	Keyword span.Span
	Name    Ident
	// HasParams distinguishes absent parens from empty parens.
	HasParams      bool
	LParen, RParen span.Span
	Params         []*TypedParameter
	HasBody        bool
	LBrace, RBrace span.Span
	Body           []*BodiedFunction
}

func (s *Struct) Span() span.Span { return s.Keyword }
func (s *Struct) topLevel()       {}

// Enum is `enum struct Name { A, B }` (stack) or `enum class Name { … }`
// (heap); a semicolon body declares no members.
type Enum struct {
	Keyword        span.Span
	Heap           bool
	Name           Ident
	HasBody        bool
	LBrace, RBrace span.Span
	Members        []Ident
}

func (e *Enum) Span() span.Span { return e.Keyword }
func (e *Enum) topLevel()       {}

// BodiedFunction is `fun name(params)?(: type)? body`.
type BodiedFunction struct {
	Keyword        span.Span
	Name           Ident
	HasParams      bool
	LParen, RParen span.Span
	Params         []Parameter
	Colon          span.Span
	ReturnType     Type // nil when absent
	Body           Body
}

func (f *BodiedFunction) Span() span.Span { return f.Keyword }
func (f *BodiedFunction) topLevel()       {}
func (f *BodiedFunction) blockLevel()     {}

// AbstractFunction is `abstract fun name(params)?(: type)?` with no body.
type AbstractFunction struct {
	Abstract       span.Span
	Keyword        span.Span
	Name           Ident
	HasParams      bool
	LParen, RParen span.Span
	Params         []Parameter
	Colon          span.Span
	ReturnType     Type // nil when absent
}

func (f *AbstractFunction) Span() span.Span { return f.Keyword }
func (f *AbstractFunction) topLevel()       {}

// Parameter is a function or struct parameter.
type Parameter interface {
	Node
	parameter()
}

// TypedParameter is `name: Type`.
type TypedParameter struct {
	Name Ident
	Type Type
}

func (p *TypedParameter) Span() span.Span { return p.Name.At }
func (p *TypedParameter) parameter()      {}

// UntypedParameter is `name` or `name: _`.
type UntypedParameter struct {
	Name Ident
}

func (p *UntypedParameter) Span() span.Span { return p.Name.At }
func (p *UntypedParameter) parameter()      {}

// Type is a type expression.
type Type interface {
	Node
	typeExpr()
}

// TypeReference names a type.
type TypeReference struct {
	Name Ident
}

func (t *TypeReference) Span() span.Span { return t.Name.At }
func (t *TypeReference) typeExpr()       {}

// TupleType is `(T1, T2, …)`.
type TupleType struct {
	LParen, RParen span.Span
	Items          []Type
}

func (t *TupleType) Span() span.Span { return t.LParen }
func (t *TupleType) typeExpr()       {}

// Operation is the expression-level sum: applications, access chains,
// unary and binary operations, blocks and bare expressions.
type Operation interface {
	Node
	operation()
}

// Binary is `left op right`. Op carries the operator token.
type Binary struct {
	Left  Operation
	Op    lexer.Token
	Right Operation
}

func (b *Binary) Span() span.Span { return b.Op.Span }
func (b *Binary) operation()      {}

// TopUnary is a prefix operation `op expr`.
type TopUnary struct {
	Op   lexer.Token
	Expr Operation
}

func (u *TopUnary) Span() span.Span { return u.Op.Span }
func (u *TopUnary) operation()      {}

// Access is `left . right`.
type Access struct {
	Left  Operation
	Dot   span.Span
	Right Operation
}

func (a *Access) Span() span.Span { return a.Dot }
func (a *Access) operation()      {}

// Application is `expr(args…)` or juxtaposition `expr arg`.
type Application struct {
	Expr   Operation
	Params []Operation
}

func (a *Application) Span() span.Span { return a.Expr.Span() }
func (a *Application) operation()      {}

// Block is an expression block used in operation position.
type Block struct {
	Inner *ExpressionBlock
}

func (b *Block) Span() span.Span { return b.Inner.Span() }
func (b *Block) operation()      {}
func (b *Block) blockLevel()     {}

// Expression wraps an expression in operation position.
type Expression interface {
	Operation
	expression()
}

// Lambda is `\binds => expr`.
type Lambda struct {
	Keyword span.Span
	Binds   []Parameter
	Flow    span.Span
	Expr    Operation
}

func (l *Lambda) Span() span.Span { return l.Keyword }
func (l *Lambda) operation()      {}
func (l *Lambda) expression()     {}

// Term is a reference or contextual reference in expression position.
type Term struct {
	Ref *Reference
}

func (t *Term) Span() span.Span { return t.Ref.Span() }
func (t *Term) operation()      {}
func (t *Term) expression()     {}

// Reference names a variable or type, optionally qualified with a
// context: `x`, `X`, `::X::y`, `A::B::c`.
type Reference struct {
	// Global is true when the context begins with `::`.
	Global bool
	// Context holds the qualifying type segments, outermost first.
	Context []Ident
	Name    Ident
}

func (r *Reference) Span() span.Span { return r.Name.At }

// IfExpr is `if cond body (elif cond body)* (else body)?`.
type IfExpr struct {
	Keyword span.Span
	Cond    Operation
	Body    Body
	Elifs   []*ElifExpr
	Else    *ElseExpr
}

func (i *IfExpr) Span() span.Span { return i.Keyword }
func (i *IfExpr) operation()      {}
func (i *IfExpr) expression()     {}

type ElifExpr struct {
	Keyword span.Span
	Cond    Operation
	Body    Body
}

func (e *ElifExpr) Span() span.Span { return e.Keyword }

type ElseExpr struct {
	Keyword span.Span
	Body    Body
}

func (e *ElseExpr) Span() span.Span { return e.Keyword }

// Literal is a literal in expression position.
type Literal interface {
	Expression
	literal()
}

// NumberLiteral covers the binary, octal, hex and floating forms; Kind
// preserves the lexical base.
type NumberLiteral struct {
	Kind lexer.Kind
	At   span.Span
}

func (l *NumberLiteral) Span() span.Span { return l.At }
func (l *NumberLiteral) operation()      {}
func (l *NumberLiteral) expression()     {}
func (l *NumberLiteral) literal()        {}

type CharLiteral struct {
	At span.Span
}

func (l *CharLiteral) Span() span.Span { return l.At }
func (l *CharLiteral) operation()      {}
func (l *CharLiteral) expression()     {}
func (l *CharLiteral) literal()        {}

type StringLiteral struct {
	At span.Span
}

func (l *StringLiteral) Span() span.Span { return l.At }
func (l *StringLiteral) operation()      {}
func (l *StringLiteral) expression()     {}
func (l *StringLiteral) literal()        {}

// TupleLiteral is `(a, b, …)`, `()` or `(a,)`.
type TupleLiteral struct {
	LParen, RParen span.Span
	Items          []Operation
}

func (l *TupleLiteral) Span() span.Span { return l.LParen }
func (l *TupleLiteral) operation()      {}
func (l *TupleLiteral) expression()     {}
func (l *TupleLiteral) literal()        {}

// BlockLevel is a statement inside an expression block.
type BlockLevel interface {
	Node
	blockLevel()
}

// ExpressionBlock is `{ stmts }`.
type ExpressionBlock struct {
	LBrace, RBrace span.Span
	Items          []BlockLevel
}

func (b *ExpressionBlock) Span() span.Span { return b.LBrace }

// Variable is a `val`/`var` declaration without an initializer.
type Variable struct {
	Mutable bool
	Keyword span.Span
	Name    Ident
	Colon   span.Span
	Type    Type // nil when absent
}

func (v *Variable) Span() span.Span { return v.Keyword }

// InitializedVariable is `val x (: T)? = expr`.
type InitializedVariable struct {
	Variable *Variable
	Equals   span.Span
	Expr     Operation
}

func (v *InitializedVariable) Span() span.Span { return v.Variable.Keyword }
func (v *InitializedVariable) blockLevel()     {}

// OperationStatement adapts an operation to statement position.
type OperationStatement struct {
	Op Operation
}

func (s *OperationStatement) Span() span.Span { return s.Op.Span() }
func (s *OperationStatement) blockLevel()     {}

// Body is either `=> stmt` or `{ stmts }`.
type Body interface {
	Node
	body()
}

// BlockBody wraps an expression block used as a body.
type BlockBody struct {
	Inner *ExpressionBlock
}

func (b *BlockBody) Span() span.Span { return b.Inner.Span() }
func (b *BlockBody) body()           {}

// SimpleBody is `=> stmt`.
type SimpleBody struct {
	Flow span.Span
	Stmt BlockLevel
}

func (b *SimpleBody) Span() span.Span { return b.Flow }
func (b *SimpleBody) body()           {}
