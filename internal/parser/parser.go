// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package parser implements a recursive-descent parser with precedence
// climbing for operations. It consumes the token stream produced by the
// lexer (trivia transparently skipped, newlines kept as statement
// separators) and produces a raw linked tree.
//
// Error recovery is best-effort: the parser reports the first
// unrecoverable failure for an input and stops.
package parser

import (
	"fmt"
	"strings"

	"github.com/playbymail/tern/internal/lexer"
	"github.com/playbymail/tern/internal/rlt"
	"github.com/playbymail/tern/internal/span"
)

// Error is one parse failure: the productions or tokens that were
// admissible and the token actually found.
type Error struct {
	Expected []string
	Got      lexer.Token
	GotText  string
	At       span.Span
}

func (e *Error) Error() string {
	got := e.GotText
	if e.Got.Kind == lexer.EOF {
		got = "EOF"
	}
	return fmt.Sprintf("expected %s, got %q at %s", strings.Join(e.Expected, " or "), got, e.At)
}

// Parse consumes the eager token vector for src and returns the RLT.
// On failure it returns the collected parse errors; the tree result is
// nil when any error was recorded.
func Parse(tokens []lexer.Token, src string) (*rlt.File, []*Error) {
	p := newParser(tokens, src)
	f := p.parseFile()
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return f, nil
}

type parser struct {
	src  string
	toks []lexer.Token // significant tokens plus newlines, EOF-terminated
	pos  int
	errs []*Error
}

func newParser(tokens []lexer.Token, src string) *parser {
	significant := make([]lexer.Token, 0, len(tokens)+1)
	var end uint32
	for _, t := range tokens {
		end = t.Span.End()
		if t.Kind.IsTrivia() && t.Kind != lexer.Newline {
			continue
		}
		significant = append(significant, t)
	}
	significant = append(significant, lexer.Token{Kind: lexer.EOF, Span: span.Point(end)})
	return &parser{src: src, toks: significant}
}

// ====== stream helpers ======

func (p *parser) cur() lexer.Token {
	return p.toks[p.pos]
}

func (p *parser) at(k lexer.Kind) bool {
	return p.cur().Kind == k
}

func (p *parser) atAny(ks ...lexer.Kind) bool {
	for _, k := range ks {
		if p.cur().Kind == k {
			return true
		}
	}
	return false
}

func (p *parser) bump() lexer.Token {
	t := p.cur()
	if t.Kind != lexer.EOF {
		p.pos++
	}
	return t
}

// skipNewlines skips insignificant line breaks.
func (p *parser) skipNewlines() {
	for p.at(lexer.Newline) {
		p.pos++
	}
}

// skipSeparators skips statement separators (newlines and semicolons).
func (p *parser) skipSeparators() {
	for p.atAny(lexer.Newline, lexer.Semicolon) {
		p.pos++
	}
}

// expect consumes a token of kind k or records an error naming what
// was admissible.
func (p *parser) expect(k lexer.Kind, what ...string) (lexer.Token, bool) {
	if p.at(k) {
		return p.bump(), true
	}
	p.fail(what...)
	return lexer.Token{}, false
}

// fail records an error at the current token.
func (p *parser) fail(expected ...string) {
	got := p.cur()
	p.errs = append(p.errs, &Error{
		Expected: expected,
		Got:      got,
		GotText:  got.Text(p.src),
		At:       got.Span,
	})
}

func (p *parser) ident() (rlt.Ident, bool) {
	if !p.at(lexer.Identifier) {
		p.fail("identifier")
		return rlt.Ident{}, false
	}
	t := p.bump()
	return rlt.Ident{Kind: t.Kind, At: t.Span}, true
}

func (p *parser) typeName() (rlt.Ident, bool) {
	if !p.at(lexer.TypeName) {
		p.fail("type name")
		return rlt.Ident{}, false
	}
	t := p.bump()
	return rlt.Ident{Kind: t.Kind, At: t.Span}, true
}

// ====== file and modules ======

func (p *parser) parseFile() *rlt.File {
	f := &rlt.File{}
	p.skipSeparators()
	for p.at(lexer.KwModule) {
		m, ok := p.parseModule()
		if !ok {
			return nil
		}
		if m.Global && len(f.Modules) > 0 {
			// the global form must be the only module in the file
			p.fail("a single global module")
			return nil
		}
		f.Modules = append(f.Modules, m)
		p.skipSeparators()
		if m.Global {
			break
		}
	}
	if !p.at(lexer.EOF) {
		p.fail("module declaration", "EOF")
		return nil
	}
	return f
}

func (p *parser) parseModule() (*rlt.Module, bool) {
	kw, _ := p.expect(lexer.KwModule, "`module`")
	name, ok := p.typeName()
	if !ok {
		return nil, false
	}
	m := &rlt.Module{Keyword: kw.Span, Name: name}

	switch {
	case p.at(lexer.Flow):
		m.Global = true
		m.Flow = p.bump().Span
		items, ok := p.parseTopLevels(lexer.EOF)
		if !ok {
			return nil, false
		}
		m.Items = items
	case p.at(lexer.LBrace):
		m.LBrace = p.bump().Span
		items, ok := p.parseTopLevels(lexer.RBrace)
		if !ok {
			return nil, false
		}
		m.Items = items
		rb, ok := p.expect(lexer.RBrace, "`}`")
		if !ok {
			return nil, false
		}
		m.RBrace = rb.Span
	default:
		p.fail("`{`", "`=>`")
		return nil, false
	}
	return m, true
}

func (p *parser) parseTopLevels(stop lexer.Kind) ([]rlt.TopLevel, bool) {
	var items []rlt.TopLevel
	for {
		p.skipSeparators()
		if p.at(stop) || p.at(lexer.EOF) {
			return items, true
		}
		item, ok := p.parseTopLevel()
		if !ok {
			return nil, false
		}
		items = append(items, item)
		if !p.atAny(lexer.Newline, lexer.Semicolon, stop, lexer.EOF) {
			p.fail("statement separator")
			return nil, false
		}
	}
}

func (p *parser) parseTopLevel() (rlt.TopLevel, bool) {
	switch p.cur().Kind {
	case lexer.KwEnum:
		return p.parseEnum()
	case lexer.KwStruct:
		return p.parseStruct()
	case lexer.KwFun:
		return p.parseBodiedFunction()
	case lexer.KwAbstract:
		return p.parseAbstractFunction()
	default:
		p.fail("`enum`", "`struct`", "`fun`", "`abstract`")
		return nil, false
	}
}

// ====== top-level declarations ======

func (p *parser) parseEnum() (*rlt.Enum, bool) {
	kw := p.bump()
	e := &rlt.Enum{Keyword: kw.Span}
	switch {
	case p.at(lexer.KwStruct):
		p.bump()
	case p.at(lexer.KwClass):
		p.bump()
		e.Heap = true
	default:
		p.fail("`struct`", "`class`")
		return nil, false
	}
	name, ok := p.typeName()
	if !ok {
		return nil, false
	}
	e.Name = name

	if p.at(lexer.Semicolon) {
		p.bump()
		return e, true
	}
	lb, ok := p.expect(lexer.LBrace, "`{`", "`;`")
	if !ok {
		return nil, false
	}
	e.HasBody, e.LBrace = true, lb.Span
	p.skipNewlines()
	for !p.at(lexer.RBrace) {
		member, ok := p.typeName()
		if !ok {
			return nil, false
		}
		e.Members = append(e.Members, member)
		p.skipNewlines()
		if p.at(lexer.Comma) {
			p.bump()
			p.skipNewlines()
			continue
		}
		break
	}
	rb, ok := p.expect(lexer.RBrace, "`}`")
	if !ok {
		return nil, false
	}
	e.RBrace = rb.Span
	return e, true
}

func (p *parser) parseStruct() (*rlt.Struct, bool) {
	kw := p.bump()
	name, ok := p.typeName()
	if !ok {
		return nil, false
	}
	s := &rlt.Struct{Keyword: kw.Span, Name: name}

	if p.at(lexer.LParen) {
		s.HasParams = true
		s.LParen = p.bump().Span
		p.skipNewlines()
		for !p.at(lexer.RParen) {
			param, ok := p.parseTypedParameter()
			if !ok {
				return nil, false
			}
			s.Params = append(s.Params, param)
			p.skipNewlines()
			if p.at(lexer.Comma) {
				p.bump()
				p.skipNewlines()
				continue
			}
			break
		}
		rp, ok := p.expect(lexer.RParen, "`)`")
		if !ok {
			return nil, false
		}
		s.RParen = rp.Span
	}

	if p.at(lexer.LBrace) {
		s.HasBody = true
		s.LBrace = p.bump().Span
		for {
			p.skipSeparators()
			if p.at(lexer.RBrace) {
				break
			}
			if !p.at(lexer.KwFun) {
				p.fail("`fun`", "`}`")
				return nil, false
			}
			fn, ok := p.parseBodiedFunction()
			if !ok {
				return nil, false
			}
			s.Body = append(s.Body, fn)
		}
		s.RBrace = p.bump().Span
	}
	return s, true
}

func (p *parser) parseBodiedFunction() (*rlt.BodiedFunction, bool) {
	kw := p.bump()
	name, ok := p.ident()
	if !ok {
		return nil, false
	}
	f := &rlt.BodiedFunction{Keyword: kw.Span, Name: name}
	if !p.parseFunctionSignature(&f.HasParams, &f.LParen, &f.RParen, &f.Params, &f.Colon, &f.ReturnType) {
		return nil, false
	}
	body, ok := p.parseBody()
	if !ok {
		return nil, false
	}
	f.Body = body
	return f, true
}

func (p *parser) parseAbstractFunction() (*rlt.AbstractFunction, bool) {
	abst := p.bump()
	kw, ok := p.expect(lexer.KwFun, "`fun`")
	if !ok {
		return nil, false
	}
	name, ok := p.ident()
	if !ok {
		return nil, false
	}
	f := &rlt.AbstractFunction{Abstract: abst.Span, Keyword: kw.Span, Name: name}
	if !p.parseFunctionSignature(&f.HasParams, &f.LParen, &f.RParen, &f.Params, &f.Colon, &f.ReturnType) {
		return nil, false
	}
	return f, true
}

func (p *parser) parseFunctionSignature(hasParams *bool, lp, rp *span.Span, params *[]rlt.Parameter, colon *span.Span, ret *rlt.Type) bool {
	if p.at(lexer.LParen) {
		*hasParams = true
		*lp = p.bump().Span
		p.skipNewlines()
		for !p.at(lexer.RParen) {
			param, ok := p.parseParameter()
			if !ok {
				return false
			}
			*params = append(*params, param)
			p.skipNewlines()
			if p.at(lexer.Comma) {
				p.bump()
				p.skipNewlines()
				continue
			}
			break
		}
		t, ok := p.expect(lexer.RParen, "`)`")
		if !ok {
			return false
		}
		*rp = t.Span
	}
	if p.at(lexer.Colon) {
		*colon = p.bump().Span
		ty, ok := p.parseType()
		if !ok {
			return false
		}
		*ret = ty
	}
	return true
}

// ====== parameters and types ======

func (p *parser) parseTypedParameter() (*rlt.TypedParameter, bool) {
	name, ok := p.ident()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(lexer.Colon, "`:`"); !ok {
		return nil, false
	}
	ty, ok := p.parseType()
	if !ok {
		return nil, false
	}
	return &rlt.TypedParameter{Name: name, Type: ty}, true
}

func (p *parser) parseParameter() (rlt.Parameter, bool) {
	name, ok := p.ident()
	if !ok {
		return nil, false
	}
	if !p.at(lexer.Colon) {
		return &rlt.UntypedParameter{Name: name}, true
	}
	p.bump()
	if p.at(lexer.TypeGap) {
		p.bump()
		return &rlt.UntypedParameter{Name: name}, true
	}
	ty, ok := p.parseType()
	if !ok {
		return nil, false
	}
	return &rlt.TypedParameter{Name: name, Type: ty}, true
}

func (p *parser) parseType() (rlt.Type, bool) {
	switch p.cur().Kind {
	case lexer.TypeName:
		name, _ := p.typeName()
		return &rlt.TypeReference{Name: name}, true
	case lexer.LParen:
		lp := p.bump()
		t := &rlt.TupleType{LParen: lp.Span}
		p.skipNewlines()
		for !p.at(lexer.RParen) {
			item, ok := p.parseType()
			if !ok {
				return nil, false
			}
			t.Items = append(t.Items, item)
			p.skipNewlines()
			if p.at(lexer.Comma) {
				p.bump()
				p.skipNewlines()
				continue
			}
			break
		}
		rp, ok := p.expect(lexer.RParen, "`)`")
		if !ok {
			return nil, false
		}
		t.RParen = rp.Span
		return t, true
	default:
		p.fail("type name", "tuple type")
		return nil, false
	}
}

// ====== bodies, blocks and statements ======

func (p *parser) parseBody() (rlt.Body, bool) {
	switch p.cur().Kind {
	case lexer.LBrace:
		block, ok := p.parseExpressionBlock()
		if !ok {
			return nil, false
		}
		return &rlt.BlockBody{Inner: block}, true
	case lexer.Flow:
		flow := p.bump()
		stmt, ok := p.parseBlockLevel()
		if !ok {
			return nil, false
		}
		return &rlt.SimpleBody{Flow: flow.Span, Stmt: stmt}, true
	default:
		p.fail("`{`", "`=>`")
		return nil, false
	}
}

func (p *parser) parseExpressionBlock() (*rlt.ExpressionBlock, bool) {
	lb, ok := p.expect(lexer.LBrace, "`{`")
	if !ok {
		return nil, false
	}
	b := &rlt.ExpressionBlock{LBrace: lb.Span}
	for {
		p.skipSeparators()
		if p.at(lexer.RBrace) {
			break
		}
		if p.at(lexer.EOF) {
			p.fail("`}`")
			return nil, false
		}
		stmt, ok := p.parseBlockLevel()
		if !ok {
			return nil, false
		}
		b.Items = append(b.Items, stmt)
		if !p.atAny(lexer.Newline, lexer.Semicolon, lexer.RBrace) {
			p.fail("statement separator", "`}`")
			return nil, false
		}
	}
	b.RBrace = p.bump().Span
	return b, true
}

func (p *parser) parseBlockLevel() (rlt.BlockLevel, bool) {
	switch p.cur().Kind {
	case lexer.LBrace:
		block, ok := p.parseExpressionBlock()
		if !ok {
			return nil, false
		}
		return &rlt.Block{Inner: block}, true
	case lexer.KwVal, lexer.KwVar:
		return p.parseInitVar()
	case lexer.KwFun:
		return p.parseBodiedFunction()
	default:
		op, ok := p.parseOperation()
		if !ok {
			return nil, false
		}
		return &rlt.OperationStatement{Op: op}, true
	}
}

func (p *parser) parseInitVar() (*rlt.InitializedVariable, bool) {
	kw := p.bump()
	v := &rlt.Variable{Mutable: kw.Kind == lexer.KwVar, Keyword: kw.Span}
	name, ok := p.ident()
	if !ok {
		return nil, false
	}
	v.Name = name
	if p.at(lexer.Colon) {
		v.Colon = p.bump().Span
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		v.Type = ty
	}
	eq, ok := p.expect(lexer.OpEquals, "`=`")
	if !ok {
		return nil, false
	}
	expr, ok := p.parseOperation()
	if !ok {
		return nil, false
	}
	return &rlt.InitializedVariable{Variable: v, Equals: eq.Span, Expr: expr}, true
}
