// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package parser

import (
	"github.com/playbymail/tern/internal/lexer"
	"github.com/playbymail/tern/internal/rlt"
)

// Binary precedence, low to high. Assignment is right-associative and
// handled separately; power is right-associative and deepest.
var binaryLevels = [][]lexer.Kind{
	{lexer.OpOrLogic, lexer.OpAndLogic},
	{lexer.OpOrBit, lexer.OpAndBit, lexer.OpXorBit},
	{lexer.OpLess, lexer.OpGreater},
	{lexer.OpLessEq, lexer.OpNotEquiv, lexer.OpEquiv, lexer.OpGreaterEq},
	{lexer.OpSpaceship},
	{lexer.OpPlus, lexer.OpSub},
	{lexer.OpTimes, lexer.OpDiv, lexer.OpMod},
}

// parseOperation parses a full operation: the entry point for
// expression positions.
func (p *parser) parseOperation() (rlt.Operation, bool) {
	return p.parseAssign()
}

// parseAssign handles `a = b`, right-associative, lowest precedence.
func (p *parser) parseAssign() (rlt.Operation, bool) {
	left, ok := p.parseBinary(0)
	if !ok {
		return nil, false
	}
	if !p.at(lexer.OpEquals) {
		return left, true
	}
	op := p.bump()
	right, ok := p.parseAssign()
	if !ok {
		return nil, false
	}
	return &rlt.Binary{Left: left, Op: op, Right: right}, true
}

// parseBinary climbs the left-associative levels, then power, which is
// right-associative.
func (p *parser) parseBinary(level int) (rlt.Operation, bool) {
	if level >= len(binaryLevels) {
		return p.parsePow()
	}
	left, ok := p.parseBinary(level + 1)
	if !ok {
		return nil, false
	}
	for p.atAny(binaryLevels[level]...) {
		op := p.bump()
		right, ok := p.parseBinary(level + 1)
		if !ok {
			return nil, false
		}
		left = &rlt.Binary{Left: left, Op: op, Right: right}
	}
	return left, true
}

func (p *parser) parsePow() (rlt.Operation, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	if !p.at(lexer.OpPow) {
		return left, true
	}
	op := p.bump()
	right, ok := p.parsePow()
	if !ok {
		return nil, false
	}
	return &rlt.Binary{Left: left, Op: op, Right: right}, true
}

func (p *parser) parseUnary() (rlt.Operation, bool) {
	if p.atAny(lexer.OpSub, lexer.OpNotLogic, lexer.OpNotBit, lexer.OpPlus) {
		op := p.bump()
		expr, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return &rlt.TopUnary{Op: op, Expr: expr}, true
	}
	return p.parseApplication()
}

// parseApplication handles function application: a parenthesised
// argument list `f(a, b)` or juxtaposition with a reference or
// parenthesised operand `f x`. Applications are left-nested, so
// `f x y` is `(f x) y`.
func (p *parser) parseApplication() (rlt.Operation, bool) {
	expr, ok := p.parseAccess()
	if !ok {
		return nil, false
	}
	for {
		switch {
		case p.at(lexer.LParen):
			params, ok := p.parseArgumentList()
			if !ok {
				return nil, false
			}
			expr = &rlt.Application{Expr: expr, Params: params}
		case p.atAny(lexer.Identifier, lexer.TypeName, lexer.DoubleColon):
			arg, ok := p.parseAccess()
			if !ok {
				return nil, false
			}
			expr = &rlt.Application{Expr: expr, Params: []rlt.Operation{arg}}
		default:
			return expr, true
		}
	}
}

// parseArgumentList parses `( op, op, … )` after a callee. A single
// grouped operand is one argument; an empty list is a unit call.
func (p *parser) parseArgumentList() ([]rlt.Operation, bool) {
	p.bump() // (
	p.skipNewlines()
	var params []rlt.Operation
	for !p.at(lexer.RParen) {
		arg, ok := p.parseOperation()
		if !ok {
			return nil, false
		}
		params = append(params, arg)
		p.skipNewlines()
		if p.at(lexer.Comma) {
			p.bump()
			p.skipNewlines()
			continue
		}
		break
	}
	if _, ok := p.expect(lexer.RParen, "`)`"); !ok {
		return nil, false
	}
	return params, true
}

// parseAccess handles `a . b`, left-associative, the tightest level.
func (p *parser) parseAccess() (rlt.Operation, bool) {
	left, ok := p.parseAtom()
	if !ok {
		return nil, false
	}
	for p.at(lexer.Dot) {
		dot := p.bump()
		right, ok := p.parseAtom()
		if !ok {
			return nil, false
		}
		left = &rlt.Access{Left: left, Dot: dot.Span, Right: right}
	}
	return left, true
}

func (p *parser) parseAtom() (rlt.Operation, bool) {
	switch p.cur().Kind {
	case lexer.LParen:
		return p.parseParenOrTuple()
	case lexer.KwLambda:
		return p.parseLambda()
	case lexer.KwIf:
		return p.parseIf()
	case lexer.LitBinary, lexer.LitOctal, lexer.LitHex, lexer.LitFloating:
		t := p.bump()
		return &rlt.NumberLiteral{Kind: t.Kind, At: t.Span}, true
	case lexer.LitChar:
		t := p.bump()
		return &rlt.CharLiteral{At: t.Span}, true
	case lexer.LitString:
		t := p.bump()
		return &rlt.StringLiteral{At: t.Span}, true
	case lexer.Identifier, lexer.TypeName, lexer.DoubleColon:
		ref, ok := p.parseReference()
		if !ok {
			return nil, false
		}
		return &rlt.Term{Ref: ref}, true
	default:
		p.fail("expression")
		return nil, false
	}
}

// parseParenOrTuple disambiguates grouping from tuple literals: `(a)`
// is a grouped operation, while `()`, `(a,)` and `(a, b)` are tuples.
func (p *parser) parseParenOrTuple() (rlt.Operation, bool) {
	lp := p.bump()
	p.skipNewlines()
	if p.at(lexer.RParen) {
		rp := p.bump()
		return &rlt.TupleLiteral{LParen: lp.Span, RParen: rp.Span}, true
	}

	first, ok := p.parseOperation()
	if !ok {
		return nil, false
	}
	p.skipNewlines()
	if p.at(lexer.RParen) {
		p.bump()
		return first, true
	}

	t := &rlt.TupleLiteral{LParen: lp.Span, Items: []rlt.Operation{first}}
	for p.at(lexer.Comma) {
		p.bump()
		p.skipNewlines()
		if p.at(lexer.RParen) {
			break
		}
		item, ok := p.parseOperation()
		if !ok {
			return nil, false
		}
		t.Items = append(t.Items, item)
		p.skipNewlines()
	}
	rp, ok := p.expect(lexer.RParen, "`)`", "`,`")
	if !ok {
		return nil, false
	}
	t.RParen = rp.Span
	return t, true
}

func (p *parser) parseLambda() (*rlt.Lambda, bool) {
	kw := p.bump()
	l := &rlt.Lambda{Keyword: kw.Span}
	for p.at(lexer.Identifier) {
		param, ok := p.parseParameter()
		if !ok {
			return nil, false
		}
		l.Binds = append(l.Binds, param)
		if p.at(lexer.Comma) {
			p.bump()
			continue
		}
		break
	}
	flow, ok := p.expect(lexer.Flow, "`=>`")
	if !ok {
		return nil, false
	}
	l.Flow = flow.Span
	expr, ok := p.parseOperation()
	if !ok {
		return nil, false
	}
	l.Expr = expr
	return l, true
}

func (p *parser) parseIf() (*rlt.IfExpr, bool) {
	kw := p.bump()
	cond, ok := p.parseOperation()
	if !ok {
		return nil, false
	}
	body, ok := p.parseBody()
	if !ok {
		return nil, false
	}
	e := &rlt.IfExpr{Keyword: kw.Span, Cond: cond, Body: body}

	for {
		// an elif or else may start on the next line
		mark := p.pos
		p.skipNewlines()
		switch p.cur().Kind {
		case lexer.KwElif:
			elifKw := p.bump()
			cond, ok := p.parseOperation()
			if !ok {
				return nil, false
			}
			body, ok := p.parseBody()
			if !ok {
				return nil, false
			}
			e.Elifs = append(e.Elifs, &rlt.ElifExpr{Keyword: elifKw.Span, Cond: cond, Body: body})
		case lexer.KwElse:
			elseKw := p.bump()
			body, ok := p.parseBody()
			if !ok {
				return nil, false
			}
			e.Else = &rlt.ElseExpr{Keyword: elseKw.Span, Body: body}
			return e, true
		default:
			p.pos = mark
			return e, true
		}
	}
}
