// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package parser

import (
	"github.com/playbymail/tern/internal/lexer"
	"github.com/playbymail/tern/internal/rlt"
)

// parseReference parses a plain or contextual reference:
//
//	x            plain variable reference
//	X            plain type reference
//	X::Y::z      locally qualified
//	::X::y       globally qualified
//
// Type segments before the final name become the reference context.
func (p *parser) parseReference() (*rlt.Reference, bool) {
	r := &rlt.Reference{}
	if p.at(lexer.DoubleColon) {
		p.bump()
		r.Global = true
	}
	for {
		switch p.cur().Kind {
		case lexer.Identifier:
			name, _ := p.ident()
			r.Name = name
			return r, true
		case lexer.TypeName:
			name, _ := p.typeName()
			if p.at(lexer.DoubleColon) {
				p.bump()
				r.Context = append(r.Context, name)
				continue
			}
			r.Name = name
			return r, true
		default:
			p.fail("identifier", "type name")
			return nil, false
		}
	}
}
