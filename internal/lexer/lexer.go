// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package lexer turns source text into a stream of classified tokens
// with byte-accurate spans.
//
// Classification resolves in a fixed order: trivia, keywords (a keyword
// must not swallow the head of a longer identifier), multi-character
// symbols before their single-character prefixes, identifiers,
// literals, operators. Tokens carry spans only; the text is recovered
// from the source when needed.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/playbymail/tern/internal/span"
)

// Token is a classified match: a kind plus the span it covers.
type Token struct {
	Kind Kind
	Span span.Span
}

// Text returns the matched bytes from the source the token was lexed from.
func (t Token) Text(src string) string {
	return t.Span.Text(src)
}

// Error reports the first byte no lexical rule applies to. The lexer
// never panics.
type Error struct {
	Offset uint32
}

func (e *Error) Error() string {
	return fmt.Sprintf("unexpected character at offset %d", e.Offset)
}

// Next returns the token starting at offset. At the end of input it
// returns a zero-width EOF token.
func Next(src string, offset uint32) (Token, error) {
	if offset >= uint32(len(src)) {
		return Token{Kind: EOF, Span: span.Point(uint32(len(src)))}, nil
	}
	return scan(src, offset)
}

// Tokenize eagerly lexes the whole source. The concatenated spans of
// the result cover the input exactly; trivia is included.
func Tokenize(src string) ([]Token, error) {
	var tokens []Token
	offset := uint32(0)
	for offset < uint32(len(src)) {
		tok, err := scan(src, offset)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		offset = tok.Span.End()
	}
	return tokens, nil
}

func scan(src string, at uint32) (Token, error) {
	ch := src[at]
	switch {
	case ch == '\n' || ch == '\r':
		return tok(Newline, at, 1), nil
	case ch == ' ' || ch == '\t':
		end := at + 1
		for end < uint32(len(src)) && (src[end] == ' ' || src[end] == '\t') {
			end++
		}
		return tok(Whitespace, at, end-at), nil
	case ch == '/':
		return scanSlash(src, at)
	case ch == '_' || isLetterAt(src, at):
		return scanWord(src, at), nil
	case ch >= '0' && ch <= '9':
		return scanNumber(src, at), nil
	case ch == '.':
		if at+1 < uint32(len(src)) && isDigit(src[at+1]) {
			return scanFloating(src, at), nil
		}
		return tok(Dot, at, 1), nil
	case ch == '+' || ch == '-':
		if next := at + 1; next < uint32(len(src)) {
			if isDigit(src[next]) {
				return scanNumberBody(src, at, next), nil
			}
			if src[next] == '.' && next+1 < uint32(len(src)) && isDigit(src[next+1]) {
				return scanFloating(src, at), nil
			}
		}
		return scanOperator(src, at)
	case ch == '\'':
		return scanChar(src, at)
	case ch == '"':
		return scanString(src, at)
	case ch == '\\':
		return tok(KwLambda, at, 1), nil
	default:
		return scanOperator(src, at)
	}
}

func tok(kind Kind, at, length uint32) Token {
	return Token{Kind: kind, Span: span.New(at, length)}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetterAt(src string, at uint32) bool {
	r, _ := utf8.DecodeRuneInString(src[at:])
	return unicode.IsLetter(r)
}

func inAlphabet(ch byte, alphabet string) bool {
	return strings.IndexByte(alphabet, ch) >= 0
}

func scanSlash(src string, at uint32) (Token, error) {
	if at+1 < uint32(len(src)) {
		switch src[at+1] {
		case '/':
			end := at + 2
			for end < uint32(len(src)) && src[end] != '\n' {
				end++
			}
			return tok(Comment, at, end-at), nil
		case '*':
			end := at + 2
			for end+1 < uint32(len(src)) {
				if src[end] == '*' && src[end+1] == '/' {
					return tok(MultilineComment, at, end+2-at), nil
				}
				end++
			}
			// unterminated block comment
			return Token{}, &Error{Offset: at}
		}
	}
	return tok(OpDiv, at, 1), nil
}

// scanWord handles identifiers, type names and keywords. The shape is
// an optional underscore run, a letter, then letters, digits and
// underscores. A bare underscore is the type-gap symbol.
func scanWord(src string, at uint32) Token {
	end := at
	for end < uint32(len(src)) && src[end] == '_' {
		end++
	}
	if end >= uint32(len(src)) || !isLetterAt(src, end) {
		return tok(TypeGap, at, 1)
	}
	first, w := utf8.DecodeRuneInString(src[end:])
	end += uint32(w)
	for end < uint32(len(src)) {
		r, w := utf8.DecodeRuneInString(src[end:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		end += uint32(w)
	}
	word := src[at:end]
	if kind, ok := keywords[word]; ok {
		return tok(kind, at, end-at)
	}
	if unicode.IsUpper(first) {
		return tok(TypeName, at, end-at)
	}
	return tok(Identifier, at, end-at)
}

var baseAlphabets = map[byte]string{
	'b': "01",
	'c': "01234567",
	'x': "0123456789abcdefABCDEF",
}

// scanNumber lexes an integer literal in a non-decimal base if the
// prefix and digit group allow it, and a floating literal otherwise.
func scanNumber(src string, at uint32) Token {
	return scanNumberBody(src, at, at)
}

// scanNumberBody shares the digit scanning between unsigned literals
// and literals carrying an explicit sign at `at`; digits start at `digitsAt`.
func scanNumberBody(src string, at, digitsAt uint32) Token {
	if src[digitsAt] == '0' && digitsAt+1 < uint32(len(src)) {
		prefix := lowerByte(src[digitsAt+1])
		if alphabet, ok := baseAlphabets[prefix]; ok {
			if end, ok := scanBaseDigits(src, digitsAt+2, alphabet); ok {
				kind := LitHex
				switch prefix {
				case 'b':
					kind = LitBinary
				case 'c':
					kind = LitOctal
				}
				return tok(kind, at, end-at)
			}
		}
	}
	return scanFloating(src, at)
}

// scanBaseDigits consumes a digit group for a based literal: either a
// run starting with a non-zero, non-underscore digit (underscore
// separators allowed) or exactly one digit.
func scanBaseDigits(src string, at uint32, alphabet string) (uint32, bool) {
	if at >= uint32(len(src)) || !inAlphabet(src[at], alphabet) {
		return 0, false
	}
	if src[at] == '0' {
		return at + 1, true
	}
	end := at
	for end < uint32(len(src)) && (src[end] == '_' || inAlphabet(src[end], alphabet)) {
		end++
	}
	return end, true
}

// scanFloating lexes a floating literal: optional sign, mandatory
// digit component (either leading digits with an optional fraction, or
// a leading fraction), optional exponent.
func scanFloating(src string, at uint32) Token {
	end := at
	if src[end] == '+' || src[end] == '-' {
		end++
	}
	if src[end] == '.' {
		end++
		for end < uint32(len(src)) && isDigit(src[end]) {
			end++
		}
	} else {
		for end < uint32(len(src)) && isDigit(src[end]) {
			end++
		}
		if end < uint32(len(src)) && src[end] == '.' {
			end++
			for end < uint32(len(src)) && isDigit(src[end]) {
				end++
			}
		}
	}
	// optional exponent; only consumed when complete
	if end < uint32(len(src)) && lowerByte(src[end]) == 'e' {
		expEnd := end + 1
		if expEnd < uint32(len(src)) && (src[expEnd] == '+' || src[expEnd] == '-') {
			expEnd++
		}
		if expEnd < uint32(len(src)) && isDigit(src[expEnd]) {
			for expEnd < uint32(len(src)) && isDigit(src[expEnd]) {
				expEnd++
			}
			end = expEnd
		}
	}
	return tok(LitFloating, at, end-at)
}

func scanChar(src string, at uint32) (Token, error) {
	if at+1 >= uint32(len(src)) {
		return Token{}, &Error{Offset: at}
	}
	_, w := utf8.DecodeRuneInString(src[at+1:])
	end := at + 1 + uint32(w)
	if end >= uint32(len(src)) || src[end] != '\'' {
		return Token{}, &Error{Offset: at}
	}
	return tok(LitChar, at, end+1-at), nil
}

func scanString(src string, at uint32) (Token, error) {
	end := at + 1
	for end < uint32(len(src)) {
		if src[end] == '"' {
			return tok(LitString, at, end+1-at), nil
		}
		end++
	}
	return Token{}, &Error{Offset: at}
}

// operatorTable lists symbols and operators longest-first so that a
// multi-character token always wins over its prefix.
var operatorTable = []struct {
	text string
	kind Kind
}{
	{"<=>", OpSpaceship},
	{"::", DoubleColon},
	{"=>", Flow},
	{"**", OpPow},
	{"==", OpEquiv},
	{"!=", OpNotEquiv},
	{">=", OpGreaterEq},
	{"<=", OpLessEq},
	{"&&", OpAndLogic},
	{"||", OpOrLogic},
	{",", Comma},
	{";", Semicolon},
	{"{", LBrace},
	{"}", RBrace},
	{"[", LBracket},
	{"]", RBracket},
	{"(", LParen},
	{")", RParen},
	{":", Colon},
	{".", Dot},
	{"+", OpPlus},
	{"-", OpSub},
	{"*", OpTimes},
	{"/", OpDiv},
	{"%", OpMod},
	{"=", OpEquals},
	{">", OpGreater},
	{"<", OpLess},
	{"!", OpNotLogic},
	{"|", OpOrBit},
	{"&", OpAndBit},
	{"^", OpXorBit},
	{"~", OpNotBit},
}

func scanOperator(src string, at uint32) (Token, error) {
	rest := src[at:]
	for _, entry := range operatorTable {
		if len(rest) >= len(entry.text) && rest[:len(entry.text)] == entry.text {
			return tok(entry.kind, at, uint32(len(entry.text))), nil
		}
	}
	return Token{}, &Error{Offset: at}
}

func lowerByte(ch byte) byte {
	if 'A' <= ch && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}
