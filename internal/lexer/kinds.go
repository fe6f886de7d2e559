// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package lexer

import "fmt"

// Kind classifies a token. The set is closed; the parser switches over
// it exhaustively.
type Kind uint8

const (
	EOF Kind = iota

	// trivia
	Comment
	MultilineComment
	Newline
	Whitespace

	// keywords
	KwFun
	KwVal
	KwVar
	KwIf
	KwElif
	KwElse
	KwMatch
	KwWhile
	KwModule
	KwExtend
	KwLambda
	KwAbstract
	KwTrait
	KwStruct
	KwClass
	KwEnum
	KwForeign
	KwTypeAlias
	KwWith
	KwReturn

	// symbols
	Comma
	Semicolon
	LBrace
	RBrace
	LBracket
	RBracket
	LParen
	RParen
	TypeGap
	DoubleColon
	Colon

	// identifiers
	Identifier
	TypeName

	// literals
	LitBinary
	LitOctal
	LitHex
	LitFloating
	LitChar
	LitString

	// operators
	Dot
	Flow
	OpPlus
	OpSub
	OpTimes
	OpDiv
	OpMod
	OpPow
	OpEquals
	OpEquiv
	OpNotEquiv
	OpGreaterEq
	OpGreater
	OpLessEq
	OpLess
	OpSpaceship
	OpOrLogic
	OpAndLogic
	OpNotLogic
	OpOrBit
	OpAndBit
	OpXorBit
	OpNotBit
)

var kindNames = map[Kind]string{
	EOF:              "EOF",
	Comment:          "Comment",
	MultilineComment: "MultilineComment",
	Newline:          "Newline",
	Whitespace:       "Whitespace",
	KwFun:            "Fun",
	KwVal:            "Val",
	KwVar:            "Var",
	KwIf:             "If",
	KwElif:           "Elif",
	KwElse:           "Else",
	KwMatch:          "Match",
	KwWhile:          "While",
	KwModule:         "Module",
	KwExtend:         "Extend",
	KwLambda:         "Lambda",
	KwAbstract:       "Abstract",
	KwTrait:          "Trait",
	KwStruct:         "Struct",
	KwClass:          "Class",
	KwEnum:           "Enum",
	KwForeign:        "Foreign",
	KwTypeAlias:      "TypeAlias",
	KwWith:           "With",
	KwReturn:         "Return",
	Comma:            "Comma",
	Semicolon:        "Semicolon",
	LBrace:           "LBrace",
	RBrace:           "RBrace",
	LBracket:         "LBracket",
	RBracket:         "RBracket",
	LParen:           "LParen",
	RParen:           "RParen",
	TypeGap:          "TypeGap",
	DoubleColon:      "DoubleColon",
	Colon:            "Colon",
	Identifier:       "Identifier",
	TypeName:         "Type",
	LitBinary:        "Binary",
	LitOctal:         "Octal",
	LitHex:           "Hex",
	LitFloating:      "Floating",
	LitChar:          "Char",
	LitString:        "String",
	Dot:              "Dot",
	Flow:             "Flow",
	OpPlus:           "Plus",
	OpSub:            "Sub",
	OpTimes:          "Times",
	OpDiv:            "Div",
	OpMod:            "Mod",
	OpPow:            "Pow",
	OpEquals:         "Equals",
	OpEquiv:          "Equiv",
	OpNotEquiv:       "NotEquiv",
	OpGreaterEq:      "GreaterEquals",
	OpGreater:        "Greater",
	OpLessEq:         "LessEquals",
	OpLess:           "Less",
	OpSpaceship:      "Spaceship",
	OpOrLogic:        "OrLogic",
	OpAndLogic:       "AndLogic",
	OpNotLogic:       "NotLogic",
	OpOrBit:          "OrBit",
	OpAndBit:         "AndBit",
	OpXorBit:         "XorBit",
	OpNotBit:         "NotBit",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsTrivia reports whether the token is skipped by the parser.
func (k Kind) IsTrivia() bool {
	return k == Comment || k == MultilineComment || k == Newline || k == Whitespace
}

// IsKeyword reports whether the token is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwFun && k <= KwReturn
}

// IsLiteral reports whether the token is a literal of any base or form.
func (k Kind) IsLiteral() bool {
	return k >= LitBinary && k <= LitString
}

// IsOperator reports whether the token is an operator.
func (k Kind) IsOperator() bool {
	return k >= Dot && k <= OpNotBit
}

// keywords maps reserved words to their kinds. The lexer scans a whole
// identifier first and then consults this table, so a keyword never
// swallows the head of a longer identifier.
var keywords = map[string]Kind{
	"fun":      KwFun,
	"val":      KwVal,
	"var":      KwVar,
	"if":       KwIf,
	"elif":     KwElif,
	"else":     KwElse,
	"match":    KwMatch,
	"while":    KwWhile,
	"module":   KwModule,
	"extend":   KwExtend,
	"abstract": KwAbstract,
	"trait":    KwTrait,
	"struct":   KwStruct,
	"class":    KwClass,
	"enum":     KwEnum,
	"foreign":  KwForeign,
	"type":     KwTypeAlias,
	"with":     KwWith,
	"return":   KwReturn,
}
