// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package lexer_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/playbymail/tern/internal/lexer"
)

type tok struct {
	Kind string
	Text string
}

type testcase struct {
	name  string
	input string
	want  []tok // expected significant tokens in order (trivia skipped)
}

func significant(t *testing.T, input string) []tok {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	var got []tok
	for _, tk := range tokens {
		if tk.Kind.IsTrivia() {
			continue
		}
		got = append(got, tok{Kind: tk.Kind.String(), Text: tk.Text(input)})
	}
	return got
}

func TestLexer_SignificantTokenStreams(t *testing.T) {
	cases := []testcase{
		{
			name:  "function_header",
			input: "fun foo(x: Int, y: Int) => x + y",
			want: []tok{
				{"Fun", "fun"},
				{"Identifier", "foo"},
				{"LParen", "("},
				{"Identifier", "x"},
				{"Colon", ":"},
				{"Type", "Int"},
				{"Comma", ","},
				{"Identifier", "y"},
				{"Colon", ":"},
				{"Type", "Int"},
				{"RParen", ")"},
				{"Flow", "=>"},
				{"Identifier", "x"},
				{"Plus", "+"},
				{"Identifier", "y"},
			},
		},
		{
			name:  "keywords_do_not_swallow_identifiers",
			input: "if ifoo else elsewhere struct structural",
			want: []tok{
				{"If", "if"},
				{"Identifier", "ifoo"},
				{"Else", "else"},
				{"Identifier", "elsewhere"},
				{"Struct", "struct"},
				{"Identifier", "structural"},
			},
		},
		{
			name:  "underscore_prefix_keeps_classification",
			input: "_foo __Bar _ x",
			want: []tok{
				{"Identifier", "_foo"},
				{"Type", "__Bar"},
				{"TypeGap", "_"},
				{"Identifier", "x"},
			},
		},
		{
			name:  "multi_char_symbols_win",
			input: "a <=> b <= c < d :: e => f ** g == h != i && j || k",
			want: []tok{
				{"Identifier", "a"},
				{"Spaceship", "<=>"},
				{"Identifier", "b"},
				{"LessEquals", "<="},
				{"Identifier", "c"},
				{"Less", "<"},
				{"Identifier", "d"},
				{"DoubleColon", "::"},
				{"Identifier", "e"},
				{"Flow", "=>"},
				{"Identifier", "f"},
				{"Pow", "**"},
				{"Identifier", "g"},
				{"Equiv", "=="},
				{"Identifier", "h"},
				{"NotEquiv", "!="},
				{"Identifier", "i"},
				{"AndLogic", "&&"},
				{"Identifier", "j"},
				{"OrLogic", "||"},
				{"Identifier", "k"},
			},
		},
		{
			name:  "numeric_literals",
			input: "0b1010 0c777 0xDEAD_beef 12 3.25 1e9 2.5e-3 .5",
			want: []tok{
				{"Binary", "0b1010"},
				{"Octal", "0c777"},
				{"Hex", "0xDEAD_beef"},
				{"Floating", "12"},
				{"Floating", "3.25"},
				{"Floating", "1e9"},
				{"Floating", "2.5e-3"},
				{"Floating", ".5"},
			},
		},
		{
			name:  "char_and_string",
			input: `'c' "hello world" ""`,
			want: []tok{
				{"Char", "'c'"},
				{"String", `"hello world"`},
				{"String", `""`},
			},
		},
		{
			name:  "lambda_and_flow",
			input: `\x => x`,
			want: []tok{
				{"Lambda", `\`},
				{"Identifier", "x"},
				{"Flow", "=>"},
				{"Identifier", "x"},
			},
		},
		{
			name:  "comments_are_trivia",
			input: "a // comment\nb /* block */ c",
			want: []tok{
				{"Identifier", "a"},
				{"Identifier", "b"},
				{"Identifier", "c"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := significant(t, tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("len(tokens)=%d, want %d\n got=%v", len(got), len(tc.want), got)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("tok[%d]=(%s,%q), want (%s,%q)",
						i, got[i].Kind, got[i].Text, tc.want[i].Kind, tc.want[i].Text)
				}
			}
		})
	}
}

func TestLexer_SpansCoverInput(t *testing.T) {
	inputs := []string{
		"",
		"module Main { }\n",
		"fun add(x: Int, y: Int) => x + y\n// done\n",
		"val s = \"multi\nline\"\n",
		"/* block\ncomment */ struct Pair(a: Int, b: Int)",
	}
	for _, input := range inputs {
		tokens, err := lexer.Tokenize(input)
		if err != nil {
			t.Fatalf("tokenize %q: %v", input, err)
		}
		var sb strings.Builder
		var offset uint32
		for _, tk := range tokens {
			if tk.Span.Start != offset {
				t.Fatalf("token %s starts at %d, want %d", tk.Kind, tk.Span.Start, offset)
			}
			sb.WriteString(tk.Text(input))
			offset = tk.Span.End()
		}
		if sb.String() != input {
			t.Fatalf("concatenated spans = %q, want %q", sb.String(), input)
		}
	}
}

func TestLexer_UnexpectedCharacter(t *testing.T) {
	_, err := lexer.Tokenize("val x = @")
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("err = %v, want *lexer.Error", err)
	}
	if lexErr.Offset != 8 {
		t.Fatalf("offset = %d, want 8", lexErr.Offset)
	}
}

func TestLexer_UnterminatedBlockComment(t *testing.T) {
	_, err := lexer.Tokenize("a /* never closed")
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("err = %v, want *lexer.Error", err)
	}
	if lexErr.Offset != 2 {
		t.Fatalf("offset = %d, want 2", lexErr.Offset)
	}
}

func TestLexer_NextAtOffset(t *testing.T) {
	input := "val x"
	tk, err := lexer.Next(input, 4)
	if err != nil {
		t.Fatal(err)
	}
	if tk.Kind != lexer.Identifier || tk.Text(input) != "x" {
		t.Fatalf("got (%s, %q)", tk.Kind, tk.Text(input))
	}
	eof, err := lexer.Next(input, 5)
	if err != nil || eof.Kind != lexer.EOF {
		t.Fatalf("got (%s, %v), want EOF", eof.Kind, err)
	}
}

func TestLexer_ParallelMatchesSequential(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 4000; i++ {
		sb.WriteString("fun work(x: Int, y: Int): Int => x ** y + 0xFF // trail\n")
		if i%97 == 0 {
			sb.WriteString("/* block comment\nspanning lines */\n")
		}
		if i%53 == 0 {
			sb.WriteString("val s = \"text with\nnewline\"\n")
		}
	}
	input := sb.String()
	if len(input) < lexer.ParallelThreshold {
		t.Fatalf("input too small to exercise the parallel path: %d", len(input))
	}

	sequential, err := lexer.Tokenize(input)
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := lexer.TokenizeParallel(input, 8)
	if err != nil {
		t.Fatal(err)
	}
	if len(sequential) != len(parallel) {
		t.Fatalf("token counts differ: sequential=%d parallel=%d", len(sequential), len(parallel))
	}
	for i := range sequential {
		if sequential[i] != parallel[i] {
			t.Fatalf("token %d differs: sequential=%v parallel=%v", i, sequential[i], parallel[i])
		}
	}
}
