package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer(t *testing.T) {

	type testCase struct {
		in     string
		tokens []Token
	}

	test := func(tc testCase) {
		tokens, err := Lex(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.tokens, tokens, tc.in)
	}

	cases := []testCase{
		{
			in: "1 + 2.5e-3",
			tokens: []Token{
				{TokenNumber, 0, "1"},
				{TokenPlus, 2, "+"},
				{TokenNumber, 4, "2.5e-3"},
				{TokenEOF, 10, ""},
			},
		},
		{
			in: ".5*2",
			tokens: []Token{
				{TokenNumber, 0, ".5"},
				{TokenMult, 2, "*"},
				{TokenNumber, 3, "2"},
				{TokenEOF, 4, ""},
			},
		},
		{
			in: "a >= b",
			tokens: []Token{
				{TokenString, 0, "a"},
				{TokenGreaterEqual, 2, ">="},
				{TokenString, 5, "b"},
				{TokenEOF, 6, ""},
			},
		},
		{
			in: "x == 1",
			tokens: []Token{
				{TokenString, 0, "x"},
				{TokenEqual, 2, "=="},
				{TokenNumber, 5, "1"},
				{TokenEOF, 6, ""},
			},
		},
		{
			in: "1 != 2",
			tokens: []Token{
				{TokenNumber, 0, "1"},
				{TokenNotEqual, 2, "!="},
				{TokenNumber, 5, "2"},
				{TokenEOF, 6, ""},
			},
		},
		{
			in: "1 ≠ 2",
			tokens: []Token{
				{TokenNumber, 0, "1"},
				{TokenNotEqual, 2, "≠"},
				{TokenNumber, 6, "2"},
				{TokenEOF, 7, ""},
			},
		},
		{
			in: `'it\'s' "a\nb"`,
			tokens: []Token{
				{TokenString, 0, "it's"},
				{TokenString, 8, "a\nb"},
				{TokenEOF, 14, ""},
			},
		},
		{
			in: `"open`,
			tokens: []Token{
				{TokenString, 0, "open"},
				{TokenEOF, 5, ""},
			},
		},
		{
			in: "~a 且 非 ~b",
			tokens: []Token{
				{TokenVar, 0, "a"},
				{TokenAnd, 3, "且"},
				{TokenNot, 7, "非"},
				{TokenVar, 11, "b"},
				{TokenEOF, 13, ""},
			},
		},
		{
			in: "~分数 OR not ~x_1",
			tokens: []Token{
				{TokenVar, 0, "分数"},
				{TokenOr, 8, "OR"},
				{TokenNot, 11, "not"},
				{TokenVar, 15, "x_1"},
				{TokenEOF, 19, ""},
			},
		},
		{
			in: "ABS(-1)",
			tokens: []Token{
				{TokenFunc, 0, "abs"},
				{TokenLParen, 3, "("},
				{TokenMinus, 4, "-"},
				{TokenNumber, 5, "1"},
				{TokenRParen, 6, ")"},
				{TokenEOF, 7, ""},
			},
		},
		{
			in: "四舍五入(1)",
			tokens: []Token{
				{TokenFunc, 0, "round"},
				{TokenLParen, 12, "("},
				{TokenNumber, 13, "1"},
				{TokenRParen, 14, ")"},
				{TokenEOF, 15, ""},
			},
		},
		{
			in: "hello world",
			tokens: []Token{
				{TokenString, 0, "hello"},
				{TokenString, 6, "world"},
				{TokenEOF, 11, ""},
			},
		},
		{
			in: "10 % 3",
			tokens: []Token{
				{TokenNumber, 0, "10"},
				{TokenMod, 3, "%"},
				{TokenNumber, 5, "3"},
				{TokenEOF, 6, ""},
			},
		},
	}

	for _, tc := range cases {
		test(tc)
	}
}

func TestLexerErrors(t *testing.T) {
	cases := []struct {
		in  string
		pos int
		msg string
	}{
		{in: "1.2.3", pos: 3, msg: `invalid number "1.2.": more than one decimal point`},
		{in: "2e+", pos: 3, msg: `invalid number "2e+": exponent has no digits`},
		{in: "12abc", pos: 2, msg: `invalid number "12": unexpected 'a'`},
		{in: "~", pos: 0, msg: "variable reference requires a name"},
		{in: "1 ! 2", pos: 2, msg: `unexpected '!', did you mean "!="`},
		{in: "1 # 2", pos: 2, msg: `invalid character '#'`},
		{in: ". 1", pos: 0, msg: `unexpected '.'`},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := Lex(tc.in)
			require.Error(t, err)
			perr, ok := err.(*ParseError)
			require.True(t, ok, "expected *ParseError got %T", err)
			assert.Equal(t, tc.pos, perr.Pos)
			assert.Equal(t, tc.msg, perr.Message)
		})
	}
}

func TestUnescape(t *testing.T) {
	assert.Equal(t, "Hello\nWorld\tTab", Unescape(`Hello\nWorld\tTab`))
	assert.Equal(t, `a\qb`, Unescape(`a\qb`))
	assert.Equal(t, `say "hi"`, Unescape(Escape(`say "hi"`)))
}
