package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserLookAhead(t *testing.T) {
	assert := assert.New(t)

	p := &parser{}
	var err error
	p.tokens, err = Lex("1 + 2")
	require.NoError(t, err)

	assert.Equal(TokenNumber, p.peek().Type)
	assert.Equal(TokenNumber, p.next().Type)
	assert.Equal(TokenPlus, p.peek().Type)
	p.backup()
	assert.Equal(TokenNumber, p.next().Type)
	p.next()
	p.next()
	assert.Equal(TokenEOF, p.next().Type)
	assert.Equal(TokenEOF, p.peek().Type)
}

func TestParsePrecedence(t *testing.T) {
	cases := []struct {
		in  string
		exp string
	}{
		{in: "1 + 2 * 3", exp: "(1 + (2 * 3))"},
		{in: "1 - 2 - 3", exp: "((1 - 2) - 3)"},
		{in: "8 / 4 / 2", exp: "((8 / 4) / 2)"},
		{in: "(1 + 2) * 3", exp: "((1 + 2) * 3)"},
		{in: "-2 * 3", exp: "(-2 * 3)"},
		{in: "- -2", exp: "--2"},
		{in: "非 ~a = 1", exp: "(not ~a = 1)"},
		{in: "~a > 1 且 ~b < 2 或 ~c = 3", exp: "(((~a > 1) and (~b < 2)) or (~c = 3))"},
		{in: "~a or ~b and ~c", exp: "(~a or (~b and ~c))"},
		{in: "1 + 2 > 2 * 1", exp: "((1 + 2) > (2 * 1))"},
		{in: "10 >= 5", exp: "(10 >= 5)"},
		{in: "1 ≠ 2", exp: "(1 ≠ 2)"},
		{in: "sqrt(16) + abs(-3)", exp: "(sqrt(16) + abs(-3))"},
		{in: "四舍五入(~x / 2)", exp: "round((~x / 2))"},
		{in: "'a b' = hello", exp: `("a b" = "hello")`},
		{in: "1e3", exp: "1000"},
		{in: "10 % 3 * 2", exp: "((10 % 3) * 2)"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			n, err := Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.exp, n.String())
		})
	}
}

func TestParseNodes(t *testing.T) {
	assert := assert.New(t)

	n, err := Parse("~分数 + 2.50")
	require.NoError(t, err)
	b, ok := n.(*BinaryNode)
	require.True(t, ok)
	assert.Equal(TokenPlus, b.Operator)
	assert.Equal(8, b.Position())
	assert.Equal(&VarNode{position: 0, Name: "分数"}, b.Left)
	assert.Equal(&NumberNode{position: 10, Value: 2.5, Literal: "2.50"}, b.Right)

	n, err = Parse("atan(1, 2)")
	require.NoError(t, err)
	f := n.(*FunctionNode)
	assert.Equal("atan", f.Func)
	assert.Len(f.Args, 2)
}

func TestParseErrors(t *testing.T) {
	assert := assert.New(t)

	type testCase struct {
		Text  string
		Pos   int
		Error string
	}

	test := func(tc testCase) {
		_, err := Parse(tc.Text)
		if assert.NotNil(err) {
			if e, g := tc.Error, err.Error(); g != e {
				t.Errorf("unexpected error: \ngot %s \nexp %s", g, e)
			}
			perr, ok := err.(*ParseError)
			if assert.True(ok) {
				assert.Equal(tc.Pos, perr.Pos)
			}
		}
	}

	cases := []testCase{
		{
			Text:  "1 +",
			Pos:   3,
			Error: `parse error at char 3: unexpected EOF in "1 +". expected: "number","string","variable","function","(","-","not"`,
		},
		{
			Text:  "abs()",
			Pos:   0,
			Error: `parse error at char 0: function abs requires at least one argument`,
		},
		{
			Text:  "(1 + 2",
			Pos:   6,
			Error: `parse error at char 6: unexpected EOF in "(1 + 2". expected: ")"`,
		},
		{
			Text:  "1 2",
			Pos:   2,
			Error: `parse error at char 2: unexpected number "2" in "1 2". expected: "EOF"`,
		},
		{
			Text:  "1..2 + ~a",
			Pos:   2,
			Error: `parse error at char 2: invalid number "1..": more than one decimal point`,
		},
	}

	for _, tc := range cases {
		test(tc)
	}
}
