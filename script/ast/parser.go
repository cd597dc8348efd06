package ast

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// ParseError is returned for malformed tokens and expressions.
// Pos is the byte offset of the offending input.
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at char %d: %s", e.Pos, e.Message)
}

type parser struct {
	// the text being parsed
	text string

	tokens []Token
	// index of the next unread token
	cur int
}

// Parse returns a Node, created by parsing the expression described in the
// argument string. If an error is encountered, parsing stops and a nil Node
// is returned with a *ParseError.
func Parse(text string) (Node, error) {
	p := &parser{}
	n, err := p.parse(text)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// --------------------
// Parsing methods
//

// next returns the next token.
func (p *parser) next() Token {
	t := p.peek()
	p.cur++
	return t
}

// backup backs the input stream up one token.
func (p *parser) backup() {
	if p.cur > 0 {
		p.cur--
	}
}

// peek returns but does not consume the next token.
func (p *parser) peek() Token {
	if p.cur >= len(p.tokens) {
		// Reading past the end keeps returning the EOF token.
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.cur]
}

// errorf formats the error and terminates processing.
func (p *parser) errorf(pos int, format string, args ...interface{}) {
	panic(&ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	})
}

// expect consumes the next token and guarantees it has the required type.
func (p *parser) expect(expected TokenType) Token {
	token := p.next()
	if token.Type != expected {
		p.unexpected(token, expected)
	}
	return token
}

// unexpected complains about the token and terminates processing.
func (p *parser) unexpected(tok Token, expected ...TokenType) {
	const bufSize = 10
	start := tok.Pos - bufSize
	if start < 0 {
		start = 0
	}
	stop := tok.Pos + bufSize
	if stop > len(p.text) {
		stop = len(p.text)
	}
	// Byte offsets may fall inside a multi-byte rune.
	for start > 0 && !isRuneStart(p.text[start]) {
		start--
	}
	for stop < len(p.text) && !isRuneStart(p.text[stop]) {
		stop++
	}
	expectedStrs := make([]string, len(expected))
	for i := range expected {
		expectedStrs[i] = fmt.Sprintf("%q", expected[i].String())
	}
	expectedStr := strings.Join(expectedStrs, ",")
	tokStr := tok.Type.String()
	if tok.Type == TokenString || tok.Type == TokenNumber {
		tokStr = fmt.Sprintf("%s %q", tokStr, tok.Value)
	}
	p.errorf(tok.Pos, "unexpected %s in \"%s\". expected: %s", tokStr, p.text[start:stop], expectedStr)
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// recover is the handler that turns panics into returns from the top level of Parse.
func (p *parser) recover(errp *error) {
	e := recover()
	if e != nil {
		if _, ok := e.(runtime.Error); ok {
			panic(e)
		}
		*errp = e.(error)
	}
}

func (p *parser) parse(text string) (n Node, err error) {
	defer p.recover(&err)
	p.text = text
	p.tokens, err = Lex(text)
	if err != nil {
		return nil, err
	}

	n = p.expr()
	p.expect(TokenEOF)
	return
}

func (p *parser) expr() Node {
	return p.precedence(p.unary(), 0)
}

// Operator Precedence parsing
var precedence = [...]int{
	TokenOr:           0,
	TokenAnd:          1,
	TokenGreater:      2,
	TokenLess:         2,
	TokenGreaterEqual: 2,
	TokenLessEqual:    2,
	TokenEqual:        2,
	TokenNotEqual:     2,
	TokenPlus:         3,
	TokenMinus:        3,
	TokenMult:         4,
	TokenDiv:          4,
	TokenMod:          4,
}

// parse the expression considering operator precedence.
// https://en.wikipedia.org/wiki/Operator-precedence_parser#Pseudo-code
func (p *parser) precedence(lhs Node, minP int) Node {
	look := p.peek()
	for IsExprOperator(look.Type) && precedence[look.Type] >= minP {
		op := p.next()
		rhs := p.unary()
		look = p.peek()
		// left-associative
		for IsExprOperator(look.Type) && precedence[look.Type] > precedence[op.Type] {
			rhs = p.precedence(rhs, precedence[look.Type])
			look = p.peek()
		}
		lhs = newBinary(position(op.Pos), op.Type, lhs, rhs)
	}
	return lhs
}

func (p *parser) unary() Node {
	switch tok := p.peek(); tok.Type {
	case TokenMinus, TokenNot:
		p.next()
		return newUnary(position(tok.Pos), tok.Type, p.unary())
	}
	return p.primary()
}

func (p *parser) primary() Node {
	switch tok := p.peek(); tok.Type {
	case TokenLParen:
		p.next()
		n := p.expr()
		p.expect(TokenRParen)
		return n
	case TokenNumber:
		return p.number()
	case TokenString:
		p.next()
		return newString(position(tok.Pos), tok.Value)
	case TokenVar:
		p.next()
		return newVar(position(tok.Pos), tok.Value)
	case TokenFunc:
		return p.function()
	default:
		p.unexpected(
			tok,
			TokenNumber,
			TokenString,
			TokenVar,
			TokenFunc,
			TokenLParen,
			TokenMinus,
			TokenNot,
		)
		return nil
	}
}

//parse a function call
func (p *parser) function() Node {
	fn := p.expect(TokenFunc)
	p.expect(TokenLParen)
	if p.peek().Type == TokenRParen {
		p.errorf(fn.Pos, "function %s requires at least one argument", fn.Value)
	}
	var args []Node
	for {
		args = append(args, p.expr())
		if p.next().Type != TokenComma {
			p.backup()
			break
		}
	}
	p.expect(TokenRParen)
	return newFunc(position(fn.Pos), fn.Value, args)
}

//parse a number literal
func (p *parser) number() Node {
	token := p.expect(TokenNumber)
	f, err := strconv.ParseFloat(token.Value, 64)
	if err != nil {
		p.errorf(token.Pos, "illegal number syntax: %q", token.Value)
	}
	return newNumber(position(token.Pos), f, token.Value)
}
