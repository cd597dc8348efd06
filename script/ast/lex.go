package ast

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType int

type stateFn func(*lexer) stateFn

const eof = -1

const (
	TokenError TokenType = iota
	TokenEOF
	TokenNumber
	TokenString
	TokenVar
	TokenFunc
	TokenLParen
	TokenRParen
	TokenComma
	TokenNot

	// begin binary operator tokens
	begin_tok_operator

	// begin logical operators
	begin_tok_operator_logic

	TokenOr
	TokenAnd

	// end logical operators
	end_tok_operator_logic

	// begin comparison operators
	begin_tok_operator_comp

	TokenGreater
	TokenLess
	TokenGreaterEqual
	TokenLessEqual
	TokenEqual
	TokenNotEqual

	// end comparison operators
	end_tok_operator_comp

	// begin mathematical operators
	begin_tok_operator_math

	TokenPlus
	TokenMinus
	TokenMult
	TokenDiv
	TokenMod

	// end mathematical operators
	end_tok_operator_math

	// end binary operator tokens
	end_tok_operator
)

var operatorStr = [...]string{
	TokenNot:          "not",
	TokenOr:           "or",
	TokenAnd:          "and",
	TokenGreater:      ">",
	TokenLess:         "<",
	TokenGreaterEqual: ">=",
	TokenLessEqual:    "<=",
	TokenEqual:        "=",
	TokenNotEqual:     "≠",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenMult:         "*",
	TokenDiv:          "/",
	TokenMod:          "%",
}

// Logic words, matched case-insensitively for ASCII spellings.
var keywords = map[string]TokenType{
	"且":   TokenAnd,
	"and": TokenAnd,
	"或":   TokenOr,
	"or":  TokenOr,
	"非":   TokenNot,
	"不是":  TokenNot,
	"not": TokenNot,
}

// functions maps every accepted function word to its canonical name.
var functions = map[string]string{
	"四舍五入":    "round",
	"round":   "round",
	"abs":     "abs",
	"floor":   "floor",
	"ceiling": "ceiling",
	"sqrt":    "sqrt",
	"sin":     "sin",
	"cos":     "cos",
	"tan":     "tan",
	"asin":    "asin",
	"acos":    "acos",
	"atan":    "atan",
	"ln":      "ln",
	"log":     "log",
	"exp":     "exp",
	"pow10":   "pow10",
}

// Function reports the canonical function name for word.
func Function(word string) (string, bool) {
	f, ok := functions[strings.ToLower(word)]
	return f, ok
}

//String representation of an TokenType
func (t TokenType) String() string {
	switch {
	case t == TokenError:
		return "ERR"
	case t == TokenEOF:
		return "EOF"
	case t == TokenNumber:
		return "number"
	case t == TokenString:
		return "string"
	case t == TokenVar:
		return "variable"
	case t == TokenFunc:
		return "function"
	case t == TokenLParen:
		return "("
	case t == TokenRParen:
		return ")"
	case t == TokenComma:
		return ","
	case t == TokenNot:
		return operatorStr[t]
	case IsExprOperator(t):
		return operatorStr[t]
	}
	return fmt.Sprintf("%d", t)
}

// True if token type is a binary operator.
func IsExprOperator(typ TokenType) bool {
	return typ > begin_tok_operator && typ < end_tok_operator
}

// True if token type is an operator used in mathematical expressions.
func IsMathOperator(typ TokenType) bool {
	return typ > begin_tok_operator_math && typ < end_tok_operator_math
}

// True if token type is an operator used in comparisons.
func IsCompOperator(typ TokenType) bool {
	return typ > begin_tok_operator_comp && typ < end_tok_operator_comp
}

func IsLogicalOperator(typ TokenType) bool {
	return typ > begin_tok_operator_logic && typ < end_tok_operator_logic
}

// Token is one lexical unit of an expression.
type Token struct {
	Type  TokenType
	Pos   int
	Value string
}

func (t Token) String() string {
	return fmt.Sprintf("{%v pos: %d val: %s}", t.Type, t.Pos, t.Value)
}

// lexer holds the state of the scanner.
type lexer struct {
	input  string // the string being scanned.
	start  int    // start position of this token.
	pos    int    // current position in the input.
	width  int    // width of last rune read from input.
	tokens []Token
	err    error
}

// Lex splits an expression into tokens. The last token is always TokenEOF.
func Lex(input string) ([]Token, error) {
	l := &lexer{input: input}
	l.run()
	if l.err != nil {
		return nil, l.err
	}
	return l.tokens, nil
}

// run lexes the input by executing state functions until
// the state is nil.
func (l *lexer) run() {
	for state := lexToken; state != nil; {
		state = state(l)
	}
}

func (l *lexer) emit(t TokenType) {
	l.emitValue(t, l.current())
}

func (l *lexer) emitValue(t TokenType, val string) {
	l.tokens = append(l.tokens, Token{Type: t, Pos: l.start, Value: val})
	l.start = l.pos
}

// next returns the next rune in the input.
func (l *lexer) next() (r rune) {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	return
}

// errorf records a parse error at the start of the current token and stops the scan.
func (l *lexer) errorf(format string, args ...interface{}) stateFn {
	return l.errorAt(l.start, format, args...)
}

func (l *lexer) errorAt(pos int, format string, args ...interface{}) stateFn {
	l.err = &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
	return nil
}

//Backup the lexer to the previous rune
func (l *lexer) backup() {
	l.pos -= l.width
}

// peek returns but does not consume the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *lexer) current() string {
	return l.input[l.start:l.pos]
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.start = l.pos
}

// accept consumes the next rune if it is from the valid set.
func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

// acceptRun consumes a run of runes from the valid set.
func (l *lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}

func lexToken(l *lexer) stateFn {
	for {
		switch r := l.next(); {
		case r == eof:
			l.emit(TokenEOF)
			return nil
		case isSpace(r):
			l.ignore()
		case isDigit(r):
			l.backup()
			return lexNumber
		case r == '.':
			if isDigit(l.peek()) {
				l.backup()
				return lexNumber
			}
			return l.errorf("unexpected %q", r)
		case r == '"', r == '\'':
			l.backup()
			return lexString
		case r == '~':
			return lexVar
		case r == '(':
			l.emit(TokenLParen)
		case r == ')':
			l.emit(TokenRParen)
		case r == ',':
			l.emit(TokenComma)
		case isOperatorChar(r):
			l.backup()
			return lexOperator
		case isWordChar(r):
			return lexWord
		default:
			return l.errorf("invalid character %q", r)
		}
	}
}

const digits = "0123456789"

func lexNumber(l *lexer) stateFn {
	l.acceptRun(digits)
	if l.accept(".") {
		l.acceptRun(digits)
		if l.peek() == '.' {
			l.next()
			return l.errorAt(l.pos-1, "invalid number %q: more than one decimal point", l.current())
		}
	}
	if l.accept("eE") {
		l.accept("+-")
		if !isDigit(l.peek()) {
			return l.errorAt(l.pos, "invalid number %q: exponent has no digits", l.current())
		}
		l.acceptRun(digits)
	}
	if r := l.peek(); r == '.' || isWordChar(r) {
		return l.errorAt(l.pos, "invalid number %q: unexpected %q", l.current(), r)
	}
	l.emit(TokenNumber)
	return lexToken
}

// lexString reads a quoted string verbatim up to the matching unescaped quote.
// An unterminated string runs to the end of input.
func lexString(l *lexer) stateFn {
	quote := l.next()
	contentStart := l.pos
	for {
		switch r := l.next(); r {
		case '\\':
			l.next()
		case quote:
			l.emitValue(TokenString, Unescape(l.input[contentStart:l.pos-l.width]))
			return lexToken
		case eof:
			l.emitValue(TokenString, Unescape(l.input[contentStart:l.pos]))
			return lexToken
		}
	}
}

func lexVar(l *lexer) stateFn {
	l.ignore()
	for isWordChar(l.peek()) {
		l.next()
	}
	if l.pos == l.start {
		return l.errorAt(l.start-1, "variable reference requires a name")
	}
	// Keep the token position on the sigil.
	l.start--
	l.emitValue(TokenVar, l.input[l.start+1:l.pos])
	return lexToken
}

func lexOperator(l *lexer) stateFn {
	switch r := l.next(); r {
	case '+':
		l.emit(TokenPlus)
	case '-':
		l.emit(TokenMinus)
	case '*':
		l.emit(TokenMult)
	case '/':
		l.emit(TokenDiv)
	case '%':
		l.emit(TokenMod)
	case '>':
		if l.accept("=") {
			l.emit(TokenGreaterEqual)
		} else {
			l.emit(TokenGreater)
		}
	case '<':
		if l.accept("=") {
			l.emit(TokenLessEqual)
		} else {
			l.emit(TokenLess)
		}
	case '=':
		l.accept("=")
		l.emit(TokenEqual)
	case '!':
		if !l.accept("=") {
			return l.errorf("unexpected %q, did you mean \"!=\"", r)
		}
		l.emit(TokenNotEqual)
	case '≠':
		l.emit(TokenNotEqual)
	default:
		return l.errorf("unexpected operator char %q", r)
	}
	return lexToken
}

func lexWord(l *lexer) stateFn {
	for isWordChar(l.peek()) {
		l.next()
	}
	word := l.current()
	lower := strings.ToLower(word)
	if typ, ok := keywords[lower]; ok {
		l.emit(typ)
		return lexToken
	}
	if f, ok := functions[lower]; ok {
		l.emitValue(TokenFunc, f)
		return lexToken
	}
	l.emit(TokenString)
	return lexToken
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

const operatorChars = "+-*/%><=!≠"

func isOperatorChar(r rune) bool {
	return r != eof && strings.ContainsRune(operatorChars, r)
}

// isWordChar reports whether r may appear in a bare word or variable name.
func isWordChar(r rune) bool {
	if r == eof || isOperatorChar(r) {
		return false
	}
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || r > unicode.MaxASCII && !unicode.IsSpace(r) && !unicode.IsPunct(r)
}

// Unescape decodes the escape sequences accepted inside DSL string literals.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Escape is the inverse of Unescape for double quoted literals.
func Escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)
	return r.Replace(s)
}
