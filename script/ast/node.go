package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Node is a parsed expression.
type Node interface {
	// Byte offset of the node in the parsed text.
	Position() int
	// String renders the node fully parenthesized, for debugging and tests.
	String() string
}

type position int

func (p position) Position() int {
	return int(p)
}

// NumberNode holds a numeric literal.
type NumberNode struct {
	position
	Value float64
	// Literal is the source text of the number.
	Literal string
}

func newNumber(p position, v float64, literal string) *NumberNode {
	return &NumberNode{
		position: p,
		Value:    v,
		Literal:  literal,
	}
}

func (n *NumberNode) String() string {
	return FormatNumber(n.Value)
}

// StringNode holds a quoted string or a bare word.
type StringNode struct {
	position
	Literal string
}

func newString(p position, literal string) *StringNode {
	return &StringNode{
		position: p,
		Literal:  literal,
	}
}

func (n *StringNode) String() string {
	return strconv.Quote(n.Literal)
}

// VarNode references a variable, list or reporter by name.
type VarNode struct {
	position
	Name string
}

func newVar(p position, name string) *VarNode {
	return &VarNode{
		position: p,
		Name:     name,
	}
}

func (n *VarNode) String() string {
	return "~" + n.Name
}

// BinaryNode represents a binary operator between two nodes.
type BinaryNode struct {
	position
	Operator TokenType
	Left     Node
	Right    Node
}

func newBinary(p position, op TokenType, left, right Node) *BinaryNode {
	return &BinaryNode{
		position: p,
		Operator: op,
		Left:     left,
		Right:    right,
	}
}

func (n *BinaryNode) String() string {
	return fmt.Sprintf("(%v %v %v)", n.Left, n.Operator, n.Right)
}

// UnaryNode represents a negation or a logical not.
type UnaryNode struct {
	position
	Operator TokenType
	Node     Node
}

func newUnary(p position, op TokenType, n Node) *UnaryNode {
	return &UnaryNode{
		position: p,
		Operator: op,
		Node:     n,
	}
}

func (n *UnaryNode) String() string {
	if n.Operator == TokenMinus {
		return fmt.Sprintf("-%v", n.Node)
	}
	return fmt.Sprintf("%v %v", n.Operator, n.Node)
}

// FunctionNode is a call of one of the math functions.
type FunctionNode struct {
	position
	// Func is the canonical function name, see Function.
	Func string
	Args []Node
}

func newFunc(p position, fn string, args []Node) *FunctionNode {
	return &FunctionNode{
		position: p,
		Func:     fn,
		Args:     args,
	}
}

func (n *FunctionNode) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Func, strings.Join(args, ", "))
}

// FormatNumber renders a float the way numeric literals are written in projects,
// integral values without a fractional part and very large or small
// magnitudes in exponent notation.
func FormatNumber(f float64) string {
	if a := math.Abs(f); a != 0 && !math.IsInf(f, 0) && (a >= 1e21 || a < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
