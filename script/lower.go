package script

import (
	"github.com/pkg/errors"
	"github.com/scratchlang/slc/opcode"
	"github.com/scratchlang/slc/project"
	"github.com/scratchlang/slc/script/ast"
)

// expression compiles text through the expression grammar.
func (c *compiler) expression(sc *scope, text string) (project.Value, error) {
	n, err := ast.Parse(text)
	if err != nil {
		return nil, errors.Wrapf(err, "expression %q", text)
	}
	return c.lower(sc, n)
}

// lower turns an expression tree into blocks, returning the value of its root.
func (c *compiler) lower(sc *scope, n ast.Node) (project.Value, error) {
	switch n := n.(type) {
	case *ast.NumberNode:
		return project.NumberLiteral(n.Value), nil
	case *ast.StringNode:
		return project.TextLiteral(n.Literal), nil
	case *ast.VarNode:
		return c.reference(sc, n.Name)
	case *ast.UnaryNode:
		if num, ok := n.Node.(*ast.NumberNode); ok && n.Operator == ast.TokenMinus {
			return project.NumberLiteral(-num.Value), nil
		}
		v, err := c.lower(sc, n.Node)
		if err != nil {
			return nil, err
		}
		if n.Operator == ast.TokenMinus {
			return c.negate(sc, v)
		}
		return c.not(sc, v)
	case *ast.BinaryNode:
		l, err := c.lower(sc, n.Left)
		if err != nil {
			return nil, err
		}
		r, err := c.lower(sc, n.Right)
		if err != nil {
			return nil, err
		}
		return c.binary(sc, n.Operator, l, r)
	case *ast.FunctionNode:
		if len(n.Args) != 1 {
			return nil, &ast.ParseError{
				Pos:     n.Position(),
				Message: "function " + n.Func + " takes exactly one argument",
			}
		}
		v, err := c.lower(sc, n.Args[0])
		if err != nil {
			return nil, err
		}
		return c.mathop(sc, n.Func, v)
	}
	return nil, errors.Errorf("unexpected expression node %T", n)
}

var arithmetic = map[ast.TokenType]opcode.Opcode{
	ast.TokenPlus:  opcode.OperatorAdd,
	ast.TokenMinus: opcode.OperatorSubtract,
	ast.TokenMult:  opcode.OperatorMultiply,
	ast.TokenDiv:   opcode.OperatorDivide,
	ast.TokenMod:   opcode.OperatorMod,
}

var comparison = map[ast.TokenType]opcode.Opcode{
	ast.TokenGreater: opcode.OperatorGt,
	ast.TokenLess:    opcode.OperatorLt,
	ast.TokenEqual:   opcode.OperatorEquals,
}

// negated comparisons are compiled as not over the complementary comparison.
var negated = map[ast.TokenType]opcode.Opcode{
	ast.TokenGreaterEqual: opcode.OperatorLt,
	ast.TokenLessEqual:    opcode.OperatorGt,
	ast.TokenNotEqual:     opcode.OperatorEquals,
}

// binary emits the blocks of a binary operator. It is shared by the grammar
// and the light path so both produce the same shapes.
func (c *compiler) binary(sc *scope, op ast.TokenType, l, r project.Value) (project.Value, error) {
	if o, ok := arithmetic[op]; ok {
		return c.reporter(sc, o,
			input("NUM1", opcode.SlotNumber, l),
			input("NUM2", opcode.SlotNumber, r),
		), nil
	}
	if o, ok := comparison[op]; ok {
		return c.compare(sc, o, l, r), nil
	}
	if o, ok := negated[op]; ok {
		return c.not(sc, c.compare(sc, o, l, r))
	}
	switch op {
	case ast.TokenAnd:
		return c.logic(sc, opcode.OperatorAnd, l, r)
	case ast.TokenOr:
		return c.logic(sc, opcode.OperatorOr, l, r)
	}
	return nil, errors.Errorf("unexpected operator %v", op)
}

func (c *compiler) compare(sc *scope, o opcode.Opcode, l, r project.Value) project.Value {
	return c.reporter(sc, o,
		input("OPERAND1", opcode.SlotText, l),
		input("OPERAND2", opcode.SlotText, r),
	)
}

func (c *compiler) logic(sc *scope, o opcode.Opcode, l, r project.Value) (project.Value, error) {
	a, err := boolean("OPERAND1", l)
	if err != nil {
		return nil, err
	}
	b, err := boolean("OPERAND2", r)
	if err != nil {
		return nil, err
	}
	return c.reporter(sc, o, a, b), nil
}

func (c *compiler) not(sc *scope, v project.Value) (project.Value, error) {
	in, err := boolean("OPERAND", v)
	if err != nil {
		return nil, err
	}
	return c.reporter(sc, opcode.OperatorNot, in), nil
}

// negate compiles -v as 0 - v.
func (c *compiler) negate(sc *scope, v project.Value) (project.Value, error) {
	return c.binary(sc, ast.TokenMinus, project.NumberLiteral(0), v)
}

func (c *compiler) mathop(sc *scope, fn string, v project.Value) (project.Value, error) {
	if fn == "round" {
		return c.reporter(sc, opcode.OperatorRound, input("NUM", opcode.SlotNumber, v)), nil
	}
	if !opcode.MathOps.Has(fn) {
		return nil, errors.Errorf("unknown function %s", fn)
	}
	id := c.builder.AddBlock(sc.target, project.BlockSpec{
		Opcode: opcode.OperatorMathOp,
		Inputs: []project.Input{input("NUM", opcode.SlotNumber, v)},
		Fields: []project.Field{{Name: "OPERATOR", Value: opcode.MathOps.Value(fn)}},
	})
	return project.ReporterRef{ID: id}, nil
}

func (c *compiler) reporter(sc *scope, o opcode.Opcode, inputs ...project.Input) project.Value {
	id := c.builder.AddBlock(sc.target, project.BlockSpec{
		Opcode: o,
		Inputs: inputs,
	})
	return project.ReporterRef{ID: id}
}

// input builds the input of a number or text slot.
func input(name string, kind opcode.SlotKind, v project.Value) project.Input {
	lk := project.String
	if kind == opcode.SlotNumber {
		lk = project.Number
	}
	switch v := v.(type) {
	case project.ReporterRef:
		return project.ReporterInput(name, v.ID, project.Literal{Kind: lk})
	case project.Literal:
		if v.Kind == project.Number || v.Kind == project.String {
			v.Kind = lk
		}
		return project.LiteralInput(name, v)
	}
	return project.LiteralInput(name, project.Literal{Kind: lk})
}

// boolean builds the input of a boolean slot, which only holds blocks.
func boolean(name string, v project.Value) (project.Input, error) {
	ref, ok := v.(project.ReporterRef)
	if !ok {
		lit, _ := v.(project.Literal)
		return project.Input{}, errors.Errorf("%q is not a condition", lit.Text)
	}
	return project.BlockInput(name, ref.ID), nil
}
