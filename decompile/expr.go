package decompile

import (
	"regexp"
	"strings"

	"github.com/scratchlang/slc/opcode"
	"github.com/scratchlang/slc/project"
)

// Binding strength of rendered expressions, as parsed by the expression
// grammar.
const (
	precOr = iota
	precAnd
	precCompare
	precSum
	precProduct
	precUnary
	precAtom
)

type operator struct {
	sym  string
	prec int
}

var binaryOps = map[opcode.Opcode]operator{
	opcode.OperatorOr:       {"或", precOr},
	opcode.OperatorAnd:      {"且", precAnd},
	opcode.OperatorGt:       {">", precCompare},
	opcode.OperatorLt:       {"<", precCompare},
	opcode.OperatorEquals:   {"=", precCompare},
	opcode.OperatorAdd:      {"+", precSum},
	opcode.OperatorSubtract: {"-", precSum},
	opcode.OperatorMultiply: {"*", precProduct},
	opcode.OperatorDivide:   {"/", precProduct},
	opcode.OperatorMod:      {"%", precProduct},
}

// negatedOps are the comparisons written for not over a comparison.
var negatedOps = map[opcode.Opcode]string{
	opcode.OperatorLt:     ">=",
	opcode.OperatorGt:     "<=",
	opcode.OperatorEquals: "≠",
}

var numberPattern = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)

func isNumber(s string) bool {
	return numberPattern.MatchString(s)
}

// value renders the content of an input as a whole slot.
func (d *Decompiler) value(t *project.Target, in project.Input, depth int) string {
	text, _ := d.input(t, in, depth)
	return text
}

// input renders the content of an input and reports its precedence.
func (d *Decompiler) input(t *project.Target, in project.Input, depth int) (string, int) {
	switch {
	case in.Kind != project.LiteralOnly && in.Block != "":
		return d.expr(t, t.Block(in.Block), depth+1)
	case in.Literal != nil:
		return literal(*in.Literal), precAtom
	case in.Block != "":
		if b := t.Block(in.Block); b != nil && b.Opcode.IsMenu() {
			return d.menu(t, b), precAtom
		}
		return d.expr(t, t.Block(in.Block), depth+1)
	}
	return `""`, precAtom
}

// operand renders an input inside an operator binding at least as tight as min.
func (d *Decompiler) operand(t *project.Target, b *project.Block, name string, min, depth int) string {
	in, ok := b.Input(name)
	if !ok {
		return `""`
	}
	text, prec := d.input(t, in, depth)
	if prec < min {
		return "(" + text + ")"
	}
	return text
}

func literal(l project.Literal) string {
	switch l.Kind {
	case project.VariableRef, project.ListRef:
		return "~" + l.Text
	case project.Named, project.Color:
		return l.Text
	}
	if isNumber(l.Text) {
		return l.Text
	}
	return quote(l.Text)
}

// expr rebuilds the expression computed by a reporter block.
func (d *Decompiler) expr(t *project.Target, b *project.Block, depth int) (string, int) {
	if b == nil {
		return "", precAtom
	}
	if depth > maxDepth {
		return "?", precAtom
	}
	if op, ok := binaryOps[b.Opcode]; ok {
		in1, in2 := "NUM1", "NUM2"
		if op.prec <= precCompare {
			in1, in2 = "OPERAND1", "OPERAND2"
		}
		return d.binary(t, b, op, in1, in2, depth), op.prec
	}
	if r, ok := opcode.ReporterFor(b.Opcode, b.FieldValue("NUMBER_NAME")); ok {
		return "~" + r.Word, precAtom
	}
	if b.Opcode.IsMenu() {
		return d.menu(t, b), precAtom
	}

	var text string
	switch b.Opcode {
	case opcode.OperatorNot:
		return d.not(t, b, depth)
	case opcode.OperatorJoin:
		text = d.join(t, b, depth)
	case opcode.OperatorRandom:
		text = "从 " + d.arg(t, b, "FROM", depth) + " 到 " + d.arg(t, b, "TO", depth) + " 随机选一个数"
	case opcode.OperatorLetterOf:
		text = d.arg(t, b, "STRING", depth) + " 的第 " + d.arg(t, b, "LETTER", depth) + " 个字符"
	case opcode.OperatorLength:
		text = d.arg(t, b, "STRING", depth) + " 的长度"
	case opcode.OperatorContains:
		text = d.arg(t, b, "STRING1", depth) + " 包含 " + d.arg(t, b, "STRING2", depth)
	case opcode.OperatorRound:
		text = "四舍五入(" + d.arg(t, b, "NUM", depth) + ")"
	case opcode.OperatorMathOp:
		text = opcode.MathOps.Word(b.FieldValue("OPERATOR")) + "(" + d.arg(t, b, "NUM", depth) + ")"
	case opcode.DataVariable:
		text = "~" + strings.TrimPrefix(b.FieldValue("VARIABLE"), "☁ ")
	case opcode.DataListContents:
		text = "~" + b.FieldValue("LIST")
	case opcode.DataItemOfList:
		text = "~" + b.FieldValue("LIST") + " 的第 " + d.arg(t, b, "INDEX", depth) + " 项"
	case opcode.DataLengthOfList:
		text = "~" + b.FieldValue("LIST") + " 的项目数"
	case opcode.ArgumentReporterStringNumber, opcode.ArgumentReporterBoolean:
		text = "~" + b.FieldValue("VALUE")
	case opcode.SensingDistanceTo:
		text = "~到 " + d.menuInput(t, b, "DISTANCETOMENU", depth) + " 的距离"
	case opcode.SensingOf:
		text = "~" + d.menuInput(t, b, "OBJECT", depth) + " 的 " + opcode.Properties.Word(b.FieldValue("PROPERTY"))
	case opcode.SensingKeyPressed:
		text = "按下 " + d.menuInput(t, b, "KEY_OPTION", depth) + " 键"
	case opcode.SensingTouchingObject:
		text = "碰到 " + d.menuInput(t, b, "TOUCHINGOBJECTMENU", depth)
	case opcode.SensingTouchingColor:
		text = "碰到颜色 " + d.arg(t, b, "COLOR", depth)
	case opcode.SensingMouseDown:
		text = "鼠标按下"
	case opcode.ProceduresPrototype:
		text = d.prototype(b)
	default:
		d.pending = append(d.pending, d.unsupported(t, b))
		text = "?"
	}
	return text, precAtom
}

// arg renders an input of a reporter phrase.
func (d *Decompiler) arg(t *project.Target, b *project.Block, name string, depth int) string {
	in, ok := b.Input(name)
	if !ok {
		return `""`
	}
	return d.value(t, in, depth)
}

func (d *Decompiler) binary(t *project.Target, b *project.Block, op operator, in1, in2 string, depth int) string {
	// operators are left associative
	l := d.operand(t, b, in1, op.prec, depth)
	r := d.operand(t, b, in2, op.prec+1, depth)
	return l + " " + op.sym + " " + r
}

// not renders a negated comparison with its complementary operator,
// anything else with the not keyword.
func (d *Decompiler) not(t *project.Target, b *project.Block, depth int) (string, int) {
	in, _ := b.Input("OPERAND")
	inner := t.Block(in.Block)
	if inner != nil {
		if sym, ok := negatedOps[inner.Opcode]; ok {
			op := operator{sym: sym, prec: precCompare}
			return d.binary(t, inner, op, "OPERAND1", "OPERAND2", depth+1), precCompare
		}
	}
	return "非 " + d.operand(t, b, "OPERAND", precUnary, depth), precUnary
}

// join flattens a right nested join chain into one join call.
func (d *Decompiler) join(t *project.Target, b *project.Block, depth int) string {
	var args []string
	for {
		args = append(args, d.part(t, b, "STRING1", depth))
		in, _ := b.Input("STRING2")
		next := t.Block(in.Block)
		if in.Kind == project.LiteralOnly || next == nil || next.Opcode != opcode.OperatorJoin || depth > maxDepth {
			args = append(args, d.part(t, b, "STRING2", depth))
			break
		}
		b = next
		depth++
	}
	return "连接(" + strings.Join(args, ", ") + ")"
}

// part renders a join operand. Reporters that are neither references nor
// phrases are parenthesized to be compiled as expressions.
func (d *Decompiler) part(t *project.Target, b *project.Block, name string, depth int) string {
	in, ok := b.Input(name)
	if !ok {
		return `""`
	}
	text := d.value(t, in, depth)
	r := t.Block(in.Block)
	if in.Kind == project.LiteralOnly || r == nil || strings.HasPrefix(text, "~") {
		return text
	}
	switch r.Opcode {
	case opcode.OperatorJoin, opcode.OperatorRandom, opcode.OperatorLetterOf, opcode.OperatorLength, opcode.OperatorContains:
		return text
	}
	return "(" + text + ")"
}

// menu renders the word of a shadow menu block.
func (d *Decompiler) menu(t *project.Target, b *project.Block) string {
	if b == nil {
		return ""
	}
	m, ok := opcode.MenuFor(b.Opcode)
	if !ok {
		if !b.Opcode.IsMenu() {
			text, _ := d.expr(t, b, 0)
			return text
		}
		if len(b.Fields) > 0 {
			return b.Fields[0].Value
		}
		return ""
	}
	return m.Vocab.Word(b.FieldValue(m.Field))
}

func (d *Decompiler) menuInput(t *project.Target, b *project.Block, name string, depth int) string {
	in, ok := b.Input(name)
	if !ok {
		return ""
	}
	if in.Kind == project.LiteralOnly && in.Block != "" {
		return d.menu(t, t.Block(in.Block))
	}
	return d.value(t, in, depth)
}

func (d *Decompiler) prototype(b *project.Block) string {
	if b.Mutation == nil {
		return "?"
	}
	name := procedureName(b.Mutation.ProcCode)
	if len(b.Mutation.ArgumentNames) == 0 {
		return name
	}
	return name + "(" + strings.Join(b.Mutation.ArgumentNames, ", ") + ")"
}
