package decompile

import (
	"strings"

	"github.com/scratchlang/slc/opcode"
	"github.com/scratchlang/slc/project"
)

// statement renders the line of a statement or hat block.
func (d *Decompiler) statement(t *project.Target, b *project.Block) string {
	switch b.Opcode {
	case opcode.ProceduresCall:
		return d.call(t, b)
	case opcode.ProceduresDefinition:
		return d.definition(t, b)
	}
	e := entry(b)
	if e == nil {
		return d.unsupported(t, b)
	}
	return d.format(t, b, e)
}

// entry returns the catalog entry rendering the block: the one whose
// constant fields all match, else the first one for the opcode.
func entry(b *project.Block) *opcode.Entry {
	entries := opcode.Entries(b.Opcode)
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		match := true
		for _, f := range e.Fields {
			if f.Kind == opcode.FieldConst && b.FieldValue(f.Name) != f.Value {
				match = false
				break
			}
		}
		if match {
			return e
		}
	}
	return entries[0]
}

// format fills the placeholders of the entry template.
func (d *Decompiler) format(t *project.Target, b *project.Block, e *opcode.Entry) string {
	var out strings.Builder
	rest := e.Format
	for {
		i := strings.IndexByte(rest, '{')
		j := strings.IndexByte(rest, '}')
		if i < 0 || j < i {
			out.WriteString(rest)
			return out.String()
		}
		out.WriteString(rest[:i])
		out.WriteString(d.placeholder(t, b, e, rest[i+1:j]))
		rest = rest[j+1:]
	}
}

func (d *Decompiler) placeholder(t *project.Target, b *project.Block, e *opcode.Entry, name string) string {
	for _, in := range e.Inputs {
		if in.Name == name {
			return d.slot(t, b, in)
		}
	}
	for _, f := range e.Fields {
		if f.Name != name {
			continue
		}
		v := b.FieldValue(name)
		if f.Kind == opcode.FieldVocab {
			return f.Vocab.Word(v)
		}
		return v
	}
	return ""
}

// slot renders the text of one input of a statement.
func (d *Decompiler) slot(t *project.Target, b *project.Block, s opcode.Input) string {
	in, ok := b.Input(s.Name)
	if !ok {
		if s.Kind == opcode.SlotNumber {
			return "0"
		}
		return `""`
	}
	switch s.Kind {
	case opcode.SlotBoolean:
		text, _ := d.expr(t, t.Block(in.Block), 0)
		return text
	case opcode.SlotColor, opcode.SlotBroadcast:
		if in.Literal != nil && in.Block == "" {
			return in.Literal.Text
		}
	case opcode.SlotMenu:
		if in.Kind == project.LiteralOnly && in.Block != "" {
			return d.menu(t, t.Block(in.Block))
		}
	}
	if s.Name == "MESSAGE" {
		return d.message(t, in)
	}
	return d.value(t, in, 0)
}

// message renders say and think content. Content is split at top-level
// plus signs when compiled, so binary operators are parenthesized.
func (d *Decompiler) message(t *project.Target, in project.Input) string {
	text := d.value(t, in, 0)
	if b := t.Block(in.Block); b != nil && in.Kind != project.LiteralOnly {
		if _, ok := binaryOps[b.Opcode]; ok || b.Opcode == opcode.OperatorNot {
			return "(" + text + ")"
		}
	}
	return text
}

// definition renders the header of a procedure definition.
func (d *Decompiler) definition(t *project.Target, b *project.Block) string {
	in, _ := b.Input("custom_block")
	proto := t.Block(in.Block)
	if proto == nil || proto.Mutation == nil {
		return d.unsupported(t, b)
	}
	m := proto.Mutation
	header := "定义 " + procedureName(m.ProcCode)
	if len(m.ArgumentNames) > 0 {
		header += "(" + strings.Join(m.ArgumentNames, ", ") + ")"
	}
	if m.Warp {
		header += " 不刷新屏幕"
	}
	return header
}

// call renders a procedure call with its arguments in declaration order.
func (d *Decompiler) call(t *project.Target, b *project.Block) string {
	if b.Mutation == nil {
		return d.unsupported(t, b)
	}
	name := procedureName(b.Mutation.ProcCode)
	if len(b.Mutation.ArgumentIDs) == 0 {
		return name
	}
	args := make([]string, len(b.Mutation.ArgumentIDs))
	for i, id := range b.Mutation.ArgumentIDs {
		in, ok := b.Input(id)
		if !ok {
			args[i] = `""`
			continue
		}
		args[i] = d.value(t, in, 0)
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}

// procedureName drops the argument placeholders of a proccode.
func procedureName(proccode string) string {
	var words []string
	for _, w := range strings.Fields(proccode) {
		if strings.HasPrefix(w, "%") && len(w) == 2 {
			continue
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}
