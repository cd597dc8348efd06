package script

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/scratchlang/slc/opcode"
	"github.com/scratchlang/slc/project"
)

// emit adds the block of a catalog match, compiling its slots and fields.
func (c *compiler) emit(sc *scope, m *opcode.Match) (project.BlockID, error) {
	spec := project.BlockSpec{
		Opcode:   m.Opcode,
		TopLevel: m.Hat(),
	}
	for _, in := range m.Inputs {
		v, err := c.slot(sc, in, m.Group(in.Group))
		if err != nil {
			return "", errors.Wrapf(err, "input %s", in.Name)
		}
		spec.Inputs = append(spec.Inputs, v)
	}
	for _, f := range m.Fields {
		spec.Fields = append(spec.Fields, c.field(sc, f, m.Group(f.Group)))
	}
	if m.Opcode == opcode.ControlStop {
		stop, _ := m.Const("STOP_OPTION")
		spec.Mutation = project.StopMutation(stop == "other scripts in sprite")
	}
	c.builder.AddExtension(m.Extension())
	return c.builder.AddBlock(sc.target, spec), nil
}

// slot compiles the captured text of an input.
func (c *compiler) slot(sc *scope, in opcode.Input, text string) (project.Input, error) {
	switch in.Kind {
	case opcode.SlotBoolean:
		id, err := c.condition(sc, text)
		if err != nil {
			return project.Input{}, err
		}
		return project.BlockInput(in.Name, id), nil
	case opcode.SlotColor:
		return project.LiteralInput(in.Name, project.Literal{Kind: project.Color, Text: text}), nil
	case opcode.SlotBroadcast:
		name := unquote(text)
		if name == "" {
			return project.Input{}, errors.New("empty broadcast name")
		}
		return project.LiteralInput(in.Name, project.Literal{
			Kind: project.Named,
			Text: name,
			ID:   c.builder.AddBroadcast(name),
		}), nil
	case opcode.SlotMenu:
		return c.menu(sc, in, text)
	}
	v, err := c.value(sc, text)
	if err != nil {
		return project.Input{}, err
	}
	return input(in.Name, in.Kind, v), nil
}

// menu compiles a menu slot. A word selects a menu entry through the menu
// vocabulary; a reference or expression obscures an empty menu shadow.
func (c *compiler) menu(sc *scope, in opcode.Input, text string) (project.Input, error) {
	if strings.HasPrefix(text, "~") || IsComplex(text) {
		v, err := c.value(sc, text)
		if err != nil {
			return project.Input{}, err
		}
		if ref, ok := v.(project.ReporterRef); ok {
			shadow := c.menuShadow(sc, in.Menu, "")
			return project.Input{
				Name:   in.Name,
				Kind:   project.BlockWithShadow,
				Block:  ref.ID,
				Shadow: shadow,
			}, nil
		}
		text = v.(project.Literal).Text
	}
	return project.ShadowInput(in.Name, c.menuShadow(sc, in.Menu, text)), nil
}

// field compiles the captured text of a field.
func (c *compiler) field(sc *scope, f opcode.Field, text string) project.Field {
	switch f.Kind {
	case opcode.FieldConst:
		return project.Field{Name: f.Name, Value: f.Value}
	case opcode.FieldVocab:
		return project.Field{Name: f.Name, Value: f.Vocab.Value(unquote(text))}
	case opcode.FieldVariable:
		name := varName(text)
		v, ok := c.lookupVariable(sc.target, name)
		if !ok {
			c.warn(sc, "variable %s is not declared", name)
			id := c.builder.AddVariable(sc.target, name, 0.0)
			return project.Field{Name: f.Name, Value: name, ID: id}
		}
		return project.Field{Name: f.Name, Value: v.Name, ID: v.ID}
	case opcode.FieldList:
		name := varName(text)
		l, ok := c.builder.LookupList(sc.target, name)
		if !ok {
			c.warn(sc, "list %s is not declared", name)
			id := c.builder.AddList(sc.target, name, nil)
			return project.Field{Name: f.Name, Value: name, ID: id}
		}
		return project.Field{Name: f.Name, Value: l.Name, ID: l.ID}
	case opcode.FieldBroadcast:
		name := unquote(text)
		return project.Field{Name: f.Name, Value: name, ID: c.builder.AddBroadcast(name)}
	}
	return project.Field{Name: f.Name, Value: unquote(text)}
}

// varName is the variable or list name written in a field, with an optional
// reference sign.
func varName(text string) string {
	return unquote(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "~")))
}
