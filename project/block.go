package project

import "github.com/scratchlang/slc/opcode"

// Block is one node of a target's block graph.
type Block struct {
	ID     BlockID
	Opcode opcode.Opcode
	// Raw is the serialized opcode of Unknown and ExtensionCall blocks.
	Raw string

	Inputs []Input
	Fields []Field

	Parent   BlockID
	Next     BlockID
	Shadow   bool
	TopLevel bool
	X, Y     int

	Mutation *Mutation
}

// OpcodeString returns the opcode as serialized.
func (b *Block) OpcodeString() string {
	if b.Raw != "" && (b.Opcode == opcode.Unknown || b.Opcode == opcode.ExtensionCall) {
		return b.Raw
	}
	return b.Opcode.String()
}

// Input returns the named input.
func (b *Block) Input(name string) (Input, bool) {
	for _, in := range b.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}

// Field returns the named field.
func (b *Block) Field(name string) (Field, bool) {
	for _, f := range b.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldValue returns the value of the named field or "".
func (b *Block) FieldValue(name string) string {
	f, _ := b.Field(name)
	return f.Value
}

func (b *Block) setInput(in Input) {
	for i := range b.Inputs {
		if b.Inputs[i].Name == in.Name {
			b.Inputs[i] = in
			return
		}
	}
	b.Inputs = append(b.Inputs, in)
}

// Mutation is the metadata of procedure blocks and of control_stop.
type Mutation struct {
	ProcCode         string
	ArgumentIDs      []string
	ArgumentNames    []string
	ArgumentDefaults []string
	Warp             bool
	// HasNext is set on control_stop mutations.
	HasNext *bool

	// prototype reports whether names and defaults are serialized.
	prototype bool
}

// PrototypeMutation returns the mutation of a procedures_prototype block.
func PrototypeMutation(proccode string, ids, names []string, warp bool) *Mutation {
	defaults := make([]string, len(ids))
	return &Mutation{
		ProcCode:         proccode,
		ArgumentIDs:      ids,
		ArgumentNames:    names,
		ArgumentDefaults: defaults,
		Warp:             warp,
		prototype:        true,
	}
}

// CallMutation returns the mutation of a procedures_call block.
func CallMutation(proccode string, ids []string, warp bool) *Mutation {
	return &Mutation{
		ProcCode:    proccode,
		ArgumentIDs: ids,
		Warp:        warp,
	}
}

// StopMutation returns the mutation of a control_stop block.
func StopMutation(hasNext bool) *Mutation {
	return &Mutation{HasNext: &hasNext}
}

// IsPrototype reports whether the mutation carries argument names.
func (m *Mutation) IsPrototype() bool {
	return m.prototype || m.ArgumentNames != nil
}
