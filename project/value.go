package project

import (
	"fmt"
	"math"
	"strconv"
)

// BlockID identifies a block within its target. The empty id means no block.
type BlockID string

// LiteralKind is the primitive type tag of an inline literal.
type LiteralKind int

const (
	Number         LiteralKind = 4
	PositiveNumber LiteralKind = 5
	WholeNumber    LiteralKind = 6
	Integer        LiteralKind = 7
	Angle          LiteralKind = 8
	Color          LiteralKind = 9
	String         LiteralKind = 10
	// Named references a broadcast by name and id.
	Named       LiteralKind = 11
	VariableRef LiteralKind = 12
	ListRef     LiteralKind = 13
)

// Value is the result of compiling a value position: either a Literal or a
// ReporterRef to the block computing it.
type Value interface {
	value()
	String() string
}

// Literal is a compile-time constant.
type Literal struct {
	Kind LiteralKind
	Text string
	// ID is set for Named, VariableRef and ListRef literals.
	ID string
}

func (Literal) value() {}

func (l Literal) String() string {
	if l.ID != "" {
		return fmt.Sprintf("[%d %q %s]", l.Kind, l.Text, l.ID)
	}
	return fmt.Sprintf("[%d %q]", l.Kind, l.Text)
}

// IsNumeric reports whether the literal kind is one of the number kinds.
func (l Literal) IsNumeric() bool {
	return l.Kind >= Number && l.Kind <= Angle
}

// NumberLiteral returns a number literal of the normalized text of f.
// Magnitudes outside [1e-6, 1e21) use exponent notation.
func NumberLiteral(f float64) Literal {
	return Literal{Kind: Number, Text: formatNumber(f)}
}

func formatNumber(f float64) string {
	if a := math.Abs(f); a != 0 && !math.IsInf(f, 0) && (a >= 1e21 || a < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// TextLiteral returns a string literal.
func TextLiteral(s string) Literal {
	return Literal{Kind: String, Text: s}
}

// ReporterRef refers to a block computing the value.
type ReporterRef struct {
	ID BlockID
}

func (ReporterRef) value() {}

func (r ReporterRef) String() string {
	return "ref " + string(r.ID)
}

// InputKind is the wire tag of an input, telling whether a shadow, a block,
// or a block obscuring a shadow fills the slot.
type InputKind int

const (
	// LiteralOnly holds only a shadow: an inline literal or a shadow menu block.
	LiteralOnly InputKind = 1
	// BlockOnly holds a block without shadow: booleans and substacks.
	BlockOnly InputKind = 2
	// BlockWithShadow holds a reporter obscuring a shadow.
	BlockWithShadow InputKind = 3
)

func (k InputKind) String() string {
	switch k {
	case LiteralOnly:
		return "literal"
	case BlockOnly:
		return "block"
	case BlockWithShadow:
		return "block+shadow"
	default:
		return fmt.Sprintf("input(%d)", int(k))
	}
}

// Input is one named input slot of a block.
//
//	LiteralOnly:     Literal, or Block naming a shadow block
//	BlockOnly:       Block
//	BlockWithShadow: Block, plus the obscured Literal or Shadow block
type Input struct {
	Name    string
	Kind    InputKind
	Block   BlockID
	Shadow  BlockID
	Literal *Literal
}

// LiteralInput returns an input holding an inline literal.
func LiteralInput(name string, l Literal) Input {
	return Input{Name: name, Kind: LiteralOnly, Literal: &l}
}

// ShadowInput returns an input holding a shadow block.
func ShadowInput(name string, shadow BlockID) Input {
	return Input{Name: name, Kind: LiteralOnly, Block: shadow}
}

// BlockInput returns an input holding a block without shadow.
func BlockInput(name string, id BlockID) Input {
	return Input{Name: name, Kind: BlockOnly, Block: id}
}

// ReporterInput returns an input holding a reporter over a literal shadow.
func ReporterInput(name string, id BlockID, shadow Literal) Input {
	return Input{Name: name, Kind: BlockWithShadow, Block: id, Literal: &shadow}
}

// Children returns the block ids referenced by the input.
func (in Input) Children() []BlockID {
	var ids []BlockID
	if in.Block != "" {
		ids = append(ids, in.Block)
	}
	if in.Shadow != "" {
		ids = append(ids, in.Shadow)
	}
	return ids
}

// Field is a named field of a block. ID is set for fields referencing a
// variable, list or broadcast.
type Field struct {
	Name  string
	Value string
	ID    string
}
