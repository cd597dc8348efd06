package project

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html"
	"math/rand"
	"time"

	"github.com/scratchlang/slc/opcode"
)

const (
	idLength   = 20
	idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	DefaultAgent = "slc"

	defaultCostumeColor = "#FF6680"
	defaultBackdropFill = "#FFFFFF"
)

// Builder grows one Program. A Builder is not safe for concurrent use, each
// compile owns its own.
type Builder struct {
	program *Program
	rand    *rand.Rand
}

type Option func(*Builder)

// WithSeed makes id generation deterministic.
func WithSeed(seed int64) Option {
	return func(b *Builder) {
		b.rand = rand.New(rand.NewSource(seed))
	}
}

// WithAgent sets the agent string of the project metadata.
func WithAgent(agent string) Option {
	return func(b *Builder) {
		b.program.Meta.Agent = agent
	}
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		program: &Program{
			ExtensionURLs: make(map[string]string),
			Resources:     make(map[string][]byte),
			Meta: Meta{
				Semver: "3.0.0",
				VM:     "0.2.0",
				Agent:  DefaultAgent,
			},
		},
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Program returns the program as built so far.
func (b *Builder) Program() *Program {
	return b.program
}

// Build ensures the stage exists, finalizes every target and returns the program.
func (b *Builder) Build() *Program {
	b.Stage()
	for _, t := range b.program.Targets {
		b.Finalize(t)
	}
	return b.program
}

// NewID returns a fresh random identifier.
func (b *Builder) NewID() string {
	id := make([]byte, idLength)
	for i := range id {
		id[i] = idAlphabet[b.rand.Intn(len(idAlphabet))]
	}
	return string(id)
}

func (b *Builder) newBlockID(t *Target) BlockID {
	for {
		id := BlockID(b.NewID())
		if t.Block(id) == nil {
			return id
		}
	}
}

// Stage returns the stage, creating it first in the target order if needed.
func (b *Builder) Stage() *Target {
	if s := b.program.Stage(); s != nil {
		return s
	}
	s := NewStage()
	b.program.Targets = append([]*Target{s}, b.program.Targets...)
	return s
}

// AddSprite creates a sprite target.
func (b *Builder) AddSprite(name string) *Target {
	s := NewSprite(name)
	s.LayerOrder = len(b.program.Sprites()) + 1
	b.program.Targets = append(b.program.Targets, s)
	return s
}

// Finalize gives a target without costumes its default costume or backdrop.
func (b *Builder) Finalize(t *Target) {
	if len(t.Costumes) > 0 {
		return
	}
	var c Costume
	var data []byte
	if t.IsStage {
		data = []byte(fmt.Sprintf(`<svg version="1.1" xmlns="http://www.w3.org/2000/svg" width="480" height="360">
  <rect width="480" height="360" fill="%s"/>
</svg>`, defaultBackdropFill))
		c = Costume{Name: "backdrop1", RotationCenterX: 240, RotationCenterY: 180}
	} else {
		data = []byte(fmt.Sprintf(`<svg version="1.1" xmlns="http://www.w3.org/2000/svg" width="100" height="100">
  <circle cx="50" cy="50" r="40" fill="%s"/>
  <text x="50" y="55" font-size="12" text-anchor="middle" fill="white">%s</text>
</svg>`, defaultCostumeColor, html.EscapeString(t.Name)))
		c = Costume{Name: "costume1", RotationCenterX: 50, RotationCenterY: 50}
	}
	sum := md5.Sum(data)
	c.AssetID = hex.EncodeToString(sum[:])
	c.DataFormat = "svg"
	c.MD5Ext = c.AssetID + ".svg"
	b.AddCostume(t, c, data)
}

// AddCostume appends a costume and stores its payload.
func (b *Builder) AddCostume(t *Target, c Costume, data []byte) {
	t.Costumes = append(t.Costumes, c)
	b.AddResource(c.MD5Ext, data)
}

// AddSound appends a sound and stores its payload.
func (b *Builder) AddSound(t *Target, s Sound, data []byte) {
	t.Sounds = append(t.Sounds, s)
	b.AddResource(s.MD5Ext, data)
}

// AddResource stores a named binary payload.
func (b *Builder) AddResource(name string, data []byte) {
	if data == nil {
		return
	}
	b.program.Resources[name] = data
}

// LookupVariable finds a variable by name in the target, then on the stage.
func (b *Builder) LookupVariable(t *Target, name string) (*Variable, bool) {
	if v, ok := t.Variable(name); ok {
		return v, true
	}
	if s := b.program.Stage(); s != nil && s != t {
		return s.Variable(name)
	}
	return nil, false
}

// AddVariable returns the id of the variable with the name visible from the
// target, creating it on the target if there is none.
func (b *Builder) AddVariable(t *Target, name string, value interface{}) string {
	if v, ok := b.LookupVariable(t, name); ok {
		return v.ID
	}
	v := &Variable{ID: b.NewID(), Name: name, Value: value}
	t.Variables = append(t.Variables, v)
	return v.ID
}

// AddCloudVariable creates a cloud variable, prefixing the name with the
// cloud sign when missing.
func (b *Builder) AddCloudVariable(t *Target, name string, value interface{}) string {
	name = CloudName(name)
	if v, ok := b.LookupVariable(t, name); ok {
		return v.ID
	}
	v := &Variable{ID: b.NewID(), Name: name, Value: value, Cloud: true}
	t.Variables = append(t.Variables, v)
	return v.ID
}

// CloudName returns the name as stored for a cloud variable.
func CloudName(name string) string {
	const cloud = "☁"
	if len(name) >= len(cloud) && name[:len(cloud)] == cloud {
		return name
	}
	return cloud + " " + name
}

// LookupList finds a list by name in the target, then on the stage.
func (b *Builder) LookupList(t *Target, name string) (*List, bool) {
	if l, ok := t.List(name); ok {
		return l, true
	}
	if s := b.program.Stage(); s != nil && s != t {
		return s.List(name)
	}
	return nil, false
}

// AddList returns the id of the list with the name visible from the target,
// creating it on the target if there is none.
func (b *Builder) AddList(t *Target, name string, items []interface{}) string {
	if l, ok := b.LookupList(t, name); ok {
		return l.ID
	}
	if items == nil {
		items = []interface{}{}
	}
	l := &List{ID: b.NewID(), Name: name, Items: items}
	t.Lists = append(t.Lists, l)
	return l.ID
}

// AddBroadcast returns the id of the broadcast with the name, creating it on
// the stage if needed.
func (b *Builder) AddBroadcast(name string) string {
	s := b.Stage()
	if bc, ok := s.Broadcast(name); ok {
		return bc.ID
	}
	bc := &Broadcast{ID: b.NewID(), Name: name}
	s.Broadcasts = append(s.Broadcasts, bc)
	return bc.ID
}

// AddExtension registers an extension id once.
func (b *Builder) AddExtension(id string) {
	if id == "" || b.program.HasExtension(id) {
		return
	}
	b.program.Extensions = append(b.program.Extensions, id)
}

// AddExtensionURL registers an extension id with the URL it loads from.
func (b *Builder) AddExtensionURL(id, url string) {
	b.AddExtension(id)
	b.program.ExtensionURLs[id] = url
}

// BlockSpec describes a block to add.
type BlockSpec struct {
	Opcode   opcode.Opcode
	Raw      string
	Inputs   []Input
	Fields   []Field
	TopLevel bool
	Shadow   bool
	Mutation *Mutation
}

// AddBlock inserts a block into the target. Every block referenced by an
// input gets the new block as parent. Top-level blocks are laid out on a
// three column grid.
func (b *Builder) AddBlock(t *Target, spec BlockSpec) BlockID {
	blk := &Block{
		ID:       b.newBlockID(t),
		Opcode:   spec.Opcode,
		Raw:      spec.Raw,
		Inputs:   spec.Inputs,
		Fields:   spec.Fields,
		Shadow:   spec.Shadow,
		TopLevel: spec.TopLevel,
		Mutation: spec.Mutation,
	}
	if blk.TopLevel {
		n := len(t.TopLevel())
		blk.X = 50 + (n%3)*300
		blk.Y = 50 + (n/3)*200
	}
	t.insert(blk)
	for _, in := range blk.Inputs {
		b.adopt(t, blk.ID, in)
	}
	return blk.ID
}

// AddShadow inserts a shadow block. Its parent is set once an input
// referencing it is added.
func (b *Builder) AddShadow(t *Target, op opcode.Opcode, fields ...Field) BlockID {
	return b.AddBlock(t, BlockSpec{
		Opcode: op,
		Fields: fields,
		Shadow: true,
	})
}

// SetInput sets or replaces an input of the owner and adopts the blocks it
// references.
func (b *Builder) SetInput(t *Target, owner BlockID, in Input) {
	blk := t.Block(owner)
	if blk == nil {
		return
	}
	blk.setInput(in)
	b.adopt(t, owner, in)
}

// SetSubstack attaches the first block of a body to a control block slot.
func (b *Builder) SetSubstack(t *Target, owner BlockID, slot string, first BlockID) {
	if first == "" {
		return
	}
	b.SetInput(t, owner, BlockInput(slot, first))
}

// Link makes next follow prev, setting both pointers.
func (b *Builder) Link(t *Target, prev, next BlockID) {
	p, n := t.Block(prev), t.Block(next)
	if p == nil || n == nil {
		return
	}
	p.Next = next
	n.Parent = prev
}

// Truncate discards the blocks added to the target after it held n blocks.
// It undoes a statement that failed half way through.
func (b *Builder) Truncate(t *Target, n int) {
	t.truncate(n)
}

func (b *Builder) adopt(t *Target, owner BlockID, in Input) {
	for _, id := range in.Children() {
		if child := t.Block(id); child != nil {
			child.Parent = owner
		}
	}
}
