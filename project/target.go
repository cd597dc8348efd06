package project

import (
	"encoding/json"
	"sort"
	"strconv"
)

// StageName is the name of the stage target.
const StageName = "Stage"

// Variable is a variable of a target. Value holds a float64 or a string.
type Variable struct {
	ID    string
	Name  string
	Value interface{}
	Cloud bool
}

// List is a list of a target.
type List struct {
	ID    string
	Name  string
	Items []interface{}
}

// Broadcast is a broadcast message, always owned by the stage.
type Broadcast struct {
	ID   string
	Name string
}

// Costume is a costume or backdrop entry.
type Costume struct {
	AssetID          string  `json:"assetId"`
	Name             string  `json:"name"`
	BitmapResolution int     `json:"bitmapResolution,omitempty"`
	MD5Ext           string  `json:"md5ext"`
	DataFormat       string  `json:"dataFormat"`
	RotationCenterX  float64 `json:"rotationCenterX"`
	RotationCenterY  float64 `json:"rotationCenterY"`
}

// Sound is a sound entry.
type Sound struct {
	AssetID     string `json:"assetId"`
	Name        string `json:"name"`
	DataFormat  string `json:"dataFormat"`
	Format      string `json:"format"`
	Rate        int    `json:"rate"`
	SampleCount int    `json:"sampleCount"`
	MD5Ext      string `json:"md5ext"`
}

// Target is the stage or a sprite.
type Target struct {
	Name    string
	IsStage bool

	Variables  []*Variable
	Lists      []*List
	Broadcasts []*Broadcast

	blocks map[BlockID]*Block
	order  []BlockID

	// Comments are kept as read.
	Comments json.RawMessage

	CurrentCostume int
	Costumes       []Costume
	Sounds         []Sound
	Volume         float64
	LayerOrder     int

	// stage only
	Tempo                int
	VideoTransparency    int
	VideoState           string
	TextToSpeechLanguage *string

	// sprites only
	Visible       bool
	X, Y          float64
	Size          float64
	Direction     float64
	Draggable     bool
	RotationStyle string
}

// NewStage returns an empty stage.
func NewStage() *Target {
	return &Target{
		Name:              StageName,
		IsStage:           true,
		blocks:            make(map[BlockID]*Block),
		Volume:            100,
		Tempo:             60,
		VideoTransparency: 50,
		VideoState:        "on",
	}
}

// NewSprite returns an empty sprite with the default properties.
func NewSprite(name string) *Target {
	return &Target{
		Name:          name,
		blocks:        make(map[BlockID]*Block),
		Volume:        100,
		Visible:       true,
		Size:          100,
		Direction:     90,
		RotationStyle: "all around",
	}
}

// Block returns the block with the id, or nil.
func (t *Target) Block(id BlockID) *Block {
	if id == "" {
		return nil
	}
	return t.blocks[id]
}

// Blocks returns all blocks in insertion order.
func (t *Target) Blocks() []*Block {
	blocks := make([]*Block, len(t.order))
	for i, id := range t.order {
		blocks[i] = t.blocks[id]
	}
	return blocks
}

// Len returns the number of blocks.
func (t *Target) Len() int {
	return len(t.order)
}

// TopLevel returns the top-level blocks in canvas order, top to bottom then
// left to right.
func (t *Target) TopLevel() []*Block {
	var top []*Block
	for _, id := range t.order {
		if b := t.blocks[id]; b.TopLevel {
			top = append(top, b)
		}
	}
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Y != top[j].Y {
			return top[i].Y < top[j].Y
		}
		return top[i].X < top[j].X
	})
	return top
}

// Sequence returns the block with the id followed by its next chain.
func (t *Target) Sequence(id BlockID) []*Block {
	var seq []*Block
	seen := make(map[BlockID]bool)
	for b := t.Block(id); b != nil && !seen[b.ID]; b = t.Block(b.Next) {
		seen[b.ID] = true
		seq = append(seq, b)
	}
	return seq
}

// insert adds the block to the arena, replacing a block with the same id.
func (t *Target) insert(b *Block) {
	if t.blocks == nil {
		t.blocks = make(map[BlockID]*Block)
	}
	if _, ok := t.blocks[b.ID]; !ok {
		t.order = append(t.order, b.ID)
	}
	t.blocks[b.ID] = b
}

// truncate drops every block inserted after the first n.
func (t *Target) truncate(n int) {
	if n < 0 || n >= len(t.order) {
		return
	}
	for _, id := range t.order[n:] {
		delete(t.blocks, id)
	}
	t.order = t.order[:n]
}

// Variable returns the variable with the name.
func (t *Target) Variable(name string) (*Variable, bool) {
	for _, v := range t.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// List returns the list with the name.
func (t *Target) List(name string) (*List, bool) {
	for _, l := range t.Lists {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// Broadcast returns the broadcast with the name.
func (t *Target) Broadcast(name string) (*Broadcast, bool) {
	for _, b := range t.Broadcasts {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// FormatValue renders a variable or list item value as written in source.
func FormatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatNumber(v)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}
