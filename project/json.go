package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/scratchlang/slc/opcode"
)

// member is one key of an ordered JSON object.
type member struct {
	key   string
	value interface{}
}

// object is a JSON object that keeps its key order when marshaled.
type object []member

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := marshal(m.value)
		if err != nil {
			return nil, errors.Wrapf(err, "marshaling %q", m.key)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Marshal returns the indented project.json document of the program.
func Marshal(p *Program) ([]byte, error) {
	data, err := p.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Program) MarshalJSON() ([]byte, error) {
	targets := make([]object, len(p.Targets))
	for i, t := range p.Targets {
		targets[i] = encodeTarget(t)
	}
	monitors := p.Monitors
	if monitors == nil {
		monitors = []json.RawMessage{}
	}
	extensions := p.Extensions
	if extensions == nil {
		extensions = []string{}
	}
	o := object{
		{"targets", targets},
		{"monitors", monitors},
		{"extensions", extensions},
	}
	if len(p.ExtensionURLs) > 0 {
		o = append(o, member{"extensionURLs", p.ExtensionURLs})
	}
	o = append(o, member{"meta", p.Meta})
	return o.MarshalJSON()
}

func encodeTarget(t *Target) object {
	variables := object{}
	for _, v := range t.Variables {
		entry := []interface{}{v.Name, v.Value}
		if v.Cloud {
			entry = append(entry, true)
		}
		variables = append(variables, member{v.ID, entry})
	}
	lists := object{}
	for _, l := range t.Lists {
		items := l.Items
		if items == nil {
			items = []interface{}{}
		}
		lists = append(lists, member{l.ID, []interface{}{l.Name, items}})
	}
	broadcasts := object{}
	for _, b := range t.Broadcasts {
		broadcasts = append(broadcasts, member{b.ID, b.Name})
	}
	blocks := object{}
	for _, b := range t.Blocks() {
		blocks = append(blocks, member{string(b.ID), encodeBlock(b)})
	}
	comments := t.Comments
	if len(comments) == 0 {
		comments = json.RawMessage("{}")
	}
	costumes := t.Costumes
	if costumes == nil {
		costumes = []Costume{}
	}
	sounds := t.Sounds
	if sounds == nil {
		sounds = []Sound{}
	}

	o := object{
		{"isStage", t.IsStage},
		{"name", t.Name},
		{"variables", variables},
		{"lists", lists},
		{"broadcasts", broadcasts},
		{"blocks", blocks},
		{"comments", comments},
		{"currentCostume", t.CurrentCostume},
		{"costumes", costumes},
		{"sounds", sounds},
		{"volume", t.Volume},
		{"layerOrder", t.LayerOrder},
	}
	if t.IsStage {
		return append(o,
			member{"tempo", t.Tempo},
			member{"videoTransparency", t.VideoTransparency},
			member{"videoState", t.VideoState},
			member{"textToSpeechLanguage", t.TextToSpeechLanguage},
		)
	}
	return append(o,
		member{"visible", t.Visible},
		member{"x", t.X},
		member{"y", t.Y},
		member{"size", t.Size},
		member{"direction", t.Direction},
		member{"draggable", t.Draggable},
		member{"rotationStyle", t.RotationStyle},
	)
}

func idOrNil(id BlockID) interface{} {
	if id == "" {
		return nil
	}
	return string(id)
}

func encodeBlock(b *Block) object {
	inputs := object{}
	for _, in := range b.Inputs {
		inputs = append(inputs, member{in.Name, encodeInput(in)})
	}
	fields := object{}
	for _, f := range b.Fields {
		var id interface{}
		if f.ID != "" {
			id = f.ID
		}
		fields = append(fields, member{f.Name, []interface{}{f.Value, id}})
	}
	o := object{
		{"opcode", b.OpcodeString()},
		{"next", idOrNil(b.Next)},
		{"parent", idOrNil(b.Parent)},
		{"inputs", inputs},
		{"fields", fields},
		{"shadow", b.Shadow},
		{"topLevel", b.TopLevel},
	}
	if b.TopLevel {
		o = append(o, member{"x", b.X}, member{"y", b.Y})
	}
	if b.Mutation != nil {
		o = append(o, member{"mutation", encodeMutation(b.Mutation)})
	}
	return o
}

func encodeLiteral(l Literal) []interface{} {
	if l.ID != "" || l.Kind >= Named {
		return []interface{}{int(l.Kind), l.Text, l.ID}
	}
	return []interface{}{int(l.Kind), l.Text}
}

func encodeInput(in Input) []interface{} {
	switch in.Kind {
	case LiteralOnly:
		if in.Literal != nil {
			return []interface{}{int(LiteralOnly), encodeLiteral(*in.Literal)}
		}
		return []interface{}{int(LiteralOnly), idOrNil(in.Block)}
	case BlockWithShadow:
		v := []interface{}{int(BlockWithShadow), idOrNil(in.Block)}
		switch {
		case in.Literal != nil:
			v = append(v, encodeLiteral(*in.Literal))
		case in.Shadow != "":
			v = append(v, string(in.Shadow))
		default:
			v = append(v, nil)
		}
		return v
	default:
		return []interface{}{int(BlockOnly), idOrNil(in.Block)}
	}
}

func jsonStrings(ss []string) string {
	if ss == nil {
		ss = []string{}
	}
	b, _ := json.Marshal(ss)
	return string(b)
}

func encodeMutation(m *Mutation) object {
	o := object{
		{"tagName", "mutation"},
		{"children", []interface{}{}},
	}
	if m.HasNext != nil {
		return append(o, member{"hasnext", strconv.FormatBool(*m.HasNext)})
	}
	o = append(o,
		member{"proccode", m.ProcCode},
		member{"argumentids", jsonStrings(m.ArgumentIDs)},
	)
	if m.IsPrototype() {
		o = append(o,
			member{"argumentnames", jsonStrings(m.ArgumentNames)},
			member{"argumentdefaults", jsonStrings(m.ArgumentDefaults)},
		)
	}
	return append(o, member{"warp", strconv.FormatBool(m.Warp)})
}

// --------------------
// Decoding
//

type jsonProgram struct {
	Targets       []json.RawMessage `json:"targets"`
	Monitors      []json.RawMessage `json:"monitors"`
	Extensions    []string          `json:"extensions"`
	ExtensionURLs map[string]string `json:"extensionURLs"`
	Meta          Meta              `json:"meta"`
}

type jsonTarget struct {
	IsStage        bool            `json:"isStage"`
	Name           string          `json:"name"`
	Variables      json.RawMessage `json:"variables"`
	Lists          json.RawMessage `json:"lists"`
	Broadcasts     json.RawMessage `json:"broadcasts"`
	Blocks         json.RawMessage `json:"blocks"`
	Comments       json.RawMessage `json:"comments"`
	CurrentCostume int             `json:"currentCostume"`
	Costumes       []Costume       `json:"costumes"`
	Sounds         []Sound         `json:"sounds"`
	Volume         *float64        `json:"volume"`
	LayerOrder     int             `json:"layerOrder"`

	Tempo                int     `json:"tempo"`
	VideoTransparency    int     `json:"videoTransparency"`
	VideoState           string  `json:"videoState"`
	TextToSpeechLanguage *string `json:"textToSpeechLanguage"`

	Visible       *bool   `json:"visible"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Size          float64 `json:"size"`
	Direction     float64 `json:"direction"`
	Draggable     bool    `json:"draggable"`
	RotationStyle string  `json:"rotationStyle"`
}

type jsonBlock struct {
	Opcode   string          `json:"opcode"`
	Next     *string         `json:"next"`
	Parent   *string         `json:"parent"`
	Inputs   json.RawMessage `json:"inputs"`
	Fields   json.RawMessage `json:"fields"`
	Shadow   bool            `json:"shadow"`
	TopLevel bool            `json:"topLevel"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Mutation *jsonMutation   `json:"mutation"`
}

type jsonMutation struct {
	ProcCode         string      `json:"proccode"`
	ArgumentIDs      *string     `json:"argumentids"`
	ArgumentNames    *string     `json:"argumentnames"`
	ArgumentDefaults *string     `json:"argumentdefaults"`
	Warp             interface{} `json:"warp"`
	HasNext          interface{} `json:"hasnext"`
}

// Unmarshal reads a project.json document. Unknown opcodes are kept verbatim
// and top-level primitive arrays become variable or list reporter blocks.
func Unmarshal(data []byte) (*Program, error) {
	var raw jsonProgram
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "invalid project document")
	}
	p := &Program{
		Monitors:      raw.Monitors,
		Extensions:    raw.Extensions,
		ExtensionURLs: raw.ExtensionURLs,
		Meta:          raw.Meta,
		Resources:     make(map[string][]byte),
	}
	if p.ExtensionURLs == nil {
		p.ExtensionURLs = make(map[string]string)
	}
	d := &decoder{program: p}
	for i, rt := range raw.Targets {
		t, err := d.target(rt)
		if err != nil {
			return nil, errors.Wrapf(err, "target %d", i)
		}
		p.Targets = append(p.Targets, t)
	}
	return p, nil
}

type decoder struct {
	program *Program
}

// eachMember calls fn for every member of a JSON object in document order.
func eachMember(data json.RawMessage, fn func(key string, value json.RawMessage) error) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return errors.Wrapf(err, "member %q", key)
		}
		if err := fn(key, value); err != nil {
			return errors.Wrapf(err, "member %q", key)
		}
	}
	_, err = dec.Token()
	return err
}

// scalar decodes a JSON number, string or bool.
func scalar(raw json.RawMessage) interface{} {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

func scalarText(raw json.RawMessage) string {
	return FormatValue(scalar(raw))
}

func (d *decoder) target(data json.RawMessage) (*Target, error) {
	var jt jsonTarget
	if err := json.Unmarshal(data, &jt); err != nil {
		return nil, err
	}
	var t *Target
	if jt.IsStage {
		t = NewStage()
		t.Name = jt.Name
		t.Tempo = jt.Tempo
		t.VideoTransparency = jt.VideoTransparency
		t.VideoState = jt.VideoState
		t.TextToSpeechLanguage = jt.TextToSpeechLanguage
	} else {
		t = NewSprite(jt.Name)
		if jt.Visible != nil {
			t.Visible = *jt.Visible
		}
		t.X, t.Y = jt.X, jt.Y
		t.Size = jt.Size
		t.Direction = jt.Direction
		t.Draggable = jt.Draggable
		t.RotationStyle = jt.RotationStyle
	}
	if jt.Volume != nil {
		t.Volume = *jt.Volume
	}
	if c := bytes.TrimSpace(jt.Comments); len(c) > 0 && string(c) != "{}" && string(c) != "null" {
		t.Comments = c
	}
	t.CurrentCostume = jt.CurrentCostume
	t.Costumes = jt.Costumes
	t.Sounds = jt.Sounds
	t.LayerOrder = jt.LayerOrder

	err := eachMember(jt.Variables, func(id string, value json.RawMessage) error {
		var entry []json.RawMessage
		if err := json.Unmarshal(value, &entry); err != nil {
			return err
		}
		if len(entry) < 2 {
			return fmt.Errorf("variable entry needs a name and a value")
		}
		v := &Variable{ID: id, Name: scalarText(entry[0]), Value: scalar(entry[1])}
		if len(entry) > 2 {
			v.Cloud, _ = scalar(entry[2]).(bool)
		}
		t.Variables = append(t.Variables, v)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "variables")
	}
	err = eachMember(jt.Lists, func(id string, value json.RawMessage) error {
		var entry []json.RawMessage
		if err := json.Unmarshal(value, &entry); err != nil {
			return err
		}
		if len(entry) < 2 {
			return fmt.Errorf("list entry needs a name and items")
		}
		var items []interface{}
		if err := json.Unmarshal(entry[1], &items); err != nil {
			return err
		}
		if items == nil {
			items = []interface{}{}
		}
		t.Lists = append(t.Lists, &List{ID: id, Name: scalarText(entry[0]), Items: items})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "lists")
	}
	err = eachMember(jt.Broadcasts, func(id string, value json.RawMessage) error {
		t.Broadcasts = append(t.Broadcasts, &Broadcast{ID: id, Name: scalarText(value)})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "broadcasts")
	}
	err = eachMember(jt.Blocks, func(id string, value json.RawMessage) error {
		return d.block(t, BlockID(id), value)
	})
	if err != nil {
		return nil, errors.Wrap(err, "blocks")
	}
	return t, nil
}

func (d *decoder) opcode(s string) (opcode.Opcode, string) {
	if o := opcode.Parse(s); o != opcode.Unknown {
		return o, ""
	}
	if i := strings.IndexByte(s, '_'); i > 0 && d.program.HasExtension(s[:i]) {
		return opcode.ExtensionCall, s
	}
	return opcode.Unknown, s
}

func (d *decoder) block(t *Target, id BlockID, data json.RawMessage) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return d.primitive(t, id, data)
	}
	var jb jsonBlock
	if err := json.Unmarshal(data, &jb); err != nil {
		return err
	}
	b := &Block{
		ID:       id,
		Shadow:   jb.Shadow,
		TopLevel: jb.TopLevel,
		X:        int(math.Round(jb.X)),
		Y:        int(math.Round(jb.Y)),
	}
	b.Opcode, b.Raw = d.opcode(jb.Opcode)
	if jb.Next != nil {
		b.Next = BlockID(*jb.Next)
	}
	if jb.Parent != nil {
		b.Parent = BlockID(*jb.Parent)
	}
	t.insert(b)

	err := eachMember(jb.Inputs, func(name string, value json.RawMessage) error {
		in, err := d.input(t, b, name, value)
		if err != nil {
			return err
		}
		b.Inputs = append(b.Inputs, in)
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "block %s inputs", id)
	}
	err = eachMember(jb.Fields, func(name string, value json.RawMessage) error {
		var entry []json.RawMessage
		if err := json.Unmarshal(value, &entry); err != nil {
			return err
		}
		f := Field{Name: name}
		if len(entry) > 0 {
			f.Value = scalarText(entry[0])
		}
		if len(entry) > 1 {
			if s, ok := scalar(entry[1]).(string); ok {
				f.ID = s
			}
		}
		b.Fields = append(b.Fields, f)
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "block %s fields", id)
	}
	if jb.Mutation != nil {
		m, err := decodeMutation(jb.Mutation)
		if err != nil {
			return errors.Wrapf(err, "block %s mutation", id)
		}
		b.Mutation = m
	}
	return nil
}

// primitive reads a compressed top-level variable or list reporter.
func (d *decoder) primitive(t *Target, id BlockID, data json.RawMessage) error {
	var entry []json.RawMessage
	if err := json.Unmarshal(data, &entry); err != nil {
		return err
	}
	l, err := decodeLiteral(entry)
	if err != nil {
		return err
	}
	b := &Block{ID: id, TopLevel: true}
	if len(entry) >= 5 {
		x, _ := scalar(entry[3]).(float64)
		y, _ := scalar(entry[4]).(float64)
		b.X, b.Y = int(math.Round(x)), int(math.Round(y))
	}
	switch l.Kind {
	case VariableRef:
		b.Opcode = opcode.DataVariable
		b.Fields = []Field{{Name: "VARIABLE", Value: l.Text, ID: l.ID}}
	case ListRef:
		b.Opcode = opcode.DataListContents
		b.Fields = []Field{{Name: "LIST", Value: l.Text, ID: l.ID}}
	default:
		b.Opcode = opcode.Unknown
		b.Raw = fmt.Sprintf("primitive_%d", l.Kind)
	}
	t.insert(b)
	return nil
}

func decodeLiteral(entry []json.RawMessage) (Literal, error) {
	if len(entry) < 2 {
		return Literal{}, fmt.Errorf("literal needs a kind and a value")
	}
	kind, ok := scalar(entry[0]).(float64)
	if !ok {
		return Literal{}, fmt.Errorf("invalid literal kind %s", entry[0])
	}
	l := Literal{Kind: LiteralKind(kind), Text: scalarText(entry[1])}
	if len(entry) > 2 {
		if s, ok := scalar(entry[2]).(string); ok {
			l.ID = s
		}
	}
	return l, nil
}

func (d *decoder) input(t *Target, owner *Block, name string, value json.RawMessage) (Input, error) {
	var entry []json.RawMessage
	if err := json.Unmarshal(value, &entry); err != nil {
		return Input{}, err
	}
	if len(entry) < 2 {
		return Input{}, fmt.Errorf("input %s needs a kind and a value", name)
	}
	kind, ok := scalar(entry[0]).(float64)
	if !ok {
		return Input{}, fmt.Errorf("input %s has invalid kind %s", name, entry[0])
	}
	in := Input{Name: name, Kind: InputKind(kind)}

	switch v := scalar(entry[1]).(type) {
	case string:
		in.Block = BlockID(v)
	case []interface{}:
		var lit []json.RawMessage
		if err := json.Unmarshal(entry[1], &lit); err != nil {
			return Input{}, err
		}
		l, err := decodeLiteral(lit)
		if err != nil {
			return Input{}, errors.Wrapf(err, "input %s", name)
		}
		if in.Kind != LiteralOnly && (l.Kind == VariableRef || l.Kind == ListRef) {
			in.Block = d.inlineReporter(t, owner, name, l)
		} else {
			in.Literal = &l
		}
	}
	if len(entry) > 2 && in.Kind == BlockWithShadow {
		switch v := scalar(entry[2]).(type) {
		case string:
			in.Shadow = BlockID(v)
		case []interface{}:
			var lit []json.RawMessage
			if err := json.Unmarshal(entry[2], &lit); err != nil {
				return Input{}, err
			}
			l, err := decodeLiteral(lit)
			if err != nil {
				return Input{}, errors.Wrapf(err, "input %s shadow", name)
			}
			in.Literal = &l
		}
	}
	return in, nil
}

// inlineReporter expands a variable or list primitive used as an input into
// a reporter block parented to the owner.
func (d *decoder) inlineReporter(t *Target, owner *Block, name string, l Literal) BlockID {
	b := &Block{
		ID:     BlockID(fmt.Sprintf("%s-%s", owner.ID, name)),
		Parent: owner.ID,
	}
	if l.Kind == VariableRef {
		b.Opcode = opcode.DataVariable
		b.Fields = []Field{{Name: "VARIABLE", Value: l.Text, ID: l.ID}}
	} else {
		b.Opcode = opcode.DataListContents
		b.Fields = []Field{{Name: "LIST", Value: l.Text, ID: l.ID}}
	}
	t.insert(b)
	return b.ID
}

func decodeStrings(s *string) ([]string, error) {
	if s == nil {
		return nil, nil
	}
	if *s == "" {
		return []string{}, nil
	}
	var ss []string
	if err := json.Unmarshal([]byte(*s), &ss); err != nil {
		return nil, err
	}
	if ss == nil {
		ss = []string{}
	}
	return ss, nil
}

func decodeBool(v interface{}) bool {
	switch v := v.(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

func decodeMutation(jm *jsonMutation) (*Mutation, error) {
	m := &Mutation{
		ProcCode: jm.ProcCode,
		Warp:     decodeBool(jm.Warp),
	}
	if jm.HasNext != nil {
		hasNext := decodeBool(jm.HasNext)
		m.HasNext = &hasNext
	}
	var err error
	if m.ArgumentIDs, err = decodeStrings(jm.ArgumentIDs); err != nil {
		return nil, errors.Wrap(err, "argumentids")
	}
	if m.ArgumentNames, err = decodeStrings(jm.ArgumentNames); err != nil {
		return nil, errors.Wrap(err, "argumentnames")
	}
	if m.ArgumentDefaults, err = decodeStrings(jm.ArgumentDefaults); err != nil {
		return nil, errors.Wrap(err, "argumentdefaults")
	}
	m.prototype = m.ArgumentNames != nil
	return m, nil
}
