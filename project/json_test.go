package project

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/scratchlang/slc/opcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeInputs(t *testing.T) {
	cases := []struct {
		in  Input
		exp string
	}{
		{in: LiteralInput("STEPS", NumberLiteral(10)), exp: `[1,[4,"10"]]`},
		{in: LiteralInput("MESSAGE", TextLiteral("你好")), exp: `[1,[10,"你好"]]`},
		{in: LiteralInput("BROADCAST_INPUT", Literal{Kind: Named, Text: "开始", ID: "b1"}), exp: `[1,[11,"开始","b1"]]`},
		{in: ShadowInput("TO", "menu"), exp: `[1,"menu"]`},
		{in: BlockInput("CONDITION", "cond"), exp: `[2,"cond"]`},
		{in: ReporterInput("STEPS", "add", NumberLiteral(0)), exp: `[3,"add",[4,"0"]]`},
		{in: Input{Name: "X", Kind: BlockWithShadow, Block: "r", Shadow: "s"}, exp: `[3,"r","s"]`},
	}
	for _, tc := range cases {
		got, err := marshal(encodeInput(tc.in))
		require.NoError(t, err)
		assert.Equal(t, tc.exp, string(got))
	}
}

func TestEncodeMutation(t *testing.T) {
	got, err := marshal(encodeMutation(PrototypeMutation("跳 %s", []string{"a1"}, []string{"高度"}, true)))
	require.NoError(t, err)
	assert.Equal(t,
		`{"tagName":"mutation","children":[],"proccode":"跳 %s","argumentids":"[\"a1\"]","argumentnames":"[\"高度\"]","argumentdefaults":"[\"\"]","warp":"true"}`,
		string(got))

	got, err = marshal(encodeMutation(CallMutation("跳 %s", []string{"a1"}, false)))
	require.NoError(t, err)
	assert.Equal(t,
		`{"tagName":"mutation","children":[],"proccode":"跳 %s","argumentids":"[\"a1\"]","warp":"false"}`,
		string(got))

	got, err = marshal(encodeMutation(StopMutation(true)))
	require.NoError(t, err)
	assert.Equal(t, `{"tagName":"mutation","children":[],"hasnext":"true"}`, string(got))
}

func buildSample(t *testing.T) *Program {
	t.Helper()
	b := NewBuilder(WithSeed(42))
	stage := b.Stage()
	b.AddVariable(stage, "时间", 0.0)
	cat := b.AddSprite("Cat")
	score := b.AddVariable(cat, "分数", 0.0)
	b.AddList(cat, "背包", []interface{}{"苹果", 2.0})
	b.AddExtension("pen")

	hat := b.AddBlock(cat, BlockSpec{Opcode: opcode.EventWhenFlagClicked, TopLevel: true})
	change := b.AddBlock(cat, BlockSpec{
		Opcode: opcode.DataChangeVariableBy,
		Inputs: []Input{LiteralInput("VALUE", NumberLiteral(10))},
		Fields: []Field{{Name: "VARIABLE", Value: "分数", ID: score}},
	})
	b.Link(cat, hat, change)
	menu := b.AddShadow(cat, opcode.SensingKeyOptions, Field{Name: "KEY_OPTION", Value: "space"})
	key := b.AddBlock(cat, BlockSpec{
		Opcode: opcode.SensingKeyPressed,
		Inputs: []Input{ShadowInput("KEY_OPTION", menu)},
	})
	wait := b.AddBlock(cat, BlockSpec{
		Opcode: opcode.ControlWaitUntil,
		Inputs: []Input{BlockInput("CONDITION", key)},
	})
	b.Link(cat, change, wait)
	pen := b.AddBlock(cat, BlockSpec{Opcode: opcode.PenPenDown})
	b.Link(cat, wait, pen)
	b.AddBlock(cat, BlockSpec{
		Opcode:   opcode.ControlStop,
		Fields:   []Field{{Name: "STOP_OPTION", Value: "all"}},
		Mutation: StopMutation(false),
		TopLevel: true,
	})
	return b.Build()
}

func TestProgramRoundTrip(t *testing.T) {
	p := buildSample(t)
	data, err := Marshal(p)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)

	opts := cmp.Options{
		cmp.AllowUnexported(Target{}, Mutation{}),
		cmpopts.IgnoreFields(Program{}, "Resources"),
		cmpopts.EquateEmpty(),
	}
	if diff := cmp.Diff(p, got, opts...); diff != "" {
		t.Errorf("unexpected round trip -want/+got:\n%s\n%s", diff, spew.Sdump(got.Meta))
	}

	// encoding again yields the same document
	again, err := Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestMarshalOrder(t *testing.T) {
	p := buildSample(t)
	data, err := Marshal(p)
	require.NoError(t, err)
	doc := string(data)

	assert.True(t, strings.Index(doc, `"targets"`) < strings.Index(doc, `"meta"`))
	assert.True(t, strings.Index(doc, `"isStage": true`) < strings.Index(doc, `"isStage": false`))
	assert.Contains(t, doc, `"agent": "slc"`)

	cat := p.Sprites()[0]
	var last int
	for _, b := range cat.Blocks() {
		i := strings.Index(doc, `"`+string(b.ID)+`": {`)
		require.True(t, i > 0, "block %s missing", b.ID)
		assert.True(t, i > last, "block %s out of order", b.ID)
		last = i
	}
}

func TestUnmarshalTolerance(t *testing.T) {
	doc := `{
  "targets": [
    {
      "isStage": true,
      "name": "Stage",
      "variables": {"v1": ["分数", 3]},
      "lists": {},
      "broadcasts": {"b1": "开始"},
      "blocks": {
        "prim": [12, "分数", "v1", 10, 20.4]
      },
      "costumes": [],
      "sounds": []
    },
    {
      "isStage": false,
      "name": "Cat",
      "variables": {},
      "lists": {"l1": ["背包", ["a", 1]]},
      "blocks": {
        "say": {"opcode": "looks_say", "next": "ext", "parent": null, "inputs": {"MESSAGE": [3, [12, "分数", "v1"], [10, "hi"]]}, "fields": {}, "shadow": false, "topLevel": true, "x": 0, "y": 0},
        "ext": {"opcode": "inlinecode1_run", "next": "odd", "parent": "say", "inputs": {}, "fields": {}, "shadow": false, "topLevel": false},
        "odd": {"opcode": "wedo2_motorOn", "next": null, "parent": "ext", "inputs": {}, "fields": {"F": [5, null]}, "shadow": false, "topLevel": false},
        "call": {"opcode": "procedures_call", "next": null, "parent": null, "inputs": {}, "fields": {}, "shadow": false, "topLevel": true, "x": 0, "y": 300,
                 "mutation": {"tagName": "mutation", "children": [], "proccode": "跳", "argumentids": "[]", "warp": false}}
      },
      "costumes": [],
      "sounds": []
    }
  ],
  "extensions": ["inlinecode1"],
  "meta": {"semver": "3.0.0"}
}`
	p, err := Unmarshal([]byte(doc))
	require.NoError(t, err)
	require.Len(t, p.Targets, 2)

	stage := p.Stage()
	assert.Equal(t, 3.0, stage.Variables[0].Value)
	prim := stage.Block("prim")
	require.NotNil(t, prim)
	assert.Equal(t, opcode.DataVariable, prim.Opcode)
	assert.True(t, prim.TopLevel)
	assert.Equal(t, 10, prim.X)
	assert.Equal(t, 20, prim.Y)
	assert.Equal(t, Field{Name: "VARIABLE", Value: "分数", ID: "v1"}, prim.Fields[0])

	cat := p.Sprites()[0]
	assert.Equal(t, []interface{}{"a", 1.0}, cat.Lists[0].Items)
	say := cat.Block("say")
	in, ok := say.Input("MESSAGE")
	require.True(t, ok)
	assert.Equal(t, BlockWithShadow, in.Kind)
	reporter := cat.Block(in.Block)
	require.NotNil(t, reporter)
	assert.Equal(t, opcode.DataVariable, reporter.Opcode)
	assert.Equal(t, BlockID("say"), reporter.Parent)
	assert.Equal(t, "hi", in.Literal.Text)

	ext := cat.Block("ext")
	assert.Equal(t, opcode.ExtensionCall, ext.Opcode)
	assert.Equal(t, "inlinecode1_run", ext.OpcodeString())

	odd := cat.Block("odd")
	assert.Equal(t, opcode.Unknown, odd.Opcode)
	assert.Equal(t, "wedo2_motorOn", odd.OpcodeString())
	assert.Equal(t, "5", odd.FieldValue("F"))

	call := cat.Block("call")
	require.NotNil(t, call.Mutation)
	assert.Equal(t, "跳", call.Mutation.ProcCode)
	assert.Equal(t, []string{}, call.Mutation.ArgumentIDs)
	assert.False(t, call.Mutation.IsPrototype())
}

func TestUnmarshalErrors(t *testing.T) {
	_, err := Unmarshal([]byte(`{"targets": [{"blocks": {"a": {"opcode": "x", "inputs": {"I": [1]}}}}]}`))
	assert.Error(t, err)

	_, err = Unmarshal([]byte(`not json`))
	assert.Error(t, err)
}

func TestEachMemberOrder(t *testing.T) {
	var keys []string
	err := eachMember(json.RawMessage(`{"z": 1, "a": {"n": [1]}, "m": null}`), func(k string, v json.RawMessage) error {
		keys = append(keys, k)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, keys)
	assert.True(t, bytes.Equal([]byte(`{"z":1}`), mustMarshal(t, object{{"z", 1}})))
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	b, err := marshal(v)
	require.NoError(t, err)
	return b
}

func TestReferencePrimitives(t *testing.T) {
	doc := `{"targets": [{"isStage": true, "name": "Stage", "variables": {}, "lists": {"l1": ["背包", []]},
  "blocks": {
    "list": [13, "背包", "l1", 5, 6],
    "odd": [4, "10"],
    "say": {"opcode": "looks_say", "next": null, "parent": null, "inputs": {"MESSAGE": [3, [13, "背包", "l1"], [10, ""]], "SECS": [1, [12, "分数", "v1"]]}, "fields": {}, "shadow": false, "topLevel": true, "x": 0, "y": 0}
  }}]}`
	p, err := Unmarshal([]byte(doc))
	require.NoError(t, err)
	stage := p.Stage()

	list := stage.Block("list")
	require.NotNil(t, list)
	assert.Equal(t, opcode.DataListContents, list.Opcode)
	assert.Equal(t, Field{Name: "LIST", Value: "背包", ID: "l1"}, list.Fields[0])

	odd := stage.Block("odd")
	require.NotNil(t, odd)
	assert.Equal(t, opcode.Unknown, odd.Opcode)
	assert.Equal(t, "primitive_4", odd.OpcodeString())

	say := stage.Block("say")
	in, ok := say.Input("MESSAGE")
	require.True(t, ok)
	reporter := stage.Block(in.Block)
	require.NotNil(t, reporter)
	assert.Equal(t, opcode.DataListContents, reporter.Opcode)

	// a literal-only slot keeps the reference as a literal
	secs, ok := say.Input("SECS")
	require.True(t, ok)
	require.NotNil(t, secs.Literal)
	assert.Equal(t, Literal{Kind: VariableRef, Text: "分数", ID: "v1"}, *secs.Literal)
	assert.Equal(t, LiteralKind(13), ListRef)
}
