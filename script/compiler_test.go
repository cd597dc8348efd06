package script

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/scratchlang/slc/assets"
	"github.com/scratchlang/slc/opcode"
	"github.com/scratchlang/slc/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string, opts ...Option) *Result {
	t.Helper()
	opts = append([]Option{WithBuilderOptions(project.WithSeed(1))}, opts...)
	res, err := Compile(context.Background(), []byte(src), opts...)
	require.NoError(t, err)
	return res
}

func targetNamed(t *testing.T, res *Result, name string) *project.Target {
	t.Helper()
	tg, ok := res.Program.Target(name)
	require.True(t, ok, "no target %q", name)
	return tg
}

func opcodes(blocks []*project.Block) []opcode.Opcode {
	ops := make([]opcode.Opcode, len(blocks))
	for i, b := range blocks {
		ops[i] = b.Opcode
	}
	return ops
}

func byOpcode(tg *project.Target, o opcode.Opcode) []*project.Block {
	var found []*project.Block
	for _, b := range tg.Blocks() {
		if b.Opcode == o {
			found = append(found, b)
		}
	}
	return found
}

// checkParents asserts that every block but the top-level ones has a parent
// that references it through next or an input.
func checkParents(t *testing.T, tg *project.Target) {
	t.Helper()
	for _, b := range tg.Blocks() {
		if b.TopLevel {
			assert.Empty(t, b.Parent, "top-level %s has a parent", b.Opcode)
			continue
		}
		parent := tg.Block(b.Parent)
		if !assert.NotNil(t, parent, "block %s %s has no parent\n%s", b.ID, b.Opcode, spew.Sdump(b)) {
			continue
		}
		refs := parent.Next == b.ID
		for _, in := range parent.Inputs {
			for _, id := range in.Children() {
				refs = refs || id == b.ID
			}
		}
		assert.True(t, refs, "parent %s does not reference %s", parent.Opcode, b.Opcode)
	}
}

func problemsOf(res *Result, severity Severity) []Problem {
	var ps []Problem
	for _, p := range res.Problems {
		if p.Severity == severity {
			ps = append(ps, p)
		}
	}
	return ps
}

func TestCompileScript(t *testing.T) {
	res := compile(t, "# Cat\n当绿旗被点击\n  移动 10 步\n  重复 4 次\n    旋转右 90 度\n  结束\n")
	require.Empty(t, res.Problems)
	cat := targetNamed(t, res, "Cat")
	checkParents(t, cat)

	top := cat.TopLevel()
	require.Len(t, top, 1)
	seq := cat.Sequence(top[0].ID)
	assert.Equal(t, []opcode.Opcode{
		opcode.EventWhenFlagClicked,
		opcode.MotionMoveSteps,
		opcode.ControlRepeat,
	}, opcodes(seq))

	steps, ok := seq[1].Input("STEPS")
	require.True(t, ok)
	assert.Equal(t, project.Literal{Kind: project.Number, Text: "10"}, *steps.Literal)

	times, _ := seq[2].Input("TIMES")
	assert.Equal(t, "4", times.Literal.Text)
	body, ok := seq[2].Input("SUBSTACK")
	require.True(t, ok)
	assert.Equal(t, project.BlockOnly, body.Kind)
	inner := cat.Sequence(body.Block)
	require.Len(t, inner, 1)
	assert.Equal(t, opcode.MotionTurnRight, inner[0].Opcode)
	degrees, _ := inner[0].Input("DEGREES")
	assert.Equal(t, "90", degrees.Literal.Text)

	assert.Len(t, cat.Costumes, 1, "default costume")
	assert.Equal(t, project.StageName, res.Program.Targets[0].Name)
}

func TestVariableChange(t *testing.T) {
	res := compile(t, "变量: 分数 = 0\n当绿旗被点击\n  将 分数 增加 10\n")
	require.Empty(t, res.Problems)
	stage := res.Program.Stage()

	require.Len(t, stage.Variables, 1)
	v := stage.Variables[0]
	assert.Equal(t, "分数", v.Name)
	assert.Equal(t, 0.0, v.Value)

	changes := byOpcode(stage, opcode.DataChangeVariableBy)
	require.Len(t, changes, 1)
	f, ok := changes[0].Field("VARIABLE")
	require.True(t, ok)
	assert.Equal(t, v.ID, f.ID)
	assert.Equal(t, "分数", f.Value)
}

func TestUndeclaredVariableIsCreated(t *testing.T) {
	res := compile(t, "# Cat\n当绿旗被点击\n  设置 速度 为 3\n  设置 速度 为 4\n")
	cat := targetNamed(t, res, "Cat")
	require.Len(t, cat.Variables, 1)
	warnings := problemsOf(res, SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, 3, warnings[0].Line)
	sets := byOpcode(cat, opcode.DataSetVariableTo)
	require.Len(t, sets, 2)
	assert.Equal(t, sets[0].Fields[0].ID, sets[1].Fields[0].ID)
}

func TestUnsupportedLineIsDropped(t *testing.T) {
	res := compile(t, "当绿旗被点击\n  移动 10 步\n  啊啊啊 gibberish\n  右转 15 度\n")
	stage := res.Program.Stage()
	checkParents(t, stage)

	assert.Equal(t, 3, stage.Len())
	seq := stage.Sequence(stage.TopLevel()[0].ID)
	assert.Equal(t, []opcode.Opcode{
		opcode.EventWhenFlagClicked,
		opcode.MotionMoveSteps,
		opcode.MotionTurnRight,
	}, opcodes(seq))

	require.Len(t, res.Problems, 1)
	p := res.Problems[0]
	assert.Equal(t, 3, p.Line)
	assert.Equal(t, SeverityError, p.Severity)
	assert.True(t, IsUnsupported(p.Err))
	assert.Len(t, res.Errors(), 1)
}

func TestStatementOutsideScript(t *testing.T) {
	res := compile(t, "# Cat\n移动 10 步\n结束\n")
	require.Len(t, res.Problems, 1)
	assert.Equal(t, 2, res.Problems[0].Line)
	assert.Contains(t, res.Problems[0].Err.Error(), "statement outside of a script")
	assert.Zero(t, targetNamed(t, res, "Cat").Len())
}

func TestGreaterEqualLowersToTwoBlocks(t *testing.T) {
	res := compile(t, "当绿旗被点击\n  如果 10 >= 5 那么\n    移动 1 步\n  结束\n")
	require.Empty(t, res.Problems)
	stage := res.Program.Stage()
	checkParents(t, stage)

	assert.Equal(t, 5, stage.Len())
	ifs := byOpcode(stage, opcode.ControlIf)
	require.Len(t, ifs, 1)
	cond, ok := ifs[0].Input("CONDITION")
	require.True(t, ok)
	assert.Equal(t, project.BlockOnly, cond.Kind)

	not := stage.Block(cond.Block)
	require.Equal(t, opcode.OperatorNot, not.Opcode)
	operand, _ := not.Input("OPERAND")
	lt := stage.Block(operand.Block)
	require.Equal(t, opcode.OperatorLt, lt.Opcode)
	a, _ := lt.Input("OPERAND1")
	b, _ := lt.Input("OPERAND2")
	assert.Equal(t, project.Literal{Kind: project.String, Text: "10"}, *a.Literal)
	assert.Equal(t, project.Literal{Kind: project.String, Text: "5"}, *b.Literal)
	for _, blk := range stage.Blocks() {
		assert.False(t, blk.Shadow, "unexpected shadow %s", blk.Opcode)
	}
}

func TestIfElse(t *testing.T) {
	src := `当绿旗被点击
  如果 按下 空格 键 那么
    移动 1 步
    如果 鼠标按下 那么
      移动 3 步
    结束
  否则
    移动 2 步
  结束
  右转 5 度
`
	res := compile(t, src)
	require.Empty(t, res.Problems)
	stage := res.Program.Stage()
	checkParents(t, stage)

	outer := byOpcode(stage, opcode.ControlIfElse)
	require.Len(t, outer, 1)
	require.Len(t, byOpcode(stage, opcode.ControlIf), 1)

	then, ok := outer[0].Input("SUBSTACK")
	require.True(t, ok)
	assert.Equal(t, []opcode.Opcode{opcode.MotionMoveSteps, opcode.ControlIf}, opcodes(stage.Sequence(then.Block)))
	otherwise, ok := outer[0].Input("SUBSTACK2")
	require.True(t, ok)
	assert.Equal(t, []opcode.Opcode{opcode.MotionMoveSteps}, opcodes(stage.Sequence(otherwise.Block)))

	assert.Equal(t, opcode.MotionTurnRight, stage.Block(outer[0].Next).Opcode)

	cond, _ := outer[0].Input("CONDITION")
	key := stage.Block(cond.Block)
	require.Equal(t, opcode.SensingKeyPressed, key.Opcode)
	option, _ := key.Input("KEY_OPTION")
	menu := stage.Block(option.Block)
	assert.True(t, menu.Shadow)
	assert.Equal(t, "space", menu.FieldValue("KEY_OPTION"))
}

func TestFailedStatementIsRolledBack(t *testing.T) {
	src := `变量: a = 0
当绿旗被点击
  如果 ~a = 1 且 "x" 那么
    移动 1 步
  结束
  移动 5 步
`
	res := compile(t, src)
	stage := res.Program.Stage()
	checkParents(t, stage)

	assert.Equal(t, []opcode.Opcode{opcode.EventWhenFlagClicked, opcode.MotionMoveSteps}, opcodes(stage.Blocks()))
	require.Len(t, res.Errors(), 1)
	assert.Equal(t, 3, res.Errors()[0].Line)
	assert.Contains(t, res.Errors()[0].Err.Error(), "is not a condition")
}

func TestParseErrorIsReported(t *testing.T) {
	res := compile(t, "当绿旗被点击\n  移动 (1 + 步\n  移动 2 步\n")
	require.Len(t, res.Errors(), 1)
	assert.True(t, IsParseError(res.Errors()[0].Err))
	assert.Equal(t, 2, res.Program.Stage().Len())
}

func TestEventsBeforeMarkerGoToStage(t *testing.T) {
	res := compile(t, "当绿旗被点击\n  下一个背景\n# Cat\n当角色被点击\n  下一个造型\n@ 舞台\n当舞台被点击\n  下一个背景\n")
	require.Empty(t, res.Problems)
	require.Len(t, res.Program.Targets, 2)
	stage := res.Program.Stage()
	assert.Len(t, stage.TopLevel(), 2)
	assert.Len(t, targetNamed(t, res, "Cat").TopLevel(), 1)
	assert.Equal(t, "backdrop1", stage.Costumes[0].Name)
}

func TestDeclarations(t *testing.T) {
	src := `# Cat
变量: 名字 = "小猫"
变量: 速度 = 2.5
变量: 计数
云变量: 最高分 = 10
列表: 背包 = 苹果, 3, "香蕉"
列表: 空的
`
	res := compile(t, src)
	require.Empty(t, res.Problems)
	cat := targetNamed(t, res, "Cat")
	stage := res.Program.Stage()

	values := map[string]interface{}{}
	for _, v := range cat.Variables {
		values[v.Name] = v.Value
	}
	assert.Equal(t, map[string]interface{}{"名字": "小猫", "速度": 2.5, "计数": 0.0}, values)

	require.Len(t, stage.Variables, 1)
	assert.Equal(t, "☁ 最高分", stage.Variables[0].Name)
	assert.True(t, stage.Variables[0].Cloud)
	assert.Equal(t, 10.0, stage.Variables[0].Value)

	require.Len(t, cat.Lists, 2)
	assert.Equal(t, []interface{}{"苹果", 3.0, "香蕉"}, cat.Lists[0].Items)
	assert.Equal(t, []interface{}{}, cat.Lists[1].Items)
}

func TestSay(t *testing.T) {
	src := `变量: 分数 = 0
当绿旗被点击
  说 你好
  说 "分数: " + ~分数 2 秒
  想 连接("a", ~分数, "c")
`
	res := compile(t, src)
	require.Empty(t, res.Problems)
	stage := res.Program.Stage()
	checkParents(t, stage)

	seq := stage.Sequence(stage.TopLevel()[0].ID)
	require.Equal(t, []opcode.Opcode{
		opcode.EventWhenFlagClicked,
		opcode.LooksSay,
		opcode.LooksSayForSecs,
		opcode.LooksThink,
	}, opcodes(seq))

	msg, _ := seq[1].Input("MESSAGE")
	assert.Equal(t, project.TextLiteral("你好"), *msg.Literal)

	msg, _ = seq[2].Input("MESSAGE")
	assert.Equal(t, project.BlockWithShadow, msg.Kind)
	join := stage.Block(msg.Block)
	require.Equal(t, opcode.OperatorJoin, join.Opcode)
	first, _ := join.Input("STRING1")
	assert.Equal(t, "分数: ", first.Literal.Text)
	second, _ := join.Input("STRING2")
	assert.Equal(t, opcode.DataVariable, stage.Block(second.Block).Opcode)
	secs, _ := seq[2].Input("SECS")
	assert.Equal(t, "2", secs.Literal.Text)

	msg, _ = seq[3].Input("MESSAGE")
	outer := stage.Block(msg.Block)
	rest, _ := outer.Input("STRING2")
	assert.Equal(t, opcode.OperatorJoin, stage.Block(rest.Block).Opcode)
	assert.Len(t, byOpcode(stage, opcode.OperatorJoin), 3)
}

func TestReporters(t *testing.T) {
	src := `# Cat
列表: 背包 = a, b
当绿旗被点击
  说 ~x坐标
  移到 鼠标指针
  移到 ~背包 的第 1 项
  将x坐标设为 从 1 到 10 随机选一个数
  说 ~到 鼠标指针 的距离
  说 ~舞台 的 背景编号
  说 ~未知
`
	res := compile(t, src)
	cat := targetNamed(t, res, "Cat")
	checkParents(t, cat)

	assert.Len(t, byOpcode(cat, opcode.MotionXPosition), 1)
	gotos := byOpcode(cat, opcode.MotionGoTo)
	require.Len(t, gotos, 2)

	to, _ := gotos[0].Input("TO")
	assert.Equal(t, project.LiteralOnly, to.Kind)
	assert.Equal(t, "_mouse_", cat.Block(to.Block).FieldValue("TO"))

	to, _ = gotos[1].Input("TO")
	assert.Equal(t, project.BlockWithShadow, to.Kind)
	assert.Equal(t, opcode.DataItemOfList, cat.Block(to.Block).Opcode)
	assert.Equal(t, opcode.MotionGoToMenu, cat.Block(to.Shadow).Opcode)

	assert.Len(t, byOpcode(cat, opcode.OperatorRandom), 1)
	assert.Len(t, byOpcode(cat, opcode.SensingDistanceTo), 1)
	of := byOpcode(cat, opcode.SensingOf)
	require.Len(t, of, 1)
	assert.Equal(t, "backdrop #", of[0].FieldValue("PROPERTY"))

	warnings := problemsOf(res, SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, 10, warnings[0].Line)
	assert.Empty(t, res.Errors())
}

func TestProcedures(t *testing.T) {
	src := `# Cat
当绿旗被点击
  跳跃 10 20
  跳跃(~x坐标, 3)
  跳跃 1
定义 跳跃(高度, 次数) 不刷新屏幕
  将y坐标增加 ~高度
结束
`
	res := compile(t, src)
	cat := targetNamed(t, res, "Cat")
	checkParents(t, cat)

	defs := byOpcode(cat, opcode.ProceduresDefinition)
	require.Len(t, defs, 1)
	assert.True(t, defs[0].TopLevel)
	custom, ok := defs[0].Input("custom_block")
	require.True(t, ok)
	proto := cat.Block(custom.Block)
	require.Equal(t, opcode.ProceduresPrototype, proto.Opcode)
	assert.True(t, proto.Shadow)
	assert.Equal(t, "跳跃 %s %s", proto.Mutation.ProcCode)
	assert.Equal(t, []string{"高度", "次数"}, proto.Mutation.ArgumentNames)
	assert.True(t, proto.Mutation.Warp)
	require.Len(t, proto.Inputs, 2)
	for i, in := range proto.Inputs {
		assert.Equal(t, proto.Mutation.ArgumentIDs[i], in.Name)
		arg := cat.Block(in.Block)
		assert.Equal(t, opcode.ArgumentReporterStringNumber, arg.Opcode)
		assert.True(t, arg.Shadow)
	}

	calls := byOpcode(cat, opcode.ProceduresCall)
	require.Len(t, calls, 2)
	for _, call := range calls {
		assert.Equal(t, proto.Mutation.ProcCode, call.Mutation.ProcCode)
		assert.Equal(t, proto.Mutation.ArgumentIDs, call.Mutation.ArgumentIDs)
		assert.False(t, call.Mutation.IsPrototype())
		require.Len(t, call.Inputs, 2)
	}
	first, _ := calls[0].Input(proto.Mutation.ArgumentIDs[0])
	assert.Equal(t, project.TextLiteral("10"), *first.Literal)
	reporter, _ := calls[1].Input(proto.Mutation.ArgumentIDs[0])
	assert.Equal(t, opcode.MotionXPosition, cat.Block(reporter.Block).Opcode)

	body := cat.Sequence(defs[0].Next)
	require.Len(t, body, 1)
	dy, _ := body[0].Input("DY")
	param := cat.Block(dy.Block)
	assert.Equal(t, opcode.ArgumentReporterStringNumber, param.Opcode)
	assert.False(t, param.Shadow)
	assert.Equal(t, "高度", param.FieldValue("VALUE"))

	require.Len(t, res.Errors(), 1)
	assert.Equal(t, 5, res.Errors()[0].Line)
	assert.Contains(t, res.Errors()[0].Err.Error(), "takes 2 arguments, got 1")
}

func TestProceduresArePerTarget(t *testing.T) {
	res := compile(t, "# Cat\n定义 喵\n  下一个造型\n# Dog\n当绿旗被点击\n  喵\n")
	require.Len(t, res.Errors(), 1)
	assert.True(t, IsUnsupported(res.Errors()[0].Err))
	assert.Empty(t, byOpcode(targetNamed(t, res, "Dog"), opcode.ProceduresCall))
}

func TestInlineCode(t *testing.T) {
	src := `当绿旗被点击
    #code#
    console.log("one")
    #end#
    #code#
      if (x) {
        y()
      }
    #end#
`
	res := compile(t, src)
	require.Empty(t, res.Problems)
	p := res.Program
	assert.Equal(t, []string{"inlinecode1", "inlinecode2"}, p.Extensions)

	stage := p.Stage()
	seq := stage.Sequence(stage.TopLevel()[0].ID)
	require.Len(t, seq, 3)
	assert.Equal(t, "inlinecode1_run", seq[1].OpcodeString())
	assert.Equal(t, "inlinecode2_run", seq[2].OpcodeString())

	u := p.ExtensionURLs["inlinecode1"]
	assert.True(t, strings.HasPrefix(u, "data:application/javascript,"))
	src1, err := DecodeDataURL(u)
	require.NoError(t, err)
	assert.Contains(t, src1, `console.log("one")`)
	assert.Contains(t, src1, "id: 'inlinecode1'")

	code, ok := InlineCode(p.ExtensionURLs["inlinecode2"])
	require.True(t, ok)
	assert.Equal(t, "if (x) {\n  y()\n}", code)
}

func TestInlineExtensionRoundTrip(t *testing.T) {
	code := "let a = 1 + 2;\nconsole.log(a % 3, \"x\");"
	id, u := InlineExtension(7, code)
	assert.Equal(t, "inlinecode7", id)
	assert.True(t, IsInlineExtension(id))
	assert.False(t, IsInlineExtension("inlinecode"))
	assert.False(t, IsInlineExtension("pen"))
	assert.NotContains(t, u, "+")
	got, ok := InlineCode(u)
	require.True(t, ok)
	assert.Equal(t, code, got)
}

func TestExtensionID(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"get info", "class A { getInfo() { return { id: 'fancy', name: 'x' } } }", "fancy"},
		{"id property", `const info = {id: "plain"}`, "plain"},
		{"assignment", `this.extensionId = 'assigned'`, "assigned"},
		{"file name", "console.log(1)", "helper"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtensionID(tc.code, "/tmp/ext/helper.js"))
		})
	}
}

func TestImportExtension(t *testing.T) {
	dir := t.TempDir()
	code := "class Ext { getInfo() { return { id: 'myext', blocks: [] } } }"
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "ext.js"), []byte(code), 0600))

	res := compile(t, "导入扩展: ext.js\n当绿旗被点击\n  下一个背景\n", WithDir(dir))
	require.Empty(t, res.Problems)
	assert.Contains(t, res.Program.Extensions, "myext")
	got, err := DecodeDataURL(res.Program.ExtensionURLs["myext"])
	require.NoError(t, err)
	assert.Equal(t, code, got)

	res = compile(t, "import: missing.js\n", WithDir(dir))
	require.Len(t, res.Errors(), 1)
	assert.Equal(t, 1, res.Errors()[0].Line)
}

type readingAssets struct {
	Assets
	read []string
}

func (a *readingAssets) ReadFile(path string) ([]byte, error) {
	a.read = append(a.read, path)
	return ioutil.ReadFile(path)
}

func TestImportReadsThroughAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "ext.js"), []byte("const info = {id: \"tracked\"}"), 0600))

	a := &readingAssets{Assets: assets.NewManager(assets.NewConfig(), nil)}
	res := compile(t, "导入扩展: ext.js\n", WithDir(dir), WithAssets(a))
	require.Empty(t, res.Problems)
	assert.Contains(t, res.Program.Extensions, "tracked")
	require.Len(t, a.read, 1)
	assert.Equal(t, "ext.js", filepath.Base(a.read[0]))
}

func TestPathsOutsideRootAbort(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")
	for _, src := range []string{
		"# Cat\n造型: ../outside.png\n",
		"导入扩展: ../../etc/passwd\n",
		"音效: /etc/passwd\n",
	} {
		_, err := Compile(context.Background(), []byte(src), WithDir(dir))
		require.Error(t, err, src)
		assert.True(t, IsFatal(err), src)
		var se *SecurityError
		assert.True(t, errors.As(err, &se))
	}
}

func TestCostumes(t *testing.T) {
	dir := t.TempDir()
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="40" height="20"></svg>`
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "cat.svg"), []byte(svg), 0600))
	path := filepath.Join(dir, "main.sl")
	require.NoError(t, ioutil.WriteFile(path, []byte("背景: cat.svg\n# Cat\n造型: cat.svg\n造型: cat.svg\n造型: missing.png\n"), 0600))

	res, err := CompileFile(context.Background(), path, WithBuilderOptions(project.WithSeed(1)))
	require.NoError(t, err)

	cat := targetNamed(t, res, "Cat")
	require.Len(t, cat.Costumes, 2)
	assert.Equal(t, "cat", cat.Costumes[0].Name)
	assert.Equal(t, "cat2", cat.Costumes[1].Name)
	assert.Equal(t, 20.0, cat.Costumes[0].RotationCenterX)
	assert.Equal(t, []byte(svg), res.Program.Resources[cat.Costumes[0].MD5Ext])

	stage := res.Program.Stage()
	require.Len(t, stage.Costumes, 1)
	assert.Equal(t, "cat", stage.Costumes[0].Name)

	require.Len(t, res.Errors(), 1)
	assert.Equal(t, 5, res.Errors()[0].Line)
	_, ok := errors.Cause(res.Errors()[0].Err).(*assets.Error)
	assert.True(t, ok)
}

func TestPreprocessKeepsLineNumbers(t *testing.T) {
	src := "/* a\nb */\n当绿旗被点击\n  说 \"\"\"多\n行\"\"\"\n  移动 10 步\n  乱码 乱码\n"
	c, err := newCompiler(options{diag: nopDiagnostic{}, assets: assets.NewManager(assets.NewConfig(), nil)})
	require.NoError(t, err)
	lines, err := c.preprocess(src)
	require.NoError(t, err)
	assert.Len(t, lines, strings.Count(src, "\n")+1)
	assert.Equal(t, "  说 \"多\\n行\"", lines[3])
	assert.Equal(t, "", lines[4])

	res := compile(t, src)
	require.Len(t, res.Problems, 1)
	assert.Equal(t, 7, res.Problems[0].Line)
	stage := res.Program.Stage()
	say := byOpcode(stage, opcode.LooksSay)
	require.Len(t, say, 1)
	msg, _ := say[0].Input("MESSAGE")
	assert.Equal(t, "多\n行", msg.Literal.Text)
}

type recordingDiagnostic struct {
	started, finished int
	problems          []string
	blocks            int
}

func (d *recordingDiagnostic) CompileStarted(session, source string) { d.started++ }

func (d *recordingDiagnostic) CompileFinished(session, source string, targets, blocks, problems int, elapsed time.Duration) {
	d.finished++
	d.blocks = blocks
}

func (d *recordingDiagnostic) ProblemReported(session string, line int, severity string, err error) {
	d.problems = append(d.problems, severity)
}

func TestDiagnostic(t *testing.T) {
	d := &recordingDiagnostic{}
	res := compile(t, "当绿旗被点击\n  将 x 增加 1\n  ???\n", WithDiagnostic(d))
	assert.Equal(t, 1, d.started)
	assert.Equal(t, 1, d.finished)
	assert.Equal(t, 2, d.blocks)
	assert.Equal(t, []string{"warning", "error"}, d.problems)
	assert.Len(t, res.Problems, 2)
}

func TestCompileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compile(ctx, []byte("当绿旗被点击\n"))
	assert.Equal(t, context.Canceled, err)
}
