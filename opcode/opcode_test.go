package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseString(t *testing.T) {
	for _, o := range All() {
		assert.Equal(t, o, Parse(o.String()), o.String())
	}
	assert.Equal(t, Unknown, Parse("wedo2_motorOn"))
	assert.Equal(t, Unknown, Parse("unknown"))
	assert.Equal(t, "unknown", Opcode(-1).String())
}

func TestClasses(t *testing.T) {
	assert.True(t, EventWhenFlagClicked.IsHat())
	assert.True(t, ProceduresDefinition.IsHat())
	assert.False(t, MotionMoveSteps.IsHat())
	assert.True(t, SensingKeyOptions.IsMenu())
	assert.False(t, SensingKeyPressed.IsMenu())
	assert.Equal(t, "pen", PenMenuColorParam.Extension())
	assert.Equal(t, "music", MusicMenuDrum.Extension())
	assert.Equal(t, "", LooksCostume.Extension())
}

func TestEveryMenuDescribed(t *testing.T) {
	for _, o := range All() {
		if !o.IsMenu() {
			continue
		}
		_, ok := MenuFor(o)
		assert.True(t, ok, o.String())
	}
}

func TestVocabulary(t *testing.T) {
	assert.Equal(t, "_mouse_", Objects.Value("鼠标指针"))
	assert.Equal(t, "_stage_", Objects.Value("Stage"))
	assert.Equal(t, "Cat", Objects.Value("Cat"))
	assert.Equal(t, "鼠标指针", Objects.Word("_mouse_"))
	assert.Equal(t, "Cat", Objects.Word("Cat"))

	assert.Equal(t, "space", Keys.Value("空格"))
	assert.Equal(t, "a", Keys.Value("A"))
	assert.Equal(t, "空格", Keys.Word("space"))
	assert.True(t, Keys.Has("任意键"))
	assert.False(t, Keys.Has("q"))

	assert.Equal(t, "10 ^", MathOps.Value("pow10"))
	assert.Equal(t, "pow10", MathOps.Word("10 ^"))
	assert.Equal(t, "GHOST", LooksEffects.Value("虚像"))

	var nilVocab *Vocabulary
	assert.Equal(t, "x", nilVocab.Value("x"))
	assert.Equal(t, "x", nilVocab.Word("x"))
}

func TestReporters(t *testing.T) {
	r, ok := LookupReporter("鼠标的x坐标")
	assert.True(t, ok)
	assert.Equal(t, SensingMouseX, r.Opcode)

	r, ok = ReporterFor(SensingMouseX, "")
	assert.True(t, ok)
	assert.Equal(t, "鼠标x坐标", r.Word)

	r, ok = ReporterFor(LooksBackdropNumberName, "name")
	assert.True(t, ok)
	assert.Equal(t, "背景名称", r.Word)

	// a block without the field renders as the first reporter of the opcode
	r, ok = ReporterFor(LooksCostumeNumberName, "")
	assert.True(t, ok)
	assert.Equal(t, "造型编号", r.Word)
	r, ok = ReporterFor(LooksBackdropNumberName, "size")
	assert.True(t, ok)
	assert.Equal(t, "背景编号", r.Word)

	_, ok = ReporterFor(MotionMoveSteps, "")
	assert.False(t, ok)
	_, ok = LookupReporter("分数")
	assert.False(t, ok)
}
