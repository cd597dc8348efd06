package opcode

import "strings"

// Vocabulary maps surface words of the language to the values stored in
// block fields, and back.
type Vocabulary struct {
	Name string

	values map[string]string
	words  map[string]string
	// fold is applied to words that are not part of the vocabulary.
	fold func(string) string
}

// newVocabulary builds a vocabulary from word, value pairs. The first word
// listed for a value is the one rendered by Word.
func newVocabulary(name string, fold func(string) string, pairs ...string) *Vocabulary {
	v := &Vocabulary{
		Name:   name,
		values: make(map[string]string, len(pairs)/2),
		words:  make(map[string]string, len(pairs)/2),
		fold:   fold,
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		word, value := pairs[i], pairs[i+1]
		v.values[word] = value
		if _, ok := v.words[value]; !ok {
			v.words[value] = word
		}
	}
	return v
}

// Value returns the field value for a surface word.
func (v *Vocabulary) Value(word string) string {
	if v == nil {
		return word
	}
	if value, ok := v.values[word]; ok {
		return value
	}
	if value, ok := v.values[strings.ToLower(word)]; ok {
		return value
	}
	if v.fold != nil {
		return v.fold(word)
	}
	return word
}

// Has reports whether the word belongs to the vocabulary.
func (v *Vocabulary) Has(word string) bool {
	if v == nil {
		return false
	}
	_, ok := v.values[word]
	if !ok {
		_, ok = v.values[strings.ToLower(word)]
	}
	return ok
}

// Word returns the preferred surface word for a field value.
func (v *Vocabulary) Word(value string) string {
	if v == nil {
		return value
	}
	if w, ok := v.words[value]; ok {
		return w
	}
	return value
}

var (
	// Objects are the sentinel targets of go-to, glide, point-towards,
	// touching and distance menus.
	Objects = newVocabulary("objects", nil,
		"鼠标指针", "_mouse_",
		"鼠标", "_mouse_",
		"mouse-pointer", "_mouse_",
		"随机位置", "_random_",
		"随机", "_random_",
		"random position", "_random_",
		"边缘", "_edge_",
		"edge", "_edge_",
		"舞台", "_stage_",
		"stage", "_stage_",
	)

	// CloneTargets are the options of the create-clone menu.
	CloneTargets = newVocabulary("clone targets", nil,
		"自己", "_myself_",
		"自身", "_myself_",
		"myself", "_myself_",
	)

	Keys = newVocabulary("keys", strings.ToLower,
		"空格", "space",
		"空格键", "space",
		"上箭头", "up arrow",
		"上", "up arrow",
		"下箭头", "down arrow",
		"下", "down arrow",
		"左箭头", "left arrow",
		"左", "left arrow",
		"右箭头", "right arrow",
		"右", "right arrow",
		"回车", "enter",
		"回车键", "enter",
		"任意", "any",
		"任意键", "any",
	)

	RotationStyles = newVocabulary("rotation styles", nil,
		"左右翻转", "left-right",
		"不可旋转", "don't rotate",
		"任意旋转", "all around",
	)

	DragModes = newVocabulary("drag modes", nil,
		"可拖动", "draggable",
		"不可拖动", "not draggable",
	)

	StopOptions = newVocabulary("stop options", nil,
		"全部", "all",
		"此脚本", "this script",
		"这个脚本", "this script",
		"此角色的其他脚本", "other scripts in sprite",
		"这个角色的其他脚本", "other scripts in sprite",
	)

	// Properties are the attributes readable through sensing_of.
	Properties = newVocabulary("properties", nil,
		"x坐标", "x position",
		"y坐标", "y position",
		"方向", "direction",
		"造型编号", "costume #",
		"造型名称", "costume name",
		"大小", "size",
		"音量", "volume",
		"背景编号", "backdrop #",
		"背景名称", "backdrop name",
	)

	LooksEffects = newVocabulary("looks effects", strings.ToUpper,
		"颜色", "COLOR",
		"鱼眼", "FISHEYE",
		"漩涡", "WHIRL",
		"像素化", "PIXELATE",
		"马赛克", "MOSAIC",
		"亮度", "BRIGHTNESS",
		"虚像", "GHOST",
	)

	SoundEffects = newVocabulary("sound effects", strings.ToUpper,
		"音调", "PITCH",
		"声像", "PAN",
		"左右平衡", "PAN",
	)

	ColorParams = newVocabulary("color params", nil,
		"颜色", "color",
		"饱和度", "saturation",
		"亮度", "brightness",
		"透明度", "transparency",
	)

	NumberName = newVocabulary("number or name", nil,
		"编号", "number",
		"名称", "name",
	)

	// MathOps maps the canonical expression function names to the
	// operator_mathop OPERATOR field.
	MathOps = newVocabulary("math operators", nil,
		"abs", "abs",
		"floor", "floor",
		"ceiling", "ceiling",
		"sqrt", "sqrt",
		"sin", "sin",
		"cos", "cos",
		"tan", "tan",
		"asin", "asin",
		"acos", "acos",
		"atan", "atan",
		"ln", "ln",
		"log", "log",
		"exp", "e ^",
		"pow10", "10 ^",
	)
)

// Menu describes the shadow menu block synthesized behind an input slot.
type Menu struct {
	Opcode Opcode
	Field  string
	Vocab  *Vocabulary
}

var (
	GoToMenu           = &Menu{Opcode: MotionGoToMenu, Field: "TO", Vocab: Objects}
	GlideToMenu        = &Menu{Opcode: MotionGlideToMenu, Field: "TO", Vocab: Objects}
	PointTowardsMenu   = &Menu{Opcode: MotionPointTowardsMenu, Field: "TOWARDS", Vocab: Objects}
	CostumeMenu        = &Menu{Opcode: LooksCostume, Field: "COSTUME"}
	BackdropMenu       = &Menu{Opcode: LooksBackdrops, Field: "BACKDROP"}
	SoundMenu          = &Menu{Opcode: SoundSoundsMenu, Field: "SOUND_MENU"}
	CloneMenu          = &Menu{Opcode: ControlCreateCloneOfMenu, Field: "CLONE_OPTION", Vocab: CloneTargets}
	TouchingObjectMenu = &Menu{Opcode: SensingTouchingObjectMenu, Field: "TOUCHINGOBJECTMENU", Vocab: Objects}
	DistanceToMenu     = &Menu{Opcode: SensingDistanceToMenu, Field: "DISTANCETOMENU", Vocab: Objects}
	KeyMenu            = &Menu{Opcode: SensingKeyOptions, Field: "KEY_OPTION", Vocab: Keys}
	OfObjectMenu       = &Menu{Opcode: SensingOfObjectMenu, Field: "OBJECT", Vocab: Objects}
	ColorParamMenu     = &Menu{Opcode: PenMenuColorParam, Field: "colorParam", Vocab: ColorParams}
	DrumMenu           = &Menu{Opcode: MusicMenuDrum, Field: "DRUM"}
	InstrumentMenu     = &Menu{Opcode: MusicMenuInstrument, Field: "INSTRUMENT"}
)

var menus = []*Menu{
	GoToMenu,
	GlideToMenu,
	PointTowardsMenu,
	CostumeMenu,
	BackdropMenu,
	SoundMenu,
	CloneMenu,
	TouchingObjectMenu,
	DistanceToMenu,
	KeyMenu,
	OfObjectMenu,
	ColorParamMenu,
	DrumMenu,
	InstrumentMenu,
}

// MenuFor returns the menu description of a shadow menu opcode.
func MenuFor(o Opcode) (*Menu, bool) {
	for _, m := range menus {
		if m.Opcode == o {
			return m, true
		}
	}
	return nil, false
}
