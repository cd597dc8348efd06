package opcode

import (
	"regexp"
	"strings"
)

// SlotKind determines how the text captured for an input is compiled and
// which input variant carries it.
type SlotKind int

const (
	// SlotNumber is a math_number shadow slot.
	SlotNumber SlotKind = iota
	// SlotText is a text shadow slot.
	SlotText
	// SlotBoolean is a condition slot, compiled with the condition grammar.
	SlotBoolean
	// SlotColor is a colour picker shadow slot.
	SlotColor
	// SlotBroadcast is a broadcast menu slot, creating the broadcast on the stage.
	SlotBroadcast
	// SlotMenu is backed by a synthesized shadow menu block.
	SlotMenu
)

// FieldKind determines how the text captured for a field is stored.
type FieldKind int

const (
	// FieldPlain stores the captured text verbatim.
	FieldPlain FieldKind = iota
	// FieldConst stores a fixed value independent of the line.
	FieldConst
	// FieldVariable references a variable by name.
	FieldVariable
	// FieldList references a list by name.
	FieldList
	// FieldBroadcast references a broadcast by name.
	FieldBroadcast
	// FieldVocab maps the captured word through a vocabulary.
	FieldVocab
)

type Input struct {
	Name  string
	Group int
	Kind  SlotKind
	// Menu is set for SlotMenu inputs.
	Menu *Menu
}

type Field struct {
	Name  string
	Group int
	Kind  FieldKind
	// Value is the stored value of a FieldConst field.
	Value string
	Vocab *Vocabulary
}

// Entry is one statement form of the language.
type Entry struct {
	Opcode Opcode
	// Pattern matches a whole trimmed line. Entries without a pattern are
	// compiled by dedicated rules and only provide their rendering.
	Pattern  *regexp.Regexp
	Inputs   []Input
	Fields   []Field
	Substack bool
	// Format renders the statement, {NAME} is replaced by the input or field NAME.
	Format string
}

// Hat reports whether the entry starts a script.
func (e *Entry) Hat() bool {
	return e.Opcode.IsHat()
}

// Extension is the built-in extension id the entry requires, if any.
func (e *Entry) Extension() string {
	return e.Opcode.Extension()
}

// Const returns the constant value of a field, if the entry fixes it.
func (e *Entry) Const(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Name == name && f.Kind == FieldConst {
			return f.Value, true
		}
	}
	return "", false
}

// Placeholders returns the slot names referenced by Format, in order.
func (e *Entry) Placeholders() []string {
	var names []string
	rest := e.Format
	for {
		i := strings.IndexByte(rest, '{')
		if i < 0 {
			return names
		}
		j := strings.IndexByte(rest[i:], '}')
		if j < 0 {
			return names
		}
		names = append(names, rest[i+1:i+j])
		rest = rest[i+j+1:]
	}
}

// Match is the result of a successful catalog lookup.
type Match struct {
	*Entry
	groups []string
}

// Group returns the trimmed text captured by group i.
func (m *Match) Group(i int) string {
	if i <= 0 || i >= len(m.groups) {
		return ""
	}
	return strings.TrimSpace(m.groups[i])
}

// Lookup returns the first catalog entry matching the trimmed line.
func Lookup(line string) (*Match, bool) {
	return lookup(line, func(*Entry) bool { return true })
}

// LookupEvent returns the first hat entry matching the trimmed line.
func LookupEvent(line string) (*Match, bool) {
	return lookup(line, (*Entry).Hat)
}

func lookup(line string, accept func(*Entry) bool) (*Match, bool) {
	line = strings.TrimSpace(line)
	for _, e := range Catalog {
		if e.Pattern == nil || !accept(e) {
			continue
		}
		if groups := e.Pattern.FindStringSubmatch(line); groups != nil {
			return &Match{Entry: e, groups: groups}, true
		}
	}
	return nil, false
}

// Entries returns the entries producing the opcode, in catalog order.
func Entries(o Opcode) []*Entry {
	var entries []*Entry
	for _, e := range Catalog {
		if e.Opcode == o {
			entries = append(entries, e)
		}
	}
	return entries
}

func re(expr string) *regexp.Regexp {
	return regexp.MustCompile(expr)
}

func num(name string, group int) Input {
	return Input{Name: name, Group: group, Kind: SlotNumber}
}

func text(name string, group int) Input {
	return Input{Name: name, Group: group, Kind: SlotText}
}

func cond(name string, group int) Input {
	return Input{Name: name, Group: group, Kind: SlotBoolean}
}

func menu(name string, group int, m *Menu) Input {
	return Input{Name: name, Group: group, Kind: SlotMenu, Menu: m}
}

func field(name string, group int, kind FieldKind) Field {
	return Field{Name: name, Group: group, Kind: kind}
}

func constant(name, value string) Field {
	return Field{Name: name, Kind: FieldConst, Value: value}
}

func vocab(name string, group int, v *Vocabulary) Field {
	return Field{Name: name, Group: group, Kind: FieldVocab, Vocab: v}
}

const (
	looksEffectWords = `颜色|鱼眼|漩涡|像素化|马赛克|亮度|虚像`
	soundEffectWords = `音调|声像|左右平衡`
	colorParamWords  = `颜色|饱和度|亮度|透明度`
)

// Catalog is the ordered table of statement forms. The first matching entry
// wins, so longer forms sharing a prefix with a shorter one come first.
var Catalog = []*Entry{
	// events
	{
		Opcode:  EventWhenFlagClicked,
		Pattern: re(`^(?:当绿旗被点击|(?i:when flag clicked))$`),
		Format:  "当绿旗被点击",
	},
	{
		Opcode:  EventWhenKeyPressed,
		Pattern: re(`^当按下\s*(.+?)\s*键$`),
		Fields:  []Field{vocab("KEY_OPTION", 1, Keys)},
		Format:  "当按下 {KEY_OPTION} 键",
	},
	{
		Opcode:  EventWhenThisSpriteClicked,
		Pattern: re(`^(?:当角色被点击|(?i:when this sprite clicked))$`),
		Format:  "当角色被点击",
	},
	{
		Opcode:  EventWhenStageClicked,
		Pattern: re(`^(?:当舞台被点击|(?i:when stage clicked))$`),
		Format:  "当舞台被点击",
	},
	{
		Opcode:  EventWhenBroadcastReceived,
		Pattern: re(`^当收到\s*(.+)$`),
		Fields:  []Field{field("BROADCAST_OPTION", 1, FieldBroadcast)},
		Format:  "当收到 {BROADCAST_OPTION}",
	},
	{
		Opcode:  EventWhenBackdropSwitchesTo,
		Pattern: re(`^当背景换成\s*(.+)$`),
		Fields:  []Field{field("BACKDROP", 1, FieldPlain)},
		Format:  "当背景换成 {BACKDROP}",
	},
	{
		Opcode:  ControlStartAsClone,
		Pattern: re(`^当作为克隆体启动时?$`),
		Format:  "当作为克隆体启动",
	},

	// control
	{
		Opcode:   ControlRepeatUntil,
		Pattern:  re(`^重复执行直到\s*(.+)$`),
		Inputs:   []Input{cond("CONDITION", 1)},
		Substack: true,
		Format:   "重复执行直到 {CONDITION}",
	},
	{
		Opcode:   ControlForever,
		Pattern:  re(`^(?:重复执行|(?i:forever))$`),
		Substack: true,
		Format:   "重复执行",
	},
	{
		Opcode:   ControlRepeat,
		Pattern:  re(`^重复\s*(.+?)\s*次$`),
		Inputs:   []Input{num("TIMES", 1)},
		Substack: true,
		Format:   "重复 {TIMES} 次",
	},
	{
		Opcode:   ControlIf,
		Pattern:  re(`^如果\s*(.+?)\s*那么$`),
		Inputs:   []Input{cond("CONDITION", 1)},
		Substack: true,
		Format:   "如果 {CONDITION} 那么",
	},
	{
		// Produced from control_if by an else marker.
		Opcode:   ControlIfElse,
		Inputs:   []Input{cond("CONDITION", 1)},
		Substack: true,
		Format:   "如果 {CONDITION} 那么",
	},
	{
		Opcode:  ControlWaitUntil,
		Pattern: re(`^等待直到\s*(.+)$`),
		Inputs:  []Input{cond("CONDITION", 1)},
		Format:  "等待直到 {CONDITION}",
	},
	{
		Opcode:  ControlWait,
		Pattern: re(`^等待\s*(.+?)\s*秒$`),
		Inputs:  []Input{num("DURATION", 1)},
		Format:  "等待 {DURATION} 秒",
	},
	{
		Opcode:  ControlStop,
		Pattern: re(`^停止\s*全部$`),
		Fields:  []Field{constant("STOP_OPTION", "all")},
		Format:  "停止 全部",
	},
	{
		Opcode:  ControlStop,
		Pattern: re(`^停止\s*(?:此|这个)脚本$`),
		Fields:  []Field{constant("STOP_OPTION", "this script")},
		Format:  "停止 此脚本",
	},
	{
		Opcode:  ControlStop,
		Pattern: re(`^停止\s*(?:此|这个)角色的其他脚本$`),
		Fields:  []Field{constant("STOP_OPTION", "other scripts in sprite")},
		Format:  "停止 此角色的其他脚本",
	},
	{
		Opcode:  ControlDeleteThisClone,
		Pattern: re(`^删除此克隆体$`),
		Format:  "删除此克隆体",
	},
	{
		Opcode:  ControlCreateCloneOf,
		Pattern: re(`^克隆\s*(.+)$`),
		Inputs:  []Input{menu("CLONE_OPTION", 1, CloneMenu)},
		Format:  "克隆 {CLONE_OPTION}",
	},
	{
		Opcode:  EventBroadcastAndWait,
		Pattern: re(`^广播\s*(.+?)\s*并等待$`),
		Inputs:  []Input{{Name: "BROADCAST_INPUT", Group: 1, Kind: SlotBroadcast}},
		Format:  "广播 {BROADCAST_INPUT} 并等待",
	},
	{
		Opcode:  EventBroadcast,
		Pattern: re(`^广播\s*(.+)$`),
		Inputs:  []Input{{Name: "BROADCAST_INPUT", Group: 1, Kind: SlotBroadcast}},
		Format:  "广播 {BROADCAST_INPUT}",
	},

	// motion
	{
		Opcode:  MotionMoveSteps,
		Pattern: re(`^移动\s*(.+?)\s*步$`),
		Inputs:  []Input{num("STEPS", 1)},
		Format:  "移动 {STEPS} 步",
	},
	{
		Opcode:  MotionTurnRight,
		Pattern: re(`^(?:旋转右|右转)\s*(.+?)\s*度$`),
		Inputs:  []Input{num("DEGREES", 1)},
		Format:  "旋转右 {DEGREES} 度",
	},
	{
		Opcode:  MotionTurnLeft,
		Pattern: re(`^(?:旋转左|左转)\s*(.+?)\s*度$`),
		Inputs:  []Input{num("DEGREES", 1)},
		Format:  "旋转左 {DEGREES} 度",
	},
	{
		Opcode:  MotionGlideSecsToXY,
		Pattern: re(`^在\s*(.+?)\s*秒内滑行到\s+(\S+)\s+(\S+)$`),
		Inputs:  []Input{num("SECS", 1), num("X", 2), num("Y", 3)},
		Format:  "在 {SECS} 秒内滑行到 {X} {Y}",
	},
	{
		Opcode:  MotionGlideTo,
		Pattern: re(`^在\s*(.+?)\s*秒内滑行到\s*(.+)$`),
		Inputs:  []Input{num("SECS", 1), menu("TO", 2, GlideToMenu)},
		Format:  "在 {SECS} 秒内滑行到 {TO}",
	},
	{
		Opcode:  MotionGoToXY,
		Pattern: re(`^移到\s+(\S+)\s+(\S+)$`),
		Inputs:  []Input{num("X", 1), num("Y", 2)},
		Format:  "移到 {X} {Y}",
	},
	{
		Opcode:  MotionGoTo,
		Pattern: re(`^移到\s*(.+)$`),
		Inputs:  []Input{menu("TO", 1, GoToMenu)},
		Format:  "移到 {TO}",
	},
	{
		Opcode:  MotionPointInDirection,
		Pattern: re(`^面向\s*(.+?)\s*方向$`),
		Inputs:  []Input{num("DIRECTION", 1)},
		Format:  "面向 {DIRECTION} 方向",
	},
	{
		Opcode:  MotionPointTowards,
		Pattern: re(`^面向\s*(.+)$`),
		Inputs:  []Input{menu("TOWARDS", 1, PointTowardsMenu)},
		Format:  "面向 {TOWARDS}",
	},
	{
		Opcode:  MotionChangeXBy,
		Pattern: re(`^将x坐标增加\s*(.+)$`),
		Inputs:  []Input{num("DX", 1)},
		Format:  "将x坐标增加 {DX}",
	},
	{
		Opcode:  MotionSetX,
		Pattern: re(`^将x坐标设为\s*(.+)$`),
		Inputs:  []Input{num("X", 1)},
		Format:  "将x坐标设为 {X}",
	},
	{
		Opcode:  MotionChangeYBy,
		Pattern: re(`^将y坐标增加\s*(.+)$`),
		Inputs:  []Input{num("DY", 1)},
		Format:  "将y坐标增加 {DY}",
	},
	{
		Opcode:  MotionSetY,
		Pattern: re(`^将y坐标设为\s*(.+)$`),
		Inputs:  []Input{num("Y", 1)},
		Format:  "将y坐标设为 {Y}",
	},
	{
		Opcode:  MotionIfOnEdgeBounce,
		Pattern: re(`^碰到边缘就反弹$`),
		Format:  "碰到边缘就反弹",
	},
	{
		Opcode:  MotionSetRotationStyle,
		Pattern: re(`^将旋转方式设为\s*(.+)$`),
		Fields:  []Field{vocab("STYLE", 1, RotationStyles)},
		Format:  "将旋转方式设为 {STYLE}",
	},

	// looks; say and think are compiled by the say shorthand
	{
		Opcode: LooksSayForSecs,
		Inputs: []Input{text("MESSAGE", 1), num("SECS", 2)},
		Format: "说 {MESSAGE} {SECS} 秒",
	},
	{
		Opcode: LooksSay,
		Inputs: []Input{text("MESSAGE", 1)},
		Format: "说 {MESSAGE}",
	},
	{
		Opcode: LooksThinkForSecs,
		Inputs: []Input{text("MESSAGE", 1), num("SECS", 2)},
		Format: "想 {MESSAGE} {SECS} 秒",
	},
	{
		Opcode: LooksThink,
		Inputs: []Input{text("MESSAGE", 1)},
		Format: "想 {MESSAGE}",
	},
	{
		Opcode:  LooksSwitchCostumeTo,
		Pattern: re(`^切换造型到\s*(.+)$`),
		Inputs:  []Input{menu("COSTUME", 1, CostumeMenu)},
		Format:  "切换造型到 {COSTUME}",
	},
	{
		Opcode:  LooksNextCostume,
		Pattern: re(`^下一个造型$`),
		Format:  "下一个造型",
	},
	{
		Opcode:  LooksSwitchBackdropTo,
		Pattern: re(`^切换背景到\s*(.+)$`),
		Inputs:  []Input{menu("BACKDROP", 1, BackdropMenu)},
		Format:  "切换背景到 {BACKDROP}",
	},
	{
		Opcode:  LooksNextBackdrop,
		Pattern: re(`^下一个背景$`),
		Format:  "下一个背景",
	},
	{
		Opcode:  LooksSetSizeTo,
		Pattern: re(`^将大小设为\s*(.+)$`),
		Inputs:  []Input{num("SIZE", 1)},
		Format:  "将大小设为 {SIZE}",
	},
	{
		Opcode:  LooksChangeSizeBy,
		Pattern: re(`^将大小增加\s*(.+)$`),
		Inputs:  []Input{num("CHANGE", 1)},
		Format:  "将大小增加 {CHANGE}",
	},
	{
		Opcode:  LooksChangeEffectBy,
		Pattern: re(`^将\s*(` + looksEffectWords + `)\s*特效增加\s*(.+)$`),
		Inputs:  []Input{num("CHANGE", 2)},
		Fields:  []Field{vocab("EFFECT", 1, LooksEffects)},
		Format:  "将 {EFFECT} 特效增加 {CHANGE}",
	},
	{
		Opcode:  LooksSetEffectTo,
		Pattern: re(`^将\s*(` + looksEffectWords + `)\s*特效设为\s*(.+)$`),
		Inputs:  []Input{num("VALUE", 2)},
		Fields:  []Field{vocab("EFFECT", 1, LooksEffects)},
		Format:  "将 {EFFECT} 特效设为 {VALUE}",
	},
	{
		Opcode:  LooksClearGraphicEffects,
		Pattern: re(`^清除图形特效$`),
		Format:  "清除图形特效",
	},
	{
		Opcode:  LooksShow,
		Pattern: re(`^显示$`),
		Format:  "显示",
	},
	{
		Opcode:  LooksHide,
		Pattern: re(`^隐藏$`),
		Format:  "隐藏",
	},
	{
		Opcode:  LooksGoToFrontBack,
		Pattern: re(`^移至最前层$`),
		Fields:  []Field{constant("FRONT_BACK", "front")},
		Format:  "移至最前层",
	},
	{
		Opcode:  LooksGoToFrontBack,
		Pattern: re(`^移至最后层$`),
		Fields:  []Field{constant("FRONT_BACK", "back")},
		Format:  "移至最后层",
	},
	{
		Opcode:  LooksGoForwardBackwardLayers,
		Pattern: re(`^图层增加\s*(.+)$`),
		Inputs:  []Input{{Name: "NUM", Group: 1, Kind: SlotNumber}},
		Fields:  []Field{constant("FORWARD_BACKWARD", "forward")},
		Format:  "图层增加 {NUM}",
	},
	{
		Opcode:  LooksGoForwardBackwardLayers,
		Pattern: re(`^图层减少\s*(.+)$`),
		Inputs:  []Input{{Name: "NUM", Group: 1, Kind: SlotNumber}},
		Fields:  []Field{constant("FORWARD_BACKWARD", "backward")},
		Format:  "图层减少 {NUM}",
	},

	// sound
	{
		Opcode:  SoundPlayUntilDone,
		Pattern: re(`^播放声音\s*(.+?)\s*并等待$`),
		Inputs:  []Input{menu("SOUND_MENU", 1, SoundMenu)},
		Format:  "播放声音 {SOUND_MENU} 并等待",
	},
	{
		Opcode:  SoundPlay,
		Pattern: re(`^播放声音\s*(.+)$`),
		Inputs:  []Input{menu("SOUND_MENU", 1, SoundMenu)},
		Format:  "播放声音 {SOUND_MENU}",
	},
	{
		Opcode:  SoundStopAllSounds,
		Pattern: re(`^停止所有声音$`),
		Format:  "停止所有声音",
	},
	{
		Opcode:  SoundSetVolumeTo,
		Pattern: re(`^将音量设为\s*(.+)$`),
		Inputs:  []Input{num("VOLUME", 1)},
		Format:  "将音量设为 {VOLUME}",
	},
	{
		Opcode:  SoundChangeVolumeBy,
		Pattern: re(`^将音量增加\s*(.+)$`),
		Inputs:  []Input{num("VOLUME", 1)},
		Format:  "将音量增加 {VOLUME}",
	},
	{
		Opcode:  SoundSetEffectTo,
		Pattern: re(`^将\s*(` + soundEffectWords + `)\s*设为\s*(.+)$`),
		Inputs:  []Input{num("VALUE", 2)},
		Fields:  []Field{vocab("EFFECT", 1, SoundEffects)},
		Format:  "将{EFFECT}设为 {VALUE}",
	},
	{
		Opcode:  SoundChangeEffectBy,
		Pattern: re(`^将\s*(` + soundEffectWords + `)\s*增加\s*(.+)$`),
		Inputs:  []Input{num("VALUE", 2)},
		Fields:  []Field{vocab("EFFECT", 1, SoundEffects)},
		Format:  "将{EFFECT}增加 {VALUE}",
	},
	{
		Opcode:  SoundClearEffects,
		Pattern: re(`^清除声音特效$`),
		Format:  "清除声音特效",
	},

	// sensing
	{
		Opcode:  SensingAskAndWait,
		Pattern: re(`^询问\s*(.+?)\s*并等待$`),
		Inputs:  []Input{text("QUESTION", 1)},
		Format:  "询问 {QUESTION} 并等待",
	},
	{
		Opcode:  SensingResetTimer,
		Pattern: re(`^计时器归零$`),
		Format:  "计时器归零",
	},
	{
		Opcode:  SensingSetDragMode,
		Pattern: re(`^设置拖动模式为\s*(.+)$`),
		Fields:  []Field{vocab("DRAG_MODE", 1, DragModes)},
		Format:  "设置拖动模式为 {DRAG_MODE}",
	},

	// pen
	{
		Opcode:  PenClear,
		Pattern: re(`^清空$`),
		Format:  "清空",
	},
	{
		Opcode:  PenStamp,
		Pattern: re(`^图章$`),
		Format:  "图章",
	},
	{
		Opcode:  PenPenDown,
		Pattern: re(`^落笔$`),
		Format:  "落笔",
	},
	{
		Opcode:  PenPenUp,
		Pattern: re(`^抬笔$`),
		Format:  "抬笔",
	},
	{
		Opcode:  PenSetPenColorToColor,
		Pattern: re(`^将笔的颜色设为\s*(#[0-9A-Fa-f]{6})$`),
		Inputs:  []Input{{Name: "COLOR", Group: 1, Kind: SlotColor}},
		Format:  "将笔的颜色设为 {COLOR}",
	},
	{
		Opcode:  PenChangePenColorParamBy,
		Pattern: re(`^将笔的\s*(` + colorParamWords + `)\s*增加\s*(.+)$`),
		Inputs:  []Input{menu("COLOR_PARAM", 1, ColorParamMenu), num("VALUE", 2)},
		Format:  "将笔的{COLOR_PARAM}增加 {VALUE}",
	},
	{
		Opcode:  PenSetPenColorParamTo,
		Pattern: re(`^将笔的\s*(` + colorParamWords + `)\s*设为\s*(.+)$`),
		Inputs:  []Input{menu("COLOR_PARAM", 1, ColorParamMenu), num("VALUE", 2)},
		Format:  "将笔的{COLOR_PARAM}设为 {VALUE}",
	},
	{
		Opcode:  PenSetPenSizeTo,
		Pattern: re(`^将笔的粗细设为\s*(.+)$`),
		Inputs:  []Input{num("SIZE", 1)},
		Format:  "将笔的粗细设为 {SIZE}",
	},
	{
		Opcode:  PenChangePenSizeBy,
		Pattern: re(`^将笔的粗细增加\s*(.+)$`),
		Inputs:  []Input{num("SIZE", 1)},
		Format:  "将笔的粗细增加 {SIZE}",
	},

	// music
	{
		Opcode:  MusicPlayNoteForBeats,
		Pattern: re(`^演奏音符\s*(\S+)\s+(.+?)\s*拍$`),
		Inputs:  []Input{num("NOTE", 1), num("BEATS", 2)},
		Format:  "演奏音符 {NOTE} {BEATS} 拍",
	},
	{
		Opcode:  MusicPlayDrumForBeats,
		Pattern: re(`^演奏鼓声\s*(\S+)\s+(.+?)\s*拍$`),
		Inputs:  []Input{menu("DRUM", 1, DrumMenu), num("BEATS", 2)},
		Format:  "演奏鼓声 {DRUM} {BEATS} 拍",
	},
	{
		Opcode:  MusicRestForBeats,
		Pattern: re(`^休止\s*(.+?)\s*拍$`),
		Inputs:  []Input{num("BEATS", 1)},
		Format:  "休止 {BEATS} 拍",
	},
	{
		Opcode:  MusicSetInstrument,
		Pattern: re(`^将乐器设为\s*(.+)$`),
		Inputs:  []Input{menu("INSTRUMENT", 1, InstrumentMenu)},
		Format:  "将乐器设为 {INSTRUMENT}",
	},
	{
		Opcode:  MusicSetTempo,
		Pattern: re(`^将节奏设为\s*(.+)$`),
		Inputs:  []Input{num("TEMPO", 1)},
		Format:  "将节奏设为 {TEMPO}",
	},
	{
		Opcode:  MusicChangeTempo,
		Pattern: re(`^将节奏增加\s*(.+)$`),
		Inputs:  []Input{num("TEMPO", 1)},
		Format:  "将节奏增加 {TEMPO}",
	},

	// variables and lists; kept last, their prefixes overlap the forms above
	{
		Opcode:  DataSetVariableTo,
		Pattern: re(`^设置\s+(.+?)\s+为\s+(.+)$`),
		Inputs:  []Input{text("VALUE", 2)},
		Fields:  []Field{field("VARIABLE", 1, FieldVariable)},
		Format:  "设置 {VARIABLE} 为 {VALUE}",
	},
	{
		Opcode:  DataSetVariableTo,
		Pattern: re(`^将\s+(.+?)\s+设为\s+(.+)$`),
		Inputs:  []Input{text("VALUE", 2)},
		Fields:  []Field{field("VARIABLE", 1, FieldVariable)},
		Format:  "将 {VARIABLE} 设为 {VALUE}",
	},
	{
		Opcode:  DataChangeVariableBy,
		Pattern: re(`^将\s+(.+?)\s+增加\s+(.+)$`),
		Inputs:  []Input{num("VALUE", 2)},
		Fields:  []Field{field("VARIABLE", 1, FieldVariable)},
		Format:  "将 {VARIABLE} 增加 {VALUE}",
	},
	{
		Opcode:  DataShowVariable,
		Pattern: re(`^显示变量\s*(.+)$`),
		Fields:  []Field{field("VARIABLE", 1, FieldVariable)},
		Format:  "显示变量 {VARIABLE}",
	},
	{
		Opcode:  DataHideVariable,
		Pattern: re(`^隐藏变量\s*(.+)$`),
		Fields:  []Field{field("VARIABLE", 1, FieldVariable)},
		Format:  "隐藏变量 {VARIABLE}",
	},
	{
		Opcode:  DataShowList,
		Pattern: re(`^显示列表\s*(.+)$`),
		Fields:  []Field{field("LIST", 1, FieldList)},
		Format:  "显示列表 {LIST}",
	},
	{
		Opcode:  DataHideList,
		Pattern: re(`^隐藏列表\s*(.+)$`),
		Fields:  []Field{field("LIST", 1, FieldList)},
		Format:  "隐藏列表 {LIST}",
	},
	{
		Opcode:  DataAddToList,
		Pattern: re(`^添加\s*(.+?)\s*到\s*(.+)$`),
		Inputs:  []Input{text("ITEM", 1)},
		Fields:  []Field{field("LIST", 2, FieldList)},
		Format:  "添加 {ITEM} 到 {LIST}",
	},
	{
		Opcode:  DataDeleteOfList,
		Pattern: re(`^删除\s*(.+?)\s*的第\s*(.+?)\s*项$`),
		Inputs:  []Input{{Name: "INDEX", Group: 2, Kind: SlotNumber}},
		Fields:  []Field{field("LIST", 1, FieldList)},
		Format:  "删除 {LIST} 的第 {INDEX} 项",
	},
	{
		Opcode:  DataInsertAtList,
		Pattern: re(`^插入\s*(.+?)\s*到\s*(.+?)\s*的第\s*(.+?)\s*项$`),
		Inputs:  []Input{text("ITEM", 1), num("INDEX", 3)},
		Fields:  []Field{field("LIST", 2, FieldList)},
		Format:  "插入 {ITEM} 到 {LIST} 的第 {INDEX} 项",
	},
	{
		Opcode:  DataReplaceItemOfList,
		Pattern: re(`^替换\s*(.+?)\s*的第\s*(.+?)\s*项为\s*(.+)$`),
		Inputs:  []Input{num("INDEX", 2), text("ITEM", 3)},
		Fields:  []Field{field("LIST", 1, FieldList)},
		Format:  "替换 {LIST} 的第 {INDEX} 项为 {ITEM}",
	},
	{
		Opcode:  DataDeleteAllOfList,
		Pattern: re(`^清空\s+(.+)$`),
		Fields:  []Field{field("LIST", 1, FieldList)},
		Format:  "清空 {LIST}",
	},
}
