package opcode

// Reporter is a reporter without inputs, referenced in expressions as ~Word.
type Reporter struct {
	Word   string
	Opcode Opcode
	// Field and Value are set for reporters distinguished by a fixed field.
	Field string
	Value string
}

// Reporters lists the builtin reporter words. The first word listed for an
// opcode and field value is the one rendered.
var Reporters = []Reporter{
	{Word: "回答", Opcode: SensingAnswer},
	{Word: "x坐标", Opcode: MotionXPosition},
	{Word: "y坐标", Opcode: MotionYPosition},
	{Word: "方向", Opcode: MotionDirection},
	{Word: "计时器", Opcode: SensingTimer},
	{Word: "响度", Opcode: SensingLoudness},
	{Word: "鼠标x坐标", Opcode: SensingMouseX},
	{Word: "鼠标y坐标", Opcode: SensingMouseY},
	{Word: "鼠标的x坐标", Opcode: SensingMouseX},
	{Word: "鼠标的y坐标", Opcode: SensingMouseY},
	{Word: "大小", Opcode: LooksSize},
	{Word: "音量", Opcode: SoundVolume},
	{Word: "节奏", Opcode: MusicGetTempo},
	{Word: "造型编号", Opcode: LooksCostumeNumberName, Field: "NUMBER_NAME", Value: "number"},
	{Word: "造型名称", Opcode: LooksCostumeNumberName, Field: "NUMBER_NAME", Value: "name"},
	{Word: "背景编号", Opcode: LooksBackdropNumberName, Field: "NUMBER_NAME", Value: "number"},
	{Word: "背景名称", Opcode: LooksBackdropNumberName, Field: "NUMBER_NAME", Value: "name"},
}

// LookupReporter returns the builtin reporter named by word.
func LookupReporter(word string) (Reporter, bool) {
	for _, r := range Reporters {
		if r.Word == word {
			return r, true
		}
	}
	return Reporter{}, false
}

// ReporterFor returns the builtin reporter for an opcode. fieldValue selects
// among reporters sharing the opcode and is ignored otherwise. When no
// reporter has the field value the first one of the opcode is returned.
func ReporterFor(o Opcode, fieldValue string) (Reporter, bool) {
	var first *Reporter
	for i, r := range Reporters {
		if r.Opcode != o {
			continue
		}
		if r.Field == "" || r.Value == fieldValue {
			return r, true
		}
		if first == nil {
			first = &Reporters[i]
		}
	}
	if first != nil {
		return *first, true
	}
	return Reporter{}, false
}
