// Package opcode defines the closed set of block operations understood by the
// compiler and the decompiler, the ordered catalog of statement forms, and the
// menu vocabularies shared by both directions.
package opcode

import "strings"

// Opcode identifies one operation of the block vocabulary.
type Opcode int

const (
	// Unknown is any opcode outside the vocabulary, kept verbatim by the
	// project model and rendered as unsupported by the decompiler.
	Unknown Opcode = iota
	// ExtensionCall is a command provided by an inline or imported extension.
	ExtensionCall

	// begin hat opcodes
	begin_hat

	EventWhenFlagClicked
	EventWhenKeyPressed
	EventWhenThisSpriteClicked
	EventWhenStageClicked
	EventWhenBroadcastReceived
	EventWhenBackdropSwitchesTo
	ControlStartAsClone
	ProceduresDefinition

	// end hat opcodes
	end_hat

	EventBroadcast
	EventBroadcastAndWait

	MotionMoveSteps
	MotionTurnRight
	MotionTurnLeft
	MotionGoTo
	MotionGoToXY
	MotionGlideTo
	MotionGlideSecsToXY
	MotionPointInDirection
	MotionPointTowards
	MotionChangeXBy
	MotionSetX
	MotionChangeYBy
	MotionSetY
	MotionIfOnEdgeBounce
	MotionSetRotationStyle
	MotionXPosition
	MotionYPosition
	MotionDirection

	LooksSayForSecs
	LooksSay
	LooksThinkForSecs
	LooksThink
	LooksSwitchCostumeTo
	LooksNextCostume
	LooksSwitchBackdropTo
	LooksNextBackdrop
	LooksChangeSizeBy
	LooksSetSizeTo
	LooksChangeEffectBy
	LooksSetEffectTo
	LooksClearGraphicEffects
	LooksShow
	LooksHide
	LooksGoToFrontBack
	LooksGoForwardBackwardLayers
	LooksCostumeNumberName
	LooksBackdropNumberName
	LooksSize

	SoundPlayUntilDone
	SoundPlay
	SoundStopAllSounds
	SoundChangeEffectBy
	SoundSetEffectTo
	SoundClearEffects
	SoundChangeVolumeBy
	SoundSetVolumeTo
	SoundVolume

	ControlWait
	ControlRepeat
	ControlForever
	ControlIf
	ControlIfElse
	ControlWaitUntil
	ControlRepeatUntil
	ControlStop
	ControlCreateCloneOf
	ControlDeleteThisClone

	SensingTouchingObject
	SensingTouchingColor
	SensingDistanceTo
	SensingAskAndWait
	SensingAnswer
	SensingKeyPressed
	SensingMouseDown
	SensingMouseX
	SensingMouseY
	SensingSetDragMode
	SensingLoudness
	SensingTimer
	SensingResetTimer
	SensingOf

	OperatorAdd
	OperatorSubtract
	OperatorMultiply
	OperatorDivide
	OperatorRandom
	OperatorGt
	OperatorLt
	OperatorEquals
	OperatorAnd
	OperatorOr
	OperatorNot
	OperatorJoin
	OperatorLetterOf
	OperatorLength
	OperatorContains
	OperatorMod
	OperatorRound
	OperatorMathOp

	DataVariable
	DataSetVariableTo
	DataChangeVariableBy
	DataShowVariable
	DataHideVariable
	DataListContents
	DataAddToList
	DataDeleteOfList
	DataDeleteAllOfList
	DataInsertAtList
	DataReplaceItemOfList
	DataItemOfList
	DataLengthOfList
	DataShowList
	DataHideList

	ProceduresPrototype
	ProceduresCall
	ArgumentReporterStringNumber
	ArgumentReporterBoolean

	PenClear
	PenStamp
	PenPenDown
	PenPenUp
	PenSetPenColorToColor
	PenChangePenColorParamBy
	PenSetPenColorParamTo
	PenChangePenSizeBy
	PenSetPenSizeTo

	MusicPlayDrumForBeats
	MusicRestForBeats
	MusicPlayNoteForBeats
	MusicSetInstrument
	MusicSetTempo
	MusicChangeTempo
	MusicGetTempo

	// begin shadow menu opcodes
	begin_menu

	MotionGoToMenu
	MotionGlideToMenu
	MotionPointTowardsMenu
	LooksCostume
	LooksBackdrops
	SoundSoundsMenu
	ControlCreateCloneOfMenu
	SensingTouchingObjectMenu
	SensingDistanceToMenu
	SensingKeyOptions
	SensingOfObjectMenu
	PenMenuColorParam
	MusicMenuDrum
	MusicMenuInstrument

	// end shadow menu opcodes
	end_menu
)

var opcodeStr = [...]string{
	Unknown:       "unknown",
	ExtensionCall: "extension",

	EventWhenFlagClicked:        "event_whenflagclicked",
	EventWhenKeyPressed:         "event_whenkeypressed",
	EventWhenThisSpriteClicked:  "event_whenthisspriteclicked",
	EventWhenStageClicked:       "event_whenstageclicked",
	EventWhenBroadcastReceived:  "event_whenbroadcastreceived",
	EventWhenBackdropSwitchesTo: "event_whenbackdropswitchesto",
	ControlStartAsClone:         "control_start_as_clone",
	ProceduresDefinition:        "procedures_definition",

	EventBroadcast:        "event_broadcast",
	EventBroadcastAndWait: "event_broadcastandwait",

	MotionMoveSteps:        "motion_movesteps",
	MotionTurnRight:        "motion_turnright",
	MotionTurnLeft:         "motion_turnleft",
	MotionGoTo:             "motion_goto",
	MotionGoToXY:           "motion_gotoxy",
	MotionGlideTo:          "motion_glideto",
	MotionGlideSecsToXY:    "motion_glidesecstoxy",
	MotionPointInDirection: "motion_pointindirection",
	MotionPointTowards:     "motion_pointtowards",
	MotionChangeXBy:        "motion_changexby",
	MotionSetX:             "motion_setx",
	MotionChangeYBy:        "motion_changeyby",
	MotionSetY:             "motion_sety",
	MotionIfOnEdgeBounce:   "motion_ifonedgebounce",
	MotionSetRotationStyle: "motion_setrotationstyle",
	MotionXPosition:        "motion_xposition",
	MotionYPosition:        "motion_yposition",
	MotionDirection:        "motion_direction",

	LooksSayForSecs:              "looks_sayforsecs",
	LooksSay:                     "looks_say",
	LooksThinkForSecs:            "looks_thinkforsecs",
	LooksThink:                   "looks_think",
	LooksSwitchCostumeTo:         "looks_switchcostumeto",
	LooksNextCostume:             "looks_nextcostume",
	LooksSwitchBackdropTo:        "looks_switchbackdropto",
	LooksNextBackdrop:            "looks_nextbackdrop",
	LooksChangeSizeBy:            "looks_changesizeby",
	LooksSetSizeTo:               "looks_setsizeto",
	LooksChangeEffectBy:          "looks_changeeffectby",
	LooksSetEffectTo:             "looks_seteffectto",
	LooksClearGraphicEffects:     "looks_cleargraphiceffects",
	LooksShow:                    "looks_show",
	LooksHide:                    "looks_hide",
	LooksGoToFrontBack:           "looks_gotofrontback",
	LooksGoForwardBackwardLayers: "looks_goforwardbackwardlayers",
	LooksCostumeNumberName:       "looks_costumenumbername",
	LooksBackdropNumberName:      "looks_backdropnumbername",
	LooksSize:                    "looks_size",

	SoundPlayUntilDone:  "sound_playuntildone",
	SoundPlay:           "sound_play",
	SoundStopAllSounds:  "sound_stopallsounds",
	SoundChangeEffectBy: "sound_changeeffectby",
	SoundSetEffectTo:    "sound_seteffectto",
	SoundClearEffects:   "sound_cleareffects",
	SoundChangeVolumeBy: "sound_changevolumeby",
	SoundSetVolumeTo:    "sound_setvolumeto",
	SoundVolume:         "sound_volume",

	ControlWait:            "control_wait",
	ControlRepeat:          "control_repeat",
	ControlForever:         "control_forever",
	ControlIf:              "control_if",
	ControlIfElse:          "control_if_else",
	ControlWaitUntil:       "control_wait_until",
	ControlRepeatUntil:     "control_repeat_until",
	ControlStop:            "control_stop",
	ControlCreateCloneOf:   "control_create_clone_of",
	ControlDeleteThisClone: "control_delete_this_clone",

	SensingTouchingObject: "sensing_touchingobject",
	SensingTouchingColor:  "sensing_touchingcolor",
	SensingDistanceTo:     "sensing_distanceto",
	SensingAskAndWait:     "sensing_askandwait",
	SensingAnswer:         "sensing_answer",
	SensingKeyPressed:     "sensing_keypressed",
	SensingMouseDown:      "sensing_mousedown",
	SensingMouseX:         "sensing_mousex",
	SensingMouseY:         "sensing_mousey",
	SensingSetDragMode:    "sensing_setdragmode",
	SensingLoudness:       "sensing_loudness",
	SensingTimer:          "sensing_timer",
	SensingResetTimer:     "sensing_resettimer",
	SensingOf:             "sensing_of",

	OperatorAdd:      "operator_add",
	OperatorSubtract: "operator_subtract",
	OperatorMultiply: "operator_multiply",
	OperatorDivide:   "operator_divide",
	OperatorRandom:   "operator_random",
	OperatorGt:       "operator_gt",
	OperatorLt:       "operator_lt",
	OperatorEquals:   "operator_equals",
	OperatorAnd:      "operator_and",
	OperatorOr:       "operator_or",
	OperatorNot:      "operator_not",
	OperatorJoin:     "operator_join",
	OperatorLetterOf: "operator_letter_of",
	OperatorLength:   "operator_length",
	OperatorContains: "operator_contains",
	OperatorMod:      "operator_mod",
	OperatorRound:    "operator_round",
	OperatorMathOp:   "operator_mathop",

	DataVariable:          "data_variable",
	DataSetVariableTo:     "data_setvariableto",
	DataChangeVariableBy:  "data_changevariableby",
	DataShowVariable:      "data_showvariable",
	DataHideVariable:      "data_hidevariable",
	DataListContents:      "data_listcontents",
	DataAddToList:         "data_addtolist",
	DataDeleteOfList:      "data_deleteoflist",
	DataDeleteAllOfList:   "data_deletealloflist",
	DataInsertAtList:      "data_insertatlist",
	DataReplaceItemOfList: "data_replaceitemoflist",
	DataItemOfList:        "data_itemoflist",
	DataLengthOfList:      "data_lengthoflist",
	DataShowList:          "data_showlist",
	DataHideList:          "data_hidelist",

	ProceduresPrototype:          "procedures_prototype",
	ProceduresCall:               "procedures_call",
	ArgumentReporterStringNumber: "argument_reporter_string_number",
	ArgumentReporterBoolean:      "argument_reporter_boolean",

	PenClear:                 "pen_clear",
	PenStamp:                 "pen_stamp",
	PenPenDown:               "pen_penDown",
	PenPenUp:                 "pen_penUp",
	PenSetPenColorToColor:    "pen_setPenColorToColor",
	PenChangePenColorParamBy: "pen_changePenColorParamBy",
	PenSetPenColorParamTo:    "pen_setPenColorParamTo",
	PenChangePenSizeBy:       "pen_changePenSizeBy",
	PenSetPenSizeTo:          "pen_setPenSizeTo",

	MusicPlayDrumForBeats: "music_playDrumForBeats",
	MusicRestForBeats:     "music_restForBeats",
	MusicPlayNoteForBeats: "music_playNoteForBeats",
	MusicSetInstrument:    "music_setInstrument",
	MusicSetTempo:         "music_setTempo",
	MusicChangeTempo:      "music_changeTempo",
	MusicGetTempo:         "music_getTempo",

	MotionGoToMenu:            "motion_goto_menu",
	MotionGlideToMenu:         "motion_glideto_menu",
	MotionPointTowardsMenu:    "motion_pointtowards_menu",
	LooksCostume:              "looks_costume",
	LooksBackdrops:            "looks_backdrops",
	SoundSoundsMenu:           "sound_sounds_menu",
	ControlCreateCloneOfMenu:  "control_create_clone_of_menu",
	SensingTouchingObjectMenu: "sensing_touchingobjectmenu",
	SensingDistanceToMenu:     "sensing_distancetomenu",
	SensingKeyOptions:         "sensing_keyoptions",
	SensingOfObjectMenu:       "sensing_of_object_menu",
	PenMenuColorParam:         "pen_menu_colorParam",
	MusicMenuDrum:             "music_menu_DRUM",
	MusicMenuInstrument:       "music_menu_INSTRUMENT",
}

var strToOpcode map[string]Opcode

func init() {
	strToOpcode = make(map[string]Opcode, len(opcodeStr))
	for o, s := range opcodeStr {
		if s == "" || Opcode(o) == Unknown || Opcode(o) == ExtensionCall {
			continue
		}
		strToOpcode[s] = Opcode(o)
	}
}

// String returns the opcode as written in project documents.
func (o Opcode) String() string {
	if o < 0 || int(o) >= len(opcodeStr) || opcodeStr[o] == "" {
		return opcodeStr[Unknown]
	}
	return opcodeStr[o]
}

// Parse maps a serialized opcode to the vocabulary, or Unknown.
func Parse(s string) Opcode {
	if o, ok := strToOpcode[s]; ok {
		return o
	}
	return Unknown
}

// All returns every concrete opcode of the vocabulary in declaration order.
func All() []Opcode {
	all := make([]Opcode, 0, len(strToOpcode))
	for o := EventWhenFlagClicked; int(o) < len(opcodeStr); o++ {
		if opcodeStr[o] != "" {
			all = append(all, o)
		}
	}
	return all
}

// IsHat reports whether the opcode starts a script.
func (o Opcode) IsHat() bool {
	return o > begin_hat && o < end_hat
}

// IsMenu reports whether the opcode is a shadow menu block.
func (o Opcode) IsMenu() bool {
	return o > begin_menu && o < end_menu
}

// Extension returns the id of the built-in extension providing the opcode,
// or "" for core opcodes.
func (o Opcode) Extension() string {
	s := o.String()
	switch {
	case strings.HasPrefix(s, "pen_"):
		return "pen"
	case strings.HasPrefix(s, "music_"):
		return "music"
	}
	return ""
}
