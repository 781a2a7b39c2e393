package action

// Kind identifies an action's interaction behavior and parameter schema.
type Kind string

const (
	KindTap       Kind = "tap"
	KindLongPress Kind = "longPress"
	KindMultiTap  Kind = "multiTap"

	KindTapBackspaceKey Kind = "tapBackspaceKey"
	KindTapReturnKey    Kind = "tapReturnKey"
	KindTypeText        Kind = "typeText"
	KindReplaceText     Kind = "replaceText"
	KindClearText       Kind = "clearText"

	KindScroll       Kind = "scroll"
	KindScrollToEdge Kind = "scrollTo"

	KindSwipe       Kind = "swipe"
	KindPinch       Kind = "pinch"
	KindLegacyPinch Kind = "pinchWithAngle"

	KindAdjustSlider Kind = "adjustSliderToPosition"

	KindSetPickerColumn Kind = "setColumnToValue"
	KindSetDatePicker   Kind = "setDatePickerDate"

	KindGetAttributes Kind = "getAttributes"
)

// Literal text typed by the key-press kinds.
const (
	backspaceText = "\b"
	returnText    = "\n"
)
