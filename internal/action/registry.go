package action

import (
	"sort"

	"github.com/mj1618/desktop-invoke/internal/model"
)

// Descriptor knows how to construct a bound, executable handler for a kind.
type Descriptor struct {
	Kind    Kind
	Params  string // positional parameter schema, for listings
	Summary string
	New     func(params model.Params) Performer
}

// registry is populated once at package initialization and never mutated.
var registry = map[Kind]Descriptor{
	KindTap: {
		Params: "[point]", Summary: "Tap the element, or a point relative to it",
		New: func(p model.Params) Performer { return Sync(tapAction{params: p}) },
	},
	KindLongPress: {
		Params: "[duration-ms]", Summary: "Press and hold (default 1s)",
		New: func(p model.Params) Performer { return Sync(longPressAction{params: p}) },
	},
	KindMultiTap: {
		Params: "taps", Summary: "Tap the element repeatedly",
		New: func(p model.Params) Performer { return Sync(multiTapAction{params: p}) },
	},
	KindTapBackspaceKey: {
		Summary: "Press the backspace key",
		New:     func(p model.Params) Performer { return Sync(typeTextAction{params: p}) },
	},
	KindTapReturnKey: {
		Summary: "Press the return key",
		New:     func(p model.Params) Performer { return Sync(typeTextAction{params: p}) },
	},
	KindTypeText: {
		Params: "text", Summary: "Type text into the element",
		New: func(p model.Params) Performer { return Sync(typeTextAction{params: p}) },
	},
	KindReplaceText: {
		Params: "text", Summary: "Replace the element's text",
		New: func(p model.Params) Performer { return Sync(replaceTextAction{params: p}) },
	},
	KindClearText: {
		Summary: "Clear the element's text",
		New:     func(p model.Params) Performer { return Sync(clearTextAction{}) },
	},
	KindScroll: {
		Params: "pixels, up|down|left|right, [start-x], [start-y]", Summary: "Scroll by an offset, optionally while a condition fails",
		New: func(p model.Params) Performer { return &scrollAction{params: p} },
	},
	KindScrollToEdge: {
		Params: "top|bottom|left|right", Summary: "Scroll to an edge",
		New: func(p model.Params) Performer { return Sync(scrollToEdgeAction{params: p}) },
	},
	KindSwipe: {
		Params: "up|down|left|right, [slow|fast], [percentage]", Summary: "Swipe across the element",
		New: func(p model.Params) Performer { return Sync(swipeAction{params: p}) },
	},
	KindPinch: {
		Params: "scale, [slow|fast], [angle]", Summary: "Pinch to a scale factor",
		New: func(p model.Params) Performer { return Sync(pinchAction{params: p}) },
	},
	KindLegacyPinch: {
		Params: "inward|outward, [slow|fast], [angle]", Summary: "Pinch in a direction",
		New: func(p model.Params) Performer { return Sync(legacyPinchAction{params: p}) },
	},
	KindAdjustSlider: {
		Params: "position", Summary: "Move a slider to a normalized position",
		New: func(p model.Params) Performer { return Sync(adjustSliderAction{params: p}) },
	},
	KindSetPickerColumn: {
		Params: "column, value", Summary: "Select a value in a picker column",
		New: func(p model.Params) Performer { return Sync(setPickerAction{params: p}) },
	},
	KindSetDatePicker: {
		Params: "date, ISO8601|pattern", Summary: "Set a date picker",
		New: func(p model.Params) Performer { return Sync(setDatePickerAction{params: p}) },
	},
	KindGetAttributes: {
		Summary: "Return the element's attributes",
		New:     func(p model.Params) Performer { return getAttributesAction{} },
	},
}

func init() {
	for k, d := range registry {
		d.Kind = k
		registry[k] = d
	}
}

// Lookup resolves a kind identifier to its descriptor.
func Lookup(kind string) (Descriptor, error) {
	d, ok := registry[Kind(kind)]
	if !ok {
		return Descriptor{}, &ContractError{Kind: Kind(kind), Err: ErrUnknownKind}
	}
	return d, nil
}

// Kinds returns every registered descriptor, sorted by kind.
func Kinds() []Descriptor {
	out := make([]Descriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
