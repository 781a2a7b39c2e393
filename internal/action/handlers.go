package action

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mj1618/desktop-invoke/internal/model"
)

const defaultLongPress = time.Second

type tapAction struct {
	params model.Params
}

func (a tapAction) Perform(ctx context.Context, env Env) (map[string]any, error) {
	if pt, ok := a.params.OptPoint(0); ok {
		return nil, env.Backend.TapAt(ctx, env.Target, pt)
	}
	return nil, env.Backend.Tap(ctx, env.Target)
}

type longPressAction struct {
	params model.Params
}

// Perform reads the optional duration in milliseconds.
func (a longPressAction) Perform(ctx context.Context, env Env) (map[string]any, error) {
	d := defaultLongPress
	if ms, ok := a.params.OptFloat(0); ok && !math.IsNaN(ms) {
		d = time.Duration(ms * float64(time.Millisecond))
	}
	return nil, env.Backend.LongPress(ctx, env.Target, d)
}

type multiTapAction struct {
	params model.Params
}

func (a multiTapAction) Perform(ctx context.Context, env Env) (map[string]any, error) {
	taps, err := a.params.Int(0)
	if err != nil {
		return nil, contract(KindMultiTap, err)
	}
	return nil, env.Backend.MultiTap(ctx, env.Target, taps)
}

// typeTextAction also serves the backspace and return key kinds, whose
// parameters the decoder rewrites to a single literal character.
type typeTextAction struct {
	params model.Params
}

func (a typeTextAction) Perform(ctx context.Context, env Env) (map[string]any, error) {
	text, err := a.params.Text(0)
	if err != nil {
		return nil, contract(KindTypeText, err)
	}
	return nil, env.Backend.TypeText(ctx, env.Target, text)
}

type replaceTextAction struct {
	params model.Params
}

func (a replaceTextAction) Perform(ctx context.Context, env Env) (map[string]any, error) {
	text, err := a.params.Text(0)
	if err != nil {
		return nil, contract(KindReplaceText, err)
	}
	return nil, env.Backend.ReplaceText(ctx, env.Target, text)
}

type clearTextAction struct{}

func (clearTextAction) Perform(ctx context.Context, env Env) (map[string]any, error) {
	return nil, env.Backend.ClearText(ctx, env.Target)
}

var edgeOffsets = map[string]model.Point{
	"top":    {X: 0, Y: -1},
	"bottom": {X: 0, Y: 1},
	"left":   {X: -1, Y: 0},
	"right":  {X: 1, Y: 0},
}

type scrollToEdgeAction struct {
	params model.Params
}

func (a scrollToEdgeAction) Perform(ctx context.Context, env Env) (map[string]any, error) {
	edge, err := a.params.Text(0)
	if err != nil {
		return nil, contract(KindScrollToEdge, err)
	}
	offset, ok := edgeOffsets[edge]
	if !ok {
		return nil, contractf(KindScrollToEdge, "unknown scroll direction %q (expected top, bottom, left, or right)", edge)
	}
	return nil, env.Backend.ScrollToEdge(ctx, env.Target, offset)
}

var swipeOffsets = map[string]model.Point{
	"up":    {X: 0, Y: -1},
	"down":  {X: 0, Y: 1},
	"left":  {X: -1, Y: 0},
	"right": {X: 1, Y: 0},
}

// Speed labels map to velocities per gesture; each gesture keeps its own table.
var (
	swipeVelocities       = map[string]float64{"slow": 0.5, "fast": 1.0}
	pinchVelocities       = map[string]float64{"slow": 1.0, "fast": 2.0}
	legacyPinchVelocities = map[string]float64{"slow": 1.0, "fast": 2.0}
)

// velocity reads the optional speed label at position i.
func velocity(kind Kind, params model.Params, i int, table map[string]float64, def float64) (float64, error) {
	speed, ok := params.OptText(i)
	if !ok {
		return def, nil
	}
	v, ok := table[speed]
	if !ok {
		return 0, contractf(kind, "unknown speed %q (expected slow or fast)", speed)
	}
	return v, nil
}

type swipeAction struct {
	params model.Params
}

func (a swipeAction) Perform(ctx context.Context, env Env) (map[string]any, error) {
	direction, err := a.params.Text(0)
	if err != nil {
		return nil, contract(KindSwipe, err)
	}
	offset, ok := swipeOffsets[direction]
	if !ok {
		return nil, contractf(KindSwipe, "unknown swipe direction %q (expected up, down, left, or right)", direction)
	}
	v, err := velocity(KindSwipe, a.params, 1, swipeVelocities, swipeVelocities["fast"])
	if err != nil {
		return nil, err
	}
	if pct, ok := a.params.OptFloat(2); ok && !math.IsNaN(pct) {
		offset = offset.Scale(clamp(pct, 0, 1))
	}
	return nil, env.Backend.Swipe(ctx, env.Target, offset, v)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// optAngle reads the optional angle at position i, defaulting to 0.
func optAngle(params model.Params, i int) float64 {
	if angle, ok := params.OptFloat(i); ok && !math.IsNaN(angle) {
		return angle
	}
	return 0
}

type pinchAction struct {
	params model.Params
}

func (a pinchAction) Perform(ctx context.Context, env Env) (map[string]any, error) {
	scale, err := a.params.Float(0)
	if err != nil {
		return nil, contract(KindPinch, err)
	}
	if math.IsNaN(scale) || scale <= 0 {
		return nil, contractf(KindPinch, "scale must be a real number above 0.0, got %g", scale)
	}
	v, err := velocity(KindPinch, a.params, 1, pinchVelocities, pinchVelocities["fast"])
	if err != nil {
		return nil, err
	}
	return nil, env.Backend.Pinch(ctx, env.Target, scale, v, optAngle(a.params, 2))
}

var legacyPinchScales = map[string]float64{"inward": 0.75, "outward": 1.5}

type legacyPinchAction struct {
	params model.Params
}

func (a legacyPinchAction) Perform(ctx context.Context, env Env) (map[string]any, error) {
	direction, err := a.params.Text(0)
	if err != nil {
		return nil, contract(KindLegacyPinch, err)
	}
	scale, ok := legacyPinchScales[direction]
	if !ok {
		return nil, contractf(KindLegacyPinch, "unknown pinch direction %q (expected inward or outward)", direction)
	}
	v, err := velocity(KindLegacyPinch, a.params, 1, legacyPinchVelocities, legacyPinchVelocities["fast"])
	if err != nil {
		return nil, err
	}
	return nil, env.Backend.Pinch(ctx, env.Target, scale, v, optAngle(a.params, 2))
}

type adjustSliderAction struct {
	params model.Params
}

func (a adjustSliderAction) Perform(ctx context.Context, env Env) (map[string]any, error) {
	pos, err := a.params.Float(0)
	if err != nil {
		return nil, contract(KindAdjustSlider, err)
	}
	if !(pos >= 0 && pos <= 1) {
		return nil, contractf(KindAdjustSlider, "normalized position must be between 0.0 and 1.0, got %g", pos)
	}
	return nil, env.Backend.AdjustSlider(ctx, env.Target, pos)
}

type setPickerAction struct {
	params model.Params
}

func (a setPickerAction) Perform(ctx context.Context, env Env) (map[string]any, error) {
	column, err := a.params.Int(0)
	if err != nil {
		return nil, contract(KindSetPickerColumn, err)
	}
	value, err := a.params.Text(1)
	if err != nil {
		return nil, contract(KindSetPickerColumn, err)
	}
	return nil, env.Backend.SetPickerColumn(ctx, env.Target, column, value)
}

type setDatePickerAction struct {
	params model.Params
}

func (a setDatePickerAction) Perform(ctx context.Context, env Env) (map[string]any, error) {
	dateString, err := a.params.Text(0)
	if err != nil {
		return nil, contract(KindSetDatePicker, err)
	}
	format, err := a.params.Text(1)
	if err != nil {
		return nil, contract(KindSetDatePicker, err)
	}
	date, err := parseDate(dateString, format)
	if err != nil {
		env.Log.WithError(err).Debug("date parse failed")
		return nil, &AssertionError{Reason: fmt.Sprintf("Incorrect date format “%s” provided for date string “%s”", format, dateString)}
	}
	return nil, env.Backend.SetDate(ctx, env.Target, date)
}

// getAttributesAction owns its completion so retrieval failures are always
// reported rather than escaping the perform step.
type getAttributesAction struct{}

func (getAttributesAction) PerformAsync(ctx context.Context, env Env, done func(Result)) {
	attrs, err := env.Backend.Attributes(ctx, env.Target)
	if err != nil {
		done(Result{Err: fmt.Errorf("get attributes: %w", err)})
		return
	}
	done(Result{Payload: attrs})
}
