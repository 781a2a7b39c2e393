// Package backend performs action primitives on desktop applications through
// the platform accessibility and input drivers.
package backend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/mj1618/desktop-invoke/internal/action"
	"github.com/mj1618/desktop-invoke/internal/model"
	"github.com/mj1618/desktop-invoke/internal/platform"
	"github.com/mj1618/desktop-invoke/internal/resolve"
	"github.com/sirupsen/logrus"
)

const (
	// edgeScrollPixels is large enough to reach the end of any scroll view.
	edgeScrollPixels = 1 << 15
	// swipeDuration is the drag time of a swipe at velocity 1.0.
	swipeDuration = 300 * time.Millisecond
	// settleDelay lets a click-to-focus land before keys are sent.
	settleDelay = 50 * time.Millisecond
)

// Refresher re-reads resolved targets and drops stale cached trees.
type Refresher interface {
	Refresh(ctx context.Context, t *resolve.Target) (*resolve.Target, error)
	Invalidate(scope platform.Scope)
}

// Desktop implements action.Backend on top of a platform.Provider.
type Desktop struct {
	Provider  *platform.Provider
	Refresher Refresher
	Log       logrus.FieldLogger

	// KeyDelayMs is the delay between typed characters.
	KeyDelayMs int
	sleep      func(time.Duration)
}

// NewDesktop returns a Desktop backend over provider.
func NewDesktop(provider *platform.Provider, refresher Refresher, log logrus.FieldLogger) *Desktop {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Desktop{Provider: provider, Refresher: refresher, Log: log, sleep: time.Sleep}
}

var _ action.Backend = (*Desktop)(nil)

func errUnavailable(what string) error {
	return fmt.Errorf("%s not available on this platform", what)
}

// begin checks ctx and unwraps the target.
func (d *Desktop) begin(ctx context.Context, op string, t action.Target) (*resolve.Target, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rt, ok := t.(*resolve.Target)
	if !ok {
		return nil, fmt.Errorf("%s: unsupported target type %T", op, t)
	}
	d.Log.WithFields(logrus.Fields{"op": op, "target": rt.String()}).Debug("backend primitive")
	return rt, nil
}

// wrote marks the target's window as changed.
func (d *Desktop) wrote(rt *resolve.Target) {
	if d.Refresher != nil {
		d.Refresher.Invalidate(rt.Query.Scope)
	}
}

func (d *Desktop) inputter() (platform.Inputter, error) {
	if d.Provider == nil || d.Provider.Inputter == nil {
		return nil, errUnavailable("input simulation")
	}
	return d.Provider.Inputter, nil
}

func (d *Desktop) pause(dur time.Duration) {
	if d.sleep != nil {
		d.sleep(dur)
	}
}

func (d *Desktop) Tap(ctx context.Context, t action.Target) error {
	rt, err := d.begin(ctx, "tap", t)
	if err != nil {
		return err
	}
	defer d.wrote(rt)
	if d.Provider != nil && d.Provider.ActionPerformer != nil && rt.Element.HasAction("press") {
		return d.Provider.ActionPerformer.PerformAction(platform.ActionOptions{
			Scope:  rt.Query.Scope,
			ID:     rt.Element.ID,
			Action: "press",
		})
	}
	in, err := d.inputter()
	if err != nil {
		return err
	}
	x, y := rt.Element.Center()
	return in.Click(x, y, platform.MouseLeft, 1)
}

// TapAt clicks at a point relative to the element's top-left corner.
func (d *Desktop) TapAt(ctx context.Context, t action.Target, p model.Point) error {
	rt, err := d.begin(ctx, "tapAt", t)
	if err != nil {
		return err
	}
	defer d.wrote(rt)
	in, err := d.inputter()
	if err != nil {
		return err
	}
	x := rt.Element.Bounds[0] + round(p.X)
	y := rt.Element.Bounds[1] + round(p.Y)
	return in.Click(x, y, platform.MouseLeft, 1)
}

func (d *Desktop) LongPress(ctx context.Context, t action.Target, dur time.Duration) error {
	rt, err := d.begin(ctx, "longPress", t)
	if err != nil {
		return err
	}
	defer d.wrote(rt)
	in, err := d.inputter()
	if err != nil {
		return err
	}
	x, y := rt.Element.Center()
	return in.PressAndHold(x, y, dur)
}

func (d *Desktop) MultiTap(ctx context.Context, t action.Target, taps int) error {
	rt, err := d.begin(ctx, "multiTap", t)
	if err != nil {
		return err
	}
	if taps < 1 {
		return fmt.Errorf("tap count must be at least 1, got %d", taps)
	}
	defer d.wrote(rt)
	in, err := d.inputter()
	if err != nil {
		return err
	}
	x, y := rt.Element.Center()
	return in.Click(x, y, platform.MouseLeft, taps)
}

// focus clicks the element unless it already has keyboard focus.
func (d *Desktop) focus(in platform.Inputter, el model.Element) error {
	if el.Focused {
		return nil
	}
	x, y := el.Center()
	if err := in.Click(x, y, platform.MouseLeft, 1); err != nil {
		return fmt.Errorf("failed to focus: %w", err)
	}
	d.pause(settleDelay)
	return nil
}

// TypeText focuses the element and types text. Backspace and newline
// characters are sent as key presses.
func (d *Desktop) TypeText(ctx context.Context, t action.Target, text string) error {
	rt, err := d.begin(ctx, "typeText", t)
	if err != nil {
		return err
	}
	defer d.wrote(rt)
	in, err := d.inputter()
	if err != nil {
		return err
	}
	if err := d.focus(in, rt.Element); err != nil {
		return err
	}
	return d.typeKeys(in, text)
}

var controlKeys = map[rune]string{
	'\b': "backspace",
	'\n': "return",
}

func (d *Desktop) typeKeys(in platform.Inputter, text string) error {
	var run strings.Builder
	flush := func() error {
		if run.Len() == 0 {
			return nil
		}
		defer run.Reset()
		return in.TypeText(run.String(), d.KeyDelayMs)
	}
	for _, r := range text {
		key, ok := controlKeys[r]
		if !ok {
			run.WriteRune(r)
			continue
		}
		if err := flush(); err != nil {
			return err
		}
		if err := in.KeyCombo([]string{key}); err != nil {
			return fmt.Errorf("press %s: %w", key, err)
		}
	}
	return flush()
}

// ReplaceText writes the element's value directly, falling back to
// select-all and typing when attributes cannot be written.
func (d *Desktop) ReplaceText(ctx context.Context, t action.Target, text string) error {
	rt, err := d.begin(ctx, "replaceText", t)
	if err != nil {
		return err
	}
	defer d.wrote(rt)
	return d.replace(rt, text)
}

func (d *Desktop) replace(rt *resolve.Target, text string) error {
	if d.Provider != nil && d.Provider.ValueSetter != nil {
		return d.setValue(rt, text)
	}
	in, err := d.inputter()
	if err != nil {
		return err
	}
	if err := d.focus(in, rt.Element); err != nil {
		return err
	}
	if err := in.KeyCombo([]string{selectAllModifier(), "a"}); err != nil {
		return fmt.Errorf("select all failed: %w", err)
	}
	if text == "" {
		return in.KeyCombo([]string{"backspace"})
	}
	return in.TypeText(text, d.KeyDelayMs)
}

func selectAllModifier() string {
	if runtime.GOOS == "darwin" {
		return "cmd"
	}
	return "ctrl"
}

func (d *Desktop) ClearText(ctx context.Context, t action.Target) error {
	rt, err := d.begin(ctx, "clearText", t)
	if err != nil {
		return err
	}
	defer d.wrote(rt)
	return d.replace(rt, "")
}

// point maps normalized element coordinates to the screen. NaN coordinates
// select the element's center on that axis.
func point(el model.Element, normalized model.Point) (x, y int) {
	x, y = el.Center()
	if !math.IsNaN(normalized.X) {
		x = el.Bounds[0] + round(normalized.X*float64(el.Bounds[2]))
	}
	if !math.IsNaN(normalized.Y) {
		y = el.Bounds[1] + round(normalized.Y*float64(el.Bounds[3]))
	}
	return x, y
}

func (d *Desktop) ScrollBy(ctx context.Context, t action.Target, offset, start model.Point) error {
	rt, err := d.begin(ctx, "scrollBy", t)
	if err != nil {
		return err
	}
	defer d.wrote(rt)
	in, err := d.inputter()
	if err != nil {
		return err
	}
	x, y := point(rt.Element, start)
	return in.Scroll(x, y, round(offset.X), round(offset.Y))
}

// ScrollToEdge scrolls far enough toward edge to reach it. Edge vectors
// point at the edge, so the scroll delta runs the other way.
func (d *Desktop) ScrollToEdge(ctx context.Context, t action.Target, edge model.Point) error {
	rt, err := d.begin(ctx, "scrollToEdge", t)
	if err != nil {
		return err
	}
	defer d.wrote(rt)
	in, err := d.inputter()
	if err != nil {
		return err
	}
	x, y := rt.Element.Center()
	delta := edge.Scale(-edgeScrollPixels)
	return in.Scroll(x, y, round(delta.X), round(delta.Y))
}

// Swipe drags from the element's center by offset, given as a fraction of
// the element's size. Faster swipes take proportionally less time.
func (d *Desktop) Swipe(ctx context.Context, t action.Target, offset model.Point, velocity float64) error {
	rt, err := d.begin(ctx, "swipe", t)
	if err != nil {
		return err
	}
	if !(velocity > 0) {
		return fmt.Errorf("swipe velocity must be positive, got %g", velocity)
	}
	defer d.wrote(rt)
	in, err := d.inputter()
	if err != nil {
		return err
	}
	fx, fy := rt.Element.Center()
	tx := fx + round(offset.X*float64(rt.Element.Bounds[2])/2)
	ty := fy + round(offset.Y*float64(rt.Element.Bounds[3])/2)
	dur := time.Duration(float64(swipeDuration) / velocity)
	return in.Drag(fx, fy, tx, ty, dur)
}

// Pinch has no single-pointer equivalent.
func (d *Desktop) Pinch(ctx context.Context, t action.Target, scale, velocity, angle float64) error {
	if _, err := d.begin(ctx, "pinch", t); err != nil {
		return err
	}
	return fmt.Errorf("pinch (scale %g) needs multi-touch input: %w", scale, errors.ErrUnsupported)
}

// AdjustSlider clicks the slider track at position. Sliders taller than
// wide are treated as vertical with 0 at the bottom.
func (d *Desktop) AdjustSlider(ctx context.Context, t action.Target, position float64) error {
	rt, err := d.begin(ctx, "adjustSlider", t)
	if err != nil {
		return err
	}
	defer d.wrote(rt)
	in, err := d.inputter()
	if err != nil {
		return err
	}
	b := rt.Element.Bounds
	x, y := rt.Element.Center()
	if b[3] > b[2] {
		y = b[1] + b[3] - round(position*float64(b[3]))
	} else {
		x = b[0] + round(position*float64(b[2]))
	}
	return in.Click(x, y, platform.MouseLeft, 1)
}

// SetPickerColumn selects value in a pop-up picker. Desktop pickers have a
// single column.
func (d *Desktop) SetPickerColumn(ctx context.Context, t action.Target, column int, value string) error {
	rt, err := d.begin(ctx, "setPickerColumn", t)
	if err != nil {
		return err
	}
	if column != 0 {
		return fmt.Errorf("picker has a single column, got column %d", column)
	}
	defer d.wrote(rt)
	return d.setValue(rt, value)
}

// SetDate writes the date to the element as RFC 3339 text.
func (d *Desktop) SetDate(ctx context.Context, t action.Target, date time.Time) error {
	rt, err := d.begin(ctx, "setDate", t)
	if err != nil {
		return err
	}
	defer d.wrote(rt)
	return d.setValue(rt, date.Format(time.RFC3339))
}

func (d *Desktop) setValue(rt *resolve.Target, value string) error {
	if d.Provider == nil || d.Provider.ValueSetter == nil {
		return errUnavailable("set-value")
	}
	return d.Provider.ValueSetter.SetValue(platform.SetValueOptions{
		Scope:     rt.Query.Scope,
		ID:        rt.Element.ID,
		Value:     value,
		Attribute: "value",
	})
}

// Attributes re-reads the element and returns its properties.
func (d *Desktop) Attributes(ctx context.Context, t action.Target) (map[string]any, error) {
	rt, err := d.begin(ctx, "attributes", t)
	if err != nil {
		return nil, err
	}
	if d.Refresher == nil {
		return rt.Element.Attributes(), nil
	}
	fresh, err := d.Refresher.Refresh(ctx, rt)
	if err != nil {
		return nil, err
	}
	return fresh.Element.Attributes(), nil
}

func round(f float64) int {
	return int(math.Round(f))
}
