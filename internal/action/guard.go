package action

import (
	"context"
	"time"

	"github.com/mj1618/desktop-invoke/internal/model"
)

// guarded recovers panics raised inside backend primitives and reports them
// as PanicError.
type guarded struct {
	b Backend
}

func try(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Op: op, Value: r}
		}
	}()
	return fn()
}

func (g guarded) Tap(ctx context.Context, t Target) error {
	return try("tap", func() error { return g.b.Tap(ctx, t) })
}

func (g guarded) TapAt(ctx context.Context, t Target, p model.Point) error {
	return try("tap", func() error { return g.b.TapAt(ctx, t, p) })
}

func (g guarded) LongPress(ctx context.Context, t Target, d time.Duration) error {
	return try("long press", func() error { return g.b.LongPress(ctx, t, d) })
}

func (g guarded) MultiTap(ctx context.Context, t Target, taps int) error {
	return try("multi tap", func() error { return g.b.MultiTap(ctx, t, taps) })
}

func (g guarded) TypeText(ctx context.Context, t Target, text string) error {
	return try("type text", func() error { return g.b.TypeText(ctx, t, text) })
}

func (g guarded) ReplaceText(ctx context.Context, t Target, text string) error {
	return try("replace text", func() error { return g.b.ReplaceText(ctx, t, text) })
}

func (g guarded) ClearText(ctx context.Context, t Target) error {
	return try("clear text", func() error { return g.b.ClearText(ctx, t) })
}

func (g guarded) ScrollBy(ctx context.Context, t Target, offset, start model.Point) error {
	return try("scroll", func() error { return g.b.ScrollBy(ctx, t, offset, start) })
}

func (g guarded) ScrollToEdge(ctx context.Context, t Target, edge model.Point) error {
	return try("scroll to edge", func() error { return g.b.ScrollToEdge(ctx, t, edge) })
}

func (g guarded) Swipe(ctx context.Context, t Target, offset model.Point, velocity float64) error {
	return try("swipe", func() error { return g.b.Swipe(ctx, t, offset, velocity) })
}

func (g guarded) Pinch(ctx context.Context, t Target, scale, velocity, angle float64) error {
	return try("pinch", func() error { return g.b.Pinch(ctx, t, scale, velocity, angle) })
}

func (g guarded) AdjustSlider(ctx context.Context, t Target, position float64) error {
	return try("adjust slider", func() error { return g.b.AdjustSlider(ctx, t, position) })
}

func (g guarded) SetPickerColumn(ctx context.Context, t Target, column int, value string) error {
	return try("set picker column", func() error { return g.b.SetPickerColumn(ctx, t, column, value) })
}

func (g guarded) SetDate(ctx context.Context, t Target, date time.Time) error {
	return try("set date", func() error { return g.b.SetDate(ctx, t, date) })
}

func (g guarded) Attributes(ctx context.Context, t Target) (attrs map[string]any, err error) {
	err = try("get attributes", func() error {
		var inner error
		attrs, inner = g.b.Attributes(ctx, t)
		return inner
	})
	return attrs, err
}
