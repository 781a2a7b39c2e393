package action

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mj1618/desktop-invoke/internal/model"
	"github.com/mj1618/desktop-invoke/internal/runloop"
	"github.com/sirupsen/logrus"
)

type call struct {
	Op   string
	Args []any
}

// fakeBackend records every primitive it receives.
type fakeBackend struct {
	calls []call
	// errs fails the named primitive on every call.
	errs map[string]error
	// scrollErrAt fails the n-th ScrollBy call (1-based, 0 = never).
	scrollErrAt int
	scrollErr   error
	attrs       map[string]any
	panicOn     string
}

func (b *fakeBackend) record(op string, args ...any) error {
	b.calls = append(b.calls, call{Op: op, Args: args})
	if op == b.panicOn {
		panic("driver exploded")
	}
	return b.errs[op]
}

func (b *fakeBackend) count(op string) int {
	n := 0
	for _, c := range b.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (b *fakeBackend) last() call {
	if len(b.calls) == 0 {
		return call{}
	}
	return b.calls[len(b.calls)-1]
}

func (b *fakeBackend) Tap(_ context.Context, _ Target) error { return b.record("tap") }
func (b *fakeBackend) TapAt(_ context.Context, _ Target, p model.Point) error {
	return b.record("tapAt", p)
}
func (b *fakeBackend) LongPress(_ context.Context, _ Target, d time.Duration) error {
	return b.record("longPress", d)
}
func (b *fakeBackend) MultiTap(_ context.Context, _ Target, taps int) error {
	return b.record("multiTap", taps)
}
func (b *fakeBackend) TypeText(_ context.Context, _ Target, text string) error {
	return b.record("typeText", text)
}
func (b *fakeBackend) ReplaceText(_ context.Context, _ Target, text string) error {
	return b.record("replaceText", text)
}
func (b *fakeBackend) ClearText(_ context.Context, _ Target) error { return b.record("clearText") }
func (b *fakeBackend) ScrollBy(_ context.Context, _ Target, offset, start model.Point) error {
	if err := b.record("scrollBy", offset, start); err != nil {
		return err
	}
	if b.scrollErrAt > 0 && b.count("scrollBy") == b.scrollErrAt {
		return b.scrollErr
	}
	return nil
}
func (b *fakeBackend) ScrollToEdge(_ context.Context, _ Target, edge model.Point) error {
	return b.record("scrollToEdge", edge)
}
func (b *fakeBackend) Swipe(_ context.Context, _ Target, offset model.Point, velocity float64) error {
	return b.record("swipe", offset, velocity)
}
func (b *fakeBackend) Pinch(_ context.Context, _ Target, scale, velocity, angle float64) error {
	return b.record("pinch", scale, velocity, angle)
}
func (b *fakeBackend) AdjustSlider(_ context.Context, _ Target, position float64) error {
	return b.record("adjustSlider", position)
}
func (b *fakeBackend) SetPickerColumn(_ context.Context, _ Target, column int, value string) error {
	return b.record("setPickerColumn", column, value)
}
func (b *fakeBackend) SetDate(_ context.Context, _ Target, date time.Time) error {
	return b.record("setDate", date)
}
func (b *fakeBackend) Attributes(_ context.Context, _ Target) (map[string]any, error) {
	if err := b.record("attributes"); err != nil {
		return nil, err
	}
	return b.attrs, nil
}

type fakeTarget string

func (t fakeTarget) String() string { return string(t) }

type fakeResolver struct {
	err   error
	calls int
}

func (r *fakeResolver) Resolve(_ context.Context, record map[string]any) (Target, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if name, ok := record["text"].(string); ok {
		return fakeTarget(name), nil
	}
	return fakeTarget("T"), nil
}

type fakeConditions struct {
	cond Condition
	err  error
}

func (p fakeConditions) ParseCondition(_ context.Context, _, _ map[string]any) (Condition, error) {
	return p.cond, p.err
}

// failingCondition fails `times` times, then holds. times < 0 never holds.
type failingCondition struct {
	times int
	msg   string
	evals int
}

func (c *failingCondition) Evaluate(context.Context) error {
	c.evals++
	if c.times < 0 || c.evals <= c.times {
		return errors.New(c.msg)
	}
	return nil
}

type harness struct {
	runner  *Runner
	backend *fakeBackend
	fatals  []error
}

func newHarness(t *testing.T, backend *fakeBackend, cond Condition) *harness {
	t.Helper()
	loop := runloop.New()
	stop := loop.Start(context.Background())
	t.Cleanup(stop)

	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)

	h := &harness{backend: backend}
	h.runner = &Runner{
		Decoder: &Decoder{
			Resolver:   &fakeResolver{},
			Conditions: fakeConditions{cond: cond},
		},
		Backend:   backend,
		Scheduler: loop,
		Log:       log,
	}
	h.runner.Fatal = func(err error) { h.fatals = append(h.fatals, err) }
	return h
}

func (h *harness) run(t *testing.T, record map[string]any) (Result, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, res, err := h.runner.RunCommand(ctx, record)
	return res, err
}

func cmd(kind string, params ...any) map[string]any {
	record := map[string]any{KeyKind: kind}
	if params != nil {
		record[KeyParams] = params
	}
	return record
}

func mustContract(t *testing.T, err error) {
	t.Helper()
	if !IsFatal(err) {
		t.Fatalf("expected contract violation, got %v", err)
	}
}
