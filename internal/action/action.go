// Package action decodes UI interaction commands into executable actions,
// dispatches them to per-kind handlers and reports their completion.
package action

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mj1618/desktop-invoke/internal/model"
	"github.com/sirupsen/logrus"
)

// Target is an opaque reference to the UI element an action operates on.
// Actions never inspect it; it is handed to the Backend unchanged.
type Target interface {
	String() string
}

// Condition is an external predicate. Evaluate returns nil when the
// condition holds and a failure describing why it does not otherwise.
type Condition interface {
	Evaluate(ctx context.Context) error
}

// Scheduler is the host's cooperative scheduler. Posted tasks run one at a
// time, in order, on the host's control goroutine.
type Scheduler interface {
	Post(task func())
}

// Backend performs interaction primitives against a target.
type Backend interface {
	Tap(ctx context.Context, t Target) error
	TapAt(ctx context.Context, t Target, p model.Point) error
	LongPress(ctx context.Context, t Target, d time.Duration) error
	MultiTap(ctx context.Context, t Target, taps int) error
	TypeText(ctx context.Context, t Target, text string) error
	ReplaceText(ctx context.Context, t Target, text string) error
	ClearText(ctx context.Context, t Target) error
	// ScrollBy scrolls by a pixel offset. NaN start coordinates select the
	// backend's default starting point.
	ScrollBy(ctx context.Context, t Target, offset, normalizedStart model.Point) error
	ScrollToEdge(ctx context.Context, t Target, edge model.Point) error
	Swipe(ctx context.Context, t Target, normalizedOffset model.Point, velocity float64) error
	Pinch(ctx context.Context, t Target, scale, velocity, angle float64) error
	AdjustSlider(ctx context.Context, t Target, position float64) error
	SetPickerColumn(ctx context.Context, t Target, column int, value string) error
	SetDate(ctx context.Context, t Target, date time.Time) error
	Attributes(ctx context.Context, t Target) (map[string]any, error)
}

// Env is what a handler executes against.
type Env struct {
	Target    Target
	Backend   Backend
	Scheduler Scheduler
	Log       logrus.FieldLogger
}

// Result is the outcome of an action: a payload on success or an error.
type Result struct {
	Payload map[string]any
	Err     error
}

// OK reports whether the result is a success.
func (r Result) OK() bool { return r.Err == nil }

// Performer is the execution contract every kind satisfies. done is called
// exactly once.
type Performer interface {
	PerformAsync(ctx context.Context, env Env, done func(Result))
}

// Handler is implemented by kinds that complete synchronously.
type Handler interface {
	Perform(ctx context.Context, env Env) (map[string]any, error)
}

// Sync adapts a synchronous handler to the Performer contract by completing
// immediately with its return value.
func Sync(h Handler) Performer {
	return syncPerformer{h}
}

type syncPerformer struct {
	h Handler
}

func (s syncPerformer) PerformAsync(ctx context.Context, env Env, done func(Result)) {
	payload, err := s.h.Perform(ctx, env)
	done(Result{Payload: payload, Err: err})
}

// Action is a decoded command bound to its target. It is executed once.
type Action struct {
	Kind   Kind
	Params model.Params
	Target Target
	// While is only set for scroll actions decoded with a condition.
	While Condition

	performer Performer
}

// String renders the action as KIND(params) WITH target.
func (a *Action) String() string {
	var params string
	if a.Params != nil {
		params = "(" + a.Params.String() + ")"
	}
	target := "<nil>"
	if a.Target != nil {
		target = a.Target.String()
	}
	return fmt.Sprintf("%s%s WITH %s", strings.ToUpper(string(a.Kind)), params, target)
}
