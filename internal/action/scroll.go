package action

import (
	"context"
	"math"

	"github.com/mj1618/desktop-invoke/internal/model"
	"github.com/sirupsen/logrus"
)

var scrollDirections = map[string]model.Point{
	"up":    {X: 0, Y: 1},
	"down":  {X: 0, Y: -1},
	"left":  {X: 1, Y: 0},
	"right": {X: -1, Y: 0},
}

// scrollAction scrolls once, or repeatedly while its condition fails.
type scrollAction struct {
	params model.Params
	while  Condition
}

// offsets resolves the pixel offset and the normalized starting point.
// Absent or NaN start coordinates stay NaN.
func (a *scrollAction) offsets() (offset, start model.Point, err error) {
	pixels, err := a.params.Float(0)
	if err != nil {
		return offset, start, contract(KindScroll, err)
	}
	direction, err := a.params.Text(1)
	if err != nil {
		return offset, start, contract(KindScroll, err)
	}
	unit, ok := scrollDirections[direction]
	if !ok {
		return offset, start, contractf(KindScroll, "unknown scroll direction %q (expected up, down, left, or right)", direction)
	}
	start = model.Point{X: math.NaN(), Y: math.NaN()}
	if x, ok := a.params.OptFloat(2); ok {
		start.X = x
	}
	if y, ok := a.params.OptFloat(3); ok {
		start.Y = y
	}
	return unit.Scale(pixels), start, nil
}

func (a *scrollAction) PerformAsync(ctx context.Context, env Env, done func(Result)) {
	offset, start, err := a.offsets()
	if err != nil {
		done(Result{Err: err})
		return
	}
	if a.while == nil {
		done(Result{Err: env.Backend.ScrollBy(ctx, env.Target, offset, start)})
		return
	}
	loop := &repeatLoop{
		env:    env,
		offset: offset,
		start:  start,
		cond:   a.while,
		done:   done,
	}
	loop.run(ctx)
}

type loopState int

const (
	stateEvaluating loopState = iota
	stateStepping
	stateTerminated
)

func (s loopState) String() string {
	switch s {
	case stateEvaluating:
		return "evaluating"
	case stateStepping:
		return "stepping"
	default:
		return "terminated"
	}
}

// repeatLoop alternates condition evaluation and scroll steps, yielding to
// the scheduler after every successful step. It has no iteration cap.
type repeatLoop struct {
	env    Env
	offset model.Point
	start  model.Point
	cond   Condition
	done   func(Result)

	state   loopState
	condErr error
	steps   int
}

// run advances the state machine until it terminates or yields.
func (l *repeatLoop) run(ctx context.Context) {
	for {
		switch l.state {
		case stateEvaluating:
			l.condErr = l.cond.Evaluate(ctx)
			if l.condErr == nil {
				l.finish(Result{})
				return
			}
			l.state = stateStepping
		case stateStepping:
			if err := l.env.Backend.ScrollBy(ctx, l.env.Target, l.offset, l.start); err != nil {
				l.finish(Result{Err: &CompositeError{Step: err, Condition: l.condErr}})
				return
			}
			l.steps++
			l.env.Log.WithField("steps", l.steps).Debugf("scrolled; re-checking: %v", l.condErr)
			l.state = stateEvaluating
			l.env.Scheduler.Post(func() { l.run(ctx) })
			return
		case stateTerminated:
			return
		}
	}
}

func (l *repeatLoop) finish(res Result) {
	l.state = stateTerminated
	l.env.Log.WithFields(logrus.Fields{"steps": l.steps, "ok": res.OK()}).Debug("scroll loop finished")
	l.done(res)
}
