package action

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Runner decodes commands and executes actions on a Scheduler, routing
// reported failures to the completion callback and contract violations to
// Fatal.
type Runner struct {
	Decoder   *Decoder
	Backend   Backend
	Scheduler Scheduler
	Log       logrus.FieldLogger

	// Fatal receives contract violations. The default logs and exits.
	Fatal func(error)
}

func (r *Runner) log() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}

func (r *Runner) fatal(err error) {
	if r.Fatal != nil {
		r.Fatal(err)
		return
	}
	r.log().Fatalf("%v", err)
}

// Invoke decodes record and performs the resulting action. Decode errors are
// returned before anything executes; done is then never called.
func (r *Runner) Invoke(ctx context.Context, record map[string]any, done func(Result)) error {
	a, err := r.Decoder.Decode(ctx, record)
	if err != nil {
		return err
	}
	r.Perform(ctx, a, done)
	return nil
}

// Perform schedules a on the Scheduler. done is called once on the
// scheduler's goroutine unless the action violates its contract.
func (r *Runner) Perform(ctx context.Context, a *Action, done func(Result)) {
	r.perform(ctx, a, done, r.fatal)
}

func (r *Runner) perform(ctx context.Context, a *Action, done func(Result), onFatal func(error)) {
	log := r.log().WithField("kind", a.Kind)
	env := Env{
		Target:    a.Target,
		Backend:   guarded{r.Backend},
		Scheduler: r.Scheduler,
		Log:       log,
	}
	r.Scheduler.Post(func() {
		log.Debugf("perform %s", a)
		a.performer.PerformAsync(ctx, env, func(res Result) {
			if res.Err != nil && IsFatal(res.Err) {
				onFatal(res.Err)
				return
			}
			if res.Err != nil {
				log.WithError(res.Err).Warn("action failed")
			}
			done(res)
		})
	})
}

// Run performs a and waits for its completion. A contract violation is
// passed to Fatal and, if Fatal returns, returned as the error.
func (r *Runner) Run(ctx context.Context, a *Action) (Result, error) {
	type outcome struct {
		res   Result
		fatal error
	}
	ch := make(chan outcome, 1)
	r.perform(ctx, a, func(res Result) {
		ch <- outcome{res: res}
	}, func(err error) {
		r.fatal(err)
		ch <- outcome{fatal: err}
	})
	select {
	case o := <-ch:
		return o.res, o.fatal
	case <-ctx.Done():
		return Result{}, fmt.Errorf("%s: %w", a.Kind, ctx.Err())
	}
}

// RunCommand decodes record and runs the resulting action.
func (r *Runner) RunCommand(ctx context.Context, record map[string]any) (*Action, Result, error) {
	a, err := r.Decoder.Decode(ctx, record)
	if err != nil {
		return nil, Result{}, err
	}
	res, err := r.Run(ctx, a)
	return a, res, err
}
