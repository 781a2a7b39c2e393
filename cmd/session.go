package cmd

import (
	"context"

	"github.com/mj1618/desktop-invoke/internal/action"
	"github.com/mj1618/desktop-invoke/internal/backend"
	"github.com/mj1618/desktop-invoke/internal/expect"
	"github.com/mj1618/desktop-invoke/internal/platform"
	"github.com/mj1618/desktop-invoke/internal/resolve"
	"github.com/mj1618/desktop-invoke/internal/runloop"
	"github.com/sirupsen/logrus"
)

// newProvider is swapped by tests.
var newProvider = platform.NewProvider

// session wires the runner to the desktop.
type session struct {
	runner   *action.Runner
	resolver *resolve.Resolver
	stop     func()
}

// newSession starts a run loop and builds a runner over the platform
// provider. fatal replaces the runner's default log-and-exit hook when set.
func newSession(ctx context.Context, log logrus.FieldLogger, fatal func(error)) (*session, error) {
	provider, err := newProvider()
	if err != nil {
		return nil, err
	}
	resolver := resolve.New(provider.Reader, cfg.CacheTTL, log)
	loop := runloop.New()
	rt := &session{
		resolver: resolver,
		runner: &action.Runner{
			Decoder: &action.Decoder{
				Resolver:   resolver,
				Conditions: expect.Parser{Finder: resolver},
			},
			Backend:   backend.NewDesktop(provider, resolver, log),
			Scheduler: loop,
			Log:       log,
			Fatal:     fatal,
		},
	}
	stop := loop.Start(ctx)
	rt.stop = func() {
		stop()
		log.WithField("pending", loop.Pending()).Debug("run loop stopped")
	}
	return rt, nil
}
