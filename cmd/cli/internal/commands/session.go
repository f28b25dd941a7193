package commands

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/surplus/internal/session"
)

type SessionCmd struct {
	Watch SessionWatchCmd `cmd:"" help:"Keep checking the token and sign out when it expires"`
}

// SessionWatchCmd runs the expiry check in the foreground until the session
// ends or the process is interrupted.
type SessionWatchCmd struct{}

func (c *SessionWatchCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSignIn(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.watch(ctx)
}

// watch blocks until the session leaves the authenticated state or ctx is done.
func (a *app) watch(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	unsubscribe := a.session.Subscribe(func(s session.Snapshot) {
		if s.State != session.StateAuthenticated {
			cancel()
		}
	})
	defer unsubscribe()

	if exp, ok := session.ExpiresAt(a.session.Token()); ok {
		a.printf("Watching session for %s, token expires %s\n", a.session.User().Username, exp.Local().Format("2006-01-02 15:04:05"))
	}
	log.Debug().Dur("interval", a.cfg.CheckInterval).Msg("watching session")

	err := a.session.Watch(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
