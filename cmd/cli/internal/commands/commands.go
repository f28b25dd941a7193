package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/surplus/internal/client"
	"github.com/wolfeidau/surplus/internal/config"
	"github.com/wolfeidau/surplus/internal/models"
	"github.com/wolfeidau/surplus/internal/session"
	"github.com/wolfeidau/surplus/internal/storage"
)

var (
	errSignInRequired = errors.New("not signed in\n\nSign in with:\n  surplus login --email <email>")
	errSellerRequired = errors.New("a seller account is required\n\nUpgrade with:\n  surplus become-seller")
)

type Globals struct {
	Debug    bool
	Version  string
	Config   string
	APIURL   string
	StateDir string

	// Stdout receives command output, os.Stdout when nil.
	Stdout io.Writer

	cfg *config.Config
}

// LoadConfig reads the config file once and applies flag overrides.
func (g *Globals) LoadConfig() (config.Config, error) {
	if g.cfg != nil {
		return *g.cfg, nil
	}

	cfg, err := config.Load(nil, g.Config)
	if err != nil {
		return cfg, err
	}
	if g.APIURL != "" {
		cfg.APIURL = g.APIURL
	}
	if g.StateDir != "" {
		cfg.StateDir = g.StateDir
	}

	g.cfg = &cfg
	return cfg, nil
}

func (g *Globals) out() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// app wires the session, storage and API client for one command.
type app struct {
	cfg     config.Config
	session *session.Manager
	api     *client.Client
	out     io.Writer
}

func newApp(globals *Globals) (*app, error) {
	cfg, err := globals.LoadConfig()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewFileStore(nil, cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open session state: %w", err)
	}

	out := globals.out()
	mgr := session.NewManager(store,
		session.WithNavigator(terminalNavigator{out: out}),
		session.WithCheckInterval(cfg.CheckInterval),
	)

	if err := mgr.Initialize(); err != nil {
		// the manager falls back to a signed out session
		log.Warn().Err(err).Str("path", store.Path()).Msg("failed to restore session")
	}

	return &app{
		cfg:     cfg,
		session: mgr,
		api:     client.New(cfg.ClientConfig(globals.Debug), mgr),
		out:     out,
	}, nil
}

// guard turns a redirect decision into an error telling the user what to do.
func (a *app) guard(g session.Guard) error {
	d := a.session.Evaluate(g)
	switch d.Action {
	case session.ActionAllow:
		return nil
	case session.ActionRedirect:
		if d.To == session.SignInPath {
			return errSignInRequired
		}
		if d.To == session.RootPath && a.session.IsAuthenticated() {
			return fmt.Errorf("already signed in as %s", a.session.User().Username)
		}
		return errSellerRequired
	default:
		return errors.New("session is still loading")
	}
}

func (a *app) requireSignIn() error {
	return a.guard(session.Private(""))
}

func (a *app) requireSeller() error {
	return a.guard(session.RequireRole(models.RoleSeller, "/become-seller"))
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// terminalNavigator reports session endings on the terminal.
type terminalNavigator struct {
	out io.Writer
}

func (n terminalNavigator) Navigate(path string, reason session.Reason) {
	switch reason {
	case session.ReasonExpired, session.ReasonUnauthorized:
		fmt.Fprintln(n.out, "Session expired. Please login again.")
	}
	log.Debug().Str("path", path).Str("reason", string(reason)).Msg("navigate")
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
