package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/surplus/internal/models"
	"github.com/wolfeidau/surplus/internal/storage"
	"github.com/wolfeidau/surplus/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// DefaultCheckInterval is how often Watch checks the token expiry.
	DefaultCheckInterval = 60 * time.Second

	// RootPath is where a logout navigates to.
	RootPath = "/"

	// SignInPath is where an API authorization failure navigates to.
	SignInPath = "/signin"
)

var (
	// ErrNotAuthenticated is returned when an operation needs a session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrIncompleteSession is returned when login is attempted without both
	// a token and a user.
	ErrIncompleteSession = errors.New("token and user are both required")
)

// State is the lifecycle state of the session.
type State int

const (
	StateInitializing State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Reason explains why a session ended.
type Reason string

const (
	ReasonSignedOut    Reason = "signed_out"
	ReasonExpired      Reason = "expired"
	ReasonUnauthorized Reason = "unauthorized"
)

// Navigator performs the full navigation that follows a logout. It stands in
// for the browser location: implementations are expected to discard any UI
// state they hold.
type Navigator interface {
	Navigate(path string, reason Reason)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string, reason Reason)

func (f NavigatorFunc) Navigate(path string, reason Reason) { f(path, reason) }

// Snapshot is a consistent view of the session at one point in time.
type Snapshot struct {
	State         State
	Token         string
	User          *models.User
	Authenticated bool
}

// Loading returns true until initialization has completed.
func (s Snapshot) Loading() bool {
	return s.State == StateInitializing
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithNavigator sets the navigator used after logout.
func WithNavigator(nav Navigator) Option {
	return func(m *Manager) { m.nav = nav }
}

// WithCheckInterval sets how often Watch checks the token.
func WithCheckInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.interval = d
		}
	}
}

// Manager is the single source of truth for who is logged in.
//
// All reads and writes of the persisted token and user go through the
// manager, which holds a lock for the duration so the pair is never observed
// half written.
type Manager struct {
	store    storage.Store
	nav      Navigator
	now      func() time.Time
	interval time.Duration

	mu    sync.Mutex
	state State
	token string
	user  *models.User

	listenersMu sync.Mutex
	listeners   []listener
	nextID      int
}

type listener struct {
	id int
	fn func(Snapshot)
}

// NewManager creates a manager in the Initializing state.
func NewManager(store storage.Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		nav:      NavigatorFunc(func(string, Reason) {}),
		now:      time.Now,
		interval: DefaultCheckInterval,
		state:    StateInitializing,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Initialize restores the persisted session. A valid pair is adopted;
// anything else is cleared from storage and the manager starts anonymous.
// Only the first call has an effect.
//
// A storage failure leaves the manager anonymous and is returned.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	if m.state != StateInitializing {
		m.mu.Unlock()
		return nil
	}

	token, user, err := m.readPersisted()
	if err != nil {
		m.setAnonymousLocked()
		snap := m.snapshotLocked()
		m.mu.Unlock()
		m.publish(snap, "initialize")
		return fmt.Errorf("failed to restore session: %w", err)
	}

	if token != "" && user != nil && !IsExpiredAt(token, m.now()) {
		m.state = StateAuthenticated
		m.token = token
		m.user = user

		log.Debug().
			Str("user", user.ID).
			Str("token", Fingerprint(token)).
			Msg("session restored")
	} else {
		m.setAnonymousLocked()
		err = m.store.Delete(storage.KeyToken, storage.KeyUser)

		log.Debug().Bool("hadToken", token != "").Bool("hadUser", user != nil).Msg("no valid session to restore")
	}

	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publish(snap, "initialize")

	if err != nil {
		return fmt.Errorf("failed to clear stale session: %w", err)
	}
	return nil
}

// Login persists the token and user in a single write and marks the session
// authenticated.
func (m *Manager) Login(token string, user models.User) error {
	if token == "" || user.ID == "" {
		return ErrIncompleteSession
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	m.mu.Lock()
	if err := m.store.SetMany(map[string]string{
		storage.KeyToken: token,
		storage.KeyUser:  string(userJSON),
	}); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to persist session: %w", err)
	}

	m.state = StateAuthenticated
	m.token = token
	m.user = &user
	snap := m.snapshotLocked()
	m.mu.Unlock()

	log.Info().
		Str("user", user.ID).
		Str("role", string(user.Role)).
		Str("token", Fingerprint(token)).
		Msg("logged in")

	m.publish(snap, "login")
	return nil
}

// UpdateUser replaces the persisted and in-memory user. The token is left as is.
func (m *Manager) UpdateUser(user models.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	m.mu.Lock()
	if m.token == "" {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}

	if err := m.store.SetMany(map[string]string{storage.KeyUser: string(userJSON)}); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to persist user: %w", err)
	}

	m.user = &user
	snap := m.snapshotLocked()
	m.mu.Unlock()

	log.Debug().Str("user", user.ID).Str("role", string(user.Role)).Msg("user updated")

	m.publish(snap, "update_user")
	return nil
}

// Logout clears the session and navigates to the root. Calling it on an
// already cleared session only repeats the navigation.
func (m *Manager) Logout() error {
	return m.end(ReasonSignedOut, RootPath)
}

// HandleUnauthorized ends the session after the API rejected the token and
// sends the user to the sign-in page. It is safe to call from any goroutine,
// any number of times.
func (m *Manager) HandleUnauthorized() {
	if err := m.end(ReasonUnauthorized, SignInPath); err != nil {
		log.Warn().Err(err).Msg("failed to clear session after authorization failure")
	}
}

// CheckExpiry logs out if the session is authenticated and the persisted token
// has expired. It returns true when a logout happened.
func (m *Manager) CheckExpiry() bool {
	telemetry.GetMetrics().SessionExpiryChecks.Add(context.Background(), 1)

	m.mu.Lock()
	authenticated := m.state == StateAuthenticated
	m.mu.Unlock()

	if !authenticated || !m.IsExpired() {
		return false
	}

	log.Info().Msg("session token expired")

	if err := m.end(ReasonExpired, RootPath); err != nil {
		log.Warn().Err(err).Msg("failed to clear expired session")
	}
	return true
}

// Watch checks the token expiry on every interval until ctx is done.
func (m *Manager) Watch(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	log.Debug().Dur("interval", m.interval).Msg("watching session expiry")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.CheckExpiry()
		}
	}
}

// IsExpired reports whether the persisted token is expired. A storage failure
// counts as expired.
func (m *Manager) IsExpired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, _, err := m.store.Get(storage.KeyToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read token")
		return true
	}

	return IsExpiredAt(token, m.now())
}

// IsAuthenticated returns true if a token and user are present and the token
// has not expired.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticatedLocked()
}

// IsLoading returns true until Initialize has completed.
func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateInitializing
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Token returns the bearer token, or an empty string when not authenticated.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.authenticatedLocked() {
		return ""
	}
	return m.token
}

// User returns a copy of the current user, or nil.
func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Snapshot returns the current session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every transition.
// Listeners are called in registration order.
// The returned function removes the subscription.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners = append(m.listeners, listener{id: id, fn: fn})

	return func() {
		m.listenersMu.Lock()
		defer m.listenersMu.Unlock()
		m.listeners = slices.DeleteFunc(m.listeners, func(l listener) bool { return l.id == id })
	}
}

// end clears the session and navigates to path.
func (m *Manager) end(reason Reason, path string) error {
	m.mu.Lock()
	hadSession := m.token != "" || m.user != nil
	wasInitializing := m.state == StateInitializing

	err := m.store.Delete(storage.KeyToken, storage.KeyUser)

	// In-memory state is cleared even when storage fails so the process
	// never keeps acting on a session it tried to end.
	m.setAnonymousLocked()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	if hadSession || wasInitializing {
		log.Info().Str("reason", string(reason)).Msg("session ended")
		m.publish(snap, string(reason))
	}

	m.nav.Navigate(path, reason)

	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// readPersisted loads the token and user. An unparseable user reads as absent.
func (m *Manager) readPersisted() (string, *models.User, error) {
	token, _, err := m.store.Get(storage.KeyToken)
	if err != nil {
		return "", nil, err
	}

	raw, ok, err := m.store.Get(storage.KeyUser)
	if err != nil {
		return "", nil, err
	}
	if !ok || raw == "" {
		return token, nil, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Debug().Err(err).Msg("discarding unreadable persisted user")
		return token, nil, nil
	}

	return token, &user, nil
}

func (m *Manager) setAnonymousLocked() {
	m.state = StateAnonymous
	m.token = ""
	m.user = nil
}

func (m *Manager) authenticatedLocked() bool {
	return m.state == StateAuthenticated &&
		m.token != "" &&
		m.user != nil &&
		!IsExpiredAt(m.token, m.now())
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:         m.state,
		Token:         m.token,
		Authenticated: m.authenticatedLocked(),
	}
	if m.user != nil {
		u := *m.user
		snap.User = &u
	}
	return snap
}

func (m *Manager) publish(snap Snapshot, event string) {
	telemetry.GetMetrics().SessionTransitionsTotal.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("event", event),
			attribute.String("state", snap.State.String()),
		))

	m.listenersMu.Lock()
	fns := make([]func(Snapshot), 0, len(m.listeners))
	for _, l := range m.listeners {
		fns = append(fns, l.fn)
	}
	m.listenersMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
