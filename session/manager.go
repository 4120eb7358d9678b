// Package session implements the authentication lifecycle manager: login,
// registration, logout, bootstrap-on-start, user hydration, and the scheduled
// silent token refresh.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jharlow/go-storefront-client/api"
	"github.com/jharlow/go-storefront-client/token"
	"github.com/jharlow/go-storefront-client/users"
)

const (
	loginPath    = "auth/login/"
	registerPath = "auth/register/"
	refreshPath  = "auth/refresh/"
	logoutPath   = "auth/logout/"
	identityPath = "auth/me/"

	defaultRefreshMargin   = 30 * time.Second
	defaultMinRefreshDelay = 5 * time.Second
	defaultMaxRefreshDelay = 12 * time.Hour
	defaultRequestTimeout  = 15 * time.Second
)

// State is the lifecycle state of the session.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateBootstrapping State = "bootstrapping"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

// Snapshot is the public view of the session handed to subscribers. Loading
// is true only during the initial bootstrap attempt, never afterwards.
type Snapshot struct {
	State   State
	User    *users.AuthUser
	Loading bool
}

// Authenticated reports whether the session holds both tokens and a user.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

// Credentials are the login request fields.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration are the registration request fields, snake_case on the wire.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Manager owns the session state machine. All state transitions that change
// tokens write through to the token store in the same call, so a restart
// immediately after any operation observes consistent state.
type Manager struct {
	backend *api.Client
	store   token.Store
	clock   Clock
	logger  zerolog.Logger

	refreshMargin   time.Duration
	minRefreshDelay time.Duration
	maxRefreshDelay time.Duration
	requestTimeout  time.Duration

	lock        sync.Mutex
	state       State
	user        *users.AuthUser
	tokens      *token.Tokens
	loading     bool
	gen         uint64
	timer       Timer
	subscribers map[uint64]func(Snapshot)
	nextSubID   uint64
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithClock sets the clock (primarily for testing).
func WithClock(clock Clock) ManagerOption {
	return func(m *Manager) {
		m.clock = clock
	}
}

// WithLogger sets the logger for background operations.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithRefreshMargin sets how long before access-token expiry the silent
// refresh fires.
func WithRefreshMargin(margin time.Duration) ManagerOption {
	return func(m *Manager) {
		m.refreshMargin = margin
	}
}

// WithRefreshDelayBounds clamps the silent-refresh timer delay.
func WithRefreshDelayBounds(min, max time.Duration) ManagerOption {
	return func(m *Manager) {
		m.minRefreshDelay = min
		m.maxRefreshDelay = max
	}
}

// NewManager initializes a Manager with required dependencies. Optional
// configuration can be provided via options (e.g. WithClock for testing).
func NewManager(backend *api.Client, store token.Store, options ...ManagerOption) (*Manager, error) {
	if backend == nil {
		return nil, errors.New("[NewManager] backend client is required")
	}
	if store == nil {
		return nil, errors.New("[NewManager] token store is required")
	}

	manager := &Manager{
		backend:         backend,
		store:           store,
		clock:           NewSystemClock(),
		logger:          zerolog.Nop(),
		refreshMargin:   defaultRefreshMargin,
		minRefreshDelay: defaultMinRefreshDelay,
		maxRefreshDelay: defaultMaxRefreshDelay,
		requestTimeout:  defaultRequestTimeout,
		state:           StateUninitialized,
		subscribers:     make(map[uint64]func(Snapshot)),
	}

	for _, opt := range options {
		opt(manager)
	}

	return manager, nil
}

// Subscribe registers a callback invoked after every state transition. The
// returned function unsubscribes it.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.lock.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.lock.Unlock()

	return func() {
		m.lock.Lock()
		delete(m.subscribers, id)
		m.lock.Unlock()
	}
}

// Snapshot returns the current session view.
func (m *Manager) Snapshot() Snapshot {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.snapshotLocked()
}

// IsAuthenticated reports whether the session holds both tokens and a user.
func (m *Manager) IsAuthenticated() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.state == StateAuthenticated && m.tokens != nil && m.user != nil
}

// AccessToken returns the current access token, or "" when anonymous. Wire
// this into the API client's token source.
func (m *Manager) AccessToken() string {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.tokens == nil {
		return ""
	}
	return m.tokens.Access
}

// Bootstrap restores a stored session, hydrating the user from the backend.
// It runs once; later calls are no-ops. Bootstrap never fails to a caller:
// any error drops the session to anonymous and clears the store.
func (m *Manager) Bootstrap(ctx context.Context) {
	m.lock.Lock()
	if m.state != StateUninitialized {
		m.lock.Unlock()
		return
	}
	m.state = StateBootstrapping
	m.loading = true
	m.lock.Unlock()
	m.notify()

	// Guaranteed finalizer: the loading flag clears exactly once no matter
	// which branch ran.
	defer func() {
		m.lock.Lock()
		m.loading = false
		m.lock.Unlock()
		m.notify()
	}()

	stored, err := m.store.Read()
	if err != nil {
		m.logger.Warn().Err(err).Msg("token store read failed during bootstrap")
	}
	if stored == nil {
		m.lock.Lock()
		m.state = StateAnonymous
		m.lock.Unlock()
		return
	}

	m.lock.Lock()
	gen := m.setTokensLocked(stored)
	m.lock.Unlock()

	user, err := m.hydrate(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("bootstrap hydration failed, dropping stored session")
		m.invalidate(gen)
		return
	}
	m.completeAuth(gen, user)
}

// Login authenticates with the backend and hydrates the user. The operation
// is all-or-nothing: if hydration fails after a successful token grant, the
// tokens are rolled back and the session stays anonymous.
func (m *Manager) Login(ctx context.Context, creds Credentials) error {
	var resp struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := m.backend.Post(ctx, loginPath, creds, &resp); err != nil {
		return loginError(err)
	}
	if resp.Access == "" || resp.Refresh == "" {
		return errors.Wrap(ErrProtocol, "[Manager.Login] token fields missing from login response")
	}

	m.lock.Lock()
	gen := m.setTokensLocked(&token.Tokens{Access: resp.Access, Refresh: resp.Refresh})
	m.lock.Unlock()

	user, err := m.hydrate(ctx)
	if err != nil {
		m.invalidate(gen)
		return errors.Wrap(err, "[Manager.Login] hydration after login")
	}
	if !m.completeAuth(gen, user) {
		return errors.New("[Manager.Login] session superseded during login")
	}
	return nil
}

// Register creates an account and signs it in. A failed sign-in after a
// successful registration surfaces ErrAutoLoginFailed, not the login error,
// so the UI steers the user to log in manually instead of re-registering.
func (m *Manager) Register(ctx context.Context, reg Registration) error {
	if err := m.backend.Post(ctx, registerPath, reg, nil); err != nil {
		return registrationError(err)
	}

	if err := m.Login(ctx, Credentials{Username: reg.Username, Password: reg.Password}); err != nil {
		m.logger.Warn().Err(err).Str("username", reg.Username).Msg("auto sign-in after registration failed")
		return ErrAutoLoginFailed
	}
	return nil
}

// Logout ends the session. The server-side revocation is best effort; the
// local session is cleared unconditionally even when the backend is
// unreachable.
func (m *Manager) Logout(ctx context.Context) {
	m.lock.Lock()
	var refresh string
	if m.tokens != nil {
		refresh = m.tokens.Refresh
	}
	m.lock.Unlock()

	if refresh != "" {
		body := struct {
			Refresh string `json:"refresh"`
		}{Refresh: refresh}
		if err := m.backend.Post(ctx, logoutPath, body, nil); err != nil {
			m.logger.Warn().Err(err).Msg("logout request failed, clearing local session anyway")
		}
	}

	m.lock.Lock()
	m.setTokensLocked(nil)
	m.user = nil
	m.state = StateAnonymous
	m.lock.Unlock()
	m.notify()
}

// RefreshUser re-runs identity and profile hydration against the current
// access token. Any failure invalidates the whole session: hydration only
// fails this way when the token itself is no longer honored.
func (m *Manager) RefreshUser(ctx context.Context) error {
	m.lock.Lock()
	if m.tokens == nil {
		m.lock.Unlock()
		return ErrNotAuthenticated
	}
	gen := m.gen
	m.lock.Unlock()

	user, err := m.hydrate(ctx)
	if err != nil {
		m.invalidate(gen)
		return errors.Wrap(err, "[Manager.RefreshUser] hydration")
	}

	m.lock.Lock()
	if m.gen == gen {
		m.user = &user
	}
	m.lock.Unlock()
	m.notify()
	return nil
}

// hydrate fetches the identity record and, best effort, the profile record,
// composing the AuthUser view. Identity failure is fatal; profile failure is
// logged and tolerated.
func (m *Manager) hydrate(ctx context.Context) (users.AuthUser, error) {
	var identity users.Identity
	if err := m.backend.Get(ctx, identityPath, nil, &identity); err != nil {
		return users.AuthUser{}, errors.Wrap(err, "[Manager.hydrate] identity fetch")
	}
	if identity.ID == 0 {
		return users.AuthUser{}, errors.Wrap(ErrProtocol, "[Manager.hydrate] identity response missing id")
	}

	var profile *users.Profile
	var fetched users.Profile
	if err := m.backend.Get(ctx, fmt.Sprintf("users/%d/", identity.ID), nil, &fetched); err != nil {
		m.logger.Warn().Err(err).Int64("user_id", identity.ID).Msg("profile fetch failed, composing identity-only user")
	} else {
		profile = &fetched
	}

	return users.Compose(identity, profile), nil
}

// setTokensLocked replaces the in-memory pair, mirrors it to the store in the
// same call, cancels any armed refresh timer, and bumps the generation so
// stale async completions are ignored. Caller holds the lock.
func (m *Manager) setTokensLocked(t *token.Tokens) uint64 {
	m.gen++
	m.tokens = t
	m.stopTimerLocked()

	if t == nil {
		if err := m.store.Clear(); err != nil {
			m.logger.Warn().Err(err).Msg("token store clear failed")
		}
	} else {
		if err := m.store.Write(*t); err != nil {
			m.logger.Warn().Err(err).Msg("token store write failed")
		}
	}
	return m.gen
}

// invalidate drops the session to anonymous, unless a newer operation already
// superseded generation gen.
func (m *Manager) invalidate(gen uint64) {
	m.lock.Lock()
	if m.gen != gen {
		m.lock.Unlock()
		return
	}
	m.setTokensLocked(nil)
	m.user = nil
	m.state = StateAnonymous
	m.lock.Unlock()
	m.notify()
}

// completeAuth installs the hydrated user and arms the silent refresh,
// unless generation gen was superseded (e.g. a logout raced the hydration).
func (m *Manager) completeAuth(gen uint64, user users.AuthUser) bool {
	m.lock.Lock()
	if m.gen != gen {
		m.lock.Unlock()
		return false
	}
	m.user = &user
	m.state = StateAuthenticated
	m.armRefreshLocked()
	m.lock.Unlock()
	m.notify()
	return true
}

// armRefreshLocked schedules the silent refresh. Exactly one timer is pending
// at a time; arming always cancels the previous one. Caller holds the lock.
func (m *Manager) armRefreshLocked() {
	m.stopTimerLocked()
	if m.tokens == nil {
		return
	}

	delay := m.maxRefreshDelay
	if expiry, ok := token.Expiry(m.tokens.Access); ok {
		delay = expiry.Sub(m.clock.Now()) - m.refreshMargin
	} else {
		m.logger.Debug().Msg("access token expiry unreadable, using max refresh delay")
	}
	if delay < m.minRefreshDelay {
		delay = m.minRefreshDelay
	}
	if delay > m.maxRefreshDelay {
		delay = m.maxRefreshDelay
	}

	gen := m.gen
	m.timer = m.clock.AfterFunc(delay, func() {
		m.refreshTokens(gen)
	})
	m.logger.Debug().Dur("delay", delay).Msg("silent refresh armed")
}

func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// refreshTokens runs the refresh-token grant when the timer fires. On success
// the access token is replaced, the refresh token is reused, and a new timer
// is armed. On failure the session is invalidated.
func (m *Manager) refreshTokens(gen uint64) {
	m.lock.Lock()
	if m.gen != gen || m.tokens == nil {
		m.lock.Unlock()
		return
	}
	refresh := m.tokens.Refresh
	m.lock.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), m.requestTimeout)
	defer cancel()

	body := struct {
		Refresh string `json:"refresh"`
	}{Refresh: refresh}
	var resp struct {
		Access string `json:"access"`
	}
	if err := m.backend.Post(ctx, refreshPath, body, &resp); err != nil || resp.Access == "" {
		m.logger.Warn().Err(err).Msg("silent refresh failed, invalidating session")
		m.invalidate(gen)
		return
	}

	m.lock.Lock()
	if m.gen != gen {
		m.lock.Unlock()
		return
	}
	m.setTokensLocked(&token.Tokens{Access: resp.Access, Refresh: refresh})
	m.armRefreshLocked()
	m.lock.Unlock()
	m.logger.Debug().Msg("access token silently refreshed")
}

func (m *Manager) snapshotLocked() Snapshot {
	var user *users.AuthUser
	if m.user != nil {
		copied := *m.user
		user = &copied
	}
	return Snapshot{State: m.state, User: user, Loading: m.loading}
}

func (m *Manager) notify() {
	m.lock.Lock()
	snap := m.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.lock.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// loginError maps a failed login call onto the user-facing taxonomy. Decode
// failures of a 2xx body are protocol errors, never credential errors.
func loginError(err error) error {
	if errors.Is(err, api.ErrMalformedResponse) {
		return errors.Wrap(ErrProtocol, err.Error())
	}
	switch api.StatusOf(err) {
	case 400, 401, 403:
		return ErrInvalidCredentials
	case 429:
		return ErrRateLimited
	default:
		return errors.Wrap(ErrServiceUnavailable, err.Error())
	}
}

// registrationError prefers the server-supplied detail message, falling back
// by status.
func registrationError(err error) error {
	if detail := api.DetailOf(err); detail != "" {
		return errors.New(detail)
	}
	if api.StatusOf(err) == 400 {
		return ErrRegistrationInvalid
	}
	return errors.Wrap(ErrServiceUnavailable, err.Error())
}
