package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	goOnboard "github.com/MrEthical07/goOnboard"
	"github.com/MrEthical07/goOnboard/internal/rate"
	"github.com/MrEthical07/goOnboard/jwt"
	"github.com/MrEthical07/goOnboard/session"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrNoSession is returned by Restore when the session is unknown or expired.
	ErrNoSession = errors.New("no persisted session")
	// ErrNilExchanger and ErrNilVerifier are returned by NewManager.
	ErrNilExchanger = errors.New("exchanger required")
	ErrNilVerifier  = errors.New("id token verifier required")
)

// Manager exchanges codes and holds the current user. It is safe for concurrent
// use; ValidateAuthCode always answers on a new goroutine.
type Manager struct {
	config    Config
	exchanger Exchanger
	verifier  *jwt.Verifier
	store     session.Store
	limiter   *rate.Limiter
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.RWMutex
	current goOnboard.User
}

var _ goOnboard.IdentityManager = (*Manager)(nil)

// Option configures a Manager.
type Option func(*Manager)

// WithStore persists sessions in store instead of process memory.
func WithStore(store session.Store) Option {
	return func(m *Manager) { m.store = store }
}

// WithRedis persists sessions in Redis and enables the failed-exchange limiter.
func WithRedis(client redis.UniversalClient) Option {
	return func(m *Manager) {
		m.store = session.NewRedisStore(client, m.config.SessionPrefix, true)
		m.limiter = rate.New(client, rate.Config{
			Prefix:      m.config.SessionPrefix,
			MaxAttempts: m.config.MaxFailedExchanges,
			Cooldown:    m.config.ExchangeCooldown,
		})
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager validates cfg and returns a Manager. Without WithStore or WithRedis
// sessions live in memory.
func NewManager(cfg Config, exchanger Exchanger, verifier *jwt.Verifier, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if exchanger == nil {
		return nil, ErrNilExchanger
	}
	if verifier == nil {
		return nil, ErrNilVerifier
	}
	m := &Manager{
		config:    cfg,
		exchanger: exchanger,
		verifier:  verifier,
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.store == nil {
		m.store = session.NewMemoryStore()
	}
	return m, nil
}

// ValidateAuthCode implements goOnboard.IdentityManager.
func (m *Manager) ValidateAuthCode(ctx context.Context, code string, done func(*goOnboard.User, error)) {
	go func() {
		user, err := m.exchange(ctx, code)
		if err != nil {
			done(nil, err)
			return
		}
		done(user, nil)
	}()
}

// CurrentUser implements goOnboard.IdentityManager.
func (m *Manager) CurrentUser() goOnboard.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) setCurrent(u goOnboard.User) {
	m.mu.Lock()
	m.current = u
	m.mu.Unlock()
}

func (m *Manager) exchange(ctx context.Context, code string) (*goOnboard.User, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, goOnboard.NewClientError(goOnboard.ClientErrorInvalidCode, errors.New("empty code"))
	}

	if err := m.checkLimiter(ctx); err != nil {
		return nil, err
	}

	tokens, err := m.exchanger.Exchange(ctx, code)
	if err != nil {
		ce := goOnboard.AsClientError(err)
		if ce.Kind == goOnboard.ClientErrorInvalidCode || ce.Kind == goOnboard.ClientErrorCodeExpired {
			m.recordFailure(ctx)
		}
		m.logger.Info("goOnboard: code exchange failed", "kind", ce.Kind.String())
		return nil, ce
	}

	claims, err := m.verifier.Verify(tokens.IDToken)
	if err != nil {
		m.logger.Warn("goOnboard: id token rejected", "error", err)
		return nil, goOnboard.NewClientError(goOnboard.ClientErrorUnexpected, err)
	}

	user := goOnboard.User{
		ID:        claims.Subject,
		LegacyID:  claims.LegacyUserID,
		SessionID: uuid.NewString(),
		Tokens:    tokens,
	}
	if err := m.store.Save(ctx, m.sessionFor(user), m.config.SessionTTL); err != nil {
		m.logger.Warn("goOnboard: session not persisted", "session_id", user.SessionID, "error", err)
	}
	m.setCurrent(user)

	if m.limiter != nil {
		if err := m.limiter.Reset(ctx, m.clientKey()); err != nil {
			m.logger.Warn("goOnboard: exchange limiter reset failed", "error", err)
		}
	}
	return &user, nil
}

// checkLimiter refuses the exchange once the client's failure budget is spent.
// An unreachable Redis does not block sign-in.
func (m *Manager) checkLimiter(ctx context.Context) error {
	if m.limiter == nil {
		return nil
	}
	err := m.limiter.Check(ctx, m.clientKey())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, rate.ErrRateLimited):
		return goOnboard.NewClientError(goOnboard.ClientErrorRateLimited, err)
	default:
		m.logger.Warn("goOnboard: exchange limiter unavailable", "error", err)
		return nil
	}
}

func (m *Manager) recordFailure(ctx context.Context) {
	if m.limiter == nil {
		return
	}
	if _, err := m.limiter.Increment(ctx, m.clientKey()); err != nil {
		m.logger.Warn("goOnboard: exchange limiter increment failed", "error", err)
	}
}

func (m *Manager) clientKey() string {
	return m.config.ClientID
}

func (m *Manager) sessionFor(u goOnboard.User) *session.Session {
	now := m.now()
	sess := &session.Session{
		SessionID:    u.SessionID,
		UserID:       u.ID,
		LegacyUserID: u.LegacyID,
		AccessToken:  u.Tokens.AccessToken,
		RefreshToken: u.Tokens.RefreshToken,
		IDToken:      u.Tokens.IDToken,
		CreatedAt:    now.Unix(),
		ExpiresAt:    now.Add(m.config.SessionTTL).Unix(),
	}
	if !u.Tokens.ExpiresAt.IsZero() {
		sess.TokenExpiresAt = u.Tokens.ExpiresAt.Unix()
	}
	return sess
}

func userFromSession(s *session.Session) goOnboard.User {
	u := goOnboard.User{
		ID:        s.UserID,
		LegacyID:  s.LegacyUserID,
		SessionID: s.SessionID,
		Tokens: goOnboard.TokenSet{
			AccessToken:  s.AccessToken,
			RefreshToken: s.RefreshToken,
			IDToken:      s.IDToken,
		},
	}
	if s.TokenExpiresAt > 0 {
		u.Tokens.ExpiresAt = time.Unix(s.TokenExpiresAt, 0)
	}
	return u
}

// Restore makes a persisted session the current user.
func (m *Manager) Restore(ctx context.Context, sessionID string) (goOnboard.User, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return goOnboard.User{}, ErrNoSession
		}
		return goOnboard.User{}, err
	}
	user := userFromSession(sess)
	m.setCurrent(user)
	return user, nil
}

// Logout clears the current user and deletes its persisted session.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	sessionID := m.current.SessionID
	m.current = goOnboard.User{}
	m.mu.Unlock()

	if sessionID == "" {
		return nil
	}
	return m.store.Delete(ctx, sessionID)
}
