package identity

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every variable read by LoadConfigFromEnv.
const EnvPrefix = "GOONBOARD_IDENTITY_"

// ErrInvalidConfig wraps every Config.Validate failure.
var ErrInvalidConfig = errors.New("invalid identity config")

// Config describes the token endpoint and how sessions and retries are kept.
type Config struct {
	TokenEndpoint string        `env:"TOKEN_ENDPOINT"`
	ClientID      string        `env:"CLIENT_ID"`
	ClientSecret  string        `env:"CLIENT_SECRET"`
	RedirectURI   string        `env:"REDIRECT_URI"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT"`

	SessionTTL    time.Duration `env:"SESSION_TTL"`
	SessionPrefix string        `env:"SESSION_PREFIX"`

	// MaxFailedExchanges rejected codes per client are allowed within
	// ExchangeCooldown before further exchanges are refused locally.
	MaxFailedExchanges int           `env:"MAX_FAILED_EXCHANGES"`
	ExchangeCooldown   time.Duration `env:"EXCHANGE_COOLDOWN"`
}

// DefaultConfig returns the settings without endpoint or client.
func DefaultConfig() Config {
	return Config{
		HTTPTimeout:        10 * time.Second,
		SessionTTL:         30 * 24 * time.Hour,
		SessionPrefix:      "gob",
		MaxFailedExchanges: 5,
		ExchangeCooldown:   15 * time.Minute,
	}
}

// LoadConfigFromEnv overlays GOONBOARD_IDENTITY_* variables on DefaultConfig.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	u, err := url.Parse(c.TokenEndpoint)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return fmt.Errorf("%w: TokenEndpoint must be an absolute http(s) URL", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.ClientID) == "" {
		return fmt.Errorf("%w: ClientID must be set", ErrInvalidConfig)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: HTTPTimeout must be > 0", ErrInvalidConfig)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("%w: SessionTTL must be > 0", ErrInvalidConfig)
	}
	if c.MaxFailedExchanges <= 0 || c.ExchangeCooldown <= 0 {
		return fmt.Errorf("%w: exchange limiter needs MaxFailedExchanges and ExchangeCooldown > 0", ErrInvalidConfig)
	}
	return nil
}
