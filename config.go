package goOnboard

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

// EnvPrefix prefixes every environment variable read by LoadConfigFromEnv.
const EnvPrefix = "GOONBOARD_"

// Config holds engine-wide settings. It is copied into the Engine on Build and never
// mutated afterwards.
type Config struct {
	Localization LocalizationConfig `envPrefix:"LOCALIZATION_"`
	Privacy      PrivacyConfig      `envPrefix:"PRIVACY_"`
	Birthday     BirthdayConfig     `envPrefix:"BIRTHDAY_"`
	Audit        AuditConfig        `envPrefix:"AUDIT_"`
	Metrics      MetricsConfig      `envPrefix:"METRICS_"`
}

/*
====================================
LOCALIZATION CONFIG
====================================
*/

// LocalizationConfig selects the locale used when a screen passes an empty one.
type LocalizationConfig struct {
	DefaultLocale string `env:"DEFAULT_LOCALE"`
}

/*
====================================
PRIVACY CONFIG
====================================
*/

// PrivacyConfig describes the two documents linked from the required-fields notice.
// Links resolve to BaseURL/<segment>/<doc>.
type PrivacyConfig struct {
	BaseURL           string `env:"BASE_URL"`
	ControlPrivacyDoc string `env:"CONTROL_PRIVACY_DOC"`
	DataAndYouDoc     string `env:"DATA_AND_YOU_DOC"`
	// RegionOverride replaces the locale-derived segment when non-empty.
	RegionOverride string `env:"REGION_OVERRIDE"`
}

/*
====================================
BIRTHDAY CONFIG
====================================
*/

// BirthdayConfig is used when no AgePolicy is given to the Builder.
type BirthdayConfig struct {
	MinimumAge int `env:"MINIMUM_AGE"`
}

// AuditConfig controls asynchronous audit delivery.
type AuditConfig struct {
	Enabled    bool `env:"ENABLED"`
	BufferSize int  `env:"BUFFER_SIZE"`
	DropIfFull bool `env:"DROP_IF_FULL"`
}

// MetricsConfig toggles in-process counters and the latency histogram.
type MetricsConfig struct {
	Enabled                 bool `env:"ENABLED"`
	EnableLatencyHistograms bool `env:"LATENCY_HISTOGRAMS"`
}

// DefaultConfig returns the settings Builder starts from.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Localization: LocalizationConfig{
			DefaultLocale: "en-US",
		},
		Privacy: PrivacyConfig{
			BaseURL:           "https://info.privacy.schibsted.com",
			ControlPrivacyDoc: "S007",
			DataAndYouDoc:     "S012",
		},
		Birthday: BirthdayConfig{
			MinimumAge: 15,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

// LoadConfigFromEnv overlays GOONBOARD_* variables on DefaultConfig and validates
// the result.
func LoadConfigFromEnv() (Config, error) {
	cfg := defaultConfig()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if _, err := language.Parse(strings.TrimSpace(c.Localization.DefaultLocale)); err != nil {
		return fmt.Errorf("%w: Localization DefaultLocale %q: %v", ErrInvalidConfig, c.Localization.DefaultLocale, err)
	}

	u, err := url.Parse(c.Privacy.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return fmt.Errorf("%w: Privacy BaseURL must be an absolute http(s) URL", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Privacy.ControlPrivacyDoc) == "" || strings.TrimSpace(c.Privacy.DataAndYouDoc) == "" {
		return fmt.Errorf("%w: Privacy document ids must be set", ErrInvalidConfig)
	}

	if c.Birthday.MinimumAge < 0 || c.Birthday.MinimumAge > 150 {
		return fmt.Errorf("%w: Birthday MinimumAge must be within 0..150", ErrInvalidConfig)
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return fmt.Errorf("%w: Audit BufferSize must be > 0 when audit is enabled", ErrInvalidConfig)
	}
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return fmt.Errorf("%w: Metrics EnableLatencyHistograms requires Metrics Enabled", ErrInvalidConfig)
	}
	return nil
}
