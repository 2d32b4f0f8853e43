package goOnboard

import (
	"errors"
	"log/slog"
	"time"

	"github.com/MrEthical07/goOnboard/internal/audit"
	"golang.org/x/text/language"
)

// Builder assembles an Engine. A Builder can be used for one Build only.
type Builder struct {
	config Config

	identity  IdentityManager
	localizer Localizer
	agePolicy AgePolicy
	auditSink AuditSink
	logger    *slog.Logger
	clock     func() time.Time

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithIdentityManager sets the collaborator that exchanges authentication codes.
func (b *Builder) WithIdentityManager(m IdentityManager) *Builder {
	b.identity = m
	return b
}

// WithLocalizer sets the string lookup used for every label and message.
func (b *Builder) WithLocalizer(l Localizer) *Builder {
	b.localizer = l
	return b
}

// WithAgePolicy overrides Config.Birthday.MinimumAge with a locale-aware policy.
func (b *Builder) WithAgePolicy(p AgePolicy) *Builder {
	b.agePolicy = p
	return b
}

// WithAuditSink enables audit delivery to sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithClock replaces time.Now for age checks and audit timestamps.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.identity == nil {
		return nil, ErrNilIdentityManager
	}
	if b.localizer == nil {
		return nil, ErrNilLocalizer
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	defaultLocale, err := language.Parse(cfg.Localization.DefaultLocale)
	if err != nil {
		return nil, errors.Join(ErrInvalidLocale, err)
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	policy := b.agePolicy
	if policy == nil {
		policy = FixedAgePolicy(cfg.Birthday.MinimumAge)
	}

	e := &Engine{
		config:        cfg,
		identity:      b.identity,
		localizer:     b.localizer,
		agePolicy:     policy,
		defaultLocale: defaultLocale,
		metrics:       NewMetrics(cfg.Metrics),
		logger:        logger,
		clock:         b.clock,
	}
	e.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
		OnDrop: func(event audit.Event) {
			logger.Warn("goOnboard: audit event dropped", "event_type", event.EventType)
		},
	}, b.auditSink)

	b.built = true
	return e, nil
}
