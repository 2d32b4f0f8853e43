package goOnboard

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MrEthical07/goOnboard/internal/audit"
	"golang.org/x/text/language"
)

// Engine holds the collaborators shared by every onboarding screen and vends the
// per-screen units. It is safe for concurrent use after Build.
type Engine struct {
	config        Config
	identity      IdentityManager
	localizer     Localizer
	agePolicy     AgePolicy
	defaultLocale language.Tag
	audit         *audit.Dispatcher
	metrics       *Metrics
	logger        *slog.Logger
	clock         func() time.Time
}

// Close flushes pending audit events. The engine must not be used afterwards.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// AuditDropped returns how many audit events were discarded under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) observe(id MetricID, d time.Duration) {
	if e == nil {
		return
	}
	e.metrics.Observe(id, d)
}

func (e *Engine) now() time.Time {
	if e != nil && e.clock != nil {
		return e.clock()
	}
	return time.Now()
}

// ParseLocale parses a BCP 47 identifier; blank input selects the configured default.
func (e *Engine) ParseLocale(locale string) (language.Tag, error) {
	if e == nil {
		return language.Und, ErrEngineNotReady
	}
	trimmed := strings.TrimSpace(locale)
	if trimmed == "" {
		return e.defaultLocale, nil
	}
	// Apple-style identifiers use underscores.
	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("%w %q: %v", ErrInvalidLocale, locale, err)
	}
	return tag, nil
}

// NewRequiredFields prepares the required-fields screen for locale. Unsupported
// fields are dropped, order is preserved.
func (e *Engine) NewRequiredFields(fields []RequiredField, locale string) (*RequiredFields, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	tag, err := e.ParseLocale(locale)
	if err != nil {
		return nil, err
	}
	rf := newRequiredFields(fields, NewLocalizationContext(e.localizer, tag), requiredFieldsOptions{
		privacy:   e.config.Privacy,
		agePolicy: e.agePolicy,
		now:       e.now,
		metrics:   e.metrics,
		logger:    e.logger,
	})
	e.metricInc(MetricRequiredFieldsPresented)
	return rf, nil
}

// NewAuthCodeValidator returns a validator bound to the engine's identity manager.
func (e *Engine) NewAuthCodeValidator() (*AuthCodeValidator, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	return newAuthCodeValidator(e.identity, e), nil
}

// NewCheckInbox prepares the "check your inbox" screen shown after a link or code
// was sent to identifier.
func (e *Engine) NewCheckInbox(identifier Identifier, locale string) (*CheckInbox, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	tag, err := e.ParseLocale(locale)
	if err != nil {
		return nil, err
	}
	return &CheckInbox{
		identifier: identifier,
		l10n:       NewLocalizationContext(e.localizer, tag),
	}, nil
}
