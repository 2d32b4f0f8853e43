package goOnboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// liveness is the only thing an in-flight exchange holds on to. Once the owning
// validator is discarded, late callbacks see it and do nothing.
type liveness struct {
	discarded atomic.Bool
	gone      chan struct{}
	once      sync.Once
}

func newLiveness() *liveness {
	return &liveness{gone: make(chan struct{})}
}

func (l *liveness) discard() {
	l.once.Do(func() {
		l.discarded.Store(true)
		close(l.gone)
	})
}

// AuthCodeValidator submits authentication codes to the identity manager for one
// screen. It holds no state besides its liveness flag.
type AuthCodeValidator struct {
	identity IdentityManager
	engine   *Engine
	live     *liveness
}

// NewAuthCodeValidator returns a validator without metrics or audit.
func NewAuthCodeValidator(identity IdentityManager) *AuthCodeValidator {
	return newAuthCodeValidator(identity, nil)
}

func newAuthCodeValidator(identity IdentityManager, engine *Engine) *AuthCodeValidator {
	return &AuthCodeValidator{
		identity: identity,
		engine:   engine,
		live:     newLiveness(),
	}
}

// Discard detaches the validator from its screen. Exchanges still in flight
// complete silently; their completion is never invoked.
func (v *AuthCodeValidator) Discard() {
	v.live.discard()
}

// Discarded reports whether Discard was called.
func (v *AuthCodeValidator) Discarded() bool {
	return v.live.discarded.Load()
}

// Validate hands code to the identity manager and calls completion with the result
// once the manager calls back. On success the user is read from the manager's current
// session at that moment, not from the callback. Failures are relayed unchanged.
// Validate does not block; the goroutine completion runs on is the manager's choice.
func (v *AuthCodeValidator) Validate(ctx context.Context, code string, completion func(AuthResult)) {
	if ctx == nil {
		ctx = context.Background()
	}
	live := v.live
	identity := v.identity
	engine := v.engine
	auditCtx := context.WithoutCancel(ctx)
	started := time.Now()

	identity.ValidateAuthCode(ctx, code, func(_ *User, err error) {
		if live.discarded.Load() {
			engine.metricInc(MetricAuthCodeDiscarded)
			engine.emitAudit(auditCtx, auditEventAuthCodeDiscarded, nil, time.Since(started))
			return
		}
		elapsed := time.Since(started)
		engine.observe(MetricAuthCodeLatency, elapsed)

		var result AuthResult
		if err != nil {
			result.Err = AsClientError(err)
			engine.metricInc(MetricAuthCodeRejected)
			if result.Err.Kind == ClientErrorRateLimited {
				engine.metricInc(MetricAuthCodeRateLimited)
			}
			engine.emitAudit(auditCtx, auditEventAuthCodeRejected, &result, elapsed)
		} else {
			result.User = identity.CurrentUser()
			engine.metricInc(MetricAuthCodeAccepted)
			engine.emitAudit(auditCtx, auditEventAuthCodeAccepted, &result, elapsed)
		}

		if completion != nil {
			completion(result)
		}
	})
}

// ValidateSync is Validate for callers that can block. It returns ctx.Err() when ctx
// ends first and ErrValidatorDiscarded when the validator is discarded while waiting.
func (v *AuthCodeValidator) ValidateSync(ctx context.Context, code string) (User, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if v.Discarded() {
		return User{}, ErrValidatorDiscarded
	}

	results := make(chan AuthResult, 1)
	v.Validate(ctx, code, func(r AuthResult) {
		results <- r
	})

	select {
	case r := <-results:
		if r.Err != nil {
			return User{}, r.Err
		}
		return r.User, nil
	case <-v.live.gone:
		return User{}, ErrValidatorDiscarded
	case <-ctx.Done():
		return User{}, ctx.Err()
	}
}
