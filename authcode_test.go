package goOnboard

import (
	"context"
	"errors"
	"testing"
	"time"
)

func buildTestEngine(t *testing.T, identity IdentityManager, opts ...func(*Builder)) *Engine {
	t.Helper()
	b := New().WithIdentityManager(identity).WithLocalizer(testMessages())
	for _, opt := range opts {
		opt(b)
	}
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func TestValidateReadsCurrentUserAfterCallback(t *testing.T) {
	m := &fakeManager{}
	v := NewAuthCodeValidator(m)

	got := make(chan AuthResult, 1)
	v.Validate(context.Background(), "123456", func(r AuthResult) { got <- r })

	if m.pendingCount() != 1 {
		t.Fatalf("expected one exchange in flight, got %d", m.pendingCount())
	}
	m.setCurrent(User{ID: "user-1", LegacyID: "42"})
	m.resolve(0, &User{ID: "inline-user"}, nil)

	r := <-got
	if !r.OK() {
		t.Fatalf("expected success, got %v", r.Err)
	}
	if r.User.ID != "user-1" || r.User.LegacyID != "42" {
		t.Fatalf("expected current user, got %+v", r.User)
	}
}

func TestValidateRelaysClientErrorUnchanged(t *testing.T) {
	network := NewClientError(ClientErrorNetwork, errors.New("dial tcp: timeout"))
	m := &autoManager{fail: map[string]error{"BAD": network}}
	m.setCurrent(User{ID: "u"})
	v := NewAuthCodeValidator(m)

	got := make(chan AuthResult, 1)
	v.Validate(context.Background(), "BAD", func(r AuthResult) { got <- r })
	r := <-got
	if r.Err != network {
		t.Fatalf("expected the same *ClientError, got %#v", r.Err)
	}
	if !errors.Is(r.Err, ErrNetwork) {
		t.Fatal("expected errors.Is(err, ErrNetwork)")
	}
	if !r.User.IsZero() {
		t.Fatalf("failure must not carry a user, got %+v", r.User)
	}

	v.Validate(context.Background(), "ABC123", func(r AuthResult) { got <- r })
	if r := <-got; !r.OK() || r.User.ID != "u" {
		t.Fatalf("expected success for ABC123, got %+v", r)
	}
}

func TestValidateClassifiesForeignErrors(t *testing.T) {
	m := &autoManager{fail: map[string]error{"X": errors.New("boom")}}
	v := NewAuthCodeValidator(m)

	got := make(chan AuthResult, 1)
	v.Validate(context.Background(), "X", func(r AuthResult) { got <- r })
	r := <-got
	if r.Err == nil || r.Err.Kind != ClientErrorUnexpected {
		t.Fatalf("expected unexpected kind, got %#v", r.Err)
	}
	if !errors.Is(r.Err, ErrUnexpected) {
		t.Fatal("expected errors.Is(err, ErrUnexpected)")
	}
}

func TestDiscardSuppressesCompletion(t *testing.T) {
	m := &fakeManager{}
	engine := buildTestEngine(t, m)
	v, err := engine.NewAuthCodeValidator()
	if err != nil {
		t.Fatalf("NewAuthCodeValidator failed: %v", err)
	}

	called := false
	v.Validate(context.Background(), "123456", func(AuthResult) { called = true })
	v.Discard()
	v.Discard()
	m.resolve(0, nil, nil)

	if called {
		t.Fatal("completion ran after Discard")
	}
	if !v.Discarded() {
		t.Fatal("expected Discarded to report true")
	}
	if got := engine.MetricsSnapshot().Counters[MetricAuthCodeDiscarded]; got != 1 {
		t.Fatalf("expected 1 discarded exchange, got %d", got)
	}
	if got := engine.MetricsSnapshot().Counters[MetricAuthCodeAccepted]; got != 0 {
		t.Fatalf("discarded exchange counted as accepted: %d", got)
	}
}

func TestValidateCountsOutcomes(t *testing.T) {
	m := &autoManager{fail: map[string]error{
		"SLOW": NewClientError(ClientErrorRateLimited, nil),
	}}
	engine := buildTestEngine(t, m, func(b *Builder) { b.WithLatencyHistograms(true) })
	v, _ := engine.NewAuthCodeValidator()

	if _, err := v.ValidateSync(context.Background(), "OK"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if _, err := v.ValidateSync(context.Background(), "SLOW"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected rate limited, got %v", err)
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricAuthCodeAccepted] != 1 || snap.Counters[MetricAuthCodeRejected] != 1 || snap.Counters[MetricAuthCodeRateLimited] != 1 {
		t.Fatalf("unexpected counters %+v", snap.Counters)
	}
	var observed uint64
	for _, n := range snap.Histograms[MetricAuthCodeLatency] {
		observed += n
	}
	if observed != 2 {
		t.Fatalf("expected 2 latency observations, got %d", observed)
	}
}

func TestValidateSyncHonorsContext(t *testing.T) {
	m := &fakeManager{}
	v := NewAuthCodeValidator(m)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := v.ValidateSync(ctx, "123456"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	// the late callback must not block on the buffered result channel
	m.resolve(0, nil, nil)
}

func TestValidateSyncReturnsOnDiscard(t *testing.T) {
	m := &fakeManager{}
	v := NewAuthCodeValidator(m)

	go func() {
		for m.pendingCount() == 0 {
			time.Sleep(time.Millisecond)
		}
		v.Discard()
	}()
	if _, err := v.ValidateSync(context.Background(), "123456"); !errors.Is(err, ErrValidatorDiscarded) {
		t.Fatalf("expected ErrValidatorDiscarded, got %v", err)
	}
	if _, err := v.ValidateSync(context.Background(), "123456"); !errors.Is(err, ErrValidatorDiscarded) {
		t.Fatalf("expected immediate ErrValidatorDiscarded, got %v", err)
	}
}

func TestValidateEmitsAuditEvents(t *testing.T) {
	sink := NewChannelSink(8)
	m := &autoManager{fail: map[string]error{"BAD": NewClientError(ClientErrorInvalidCode, nil)}}
	m.setCurrent(User{ID: "user-7", SessionID: "sess-7"})
	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	engine := buildTestEngine(t, m, func(b *Builder) {
		b.WithAuditSink(sink).WithClock(fixedClock(now))
	})
	v, _ := engine.NewAuthCodeValidator()

	if _, err := v.ValidateSync(context.Background(), "GOOD"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if _, err := v.ValidateSync(context.Background(), "BAD"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected invalid code, got %v", err)
	}

	accepted := nextEvent(t, sink)
	if accepted.EventType != "auth_code_accepted" || !accepted.Success || accepted.UserID != "user-7" || accepted.SessionID != "sess-7" {
		t.Fatalf("unexpected accepted event %+v", accepted)
	}
	if !accepted.Timestamp.Equal(now) {
		t.Fatalf("unexpected timestamp %v", accepted.Timestamp)
	}
	rejected := nextEvent(t, sink)
	if rejected.EventType != "auth_code_rejected" || rejected.Success || rejected.Error != "invalid_code" {
		t.Fatalf("unexpected rejected event %+v", rejected)
	}
}

func nextEvent(t *testing.T, sink *ChannelSink) AuditEvent {
	t.Helper()
	select {
	case e := <-sink.Events():
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for audit event")
	}
	return AuditEvent{}
}
