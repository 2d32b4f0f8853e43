package goOnboard

import (
	"context"
	"io"
	"time"

	"github.com/MrEthical07/goOnboard/internal/audit"
)

// AuditEvent is one onboarding outcome delivered to an AuditSink.
type AuditEvent = audit.Event

// AuditSink receives audit events from the engine's background dispatcher.
type AuditSink = audit.Sink

// NoOpSink discards audit events.
type NoOpSink = audit.NoOpSink

// ChannelSink buffers audit events in a channel.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes audit events as JSON lines.
type JSONWriterSink = audit.JSONWriterSink

// AuditSinkFunc adapts a function to AuditSink.
type AuditSinkFunc = audit.SinkFunc

// FanoutSink delivers each audit event to several sinks.
type FanoutSink = audit.Fanout

func NewChannelSink(buffer int) *ChannelSink { return audit.NewChannelSink(buffer) }

func NewJSONWriterSink(w io.Writer) *JSONWriterSink { return audit.NewJSONWriterSink(w) }

const (
	auditEventAuthCodeAccepted  = "auth_code_accepted"
	auditEventAuthCodeRejected  = "auth_code_rejected"
	auditEventAuthCodeDiscarded = "auth_code_discarded"
)

func (e *Engine) emitAudit(ctx context.Context, eventType string, result *AuthResult, latency time.Duration) {
	if e == nil || e.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp: e.now().UTC(),
		EventType: eventType,
		Latency:   latency,
	}
	if result != nil {
		event.Success = result.OK()
		if result.OK() {
			event.UserID = result.User.ID
			event.SessionID = result.User.SessionID
		} else {
			event.Error = result.Err.Kind.String()
		}
	}
	e.audit.Emit(ctx, event)
}
