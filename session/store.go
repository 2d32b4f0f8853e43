package session

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no live session exists for an id.
	ErrNotFound = errors.New("session not found")
	// ErrRedisUnavailable wraps every Redis transport failure.
	ErrRedisUnavailable = errors.New("redis unavailable")
	// ErrInvalidSession is returned by Save for a session without ids.
	ErrInvalidSession = errors.New("invalid session")
)

// Store persists sessions. Implementations must be safe for concurrent use.
type Store interface {
	Save(ctx context.Context, sess *Session, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

func checkSave(sess *Session, ttl time.Duration) error {
	if sess == nil || sess.SessionID == "" || sess.UserID == "" {
		return ErrInvalidSession
	}
	if ttl <= 0 {
		return errors.New("session ttl must be > 0")
	}
	return nil
}
