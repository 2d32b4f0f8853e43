package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process. It is meant for tests and single-process
// tools; nothing survives a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	sess     Session
	deadline time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, sess *Session, ttl time.Duration) error {
	if err := checkSave(sess, ttl); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	cp.SchemaVersion = CurrentSchemaVersion
	s.sessions[sess.SessionID] = memoryEntry{sess: cp, deadline: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	if !now.Before(entry.deadline) || entry.sess.Expired(now) {
		delete(s.sessions, sessionID)
		return nil, ErrNotFound
	}
	cp := entry.sess
	return &cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Len returns the number of stored sessions, expired ones included until read.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
