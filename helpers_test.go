package goOnboard

import (
	"context"
	"sync"
	"time"

	"golang.org/x/text/language"
)

// mapLocalizer returns messages[key] for every locale, or the key itself.
type mapLocalizer map[string]string

func (m mapLocalizer) Localize(_ language.Tag, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return key
}

func testMessages() mapLocalizer {
	return mapLocalizer{
		"RequiredFieldsScreenString.subtext":       "Read about $0 and $1.",
		"RequiredFieldsScreenString.subtext.link0": "privacy",
		"RequiredFieldsScreenString.subtext.link1": "your data",
		"RequiredField.birthday.placeholder":       "1990-12-31",
	}
}

type pendingExchange struct {
	code string
	done func(*User, error)
}

// fakeManager records exchanges and resolves them when the test says so.
type fakeManager struct {
	mu      sync.Mutex
	current User
	pending []pendingExchange
}

func (m *fakeManager) ValidateAuthCode(_ context.Context, code string, done func(*User, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, pendingExchange{code: code, done: done})
}

func (m *fakeManager) CurrentUser() User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *fakeManager) setCurrent(u User) {
	m.mu.Lock()
	m.current = u
	m.mu.Unlock()
}

func (m *fakeManager) pendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *fakeManager) resolve(i int, user *User, err error) {
	m.mu.Lock()
	call := m.pending[i]
	m.mu.Unlock()
	call.done(user, err)
}

// autoManager answers on a new goroutine; codes in fail map to their error.
type autoManager struct {
	fakeManager
	fail map[string]error
}

func (m *autoManager) ValidateAuthCode(_ context.Context, code string, done func(*User, error)) {
	err := m.fail[code]
	go done(nil, err)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func mustTag(s string) language.Tag {
	return language.MustParse(s)
}
