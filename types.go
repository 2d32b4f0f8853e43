package goOnboard

import (
	"context"
	"time"

	"golang.org/x/text/language"
)

// TokenSet is the credential bundle an identity manager holds for a user.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	ExpiresAt    time.Time
}

// User is the authenticated user as reported by the identity manager.
// goOnboard routes it to the caller without interpreting it.
type User struct {
	ID        string
	LegacyID  string
	SessionID string
	Tokens    TokenSet
}

// IsZero reports whether u carries no identity.
func (u User) IsZero() bool {
	return u.ID == "" && u.LegacyID == "" && u.SessionID == ""
}

// AuthResult is the outcome of one code validation: exactly one of User or Err is set.
type AuthResult struct {
	User User
	Err  *ClientError
}

// OK reports whether the result is a success.
func (r AuthResult) OK() bool { return r.Err == nil }

// IdentityManager performs the code exchange and owns the authenticated session.
//
// ValidateAuthCode must eventually invoke done exactly once, either with a nil error
// (the user argument may be nil or stale and is not trusted) or with the failure.
// CurrentUser returns the manager's authoritative session state at call time.
type IdentityManager interface {
	ValidateAuthCode(ctx context.Context, code string, done func(*User, error))
	CurrentUser() User
}

// Localizer resolves a message key for a locale. It is total for every key goOnboard
// uses; a missing key is the localizer's contract violation.
type Localizer interface {
	Localize(tag language.Tag, key string) string
}

// LocalizerFunc adapts a function to Localizer.
type LocalizerFunc func(tag language.Tag, key string) string

func (f LocalizerFunc) Localize(tag language.Tag, key string) string { return f(tag, key) }

// LocalizationContext pairs a localizer with the locale a screen renders in.
// It is fixed for the lifetime of the unit that owns it.
type LocalizationContext struct {
	localizer Localizer
	locale    language.Tag
}

// NewLocalizationContext binds localizer to locale.
func NewLocalizationContext(localizer Localizer, locale language.Tag) LocalizationContext {
	return LocalizationContext{localizer: localizer, locale: locale}
}

// Locale returns the bound locale.
func (c LocalizationContext) Locale() language.Tag { return c.locale }

func (c LocalizationContext) text(key string) string {
	if c.localizer == nil {
		return key
	}
	return c.localizer.Localize(c.locale, key)
}

// IdentifierKind distinguishes the channel a code or link was sent to.
type IdentifierKind uint8

const (
	IdentifierEmail IdentifierKind = iota
	IdentifierPhone
)

// Identifier is the email address or phone number the user signed in with.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

func (i Identifier) String() string { return i.Value }
