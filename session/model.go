package session

import "time"

// Session is one signed-in user with the tokens the exchange returned. Times are
// Unix seconds.
type Session struct {
	SchemaVersion uint8

	SessionID    string
	UserID       string
	LegacyUserID string

	AccessToken  string
	RefreshToken string
	IDToken      string

	TokenExpiresAt int64
	CreatedAt      int64
	ExpiresAt      int64
}

// Expired reports whether the session lifetime ended before now.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt > 0 && now.Unix() >= s.ExpiresAt
}
