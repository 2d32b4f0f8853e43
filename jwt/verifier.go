package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingSubject is returned for an otherwise valid token without "sub".
	ErrMissingSubject = errors.New("id token has no subject")
	// ErrFutureIssuedAt is returned when "iat" lies further ahead than MaxFutureIAT.
	ErrFutureIssuedAt = errors.New("id token iat too far in the future")
)

// Config describes how id tokens are checked. Either PublicKey (Ed25519), Secret
// (HS256) or VerifyKeys keyed by "kid" supply the key material.
type Config struct {
	SigningMethod SigningMethod
	PublicKey     []byte
	Secret        []byte
	VerifyKeys    map[string][]byte

	Issuer       string
	Audience     string
	Leeway       time.Duration
	MaxFutureIAT time.Duration
}

// IDClaims are the claims goOnboard reads from an id token. The subject is the
// user id; LegacyUserID is the numeric id older backends still key on.
type IDClaims struct {
	LegacyUserID string `json:"legacy_user_id,omitempty"`
	Email        string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates id tokens. It is immutable and safe for concurrent use.
type Verifier struct {
	config Config
	parser *jwt.Parser
}

// NewVerifier checks cfg and returns a Verifier.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.MaxFutureIAT == 0 {
		cfg.MaxFutureIAT = 10 * time.Minute
	}
	if cfg.MaxFutureIAT < 0 || cfg.MaxFutureIAT > 24*time.Hour {
		return nil, errors.New("invalid MaxFutureIAT configuration")
	}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.Secret) == 0 && len(cfg.VerifyKeys) == 0 {
			return nil, errors.New("hs256 requires a secret or verify key set")
		}
	case MethodEd25519:
		if len(cfg.PublicKey) > 0 {
			if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
				return nil, err
			}
		}
		if len(cfg.VerifyKeys) == 0 && len(cfg.PublicKey) == 0 {
			return nil, errors.New("ed25519 requires public key or verify key set")
		}
	default:
		return nil, errors.New("unsupported signing method")
	}
	for kid, key := range cfg.VerifyKeys {
		if strings.TrimSpace(kid) == "" {
			return nil, errors.New("verify key map contains empty kid")
		}
		if _, err := cfg.SigningMethod.verifyKey(key); err != nil {
			return nil, fmt.Errorf("invalid verify key for kid %q: %w", kid, err)
		}
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{cfg.SigningMethod.jwtMethod().Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Leeway > 0 {
		options = append(options, jwt.WithLeeway(cfg.Leeway))
	}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		options = append(options, jwt.WithAudience(cfg.Audience))
	}

	return &Verifier{config: cfg, parser: jwt.NewParser(options...)}, nil
}

// Verify parses token, checks signature and registered claims, and returns its
// claims. A token without subject is rejected.
func (v *Verifier) Verify(token string) (*IDClaims, error) {
	parsed, err := v.parser.ParseWithClaims(token, &IDClaims{}, v.keyFunc)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*IDClaims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrMissingSubject
	}
	if claims.IssuedAt != nil && claims.IssuedAt.Time.After(time.Now().Add(v.config.MaxFutureIAT)) {
		return nil, ErrFutureIssuedAt
	}
	return claims, nil
}

func (v *Verifier) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != v.config.SigningMethod.jwtMethod().Alg() {
		return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
	}
	if len(v.config.VerifyKeys) > 0 {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid")
		}
		key, ok := v.config.VerifyKeys[kid]
		if !ok {
			return nil, errors.New("unknown kid")
		}
		return v.config.SigningMethod.verifyKey(key)
	}
	if v.config.SigningMethod == MethodHS256 {
		return v.config.Secret, nil
	}
	return parseEdPublicKey(v.config.PublicKey)
}
