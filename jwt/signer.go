package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer issues id tokens the way the identity provider does. goOnboard never
// signs tokens in production; the demo CLI and tests use it to stand in for the
// provider.
type Signer struct {
	method SigningMethod
	key    interface{}
	keyID  string
	issuer string
	ttl    time.Duration
}

// SignerConfig holds the signing key: a raw or PEM Ed25519 private key, or an HS256
// secret.
type SignerConfig struct {
	SigningMethod SigningMethod
	PrivateKey    []byte
	KeyID         string
	Issuer        string
	TTL           time.Duration
}

func NewSigner(cfg SignerConfig) (*Signer, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	s := &Signer{method: cfg.SigningMethod, keyID: cfg.KeyID, issuer: cfg.Issuer, ttl: cfg.TTL}
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires private key")
		}
		s.key = cfg.PrivateKey
	case MethodEd25519:
		key, err := parseEdPrivateKey(cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		s.key = key
	default:
		return nil, errors.New("unsupported signing method")
	}
	return s, nil
}

// Sign returns a signed id token for subject. audience may be empty.
func (s *Signer) Sign(subject, legacyUserID, audience string) (string, error) {
	now := time.Now()
	claims := IDClaims{
		LegacyUserID: legacyUserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}
	token := jwt.NewWithClaims(s.method.jwtMethod(), claims)
	if s.keyID != "" {
		token.Header["kid"] = s.keyID
	}
	return token.SignedString(s.key)
}
