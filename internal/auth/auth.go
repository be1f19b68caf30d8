package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"popforge/internal/config"
)

var (
	// ErrInvalidCredentials is returned on any username/password mismatch.
	// It deliberately does not say which field was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers malformed, badly signed and expired tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Issuer validates the fixed configured credential pair and issues signed,
// time-bound access tokens (HS256).
type Issuer struct {
	username string
	password string
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewIssuer constructs an Issuer from auth configuration.
func NewIssuer(cfg config.AuthConfig) *Issuer {
	return &Issuer{
		username: cfg.Username,
		password: cfg.Password,
		secret:   []byte(cfg.JWTSecret),
		ttl:      cfg.AccessTokenTTL,
		now:      time.Now,
	}
}

// IssueToken checks the credential pair against the configured identity and
// returns a signed access token carrying the subject and expiry.
func (i *Issuer) IssueToken(username, password string) (string, error) {
	// An unconfigured identity must never be matchable: without this an
	// empty login pair would compare equal to empty configured fields.
	if i.username == "" || i.password == "" {
		return "", ErrInvalidCredentials
	}

	// Compare both fields unconditionally so timing does not reveal
	// which one mismatched.
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(i.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(i.password)) == 1
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	now := i.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature and expiry and returns the embedded subject.
func (i *Issuer) VerifyToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// TokenVerifier is the narrow contract the access guard depends on.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}
