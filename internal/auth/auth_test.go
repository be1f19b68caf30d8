package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popforge/internal/config"
)

func testIssuer() *Issuer {
	return NewIssuer(config.AuthConfig{
		Username:       "admin",
		Password:       "s3cret",
		JWTSecret:      "test-signing-secret",
		AccessTokenTTL: 30 * time.Minute,
	})
}

func TestIssueToken(t *testing.T) {
	iss := testIssuer()

	t.Run("valid credentials", func(t *testing.T) {
		tok, err := iss.IssueToken("admin", "s3cret")
		require.NoError(t, err)
		assert.NotEmpty(t, tok)

		sub, err := iss.VerifyToken(tok)
		require.NoError(t, err)
		assert.Equal(t, "admin", sub)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := iss.IssueToken("admin", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong username", func(t *testing.T) {
		_, err := iss.IssueToken("root", "s3cret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unconfigured identity never matches", func(t *testing.T) {
		blank := NewIssuer(config.AuthConfig{
			JWTSecret:      "test-signing-secret",
			AccessTokenTTL: 30 * time.Minute,
		})

		// An empty login pair would otherwise compare equal to the empty
		// configured fields and mint a real token.
		_, err := blank.IssueToken("", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = blank.IssueToken("admin", "s3cret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestVerifyToken(t *testing.T) {
	iss := testIssuer()

	t.Run("garbage token", func(t *testing.T) {
		_, err := iss.VerifyToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewIssuer(config.AuthConfig{
			Username:       "admin",
			Password:       "s3cret",
			JWTSecret:      "different-secret",
			AccessTokenTTL: 30 * time.Minute,
		})
		tok, err := other.IssueToken("admin", "s3cret")
		require.NoError(t, err)

		_, err = iss.VerifyToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		iss := testIssuer()
		iss.now = func() time.Time { return time.Now().Add(-time.Hour) }
		tok, err := iss.IssueToken("admin", "s3cret")
		require.NoError(t, err)

		_, err = iss.VerifyToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
