package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signHS256(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(sub string) Claims {
	return Claims{
		Email: "ada@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    "https://id.example",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func newSecretVerifier(t *testing.T, cfg SessionConfig) *SessionVerifier {
	t.Helper()
	cfg.Secret = testSecret
	v, err := NewSessionVerifier(context.Background(), cfg)
	require.NoError(t, err)
	return v
}

func TestSessionVerifier_HS256(t *testing.T) {
	v := newSecretVerifier(t, SessionConfig{Issuer: "https://id.example", Audience: "authenticated"})

	session, err := v.Verify(context.Background(), signHS256(t, testSecret, validClaims("user-1")))
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "ada@example.com", session.Email)
	assert.False(t, session.ExpiresAt.IsZero())
}

func TestSessionVerifier_Rejects(t *testing.T) {
	v := newSecretVerifier(t, SessionConfig{Audience: "authenticated"})
	ctx := context.Background()

	expired := validClaims("user-1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	_, err := v.Verify(ctx, signHS256(t, testSecret, expired))
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = v.Verify(ctx, signHS256(t, "other-secret", validClaims("user-1")))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(ctx, signHS256(t, testSecret, validClaims("")))
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongAud := validClaims("user-1")
	wrongAud.Audience = jwt.ClaimStrings{"someone-else"}
	_, err = v.Verify(ctx, signHS256(t, testSecret, wrongAud))
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExp := validClaims("user-1")
	noExp.ExpiresAt = nil
	_, err = v.Verify(ctx, signHS256(t, testSecret, noExp))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestNewSessionVerifier_RequiresKeySource(t *testing.T) {
	_, err := NewSessionVerifier(context.Background(), SessionConfig{})
	assert.Error(t, err)
}

func TestSessionVerifier_JWKS(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwks, err := json.Marshal(map[string]any{
		"keys": []map[string]any{{
			"kty": "RSA",
			"kid": "test-key",
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}},
	})
	require.NoError(t, err)

	kf, err := keyfunc.NewJWKSetJSON(jwks)
	require.NoError(t, err)
	v := NewSessionVerifierWithKeyfunc(kf, SessionConfig{})

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, validClaims("user-42"))
	token.Header["kid"] = "test-key"
	signed, err := token.SignedString(key)
	require.NoError(t, err)

	session, err := v.Verify(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, "user-42", session.UserID)

	// HS256 tokens are not accepted by a JWKS verifier
	_, err = v.Verify(context.Background(), signHS256(t, testSecret, validClaims("user-42")))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ExtractBearerToken("bearer xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	for _, header := range []string{"", "abc.def.ghi", "Bearer ", "Basic dXNlcjpwdw=="} {
		_, err := ExtractBearerToken(header)
		assert.ErrorIs(t, err, ErrInvalidFormat, header)
	}
}
