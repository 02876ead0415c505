package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// Session errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
)

// SessionConfig defines how platform-issued session tokens are verified.
// JWKSURL takes precedence over Secret when both are set.
type SessionConfig struct {
	Secret   string
	JWKSURL  string
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// jwksMethods are the asymmetric algorithms accepted from a key set
var jwksMethods = []string{
	jwt.SigningMethodRS256.Alg(),
	jwt.SigningMethodES256.Alg(),
	jwt.SigningMethodEdDSA.Alg(),
}

// Claims defines the session token content the service reads
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Session is a verified identity. UserID is the opaque profile id.
type Session struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Verifier turns a bearer token into a verified session
type Verifier interface {
	Verify(ctx context.Context, token string) (*Session, error)
}

// SessionVerifier verifies tokens against a shared secret or a JWKS endpoint
type SessionVerifier struct {
	keyFor  func(ctx context.Context) jwt.Keyfunc
	methods []string
	config  SessionConfig
}

// NewSessionVerifier builds a verifier from config. With a JWKS URL the key set
// is fetched in the background and refreshed for the lifetime of ctx.
func NewSessionVerifier(ctx context.Context, config SessionConfig) (*SessionVerifier, error) {
	if config.JWKSURL != "" {
		kf, err := keyfunc.NewDefaultCtx(ctx, []string{config.JWKSURL})
		if err != nil {
			return nil, fmt.Errorf("failed to create JWKS keyfunc: %w", err)
		}
		return NewSessionVerifierWithKeyfunc(kf, config), nil
	}

	if config.Secret == "" {
		return nil, errors.New("either a JWT secret or a JWKS URL is required")
	}

	secret := []byte(config.Secret)
	return &SessionVerifier{
		keyFor: func(context.Context) jwt.Keyfunc {
			return func(*jwt.Token) (interface{}, error) { return secret, nil }
		},
		methods: []string{jwt.SigningMethodHS256.Alg()},
		config:  config,
	}, nil
}

// NewSessionVerifierWithKeyfunc creates a verifier over an existing key set
func NewSessionVerifierWithKeyfunc(kf keyfunc.Keyfunc, config SessionConfig) *SessionVerifier {
	return &SessionVerifier{
		keyFor:  kf.KeyfuncCtx,
		methods: jwksMethods,
		config:  config,
	}
}

// Verify validates signature, expiry and the optional issuer/audience, and
// returns the session carried by the token.
func (v *SessionVerifier) Verify(ctx context.Context, tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, ErrInvalidFormat
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.config.Leeway),
	}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}
	if v.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.config.Audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyFor(ctx), opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	session := &Session{
		UserID: claims.Subject,
		Email:  claims.Email,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidFormat
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrInvalidFormat
	}
	return token, nil
}
