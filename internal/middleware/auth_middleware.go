package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/yigit/notehub/internal/app/models/dto"
	"github.com/yigit/notehub/internal/pkg/auth"
	"github.com/yigit/notehub/internal/pkg/logger"
)

// Gin context keys set for authenticated requests
const (
	requesterIDKey    = "requesterID"
	requesterEmailKey = "requesterEmail"
)

// defaultKnownProfiles bounds the set of ids already known to have a profile
const defaultKnownProfiles = 4096

// ProfileEnsurer creates the profile of a user on first sign-in
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, id, emailHint string) error
}

// AuthMiddleware verifies platform-issued session tokens
type AuthMiddleware struct {
	verifier auth.Verifier
	profiles ProfileEnsurer
	known    *lru.Cache[string, struct{}]
}

// NewAuthMiddleware creates a new AuthMiddleware. profiles may be nil, in
// which case no profile is created for new users.
func NewAuthMiddleware(verifier auth.Verifier, profiles ProfileEnsurer, knownSize int) *AuthMiddleware {
	if knownSize <= 0 {
		knownSize = defaultKnownProfiles
	}
	// lru.New only fails for a non-positive size
	known, _ := lru.New[string, struct{}](knownSize)
	return &AuthMiddleware{
		verifier: verifier,
		profiles: profiles,
		known:    known,
	}
}

// RequireSession rejects requests without a valid bearer token
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}
		m.authenticate(c)
	}
}

// OptionalSession identifies the requester when a token is sent and lets
// anonymous requests through. A token that is sent but invalid is rejected.
func (m *AuthMiddleware) OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		m.authenticate(c)
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) {
	tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		abortInvalidSession(c, err)
		return
	}

	session, err := m.verifier.Verify(c.Request.Context(), tokenString)
	if err != nil {
		abortInvalidSession(c, err)
		return
	}

	if err := m.ensureProfile(c.Request.Context(), session); err != nil {
		HandleAPIError(c, err)
		c.Abort()
		return
	}

	c.Set(requesterIDKey, session.UserID)
	c.Set(requesterEmailKey, session.Email)
	c.Next()
}

func (m *AuthMiddleware) ensureProfile(ctx context.Context, session *auth.Session) error {
	if m.profiles == nil || m.known.Contains(session.UserID) {
		return nil
	}
	if err := m.profiles.EnsureProfile(ctx, session.UserID, session.Email); err != nil {
		return err
	}
	m.known.Add(session.UserID, struct{}{})
	return nil
}

func abortInvalidSession(c *gin.Context, err error) {
	errorCode := dto.ErrorCodeInvalidToken
	errorDetails := "Invalid token"

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		errorCode = dto.ErrorCodeExpiredToken
		errorDetails = "Token has expired"
	case errors.Is(err, auth.ErrInvalidFormat):
		errorDetails = "Invalid token format"
	}

	logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Session rejected")

	errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(errorDetails)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

// RequesterID returns the verified user id of the request, or "" when anonymous
func RequesterID(c *gin.Context) string {
	return c.GetString(requesterIDKey)
}
