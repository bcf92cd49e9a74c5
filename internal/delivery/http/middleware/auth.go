package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NikkahFirst/mobile-app-sub000/internal/domain"
	"github.com/NikkahFirst/mobile-app-sub000/internal/usecase/auth"
)

const sessionContextKey = "session"

type AuthMiddleware struct {
	authUseCase *auth.AuthUseCase
}

func NewAuthMiddleware(authUseCase *auth.AuthUseCase) *AuthMiddleware {
	return &AuthMiddleware{authUseCase: authUseCase}
}

func extractToken(c *gin.Context) string {
	token := c.GetHeader("Authorization")
	if strings.HasPrefix(token, "Bearer ") {
		return token[7:]
	}
	return ""
}

// RequireAuth rejects requests without a valid session. Expired sessions are
// reported with a distinct error code so the client re-authenticates instead
// of retrying.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		session, err := m.authUseCase.VerifyToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrSessionExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "session expired",
					"code":  "session_expired",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// OptionalAuth attaches the session when a valid token is present but lets
// unauthenticated requests through; callers fall back to default-deny
// behavior. An expired session is still reported, not silently downgraded to
// anonymous, so the client knows to re-authenticate rather than log in fresh.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		session, err := m.authUseCase.VerifyToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrSessionExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "session expired",
					"code":  "session_expired",
				})
				return
			}
			c.Next()
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// SessionFrom returns the authenticated session attached by the middleware.
func SessionFrom(c *gin.Context) (*auth.SessionInfo, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*auth.SessionInfo)
	return session, ok
}
