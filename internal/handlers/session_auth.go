package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quizquest/quiz-service/internal/auth"
	"github.com/quizquest/quiz-service/internal/cache"
	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/repositories"
	"github.com/quizquest/quiz-service/internal/utils"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "qq_session"

const loginPath = "/login/"

// SessionAuthMiddleware authenticates requests from the session cookie (or
// a bearer token) and enforces role requirements.
type SessionAuthMiddleware struct {
	tokens   *auth.TokenManager
	sessions *cache.SessionStore
	users    repositories.UserRepository
	logger   utils.Logger
}

func NewSessionAuthMiddleware(
	tokens *auth.TokenManager,
	sessions *cache.SessionStore,
	users repositories.UserRepository,
	logger utils.Logger,
) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{
		tokens:   tokens,
		sessions: sessions,
		users:    users,
		logger:   logger,
	}
}

// RequireAuth resolves the session and loads the current user into the
// context. Browsers get the classic treatment: no valid session means a
// 302 to the login page, not a 401.
func (m *SessionAuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			m.redirectToLogin(c)
			return
		}

		claims, err := m.tokens.Parse(token)
		if err != nil {
			m.redirectToLogin(c)
			return
		}

		// A revoked or expired session entry kills the token even though
		// its signature is still valid. Without Redis the signed expiry
		// is the only authority.
		if _, err := m.sessions.Get(c.Request.Context(), claims.SessionID); err != nil {
			if !errors.Is(err, cache.ErrSessionNotTracked) {
				m.redirectToLogin(c)
				return
			}
		} else if err := m.sessions.Touch(c.Request.Context(), claims.SessionID); err != nil {
			utils.FromContext(c, m.logger).Warn("failed to extend session", "error", err)
		}

		user, err := m.users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			m.redirectToLogin(c)
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("session_id", claims.SessionID)
		c.Next()
	}
}

// RequireRole rejects authenticated callers lacking the role with a 403.
// Must run after RequireAuth.
func (m *SessionAuthMiddleware) RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			m.redirectToLogin(c)
			return
		}
		if user.Role != role {
			utils.FromContext(c, m.logger).Warn("role check failed",
				"user_id", user.ID,
				"role", user.Role,
				"required", role,
				"path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Forbidden",
			})
			return
		}
		c.Next()
	}
}

func (m *SessionAuthMiddleware) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func (m *SessionAuthMiddleware) redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, loginPath)
	c.Abort()
}

// CurrentUser returns the authenticated user set by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentSessionID returns the session id set by RequireAuth.
func CurrentSessionID(c *gin.Context) string {
	return c.GetString("session_id")
}
