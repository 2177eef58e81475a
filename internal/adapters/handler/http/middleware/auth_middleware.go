package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diet-web/internal/core/services"
)

const (
	authorizationHeader = "Authorization"
	authorizationType   = "Bearer"
	TokenCookieName     = "jwtToken"
	ContextSessionKey   = "session"
)

// AuthMiddleware accepts a Bearer header or, for browser clients, the token
// cookie set at login. The header wins when both are present.
func AuthMiddleware(tokenService *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			return
		}

		session, err := tokenService.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			msg := "invalid or expired token"
			switch {
			case errors.Is(err, domain.ErrTokenExpired):
				msg = "token has expired, please log in again"
			case errors.Is(err, domain.ErrTokenRevoked):
				msg = "session has been logged out"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, session)

		c.Next()
	}
}

func extractToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader(authorizationHeader)
	if authHeader != "" {
		fields := strings.Fields(authHeader)
		if len(fields) != 2 || fields[0] != authorizationType {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return "", false
		}
		return fields[1], true
	}

	if cookie, err := c.Cookie(TokenCookieName); err == nil && cookie != "" {
		return cookie, true
	}

	c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	c.Abort()
	return "", false
}

func GetSession(c *gin.Context) (*domain.Session, bool) {
	v, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil, false
	}
	session, ok := v.(*domain.Session)
	return session, ok
}
