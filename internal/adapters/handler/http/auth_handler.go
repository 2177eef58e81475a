package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-diet-web/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diet-web/internal/core/services"
)

type AuthHandler struct {
	service      *services.AuthService
	secureCookie bool
}

func NewAuthHandler(service *services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		service:      service,
		secureCookie: secureCookie,
	}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Username  string     `json:"username"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func newSessionResponse(s *domain.Session) sessionResponse {
	resp := sessionResponse{Username: s.Username, Token: s.Token}
	if !s.ExpiresAt.IsZero() {
		exp := s.ExpiresAt.UTC()
		resp.ExpiresAt = &exp
	}
	return resp
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", h.SignUp)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", auth, h.Logout)
	}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	h.openSession(c, http.StatusCreated, h.service.SignUp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	h.openSession(c, http.StatusOK, h.service.Login)
}

type sessionOpener func(ctx context.Context, input services.CredentialsInput) (*domain.Session, error)

func (h *AuthHandler) openSession(c *gin.Context, status int, open sessionOpener) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := open(c.Request.Context(), services.CredentialsInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	h.setTokenCookie(c, session.Token, int(session.TTL(time.Now()).Seconds()))
	c.JSON(status, newSessionResponse(session))
}

// Logout always clears the cookie. A failed revocation only means the token
// stays usable until it expires on its own.
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	if err := h.service.Logout(c.Request.Context(), session); err != nil {
		log.Printf("[AUTH] Logout for %s could not revoke token: %v", session.Username, err)
	}

	h.setTokenCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookieName, value, maxAge, "/", "", h.secureCookie, true)
}
