package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/services"
)

type ProfileHandler struct {
	svc *services.ProfileService
}

func NewProfileHandler(svc *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type saveProfileRequest struct {
	Height        int    `json:"height" binding:"required"`
	Weight        int    `json:"weight" binding:"required"`
	Age           int    `json:"age" binding:"required"`
	Gender        string `json:"gender" binding:"required"`
	ActivityLevel string `json:"activity_level" binding:"required"`
	Target        string `json:"target" binding:"required"`
	Preference    string `json:"preference" binding:"required"`
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.Get)
		profile.PUT("", h.Save)
		profile.GET("/target", h.Target)
	}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	profile, err := h.svc.Get(c.Request.Context(), session.Token)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Save(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req saveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.svc.Save(c.Request.Context(), session.Token, services.SaveProfileInput{
		Height:        req.Height,
		Weight:        req.Weight,
		Age:           req.Age,
		Gender:        req.Gender,
		ActivityLevel: req.ActivityLevel,
		Goal:          req.Target,
		Preference:    req.Preference,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Target(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	target, err := h.svc.Target(c.Request.Context(), session.Token)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"target":     target,
		"has_target": !target.IsZero(),
	})
}
