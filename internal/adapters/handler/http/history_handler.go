package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/services"
)

type HistoryHandler struct {
	svc             *services.HistoryService
	defaultTimeZone string
}

func NewHistoryHandler(svc *services.HistoryService, defaultTimeZone string) *HistoryHandler {
	return &HistoryHandler{
		svc:             svc,
		defaultTimeZone: defaultTimeZone,
	}
}

func (h *HistoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	history := router.Group("/history")
	{
		history.GET("", h.List)
		history.GET("/export", h.Export)
	}
}

func (h *HistoryHandler) timeZone(c *gin.Context) string {
	if tz := c.Query("tz"); tz != "" {
		return tz
	}
	return h.defaultTimeZone
}

func (h *HistoryHandler) List(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	tz := h.timeZone(c)
	days, err := h.svc.List(c.Request.Context(), session.Token, tz)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"time_zone": tz,
		"days":      days,
	})
}

func (h *HistoryHandler) Export(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Export(c.Request.Context(), &buf, session.Token, h.timeZone(c)); err != nil {
		handleError(c, err)
		return
	}

	contentType, ext := h.svc.ExportFormat()
	filename := fmt.Sprintf("diet-history-%s.%s", time.Now().UTC().Format("20060102"), ext)

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
