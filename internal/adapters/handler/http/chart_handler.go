package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
)

type ChartRenderer interface {
	Summary(summary domain.IntakeSummary) ([]byte, error)
	Composition(c domain.Composition) ([]byte, error)
}

// ChartHandler exposes the calculator without a session; it never talks to
// the diet service.
type ChartHandler struct {
	renderer ChartRenderer
}

func NewChartHandler(renderer ChartRenderer) *ChartHandler {
	return &ChartHandler{renderer: renderer}
}

type summaryRequest struct {
	Current domain.NutrientIntake `json:"current"`
	Prior   domain.NutrientIntake `json:"prior"`
	Target  domain.NutrientIntake `json:"target"`
}

func (r summaryRequest) validate() error {
	for _, in := range []domain.NutrientIntake{r.Current, r.Prior, r.Target} {
		if err := in.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type compositionRequest struct {
	Current domain.NutrientIntake `json:"current"`
}

func (h *ChartHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/summary", h.Summary)

	charts := router.Group("/charts")
	{
		charts.POST("/summary", h.SummaryChart)
		charts.POST("/composition", h.CompositionChart)
	}
}

func bindSummary(c *gin.Context) (domain.IntakeSummary, bool) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return domain.IntakeSummary{}, false
	}
	if err := req.validate(); err != nil {
		handleError(c, err)
		return domain.IntakeSummary{}, false
	}
	summary := domain.Summarize(req.Current, req.Prior, req.Target)
	if !summary.Finite() {
		handleError(c, domain.ErrSummaryOutOfRange)
		return domain.IntakeSummary{}, false
	}
	return summary, true
}

func (h *ChartHandler) Summary(c *gin.Context) {
	summary, ok := bindSummary(c)
	if !ok {
		return
	}

	overshoot := summary.Overshoot()
	if overshoot == nil {
		overshoot = []domain.Nutrient{}
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":   summary,
		"overshoot": overshoot,
	})
}

func (h *ChartHandler) SummaryChart(c *gin.Context) {
	summary, ok := bindSummary(c)
	if !ok {
		return
	}

	img, err := h.renderer.Summary(summary)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", img)
}

func (h *ChartHandler) CompositionChart(c *gin.Context) {
	var req compositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Current.Validate(); err != nil {
		handleError(c, err)
		return
	}

	img, err := h.renderer.Composition(domain.NewComposition(req.Current))
	if err != nil {
		handleError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", img)
}
