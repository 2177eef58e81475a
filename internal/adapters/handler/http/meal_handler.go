package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diet-web/internal/core/services"
)

const imageField = "food_img"

var (
	errMissingMealIntake = errors.New("calories, protein, carbohydrates and fat are required")
	errInvalidForm       = errors.New("malformed multipart form")
)

type MealHandler struct {
	svc *services.AnalysisService
}

func NewMealHandler(svc *services.AnalysisService) *MealHandler {
	return &MealHandler{svc: svc}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.POST("/analyze", h.Analyze)
		meals.POST("", h.Save)
	}
}

// Analyze takes the same multipart form as the meal page: an optional photo,
// optional manual macronutrients and the browser's time zone.
func (h *MealHandler) Analyze(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	image, err := readImage(c)
	if err != nil {
		handleError(c, err)
		return
	}

	manual, err := domain.ParseManualIntake(
		c.PostForm("manual_protein"),
		c.PostForm("manual_carbohydrates"),
		c.PostForm("manual_fat"),
	)
	if err != nil {
		handleError(c, err)
		return
	}

	view, err := h.svc.Analyze(c.Request.Context(), session.Token, services.AnalyzeInput{
		Image:    image,
		Manual:   manual,
		TimeZone: c.PostForm("time_zone"),
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Save logs an analysed meal. Optional prior_* and target_* fields let the
// response carry the updated summary without another analysis round trip.
func (h *MealHandler) Save(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	intake, err := intakeFromForm(c, "", true)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prior, err := intakeFromForm(c, "prior_", false)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target, err := intakeFromForm(c, "target_", false)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image, err := readImage(c)
	if err != nil {
		handleError(c, err)
		return
	}

	summary, err := h.svc.SaveMeal(c.Request.Context(), session.Token, services.SaveMealInput{
		Intake: intake,
		Prior:  prior,
		Target: target,
		Image:  image,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "meal saved",
		"summary": summary,
	})
}

func readImage(c *gin.Context) (*domain.ImageUpload, error) {
	header, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", errInvalidForm, err)
	}
	if header.Size > domain.MaxImageBytes {
		return nil, domain.ErrImageTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("meal handler: open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, domain.MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("meal handler: read upload: %w", err)
	}

	return domain.NewImageUpload(header.Filename, header.Header.Get("Content-Type"), data)
}

func intakeFromForm(c *gin.Context, prefix string, required bool) (domain.NutrientIntake, error) {
	var in domain.NutrientIntake
	fields := []struct {
		name string
		dst  *float64
	}{
		{"calories", &in.Calories},
		{"protein", &in.Protein},
		{"carbohydrates", &in.Carbohydrates},
		{"fat", &in.Fat},
	}

	for _, f := range fields {
		raw := strings.TrimSpace(c.PostForm(prefix + f.name))
		if raw == "" {
			if required {
				return domain.NutrientIntake{}, errMissingMealIntake
			}
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.NutrientIntake{}, fmt.Errorf("%s%s must be a number", prefix, f.name)
		}
		*f.dst = v
	}

	return in, nil
}
