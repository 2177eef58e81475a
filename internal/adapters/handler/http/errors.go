package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-diet-web/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
)

var badRequestErrors = []error{
	domain.ErrUsernameEmpty,
	domain.ErrUsernameTooLong,
	domain.ErrPasswordEmpty,
	domain.ErrInvalidHeight,
	domain.ErrInvalidWeight,
	domain.ErrInvalidAge,
	domain.ErrInvalidGender,
	domain.ErrInvalidActivityLevel,
	domain.ErrInvalidGoal,
	domain.ErrInvalidPreference,
	domain.ErrNegativeIntake,
	domain.ErrIntakeOutOfRange,
	domain.ErrSummaryOutOfRange,
	domain.ErrNoAnalysisInput,
	domain.ErrIncompleteManualIntake,
	domain.ErrInvalidManualValue,
	domain.ErrInvalidTimeZone,
	domain.ErrEmptyImage,
	errInvalidForm,
}

func isBadRequest(err error) bool {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func handleError(c *gin.Context, err error) {
	var upstream *domain.UpstreamError

	switch {
	case isBadRequest(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrImageTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds the 10 MB upload limit"})

	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenRevoked):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session is no longer valid, please log in again"})

	case errors.Is(err, domain.ErrIncorrectPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect password"})

	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})

	case errors.Is(err, domain.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found, fill in your details first"})

	case errors.Is(err, domain.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})

	case errors.Is(err, domain.ErrAnalysisRejected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "the analysis service could not process this meal"})

	case errors.Is(err, domain.ErrUpstreamUnavailable), errors.As(err, &upstream):
		log.Printf("[UPSTREAM] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusBadGateway, gin.H{"error": "diet service unavailable, try again later"})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func sessionOrAbort(c *gin.Context) (*domain.Session, bool) {
	session, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session context missing"})
		return nil, false
	}
	return session, true
}
