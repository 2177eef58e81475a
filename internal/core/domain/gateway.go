package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrAnalysisRejected    = errors.New("analysis service rejected the request")
	ErrUpstreamUnavailable = errors.New("diet service unavailable")
)

// UpstreamError is an unexpected status from the diet service.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("diet service returned %d: %s", e.StatusCode, e.Message)
}

type AuthGateway interface {
	// SignUp registers new credentials and returns the issued token.
	SignUp(ctx context.Context, creds Credentials) (string, error)

	// Login exchanges credentials for a token.
	Login(ctx context.Context, creds Credentials) (string, error)
}

type ProfileGateway interface {
	GetProfile(ctx context.Context, token string) (*UserProfile, error)
	SaveProfile(ctx context.Context, token string, profile *UserProfile) error
}

type AnalysisGateway interface {
	// Analyze sends a photo or manual values and gets back the meal, today's
	// prior intake and the daily target.
	Analyze(ctx context.Context, token string, req AnalysisRequest) (*AnalysisResult, error)
}

type HistoryGateway interface {
	SaveMeal(ctx context.Context, token string, meal MealRecord) error
	ListHistory(ctx context.Context, token string) ([]DietEntry, error)
}

// TokenRevocationStore remembers tokens that were signed out before expiry.
type TokenRevocationStore interface {
	Revoke(ctx context.Context, token string, until time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
