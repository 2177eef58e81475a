package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
)

type ProfileService struct {
	gateway domain.ProfileGateway
}

func NewProfileService(gateway domain.ProfileGateway) *ProfileService {
	return &ProfileService{gateway: gateway}
}

type SaveProfileInput struct {
	Height        int
	Weight        int
	Age           int
	Gender        string
	ActivityLevel string
	Goal          string
	Preference    string
}

func (s *ProfileService) Get(ctx context.Context, token string) (*domain.UserProfile, error) {
	profile, err := s.gateway.GetProfile(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("profile service: failed to get profile: %w", err)
	}
	return profile, nil
}

// Save validates locally, stores the profile and reads it back so the caller
// sees the targets the profile store recomputed.
func (s *ProfileService) Save(ctx context.Context, token string, input SaveProfileInput) (*domain.UserProfile, error) {
	profile, err := domain.NewUserProfile(
		input.Height,
		input.Weight,
		input.Age,
		input.Gender,
		input.ActivityLevel,
		input.Goal,
		input.Preference,
	)
	if err != nil {
		return nil, err
	}

	if err := s.gateway.SaveProfile(ctx, token, profile); err != nil {
		return nil, fmt.Errorf("profile service: failed to save profile: %w", err)
	}

	saved, err := s.gateway.GetProfile(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("profile service: failed to reload profile: %w", err)
	}
	return saved, nil
}

func (s *ProfileService) Target(ctx context.Context, token string) (domain.NutrientIntake, error) {
	profile, err := s.Get(ctx, token)
	if err != nil {
		return domain.NutrientIntake{}, err
	}
	return profile.Target(), nil
}
