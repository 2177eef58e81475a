package dietapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
)

// saveProfilePayload carries only the fields the profile store accepts; the
// computed targets are derived server-side.
type saveProfilePayload struct {
	Height        int    `json:"height"`
	Weight        int    `json:"weight"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	ActivityLevel string `json:"activity_level"`
	Target        string `json:"target"`
	Preference    string `json:"preference"`
}

// profileResponse tolerates nulls for targets that were never computed.
type profileResponse struct {
	Height              *int    `json:"height"`
	Weight              *int    `json:"weight"`
	Age                 *int    `json:"age"`
	Gender              *string `json:"gender"`
	ActivityLevel       *string `json:"activity_level"`
	Target              *string `json:"target"`
	Preference          *string `json:"preference"`
	TDEE                *int    `json:"tdee"`
	TargetProtein       *int    `json:"target_protein"`
	TargetCarbohydrates *int    `json:"target_carbohydrates"`
	TargetFat           *int    `json:"target_fat"`
}

func (r profileResponse) toDomain() *domain.UserProfile {
	return &domain.UserProfile{
		Height:              deref(r.Height),
		Weight:              deref(r.Weight),
		Age:                 deref(r.Age),
		Gender:              deref(r.Gender),
		ActivityLevel:       deref(r.ActivityLevel),
		Goal:                deref(r.Target),
		Preference:          deref(r.Preference),
		TDEE:                deref(r.TDEE),
		TargetProtein:       deref(r.TargetProtein),
		TargetCarbohydrates: deref(r.TargetCarbohydrates),
		TargetFat:           deref(r.TargetFat),
	}
}

func (c *Client) GetProfile(ctx context.Context, token string) (*domain.UserProfile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/get_user_info", token, nil)
	if err != nil {
		return nil, err
	}

	var resp profileResponse
	if err := c.do(req, &resp, mapProfileError); err != nil {
		return nil, err
	}
	return resp.toDomain(), nil
}

func (c *Client) SaveProfile(ctx context.Context, token string, profile *domain.UserProfile) error {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/save_user_info", token, saveProfilePayload{
		Height:        profile.Height,
		Weight:        profile.Weight,
		Age:           profile.Age,
		Gender:        profile.Gender,
		ActivityLevel: profile.ActivityLevel,
		Target:        profile.Goal,
		Preference:    profile.Preference,
	})
	if err != nil {
		return err
	}

	return c.do(req, nil, mapProfileError)
}

func mapProfileError(msg string) error {
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "not found") || strings.Contains(lower, "failed to save user info") {
		return domain.ErrProfileNotFound
	}
	return nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
