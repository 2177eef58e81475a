package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
)

// AnalysisView is everything the meal page draws after one analysis.
type AnalysisView struct {
	Result      domain.AnalysisResult `json:"result"`
	Summary     domain.IntakeSummary  `json:"summary"`
	Composition domain.Composition    `json:"composition"`
}

func newAnalysisView(result domain.AnalysisResult) *AnalysisView {
	return &AnalysisView{
		Result:      result,
		Summary:     domain.Summarize(result.Current, result.Prior, result.Target),
		Composition: domain.NewComposition(result.Current),
	}
}

type AnalysisService struct {
	analysis        domain.AnalysisGateway
	history         domain.HistoryGateway
	defaultTimeZone string
}

func NewAnalysisService(analysis domain.AnalysisGateway, history domain.HistoryGateway, defaultTimeZone string) *AnalysisService {
	if defaultTimeZone == "" {
		defaultTimeZone = "UTC"
	}
	return &AnalysisService{
		analysis:        analysis,
		history:         history,
		defaultTimeZone: defaultTimeZone,
	}
}

type AnalyzeInput struct {
	Image    *domain.ImageUpload
	Manual   *domain.ManualIntake
	TimeZone string
}

func (s *AnalysisService) Analyze(ctx context.Context, token string, input AnalyzeInput) (*AnalysisView, error) {
	req := domain.AnalysisRequest{
		Image:    input.Image,
		Manual:   input.Manual,
		TimeZone: strings.TrimSpace(input.TimeZone),
	}
	if req.TimeZone == "" {
		req.TimeZone = s.defaultTimeZone
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	result, err := s.analysis.Analyze(ctx, token, req)
	if err != nil {
		return nil, fmt.Errorf("analysis service: failed to analyze meal: %w", err)
	}

	return newAnalysisView(*result), nil
}

type SaveMealInput struct {
	Intake domain.NutrientIntake
	Prior  domain.NutrientIntake
	Target domain.NutrientIntake
	Image  *domain.ImageUpload
}

// SaveMeal logs the meal and returns the summary as it stands afterwards: the
// saved meal now counts as prior intake.
func (s *AnalysisService) SaveMeal(ctx context.Context, token string, input SaveMealInput) (*domain.IntakeSummary, error) {
	meal := domain.MealRecord{Intake: input.Intake, Image: input.Image}
	if err := meal.Validate(); err != nil {
		return nil, err
	}
	if err := input.Prior.Validate(); err != nil {
		return nil, err
	}
	if err := input.Target.Validate(); err != nil {
		return nil, err
	}

	summary := domain.Summarize(domain.NutrientIntake{}, input.Prior.Add(input.Intake), input.Target)
	if !summary.Finite() {
		return nil, domain.ErrSummaryOutOfRange
	}

	if err := s.history.SaveMeal(ctx, token, meal); err != nil {
		return nil, fmt.Errorf("analysis service: failed to save meal: %w", err)
	}

	return &summary, nil
}
