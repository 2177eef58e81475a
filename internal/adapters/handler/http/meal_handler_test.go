package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diet-web/internal/core/services"
)

var handlerTarget = domain.NutrientIntake{Calories: 2000, Protein: 100, Carbohydrates: 250, Fat: 70}

func TestMealHandler_Analyze(t *testing.T) {
	t.Run("Success: Manual values produce summary and composition", func(t *testing.T) {
		env := setupRouter(t)
		token := mintToken(t, "alice", time.Hour)

		manual := &domain.ManualIntake{Protein: 25, Carbohydrates: 30, Fat: 15}
		env.analysis.On("Analyze", mock.Anything, token, domain.AnalysisRequest{Manual: manual, TimeZone: "Asia/Taipei"}).
			Return(&domain.AnalysisResult{
				Current: manual.Intake(),
				Prior:   domain.NutrientIntake{Calories: 500, Protein: 20, Carbohydrates: 60, Fat: 15},
				Target:  handlerTarget,
			}, nil)

		req := multipartRequest(t, "/api/v1/meals/analyze", map[string]string{
			"manual_protein":       "25",
			"manual_carbohydrates": "30",
			"manual_fat":           "15",
			"time_zone":            "Asia/Taipei",
		}, nil)
		w := serve(env, authorized(req, token))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view services.AnalysisView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, 355.0, view.Result.Current.Calories)
		assert.Len(t, view.Summary.Segments, 4)
		assert.InDelta(t, 1.2, view.Summary.AxisMax, 1e-9)
		assert.Equal(t, 355.0, view.Composition.TotalKcal)
	})

	t.Run("Success: Photo is forwarded", func(t *testing.T) {
		env := setupRouter(t)
		token := mintToken(t, "alice", time.Hour)

		env.analysis.On("Analyze", mock.Anything, token, mock.MatchedBy(func(r domain.AnalysisRequest) bool {
			return r.Manual == nil && r.Image != nil && r.Image.Filename == "lunch.jpg" &&
				string(r.Image.Data) == "jpeg" && r.TimeZone == "UTC"
		})).Return(&domain.AnalysisResult{Target: handlerTarget}, nil)

		req := multipartRequest(t, "/api/v1/meals/analyze", nil, &formFile{name: "lunch.jpg", data: []byte("jpeg")})
		w := serve(env, authorized(req, token))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), domain.NoFoodIdentified)
	})

	t.Run("Fail: Partial manual values", func(t *testing.T) {
		env := setupRouter(t)
		token := mintToken(t, "alice", time.Hour)

		req := multipartRequest(t, "/api/v1/meals/analyze", map[string]string{"manual_protein": "25"}, nil)
		w := serve(env, authorized(req, token))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env.analysis.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Fail: Nothing to analyze", func(t *testing.T) {
		env := setupRouter(t)
		token := mintToken(t, "alice", time.Hour)

		w := serve(env, authorized(multipartRequest(t, "/api/v1/meals/analyze", nil, nil), token))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), domain.ErrNoAnalysisInput.Error())
	})

	t.Run("Fail: Analysis service rejects", func(t *testing.T) {
		env := setupRouter(t)
		token := mintToken(t, "alice", time.Hour)
		env.analysis.On("Analyze", mock.Anything, token, mock.Anything).Return(nil, domain.ErrAnalysisRejected)

		req := multipartRequest(t, "/api/v1/meals/analyze", nil, &formFile{name: "x.jpg", data: []byte("x")})
		w := serve(env, authorized(req, token))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestMealHandler_Save(t *testing.T) {
	t.Run("Success: Returns summary with meal folded into prior", func(t *testing.T) {
		env := setupRouter(t)
		token := mintToken(t, "alice", time.Hour)

		meal := domain.NutrientIntake{Calories: 355, Protein: 25, Carbohydrates: 30, Fat: 15}
		env.history.On("SaveMeal", mock.Anything, token, mock.MatchedBy(func(m domain.MealRecord) bool {
			return m.Intake == meal && m.Image != nil
		})).Return(nil)

		req := multipartRequest(t, "/api/v1/meals", map[string]string{
			"calories": "355", "protein": "25", "carbohydrates": "30", "fat": "15",
			"prior_calories": "500", "prior_protein": "20", "prior_carbohydrates": "60", "prior_fat": "15",
			"target_calories": "2000", "target_protein": "100", "target_carbohydrates": "250", "target_fat": "70",
		}, &formFile{name: "meal.jpg", data: []byte("jpeg")})
		w := serve(env, authorized(req, token))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var body struct {
			Summary domain.IntakeSummary `json:"summary"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		calories, ok := body.Summary.Segment(domain.Calories)
		require.True(t, ok)
		assert.Equal(t, 855.0, calories.PriorAbs)
		assert.Equal(t, 1145.0, calories.RemainingAbs)
		env.history.AssertExpectations(t)
	})

	t.Run("Fail: Missing intake fields", func(t *testing.T) {
		env := setupRouter(t)
		token := mintToken(t, "alice", time.Hour)

		req := multipartRequest(t, "/api/v1/meals", map[string]string{"calories": "355"}, nil)
		w := serve(env, authorized(req, token))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "required")
	})

	t.Run("Fail: Non-numeric prior", func(t *testing.T) {
		env := setupRouter(t)
		token := mintToken(t, "alice", time.Hour)

		req := multipartRequest(t, "/api/v1/meals", map[string]string{
			"calories": "355", "protein": "25", "carbohydrates": "30", "fat": "15",
			"prior_fat": "lots",
		}, nil)
		w := serve(env, authorized(req, token))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "prior_fat")
	})

	t.Run("Fail: Negative intake", func(t *testing.T) {
		env := setupRouter(t)
		token := mintToken(t, "alice", time.Hour)

		req := multipartRequest(t, "/api/v1/meals", map[string]string{
			"calories": "-1", "protein": "25", "carbohydrates": "30", "fat": "15",
		}, nil)
		w := serve(env, authorized(req, token))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env.history.AssertNotCalled(t, "SaveMeal", mock.Anything, mock.Anything, mock.Anything)
	})

	nonFinite := []struct {
		name  string
		field string
		value string
	}{
		{"NaN intake", "calories", "NaN"},
		{"Infinite intake", "protein", "Inf"},
		{"Infinite prior", "prior_fat", "+Inf"},
		{"NaN target", "target_calories", "nan"},
		{"Intake above the cap", "carbohydrates", "1e12"},
	}
	for _, tt := range nonFinite {
		t.Run("Fail: "+tt.name, func(t *testing.T) {
			env := setupRouter(t)
			token := mintToken(t, "alice", time.Hour)

			fields := map[string]string{
				"calories": "355", "protein": "25", "carbohydrates": "30", "fat": "15",
			}
			fields[tt.field] = tt.value
			w := serve(env, authorized(multipartRequest(t, "/api/v1/meals", fields, nil), token))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), domain.ErrIntakeOutOfRange.Error())
			env.history.AssertNotCalled(t, "SaveMeal", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
