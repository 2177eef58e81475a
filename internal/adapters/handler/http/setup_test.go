package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-diet-web/internal/adapters/export"
	"github.com/comitanigiacomo/kanso-diet-web/internal/adapters/render"
	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diet-web/internal/core/services"
)

const testSecret = "handler-test-secret"

type MockAuthGateway struct{ mock.Mock }

func (m *MockAuthGateway) SignUp(ctx context.Context, creds domain.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

func (m *MockAuthGateway) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	args := m.Called(ctx, creds)
	return args.String(0), args.Error(1)
}

type MockProfileGateway struct{ mock.Mock }

func (m *MockProfileGateway) GetProfile(ctx context.Context, token string) (*domain.UserProfile, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockProfileGateway) SaveProfile(ctx context.Context, token string, p *domain.UserProfile) error {
	return m.Called(ctx, token, p).Error(0)
}

type MockAnalysisGateway struct{ mock.Mock }

func (m *MockAnalysisGateway) Analyze(ctx context.Context, token string, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisResult), args.Error(1)
}

type MockHistoryGateway struct{ mock.Mock }

func (m *MockHistoryGateway) SaveMeal(ctx context.Context, token string, meal domain.MealRecord) error {
	return m.Called(ctx, token, meal).Error(0)
}

func (m *MockHistoryGateway) ListHistory(ctx context.Context, token string) ([]domain.DietEntry, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DietEntry), args.Error(1)
}

type MockRevocationStore struct{ mock.Mock }

func (m *MockRevocationStore) Revoke(ctx context.Context, token string, until time.Time) error {
	return m.Called(ctx, token, until).Error(0)
}

func (m *MockRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type testEnv struct {
	router      *gin.Engine
	auth        *MockAuthGateway
	profile     *MockProfileGateway
	analysis    *MockAnalysisGateway
	history     *MockHistoryGateway
	revocations *MockRevocationStore
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		auth:        new(MockAuthGateway),
		profile:     new(MockProfileGateway),
		analysis:    new(MockAnalysisGateway),
		history:     new(MockHistoryGateway),
		revocations: new(MockRevocationStore),
	}
	env.revocations.On("IsRevoked", mock.Anything, mock.Anything).Return(false, nil).Maybe()

	renderer, err := render.NewChartRenderer(640, 320)
	require.NoError(t, err)

	tokens := services.NewTokenService(testSecret, env.revocations)

	env.router = NewRouter(RouterDependencies{
		AuthHandler:    NewAuthHandler(services.NewAuthService(env.auth, tokens), true),
		ProfileHandler: NewProfileHandler(services.NewProfileService(env.profile)),
		MealHandler:    NewMealHandler(services.NewAnalysisService(env.analysis, env.history, "UTC")),
		HistoryHandler: NewHistoryHandler(services.NewHistoryService(env.history, export.NewXLSXExporter()), "UTC"),
		ChartHandler:   NewChartHandler(renderer),
		TokenService:   tokens,
		DietAPI:        stubPinger{},
		StartTime:      time.Now(),
	})

	return env
}

func mintToken(t *testing.T, username string, expiresIn time.Duration) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(expiresIn).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authorized(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

type formFile struct {
	name        string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, path string, fields map[string]string, file *formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile(imageField, file.name)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(env *testEnv, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}
