package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
)

type MockRevocationStore struct {
	mock.Mock
}

func (m *MockRevocationStore) Revoke(ctx context.Context, token string, until time.Time) error {
	return m.Called(ctx, token, until).Error(0)
}

func (m *MockRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

const testSecret = "super-secret-key-for-testing"

func mintToken(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{}
	if subject != "" {
		claims["sub"] = subject
	}
	if expiresIn != 0 {
		claims["exp"] = time.Now().Add(expiresIn).Unix()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestTokenService_Inspect(t *testing.T) {
	t.Parallel()

	t.Run("Success: Verifies signature when a key is configured", func(t *testing.T) {
		service := NewTokenService(testSecret, nil)
		token := mintToken(t, testSecret, "alice", time.Hour)

		session, err := service.Inspect(token)

		require.NoError(t, err)
		assert.Equal(t, "alice", session.Username)
		assert.Equal(t, token, session.Token)
		assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 2*time.Second)
	})

	t.Run("Success: Reads claims without a key", func(t *testing.T) {
		service := NewTokenService("", nil)
		token := mintToken(t, "key-only-the-backend-knows", "bob", time.Hour)

		session, err := service.Inspect(token)

		require.NoError(t, err)
		assert.Equal(t, "bob", session.Username)
		assert.False(t, service.Verifies())
	})

	t.Run("Success: Token without expiry never expires locally", func(t *testing.T) {
		service := NewTokenService(testSecret, nil)
		token := mintToken(t, testSecret, "alice", 0)

		session, err := service.Inspect(token)

		require.NoError(t, err)
		assert.True(t, session.ExpiresAt.IsZero())
	})

	t.Run("Fail: Should reject token with wrong secret (Tampered)", func(t *testing.T) {
		service := NewTokenService(testSecret, nil)
		token := mintToken(t, "wrong-key", "alice", time.Hour)

		session, err := service.Inspect(token)

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Nil(t, session)
	})

	t.Run("Fail: Should reject expired token with and without a key", func(t *testing.T) {
		token := mintToken(t, testSecret, "alice", -time.Minute)

		_, err := NewTokenService(testSecret, nil).Inspect(token)
		assert.ErrorIs(t, err, domain.ErrTokenExpired)

		_, err = NewTokenService("", nil).Inspect(token)
		assert.ErrorIs(t, err, domain.ErrTokenExpired)
	})

	t.Run("Fail: Should reject token without subject", func(t *testing.T) {
		service := NewTokenService(testSecret, nil)
		token := mintToken(t, testSecret, "", time.Hour)

		_, err := service.Inspect(token)

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Contains(t, err.Error(), "no subject")
	})

	t.Run("Fail: Should reject 'None' algorithm attack", func(t *testing.T) {
		token := jwt.New(jwt.SigningMethodNone)
		claims := token.Claims.(jwt.MapClaims)
		claims["sub"] = "alice"

		fakeTokenString, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)

		_, err := NewTokenService(testSecret, nil).Inspect(fakeTokenString)

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Contains(t, err.Error(), "unexpected signing method")
	})

	t.Run("Fail: Should reject malformed token string", func(t *testing.T) {
		for _, service := range []*TokenService{NewTokenService(testSecret, nil), NewTokenService("", nil)} {
			session, err := service.Inspect("this-is-not-a-jwt")

			assert.ErrorIs(t, err, domain.ErrUnauthorized)
			assert.Nil(t, session)
		}
	})
}

func TestTokenService_ValidateToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Success: Token not revoked", func(t *testing.T) {
		store := new(MockRevocationStore)
		service := NewTokenService(testSecret, store)
		token := mintToken(t, testSecret, "alice", time.Hour)

		store.On("IsRevoked", ctx, token).Return(false, nil)

		session, err := service.ValidateToken(ctx, token)

		require.NoError(t, err)
		assert.Equal(t, "alice", session.Username)
		store.AssertExpectations(t)
	})

	t.Run("Fail: Token revoked after logout", func(t *testing.T) {
		store := new(MockRevocationStore)
		service := NewTokenService(testSecret, store)
		token := mintToken(t, testSecret, "alice", time.Hour)

		store.On("IsRevoked", ctx, token).Return(true, nil)

		session, err := service.ValidateToken(ctx, token)

		assert.ErrorIs(t, err, domain.ErrTokenRevoked)
		assert.Nil(t, session)
	})

	t.Run("Success: Store failure lets the token through", func(t *testing.T) {
		store := new(MockRevocationStore)
		service := NewTokenService(testSecret, store)
		token := mintToken(t, testSecret, "alice", time.Hour)

		store.On("IsRevoked", ctx, token).Return(false, errors.New("connection refused"))

		session, err := service.ValidateToken(ctx, token)

		require.NoError(t, err)
		assert.Equal(t, "alice", session.Username)
	})

	t.Run("Fail: Invalid token never reaches the store", func(t *testing.T) {
		store := new(MockRevocationStore)
		service := NewTokenService(testSecret, store)

		_, err := service.ValidateToken(ctx, "garbage")

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		store.AssertNotCalled(t, "IsRevoked", mock.Anything, mock.Anything)
	})
}

func TestTokenService_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Revokes until token expiry", func(t *testing.T) {
		store := new(MockRevocationStore)
		service := NewTokenService(testSecret, store)
		expiry := time.Now().Add(30 * time.Minute)
		session := &domain.Session{Token: "tok", Username: "alice", ExpiresAt: expiry}

		store.On("Revoke", ctx, "tok", expiry).Return(nil)

		assert.NoError(t, service.Revoke(ctx, session))
		store.AssertExpectations(t)
	})

	t.Run("Success: Token without expiry gets a fallback window", func(t *testing.T) {
		store := new(MockRevocationStore)
		service := NewTokenService(testSecret, store)
		session := &domain.Session{Token: "tok", Username: "alice"}

		store.On("Revoke", ctx, "tok", mock.MatchedBy(func(until time.Time) bool {
			return until.After(time.Now().Add(23 * time.Hour))
		})).Return(nil)

		assert.NoError(t, service.Revoke(ctx, session))
		store.AssertExpectations(t)
	})

	t.Run("Fail: Store error is wrapped", func(t *testing.T) {
		store := new(MockRevocationStore)
		service := NewTokenService(testSecret, store)
		session := &domain.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Minute)}

		store.On("Revoke", ctx, "tok", mock.Anything).Return(errors.New("redis down"))

		err := service.Revoke(ctx, session)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to revoke token")
	})

	t.Run("Success: No store configured", func(t *testing.T) {
		service := NewTokenService(testSecret, nil)
		assert.NoError(t, service.Revoke(ctx, &domain.Session{Token: "tok"}))
	})
}
