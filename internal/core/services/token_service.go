package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
)

// TokenService reads the tokens issued by the auth backend. When the shared
// signing key is configured signatures are verified; otherwise the claims are
// only inspected and the backend stays the authority on every call.
type TokenService struct {
	secretKey   []byte
	revocations domain.TokenRevocationStore
	now         func() time.Time
}

func NewTokenService(secretKey string, revocations domain.TokenRevocationStore) *TokenService {
	return &TokenService{
		secretKey:   []byte(secretKey),
		revocations: revocations,
		now:         time.Now,
	}
}

func (s *TokenService) Verifies() bool {
	return len(s.secretKey) > 0
}

// Inspect turns a token into a Session without consulting the revocation
// store.
func (s *TokenService) Inspect(tokenString string) (*domain.Session, error) {
	claims := jwt.MapClaims{}

	if s.Verifies() {
		_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secretKey, nil
		}, jwt.WithTimeFunc(s.now))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return nil, domain.ErrTokenExpired
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
	} else {
		parser := jwt.NewParser()
		if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
	}

	username, err := claims.GetSubject()
	if err != nil || username == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}

	session := &domain.Session{
		Token:    tokenString,
		Username: username,
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid expiry: %v", domain.ErrUnauthorized, err)
	}
	if exp != nil {
		session.ExpiresAt = exp.Time
	}

	if session.Expired(s.now()) {
		return nil, domain.ErrTokenExpired
	}

	return session, nil
}

// ValidateToken is Inspect plus the sign-out check.
func (s *TokenService) ValidateToken(ctx context.Context, tokenString string) (*domain.Session, error) {
	session, err := s.Inspect(tokenString)
	if err != nil {
		return nil, err
	}

	if s.revocations == nil {
		return session, nil
	}

	revoked, err := s.revocations.IsRevoked(ctx, tokenString)
	if err != nil {
		log.Printf("[AUTH] Revocation lookup failed, allowing token for %s: %v", session.Username, err)
		return session, nil
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}

	return session, nil
}

func (s *TokenService) Revoke(ctx context.Context, session *domain.Session) error {
	if s.revocations == nil {
		return nil
	}

	until := session.ExpiresAt
	if until.IsZero() {
		until = s.now().Add(24 * time.Hour)
	}

	if err := s.revocations.Revoke(ctx, session.Token, until); err != nil {
		return fmt.Errorf("token service: failed to revoke token: %w", err)
	}
	return nil
}
