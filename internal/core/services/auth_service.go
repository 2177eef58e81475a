package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
)

type AuthService struct {
	gateway domain.AuthGateway
	tokens  *TokenService
}

func NewAuthService(gateway domain.AuthGateway, tokens *TokenService) *AuthService {
	return &AuthService{
		gateway: gateway,
		tokens:  tokens,
	}
}

type CredentialsInput struct {
	Username string
	Password string
}

func (s *AuthService) SignUp(ctx context.Context, input CredentialsInput) (*domain.Session, error) {
	creds, err := domain.NewCredentials(input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.gateway.SignUp(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("auth service: failed to sign up: %w", err)
	}

	return s.session(token)
}

func (s *AuthService) Login(ctx context.Context, input CredentialsInput) (*domain.Session, error) {
	creds, err := domain.NewCredentials(input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.gateway.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("auth service: failed to log in: %w", err)
	}

	return s.session(token)
}

func (s *AuthService) Logout(ctx context.Context, session *domain.Session) error {
	return s.tokens.Revoke(ctx, session)
}

func (s *AuthService) session(token string) (*domain.Session, error) {
	session, err := s.tokens.Inspect(token)
	if err != nil {
		return nil, fmt.Errorf("auth service: issued token unusable: %w", err)
	}
	return session, nil
}
