package dietapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
)

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	JWTToken string `json:"jwtToken"`
	Message  string `json:"message"`
}

func (c *Client) SignUp(ctx context.Context, creds domain.Credentials) (string, error) {
	return c.exchange(ctx, "/signup", creds)
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	return c.exchange(ctx, "/login", creds)
}

func (c *Client) exchange(ctx context.Context, endpoint string, creds domain.Credentials) (string, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, endpoint, "", credentialsPayload{
		Username: creds.Username,
		Password: creds.Password,
	})
	if err != nil {
		return "", err
	}

	var resp tokenResponse
	if err := c.do(req, &resp, mapAuthError); err != nil {
		return "", err
	}

	if resp.JWTToken == "" {
		return "", fmt.Errorf("diet api: %s returned no token", endpoint)
	}
	return resp.JWTToken, nil
}

func mapAuthError(msg string) error {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "already taken"):
		return domain.ErrUsernameTaken
	case strings.Contains(lower, "user not found"):
		return domain.ErrUserNotFound
	case strings.Contains(lower, "incorrect password"):
		return domain.ErrIncorrectPassword
	default:
		return nil
	}
}
