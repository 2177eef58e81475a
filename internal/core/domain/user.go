package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrUsernameEmpty     = errors.New("username cannot be empty")
	ErrUsernameTooLong   = errors.New("username is too long (max 45 chars)")
	ErrPasswordEmpty     = errors.New("password cannot be empty")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrTokenExpired      = errors.New("token has expired")
	ErrTokenRevoked      = errors.New("token has been revoked")
)

const MaxUsernameLen = 45

type Credentials struct {
	Username string
	Password string
}

func NewCredentials(username, password string) (Credentials, error) {
	username = strings.TrimSpace(username)

	if username == "" {
		return Credentials{}, ErrUsernameEmpty
	}
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return Credentials{}, ErrUsernameTooLong
	}
	if password == "" {
		return Credentials{}, ErrPasswordEmpty
	}

	return Credentials{Username: username, Password: password}, nil
}

// Session is a signed-in user as seen through the token the auth backend
// issued.
type Session struct {
	Token     string    `json:"-"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s *Session) TTL(now time.Time) time.Duration {
	if s.ExpiresAt.IsZero() {
		return 0
	}
	if d := s.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
