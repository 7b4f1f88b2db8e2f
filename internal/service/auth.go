package service

import (
	"context"
	"errors"
	"strings"

	"github.com/geocoder89/sharedfeed/internal/auth"
	"github.com/geocoder89/sharedfeed/internal/domain/user"
	"github.com/geocoder89/sharedfeed/internal/security"
)

// TokenIssuer is the part of auth.Manager the auth flow needs.
type TokenIssuer interface {
	Issue(userID string, kind auth.Kind) (string, error)
	IssuePair(userID string) (auth.Tokens, error)
	Validate(token string, expected auth.Kind) (string, error)
}

type AuthResult struct {
	User   user.User   `json:"user"`
	Tokens auth.Tokens `json:"tokens"`
}

type AuthService struct {
	users     UserStore
	tokens    TokenIssuer
	passwords security.PasswordEncoder
}

func NewAuthService(users UserStore, tokens TokenIssuer, passwords security.PasswordEncoder) *AuthService {
	if passwords == nil {
		passwords = security.NewPasswordEncoder("")
	}
	return &AuthService{users: users, tokens: tokens, passwords: passwords}
}

// Login finds the single user whose stored password equals the submitted
// one. Passwords are unique across users, which is what makes this lookup
// unambiguous.
func (s *AuthService) Login(ctx context.Context, password string) (AuthResult, error) {
	if password == "" {
		return AuthResult{}, missing("password")
	}

	u, err := s.users.FindByPassword(ctx, s.passwords.Encode(password))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, storeErr("users.find_by_password", err)
	}

	return s.issue(u)
}

func (s *AuthService) Signup(ctx context.Context, name, password string) (AuthResult, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return AuthResult{}, missing("name")
	}
	if password == "" {
		return AuthResult{}, missing("password")
	}

	stored := s.passwords.Encode(password)

	_, err := s.users.FindByPassword(ctx, stored)
	switch {
	case err == nil:
		return AuthResult{}, ErrDuplicatePassword
	case !errors.Is(err, ErrUserNotFound):
		return AuthResult{}, storeErr("users.find_by_password", err)
	}

	// the store's unique index still guards the race between check and insert
	u, err := s.users.Insert(ctx, name, stored)
	if err != nil {
		if errors.Is(err, ErrDuplicatePassword) {
			return AuthResult{}, ErrDuplicatePassword
		}
		return AuthResult{}, storeErr("users.insert", err)
	}

	return s.issue(u)
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", missing("refresh token")
	}

	userID, err := s.tokens.Validate(refreshToken, auth.KindRefresh)
	if err != nil {
		return "", err
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", storeErr("users.find_by_id", err)
	}

	return s.tokens.Issue(u.ID, auth.KindAccess)
}

func (s *AuthService) issue(u user.User) (AuthResult, error) {
	tokens, err := s.tokens.IssuePair(u.ID)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: u, Tokens: tokens}, nil
}
