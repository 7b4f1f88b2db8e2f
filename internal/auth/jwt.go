package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

var (
	ErrConfig           = errors.New("token signing secret is not configured")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrWrongTokenKind   = errors.New("wrong token kind")
)

type Claims struct {
	UserID string `json:"sub"`
	Kind   Kind   `json:"typ"`
	JTI    string `json:"jti"`
	jwt.RegisteredClaims
}

type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Manager issues and validates HS256 tokens. It holds no mutable state and is
// safe for concurrent use.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type Option func(*Manager)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(secret string, accessTTL time.Duration, refreshTTL time.Duration, opts ...Option) *Manager {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}

	m := &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) TTL(kind Kind) time.Duration {
	if kind == KindRefresh {
		return m.refreshTTL
	}
	return m.accessTTL
}

// Issue signs a token of the given kind for userID. The token is valid on
// [iat, iat+ttl), with iat truncated to the second.
func (m *Manager) Issue(userID string, kind Kind) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrConfig
	}
	if kind != KindAccess && kind != KindRefresh {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	now := m.now().UTC().Truncate(time.Second)

	claims := Claims{
		UserID: userID,
		Kind:   kind,
		JTI:    uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.TTL(kind))),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) IssuePair(userID string) (Tokens, error) {
	access, err := m.Issue(userID, KindAccess)
	if err != nil {
		return Tokens{}, err
	}

	refresh, err := m.Issue(userID, KindRefresh)
	if err != nil {
		return Tokens{}, err
	}

	return Tokens{Access: access, Refresh: refresh}, nil
}

// Validate checks signature, expiry and kind and returns the embedded user id.
func (m *Manager) Validate(tokenStr string, expected Kind) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrConfig
	}

	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidSignature
	}

	if claims.Kind != expected {
		return "", ErrWrongTokenKind
	}

	return claims.UserID, nil
}

func (m *Manager) VerifyAccessToken(tokenStr string) (string, error) {
	return m.Validate(tokenStr, KindAccess)
}

func (m *Manager) VerifyRefreshToken(tokenStr string) (string, error) {
	return m.Validate(tokenStr, KindRefresh)
}
