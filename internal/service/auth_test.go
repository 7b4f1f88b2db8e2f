package service

import (
	"context"
	"errors"
	"testing"

	"github.com/geocoder89/sharedfeed/internal/auth"
	"github.com/geocoder89/sharedfeed/internal/security"
	"github.com/stretchr/testify/require"
)

func TestSignupThenLoginReturnsSameUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	signed, err := e.auth.Signup(ctx, "  Ann ", "p1")
	require.NoError(t, err)
	require.Equal(t, "Ann", signed.User.Name)
	require.NotEmpty(t, signed.Tokens.Access)
	require.NotEmpty(t, signed.Tokens.Refresh)

	logged, err := e.auth.Login(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, signed.User.ID, logged.User.ID)

	uid, err := e.tokens.Validate(logged.Tokens.Access, auth.KindAccess)
	require.NoError(t, err)
	require.Equal(t, signed.User.ID, uid)

	uid, err = e.tokens.Validate(logged.Tokens.Refresh, auth.KindRefresh)
	require.NoError(t, err)
	require.Equal(t, signed.User.ID, uid)
}

func TestLoginFailures(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signup(t, "Ann", "p1")

	_, err := e.auth.Login(ctx, "")
	require.ErrorIs(t, err, ErrMissingField)

	_, err = e.auth.Login(ctx, "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignupValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.auth.Signup(ctx, " ", "p1")
	require.ErrorIs(t, err, ErrMissingField)

	_, err = e.auth.Signup(ctx, "Ann", "")
	require.ErrorIs(t, err, ErrMissingField)

	e.signup(t, "Ann", "p1")

	_, err = e.auth.Signup(ctx, "Bob", "p1")
	require.ErrorIs(t, err, ErrDuplicatePassword)
}

func TestPepperedPasswordsRoundTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	svc := NewAuthService(e.store, e.tokens, security.NewPasswordEncoder("pepper"))

	signed, err := svc.Signup(ctx, "Ann", "p1")
	require.NoError(t, err)
	require.NotEqual(t, "p1", signed.User.Password)

	logged, err := svc.Login(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, signed.User.ID, logged.User.ID)
}

func TestRefresh(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	signed, err := e.auth.Signup(ctx, "Ann", "p1")
	require.NoError(t, err)

	access, err := e.auth.Refresh(ctx, signed.Tokens.Refresh)
	require.NoError(t, err)

	uid, err := e.tokens.Validate(access, auth.KindAccess)
	require.NoError(t, err)
	require.Equal(t, signed.User.ID, uid)

	_, err = e.auth.Refresh(ctx, signed.Tokens.Access)
	require.ErrorIs(t, err, auth.ErrWrongTokenKind)

	_, err = e.auth.Refresh(ctx, "")
	require.ErrorIs(t, err, ErrMissingField)

	_, err = e.auth.Refresh(ctx, "garbage")
	require.ErrorIs(t, err, auth.ErrInvalidSignature)
}

func TestRefreshForDeletedUser(t *testing.T) {
	e := newEnv(t)

	tok, err := e.tokens.Issue("ghost", auth.KindRefresh)
	require.NoError(t, err)

	_, err = e.auth.Refresh(context.Background(), tok)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthStoreFailureIsReportedVerbatim(t *testing.T) {
	e := newEnv(t)
	svc := NewAuthService(failingUsers{err: errors.New("db down")}, e.tokens, nil)

	_, err := svc.Login(context.Background(), "p1")
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.Equal(t, "db down", err.Error())

	_, err = svc.Signup(context.Background(), "Ann", "p1")
	require.ErrorIs(t, err, ErrStoreUnavailable)
}
