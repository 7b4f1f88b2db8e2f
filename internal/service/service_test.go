package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/sharedfeed/internal/auth"
	"github.com/geocoder89/sharedfeed/internal/domain/user"
	"github.com/geocoder89/sharedfeed/internal/repo/memory"
	"github.com/geocoder89/sharedfeed/internal/security"
	"github.com/stretchr/testify/require"
)

type env struct {
	store  *memory.Store
	posts  *memory.PostsRepo
	tokens *auth.Manager
	auth   *AuthService
	feed   *FeedService
	post   *PostService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := memory.NewStore()
	posts := store.Posts()
	tokens := auth.NewManager("test-secret-key", auth.DefaultAccessTTL, auth.DefaultRefreshTTL)

	return &env{
		store:  store,
		posts:  posts,
		tokens: tokens,
		auth:   NewAuthService(store, tokens, security.NewPasswordEncoder("")),
		feed:   NewFeedService(store, posts),
		post:   NewPostService(store, posts),
	}
}

func (e *env) signup(t *testing.T, name, password string) user.User {
	t.Helper()
	res, err := e.auth.Signup(context.Background(), name, password)
	require.NoError(t, err)
	return res.User
}

func text(s string) *string { return &s }

// failingUsers reports every call as a backend failure.
type failingUsers struct{ err error }

func (f failingUsers) FindByPassword(context.Context, string) (user.User, error) {
	return user.User{}, f.err
}
func (f failingUsers) FindByID(context.Context, string) (user.User, error) {
	return user.User{}, f.err
}
func (f failingUsers) Insert(context.Context, string, string) (user.User, error) {
	return user.User{}, f.err
}


func TestStoreErrorKeepsMessage(t *testing.T) {
	err := storeErr("users.find_by_id", errors.New("connection reset"))

	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.Equal(t, "connection reset", err.Error())
	require.Nil(t, storeErr("op", nil))

	var se *StoreError
	require.True(t, errors.As(err, &se))
	require.Equal(t, "users.find_by_id", se.Op)
}

func TestParseClientDate(t *testing.T) {
	fallback := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	got, err := ParseClientDate("2024-03-01T10:00", fallback)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 4, 30, 0, 0, time.UTC), got)

	got, err = ParseClientDate("  ", fallback)
	require.NoError(t, err)
	require.Equal(t, fallback, got)

	_, err = ParseClientDate("01/03/2024", fallback)
	require.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = ParseClientDate("2024-03-01T10:00:00Z", fallback)
	require.ErrorIs(t, err, ErrInvalidDateFormat)
}
