package service

import (
	"context"

	"github.com/geocoder89/sharedfeed/internal/domain/post"
	"github.com/geocoder89/sharedfeed/internal/domain/user"
)

// UserStore is the credential store. Lookups return user.ErrNotFound when no
// record matches; Insert returns user.ErrDuplicatePassword when the password
// is already taken.
type UserStore interface {
	FindByPassword(ctx context.Context, password string) (user.User, error)
	FindByID(ctx context.Context, id string) (user.User, error)
	Insert(ctx context.Context, name, password string) (user.User, error)
}

// PostStore persists posts. Insert assigns the identity.
type PostStore interface {
	Find(ctx context.Context, filter post.Filter, sort post.Sort, skip, limit int) ([]post.Post, error)
	Count(ctx context.Context, filter post.Filter) (int64, error)
	Insert(ctx context.Context, p post.Post) (post.Post, error)
}
