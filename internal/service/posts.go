package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/geocoder89/sharedfeed/internal/cache"
	"github.com/geocoder89/sharedfeed/internal/domain/post"
	"github.com/geocoder89/sharedfeed/internal/utils"
)

// LocalDateLayout is the client's event date format: local wall time with
// minute precision and no zone.
const LocalDateLayout = "2006-01-02T15:04"

// ClientZone is the fixed offset client dates are written in (UTC+05:30).
var ClientZone = time.FixedZone("IST", 5*60*60+30*60)

type CreatePostInput struct {
	UserID   string
	Type     post.Type
	Content  *string
	Caption  *string
	ImageURL *string
	Date     string
}

type PostService struct {
	users UserStore
	posts PostStore
	cache cache.Store
	now   func() time.Time
}

func NewPostService(users UserStore, posts PostStore) *PostService {
	return &PostService{users: users, posts: posts, now: time.Now}
}

// WithCache makes CreatePost bump the owner's feed version.
func (s *PostService) WithCache(c cache.Store) *PostService {
	s.cache = c
	return s
}

func (s *PostService) WithClock(now func() time.Time) *PostService {
	s.now = now
	return s
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post.Post, error) {
	u, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return post.Post{}, ErrUserNotFound
		}
		return post.Post{}, storeErr("users.find_by_id", err)
	}

	if in.Type == "" {
		return post.Post{}, missing("type")
	}
	if !in.Type.Valid() {
		return post.Post{}, fmt.Errorf("%w: %q", ErrInvalidPostType, in.Type)
	}

	now := s.now().UTC()

	date, err := ParseClientDate(in.Date, now)
	if err != nil {
		return post.Post{}, err
	}

	p := post.Post{
		Type:      in.Type,
		Content:   in.Content,
		Caption:   in.Caption,
		ImageURL:  in.ImageURL,
		UserID:    u.ID,
		UserName:  u.Name,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.posts.Insert(ctx, p)
	if err != nil {
		return post.Post{}, storeErr("posts.insert", err)
	}

	if s.cache != nil {
		if _, err := s.cache.Incr(ctx, utils.FeedVersionKey(u.ID)); err != nil {
			slog.Default().WarnContext(ctx, "feed_cache_bump_failed", "owner_id", u.ID, "err", err)
		}
	}

	return created, nil
}

// ParseClientDate converts a client wall-clock date in ClientZone to UTC.
// An empty value yields fallback.
func ParseClientDate(raw string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback.UTC(), nil
	}

	t, err := time.ParseInLocation(LocalDateLayout, raw, ClientZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM-DDTHH:MM", ErrInvalidDateFormat, raw)
	}
	return t.UTC(), nil
}
