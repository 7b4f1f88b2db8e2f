package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/geocoder89/sharedfeed/internal/cache"
	"github.com/geocoder89/sharedfeed/internal/domain/post"
	"github.com/geocoder89/sharedfeed/internal/domain/user"
	"github.com/geocoder89/sharedfeed/internal/utils"
)

type FeedQuery struct {
	UserID string
	Sort   post.Sort
	Page   utils.Page
}

type FeedPage struct {
	Posts []post.Post `json:"posts"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

type SearchQuery struct {
	Names []string
	Page  int
	Limit int
}

type SearchPage struct {
	Posts      []post.Post `json:"posts"`
	TotalCount int64       `json:"total_count"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
	HasNext    bool        `json:"has_next"`
	HasPrev    bool        `json:"has_prev"`
}

// FeedService answers feed and name-search queries.
type FeedService struct {
	users UserStore
	posts PostStore
	cache cache.Store
}

func NewFeedService(users UserStore, posts PostStore) *FeedService {
	return &FeedService{users: users, posts: posts}
}

// WithCache enables page caching. Keys embed each owner's feed version, see
// PostService.CreatePost.
func (s *FeedService) WithCache(c cache.Store) *FeedService {
	s.cache = c
	return s
}

// ListFeed returns one page of the user's feed. A user linked to a partner
// sees the union of both users' posts.
func (s *FeedService) ListFeed(ctx context.Context, q FeedQuery) (FeedPage, error) {
	if q.UserID == "" {
		return FeedPage{}, missing("user id")
	}

	u, err := s.users.FindByID(ctx, q.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return FeedPage{}, ErrUserNotFound
		}
		return FeedPage{}, storeErr("users.find_by_id", err)
	}

	page := utils.NormalizePage(q.Page.Page, q.Page.Limit, utils.MaxFeedLimit)
	if q.Sort.Field == "" {
		q.Sort = post.ParseSort("", "")
	}

	filter := post.Filter{OwnerIDs: feedOwners(u)}

	key := s.feedCacheKey(ctx, filter.OwnerIDs, q.Sort, page)
	if key != "" {
		var cached FeedPage
		if s.cacheLoad(ctx, key, &cached) {
			return cached, nil
		}
	}

	posts, err := s.posts.Find(ctx, filter, q.Sort, page.Offset(), page.Limit)
	if err != nil {
		return FeedPage{}, storeErr("posts.find", err)
	}

	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return FeedPage{}, storeErr("posts.count", err)
	}

	out := FeedPage{
		Posts: nonNil(posts),
		Total: total,
		Page:  page.Page,
		Limit: page.Limit,
	}

	if key != "" {
		s.cacheStore(ctx, key, out)
	}

	return out, nil
}

// SearchByNames matches posts by their owner's display name, newest first,
// regardless of ownership or partner links.
func (s *FeedService) SearchByNames(ctx context.Context, q SearchQuery) (SearchPage, error) {
	names := cleanNames(q.Names)
	if len(names) == 0 {
		return SearchPage{}, missing("names")
	}

	page := utils.NormalizePage(q.Page, q.Limit, utils.MaxSearchLimit)
	filter := post.Filter{OwnerNames: names}
	sort := post.Sort{Field: post.SortCreatedAt, Desc: true}

	posts, err := s.posts.Find(ctx, filter, sort, page.Offset(), page.Limit)
	if err != nil {
		return SearchPage{}, storeErr("posts.find", err)
	}

	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return SearchPage{}, storeErr("posts.count", err)
	}

	totalPages := utils.TotalPages(total, page.Limit)

	return SearchPage{
		Posts:      nonNil(posts),
		TotalCount: total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: totalPages,
		HasNext:    page.Page < totalPages,
		HasPrev:    page.Page > 1,
	}, nil
}

func feedOwners(u user.User) []string {
	if u.HasPartner() {
		return []string{u.ID, *u.PartnerID}
	}
	return []string{u.ID}
}

func cleanNames(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))

	for _, n := range raw {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func nonNil(posts []post.Post) []post.Post {
	if posts == nil {
		return []post.Post{}
	}
	return posts
}

func (s *FeedService) feedCacheKey(ctx context.Context, owners []string, sort post.Sort, page utils.Page) string {
	if s.cache == nil {
		return ""
	}

	versions := make([]utils.OwnerVersion, 0, len(owners))
	for _, id := range owners {
		v, err := s.cache.Counter(ctx, utils.FeedVersionKey(id))
		if err != nil {
			slog.Default().WarnContext(ctx, "feed_cache_version_failed", "owner_id", id, "err", err)
			return ""
		}
		versions = append(versions, utils.OwnerVersion{ID: id, Version: v})
	}

	return utils.BuildFeedCacheKey(versions, string(sort.Field), sort.Order(), page)
}

func (s *FeedService) cacheLoad(ctx context.Context, key string, out *FeedPage) bool {
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Default().WarnContext(ctx, "feed_cache_get_failed", "key", key, "err", err)
		return false
	}
	if !ok {
		return false
	}
	return json.Unmarshal(b, out) == nil
}

func (s *FeedService) cacheStore(ctx context.Context, key string, page FeedPage) {
	b, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, b); err != nil {
		slog.Default().WarnContext(ctx, "feed_cache_set_failed", "key", key, "err", err)
	}
}
