package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/geocoder89/sharedfeed/internal/domain/post"
	"github.com/geocoder89/sharedfeed/internal/domain/user"
	"github.com/oklog/ulid/v2"
)

// Store keeps users and posts in process memory. It satisfies both
// service.UserStore and service.PostStore.
type Store struct {
	mu         sync.RWMutex
	users      map[string]user.User
	byPassword map[string]string // password -> user id
	posts      map[string]post.Post
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]user.User),
		byPassword: make(map[string]string),
		posts:      make(map[string]post.Post),
		now:        time.Now,
	}
}

func newID() string {
	return ulid.Make().String()
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) FindByPassword(_ context.Context, password string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPassword[password]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) FindByID(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (s *Store) Insert(_ context.Context, name, password string) (user.User, error) {
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byPassword[password]; taken {
		return user.User{}, user.ErrDuplicatePassword
	}

	u := user.User{
		ID:        newID(),
		Name:      name,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[u.ID] = u
	s.byPassword[password] = u.ID

	return u, nil
}

// LinkPartner sets userID's partner reference. Partner links are managed
// outside the API; this exists for seeding and tests.
func (s *Store) LinkPartner(_ context.Context, userID, partnerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	if _, ok := s.users[partnerID]; !ok {
		return user.ErrNotFound
	}

	pid := partnerID
	u.PartnerID = &pid
	u.UpdatedAt = s.now().UTC()
	s.users[userID] = u
	return nil
}

// Posts returns a PostStore view over the same data.
func (s *Store) Posts() *PostsRepo {
	return &PostsRepo{s: s}
}

type PostsRepo struct {
	s *Store
}

func (r *PostsRepo) Insert(_ context.Context, p post.Post) (post.Post, error) {
	p.ID = newID()

	r.s.mu.Lock()
	r.s.posts[p.ID] = p
	r.s.mu.Unlock()

	return p, nil
}

func (r *PostsRepo) Find(_ context.Context, filter post.Filter, srt post.Sort, skip, limit int) ([]post.Post, error) {
	matched := r.match(filter)

	sort.SliceStable(matched, func(i, j int) bool {
		c := compare(matched[i], matched[j], srt.Field)
		if c == 0 {
			c = compareStrings(matched[i].ID, matched[j].ID)
		}
		if srt.Desc {
			return c > 0
		}
		return c < 0
	})

	if skip < 0 || skip >= len(matched) {
		return []post.Post{}, nil
	}
	end := len(matched)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return matched[skip:end], nil
}

func (r *PostsRepo) Count(_ context.Context, filter post.Filter) (int64, error) {
	return int64(len(r.match(filter))), nil
}

func (r *PostsRepo) match(filter post.Filter) []post.Post {
	ids := toSet(filter.OwnerIDs)
	names := toSet(filter.OwnerNames)

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]post.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		if ids != nil {
			if _, ok := ids[p.UserID]; !ok {
				continue
			}
		}
		if names != nil {
			if _, ok := names[p.UserName]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func compare(a, b post.Post, field post.SortField) int {
	switch field {
	case post.SortCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case post.SortUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case post.SortType:
		return compareStrings(string(a.Type), string(b.Type))
	case post.SortUserName:
		return compareStrings(a.UserName, b.UserName)
	default:
		return a.Date.Compare(b.Date)
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
