package memory

import (
	"context"
	"testing"
	"time"

	"github.com/geocoder89/sharedfeed/internal/domain/post"
	"github.com/geocoder89/sharedfeed/internal/domain/user"
	"github.com/stretchr/testify/require"
)

func TestInsertRejectsDuplicatePassword(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	ann, err := s.Insert(ctx, "Ann", "p1")
	require.NoError(t, err)
	require.NotEmpty(t, ann.ID)

	_, err = s.Insert(ctx, "Bob", "p1")
	require.ErrorIs(t, err, user.ErrDuplicatePassword)

	got, err := s.FindByPassword(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, ann.ID, got.ID)
}

func TestFindUnknownUser(t *testing.T) {
	s := NewStore()

	_, err := s.FindByID(context.Background(), "nope")
	require.ErrorIs(t, err, user.ErrNotFound)

	_, err = s.FindByPassword(context.Background(), "nope")
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestLinkPartner(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	ann, _ := s.Insert(ctx, "Ann", "p1")
	bob, _ := s.Insert(ctx, "Bob", "p2")

	require.NoError(t, s.LinkPartner(ctx, ann.ID, bob.ID))
	require.ErrorIs(t, s.LinkPartner(ctx, ann.ID, "ghost"), user.ErrNotFound)

	got, err := s.FindByID(ctx, ann.ID)
	require.NoError(t, err)
	require.True(t, got.HasPartner())
	require.Equal(t, bob.ID, *got.PartnerID)
}

func TestPostsFindFiltersSortsAndPages(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Posts()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := repo.Insert(ctx, post.Post{
			Type:     post.TypeText,
			UserID:   "u1",
			UserName: "Ann",
			Date:     base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := repo.Insert(ctx, post.Post{Type: post.TypeText, UserID: "u2", UserName: "Bob", Date: base})
	require.NoError(t, err)

	filter := post.Filter{OwnerIDs: []string{"u1"}}

	total, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	require.EqualValues(t, 5, total)

	page, err := repo.Find(ctx, filter, post.Sort{Field: post.SortDate, Desc: true}, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, base.Add(4*time.Hour), page[0].Date)
	require.Equal(t, base.Add(3*time.Hour), page[1].Date)

	asc, err := repo.Find(ctx, filter, post.Sort{Field: post.SortDate}, 4, 2)
	require.NoError(t, err)
	require.Len(t, asc, 1)
	require.Equal(t, base.Add(4*time.Hour), asc[0].Date)

	past, err := repo.Find(ctx, filter, post.Sort{Field: post.SortDate}, 10, 2)
	require.NoError(t, err)
	require.Empty(t, past)

	byName, err := repo.Count(ctx, post.Filter{OwnerNames: []string{"Bob", "Zed"}})
	require.NoError(t, err)
	require.EqualValues(t, 1, byName)
}

func TestPostsTiesBreakByID(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Posts()
	same := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		p, err := repo.Insert(ctx, post.Post{Type: post.TypeText, UserID: "u1", Date: same})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	first, err := repo.Find(ctx, post.Filter{}, post.Sort{Field: post.SortDate}, 0, 3)
	require.NoError(t, err)
	second, err := repo.Find(ctx, post.Filter{}, post.Sort{Field: post.SortDate}, 0, 3)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.ElementsMatch(t, ids, []string{first[0].ID, first[1].ID, first[2].ID})
	require.Less(t, first[0].ID, first[1].ID)
}
