package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/sharedfeed/internal/db"
	"github.com/geocoder89/sharedfeed/internal/domain/post"
	"github.com/geocoder89/sharedfeed/internal/domain/user"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	client, database, err := db.NewMongo(uri, "sharedfeed_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	ctx := context.Background()
	require.NoError(t, database.Drop(ctx))
	require.NoError(t, EnsureIndexes(ctx, database))

	return database
}

func TestFilterDoc(t *testing.T) {
	require.Equal(t, bson.M{}, filterDoc(post.Filter{}))
	require.Equal(t,
		bson.M{"user_id": bson.M{"$in": []string{"a", "b"}}},
		filterDoc(post.Filter{OwnerIDs: []string{"a", "b"}}),
	)
}

func TestSortDoc(t *testing.T) {
	require.Equal(t,
		bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		sortDoc(post.Sort{Field: post.SortCreatedAt, Desc: true}),
	)
	require.Equal(t,
		bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}},
		sortDoc(post.Sort{Field: "bogus"}),
	)
}

func TestUsersRepoUniquePassword(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()
	users := NewUsersRepo(database, nil)

	ann, err := users.Insert(ctx, "Ann", "p1")
	require.NoError(t, err)

	_, err = users.Insert(ctx, "Bob", "p1")
	require.ErrorIs(t, err, user.ErrDuplicatePassword)

	got, err := users.FindByPassword(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, ann.ID, got.ID)

	_, err = users.FindByID(ctx, "not-an-object-id")
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestPostsRepoPartnerUnion(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()
	posts := NewPostsRepo(database, nil)

	now := time.Now().UTC().Truncate(time.Millisecond)
	for _, owner := range []string{"u1", "u2", "u3"} {
		_, err := posts.Insert(ctx, post.Post{Type: post.TypeText, UserID: owner, UserName: owner, Date: now, CreatedAt: now, UpdatedAt: now})
		require.NoError(t, err)
	}

	filter := post.Filter{OwnerIDs: []string{"u1", "u2"}}

	total, err := posts.Count(ctx, filter)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)

	got, err := posts.Find(ctx, filter, post.Sort{Field: post.SortDate, Desc: true}, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
}
