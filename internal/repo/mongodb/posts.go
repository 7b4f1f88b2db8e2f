package mongodb

import (
	"context"

	"github.com/geocoder89/sharedfeed/internal/domain/post"
	"github.com/geocoder89/sharedfeed/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var sortKeys = map[post.SortField]string{
	post.SortDate:      "date",
	post.SortCreatedAt: "created_at",
	post.SortUpdatedAt: "updated_at",
	post.SortType:      "type",
	post.SortUserName:  "user_name",
}

type PostsRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func NewPostsRepo(db *mongo.Database, prom *observability.Prom) *PostsRepo {
	return &PostsRepo{coll: db.Collection(postsCollection), prom: prom}
}

func (r *PostsRepo) Insert(ctx context.Context, p post.Post) (post.Post, error) {
	doc := newPostDoc(p)
	doc.ID = primitive.NewObjectID()

	err := r.prom.ObserveDB("posts.insert", func() error {
		_, err := r.coll.InsertOne(ctx, doc)
		return err
	})
	if err != nil {
		return post.Post{}, err
	}

	p.ID = doc.ID.Hex()
	return p, nil
}

func (r *PostsRepo) Find(ctx context.Context, filter post.Filter, sort post.Sort, skip, limit int) ([]post.Post, error) {
	opts := options.Find().
		SetSort(sortDoc(sort)).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	out := make([]post.Post, 0, limit)

	err := r.prom.ObserveDB("posts.find", func() error {
		cur, err := r.coll.Find(ctx, filterDoc(filter), opts)
		if err != nil {
			return err
		}
		defer cur.Close(ctx)

		for cur.Next(ctx) {
			var doc postDoc
			if err := cur.Decode(&doc); err != nil {
				return err
			}
			out = append(out, doc.toDomain())
		}
		return cur.Err()
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *PostsRepo) Count(ctx context.Context, filter post.Filter) (int64, error) {
	var total int64

	err := r.prom.ObserveDB("posts.count", func() error {
		var err error
		total, err = r.coll.CountDocuments(ctx, filterDoc(filter))
		return err
	})

	return total, err
}

func filterDoc(filter post.Filter) bson.M {
	f := bson.M{}
	if len(filter.OwnerIDs) > 0 {
		f["user_id"] = bson.M{"$in": filter.OwnerIDs}
	}
	if len(filter.OwnerNames) > 0 {
		f["user_name"] = bson.M{"$in": filter.OwnerNames}
	}
	return f
}

func sortDoc(sort post.Sort) bson.D {
	key, ok := sortKeys[sort.Field]
	if !ok {
		key = sortKeys[post.SortDate]
	}

	dir := 1
	if sort.Desc {
		dir = -1
	}
	return bson.D{{Key: key, Value: dir}, {Key: "_id", Value: dir}}
}
