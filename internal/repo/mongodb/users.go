package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/sharedfeed/internal/domain/user"
	"github.com/geocoder89/sharedfeed/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type UsersRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func NewUsersRepo(db *mongo.Database, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{coll: db.Collection(usersCollection), prom: prom}
}

// EnsureIndexes creates the unique password index login depends on and the
// post indexes used by feed and search queries.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "password", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("password_unique"),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(postsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user_name", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *UsersRepo) FindByPassword(ctx context.Context, password string) (user.User, error) {
	return r.findOne(ctx, "users.find_by_password", bson.M{"password": password})
}

func (r *UsersRepo) FindByID(ctx context.Context, id string) (user.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return user.User{}, user.ErrNotFound
	}
	return r.findOne(ctx, "users.find_by_id", bson.M{"_id": oid})
}

func (r *UsersRepo) Insert(ctx context.Context, name, password string) (user.User, error) {
	now := time.Now().UTC()

	doc := userDoc{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.prom.ObserveDB("users.insert", func() error {
		_, err := r.coll.InsertOne(ctx, doc)
		return err
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrDuplicatePassword
		}
		return user.User{}, err
	}

	return doc.toDomain(), nil
}

func (r *UsersRepo) LinkPartner(ctx context.Context, userID, partnerID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return user.ErrNotFound
	}

	var res *mongo.UpdateResult

	err = r.prom.ObserveDB("users.link_partner", func() error {
		var err error
		res, err = r.coll.UpdateByID(ctx, oid, bson.M{
			"$set": bson.M{"partner": partnerID, "updated_at": time.Now().UTC()},
		})
		return err
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) findOne(ctx context.Context, op string, filter bson.M) (user.User, error) {
	var doc userDoc

	err := r.prom.ObserveDB(op, func() error {
		return r.coll.FindOne(ctx, filter).Decode(&doc)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return doc.toDomain(), nil
}
