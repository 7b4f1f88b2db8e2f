package mongodb

import (
	"time"

	"github.com/geocoder89/sharedfeed/internal/domain/post"
	"github.com/geocoder89/sharedfeed/internal/domain/user"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Password  string             `bson:"password"`
	Partner   *string            `bson:"partner,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d userDoc) toDomain() user.User {
	return user.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Password:  d.Password,
		PartnerID: d.Partner,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type postDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Type      string             `bson:"type"`
	Content   *string            `bson:"content,omitempty"`
	Caption   *string            `bson:"caption,omitempty"`
	ImageURL  *string            `bson:"image_url,omitempty"`
	UserID    string             `bson:"user_id"`
	UserName  string             `bson:"user_name"`
	Date      time.Time          `bson:"date"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func newPostDoc(p post.Post) postDoc {
	return postDoc{
		Type:      string(p.Type),
		Content:   p.Content,
		Caption:   p.Caption,
		ImageURL:  p.ImageURL,
		UserID:    p.UserID,
		UserName:  p.UserName,
		Date:      p.Date,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d postDoc) toDomain() post.Post {
	return post.Post{
		ID:        d.ID.Hex(),
		Type:      post.Type(d.Type),
		Content:   d.Content,
		Caption:   d.Caption,
		ImageURL:  d.ImageURL,
		UserID:    d.UserID,
		UserName:  d.UserName,
		Date:      d.Date.UTC(),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}
