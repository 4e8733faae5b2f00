// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"errors"
	"time"

	"github.com/blackhatcommit/commithub/internal/app/system/htmlsanitize"
	"github.com/blackhatcommit/commithub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no post matches the lookup.
	ErrNotFound = errors.New("post not found")

	errEmptyPost = errors.New("post needs a body or an attachment")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("community_posts")}
}

// Create inserts a community post. The body is sanitized here so no
// unsafe markup reaches the collection regardless of the caller.
func (s *Store) Create(ctx context.Context, p *models.Post) error {
	p.Body = htmlsanitize.Sanitize(p.Body)
	if p.Body == "" && p.AttachmentURL == "" {
		return errEmptyPost
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.CreatedAt = time.Now().UTC()

	_, err := s.c.InsertOne(ctx, p)
	return err
}

// List returns all posts, newest first.
func (s *Store) List(ctx context.Context) ([]models.Post, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Post
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a post if requesterID authored it or isAdmin is set.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID, requesterID primitive.ObjectID, isAdmin bool) error {
	filter := bson.M{"_id": id}
	if !isAdmin {
		filter["author_id"] = requesterID
	}
	res, err := s.c.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
