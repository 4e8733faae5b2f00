// internal/app/store/stories/storystore.go
package storystore

import (
	"context"
	"errors"
	"time"

	"github.com/blackhatcommit/commithub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no story matches the lookup.
	ErrNotFound = errors.New("story not found")

	errNoImage = errors.New("story image is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("stories")}
}

// Create inserts a new story. Expiry is derived from the creation time
// and the story TTL; callers cannot set it.
func (s *Store) Create(ctx context.Context, st *models.Story) error {
	if st.ImageURL == "" {
		return errNoImage
	}
	if st.ID.IsZero() {
		st.ID = primitive.NewObjectID()
	}
	st.CreatedAt = time.Now().UTC()
	st.ExpiresAt = st.CreatedAt.Add(models.StoryTTL)

	_, err := s.c.InsertOne(ctx, st)
	return err
}

// ListActive returns stories whose expiry is still in the future, newest
// first. Expired documents never appear here even if cleanup has not
// deleted them yet.
func (s *Store) ListActive(ctx context.Context, now time.Time) ([]models.Story, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"expires_at": bson.M{"$gt": now.UTC()}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Story
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads a story regardless of expiry. Deletion flows need to
// reach expired documents too.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Story, error) {
	var st models.Story
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&st); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

// Delete removes a story if requesterID authored it or isAdmin is set.
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

// DeleteExpired removes every story past its expiry and returns how many
// were deleted. The cleanup worker calls this on a schedule; read paths
// never delete.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now.UTC()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
