// internal/app/store/messages/messagestore.go
package messagestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/blackhatcommit/commithub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var errEmptyMessage = errors.New("message text is empty")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("messages")}
}

// Append stores a new message in a channel. SentAt is assigned here, not
// taken from the caller; messages are never edited or deleted afterward.
func (s *Store) Append(ctx context.Context, m *models.Message) error {
	m.Text = strings.TrimSpace(m.Text)
	if m.Text == "" {
		return errEmptyMessage
	}
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	m.SentAt = time.Now().UTC()

	_, err := s.c.InsertOne(ctx, m)
	return err
}

// ListByChannel returns a channel's messages oldest first, capped at
// limit (0 means no cap).
func (s *Store) ListByChannel(ctx context.Context, channelID string, limit int64) ([]models.Message, error) {
	// Secondary sort on _id keeps same-millisecond messages in insert order.
	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: 1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"channel_id": channelID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByChannel returns the number of messages in a channel.
func (s *Store) CountByChannel(ctx context.Context, channelID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"channel_id": channelID})
}
