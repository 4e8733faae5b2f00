// internal/app/store/reports/reportstore.go
package reportstore

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

var errNoAccomplishments = errors.New("report accomplishments are required")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("daily_reports")}
}

// Create inserts a daily report. Blockers and plans are optional;
// accomplishments are not.
func (s *Store) Create(ctx context.Context, r *models.DailyReport) error {
	r.Accomplishments = strings.TrimSpace(r.Accomplishments)
	if r.Accomplishments == "" {
		return errNoAccomplishments
	}
	r.Blockers = strings.TrimSpace(r.Blockers)
	r.Plans = strings.TrimSpace(r.Plans)
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	r.CreatedAt = time.Now().UTC()

	_, err := s.c.InsertOne(ctx, r)
	return err
}

// List returns all reports, newest first.
func (s *Store) List(ctx context.Context) ([]models.DailyReport, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.DailyReport
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByAuthor returns one user's reports, newest first.
func (s *Store) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.DailyReport, error) {
	cur, err := s.c.Find(ctx, bson.M{"author_id": authorID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.DailyReport
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
