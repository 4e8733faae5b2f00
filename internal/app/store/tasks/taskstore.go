// internal/app/store/tasks/taskstore.go
package taskstore

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

var (
	// ErrNotFound is returned when no task matches the lookup.
	ErrNotFound = errors.New("task not found")

	// ErrAlreadyCompleted is returned when completing a task that is
	// already completed. Completion is one-way and happens exactly once.
	ErrAlreadyCompleted = errors.New("task is already completed")

	errEmptyText   = errors.New("task text is empty")
	errBadPriority = errors.New(`priority must be "Low"|"Medium"|"High"|"Critical"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

// Create inserts a new planner task.
func (s *Store) Create(ctx context.Context, t *models.Task) error {
	t.Text = strings.TrimSpace(t.Text)
	if t.Text == "" {
		return errEmptyText
	}
	if !models.ValidPriority(t.Priority) {
		return errBadPriority
	}
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	t.Completed = false
	t.CreatedAt = time.Now().UTC()

	_, err := s.c.InsertOne(ctx, t)
	return err
}

// GetByID loads a task.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns all tasks, newest first.
func (s *Store) List(ctx context.Context) ([]models.Task, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Task
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Complete marks a task completed, recording who completed it and when.
// The filter requires completed=false so a task completes exactly once
// even under concurrent confirmations; the loser gets ErrAlreadyCompleted.
func (s *Store) Complete(ctx context.Context, id primitive.ObjectID, byID primitive.ObjectID, byHandle string) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "completed": false},
		bson.M{"$set": bson.M{
			"completed":           true,
			"completed_by_id":     byID,
			"completed_by_handle": byHandle,
			"completed_at":        now,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing task from a lost completion race.
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyCompleted
	}
	return nil
}

// Delete removes a task if requesterID created it or isAdmin is set.
// Returns ErrNotFound both for missing tasks and for tasks the requester
// may not delete, so callers cannot probe for other users' task IDs.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID, requesterID primitive.ObjectID, isAdmin bool) error {
	filter := bson.M{"_id": id}
	if !isAdmin {
		filter["creator_id"] = requesterID
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

// CountOpen returns the number of incomplete tasks.
func (s *Store) CountOpen(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"completed": false})
}
