// internal/app/store/files/filestore.go
package filestore

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
	// ErrNotFound is returned when no file entry matches the lookup.
	ErrNotFound = errors.New("file entry not found")

	errNoPath = errors.New("file entry needs a storage path and name")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("files")}
}

// Create records an uploaded file.
func (s *Store) Create(ctx context.Context, f *models.FileEntry) error {
	if f.Path == "" || f.FileName == "" {
		return errNoPath
	}
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	f.CreatedAt = time.Now().UTC()

	_, err := s.c.InsertOne(ctx, f)
	return err
}

// GetByID loads a file entry.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.FileEntry, error) {
	var f models.FileEntry
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// List returns all file entries, newest first.
func (s *Store) List(ctx context.Context) ([]models.FileEntry, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.FileEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a file entry if requesterID owns it or isAdmin is set.
// The entry is returned so the caller can remove the stored object too.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID, requesterID primitive.ObjectID, isAdmin bool) (*models.FileEntry, error) {
	f, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && f.OwnerID != requesterID {
		return nil, ErrNotFound
	}
	if _, err := s.c.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return nil, err
	}
	return f, nil
}
