// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/blackhatcommit/commithub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures inserts prerequisite documents directly, bypassing the stores,
// so a test can focus on the store under test.
type Fixtures struct {
	t  *testing.T
	db *mongo.Database
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	return &Fixtures{t: t, db: db}
}

// CreateUser inserts a user with default permissions.
func (f *Fixtures) CreateUser(ctx context.Context, handle, email string) *models.User {
	f.t.Helper()
	perms := models.DefaultPermissions()
	now := time.Now().UTC()
	u := &models.User{
		ID:          primitive.NewObjectID(),
		Handle:      handle,
		HandleCI:    text.Fold(handle),
		Email:       email,
		Permissions: &perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("fixture user insert failed: %v", err)
	}
	return u
}

// CreateAdmin inserts a user holding the admin flag and every permission.
func (f *Fixtures) CreateAdmin(ctx context.Context, handle, email string) *models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, handle, email)
	perms := models.AllPermissions()
	u.IsAdmin = true
	u.Permissions = &perms
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID, map[string]any{
		"$set": map[string]any{"is_admin": true, "permissions": perms},
	}); err != nil {
		f.t.Fatalf("fixture admin update failed: %v", err)
	}
	return u
}

// CreateGroupChannel inserts a non-DM channel.
func (f *Fixtures) CreateGroupChannel(ctx context.Context, id, name string) *models.Channel {
	f.t.Helper()
	now := time.Now().UTC()
	ch := &models.Channel{
		ID:           id,
		Name:         name,
		LastActivity: now,
		CreatedAt:    now,
	}
	if _, err := f.db.Collection("channels").InsertOne(ctx, ch); err != nil {
		f.t.Fatalf("fixture channel insert failed: %v", err)
	}
	return ch
}

// CreateStory inserts a story created at the given time; expiry is
// derived from the story TTL.
func (f *Fixtures) CreateStory(ctx context.Context, author *models.User, caption string, createdAt time.Time) *models.Story {
	f.t.Helper()
	st := &models.Story{
		ID:           primitive.NewObjectID(),
		ImageURL:     "https://cdn.example.com/story.png",
		Caption:      caption,
		AuthorID:     author.ID,
		AuthorHandle: author.Handle,
		CreatedAt:    createdAt,
		ExpiresAt:    createdAt.Add(models.StoryTTL),
	}
	if _, err := f.db.Collection("stories").InsertOne(ctx, st); err != nil {
		f.t.Fatalf("fixture story insert failed: %v", err)
	}
	return st
}
