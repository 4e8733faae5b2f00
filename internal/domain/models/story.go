// internal/domain/models/story.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoryTTL is how long a story stays active after creation.
const StoryTTL = 24 * time.Hour

// Story is an ephemeral image post.
//
// A story whose ExpiresAt is in the past is excluded from active
// listings regardless of when cleanup actually deletes the document.
type Story struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ImageURL string             `bson:"image_url" json:"image_url"`
	Caption  string             `bson:"caption,omitempty" json:"caption,omitempty"`

	AuthorID     primitive.ObjectID `bson:"author_id" json:"author_id"`
	AuthorHandle string             `bson:"author_handle" json:"author_handle"`
	AuthorPhoto  string             `bson:"author_photo_url,omitempty" json:"author_photo_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
}

// Expired reports whether the story is past its expiry at the given time.
func (s Story) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
