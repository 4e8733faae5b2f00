// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a community feed entry. Deletion is gated to the author or
// an admin; there are no edits.
type Post struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Body string             `bson:"body" json:"body"` // sanitized HTML

	// Optional attachment uploaded alongside the post.
	AttachmentURL  string `bson:"attachment_url,omitempty" json:"attachment_url,omitempty"`
	AttachmentName string `bson:"attachment_name,omitempty" json:"attachment_name,omitempty"`
	AttachmentType string `bson:"attachment_type,omitempty" json:"attachment_type,omitempty"` // image | video | raw

	AuthorID     primitive.ObjectID `bson:"author_id" json:"author_id"`
	AuthorHandle string             `bson:"author_handle" json:"author_handle"`
	AuthorPhoto  string             `bson:"author_photo_url,omitempty" json:"author_photo_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
