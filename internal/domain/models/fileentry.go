// internal/domain/models/fileentry.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileEntry records a shared file: where it lives in storage plus the
// metadata shown in the files listing.
type FileEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Path        string             `bson:"path" json:"path"` // storage key
	FileName    string             `bson:"file_name" json:"file_name"`
	Size        int64              `bson:"size" json:"size"`
	ContentType string             `bson:"content_type,omitempty" json:"content_type,omitempty"`
	Kind        string             `bson:"kind" json:"kind"` // image | video | raw

	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	OwnerHandle string             `bson:"owner_handle" json:"owner_handle"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
