// internal/domain/models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyReport is a team-progress entry: what was done, what is blocked,
// what comes next.
type DailyReport struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Accomplishments string             `bson:"accomplishments" json:"accomplishments"`
	Blockers        string             `bson:"blockers,omitempty" json:"blockers,omitempty"`
	Plans           string             `bson:"plans,omitempty" json:"plans,omitempty"`

	AuthorID     primitive.ObjectID `bson:"author_id" json:"author_id"`
	AuthorHandle string             `bson:"author_handle" json:"author_handle"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
