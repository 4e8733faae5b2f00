// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a single chat message inside a channel.
//
// Messages are append-only: this application never edits or deletes
// them. Sender handle and photo are snapshots taken at send time.
type Message struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChannelID   string             `bson:"channel_id" json:"channel_id"`
	Text        string             `bson:"text" json:"text"`
	SenderID    primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	SenderName  string             `bson:"sender_handle" json:"sender_handle"`
	SenderPhoto string             `bson:"sender_photo_url,omitempty" json:"sender_photo_url,omitempty"`
	SentAt      time.Time          `bson:"sent_at" json:"sent_at"` // server-assigned
}
