// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task priorities, ordered from least to most urgent.
const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

// Priorities lists the valid task priorities in display order.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p string) bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

// Task is a planner entry.
//
// NOTE:
//   - Completion is a one-way transition gated by a confirmation step;
//     completed tasks are never un-completed by this application.
//   - Only the creator or an admin may delete a task.
type Task struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text      string             `bson:"text" json:"text"`
	Completed bool               `bson:"completed" json:"completed"`
	Priority  string             `bson:"priority" json:"priority"`
	Team      string             `bson:"team,omitempty" json:"team,omitempty"`

	CreatorID primitive.ObjectID `bson:"creator_id" json:"creator_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	CompletedByID     *primitive.ObjectID `bson:"completed_by_id,omitempty" json:"completed_by_id,omitempty"`
	CompletedByHandle string              `bson:"completed_by_handle,omitempty" json:"completed_by_handle,omitempty"`
	CompletedAt       *time.Time          `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}
