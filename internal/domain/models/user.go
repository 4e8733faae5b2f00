// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permissions is the set of named flags gating each write capability.
// Every flag defaults to true for newly created users; admins always
// pass every check regardless of the stored flags.
type Permissions struct {
	CanSendMessage       bool `bson:"can_send_message" json:"can_send_message"`
	CanAddTasks          bool `bson:"can_add_tasks" json:"can_add_tasks"`
	CanCompleteTasks     bool `bson:"can_complete_tasks" json:"can_complete_tasks"`
	CanShareFiles        bool `bson:"can_share_files" json:"can_share_files"`
	CanCreateStories     bool `bson:"can_create_stories" json:"can_create_stories"`
	CanPostToCommunity   bool `bson:"can_post_to_community" json:"can_post_to_community"`
	CanSubmitDailyReport bool `bson:"can_submit_daily_report" json:"can_submit_daily_report"`
}

// DefaultPermissions returns the permission template applied to users
// that have no stored permission set.
func DefaultPermissions() Permissions {
	return Permissions{
		CanSendMessage:       true,
		CanAddTasks:          true,
		CanCompleteTasks:     true,
		CanShareFiles:        true,
		CanCreateStories:     true,
		CanPostToCommunity:   true,
		CanSubmitDailyReport: true,
	}
}

// AllPermissions returns a permission set with every flag granted.
// Re-asserted on the configured admin account every session.
func AllPermissions() Permissions {
	return Permissions{
		CanSendMessage:       true,
		CanAddTasks:          true,
		CanCompleteTasks:     true,
		CanShareFiles:        true,
		CanCreateStories:     true,
		CanPostToCommunity:   true,
		CanSubmitDailyReport: true,
	}
}

// User is an application user profile.
//
// NOTE:
//   - The profile is created on first successful sign-in if absent.
//   - Permissions may be nil on documents written before the permission
//     system existed; the identity resolver bootstraps the default set.
//   - DeviceTokens grows by set union only; tokens are never overwritten.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Handle       string             `bson:"handle" json:"handle"`
	HandleCI     string             `bson:"handle_ci" json:"handle_ci"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // internal | google
	PhotoURL     string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	IsAdmin      bool               `bson:"is_admin" json:"is_admin"`
	Permissions  *Permissions       `bson:"permissions,omitempty" json:"permissions,omitempty"`

	DeviceTokens    []string   `bson:"device_tokens,omitempty" json:"-"`
	LastTokenUpdate *time.Time `bson:"last_token_update,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Can reports whether the user holds the given permission flag.
// Admins hold every permission unconditionally.
func (u User) Can(pick func(Permissions) bool) bool {
	if u.IsAdmin {
		return true
	}
	if u.Permissions == nil {
		return false
	}
	return pick(*u.Permissions)
}
