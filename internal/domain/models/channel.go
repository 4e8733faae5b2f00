// internal/domain/models/channel.go
package models

import (
	"errors"
	"time"
)

// ErrSelfDM is returned when a DM channel is requested for a user
// against themselves.
var ErrSelfDM = errors.New("cannot open a direct message with yourself")

// CanonicalDMID derives the channel identifier for an unordered pair of
// participant IDs. The pair is sorted lexically before joining, so both
// participants resolve to the same identifier regardless of argument
// order.
func CanonicalDMID(a, b string) (string, error) {
	if a == b {
		return "", ErrSelfDM
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return "dm_" + lo + "_" + hi, nil
}

// Channel is a conversation: either a predefined group channel or a
// direct-message channel between exactly two users.
//
// NOTE:
//   - A DM channel's document ID is the canonical identifier derived
//     from the sorted pair of participant IDs, so at most one channel
//     document exists per unordered pair.
//   - Handles holds a per-participant display-handle cache keyed by the
//     participant's user ID hex; it is written at creation and refreshed
//     opportunistically, never trusted as the source of truth.
type Channel struct {
	ID           string            `bson:"_id" json:"id"`
	Name         string            `bson:"name" json:"name"`
	IsDM         bool              `bson:"is_dm" json:"is_dm"`
	Members      []string          `bson:"members,omitempty" json:"members,omitempty"`
	Participants []string          `bson:"participant_ids,omitempty" json:"participant_ids,omitempty"` // sorted pair, DM only
	Handles      map[string]string `bson:"handles,omitempty" json:"handles,omitempty"`

	LastActivity time.Time `bson:"last_activity" json:"last_activity"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// HasParticipant reports whether the given user ID hex is one of the
// channel's DM participants.
func (c *Channel) HasParticipant(idHex string) bool {
	for _, p := range c.Participants {
		if p == idHex {
			return true
		}
	}
	return false
}
