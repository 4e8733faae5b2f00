// internal/app/store/channels/channelstore.go
package channelstore

import (
	"context"
	"errors"
	"time"

	"github.com/blackhatcommit/commithub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no channel matches the lookup.
var ErrNotFound = errors.New("channel not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("channels")}
}

// GetByID loads a channel by its document ID.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Channel, error) {
	var ch models.Channel
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ch); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ch, nil
}

// ListGroups returns all non-DM channels ordered by name.
func (s *Store) ListGroups(ctx context.Context) ([]models.Channel, error) {
	cur, err := s.c.Find(ctx, bson.M{"is_dm": false},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Channel
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Participant is one side of a DM resolution: the user ID hex plus the
// handle to cache on the channel document.
type Participant struct {
	ID     string
	Handle string
}

// ResolveDM maps an unordered pair of participants to their single DM
// channel, creating the backing document on first resolution. Both sides
// converge on the same document without coordination because the ID is
// canonical. A concurrent first resolution loses the insert race and
// falls through to the read path. Self-DMs are rejected before any
// database access.
func (s *Store) ResolveDM(ctx context.Context, a, b Participant) (*models.Channel, error) {
	id, err := models.CanonicalDMID(a.ID, b.ID)
	if err != nil {
		return nil, err
	}

	ch, err := s.GetByID(ctx, id)
	if err == nil {
		return s.repairDM(ctx, ch, a, b)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	lo, hi := a, b
	if lo.ID > hi.ID {
		lo, hi = hi, lo
	}
	now := time.Now().UTC()
	created := &models.Channel{
		ID:           id,
		Name:         a.Handle + " & " + b.Handle,
		IsDM:         true,
		Participants: []string{lo.ID, hi.ID},
		Handles:      map[string]string{a.ID: a.Handle, b.ID: b.Handle},
		LastActivity: now,
		CreatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, created); err != nil {
		if wafflemongo.IsDup(err) {
			// The other participant created it first.
			return s.GetByID(ctx, id)
		}
		return nil, err
	}
	return created, nil
}

// repairDM backfills missing cached handles on an existing DM document.
// No write is issued when both handles are already cached.
func (s *Store) repairDM(ctx context.Context, ch *models.Channel, a, b Participant) (*models.Channel, error) {
	set := bson.M{}
	for _, p := range []Participant{a, b} {
		if ch.Handles[p.ID] == "" && p.Handle != "" {
			set["handles."+p.ID] = p.Handle
		}
	}
	if len(set) == 0 {
		return ch, nil
	}
	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": ch.ID}, bson.M{"$set": set}); err != nil {
		return nil, err
	}
	if ch.Handles == nil {
		ch.Handles = map[string]string{}
	}
	for _, p := range []Participant{a, b} {
		if ch.Handles[p.ID] == "" && p.Handle != "" {
			ch.Handles[p.ID] = p.Handle
		}
	}
	return ch, nil
}

// AddMember adds a user to a group channel's member list. Membership is
// a set; re-adding is a no-op.
func (s *Store) AddMember(ctx context.Context, channelID, userID string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": channelID, "is_dm": false},
		bson.M{"$addToSet": bson.M{"members": userID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchActivity bumps a channel's last-activity timestamp. Called on
// every message send so the sidebar can surface active conversations.
func (s *Store) TouchActivity(ctx context.Context, channelID string, at time.Time) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": channelID},
		bson.M{"$set": bson.M{"last_activity": at.UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Seed ensures the predefined group channels exist. Existing channels
// are left untouched so renames done in the admin console survive
// restarts. Names are keyed by channel ID.
func (s *Store) Seed(ctx context.Context, channels map[string]string) error {
	now := time.Now().UTC()
	for id, name := range channels {
		_, err := s.c.UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{"$setOnInsert": bson.M{
				"name":          name,
				"is_dm":         false,
				"last_activity": now,
				"created_at":    now,
			}},
			options.Update().SetUpsert(true))
		if err != nil {
			return err
		}
	}
	return nil
}
