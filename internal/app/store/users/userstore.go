// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/blackhatcommit/commithub/internal/app/system/normalize"
	"github.com/blackhatcommit/commithub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when creating a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")

	errNoEmail = errors.New("email is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

// GetByHandle looks up a user by case-insensitive handle.
func (s *Store) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"handle_ci": text.Fold(handle)}).Decode(&u); err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

// List returns all users ordered case-insensitively by handle. The
// messages sidebar and the admin console both feed from this.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "handle_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new user after normalizing fields and stamping
// timestamps. The caller's struct gets the assigned ID written back.
func (s *Store) Create(ctx context.Context, u *models.User) error {
	u.Email = normalize.Email(u.Email)
	if u.Email == "" {
		return errNoEmail
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Handle = normalize.Handle(u.Handle)
	u.HandleCI = text.Fold(u.Handle)
	u.AuthMethod = normalize.AuthMethod(u.AuthMethod)
	if u.Permissions == nil {
		perms := models.DefaultPermissions()
		u.Permissions = &perms
	}

	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// SyncSession writes back the fields the identity resolver corrects on
// sign-in: handle, admin flag, permission set, and photo.
func (s *Store) SyncSession(ctx context.Context, id primitive.ObjectID, handle string, isAdmin bool, perms models.Permissions, photoURL string) error {
	handle = normalize.Handle(handle)
	set := bson.M{
		"handle":      handle,
		"handle_ci":   text.Fold(handle),
		"is_admin":    isAdmin,
		"permissions": perms,
		"updated_at":  time.Now().UTC(),
	}
	if photoURL != "" {
		set["photo_url"] = photoURL
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePermissions replaces a user's permission set. Admin console only.
func (s *Store) UpdatePermissions(ctx context.Context, id primitive.ObjectID, perms models.Permissions) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"permissions": perms,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAdmin flips a user's admin flag. Admin console only.
func (s *Store) SetAdmin(ctx context.Context, id primitive.ObjectID, isAdmin bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_admin":   isAdmin,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile updates the self-service profile fields.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, handle, photoURL string) error {
	handle = normalize.Handle(handle)
	set := bson.M{
		"handle":     handle,
		"handle_ci":  text.Fold(handle),
		"updated_at": time.Now().UTC(),
	}
	if photoURL != "" {
		set["photo_url"] = photoURL
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPasswordHash stores a new bcrypt hash for an internal-auth user.
func (s *Store) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddDeviceToken registers a push token on the user's profile. Tokens
// accumulate by set union; registering an already-known token only
// bumps the last-update timestamp.
func (s *Store) AddDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"device_tokens": token},
		"$set": bson.M{
			"last_token_update": time.Now().UTC(),
			"updated_at":        time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user's profile record. The underlying identity (the
// login) is not this application's to delete.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the total number of user profiles.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// FetchSessionUser implements auth.UserFetcher so the session middleware
// can refresh permissions and the admin flag on every request.
func (s *Store) FetchSessionUser(ctx context.Context, idHex string) (*auth.SessionUser, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, err
	}
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &auth.SessionUser{
		ID:          u.ID.Hex(),
		Handle:      u.Handle,
		Email:       u.Email,
		Photo:       u.PhotoURL,
		IsAdmin:     u.IsAdmin,
		Permissions: u.Permissions,
	}, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
