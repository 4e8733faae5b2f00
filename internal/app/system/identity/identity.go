// internal/app/system/identity/identity.go

// Package identity resolves a freshly authenticated sign-in into a fully
// populated user profile. It creates the profile on first sign-in,
// bootstraps missing permission sets, applies the configured admin
// override, and fills a missing handle from a fallback chain. A failed
// profile read or corrective write never blocks sign-in; the resolver
// degrades to a minimal user built from the auth identity alone.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	userstore "github.com/blackhatcommit/commithub/internal/app/store/users"
	"github.com/blackhatcommit/commithub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// FallbackHandle is used when neither the profile, the auth display name,
// nor the email yields a usable handle.
const FallbackHandle = "Operative"

// AuthIdentity carries the fields the authentication step establishes
// before profile resolution runs.
type AuthIdentity struct {
	Email       string
	DisplayName string
	PhotoURL    string
	Method      string // internal | google
}

// ProfileStore is the slice of the users store the resolver needs.
// *users.Store satisfies it.
type ProfileStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	SyncSession(ctx context.Context, id primitive.ObjectID, handle string, isAdmin bool, perms models.Permissions, photoURL string) error
}

// Resolver merges auth identities with stored profiles.
type Resolver struct {
	profiles   ProfileStore
	adminEmail string
	logger     *zap.Logger
}

// New builds a Resolver. adminEmail designates the account whose admin
// flag and full permission set are re-asserted on every session; empty
// disables the override.
func New(profiles ProfileStore, adminEmail string, logger *zap.Logger) *Resolver {
	return &Resolver{
		profiles:   profiles,
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
		logger:     logger,
	}
}

// Resolve returns the application user for an authenticated identity.
// It always returns a usable user; store failures are logged and the
// result degrades to the auth-only fields.
func (r *Resolver) Resolve(ctx context.Context, ident AuthIdentity) *models.User {
	email := strings.ToLower(strings.TrimSpace(ident.Email))
	isAdmin := r.isAdminEmail(email)

	u, err := r.profiles.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return r.reconcile(ctx, u, ident, isAdmin)
	case errors.Is(err, userstore.ErrNotFound):
		return r.create(ctx, ident, email, isAdmin)
	default:
		r.logger.Warn("profile read failed, degrading to auth-only user",
			zap.String("email", email), zap.Error(err))
		return r.minimal(ident, email, isAdmin)
	}
}

// reconcile corrects drifted or missing fields on an existing profile.
// Corrections are written back best-effort; the in-memory user carries
// them either way.
func (r *Resolver) reconcile(ctx context.Context, u *models.User, ident AuthIdentity, isAdmin bool) *models.User {
	changed := false

	if strings.TrimSpace(u.Handle) == "" {
		u.Handle = handleFor("", ident.DisplayName, u.Email)
		changed = true
	}
	if u.Permissions == nil {
		perms := models.DefaultPermissions()
		u.Permissions = &perms
		changed = true
	}
	if isAdmin {
		if !u.IsAdmin {
			u.IsAdmin = true
			changed = true
		}
		if *u.Permissions != models.AllPermissions() {
			perms := models.AllPermissions()
			u.Permissions = &perms
			changed = true
		}
	}
	if u.PhotoURL == "" && ident.PhotoURL != "" {
		u.PhotoURL = ident.PhotoURL
		changed = true
	}

	if changed {
		if err := r.profiles.SyncSession(ctx, u.ID, u.Handle, u.IsAdmin, *u.Permissions, u.PhotoURL); err != nil {
			r.logger.Warn("profile session sync failed",
				zap.String("user_id", u.ID.Hex()), zap.Error(err))
		}
	}
	return u
}

// create materializes a profile on first sign-in.
func (r *Resolver) create(ctx context.Context, ident AuthIdentity, email string, isAdmin bool) *models.User {
	u := r.minimal(ident, email, isAdmin)
	if err := r.profiles.Create(ctx, u); err != nil {
		r.logger.Warn("profile create failed, continuing with auth-only user",
			zap.String("email", email), zap.Error(err))
	}
	return u
}

// minimal builds a user from the auth identity alone.
func (r *Resolver) minimal(ident AuthIdentity, email string, isAdmin bool) *models.User {
	perms := models.DefaultPermissions()
	if isAdmin {
		perms = models.AllPermissions()
	}
	now := time.Now().UTC()
	return &models.User{
		Handle:      handleFor("", ident.DisplayName, email),
		Email:       email,
		AuthMethod:  ident.Method,
		PhotoURL:    ident.PhotoURL,
		IsAdmin:     isAdmin,
		Permissions: &perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (r *Resolver) isAdminEmail(email string) bool {
	return r.adminEmail != "" && email == r.adminEmail
}

// handleFor applies the handle fallback chain: stored handle, auth
// display name, local part of the email, then the generic placeholder.
func handleFor(handle, displayName, email string) string {
	if h := strings.TrimSpace(handle); h != "" {
		return h
	}
	if d := strings.TrimSpace(displayName); d != "" {
		return d
	}
	if local, _, ok := strings.Cut(email, "@"); ok && strings.TrimSpace(local) != "" {
		return strings.TrimSpace(local)
	}
	return FallbackHandle
}
