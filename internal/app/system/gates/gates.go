// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization, rendering appropriate error
// pages when checks fail.
//
// Route groups use auth.RequireSignedIn / auth.RequireAdmin middleware for
// coarse access control; gates are for handlers that need a check the
// route group doesn't provide, most commonly a per-permission-flag check
// before a write. Permission denials are surfaced as an immediate notice
// and the operation aborts before any store call.
package gates

import (
	"net/http"

	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	"github.com/blackhatcommit/commithub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Handle  string
	UserID  primitive.ObjectID
	IsAdmin bool
	OK      bool
}

// RequireAuth ensures a user is authenticated.
// If not authenticated, it renders an unauthorized error and returns OK=false.
func RequireAuth(w http.ResponseWriter, r *http.Request, loginURL string) Result {
	handle, uid, isAdmin, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, loginURL)
		return Result{OK: false}
	}
	return Result{Handle: handle, UserID: uid, IsAdmin: isAdmin, OK: true}
}

// RequireAdmin ensures the user is authenticated and holds the admin flag.
func RequireAdmin(w http.ResponseWriter, r *http.Request, forbiddenMsg, fallbackURL string) Result {
	handle, uid, isAdmin, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return Result{OK: false}
	}
	if !isAdmin {
		uierrors.RenderForbidden(w, r, forbiddenMsg, fallbackURL)
		return Result{OK: false}
	}
	return Result{Handle: handle, UserID: uid, IsAdmin: true, OK: true}
}

// RequirePermission ensures the user is authenticated and passes the given
// permission check (one of the authz.Can* functions). The check runs before
// the handler touches any store, so denied operations never reach the
// database.
func RequirePermission(w http.ResponseWriter, r *http.Request, check func(*http.Request) bool, deniedMsg, fallbackURL string) Result {
	handle, uid, isAdmin, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return Result{OK: false}
	}
	if !check(r) {
		uierrors.RenderForbidden(w, r, deniedMsg, fallbackURL)
		return Result{OK: false}
	}
	return Result{Handle: handle, UserID: uid, IsAdmin: isAdmin, OK: true}
}
