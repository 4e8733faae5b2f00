// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/blackhatcommit/commithub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's handle, Mongo ObjectID, admin flag, and a
// found flag. If no user is present in context or the user ID is
// malformed, it returns "", NilObjectID, false, false; callers can
// trust that ok=true means a valid, authenticated user.
func UserCtx(r *http.Request) (handle string, userID primitive.ObjectID, isAdmin bool, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", primitive.NilObjectID, false, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "", primitive.NilObjectID, false, false
	}
	return user.Handle, userID, user.IsAdmin, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.IsAdmin
}

// can evaluates one permission flag for the current user. Admins always
// pass, even if their stored flags drifted; users with no permission set
// fail closed (the identity resolver normally bootstraps one).
func can(r *http.Request, pick func(models.Permissions) bool) bool {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return false
	}
	if u.IsAdmin {
		return true
	}
	if u.Permissions == nil {
		return false
	}
	return pick(*u.Permissions)
}

// CanSendMessage reports whether the current user may send chat messages.
func CanSendMessage(r *http.Request) bool {
	return can(r, func(p models.Permissions) bool { return p.CanSendMessage })
}

// CanAddTasks reports whether the current user may create planner tasks.
func CanAddTasks(r *http.Request) bool {
	return can(r, func(p models.Permissions) bool { return p.CanAddTasks })
}

// CanCompleteTasks reports whether the current user may complete tasks.
func CanCompleteTasks(r *http.Request) bool {
	return can(r, func(p models.Permissions) bool { return p.CanCompleteTasks })
}

// CanShareFiles reports whether the current user may upload shared files.
func CanShareFiles(r *http.Request) bool {
	return can(r, func(p models.Permissions) bool { return p.CanShareFiles })
}

// CanCreateStories reports whether the current user may post stories.
func CanCreateStories(r *http.Request) bool {
	return can(r, func(p models.Permissions) bool { return p.CanCreateStories })
}

// CanPostToCommunity reports whether the current user may post to the feed.
func CanPostToCommunity(r *http.Request) bool {
	return can(r, func(p models.Permissions) bool { return p.CanPostToCommunity })
}

// CanSubmitDailyReport reports whether the current user may file reports.
func CanSubmitDailyReport(r *http.Request) bool {
	return can(r, func(p models.Permissions) bool { return p.CanSubmitDailyReport })
}
