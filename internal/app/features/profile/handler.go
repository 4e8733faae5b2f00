// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	userstore "github.com/blackhatcommit/commithub/internal/app/store/users"
	"github.com/blackhatcommit/commithub/internal/app/system/auditlog"
	"github.com/blackhatcommit/commithub/internal/app/system/gates"
	"github.com/blackhatcommit/commithub/internal/app/system/inputval"
	"github.com/blackhatcommit/commithub/internal/app/system/limits"
	"github.com/blackhatcommit/commithub/internal/app/system/timeouts"
	"github.com/blackhatcommit/commithub/internal/app/system/uploads"
	"github.com/blackhatcommit/commithub/internal/app/system/viewdata"
	"github.com/blackhatcommit/commithub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Users    *userstore.Store
	Storage  storage.Store
	AuditLog *auditlog.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, store storage.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Users:    userstore.New(db),
		Storage:  store,
		AuditLog: audit,
	}
}

type profileData struct {
	viewdata.BaseVM
	User      *models.User
	FormError string
	Saved     bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /profile                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}
	h.renderProfile(w, r, "", r.URL.Query().Get("saved") == "1")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /profile – update handle and avatar                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	if err := r.ParseMultipartForm(limits.MaxFormSize); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse multipart failed", err, "Invalid form.", "/profile")
		return
	}

	handle := strings.TrimSpace(r.FormValue("handle"))
	if !inputval.IsValidHandle(handle) {
		h.renderProfile(w, r, "Handles are 2 to 32 characters: letters, digits, dot, dash or underscore.", false)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	current, err := h.Users.GetByID(ctx, res.UserID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile", err, "A server error occurred.", "/dashboard")
		return
	}

	photoURL := current.PhotoURL
	if file, header, ferr := r.FormFile("avatar"); ferr == nil {
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if err := limits.CheckAvatar(header.Size, contentType); err != nil {
			h.renderProfile(w, r, err.Error(), false)
			return
		}

		info, err := uploads.Save(ctx, h.Storage, "avatars", header.Filename, file, header.Size, contentType)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "store avatar", err, "Upload failed. Please try again.", "/profile")
			return
		}
		photoURL = h.Storage.URL(info.Path)
	}

	if err := h.Users.UpdateProfile(ctx, res.UserID, handle, photoURL); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			h.renderProfile(w, r, "That handle is already taken.", false)
			return
		}
		h.ErrLog.LogServerError(w, r, "update profile", err, "A server error occurred.", "/profile")
		return
	}

	http.Redirect(w, r, "/profile?saved=1", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /profile/password                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	currentPassword := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")
	if len(newPassword) < 8 {
		h.renderProfile(w, r, "New password must be at least 8 characters.", false)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByID(ctx, res.UserID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile", err, "A server error occurred.", "/dashboard")
		return
	}

	// Accounts that already carry a password must present it; accounts
	// created through Google may set one without.
	if user.PasswordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
			h.renderProfile(w, r, "Current password is incorrect.", false)
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password", err, "A server error occurred.", "/profile")
		return
	}
	if err := h.Users.SetPasswordHash(ctx, res.UserID, string(hash)); err != nil {
		h.ErrLog.LogServerError(w, r, "set password", err, "A server error occurred.", "/profile")
		return
	}

	h.AuditLog.PasswordChanged(ctx, r, res.UserID)

	http.Redirect(w, r, "/profile?saved=1", http.StatusSeeOther)
}

func (h *Handler) renderProfile(w http.ResponseWriter, r *http.Request, formError string, saved bool) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, res.UserID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile", err, "A server error occurred.", "/dashboard")
		return
	}

	templates.Render(w, r, "profile", profileData{
		BaseVM:    viewdata.NewBaseVM(r, h.DB, "Profile", "/dashboard"),
		User:      user,
		FormError: formError,
		Saved:     saved,
	})
}
