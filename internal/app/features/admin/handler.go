// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	"github.com/blackhatcommit/commithub/internal/app/store/audit"
	settingsstore "github.com/blackhatcommit/commithub/internal/app/store/settings"
	storystore "github.com/blackhatcommit/commithub/internal/app/store/stories"
	taskstore "github.com/blackhatcommit/commithub/internal/app/store/tasks"
	userstore "github.com/blackhatcommit/commithub/internal/app/store/users"
	"github.com/blackhatcommit/commithub/internal/app/system/auditlog"
	"github.com/blackhatcommit/commithub/internal/app/system/gates"
	"github.com/blackhatcommit/commithub/internal/app/system/htmlsanitize"
	"github.com/blackhatcommit/commithub/internal/app/system/limits"
	"github.com/blackhatcommit/commithub/internal/app/system/timeouts"
	"github.com/blackhatcommit/commithub/internal/app/system/uploads"
	"github.com/blackhatcommit/commithub/internal/app/system/viewdata"
	"github.com/blackhatcommit/commithub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const auditPageSize = 200

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Users    *userstore.Store
	Tasks    *taskstore.Store
	Stories  *storystore.Store
	Settings *settingsstore.Store
	Audit    *audit.Store
	Storage  storage.Store
	AuditLog *auditlog.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, store storage.Store, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Users:    userstore.New(db),
		Tasks:    taskstore.New(db),
		Stories:  storystore.New(db),
		Settings: settingsstore.New(db),
		Audit:    audit.New(db),
		Storage:  store,
		AuditLog: auditLogger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

type adminHomeData struct {
	viewdata.BaseVM
	UserCount     int64
	OpenTaskCount int64
	ActiveStories int
}

func (h *Handler) ServeAdminHome(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAdmin(w, r, "Admin access required.", "/dashboard")
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	userCount, err := h.Users.Count(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count users", err, "A server error occurred.", "/dashboard")
		return
	}
	openTasks, err := h.Tasks.CountOpen(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count open tasks", err, "A server error occurred.", "/dashboard")
		return
	}
	activeStories, err := h.Stories.ListActive(ctx, time.Now())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list stories", err, "A server error occurred.", "/dashboard")
		return
	}

	templates.Render(w, r, "admin_home", adminHomeData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Admin", "/dashboard"),
		UserCount:     userCount,
		OpenTaskCount: openTasks,
		ActiveStories: len(activeStories),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/users                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

type adminUsersData struct {
	viewdata.BaseVM
	Users       []models.User
	ViewerIDHex string
}

func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAdmin(w, r, "Admin access required.", "/dashboard")
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users", err, "A server error occurred.", "/admin")
		return
	}

	templates.Render(w, r, "admin_users", adminUsersData{
		BaseVM:      viewdata.NewBaseVM(r, h.DB, "Users", "/admin"),
		Users:       users,
		ViewerIDHex: res.UserID.Hex(),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET+POST /admin/users/{userID}/permissions                                  |
*─────────────────────────────────────────────────────────────────────────────*/

type adminPermissionsData struct {
	viewdata.BaseVM
	User        *models.User
	Permissions models.Permissions
}

func (h *Handler) ServeUserPermissions(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAdmin(w, r, "Admin access required.", "/dashboard")
	if !res.OK {
		return
	}

	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	perms := models.DefaultPermissions()
	if user.Permissions != nil {
		perms = *user.Permissions
	}

	templates.Render(w, r, "admin_permissions", adminPermissionsData{
		BaseVM:      viewdata.NewBaseVM(r, h.DB, "Permissions", "/admin/users"),
		User:        user,
		Permissions: perms,
	})
}

func (h *Handler) HandleUpdatePermissions(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAdmin(w, r, "Admin access required.", "/dashboard")
	if !res.OK {
		return
	}

	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	perms := models.Permissions{
		CanSendMessage:       r.FormValue("can_send_message") == "on",
		CanAddTasks:          r.FormValue("can_add_tasks") == "on",
		CanCompleteTasks:     r.FormValue("can_complete_tasks") == "on",
		CanShareFiles:        r.FormValue("can_share_files") == "on",
		CanCreateStories:     r.FormValue("can_create_stories") == "on",
		CanPostToCommunity:   r.FormValue("can_post_to_community") == "on",
		CanSubmitDailyReport: r.FormValue("can_submit_daily_report") == "on",
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.UpdatePermissions(ctx, user.ID, perms); err != nil {
		h.ErrLog.LogServerError(w, r, "update permissions", err, "A server error occurred.", "/admin/users")
		return
	}

	h.AuditLog.PermissionsChanged(ctx, r, res.UserID, user.ID)

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/users/{userID}/admin – toggle the admin flag                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSetAdmin(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAdmin(w, r, "Admin access required.", "/dashboard")
	if !res.OK {
		return
	}

	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	// Admins cannot change their own flag; another admin has to.
	if user.ID == res.UserID {
		uierrors.RenderForbidden(w, r, "You cannot change your own admin flag.", "/admin/users")
		return
	}

	makeAdmin := r.FormValue("is_admin") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.SetAdmin(ctx, user.ID, makeAdmin); err != nil {
		h.ErrLog.LogServerError(w, r, "set admin flag", err, "A server error occurred.", "/admin/users")
		return
	}

	h.AuditLog.AdminFlagChanged(ctx, r, res.UserID, user.ID, makeAdmin)

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/users/{userID}/delete                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAdmin(w, r, "Admin access required.", "/dashboard")
	if !res.OK {
		return
	}

	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	if user.ID == res.UserID {
		uierrors.RenderForbidden(w, r, "You cannot delete your own account.", "/admin/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Users.Delete(ctx, user.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete user", err, "A server error occurred.", "/admin/users")
		return
	}

	h.AuditLog.UserDeleted(ctx, r, res.UserID, user.ID)

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET+POST /admin/settings                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

type adminSettingsData struct {
	viewdata.BaseVM
	Settings models.SiteSettings
	Saved    bool
}

func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAdmin(w, r, "Admin access required.", "/dashboard")
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load settings", err, "A server error occurred.", "/admin")
		return
	}

	templates.Render(w, r, "admin_settings", adminSettingsData{
		BaseVM:   viewdata.NewBaseVM(r, h.DB, "Site Settings", "/admin"),
		Settings: settings,
		Saved:    r.URL.Query().Get("saved") == "1",
	})
}

func (h *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAdmin(w, r, "Admin access required.", "/dashboard")
	if !res.OK {
		return
	}

	if err := r.ParseMultipartForm(limits.MaxFormSize); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse multipart failed", err, "Invalid form.", "/admin/settings")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load settings", err, "A server error occurred.", "/admin")
		return
	}

	siteName := strings.TrimSpace(r.FormValue("site_name"))
	if siteName == "" {
		siteName = models.DefaultSiteName
	}
	settings.SiteName = siteName
	settings.FooterHTML = htmlsanitize.Sanitize(r.FormValue("footer_html"))

	if file, header, ferr := r.FormFile("logo"); ferr == nil {
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if err := limits.CheckAvatar(header.Size, contentType); err != nil {
			uierrors.RenderForbidden(w, r, err.Error(), "/admin/settings")
			return
		}

		info, err := uploads.Save(ctx, h.Storage, "site", header.Filename, file, header.Size, contentType)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "store logo", err, "Upload failed. Please try again.", "/admin/settings")
			return
		}

		oldLogo := settings.LogoPath
		settings.LogoPath = info.Path
		settings.LogoName = info.FileName
		if delErr := uploads.Delete(ctx, h.Storage, oldLogo); delErr != nil {
			h.Log.Warn("orphaned site logo", zap.String("path", oldLogo), zap.Error(delErr))
		}
	}

	now := time.Now().UTC()
	settings.UpdatedAt = &now
	settings.UpdatedByID = &res.UserID
	settings.UpdatedByName = res.Handle

	if err := h.Settings.Save(ctx, settings); err != nil {
		h.ErrLog.LogServerError(w, r, "save settings", err, "A server error occurred.", "/admin/settings")
		return
	}

	h.AuditLog.SettingsChanged(ctx, r, res.UserID, map[string]string{
		"site_name": settings.SiteName,
	})

	http.Redirect(w, r, "/admin/settings?saved=1", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/audit                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

type adminAuditData struct {
	viewdata.BaseVM
	Events []audit.Event
}

func (h *Handler) ServeAudit(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAdmin(w, r, "Admin access required.", "/dashboard")
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Audit.Recent(ctx, auditPageSize)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list audit events", err, "A server error occurred.", "/admin")
		return
	}

	templates.Render(w, r, "admin_audit", adminAuditData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Audit Log", "/admin"),
		Events: events,
	})
}

func (h *Handler) loadUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad user id", err, "That user does not exist.", "/admin/users")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, userstore.ErrNotFound) {
		h.ErrLog.LogBadRequest(w, r, "user not found", err, "That user does not exist.", "/admin/users")
		return nil, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user", err, "A server error occurred.", "/admin/users")
		return nil, false
	}
	return user, true
}
