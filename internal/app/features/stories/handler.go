// internal/app/features/stories/handler.go
package stories

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	storystore "github.com/blackhatcommit/commithub/internal/app/store/stories"
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/blackhatcommit/commithub/internal/app/system/authz"
	"github.com/blackhatcommit/commithub/internal/app/system/gates"
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

type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Stories *storystore.Store
	Storage storage.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, store storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Stories: storystore.New(db),
		Storage: store,
	}
}

type storiesData struct {
	viewdata.BaseVM
	Stories     []models.Story
	CanCreate   bool
	ViewerIDHex string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /stories                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeStories(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	active, err := h.Stories.ListActive(ctx, time.Now())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list stories", err, "A server error occurred.", "/dashboard")
		return
	}

	templates.Render(w, r, "stories", storiesData{
		BaseVM:      viewdata.NewBaseVM(r, h.DB, "Stories", "/dashboard"),
		Stories:     active,
		CanCreate:   authz.CanCreateStories(r),
		ViewerIDHex: res.UserID.Hex(),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /stories – upload an image story                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreateStory(w http.ResponseWriter, r *http.Request) {
	res := gates.RequirePermission(w, r, authz.CanCreateStories,
		"You do not have permission to post stories.", "/stories")
	if !res.OK {
		return
	}

	if err := r.ParseMultipartForm(limits.MaxFormSize); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse multipart failed", err, "Invalid upload.", "/stories")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "missing story image", err, "Choose an image to post.", "/stories")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := limits.CheckStoryImage(header.Size, contentType); err != nil {
		uierrors.RenderForbidden(w, r, err.Error(), "/stories")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	info, err := uploads.Save(ctx, h.Storage, "stories", header.Filename, file, header.Size, contentType)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "store story image", err, "Upload failed. Please try again.", "/stories")
		return
	}

	photo := ""
	if u, ok := auth.CurrentUser(r); ok {
		photo = u.Photo
	}

	story := &models.Story{
		ImageURL:     h.Storage.URL(info.Path),
		Caption:      strings.TrimSpace(r.FormValue("caption")),
		AuthorID:     res.UserID,
		AuthorHandle: res.Handle,
		AuthorPhoto:  photo,
	}
	if err := h.Stories.Create(ctx, story); err != nil {
		// Roll back the stored object so storage does not leak.
		if delErr := uploads.Delete(ctx, h.Storage, info.Path); delErr != nil {
			h.Log.Warn("orphaned story image", zap.String("path", info.Path), zap.Error(delErr))
		}
		h.ErrLog.LogServerError(w, r, "create story", err, "A server error occurred.", "/stories")
		return
	}

	http.Redirect(w, r, "/stories", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /stories/{storyID}/delete                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDeleteStory(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "storyID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad story id", err, "That story does not exist.", "/stories")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Stories.Delete(ctx, id, res.UserID, res.IsAdmin)
	if errors.Is(err, storystore.ErrNotFound) {
		uierrors.RenderForbidden(w, r, "Only the author or an admin can delete a story.", "/stories")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete story", err, "A server error occurred.", "/stories")
		return
	}

	http.Redirect(w, r, "/stories", http.StatusSeeOther)
}
