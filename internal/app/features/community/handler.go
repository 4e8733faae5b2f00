// internal/app/features/community/handler.go
package community

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"

	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	poststore "github.com/blackhatcommit/commithub/internal/app/store/posts"
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
	Posts   *poststore.Store
	Storage storage.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, store storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Posts:   poststore.New(db),
		Storage: store,
	}
}

type postVM struct {
	models.Post
	BodyHTML template.HTML
}

type communityData struct {
	viewdata.BaseVM
	Posts       []postVM
	CanPost     bool
	ViewerIDHex string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /community                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCommunity(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts, err := h.Posts.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list community posts", err, "A server error occurred.", "/dashboard")
		return
	}

	vms := make([]postVM, 0, len(posts))
	for _, p := range posts {
		// Body is sanitized on write; safe to mark as HTML here.
		vms = append(vms, postVM{Post: p, BodyHTML: template.HTML(p.Body)})
	}

	templates.Render(w, r, "community", communityData{
		BaseVM:      viewdata.NewBaseVM(r, h.DB, "Community", "/dashboard"),
		Posts:       vms,
		CanPost:     authz.CanPostToCommunity(r),
		ViewerIDHex: res.UserID.Hex(),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /community – create a post, optionally with an attachment             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	res := gates.RequirePermission(w, r, authz.CanPostToCommunity,
		"You do not have permission to post to the community feed.", "/community")
	if !res.OK {
		return
	}

	if err := r.ParseMultipartForm(limits.MaxFormSize); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse multipart failed", err, "Invalid post.", "/community")
		return
	}

	body := strings.TrimSpace(r.FormValue("body"))

	photo := ""
	if u, ok := auth.CurrentUser(r); ok {
		photo = u.Photo
	}

	post := &models.Post{
		Body:         body,
		AuthorID:     res.UserID,
		AuthorHandle: res.Handle,
		AuthorPhoto:  photo,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var attachedPath string
	file, header, err := r.FormFile("attachment")
	if err == nil {
		defer file.Close()

		if err := limits.CheckAttachment(header.Size); err != nil {
			uierrors.RenderForbidden(w, r, err.Error(), "/community")
			return
		}

		contentType := header.Header.Get("Content-Type")
		info, err := uploads.Save(ctx, h.Storage, "community", header.Filename, file, header.Size, contentType)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "store attachment", err, "Upload failed. Please try again.", "/community")
			return
		}
		attachedPath = info.Path
		post.AttachmentURL = h.Storage.URL(info.Path)
		post.AttachmentName = info.FileName
		post.AttachmentType = limits.Classify(contentType)
	}

	if err := h.Posts.Create(ctx, post); err != nil {
		if attachedPath != "" {
			if delErr := uploads.Delete(ctx, h.Storage, attachedPath); delErr != nil {
				h.Log.Warn("orphaned attachment", zap.String("path", attachedPath), zap.Error(delErr))
			}
		}
		h.ErrLog.LogBadRequest(w, r, "create post", err, "Write something or attach a file.", "/community")
		return
	}

	http.Redirect(w, r, "/community", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /community/{postID}/delete                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "postID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad post id", err, "That post does not exist.", "/community")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Posts.Delete(ctx, id, res.UserID, res.IsAdmin)
	if errors.Is(err, poststore.ErrNotFound) {
		uierrors.RenderForbidden(w, r, "Only the author or an admin can delete a post.", "/community")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete post", err, "A server error occurred.", "/community")
		return
	}

	http.Redirect(w, r, "/community", http.StatusSeeOther)
}
