// internal/app/features/files/handler.go
package files

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	filestore "github.com/blackhatcommit/commithub/internal/app/store/files"
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
	Files   *filestore.Store
	Storage storage.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, store storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Files:   filestore.New(db),
		Storage: store,
	}
}

type filesData struct {
	viewdata.BaseVM
	Files       []models.FileEntry
	CanShare    bool
	ViewerIDHex string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /files                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeFiles(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	entries, err := h.Files.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list files", err, "A server error occurred.", "/dashboard")
		return
	}

	templates.Render(w, r, "files", filesData{
		BaseVM:      viewdata.NewBaseVM(r, h.DB, "Files", "/dashboard"),
		Files:       entries,
		CanShare:    authz.CanShareFiles(r),
		ViewerIDHex: res.UserID.Hex(),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /files – upload a shared file                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	res := gates.RequirePermission(w, r, authz.CanShareFiles,
		"You do not have permission to share files.", "/files")
	if !res.OK {
		return
	}

	if err := r.ParseMultipartForm(limits.MaxFormSize); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse multipart failed", err, "Invalid upload.", "/files")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "missing file", err, "Choose a file to share.", "/files")
		return
	}
	defer file.Close()

	if err := limits.CheckAttachment(header.Size); err != nil {
		uierrors.RenderForbidden(w, r, err.Error(), "/files")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	contentType := header.Header.Get("Content-Type")
	info, err := uploads.Save(ctx, h.Storage, "files", header.Filename, file, header.Size, contentType)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "store file", err, "Upload failed. Please try again.", "/files")
		return
	}

	entry := &models.FileEntry{
		Path:        info.Path,
		FileName:    info.FileName,
		Size:        info.Size,
		ContentType: info.ContentType,
		Kind:        limits.Classify(contentType),
		OwnerID:     res.UserID,
		OwnerHandle: res.Handle,
	}
	if err := h.Files.Create(ctx, entry); err != nil {
		// Roll back the stored object so storage does not leak.
		if delErr := uploads.Delete(ctx, h.Storage, info.Path); delErr != nil {
			h.Log.Warn("orphaned shared file", zap.String("path", info.Path), zap.Error(delErr))
		}
		h.ErrLog.LogServerError(w, r, "create file entry", err, "A server error occurred.", "/files")
		return
	}

	http.Redirect(w, r, "/files", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /files/{fileID}/download                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	entry, ok := h.loadEntry(w, r)
	if !ok {
		return
	}

	// Local storage serves straight off disk; anything else gets a
	// short-lived presigned URL with a download disposition.
	if local, isLocal := h.Storage.(*storage.Local); isLocal {
		fullPath, err := local.GetFullPath(entry.Path)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "resolve file path", err, "A server error occurred.", "/files")
			return
		}
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", entry.FileName))
		http.ServeFile(w, r, fullPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	url, err := h.Storage.PresignedURL(ctx, entry.Path, &storage.PresignOptions{
		Expires:            15 * time.Minute,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", entry.FileName),
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "presign download", err, "A server error occurred.", "/files")
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /files/{fileID}/delete                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "fileID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad file id", err, "That file does not exist.", "/files")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	entry, err := h.Files.Delete(ctx, id, res.UserID, res.IsAdmin)
	if errors.Is(err, filestore.ErrNotFound) {
		uierrors.RenderForbidden(w, r, "Only the owner or an admin can delete a file.", "/files")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete file entry", err, "A server error occurred.", "/files")
		return
	}

	if delErr := uploads.Delete(ctx, h.Storage, entry.Path); delErr != nil {
		h.Log.Warn("orphaned shared file", zap.String("path", entry.Path), zap.Error(delErr))
	}

	http.Redirect(w, r, "/files", http.StatusSeeOther)
}

func (h *Handler) loadEntry(w http.ResponseWriter, r *http.Request) (*models.FileEntry, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "fileID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad file id", err, "That file does not exist.", "/files")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	entry, err := h.Files.GetByID(ctx, id)
	if errors.Is(err, filestore.ErrNotFound) {
		h.ErrLog.LogBadRequest(w, r, "file not found", err, "That file does not exist.", "/files")
		return nil, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load file entry", err, "A server error occurred.", "/files")
		return nil, false
	}
	return entry, true
}
