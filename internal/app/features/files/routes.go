// internal/app/features/files/routes.go
package files

import (
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.ServeFiles)
		pr.Post("/", h.HandleUpload)
		pr.Get("/{fileID}/download", h.HandleDownload)
		pr.Post("/{fileID}/delete", h.HandleDelete)
	})
	return r
}
