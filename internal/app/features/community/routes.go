// internal/app/features/community/routes.go
package community

import (
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.ServeCommunity)
		pr.Post("/", h.HandleCreatePost)
		pr.Post("/{postID}/delete", h.HandleDeletePost)
	})
	return r
}
