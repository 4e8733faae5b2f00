// internal/app/features/stories/routes.go
package stories

import (
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.ServeStories)
		pr.Post("/", h.HandleCreateStory)
		pr.Post("/{storyID}/delete", h.HandleDeleteStory)
	})
	return r
}
