// internal/app/features/planner/routes.go
package planner

import (
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.ServePlanner)
		pr.Post("/", h.HandleCreateTask)
		pr.Post("/{taskID}/begin", h.HandleBeginComplete)
		pr.Post("/{taskID}/confirm", h.HandleConfirmComplete)
		pr.Post("/{taskID}/delete", h.HandleDeleteTask)
	})
	return r
}
