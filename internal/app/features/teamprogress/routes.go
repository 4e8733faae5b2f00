// internal/app/features/teamprogress/routes.go
package teamprogress

import (
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.ServeProgress)
		pr.Post("/", h.HandleSubmitReport)
	})
	return r
}
