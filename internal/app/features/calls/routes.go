// internal/app/features/calls/routes.go
package calls

import (
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.ServeCalls)
		pr.Post("/signal", h.HandleSignal)
	})
	return r
}
