// internal/app/features/admin/routes.go
package admin

import (
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireAdmin)
		pr.Get("/", h.ServeAdminHome)
		pr.Get("/users", h.ServeUsers)
		pr.Get("/users/{userID}/permissions", h.ServeUserPermissions)
		pr.Post("/users/{userID}/permissions", h.HandleUpdatePermissions)
		pr.Post("/users/{userID}/admin", h.HandleSetAdmin)
		pr.Post("/users/{userID}/delete", h.HandleDeleteUser)
		pr.Get("/settings", h.ServeSettings)
		pr.Post("/settings", h.HandleUpdateSettings)
		pr.Get("/audit", h.ServeAudit)
	})
	return r
}
