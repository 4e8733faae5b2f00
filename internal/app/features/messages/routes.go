// internal/app/features/messages/routes.go
package messages

import (
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.ServeMessages)
		pr.Get("/dm/{userID}", h.ServeOpenDM)
		pr.Get("/{channelID}", h.ServeMessages)
		pr.Post("/{channelID}", h.HandleSendMessage)
	})
	return r
}
