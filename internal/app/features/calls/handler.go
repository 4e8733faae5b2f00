// internal/app/features/calls/handler.go
package calls

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	userstore "github.com/blackhatcommit/commithub/internal/app/store/users"
	"github.com/blackhatcommit/commithub/internal/app/system/gates"
	"github.com/blackhatcommit/commithub/internal/app/system/timeouts"
	"github.com/blackhatcommit/commithub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Calls are a UI placeholder: the page lists who could be called and the
// signal endpoint records intent. No media session is ever established.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Users  *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Users:  userstore.New(db),
	}
}

type memberVM struct {
	IDHex  string
	Handle string
	Photo  string
}

type callsData struct {
	viewdata.BaseVM
	Members []memberVM
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /calls                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCalls(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users", err, "A server error occurred.", "/dashboard")
		return
	}

	members := make([]memberVM, 0, len(users))
	for _, u := range users {
		if u.ID == res.UserID {
			continue
		}
		members = append(members, memberVM{IDHex: u.ID.Hex(), Handle: u.Handle, Photo: u.PhotoURL})
	}

	templates.Render(w, r, "calls", callsData{
		BaseVM:  viewdata.NewBaseVM(r, h.DB, "Calls", "/dashboard"),
		Members: members,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /calls/signal – record call intent                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSignal(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	target := strings.TrimSpace(r.FormValue("target"))
	kind := r.FormValue("kind")
	if kind != "video" {
		kind = "audio"
	}

	h.Log.Info("call signal",
		zap.String("caller", res.Handle),
		zap.String("target", target),
		zap.String("kind", kind))

	w.WriteHeader(http.StatusAccepted)
}
