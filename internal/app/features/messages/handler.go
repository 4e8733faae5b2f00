// internal/app/features/messages/handler.go
package messages

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	channelstore "github.com/blackhatcommit/commithub/internal/app/store/channels"
	messagestore "github.com/blackhatcommit/commithub/internal/app/store/messages"
	userstore "github.com/blackhatcommit/commithub/internal/app/store/users"
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/blackhatcommit/commithub/internal/app/system/authz"
	"github.com/blackhatcommit/commithub/internal/app/system/gates"
	"github.com/blackhatcommit/commithub/internal/app/system/reconcile"
	"github.com/blackhatcommit/commithub/internal/app/system/timeouts"
	"github.com/blackhatcommit/commithub/internal/app/system/viewdata"
	"github.com/blackhatcommit/commithub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// historyLimit caps how many messages a channel view loads.
const historyLimit = 200

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Users    *userstore.Store
	Channels *channelstore.Store
	Messages *messagestore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Users:    userstore.New(db),
		Channels: channelstore.New(db),
		Messages: messagestore.New(db),
	}
}

type messagesData struct {
	viewdata.BaseVM
	Channels    []reconcile.Entry
	Selected    *reconcile.Entry
	Messages    []models.Message
	CanSend     bool
	ViewerIDHex string
}

// buildSidebar merges group channels and per-user DM entries into the
// channel list for the signed-in viewer.
func (h *Handler) buildSidebar(ctx context.Context, viewerID string) (*reconcile.State, error) {
	state := reconcile.NewState()

	groups, err := h.Channels.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	state.ApplyChannels(groups)

	users, err := h.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	state.ApplyUsers(viewerID, users)

	return state, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /messages and GET /messages/{channelID}                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeMessages(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	state, err := h.buildSidebar(ctx, res.UserID.Hex())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build channel list", err, "A server error occurred.", "/dashboard")
		return
	}

	data := messagesData{
		BaseVM:      viewdata.NewBaseVM(r, h.DB, "Messages", "/dashboard"),
		Channels:    state.List(),
		CanSend:     authz.CanSendMessage(r),
		ViewerIDHex: res.UserID.Hex(),
	}

	if channelID := chi.URLParam(r, "channelID"); channelID != "" {
		if !state.Select(channelID) {
			uierrors.RenderForbidden(w, r, "That channel is not available.", "/messages")
			return
		}
		data.Selected = state.Selected()

		data.Messages, err = h.Messages.ListByChannel(ctx, channelID, historyLimit)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "list messages", err, "A server error occurred.", "/messages")
			return
		}
	}

	templates.Render(w, r, "messages", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /messages/dm/{userID} – resolve (or create) the DM channel and jump in  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeOpenDM(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	otherHex := chi.URLParam(r, "userID")
	otherID, err := primitive.ObjectIDFromHex(otherHex)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad user id", err, "That user does not exist.", "/messages")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	other, err := h.Users.GetByID(ctx, otherID)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.ErrLog.LogBadRequest(w, r, "dm target not found", err, "That user does not exist.", "/messages")
			return
		}
		h.ErrLog.LogServerError(w, r, "load dm target", err, "A server error occurred.", "/messages")
		return
	}

	ch, err := h.Channels.ResolveDM(ctx,
		channelstore.Participant{ID: res.UserID.Hex(), Handle: res.Handle},
		channelstore.Participant{ID: other.ID.Hex(), Handle: other.Handle},
	)
	if err != nil {
		if errors.Is(err, models.ErrSelfDM) {
			uierrors.RenderForbidden(w, r, "You cannot message yourself.", "/messages")
			return
		}
		h.ErrLog.LogServerError(w, r, "resolve dm channel", err, "A server error occurred.", "/messages")
		return
	}

	http.Redirect(w, r, "/messages/"+ch.ID, http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /messages/{channelID}                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	res := gates.RequirePermission(w, r, authz.CanSendMessage,
		"You do not have permission to send messages.", "/messages")
	if !res.OK {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/messages")
		return
	}

	channelID := chi.URLParam(r, "channelID")
	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		http.Redirect(w, r, "/messages/"+channelID, http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// The channel must exist; messages are never appended to unknown IDs.
	ch, err := h.Channels.GetByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, channelstore.ErrNotFound) {
			h.ErrLog.LogBadRequest(w, r, "unknown channel", err, "That channel does not exist.", "/messages")
			return
		}
		h.ErrLog.LogServerError(w, r, "load channel", err, "A server error occurred.", "/messages")
		return
	}

	// A DM accepts writes only from its two participants.
	if ch.IsDM && !ch.HasParticipant(res.UserID.Hex()) {
		uierrors.RenderForbidden(w, r, "That conversation is private.", "/messages")
		return
	}

	photo := ""
	if u, ok := auth.CurrentUser(r); ok {
		photo = u.Photo
	}

	msg := &models.Message{
		ChannelID:   channelID,
		Text:        text,
		SenderID:    res.UserID,
		SenderName:  res.Handle,
		SenderPhoto: photo,
	}
	if err := h.Messages.Append(ctx, msg); err != nil {
		h.ErrLog.LogServerError(w, r, "append message", err, "A server error occurred.", "/messages")
		return
	}

	if err := h.Channels.TouchActivity(ctx, channelID, time.Now()); err != nil {
		h.Log.Warn("touch channel activity failed",
			zap.String("channel_id", channelID), zap.Error(err))
	}

	http.Redirect(w, r, "/messages/"+channelID, http.StatusSeeOther)
}
