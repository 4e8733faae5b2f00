// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"html/template"
	"net/http"
	"time"

	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	poststore "github.com/blackhatcommit/commithub/internal/app/store/posts"
	storystore "github.com/blackhatcommit/commithub/internal/app/store/stories"
	taskstore "github.com/blackhatcommit/commithub/internal/app/store/tasks"
	userstore "github.com/blackhatcommit/commithub/internal/app/store/users"
	"github.com/blackhatcommit/commithub/internal/app/system/authz"
	"github.com/blackhatcommit/commithub/internal/app/system/timeouts"
	"github.com/blackhatcommit/commithub/internal/app/system/viewdata"
	"github.com/blackhatcommit/commithub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Users   *userstore.Store
	Tasks   *taskstore.Store
	Stories *storystore.Store
	Posts   *poststore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Users:   userstore.New(db),
		Tasks:   taskstore.New(db),
		Stories: storystore.New(db),
		Posts:   poststore.New(db),
	}
}

type postVM struct {
	AuthorHandle string
	Body         template.HTML
}

type dashboardData struct {
	viewdata.BaseVM
	OpenTaskCount int64
	TeamSize      int64
	ActiveStories int
	OpenTasks     []models.Task
	RecentPosts   []postVM
}

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	if _, _, _, ok := authz.UserCtx(r); !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := dashboardData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Dashboard", "/"),
	}

	var err error
	if data.OpenTaskCount, err = h.Tasks.CountOpen(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "count open tasks", err, "A server error occurred.", "/")
		return
	}
	if data.TeamSize, err = h.Users.Count(ctx); err != nil {
		h.ErrLog.LogServerError(w, r, "count users", err, "A server error occurred.", "/")
		return
	}

	stories, err := h.Stories.ListActive(ctx, time.Now())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list active stories", err, "A server error occurred.", "/")
		return
	}
	data.ActiveStories = len(stories)

	tasks, err := h.Tasks.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list tasks", err, "A server error occurred.", "/")
		return
	}
	for _, task := range tasks {
		if !task.Completed {
			data.OpenTasks = append(data.OpenTasks, task)
		}
		if len(data.OpenTasks) == 5 {
			break
		}
	}

	posts, err := h.Posts.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list posts", err, "A server error occurred.", "/")
		return
	}
	if len(posts) > 3 {
		posts = posts[:3]
	}
	for _, p := range posts {
		// Body is sanitized on write; safe to mark as HTML here.
		data.RecentPosts = append(data.RecentPosts, postVM{
			AuthorHandle: p.AuthorHandle,
			Body:         template.HTML(p.Body),
		})
	}

	templates.Render(w, r, "dashboard", data)
}
