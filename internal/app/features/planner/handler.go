// internal/app/features/planner/handler.go
package planner

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	taskstore "github.com/blackhatcommit/commithub/internal/app/store/tasks"
	"github.com/blackhatcommit/commithub/internal/app/system/authz"
	"github.com/blackhatcommit/commithub/internal/app/system/gates"
	"github.com/blackhatcommit/commithub/internal/app/system/taskflow"
	"github.com/blackhatcommit/commithub/internal/app/system/timeouts"
	"github.com/blackhatcommit/commithub/internal/app/system/viewdata"
	"github.com/blackhatcommit/commithub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Tasks  *taskstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Tasks:  taskstore.New(db),
	}
}

type plannerData struct {
	viewdata.BaseVM
	Tasks       []models.Task
	Priorities  []string
	CanAdd      bool
	CanComplete bool
	ViewerIDHex string

	// Pending confirmation, if the viewer activated a completion control.
	ConfirmingID string
	ConfirmError string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /planner                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServePlanner(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}
	h.renderPlanner(w, r, res.UserID, "", "")
}

func (h *Handler) renderPlanner(w http.ResponseWriter, r *http.Request, viewerID primitive.ObjectID, confirmingID, confirmError string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tasks, err := h.Tasks.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list tasks", err, "A server error occurred.", "/dashboard")
		return
	}

	templates.Render(w, r, "planner", plannerData{
		BaseVM:       viewdata.NewBaseVM(r, h.DB, "Planner", "/dashboard"),
		Tasks:        tasks,
		Priorities:   models.Priorities,
		CanAdd:       authz.CanAddTasks(r),
		CanComplete:  authz.CanCompleteTasks(r),
		ViewerIDHex:  viewerID.Hex(),
		ConfirmingID: confirmingID,
		ConfirmError: confirmError,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /planner – create a task                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	res := gates.RequirePermission(w, r, authz.CanAddTasks,
		"You do not have permission to add missions.", "/planner")
	if !res.OK {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/planner")
		return
	}

	text := strings.TrimSpace(r.FormValue("text"))
	priority := strings.TrimSpace(r.FormValue("priority"))
	if text == "" {
		http.Redirect(w, r, "/planner", http.StatusSeeOther)
		return
	}
	if !models.ValidPriority(priority) {
		h.ErrLog.LogBadRequest(w, r, "bad priority", nil, "Unknown priority.", "/planner")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	task := &models.Task{
		Text:      text,
		Priority:  priority,
		Team:      strings.TrimSpace(r.FormValue("team")),
		CreatorID: res.UserID,
	}
	if err := h.Tasks.Create(ctx, task); err != nil {
		h.ErrLog.LogServerError(w, r, "create task", err, "A server error occurred.", "/planner")
		return
	}

	http.Redirect(w, r, "/planner", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /planner/{taskID}/begin – start the completion confirmation step       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleBeginComplete(w http.ResponseWriter, r *http.Request) {
	res := gates.RequirePermission(w, r, authz.CanCompleteTasks,
		"You do not have permission to complete missions.", "/planner")
	if !res.OK {
		return
	}

	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	if _, err := taskflow.Begin(flowState(task)); err != nil {
		uierrors.RenderForbidden(w, r, "That mission is already completed.", "/planner")
		return
	}

	h.renderPlanner(w, r, res.UserID, task.ID.Hex(), "")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /planner/{taskID}/confirm – type the word, complete the task           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleConfirmComplete(w http.ResponseWriter, r *http.Request) {
	res := gates.RequirePermission(w, r, authz.CanCompleteTasks,
		"You do not have permission to complete missions.", "/planner")
	if !res.OK {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/planner")
		return
	}

	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	// The form arrives from the confirmation step; reconstruct it.
	state, err := taskflow.Begin(flowState(task))
	if err != nil {
		uierrors.RenderForbidden(w, r, "That mission is already completed.", "/planner")
		return
	}

	if _, err := taskflow.Confirm(state, r.FormValue("confirm")); err != nil {
		if errors.Is(err, taskflow.ErrConfirmationMismatch) {
			h.renderPlanner(w, r, res.UserID, task.ID.Hex(), err.Error())
			return
		}
		uierrors.RenderForbidden(w, r, "That mission is already completed.", "/planner")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Tasks.Complete(ctx, task.ID, res.UserID, res.Handle)
	switch {
	case errors.Is(err, taskstore.ErrAlreadyCompleted):
		// Someone else confirmed first; their completion stands.
		http.Redirect(w, r, "/planner", http.StatusSeeOther)
		return
	case errors.Is(err, taskstore.ErrNotFound):
		h.ErrLog.LogBadRequest(w, r, "task vanished", err, "That mission no longer exists.", "/planner")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "complete task", err, "A server error occurred.", "/planner")
		return
	}

	http.Redirect(w, r, "/planner", http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /planner/{taskID}/delete                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}

	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Tasks.Delete(ctx, task.ID, res.UserID, res.IsAdmin)
	if errors.Is(err, taskstore.ErrNotFound) {
		uierrors.RenderForbidden(w, r, "Only the creator or an admin can delete a mission.", "/planner")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete task", err, "A server error occurred.", "/planner")
		return
	}

	http.Redirect(w, r, "/planner", http.StatusSeeOther)
}

// loadTask parses the route ID and fetches the task, rendering an error
// page when either step fails.
func (h *Handler) loadTask(w http.ResponseWriter, r *http.Request) (*models.Task, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "taskID"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad task id", err, "That mission does not exist.", "/planner")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	task, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, taskstore.ErrNotFound) {
			h.ErrLog.LogBadRequest(w, r, "task not found", err, "That mission does not exist.", "/planner")
			return nil, false
		}
		h.ErrLog.LogServerError(w, r, "load task", err, "A server error occurred.", "/planner")
		return nil, false
	}
	return task, true
}

// flowState maps a stored task onto its completion-flow state.
func flowState(t *models.Task) taskflow.State {
	if t.Completed {
		return taskflow.Completed
	}
	return taskflow.Unconfirmed
}
