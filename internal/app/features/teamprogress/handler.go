// internal/app/features/teamprogress/handler.go
package teamprogress

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	reportstore "github.com/blackhatcommit/commithub/internal/app/store/reports"
	"github.com/blackhatcommit/commithub/internal/app/system/authz"
	"github.com/blackhatcommit/commithub/internal/app/system/gates"
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
	Reports *reportstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Reports: reportstore.New(db),
	}
}

type progressData struct {
	viewdata.BaseVM
	Reports   []models.DailyReport
	CanSubmit bool
	FormError string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /team-progress                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeProgress(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, "/login")
	if !res.OK {
		return
	}
	h.renderProgress(w, r, "")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /team-progress – submit a daily report                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSubmitReport(w http.ResponseWriter, r *http.Request) {
	res := gates.RequirePermission(w, r, authz.CanSubmitDailyReport,
		"You do not have permission to submit reports.", "/team-progress")
	if !res.OK {
		return
	}

	accomplishments := strings.TrimSpace(r.FormValue("accomplishments"))
	if accomplishments == "" {
		h.renderProgress(w, r, "Accomplishments are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	report := &models.DailyReport{
		Accomplishments: accomplishments,
		Blockers:        r.FormValue("blockers"),
		Plans:           r.FormValue("plans"),
		AuthorID:        res.UserID,
		AuthorHandle:    res.Handle,
	}
	if err := h.Reports.Create(ctx, report); err != nil {
		h.ErrLog.LogServerError(w, r, "create report", err, "A server error occurred.", "/team-progress")
		return
	}

	http.Redirect(w, r, "/team-progress", http.StatusSeeOther)
}

func (h *Handler) renderProgress(w http.ResponseWriter, r *http.Request, formError string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reports, err := h.Reports.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list reports", err, "A server error occurred.", "/dashboard")
		return
	}

	templates.Render(w, r, "team_progress", progressData{
		BaseVM:    viewdata.NewBaseVM(r, h.DB, "Team Progress", "/dashboard"),
		Reports:   reports,
		CanSubmit: authz.CanSubmitDailyReport(r),
		FormError: formError,
	})
}
