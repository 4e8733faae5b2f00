// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	userstore "github.com/blackhatcommit/commithub/internal/app/store/users"
	"github.com/blackhatcommit/commithub/internal/app/system/auditlog"
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/blackhatcommit/commithub/internal/app/system/identity"
	"github.com/blackhatcommit/commithub/internal/app/system/normalize"
	"github.com/blackhatcommit/commithub/internal/app/system/timeouts"
	"github.com/blackhatcommit/commithub/internal/app/system/viewdata"
	"github.com/blackhatcommit/commithub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	DB            *mongo.Database
	Log           *zap.Logger
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	Users         *userstore.Store
	Identity      *identity.Resolver
	AuditLog      *auditlog.Logger
	GoogleEnabled bool // True if Google OAuth is configured
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	resolver *identity.Resolver,
	audit *auditlog.Logger,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		Users:         userstore.New(db),
		Identity:      resolver,
		AuditLog:      audit,
		GoogleEnabled: googleEnabled,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

type forgotFormData struct {
	viewdata.BaseVM
	Email     string
	Submitted bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	// Already signed in: skip the form.
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Sign in", "/"),
		ReturnURL:     query.Get(r, "return"),
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")
	ret := strings.TrimSpace(r.FormValue("return"))

	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your email and password.", email, ret)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
		h.renderFormWithError(w, r, "Invalid email or password.", email, ret)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB find user", err, "A server error occurred.", "/login")
		return
	}

	if u.PasswordHash == "" {
		// Google-only account; no password to check.
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, email)
		h.renderFormWithError(w, r, "This account signs in with Google.", email, ret)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, email)
		h.renderFormWithError(w, r, "Invalid email or password.", email, ret)
		return
	}

	// Run the profile through the identity resolver so the admin
	// override and permission bootstrap apply on every session.
	resolved := h.Identity.Resolve(ctx, identity.AuthIdentity{
		Email:       u.Email,
		DisplayName: u.Handle,
		PhotoURL:    u.PhotoURL,
		Method:      "internal",
	})

	h.createSessionAndRedirect(w, r, resolved, "internal", ret)
}

// createSessionAndRedirect writes the session cookie and sends the user on.
func (h *Handler) createSessionAndRedirect(w http.ResponseWriter, r *http.Request, u *models.User, authMethod, returnURL string) {
	sessionUser := &auth.SessionUser{
		ID:          u.ID.Hex(),
		Handle:      u.Handle,
		Email:       u.Email,
		Photo:       u.PhotoURL,
		IsAdmin:     u.IsAdmin,
		Permissions: u.Permissions,
	}

	if err := h.SessionMgr.SignIn(w, r, sessionUser); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("email", u.Email))
		h.renderFormWithError(w, r, "Unable to create session. Please try again.", u.Email, returnURL)
		return
	}

	h.AuditLog.LoginSuccess(r.Context(), r, u.ID, authMethod, u.Email)

	dest := urlutil.SafeReturn(returnURL, "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email, ret string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Sign in", "/"),
		Error:         msg,
		Email:         email,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /forgot-password                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeForgotPassword(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "forgot_password", forgotFormData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Forgot password", "/login"),
	})
}

// HandleForgotPasswordPost acknowledges the request without revealing
// whether the account exists. Reset delivery is handled out of band by
// an admin for now.
func (h *Handler) HandleForgotPasswordPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/forgot-password")
		return
	}

	email := normalize.Email(r.FormValue("email"))
	if email != "" {
		h.Log.Info("password reset requested", zap.String("email", email))
	}

	templates.Render(w, r, "forgot_password", forgotFormData{
		BaseVM:    viewdata.NewBaseVM(r, h.DB, "Forgot password", "/login"),
		Email:     email,
		Submitted: true,
	})
}
