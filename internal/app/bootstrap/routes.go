// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	adminfeature "github.com/blackhatcommit/commithub/internal/app/features/admin"
	authgooglefeature "github.com/blackhatcommit/commithub/internal/app/features/authgoogle"
	callsfeature "github.com/blackhatcommit/commithub/internal/app/features/calls"
	communityfeature "github.com/blackhatcommit/commithub/internal/app/features/community"
	dashboardfeature "github.com/blackhatcommit/commithub/internal/app/features/dashboard"
	errorsfeature "github.com/blackhatcommit/commithub/internal/app/features/errors"
	filesfeature "github.com/blackhatcommit/commithub/internal/app/features/files"
	healthfeature "github.com/blackhatcommit/commithub/internal/app/features/health"
	homefeature "github.com/blackhatcommit/commithub/internal/app/features/home"
	loginfeature "github.com/blackhatcommit/commithub/internal/app/features/login"
	logoutfeature "github.com/blackhatcommit/commithub/internal/app/features/logout"
	messagesfeature "github.com/blackhatcommit/commithub/internal/app/features/messages"
	notificationsfeature "github.com/blackhatcommit/commithub/internal/app/features/notifications"
	plannerfeature "github.com/blackhatcommit/commithub/internal/app/features/planner"
	profilefeature "github.com/blackhatcommit/commithub/internal/app/features/profile"
	storiesfeature "github.com/blackhatcommit/commithub/internal/app/features/stories"
	teamprogressfeature "github.com/blackhatcommit/commithub/internal/app/features/teamprogress"
	"github.com/blackhatcommit/commithub/internal/app/store/audit"
	"github.com/blackhatcommit/commithub/internal/app/store/oauthstate"
	userstore "github.com/blackhatcommit/commithub/internal/app/store/users"
	"github.com/blackhatcommit/commithub/internal/app/system/auditlog"
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/blackhatcommit/commithub/internal/app/system/identity"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connection, schema setup,
// and Startup have completed. It creates the session manager, boots the
// template engine, and mounts every feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser refetches the profile on each request so permission
	// edits, admin changes, and deletions take effect immediately.
	sessionMgr.SetUserFetcher(userstore.New(db))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	resolver := identity.New(userstore.New(db), appCfg.AdminEmail, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Locally stored uploads are served straight off disk. S3 objects are
	// addressed by their own URLs, so no route is needed for them.
	if appCfg.StorageType == "local" {
		prefix := appCfg.StorageLocalURL
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/",
			http.FileServer(http.Dir(appCfg.StorageLocalPath))))
	}

	// Push token registration is a JSON API for native clients; it
	// authenticates by session cookie but is exempt from the form CSRF
	// wrapper below.
	notificationsHandler := notificationsfeature.NewHandler(db, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler))

	// Everything else is server-rendered forms behind CSRF protection.
	csrfProtect := csrf.Protect([]byte(appCfg.SessionKey), csrf.Secure(secure), csrf.Path("/"))
	r.Group(func(pr chi.Router) {
		pr.Use(csrfProtect)

		// Public pages
		homeHandler := homefeature.NewHandler(db, logger)
		pr.Mount("/", homefeature.Routes(homeHandler))

		// Authentication
		googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""
		loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, resolver, auditLogger, googleEnabled, logger)
		pr.Mount("/login", loginfeature.Routes(loginHandler))
		pr.Mount("/forgot-password", loginfeature.ForgotPasswordRoutes(loginHandler))

		googleHandler := authgooglefeature.NewHandler(db, sessionMgr, errLog, auditLogger, resolver,
			oauthstate.New(db), appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
		pr.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLogger, logger)
		pr.Mount("/logout", logoutfeature.Routes(logoutHandler))

		// Error pages
		errorsHandler := errorsfeature.NewHandler()
		pr.Get("/forbidden", errorsHandler.Forbidden)
		pr.Get("/unauthorized", errorsHandler.Unauthorized)

		// Signed-in areas
		dashboardHandler := dashboardfeature.NewHandler(db, errLog, logger)
		pr.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

		messagesHandler := messagesfeature.NewHandler(db, errLog, logger)
		pr.Mount("/messages", messagesfeature.Routes(messagesHandler))

		plannerHandler := plannerfeature.NewHandler(db, errLog, logger)
		pr.Mount("/planner", plannerfeature.Routes(plannerHandler))

		storiesHandler := storiesfeature.NewHandler(db, errLog, fileStorage, logger)
		pr.Mount("/stories", storiesfeature.Routes(storiesHandler))

		communityHandler := communityfeature.NewHandler(db, errLog, fileStorage, logger)
		pr.Mount("/community", communityfeature.Routes(communityHandler))

		filesHandler := filesfeature.NewHandler(db, errLog, fileStorage, logger)
		pr.Mount("/files", filesfeature.Routes(filesHandler))

		teamProgressHandler := teamprogressfeature.NewHandler(db, errLog, logger)
		pr.Mount("/team-progress", teamprogressfeature.Routes(teamProgressHandler))

		callsHandler := callsfeature.NewHandler(db, errLog, logger)
		pr.Mount("/calls", callsfeature.Routes(callsHandler))

		profileHandler := profilefeature.NewHandler(db, errLog, fileStorage, auditLogger, logger)
		pr.Mount("/profile", profilefeature.Routes(profileHandler))

		// Admin console
		adminHandler := adminfeature.NewHandler(db, errLog, fileStorage, auditLogger, logger)
		pr.Mount("/admin", adminfeature.Routes(adminHandler))
	})

	return r, nil
}
