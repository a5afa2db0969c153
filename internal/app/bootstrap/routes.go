// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	appointmentsfeature "github.com/flicapp/flicapp/internal/app/features/appointments"
	dashboardfeature "github.com/flicapp/flicapp/internal/app/features/dashboard"
	errorsfeature "github.com/flicapp/flicapp/internal/app/features/errors"
	healthfeature "github.com/flicapp/flicapp/internal/app/features/health"
	homefeature "github.com/flicapp/flicapp/internal/app/features/home"
	loginfeature "github.com/flicapp/flicapp/internal/app/features/login"
	logoutfeature "github.com/flicapp/flicapp/internal/app/features/logout"
	profilefeature "github.com/flicapp/flicapp/internal/app/features/profile"
	providerrequestsfeature "github.com/flicapp/flicapp/internal/app/features/providerrequests"
	usersfeature "github.com/flicapp/flicapp/internal/app/features/users"
	"github.com/flicapp/flicapp/internal/app/store/audit"
	userstore "github.com/flicapp/flicapp/internal/app/store/users"
	"github.com/flicapp/flicapp/internal/app/system/auditlog"
	"github.com/flicapp/flicapp/internal/app/system/auth"
	"github.com/flicapp/flicapp/internal/app/system/metrics"
	"github.com/flicapp/flicapp/internal/app/system/tablestate"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. FlicApp boots the template engine,
// applies session and CSRF middleware, and mounts the feature routers:
// the public pages, sign-in, the role dashboards, the three list tables
// (users, provider requests, appointments) and the profile page.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request, so role changes and disabled
	// accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	tables := tablestate.NewManager(db, logger)
	errorsHandler := errorsfeature.NewHandler()

	csrfMW := csrf.Protect(
		[]byte(appCfg.SessionKey),
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(errorsHandler.Forbidden)),
	)

	r := chi.NewRouter()
	// Set before mounting so feature routers inherit it.
	r.NotFound(errorsHandler.NotFound)

	// Unauthenticated infrastructure endpoints sit outside the CSRF and
	// session middleware.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler())
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(r chi.Router) {
		if !secure {
			// Local development runs over plain HTTP, where the CSRF
			// middleware would otherwise insist on a TLS Referer.
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					next.ServeHTTP(w, csrf.PlaintextHTTPRequest(req))
				})
			})
		}
		r.Use(csrfMW)
		r.Use(sessionMgr.LoadSessionUser)

		// Public pages
		homeHandler := homefeature.NewHandler(logger)
		r.Mount("/", homefeature.Routes(homeHandler))

		// Authentication
		loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, auditLog, logger)
		r.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, tables, logger)
		r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		// Error pages
		r.Get("/forbidden", errorsHandler.Forbidden)
		r.Get("/unauthorized", errorsHandler.Unauthorized)

		// Role-based dashboards
		dashboardHandler := dashboardfeature.NewHandler(db, logger)
		r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

		// List tables
		usersHandler := usersfeature.NewHandler(db, errLog, auditLog, tables, appCfg.TablePageSize, logger)
		r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

		requestsHandler := providerrequestsfeature.NewHandler(db, errLog, auditLog, tables, appCfg.TablePageSize, logger)
		r.Mount("/provider-requests", providerrequestsfeature.Routes(requestsHandler, sessionMgr))

		appointmentsHandler := appointmentsfeature.NewHandler(db, errLog, auditLog, tables, appCfg.TablePageSize, logger)
		r.Mount("/appointments", appointmentsfeature.Routes(appointmentsHandler, sessionMgr))

		// Account
		profileHandler := profilefeature.NewHandler(db, errLog, auditLog, logger)
		r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))
	})

	return r, nil
}
