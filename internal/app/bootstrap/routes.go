// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	adminusersfeature "github.com/skarland/obstaclehub/internal/app/features/adminusers"
	errorsfeature "github.com/skarland/obstaclehub/internal/app/features/errors"
	healthfeature "github.com/skarland/obstaclehub/internal/app/features/health"
	loginfeature "github.com/skarland/obstaclehub/internal/app/features/login"
	passwordfeature "github.com/skarland/obstaclehub/internal/app/features/password"
	reportsfeature "github.com/skarland/obstaclehub/internal/app/features/reports"
	reviewfeature "github.com/skarland/obstaclehub/internal/app/features/review"
	"github.com/skarland/obstaclehub/internal/app/lifecycle"
	"github.com/skarland/obstaclehub/internal/app/policy/reportpolicy"
	"github.com/skarland/obstaclehub/internal/app/policy/userpolicy"
	"github.com/skarland/obstaclehub/internal/app/provision"
	categorystore "github.com/skarland/obstaclehub/internal/app/store/categories"
	identitystore "github.com/skarland/obstaclehub/internal/app/store/identity"
	reportstore "github.com/skarland/obstaclehub/internal/app/store/reports"
	"github.com/skarland/obstaclehub/internal/app/system/auth"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// ObstacleHub builds the session manager, the lifecycle engine, and the
// provisioning workflow, then mounts the feature routers: health, login,
// password, reports, review, and admin user management.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Stores
	reports := reportstore.New(deps.MongoDatabase)
	identity := identitystore.New(deps.MongoDatabase)
	categoryStore := categorystore.New(deps.MongoDatabase)

	// Core workflows
	engine := lifecycle.NewEngine(reports, identity, reportpolicy.Config{
		LockAfterReview:  appCfg.PolicyLockAfterReview,
		PilotSeesOwnOnly: appCfg.PolicyPilotOwnOnly,
	}, logger)

	workflow := provision.NewWorkflow(identity, userpolicy.Config{
		RegistryAdminsCanCreateUsers: appCfg.PolicyRegistryAdminCreateUsers,
	}, logger)

	errs := errorsfeature.NewResponder(logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication and account session endpoints
	loginHandler := loginfeature.NewHandler(identity, sessionMgr, errs, appCfg.AllowSelfRegistration, logger)
	r.Mount("/", loginfeature.Routes(loginHandler))

	passwordHandler := passwordfeature.NewHandler(identity, sessionMgr, errs, logger)
	r.Mount("/password", passwordfeature.Routes(passwordHandler, sessionMgr))

	// Error pages
	r.Get("/forbidden", errorsfeature.Forbidden)

	// Pilot report log
	reportsHandler := reportsfeature.NewHandler(engine, categoryStore, errs, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler, sessionMgr))

	// Registry Administrator review dashboard and map feed
	reviewHandler := reviewfeature.NewHandler(engine, categoryStore, errs, logger)
	r.Mount("/review", reviewfeature.Routes(reviewHandler, sessionMgr))

	// System Administrator account provisioning
	adminUsersHandler := adminusersfeature.NewHandler(workflow, errs, logger)
	r.Mount("/admin/users", adminusersfeature.Routes(adminUsersHandler, sessionMgr))

	return r, nil
}
