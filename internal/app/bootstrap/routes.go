// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	auditlogfeature "github.com/dalemusser/hackhub/internal/app/features/auditlog"
	errorsfeature "github.com/dalemusser/hackhub/internal/app/features/errors"
	hackathonsfeature "github.com/dalemusser/hackhub/internal/app/features/hackathons"
	healthfeature "github.com/dalemusser/hackhub/internal/app/features/health"
	ideasfeature "github.com/dalemusser/hackhub/internal/app/features/ideas"
	realtimefeature "github.com/dalemusser/hackhub/internal/app/features/realtime"
	rolesfeature "github.com/dalemusser/hackhub/internal/app/features/roles"
	teamsfeature "github.com/dalemusser/hackhub/internal/app/features/teams"
	userinfofeature "github.com/dalemusser/hackhub/internal/app/features/userinfo"
	"github.com/dalemusser/hackhub/internal/app/registration"
	"github.com/dalemusser/hackhub/internal/app/store/audit"
	userstore "github.com/dalemusser/hackhub/internal/app/store/users"
	"github.com/dalemusser/hackhub/internal/app/system/auditlog"
	"github.com/dalemusser/hackhub/internal/app/system/auth"
	"github.com/dalemusser/hackhub/internal/app/system/events"
	"github.com/dalemusser/hackhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
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
// hackhub applies session middleware globally and mounts the JSON API under
// /api, the websocket endpoint at /ws and the health check at /health.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg != nil && coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request so role changes and disabled accounts
	// take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLogger := auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Registration: appCfg.AuditLogRegistration,
		Admin:        appCfg.AuditLogAdmin,
	})

	// The hub is the event sink; without one (tests) events are discarded.
	var sink events.Sink = events.Nop{}
	if deps.Hub != nil {
		sink = deps.Hub
	}
	regSvc := registration.New(deps.MongoDatabase, sink, logger, registration.Options{
		RevokeRolesOnUpdate: appCfg.RevokeRolesOnUpdate,
	})

	proxies, err := ratelimit.ParseProxies(appCfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	// Resolve the client address first; forwarding headers count only from
	// trusted proxies.
	r.Use(proxies.RealIP)

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	var subs healthfeature.SubscriberCounter
	if deps.Hub != nil {
		subs = deps.Hub
	}
	healthHandler := healthfeature.NewHandler(deps.MongoClient, subs, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Realtime team events
	if deps.Hub != nil {
		rtHandler := realtimefeature.NewHandler(deps.Hub, appCfg.WSAllowedOrigins, errLog, logger)
		r.Mount("/ws", realtimefeature.Routes(rtHandler, sessionMgr))
	}

	userinfofeature.MountRoutes(r, userinfofeature.NewHandler())

	r.Route("/api", func(api chi.Router) {
		if appCfg.WriteRateLimit > 0 {
			api.Use(ratelimit.New(appCfg.WriteRateLimit, appCfg.WriteRateWindow).Writes)
		}

		teamsHandler := teamsfeature.NewHandler(regSvc, auditLogger, errLog, logger)
		api.Mount("/teams", teamsfeature.Routes(teamsHandler, sessionMgr))

		hackathonsHandler := hackathonsfeature.NewHandler(deps.MongoDatabase, auditLogger, errLog, logger)
		api.Mount("/hackathons", hackathonsfeature.Routes(hackathonsHandler, sessionMgr))

		ideasHandler := ideasfeature.NewHandler(deps.MongoDatabase, auditLogger, errLog, logger)
		api.Mount("/ideas", ideasfeature.Routes(ideasHandler, sessionMgr))

		rolesHandler := rolesfeature.NewHandler(deps.MongoDatabase, auditLogger, errLog, logger)
		api.Mount("/hackathon-roles", rolesfeature.Routes(rolesHandler, sessionMgr))

		auditHandler := auditlogfeature.NewHandler(deps.MongoDatabase, errLog, logger)
		api.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))
	})

	return r, nil
}
