// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	auditlogfeature "github.com/dalemusser/nyaysahayak/internal/app/features/auditlog"
	casesfeature "github.com/dalemusser/nyaysahayak/internal/app/features/cases"
	dashboardfeature "github.com/dalemusser/nyaysahayak/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/nyaysahayak/internal/app/features/errors"
	grievancesfeature "github.com/dalemusser/nyaysahayak/internal/app/features/grievances"
	healthfeature "github.com/dalemusser/nyaysahayak/internal/app/features/health"
	homefeature "github.com/dalemusser/nyaysahayak/internal/app/features/home"
	"github.com/dalemusser/nyaysahayak/internal/app/services/caseflow"
	"github.com/dalemusser/nyaysahayak/internal/app/services/grievanceflow"
	"github.com/dalemusser/nyaysahayak/internal/app/store/audit"
	casestore "github.com/dalemusser/nyaysahayak/internal/app/store/cases"
	grievancestore "github.com/dalemusser/nyaysahayak/internal/app/store/grievances"
	userstore "github.com/dalemusser/nyaysahayak/internal/app/store/users"
	"github.com/dalemusser/nyaysahayak/internal/app/system/auditlog"
	"github.com/dalemusser/nyaysahayak/internal/app/system/auth"
	"github.com/dalemusser/nyaysahayak/internal/app/system/caseid"
	"github.com/dalemusser/nyaysahayak/internal/app/system/metrics"
	"github.com/dalemusser/nyaysahayak/internal/app/system/ratelimit"
	"github.com/dalemusser/nyaysahayak/internal/app/system/reqlog"
	"github.com/dalemusser/waffle/config"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed.
//
// Middleware order, outermost first: proxy client IP (only when
// trust_proxy_headers is set), request logging, panic recovery, Sentry hub,
// route metrics, audit request metadata, bearer token loading.
// Mutating API routes are additionally rate limited per client IP.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.NyayMongoDatabase

	tokens, err := auth.NewTokenManager(appCfg.JWTSecret, auth.DefaultTokenTTL, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	ids, err := caseid.New(appCfg.CaseIDPrefix)
	if err != nil {
		return nil, err
	}

	auditStore := audit.New(db)
	auditLog := auditlog.New(auditStore, logger, auditlog.Config{
		Case:     appCfg.AuditLogCase,
		Security: appCfg.AuditLogSecurity,
	})
	m := metrics.New()
	limiter := ratelimit.New(float64(appCfg.RateLimitPerSecond), appCfg.RateLimitBurst)

	cases := casestore.New(db)
	users := userstore.New(db)

	caseSvc := caseflow.New(caseflow.Deps{
		Cases:   cases,
		Users:   users,
		IDs:     ids,
		Audit:   auditLog,
		Metrics: m,
		Log:     logger,
	})
	grievanceSvc := grievanceflow.New(grievanceflow.Deps{
		Grievances: grievancestore.New(db),
		Cases:      cases,
		Users:      users,
		Audit:      auditLog,
		Metrics:    m,
		Log:        logger,
	})

	r := chi.NewRouter()

	if appCfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(reqlog.Middleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	r.Use(m.Instrument)
	r.Use(auditlog.Middleware)
	r.Use(tokens.LoadIdentity)

	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.NyayMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Method(http.MethodGet, "/metrics", m.Handler())

	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	limit := limiter.Middleware(logger)

	r.Route("/api", func(api chi.Router) {
		casesHandler := casesfeature.NewHandler(caseSvc, appCfg.MaxBodyBytes, logger)
		api.Mount("/cases", casesfeature.Routes(casesHandler, limit))

		grievancesHandler := grievancesfeature.NewHandler(grievanceSvc, appCfg.MaxBodyBytes, logger)
		api.Mount("/grievances", grievancesfeature.Routes(grievancesHandler, limit))

		dashboardHandler := dashboardfeature.NewHandler(db, auditLog, logger)
		api.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

		auditHandler := auditlogfeature.NewHandler(auditStore, cases, auditLog, logger)
		api.Mount("/audit", auditlogfeature.Routes(auditHandler))
	})

	return r, nil
}
