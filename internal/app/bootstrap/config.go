// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/nyaysahayak/internal/app/system/caseid"
	"github.com/dalemusser/nyaysahayak/internal/app/system/formutil"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// MinProdSecretLen is the shortest JWT secret accepted when env is prod.
const MinProdSecretLen = 32

// appConfigKeys defines the configuration keys for Nyay Sahayak.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: NYAY_MONGO_URI, NYAY_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "nyay_sahayak", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "jwt_secret", Default: "", Desc: "HS256 secret used to verify bearer tokens (required)"},
	{Name: "case_id_prefix", Default: caseid.DefaultPrefix, Desc: "Prefix for human-readable case ids"},

	// Audit logging settings
	{Name: "audit_log_case", Default: "all", Desc: "Case/grievance event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_security", Default: "all", Desc: "Access-denied event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Request limits
	{Name: "rate_limit_per_second", Default: 10, Desc: "Mutating requests per second per client IP (0 disables)"},
	{Name: "rate_limit_burst", Default: 20, Desc: "Burst size for the per-IP rate limiter"},
	{Name: "trust_proxy_headers", Default: false, Desc: "Derive client IPs from X-Forwarded-For/X-Real-IP (only behind a trusted proxy)"},
	{Name: "max_body_bytes", Default: int(formutil.DefaultMaxBody), Desc: "Maximum JSON request body size in bytes"},

	{Name: "sentry_dsn", Default: "", Desc: "Sentry DSN for error reporting (blank disables)"},

	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document store operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list and count store operations"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, NYAY_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "NYAY", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:    appValues.String("jwt_secret"),
		CaseIDPrefix: appValues.String("case_id_prefix"),

		AuditLogCase:     appValues.String("audit_log_case"),
		AuditLogSecurity: appValues.String("audit_log_security"),

		RateLimitPerSecond: appValues.Int("rate_limit_per_second"),
		RateLimitBurst:     appValues.Int("rate_limit_burst"),
		MaxBodyBytes:       int64(appValues.Int("max_body_bytes")),
		TrustProxyHeaders:  appValues.Bool("trust_proxy_headers"),

		SentryDSN: appValues.String("sentry_dsn"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && len(appCfg.JWTSecret) < MinProdSecretLen {
		return fmt.Errorf("jwt_secret must be at least %d characters in prod", MinProdSecretLen)
	}

	if !caseid.ValidPrefix(appCfg.CaseIDPrefix) {
		return fmt.Errorf("invalid case_id_prefix %q: use upper-case letters and digits joined by hyphens", appCfg.CaseIDPrefix)
	}

	for key, v := range map[string]string{
		"audit_log_case":     appCfg.AuditLogCase,
		"audit_log_security": appCfg.AuditLogSecurity,
	} {
		switch v {
		case "", "all", "db", "log", "off":
		default:
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", key, v)
		}
	}

	if appCfg.RateLimitPerSecond < 0 || appCfg.RateLimitBurst < 0 {
		return errors.New("rate limit settings must not be negative")
	}
	if appCfg.MaxBodyBytes < 0 {
		return errors.New("max_body_bytes must not be negative")
	}

	return nil
}
