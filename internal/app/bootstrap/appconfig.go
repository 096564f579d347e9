// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration (ports, TLS, log level).
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer token verification
	JWTSecret string // HS256 secret shared with the identity service

	// Case ids are PREFIX-YYYY-NNNNN
	CaseIDPrefix string

	// Audit logging: "all", "db", "log", or "off"
	AuditLogCase     string
	AuditLogSecurity string

	// Per-IP limit on mutating API requests; 0 disables
	RateLimitPerSecond int
	RateLimitBurst     int

	MaxBodyBytes int64

	// Take client IPs from X-Forwarded-For / X-Real-IP. Enable only behind
	// a proxy that overwrites those headers.
	TrustProxyHeaders bool

	// Error reporting; blank disables Sentry
	SentryDSN string

	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
}
