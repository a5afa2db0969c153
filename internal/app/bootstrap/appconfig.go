// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (FLICAPP_*), configuration
// files, or command-line flags, loaded in LoadConfig. WAFFLE's CoreConfig
// covers the framework-level settings (ports, TLS, logging, timeouts).
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // e.g. mongodb://localhost:27017
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64
	MongoTimeout     time.Duration // connect and ping timeout

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name (default: flicapp-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Admin account ensured at startup. Ignored when AdminEmail is blank.
	AdminEmail    string
	AdminPassword string

	// Audit logging: "all", "db", "log" or "off".
	AuditLogAuth  string
	AuditLogAdmin string

	// TablePageSize is the number of rows per page in the list tables.
	TablePageSize int
}
