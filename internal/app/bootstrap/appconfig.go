// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig carries what is specific to hackhub: the MongoDB connection,
// the session cookie shared with the platform's sign-in service, audit
// routing, registration behavior, realtime delivery and timeouts.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key shared with the sign-in service
	SessionName   string        // Cookie name for sessions (default: hackhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Audit logging: "all" (db+log), "db", "log", or "off"
	AuditLogRegistration string
	AuditLogAdmin        string

	// RevokeRolesOnUpdate removes the participant role of members dropped by
	// a team update.
	RevokeRolesOnUpdate bool

	// Realtime event delivery
	EventBuffer      int      // Hub queue length before events are dropped
	WSAllowedOrigins []string // Origins accepted by /ws (blank means same host only)

	// Handler timeouts (zero keeps the built-in default)
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Per-user limit on state-changing API calls (0 disables)
	WriteRateLimit  int
	WriteRateWindow time.Duration

	// Proxies (IPs or CIDRs) allowed to set the client address through
	// X-Forwarded-For / X-Real-IP. Empty means RemoteAddr is always used.
	TrustedProxies []string

	// Orphaned team seat cleanup
	SeatSweepInterval time.Duration
	SeatSweepGrace    time.Duration
}
