// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/hackhub/internal/app/system/events"
	"github.com/dalemusser/hackhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for hackhub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: HACKHUB_MONGO_URI, HACKHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "hackhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key shared with the sign-in service"},
	{Name: "session_name", Default: "hackhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (e.g., 24h, 720h)"},

	// Audit logging settings
	{Name: "audit_log_registration", Default: "all", Desc: "Team and idea event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Hackathon and role event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Registration behavior
	{Name: "revoke_roles_on_update", Default: false, Desc: "Remove participant roles of members dropped by a team update"},

	// Realtime
	{Name: "event_buffer", Default: events.DefaultBuffer, Desc: "Realtime hub queue length before events are dropped"},
	{Name: "ws_allowed_origins", Default: "", Desc: "Comma-separated origins allowed to open /ws (blank means same host)"},

	// Timeouts
	{Name: "timeout_ping", Default: "2s", Desc: "Health check timeout"},
	{Name: "timeout_short", Default: "5s", Desc: "Single-document read timeout"},
	{Name: "timeout_medium", Default: "10s", Desc: "List and single-collection write timeout"},
	{Name: "timeout_long", Default: "30s", Desc: "Registration write timeout"},

	// Write rate limiting
	{Name: "write_rate_limit", Default: 30, Desc: "State-changing API calls allowed per user per window (0 disables)"},
	{Name: "write_rate_window", Default: "1m", Desc: "Window for write_rate_limit"},
	{Name: "trusted_proxies", Default: "", Desc: "Comma-separated proxy IPs or CIDRs whose X-Forwarded-For / X-Real-IP are believed (blank trusts none)"},

	// Orphaned seat cleanup
	{Name: "seat_sweep_interval", Default: "5m", Desc: "How often orphaned team seats are swept"},
	{Name: "seat_sweep_grace", Default: "1m", Desc: "Minimum seat age before it can be swept"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, HACKHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "HACKHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 720*time.Hour),

		AuditLogRegistration: normalizeAuditMode(appValues.String("audit_log_registration")),
		AuditLogAdmin:        normalizeAuditMode(appValues.String("audit_log_admin")),

		RevokeRolesOnUpdate: appValues.Bool("revoke_roles_on_update"),

		EventBuffer:      appValues.Int("event_buffer"),
		WSAllowedOrigins: splitList(appValues.String("ws_allowed_origins")),

		TimeoutPing:   appValues.Duration("timeout_ping", 0),
		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),

		WriteRateLimit:  appValues.Int("write_rate_limit"),
		WriteRateWindow: appValues.Duration("write_rate_window", time.Minute),
		TrustedProxies:  splitList(appValues.String("trusted_proxies")),

		SeatSweepInterval: appValues.Duration("seat_sweep_interval", 5*time.Minute),
		SeatSweepGrace:    appValues.Duration("seat_sweep_grace", time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI is checked here to catch configuration errors early,
// before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoMaxPoolSize == 0 || appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo pool sizes must satisfy 0 <= min <= max and max > 0 (got min=%d max=%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	if len(appCfg.SessionKey) < 32 {
		if coreCfg != nil && coreCfg.Env == "prod" {
			return fmt.Errorf("session_key must be at least 32 characters in production")
		}
		logger.Warn("session_key is short; 32+ chars recommended", zap.Int("length", len(appCfg.SessionKey)))
	}
	if appCfg.SessionMaxAge <= 0 {
		return fmt.Errorf("session_max_age must be positive")
	}

	for name, mode := range map[string]string{
		"audit_log_registration": appCfg.AuditLogRegistration,
		"audit_log_admin":        appCfg.AuditLogAdmin,
	} {
		switch mode {
		case "all", "db", "log", "off":
		default:
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", name, mode)
		}
	}

	if appCfg.EventBuffer <= 0 {
		return fmt.Errorf("event_buffer must be positive")
	}
	if appCfg.WriteRateLimit < 0 {
		return fmt.Errorf("write_rate_limit must not be negative")
	}
	if appCfg.WriteRateLimit > 0 && appCfg.WriteRateWindow <= 0 {
		return fmt.Errorf("write_rate_window must be positive when write_rate_limit is set")
	}
	if _, err := ratelimit.ParseProxies(appCfg.TrustedProxies); err != nil {
		return fmt.Errorf("trusted_proxies: %w", err)
	}
	if appCfg.SeatSweepInterval <= 0 {
		return fmt.Errorf("seat_sweep_interval must be positive")
	}
	if appCfg.SeatSweepGrace < 0 {
		return fmt.Errorf("seat_sweep_grace must not be negative")
	}

	return nil
}

func normalizeAuditMode(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
