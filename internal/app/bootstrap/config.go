// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/skarland/obstaclehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ObstacleHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: OBSTACLEHUB_MONGO_URI, OBSTACLEHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "obstacle_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "obstaclehub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_ttl", Default: "24h", Desc: "Session cookie lifetime (e.g., 12h, 24h, 7d)"},

	{Name: "timeout_ping", Default: "", Desc: "Database ping timeout (blank keeps the default)"},
	{Name: "timeout_short", Default: "", Desc: "Timeout for single-document database operations (blank keeps the default)"},
	{Name: "timeout_medium", Default: "", Desc: "Timeout for multi-document database operations (blank keeps the default)"},
	{Name: "timeout_long", Default: "", Desc: "Timeout for index builds and other slow database operations (blank keeps the default)"},

	{Name: "allow_self_registration", Default: false, Desc: "Allow pilots to self-register accounts"},

	// Access policy
	{Name: "policy_lock_after_review", Default: false, Desc: "Reporters cannot edit reports once approved or rejected"},
	{Name: "policy_pilot_own_only", Default: false, Desc: "Pilots see only their own reports instead of their whole organization"},
	{Name: "policy_registry_admin_create_users", Default: false, Desc: "Registry administrators may also provision accounts"},

	// Default System Administrator bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the default System Administrator (created on startup if missing)"},
	{Name: "admin_password", Default: "", Desc: "Password for the default System Administrator"},
	{Name: "admin_name", Default: "System Administrator", Desc: "Full name for the default System Administrator"},
	{Name: "admin_organization", Default: "Registry", Desc: "Organization for the default System Administrator"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, OBSTACLEHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "OBSTACLEHUB", appConfigKeys)
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
		SessionTTL:    appValues.Duration("session_ttl", 24*time.Hour),

		Timeouts: timeouts.Config{
			Ping:   appValues.Duration("timeout_ping", 0),
			Short:  appValues.Duration("timeout_short", 0),
			Medium: appValues.Duration("timeout_medium", 0),
			Long:   appValues.Duration("timeout_long", 0),
		},

		AllowSelfRegistration: appValues.Bool("allow_self_registration"),

		PolicyLockAfterReview:          appValues.Bool("policy_lock_after_review"),
		PolicyPilotOwnOnly:             appValues.Bool("policy_pilot_own_only"),
		PolicyRegistryAdminCreateUsers: appValues.Bool("policy_registry_admin_create_users"),

		AdminEmail:        appValues.String("admin_email"),
		AdminPassword:     appValues.String("admin_password"),
		AdminName:         appValues.String("admin_name"),
		AdminOrganization: appValues.String("admin_organization"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// ObstacleHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and requires a password
// when a default administrator is configured.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.AdminEmail != "" && appCfg.AdminPassword == "" {
		return fmt.Errorf("admin_email is set but admin_password is empty")
	}

	if coreCfg.Env == "prod" && appCfg.SessionKey == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("session_key must be changed from the dev default in production")
	}

	return nil
}
