// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/skarland/obstaclehub/internal/app/system/timeouts"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// framework-level settings (ports, TLS, logging); AppConfig is
// everything specific to ObstacleHub.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions
	SessionDomain string        // Cookie domain (blank means current host)
	SessionTTL    time.Duration // Cookie lifetime

	// Database operation timeout overrides. Zero values keep the
	// package defaults.
	Timeouts timeouts.Config

	// Registration
	AllowSelfRegistration bool // enable POST /register for pilot self-signup

	// Access policy knobs
	PolicyLockAfterReview          bool // reporters cannot edit approved/rejected reports
	PolicyPilotOwnOnly             bool // pilots see only their own reports, not the whole organization
	PolicyRegistryAdminCreateUsers bool // registry administrators may also provision accounts

	// Default System Administrator bootstrap (created on startup when
	// no account with this email exists).
	AdminEmail        string
	AdminPassword     string
	AdminName         string
	AdminOrganization string
}
