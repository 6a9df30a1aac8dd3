// Package userpolicy provides the authorization decisions for account
// management.
//
// System Administrators manage accounts. One product revision let
// Registry Administrators create accounts too; that is a Config flag,
// off by default.
//
// The "cannot delete the last System Administrator" rule needs a store
// read, so it lives in the provisioning workflow, not here.
package userpolicy

import (
	"github.com/skarland/obstaclehub/internal/domain/models"
)

// Config holds the named policy switches.
type Config struct {
	// RegistryAdminsCanCreateUsers relaxes CanCreateUser from System
	// Administrators to Registry Administrators.
	RegistryAdminsCanCreateUsers bool
}

// CanManageUsers reports whether actor may list and delete accounts.
func CanManageUsers(actor models.Actor) bool {
	return actor.IsSystemAdmin()
}

// CanCreateUser reports whether actor may provision new accounts.
func CanCreateUser(cfg Config, actor models.Actor) bool {
	if actor.IsSystemAdmin() {
		return true
	}
	return cfg.RegistryAdminsCanCreateUsers && actor.IsRegistryAdmin()
}
