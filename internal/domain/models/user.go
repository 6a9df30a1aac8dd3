// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role names. A user may hold several; System Administrators always also
// hold Registry Administrator.
const (
	RolePilot         = "Pilot"
	RoleRegistryAdmin = "Registry Administrator"
	RoleSystemAdmin   = "System Administrator"
)

// AllRoles lists every role the system knows about, in seed order.
var AllRoles = []string{RolePilot, RoleRegistryAdmin, RoleSystemAdmin}

// UserAccount represents an account held by the identity store.
type UserAccount struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	FullName     string             `bson:"full_name" json:"full_name"`
	Organization string             `bson:"organization" json:"organization"`

	PasswordHash       string   `bson:"password_hash" json:"-"`
	MustChangePassword bool     `bson:"must_change_password" json:"must_change_password"`
	Roles              []string `bson:"roles" json:"roles"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasRole reports whether the account holds the named role.
func (u *UserAccount) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Actor identifies the authenticated caller of a core operation.
type Actor struct {
	ID           string
	Name         string
	Organization string
	Roles        []string
}

// HasRole reports whether the actor holds the named role.
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsRegistryAdmin reports whether the actor can review reports.
func (a Actor) IsRegistryAdmin() bool { return a.HasRole(RoleRegistryAdmin) }

// IsSystemAdmin reports whether the actor can manage accounts.
func (a Actor) IsSystemAdmin() bool { return a.HasRole(RoleSystemAdmin) }

// ActorFor builds the Actor snapshot for a user account.
func ActorFor(u *UserAccount) Actor {
	return Actor{
		ID:           u.ID.Hex(),
		Name:         u.FullName,
		Organization: u.Organization,
		Roles:        append([]string(nil), u.Roles...),
	}
}
