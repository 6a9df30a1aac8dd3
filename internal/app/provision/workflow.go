// Package provision implements account management: atomic user creation
// with role assignment and rollback, and guarded deletion.
//
// Creation is the one multi-step write in the system. If any role in the
// target set does not exist, or a role assignment fails, the freshly
// created account is deleted again so the identity store never holds a
// half-provisioned user.
package provision

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/skarland/obstaclehub/internal/app/policy/userpolicy"
	"github.com/skarland/obstaclehub/internal/app/system/inputval"
	"github.com/skarland/obstaclehub/internal/app/system/normalize"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"go.uber.org/zap"
)

// Identity is the identity-provider surface the workflow needs.
// Implementations return ErrUserNotFound and ErrDuplicateEmail for those
// conditions.
type Identity interface {
	CreateAccount(ctx context.Context, account models.UserAccount, password string) (*models.UserAccount, error)
	FindByID(ctx context.Context, id string) (*models.UserAccount, error)
	UsersInRole(ctx context.Context, role string) ([]models.UserAccount, error)
	IsInRole(ctx context.Context, id, role string) (bool, error)
	AddToRole(ctx context.Context, id, role string) error
	RoleExists(ctx context.Context, role string) (bool, error)
	DeleteAccount(ctx context.Context, id string) error
	ListAccounts(ctx context.Context) ([]models.UserAccount, error)
}

// Workflow provisions and deletes accounts.
type Workflow struct {
	identity Identity
	policy   userpolicy.Config
	log      *zap.Logger
}

// NewWorkflow constructs a Workflow.
func NewWorkflow(identity Identity, policy userpolicy.Config, logger *zap.Logger) *Workflow {
	return &Workflow{identity: identity, policy: policy, log: logger}
}

// Profile is the provisioning input for a new account.
type Profile struct {
	Email        string
	FullName     string
	Organization string
}

type profileInput struct {
	Email        string `validate:"required,email,max=254" label:"Email"`
	FullName     string `validate:"required,max=200" label:"Full name"`
	Organization string `validate:"required,max=200" label:"Organization"`
}

// CreatedUser is the successful provisioning result. TempPassword is the
// plaintext one-time password; it is shown once and never persisted.
type CreatedUser struct {
	Account      models.UserAccount
	TempPassword string
}

// CreateUser provisions a new account with a temporary password and the
// resolved role set. "System Administrator" implies Registry
// Administrator; an empty role defaults to Pilot. Every role is checked
// for existence before any assignment; failures after account creation
// roll the account back.
func (w *Workflow) CreateUser(ctx context.Context, actor models.Actor, profile Profile, role string) (*CreatedUser, error) {
	if !userpolicy.CanCreateUser(w.policy, actor) {
		return nil, ErrForbidden
	}

	profile.Email = normalize.Email(profile.Email)
	profile.FullName = normalize.Name(profile.FullName)
	profile.Organization = normalize.Organization(profile.Organization)
	role = normalize.Role(role)

	if res := inputval.Validate(profileInput{
		Email:        profile.Email,
		FullName:     profile.FullName,
		Organization: profile.Organization,
	}); res.HasErrors() {
		return nil, res.Err()
	}

	rolesToAdd := resolveRoles(role)
	tempPassword := newTempPassword()

	account, err := w.identity.CreateAccount(ctx, models.UserAccount{
		Email:              profile.Email,
		FullName:           profile.FullName,
		Organization:       profile.Organization,
		MustChangePassword: true,
	}, tempPassword)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			var res inputval.Result
			res.Add("Email", "A user with this email already exists.")
			return nil, res.Err()
		}
		return nil, err
	}

	// Verify the whole role set before assigning anything, so a bad
	// role never leaves a partially provisioned account behind.
	for _, r := range rolesToAdd {
		exists, err := w.identity.RoleExists(ctx, r)
		if err == nil && exists {
			continue
		}
		w.rollback(ctx, account.ID.Hex())
		if err != nil {
			return nil, err
		}
		return nil, &RoleNotFoundError{Role: r}
	}

	for _, r := range rolesToAdd {
		if err := w.identity.AddToRole(ctx, account.ID.Hex(), r); err != nil {
			w.rollback(ctx, account.ID.Hex())
			return nil, err
		}
	}

	account.Roles = rolesToAdd
	w.log.Info("user provisioned",
		zap.String("user_id", account.ID.Hex()),
		zap.String("created_by", actor.ID),
		zap.Strings("roles", rolesToAdd))
	return &CreatedUser{Account: *account, TempPassword: tempPassword}, nil
}

// DeleteUser removes an account. Self-deletion and deleting the last
// System Administrator are refused; the account stays intact.
func (w *Workflow) DeleteUser(ctx context.Context, actor models.Actor, targetID string) error {
	if !userpolicy.CanManageUsers(actor) {
		return ErrForbidden
	}

	target, err := w.identity.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.ID.Hex() == actor.ID {
		return ErrSelfDelete
	}

	isAdmin, err := w.identity.IsInRole(ctx, targetID, models.RoleSystemAdmin)
	if err != nil {
		return err
	}
	if isAdmin {
		admins, err := w.identity.UsersInRole(ctx, models.RoleSystemAdmin)
		if err != nil {
			return err
		}
		if len(admins) <= 1 {
			return ErrLastAdmin
		}
	}

	if err := w.identity.DeleteAccount(ctx, targetID); err != nil {
		return err
	}
	w.log.Info("user deleted",
		zap.String("user_id", targetID),
		zap.String("deleted_by", actor.ID))
	return nil
}

// ListUsers returns every account ordered by email.
func (w *Workflow) ListUsers(ctx context.Context, actor models.Actor) ([]models.UserAccount, error) {
	if !userpolicy.CanManageUsers(actor) {
		return nil, ErrForbidden
	}
	users, err := w.identity.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

// resolveRoles expands the requested role into the roles to grant.
func resolveRoles(role string) []string {
	switch role {
	case "":
		return []string{models.RolePilot}
	case models.RoleSystemAdmin:
		return []string{models.RoleSystemAdmin, models.RoleRegistryAdmin}
	default:
		return []string{role}
	}
}

// newTempPassword generates a one-time password satisfying the policy
// (min length 6, at least one digit).
func newTempPassword() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "Temp1!" + hex[:8]
}

func (w *Workflow) rollback(ctx context.Context, id string) {
	if err := w.identity.DeleteAccount(ctx, id); err != nil {
		w.log.Error("provisioning rollback failed, account may be orphaned",
			zap.String("user_id", id),
			zap.Error(err))
	}
}
