// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/skarland/obstaclehub/internal/app/provision"
	identitystore "github.com/skarland/obstaclehub/internal/app/store/identity"
	"github.com/skarland/obstaclehub/internal/app/system/timeouts"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// ObstacleHub applies configured database timeouts, seeds the role
// catalog and, when configured, ensures the default System Administrator
// account exists. The database operations are idempotent so restarts
// are safe.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(appCfg.Timeouts)

	ident := identitystore.New(deps.MongoDatabase)

	for _, role := range models.AllRoles {
		if err := ident.EnsureRole(ctx, role); err != nil {
			return fmt.Errorf("ensure role %q: %w", role, err)
		}
	}

	if appCfg.AdminEmail != "" {
		if err := ensureDefaultAdmin(ctx, ident, appCfg, logger); err != nil {
			return fmt.Errorf("default administrator: %w", err)
		}
	}

	if err := repairRolelessAccounts(ctx, ident, logger); err != nil {
		return fmt.Errorf("repair roleless accounts: %w", err)
	}

	return nil
}

// repairRolelessAccounts grants Pilot to any account that ended up with
// no roles, so every signed-in user can at least submit reports.
func repairRolelessAccounts(ctx context.Context, ident *identitystore.Store, logger *zap.Logger) error {
	accounts, err := ident.ListAccounts(ctx)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		if len(a.Roles) > 0 {
			continue
		}
		if err := ident.AddToRole(ctx, a.ID.Hex(), models.RolePilot); err != nil {
			return err
		}
		logger.Info("granted Pilot to roleless account", zap.String("email", a.Email))
	}
	return nil
}

// ensureDefaultAdmin creates the configured System Administrator account if
// it does not already exist, or promotes an existing account holding the
// same email. System Administrators always also hold Registry Administrator.
func ensureDefaultAdmin(ctx context.Context, ident *identitystore.Store, appCfg AppConfig, logger *zap.Logger) error {
	adminRoles := []string{models.RoleSystemAdmin, models.RoleRegistryAdmin}

	existing, err := ident.FindByEmail(ctx, appCfg.AdminEmail)
	if err != nil && !errors.Is(err, provision.ErrUserNotFound) {
		return err
	}

	if existing != nil {
		for _, role := range adminRoles {
			if existing.HasRole(role) {
				continue
			}
			if err := ident.AddToRole(ctx, existing.ID.Hex(), role); err != nil {
				return err
			}
			logger.Info("promoted existing account to administrator role",
				zap.String("email", existing.Email),
				zap.String("role", role))
		}
		return nil
	}

	account, err := ident.CreateAccount(ctx, models.UserAccount{
		Email:        appCfg.AdminEmail,
		FullName:     appCfg.AdminName,
		Organization: appCfg.AdminOrganization,
		Roles:        []string{},
	}, appCfg.AdminPassword)
	if err != nil {
		return err
	}

	for _, role := range adminRoles {
		if err := ident.AddToRole(ctx, account.ID.Hex(), role); err != nil {
			return err
		}
	}

	logger.Info("created default System Administrator",
		zap.String("email", account.Email))
	return nil
}
