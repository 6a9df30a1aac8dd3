// Package testutil provides in-memory fakes for the report store and
// the identity provider so engine, workflow and handler tests run
// without a database.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/skarland/obstaclehub/internal/app/lifecycle"
	"github.com/skarland/obstaclehub/internal/app/provision"
	"github.com/skarland/obstaclehub/internal/app/system/normalize"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// MemReports is an in-memory lifecycle.ReportStore.
type MemReports struct {
	mu      sync.Mutex
	reports map[string]models.ObstacleReport
}

func NewMemReports() *MemReports {
	return &MemReports{reports: make(map[string]models.ObstacleReport)}
}

func (m *MemReports) Add(ctx context.Context, r *models.ObstacleReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	m.reports[r.ID.Hex()] = *r
	return nil
}

func (m *MemReports) FindByID(ctx context.Context, id string) (*models.ObstacleReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, lifecycle.ErrNotFound
	}
	cp := r
	return &cp, nil
}

func (m *MemReports) Update(ctx context.Context, r *models.ObstacleReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[r.ID.Hex()]; !ok {
		return lifecycle.ErrNotFound
	}
	m.reports[r.ID.Hex()] = *r
	return nil
}

func (m *MemReports) Query(ctx context.Context, f lifecycle.Filter) ([]models.ObstacleReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ObstacleReport
	for _, r := range m.reports {
		r := r
		if lifecycle.Matches(&r, f) {
			out = append(out, r)
		}
	}
	lifecycle.SortReports(out, f.SortBy)
	return out, nil
}

func (m *MemReports) Organizations(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]struct{}{}
	var out []string
	for _, r := range m.reports {
		org := r.ReporterOrganization
		if org == "" {
			continue
		}
		if _, dup := seen[org]; dup {
			continue
		}
		seen[org] = struct{}{}
		out = append(out, org)
	}
	sort.Strings(out)
	return out, nil
}

// Count reports how many reports the store holds.
func (m *MemReports) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reports)
}

// MemIdentity is an in-memory identity provider implementing
// provision.Identity plus the credential surface used by the login and
// password features.
type MemIdentity struct {
	mu       sync.Mutex
	accounts map[string]models.UserAccount
	creds    map[string]string // account id -> bcrypt hash
	roles    map[string]struct{}

	// FailAddToRole, when set to a role name, makes AddToRole fail for
	// that role so rollback paths can be exercised.
	FailAddToRole string
}

func NewMemIdentity(roles ...string) *MemIdentity {
	m := &MemIdentity{
		accounts: make(map[string]models.UserAccount),
		creds:    make(map[string]string),
		roles:    make(map[string]struct{}),
	}
	for _, r := range roles {
		m.roles[r] = struct{}{}
	}
	return m
}

func (m *MemIdentity) CreateAccount(ctx context.Context, account models.UserAccount, password string) (*models.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account.Email = normalize.Email(account.Email)
	for _, existing := range m.accounts {
		if existing.Email == account.Email {
			return nil, provision.ErrDuplicateEmail
		}
	}
	if account.ID.IsZero() {
		account.ID = primitive.NewObjectID()
	}
	if account.Roles == nil {
		account.Roles = []string{}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	m.accounts[account.ID.Hex()] = account
	m.creds[account.ID.Hex()] = string(hash)
	cp := account
	return &cp, nil
}

func (m *MemIdentity) FindByID(ctx context.Context, id string) (*models.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.accounts[id]
	if !ok {
		return nil, provision.ErrUserNotFound
	}
	cp := u
	return &cp, nil
}

func (m *MemIdentity) FindByEmail(ctx context.Context, email string) (*models.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = normalize.Email(email)
	for _, u := range m.accounts {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, provision.ErrUserNotFound
}

func (m *MemIdentity) VerifyCredentials(ctx context.Context, email, password string) (*models.UserAccount, error) {
	u, err := m.FindByEmail(ctx, email)
	if err != nil {
		return nil, provision.ErrInvalidCredentials
	}
	m.mu.Lock()
	hash := m.creds[u.ID.Hex()]
	m.mu.Unlock()
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, provision.ErrInvalidCredentials
	}
	return u, nil
}

func (m *MemIdentity) ChangePassword(ctx context.Context, id, current, newPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.accounts[id]
	if !ok {
		return provision.ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(m.creds[id]), []byte(current)) != nil {
		return provision.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.MinCost)
	if err != nil {
		return err
	}
	m.creds[id] = string(hash)
	u.MustChangePassword = false
	m.accounts[id] = u
	return nil
}

func (m *MemIdentity) UsersInRole(ctx context.Context, role string) ([]models.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.UserAccount
	for _, u := range m.accounts {
		if u.HasRole(role) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *MemIdentity) IsInRole(ctx context.Context, id, role string) (bool, error) {
	u, err := m.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return u.HasRole(role), nil
}

func (m *MemIdentity) AddToRole(ctx context.Context, id, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAddToRole != "" && strings.EqualFold(m.FailAddToRole, role) {
		return errAddToRoleFailed
	}
	u, ok := m.accounts[id]
	if !ok {
		return provision.ErrUserNotFound
	}
	if !u.HasRole(role) {
		u.Roles = append(u.Roles, role)
		m.accounts[id] = u
	}
	return nil
}

func (m *MemIdentity) RemoveFromRole(ctx context.Context, id, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.accounts[id]
	if !ok {
		return provision.ErrUserNotFound
	}
	kept := u.Roles[:0]
	for _, r := range u.Roles {
		if !strings.EqualFold(r, role) {
			kept = append(kept, r)
		}
	}
	u.Roles = kept
	m.accounts[id] = u
	return nil
}

func (m *MemIdentity) RoleExists(ctx context.Context, role string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.roles[role]
	return ok, nil
}

func (m *MemIdentity) EnsureRole(ctx context.Context, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[role] = struct{}{}
	return nil
}

func (m *MemIdentity) DeleteAccount(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return provision.ErrUserNotFound
	}
	delete(m.accounts, id)
	delete(m.creds, id)
	return nil
}

func (m *MemIdentity) ListAccounts(ctx context.Context) ([]models.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.UserAccount, 0, len(m.accounts))
	for _, u := range m.accounts {
		out = append(out, u)
	}
	return out, nil
}

// Has reports whether the account id is still present.
func (m *MemIdentity) Has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.accounts[id]
	return ok
}

var errAddToRoleFailed = errString("add to role failed")

type errString string

func (e errString) Error() string { return string(e) }
