package store

import (
	"context"
	"errors"

	"github.com/openferp/directory/internal/directory/domain"
)

var (
	ErrNotFound = errors.New("store: not found")
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface. Sub-repositories are reached
// through methods so that a Tx can hand out the same repos bound to the
// transaction, and nobody opens a transaction inside another one.
//
// Every tenant-owned lookup takes the caller's enterprise id and filters on
// it; rows of other enterprises are indistinguishable from missing rows.
type Store interface {
	Enterprises() Enterprises
	Roles() Roles
	Scopes() Scopes
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn as a unit of work: committed when fn returns nil,
	// rolled back otherwise (including on panic).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Reset deletes every row. Only used in the test environment.
	Reset(ctx context.Context) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Queries is the read/write surface shared by Store and Tx. Helpers that
// must work both inside and outside a transaction accept it.
type Queries interface {
	Enterprises() Enterprises
	Roles() Roles
	Scopes() Scopes
	Users() Users
}

type Enterprises interface {
	CreateEnterprise(ctx context.Context, e domain.Enterprise) error
	GetEnterprise(ctx context.Context, id string) (domain.Enterprise, error)
	UpdateEnterprise(ctx context.Context, e domain.Enterprise) error

	// DeleteEnterprise removes the enterprise row only. Owned rows must be
	// deleted first; the schema refuses to orphan them.
	DeleteEnterprise(ctx context.Context, id string) error

	// Hierarchy joins the enterprise with its scopes and roles, optionally
	// narrowed by role/scope ids or names.
	Hierarchy(ctx context.Context, enterpriseID string, f HierarchyFilter) ([]domain.HierarchyRow, error)
}

type HierarchyFilter struct {
	RoleIDs    []string
	RoleNames  []string
	ScopeIDs   []string
	ScopeNames []string
}

type Roles interface {
	CreateRole(ctx context.Context, r domain.Role) error
	GetRole(ctx context.Context, enterpriseID, id string) (domain.Role, error)
	GetRoleByName(ctx context.Context, enterpriseID, name string) (domain.Role, error)
	ListRoles(ctx context.Context, enterpriseID string) ([]domain.Role, error)
	ListRolesByIDs(ctx context.Context, enterpriseID string, ids []string) ([]domain.Role, error)
	ListRolesByNames(ctx context.Context, enterpriseID string, names []string) ([]domain.Role, error)
	DeleteRolesByEnterprise(ctx context.Context, enterpriseID string) (int64, error)
}

type Scopes interface {
	CreateScope(ctx context.Context, s domain.Scope) error
	GetScope(ctx context.Context, enterpriseID, id string) (domain.Scope, error)
	GetScopeByName(ctx context.Context, enterpriseID, name string) (domain.Scope, error)
	ListScopes(ctx context.Context, enterpriseID string) ([]domain.Scope, error)
	ListScopesByIDs(ctx context.Context, enterpriseID string, ids []string) ([]domain.Scope, error)
	ListScopesByNames(ctx context.Context, enterpriseID string, names []string) ([]domain.Scope, error)
	DeleteScopesByEnterprise(ctx context.Context, enterpriseID string) (int64, error)
}

type Users interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUser(ctx context.Context, enterpriseID, id string) (domain.User, error)

	// UpdateUser writes every mutable column of u and bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error
	DeleteUser(ctx context.Context, enterpriseID, id string) error

	// GetIdentity loads a user joined with its role, scope and enterprise.
	GetIdentity(ctx context.Context, enterpriseID, id string) (domain.Identity, error)

	// GetIdentityByEmail is the login lookup and the only query not bounded
	// by an enterprise. It also returns the password hash.
	GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, string, error)

	ListIdentities(ctx context.Context, enterpriseID string, f UserFilter) ([]domain.Identity, error)
	ListUserIDs(ctx context.Context, enterpriseID string) ([]string, error)

	// CountOwners counts the users holding the owner rank with the All
	// scope.
	CountOwners(ctx context.Context, enterpriseID string) (int, error)
}

// UserFilter narrows ListIdentities. Empty slices do not filter. Usernames
// and Emails match as substrings.
type UserFilter struct {
	RoleIDs    []string
	RoleNames  []string
	ScopeIDs   []string
	ScopeNames []string
	Usernames  []string
	Emails     []string
}
