package service

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/openferp/directory/internal/directory/authz"
	"github.com/openferp/directory/internal/directory/domain"
	"github.com/openferp/directory/internal/directory/events"
	"github.com/openferp/directory/internal/directory/store"
	"github.com/openferp/directory/pkg/cryptox"
	"github.com/openferp/directory/pkg/idx"
	"github.com/openferp/directory/pkg/slogx"
)

// CreateUserRequest adds a user to the actor's enterprise. Role and scope
// are each given by id or by name.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`

	RoleID    string `json:"role_id,omitempty"`
	RoleName  string `json:"role_name,omitempty"`
	ScopeID   string `json:"scope_id,omitempty"`
	ScopeName string `json:"scope_name,omitempty"`
}

func (r CreateUserRequest) ref() domain.RoleScopeRef {
	return domain.RoleScopeRef{RoleID: r.RoleID, RoleName: r.RoleName, ScopeID: r.ScopeID, ScopeName: r.ScopeName}
}

func (r CreateUserRequest) validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return invalidInput("username is required")
	}
	if err := domain.ValidateEmail("email", r.Email); err != nil {
		return translate(err)
	}
	if err := domain.ValidatePassword(r.Password); err != nil {
		return translate(err)
	}
	if ref := r.ref(); !ref.HasRole() || !ref.HasScope() {
		return invalidInput("invalid scope or role for the enterprise")
	}
	return nil
}

type UserService struct {
	Store     store.Store
	Hasher    cryptox.PasswordHasher
	Announcer Announcer

	// Now is injectable for tests and defaults to time.Now.
	Now func() time.Time
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// isOwner reports whether i counts toward keeping the enterprise managed.
func isOwner(i domain.Identity) bool {
	return i.Role != nil && i.Role.Rank == domain.RankOwner && i.ScopeName() == domain.ScopeAll
}

// keepOwner fails when the pending changes in q left the enterprise without
// an Owner holding the All scope.
func keepOwner(ctx context.Context, q store.Queries, enterpriseID string) error {
	n, err := q.Users().CountOwners(ctx, enterpriseID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLastOwner
	}
	return nil
}

// rankOf returns the rank of the identity's role. An identity without a
// role is treated as owner-ranked so that only owners may manage it.
func rankOf(i domain.Identity) int {
	if i.Role == nil {
		return domain.RankOwner
	}
	return i.Role.Rank
}

// Create adds a user to the actor's enterprise. The actor must hold the
// target scope (or All) with a rank at least as high as the new role.
func (s *UserService) Create(ctx context.Context, actor domain.Identity, req CreateUserRequest) (domain.Identity, error) {
	log := slogx.Component(ctx, "users", "service")

	if err := req.validate(); err != nil {
		return domain.Identity{}, err
	}

	hash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		log.Error("failed to hash password", slogx.KeyErr, err)
		return domain.Identity{}, err
	}

	ent := actor.EnterpriseID
	var created domain.Identity
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		role, scope, err := ResolveRoleScope(ctx, tx, ent, req.ref())
		if err != nil {
			return err
		}

		if err := authz.Authorize(actor, authz.Scopes(scope.Name), role.Rank); err != nil {
			log.Warn("user creation denied",
				slog.String("actor_id", actor.ID),
				slog.String("scope", scope.Name),
				slog.String("role", role.Name),
				slogx.KeyErr, err,
			)
			return err
		}

		e, err := tx.Enterprises().GetEnterprise(ctx, ent)
		if err != nil {
			return err
		}

		now := s.now()
		u := domain.User{
			ID:           idx.New().String(),
			EnterpriseID: ent,
			RoleID:       role.ID,
			ScopeID:      scope.ID,
			Username:     strings.TrimSpace(req.Username),
			Email:        req.Email,
			FullName:     req.FullName,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		created = domain.NewIdentity(u, e, role, scope)
		return nil
	})
	if err != nil {
		return domain.Identity{}, translate(err)
	}

	log.Info("user created", slog.String("user_id", created.ID), slog.String("scope", created.ScopeName()))
	s.Announcer.announce(ctx, events.NewUserCreated(created))
	return created, nil
}

// Me returns the actor as currently stored, not as frozen in its token.
func (s *UserService) Me(ctx context.Context, actor domain.Identity) (domain.Identity, error) {
	me, err := s.Store.Users().GetIdentity(ctx, actor.EnterpriseID, actor.ID)
	if err != nil {
		return domain.Identity{}, translate(err)
	}
	return me, nil
}

// Get returns a user of the actor's enterprise. The actor must hold the
// user's scope (or All) and a rank at least as high as the user's.
func (s *UserService) Get(ctx context.Context, actor domain.Identity, id string) (domain.Identity, error) {
	target, err := s.Store.Users().GetIdentity(ctx, actor.EnterpriseID, id)
	if err != nil {
		return domain.Identity{}, translate(err)
	}
	if err := authz.Authorize(actor, authz.Scopes(target.ScopeName()), rankOf(target)); err != nil {
		slogx.Component(ctx, "users", "service").Warn("user read denied",
			slog.String("actor_id", actor.ID),
			slog.String("user_id", id),
			slogx.KeyErr, err,
		)
		return domain.Identity{}, err
	}
	return target, nil
}

// List returns the users of the actor's enterprise matching f. Only owners
// of the All scope may list.
func (s *UserService) List(ctx context.Context, actor domain.Identity, f store.UserFilter) ([]domain.Identity, error) {
	if err := authz.Authorize(actor, []string{domain.ScopeAll}, domain.RankOwner); err != nil {
		slogx.Component(ctx, "users", "service").Warn("user list denied", slog.String("actor_id", actor.ID), slogx.KeyErr, err)
		return nil, err
	}
	f, err := resolveListFilter(ctx, s.Store, actor.EnterpriseID, f)
	if err != nil {
		return nil, translate(err)
	}
	users, err := s.Store.Users().ListIdentities(ctx, actor.EnterpriseID, f)
	if err != nil {
		return nil, translate(err)
	}
	return users, nil
}

// resolveListFilter turns the role and scope parts of f into ids of the
// enterprise. Ids win over names. A role or scope filter that matches
// nothing is ErrHierarchyNotFound rather than an empty list.
func resolveListFilter(ctx context.Context, q store.Queries, enterpriseID string, f store.UserFilter) (store.UserFilter, error) {
	var hf store.HierarchyFilter

	if len(f.RoleIDs) > 0 || len(f.RoleNames) > 0 {
		var (
			roles []domain.Role
			err   error
		)
		if len(f.RoleIDs) > 0 {
			roles, err = q.Roles().ListRolesByIDs(ctx, enterpriseID, f.RoleIDs)
		} else {
			roles, err = q.Roles().ListRolesByNames(ctx, enterpriseID, f.RoleNames)
		}
		if err != nil {
			return f, err
		}
		if len(roles) == 0 {
			return f, ErrHierarchyNotFound
		}
		for _, r := range roles {
			hf.RoleIDs = append(hf.RoleIDs, r.ID)
		}
	}

	if len(f.ScopeIDs) > 0 || len(f.ScopeNames) > 0 {
		var (
			scopes []domain.Scope
			err    error
		)
		if len(f.ScopeIDs) > 0 {
			scopes, err = q.Scopes().ListScopesByIDs(ctx, enterpriseID, f.ScopeIDs)
		} else {
			scopes, err = q.Scopes().ListScopesByNames(ctx, enterpriseID, f.ScopeNames)
		}
		if err != nil {
			return f, err
		}
		if len(scopes) == 0 {
			return f, ErrHierarchyNotFound
		}
		for _, sc := range scopes {
			hf.ScopeIDs = append(hf.ScopeIDs, sc.ID)
		}
	}

	if len(hf.RoleIDs) == 0 && len(hf.ScopeIDs) == 0 {
		return f, nil
	}

	rows, err := q.Enterprises().Hierarchy(ctx, enterpriseID, hf)
	if err != nil {
		return f, err
	}
	if len(rows) == 0 {
		return f, ErrHierarchyNotFound
	}

	out := store.UserFilter{Usernames: f.Usernames, Emails: f.Emails}
	seen := map[string]bool{}
	for _, row := range rows {
		if len(hf.RoleIDs) > 0 && !seen[row.Role.ID] {
			seen[row.Role.ID] = true
			out.RoleIDs = append(out.RoleIDs, row.Role.ID)
		}
		if len(hf.ScopeIDs) > 0 && !seen[row.Scope.ID] {
			seen[row.Scope.ID] = true
			out.ScopeIDs = append(out.ScopeIDs, row.Scope.ID)
		}
	}
	return out, nil
}

// UpdateMe applies a self-service profile patch. Role and scope cannot be
// changed this way.
func (s *UserService) UpdateMe(ctx context.Context, actor domain.Identity, p domain.ProfilePatch) (domain.Identity, error) {
	change, err := s.applyUpdate(ctx, actor.EnterpriseID, actor.ID, domain.UserPatch{ProfilePatch: p}, nil)
	if err != nil {
		return domain.Identity{}, err
	}
	s.announceChange(ctx, change)
	return change.after, nil
}

// Update applies p to another user of the actor's enterprise.
//
// The actor needs the target's scope (or All) and a rank at least as high as
// both the target's current role and its new role. A non-All actor may only
// manage users of its own scope and may only move them into its own scope.
func (s *UserService) Update(ctx context.Context, actor domain.Identity, id string, p domain.UserPatch) (domain.Identity, error) {
	change, err := s.applyUpdate(ctx, actor.EnterpriseID, id, p, func(target domain.Identity, role *domain.Role, scope *domain.Scope) error {
		rank := rankOf(target)
		newRank := math.MaxInt
		if role != nil {
			newRank = role.Rank
		}
		err := authz.Authorize(actor, authz.Scopes(target.ScopeName()), min(rank, newRank),
			authz.SameScopeOrAll(actor, target.ScopeName()) &&
				(scope == nil || authz.SameScopeOrAll(actor, scope.Name)),
		)
		if err != nil {
			slogx.Component(ctx, "users", "service").Warn("user update denied",
				slog.String("actor_id", actor.ID),
				slog.String("user_id", id),
				slogx.KeyErr, err,
			)
		}
		return err
	})
	if err != nil {
		return domain.Identity{}, err
	}
	s.announceChange(ctx, change)
	return change.after, nil
}

// Delete removes a user of the actor's enterprise under the same rule as Get.
func (s *UserService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	log := slogx.Component(ctx, "users", "service")

	var target domain.Identity
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if target, err = tx.Users().GetIdentity(ctx, actor.EnterpriseID, id); err != nil {
			return err
		}
		if err := authz.Authorize(actor, authz.Scopes(target.ScopeName()), rankOf(target)); err != nil {
			log.Warn("user delete denied", slog.String("actor_id", actor.ID), slog.String("user_id", id), slogx.KeyErr, err)
			return err
		}
		if err := tx.Users().DeleteUser(ctx, actor.EnterpriseID, id); err != nil {
			return err
		}
		if isOwner(target) {
			return keepOwner(ctx, tx, actor.EnterpriseID)
		}
		return nil
	})
	if err != nil {
		return translate(err)
	}

	log.Info("user deleted", slog.String("user_id", id))
	s.Announcer.announce(ctx, events.NewUserDeleted(actor.EnterpriseID, id, target.ScopeName()))
	return nil
}

// userChange describes a committed user update.
type userChange struct {
	before, after domain.Identity

	profile         domain.ProfilePatch
	roleChanged     bool
	scopeChanged    bool
	passwordChanged bool
}

// visible reports whether anything other than the password changed.
func (c userChange) visible() bool {
	return !c.profile.IsEmpty() || c.roleChanged || c.scopeChanged
}

func (s *UserService) announceChange(ctx context.Context, c userChange) {
	if !c.visible() {
		return
	}
	slogx.Component(ctx, "users", "service").Info("user updated",
		slog.String("user_id", c.after.ID),
		slog.Bool("role_changed", c.roleChanged),
		slog.Bool("scope_changed", c.scopeChanged),
	)
	s.Announcer.announce(ctx, events.NewUserUpdated(c.after, c.before.ScopeName(), c.profile, c.roleChanged, c.scopeChanged))
}

type updateCheck func(target domain.Identity, role *domain.Role, scope *domain.Scope) error

// applyUpdate is the single user write path. HTTP updates and consumed
// USER_UPDATED events both go through it. check runs inside the transaction
// once role and scope are resolved; nil skips authorization.
//
// Only the allow-listed patch fields are merged, and only those that differ
// from the stored user are written. Applying the same patch twice leaves the
// user as the first application did.
func (s *UserService) applyUpdate(ctx context.Context, enterpriseID, id string, p domain.UserPatch, check updateCheck) (userChange, error) {
	if err := p.ProfilePatch.Validate(); err != nil {
		return userChange{}, translate(err)
	}

	var hash string
	if p.Password != nil {
		var err error
		if hash, err = s.Hasher.Hash(*p.Password); err != nil {
			return userChange{}, err
		}
	}

	var c userChange
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if c.before, err = tx.Users().GetIdentity(ctx, enterpriseID, id); err != nil {
			return err
		}

		role, scope, err := ResolveRoleScope(ctx, tx, enterpriseID, p.Ref())
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(c.before, role, scope); err != nil {
				return err
			}
		}

		u, err := tx.Users().GetUser(ctx, enterpriseID, id)
		if err != nil {
			return err
		}

		c.profile = p.ProfilePatch.Apply(&u)
		if role != nil && role.ID != u.RoleID {
			u.RoleID = role.ID
			c.roleChanged = true
		}
		if scope != nil && scope.ID != u.ScopeID {
			u.ScopeID = scope.ID
			c.scopeChanged = true
		}
		if hash != "" && s.Hasher.Verify(*p.Password, u.PasswordHash) != nil {
			u.PasswordHash = hash
			c.passwordChanged = true
		}

		if !c.visible() && !c.passwordChanged {
			c.after = c.before
			return nil
		}
		if err := tx.Users().UpdateUser(ctx, u); err != nil {
			return err
		}
		if c.after, err = tx.Users().GetIdentity(ctx, enterpriseID, id); err != nil {
			return err
		}
		if isOwner(c.before) && !isOwner(c.after) {
			return keepOwner(ctx, tx, enterpriseID)
		}
		return nil
	})
	if err != nil {
		return userChange{}, translate(err)
	}
	return c, nil
}
