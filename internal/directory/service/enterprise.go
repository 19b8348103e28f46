package service

import (
	"context"
	"fmt"
	"log/slog"
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

// SignupRequest creates an enterprise together with its first user.
type SignupRequest struct {
	Enterprise SignupEnterprise `json:"enterprise"`
	User       SignupUser       `json:"user"`
}

type SignupEnterprise struct {
	Name             string `json:"name"`
	AccountableEmail string `json:"accountable_email"`
	ActivityType     string `json:"activity_type"`
}

type SignupUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

func (r SignupRequest) validate() error {
	if strings.TrimSpace(r.Enterprise.Name) == "" {
		return invalidInput("enterprise name is required")
	}
	if err := domain.ValidateEmail("accountable_email", r.Enterprise.AccountableEmail); err != nil {
		return translate(err)
	}
	if strings.TrimSpace(r.User.Username) == "" {
		return invalidInput("username is required")
	}
	if err := domain.ValidateEmail("email", r.User.Email); err != nil {
		return translate(err)
	}
	return translate(domain.ValidatePassword(r.User.Password))
}

// FullEnterprise is an enterprise with everything it owns.
type FullEnterprise struct {
	domain.Enterprise
	Roles  []domain.Role
	Scopes []domain.Scope
	Users  []domain.Identity
}

type EnterpriseService struct {
	Store     store.Store
	Hasher    cryptox.PasswordHasher
	Announcer Announcer

	// Now is injectable for tests and defaults to time.Now.
	Now func() time.Time
}

func (s *EnterpriseService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Signup creates the enterprise, its default roles and scopes and the first
// user in one transaction. The first user is an Owner with the All scope.
func (s *EnterpriseService) Signup(ctx context.Context, req SignupRequest) (domain.Identity, error) {
	log := slogx.Component(ctx, "enterprise", "service")

	if err := req.validate(); err != nil {
		return domain.Identity{}, err
	}

	hash, err := s.Hasher.Hash(req.User.Password)
	if err != nil {
		log.Error("failed to hash password", slogx.KeyErr, err)
		return domain.Identity{}, err
	}

	h := domain.EnterpriseHierarchy{
		Enterprise: domain.Enterprise{
			ID:               idx.New().String(),
			Name:             strings.TrimSpace(req.Enterprise.Name),
			AccountableEmail: req.Enterprise.AccountableEmail,
			ActivityType:     req.Enterprise.ActivityType,
		},
	}

	var owner domain.Identity
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Enterprises().CreateEnterprise(ctx, h.Enterprise); err != nil {
			return err
		}

		for _, r := range domain.DefaultRoles() {
			r.ID = idx.New().String()
			r.EnterpriseID = h.ID
			if err := tx.Roles().CreateRole(ctx, r); err != nil {
				return fmt.Errorf("create role %s: %w", r.Name, err)
			}
			h.Roles = append(h.Roles, r)
		}
		for _, sc := range domain.DefaultScopes() {
			sc.ID = idx.New().String()
			sc.EnterpriseID = h.ID
			if err := tx.Scopes().CreateScope(ctx, sc); err != nil {
				return fmt.Errorf("create scope %s: %w", sc.Name, err)
			}
			h.Scopes = append(h.Scopes, sc)
		}

		ownerRole, allScope, err := ResolveRoleScope(ctx, tx, h.ID, domain.RoleScopeRef{
			RoleName:  domain.RoleOwner,
			ScopeName: domain.ScopeAll,
		})
		if err != nil {
			return fmt.Errorf("resolve default role and scope: %w", err)
		}

		now := s.now()
		u := domain.User{
			ID:           idx.New().String(),
			EnterpriseID: h.ID,
			RoleID:       ownerRole.ID,
			ScopeID:      allScope.ID,
			Username:     strings.TrimSpace(req.User.Username),
			Email:        req.User.Email,
			FullName:     req.User.FullName,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}

		owner = domain.NewIdentity(u, h.Enterprise, ownerRole, allScope)
		return nil
	})
	if err != nil {
		log.Warn("signup failed", slog.String("enterprise", h.Name), slogx.KeyErr, err)
		return domain.Identity{}, translate(err)
	}

	log.Info("enterprise signed up",
		slog.String("enterprise_id", h.ID),
		slog.String("user_id", owner.ID),
	)

	s.Announcer.announce(ctx,
		events.NewEnterpriseCreated(h),
		events.NewUserCreated(owner),
	)

	return owner, nil
}

// Get returns the actor's enterprise. Any authenticated member may read it.
func (s *EnterpriseService) Get(ctx context.Context, actor domain.Identity) (domain.Enterprise, error) {
	e, err := s.Store.Enterprises().GetEnterprise(ctx, actor.EnterpriseID)
	if err != nil {
		return domain.Enterprise{}, translate(err)
	}
	return e, nil
}

// GetFull returns the actor's enterprise with its roles, scopes and users.
// It is reserved to All and HumanResource members.
func (s *EnterpriseService) GetFull(ctx context.Context, actor domain.Identity) (FullEnterprise, error) {
	log := slogx.Component(ctx, "enterprise", "service")

	if err := authz.Authorize(actor, []string{domain.ScopeAll, domain.ScopeHumanResource}, domain.RankCollaborator); err != nil {
		log.Warn("full enterprise view denied", slog.String("actor_id", actor.ID), slogx.KeyErr, err)
		return FullEnterprise{}, err
	}

	var (
		full FullEnterprise
		err  error
	)
	ent := actor.EnterpriseID
	if full.Enterprise, err = s.Store.Enterprises().GetEnterprise(ctx, ent); err != nil {
		return FullEnterprise{}, translate(err)
	}
	if full.Roles, err = s.Store.Roles().ListRoles(ctx, ent); err != nil {
		return FullEnterprise{}, err
	}
	if full.Scopes, err = s.Store.Scopes().ListScopes(ctx, ent); err != nil {
		return FullEnterprise{}, err
	}
	if full.Users, err = s.Store.Users().ListIdentities(ctx, ent, store.UserFilter{}); err != nil {
		return FullEnterprise{}, err
	}
	return full, nil
}

// Update applies p to the actor's enterprise. Only owners of the All scope
// may do it. Fields that do not change are neither written nor announced.
func (s *EnterpriseService) Update(ctx context.Context, actor domain.Identity, p domain.EnterprisePatch) (domain.Enterprise, error) {
	log := slogx.Component(ctx, "enterprise", "service")

	if err := authz.Authorize(actor, []string{domain.ScopeAll}, domain.RankOwner); err != nil {
		log.Warn("enterprise update denied", slog.String("actor_id", actor.ID), slogx.KeyErr, err)
		return domain.Enterprise{}, err
	}

	e, changed, err := s.applyPatch(ctx, actor.EnterpriseID, p)
	if err != nil {
		return domain.Enterprise{}, err
	}
	if !changed.IsEmpty() {
		log.Info("enterprise updated", slog.String("enterprise_id", e.ID))
		s.Announcer.announce(ctx, events.NewEnterpriseUpdated(e.ID, changed))
	}
	return e, nil
}

// applyPatch is the enterprise write path shared with the event consumer.
func (s *EnterpriseService) applyPatch(ctx context.Context, enterpriseID string, p domain.EnterprisePatch) (domain.Enterprise, domain.EnterprisePatch, error) {
	if err := p.Validate(); err != nil {
		return domain.Enterprise{}, domain.EnterprisePatch{}, translate(err)
	}

	var (
		e       domain.Enterprise
		changed domain.EnterprisePatch
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if e, err = tx.Enterprises().GetEnterprise(ctx, enterpriseID); err != nil {
			return err
		}
		changed = p.Apply(&e)
		if changed.IsEmpty() {
			return nil
		}
		return tx.Enterprises().UpdateEnterprise(ctx, e)
	})
	if err != nil {
		return domain.Enterprise{}, domain.EnterprisePatch{}, translate(err)
	}
	return e, changed, nil
}

// Delete removes the actor's enterprise and everything it owns. Only owners
// of the All scope may do it.
func (s *EnterpriseService) Delete(ctx context.Context, actor domain.Identity) error {
	log := slogx.Component(ctx, "enterprise", "service")

	if err := authz.Authorize(actor, []string{domain.ScopeAll}, domain.RankOwner); err != nil {
		log.Warn("enterprise delete denied", slog.String("actor_id", actor.ID), slogx.KeyErr, err)
		return err
	}

	var res CascadeResult
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		res, err = DeleteEnterpriseCascade(ctx, tx, actor.EnterpriseID)
		return err
	})
	if err != nil {
		log.Error("enterprise delete failed", slog.String("enterprise_id", actor.EnterpriseID), slogx.KeyErr, err)
		return translate(err)
	}

	log.Info("enterprise deleted",
		slog.String("enterprise_id", actor.EnterpriseID),
		slog.Int("users", res.Users),
		slog.Int64("roles", res.Roles),
		slog.Int64("scopes", res.Scopes),
	)
	s.Announcer.announce(ctx, events.NewEnterpriseDeleted(actor.EnterpriseID))
	return nil
}

// CascadeResult counts the rows removed with an enterprise.
type CascadeResult struct {
	Users  int
	Roles  int64
	Scopes int64
}

// DeleteEnterpriseCascade deletes the users, then the roles and scopes, then
// the enterprise itself. It must run inside a transaction. The schema
// restricts deletes of referenced rows, so an owned set missing here makes
// the whole delete fail rather than leave orphans.
func DeleteEnterpriseCascade(ctx context.Context, tx store.Queries, enterpriseID string) (CascadeResult, error) {
	var res CascadeResult

	if _, err := tx.Enterprises().GetEnterprise(ctx, enterpriseID); err != nil {
		return res, err
	}

	ids, err := tx.Users().ListUserIDs(ctx, enterpriseID)
	if err != nil {
		return res, fmt.Errorf("list users: %w", err)
	}
	for _, id := range ids {
		if err := tx.Users().DeleteUser(ctx, enterpriseID, id); err != nil {
			return res, fmt.Errorf("delete user %s: %w", id, err)
		}
		res.Users++
	}

	if res.Roles, err = tx.Roles().DeleteRolesByEnterprise(ctx, enterpriseID); err != nil {
		return res, fmt.Errorf("delete roles: %w", err)
	}
	if res.Scopes, err = tx.Scopes().DeleteScopesByEnterprise(ctx, enterpriseID); err != nil {
		return res, fmt.Errorf("delete scopes: %w", err)
	}

	if err := tx.Enterprises().DeleteEnterprise(ctx, enterpriseID); err != nil {
		return res, fmt.Errorf("delete enterprise: %w", err)
	}
	return res, nil
}
