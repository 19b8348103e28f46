package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/openferp/directory/internal/directory/domain"
	"github.com/openferp/directory/internal/directory/store"
)

var (
	ErrUnknownRole  = fmt.Errorf("%w: unknown role for the enterprise", ErrInvalidInput)
	ErrUnknownScope = fmt.Errorf("%w: unknown scope for the enterprise", ErrInvalidInput)
)

// ResolveRoleScope loads the role and scope named by ref inside one
// enterprise. Ids win over names. Role and scope resolve independently: a
// ref that names only one of them returns nil for the other.
//
// Every create and update path goes through here, including the event
// consumer, so a role is never matched by name in one place and by id in
// another.
func ResolveRoleScope(ctx context.Context, q store.Queries, enterpriseID string, ref domain.RoleScopeRef) (*domain.Role, *domain.Scope, error) {
	var (
		role  *domain.Role
		scope *domain.Scope
	)

	if ref.HasRole() {
		var (
			r   domain.Role
			err error
		)
		if ref.RoleID != "" {
			r, err = q.Roles().GetRole(ctx, enterpriseID, ref.RoleID)
		} else {
			r, err = q.Roles().GetRoleByName(ctx, enterpriseID, ref.RoleName)
		}
		if err != nil {
			return nil, nil, resolveErr(err, ErrUnknownRole)
		}
		role = &r
	}

	if ref.HasScope() {
		var (
			s   domain.Scope
			err error
		)
		if ref.ScopeID != "" {
			s, err = q.Scopes().GetScope(ctx, enterpriseID, ref.ScopeID)
		} else {
			s, err = q.Scopes().GetScopeByName(ctx, enterpriseID, ref.ScopeName)
		}
		if err != nil {
			return nil, nil, resolveErr(err, ErrUnknownScope)
		}
		scope = &s
	}

	return role, scope, nil
}

func resolveErr(err, unknown error) error {
	if errors.Is(err, store.ErrNotFound) {
		return unknown
	}
	return err
}
