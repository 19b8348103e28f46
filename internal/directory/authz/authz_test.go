package authz

import (
	"fmt"
	"testing"

	"github.com/openferp/directory/internal/directory/domain"
	"github.com/stretchr/testify/require"
)

func actor(scope string, rank int) domain.Identity {
	return domain.Identity{
		ID:    "u1",
		Role:  &domain.RoleRef{ID: "r", Name: "role", Rank: rank},
		Scope: &domain.ScopeRef{ID: "s", Name: scope},
	}
}

func TestAuthorizeGrid(t *testing.T) {
	t.Parallel()

	scopes := []string{domain.ScopeAll, domain.ScopeHumanResource, domain.ScopeSells, domain.ScopePatrimonial}
	required := [][]string{
		{domain.ScopeAll},
		{domain.ScopeHumanResource},
		{domain.ScopeAll, domain.ScopeHumanResource},
		{domain.ScopeSells, domain.ScopePatrimonial},
	}

	for _, scope := range scopes {
		for rank := 1; rank <= 3; rank++ {
			for _, req := range required {
				for reqRank := 1; reqRank <= 3; reqRank++ {
					name := fmt.Sprintf("%s/%d needs %v/%d", scope, rank, req, reqRank)
					t.Run(name, func(t *testing.T) {
						err := Authorize(actor(scope, rank), req, reqRank)

						want := rank <= reqRank
						inScope := false
						for _, s := range req {
							if s == scope {
								inScope = true
							}
						}
						want = want && inScope

						if want {
							require.NoError(t, err)
						} else {
							require.ErrorIs(t, err, ErrForbidden)
						}
					})
				}
			}
		}
	}
}

func TestAuthorizeUnresolved(t *testing.T) {
	t.Parallel()

	noRole := actor(domain.ScopeAll, 1)
	noRole.Role = nil
	err := Authorize(noRole, []string{domain.ScopeAll}, 3)
	require.ErrorIs(t, err, ErrForbidden)

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	require.Equal(t, ReasonUnresolved, denied.Reason)

	noScope := actor(domain.ScopeAll, 1)
	noScope.Scope = nil
	require.ErrorIs(t, Authorize(noScope, []string{domain.ScopeAll}, 3), ErrForbidden)
}

func TestAuthorizeAllIsNotWildcard(t *testing.T) {
	t.Parallel()

	err := Authorize(actor(domain.ScopeAll, 1), []string{domain.ScopeSells}, 3)

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	require.Equal(t, ReasonScope, denied.Reason)
}

func TestAuthorizePredicates(t *testing.T) {
	t.Parallel()

	a := actor(domain.ScopeSells, 1)

	require.NoError(t, Authorize(a, []string{domain.ScopeSells}, 1, true, true))

	err := Authorize(a, []string{domain.ScopeSells}, 1, true, false)
	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	require.Equal(t, ReasonPredicate, denied.Reason)
}

func TestScopes(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{domain.ScopeSells, domain.ScopeAll}, Scopes(domain.ScopeSells))
	require.Equal(t, []string{domain.ScopeAll}, Scopes(domain.ScopeAll))
	require.Equal(t, []string{domain.ScopeAll}, Scopes(""))
}

func TestSameScopeOrAll(t *testing.T) {
	t.Parallel()

	require.True(t, SameScopeOrAll(actor(domain.ScopeAll, 1), domain.ScopeSells))
	require.True(t, SameScopeOrAll(actor(domain.ScopeSells, 3), domain.ScopeSells))
	require.False(t, SameScopeOrAll(actor(domain.ScopeSells, 3), domain.ScopeHumanResource))
	require.False(t, SameScopeOrAll(domain.Identity{}, domain.ScopeSells))
}
