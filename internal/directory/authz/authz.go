// Package authz decides whether an identified actor may act against a target
// scope at a given privilege rank. Decisions are pure and have no side
// effects; callers must check before persisting anything.
package authz

import (
	"errors"
	"fmt"
	"slices"

	"github.com/openferp/directory/internal/directory/domain"
)

// ErrForbidden is the root of every denial.
var ErrForbidden = errors.New("authz: forbidden")

// Reason classifies a denial. It is meant for logs, never for clients.
type Reason string

const (
	ReasonUnresolved Reason = "unresolved_role_or_scope"
	ReasonScope      Reason = "scope_not_allowed"
	ReasonRank       Reason = "insufficient_rank"
	ReasonPredicate  Reason = "predicate_failed"
)

// DeniedError carries the reason of a denial.
type DeniedError struct {
	Reason Reason
	Detail string
}

func (e *DeniedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("authz: denied (%s)", e.Reason)
	}
	return fmt.Sprintf("authz: denied (%s): %s", e.Reason, e.Detail)
}

func (e *DeniedError) Unwrap() error { return ErrForbidden }

// Authorize grants when the actor's scope is one of requiredScopes, its role
// rank is numerically <= requiredRank and every extra predicate holds.
//
// "All" is an ordinary scope name here. Callers that want All-scoped actors
// to pass must list it in requiredScopes.
func Authorize(actor domain.Identity, requiredScopes []string, requiredRank int, extra ...bool) error {
	if actor.Role == nil || actor.Scope == nil {
		return &DeniedError{Reason: ReasonUnresolved}
	}

	if !slices.Contains(requiredScopes, actor.Scope.Name) {
		return &DeniedError{
			Reason: ReasonScope,
			Detail: fmt.Sprintf("scope %q not in %v", actor.Scope.Name, requiredScopes),
		}
	}

	if actor.Role.Rank > requiredRank {
		return &DeniedError{
			Reason: ReasonRank,
			Detail: fmt.Sprintf("rank %d above required %d", actor.Role.Rank, requiredRank),
		}
	}

	for i, ok := range extra {
		if !ok {
			return &DeniedError{Reason: ReasonPredicate, Detail: fmt.Sprintf("predicate %d", i)}
		}
	}

	return nil
}

// Scopes builds a required scope set that also admits the All scope. Use it
// for administrative operations an All-scoped actor should be able to do.
func Scopes(names ...string) []string {
	out := make([]string, 0, len(names)+1)
	for _, n := range names {
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	if !slices.Contains(out, domain.ScopeAll) {
		out = append(out, domain.ScopeAll)
	}
	return out
}

// SameScopeOrAll is the peer predicate used when an actor manages another
// user: the target scope must be the actor's own, unless the actor holds All.
func SameScopeOrAll(actor domain.Identity, targetScope string) bool {
	if actor.Scope == nil {
		return false
	}
	return actor.Scope.Name == domain.ScopeAll || actor.Scope.Name == targetScope
}
