package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// ErrInvalidField reports a patch or entity field that fails validation.
var ErrInvalidField = errors.New("domain: invalid field")

// FieldError names the offending field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidField }

func invalid(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// EnterprisePatch lists the mutable enterprise fields. A nil field is left
// untouched.
type EnterprisePatch struct {
	Name             *string `json:"name,omitempty"`
	AccountableEmail *string `json:"accountable_email,omitempty"`
	ActivityType     *string `json:"activity_type,omitempty"`
}

func (p EnterprisePatch) IsEmpty() bool {
	return p.Name == nil && p.AccountableEmail == nil && p.ActivityType == nil
}

func (p EnterprisePatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if p.AccountableEmail != nil {
		if err := ValidateEmail("accountable_email", *p.AccountableEmail); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges p into e and reports which fields actually changed. The
// returned patch only carries those fields.
func (p EnterprisePatch) Apply(e *Enterprise) EnterprisePatch {
	var changed EnterprisePatch
	if p.Name != nil && *p.Name != e.Name {
		e.Name = *p.Name
		changed.Name = p.Name
	}
	if p.AccountableEmail != nil && *p.AccountableEmail != e.AccountableEmail {
		e.AccountableEmail = *p.AccountableEmail
		changed.AccountableEmail = p.AccountableEmail
	}
	if p.ActivityType != nil && *p.ActivityType != e.ActivityType {
		e.ActivityType = *p.ActivityType
		changed.ActivityType = p.ActivityType
	}
	return changed
}

// ProfilePatch lists the fields a user may change on their own account.
type ProfilePatch struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (p ProfilePatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.FullName == nil && p.Password == nil
}

func (p ProfilePatch) Validate() error {
	if p.Username != nil && strings.TrimSpace(*p.Username) == "" {
		return invalid("username", "must not be empty")
	}
	if p.Email != nil {
		if err := ValidateEmail("email", *p.Email); err != nil {
			return err
		}
	}
	if p.Password != nil {
		if err := ValidatePassword(*p.Password); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges the profile fields into u. Password is not applied here since
// it has to be hashed first. The returned patch holds the changed fields.
func (p ProfilePatch) Apply(u *User) ProfilePatch {
	var changed ProfilePatch
	if p.Username != nil && *p.Username != u.Username {
		u.Username = *p.Username
		changed.Username = p.Username
	}
	if p.Email != nil && *p.Email != u.Email {
		u.Email = *p.Email
		changed.Email = p.Email
	}
	if p.FullName != nil && *p.FullName != u.FullName {
		u.FullName = *p.FullName
		changed.FullName = p.FullName
	}
	return changed
}

// UserPatch is what an administrator may change on another user: the
// profile plus role and scope, each addressable by id or by name.
type UserPatch struct {
	ProfilePatch
	RoleID    *string `json:"role_id,omitempty"`
	RoleName  *string `json:"role_name,omitempty"`
	ScopeID   *string `json:"scope_id,omitempty"`
	ScopeName *string `json:"scope_name,omitempty"`
}

func (p UserPatch) IsEmpty() bool {
	return p.ProfilePatch.IsEmpty() && !p.TouchesRole() && !p.TouchesScope()
}

func (p UserPatch) TouchesRole() bool  { return p.RoleID != nil || p.RoleName != nil }
func (p UserPatch) TouchesScope() bool { return p.ScopeID != nil || p.ScopeName != nil }

// RoleScopeRef addresses a role and a scope of one enterprise, by id or by
// name. Ids win when both are set.
type RoleScopeRef struct {
	RoleID    string
	RoleName  string
	ScopeID   string
	ScopeName string
}

func (r RoleScopeRef) HasRole() bool  { return r.RoleID != "" || r.RoleName != "" }
func (r RoleScopeRef) HasScope() bool { return r.ScopeID != "" || r.ScopeName != "" }

// Ref extracts the role/scope reference of the patch.
func (p UserPatch) Ref() RoleScopeRef {
	return RoleScopeRef{
		RoleID:    deref(p.RoleID),
		RoleName:  deref(p.RoleName),
		ScopeID:   deref(p.ScopeID),
		ScopeName: deref(p.ScopeName),
	}
}

// ValidateEmail checks that s is a bare address.
func ValidateEmail(field, s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return invalid(field, "must not be empty")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return invalid(field, "is not a valid email address")
	}
	return nil
}

const minPasswordLength = 6

func ValidatePassword(pw string) error {
	if len(pw) < minPasswordLength {
		return invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
