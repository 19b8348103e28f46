package events

import (
	"encoding/json"
	"errors"

	"github.com/openferp/directory/internal/directory/domain"
)

// UserCreatedData is the full snapshot of a new user.
type UserCreatedData struct {
	domain.Identity
}

func (UserCreatedData) Tag() Tag { return UserCreated }
func (d UserCreatedData) EnterpriseID() string { return d.Identity.EnterpriseID }

func (d UserCreatedData) validate() error {
	if d.ID == "" || d.Identity.EnterpriseID == "" {
		return errors.New("id and enterprise_id are required")
	}
	return nil
}

// UserUpdatedData carries the fields of a user that changed. Fields left
// nil did not change.
type UserUpdatedData struct {
	ID         string `json:"id"`
	Enterprise string `json:"enterprise_id"`

	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`

	RoleID    *string `json:"role_id,omitempty"`
	RoleName  *string `json:"role_name,omitempty"`
	ScopeID   *string `json:"scope_id,omitempty"`
	ScopeName *string `json:"scope_name,omitempty"`

	// Password is accepted from other services. The directory never
	// publishes one.
	Password *string `json:"password,omitempty"`
}

func (UserUpdatedData) Tag() Tag { return UserUpdated }
func (d UserUpdatedData) EnterpriseID() string { return d.Enterprise }

func (d UserUpdatedData) validate() error {
	if d.ID == "" || d.Enterprise == "" {
		return errors.New("id and enterprise_id are required")
	}
	return nil
}

// UnmarshalJSON also accepts "user_id" for the user id.
func (d *UserUpdatedData) UnmarshalJSON(b []byte) error {
	type plain UserUpdatedData
	var w struct {
		plain
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*d = UserUpdatedData(w.plain)
	if d.ID == "" {
		d.ID = w.UserID
	}
	return nil
}

// IsEmpty reports whether nothing but the password changed.
func (d UserUpdatedData) IsEmpty() bool {
	return d.Username == nil && d.Email == nil && d.FullName == nil &&
		d.RoleID == nil && d.RoleName == nil && d.ScopeID == nil && d.ScopeName == nil
}

// Patch converts the payload into the patch the consumer applies.
func (d UserUpdatedData) Patch() domain.UserPatch {
	return domain.UserPatch{
		ProfilePatch: domain.ProfilePatch{
			Username: d.Username,
			Email:    d.Email,
			FullName: d.FullName,
			Password: d.Password,
		},
		RoleID:    d.RoleID,
		RoleName:  d.RoleName,
		ScopeID:   d.ScopeID,
		ScopeName: d.ScopeName,
	}
}

// UserDeletedData identifies a deleted user.
type UserDeletedData struct {
	ID         string `json:"id"`
	Enterprise string `json:"enterprise_id"`
}

func (UserDeletedData) Tag() Tag { return UserDeleted }
func (d UserDeletedData) EnterpriseID() string { return d.Enterprise }

func (d UserDeletedData) validate() error {
	if d.ID == "" || d.Enterprise == "" {
		return errors.New("id and enterprise_id are required")
	}
	return nil
}

// RoleData is a role as announced with its enterprise.
type RoleData struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rank        int    `json:"hierarchy"`
}

// ScopeData is a scope as announced with its enterprise.
type ScopeData struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// EnterpriseCreatedData is a new enterprise with its seeded hierarchy.
type EnterpriseCreatedData struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	AccountableEmail string      `json:"accountable_email"`
	ActivityType     string      `json:"activity_type"`
	Roles            []RoleData  `json:"roles"`
	Scopes           []ScopeData `json:"scopes"`
}

func (EnterpriseCreatedData) Tag() Tag { return EnterpriseCreated }
func (d EnterpriseCreatedData) EnterpriseID() string { return d.ID }

func (d EnterpriseCreatedData) validate() error {
	if d.ID == "" {
		return errors.New("id is required")
	}
	return nil
}

// EnterpriseUpdatedData carries the enterprise fields that changed.
type EnterpriseUpdatedData struct {
	ID string `json:"id"`
	domain.EnterprisePatch
}

func (EnterpriseUpdatedData) Tag() Tag { return EnterpriseUpdated }
func (d EnterpriseUpdatedData) EnterpriseID() string { return d.ID }

func (d EnterpriseUpdatedData) validate() error {
	if d.ID == "" {
		return errors.New("id is required")
	}
	return nil
}

// EnterpriseDeletedData identifies a deleted enterprise.
type EnterpriseDeletedData struct {
	ID string `json:"id"`
}

func (EnterpriseDeletedData) Tag() Tag { return EnterpriseDeleted }
func (d EnterpriseDeletedData) EnterpriseID() string { return d.ID }

func (d EnterpriseDeletedData) validate() error {
	if d.ID == "" {
		return errors.New("id is required")
	}
	return nil
}

// NewUserCreated announces a committed user.
func NewUserCreated(u domain.Identity) Envelope {
	return Envelope{
		Event:      UserCreated,
		Data:       UserCreatedData{Identity: u},
		EventScope: u.ScopeName(),
	}
}

// NewUserUpdated announces the changes applied to u. previousScope is the
// scope u had before the update; it routes the event. profile holds the
// changed profile fields; roleChanged and scopeChanged add the new role and
// scope of u. The password is never announced.
func NewUserUpdated(u domain.Identity, previousScope string, profile domain.ProfilePatch, roleChanged, scopeChanged bool) Envelope {
	d := UserUpdatedData{
		ID:         u.ID,
		Enterprise: u.EnterpriseID,
		Username:   profile.Username,
		Email:      profile.Email,
		FullName:   profile.FullName,
	}
	if roleChanged && u.Role != nil {
		d.RoleID, d.RoleName = ptr(u.Role.ID), ptr(u.Role.Name)
	}
	if scopeChanged && u.Scope != nil {
		d.ScopeID, d.ScopeName = ptr(u.Scope.ID), ptr(u.Scope.Name)
	}
	if previousScope == "" {
		previousScope = u.ScopeName()
	}
	return Envelope{
		Event:       UserUpdated,
		Data:        d,
		EventScope:  previousScope,
		UpdateScope: u.ScopeName(),
	}
}

// NewUserDeleted announces a deleted user of the given scope.
func NewUserDeleted(enterpriseID, userID, scope string) Envelope {
	return Envelope{
		Event:      UserDeleted,
		Data:       UserDeletedData{ID: userID, Enterprise: enterpriseID},
		EventScope: scope,
	}
}

// NewEnterpriseCreated announces a signed up enterprise.
func NewEnterpriseCreated(h domain.EnterpriseHierarchy) Envelope {
	d := EnterpriseCreatedData{
		ID:               h.ID,
		Name:             h.Name,
		AccountableEmail: h.AccountableEmail,
		ActivityType:     h.ActivityType,
		Roles:            make([]RoleData, 0, len(h.Roles)),
		Scopes:           make([]ScopeData, 0, len(h.Scopes)),
	}
	for _, r := range h.Roles {
		d.Roles = append(d.Roles, RoleData{ID: r.ID, Name: r.Name, Description: r.Description, Rank: r.Rank})
	}
	for _, s := range h.Scopes {
		d.Scopes = append(d.Scopes, ScopeData{ID: s.ID, Name: s.Name, Description: s.Description})
	}
	return Envelope{Event: EnterpriseCreated, Data: d}
}

// NewEnterpriseUpdated announces the changed fields of an enterprise.
func NewEnterpriseUpdated(id string, changed domain.EnterprisePatch) Envelope {
	return Envelope{
		Event: EnterpriseUpdated,
		Data:  EnterpriseUpdatedData{ID: id, EnterprisePatch: changed},
	}
}

// NewEnterpriseDeleted announces a deleted enterprise.
func NewEnterpriseDeleted(id string) Envelope {
	return Envelope{Event: EnterpriseDeleted, Data: EnterpriseDeletedData{ID: id}}
}

func ptr(s string) *string { return &s }
