package domain

import "time"

type User struct {
	ID           string
	EnterpriseID string
	RoleID       string // empty only while the user is being constructed
	ScopeID      string // empty only while the user is being constructed
	Username     string
	Email        string
	FullName     string
	PasswordHash string // argon2id PHC string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoleRef is the role part of an Identity.
type RoleRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rank int    `json:"hierarchy"`
}

// ScopeRef is the scope part of an Identity.
type ScopeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EnterpriseRef is the enterprise part of an Identity.
type EnterpriseRef struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	AccountableEmail string `json:"accountable_email"`
	ActivityType     string `json:"activity_type"`
}

// Identity is a user resolved against its role, scope and enterprise. It is
// the actor snapshot carried in session tokens, the body of USER_CREATED
// events and the user representation served over HTTP.
type Identity struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	FullName     string        `json:"full_name"`
	CreatedAt    time.Time     `json:"created_at"`
	EnterpriseID string        `json:"enterprise_id"`
	Role         *RoleRef      `json:"role"`
	Scope        *ScopeRef     `json:"scope"`
	Enterprise   EnterpriseRef `json:"enterprise"`
}

// NewIdentity assembles an Identity from already loaded entities. role and
// scope may be nil for a user that is not fully constructed.
func NewIdentity(u User, e Enterprise, role *Role, scope *Scope) Identity {
	id := Identity{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		CreatedAt:    u.CreatedAt,
		EnterpriseID: u.EnterpriseID,
		Enterprise: EnterpriseRef{
			ID:               e.ID,
			Name:             e.Name,
			AccountableEmail: e.AccountableEmail,
			ActivityType:     e.ActivityType,
		},
	}
	if role != nil {
		id.Role = &RoleRef{ID: role.ID, Name: role.Name, Rank: role.Rank}
	}
	if scope != nil {
		id.Scope = &ScopeRef{ID: scope.ID, Name: scope.Name}
	}
	return id
}

// RoleName returns the role name or "" when unresolved.
func (i Identity) RoleName() string {
	if i.Role == nil {
		return ""
	}
	return i.Role.Name
}

// ScopeName returns the scope name or "" when unresolved.
func (i Identity) ScopeName() string {
	if i.Scope == nil {
		return ""
	}
	return i.Scope.Name
}
