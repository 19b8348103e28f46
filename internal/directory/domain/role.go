package domain

// Role is a privilege level inside one enterprise. Lower Rank means more
// privilege; rank 1 is owner-equivalent.
type Role struct {
	ID           string
	EnterpriseID string
	Name         string
	Description  string
	Rank         int
}

// Scope is a named domain-permission axis inside one enterprise.
type Scope struct {
	ID           string
	EnterpriseID string
	Name         string
	Description  string
}

// Built-in role names seeded for every enterprise.
const (
	RoleOwner        = "Owner"
	RoleManager      = "Manager"
	RoleCollaborator = "Collaborator"
)

// Ranks of the built-in roles.
const (
	RankOwner        = 1
	RankManager      = 2
	RankCollaborator = 3
)

// Built-in scope names seeded for every enterprise.
const (
	ScopeAll           = "All"
	ScopeHumanResource = "HumanResource"
	ScopeSells         = "Sells"
	ScopePatrimonial   = "Patrimonial"
)

// DefaultRoles returns the roles created at signup, unbound to any
// enterprise. Callers fill in ID and EnterpriseID.
func DefaultRoles() []Role {
	return []Role{
		{Name: RoleOwner, Description: "The owner of the enterprise.", Rank: RankOwner},
		{Name: RoleManager, Description: "Manages collaborators within a scope.", Rank: RankManager},
		{Name: RoleCollaborator, Description: "Regular member of the enterprise.", Rank: RankCollaborator},
	}
}

// DefaultScopes returns the scopes created at signup.
func DefaultScopes() []Scope {
	return []Scope{
		{Name: ScopeAll, Description: "Access to every domain of the enterprise."},
		{Name: ScopeHumanResource, Description: "Human resources."},
		{Name: ScopeSells, Description: "Sales."},
		{Name: ScopePatrimonial, Description: "Patrimony and stock."},
	}
}
