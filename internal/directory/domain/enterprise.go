package domain

// Enterprise is a tenant. It owns its roles, scopes and users.
type Enterprise struct {
	ID               string
	Name             string
	AccountableEmail string
	ActivityType     string
}

// EnterpriseHierarchy is an enterprise together with the role and scope sets
// it owns. It is the payload announced when an enterprise is created.
type EnterpriseHierarchy struct {
	Enterprise
	Roles  []Role
	Scopes []Scope
}

// HierarchyRow is one row of the Enterprise x Scope x Role join.
type HierarchyRow struct {
	Enterprise Enterprise
	Scope      Scope
	Role       Role
}
