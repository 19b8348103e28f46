package dirsdk

import "time"

// ============================================================================
// Envelope
// ============================================================================

// Response is the body of every directory response. Data is absent on
// errors and on responses that carry nothing.
type Response[T any] struct {
	// Status is "ok" on success, otherwise one of the Status* error codes
	Status string `json:"status"`

	// Message is a human-readable summary
	Message string `json:"message,omitempty"`

	Data T `json:"data,omitempty"`
}

// ErrorResponse is the envelope of a failed request.
type ErrorResponse struct {
	Status  string `json:"status" example:"forbidden"`
	Message string `json:"message" example:"forbidden"`
}

// ============================================================================
// Identity Types
// ============================================================================

// RoleRef is the role of a user. Lower hierarchy means more privilege.
type RoleRef struct {
	ID        string `json:"id"`
	Name      string `json:"name" example:"Owner"`
	Hierarchy int    `json:"hierarchy" example:"1"`
}

// ScopeRef is the scope of a user.
type ScopeRef struct {
	ID   string `json:"id"`
	Name string `json:"name" example:"All"`
}

// Enterprise is a tenant of the directory.
type Enterprise struct {
	ID               string `json:"id"`
	Name             string `json:"name" example:"Acme"`
	AccountableEmail string `json:"accountable_email" example:"contact@acme.test"`
	ActivityType     string `json:"activity_type" example:"retail"`
}

// User is a user resolved against its role, scope and enterprise.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username" example:"bob"`
	Email        string     `json:"email" example:"bob@acme.test"`
	FullName     string     `json:"full_name" example:"Bob Builder"`
	CreatedAt    time.Time  `json:"created_at"`
	EnterpriseID string     `json:"enterprise_id"`
	Role         *RoleRef   `json:"role"`
	Scope        *ScopeRef  `json:"scope"`
	Enterprise   Enterprise `json:"enterprise"`
}

// Role is a role definition of an enterprise.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Hierarchy   int    `json:"hierarchy"`
}

// Scope is a scope definition of an enterprise.
type Scope struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// FullEnterprise is an enterprise with its roles, scopes and users.
type FullEnterprise struct {
	Enterprise
	Roles  []Role  `json:"roles"`
	Scopes []Scope `json:"scopes"`
	Users  []User  `json:"users"`
}

// ============================================================================
// Request Types
// ============================================================================

// SignupRequest creates an enterprise and its owner.
type SignupRequest struct {
	Enterprise SignupEnterprise `json:"enterprise"`
	User       SignupUser       `json:"user"`
}

type SignupEnterprise struct {
	Name             string `json:"name" example:"Acme"`
	AccountableEmail string `json:"accountable_email" example:"contact@acme.test"`
	ActivityType     string `json:"activity_type,omitempty" example:"retail"`
}

type SignupUser struct {
	Username string `json:"username" example:"bob"`
	Email    string `json:"email" example:"bob@acme.test"`
	FullName string `json:"full_name,omitempty" example:"Bob Builder"`
	Password string `json:"password" example:"s3cret!"`
}

// CreateUserRequest adds a user. Role and scope are each given by id or name.
type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	Password  string `json:"password"`
	RoleID    string `json:"role_id,omitempty"`
	RoleName  string `json:"role_name,omitempty" example:"Collaborator"`
	ScopeID   string `json:"scope_id,omitempty"`
	ScopeName string `json:"scope_name,omitempty" example:"Sells"`
}

// UpdateMeRequest is the self-service profile patch. Nil fields are left as
// they are.
type UpdateMeRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// UpdateUserRequest is the administrative user patch.
type UpdateUserRequest struct {
	UpdateMeRequest
	RoleID    *string `json:"role_id,omitempty"`
	RoleName  *string `json:"role_name,omitempty"`
	ScopeID   *string `json:"scope_id,omitempty"`
	ScopeName *string `json:"scope_name,omitempty"`
}

// UpdateEnterpriseRequest patches the caller's enterprise.
type UpdateEnterpriseRequest struct {
	Name             *string `json:"name,omitempty"`
	AccountableEmail *string `json:"accountable_email,omitempty"`
	ActivityType     *string `json:"activity_type,omitempty"`
}

// UserFilter narrows ListUsers. Empty fields do not filter.
type UserFilter struct {
	ScopeNames []string
	ScopeIDs   []string
	RoleNames  []string
	RoleIDs    []string
	Usernames  []string
	Emails     []string
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ============================================================================
// Token Types
// ============================================================================

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type" example:"bearer"`
	ExpiresIn    int    `json:"expires_in" example:"1800"`
}

// ============================================================================
// System Types
// ============================================================================

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the readiness of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Broker   string `json:"broker"`
}

// JWK is a published verification key.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
	Kid string `json:"kid,omitempty"`
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
}

// JWKSResponse lists the session verification keys. It is empty when tokens
// are signed with a shared secret.
type JWKSResponse struct {
	Keys []JWK `json:"keys"`
}
