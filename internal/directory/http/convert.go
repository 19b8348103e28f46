package http

import (
	"github.com/openferp/directory/internal/directory/domain"
	"github.com/openferp/directory/internal/directory/service"
	"github.com/openferp/directory/pkg/dirsdk"
)

func toUser(i domain.Identity) dirsdk.User {
	u := dirsdk.User{
		ID:           i.ID,
		Username:     i.Username,
		Email:        i.Email,
		FullName:     i.FullName,
		CreatedAt:    i.CreatedAt,
		EnterpriseID: i.EnterpriseID,
		Enterprise: dirsdk.Enterprise{
			ID:               i.Enterprise.ID,
			Name:             i.Enterprise.Name,
			AccountableEmail: i.Enterprise.AccountableEmail,
			ActivityType:     i.Enterprise.ActivityType,
		},
	}
	if i.Role != nil {
		u.Role = &dirsdk.RoleRef{ID: i.Role.ID, Name: i.Role.Name, Hierarchy: i.Role.Rank}
	}
	if i.Scope != nil {
		u.Scope = &dirsdk.ScopeRef{ID: i.Scope.ID, Name: i.Scope.Name}
	}
	return u
}

func toUsers(ids []domain.Identity) []dirsdk.User {
	out := make([]dirsdk.User, 0, len(ids))
	for _, i := range ids {
		out = append(out, toUser(i))
	}
	return out
}

func toEnterprise(e domain.Enterprise) dirsdk.Enterprise {
	return dirsdk.Enterprise{
		ID:               e.ID,
		Name:             e.Name,
		AccountableEmail: e.AccountableEmail,
		ActivityType:     e.ActivityType,
	}
}

func toFullEnterprise(f service.FullEnterprise) dirsdk.FullEnterprise {
	out := dirsdk.FullEnterprise{
		Enterprise: toEnterprise(f.Enterprise),
		Roles:      make([]dirsdk.Role, 0, len(f.Roles)),
		Scopes:     make([]dirsdk.Scope, 0, len(f.Scopes)),
		Users:      toUsers(f.Users),
	}
	for _, r := range f.Roles {
		out.Roles = append(out.Roles, dirsdk.Role{ID: r.ID, Name: r.Name, Description: r.Description, Hierarchy: r.Rank})
	}
	for _, s := range f.Scopes {
		out.Scopes = append(out.Scopes, dirsdk.Scope{ID: s.ID, Name: s.Name, Description: s.Description})
	}
	return out
}

func profilePatch(req dirsdk.UpdateMeRequest) domain.ProfilePatch {
	return domain.ProfilePatch{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	}
}

func userPatch(req dirsdk.UpdateUserRequest) domain.UserPatch {
	return domain.UserPatch{
		ProfilePatch: profilePatch(req.UpdateMeRequest),
		RoleID:       req.RoleID,
		RoleName:     req.RoleName,
		ScopeID:      req.ScopeID,
		ScopeName:    req.ScopeName,
	}
}
