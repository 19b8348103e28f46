//go:build e2e

package directory_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openferp/directory/pkg/dirsdk"
)

// TestUserLifecycle creates, lists, updates and deletes users as the owner.
func TestUserLifecycle(t *testing.T) {
	client := setupDirectoryContainer(t)
	ctx := t.Context()

	owner, admin := signupEnterprise(t, client, "Acme")
	seller, _ := createMember(t, client, admin, "sam", "Collaborator", "Sells")
	_, _ = createMember(t, client, admin, "hank", "Manager", "HumanResource")

	all, err := admin.ListUsers(ctx, dirsdk.UserFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	sells, err := admin.ListUsers(ctx, dirsdk.UserFilter{ScopeNames: []string{"Sells"}})
	require.NoError(t, err)
	require.Len(t, sells, 1)
	require.Equal(t, seller.ID, sells[0].ID)

	fullName := "Samantha Seller"
	updated, err := admin.UpdateUser(ctx, seller.ID, dirsdk.UpdateUserRequest{
		UpdateMeRequest: dirsdk.UpdateMeRequest{FullName: &fullName},
	})
	require.NoError(t, err)
	require.Equal(t, fullName, updated.FullName)

	require.NoError(t, admin.DeleteUser(ctx, seller.ID))
	_, err = admin.GetUser(ctx, seller.ID)
	assertAPIError(t, err, dirsdk.ErrNotFound, "deleted user")

	full, err := admin.GetFullEnterprise(ctx)
	require.NoError(t, err)
	require.Equal(t, owner.Enterprise.ID, full.ID)
	require.Len(t, full.Users, 2)
	require.NotEmpty(t, full.Roles)
	require.NotEmpty(t, full.Scopes)
}

// TestLowerRankCannotActOnHigherRank verifies the rank and scope rules.
func TestLowerRankCannotActOnHigherRank(t *testing.T) {
	client := setupDirectoryContainer(t)
	ctx := t.Context()

	_, admin := signupEnterprise(t, client, "Acme")
	manager, managerSession := createMember(t, client, admin, "mona", "Manager", "Sells")
	collaborator, collaboratorSession := createMember(t, client, admin, "cole", "Collaborator", "Sells")

	err := collaboratorSession.DeleteUser(ctx, manager.ID)
	assertAPIError(t, err, dirsdk.ErrForbidden, "collaborator deleting a manager")

	_, err = collaboratorSession.ListUsers(ctx, dirsdk.UserFilter{})
	assertAPIError(t, err, dirsdk.ErrForbidden, "collaborator listing users")

	err = collaboratorSession.DeleteEnterprise(ctx)
	assertAPIError(t, err, dirsdk.ErrForbidden, "collaborator deleting the enterprise")

	// A manager may manage collaborators of its own scope.
	require.NoError(t, managerSession.DeleteUser(ctx, collaborator.ID))
}

// TestTenantsAreIsolated verifies one enterprise cannot see another's users.
func TestTenantsAreIsolated(t *testing.T) {
	client := setupDirectoryContainer(t)
	ctx := t.Context()

	acmeOwner, _ := signupEnterprise(t, client, "Acme")
	_, globex := signupEnterprise(t, client, "Globex")

	_, err := globex.GetUser(ctx, acmeOwner.ID)
	assertAPIError(t, err, dirsdk.ErrNotFound, "user of another enterprise")

	users, err := globex.ListUsers(ctx, dirsdk.UserFilter{})
	require.NoError(t, err)
	require.Len(t, users, 1)
}

// TestSelfServiceProfile verifies a member can edit its own profile but not
// its role.
func TestSelfServiceProfile(t *testing.T) {
	client := setupDirectoryContainer(t)
	ctx := t.Context()

	_, admin := signupEnterprise(t, client, "Acme")
	_, session := createMember(t, client, admin, "pat", "Collaborator", "Patrimonial")

	name := "Pat Patrimonial"
	me, err := session.UpdateMe(ctx, dirsdk.UpdateMeRequest{FullName: &name})
	require.NoError(t, err)
	require.Equal(t, name, me.FullName)
	require.Equal(t, "Collaborator", me.Role.Name)
}

// TestEnterpriseUpdateAndDelete verifies the owner can edit and close the enterprise.
func TestEnterpriseUpdateAndDelete(t *testing.T) {
	client := setupDirectoryContainer(t)
	ctx := t.Context()

	owner, admin := signupEnterprise(t, client, "Acme")

	name := "Acme Corporation"
	ent, err := admin.UpdateEnterprise(ctx, dirsdk.UpdateEnterpriseRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, ent.Name)

	require.NoError(t, admin.DeleteEnterprise(ctx))

	_, err = client.Login(ctx, owner.Email, ownerPassword)
	assertAPIError(t, err, dirsdk.ErrUnauthenticated, "login after enterprise deletion")
}
