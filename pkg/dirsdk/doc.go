/*
Package dirsdk provides a client SDK for the OpenFERP directory service.

# Overview

The directory manages enterprises, their users and the role/scope hierarchy
that gates every change. The package is organized around two types:

  - SDKClient: public endpoints (signup, login, refresh, health) and
    creation of authenticated sessions
  - Session: authenticated operations with automatic token refresh

Create an SDKClient and sign up an enterprise. The signing user becomes its
Owner in scope All:

	client := dirsdk.NewSDKClient("https://directory.example.com")

	owner, err := client.Signup(ctx, dirsdk.SignupRequest{
		Enterprise: dirsdk.SignupEnterprise{Name: "Acme", AccountableEmail: "contact@acme.test"},
		User:       dirsdk.SignupUser{Username: "bob", Email: "bob@acme.test", Password: "s3cret!"},
	})

Log in to get a Session:

	session, err := client.AuthenticateWithPassword(ctx, "bob@acme.test", "s3cret!")

	ent, err := session.GetEnterprise(ctx)

	carl, err := session.CreateUser(ctx, dirsdk.CreateUserRequest{
		Username:  "carl",
		Email:     "carl@acme.test",
		Password:  "s3cret!",
		RoleName:  "Collaborator",
		ScopeName: "Sells",
	})

# Errors

Failed requests return an *APIError carrying the HTTP status and the
envelope status. Compare with the predefined values:

	if errors.Is(err, dirsdk.ErrForbidden) {
		// the caller's role or scope does not allow this
	}

# Token Refresh

Sessions refresh their access token 30 seconds before it expires, using
the refresh token from the last login or refresh. Sessions are safe for
concurrent use.
*/
package dirsdk
