package http

import (
	"net/http"

	"github.com/openferp/directory/internal/directory/service"
	"github.com/openferp/directory/internal/directory/store"
	"github.com/openferp/directory/pkg/dirsdk"
	"github.com/openferp/directory/pkg/httpx"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleCreate adds a user to the caller's enterprise.
//
//	@Summary		Create a user
//	@Description	The caller needs scope All or the new user's scope, and a rank at least as high as the new user's role.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dirsdk.CreateUserRequest		true	"New user"
//	@Success		201		{object}	dirsdk.Response[dirsdk.User]
//	@Failure		400		{object}	dirsdk.ErrorResponse	"Invalid input or unknown role/scope"
//	@Failure		401		{object}	dirsdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403		{object}	dirsdk.ErrorResponse	"Insufficient role or scope"
//	@Failure		409		{object}	dirsdk.ErrorResponse	"Email already registered"
//	@Security		BearerAuth
//	@Router			/users/ [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req dirsdk.CreateUserRequest
	if err := decodeBody(r, &req, false); err != nil {
		writeServiceError(w, r, err)
		return
	}

	u, err := h.UserService.Create(r.Context(), me, service.CreateUserRequest{
		Username:  req.Username,
		Email:     req.Email,
		FullName:  req.FullName,
		Password:  req.Password,
		RoleID:    req.RoleID,
		RoleName:  req.RoleName,
		ScopeID:   req.ScopeID,
		ScopeName: req.ScopeName,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusCreated, "user created", toUser(u))
}

// HandleMe returns the caller as currently stored.
//
//	@Summary	Get the caller
//	@Tags		Users
//	@Produce	json
//	@Success	200	{object}	dirsdk.Response[dirsdk.User]
//	@Failure	401	{object}	dirsdk.ErrorResponse	"Missing or invalid token"
//	@Security	BearerAuth
//	@Router		/users/me [get].
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	u, err := h.UserService.Me(r.Context(), me)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, "", toUser(u))
}

// HandleUpdateMe patches the caller's own profile.
//
//	@Summary		Update the caller's profile
//	@Description	Only username, email, full_name and password may be changed.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dirsdk.UpdateMeRequest	true	"Fields to change"
//	@Success		200		{object}	dirsdk.Response[dirsdk.User]
//	@Failure		400		{object}	dirsdk.ErrorResponse	"Invalid input or field not allowed"
//	@Failure		401		{object}	dirsdk.ErrorResponse	"Missing or invalid token"
//	@Failure		409		{object}	dirsdk.ErrorResponse	"Email already registered"
//	@Security		BearerAuth
//	@Router			/users/me [put].
func (h *UsersHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req dirsdk.UpdateMeRequest
	if err := decodeBody(r, &req, true); err != nil {
		writeServiceError(w, r, err)
		return
	}

	u, err := h.UserService.UpdateMe(r.Context(), me, profilePatch(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, "user updated", toUser(u))
}

// HandleList lists the users of the caller's enterprise.
//
//	@Summary		List users
//	@Description	Requires an Owner in scope All. List filters accept repeated or comma separated values.
//	@Tags			Users
//	@Produce		json
//	@Param			scope_names	query		[]string	false	"Scope names"
//	@Param			scope_ids	query		[]string	false	"Scope ids"
//	@Param			role_names	query		[]string	false	"Role names"
//	@Param			role_ids	query		[]string	false	"Role ids"
//	@Param			usernames	query		[]string	false	"Username fragments"
//	@Param			emails		query		[]string	false	"Email fragments"
//	@Success		200			{object}	dirsdk.Response[[]dirsdk.User]
//	@Failure		401			{object}	dirsdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403			{object}	dirsdk.ErrorResponse	"Not an owner"
//	@Security		BearerAuth
//	@Router			/users/ [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	users, err := h.UserService.List(r.Context(), me, store.UserFilter{
		ScopeNames: httpx.QueryList(r, "scope_names"),
		ScopeIDs:   httpx.QueryList(r, "scope_ids"),
		RoleNames:  httpx.QueryList(r, "role_names"),
		RoleIDs:    httpx.QueryList(r, "role_ids"),
		Usernames:  httpx.QueryList(r, "usernames"),
		Emails:     httpx.QueryList(r, "emails"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, "", toUsers(users))
}

// HandleGet returns one user of the caller's enterprise.
//
//	@Summary	Get a user
//	@Tags		Users
//	@Produce	json
//	@Param		id	path		string	true	"User id"
//	@Success	200	{object}	dirsdk.Response[dirsdk.User]
//	@Failure	401	{object}	dirsdk.ErrorResponse	"Missing or invalid token"
//	@Failure	403	{object}	dirsdk.ErrorResponse	"Insufficient role or scope"
//	@Failure	404	{object}	dirsdk.ErrorResponse	"No such user"
//	@Security	BearerAuth
//	@Router		/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	u, err := h.UserService.Get(r.Context(), me, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, "", toUser(u))
}

// HandleUpdate patches another user of the caller's enterprise.
//
//	@Summary		Update a user
//	@Description	Moving a user to another role or scope needs authority over both the old and the new one.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"User id"
//	@Param			request	body		dirsdk.UpdateUserRequest	true	"Fields to change"
//	@Success		200		{object}	dirsdk.Response[dirsdk.User]
//	@Failure		400		{object}	dirsdk.ErrorResponse	"Invalid input or unknown role/scope"
//	@Failure		401		{object}	dirsdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403		{object}	dirsdk.ErrorResponse	"Insufficient role or scope"
//	@Failure		404		{object}	dirsdk.ErrorResponse	"No such user"
//	@Security		BearerAuth
//	@Router			/users/{id} [put].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req dirsdk.UpdateUserRequest
	if err := decodeBody(r, &req, true); err != nil {
		writeServiceError(w, r, err)
		return
	}

	u, err := h.UserService.Update(r.Context(), me, r.PathValue("id"), userPatch(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, "user updated", toUser(u))
}

// HandleDelete removes a user of the caller's enterprise.
//
//	@Summary	Delete a user
//	@Tags		Users
//	@Produce	json
//	@Param		id	path		string	true	"User id"
//	@Success	200	{object}	dirsdk.ErrorResponse	"status ok"
//	@Failure	401	{object}	dirsdk.ErrorResponse	"Missing or invalid token"
//	@Failure	403	{object}	dirsdk.ErrorResponse	"Insufficient role or scope"
//	@Failure	404	{object}	dirsdk.ErrorResponse	"No such user"
//	@Security	BearerAuth
//	@Router		/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.UserService.Delete(r.Context(), me, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, "user deleted", nil)
}
