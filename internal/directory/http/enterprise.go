package http

import (
	"net/http"

	"github.com/openferp/directory/internal/directory/domain"
	"github.com/openferp/directory/internal/directory/service"
	"github.com/openferp/directory/pkg/dirsdk"
	"github.com/openferp/directory/pkg/httpx"
)

type EnterpriseHandler struct {
	EnterpriseService *service.EnterpriseService
}

// HandleSignup creates an enterprise and its owner.
//
//	@Summary		Sign up an enterprise
//	@Description	Creates an enterprise with the default roles and scopes, and its first user as Owner in scope All.
//	@Tags			Enterprise
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dirsdk.SignupRequest					true	"Enterprise and owner"
//	@Success		201		{object}	dirsdk.Response[dirsdk.User]			"The owner"
//	@Failure		400		{object}	dirsdk.ErrorResponse					"Invalid input"
//	@Failure		409		{object}	dirsdk.ErrorResponse					"Email already registered"
//	@Failure		429		{object}	dirsdk.ErrorResponse					"Rate limited"
//	@Router			/enterprise/signup [post].
func (h *EnterpriseHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req dirsdk.SignupRequest
	if err := decodeBody(r, &req, false); err != nil {
		writeServiceError(w, r, err)
		return
	}

	owner, err := h.EnterpriseService.Signup(r.Context(), service.SignupRequest{
		Enterprise: service.SignupEnterprise{
			Name:             req.Enterprise.Name,
			AccountableEmail: req.Enterprise.AccountableEmail,
			ActivityType:     req.Enterprise.ActivityType,
		},
		User: service.SignupUser{
			Username: req.User.Username,
			Email:    req.User.Email,
			FullName: req.User.FullName,
			Password: req.User.Password,
		},
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusCreated, "enterprise created", toUser(owner))
}

// HandleGet returns the caller's enterprise.
//
//	@Summary	Get the caller's enterprise
//	@Tags		Enterprise
//	@Produce	json
//	@Success	200	{object}	dirsdk.Response[dirsdk.Enterprise]
//	@Failure	401	{object}	dirsdk.ErrorResponse	"Missing or invalid token"
//	@Security	BearerAuth
//	@Router		/enterprise [get].
func (h *EnterpriseHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	e, err := h.EnterpriseService.Get(r.Context(), me)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, "", toEnterprise(e))
}

// HandleGetFull returns the enterprise with its roles, scopes and users.
//
//	@Summary		Get the caller's enterprise with everything it owns
//	@Description	Requires scope All or HumanResource.
//	@Tags			Enterprise
//	@Produce		json
//	@Success		200	{object}	dirsdk.Response[dirsdk.FullEnterprise]
//	@Failure		401	{object}	dirsdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403	{object}	dirsdk.ErrorResponse	"Scope not allowed"
//	@Security		BearerAuth
//	@Router			/enterprise/full [get].
func (h *EnterpriseHandler) HandleGetFull(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	full, err := h.EnterpriseService.GetFull(r.Context(), me)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, "", toFullEnterprise(full))
}

// HandleUpdate patches the caller's enterprise.
//
//	@Summary		Update the caller's enterprise
//	@Description	Requires an Owner in scope All. Unknown fields are rejected.
//	@Tags			Enterprise
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dirsdk.UpdateEnterpriseRequest	true	"Fields to change"
//	@Success		200		{object}	dirsdk.Response[dirsdk.Enterprise]
//	@Failure		400		{object}	dirsdk.ErrorResponse	"Invalid input"
//	@Failure		401		{object}	dirsdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403		{object}	dirsdk.ErrorResponse	"Not an owner"
//	@Security		BearerAuth
//	@Router			/enterprise [put].
func (h *EnterpriseHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req dirsdk.UpdateEnterpriseRequest
	if err := decodeBody(r, &req, true); err != nil {
		writeServiceError(w, r, err)
		return
	}

	e, err := h.EnterpriseService.Update(r.Context(), me, domain.EnterprisePatch{
		Name:             req.Name,
		AccountableEmail: req.AccountableEmail,
		ActivityType:     req.ActivityType,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, "enterprise updated", toEnterprise(e))
}

// HandleDelete deletes the caller's enterprise with everything it owns.
//
//	@Summary		Delete the caller's enterprise
//	@Description	Requires an Owner in scope All. Users, roles and scopes are deleted with it.
//	@Tags			Enterprise
//	@Produce		json
//	@Success		200	{object}	dirsdk.ErrorResponse	"status ok"
//	@Failure		401	{object}	dirsdk.ErrorResponse	"Missing or invalid token"
//	@Failure		403	{object}	dirsdk.ErrorResponse	"Not an owner"
//	@Security		BearerAuth
//	@Router			/enterprise [delete].
func (h *EnterpriseHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.EnterpriseService.Delete(r.Context(), me); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, "enterprise deleted", nil)
}
