package http

import (
	"net/http"

	"github.com/openferp/directory/internal/directory/service"
	"github.com/openferp/directory/pkg/dirsdk"
	"github.com/openferp/directory/pkg/httpx"
)

type SessionHandler struct {
	SessionService *service.SessionService
}

func toTokenResponse(p service.TokenPair) dirsdk.TokenResponse {
	return dirsdk.TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
		ExpiresIn:    int(p.ExpiresIn),
	}
}

// HandleLogin exchanges an email and password for a token pair.
//
//	@Summary		Log in
//	@Description	OAuth2 password form. The username field carries the email.
//	@Tags			Session
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string	true	"Email"
//	@Param			password	formData	string	true	"Password"
//	@Success		200			{object}	dirsdk.Response[dirsdk.TokenResponse]
//	@Failure		400			{object}	dirsdk.ErrorResponse	"Malformed form"
//	@Failure		401			{object}	dirsdk.ErrorResponse	"Invalid email or password"
//	@Failure		429			{object}	dirsdk.ErrorResponse	"Rate limited"
//	@Router			/auth/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.StatusInvalidInput, "invalid form body")
		return
	}

	pair, err := h.SessionService.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, "", toTokenResponse(pair))
}

// HandleRefresh exchanges a refresh token for a new token pair.
//
//	@Summary		Refresh a session
//	@Description	The identity is re-read, so role and scope changes reach the new access token.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dirsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	dirsdk.Response[dirsdk.TokenResponse]
//	@Failure		401		{object}	dirsdk.ErrorResponse	"Invalid or expired refresh token"
//	@Router			/auth/refresh [post].
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req dirsdk.RefreshRequest
	if err := decodeBody(r, &req, false); err != nil {
		writeServiceError(w, r, err)
		return
	}

	pair, err := h.SessionService.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, "", toTokenResponse(pair))
}
