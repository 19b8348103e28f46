package dirsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SDKClient is a client for the directory service. It covers the public
// endpoints and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a directory client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Signup creates an enterprise together with its owner and returns the
// owner.
func (c *SDKClient) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	body, headers, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/enterprise/signup", body, headers)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeData(resp, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges an email and password for a token pair.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	data := url.Values{
		"username": {email},
		"password": {password},
	}
	headers := map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/login", strings.NewReader(data.Encode()), headers)
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := decodeData(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	body, headers, err := jsonBody(RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/refresh", body, headers)
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := decodeData(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return &tok, nil
}

// AuthenticateWithPassword logs in and wraps the token pair in a Session.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, email, password string) (*Session, error) {
	tok, err := c.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return newSession(c, tok), nil
}

// AuthenticateWithRefreshToken creates a session from a stored refresh
// token.
func (c *SDKClient) AuthenticateWithRefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	tok, err := c.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return newSession(c, tok), nil
}

// NewSessionFromTokens creates a session from tokens obtained elsewhere. It
// still refreshes once the access token expires.
func (c *SDKClient) NewSessionFromTokens(accessToken, refreshToken string, expiresIn int) *Session {
	return newSession(c, &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service and its dependencies are ready. A
// service that is not ready yields an *APIError with status 503.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *SDKClient) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeData(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetJWKS fetches the public session verification keys.
func (c *SDKClient) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/.well-known/jwks.json", nil, nil)
	if err != nil {
		return nil, err
	}

	var set JWKSResponse
	if err := decodeData(resp, &set, http.StatusOK); err != nil {
		return nil, err
	}
	return &set, nil
}
