package dirsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// ============================================================================
// Self Service
// ============================================================================

// Me returns the caller as currently stored.
func (s *Session) Me(ctx context.Context) (*User, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/users/me", nil, nil)
	if err != nil {
		return nil, err
	}

	var u User
	if err := decodeData(resp, &u, http.StatusOK); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateMe patches the caller's own profile.
func (s *Session) UpdateMe(ctx context.Context, req UpdateMeRequest) (*User, error) {
	return s.putUser(ctx, "/users/me", req)
}

// ============================================================================
// User Administration
// ============================================================================

// CreateUser adds a user to the caller's enterprise.
func (s *Session) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	body, headers, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/users/", body, headers)
	if err != nil {
		return nil, err
	}

	var u User
	if err := decodeData(resp, &u, http.StatusCreated); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUser returns a user of the caller's enterprise.
func (s *Session) GetUser(ctx context.Context, id string) (*User, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var u User
	if err := decodeData(resp, &u, http.StatusOK); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers lists the users of the caller's enterprise. Requires an owner in
// scope All.
func (s *Session) ListUsers(ctx context.Context, f UserFilter) ([]User, error) {
	q := url.Values{}
	add := func(key string, vals []string) {
		if len(vals) > 0 {
			q.Set(key, strings.Join(vals, ","))
		}
	}
	add("scope_names", f.ScopeNames)
	add("scope_ids", f.ScopeIDs)
	add("role_names", f.RoleNames)
	add("role_ids", f.RoleIDs)
	add("usernames", f.Usernames)
	add("emails", f.Emails)

	path := "/users/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	users := []User{}
	if err := decodeData(resp, &users, http.StatusOK); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser patches another user of the caller's enterprise.
func (s *Session) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	return s.putUser(ctx, "/users/"+url.PathEscape(id), req)
}

// DeleteUser removes a user of the caller's enterprise.
func (s *Session) DeleteUser(ctx context.Context, id string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	return decodeData(resp, nil, http.StatusOK)
}

func (s *Session) putUser(ctx context.Context, path string, req any) (*User, error) {
	body, headers, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPut, path, body, headers)
	if err != nil {
		return nil, err
	}

	var u User
	if err := decodeData(resp, &u, http.StatusOK); err != nil {
		return nil, err
	}
	return &u, nil
}
