package dirsdk

import (
	"context"
	"net/http"
)

// GetEnterprise returns the caller's enterprise.
func (s *Session) GetEnterprise(ctx context.Context) (*Enterprise, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/enterprise", nil, nil)
	if err != nil {
		return nil, err
	}

	var e Enterprise
	if err := decodeData(resp, &e, http.StatusOK); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetFullEnterprise returns the caller's enterprise with its roles, scopes
// and users. Requires scope All or HumanResource.
func (s *Session) GetFullEnterprise(ctx context.Context) (*FullEnterprise, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/enterprise/full", nil, nil)
	if err != nil {
		return nil, err
	}

	var e FullEnterprise
	if err := decodeData(resp, &e, http.StatusOK); err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateEnterprise patches the caller's enterprise. Requires an owner in
// scope All.
func (s *Session) UpdateEnterprise(ctx context.Context, req UpdateEnterpriseRequest) (*Enterprise, error) {
	body, headers, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPut, "/enterprise", body, headers)
	if err != nil {
		return nil, err
	}

	var e Enterprise
	if err := decodeData(resp, &e, http.StatusOK); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEnterprise deletes the caller's enterprise with all of its users,
// roles and scopes. The session is useless afterwards.
func (s *Session) DeleteEnterprise(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/enterprise", nil, nil)
	if err != nil {
		return err
	}
	return decodeData(resp, nil, http.StatusOK)
}
