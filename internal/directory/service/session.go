package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openferp/directory/internal/directory/domain"
	"github.com/openferp/directory/internal/directory/store"
	"github.com/openferp/directory/pkg/cryptox"
	"github.com/openferp/directory/pkg/jwtx"
	"github.com/openferp/directory/pkg/slogx"
)

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// refreshSubject is all a refresh token carries. The identity is re-read on
// refresh so role and scope changes reach the next access token.
type refreshSubject struct {
	ID           string `json:"id"`
	EnterpriseID string `json:"enterprise_id"`
}

// SessionService issues and checks session tokens. The access token subject
// is the full Identity, so authenticated requests need no lookup.
type SessionService struct {
	Store  store.Store
	Hasher cryptox.PasswordHasher

	Access  *jwtx.Issuer
	Refresh *jwtx.Issuer

	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Login exchanges an email and password for a token pair. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	log := slogx.Component(ctx, "session", "service")

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return TokenPair{}, ErrInvalidCredentials
	}

	ident, hash, err := s.Store.Users().GetIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("login for unknown email")
			return TokenPair{}, ErrInvalidCredentials
		}
		log.Error("failed to load user for login", slogx.KeyErr, err)
		return TokenPair{}, err
	}

	if err := s.Hasher.Verify(password, hash); err != nil {
		if errors.Is(err, cryptox.ErrInvalidHash) {
			log.Error("stored password hash is unreadable", slog.String("user_id", ident.ID), slogx.KeyErr, err)
		} else {
			log.Info("login with wrong password", slog.String("user_id", ident.ID))
		}
		return TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issue(ident)
	if err != nil {
		log.Error("failed to issue tokens", slog.String("user_id", ident.ID), slogx.KeyErr, err)
		return TokenPair{}, err
	}

	log.Info("user logged in", slog.String("user_id", ident.ID), slog.String("enterprise_id", ident.EnterpriseID))
	return pair, nil
}

// RefreshTokens exchanges a refresh token for a new pair built from the
// stored identity. A user deleted since the last login cannot refresh.
func (s *SessionService) RefreshTokens(ctx context.Context, token string) (TokenPair, error) {
	log := slogx.Component(ctx, "session", "service")

	var sub refreshSubject
	if _, err := s.Refresh.Verify(token, &sub); err != nil {
		log.Info("refresh token rejected", slogx.KeyErr, err)
		return TokenPair{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	ident, err := s.Store.Users().GetIdentity(ctx, sub.EnterpriseID, sub.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TokenPair{}, fmt.Errorf("%w: user no longer exists", ErrUnauthenticated)
		}
		return TokenPair{}, err
	}

	return s.issue(ident)
}

// Authenticate verifies an access token and returns its identity. It
// implements httpx.Authenticator.
func (s *SessionService) Authenticate(_ context.Context, token string) (string, any, error) {
	var ident domain.Identity
	if _, err := s.Access.Verify(token, &ident); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if ident.ID == "" || ident.EnterpriseID == "" {
		return "", nil, fmt.Errorf("%w: token subject is not an identity", ErrUnauthenticated)
	}
	return ident.ID, ident, nil
}

func (s *SessionService) issue(ident domain.Identity) (TokenPair, error) {
	accessTTL := s.AccessTTL
	if accessTTL <= 0 {
		accessTTL = jwtx.DefaultAccessTokenTTL
	}
	refreshTTL := s.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = jwtx.DefaultRefreshTokenTTL
	}

	access, _, err := s.Access.Issue(ident, accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := s.Refresh.Issue(refreshSubject{ID: ident.ID, EnterpriseID: ident.EnterpriseID}, refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(accessTTL.Seconds()),
	}, nil
}
