// Package service holds the directory write paths: signup, enterprise and
// user administration, sessions and the application of external events.
// Every mutation runs in one unit of work and is announced after commit.
package service

import (
	"errors"
	"fmt"

	"github.com/openferp/directory/internal/directory/authz"
	"github.com/openferp/directory/internal/directory/domain"
	"github.com/openferp/directory/internal/directory/store"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidInput       = errors.New("invalid_input")
	ErrConflict           = errors.New("conflict")

	// ErrForbidden is the authorization denial. Denials returned by the
	// services wrap it.
	ErrForbidden = authz.ErrForbidden

	// ErrHierarchyNotFound is returned by user listing when the role or scope
	// filter names nothing that exists in the enterprise.
	ErrHierarchyNotFound = fmt.Errorf("%w: roles and scopes not found for this enterprise", ErrNotFound)

	// ErrLastOwner rejects deleting or demoting the only Owner with the All
	// scope of an enterprise.
	ErrLastOwner = fmt.Errorf("%w: the enterprise must keep an Owner with the All scope", ErrConflict)
)

// translate maps store and domain errors onto the service sentinels. Other
// errors are returned untouched and surface as internal failures.
func translate(err error) error {
	var fe *domain.FieldError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidInput), errors.Is(err, ErrForbidden),
		errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		return err
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, store.ErrConflict):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.As(err, &fe):
		return fmt.Errorf("%w: %s", ErrInvalidInput, fe.Error())
	case errors.Is(err, domain.ErrInvalidField):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return err
}

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
