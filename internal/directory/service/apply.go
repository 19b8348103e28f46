package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openferp/directory/internal/directory/domain"
	"github.com/openferp/directory/internal/directory/events"
	"github.com/openferp/directory/internal/directory/messaging"
	"github.com/openferp/directory/pkg/slogx"
)

// Applier applies events published by other services through the same
// write paths the HTTP surface uses. It implements messaging.Handler.
//
// Applied changes are not announced again; the producer already did.
type Applier struct {
	Users       *UserService
	Enterprises *EnterpriseService
}

var errIgnored = errors.New("event not handled by the directory")

func (a *Applier) Apply(ctx context.Context, env events.Envelope) messaging.Result {
	log := slogx.Component(ctx, "applier", "service")

	var err error
	switch d := env.Data.(type) {
	case events.UserUpdatedData:
		var c userChange
		c, err = a.Users.applyUpdate(ctx, d.Enterprise, d.ID, d.Patch(), nil)
		if err == nil {
			log.Info("user update applied",
				slog.String("user_id", d.ID),
				slog.Bool("changed", c.visible() || c.passwordChanged),
			)
		}

	case events.EnterpriseUpdatedData:
		var changed domain.EnterprisePatch
		_, changed, err = a.Enterprises.applyPatch(ctx, d.ID, d.EnterprisePatch)
		if err == nil {
			log.Info("enterprise update applied", slog.String("enterprise_id", d.ID), slog.Bool("changed", !changed.IsEmpty()))
		}

	default:
		return messaging.DroppedResult(fmt.Errorf("%w: %s", errIgnored, env.Event))
	}

	return classify(err)
}

// classify turns a write path error into a consumer result. Errors that
// would fail the same way on every redelivery are dropped.
func classify(err error) messaging.Result {
	switch {
	case err == nil:
		return messaging.AppliedResult()
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrForbidden):
		return messaging.DroppedResult(err)
	}
	return messaging.RetryResult(err)
}
