package commands

import (
	"context"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/ports"
)

// AddInterpreterToOrderCommandHandler handles the operator override that
// force-invites an interpreter onto an order. The override bypasses tier
// rules and even a previous rejection, but acceptance still goes through
// the same race-safe path as every other candidate.
type AddInterpreterToOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

// NewAddInterpreterToOrderCommandHandler creates a handler for the
// operator override.
func NewAddInterpreterToOrderCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
) AddInterpreterToOrderCommandHandler {
	return AddInterpreterToOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the override command and sends the invitation to the
// added interpreter after the commit.
func (h AddInterpreterToOrderCommandHandler) Handle(ctx context.Context, cmd AddInterpreterToOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	targetOrder, err := ordersRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = targetOrder.AddCandidate(cmd.InterpreterID()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, targetOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.Dispatch(ctx, ports.Notification{
		Kind:       ports.NotificationInvitation,
		OrderID:    targetOrder.ID(),
		PlatformID: targetOrder.Details().PlatformID,
		Targets:    []kernel.UUID{cmd.InterpreterID()},
	})
	return nil
}
