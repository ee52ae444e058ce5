package commands

import (
	"context"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/ports"
)

// RejectOrderCommandHandler handles an invited interpreter declining an
// order. The interpreter moves to the rejected set, never to be re-invited
// by automated search, and the order is flagged for candidate
// recomputation on the next sweep. After the commit the rejecter gets a
// cancellation push acknowledging that their invitation is withdrawn.
type RejectOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

// NewRejectOrderCommandHandler creates a handler for order rejection.
func NewRejectOrderCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
) RejectOrderCommandHandler {
	return RejectOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the reject command.
// Declining when not a current candidate is a conflict so the caller
// learns their invitation is no longer live.
func (h RejectOrderCommandHandler) Handle(ctx context.Context, cmd RejectOrderCommand) error {
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

	rejectedOrder, err := ordersRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = rejectedOrder.RejectCandidate(cmd.InterpreterID()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, rejectedOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.Dispatch(ctx, ports.Notification{
		Kind:       ports.NotificationCancellation,
		OrderID:    rejectedOrder.ID(),
		PlatformID: rejectedOrder.Details().PlatformID,
		Targets:    []kernel.UUID{cmd.InterpreterID()},
	})

	return nil
}
