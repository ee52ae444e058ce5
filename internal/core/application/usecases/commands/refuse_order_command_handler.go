package commands

import (
	"context"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
	"interpreting/internal/core/ports"
)

// RefuseOrderCommandHandler handles client or operator cancellation.
// Refusal is terminal: the order is removed from storage, the parent group
// sheds the member (and is deleted once emptied), the appointment side is
// told, and every invited interpreter receives a cancellation.
type RefuseOrderCommandHandler struct {
	uowFactory   UoWFactory
	appointments ports.AppointmentService
	notifier     ports.Notifier
}

// NewRefuseOrderCommandHandler creates a handler for order cancellation.
func NewRefuseOrderCommandHandler(
	uowFactory UoWFactory,
	appointments ports.AppointmentService,
	notifier ports.Notifier,
) RefuseOrderCommandHandler {
	return RefuseOrderCommandHandler{
		uowFactory:   uowFactory,
		appointments: appointments,
		notifier:     notifier,
	}
}

// Handle processes the refuse command.
// Refusing an already resolved order is a conflict.
func (h RefuseOrderCommandHandler) Handle(ctx context.Context, cmd RefuseOrderCommand) error {
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

	refusedOrder, err := ordersRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	invited := refusedOrder.Candidates().Matched()

	if err = refusedOrder.Refuse(); err != nil {
		return err
	}

	if err = ordersRepo.Delete(ctx, refusedOrder.ID()); err != nil {
		return err
	}

	if groupID := refusedOrder.Details().GroupID; groupID != nil {
		if err = detachFromGroup(ctx, uow, *groupID, refusedOrder.ID()); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.dispatchCancellation(ctx, refusedOrder, invited)

	return h.appointments.MarkCancelled(ctx, refusedOrder.AppointmentID())
}

func (h RefuseOrderCommandHandler) dispatchCancellation(ctx context.Context, refusedOrder *order.Order, targets []kernel.UUID) {
	if len(targets) == 0 {
		return
	}
	h.notifier.Dispatch(ctx, ports.Notification{
		Kind:       ports.NotificationCancellation,
		OrderID:    refusedOrder.ID(),
		PlatformID: refusedOrder.Details().PlatformID,
		Targets:    targets,
	})
}

// detachFromGroup removes a member order and deletes the group once its
// last member is gone.
func detachFromGroup(ctx context.Context, uow UoW, groupID, orderID kernel.UUID) error {
	groupRepo := uow.GroupRepository()

	group, err := groupRepo.Get(ctx, groupID)
	if err != nil {
		return err
	}

	if err = group.RemoveOrder(orderID); err != nil {
		return err
	}
	if group.IsEmpty() {
		return groupRepo.Delete(ctx, group.ID())
	}
	return groupRepo.Update(ctx, group)
}
