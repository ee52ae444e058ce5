package commands

import (
	"context"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
	"interpreting/internal/core/ports"
)

// RefuseOrderGroupCommandHandler cancels every member order of a group
// and removes the group itself. All removals commit together; the
// post-commit notifications and appointment callbacks mirror the
// single-order refuse path per member.
type RefuseOrderGroupCommandHandler struct {
	uowFactory   UoWFactory
	appointments ports.AppointmentService
	notifier     ports.Notifier
}

// NewRefuseOrderGroupCommandHandler creates a handler for group cancellation.
func NewRefuseOrderGroupCommandHandler(
	uowFactory UoWFactory,
	appointments ports.AppointmentService,
	notifier ports.Notifier,
) RefuseOrderGroupCommandHandler {
	return RefuseOrderGroupCommandHandler{
		uowFactory:   uowFactory,
		appointments: appointments,
		notifier:     notifier,
	}
}

// Handle processes the group refuse command.
func (h RefuseOrderGroupCommandHandler) Handle(ctx context.Context, cmd RefuseOrderGroupCommand) error {
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

	groupRepo := uow.GroupRepository()
	ordersRepo := uow.OrderRepository()

	group, err := groupRepo.Get(ctx, cmd.GroupID())
	if err != nil {
		return err
	}

	refused := make([]*order.Order, 0, len(group.OrderIDs()))
	invited := make([]kernel.UUID, 0)

	for _, orderID := range group.OrderIDs() {
		memberOrder, err := ordersRepo.Get(ctx, orderID)
		if err != nil {
			return err
		}

		invited = append(invited, memberOrder.Candidates().Matched()...)

		if err = memberOrder.Refuse(); err != nil {
			return err
		}
		if err = ordersRepo.Delete(ctx, memberOrder.ID()); err != nil {
			return err
		}
		refused = append(refused, memberOrder)
	}

	if err = groupRepo.Delete(ctx, group.ID()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if targets := dedupeIDs(invited); len(targets) > 0 {
		h.notifier.Dispatch(ctx, ports.Notification{
			Kind:    ports.NotificationCancellation,
			OrderID: group.ID(),
			Targets: targets,
		})
	}

	for _, memberOrder := range refused {
		if err := h.appointments.MarkCancelled(ctx, memberOrder.AppointmentID()); err != nil {
			return err
		}
	}
	return nil
}
