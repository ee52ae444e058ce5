package commands

import (
	"context"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/domain/model/order"
	"interpreting/internal/core/ports"
)

// AcceptOrderGroupCommandHandler handles an interpreter accepting every
// member order of a group at once.
//
// Group accept is all-or-nothing: every member's assignment is applied
// and written inside one transaction, so a version conflict on any member
// rolls back the whole operation and no order is left partially assigned.
// This is what makes a concurrent single-leg accept and a group accept
// mutually exclusive.
type AcceptOrderGroupCommandHandler struct {
	uowFactory   UoWFactory
	appointments ports.AppointmentService
	notifier     ports.Notifier
}

// NewAcceptOrderGroupCommandHandler creates a handler for group acceptance.
func NewAcceptOrderGroupCommandHandler(
	uowFactory UoWFactory,
	appointments ports.AppointmentService,
	notifier ports.Notifier,
) AcceptOrderGroupCommandHandler {
	return AcceptOrderGroupCommandHandler{
		uowFactory:   uowFactory,
		appointments: appointments,
		notifier:     notifier,
	}
}

// Handle processes the group accept command.
// Every member order must still be assignable and carry the interpreter
// among its candidates; the first failure aborts the transaction.
func (h AcceptOrderGroupCommandHandler) Handle(ctx context.Context, cmd AcceptOrderGroupCommand) error {
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

	accepted := make([]*order.Order, 0, len(group.OrderIDs()))
	losers := make([]kernel.UUID, 0)

	for _, orderID := range group.OrderIDs() {
		memberOrder, err := ordersRepo.Get(ctx, orderID)
		if err != nil {
			return err
		}

		losers = append(losers, withoutID(memberOrder.Candidates().Matched(), cmd.InterpreterID())...)

		if err = memberOrder.Assign(cmd.InterpreterID()); err != nil {
			return err
		}
		if err = ordersRepo.Update(ctx, memberOrder); err != nil {
			return err
		}
		accepted = append(accepted, memberOrder)
	}

	group.Candidates().Clear()
	if err = groupRepo.Update(ctx, group); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if targets := dedupeIDs(losers); len(targets) > 0 {
		h.notifier.Dispatch(ctx, ports.Notification{
			Kind:    ports.NotificationCancellation,
			OrderID: group.ID(),
			Targets: targets,
		})
	}

	for _, memberOrder := range accepted {
		if err := h.appointments.MarkAssigned(ctx, memberOrder.AppointmentID(), cmd.InterpreterID()); err != nil {
			return err
		}
	}
	return nil
}

func dedupeIDs(ids []kernel.UUID) []kernel.UUID {
	result := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		duplicate := false
		for _, kept := range result {
			if kept.IsEqual(id) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			result = append(result, id)
		}
	}
	return result
}
