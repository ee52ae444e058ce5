package commands

import (
	"context"

	"interpreting/internal/core/domain/model/kernel"
	"interpreting/internal/core/ports"
)

// RejectOrderGroupCommandHandler handles an interpreter declining a whole
// group. The decline cascades to every member order where the interpreter
// is currently invited; members where they never were a candidate are
// left untouched rather than failing the whole operation. The rejecter
// gets one cancellation push for the group after the commit.
type RejectOrderGroupCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
}

// NewRejectOrderGroupCommandHandler creates a handler for group rejection.
func NewRejectOrderGroupCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
) RejectOrderGroupCommandHandler {
	return RejectOrderGroupCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the group reject command within one transaction.
func (h RejectOrderGroupCommandHandler) Handle(ctx context.Context, cmd RejectOrderGroupCommand) error {
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

	rejectedAny := false
	for _, orderID := range group.OrderIDs() {
		memberOrder, err := ordersRepo.Get(ctx, orderID)
		if err != nil {
			return err
		}
		if !memberOrder.Candidates().IsMatched(cmd.InterpreterID()) {
			continue
		}

		if err = memberOrder.RejectCandidate(cmd.InterpreterID()); err != nil {
			return err
		}
		if err = ordersRepo.Update(ctx, memberOrder); err != nil {
			return err
		}
		rejectedAny = true
	}

	if group.Candidates().IsMatched(cmd.InterpreterID()) {
		if err = group.Candidates().MoveToRejected(cmd.InterpreterID()); err != nil {
			return err
		}
		if err = groupRepo.Update(ctx, group); err != nil {
			return err
		}
		rejectedAny = true
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if rejectedAny {
		h.notifier.Dispatch(ctx, ports.Notification{
			Kind:    ports.NotificationCancellation,
			OrderID: group.ID(),
			Targets: []kernel.UUID{cmd.InterpreterID()},
		})
	}
	return nil
}
